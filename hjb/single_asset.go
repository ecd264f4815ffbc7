// SPDX-License-Identifier: MIT

package hjb

import (
	"fmt"
	"math"

	"github.com/katalvlaran/hact/grid"
)

// SingleAssetParams configures a Huggett/Aiyagari household.
type SingleAssetParams struct {
	Rho     float64 // discount rate ρ > 0
	R       float64 // interest rate on the asset
	W       float64 // wage multiplying the income level; 0 means 1
	Utility Utility // flow utility; nil means CRRA{Sigma: 2}
}

// SingleAsset is the one-asset household: ȧ = w·z + r·a − c with a ≥ a_min.
type SingleAsset struct {
	space   *grid.Space
	utility Utility
	rho     float64
	r       float64
	w       float64
}

var _ Household = (*SingleAsset)(nil)

// NewSingleAsset validates the parameters against the space.
//
// Errors (all wrap ErrInvalidModel):
//   - space is nil or has more than one asset axis.
//   - ρ ≤ 0, w < 0 or any parameter is non-finite.
//   - cash on hand w·z + r·a_min is not positive for some income level: the
//     borrowing limit lies beyond the natural one and u'(c) is undefined there.
func NewSingleAsset(space *grid.Space, p SingleAssetParams) (*SingleAsset, error) {
	if space == nil || space.Dims() != 1 {
		return nil, fmt.Errorf("single asset: need a space with exactly one asset axis: %w", ErrInvalidModel)
	}
	if !(p.Rho > 0) || math.IsInf(p.Rho, 0) {
		return nil, fmt.Errorf("single asset: rho %g must be positive: %w", p.Rho, ErrInvalidModel)
	}
	if math.IsNaN(p.R) || math.IsInf(p.R, 0) || math.IsNaN(p.W) || math.IsInf(p.W, 0) || p.W < 0 {
		return nil, fmt.Errorf("single asset: r=%g w=%g must be finite, w ≥ 0: %w", p.R, p.W, ErrInvalidModel)
	}
	if p.W == 0 {
		p.W = 1
	}
	if p.Utility == nil {
		p.Utility = CRRA{Sigma: 2}
	}
	h := &SingleAsset{space: space, utility: p.Utility, rho: p.Rho, r: p.R, w: p.W}

	amin := space.Axis(0).Min()
	income := space.Income()
	for iz := 0; iz < income.Len(); iz++ {
		if cash := h.w*income.Level(iz) + h.r*amin; !(cash > 0) {
			return nil, fmt.Errorf("single asset: cash on hand %g ≤ 0 at a_min=%g, z=%g: %w",
				cash, amin, income.Level(iz), ErrInvalidModel)
		}
	}

	return h, nil
}

// Space returns the one-axis state space.
func (h *SingleAsset) Space() *grid.Space { return h.space }

// Discount returns ρ.
func (h *SingleAsset) Discount() float64 { return h.rho }

// Controls returns {"c"}.
func (h *SingleAsset) Controls() []string { return []string{"c"} }

// Utility returns the flow utility.
func (h *SingleAsset) Utility() Utility { return h.utility }

// Cash returns w·z + r·a at state s.
func (h *SingleAsset) Cash(s int) float64 {
	return h.w*h.space.IncomeLevel(s) + h.r*h.space.Asset(s, 0)
}

// Guess returns u(w·z + r·a)/ρ, the value of consuming cash on hand forever.
func (h *SingleAsset) Guess(s int) float64 { return h.utility.U(h.Cash(s)) / h.rho }

// BoundarySlope returns u'(cash) on both edges: zero drift at a_min (state
// constraint) and at a_max (grid ceiling).
func (h *SingleAsset) BoundarySlope(s, _ int, _ grid.Side, _ float64) float64 {
	return h.utility.Marginal(h.Cash(s))
}

// Choose picks consumption by the upwind rule.
func (h *SingleAsset) Choose(s int, fwd, bwd []float64, out *Choice) {
	cash := h.Cash(s)
	up := Upwind(h.utility, cash, fwd[0], bwd[0], !h.space.AtUpper(s, 0), !h.space.AtLower(s, 0))
	out.Reward = h.utility.U(up.C)
	out.Controls[0] = up.C
	out.Drift[0] = up.Drift
	out.Up[0], out.Down[0] = split(up.Drift)
}
