// SPDX-License-Identifier: MIT

package hjb

import (
	"fmt"
	"math"

	"github.com/katalvlaran/hact/grid"
)

// Axis positions of a TwoAsset space.
const (
	Liquid   = 0 // b
	Illiquid = 1 // a
)

// TwoAssetParams configures a household with a liquid and an illiquid asset.
type TwoAssetParams struct {
	Rho       float64 // discount rate ρ > 0
	RLiquid   float64 // return on b ≥ 0
	RBorrow   float64 // rate paid on b < 0; 0 means RLiquid
	RIlliquid float64 // return on a, ≥ 0
	W         float64 // wage; 0 means 1
	Xi        float64 // share ξ ∈ [0,1] of labor income paid into a
	Chi0      float64 // linear adjustment cost χ0 ∈ [0,1)
	Chi1      float64 // convex adjustment cost χ1 > 0
	AFloor    float64 // floor ā in χ1/2·d²/max(a, ā); 0 means 1e-5
	Utility   Utility // nil means CRRA{Sigma: 2}
}

// TwoAsset is the liquid/illiquid household:
//
//	ḃ = (1−ξ)·w·z + r_b(b)·b − d − χ(d, a) − c
//	ȧ = r_a·a + ξ·w·z + d
//	χ(d, a) = χ0·|d| + χ1/2 · d² / max(a, ā)
//
// Axis Liquid is b, axis Illiquid is a. At a_max the illiquid return r_a·a + ξ·w·z
// is paid into b instead, so a never drifts above its ceiling.
type TwoAsset struct {
	space   *grid.Space
	utility Utility
	p       TwoAssetParams
}

var _ Household = (*TwoAsset)(nil)

// NewTwoAsset validates the parameters against a two-axis space.
//
// Errors (all wrap ErrInvalidModel):
//   - the space does not have exactly two asset axes, or a_min < 0.
//   - ρ ≤ 0, χ0 ∉ [0,1), χ1 ≤ 0, ξ ∉ [0,1], r_a < 0 or non-finite values.
//   - non-positive income levels, or non-positive cash at b_min.
func NewTwoAsset(space *grid.Space, p TwoAssetParams) (*TwoAsset, error) {
	if space == nil || space.Dims() != 2 {
		return nil, fmt.Errorf("two asset: need a space with axes (b, a): %w", ErrInvalidModel)
	}
	for _, x := range []float64{p.Rho, p.RLiquid, p.RBorrow, p.RIlliquid, p.W, p.Xi, p.Chi0, p.Chi1, p.AFloor} {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return nil, fmt.Errorf("two asset: non-finite parameter %g: %w", x, ErrInvalidModel)
		}
	}
	switch {
	case p.Rho <= 0:
		return nil, fmt.Errorf("two asset: rho %g must be positive: %w", p.Rho, ErrInvalidModel)
	case p.Chi0 < 0 || p.Chi0 >= 1:
		return nil, fmt.Errorf("two asset: chi0 %g outside [0,1): %w", p.Chi0, ErrInvalidModel)
	case p.Chi1 <= 0:
		return nil, fmt.Errorf("two asset: chi1 %g must be positive: %w", p.Chi1, ErrInvalidModel)
	case p.Xi < 0 || p.Xi > 1:
		return nil, fmt.Errorf("two asset: xi %g outside [0,1]: %w", p.Xi, ErrInvalidModel)
	case p.RIlliquid < 0:
		return nil, fmt.Errorf("two asset: illiquid return %g must be ≥ 0: %w", p.RIlliquid, ErrInvalidModel)
	case p.W < 0 || p.AFloor < 0:
		return nil, fmt.Errorf("two asset: w=%g and a_floor=%g must be ≥ 0: %w", p.W, p.AFloor, ErrInvalidModel)
	case space.Axis(Illiquid).Min() < 0:
		return nil, fmt.Errorf("two asset: illiquid grid starts below zero (%g): %w",
			space.Axis(Illiquid).Min(), ErrInvalidModel)
	}
	if p.W == 0 {
		p.W = 1
	}
	if p.RBorrow == 0 {
		p.RBorrow = p.RLiquid
	}
	if p.AFloor == 0 {
		p.AFloor = 1e-5
	}
	if p.Utility == nil {
		p.Utility = CRRA{Sigma: 2}
	}
	h := &TwoAsset{space: space, utility: p.Utility, p: p}

	income := space.Income()
	bmin := space.Axis(Liquid).Min()
	for iz := 0; iz < income.Len(); iz++ {
		z := income.Level(iz)
		if !(z > 0) {
			return nil, fmt.Errorf("two asset: income level %d is %g, need > 0: %w", iz, z, ErrInvalidModel)
		}
		if cash := (1-p.Xi)*p.W*z + h.liquidRate(bmin)*bmin; !(cash > 0) {
			return nil, fmt.Errorf("two asset: cash on hand %g ≤ 0 at b_min=%g, z=%g: %w",
				cash, bmin, z, ErrInvalidModel)
		}
	}

	return h, nil
}

// Space returns the (b, a) state space.
func (h *TwoAsset) Space() *grid.Space { return h.space }

// Discount returns ρ.
func (h *TwoAsset) Discount() float64 { return h.p.Rho }

// Controls returns {"c", "d"}.
func (h *TwoAsset) Controls() []string { return []string{"c", "d"} }

// Utility returns the flow utility.
func (h *TwoAsset) Utility() Utility { return h.utility }

// Params returns the parameters with defaults filled in.
func (h *TwoAsset) Params() TwoAssetParams { return h.p }

func (h *TwoAsset) liquidRate(b float64) float64 {
	if b < 0 {
		return h.p.RBorrow
	}
	return h.p.RLiquid
}

// flows returns liquid cash on hand and the exogenous illiquid drift at s.
func (h *TwoAsset) flows(s int) (cash, illiquid float64) {
	b, a := h.space.Asset(s, Liquid), h.space.Asset(s, Illiquid)
	wz := h.p.W * h.space.IncomeLevel(s)
	cash = (1-h.p.Xi)*wz + h.liquidRate(b)*b
	illiquid = h.p.RIlliquid*a + h.p.Xi*wz
	if h.space.AtUpper(s, Illiquid) {
		cash += illiquid
		illiquid = 0
	}

	return cash, illiquid
}

// Income returns total resources w·z + r_b(b)·b + r_a·a at s.
func (h *TwoAsset) Income(s int) float64 {
	b, a := h.space.Asset(s, Liquid), h.space.Asset(s, Illiquid)
	return h.p.W*h.space.IncomeLevel(s) + h.liquidRate(b)*b + h.p.RIlliquid*a
}

// AdjustmentCost returns χ(d, a).
func (h *TwoAsset) AdjustmentCost(d, a float64) float64 {
	return h.p.Chi0*math.Abs(d) + 0.5*h.p.Chi1*d*d/math.Max(a, h.p.AFloor)
}

// deposit solves the kinked first-order condition va/vb = 1 + χ_d(d, a):
//
//	d = (va/vb − 1 − χ0)·ā/χ1  when va/vb > 1 + χ0
//	d = (va/vb − 1 + χ0)·ā/χ1  when va/vb < 1 − χ0
//	d = 0                      otherwise (inaction region)
func (h *TwoAsset) deposit(va, vb, abar float64) float64 {
	vb = math.Max(vb, minSlope)
	ratio := va / vb
	switch {
	case ratio > 1+h.p.Chi0:
		return (ratio - 1 - h.p.Chi0) * abar / h.p.Chi1
	case ratio < 1-h.p.Chi0:
		return (ratio - 1 + h.p.Chi0) * abar / h.p.Chi1
	default:
		return 0
	}
}

// Guess returns u(w·z + r_b·b + r_a·a)/ρ.
func (h *TwoAsset) Guess(s int) float64 { return h.utility.U(h.Income(s)) / h.p.Rho }

// BoundarySlope returns u'(cash) on the liquid edges and the inward
// difference on the illiquid edges, where deposits are blocked instead.
func (h *TwoAsset) BoundarySlope(s, dim int, _ grid.Side, inward float64) float64 {
	if dim == Illiquid {
		return inward
	}
	cash, _ := h.flows(s)

	return h.utility.Marginal(cash)
}

// Choose upwinds consumption on b and the deposit on a.
//
// Deposits (d > 0) pair V_a^F with V_b^B, withdrawals (d < 0) pair V_a^B with V_b^F.
// A deposit is blocked at b_min and a_max, a withdrawal at a_min and b_max; a
// deposit whose liquid outflow would still point off the grid is dropped.
func (h *TwoAsset) Choose(s int, fwd, bwd []float64, out *Choice) {
	sp := h.space
	atBmin, atBmax := sp.AtLower(s, Liquid), sp.AtUpper(s, Liquid)
	atAmin, atAmax := sp.AtLower(s, Illiquid), sp.AtUpper(s, Illiquid)

	cash, illiquid := h.flows(s)
	cons := Upwind(h.utility, cash, fwd[Liquid], bwd[Liquid], !atBmax, !atBmin)

	a := sp.Asset(s, Illiquid)
	abar := math.Max(a, h.p.AFloor)
	var d float64
	if !atBmin && !atAmax {
		if x := h.deposit(fwd[Illiquid], bwd[Liquid], abar); x > 0 {
			d = x
		}
	}
	if d == 0 && !atAmin && !atBmax {
		if x := h.deposit(bwd[Illiquid], fwd[Liquid], abar); x < 0 {
			d = x
		}
	}
	outflow := -d - h.AdjustmentCost(d, a)
	if (outflow < 0 && atBmin) || (outflow > 0 && atBmax) {
		d, outflow = 0, 0
	}

	out.Reward = h.utility.U(cons.C)
	out.Controls[0] = cons.C
	out.Controls[1] = d

	cu, cd := split(cons.Drift)
	du, dd := split(outflow)
	out.Up[Liquid], out.Down[Liquid] = cu+du, cd+dd
	out.Drift[Liquid] = cons.Drift + outflow

	xu, xd := split(d)
	out.Up[Illiquid], out.Down[Illiquid] = illiquid+xu, xd
	out.Drift[Illiquid] = illiquid + d
}
