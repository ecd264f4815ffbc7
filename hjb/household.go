// SPDX-License-Identifier: MIT

package hjb

import (
	"math"

	"github.com/katalvlaran/hact/grid"
)

// Household is the capability a model variant exposes to the solver.
//
// Contract:
//   - Space, Discount and Controls are constant for the lifetime of the value.
//   - Choose is called once per state and iteration with fwd[d] = D^F v and
//     bwd[d] = D^B v along every axis d (boundary slopes already substituted).
//     It must fill every field of out; Up and Down are drift magnitudes ≥ 0,
//     not yet divided by cell widths.
//   - Choose must never request a drift that leaves the grid: Up[d] > 0 on the
//     upper edge or Down[d] > 0 on the lower edge is dropped by the solver and
//     counted in Diagnostics.Truncated.
type Household interface {
	// Space returns the discretized state space.
	Space() *grid.Space
	// Discount returns ρ > 0.
	Discount() float64
	// Controls names the entries of Choice.Controls, e.g. {"c"} or {"c", "d"}.
	Controls() []string
	// Guess returns the initial value v0(s).
	Guess(s int) float64
	// BoundarySlope returns the derivative substituted for the missing
	// one-sided difference of axis dim at the given edge. inward is the
	// difference that does exist, for variants without a state constraint there.
	BoundarySlope(s, dim int, side grid.Side, inward float64) float64
	// Choose applies the first-order conditions and the upwind rule at state s.
	Choose(s int, fwd, bwd []float64, out *Choice)
}

// Choice is the optimal decision at one state.
type Choice struct {
	Reward   float64   // u(c)
	Controls []float64 // in Household.Controls order
	Drift    []float64 // net drift per axis, Up[d] − Down[d]
	Up       []float64 // forward drift per axis (≥ 0)
	Down     []float64 // backward drift magnitude per axis (≥ 0)
}

// newChoice allocates a Choice for dims axes and nc controls.
func newChoice(dims, nc int) Choice {
	return Choice{
		Controls: make([]float64, nc),
		Drift:    make([]float64, dims),
		Up:       make([]float64, dims),
		Down:     make([]float64, dims),
	}
}

func (c *Choice) reset() {
	c.Reward = 0
	for i := range c.Controls {
		c.Controls[i] = 0
	}
	for d := range c.Drift {
		c.Drift[d], c.Up[d], c.Down[d] = 0, 0, 0
	}
}

// Direction is the side an upwind selection took.
type Direction int

const (
	// Stay means zero drift: consumption equals cash on hand.
	Stay Direction = iota
	// Ahead uses the forward difference (positive drift).
	Ahead
	// Behind uses the backward difference (negative drift).
	Behind
)

// String returns "stay", "forward" or "backward".
func (d Direction) String() string {
	switch d {
	case Ahead:
		return "forward"
	case Behind:
		return "backward"
	default:
		return "stay"
	}
}

// minSlope floors derivatives fed to InverseMarginal. A non-positive slope
// (a locally decreasing guess) then maps to a large but finite consumption.
const minSlope = 1e-10

// UpwindChoice is the outcome of the one-dimensional upwind rule.
type UpwindChoice struct {
	C     float64   // consumption
	Drift float64   // cash − C
	Slope float64   // derivative the choice was taken at
	Side  Direction // which difference was used
}

// Upwind applies the upwind rule to a consumption choice financed from cash
// on hand along one axis:
//
//	c^F = (u')⁻¹(fwd), s^F = cash − c^F;  c^B = (u')⁻¹(bwd), s^B = cash − c^B
//	forward if s^F > 0 and canForward; else backward if s^B < 0 and canBackward;
//	else stay with c = cash and zero drift.
//
// canForward is false on the upper edge and canBackward false on the lower
// edge, so the chosen drift never points off the grid.
func Upwind(u Utility, cash, fwd, bwd float64, canForward, canBackward bool) UpwindChoice {
	if canForward {
		p := math.Max(fwd, minSlope)
		c := u.InverseMarginal(p)
		if s := cash - c; s > 0 {
			return UpwindChoice{C: c, Drift: s, Slope: p, Side: Ahead}
		}
	}
	if canBackward {
		p := math.Max(bwd, minSlope)
		c := u.InverseMarginal(p)
		if s := cash - c; s < 0 {
			return UpwindChoice{C: c, Drift: s, Slope: p, Side: Behind}
		}
	}

	return UpwindChoice{C: cash, Drift: 0, Slope: u.Marginal(cash), Side: Stay}
}

// split returns the forward and backward magnitudes of a signed drift.
func split(x float64) (up, down float64) {
	if x > 0 {
		return x, 0
	}
	return 0, -x
}
