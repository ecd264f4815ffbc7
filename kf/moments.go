// SPDX-License-Identifier: MIT

package kf

import (
	"fmt"

	"github.com/katalvlaran/hact/grid"
)

// Moment returns Σ_s p_s·f(s), the expectation of f under d.
func Moment(d *Distribution, f func(s int) float64) float64 {
	var sum float64
	for s, p := range d.Mass {
		sum += p * f(s)
	}
	return sum
}

// Marginal returns the mass at each point of axis dim, summed over all other
// coordinates. Divide by the axis weights for a density.
func Marginal(space *grid.Space, d *Distribution, dim int) ([]float64, error) {
	if err := check(space, d); err != nil {
		return nil, err
	}
	if dim < 0 || dim >= space.Dims() {
		return nil, fmt.Errorf("Marginal: axis %d of %d: %w", dim, space.Dims(), ErrDimensionMismatch)
	}
	out := make([]float64, space.Axis(dim).Len())
	for s, p := range d.Mass {
		out[space.AssetIndex(s, dim)] += p
	}
	return out, nil
}

// IncomeMarginal returns the mass at each income level. For a generator
// built on the space it equals the stationary distribution of Λ.
func IncomeMarginal(space *grid.Space, d *Distribution) ([]float64, error) {
	if err := check(space, d); err != nil {
		return nil, err
	}
	out := make([]float64, space.Income().Len())
	for s, p := range d.Mass {
		out[space.IncomeIndex(s)] += p
	}
	return out, nil
}

func check(space *grid.Space, d *Distribution) error {
	if space == nil || d == nil || len(d.Mass) != space.Len() {
		return fmt.Errorf("kf: distribution does not match the space: %w", ErrDimensionMismatch)
	}
	return nil
}
