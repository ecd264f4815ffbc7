// SPDX-License-Identifier: MIT
// Package: kf
//
// Purpose:
//   - Unified entry point: validate inputs, route to the method, normalize.
//   - All methods produce mass p; Solve derives the density g = p/ω.

package kf

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/katalvlaran/hact/sparse"
)

// Distribution is a stationary distribution on the state space.
type Distribution struct {
	Mass       []float64 // p_s, Σ p = 1
	Density    []float64 // g_s = p_s/ω_s, Σ g·ω = 1
	Method     Method
	Warnings   []string
	Iterations int     // Power only
	Eigenvalue float64 // Eigen only: |λ| of the selected eigenvalue
}

// negativeSlack is how far below zero a normalized mass entry may sit before
// the result is rejected; rounding below it is clipped to 0.
const negativeSlack = 1e-10

// Solve computes the stationary distribution of generator A.
//
// Stages:
//  1. validate A, weights and method-specific options;
//  2. route by method;
//  3. normalize to Σ p = 1, clip rounding noise, derive the density.
//
// Errors: ErrDimensionMismatch, ErrInvalidWeights, ErrSingularSystem,
// ErrTooLarge, ErrEigen, ErrNonFinite, ErrNotConverged, ErrUnknownMethod.
func Solve(A *sparse.CSR, weights []float64, opts ...Option) (*Distribution, error) {
	o := gatherOptions(opts)

	// Stage 1 - validation.
	if A == nil {
		return nil, fmt.Errorf("Solve: nil generator: %w", ErrDimensionMismatch)
	}
	n := A.N()
	if len(weights) != n {
		return nil, fmt.Errorf("Solve: %d weights for %d states: %w", len(weights), n, ErrDimensionMismatch)
	}
	for i, w := range weights {
		if !positive(w) {
			return nil, fmt.Errorf("Solve: weight[%d] = %g: %w", i, w, ErrInvalidWeights)
		}
	}

	// Stage 2 - route by method.
	var (
		d   = &Distribution{Method: o.method}
		err error
	)
	switch o.method {
	case Direct:
		d.Mass, err = solveDirect(A, &o)
	case Eigen:
		d.Mass, d.Eigenvalue, err = solveEigen(A, &o)
		if err == nil && d.Eigenvalue > DefaultEigenWarning {
			d.Warnings = append(d.Warnings,
				fmt.Sprintf("eigenvalue closest to zero is %.3e (> %.0e): generator may be ill-posed",
					d.Eigenvalue, DefaultEigenWarning))
		}
	case Relaxation:
		d.Mass, err = solveRelaxation(A, &o)
	case Power:
		d.Mass, d.Iterations, err = solvePower(A, &o)
	default:
		return nil, fmt.Errorf("Solve: %v: %w", o.method, ErrUnknownMethod)
	}
	if err != nil {
		return nil, err
	}

	// Stage 3 - normalization.
	if err = normalize(d.Mass); err != nil {
		return nil, fmt.Errorf("Solve(%v): %w", o.method, err)
	}
	d.Density = make([]float64, n)
	floats.DivTo(d.Density, d.Mass, weights)
	for _, w := range d.Warnings {
		o.logger.Warn("kf: "+w, "method", o.method.String())
	}
	o.logger.Debug("kf: solved", "method", o.method.String(), "states", n, "iterations", d.Iterations)

	return d, nil
}

// normalize scales p to sum 1 and clips rounding noise below zero. It fails
// with ErrSingularSystem when p cannot be a distribution.
func normalize(p []float64) error {
	sum := floats.Sum(p)
	if math.IsNaN(sum) || math.IsInf(sum, 0) {
		return ErrNonFinite
	}
	if !(sum > 0) {
		// An eigenvector may come out with a negative sign.
		if sum < 0 && floats.Max(p) <= negativeSlack*math.Abs(sum) {
			floats.Scale(-1, p)
			sum = -sum
		} else {
			return fmt.Errorf("mass sums to %g: %w", sum, ErrSingularSystem)
		}
	}
	floats.Scale(1/sum, p)
	for i, x := range p {
		if x < 0 {
			if x < -negativeSlack {
				return fmt.Errorf("mass[%d] = %g < 0: %w", i, x, ErrSingularSystem)
			}
			p[i] = 0
		}
	}

	return nil
}

// uniform returns n equal masses.
func uniform(n int) []float64 {
	p := make([]float64, n)
	for i := range p {
		p[i] = 1 / float64(n)
	}
	return p
}
