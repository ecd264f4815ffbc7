// SPDX-License-Identifier: MIT

// Package steady chains the stationary pipeline: household → value function
// and generator (hjb) → stationary distribution (kf) → aggregates and a flat
// per-state table for presentation layers.
//
// An outer equilibrium loop adjusts prices until Residual is zero; that loop
// is left to callers.
package steady

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/katalvlaran/hact/grid"
	"github.com/katalvlaran/hact/hjb"
	"github.com/katalvlaran/hact/kf"
	"github.com/katalvlaran/hact/sparse"
)

// Options bundles the stage options. Logger, when set, is passed to both stages.
type Options struct {
	HJB    []hjb.Option
	KF     []kf.Option
	Logger *slog.Logger
}

// Result is a solved stationary household block.
type Result struct {
	Household    hjb.Household
	Space        *grid.Space
	Solution     *hjb.Solution
	Distribution *kf.Distribution
}

// Solve runs the value-function iteration, checks the generator and solves
// the Kolmogorov-Forward equation.
func Solve(h hjb.Household, opts Options) (*Result, error) {
	log := opts.Logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	hopts := append(opts.HJB[:len(opts.HJB):len(opts.HJB)], hjb.WithLogger(log))
	sol, err := hjb.Solve(h, hopts...)
	if err != nil {
		return nil, fmt.Errorf("steady: value function: %w", err)
	}
	if err = sparse.ValidateGenerator(sol.Generator, sparse.DefaultGeneratorTol); err != nil {
		return nil, fmt.Errorf("steady: generator: %w", err)
	}

	space := h.Space()
	kopts := append(opts.KF[:len(opts.KF):len(opts.KF)], kf.WithLogger(log))
	dist, err := kf.Solve(sol.Generator, space.Weights(), kopts...)
	if err != nil {
		return nil, fmt.Errorf("steady: distribution: %w", err)
	}
	r := &Result{Household: h, Space: space, Solution: sol, Distribution: dist}
	for d := 0; d < space.Dims(); d++ {
		log.Info("steady: aggregate", "axis", space.Axis(d).Name(), "value", r.Aggregate(d))
	}

	return r, nil
}

// Aggregate returns Σ_s a_s·p_s for asset axis dim, i.e. ∫ a·g(a) da.
func (r *Result) Aggregate(dim int) float64 {
	return kf.Moment(r.Distribution, func(s int) float64 { return r.Space.Asset(s, dim) })
}

// Residual returns aggregate asset demand minus supply on axis dim, the
// market-clearing residual of an outer price loop.
func (r *Result) Residual(dim int, supply float64) float64 {
	return r.Aggregate(dim) - supply
}

// MeanControl returns Σ_s x_s·p_s for the control named name.
func (r *Result) MeanControl(name string) (float64, error) {
	x, ok := r.Solution.Control(name)
	if !ok {
		return 0, fmt.Errorf("steady: unknown control %q (have %v)", name, r.Solution.ControlNames)
	}
	return kf.Moment(r.Distribution, func(s int) float64 { return x[s] }), nil
}

// MeanDrift returns Σ_s ṡ_d·p_s. It vanishes at a stationary distribution.
func (r *Result) MeanDrift(dim int) float64 {
	return kf.Moment(r.Distribution, func(s int) float64 { return r.Solution.Drift[dim][s] })
}
