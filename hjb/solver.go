// SPDX-License-Identifier: MIT
// Package: hjb
//
// Purpose:
//   - Value-function iteration: difference → choose → assemble → step → check.
//   - One coordinate arena and one linear solver are reused across iterations.
//
// Determinism:
//   - States are visited in index order; assembly is order-independent anyway
//     because the arena sums duplicates after sorting.

package hjb

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/katalvlaran/hact/grid"
	"github.com/katalvlaran/hact/sparse"
)

// Solver runs value-function iteration for one household. It holds the
// household and the options only, so Solve may be called repeatedly.
type Solver struct {
	h    Household
	opts options
}

// NewSolver validates the household against the options.
//
// Errors:
//   - ErrInvalidModel for a nil household or space, ρ ≤ 0, or a warm start
//     whose length differs from the number of states.
func NewSolver(h Household, opts ...Option) (*Solver, error) {
	if h == nil || h.Space() == nil {
		return nil, fmt.Errorf("hjb: nil household or space: %w", ErrInvalidModel)
	}
	if rho := h.Discount(); !(rho > 0) || math.IsInf(rho, 0) {
		return nil, fmt.Errorf("hjb: discount rate %g must be positive: %w", rho, ErrInvalidModel)
	}
	o := gatherOptions(opts)
	if n := h.Space().Len(); o.v0 != nil && len(o.v0) != n {
		return nil, fmt.Errorf("hjb: initial value has %d entries, space has %d states: %w",
			len(o.v0), n, ErrInvalidModel)
	}

	return &Solver{h: h, opts: o}, nil
}

// Solve is NewSolver(h, opts...).Solve().
func Solve(h Household, opts ...Option) (*Solution, error) {
	s, err := NewSolver(h, opts...)
	if err != nil {
		return nil, err
	}
	return s.Solve()
}

// Household returns the household being solved.
func (s *Solver) Household() Household { return s.h }

// Solve iterates from the warm start (or Household.Guess) until
// max|v^{n+1} − v^n| < tol. Policy, drifts and generator of the returned
// Solution are evaluated at the converged V.
//
// Errors:
//   - *ConvergenceError (matches ErrConvergence) after MaxIter iterations.
//   - ErrNonFinite when a value, reward or drift is NaN or ±Inf.
//   - sparse.ErrSingular (wrapped) if the implicit system cannot be factorized.
func (s *Solver) Solve() (*Solution, error) {
	it, err := newIterator(s.h, &s.opts)
	if err != nil {
		return nil, err
	}
	log := s.opts.logger
	v := s.initial()
	next := make([]float64, len(v))
	residuals := make([]float64, 0, s.opts.maxIter)

	log.Debug("hjb: start", "states", it.n, "dims", it.dims, "scheme", s.opts.scheme.String(),
		"dt", s.opts.dt, "tol", s.opts.tol, "status", Initializing.String())

	var (
		dt   float64
		dist float64
	)
	for n := 1; n <= s.opts.maxIter; n++ {
		it.iter = n
		if _, dt, err = it.update(v, next); err != nil {
			return nil, err
		}
		dist = floats.Distance(next, v, math.Inf(1))
		residuals = append(residuals, dist)
		log.Debug("hjb: iteration", "iter", n, "residual", dist, "dt", dt, "status", Iterating.String())
		v, next = next, v

		if dist < s.opts.tol {
			// re-evaluate at the returned V without recording diagnostics twice
			it.quiet = true
			A, err := it.assemble(v)
			if err != nil {
				return nil, err
			}
			if it.diags.NonConcaveCount > 0 {
				log.Warn("hjb: non-concave iterates", "points", it.diags.NonConcaveCount,
					"kept", len(it.diags.NonConcave))
			}
			log.Info("hjb: converged", "iterations", n, "residual", dist, "status", Converged.String())

			return &Solution{
				Space:        it.space,
				V:            v,
				Reward:       it.reward,
				ControlNames: s.h.Controls(),
				Controls:     it.controls,
				Drift:        it.drift,
				Generator:    A,
				Iterations:   n,
				Residuals:    residuals,
				TimeStep:     dt,
				Status:       Converged,
				Diagnostics:  it.diags,
			}, nil
		}
	}
	log.Warn("hjb: no convergence", "iterations", s.opts.maxIter, "residual", dist,
		"status", MaxIterExceeded.String())

	return nil, &ConvergenceError{
		Iterations: s.opts.maxIter,
		Residual:   dist,
		Tolerance:  s.opts.tol,
		Status:     MaxIterExceeded,
	}
}

// Step performs a single iteration from v and returns v'. At a converged
// value function the result differs from v by less than the tolerance.
func (s *Solver) Step(v []float64) ([]float64, error) {
	if len(v) != s.h.Space().Len() {
		return nil, fmt.Errorf("hjb: Step: %d values for %d states: %w", len(v), s.h.Space().Len(), ErrInvalidModel)
	}
	it, err := newIterator(s.h, &s.opts)
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(v))
	if _, _, err = it.update(v, out); err != nil {
		return nil, err
	}

	return out, nil
}

func (s *Solver) initial() []float64 {
	if s.opts.v0 != nil {
		return append([]float64(nil), s.opts.v0...)
	}
	v := make([]float64, s.h.Space().Len())
	for i := range v {
		v[i] = s.h.Guess(i)
	}
	return v
}

// iterator owns the per-solve scratch space.
type iterator struct {
	h     Household
	space *grid.Space
	opts  *options
	n     int
	dims  int
	rho   float64
	iter  int
	quiet bool // skip diagnostics (final re-evaluation)

	fwd, bwd []float64
	choice   Choice
	arena    *sparse.Builder
	lin      sparse.Solver
	rhs      []float64

	reward   []float64
	controls [][]float64
	drift    [][]float64
	diags    Diagnostics
}

func newIterator(h Household, o *options) (*iterator, error) {
	sp := h.Space()
	n, dims, nc := sp.Len(), sp.Dims(), len(h.Controls())
	arena, err := sparse.NewBuilder(n, sp.Switching().NNZ()+n*(1+2*dims))
	if err != nil {
		return nil, fmt.Errorf("hjb: %w", err)
	}
	it := &iterator{
		h:        h,
		space:    sp,
		opts:     o,
		n:        n,
		dims:     dims,
		rho:      h.Discount(),
		fwd:      make([]float64, dims),
		bwd:      make([]float64, dims),
		choice:   newChoice(dims, nc),
		arena:    arena,
		lin:      sparse.NewSolver(o.backend),
		rhs:      make([]float64, n),
		reward:   make([]float64, n),
		controls: make([][]float64, nc),
		drift:    make([][]float64, dims),
	}
	for k := range it.controls {
		it.controls[k] = make([]float64, n)
	}
	for d := range it.drift {
		it.drift[d] = make([]float64, n)
	}

	return it, nil
}

// differences fills it.fwd and it.bwd at state s, substituting boundary
// slopes on the edges and recording interior non-concavity.
func (it *iterator) differences(v []float64, s int) {
	sp := it.space
	var up, dn int
	for d := 0; d < it.dims; d++ {
		up, dn = sp.Neighbor(s, d, grid.Forward), sp.Neighbor(s, d, grid.Backward)
		if up >= 0 {
			it.fwd[d] = (v[up] - v[s]) / sp.Width(s, d, grid.Forward)
		}
		if dn >= 0 {
			it.bwd[d] = (v[s] - v[dn]) / sp.Width(s, d, grid.Backward)
		}
		switch {
		case up < 0:
			it.fwd[d] = it.h.BoundarySlope(s, d, grid.Forward, it.bwd[d])
		case dn < 0:
			it.bwd[d] = it.h.BoundarySlope(s, d, grid.Backward, it.fwd[d])
		case !it.quiet && it.fwd[d] > it.bwd[d]:
			it.diags.noteNonConcave(it.opts.maxDiags, NonConcavity{
				Iteration: it.iter, State: s, Dim: d, Backward: it.bwd[d], Forward: it.fwd[d],
			})
		}
	}
}

// assemble evaluates the policy at v, stores reward, controls and drifts and
// returns the generator A = A_drift + A_switch.
func (it *iterator) assemble(v []float64) (*sparse.CSR, error) {
	sp := it.space
	it.arena.Reset()
	it.arena.AddMatrix(sp.Switching())

	ch := &it.choice
	var (
		nb         int
		rate, diag float64
	)
	for s := 0; s < it.n; s++ {
		it.differences(v, s)
		ch.reset()
		it.h.Choose(s, it.fwd, it.bwd, ch)
		if !isFinite(ch.Reward) {
			return nil, fmt.Errorf("hjb: iteration %d: reward %g at state %d: %w", it.iter, ch.Reward, s, ErrNonFinite)
		}
		it.reward[s] = ch.Reward
		for k, c := range ch.Controls {
			it.controls[k][s] = c
		}

		diag = 0
		for d := 0; d < it.dims; d++ {
			if !isFinite(ch.Up[d]) || !isFinite(ch.Down[d]) {
				return nil, fmt.Errorf("hjb: iteration %d: drift (%g, %g) at state %d dim %d: %w",
					it.iter, ch.Up[d], ch.Down[d], s, d, ErrNonFinite)
			}
			it.drift[d][s] = ch.Drift[d]
			if ch.Up[d] > 0 {
				if nb = sp.Neighbor(s, d, grid.Forward); nb >= 0 {
					rate = ch.Up[d] / sp.Width(s, d, grid.Forward)
					it.arena.Add(s, nb, rate)
					diag -= rate
				} else {
					if !it.quiet {
						it.diags.Truncated++
					}
					it.drift[d][s] -= ch.Up[d]
				}
			}
			if ch.Down[d] > 0 {
				if nb = sp.Neighbor(s, d, grid.Backward); nb >= 0 {
					rate = ch.Down[d] / sp.Width(s, d, grid.Backward)
					it.arena.Add(s, nb, rate)
					diag -= rate
				} else {
					if !it.quiet {
						it.diags.Truncated++
					}
					it.drift[d][s] += ch.Down[d]
				}
			}
		}
		it.arena.Add(s, s, diag)
	}

	A, err := it.arena.Build()
	if err != nil {
		return nil, fmt.Errorf("hjb: iteration %d: generator: %w", it.iter, err)
	}

	return A, nil
}

// update writes v^{n+1} into next and returns the generator and the Δt used.
func (it *iterator) update(v, next []float64) (*sparse.CSR, float64, error) {
	A, err := it.assemble(v)
	if err != nil {
		return nil, 0, err
	}
	dt := it.opts.dt

	switch it.opts.scheme {
	case Explicit:
		var maxDiag float64
		for _, a := range A.Diagonal() {
			maxDiag = math.Max(maxDiag, math.Abs(a))
		}
		dt = math.Min(dt, explicitSafety/(it.rho+maxDiag))
		if err = A.MulVec(it.rhs, v); err != nil {
			return nil, 0, fmt.Errorf("hjb: iteration %d: %w", it.iter, err)
		}
		for i := range next {
			next[i] = v[i] + dt*(it.reward[i]+it.rhs[i]-it.rho*v[i])
		}
	default:
		B, err := A.IdentityMinus(1/dt + it.rho)
		if err != nil {
			return nil, 0, fmt.Errorf("hjb: iteration %d: %w", it.iter, err)
		}
		if err = it.lin.Factorize(B); err != nil {
			return nil, 0, fmt.Errorf("hjb: iteration %d: implicit system: %w", it.iter, err)
		}
		for i := range it.rhs {
			it.rhs[i] = it.reward[i] + v[i]/dt
		}
		if err = it.lin.Solve(next, it.rhs); err != nil {
			return nil, 0, fmt.Errorf("hjb: iteration %d: implicit system: %w", it.iter, err)
		}
	}

	for i, x := range next {
		if !isFinite(x) {
			return nil, 0, fmt.Errorf("hjb: iteration %d: v[%d] = %g: %w", it.iter, i, x, ErrNonFinite)
		}
	}

	return A, dt, nil
}

func isFinite(x float64) bool { return !math.IsNaN(x) && !math.IsInf(x, 0) }
