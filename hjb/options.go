// SPDX-License-Identifier: MIT
// Package: hjb
//
// Purpose:
//   - Functional options for the value-function iteration.
//   - Defaults follow the reference implicit scheme: Δt = 1000, tol = 1e-6, 100 iterations.
//
// Contract:
//   - WithX constructors panic on nonsensical values (programmer error) with a
//     stable message; everything else is reported as an error by Solve.

package hjb

import (
	"io"
	"log/slog"
	"math"

	"github.com/katalvlaran/hact/sparse"
)

// Scheme selects the pseudo-time update.
type Scheme int

const (
	// Implicit solves ((1/Δt + ρ)·I − A) v' = u + v/Δt. Unconditionally stable.
	Implicit Scheme = iota
	// Explicit updates v' = v + Δt·(u + A·v − ρ·v) with Δt capped at the
	// monotonicity bound 1/(ρ + max|A_ii|). Slow; kept as a cross-check.
	Explicit
)

// String returns "implicit" or "explicit".
func (s Scheme) String() string {
	if s == Explicit {
		return "explicit"
	}
	return "implicit"
}

// ParseScheme maps "implicit" or "explicit" to a Scheme. The empty string is Implicit.
func ParseScheme(s string) (Scheme, bool) {
	switch s {
	case "", "implicit":
		return Implicit, true
	case "explicit":
		return Explicit, true
	default:
		return Implicit, false
	}
}

// Defaults.
const (
	DefaultTimeStep       = 1000.0
	DefaultTolerance      = 1e-6
	DefaultMaxIterations  = 100
	DefaultMaxDiagnostics = 50

	// explicitSafety scales the explicit stability bound.
	explicitSafety = 0.9
)

const (
	panicTimeStep       = "hjb: WithTimeStep: dt must be finite and > 0"
	panicTolerance      = "hjb: WithTolerance: tol must be finite and > 0"
	panicMaxIterations  = "hjb: WithMaxIterations: n must be > 0"
	panicScheme         = "hjb: WithScheme: unknown scheme"
	panicMaxDiagnostics = "hjb: WithMaxDiagnostics: n must be ≥ 0"
	panicLinearSolver   = "hjb: WithLinearSolver: unknown backend"
)

// Option mutates solver options.
type Option func(*options)

type options struct {
	dt       float64
	tol      float64
	maxIter  int
	scheme   Scheme
	v0       []float64 // warm start; nil means Household.Guess
	backend  sparse.Backend
	logger   *slog.Logger
	maxDiags int
}

func defaultOptions() options {
	return options{
		dt:       DefaultTimeStep,
		tol:      DefaultTolerance,
		maxIter:  DefaultMaxIterations,
		scheme:   Implicit,
		backend:  sparse.Banded,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		maxDiags: DefaultMaxDiagnostics,
	}
}

func gatherOptions(opts []Option) options {
	o := defaultOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	return o
}

// WithTimeStep sets the pseudo-time step Δt.
func WithTimeStep(dt float64) Option {
	if !(dt > 0) || math.IsInf(dt, 0) {
		panic(panicTimeStep)
	}
	return func(o *options) { o.dt = dt }
}

// WithTolerance sets the sup-norm stopping tolerance on |v' − v|.
func WithTolerance(tol float64) Option {
	if !(tol > 0) || math.IsInf(tol, 0) {
		panic(panicTolerance)
	}
	return func(o *options) { o.tol = tol }
}

// WithMaxIterations caps the number of iterations before *ConvergenceError.
func WithMaxIterations(n int) Option {
	if n <= 0 {
		panic(panicMaxIterations)
	}
	return func(o *options) { o.maxIter = n }
}

// WithScheme selects Implicit or Explicit updates.
func WithScheme(s Scheme) Option {
	if s != Implicit && s != Explicit {
		panic(panicScheme)
	}
	return func(o *options) { o.scheme = s }
}

// WithInitialValue warm-starts the iteration from v0 (copied). Its length is
// checked against the space when solving.
func WithInitialValue(v0 []float64) Option {
	cp := append([]float64(nil), v0...)
	return func(o *options) { o.v0 = cp }
}

// WithLinearSolver selects the backend of the implicit step.
func WithLinearSolver(b sparse.Backend) Option {
	if b != sparse.Banded && b != sparse.Dense {
		panic(panicLinearSolver)
	}
	return func(o *options) { o.backend = b }
}

// WithLogger routes progress records to l. A nil logger keeps the default,
// which discards everything.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithMaxDiagnostics caps how many non-concavity points are kept in
// Diagnostics.NonConcave. Counting continues past the cap.
func WithMaxDiagnostics(n int) Option {
	if n < 0 {
		panic(panicMaxDiagnostics)
	}
	return func(o *options) { o.maxDiags = n }
}
