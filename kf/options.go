// SPDX-License-Identifier: MIT

package kf

import (
	"fmt"
	"io"
	"log/slog"
	"math"

	"github.com/katalvlaran/hact/sparse"
)

// Method selects the stationary-distribution algorithm.
type Method int

const (
	Direct Method = iota
	Eigen
	Relaxation
	Power
)

// Methods lists every method in declaration order.
var Methods = []Method{Direct, Eigen, Relaxation, Power}

// String returns the configuration name of m.
func (m Method) String() string {
	switch m {
	case Direct:
		return "direct"
	case Eigen:
		return "eigen"
	case Relaxation:
		return "relaxation"
	case Power:
		return "power"
	default:
		return fmt.Sprintf("Method(%d)", int(m))
	}
}

// ParseMethod maps a configuration name to a Method. The empty string is Direct.
func ParseMethod(s string) (Method, error) {
	if s == "" {
		return Direct, nil
	}
	for _, m := range Methods {
		if m.String() == s {
			return m, nil
		}
	}
	return Direct, fmt.Errorf("ParseMethod(%q): %w", s, ErrUnknownMethod)
}

// Defaults.
const (
	DefaultDeath          = 1e-9
	DefaultTolerance      = 1e-13
	DefaultMaxSteps       = 50_000
	DefaultMaxDenseStates = 4000
	DefaultEigenWarning   = 1e-5

	// powerSafety scales 1/max|A_ii| for the default power step.
	powerSafety = 0.9
)

const (
	panicPin      = "kf: WithPin: index must be ≥ 0"
	panicDeath    = "kf: WithDeath: delta must be finite and > 0"
	panicStep     = "kf: WithStep: step must be finite and > 0"
	panicTol      = "kf: WithTolerance: tol must be finite and > 0"
	panicMaxSteps = "kf: WithMaxSteps: n must be > 0"
	panicDense    = "kf: WithMaxDenseStates: n must be > 0"
	panicMethod   = "kf: WithMethod: unknown method"
)

// Option mutates solve options.
type Option func(*options)

type options struct {
	method   Method
	pin      int
	death    float64
	birth    []float64 // mass; nil means uniform
	step     float64   // 0 means powerSafety/max|A_ii|
	tol      float64
	maxSteps int
	maxDense int
	backend  sparse.Backend
	logger   *slog.Logger
}

func gatherOptions(opts []Option) options {
	o := options{
		method:   Direct,
		death:    DefaultDeath,
		tol:      DefaultTolerance,
		maxSteps: DefaultMaxSteps,
		maxDense: DefaultMaxDenseStates,
		backend:  sparse.Banded,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}

func positive(x float64) bool { return x > 0 && !math.IsInf(x, 0) }

// WithMethod selects the algorithm (default Direct).
func WithMethod(m Method) Option {
	if m < Direct || m > Power {
		panic(panicMethod)
	}
	return func(o *options) { o.method = m }
}

// WithPin selects the state whose equation is replaced by normalization in
// the Direct method (default 0). It must carry positive stationary mass.
func WithPin(i int) Option {
	if i < 0 {
		panic(panicPin)
	}
	return func(o *options) { o.pin = i }
}

// WithDeath sets the death rate δ of the Relaxation method (default 1e-9).
func WithDeath(delta float64) Option {
	if !positive(delta) {
		panic(panicDeath)
	}
	return func(o *options) { o.death = delta }
}

// WithBirth sets the rebirth mass ψ of the Relaxation method. It is
// normalized to sum 1; the default is uniform mass. With one recurrent class
// the result does not depend on ψ; otherwise ψ weights the classes.
func WithBirth(psi []float64) Option {
	cp := append([]float64(nil), psi...)
	return func(o *options) { o.birth = cp }
}

// WithStep sets the pseudo-time step Δ of the Power method.
func WithStep(step float64) Option {
	if !positive(step) {
		panic(panicStep)
	}
	return func(o *options) { o.step = step }
}

// WithTolerance sets the Power stopping tolerance on max|Δp| (default 1e-13).
func WithTolerance(tol float64) Option {
	if !positive(tol) {
		panic(panicTol)
	}
	return func(o *options) { o.tol = tol }
}

// WithMaxSteps caps Power iterations (default 50 000).
func WithMaxSteps(n int) Option {
	if n <= 0 {
		panic(panicMaxSteps)
	}
	return func(o *options) { o.maxSteps = n }
}

// WithMaxDenseStates caps N for the Eigen method (default 4000).
func WithMaxDenseStates(n int) Option {
	if n <= 0 {
		panic(panicDense)
	}
	return func(o *options) { o.maxDense = n }
}

// WithLinearSolver selects the backend of the Direct and Relaxation solves.
func WithLinearSolver(b sparse.Backend) Option {
	return func(o *options) { o.backend = b }
}

// WithLogger routes progress records to l; nil keeps the discard logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}
