// SPDX-License-Identifier: MIT

package hjb

import (
	"errors"
	"fmt"

	"github.com/katalvlaran/hact/grid"
)

var (
	// ErrInvalidModel reports malformed household parameters. It is the same
	// sentinel as grid.ErrInvalidModel so callers match one value for every
	// construction failure.
	ErrInvalidModel = grid.ErrInvalidModel

	// ErrConvergence is matched by *ConvergenceError.
	ErrConvergence = errors.New("hjb: value function iteration did not converge")

	// ErrNonFinite reports a NaN or ±Inf value, reward or policy during iteration.
	ErrNonFinite = errors.New("hjb: non-finite value encountered")
)

// ConvergenceError is returned when MaxIter iterations pass without reaching
// the tolerance. It carries the iteration count, the last residual and the
// terminal status (always MaxIterExceeded).
type ConvergenceError struct {
	Iterations int
	Residual   float64
	Tolerance  float64
	Status     Status
}

// Error implements error.
func (e *ConvergenceError) Error() string {
	return fmt.Sprintf("hjb: no convergence after %d iterations: residual %.3e, tolerance %.3e",
		e.Iterations, e.Residual, e.Tolerance)
}

// Unwrap lets errors.Is(err, ErrConvergence) match.
func (e *ConvergenceError) Unwrap() error { return ErrConvergence }
