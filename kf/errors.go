// SPDX-License-Identifier: MIT

package kf

import "errors"

var (
	// ErrDimensionMismatch reports inconsistent sizes of A, weights, ψ or the pin.
	ErrDimensionMismatch = errors.New("kf: dimension mismatch")

	// ErrInvalidWeights reports non-positive or non-finite cell measures.
	ErrInvalidWeights = errors.New("kf: cell measures must be positive and finite")

	// ErrSingularSystem reports a pinned (or regularized) system that cannot be
	// solved, or whose solution is not a probability distribution.
	ErrSingularSystem = errors.New("kf: singular system")

	// ErrTooLarge reports a dense method requested above WithMaxDenseStates.
	ErrTooLarge = errors.New("kf: too many states for a dense method")

	// ErrEigen reports a failed eigen-decomposition.
	ErrEigen = errors.New("kf: eigen decomposition failed")

	// ErrNonFinite reports a NaN or ±Inf iterate, usually Δ too large.
	ErrNonFinite = errors.New("kf: non-finite iterate")

	// ErrNotConverged reports power iteration reaching WithMaxSteps.
	ErrNotConverged = errors.New("kf: power iteration did not converge")

	// ErrUnknownMethod reports a Method outside the enumeration.
	ErrUnknownMethod = errors.New("kf: unknown method")
)
