// SPDX-License-Identifier: MIT

package sparse

import (
	"errors"
	"fmt"
)

// Sentinel errors. Every message is prefixed with "sparse: ..." and callers
// match them with errors.Is.
var (
	// ErrInvalidDimensions indicates a non-positive matrix order.
	ErrInvalidDimensions = errors.New("sparse: dimensions must be > 0")

	// ErrOutOfRange indicates a row or column outside [0, n).
	ErrOutOfRange = errors.New("sparse: index out of range")

	// ErrDimensionMismatch indicates incompatible operand sizes.
	ErrDimensionMismatch = errors.New("sparse: dimension mismatch")

	// ErrNaNInf indicates a NaN or ±Inf entry where finite values are required.
	ErrNaNInf = errors.New("sparse: NaN or Inf encountered")

	// ErrSingular is returned when elimination meets a pivot that is zero
	// relative to the scale of its column.
	ErrSingular = errors.New("sparse: singular matrix")

	// ErrNotFactorized is returned by Solve before a successful Factorize.
	ErrNotFactorized = errors.New("sparse: solver not factorized")

	// ErrRowSum indicates a generator row whose entries do not sum to zero.
	ErrRowSum = errors.New("sparse: generator row does not sum to zero")

	// ErrNegativeRate indicates a negative off-diagonal generator entry.
	ErrNegativeRate = errors.New("sparse: negative off-diagonal rate")
)

// Operation tags for uniform error wrapping.
const (
	opBuild     = "Build"
	opMulVec    = "MulVec"
	opMulVecT   = "MulVecTrans"
	opGenerator = "ValidateGenerator"
	opBandLU    = "BandLU"
	opDenseLU   = "DenseLU"
	opShift     = "ShiftIdentity"
)

// sparseErrorf wraps err with an operation tag, preserving it for errors.Is.
// Call only with a non-nil err.
func sparseErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}
