// SPDX-License-Identifier: MIT
// Package: sparse
//
// Purpose:
//   - Single source of truth for generator checks: zero row sums and
//     non-negative off-diagonal rates.
//   - Errors name the first offending row so the failing invariant is visible.

package sparse

import (
	"fmt"
	"math"
)

// DefaultGeneratorTol is the absolute row-sum tolerance used by ValidateGenerator.
const DefaultGeneratorTol = 1e-10

// ValidateGenerator checks that m is a continuous-time Markov generator:
// every off-diagonal entry is ≥ 0 and every row sums to 0 within tol.
//
// Errors:
//   - ErrNegativeRate naming (row, col, value).
//   - ErrRowSum naming (row, sum).
//   - ErrNaNInf for non-finite entries.
//
// Complexity: O(nnz).
func ValidateGenerator(m *CSR, tol float64) error {
	if m == nil {
		return sparseErrorf(opGenerator, ErrDimensionMismatch)
	}
	if tol < 0 || math.IsNaN(tol) {
		tol = DefaultGeneratorTol
	}
	var (
		k   int
		j   int
		v   float64
		sum float64
	)
	for i := 0; i < m.n; i++ {
		sum = 0
		for k = m.indptr[i]; k < m.indptr[i+1]; k++ {
			j, v = m.indices[k], m.data[k]
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return sparseErrorf(opGenerator, fmt.Errorf("entry (%d,%d): %w", i, j, ErrNaNInf))
			}
			if j != i && v < 0 {
				return sparseErrorf(opGenerator, fmt.Errorf("entry (%d,%d)=%g: %w", i, j, v, ErrNegativeRate))
			}
			sum += v
		}
		if math.Abs(sum) > tol {
			return sparseErrorf(opGenerator, fmt.Errorf("row %d sums to %g: %w", i, sum, ErrRowSum))
		}
	}

	return nil
}
