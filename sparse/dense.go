// SPDX-License-Identifier: MIT

package sparse

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// DenseLU solves through gonum's partially pivoted LU on a dense copy.
// The zero value is ready for Factorize.
type DenseLU struct {
	n     int
	lu    mat.LU
	ready bool
}

// Cond returns the condition number estimate of the last factorization.
func (f *DenseLU) Cond() float64 { return f.lu.Cond() }

// Factorize densifies m and runs mat.LU.Factorize.
// Returns ErrSingular when the condition number exceeds mat.ConditionTolerance.
func (f *DenseLU) Factorize(m *CSR) error {
	f.ready = false
	if m == nil || m.n <= 0 {
		return sparseErrorf(opDenseLU, ErrInvalidDimensions)
	}
	for _, v := range m.data {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return sparseErrorf(opDenseLU, ErrNaNInf)
		}
	}
	f.n = m.n
	f.lu.Factorize(m.Dense())
	if c := f.lu.Cond(); math.IsInf(c, 1) || c > mat.ConditionTolerance {
		return sparseErrorf(opDenseLU, fmt.Errorf("condition %g: %w", c, ErrSingular))
	}
	f.ready = true

	return nil
}

// Solve writes the solution of m·x = b into dst.
func (f *DenseLU) Solve(dst, b []float64) error {
	if !f.ready {
		return sparseErrorf(opDenseLU, ErrNotFactorized)
	}
	if len(dst) != f.n || len(b) != f.n {
		return sparseErrorf(opDenseLU, ErrDimensionMismatch)
	}
	rhs := mat.NewVecDense(f.n, append([]float64(nil), b...))
	x := mat.NewVecDense(f.n, dst)
	if err := f.lu.SolveVecTo(x, false, rhs); err != nil {
		var cond mat.Condition
		if !errors.As(err, &cond) {
			return sparseErrorf(opDenseLU, err)
		}
		// ill-conditioned but solved; Factorize already rejected singular systems
	}

	return nil
}
