package grid

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// Income is a finite set of income levels z_1..z_n switching as a
// continuous-time Markov chain with generator Λ.
type Income struct {
	levels []float64
	rates  *mat.Dense // Λ, n×n
}

// NewIncome validates and copies levels and the generator rows.
//
// Validation:
//   - len(levels) ≥ 1 and Λ is len(levels)×len(levels);
//   - every entry finite, off-diagonal entries ≥ 0;
//   - every row sums to 0 within DefaultRowSumTol.
//
// The error names the first offending row.
func NewIncome(levels []float64, rates [][]float64) (*Income, error) {
	n := len(levels)
	if n == 0 {
		return nil, fmt.Errorf("income: no levels: %w", ErrInvalidModel)
	}
	if len(rates) != n {
		return nil, fmt.Errorf("income: generator has %d rows for %d levels: %w", len(rates), n, ErrInvalidModel)
	}
	for i, z := range levels {
		if !finite(z) {
			return nil, fmt.Errorf("income: level %d is %g: %w", i, z, ErrInvalidModel)
		}
	}
	lam := mat.NewDense(n, n, nil)
	var sum, scale float64
	for i, row := range rates {
		if len(row) != n {
			return nil, fmt.Errorf("income: generator row %d has %d entries, want %d: %w", i, len(row), n, ErrInvalidModel)
		}
		sum, scale = 0, 0
		for j, v := range row {
			if !finite(v) {
				return nil, fmt.Errorf("income: generator entry (%d,%d) is %g: %w", i, j, v, ErrInvalidModel)
			}
			if i != j && v < 0 {
				return nil, fmt.Errorf("income: generator entry (%d,%d)=%g is negative: %w", i, j, v, ErrInvalidModel)
			}
			sum += v
			scale += math.Abs(v)
			lam.Set(i, j, v)
		}
		if math.Abs(sum) > DefaultRowSumTol*math.Max(1, scale) {
			return nil, fmt.Errorf("income: generator row %d sums to %g: %w", i, sum, ErrInvalidModel)
		}
	}

	return &Income{levels: append([]float64(nil), levels...), rates: lam}, nil
}

// NewTwoStateIncome is the common two-state process: leave z1 at rate l1 and
// z2 at rate l2.
func NewTwoStateIncome(z1, z2, l1, l2 float64) (*Income, error) {
	return NewIncome([]float64{z1, z2}, [][]float64{{-l1, l1}, {l2, -l2}})
}

// NewDeterministicIncome is a single level that never switches.
func NewDeterministicIncome(z float64) (*Income, error) {
	return NewIncome([]float64{z}, [][]float64{{0}})
}

// Len returns the number of income levels.
func (y *Income) Len() int { return len(y.levels) }

// Level returns z_i.
func (y *Income) Level(i int) float64 { return y.levels[i] }

// Levels returns a copy of all levels.
func (y *Income) Levels() []float64 { return append([]float64(nil), y.levels...) }

// Rate returns Λ[i,j].
func (y *Income) Rate(i, j int) float64 { return y.rates.At(i, j) }

// Generator returns a copy of Λ.
func (y *Income) Generator() *mat.Dense { return mat.DenseCopyOf(y.rates) }

// Stationary returns the ergodic distribution π of Λ (πΛ = 0, Σπ = 1).
// The last balance equation is replaced by the normalization row.
func (y *Income) Stationary() ([]float64, error) {
	n := len(y.levels)
	if n == 1 {
		return []float64{1}, nil
	}
	sys := mat.DenseCopyOf(y.rates.T())
	rhs := mat.NewVecDense(n, nil)
	for j := 0; j < n; j++ {
		sys.Set(n-1, j, 1)
	}
	rhs.SetVec(n-1, 1)
	var pi mat.VecDense
	if err := pi.SolveVec(sys, rhs); err != nil {
		return nil, fmt.Errorf("income: stationary distribution: %v: %w", err, ErrInvalidModel)
	}

	return append([]float64(nil), pi.RawVector().Data...), nil
}

// Mean returns Σ π_i z_i under the ergodic distribution.
func (y *Income) Mean() (float64, error) {
	pi, err := y.Stationary()
	if err != nil {
		return 0, err
	}
	var m float64
	for i, p := range pi {
		m += p * y.levels[i]
	}

	return m, nil
}
