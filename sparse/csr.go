// SPDX-License-Identifier: MIT

// Package sparse - CSR storage & kernels.
//
// Purpose:
//   - Square compressed-sparse-row matrix with sorted, duplicate-free rows.
//   - Implements gonum's mat.Matrix so dense tooling (mat.DenseCopyOf, mat.Eigen,
//     mat.Formatted) works on generators without glue.
//   - Products with x and xᵀ, transpose, diagonal, row sums, bandwidth, shifts.
//
// Determinism:
//   - Fixed row-major loops; no map iteration.

package sparse

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"
)

// CSR is an immutable n×n matrix in compressed sparse row form.
//   - indptr has length n+1; row i occupies indices[indptr[i]:indptr[i+1]].
//   - column indices within a row are strictly increasing.
type CSR struct {
	n       int
	indptr  []int
	indices []int
	data    []float64
}

var _ mat.Matrix = (*CSR)(nil)

// Identity returns the n×n identity in CSR form.
func Identity(n int) (*CSR, error) {
	if n <= 0 {
		return nil, ErrInvalidDimensions
	}
	m := &CSR{
		n:       n,
		indptr:  make([]int, n+1),
		indices: make([]int, n),
		data:    make([]float64, n),
	}
	for i := 0; i < n; i++ {
		m.indptr[i+1] = i + 1
		m.indices[i] = i
		m.data[i] = 1
	}

	return m, nil
}

// Dims returns (n, n). Part of mat.Matrix.
func (m *CSR) Dims() (r, c int) { return m.n, m.n }

// At returns element (i, j). It panics with mat.ErrIndexOutOfRange on bad
// indices, following the mat.Matrix contract.
// Complexity: O(log d) for d entries in row i.
func (m *CSR) At(i, j int) float64 {
	if i < 0 || i >= m.n || j < 0 || j >= m.n {
		panic(mat.ErrIndexOutOfRange)
	}
	lo, hi := m.indptr[i], m.indptr[i+1]
	row := m.indices[lo:hi]
	k := sort.SearchInts(row, j)
	if k < len(row) && row[k] == j {
		return m.data[lo+k]
	}

	return 0
}

// T returns the implicit transpose. Part of mat.Matrix.
// Use Transpose for a materialized CSR.
func (m *CSR) T() mat.Matrix { return mat.Transpose{Matrix: m} }

// N returns the matrix order.
func (m *CSR) N() int { return m.n }

// NNZ returns the number of stored entries.
func (m *CSR) NNZ() int { return len(m.data) }

// Row returns views of the column indices and values of row i.
// The slices alias internal storage and must not be modified.
func (m *CSR) Row(i int) ([]int, []float64) {
	lo, hi := m.indptr[i], m.indptr[i+1]
	return m.indices[lo:hi], m.data[lo:hi]
}

// DoNonZero calls fn for every stored entry in row-major order.
func (m *CSR) DoNonZero(fn func(i, j int, v float64)) {
	var k int
	for i := 0; i < m.n; i++ {
		for k = m.indptr[i]; k < m.indptr[i+1]; k++ {
			fn(i, m.indices[k], m.data[k])
		}
	}
}

// MulVec computes dst = m·x. dst and x must not alias.
func (m *CSR) MulVec(dst, x []float64) error {
	if len(dst) != m.n || len(x) != m.n {
		return sparseErrorf(opMulVec, ErrDimensionMismatch)
	}
	var (
		k   int
		sum float64
	)
	for i := 0; i < m.n; i++ {
		sum = 0
		for k = m.indptr[i]; k < m.indptr[i+1]; k++ {
			sum += m.data[k] * x[m.indices[k]]
		}
		dst[i] = sum
	}

	return nil
}

// MulVecTrans computes dst = mᵀ·x without materializing the transpose.
// dst and x must not alias.
func (m *CSR) MulVecTrans(dst, x []float64) error {
	if len(dst) != m.n || len(x) != m.n {
		return sparseErrorf(opMulVecT, ErrDimensionMismatch)
	}
	for i := range dst {
		dst[i] = 0
	}
	var (
		k  int
		xi float64
	)
	for i := 0; i < m.n; i++ {
		xi = x[i]
		if xi == 0 {
			continue
		}
		for k = m.indptr[i]; k < m.indptr[i+1]; k++ {
			dst[m.indices[k]] += m.data[k] * xi
		}
	}

	return nil
}

// Transpose returns mᵀ as a new CSR. Rows of the result come out sorted
// because the source is scanned in row order.
// Complexity: O(n + nnz).
func (m *CSR) Transpose() *CSR {
	nnz := len(m.data)
	indptr := make([]int, m.n+1)
	for _, j := range m.indices {
		indptr[j+1]++
	}
	for i := 0; i < m.n; i++ {
		indptr[i+1] += indptr[i]
	}
	indices := make([]int, nnz)
	data := make([]float64, nnz)
	next := make([]int, m.n)
	copy(next, indptr[:m.n])
	var k, j, p int
	for i := 0; i < m.n; i++ {
		for k = m.indptr[i]; k < m.indptr[i+1]; k++ {
			j = m.indices[k]
			p = next[j]
			indices[p] = i
			data[p] = m.data[k]
			next[j]++
		}
	}

	return &CSR{n: m.n, indptr: indptr, indices: indices, data: data}
}

// Diagonal returns a fresh slice with m[i,i].
func (m *CSR) Diagonal() []float64 {
	d := make([]float64, m.n)
	for i := 0; i < m.n; i++ {
		d[i] = m.At(i, i)
	}

	return d
}

// RowSums returns r with r[i] = Σ_j m[i,j].
func (m *CSR) RowSums() []float64 {
	r := make([]float64, m.n)
	var k int
	for i := 0; i < m.n; i++ {
		for k = m.indptr[i]; k < m.indptr[i+1]; k++ {
			r[i] += m.data[k]
		}
	}

	return r
}

// MaxAbs returns max |m[i,j]| over stored entries (0 for an empty pattern).
func (m *CSR) MaxAbs() float64 {
	var out float64
	for _, v := range m.data {
		if a := math.Abs(v); a > out {
			out = a
		}
	}

	return out
}

// Bandwidth returns the lower and upper bandwidths: kl = max(i−j), ku = max(j−i)
// over stored entries (both ≥ 0).
func (m *CSR) Bandwidth() (kl, ku int) {
	var k, d int
	for i := 0; i < m.n; i++ {
		for k = m.indptr[i]; k < m.indptr[i+1]; k++ {
			d = m.indices[k] - i
			if d > ku {
				ku = d
			}
			if -d > kl {
				kl = -d
			}
		}
	}

	return kl, ku
}

// IdentityMinus returns alpha·I − m as a new CSR. This is the system matrix of
// an implicit step, (1/Δt + ρ)·I − A.
func (m *CSR) IdentityMinus(alpha float64) (*CSR, error) {
	if math.IsNaN(alpha) || math.IsInf(alpha, 0) {
		return nil, sparseErrorf(opShift, ErrNaNInf)
	}
	b, err := NewBuilder(m.n, len(m.data)+m.n)
	if err != nil {
		return nil, sparseErrorf(opShift, err)
	}
	var k int
	for i := 0; i < m.n; i++ {
		b.Add(i, i, alpha)
		for k = m.indptr[i]; k < m.indptr[i+1]; k++ {
			b.Add(i, m.indices[k], -m.data[k])
		}
	}

	return b.Build()
}

// WithUnitRow returns a copy of m whose row i is replaced by the i-th unit row.
// Used to pin one unknown of a singular system.
func (m *CSR) WithUnitRow(i int) (*CSR, error) {
	if i < 0 || i >= m.n {
		return nil, fmt.Errorf("WithUnitRow(%d): %w", i, ErrOutOfRange)
	}
	lo, hi := m.indptr[i], m.indptr[i+1]
	removed := hi - lo
	out := &CSR{
		n:       m.n,
		indptr:  make([]int, m.n+1),
		indices: make([]int, 0, len(m.indices)-removed+1),
		data:    make([]float64, 0, len(m.data)-removed+1),
	}
	var k int
	for r := 0; r < m.n; r++ {
		if r == i {
			out.indices = append(out.indices, i)
			out.data = append(out.data, 1)
		} else {
			for k = m.indptr[r]; k < m.indptr[r+1]; k++ {
				out.indices = append(out.indices, m.indices[k])
				out.data = append(out.data, m.data[k])
			}
		}
		out.indptr[r+1] = len(out.data)
	}

	return out, nil
}

// Dense materializes m into a gonum dense matrix.
// Complexity: O(n^2) memory.
func (m *CSR) Dense() *mat.Dense {
	d := mat.NewDense(m.n, m.n, nil)
	m.DoNonZero(func(i, j int, v float64) { d.Set(i, j, v) })

	return d
}
