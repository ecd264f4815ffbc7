// SPDX-License-Identifier: MIT

// Package sparse - coordinate-list arena for generator assembly.
//
// Purpose:
//   - Accumulate (row, col, value) triplets into pre-sized flat slices.
//   - Compress them into CSR in a single pass (counting sort by row, then an
//     insertion sort inside each short row; duplicates are summed).
//   - Keep the arena reusable across solver iterations (Reset keeps capacity).
//
// AI-Hints:
//   - Size the arena with the expected nnz (rows × entries-per-row) to avoid regrowth.
//   - Add never fails; the first invalid triplet is remembered and reported by Build,
//     so hot assembly loops stay free of error plumbing.

package sparse

import (
	"fmt"
	"math"
)

// Builder accumulates coordinate triplets for an n×n matrix.
type Builder struct {
	n    int
	rows []int
	cols []int
	vals []float64
	err  error // first invalid triplet (sticky)
}

// NewBuilder returns an empty arena for an n×n matrix with room for capacity triplets.
// Returns ErrInvalidDimensions when n <= 0.
func NewBuilder(n, capacity int) (*Builder, error) {
	if n <= 0 {
		return nil, ErrInvalidDimensions
	}
	if capacity < 0 {
		capacity = 0
	}

	return &Builder{
		n:    n,
		rows: make([]int, 0, capacity),
		cols: make([]int, 0, capacity),
		vals: make([]float64, 0, capacity),
	}, nil
}

// N returns the matrix order.
func (b *Builder) N() int { return b.n }

// Len returns the number of triplets accumulated so far (duplicates included).
func (b *Builder) Len() int { return len(b.vals) }

// Add appends the triplet (i, j, v). Exact zeros are skipped.
// Out-of-range indices and non-finite values are recorded and reported by Build.
func (b *Builder) Add(i, j int, v float64) {
	if b.err != nil {
		return
	}
	if i < 0 || i >= b.n || j < 0 || j >= b.n {
		b.err = fmt.Errorf("Add(%d,%d): %w", i, j, ErrOutOfRange)
		return
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		b.err = fmt.Errorf("Add(%d,%d): %w", i, j, ErrNaNInf)
		return
	}
	if v == 0 {
		return
	}
	b.rows = append(b.rows, i)
	b.cols = append(b.cols, j)
	b.vals = append(b.vals, v)
}

// AddMatrix appends every stored entry of m. m must have the builder's order.
func (b *Builder) AddMatrix(m *CSR) {
	if b.err != nil {
		return
	}
	if m == nil || m.n != b.n {
		b.err = fmt.Errorf("AddMatrix: %w", ErrDimensionMismatch)
		return
	}
	var k int
	for i := 0; i < m.n; i++ {
		for k = m.indptr[i]; k < m.indptr[i+1]; k++ {
			b.Add(i, m.indices[k], m.data[k])
		}
	}
}

// Reset drops all triplets and the sticky error but keeps the allocated capacity.
func (b *Builder) Reset() {
	b.rows = b.rows[:0]
	b.cols = b.cols[:0]
	b.vals = b.vals[:0]
	b.err = nil
}

// Build compresses the arena into a fresh CSR matrix. Duplicate coordinates are
// summed; entries that cancel to exactly zero are dropped. The builder is left
// untouched and can be Reset and reused.
//
// Complexity: O(n + t + Σ d_i²) for t triplets and d_i entries in row i.
func (b *Builder) Build() (*CSR, error) {
	if b.err != nil {
		return nil, sparseErrorf(opBuild, b.err)
	}

	// Stage 1: counting sort by row.
	indptr := make([]int, b.n+1)
	for _, r := range b.rows {
		indptr[r+1]++
	}
	for i := 0; i < b.n; i++ {
		indptr[i+1] += indptr[i]
	}
	t := len(b.vals)
	cols := make([]int, t)
	vals := make([]float64, t)
	next := make([]int, b.n)
	copy(next, indptr[:b.n])
	var p int
	for k, r := range b.rows {
		p = next[r]
		cols[p] = b.cols[k]
		vals[p] = b.vals[k]
		next[r]++
	}

	// Stage 2: sort each row by column and merge duplicates in place.
	out := 0
	start := 0
	var (
		i, k, q int
		c       int
		v       float64
	)
	for i = 0; i < b.n; i++ {
		lo, hi := indptr[i], indptr[i+1]
		for k = lo + 1; k < hi; k++ { // insertion sort: rows hold a few entries
			c, v = cols[k], vals[k]
			for q = k - 1; q >= lo && cols[q] > c; q-- {
				cols[q+1], vals[q+1] = cols[q], vals[q]
			}
			cols[q+1], vals[q+1] = c, v
		}
		start = out
		for k = lo; k < hi; k++ {
			if out > start && cols[out-1] == cols[k] {
				vals[out-1] += vals[k]
				continue
			}
			cols[out], vals[out] = cols[k], vals[k]
			out++
		}
		// drop exact cancellations
		w := start
		for k = start; k < out; k++ {
			if vals[k] != 0 {
				cols[w], vals[w] = cols[k], vals[k]
				w++
			}
		}
		out = w
		indptr[i] = start
	}
	indptr[b.n] = out

	return &CSR{
		n:       b.n,
		indptr:  indptr,
		indices: cols[:out:out],
		data:    vals[:out:out],
	}, nil
}
