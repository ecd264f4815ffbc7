// SPDX-License-Identifier: MIT

// Package sparse - banded LU with partial pivoting.
//
// Storage:
//   - Row i keeps columns j ∈ [i−kl, i+kl+ku] at w[i*width + (j−i+kl)],
//     width = 2·kl + ku + 1. The extra kl superdiagonals absorb fill-in
//     caused by row interchanges.
//   - Multipliers of step k are stored in place below the pivot; the pivot row
//     chosen at step k is recorded in piv[k]. Interchanges are applied to the
//     trailing columns only, and replayed on the right-hand side by Solve
//     (the LAPACK gbtrf/gbtrs convention).

package sparse

import (
	"fmt"
	"math"
)

// machEps is the float64 unit roundoff.
const machEps = 1.0 / (1 << 52)

// BandLU factorizes a banded square matrix.
// The zero value is ready for Factorize.
type BandLU struct {
	n, kl, ku int
	width     int
	w         []float64
	piv       []int
	ready     bool
}

// Bands returns the lower and upper bandwidths of the last factorized matrix.
func (f *BandLU) Bands() (kl, ku int) { return f.kl, f.ku }

// at returns a pointer-free index of element (i, j) in the band buffer.
func (f *BandLU) at(i, j int) int { return i*f.width + j - i + f.kl }

// Factorize computes P·m = L·U within the band of m.
//
// Implementation:
//   - Stage 1: read bandwidths, allocate the band buffer, scatter m.
//   - Stage 2: for each column k, pick the largest |pivot| among rows k..k+kl,
//     swap rows on columns k..k+kl+ku, eliminate below the pivot.
//
// Errors:
//   - ErrSingular when a pivot is below n·ε·max|m| (or exactly zero).
//   - ErrNaNInf when m holds non-finite values.
//
// Complexity:
//   - Time O(n·kl·(kl+ku)), Space O(n·(2kl+ku+1)).
func (f *BandLU) Factorize(m *CSR) error {
	f.ready = false
	if m == nil || m.n <= 0 {
		return sparseErrorf(opBandLU, ErrInvalidDimensions)
	}
	n := m.n
	kl, ku := m.Bandwidth()
	f.n, f.kl, f.ku = n, kl, ku
	f.width = 2*kl + ku + 1
	if cap(f.w) >= n*f.width {
		f.w = f.w[:n*f.width]
		for i := range f.w {
			f.w[i] = 0
		}
	} else {
		f.w = make([]float64, n*f.width)
	}
	if cap(f.piv) >= n {
		f.piv = f.piv[:n]
	} else {
		f.piv = make([]int, n)
	}

	var scale float64
	var bad error
	m.DoNonZero(func(i, j int, v float64) {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			bad = ErrNaNInf
		}
		f.w[f.at(i, j)] = v
		if a := math.Abs(v); a > scale {
			scale = a
		}
	})
	if bad != nil {
		return sparseErrorf(opBandLU, bad)
	}
	tiny := float64(n) * machEps * scale

	var (
		i, j, k, p int
		last, top  int
		big, a     float64
		pivot, mul float64
	)
	for k = 0; k < n; k++ {
		last = k + kl // last row that can hold a nonzero in column k
		if last > n-1 {
			last = n - 1
		}
		top = k + kl + ku // last column the pivot row can reach
		if top > n-1 {
			top = n - 1
		}

		// partial pivoting inside the band
		p, big = k, math.Abs(f.w[f.at(k, k)])
		for i = k + 1; i <= last; i++ {
			if a = math.Abs(f.w[f.at(i, k)]); a > big {
				p, big = i, a
			}
		}
		if big == 0 || big <= tiny {
			return sparseErrorf(opBandLU, fmt.Errorf("pivot %d: %w", k, ErrSingular))
		}
		f.piv[k] = p
		if p != k {
			for j = k; j <= top; j++ {
				f.w[f.at(k, j)], f.w[f.at(p, j)] = f.w[f.at(p, j)], f.w[f.at(k, j)]
			}
		}

		pivot = f.w[f.at(k, k)]
		for i = k + 1; i <= last; i++ {
			mul = f.w[f.at(i, k)] / pivot
			f.w[f.at(i, k)] = mul
			if mul == 0 {
				continue
			}
			for j = k + 1; j <= top; j++ {
				f.w[f.at(i, j)] -= mul * f.w[f.at(k, j)]
			}
		}
	}
	f.ready = true

	return nil
}

// Solve writes x with m·x = b into dst using the stored factors.
// dst may alias b.
//
// Complexity: O(n·(2kl+ku)).
func (f *BandLU) Solve(dst, b []float64) error {
	if !f.ready {
		return sparseErrorf(opBandLU, ErrNotFactorized)
	}
	if len(dst) != f.n || len(b) != f.n {
		return sparseErrorf(opBandLU, ErrDimensionMismatch)
	}
	if &dst[0] != &b[0] {
		copy(dst, b)
	}

	var (
		i, k, last, top int
		sum             float64
	)
	// forward: apply interchanges and L
	for k = 0; k < f.n; k++ {
		if p := f.piv[k]; p != k {
			dst[k], dst[p] = dst[p], dst[k]
		}
		last = k + f.kl
		if last > f.n-1 {
			last = f.n - 1
		}
		for i = k + 1; i <= last; i++ {
			dst[i] -= f.w[f.at(i, k)] * dst[k]
		}
	}
	// backward: U
	for i = f.n - 1; i >= 0; i-- {
		sum = dst[i]
		top = i + f.kl + f.ku
		if top > f.n-1 {
			top = f.n - 1
		}
		for k = i + 1; k <= top; k++ {
			sum -= f.w[f.at(i, k)] * dst[k]
		}
		dst[i] = sum / f.w[f.at(i, i)]
	}
	for i = range dst {
		if math.IsNaN(dst[i]) || math.IsInf(dst[i], 0) {
			return sparseErrorf(opBandLU, fmt.Errorf("solution entry %d: %w", i, ErrNaNInf))
		}
	}

	return nil
}
