// SPDX-License-Identifier: MIT
// Package: kf
//
// Purpose:
//   - The four stationary-distribution kernels. Each returns unnormalized mass.

package kf

import (
	"errors"
	"fmt"
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/hact/sparse"
)

// maxPinnedRatio bounds p_s/p_pin in a direct solve, roughly 1/√ε. Above it
// the pinned state's mass is lost in rounding.
const maxPinnedRatio = 1e8

// solveDirect solves Aᵀ p = e_pin with row pin replaced by the unit row.
// The pinned system is singular exactly when the pinned state has zero
// stationary mass. Rounding may hide that from the factorization, so the
// solution is also rejected when it has negative mass or dwarfs p_pin = 1.
func solveDirect(A *sparse.CSR, o *options) ([]float64, error) {
	n := A.N()
	if o.pin >= n {
		return nil, fmt.Errorf("Direct: pin %d outside %d states: %w", o.pin, n, ErrDimensionMismatch)
	}
	M, err := A.Transpose().WithUnitRow(o.pin)
	if err != nil {
		return nil, fmt.Errorf("Direct: %w", err)
	}
	rhs := make([]float64, n)
	rhs[o.pin] = 1
	p, err := sparse.SolveOnce(o.backend, M, rhs)
	if err != nil {
		if errors.Is(err, sparse.ErrSingular) || errors.Is(err, sparse.ErrNaNInf) {
			return nil, fmt.Errorf("Direct: pin %d: %w: %w", o.pin, ErrSingularSystem, err)
		}
		return nil, fmt.Errorf("Direct: %w", err)
	}
	if lo := floats.Min(p); lo < -negativeSlack*floats.Max(p) {
		return nil, fmt.Errorf("Direct: pin %d yields negative mass %g: %w", o.pin, lo, ErrSingularSystem)
	}
	if hi := floats.Max(p); hi > maxPinnedRatio {
		return nil, fmt.Errorf("Direct: pin %d carries relative mass %.1e: %w", o.pin, 1/hi, ErrSingularSystem)
	}

	return p, nil
}

// solveEigen returns the right eigenvector of Aᵀ for the eigenvalue of
// smallest modulus, and that modulus.
func solveEigen(A *sparse.CSR, o *options) ([]float64, float64, error) {
	n := A.N()
	if n > o.maxDense {
		return nil, 0, fmt.Errorf("Eigen: %d states > %d: %w", n, o.maxDense, ErrTooLarge)
	}
	var eig mat.Eigen
	if ok := eig.Factorize(A.T(), mat.EigenRight); !ok {
		return nil, 0, fmt.Errorf("Eigen: %w", ErrEigen)
	}
	values := eig.Values(nil)
	k, best := 0, math.Inf(1)
	for i, l := range values {
		if a := cmplx.Abs(l); a < best {
			k, best = i, a
		}
	}
	var vecs mat.CDense
	eig.VectorsTo(&vecs)
	p := make([]float64, n)
	for i := range p {
		p[i] = real(vecs.At(i, k))
	}

	return p, best, nil
}

// relaxationRefinements is the number of re-solves after the first
// relaxation solve. Each one multiplies the birth bias by about δ/|λ₂|.
const relaxationRefinements = 2

// solveRelaxation solves (δI − Aᵀ) p = δ·ψ, then re-solves with the current
// mass as the birth distribution. The first solution is off by O(δ/|λ₂|),
// where λ₂ is the slowest decay rate of A. Each re-solve is one shifted
// inverse-iteration step on the same factorization. It shrinks that bias
// and keeps Σp unchanged, because the columns of Aᵀ sum to zero.
func solveRelaxation(A *sparse.CSR, o *options) ([]float64, error) {
	n := A.N()
	psi, err := birth(n, o.birth)
	if err != nil {
		return nil, err
	}
	M, err := A.Transpose().IdentityMinus(o.death)
	if err != nil {
		return nil, fmt.Errorf("Relaxation: %w", err)
	}
	lin := sparse.NewSolver(o.backend)
	if err = lin.Factorize(M); err != nil {
		if errors.Is(err, sparse.ErrSingular) {
			return nil, fmt.Errorf("Relaxation: δ=%g: %w: %w", o.death, ErrSingularSystem, err)
		}
		return nil, fmt.Errorf("Relaxation: %w", err)
	}

	rhs := floats.ScaleTo(make([]float64, n), o.death, psi)
	p := make([]float64, n)
	for k := 0; k <= relaxationRefinements; k++ {
		if k > 0 {
			floats.ScaleTo(rhs, o.death, p)
		}
		if err = lin.Solve(p, rhs); err != nil {
			return nil, fmt.Errorf("Relaxation: solve %d: %w", k, err)
		}
	}

	return p, nil
}

func birth(n int, psi []float64) ([]float64, error) {
	if psi == nil {
		return uniform(n), nil
	}
	if len(psi) != n {
		return nil, fmt.Errorf("Relaxation: birth mass has %d entries for %d states: %w", len(psi), n, ErrDimensionMismatch)
	}
	out := append([]float64(nil), psi...)
	for i, x := range out {
		if x < 0 || math.IsNaN(x) || math.IsInf(x, 0) {
			return nil, fmt.Errorf("Relaxation: birth[%d] = %g: %w", i, x, ErrInvalidWeights)
		}
	}
	sum := floats.Sum(out)
	if !(sum > 0) {
		return nil, fmt.Errorf("Relaxation: birth mass sums to %g: %w", sum, ErrInvalidWeights)
	}
	floats.Scale(1/sum, out)

	return out, nil
}

// solvePower iterates p ← p + Δ·Aᵀp from uniform mass.
func solvePower(A *sparse.CSR, o *options) ([]float64, int, error) {
	n := A.N()
	step := o.step
	if step == 0 {
		var maxDiag float64
		for _, a := range A.Diagonal() {
			maxDiag = math.Max(maxDiag, math.Abs(a))
		}
		if maxDiag == 0 {
			// A = 0: every distribution is stationary.
			return uniform(n), 0, nil
		}
		step = powerSafety / maxDiag
	}

	var (
		p    = uniform(n)
		flow = make([]float64, n)
		dist float64
		x    float64
	)
	for k := 1; k <= o.maxSteps; k++ {
		if err := A.MulVecTrans(flow, p); err != nil {
			return nil, k, fmt.Errorf("Power: %w", err)
		}
		dist = 0
		for i := range p {
			x = step * flow[i]
			p[i] += x
			if math.IsNaN(p[i]) || math.IsInf(p[i], 0) {
				return nil, k, fmt.Errorf("Power: step %d, Δ=%g: %w", k, step, ErrNonFinite)
			}
			dist = math.Max(dist, math.Abs(x))
		}
		if dist < o.tol {
			return p, k, nil
		}
	}

	return nil, o.maxSteps, fmt.Errorf("Power: %d steps, last change %.3e: %w", o.maxSteps, dist, ErrNotConverged)
}
