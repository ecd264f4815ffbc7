// SPDX-License-Identifier: MIT

package sparse

import "fmt"

// Solver factorizes a square CSR system once and solves it for any number of
// right-hand sides.
type Solver interface {
	// Factorize prepares the solver for m. A previous factorization is discarded.
	Factorize(m *CSR) error
	// Solve writes the solution of m·x = b into dst. len(dst) == len(b) == n.
	Solve(dst, b []float64) error
}

// Backend selects a Solver implementation.
type Backend int

const (
	// Banded is Gaussian elimination with partial pivoting inside the band.
	Banded Backend = iota
	// Dense is gonum's LU on a dense copy of the matrix.
	Dense
)

// String returns the backend name used in configuration files.
func (b Backend) String() string {
	switch b {
	case Banded:
		return "banded"
	case Dense:
		return "dense"
	default:
		return fmt.Sprintf("Backend(%d)", int(b))
	}
}

// ParseBackend maps "banded" or "dense" to a Backend.
func ParseBackend(s string) (Backend, error) {
	switch s {
	case "", "banded", "band":
		return Banded, nil
	case "dense":
		return Dense, nil
	default:
		return Banded, fmt.Errorf("sparse: unknown linear backend %q", s)
	}
}

// NewSolver returns a fresh solver for the backend.
func NewSolver(b Backend) Solver {
	if b == Dense {
		return &DenseLU{}
	}

	return &BandLU{}
}

// SolveOnce factorizes m with the backend and solves a single right-hand side.
func SolveOnce(b Backend, m *CSR, rhs []float64) ([]float64, error) {
	s := NewSolver(b)
	if err := s.Factorize(m); err != nil {
		return nil, err
	}
	x := make([]float64, len(rhs))
	if err := s.Solve(x, rhs); err != nil {
		return nil, err
	}

	return x, nil
}
