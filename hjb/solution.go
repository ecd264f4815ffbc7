// SPDX-License-Identifier: MIT

package hjb

import (
	"fmt"

	"github.com/katalvlaran/hact/grid"
	"github.com/katalvlaran/hact/sparse"
)

// Status is the lifecycle state of a solve. Solution.Status is Converged and
// ConvergenceError.Status is MaxIterExceeded; the two earlier states label
// progress records in the log.
type Status int

const (
	Initializing Status = iota
	Iterating
	Converged
	MaxIterExceeded
)

// String returns the lower-case status name.
func (s Status) String() string {
	switch s {
	case Initializing:
		return "initializing"
	case Iterating:
		return "iterating"
	case Converged:
		return "converged"
	case MaxIterExceeded:
		return "max-iter-exceeded"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// NonConcavity records D^F v > D^B v at an interior point, where the upwind
// rule could select both directions and the forward one wins.
type NonConcavity struct {
	Iteration int
	State     int
	Dim       int
	Backward  float64
	Forward   float64
}

// Diagnostics collects non-fatal findings of a solve.
type Diagnostics struct {
	NonConcave      []NonConcavity // first occurrences, capped by WithMaxDiagnostics
	NonConcaveCount int            // all occurrences over all iterations
	Truncated       int            // off-grid drifts dropped during assembly
}

// Concave reports whether no non-concavity was seen.
func (d Diagnostics) Concave() bool { return d.NonConcaveCount == 0 }

func (d *Diagnostics) noteNonConcave(limit int, nc NonConcavity) {
	d.NonConcaveCount++
	if len(d.NonConcave) < limit {
		d.NonConcave = append(d.NonConcave, nc)
	}
}

// Solution is a converged value function with its policy and generator.
type Solution struct {
	Space        *grid.Space
	V            []float64
	Reward       []float64   // u(c) per state
	ControlNames []string    // names of Controls rows
	Controls     [][]float64 // [control][state]
	Drift        [][]float64 // [dim][state]
	Generator    *sparse.CSR // A at the converged policy
	Iterations   int
	Residuals    []float64 // max|v' − v| per iteration
	TimeStep     float64   // Δt actually used (explicit steps are capped)
	Status       Status
	Diagnostics  Diagnostics
}

// Control returns the policy named name, e.g. "c".
func (s *Solution) Control(name string) ([]float64, bool) {
	for k, n := range s.ControlNames {
		if n == name {
			return s.Controls[k], true
		}
	}
	return nil, false
}

// Residual returns the last recorded residual.
func (s *Solution) Residual() float64 {
	if len(s.Residuals) == 0 {
		return 0
	}
	return s.Residuals[len(s.Residuals)-1]
}
