package grid

import "errors"

// ErrInvalidModel indicates a malformed grid or income process. It is fatal:
// construction fails immediately and nothing is retried.
var ErrInvalidModel = errors.New("grid: invalid model")

// DefaultRowSumTol is the tolerance on |Σ_j Λ[i,j]| accepted by NewIncome.
const DefaultRowSumTol = 1e-9
