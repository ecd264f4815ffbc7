// SPDX-License-Identifier: MIT

package hjb

import (
	"fmt"
	"math"
)

// Utility is a strictly increasing, strictly concave flow utility.
type Utility interface {
	// U returns u(c).
	U(c float64) float64
	// Marginal returns u'(c).
	Marginal(c float64) float64
	// InverseMarginal returns c with u'(c) = p, for p > 0.
	InverseMarginal(p float64) float64
}

// CRRA is u(c) = c^{1−σ}/(1−σ), or log c at σ = 1.
type CRRA struct {
	Sigma float64
}

var _ Utility = CRRA{}

// NewCRRA validates σ > 0.
func NewCRRA(sigma float64) (CRRA, error) {
	if !(sigma > 0) || math.IsInf(sigma, 0) {
		return CRRA{}, fmt.Errorf("crra: sigma %g must be positive and finite: %w", sigma, ErrInvalidModel)
	}

	return CRRA{Sigma: sigma}, nil
}

// U returns u(c).
func (u CRRA) U(c float64) float64 {
	if u.Sigma == 1 {
		return math.Log(c)
	}
	return math.Pow(c, 1-u.Sigma) / (1 - u.Sigma)
}

// Marginal returns c^{−σ}.
func (u CRRA) Marginal(c float64) float64 { return math.Pow(c, -u.Sigma) }

// InverseMarginal returns p^{−1/σ}.
func (u CRRA) InverseMarginal(p float64) float64 { return math.Pow(p, -1/u.Sigma) }
