// SPDX-License-Identifier: MIT

package kf

import (
	"fmt"
	"math"

	"github.com/katalvlaran/hact/sparse"
)

// Comparison holds the results of several methods on the same generator.
type Comparison struct {
	Results     []*Distribution
	MaxDiff     float64   // max over method pairs of max_s |g_s − h_s| (density)
	Worst       [2]Method // pair attaining MaxDiff
	MaxMassDiff float64   // max over method pairs of max_s |p_s − q_s|
}

// CrossCheck solves A with every method in methods (all four when empty)
// and reports the largest pairwise disagreement in density, and in mass.
// opts apply to every run; the method option is overridden.
func CrossCheck(A *sparse.CSR, weights []float64, methods []Method, opts ...Option) (*Comparison, error) {
	if len(methods) == 0 {
		methods = Methods
	}
	c := &Comparison{Results: make([]*Distribution, 0, len(methods))}
	for _, m := range methods {
		d, err := Solve(A, weights, append(opts[:len(opts):len(opts)], WithMethod(m))...)
		if err != nil {
			return nil, fmt.Errorf("CrossCheck(%v): %w", m, err)
		}
		c.Results = append(c.Results, d)
	}
	for i := 0; i < len(c.Results); i++ {
		for j := i + 1; j < len(c.Results); j++ {
			if diff := maxAbsDiff(c.Results[i].Density, c.Results[j].Density); diff > c.MaxDiff {
				c.MaxDiff = diff
				c.Worst = [2]Method{c.Results[i].Method, c.Results[j].Method}
			}
			c.MaxMassDiff = math.Max(c.MaxMassDiff, maxAbsDiff(c.Results[i].Mass, c.Results[j].Mass))
		}
	}

	return c, nil
}

func maxAbsDiff(a, b []float64) float64 {
	var m float64
	for i := range a {
		m = math.Max(m, math.Abs(a[i]-b[i]))
	}
	return m
}
