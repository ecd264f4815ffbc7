// SPDX-License-Identifier: MIT

// Package hact solves continuous-time heterogeneous-agent household problems
// with the upwind finite-difference method: a Hamilton–Jacobi–Bellman equation
// for the value function and policy, and the matching Kolmogorov-Forward
// equation for the stationary distribution.
//
// 🚀 Pipeline
//
//	grid: asset axes × income levels → states, widths, measures, switching block
//	hjb: upwind policies, sparse generator A, implicit (or explicit) iteration
//	kf: stationary distribution of A (direct, eigen, relaxation, power)
//	steady: HJB → KF, aggregates and a flat per-state table
//
// Supporting packages:
//
//	sparse: coordinate arena → CSR, generator checks, banded and dense LU
//	config: model files in HCL or YAML
//	cmd/hact: command-line front end (solve, crosscheck, validate)
//
// ✨ Guarantees
//
//   - Every returned generator has non-negative off-diagonal rates and zero row sums.
//   - Drifts never point off the grid: ≥ 0 on lower edges, ≤ 0 on upper edges.
//   - Stationary distributions sum to one; densities integrate to one against cell measures.
//   - Failures are errors, never silently unconverged results.
//
// Quick example:
//
//	income, _ := grid.NewTwoStateIncome(0.1, 0.2, 0.02, 0.03)
//	axis, _ := grid.NewUniformAxis("a", -0.1, 1.5, 500)
//	space, _ := grid.NewSpace(income, axis)
//	h, _ := hjb.NewSingleAsset(space, hjb.SingleAssetParams{Rho: 0.05, R: 0.03, Utility: hjb.CRRA{Sigma: 2}})
//	res, err := steady.Solve(h, steady.Options{})
//	// res.Aggregate(0) is ∫ a·g(a) da
package hact
