// SPDX-License-Identifier: MIT

// Package hjb solves the stationary Hamilton–Jacobi–Bellman equation of a
// household in continuous time with an upwind finite-difference scheme and
// implicit (or explicit) pseudo-time stepping.
//
// 🚀 What is solved?
//
//	ρ v(s) = max_c u(c) + Σ_d ∂_d v(s)·ṡ_d(s, c) + (Λv)(s)
//
//	on a grid.Space, where u is strictly increasing and concave, ρ > 0, ṡ_d is the
//	law of motion of asset d under the control and Λ switches income levels.
//
// Algorithm (one iteration, state v^n given):
//  1. Finite differences: forward D^F v and backward D^B v per axis. At the lower
//     edge D^B is replaced by the household's state-constraint slope, at the upper
//     edge D^F likewise (Household.BoundarySlope).
//  2. Candidate policies from u'(c) = D v, one per side, with implied drifts.
//  3. Upwind selection per axis: forward where the forward drift is > 0, backward
//     where the backward drift is < 0, otherwise stay (zero drift). D^F > D^B at an
//     interior point (v locally convex, both drifts may point outward) is recorded
//     as a non-concavity diagnostic; the solver continues with forward precedence.
//  4. Reward u(c) and generator A = A_drift + A_switch, assembled from triplets.
//  5. Implicit step ((1/Δt + ρ)·I − A) v^{n+1} = u + v^n/Δt (or the explicit step
//     v^{n+1} = v^n + Δt·(u + A v^n − ρ v^n) with Δt capped at its stability bound).
//  6. Stop when max|v^{n+1} − v^n| < tol; fail with *ConvergenceError after MaxIter.
//
// ✨ Model variants implement Household:
//   - SingleAsset: Huggett/Aiyagari household, ȧ = w·z + r·a − c.
//   - TwoAsset: liquid b and illiquid a with a kinked deposit cost χ(d, a).
//
// ⚙️ Usage:
//
//	space, _ := grid.NewSpace(income, axis)
//	h, _ := hjb.NewSingleAsset(space, hjb.SingleAssetParams{Rho: 0.05, R: 0.03, W: 1, Utility: hjb.CRRA{Sigma: 2}})
//	sol, err := hjb.Solve(h, hjb.WithTolerance(1e-6))
//	// sol.V, sol.Control("c"), sol.Generator
//
// Lifecycle:
//
//	Initializing → Iterating → {Converged | MaxIterExceeded}. On failure no value
//	function or generator is returned. A Solver keeps no state between solves
//	apart from an optional warm start (WithInitialValue).
package hjb
