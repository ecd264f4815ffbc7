// SPDX-License-Identifier: MIT

// Package kf computes the stationary distribution of a continuous-time Markov
// generator A on a discretized state space: the solution of the
// Kolmogorov-Forward equation Aᵀ·p = 0 with Σ p = 1, p ≥ 0.
//
// Every method returns the probability mass p per state and the density
// g = p / ω, where ω are the cell measures of the space, so Σ g·ω = 1.
//
// Methods:
//   - Direct: replace row `pin` of Aᵀ by the unit row and solve Aᵀ p = e_pin.
//     Exact, O(N·bw²) with the banded LU. Singular when the pinned state is transient.
//   - Eigen: dense eigen-decomposition of Aᵀ (gonum mat.Eigen); pick λ closest
//     to zero. O(N³); guarded by WithMaxDenseStates. |λ| > 1e-5 becomes a warning.
//   - Relaxation: (δI − Aᵀ) p = δ·ψ: agents die at rate δ and are reborn at ψ.
//     p → stationary mass as δ → 0; robust for reducible chains. Two re-solves
//     with p itself as the birth mass remove the O(δ) bias on the same factors.
//   - Power: p ← (I + Δ·Aᵀ) p until max|Δp| < tol. Δ defaults to 0.9/max|A_ii|,
//     which keeps the iteration matrix non-negative and mass-preserving.
//
// Cross-checking two methods on the same A (CrossCheck) is the standard
// acceptance test: they agree within 1e-6 on well-posed problems.
package kf
