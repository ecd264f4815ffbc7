// SPDX-License-Identifier: MIT

// Package sparse provides the compressed sparse row (CSR) matrices used for
// continuous-time Markov generators, together with the direct solvers that
// consume them.
//
// What & Why:
//
//	Generators on a discretized state space have a handful of nonzeros per row
//	(one per drift direction plus one per income switch). They are assembled from
//	coordinate triplets into CSR once per iteration and then handed to a linear
//	solver. Entries are accumulated into a pre-sized arena (Builder) and compressed
//	in one pass (Build), instead of growing diagonals by concatenation.
//
// Solvers:
//
//   - BandLU: Gaussian elimination with partial pivoting restricted to the band
//     of the matrix. Generators enumerated with the income index fastest-varying
//     have a narrow band, so this is the default backend.
//   - DenseLU: gonum mat.LU on a dense copy. Useful as a cross-check and for
//     small systems whose band is wide anyway.
//
// Complexity quicksheet:
//   - Builder.Add: O(1) amortized; Build: O(nnz log d) with d = entries per row.
//   - MulVec / MulVecTrans: O(nnz).
//   - BandLU.Factorize: O(n·kl·(kl+ku)); Solve: O(n·(2kl+ku)).
//   - DenseLU.Factorize: O(n^3).
package sparse
