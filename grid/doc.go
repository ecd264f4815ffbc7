// Package grid builds the discretized state space of a household problem:
// one or more ordered asset grids crossed with a finite set of income levels
// that switch according to a continuous-time Markov generator Λ.
//
// Enumeration:
//
//	States are numbered row-major over the asset axes with the income index
//	varying fastest:
//
//	  index = ((i_1·n_2 + i_2)·…·n_k + i_k)·n_z + i_z
//
//	so a one-step move along axis d changes the index by Stride(d), and income
//	switches stay inside a block of n_z consecutive states. This keeps the
//	generator banded with bandwidth Stride(0).
//
// Cell widths:
//
//	Every axis carries the forward width x[i+1]−x[i] and backward width
//	x[i]−x[i−1]. At an edge only one of them exists; the other is copied from it
//	(one-sided). Weight(i) = (fwd+bwd)/2 is the measure of the cell, which is the
//	constant Δ on a uniform grid.
//
// Errors:
//   - ErrInvalidModel for malformed axes or income processes. The message names
//     the offending axis, point or generator row.
package grid
