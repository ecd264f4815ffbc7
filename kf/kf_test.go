package kf_test

import (
	"testing"

	"github.com/katalvlaran/hact/grid"
	"github.com/katalvlaran/hact/hjb"
	"github.com/katalvlaran/hact/kf"
	"github.com/katalvlaran/hact/sparse"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func csr(t testing.TB, dense [][]float64) *sparse.CSR {
	t.Helper()
	b, err := sparse.NewBuilder(len(dense), len(dense)*len(dense))
	require.NoError(t, err)
	for i, row := range dense {
		for j, v := range row {
			b.Add(i, j, v)
		}
	}
	m, err := b.Build()
	require.NoError(t, err)
	return m
}

func ones(n int) []float64 {
	w := make([]float64, n)
	for i := range w {
		w[i] = 1
	}
	return w
}

// huggett returns the space and converged generator of the reference household.
func huggett(t testing.TB, points int) (*grid.Space, *sparse.CSR) {
	t.Helper()
	income, err := grid.NewTwoStateIncome(0.1, 0.2, 0.02, 0.03)
	require.NoError(t, err)
	axis, err := grid.NewUniformAxis("a", -0.1, 1.5, points)
	require.NoError(t, err)
	space, err := grid.NewSpace(income, axis)
	require.NoError(t, err)
	h, err := hjb.NewSingleAsset(space, hjb.SingleAssetParams{Rho: 0.05, R: 0.03, W: 1, Utility: hjb.CRRA{Sigma: 2}})
	require.NoError(t, err)
	sol, err := hjb.Solve(h)
	require.NoError(t, err)
	return space, sol.Generator
}

func TestTwoStateChain_AllMethods(t *testing.T) {
	// p = (b, a)/(a + b) for rates a: 0→1 and b: 1→0.
	A := csr(t, [][]float64{{-0.3, 0.3}, {0.1, -0.1}})
	w := []float64{0.5, 2}
	for _, m := range kf.Methods {
		t.Run(m.String(), func(t *testing.T) {
			d, err := kf.Solve(A, w, kf.WithMethod(m))
			require.NoError(t, err)
			assert.Equal(t, m, d.Method)
			assert.InDelta(t, 0.25, d.Mass[0], 1e-8)
			assert.InDelta(t, 0.75, d.Mass[1], 1e-8)
			assert.InDelta(t, 0.5, d.Density[0], 1e-8)
			assert.InDelta(t, 0.375, d.Density[1], 1e-8)
			assert.Empty(t, d.Warnings)
		})
	}
}

func TestHuggett_MassConservation(t *testing.T) {
	space, A := huggett(t, 40)
	w := space.Weights()
	for _, m := range kf.Methods {
		t.Run(m.String(), func(t *testing.T) {
			d, err := kf.Solve(A, w, kf.WithMethod(m))
			require.NoError(t, err)

			var mass, integral float64
			for s := range d.Mass {
				assert.GreaterOrEqual(t, d.Mass[s], 0.0)
				mass += d.Mass[s]
				integral += d.Density[s] * w[s]
			}
			assert.InDelta(t, 1, mass, 1e-12)
			assert.InDelta(t, 1, integral, 1e-12)
		})
	}
}

func TestHuggett_CrossCheck(t *testing.T) {
	space, A := huggett(t, 500)
	c, err := kf.CrossCheck(A, space.Weights(), nil)
	require.NoError(t, err)
	require.Len(t, c.Results, len(kf.Methods))
	assert.Less(t, c.MaxDiff, 1e-6, "worst density pair %v", c.Worst)
	assert.LessOrEqual(t, c.MaxMassDiff, c.MaxDiff)

	// Every pair agrees in density, not just the worst one reported.
	for i, d := range c.Results {
		for _, e := range c.Results[i+1:] {
			assert.InDeltaSlice(t, d.Density, e.Density, 1e-6, "%v vs %v", d.Method, e.Method)
		}
	}

	// Aggregate assets agree as well.
	asset := func(s int) float64 { return space.Asset(s, 0) }
	ref := kf.Moment(c.Results[0], asset)
	for _, d := range c.Results[1:] {
		assert.InDelta(t, ref, kf.Moment(d, asset), 1e-8, "%v", d.Method)
	}
}

func TestRelaxation_MatchesDirectDensity(t *testing.T) {
	space, A := huggett(t, 500)
	w := space.Weights()
	direct, err := kf.Solve(A, w)
	require.NoError(t, err)

	// A larger death rate makes the birth bias visible without re-solving;
	// the result must still match the exact density.
	for _, delta := range []float64{kf.DefaultDeath, 1e-7} {
		d, err := kf.Solve(A, w, kf.WithMethod(kf.Relaxation), kf.WithDeath(delta))
		require.NoError(t, err)
		assert.InDeltaSlice(t, direct.Density, d.Density, 1e-6, "δ=%g", delta)
	}
}

func TestHuggett_DenseDirectMatchesBanded(t *testing.T) {
	space, A := huggett(t, 100)
	band, err := kf.Solve(A, space.Weights())
	require.NoError(t, err)
	dense, err := kf.Solve(A, space.Weights(), kf.WithLinearSolver(sparse.Dense))
	require.NoError(t, err)
	for s := range band.Mass {
		assert.InDelta(t, band.Mass[s], dense.Mass[s], 1e-10)
	}
}

func TestMarginals(t *testing.T) {
	space, A := huggett(t, 60)
	d, err := kf.Solve(A, space.Weights())
	require.NoError(t, err)

	byIncome, err := kf.IncomeMarginal(space, d)
	require.NoError(t, err)
	want, err := space.Income().Stationary()
	require.NoError(t, err)
	assert.InDeltaSlice(t, want, byIncome, 1e-9)
	assert.InDelta(t, 0.6, byIncome[0], 1e-9)

	byAsset, err := kf.Marginal(space, d, 0)
	require.NoError(t, err)
	require.Len(t, byAsset, 60)
	var total float64
	for _, p := range byAsset {
		total += p
	}
	assert.InDelta(t, 1, total, 1e-12)
	assert.InDelta(t, 1, kf.Moment(d, func(int) float64 { return 1 }), 1e-12)
	// Constrained low earners form a mass point at the borrowing limit.
	assert.Greater(t, d.Mass[space.Index([]int{0}, 0)], d.Mass[space.Index([]int{1}, 0)])

	_, err = kf.Marginal(space, d, 1)
	require.ErrorIs(t, err, kf.ErrDimensionMismatch)
	_, err = kf.IncomeMarginal(space, &kf.Distribution{Mass: []float64{1}})
	require.ErrorIs(t, err, kf.ErrDimensionMismatch)
}

func TestDirect_TransientPinIsSingular(t *testing.T) {
	// State 0 drains into the recurrent pair {1, 2} and has zero mass.
	A := csr(t, [][]float64{{-1, 1, 0}, {0, -1, 1}, {0, 1, -1}})
	_, err := kf.Solve(A, ones(3), kf.WithPin(0))
	require.ErrorIs(t, err, kf.ErrSingularSystem)

	d, err := kf.Solve(A, ones(3), kf.WithPin(1))
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{0, 0.5, 0.5}, d.Mass, 1e-12)

	_, err = kf.Solve(A, ones(3), kf.WithPin(3))
	require.ErrorIs(t, err, kf.ErrDimensionMismatch)
}

func TestEigen_WarnsOnLargeEigenvalue(t *testing.T) {
	// Rows do not sum to zero; the smallest |λ| of Aᵀ is 0.5 with eigenvector (1, 1).
	A := csr(t, [][]float64{{-1, 0.5}, {0.5, -1}})
	d, err := kf.Solve(A, ones(2), kf.WithMethod(kf.Eigen))
	require.NoError(t, err)
	assert.InDelta(t, 0.5, d.Eigenvalue, 1e-12)
	require.Len(t, d.Warnings, 1)
	assert.Contains(t, d.Warnings[0], "eigenvalue")
	assert.InDeltaSlice(t, []float64{0.5, 0.5}, d.Mass, 1e-12)
}

func TestEigen_TooLarge(t *testing.T) {
	space, A := huggett(t, 40)
	_, err := kf.Solve(A, space.Weights(), kf.WithMethod(kf.Eigen), kf.WithMaxDenseStates(10))
	require.ErrorIs(t, err, kf.ErrTooLarge)
}

func TestPower_Failures(t *testing.T) {
	space, A := huggett(t, 40)
	_, err := kf.Solve(A, space.Weights(), kf.WithMethod(kf.Power), kf.WithStep(100))
	require.ErrorIs(t, err, kf.ErrNonFinite)

	_, err = kf.Solve(A, space.Weights(), kf.WithMethod(kf.Power), kf.WithMaxSteps(3))
	require.ErrorIs(t, err, kf.ErrNotConverged)
}

func TestRelaxation_Birth(t *testing.T) {
	space, A := huggett(t, 40)
	ref, err := kf.Solve(A, space.Weights())
	require.NoError(t, err)

	psi := make([]float64, space.Len())
	psi[space.Len()-1] = 3 // everyone is reborn rich; normalized internally
	d, err := kf.Solve(A, space.Weights(), kf.WithMethod(kf.Relaxation), kf.WithBirth(psi))
	require.NoError(t, err)
	assert.InDeltaSlice(t, ref.Mass, d.Mass, 1e-6)

	_, err = kf.Solve(A, space.Weights(), kf.WithMethod(kf.Relaxation), kf.WithBirth([]float64{1}))
	require.ErrorIs(t, err, kf.ErrDimensionMismatch)
	_, err = kf.Solve(A, space.Weights(), kf.WithMethod(kf.Relaxation), kf.WithBirth(make([]float64, space.Len())))
	require.ErrorIs(t, err, kf.ErrInvalidWeights)
}

func TestSolve_InvalidInput(t *testing.T) {
	A := csr(t, [][]float64{{-0.3, 0.3}, {0.1, -0.1}})
	_, err := kf.Solve(nil, ones(2))
	require.ErrorIs(t, err, kf.ErrDimensionMismatch)
	_, err = kf.Solve(A, ones(3))
	require.ErrorIs(t, err, kf.ErrDimensionMismatch)
	_, err = kf.Solve(A, []float64{1, 0})
	require.ErrorIs(t, err, kf.ErrInvalidWeights)
}

func TestParseMethod(t *testing.T) {
	for _, m := range kf.Methods {
		got, err := kf.ParseMethod(m.String())
		require.NoError(t, err)
		assert.Equal(t, m, got)
	}
	got, err := kf.ParseMethod("")
	require.NoError(t, err)
	assert.Equal(t, kf.Direct, got)
	_, err = kf.ParseMethod("monte-carlo")
	require.ErrorIs(t, err, kf.ErrUnknownMethod)

	assert.Panics(t, func() { kf.WithMethod(kf.Method(9)) })
	assert.Panics(t, func() { kf.WithDeath(0) })
	assert.Panics(t, func() { kf.WithPin(-1) })
}
