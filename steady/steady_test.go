package steady_test

import (
	"testing"

	"github.com/katalvlaran/hact/grid"
	"github.com/katalvlaran/hact/hjb"
	"github.com/katalvlaran/hact/kf"
	"github.com/katalvlaran/hact/sparse"
	"github.com/katalvlaran/hact/steady"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func huggett(t testing.TB, points int) *hjb.SingleAsset {
	t.Helper()
	income, err := grid.NewTwoStateIncome(0.1, 0.2, 0.02, 0.03)
	require.NoError(t, err)
	axis, err := grid.NewUniformAxis("a", -0.1, 1.5, points)
	require.NoError(t, err)
	space, err := grid.NewSpace(income, axis)
	require.NoError(t, err)
	h, err := hjb.NewSingleAsset(space, hjb.SingleAssetParams{Rho: 0.05, R: 0.03, W: 1, Utility: hjb.CRRA{Sigma: 2}})
	require.NoError(t, err)
	return h
}

// TestHuggett_EndToEnd is the reference scenario: 500 asset points, the
// direct and relaxation KF solves agree on the density within 1e-6.
func TestHuggett_EndToEnd(t *testing.T) {
	h := huggett(t, 500)
	res, err := steady.Solve(h, steady.Options{})
	require.NoError(t, err)
	assert.Less(t, res.Solution.Iterations, 100)
	assert.Less(t, res.Solution.Residual(), 1e-6)
	require.NoError(t, sparse.ValidateGenerator(res.Solution.Generator, sparse.DefaultGeneratorTol))

	w := res.Space.Weights()
	var integral float64
	for s, g := range res.Distribution.Density {
		integral += g * w[s]
	}
	assert.InDelta(t, 1, integral, 1e-12)

	relaxed, err := steady.Solve(h, steady.Options{KF: []kf.Option{kf.WithMethod(kf.Relaxation)}})
	require.NoError(t, err)
	assert.InDeltaSlice(t, res.Distribution.Density, relaxed.Distribution.Density, 1e-6)
	assert.InDelta(t, res.Aggregate(0), relaxed.Aggregate(0), 1e-8)

	// At r < ρ households run assets down: aggregate wealth is small but
	// inside the grid.
	assert.Greater(t, res.Aggregate(0), -0.1)
	assert.Less(t, res.Aggregate(0), 1.5)
	assert.InDelta(t, res.Aggregate(0)-0.2, res.Residual(0, 0.2), 1e-15)
}

func TestHuggett_StationaryMoments(t *testing.T) {
	h := huggett(t, 200)
	res, err := steady.Solve(h, steady.Options{})
	require.NoError(t, err)

	// E[ȧ] = 0 under the stationary distribution.
	assert.InDelta(t, 0, res.MeanDrift(0), 1e-10)

	// Hence E[c] = E[z] + r·E[a].
	c, err := res.MeanControl("c")
	require.NoError(t, err)
	ez, err := res.Space.Income().Mean()
	require.NoError(t, err)
	assert.InDelta(t, ez+0.03*res.Aggregate(0), c, 1e-9)

	_, err = res.MeanControl("d")
	require.Error(t, err)
}

func TestResult_Rows(t *testing.T) {
	h := huggett(t, 30)
	res, err := steady.Solve(h, steady.Options{})
	require.NoError(t, err)

	cols := res.Columns()
	assert.Equal(t, []string{"state", "a", "z", "v", "c", "drift_a", "mass", "g"}, cols)
	rows := res.Rows()
	require.Len(t, rows, res.Space.Len())

	var mass float64
	for s, row := range rows {
		assert.Equal(t, s, row.State)
		assert.Len(t, row.Values(), len(cols))
		assert.Equal(t, res.Space.Asset(s, 0), row.Assets[0])
		assert.Equal(t, res.Solution.V[s], row.V)
		mass += row.Mass
	}
	assert.InDelta(t, 1, mass, 1e-12)
}

func TestSolve_PropagatesConvergenceError(t *testing.T) {
	h := huggett(t, 30)
	_, err := steady.Solve(h, steady.Options{HJB: []hjb.Option{hjb.WithMaxIterations(1), hjb.WithTimeStep(0.1)}})
	require.ErrorIs(t, err, hjb.ErrConvergence)
}

func TestTwoAsset_Pipeline(t *testing.T) {
	income, err := grid.NewTwoStateIncome(0.8, 1.3, 0.25, 0.25)
	require.NoError(t, err)
	b, err := grid.NewUniformAxis("b", 0, 3, 16)
	require.NoError(t, err)
	a, err := grid.NewUniformAxis("a", 0, 6, 12)
	require.NoError(t, err)
	space, err := grid.NewSpace(income, b, a)
	require.NoError(t, err)
	h, err := hjb.NewTwoAsset(space, hjb.TwoAssetParams{
		Rho: 0.06, RLiquid: 0.02, RIlliquid: 0.045, W: 1, Xi: 0.1, Chi0: 0.03, Chi1: 2,
	})
	require.NoError(t, err)

	res, err := steady.Solve(h, steady.Options{
		HJB: []hjb.Option{hjb.WithTimeStep(100), hjb.WithMaxIterations(500)},
		KF:  []kf.Option{kf.WithMethod(kf.Relaxation)},
	})
	require.NoError(t, err)

	byIncome, err := kf.IncomeMarginal(space, res.Distribution)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{0.5, 0.5}, byIncome, 1e-6)
	assert.InDelta(t, 0, res.MeanDrift(hjb.Liquid), 1e-6)
	assert.InDelta(t, 0, res.MeanDrift(hjb.Illiquid), 1e-6)
	assert.Equal(t, []string{"state", "b", "a", "z", "v", "c", "d", "drift_b", "drift_a", "mass", "g"}, res.Columns())
}
