package hjb_test

import (
	"math"
	"testing"

	"github.com/katalvlaran/hact/grid"
	"github.com/katalvlaran/hact/hjb"
	"github.com/katalvlaran/hact/sparse"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func twoAssetParams() hjb.TwoAssetParams {
	return hjb.TwoAssetParams{
		Rho:       0.06,
		RLiquid:   0.02,
		RIlliquid: 0.045,
		W:         1,
		Xi:        0.1,
		Chi0:      0.03,
		Chi1:      2,
		Utility:   hjb.CRRA{Sigma: 2},
	}
}

func twoAsset(t testing.TB, nb, na int) *hjb.TwoAsset {
	t.Helper()
	income, err := grid.NewTwoStateIncome(0.8, 1.3, 0.25, 0.25)
	require.NoError(t, err)
	b, err := grid.NewUniformAxis("b", 0, 3, nb)
	require.NoError(t, err)
	a, err := grid.NewUniformAxis("a", 0, 6, na)
	require.NoError(t, err)
	space, err := grid.NewSpace(income, b, a)
	require.NoError(t, err)
	h, err := hjb.NewTwoAsset(space, twoAssetParams())
	require.NoError(t, err)
	return h
}

func TestTwoAsset_Solve(t *testing.T) {
	h := twoAsset(t, 20, 15)
	sol, err := hjb.Solve(h, hjb.WithTimeStep(100), hjb.WithMaxIterations(500))
	require.NoError(t, err)
	require.NoError(t, sparse.ValidateGenerator(sol.Generator, sparse.DefaultGeneratorTol))

	c, ok := sol.Control("c")
	require.True(t, ok)
	d, ok := sol.Control("d")
	require.True(t, ok)

	sp := h.Space()
	var deposits, withdrawals int
	for s := 0; s < sp.Len(); s++ {
		db, da := sol.Drift[hjb.Liquid][s], sol.Drift[hjb.Illiquid][s]
		a := sp.Asset(s, hjb.Illiquid)

		// c + ḃ + ȧ + χ(d, a) = w·z + r_b·b + r_a·a
		assert.InDelta(t, h.Income(s), c[s]+db+da+h.AdjustmentCost(d[s], a), 1e-10, "state %d", s)

		if sp.AtLower(s, hjb.Liquid) {
			assert.GreaterOrEqual(t, db, 0.0, "ḃ at b_min, state %d", s)
			assert.LessOrEqual(t, d[s], 0.0, "deposit at b_min, state %d", s)
		}
		if sp.AtUpper(s, hjb.Liquid) {
			assert.LessOrEqual(t, db, 0.0, "ḃ at b_max, state %d", s)
		}
		if sp.AtLower(s, hjb.Illiquid) {
			assert.GreaterOrEqual(t, da, 0.0, "ȧ at a_min, state %d", s)
			assert.GreaterOrEqual(t, d[s], 0.0, "withdrawal at a_min, state %d", s)
		}
		if sp.AtUpper(s, hjb.Illiquid) {
			assert.LessOrEqual(t, da, 0.0, "ȧ at a_max, state %d", s)
		}
		switch {
		case d[s] > 0:
			deposits++
		case d[s] < 0:
			withdrawals++
		}
	}
	assert.Positive(t, deposits+withdrawals, "adjustment never happens")
	assert.Zero(t, sol.Diagnostics.Truncated)
}

func TestTwoAsset_LiquidValueIncreasing(t *testing.T) {
	h := twoAsset(t, 20, 15)
	sol, err := hjb.Solve(h, hjb.WithTimeStep(100), hjb.WithMaxIterations(500))
	require.NoError(t, err)
	sp := h.Space()
	for s := 0; s < sp.Len(); s++ {
		if nb := sp.Neighbor(s, hjb.Liquid, grid.Forward); nb >= 0 {
			assert.GreaterOrEqual(t, sol.V[nb], sol.V[s], "state %d", s)
		}
	}
}

func TestTwoAsset_AdjustmentCost(t *testing.T) {
	h := twoAsset(t, 5, 5)
	p := h.Params()
	assert.Equal(t, 1e-5, p.AFloor)
	assert.Equal(t, p.RLiquid, p.RBorrow)

	assert.InDelta(t, 0.03*0.5+0.5*2*0.25/2, h.AdjustmentCost(0.5, 2), 1e-12)
	assert.InDelta(t, h.AdjustmentCost(0.5, 2), h.AdjustmentCost(-0.5, 2), 1e-12)
	assert.Zero(t, h.AdjustmentCost(0, 2))
	// a = 0 uses the floor.
	assert.InDelta(t, 0.03*0.1+0.5*2*0.01/1e-5, h.AdjustmentCost(0.1, 0), 1e-9)
}

func TestNewTwoAsset_Invalid(t *testing.T) {
	income, err := grid.NewTwoStateIncome(0.8, 1.3, 0.25, 0.25)
	require.NoError(t, err)
	b, err := grid.NewUniformAxis("b", 0, 3, 5)
	require.NoError(t, err)
	a, err := grid.NewUniformAxis("a", 0, 6, 5)
	require.NoError(t, err)
	neg, err := grid.NewUniformAxis("a", -1, 6, 5)
	require.NoError(t, err)
	space, err := grid.NewSpace(income, b, a)
	require.NoError(t, err)
	negSpace, err := grid.NewSpace(income, b, neg)
	require.NoError(t, err)
	oneD, err := grid.NewSpace(income, b)
	require.NoError(t, err)

	mutate := func(f func(*hjb.TwoAssetParams)) hjb.TwoAssetParams {
		p := twoAssetParams()
		f(&p)
		return p
	}
	for _, tc := range []struct {
		name  string
		space *grid.Space
		p     hjb.TwoAssetParams
	}{
		{"chi0 one", space, mutate(func(p *hjb.TwoAssetParams) { p.Chi0 = 1 })},
		{"chi0 negative", space, mutate(func(p *hjb.TwoAssetParams) { p.Chi0 = -0.1 })},
		{"chi1 zero", space, mutate(func(p *hjb.TwoAssetParams) { p.Chi1 = 0 })},
		{"xi above one", space, mutate(func(p *hjb.TwoAssetParams) { p.Xi = 1.5 })},
		{"rho zero", space, mutate(func(p *hjb.TwoAssetParams) { p.Rho = 0 })},
		{"negative illiquid return", space, mutate(func(p *hjb.TwoAssetParams) { p.RIlliquid = -0.01 })},
		{"nan", space, mutate(func(p *hjb.TwoAssetParams) { p.RLiquid = math.NaN() })},
		{"illiquid below zero", negSpace, twoAssetParams()},
		{"one axis", oneD, twoAssetParams()},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, err := hjb.NewTwoAsset(tc.space, tc.p)
			require.ErrorIs(t, err, hjb.ErrInvalidModel)
		})
	}
}
