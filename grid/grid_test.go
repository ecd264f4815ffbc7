package grid_test

import (
	"fmt"
	"testing"

	"github.com/katalvlaran/hact/grid"
	"github.com/katalvlaran/hact/sparse"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUniformAxis(t *testing.T) {
	a, err := grid.NewUniformAxis("a", -0.1, 1.5, 5)
	require.NoError(t, err)
	assert.Equal(t, 5, a.Len())
	assert.Equal(t, -0.1, a.Min())
	assert.Equal(t, 1.5, a.Max())
	assert.True(t, a.Uniform())
	for i := 0; i < a.Len(); i++ {
		assert.InDelta(t, 0.4, a.Forward(i), 1e-12, "forward %d", i)
		assert.InDelta(t, 0.4, a.Backward(i), 1e-12, "backward %d", i)
		assert.InDelta(t, 0.4, a.Weight(i), 1e-12, "weight %d", i)
	}
}

func TestAxis_Invalid(t *testing.T) {
	for _, tc := range []struct {
		name string
		fn   func() error
	}{
		{"one point", func() error { _, err := grid.NewUniformAxis("a", 0, 1, 1); return err }},
		{"reversed bounds", func() error { _, err := grid.NewUniformAxis("a", 1, 0, 4); return err }},
		{"not increasing", func() error { _, err := grid.NewAxis("a", []float64{0, 1, 1}); return err }},
		{"empty", func() error { _, err := grid.NewAxis("a", nil); return err }},
	} {
		t.Run(tc.name, func(t *testing.T) {
			require.ErrorIs(t, tc.fn(), grid.ErrInvalidModel)
		})
	}
}

func TestNonUniformAxisWidths(t *testing.T) {
	a, err := grid.NewAxis("a", []float64{0, 1, 3, 7})
	require.NoError(t, err)
	assert.False(t, a.Uniform())
	assert.Equal(t, []float64{1, 1, 2, 4}, []float64{a.Backward(0), a.Backward(1), a.Backward(2), a.Backward(3)})
	assert.Equal(t, []float64{1, 2, 4, 4}, []float64{a.Forward(0), a.Forward(1), a.Forward(2), a.Forward(3)})
	assert.Equal(t, 1.5, a.Weight(1))
}

func TestNewIncome_RowSumViolationNamesRow(t *testing.T) {
	_, err := grid.NewIncome([]float64{1, 2}, [][]float64{{-0.5, 0.5}, {0.3, -0.2}})
	require.ErrorIs(t, err, grid.ErrInvalidModel)
	assert.Contains(t, err.Error(), "row 1")

	_, err = grid.NewIncome([]float64{1, 2}, [][]float64{{0.5, -0.5}, {0.3, -0.3}})
	require.ErrorIs(t, err, grid.ErrInvalidModel)

	_, err = grid.NewIncome([]float64{1, 2}, [][]float64{{0, 0}})
	require.ErrorIs(t, err, grid.ErrInvalidModel)
}

func TestIncome_Stationary(t *testing.T) {
	y, err := grid.NewTwoStateIncome(0.1, 0.2, 0.02, 0.03)
	require.NoError(t, err)
	pi, err := y.Stationary()
	require.NoError(t, err)
	// π1·λ1 = π2·λ2
	assert.InDeltaSlice(t, []float64{0.6, 0.4}, pi, 1e-12)
	m, err := y.Mean()
	require.NoError(t, err)
	assert.InDelta(t, 0.14, m, 1e-12)
}

func TestSpace_IndexRoundTrip(t *testing.T) {
	y, err := grid.NewIncome([]float64{1, 2, 3}, [][]float64{{-1, 0.5, 0.5}, {0.2, -0.2, 0}, {0, 1, -1}})
	require.NoError(t, err)
	b, err := grid.NewUniformAxis("b", -1, 1, 4)
	require.NoError(t, err)
	a, err := grid.NewUniformAxis("a", 0, 2, 5)
	require.NoError(t, err)
	s, err := grid.NewSpace(y, b, a)
	require.NoError(t, err)

	require.Equal(t, 4*5*3, s.Len())
	assert.Equal(t, 15, s.Stride(0))
	assert.Equal(t, 3, s.Stride(1))

	coords := make([]int, 2)
	for i := 0; i < s.Len(); i++ {
		z := s.Unravel(i, coords)
		require.Equal(t, i, s.Index(coords, z), "state %d", i)
	}
	assert.Equal(t, -1, s.Index([]int{4, 0}, 0))
	assert.Equal(t, -1, s.Index([]int{0, 0}, 3))

	i := s.Index([]int{0, 4}, 2)
	assert.True(t, s.AtLower(i, 0))
	assert.True(t, s.AtUpper(i, 1))
	assert.Equal(t, -1, s.Neighbor(i, 0, grid.Backward))
	assert.Equal(t, -1, s.Neighbor(i, 1, grid.Forward))
	assert.Equal(t, i+15, s.Neighbor(i, 0, grid.Forward))
	assert.Equal(t, i-3, s.Neighbor(i, 1, grid.Backward))
	assert.InDelta(t, (2.0/3)*0.5, s.Weight(i), 1e-12)

	assets, z := s.Coordinates(i)
	assert.InDeltaSlice(t, []float64{-1, 2}, assets, 1e-12)
	assert.Equal(t, 3.0, z)
}

func TestSpace_SwitchingIsGenerator(t *testing.T) {
	y, err := grid.NewIncome([]float64{1, 2, 3}, [][]float64{{-1, 0.5, 0.5}, {0.2, -0.2, 0}, {0, 1, -1}})
	require.NoError(t, err)
	a, err := grid.NewUniformAxis("a", 0, 1, 6)
	require.NoError(t, err)
	s, err := grid.NewSpace(y, a)
	require.NoError(t, err)

	sw := s.Switching()
	require.NoError(t, sparse.ValidateGenerator(sw, 1e-12))
	// switching never moves the asset coordinate
	sw.DoNonZero(func(i, j int, v float64) {
		assert.Equal(t, s.AssetIndex(i, 0), s.AssetIndex(j, 0), fmt.Sprintf("(%d,%d)", i, j))
	})
	i := s.Index([]int{2}, 0)
	assert.Equal(t, 0.5, sw.At(i, i+1))
	assert.Equal(t, 0.5, sw.At(i, i+2))
	assert.Equal(t, -1.0, sw.At(i, i))
	kl, ku := sw.Bandwidth()
	assert.LessOrEqual(t, kl, 2)
	assert.LessOrEqual(t, ku, 2)
}

func TestNewSpace_Invalid(t *testing.T) {
	y, err := grid.NewDeterministicIncome(1)
	require.NoError(t, err)
	a, err := grid.NewUniformAxis("a", 0, 1, 3)
	require.NoError(t, err)

	_, err = grid.NewSpace(nil, a)
	require.ErrorIs(t, err, grid.ErrInvalidModel)
	_, err = grid.NewSpace(y)
	require.ErrorIs(t, err, grid.ErrInvalidModel)
	_, err = grid.NewSpace(y, a, a)
	require.ErrorIs(t, err, grid.ErrInvalidModel)
}
