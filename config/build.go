// SPDX-License-Identifier: MIT

package config

import (
	"fmt"

	"github.com/katalvlaran/hact/grid"
	"github.com/katalvlaran/hact/hjb"
	"github.com/katalvlaran/hact/kf"
	"github.com/katalvlaran/hact/sparse"
)

// Validate builds every component once and reports the first failure.
func (f *File) Validate() error {
	if _, err := f.Household(); err != nil {
		return err
	}
	if _, err := f.SolverOptions(); err != nil {
		return err
	}
	_, err := f.DistributionOptions()
	return err
}

// Space builds the income process and the asset axes in declaration order.
func (f *File) Space() (*grid.Space, error) {
	m := f.Model
	income, err := m.Income.build()
	if err != nil {
		return nil, fmt.Errorf("config: model %q: %w", m.Name, err)
	}
	if len(m.Axes) == 0 {
		return nil, fmt.Errorf("config: model %q declares no axis: %w", m.Name, ErrInvalidConfig)
	}
	axes := make([]*grid.Axis, len(m.Axes))
	for i, a := range m.Axes {
		if axes[i], err = a.build(); err != nil {
			return nil, fmt.Errorf("config: model %q: %w", m.Name, err)
		}
	}
	sp, err := grid.NewSpace(income, axes...)
	if err != nil {
		return nil, fmt.Errorf("config: model %q: %w", m.Name, err)
	}
	return sp, nil
}

func (y Income) build() (*grid.Income, error) {
	switch {
	case len(y.Rates) > 0 && len(y.Switching) > 0:
		return nil, fmt.Errorf("income: set either rates or switching: %w", ErrInvalidConfig)
	case len(y.Switching) > 0:
		if len(y.Levels) != 2 || len(y.Switching) != 2 {
			return nil, fmt.Errorf("income: switching needs exactly two levels and two rates: %w", ErrInvalidConfig)
		}
		return grid.NewTwoStateIncome(y.Levels[0], y.Levels[1], y.Switching[0], y.Switching[1])
	case len(y.Rates) > 0:
		return grid.NewIncome(y.Levels, y.Rates)
	case len(y.Levels) == 1:
		return grid.NewDeterministicIncome(y.Levels[0])
	default:
		return nil, fmt.Errorf("income: %d levels without rates: %w", len(y.Levels), ErrInvalidConfig)
	}
}

func (a Axis) build() (*grid.Axis, error) {
	if len(a.Nodes) > 0 {
		if a.Points != 0 {
			return nil, fmt.Errorf("axis %q: set either nodes or min/max/points: %w", a.Name, ErrInvalidConfig)
		}
		return grid.NewAxis(a.Name, a.Nodes)
	}
	return grid.NewUniformAxis(a.Name, a.Min, a.Max, a.Points)
}

// Household builds the model variant named by kind.
func (f *File) Household() (hjb.Household, error) {
	m := f.Model
	space, err := f.Space()
	if err != nil {
		return nil, err
	}
	sigma := 2.0
	if m.Utility != nil {
		sigma = m.Utility.Sigma
	}
	u, err := hjb.NewCRRA(sigma)
	if err != nil {
		return nil, fmt.Errorf("config: model %q: %w", m.Name, err)
	}
	var (
		prices Prices
		costs  Costs
	)
	if m.Prices != nil {
		prices = *m.Prices
	}
	if m.Costs != nil {
		costs = *m.Costs
	}

	var h hjb.Household
	switch m.Kind {
	case KindSingleAsset:
		h, err = hjb.NewSingleAsset(space, hjb.SingleAssetParams{
			Rho: m.Rho, R: prices.R, W: prices.W, Utility: u,
		})
	case KindTwoAsset:
		h, err = hjb.NewTwoAsset(space, hjb.TwoAssetParams{
			Rho:       m.Rho,
			RLiquid:   prices.RB,
			RBorrow:   prices.RBorrow,
			RIlliquid: prices.RA,
			W:         prices.W,
			Xi:        prices.Xi,
			Chi0:      costs.Chi0,
			Chi1:      costs.Chi1,
			AFloor:    costs.AFloor,
			Utility:   u,
		})
	default:
		return nil, fmt.Errorf("config: model %q: unknown kind %q (want %s or %s): %w",
			m.Name, m.Kind, KindSingleAsset, KindTwoAsset, ErrInvalidConfig)
	}
	if err != nil {
		return nil, fmt.Errorf("config: model %q: %w", m.Name, err)
	}
	return h, nil
}

// SolverOptions converts the solver block. Values are checked here so the
// panicking option constructors never see nonsense.
func (f *File) SolverOptions() ([]hjb.Option, error) {
	s := f.Solver
	if s == nil {
		return nil, nil
	}
	var opts []hjb.Option
	scheme, ok := hjb.ParseScheme(s.Scheme)
	if !ok {
		return nil, fmt.Errorf("config: solver: unknown scheme %q: %w", s.Scheme, ErrInvalidConfig)
	}
	opts = append(opts, hjb.WithScheme(scheme))
	backend, err := sparse.ParseBackend(s.Linear)
	if err != nil {
		return nil, fmt.Errorf("config: solver: %w: %w", ErrInvalidConfig, err)
	}
	opts = append(opts, hjb.WithLinearSolver(backend))

	switch {
	case s.Dt < 0, s.Tol < 0, s.MaxIter < 0:
		return nil, fmt.Errorf("config: solver: dt, tol and max_iter must not be negative: %w", ErrInvalidConfig)
	}
	if s.Dt > 0 {
		opts = append(opts, hjb.WithTimeStep(s.Dt))
	}
	if s.Tol > 0 {
		opts = append(opts, hjb.WithTolerance(s.Tol))
	}
	if s.MaxIter > 0 {
		opts = append(opts, hjb.WithMaxIterations(s.MaxIter))
	}
	return opts, nil
}

// DistributionOptions converts the distribution block.
func (f *File) DistributionOptions() ([]kf.Option, error) {
	d := f.Distribution
	if d == nil {
		return nil, nil
	}
	m, err := kf.ParseMethod(d.Method)
	if err != nil {
		return nil, fmt.Errorf("config: distribution: %w: %w", ErrInvalidConfig, err)
	}
	switch {
	case d.Pin < 0, d.Death < 0, d.Step < 0, d.Tol < 0, d.MaxSteps < 0:
		return nil, fmt.Errorf("config: distribution: negative setting: %w", ErrInvalidConfig)
	}
	opts := []kf.Option{kf.WithMethod(m), kf.WithPin(d.Pin)}
	if d.Death > 0 {
		opts = append(opts, kf.WithDeath(d.Death))
	}
	if d.Birth != nil {
		opts = append(opts, kf.WithBirth(d.Birth))
	}
	if d.Step > 0 {
		opts = append(opts, kf.WithStep(d.Step))
	}
	if d.Tol > 0 {
		opts = append(opts, kf.WithTolerance(d.Tol))
	}
	if d.MaxSteps > 0 {
		opts = append(opts, kf.WithMaxSteps(d.MaxSteps))
	}
	return opts, nil
}
