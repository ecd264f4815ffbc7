package grid

import (
	"fmt"
	"math"
)

// Axis is one ordered asset grid. It is immutable once built.
type Axis struct {
	name   string
	points []float64
	fwd    []float64 // x[i+1]-x[i]; copied from bwd at the top
	bwd    []float64 // x[i]-x[i-1]; copied from fwd at the bottom
}

// NewUniformAxis returns n equi-spaced points on [lo, hi].
// Returns ErrInvalidModel if n < 2, hi <= lo or a bound is not finite.
func NewUniformAxis(name string, lo, hi float64, n int) (*Axis, error) {
	if n < 2 {
		return nil, fmt.Errorf("axis %q: %d points, need at least 2: %w", name, n, ErrInvalidModel)
	}
	if !finite(lo) || !finite(hi) || hi <= lo {
		return nil, fmt.Errorf("axis %q: bounds [%g, %g]: %w", name, lo, hi, ErrInvalidModel)
	}
	pts := make([]float64, n)
	step := (hi - lo) / float64(n-1)
	for i := range pts {
		pts[i] = lo + float64(i)*step
	}
	pts[n-1] = hi

	return newAxis(name, pts), nil
}

// NewAxis builds an axis from explicit points, which must be finite and
// strictly increasing. The slice is copied.
func NewAxis(name string, points []float64) (*Axis, error) {
	if len(points) < 2 {
		return nil, fmt.Errorf("axis %q: %d points, need at least 2: %w", name, len(points), ErrInvalidModel)
	}
	for i, x := range points {
		if !finite(x) {
			return nil, fmt.Errorf("axis %q: point %d is %g: %w", name, i, x, ErrInvalidModel)
		}
		if i > 0 && x <= points[i-1] {
			return nil, fmt.Errorf("axis %q: point %d (%g) not above point %d (%g): %w",
				name, i, x, i-1, points[i-1], ErrInvalidModel)
		}
	}

	return newAxis(name, append([]float64(nil), points...)), nil
}

// newAxis precomputes one-sided widths for validated points.
func newAxis(name string, pts []float64) *Axis {
	n := len(pts)
	a := &Axis{name: name, points: pts, fwd: make([]float64, n), bwd: make([]float64, n)}
	for i := 0; i < n-1; i++ {
		a.fwd[i] = pts[i+1] - pts[i]
		a.bwd[i+1] = a.fwd[i]
	}
	a.bwd[0] = a.fwd[0]
	a.fwd[n-1] = a.bwd[n-1]

	return a
}

// Name returns the axis label (e.g. "a", "b").
func (a *Axis) Name() string { return a.name }

// Len returns the number of points.
func (a *Axis) Len() int { return len(a.points) }

// At returns the i-th point.
func (a *Axis) At(i int) float64 { return a.points[i] }

// Min returns the lowest point.
func (a *Axis) Min() float64 { return a.points[0] }

// Max returns the highest point.
func (a *Axis) Max() float64 { return a.points[len(a.points)-1] }

// Points returns a copy of the grid points.
func (a *Axis) Points() []float64 { return append([]float64(nil), a.points...) }

// Forward returns x[i+1]−x[i] (one-sided copy at the top).
func (a *Axis) Forward(i int) float64 { return a.fwd[i] }

// Backward returns x[i]−x[i−1] (one-sided copy at the bottom).
func (a *Axis) Backward(i int) float64 { return a.bwd[i] }

// Weight returns the cell measure (fwd+bwd)/2.
func (a *Axis) Weight(i int) float64 { return 0.5 * (a.fwd[i] + a.bwd[i]) }

// Uniform reports whether all widths agree within a relative 1e-9.
func (a *Axis) Uniform() bool {
	for i := 1; i < len(a.fwd)-1; i++ {
		if math.Abs(a.fwd[i]-a.fwd[0]) > 1e-9*a.fwd[0] {
			return false
		}
	}

	return true
}

func finite(x float64) bool { return !math.IsNaN(x) && !math.IsInf(x, 0) }
