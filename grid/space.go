package grid

import (
	"fmt"

	"github.com/katalvlaran/hact/sparse"
)

// Side names one end of an axis or one direction of a finite difference.
type Side int

const (
	// Backward is the lower side (x[i]−x[i−1], the lower boundary).
	Backward Side = iota
	// Forward is the upper side (x[i+1]−x[i], the upper boundary).
	Forward
)

// String returns "backward" or "forward".
func (s Side) String() string {
	if s == Forward {
		return "forward"
	}
	return "backward"
}

// Space is the product of asset axes and an income process. Immutable.
type Space struct {
	axes      []*Axis
	income    *Income
	strides   []int // stride of each axis in the linear index
	n         int
	weights   []float64
	switching *sparse.CSR
}

// NewSpace crosses the axes (outermost first) with the income levels and
// precomputes strides, cell measures and the income-switching block.
// At least one axis is required.
func NewSpace(income *Income, axes ...*Axis) (*Space, error) {
	if income == nil {
		return nil, fmt.Errorf("space: nil income process: %w", ErrInvalidModel)
	}
	if len(axes) == 0 {
		return nil, fmt.Errorf("space: no asset axes: %w", ErrInvalidModel)
	}
	seen := make(map[string]bool, len(axes))
	for d, a := range axes {
		if a == nil {
			return nil, fmt.Errorf("space: axis %d is nil: %w", d, ErrInvalidModel)
		}
		if seen[a.name] {
			return nil, fmt.Errorf("space: duplicate axis %q: %w", a.name, ErrInvalidModel)
		}
		seen[a.name] = true
	}

	s := &Space{
		axes:    append([]*Axis(nil), axes...),
		income:  income,
		strides: make([]int, len(axes)),
	}
	stride := income.Len()
	for d := len(axes) - 1; d >= 0; d-- {
		s.strides[d] = stride
		stride *= axes[d].Len()
	}
	s.n = stride

	s.weights = make([]float64, s.n)
	for i := 0; i < s.n; i++ {
		w := 1.0
		for d, a := range s.axes {
			w *= a.Weight(s.AssetIndex(i, d))
		}
		s.weights[i] = w
	}

	sw, err := s.buildSwitching()
	if err != nil {
		return nil, err
	}
	s.switching = sw

	return s, nil
}

// Len returns N = (∏ axis lengths) × income levels.
func (s *Space) Len() int { return s.n }

// Dims returns the number of asset axes.
func (s *Space) Dims() int { return len(s.axes) }

// Axis returns axis d.
func (s *Space) Axis(d int) *Axis { return s.axes[d] }

// Income returns the income process.
func (s *Space) Income() *Income { return s.income }

// Stride returns the index distance between neighbours along axis d.
func (s *Space) Stride(d int) int { return s.strides[d] }

// Index maps asset indices (one per axis) and an income index to a state index.
// Returns -1 when any coordinate is out of range.
func (s *Space) Index(assets []int, z int) int {
	if len(assets) != len(s.axes) || z < 0 || z >= s.income.Len() {
		return -1
	}
	idx := z
	for d, i := range assets {
		if i < 0 || i >= s.axes[d].Len() {
			return -1
		}
		idx += i * s.strides[d]
	}

	return idx
}

// Unravel writes the asset indices of state i into assets (len == Dims) and
// returns its income index.
func (s *Space) Unravel(i int, assets []int) int {
	for d := range s.axes {
		assets[d] = s.AssetIndex(i, d)
	}

	return s.IncomeIndex(i)
}

// AssetIndex returns the position of state i on axis d.
func (s *Space) AssetIndex(i, d int) int { return (i / s.strides[d]) % s.axes[d].Len() }

// IncomeIndex returns the income index of state i.
func (s *Space) IncomeIndex(i int) int { return i % s.income.Len() }

// Asset returns the value of axis d at state i.
func (s *Space) Asset(i, d int) float64 { return s.axes[d].At(s.AssetIndex(i, d)) }

// IncomeLevel returns z at state i.
func (s *Space) IncomeLevel(i int) float64 { return s.income.Level(s.IncomeIndex(i)) }

// AtLower reports whether state i sits on the lowest point of axis d.
func (s *Space) AtLower(i, d int) bool { return s.AssetIndex(i, d) == 0 }

// AtUpper reports whether state i sits on the highest point of axis d.
func (s *Space) AtUpper(i, d int) bool { return s.AssetIndex(i, d) == s.axes[d].Len()-1 }

// AtEdge reports whether state i sits on the given side of axis d.
func (s *Space) AtEdge(i, d int, side Side) bool {
	if side == Forward {
		return s.AtUpper(i, d)
	}
	return s.AtLower(i, d)
}

// Neighbor returns the state one step along axis d in the given direction, or
// -1 when that step leaves the grid.
func (s *Space) Neighbor(i, d int, side Side) int {
	if s.AtEdge(i, d, side) {
		return -1
	}
	if side == Forward {
		return i + s.strides[d]
	}
	return i - s.strides[d]
}

// Width returns the one-sided cell width of state i along axis d.
func (s *Space) Width(i, d int, side Side) float64 {
	k := s.AssetIndex(i, d)
	if side == Forward {
		return s.axes[d].Forward(k)
	}
	return s.axes[d].Backward(k)
}

// Weight returns the measure of the cell of state i (product over axes).
func (s *Space) Weight(i int) float64 { return s.weights[i] }

// Weights returns a copy of all cell measures.
func (s *Space) Weights() []float64 { return append([]float64(nil), s.weights...) }

// Switching returns the N×N income-switching block A_switch. Off-diagonal
// entries are Λ[i_z, j_z] at equal asset coordinates; the diagonal makes each
// row sum to zero on its own.
func (s *Space) Switching() *sparse.CSR { return s.switching }

// buildSwitching assembles A_switch through the coordinate arena.
func (s *Space) buildSwitching() (*sparse.CSR, error) {
	nz := s.income.Len()
	b, err := sparse.NewBuilder(s.n, s.n*nz)
	if err != nil {
		return nil, fmt.Errorf("space: %w", err)
	}
	var (
		iz, jz, base int
		rate, out    float64
	)
	for i := 0; i < s.n; i++ {
		iz = i % nz
		base = i - iz
		out = 0
		for jz = 0; jz < nz; jz++ {
			if jz == iz {
				continue
			}
			rate = s.income.Rate(iz, jz)
			out += rate
			b.Add(i, base+jz, rate)
		}
		b.Add(i, i, -out)
	}
	m, err := b.Build()
	if err != nil {
		return nil, fmt.Errorf("space: switching block: %w", err)
	}

	return m, nil
}

// Coordinates returns the asset values and income level of state i, for tables.
func (s *Space) Coordinates(i int) (assets []float64, z float64) {
	assets = make([]float64, len(s.axes))
	for d := range s.axes {
		assets[d] = s.Asset(i, d)
	}

	return assets, s.IncomeLevel(i)
}
