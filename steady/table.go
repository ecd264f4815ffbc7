// SPDX-License-Identifier: MIT

package steady

// Row is one state of the result table.
type Row struct {
	State    int
	Assets   []float64 // per axis
	Income   float64
	V        float64
	Controls []float64 // in Columns order
	Drift    []float64 // per axis
	Mass     float64
	Density  float64
}

// Columns returns the header of Rows flattened by Row.Values:
// "state", axis names, "z", "v", control names, "drift_<axis>", "mass", "g".
func (r *Result) Columns() []string {
	dims := r.Space.Dims()
	cols := make([]string, 0, 2*dims+len(r.Solution.ControlNames)+5)
	cols = append(cols, "state")
	for d := 0; d < dims; d++ {
		cols = append(cols, r.Space.Axis(d).Name())
	}
	cols = append(cols, "z", "v")
	cols = append(cols, r.Solution.ControlNames...)
	for d := 0; d < dims; d++ {
		cols = append(cols, "drift_"+r.Space.Axis(d).Name())
	}
	return append(cols, "mass", "g")
}

// Rows returns one Row per state in index order.
func (r *Result) Rows() []Row {
	sp, sol, dist := r.Space, r.Solution, r.Distribution
	rows := make([]Row, sp.Len())
	for s := range rows {
		assets, z := sp.Coordinates(s)
		row := Row{
			State:    s,
			Assets:   assets,
			Income:   z,
			V:        sol.V[s],
			Controls: make([]float64, len(sol.Controls)),
			Drift:    make([]float64, len(sol.Drift)),
			Mass:     dist.Mass[s],
			Density:  dist.Density[s],
		}
		for k := range sol.Controls {
			row.Controls[k] = sol.Controls[k][s]
		}
		for d := range sol.Drift {
			row.Drift[d] = sol.Drift[d][s]
		}
		rows[s] = row
	}
	return rows
}

// Values flattens a row in Columns order. The state index is returned as float64.
func (row Row) Values() []float64 {
	out := make([]float64, 0, 1+len(row.Assets)+2+len(row.Controls)+len(row.Drift)+2)
	out = append(out, float64(row.State))
	out = append(out, row.Assets...)
	out = append(out, row.Income, row.V)
	out = append(out, row.Controls...)
	out = append(out, row.Drift...)
	return append(out, row.Mass, row.Density)
}
