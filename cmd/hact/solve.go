// SPDX-License-Identifier: MIT

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/hact/config"
	"github.com/katalvlaran/hact/hjb"
	"github.com/katalvlaran/hact/steady"
)

// load reads a configuration and builds everything the pipeline needs.
func load(path string) (*config.File, hjb.Household, steady.Options, error) {
	f, err := config.Load(path)
	if err != nil {
		return nil, nil, steady.Options{}, err
	}
	h, err := f.Household()
	if err != nil {
		return nil, nil, steady.Options{}, err
	}
	hopts, err := f.SolverOptions()
	if err != nil {
		return nil, nil, steady.Options{}, err
	}
	kopts, err := f.DistributionOptions()
	if err != nil {
		return nil, nil, steady.Options{}, err
	}
	return f, h, steady.Options{HJB: hopts, KF: kopts}, nil
}

func newSolveCmd(flags *rootFlags) *cobra.Command {
	var (
		states bool
		every  int
	)
	cmd := &cobra.Command{
		Use:   "solve <config>",
		Short: "Solve the value function and stationary distribution",
		Args:  cobra.ExactArgs(1),
		Example: `
# Summary of the Huggett economy
hact solve examples/huggett.hcl

# Every 10th state as CSV
hact solve examples/huggett.hcl --states --every 10 --format csv
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if every < 1 {
				return fmt.Errorf("--every must be ≥ 1, got %d", every)
			}
			f, h, opts, err := load(args[0])
			if err != nil {
				return err
			}
			opts.Logger = flags.logger(cmd)
			res, err := steady.Solve(h, opts)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			render(out, flags.format, fmt.Sprintf("%s (%s)", f.Model.Name, f.Model.Kind),
				[]string{"quantity", "value"}, summary(res))
			if states {
				render(out, flags.format, "states", res.Columns(), stateRows(res, every))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&states, "states", false, "print the per-state table")
	cmd.Flags().IntVar(&every, "every", 1, "print every n-th state only")
	return cmd
}

func summary(res *steady.Result) [][]any {
	sol, dist, sp := res.Solution, res.Distribution, res.Space
	rows := [][]any{
		{"states", sp.Len()},
		{"iterations", sol.Iterations},
		{"residual", num(sol.Residual())},
		{"distribution", dist.Method.String()},
	}
	for d := 0; d < sp.Dims(); d++ {
		rows = append(rows, []any{"mean " + sp.Axis(d).Name(), num(res.Aggregate(d))})
	}
	for _, name := range sol.ControlNames {
		m, err := res.MeanControl(name)
		if err == nil {
			rows = append(rows, []any{"mean " + name, num(m)})
		}
	}
	rows = append(rows,
		[]any{"non-concave points", sol.Diagnostics.NonConcaveCount},
		[]any{"truncated drifts", sol.Diagnostics.Truncated},
	)
	for _, w := range dist.Warnings {
		rows = append(rows, []any{"warning", w})
	}
	return rows
}

func stateRows(res *steady.Result, every int) [][]any {
	all := res.Rows()
	rows := make([][]any, 0, len(all)/every+1)
	for i := 0; i < len(all); i += every {
		vals := all[i].Values()
		row := make([]any, len(vals))
		row[0] = all[i].State
		for k := 1; k < len(vals); k++ {
			row[k] = num(vals[k])
		}
		rows = append(rows, row)
	}
	return rows
}
