// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"math"
	"strings"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/hact/hjb"
	"github.com/katalvlaran/hact/kf"
	"github.com/katalvlaran/hact/sparse"
)

func newCrossCheckCmd(flags *rootFlags) *cobra.Command {
	var (
		methods  string
		tol      float64
		explicit bool
	)
	cmd := &cobra.Command{
		Use:   "crosscheck <config>",
		Short: "Compare stationary-distribution methods (and optionally schemes) on one model",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ms, err := parseMethods(methods)
			if err != nil {
				return err
			}
			_, h, opts, err := load(args[0])
			if err != nil {
				return err
			}
			log := flags.logger(cmd)
			hopts := append(opts.HJB, hjb.WithLogger(log))
			sol, err := hjb.Solve(h, hopts...)
			if err != nil {
				return err
			}
			if err = sparse.ValidateGenerator(sol.Generator, sparse.DefaultGeneratorTol); err != nil {
				return err
			}

			sp := h.Space()
			cmp, err := kf.CrossCheck(sol.Generator, sp.Weights(), ms, append(opts.KF, kf.WithLogger(log))...)
			if err != nil {
				return err
			}
			rows := make([][]any, 0, len(cmp.Results))
			for _, d := range cmp.Results {
				row := []any{d.Method.String()}
				for dim := 0; dim < sp.Dims(); dim++ {
					row = append(row, num(kf.Moment(d, func(s int) float64 { return sp.Asset(s, dim) })))
				}
				rows = append(rows, append(row, strings.Join(d.Warnings, "; ")))
			}
			header := []string{"method"}
			for dim := 0; dim < sp.Dims(); dim++ {
				header = append(header, "mean "+sp.Axis(dim).Name())
			}
			out := cmd.OutOrStdout()
			render(out, flags.format, "distribution methods", append(header, "warnings"), rows)
			fmt.Fprintf(out, "max density difference: %.3e (%v vs %v)\n", cmp.MaxDiff, cmp.Worst[0], cmp.Worst[1])
			fmt.Fprintf(out, "max mass difference: %.3e\n", cmp.MaxMassDiff)

			var failures []string
			if cmp.MaxDiff > tol {
				failures = append(failures, fmt.Sprintf("distribution densities differ by %.3e", cmp.MaxDiff))
			}
			if explicit {
				exp, err := hjb.Solve(h, append(hopts,
					hjb.WithScheme(hjb.Explicit),
					hjb.WithMaxIterations(1_000_000),
				)...)
				if err != nil {
					return fmt.Errorf("explicit scheme: %w", err)
				}
				var dv float64
				for i := range sol.V {
					dv = math.Max(dv, math.Abs(sol.V[i]-exp.V[i]))
				}
				fmt.Fprintf(out, "implicit vs explicit max|Δv|: %.3e (%d explicit steps, dt %.3g)\n",
					dv, exp.Iterations, exp.TimeStep)
			}
			if len(failures) > 0 {
				return fmt.Errorf("crosscheck failed: %s", strings.Join(failures, "; "))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&methods, "methods", "direct,relaxation,power", "comma-separated kf methods")
	cmd.Flags().Float64Var(&tol, "tol", 1e-6, "maximum allowed density difference")
	cmd.Flags().BoolVar(&explicit, "explicit", false, "also solve with the explicit scheme and compare values")
	return cmd
}

func parseMethods(s string) ([]kf.Method, error) {
	var ms []kf.Method
	for _, name := range strings.Split(s, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		m, err := kf.ParseMethod(name)
		if err != nil {
			return nil, err
		}
		ms = append(ms, m)
	}
	if len(ms) < 2 {
		return nil, fmt.Errorf("crosscheck needs at least two methods, got %q", s)
	}
	return ms, nil
}
