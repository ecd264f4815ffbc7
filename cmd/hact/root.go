// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/hact/config"
)

type rootFlags struct {
	logLevel  string
	logFormat string
	format    string
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}
	root := &cobra.Command{
		Use:           "hact",
		Short:         "Finite-difference HJB and Kolmogorov-Forward solver",
		Long:          "Solve continuous-time heterogeneous-agent household problems with the upwind implicit scheme.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			switch flags.format {
			case formatTable, formatCSV, formatMarkdown:
				return nil
			default:
				return fmt.Errorf("unknown --format %q (want %s, %s or %s)", flags.format, formatTable, formatCSV, formatMarkdown)
			}
		},
	}
	pf := root.PersistentFlags()
	pf.StringVar(&flags.logLevel, "log-level", "warn", "log level: debug, info, warn, error")
	pf.StringVar(&flags.logFormat, "log-format", "text", "log format: text or json")
	pf.StringVarP(&flags.format, "format", "f", formatTable, "output format: table, csv or markdown")

	root.AddCommand(
		newSolveCmd(flags),
		newCrossCheckCmd(flags),
		newValidateCmd(),
	)
	return root
}

// newLogger builds an isolated slog.Logger writing to w.
func newLogger(levelStr, formatStr string, w io.Writer) *slog.Logger {
	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	handlerOpts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if formatStr == "json" {
		handler = slog.NewJSONHandler(w, handlerOpts)
	} else {
		handler = slog.NewTextHandler(w, handlerOpts)
	}

	return slog.New(handler)
}

func (f *rootFlags) logger(cmd *cobra.Command) *slog.Logger {
	return newLogger(f.logLevel, f.logFormat, cmd.ErrOrStderr())
}

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <config>...",
		Short: "Check that configuration files load and build",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var failed int
			for _, path := range args {
				f, err := config.Load(path)
				if err == nil {
					err = f.Validate()
				}
				if err != nil {
					failed++
					fmt.Fprintf(cmd.OutOrStdout(), "FAIL %s: %v\n", path, err)
					continue
				}
				fmt.Fprintf(cmd.OutOrStdout(), "ok   %s (%s %q)\n", path, f.Model.Kind, f.Model.Name)
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d files invalid", failed, len(args))
			}
			return nil
		},
	}
}
