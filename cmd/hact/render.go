// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
)

const (
	formatTable    = "table"
	formatCSV      = "csv"
	formatMarkdown = "markdown"
)

// render writes one table in the requested format.
func render(w io.Writer, format, title string, header []string, rows [][]any) {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	hdr := make(table.Row, len(header))
	for i, h := range header {
		hdr[i] = h
	}
	tw.AppendHeader(hdr)
	for _, r := range rows {
		tw.AppendRow(table.Row(r))
	}

	switch format {
	case formatCSV:
		tw.RenderCSV()
	case formatMarkdown:
		tw.SetTitle("%s", title)
		tw.RenderMarkdown()
	default:
		tw.SetTitle("%s", title)
		tw.SetStyle(table.StyleLight)
		tw.Render()
	}
	fmt.Fprintln(w)
}

// num formats floats compactly for tables.
func num(x float64) string { return strconv.FormatFloat(x, 'g', 8, 64) }
