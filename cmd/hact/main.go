// SPDX-License-Identifier: MIT

// Command hact solves heterogeneous-agent household models configured in HCL
// or YAML: value function, policies, generator and stationary distribution.
//
//	hact solve examples/huggett.hcl --states --format csv
//	hact crosscheck examples/huggett.hcl --explicit
//	hact validate examples/*.hcl
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
