package kf_test

import (
	"fmt"

	"github.com/katalvlaran/hact/kf"
	"github.com/katalvlaran/hact/sparse"
)

// ExampleSolve finds the stationary distribution of a two-state chain that
// leaves state 0 at rate 0.3 and state 1 at rate 0.1.
func ExampleSolve() {
	b, _ := sparse.NewBuilder(2, 4)
	b.Add(0, 0, -0.3)
	b.Add(0, 1, 0.3)
	b.Add(1, 0, 0.1)
	b.Add(1, 1, -0.1)
	A, _ := b.Build()

	d, err := kf.Solve(A, []float64{1, 1})
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Printf("%.2f %.2f\n", d.Mass[0], d.Mass[1])
	// Output: 0.25 0.75
}
