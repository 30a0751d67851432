// SPDX-License-Identifier: MIT

package field_test

import (
	"fmt"

	"github.com/katalvlaran/waveprop/field"
	"github.com/katalvlaran/waveprop/grid"
)

// ExampleField_Normalize shows building a uniform field and scaling it to
// unit power.
func ExampleField_Normalize() {
	g, _ := grid.New(4, 4, 1e-3, 1e-3)
	f, _ := field.FromFunc(g, 633e-9, func(_, _ float64) complex128 { return 3 })
	n, _ := f.Normalize()

	fmt.Printf("power before: %.1e\n", f.Power())
	fmt.Printf("power after:  %.3f\n", n.Power())
	// Output:
	// power before: 1.4e-04
	// power after:  1.000
}

// ExampleField_Resample zero-pads a field onto a larger window.
func ExampleField_Resample() {
	g, _ := grid.New(2, 2, 1e-3, 1e-3)
	f, _ := field.NewFlat([]complex128{1, 2, 3, 4}, g, 633e-9)

	big, _ := grid.New(4, 4, 1e-3, 1e-3)
	out, _ := f.Resample(big, field.Bilinear)
	for _, row := range out.Rows() {
		fmt.Println(real(row[0]), real(row[1]), real(row[2]), real(row[3]))
	}
	// Output:
	// 0 0 0 0
	// 0 1 2 0
	// 0 3 4 0
	// 0 0 0 0
}
