// Package grid describes the rectangular sample lattice every optical field
// lives on.
//
// What:
//
//   - Grid holds sample counts (nx, ny), pitch (dx, dy) and the physical
//     position of the axis sample. It is a value type and never changes after
//     construction; resizing, re-pitching and shifting return new values.
//   - Build accepts any two of count, pitch and extent and derives the third;
//     when all three are given they must agree within a relative tolerance.
//
// Derived quantities:
//
//   - Extent:      (nx·dx, ny·dy)
//   - FreqSpacing: (1/(nx·dx), 1/(ny·dy))
//   - X, Y:        centered coordinates, axis at index ⌊n/2⌋
//   - FreqX/FreqY: spatial frequencies in FFT order
//
// Errors:
//
//   - ErrInvalidGrid: non-positive or non-finite counts/pitches/extents,
//     underdetermined input, or count·pitch ≠ extent beyond tolerance.
package grid
