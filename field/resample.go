// SPDX-License-Identifier: MIT

package field

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/cmplxs"

	"github.com/katalvlaran/waveprop/grid"
	"github.com/katalvlaran/waveprop/spectral"
)

// ResampleMethod selects how a field is moved onto a new Grid.
type ResampleMethod int

const (
	// Bilinear interpolates in space; samples outside the source window are zero.
	// A target with the same pitch and aligned samples is an exact zero-pad or crop.
	Bilinear ResampleMethod = iota

	// Fourier zero-pads or crops the centered spectrum. The window extent and
	// origin must not change; only the sample count (and so the pitch) does.
	Fourier
)

// String implements fmt.Stringer.
func (m ResampleMethod) String() string {
	switch m {
	case Bilinear:
		return "bilinear"
	case Fourier:
		return "fourier"
	default:
		return fmt.Sprintf("ResampleMethod(%d)", int(m))
	}
}

// snapTol absorbs floating noise when a target coordinate lands on a source sample.
const snapTol = 1e-9

// Resample returns the field interpolated onto target. Wavelength and axial
// position are preserved.
func (f *Field) Resample(target grid.Grid, method ResampleMethod) (*Field, error) {
	if err := ValidateGrid(target); err != nil {
		return nil, fieldErrorf(ctxResample, err)
	}
	if f.g.Equal(target, grid.DefaultTolerance) {
		return &Field{g: target, wavelength: f.wavelength, z: f.z, data: f.data}, nil
	}

	var (
		data []complex128
		err  error
	)
	switch method {
	case Bilinear:
		data = f.bilinear(target)
	case Fourier:
		data, err = f.fourier(target)
	default:
		err = fmt.Errorf("%v: %w", method, ErrInvalidMethod)
	}
	if err != nil {
		return nil, fieldErrorf(ctxResample, err)
	}

	return &Field{g: target, wavelength: f.wavelength, z: f.z, data: data}, nil
}

// fracIndex maps a coordinate to a fractional sample index on an axis.
func fracIndex(v, origin, d float64, n int) float64 {
	p := (v-origin)/d + float64(n/2)
	if r := math.Round(p); math.Abs(p-r) < snapTol {
		return r
	}

	return p
}

func (f *Field) bilinear(target grid.Grid) []complex128 {
	nx, ny := f.g.NX(), f.g.NY()
	x0, y0 := f.g.Origin()
	sample := func(ix, iy int) complex128 {
		if ix < 0 || ix >= nx || iy < 0 || iy >= ny {
			return 0
		}
		return f.data[iy*nx+ix]
	}

	xs, ys := target.X(), target.Y()
	out := make([]complex128, target.Size())
	for ty, y := range ys {
		py := fracIndex(y, y0, f.g.DY(), ny)
		iy := int(math.Floor(py))
		wy := py - float64(iy)
		for tx, x := range xs {
			px := fracIndex(x, x0, f.g.DX(), nx)
			ix := int(math.Floor(px))
			wx := px - float64(ix)

			v := complex((1-wx)*(1-wy), 0)*sample(ix, iy) +
				complex(wx*(1-wy), 0)*sample(ix+1, iy) +
				complex((1-wx)*wy, 0)*sample(ix, iy+1) +
				complex(wx*wy, 0)*sample(ix+1, iy+1)
			out[ty*len(xs)+tx] = v
		}
	}

	return out
}

func (f *Field) fourier(target grid.Grid) ([]complex128, error) {
	lx, ly := f.g.Extent()
	tx, ty := target.Extent()
	if math.Abs(lx-tx) > grid.DefaultTolerance*lx || math.Abs(ly-ty) > grid.DefaultTolerance*ly {
		return nil, fmt.Errorf("fourier resample changes extent (%g,%g)->(%g,%g): %w", lx, ly, tx, ty, ErrShapeMismatch)
	}
	sx, sy := f.g.Origin()
	ox, oy := target.Origin()
	if math.Abs(sx-ox) > grid.DefaultTolerance*f.g.DX() || math.Abs(sy-oy) > grid.DefaultTolerance*f.g.DY() {
		return nil, fmt.Errorf("fourier resample changes origin: %w", ErrShapeMismatch)
	}

	ny, nx := f.g.Shape()
	my, mx := target.Shape()
	spec := spectral.Shift(spectral.FFT2(spectral.IShift(f.data, ny, nx), ny, nx), ny, nx)
	resized := resizeCentered(spec, ny, nx, my, mx)
	out := spectral.Shift(spectral.IFFT2(spectral.IShift(resized, my, mx), my, mx), my, mx)
	cmplxs.Scale(complex(float64(mx*my)/float64(nx*ny), 0), out)

	return out, nil
}

// resizeCentered copies the overlap of a centered ny×nx array into a centered
// my×mx array, zero-filling or truncating each axis independently.
func resizeCentered(data []complex128, ny, nx, my, mx int) []complex128 {
	out := make([]complex128, my*mx)
	for ti := 0; ti < my; ti++ {
		si := ti - my/2 + ny/2
		if si < 0 || si >= ny {
			continue
		}
		for tj := 0; tj < mx; tj++ {
			sj := tj - mx/2 + nx/2
			if sj < 0 || sj >= nx {
				continue
			}
			out[ti*mx+tj] = data[si*nx+sj]
		}
	}

	return out
}
