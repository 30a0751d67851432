// SPDX-License-Identifier: MIT

package kernel

import (
	"fmt"

	"gonum.org/v1/gonum/cmplxs"

	"github.com/katalvlaran/waveprop/spectral"
)

// Apply propagates a row-major buffer sampled on Source() and returns the
// result sampled on Destination(). The input is not modified.
func (k *Kernel) Apply(u []complex128) ([]complex128, error) {
	if len(u) != k.src.Size() {
		return nil, kernelErrorf(ctxApply, fmt.Errorf("len %d for %v: %w", len(u), k.src, ErrInputMismatch))
	}
	switch {
	case k.domain == Frequency:
		return k.applyTransfer(u), nil
	case k.domain == Spatial:
		return k.applyConvolution(u), nil
	case k.method == FresnelTwoStep:
		return k.applyTwoStep(u), nil
	default:
		return k.applyFarField(u), nil
	}
}

// applyTransfer: pad, FFT, multiply by H, inverse FFT, crop.
func (k *Kernel) applyTransfer(u []complex128) []complex128 {
	ny, nx := k.src.Shape()
	py, px := k.lattice.Shape()
	buf := u
	if py != ny || px != nx {
		buf = spectral.Pad(u, ny, nx, py, px)
	}
	a := spectral.FFT2(spectral.IShift(buf, py, px), py, px)
	cmplxs.Mul(a, k.values)
	if k.rescaled {
		return k.applyRescaled(spectral.Shift(a, py, px))
	}
	out := spectral.Shift(spectral.IFFT2(a, py, px), py, px)
	if py != ny || px != nx {
		out = spectral.Crop(out, py, px, ny, nx)
	}

	return out
}

// applyFarField: centered transform, then the Fraunhofer factor.
func (k *Kernel) applyFarField(u []complex128) []complex128 {
	ny, nx := k.src.Shape()
	out := spectral.CFT2(u, ny, nx, k.src.DX(), k.src.DY())
	cmplxs.Mul(out, k.values)

	return out
}

// applyTwoStep chains the two Fresnel transforms through the intermediate plane.
func (k *Kernel) applyTwoStep(u []complex128) []complex128 {
	ny, nx := k.src.Shape()
	buf := make([]complex128, len(u))
	copy(buf, u)
	cmplxs.Mul(buf, k.pre)

	mid := spectral.CFT2(buf, ny, nx, k.src.DX(), k.src.DY())
	if k.flip1 {
		mid = spectral.Flip(mid, ny, nx)
	}
	cmplxs.Mul(mid, k.midFactor)

	out := spectral.CFT2(mid, ny, nx, k.mid.DX(), k.mid.DY())
	if k.flip2 {
		out = spectral.Flip(out, ny, nx)
	}
	cmplxs.Mul(out, k.values)

	return out
}

// applyConvolution is the linear convolution of the (optionally weighted)
// input with h: the input fills the top-left corner of the M lattice and the
// result is the lower-right n_out block.
func (k *Kernel) applyConvolution(u []complex128) []complex128 {
	ny, nx := k.src.Shape()
	my, mx := k.lattice.Shape()
	oy, ox := k.dst.Shape()

	buf := make([]complex128, my*mx)
	for iy := 0; iy < ny; iy++ {
		for ix := 0; ix < nx; ix++ {
			v := u[iy*nx+ix]
			if k.wx != nil {
				v *= complex(k.wx[ix]*k.wy[iy], 0)
			}
			buf[iy*mx+ix] = v
		}
	}
	a := spectral.FFT2(buf, my, mx)
	cmplxs.Mul(a, k.spectrum)
	s := spectral.IFFT2(a, my, mx)

	area := complex(k.src.DX()*k.src.DY(), 0)
	out := make([]complex128, oy*ox)
	for qy := 0; qy < oy; qy++ {
		for qx := 0; qx < ox; qx++ {
			out[qy*ox+qx] = s[(qy+ny-1)*mx+qx+nx-1] * area
		}
	}

	return out
}

// applyRescaled evaluates the inverse transform of a centered spectrum on the
// destination lattice: chirp-z along x for every row, then along y for every
// output column.
func (k *Kernel) applyRescaled(a []complex128) []complex128 {
	py, px := k.lattice.Shape()
	oy, ox := k.dst.Shape()
	dfx, dfy := k.lattice.FreqSpacing()
	cx, cy := dfx*k.dst.DX(), dfy*k.dst.DY()

	rows := make([]complex128, py*ox)
	for r := 0; r < py; r++ {
		copy(rows[r*ox:(r+1)*ox], spectral.ChirpZ(a[r*px:(r+1)*px], cx, ox))
	}

	norm := complex(1/float64(px*py), 0)
	col := make([]complex128, py)
	out := make([]complex128, oy*ox)
	for j := 0; j < ox; j++ {
		for r := 0; r < py; r++ {
			col[r] = rows[r*ox+j]
		}
		for i, v := range spectral.ChirpZ(col, cy, oy) {
			out[i*ox+j] = v * norm
		}
	}

	return out
}
