// Copyright (C) 2021 Markus L. Noga
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.


package skybg

import (
	"gonum.org/v1/gonum/floats"
	"github.com/mlnoga/skybg/internal/spline"
)

// Render upsamples the background mesh to the full resolution of the
// original grid via bicubic spline interpolation. Caller-masked pixels are
// forced to zero. Computed on first call and cached; the caller must not
// modify the result.
// Fails with ErrUnknownMethod for an unrecognized estimation method
func (b *Background) Render() ([]float64, error) {
	if b.bkgMap!=nil { return b.bkgMap, nil }

	mesh, err:=b.Mesh()
	if err!=nil { return nil, err }
	b.bkgMap=b.resample(mesh)
	return b.bkgMap, nil
}

// RenderRMS upsamples the noise mesh to the full resolution of the original
// grid via bicubic spline interpolation. Caller-masked pixels are forced to
// zero. Computed on first call and cached; the caller must not modify the
// result
func (b *Background) RenderRMS() []float64 {
	if b.rmsMap==nil {
		b.rmsMap=b.resample(b.RMSMesh())
	}
	return b.rmsMap
}

// Upsamples a mesh to the padded grid resolution, with mesh cells anchored
// at the centers of their tiles, then crops away the padding and zeroes
// caller-masked pixels
func (b *Background) resample(mesh []float64) []float64 {
	xs:=span(make([]float64, b.padW), -0.5, float64(b.TileCols)-0.5)
	ys:=span(make([]float64, b.padH), -0.5, float64(b.TileRows)-0.5)
	full:=spline.Bicubic(mesh, b.TileCols, ys, xs)

	res:=full
	if b.Padded {
		// keep the low-index rows and columns
		res=make([]float64, b.Height*b.Width)
		for y:=0; y<b.Height; y++ {
			copy(res[y*b.Width:(y+1)*b.Width], full[y*b.padW:y*b.padW+b.Width])
		}
	}

	if b.mask!=nil {
		for i,m:=range b.mask {
			if m { res[i]=0 }
		}
	}
	return res
}

// Fills dst with evenly spaced values covering [l,u] inclusive.
// Unlike floats.Span, tolerates a single-element destination
func span(dst []float64, l, u float64) []float64 {
	if len(dst)==1 {
		dst[0]=l
		return dst
	}
	return floats.Span(dst, l, u)
}
