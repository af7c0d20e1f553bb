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


// Package spline fits and evaluates cubic interpolating splines on
// uniformly spaced knots, in one and two dimensions.
package spline

import (
	"math"
)


// A natural cubic spline over knots at 0, 1, ..., n-1
type Cubic struct {
	ys []float64  // knot values, referenced, not copied
	m  []float64  // second derivatives at the knots
}


// Fit a natural cubic spline to the given knot values. len(ys) must be >=1.
// The spline interpolates the knots exactly; with fewer than three knots it
// degenerates to a line or a constant
func Fit(ys []float64) *Cubic {
	n:=len(ys)
	m:=make([]float64, n)
	if n>2 {
		// solve the tridiagonal system m[i-1] + 4 m[i] + m[i+1] = 6 (ys[i+1] - 2 ys[i] + ys[i-1])
		// for the interior knots, with natural boundaries m[0]=m[n-1]=0
		c:=make([]float64, n)
		d:=make([]float64, n)
		for i:=1; i<n-1; i++ {
			d[i]=6*(ys[i+1]-2*ys[i]+ys[i-1])
		}
		c[1]=1.0/4.0
		d[1]=d[1]/4
		for i:=2; i<n-1; i++ {
			w:=4-c[i-1]
			c[i]=1/w
			d[i]=(d[i]-d[i-1])/w
		}
		for i:=n-2; i>=1; i-- {
			m[i]=d[i]-c[i]*m[i+1]
		}
	}
	return &Cubic{ys:ys, m:m}
}


// Eval evaluates the spline at x. Points beyond the first or last knot
// continue the cubic polynomial of the nearest end segment
func (s *Cubic) Eval(x float64) float64 {
	n:=len(s.ys)
	if n==1 { return s.ys[0] }

	i:=int(math.Floor(x))
	if i<0   { i=0   }
	if i>n-2 { i=n-2 }

	u:=x-float64(i)
	a:=1-u
	return a*s.ys[i] + u*s.ys[i+1] + ((a*a*a-a)*s.m[i] + (u*u*u-u)*s.m[i+1])/6
}


// Bicubic fits a natural bicubic surface to a 2D grid with given line width
// and knots at integer coordinates, and evaluates it at the outer product of
// the coordinate arrays ys and xs. Returns a len(ys) x len(xs) array in
// row-major order
func Bicubic(grid []float64, width int, ys, xs []float64) []float64 {
	height:=len(grid)/width

	// interpolate along x for every grid row
	tmp:=make([]float64, height*len(xs))
	for r:=0; r<height; r++ {
		c:=Fit(grid[r*width:(r+1)*width])
		for k,x:=range xs {
			tmp[r*len(xs)+k]=c.Eval(x)
		}
	}

	// then along y for every output column
	res:=make([]float64, len(ys)*len(xs))
	col:=make([]float64, height)
	for k:=0; k<len(xs); k++ {
		for r:=0; r<height; r++ {
			col[r]=tmp[r*len(xs)+k]
		}
		c:=Fit(col)
		for j,y:=range ys {
			res[j*len(xs)+k]=c.Eval(y)
		}
	}
	return res
}
