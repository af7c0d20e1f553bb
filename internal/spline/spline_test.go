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


package spline

import (
	"math"
	"testing"
)

func almostEqual(a, b, eps float64) bool {
	return math.Abs(a-b)<=eps
}

func TestInterpolatesKnots(t *testing.T) {
	ys:=[]float64{3, 1, 4, 1, 5, 9, 2, 6}
	s:=Fit(ys)
	for i,y:=range ys {
		got:=s.Eval(float64(i))
		if !almostEqual(got, y, 1e-12) { t.Errorf("eval(%d)=%f; want %f", i, got, y) }
	}
}

func TestConstant(t *testing.T) {
	ys:=[]float64{7, 7, 7, 7, 7}
	s:=Fit(ys)
	for x:=-0.5; x<=4.5; x+=0.25 {
		got:=s.Eval(x)
		if !almostEqual(got, 7, 1e-12) { t.Errorf("eval(%f)=%f; want 7", x, got) }
	}
}

func TestLinearRamp(t *testing.T) {
	// a natural spline reproduces linear data exactly, including extrapolation
	ys:=[]float64{1, 3, 5, 7, 9}
	s:=Fit(ys)
	for x:=-0.5; x<=4.5; x+=0.1 {
		want:=1+2*x
		got:=s.Eval(x)
		if !almostEqual(got, want, 1e-12) { t.Errorf("eval(%f)=%f; want %f", x, got, want) }
	}
}

func TestTwoKnots(t *testing.T) {
	s:=Fit([]float64{2, 6})
	if got:=s.Eval(0.5);  !almostEqual(got, 4, 1e-12) { t.Errorf("eval(0.5)=%f; want 4", got) }
	if got:=s.Eval(-0.5); !almostEqual(got, 0, 1e-12) { t.Errorf("eval(-0.5)=%f; want 0", got) }
	if got:=s.Eval(1.5);  !almostEqual(got, 8, 1e-12) { t.Errorf("eval(1.5)=%f; want 8", got) }
}

func TestSingleKnot(t *testing.T) {
	s:=Fit([]float64{5})
	if got:=s.Eval(-0.5); got!=5 { t.Errorf("eval(-0.5)=%f; want 5", got) }
	if got:=s.Eval(3);    got!=5 { t.Errorf("eval(3)=%f; want 5", got) }
}

func TestContinuity(t *testing.T) {
	// spline must be continuous across segment boundaries
	ys:=[]float64{3, 1, 4, 1, 5, 9, 2, 6}
	s:=Fit(ys)
	for i:=1; i<len(ys)-1; i++ {
		lo:=s.Eval(float64(i)-1e-9)
		hi:=s.Eval(float64(i)+1e-9)
		if !almostEqual(lo, hi, 1e-6) { t.Errorf("discontinuity at knot %d: %f vs %f", i, lo, hi) }
	}
}

func TestBicubicPlane(t *testing.T) {
	// bicubic interpolation reproduces a bilinear surface f=2x+3y+1 exactly
	width, height:=5, 4
	grid:=make([]float64, width*height)
	for y:=0; y<height; y++ {
		for x:=0; x<width; x++ {
			grid[y*width+x]=2*float64(x)+3*float64(y)+1
		}
	}

	xs:=[]float64{-0.5, 0, 0.7, 2.25, 3.9, 4.5}
	ys:=[]float64{-0.5, 0.3, 1.5, 3, 3.5}
	res:=Bicubic(grid, width, ys, xs)
	if len(res)!=len(xs)*len(ys) { t.Fatalf("len(res)=%d; want %d", len(res), len(xs)*len(ys)) }
	for j,y:=range ys {
		for k,x:=range xs {
			want:=2*x+3*y+1
			got:=res[j*len(xs)+k]
			if !almostEqual(got, want, 1e-12) { t.Errorf("bicubic(%f,%f)=%f; want %f", y, x, got, want) }
		}
	}
}

func TestBicubicKnots(t *testing.T) {
	width:=4
	grid:=[]float64{
		 3, 1, 4, 1,
		 5, 9, 2, 6,
		 5, 3, 5, 8,
		 9, 7, 9, 3,
	}
	xs:=[]float64{0, 1, 2, 3}
	ys:=[]float64{0, 1, 2, 3}
	res:=Bicubic(grid, width, ys, xs)
	for i:=range grid {
		if !almostEqual(res[i], grid[i], 1e-12) { t.Errorf("res[%d]=%f; want %f", i, res[i], grid[i]) }
	}
}
