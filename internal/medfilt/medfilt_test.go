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


package medfilt

import (
	"sort"
	"testing"
	"github.com/valyala/fastrand"
)

// reference median over the in-bounds window, via full sort
func slowMedianAt(data []float64, width, y, x, fy, fx int) float64 {
	height:=len(data)/width
	var window []float64
	for yy:=y-fy/2; yy<y-fy/2+fy; yy++ {
		for xx:=x-fx/2; xx<x-fx/2+fx; xx++ {
			if yy>=0 && yy<height && xx>=0 && xx<width {
				window=append(window, data[yy*width+xx])
			}
		}
	}
	sort.Float64s(window)
	n:=len(window)
	if (n&1)!=0 { return window[n>>1] }
	return 0.5*(window[n>>1-1]+window[n>>1])
}

func TestFilterMatchesReference(t *testing.T) {
	rng:=fastrand.RNG{}
	for _,shape:=range [][2]int{{1,1},{3,3},{3,1},{1,3},{5,3},{2,2}} {
		fy, fx:=shape[0], shape[1]
		width, height:=7, 5
		data:=make([]float64, width*height)
		for i:=range data {
			data[i]=float64(rng.Uint32n(1000))
		}

		res:=Filter(data, width, fy, fx)
		for y:=0; y<height; y++ {
			for x:=0; x<width; x++ {
				want:=slowMedianAt(data, width, y, x, fy, fx)
				if res[y*width+x]!=want {
					t.Errorf("filter %dx%d at (%d,%d)=%f; want %f", fy, fx, y, x, res[y*width+x], want)
				}
			}
		}
	}
}

func TestFilterIdentity(t *testing.T) {
	data:=[]float64{1,2,3,4,5,6}
	res:=Filter(data, 3, 1, 1)
	for i:=range data {
		if res[i]!=data[i] { t.Errorf("res[%d]=%f; want %f", i, res[i], data[i]) }
	}
}

func TestFilterConstant(t *testing.T) {
	data:=make([]float64, 16)
	for i:=range data { data[i]=7 }
	res:=Filter(data, 4, 3, 3)
	for i:=range data {
		if res[i]!=7 { t.Errorf("res[%d]=%f; want 7", i, res[i]) }
	}
}

func TestFilterBorder(t *testing.T) {
	// border windows must use in-bounds cells only, never zero padding
	data:=[]float64{9,9,9, 9,9,9, 9,9,9}
	res:=Filter(data, 3, 3, 3)
	for i:=range res {
		if res[i]!=9 { t.Errorf("res[%d]=%f; want 9 (zero padding leaked in)", i, res[i]) }
	}
}
