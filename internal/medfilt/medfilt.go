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


// Package medfilt applies 2D median filters to small grids.
// Neighbors beyond the grid border are treated as absent, not zero.
package medfilt

import (
	"github.com/mlnoga/skybg/internal/qsort"
)


// MedianAt returns the median of the fy x fx window centered on cell (y,x)
// of a 2D grid with given line width, clipped to the grid bounds.
// buf is scratch space of capacity fy*fx, may be nil
func MedianAt(data []float64, width, y, x, fy, fx int, buf []float64) float64 {
	height:=len(data)/width

	y0, y1:=y-fy/2, y-fy/2+fy
	if y0<0      { y0=0      }
	if y1>height { y1=height }
	x0, x1:=x-fx/2, x-fx/2+fx
	if x0<0      { x0=0      }
	if x1>width  { x1=width  }

	buf=buf[:0]
	for yy:=y0; yy<y1; yy++ {
		buf=append(buf, data[yy*width+x0:yy*width+x1]...)
	}
	return qsort.QSelectMedianFloat64(buf)
}


// Filter applies an fy x fx median filter to a 2D grid with given line
// width, and returns the filtered grid as a new array
func Filter(data []float64, width, fy, fx int) []float64 {
	height:=len(data)/width
	res:=make([]float64, len(data))
	buf:=make([]float64, 0, fy*fx)

	for y:=0; y<height; y++ {
		for x:=0; x<width; x++ {
			res[y*width+x]=MedianAt(data, width, y, x, fy, fx, buf)
		}
	}
	return res
}
