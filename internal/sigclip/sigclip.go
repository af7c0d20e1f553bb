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


// Package sigclip iteratively rejects outliers from sample arrays.
package sigclip

import (
	"gonum.org/v1/gonum/stat"
	"github.com/mlnoga/skybg/internal/qsort"
)


// Clip marks as excluded all values deviating from the median of the
// surviving values by more than sigma standard deviations, and repeats until
// an iteration rejects nothing, or maxIters iterations have run. A maxIters
// of zero iterates until convergence. values and excl are parallel arrays;
// pre-excluded entries never re-enter the statistics. The values themselves
// are left untouched. buf is scratch space for the surviving values, may be
// nil. Returns the number of newly excluded samples and the iterations run.
func Clip(values []float64, excl []bool, sigma float64, maxIters int, buf []float64) (clipped, iters int) {
	if buf==nil { buf=make([]float64, 0, len(values)) }

	for maxIters==0 || iters<maxIters {
		buf=buf[:0]
		for i,v:=range values {
			if !excl[i] { buf=append(buf, v) }
		}
		if len(buf)==0 { break }

		variance:=stat.PopVariance(buf, nil)
		median  :=qsort.QSelectMedianFloat64(buf)
		iters++

		// reject where (v-median)^2 > sigma^2 * variance, strictly
		limit:=sigma*sigma*variance
		newly:=0
		for i,v:=range values {
			if excl[i] { continue }
			d:=v-median
			if d*d>limit {
				excl[i]=true
				newly++
			}
		}
		if newly==0 { break }
		clipped+=newly
	}
	return clipped, iters
}
