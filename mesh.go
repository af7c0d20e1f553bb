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
	"fmt"
	"math"
	"gonum.org/v1/gonum/stat"
	"github.com/mlnoga/skybg/internal/medfilt"
	"github.com/mlnoga/skybg/internal/qsort"
)

// Mesh returns the TileRows x TileCols grid of per-tile background
// estimates, after median filtering. Computed on first call and cached;
// the caller must not modify the result.
// Fails with ErrUnknownMethod for an unrecognized estimation method
func (b *Background) Mesh() ([]float64, error) {
	if b.bkgMesh!=nil { return b.bkgMesh, nil }

	switch b.params.Method {
	case MethodMean, MethodMedian, MethodSExtractor, MethodModeEstimate:
	default:
		return nil, fmt.Errorf("%w %q", ErrUnknownMethod, b.params.Method)
	}

	mesh:=b.reduceTiles(func(samples []float64) float64 {
		return estimate(b.params.Method, samples)
	})
	b.bkgMesh=b.filterMesh(mesh)
	return b.bkgMesh, nil
}

// RMSMesh returns the TileRows x TileCols grid of per-tile noise estimates,
// the standard deviation of the surviving samples, after median filtering.
// Computed on first call and cached; the caller must not modify the result
func (b *Background) RMSMesh() []float64 {
	if b.rmsMesh!=nil { return b.rmsMesh }

	mesh:=b.reduceTiles(func(samples []float64) float64 {
		if len(samples)==0 { return math.NaN() }
		return stat.PopStdDev(samples, nil)
	})
	b.rmsMesh=b.filterMesh(mesh)
	return b.rmsMesh
}

// MeshMedian returns the median over all cells of the background mesh.
// Fails with ErrUnknownMethod for an unrecognized estimation method
func (b *Background) MeshMedian() (float64, error) {
	if b.haveBkgMed { return b.bkgMedian, nil }
	mesh, err:=b.Mesh()
	if err!=nil { return 0, err }

	tmp:=append([]float64(nil), mesh...)
	b.bkgMedian=qsort.QSelectMedianFloat64(tmp)
	b.haveBkgMed=true
	return b.bkgMedian, nil
}

// RMSMeshMedian returns the median over all cells of the noise mesh
func (b *Background) RMSMeshMedian() float64 {
	if b.haveRMSMed { return b.rmsMedian }

	tmp:=append([]float64(nil), b.RMSMesh()...)
	b.rmsMedian=qsort.QSelectMedianFloat64(tmp)
	b.haveRMSMed=true
	return b.rmsMedian
}

// Reduces every tile of the clipped stack to one scalar via the given
// estimator, then replaces undefined cells with the median of the defined
// cells, so fully excluded tiles borrow the global robust center and keep
// the later interpolation smooth
func (b *Background) reduceTiles(reduce func([]float64) float64) []float64 {
	area:=b.TileH*b.TileW
	mesh:=make([]float64, b.TileRows*b.TileCols)
	buf :=make([]float64, 0, area)

	for t:=range mesh {
		buf=buf[:0]
		for i:=t*area; i<(t+1)*area; i++ {
			if !b.excl[i] { buf=append(buf, b.tiles[i]) }
		}
		mesh[t]=reduce(buf)
	}

	fillUndefined(mesh)
	return mesh
}

// Reduces the surviving samples of one tile to a scalar with the given
// method. Returns NaN if the estimate is undefined, due to no surviving
// samples or a zero spread in the sextractor blending condition.
// Reorders samples
func estimate(method string, samples []float64) float64 {
	if len(samples)==0 { return math.NaN() }

	switch method {
	case MethodMean:
		return stat.Mean(samples, nil)

	case MethodMedian:
		return qsort.QSelectMedianFloat64(samples)

	case MethodSExtractor:
		mean  :=stat.Mean(samples, nil)
		stdDev:=stat.PopStdDev(samples, nil)
		median:=qsort.QSelectMedianFloat64(samples)
		if stdDev==0 { return math.NaN() }
		if math.Abs(mean-median)/stdDev < 0.3 {
			return 2.5*median - 1.5*mean
		}
		return median

	case MethodModeEstimate:
		mean  :=stat.Mean(samples, nil)
		median:=qsort.QSelectMedianFloat64(samples)
		return 3*median - 2*mean
	}
	return math.NaN()
}

// Replaces undefined mesh cells with the median of the defined cells,
// or zero if no cell is defined
func fillUndefined(mesh []float64) {
	defined:=make([]float64, 0, len(mesh))
	for _,v:=range mesh {
		if !math.IsNaN(v) { defined=append(defined, v) }
	}
	if len(defined)==len(mesh) { return }

	fill:=0.0
	if len(defined)>0 { fill=qsort.QSelectMedianFloat64(defined) }
	for i,v:=range mesh {
		if math.IsNaN(v) { mesh[i]=fill }
	}
}

// Median filters a mesh. A filter shape of (1,1) passes the mesh through
// unchanged, and takes precedence over a configured threshold. With a
// threshold, only cells with values above it are filtered, each with a
// window clipped to the mesh bounds
func (b *Background) filterMesh(mesh []float64) []float64 {
	fy, fx:=b.params.FilterH, b.params.FilterW
	if fy==1 && fx==1 { return mesh }

	if !b.params.HasThreshold {
		return medfilt.Filter(mesh, b.TileCols, fy, fx)
	}

	res:=append([]float64(nil), mesh...)
	buf:=make([]float64, 0, fy*fx)
	for y:=0; y<b.TileRows; y++ {
		for x:=0; x<b.TileCols; x++ {
			if mesh[y*b.TileCols+x]>b.params.FilterThreshold {
				res[y*b.TileCols+x]=medfilt.MedianAt(mesh, b.TileCols, y, x, fy, fx, buf)
			}
		}
	}
	return res
}
