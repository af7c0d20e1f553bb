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
	"errors"
	"fmt"
	"io"
	"runtime"
	"sync"
	"github.com/pbnjay/memory"
	"github.com/mlnoga/skybg/internal/sigclip"
)

// Estimation methods for the background value mesh
const (
	MethodMean         = "mean"          // arithmetic mean of surviving samples
	MethodMedian       = "median"        // median of surviving samples
	MethodSExtractor   = "sextractor"    // SExtractor mode estimator 2.5*median - 1.5*mean
	MethodModeEstimate = "mode_estimate" // alternative mode estimator 3*median - 2*mean
)

var (
	ErrMaskShape     = errors.New("mask shape must match data shape")
	ErrUnknownMethod = errors.New("unknown estimation method")
)

// Params configures a background estimation
type Params struct {
	TileH, TileW     int       // tile shape in pixels, required
	FilterH, FilterW int       // median filter shape over the mesh; zero defaults to 3; (1,1) disables filtering
	FilterThreshold  float64   // selective filtering threshold, active when HasThreshold is set
	HasThreshold     bool      // filter only mesh cells with values above FilterThreshold
	Mask             []bool    // optional exclusion mask with the same shape as the data
	Method           string    // value mesh estimator, defaults to MethodSExtractor
	SigClipSigma     float64   // clipping limit in standard deviations, zero defaults to 3
	SigClipIters     int       // clipping iteration limit, zero iterates until convergence
	MaxThreads       int       // parallel tile workers, zero chooses based on cores and memory
	Log              io.Writer // progress output, nil discards
}

// A smooth 2D background level and background noise model for an image,
// estimated from robust statistics on a grid of tiles. Tiling and sigma
// clipping run at construction; meshes, full-resolution maps and summary
// medians are computed on first access and cached.
// An instance is not safe for concurrent use.
type Background struct {
	Width, Height      int      // original grid shape
	TileH, TileW       int      // tile shape in pixels
	TileRows, TileCols int      // mesh shape, tiles per axis
	Padded             bool     // true if the grid was padded to a tile multiple

	params     Params     // resolved construction parameters
	padW, padH int        // padded grid shape
	mask       []bool     // caller exclusion mask, original shape, copied
	tiles      []float64  // tile stack, tile-major, TileH*TileW samples per tile
	excl       []bool     // per-sample exclusion markers, parallel to tiles

	bkgMesh, rmsMesh     []float64  // cached meshes, post filtering
	bkgMap,  rmsMap      []float64  // cached full-resolution maps
	bkgMedian, rmsMedian float64    // cached mesh medians
	haveBkgMed, haveRMSMed bool
}

func (b *Background) String() string {
	return fmt.Sprintf("Background %dx%d tiles %dx%d mesh %dx%d padded %v method %s sigma %g",
		b.Height, b.Width, b.TileH, b.TileW, b.TileRows, b.TileCols, b.Padded, b.params.Method, b.params.SigClipSigma)
}

// New estimates a background model for a 2D grid of samples, given as a
// row-major array with the given line width. The grid is padded to an
// integer number of tiles, reorganized into a tile stack, and sigma clipped
// per tile before returning. The data array is not modified
func New(data []float64, width int, params Params) (b *Background, err error) {
	if width<1 || len(data)==0 || len(data)%width!=0 {
		return nil, fmt.Errorf("data of length %d is not a 2D grid of width %d", len(data), width)
	}
	height:=len(data)/width
	if params.TileH<1 || params.TileW<1 {
		return nil, fmt.Errorf("invalid tile shape %dx%d", params.TileH, params.TileW)
	}
	if params.Mask!=nil && len(params.Mask)!=len(data) {
		return nil, fmt.Errorf("%w: mask length %d, data %dx%d", ErrMaskShape, len(params.Mask), height, width)
	}

	// apply defaults; the method is validated lazily at mesh computation
	if params.FilterH==0     { params.FilterH=3 }
	if params.FilterW==0     { params.FilterW=3 }
	if params.FilterH<1 || params.FilterW<1 {
		return nil, fmt.Errorf("invalid filter shape %dx%d", params.FilterH, params.FilterW)
	}
	if params.Method==""     { params.Method=MethodSExtractor }
	if params.SigClipSigma==0 { params.SigClipSigma=3 }
	if params.MaxThreads<1   { params.MaxThreads=defaultThreads() }
	if params.Log==nil       { params.Log=io.Discard }

	b=&Background{Width:width, Height:height, TileH:params.TileH, TileW:params.TileW, params:params}
	b.tile(data, params.Mask)
	b.clip()
	return b, nil
}

// Default worker count for the parallel clipping stage. Bounded by cores,
// and by total memory for machines with many cores but little RAM
func defaultThreads() int {
	n:=runtime.GOMAXPROCS(0)
	if memoryMB:=int(memory.TotalMemory()/1024/1024); memoryMB/256<n {
		n=memoryMB/256
	}
	if n<1 { n=1 }
	return n
}

// Pads the grid on the high-index edges to an integer number of tiles, and
// reorganizes it into the tile stack. Tile (ty,tx) holds the contiguous
// TileH x TileW block of the padded grid starting at (ty*TileH, tx*TileW),
// row by row. Padded samples and caller-masked samples are marked excluded
func (b *Background) tile(data []float64, mask []bool) {
	b.padH, b.padW = b.Height, b.Width
	if yExtra:=b.Height%b.TileH; yExtra>0 { b.padH+=b.TileH-yExtra }
	if xExtra:=b.Width %b.TileW; xExtra>0 { b.padW+=b.TileW-xExtra }
	b.Padded  = b.padH>b.Height || b.padW>b.Width
	b.TileRows= b.padH/b.TileH
	b.TileCols= b.padW/b.TileW

	area:=b.TileH*b.TileW
	b.tiles=make([]float64, b.TileRows*b.TileCols*area)
	b.excl =make([]bool,    len(b.tiles))

	for ty:=0; ty<b.TileRows; ty++ {
		for tx:=0; tx<b.TileCols; tx++ {
			base:=(ty*b.TileCols+tx)*area
			for row:=0; row<b.TileH; row++ {
				y:=ty*b.TileH+row
				for col:=0; col<b.TileW; col++ {
					x:=tx*b.TileW+col
					i:=base+row*b.TileW+col
					if y>=b.Height || x>=b.Width {
						b.excl[i]=true  // padding
						continue
					}
					b.tiles[i]=data[y*b.Width+x]
					if mask!=nil && mask[y*b.Width+x] {
						b.excl[i]=true
					}
				}
			}
		}
	}

	if mask!=nil {
		b.mask=append([]bool(nil), mask...)
	}
}

// Sigma clips every tile of the stack independently, marking rejected
// samples as excluded. Tiles are independent, so clipping runs in parallel,
// limited to MaxThreads workers
func (b *Background) clip() {
	area    :=b.TileH*b.TileW
	numTiles:=b.TileRows*b.TileCols
	sem     :=make(chan bool, b.params.MaxThreads)

	clippedLock, clipped:=sync.Mutex{}, 0
	for t:=0; t<numTiles; t++ {
		sem <- true
		go func(t int) {
			defer func() { <-sem }()

			buf:=make([]float64, 0, area)
			n, _:=sigclip.Clip(b.tiles[t*area:(t+1)*area], b.excl[t*area:(t+1)*area],
			                   b.params.SigClipSigma, b.params.SigClipIters, buf)
			if n>0 {
				clippedLock.Lock()
				clipped+=n
				clippedLock.Unlock()
			}
		}(t)
	}
	for i:=0; i<cap(sem); i++ {  // wait for goroutines to finish
		sem <- true
	}

	fmt.Fprintf(b.params.Log, "Sigma clipped %d of %d samples in %d tiles of %dx%d with sigma %g\n",
		clipped, len(b.tiles), numTiles, b.TileH, b.TileW, b.params.SigClipSigma)
}
