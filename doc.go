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


// Package skybg estimates a smooth 2D background level and background noise
// map for an image, in the manner of SExtractor. The image is partitioned
// into rectangular tiles, robust statistics are computed per tile after
// iterative sigma clipping, the resulting low-resolution meshes are
// optionally median filtered, and full-resolution maps are reconstructed by
// bicubic spline interpolation.
//
//	bkg, err := skybg.New(data, width, skybg.Params{TileH:64, TileW:64})
//	if err!=nil { ... }
//	level, err := bkg.Render()
//	noise      := bkg.RenderRMS()
package skybg
