package separation

import (
	"gonum.org/v1/gonum/stat"

	"lungsep/pkg/volume"
)

// Centroid returns the mean (row, col, slice) coordinate of a voxel index
// set. The set must be non-empty; the algorithm only computes centroids of
// components already verified to contain at least one voxel.
func Centroid(g volume.Grid, voxels []int) [3]float64 {
	rows := make([]float64, len(voxels))
	cols := make([]float64, len(voxels))
	slices := make([]float64, len(voxels))

	for i, idx := range voxels {
		r, c, s := g.Coords(idx)
		rows[i] = float64(r)
		cols[i] = float64(c)
		slices[i] = float64(s)
	}

	return [3]float64{
		stat.Mean(rows, nil),
		stat.Mean(cols, nil),
		stat.Mean(slices, nil),
	}
}
