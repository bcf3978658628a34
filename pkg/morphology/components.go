// Package morphology implements the volumetric primitives consumed by the
// lung separation core: connected-component labeling, morphological opening
// with a spherical structuring element, and 2D hole filling.
package morphology

import (
	"sort"

	"lungsep/pkg/volume"
)

// Region is a single connected component: a label id and the linear indices
// of its voxels.
type Region struct {
	// Label is the 1-based discovery order of the component.
	Label int

	// Voxels holds the linear indices of the component's voxels.
	Voxels []int
}

// Size returns the number of voxels in the region.
func (r Region) Size() int {
	return len(r.Voxels)
}

// Components labels the connected components of mask > 0 and returns them
// sorted by voxel count descending. Connectivity is 26-connected in 3D and
// 8-connected for single-slice grids (out-of-plane neighbors fall outside the
// grid and are skipped). Ties are broken by discovery order: seeds are visited
// in linear scan order, so equally sized components keep a deterministic
// ordering.
func Components(mask *volume.Mask) []Region {
	visited := make([]bool, len(mask.Data))
	var regions []Region
	var queue []int

	for seed, v := range mask.Data {
		if v == 0 || visited[seed] {
			continue
		}

		// Breadth-first flood from the seed voxel
		region := Region{Label: len(regions) + 1}
		visited[seed] = true
		queue = append(queue[:0], seed)

		for len(queue) > 0 {
			idx := queue[0]
			queue = queue[1:]
			region.Voxels = append(region.Voxels, idx)

			r, c, s := mask.Coords(idx)
			for ds := -1; ds <= 1; ds++ {
				for dr := -1; dr <= 1; dr++ {
					for dc := -1; dc <= 1; dc++ {
						if dr == 0 && dc == 0 && ds == 0 {
							continue
						}
						nr, nc, ns := r+dr, c+dc, s+ds
						if nr < 0 || nr >= mask.Rows ||
							nc < 0 || nc >= mask.Cols ||
							ns < 0 || ns >= mask.Slices {
							continue
						}
						nidx := mask.Index(nr, nc, ns)
						if mask.Data[nidx] == 0 || visited[nidx] {
							continue
						}
						visited[nidx] = true
						queue = append(queue, nidx)
					}
				}
			}
		}

		regions = append(regions, region)
	}

	// Stable sort keeps discovery order among equally sized components
	sort.SliceStable(regions, func(i, j int) bool {
		return len(regions[i].Voxels) > len(regions[j].Voxels)
	})

	return regions
}
