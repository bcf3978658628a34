package morphology

import "lungsep/pkg/volume"

// offset is a single structuring-element displacement.
type offset struct {
	dr, dc, ds int
}

// ballOffsets returns the displacements of a spherical structuring element of
// the given radius: every offset whose squared Euclidean norm is at most
// radius squared. For single-slice grids the element degenerates to a disk so
// that a 2D mask is not eroded away by out-of-plane background.
func ballOffsets(radius int, is3D bool) []offset {
	var offsets []offset
	rr := radius * radius
	smin, smax := 0, 0
	if is3D {
		smin, smax = -radius, radius
	}
	for ds := smin; ds <= smax; ds++ {
		for dr := -radius; dr <= radius; dr++ {
			for dc := -radius; dc <= radius; dc++ {
				if dr*dr+dc*dc+ds*ds <= rr {
					offsets = append(offsets, offset{dr, dc, ds})
				}
			}
		}
	}
	return offsets
}

// Open applies a morphological opening (erosion followed by dilation) with a
// spherical structuring element of the given radius. The input mask is not
// modified; the result is a fresh binary mask over the same grid. Voxels
// outside the grid count as background, so foreground touching the border
// erodes like any other boundary.
func Open(mask *volume.Mask, radius int) *volume.Mask {
	offsets := ballOffsets(radius, mask.Is3D())

	eroded := erode(mask, offsets)
	return dilate(eroded, offsets)
}

func erode(mask *volume.Mask, offsets []offset) *volume.Mask {
	out := volume.NewMask(mask.Grid)
	for idx, v := range mask.Data {
		if v == 0 {
			continue
		}
		r, c, s := mask.Coords(idx)
		keep := true
		for _, o := range offsets {
			nr, nc, ns := r+o.dr, c+o.dc, s+o.ds
			if nr < 0 || nr >= mask.Rows ||
				nc < 0 || nc >= mask.Cols ||
				ns < 0 || ns >= mask.Slices {
				keep = false
				break
			}
			if mask.Data[mask.Index(nr, nc, ns)] == 0 {
				keep = false
				break
			}
		}
		if keep {
			out.Data[idx] = 1
		}
	}
	return out
}

func dilate(mask *volume.Mask, offsets []offset) *volume.Mask {
	out := volume.NewMask(mask.Grid)
	for idx, v := range mask.Data {
		if v == 0 {
			continue
		}
		r, c, s := mask.Coords(idx)
		for _, o := range offsets {
			nr, nc, ns := r+o.dr, c+o.dc, s+o.ds
			if nr < 0 || nr >= mask.Rows ||
				nc < 0 || nc >= mask.Cols ||
				ns < 0 || ns >= mask.Slices {
				continue
			}
			out.Data[mask.Index(nr, nc, ns)] = 1
		}
	}
	return out
}
