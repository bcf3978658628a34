package morphology

import "lungsep/pkg/volume"

// FillHoles2D fills fully enclosed background regions in a single-slice
// binary mask. Background connected (4-connected) to the plane border stays
// background; everything else becomes foreground. The input is not modified.
// This compensates for the loss of out-of-plane context when a coronal slice
// is separated on its own.
func FillHoles2D(plane *volume.Mask) *volume.Mask {
	reachable := make([]bool, len(plane.Data))
	var queue []int

	push := func(r, c int) {
		idx := plane.Index(r, c, 0)
		if plane.Data[idx] == 0 && !reachable[idx] {
			reachable[idx] = true
			queue = append(queue, idx)
		}
	}

	// Seed the flood from every border pixel
	for c := 0; c < plane.Cols; c++ {
		push(0, c)
		push(plane.Rows-1, c)
	}
	for r := 0; r < plane.Rows; r++ {
		push(r, 0)
		push(r, plane.Cols-1)
	}

	for len(queue) > 0 {
		idx := queue[0]
		queue = queue[1:]
		r, c, _ := plane.Coords(idx)
		if r > 0 {
			push(r-1, c)
		}
		if r < plane.Rows-1 {
			push(r+1, c)
		}
		if c > 0 {
			push(r, c-1)
		}
		if c < plane.Cols-1 {
			push(r, c+1)
		}
	}

	out := plane.Clone()
	for idx, v := range out.Data {
		if v == 0 && !reachable[idx] {
			out.Data[idx] = 1
		}
	}
	return out
}
