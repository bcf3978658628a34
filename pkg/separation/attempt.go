package separation

import (
	"lungsep/pkg/morphology"
	"lungsep/pkg/volume"
	"lungsep/pkg/watershed"
)

// Labels assigned to the two lungs in the output volume. Background and
// voxels the watershed could not reach stay 0.
const (
	LabelRight uint8 = 1
	LabelLeft  uint8 = 2
)

// openingRadii is the fixed schedule of structuring-element radii tried while
// forcing a merged mask apart. The values were empirically tuned; changing
// them changes which masks separate and after how many attempts.
var openingRadii = []int{1, 2, 4, 7, 10, 14}

// ScheduleLength returns the number of opening radii in the fixed escalation
// schedule, which is also the default iteration budget of Separate.
func ScheduleLength() int {
	return len(openingRadii)
}

// Separate attempts to split a merged lung mask into two labeled regions.
//
// The mask's connected components are inspected first; while fewer than two
// adequately sized components exist, a fresh copy of the original mask is
// opened with the next radius from the fixed schedule and the components are
// recomputed. Once two dominant components are found they are labeled
// left/right by centroid position and the labels are grown back to full
// resolution with a watershed over roi, seeded by the components and fenced
// by lungMask (voxels where lungMask is 0 are barriers and stay 0).
//
// In slice mode the centroid comparison runs along the plane's row axis
// (the original left-right axis of an extracted coronal plane); in 3D mode it
// runs along the column axis. maxIterations bounds the number of openings;
// values outside 1..ScheduleLength() mean the full schedule. locus, when
// non-nil on a genuinely 3D grid, replaces the flat minimum-size rule with an
// anatomically weighted one for the initial component check.
//
// Failure to find two adequately sized components within the budget is an
// expected, recoverable outcome reported through ok=false with the number of
// openings consumed; the caller escalates to a different strategy.
func Separate(mask *volume.Mask, roi *volume.Cost, lungMask *volume.Mask,
	sliceMode bool, maxIterations int, locus *volume.TracheaLocus) (labels *volume.Mask, ok bool, iterations int) {

	if maxIterations <= 0 || maxIterations > len(openingRadii) {
		maxIterations = len(openingRadii)
	}

	work := mask
	regions := morphology.Components(work)
	minSize := minimumSecondRegionSize(mask, locus)

	for len(regions) < 2 || regions[1].Size() < minSize {
		if iterations >= maxIterations {
			return nil, false, iterations
		}

		// Each escalation opens a fresh copy of the original mask with the
		// next, larger radius rather than compounding openings.
		work = morphology.Open(mask, openingRadii[iterations])
		iterations++

		regions = morphology.Components(work)
		// After the first opening the minimum always reverts to the flat
		// fraction, even when a trachea locus was supplied.
		minSize = work.ForegroundCount() / 10
	}

	first, second := regions[0], regions[1]
	firstLabel, secondLabel := assignLabels(mask.Grid, first, second, sliceMode)

	seeds := make([]int8, len(mask.Data))
	for _, idx := range first.Voxels {
		seeds[idx] = firstLabel
	}
	for _, idx := range second.Voxels {
		seeds[idx] = secondLabel
	}
	for i, v := range lungMask.Data {
		if v == 0 {
			seeds[i] = watershed.Barrier
		}
	}

	flooded := watershed.FromSeeds(roi, seeds)

	out := volume.NewMask(mask.Grid)
	for i, v := range flooded {
		if v > 0 {
			out.Data[i] = uint8(v)
		}
	}
	return out, true, iterations
}

// assignLabels decides which of the two dominant components is the right lung
// (label 1) and which the left (label 2) by comparing their centroids along
// the left-right axis. If both centroids fall on the same side of the
// volume's midline, both components share that side's label: a spurious small
// island must not be mislabeled as the opposite lung.
func assignLabels(g volume.Grid, first, second morphology.Region, sliceMode bool) (int8, int8) {
	axis, extent := 1, g.Cols
	if sliceMode {
		axis, extent = 0, g.Rows
	}

	c0 := Centroid(g, first.Voxels)[axis]
	c1 := Centroid(g, second.Voxels)[axis]

	firstLabel, secondLabel := int8(LabelRight), int8(LabelLeft)
	if c0 > c1 {
		firstLabel, secondLabel = int8(LabelLeft), int8(LabelRight)
	}

	mid := float64(extent) / 2
	switch {
	case c0 > mid && c1 > mid:
		firstLabel, secondLabel = int8(LabelLeft), int8(LabelLeft)
	case c0 < mid && c1 < mid:
		firstLabel, secondLabel = int8(LabelRight), int8(LabelRight)
	}
	return firstLabel, secondLabel
}

// minimumSecondRegionSize computes the smallest acceptable voxel count for
// the second-largest component. With a trachea locus on a genuinely 3D grid
// the mask is split at the locus column and the minimum is a fifth of the
// smaller half's foreground; otherwise it is a tenth of the total foreground.
func minimumSecondRegionSize(mask *volume.Mask, locus *volume.TracheaLocus) int {
	if locus != nil && mask.Is3D() {
		var low, high int
		for idx, v := range mask.Data {
			if v == 0 {
				continue
			}
			_, c, _ := mask.Coords(idx)
			if c < locus.Col {
				low++
			} else {
				high++
			}
		}
		min := low
		if high < low {
			min = high
		}
		return min / 5
	}
	return mask.ForegroundCount() / 10
}
