package separation

import (
	"gonum.org/v1/gonum/stat"

	"lungsep/pkg/volume"
)

// CoverageMetrics quantifies how much of the lung mask the separation
// assigned. Unassigned interior voxels are an accepted degradation of the
// watershed reconstruction, not an error; callers decide whether the
// unassigned fraction warrants a warning.
type CoverageMetrics struct {
	// RightVoxels and LeftVoxels count the voxels assigned to each lung.
	RightVoxels int
	LeftVoxels  int

	// UnassignedInterior counts lung-mask voxels left 0 in the output.
	UnassignedInterior int

	// UnassignedFraction is UnassignedInterior over the lung foreground,
	// 0 for an empty lung mask.
	UnassignedFraction float64

	// MeanSliceCoverage is the mean assigned fraction across coronal slices
	// that contain lung foreground.
	MeanSliceCoverage float64
}

// MeasureCoverage compares a labeled output against the unclosed lung mask it
// was derived from. Both volumes must share one grid.
func MeasureCoverage(labels, lungs *volume.Mask) CoverageMetrics {
	var m CoverageMetrics

	sliceAssigned := make([]float64, lungs.Rows)
	sliceForeground := make([]float64, lungs.Rows)

	for idx, v := range lungs.Data {
		if v == 0 {
			continue
		}
		r, _, _ := lungs.Coords(idx)
		sliceForeground[r]++

		switch labels.Data[idx] {
		case LabelRight:
			m.RightVoxels++
			sliceAssigned[r]++
		case LabelLeft:
			m.LeftVoxels++
			sliceAssigned[r]++
		default:
			m.UnassignedInterior++
		}
	}

	foreground := m.RightVoxels + m.LeftVoxels + m.UnassignedInterior
	if foreground > 0 {
		m.UnassignedFraction = float64(m.UnassignedInterior) / float64(foreground)
	}

	var coverage []float64
	for r := range sliceForeground {
		if sliceForeground[r] > 0 {
			coverage = append(coverage, sliceAssigned[r]/sliceForeground[r])
		}
	}
	if len(coverage) > 0 {
		m.MeanSliceCoverage = stat.Mean(coverage, nil)
	}

	return m
}
