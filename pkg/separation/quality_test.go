package separation

import (
	"math"
	"testing"

	"lungsep/pkg/volume"
)

// TestMeasureCoverage verifies voxel counts, the unassigned fraction, and the
// mean per-slice coverage
func TestMeasureCoverage(t *testing.T) {
	g := volume.Grid{Rows: 2, Cols: 4, Slices: 1}
	lungs := volume.NewMask(g)
	labels := volume.NewMask(g)

	// Row 0: four lung voxels, three assigned
	for c := 0; c < 4; c++ {
		lungs.Data[g.Index(0, c, 0)] = 1
	}
	labels.Data[g.Index(0, 0, 0)] = LabelRight
	labels.Data[g.Index(0, 1, 0)] = LabelRight
	labels.Data[g.Index(0, 2, 0)] = LabelLeft

	// Row 1: two lung voxels, both assigned
	lungs.Data[g.Index(1, 0, 0)] = 1
	lungs.Data[g.Index(1, 1, 0)] = 1
	labels.Data[g.Index(1, 0, 0)] = LabelLeft
	labels.Data[g.Index(1, 1, 0)] = LabelLeft

	m := MeasureCoverage(labels, lungs)

	if m.RightVoxels != 2 {
		t.Errorf("RightVoxels = %d, expected 2", m.RightVoxels)
	}
	if m.LeftVoxels != 3 {
		t.Errorf("LeftVoxels = %d, expected 3", m.LeftVoxels)
	}
	if m.UnassignedInterior != 1 {
		t.Errorf("UnassignedInterior = %d, expected 1", m.UnassignedInterior)
	}
	if want := 1.0 / 6.0; math.Abs(m.UnassignedFraction-want) > 1e-12 {
		t.Errorf("UnassignedFraction = %f, expected %f", m.UnassignedFraction, want)
	}
	if want := (0.75 + 1.0) / 2; math.Abs(m.MeanSliceCoverage-want) > 1e-12 {
		t.Errorf("MeanSliceCoverage = %f, expected %f", m.MeanSliceCoverage, want)
	}
}

// TestMeasureCoverageEmptyLungs verifies the empty mask does not divide by zero
func TestMeasureCoverageEmptyLungs(t *testing.T) {
	g := volume.Grid{Rows: 2, Cols: 2, Slices: 2}
	m := MeasureCoverage(volume.NewMask(g), volume.NewMask(g))
	if m.UnassignedFraction != 0 || m.MeanSliceCoverage != 0 {
		t.Errorf("Empty lung mask should yield zero metrics, got %+v", m)
	}
}
