// Package separation splits a merged left/right lung mask into a labeled
// volume. A single merged mask (both lungs joined at the mediastinum or
// trachea) is forced apart by escalating strategies: a wide-threshold 3D
// attempt with a short opening budget, a strict-threshold 3D attempt with the
// full budget, and finally an independent per-coronal-slice attempt patched
// by one global watershed.
package separation

import (
	"fmt"

	"lungsep/pkg/volume"
)

// wideIterationCap bounds the opening attempts of the first, wide-threshold
// strategy tier. The strict tier and the per-slice fallback get the full
// schedule.
const wideIterationCap = 2

// Separator runs the escalating separation strategies over one set of input
// volumes. The zero value is usable; Reporter defaults to discarding
// diagnostics and Workers to one goroutine per CPU for the per-slice
// fallback.
type Separator struct {
	// Reporter receives observational diagnostics when a strategy tier is
	// abandoned. Never consulted for control flow.
	Reporter Reporter

	// Workers is the number of goroutines used by the per-slice fallback.
	// Values below 1 mean one worker per CPU.
	Workers int
}

// Run separates the merged lung mask into a labeled volume with values
// 0 (background/unassigned), 1 (right lung) and 2 (left lung).
//
// unclosedLungs is the binary lung mask before any morphological closing;
// tiers carries the per-voxel threshold confidence tier (0 = outside, higher
// = stricter membership); roi is the cost volume the watershed floods across;
// locus optionally marks the carina. All three volumes must share one grid
// and the lung mask must not be empty, otherwise Run fails fast without
// processing anything.
//
// Voxels outside unclosedLungs are always 0 in the output. Interior voxels
// the final watershed cannot reach stay 0 as an accepted degradation;
// MeasureCoverage quantifies them for callers that want to warn.
func (s *Separator) Run(unclosedLungs, tiers *volume.Mask, roi *volume.Cost,
	locus *volume.TracheaLocus) (*volume.Mask, error) {

	if err := validateInputs(unclosedLungs, tiers, roi); err != nil {
		return nil, err
	}

	wide := unclosedLungs.AndPositive(tiers)
	labels, ok, iterations := Separate(wide, roi, unclosedLungs, false, wideIterationCap, locus)
	if ok {
		return labels, nil
	}

	s.report("wide-threshold separation failed after %d opening attempts, retrying with strict threshold", iterations)

	narrow := unclosedLungs.AndEquals(tiers, tiers.MaxValue())
	labels, ok, iterations = Separate(narrow, roi, unclosedLungs, false, 0, locus)
	if ok {
		return labels, nil
	}

	s.report("strict-threshold separation failed after %d opening attempts, falling back to per-slice separation", iterations)

	composite := s.separateBySlice(wide, roi, unclosedLungs)
	return composite.Labels, nil
}

func (s *Separator) report(format string, args ...interface{}) {
	if s.Reporter != nil {
		s.Reporter.Report(format, args...)
	}
}

func validateInputs(lungs, tiers *volume.Mask, roi *volume.Cost) error {
	if tiers.Grid != lungs.Grid {
		return fmt.Errorf("tier mask dimensions %dx%dx%d do not match lung mask dimensions %dx%dx%d",
			tiers.Rows, tiers.Cols, tiers.Slices, lungs.Rows, lungs.Cols, lungs.Slices)
	}
	if roi.Grid != lungs.Grid {
		return fmt.Errorf("ROI dimensions %dx%dx%d do not match lung mask dimensions %dx%dx%d",
			roi.Rows, roi.Cols, roi.Slices, lungs.Rows, lungs.Cols, lungs.Slices)
	}
	if lungs.ForegroundCount() == 0 {
		return fmt.Errorf("lung mask has no foreground voxels")
	}
	return nil
}
