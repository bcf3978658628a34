package separation

import (
	"runtime"
	"sort"
	"sync"

	"lungsep/pkg/morphology"
	"lungsep/pkg/volume"
	"lungsep/pkg/watershed"
)

// composite is the result of the per-slice fallback: the accumulated labeled
// volume plus the coronal slice indices whose 2D separation failed. Failure
// bookkeeping is a sparse index set rather than a parallel volume; only
// slice-level failure matters for the final watershed seeding decision.
type composite struct {
	Labels       *volume.Mask
	FailedSlices []int
}

// separateBySlice runs the 2D fallback strategy: every coronal plane of the
// wide mask is hole-filled and separated independently with the full opening
// schedule, successful planes accumulate into the result, and failed planes
// stay all-zero. If any plane failed, one global watershed over the full 3D
// roi re-floods the failed planes and any per-slice boundary artifacts, using
// the successful planes' labels as seeds.
//
// Planes are independent, so they are distributed over a bounded worker pool.
// Each worker owns whole slice indices: result insertion touches disjoint
// voxel ranges and only the failed-slice set needs a lock. The global
// watershed runs strictly after all workers have joined.
func (s *Separator) separateBySlice(wide *volume.Mask, roi *volume.Cost, lungs *volume.Mask) composite {
	result := volume.NewMask(wide.Grid)

	workers := s.Workers
	if workers < 1 {
		workers = runtime.NumCPU()
	}

	var mu sync.Mutex
	var failed []int

	rows := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for r := range rows {
				plane := wide.ExtractCoronal(r)
				if plane.ForegroundCount() == 0 {
					continue
				}

				// Hole filling restores context lost by dropping the
				// out-of-plane dimension before the 2D attempt.
				filled := morphology.FillHoles2D(plane)
				labels, ok, _ := Separate(filled, roi.ExtractCoronal(r),
					lungs.ExtractCoronal(r), true, 0, nil)
				if !ok {
					mu.Lock()
					failed = append(failed, r)
					mu.Unlock()
					continue
				}
				result.InsertCoronal(labels, r)
			}
		}()
	}
	for r := 0; r < wide.Rows; r++ {
		rows <- r
	}
	close(rows)
	wg.Wait()

	sort.Ints(failed)

	if len(failed) > 0 {
		s.report("%d coronal slices failed 2D separation, repairing with a global watershed", len(failed))
		s.refloodFailedSlices(result, roi, lungs)
	}

	return composite{Labels: result, FailedSlices: failed}
}

// refloodFailedSlices runs the single global reconstruction pass: the
// accumulated per-slice labels seed a full-volume watershed fenced by the
// unclosed lung mask, filling in the slices that individually failed.
func (s *Separator) refloodFailedSlices(result *volume.Mask, roi *volume.Cost, lungs *volume.Mask) {
	seeds := make([]int8, len(result.Data))
	for i, v := range result.Data {
		seeds[i] = int8(v)
	}
	for i, v := range lungs.Data {
		if v == 0 {
			seeds[i] = watershed.Barrier
		}
	}

	flooded := watershed.FromSeeds(roi, seeds)
	for i, v := range flooded {
		if v > 0 {
			result.Data[i] = uint8(v)
		} else {
			result.Data[i] = 0
		}
	}
}
