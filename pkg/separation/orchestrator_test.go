package separation

import (
	"fmt"
	"strings"
	"sync"
	"testing"

	"lungsep/pkg/volume"
)

// countingReporter records diagnostics for escalation-order assertions
type countingReporter struct {
	mu       sync.Mutex
	messages []string
}

func (r *countingReporter) Report(format string, args ...interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, fmt.Sprintf(format, args...))
}

func (r *countingReporter) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.messages)
}

// tieredInputs builds a lung ball whose wide mask is a single merged blob and
// whose strict tier holds two separated blobs: only the narrow attempt can
// succeed
func tieredInputs() (*volume.Mask, *volume.Mask, *volume.Cost, volume.Grid) {
	g := volume.Grid{Rows: 20, Cols: 20, Slices: 20}
	lungs := volume.NewMask(g)
	addBall(lungs, 10, 10, 10, 6)

	tiers := lungs.Clone()
	strict := volume.NewMask(g)
	addBall(strict, 10, 6, 10, 2)
	addBall(strict, 10, 14, 10, 2)
	for i, v := range strict.Data {
		if v > 0 {
			tiers.Data[i] = 2
		}
	}

	return lungs, tiers, uniformCost(g), g
}

// TestRunTierEscalation verifies the orchestrator fails the wide tier before
// succeeding on the strict tier, observable through the diagnostic sink
func TestRunTierEscalation(t *testing.T) {
	lungs, tiers, roi, g := tieredInputs()
	reporter := &countingReporter{}
	s := &Separator{Reporter: reporter, Workers: 1}

	labels, err := s.Run(lungs, tiers, roi, nil)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if reporter.count() != 1 {
		t.Fatalf("Expected exactly 1 escalation diagnostic, got %d: %v",
			reporter.count(), reporter.messages)
	}
	if !strings.Contains(reporter.messages[0], "2 opening attempts") {
		t.Errorf("Diagnostic should name the wide tier's 2 opening attempts, got %q",
			reporter.messages[0])
	}

	if got := labels.Data[g.Index(10, 6, 10)]; got != LabelRight {
		t.Errorf("Low-column region labeled %d, expected %d", got, LabelRight)
	}
	if got := labels.Data[g.Index(10, 14, 10)]; got != LabelLeft {
		t.Errorf("High-column region labeled %d, expected %d", got, LabelLeft)
	}
}

// TestRunOutputInvariants verifies shape invariance, exterior zeroing, and
// the output label range on a successful run
func TestRunOutputInvariants(t *testing.T) {
	lungs, tiers, roi, _ := tieredInputs()
	s := &Separator{Workers: 1}

	labels, err := s.Run(lungs, tiers, roi, nil)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if labels.Grid != lungs.Grid {
		t.Fatalf("Output grid %+v does not match input grid %+v", labels.Grid, lungs.Grid)
	}
	for i, v := range labels.Data {
		if lungs.Data[i] == 0 && v != 0 {
			t.Fatalf("Voxel %d outside the lung mask labeled %d", i, v)
		}
		if v > 2 {
			t.Fatalf("Voxel %d has label %d outside {0,1,2}", i, v)
		}
	}
}

// TestRunWideTierShortCircuit verifies an input separable at the wide tier
// produces no escalation diagnostics
func TestRunWideTierShortCircuit(t *testing.T) {
	g := volume.Grid{Rows: 20, Cols: 40, Slices: 20}
	lungs := volume.NewMask(g)
	addBall(lungs, 10, 10, 10, 5)
	addBall(lungs, 10, 30, 10, 5)

	reporter := &countingReporter{}
	s := &Separator{Reporter: reporter, Workers: 1}

	labels, err := s.Run(lungs, lungs.Clone(), uniformCost(g), nil)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if reporter.count() != 0 {
		t.Errorf("Expected no diagnostics for a wide-tier success, got %v", reporter.messages)
	}
	if labels.Data[g.Index(10, 10, 10)] != LabelRight ||
		labels.Data[g.Index(10, 30, 10)] != LabelLeft {
		t.Error("Wide-tier success produced wrong labels")
	}
}

// TestRunInputValidation verifies malformed inputs fail fast with descriptive
// errors before any processing
func TestRunInputValidation(t *testing.T) {
	g := volume.Grid{Rows: 4, Cols: 4, Slices: 4}
	lungs := volume.NewMask(g)
	lungs.Data[0] = 1
	s := &Separator{}

	t.Run("TierShapeMismatch", func(t *testing.T) {
		tiers := volume.NewMask(volume.Grid{Rows: 4, Cols: 4, Slices: 5})
		if _, err := s.Run(lungs, tiers, volume.NewCost(g), nil); err == nil {
			t.Fatal("Expected an error for mismatched tier dimensions")
		}
	})

	t.Run("ROIShapeMismatch", func(t *testing.T) {
		roi := volume.NewCost(volume.Grid{Rows: 5, Cols: 4, Slices: 4})
		if _, err := s.Run(lungs, volume.NewMask(g), roi, nil); err == nil {
			t.Fatal("Expected an error for mismatched ROI dimensions")
		}
	})

	t.Run("EmptyLungMask", func(t *testing.T) {
		empty := volume.NewMask(g)
		if _, err := s.Run(empty, volume.NewMask(g), volume.NewCost(g), nil); err == nil {
			t.Fatal("Expected an error for an empty lung mask")
		}
	})
}
