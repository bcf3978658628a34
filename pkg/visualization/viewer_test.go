package visualization

import (
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"lungsep/pkg/separation"
	"lungsep/pkg/volume"
)

func testLabels() *volume.Mask {
	g := volume.Grid{Rows: 2, Cols: 3, Slices: 2}
	labels := volume.NewMask(g)
	labels.Data[g.Index(0, 0, 1)] = separation.LabelRight
	labels.Data[g.Index(0, 2, 1)] = separation.LabelLeft
	return labels
}

// TestRenderSlice verifies label colors and plane orientation
func TestRenderSlice(t *testing.T) {
	v := NewViewer(testLabels())

	img, err := v.RenderSlice("coronal", 0)
	if err != nil {
		t.Fatalf("Failed to render coronal slice: %v", err)
	}
	if img.Bounds().Dx() != 3 || img.Bounds().Dy() != 2 {
		t.Fatalf("Coronal image should span cols x slices, got %v", img.Bounds())
	}

	r, _, _, _ := img.At(0, 1).RGBA()
	if r == 0 {
		t.Error("Right lung voxel should render red")
	}
	_, _, b, _ := img.At(2, 1).RGBA()
	if b == 0 {
		t.Error("Left lung voxel should render blue")
	}
	if c := img.At(1, 0); !isBlack(c) {
		t.Errorf("Background voxel should render black, got %v", c)
	}

	if _, err := v.RenderSlice("sagittal", 0); err == nil {
		t.Error("Expected an error for an unsupported axis")
	}
	if _, err := v.RenderSlice("coronal", 5); err == nil {
		t.Error("Expected an error for an out-of-range position")
	}
}

// TestSaveSliceSequence verifies a numbered file per plane
func TestSaveSliceSequence(t *testing.T) {
	dir, err := os.MkdirTemp("", "lungsep-viewer-*")
	if err != nil {
		t.Fatalf("Failed to create temporary directory: %v", err)
	}
	defer os.RemoveAll(dir)

	v := NewViewer(testLabels())
	if err := v.SaveSliceSequence("coronal", dir); err != nil {
		t.Fatalf("Failed to save slice sequence: %v", err)
	}

	for i := 0; i < 2; i++ {
		name := filepath.Join(dir, "000.jpg")
		if i == 1 {
			name = filepath.Join(dir, "001.jpg")
		}
		if _, err := os.Stat(name); err != nil {
			t.Errorf("Expected slice image %s: %v", name, err)
		}
	}
}

func isBlack(c color.Color) bool {
	r, g, b, _ := c.RGBA()
	return r == 0 && g == 0 && b == 0
}
