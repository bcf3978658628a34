// Package visualization renders labeled lung volumes as 2D slice images for
// visual inspection of the separation result.
package visualization

import (
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"os"
	"path/filepath"

	"lungsep/pkg/separation"
	"lungsep/pkg/volume"
)

// Label rendering colors: right lung red, left lung blue, background black.
var (
	rightColor = color.RGBA{R: 220, A: 255}
	leftColor  = color.RGBA{B: 220, A: 255}
)

// Viewer renders planes of a labeled volume as images.
type Viewer struct {
	labels *volume.Mask
}

// NewViewer creates a viewer over a labeled volume.
func NewViewer(labels *volume.Mask) *Viewer {
	return &Viewer{labels: labels}
}

// RenderSlice renders one plane of the labeled volume. Supported axes are
// "coronal" (position indexes rows, the image spans columns by slices) and
// "axial" (position indexes slices, the image spans columns by rows).
func (v *Viewer) RenderSlice(axis string, position int) (image.Image, error) {
	switch axis {
	case "coronal":
		if position < 0 || position >= v.labels.Rows {
			return nil, fmt.Errorf("coronal position %d out of range [0,%d)", position, v.labels.Rows)
		}
		img := image.NewRGBA(image.Rect(0, 0, v.labels.Cols, v.labels.Slices))
		for s := 0; s < v.labels.Slices; s++ {
			for c := 0; c < v.labels.Cols; c++ {
				img.Set(c, s, labelColor(v.labels.Data[v.labels.Index(position, c, s)]))
			}
		}
		return img, nil

	case "axial":
		if position < 0 || position >= v.labels.Slices {
			return nil, fmt.Errorf("axial position %d out of range [0,%d)", position, v.labels.Slices)
		}
		img := image.NewRGBA(image.Rect(0, 0, v.labels.Cols, v.labels.Rows))
		for r := 0; r < v.labels.Rows; r++ {
			for c := 0; c < v.labels.Cols; c++ {
				img.Set(c, r, labelColor(v.labels.Data[v.labels.Index(r, c, position)]))
			}
		}
		return img, nil

	default:
		return nil, fmt.Errorf("unknown axis %q, expected coronal or axial", axis)
	}
}

// SaveSliceSequence renders every plane along the given axis into numbered
// JPEG files under dir.
func (v *Viewer) SaveSliceSequence(axis, dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create slice directory: %w", err)
	}

	count := v.labels.Rows
	if axis == "axial" {
		count = v.labels.Slices
	}

	for i := 0; i < count; i++ {
		img, err := v.RenderSlice(axis, i)
		if err != nil {
			return err
		}

		filename := filepath.Join(dir, fmt.Sprintf("%03d.jpg", i))
		file, err := os.Create(filename)
		if err != nil {
			return fmt.Errorf("failed to create image file: %w", err)
		}

		if err := jpeg.Encode(file, img, &jpeg.Options{Quality: 90}); err != nil {
			file.Close()
			return fmt.Errorf("failed to encode image: %w", err)
		}
		file.Close()
	}

	return nil
}

func labelColor(label uint8) color.Color {
	switch label {
	case separation.LabelRight:
		return rightColor
	case separation.LabelLeft:
		return leftColor
	default:
		return color.Black
	}
}
