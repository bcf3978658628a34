// Package volume provides the voxel grid data model shared by the lung
// separation pipeline: binary/label masks, cost volumes, and coronal slice
// extraction. Volumes are stored as flat arrays in slice-major order
// (slice, row, column), the same layout used throughout the pipeline.
package volume

// Grid describes the fixed size vector of a 3D voxel volume.
// A 2D plane is represented as a Grid with Slices == 1.
type Grid struct {
	// Rows is the number of rows (anterior-posterior axis).
	Rows int

	// Cols is the number of columns (left-right axis).
	Cols int

	// Slices is the number of axial slices (superior-inferior axis).
	Slices int
}

// NumVoxels returns the total number of voxels in the grid.
func (g Grid) NumVoxels() int {
	return g.Rows * g.Cols * g.Slices
}

// Index converts (row, col, slice) coordinates to a linear voxel index.
func (g Grid) Index(r, c, s int) int {
	return s*g.Rows*g.Cols + r*g.Cols + c
}

// Coords converts a linear voxel index back to (row, col, slice) coordinates.
func (g Grid) Coords(idx int) (r, c, s int) {
	plane := g.Rows * g.Cols
	s = idx / plane
	rem := idx % plane
	r = rem / g.Cols
	c = rem % g.Cols
	return r, c, s
}

// Is3D reports whether the grid spans more than one slice.
func (g Grid) Is3D() bool {
	return g.Slices > 1
}

// CoronalGrid returns the grid of a single extracted coronal plane.
// The plane's rows run along the original column (left-right) axis and its
// columns along the original slice axis, so slice-mode centroid comparisons
// on axis 0 still compare left/right position.
func (g Grid) CoronalGrid() Grid {
	return Grid{Rows: g.Cols, Cols: g.Slices, Slices: 1}
}

// Mask is a volume of small integer voxel values: 0/1 for binary masks,
// 0..n for threshold tiers, {0,1,2} for labeled output.
type Mask struct {
	Grid

	// Data holds one value per voxel in slice-major order.
	Data []uint8
}

// NewMask allocates a zeroed mask over the given grid.
func NewMask(g Grid) *Mask {
	return &Mask{Grid: g, Data: make([]uint8, g.NumVoxels())}
}

// Clone returns an independent copy of the mask. Callers take a clone before
// any destructive edit so the original survives across separation attempts.
func (m *Mask) Clone() *Mask {
	out := &Mask{Grid: m.Grid, Data: make([]uint8, len(m.Data))}
	copy(out.Data, m.Data)
	return out
}

// ForegroundCount returns the number of voxels with a positive value.
func (m *Mask) ForegroundCount() int {
	count := 0
	for _, v := range m.Data {
		if v > 0 {
			count++
		}
	}
	return count
}

// MaxValue returns the largest voxel value in the mask. For a tier mask this
// identifies the strictest confidence tier.
func (m *Mask) MaxValue() uint8 {
	var max uint8
	for _, v := range m.Data {
		if v > max {
			max = v
		}
	}
	return max
}

// AndPositive returns a binary mask that is 1 where both m and other are
// positive. Both masks must share the same grid.
func (m *Mask) AndPositive(other *Mask) *Mask {
	out := NewMask(m.Grid)
	for i, v := range m.Data {
		if v > 0 && other.Data[i] > 0 {
			out.Data[i] = 1
		}
	}
	return out
}

// AndEquals returns a binary mask that is 1 where m is positive and other
// equals the given value. Both masks must share the same grid.
func (m *Mask) AndEquals(other *Mask, value uint8) *Mask {
	out := NewMask(m.Grid)
	for i, v := range m.Data {
		if v > 0 && other.Data[i] == value {
			out.Data[i] = 1
		}
	}
	return out
}

// ExtractCoronal copies the coronal plane at the given row index into a new
// 2D mask with grid CoronalGrid().
func (m *Mask) ExtractCoronal(row int) *Mask {
	out := NewMask(m.CoronalGrid())
	for s := 0; s < m.Slices; s++ {
		for c := 0; c < m.Cols; c++ {
			out.Data[out.Index(c, s, 0)] = m.Data[m.Index(row, c, s)]
		}
	}
	return out
}

// InsertCoronal writes a 2D coronal plane back into the volume at the given
// row index. The plane must have grid CoronalGrid().
func (m *Mask) InsertCoronal(plane *Mask, row int) {
	for s := 0; s < m.Slices; s++ {
		for c := 0; c < m.Cols; c++ {
			m.Data[m.Index(row, c, s)] = plane.Data[plane.Index(c, s, 0)]
		}
	}
}

// Cost is an intensity/cost volume flooded by the watershed step.
// It is never modified by the separation pipeline.
type Cost struct {
	Grid

	// Data holds one cost value per voxel in slice-major order.
	Data []float64
}

// NewCost allocates a zeroed cost volume over the given grid.
func NewCost(g Grid) *Cost {
	return &Cost{Grid: g, Data: make([]float64, g.NumVoxels())}
}

// ExtractCoronal copies the coronal plane at the given row index into a new
// 2D cost volume with grid CoronalGrid().
func (c *Cost) ExtractCoronal(row int) *Cost {
	out := NewCost(c.CoronalGrid())
	for s := 0; s < c.Slices; s++ {
		for col := 0; col < c.Cols; col++ {
			out.Data[out.Index(col, s, 0)] = c.Data[c.Index(row, col, s)]
		}
	}
	return out
}

// TracheaLocus marks the carina, the point where the trachea bifurcates into
// the left and right bronchi. When present it serves as a spatial prior for
// the minimum acceptable lung region size.
type TracheaLocus struct {
	Row, Col, Slice int
}
