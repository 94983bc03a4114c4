package core

import "math"

const (
	DefaultGridHalfExtent float32 = 50.0
	DefaultGridSpacing    float32 = 1.0
)

// GridVertex matches the WGSL vertex input of the grid shader.
type GridVertex struct {
	Pos [3]float32
}

// GridMesh is a line list on the Y = 0 plane of the render frame.
type GridMesh struct {
	Vertices   []GridVertex
	HalfExtent float32
	Spacing    float32
}

// LineCount is the number of line segments in the mesh.
func (m GridMesh) LineCount() int {
	return len(m.Vertices) / 2
}

// NewGridMesh builds lines every spacing units from -halfExtent to +halfExtent,
// running along both X and Z. Non-positive inputs fall back to the defaults.
func NewGridMesh(halfExtent, spacing float32) GridMesh {
	if halfExtent <= 0 {
		halfExtent = DefaultGridHalfExtent
	}
	if spacing <= 0 {
		spacing = DefaultGridSpacing
	}

	steps := int(math.Floor(float64(halfExtent / spacing)))
	vertices := make([]GridVertex, 0, (2*steps+1)*4)
	for i := -steps; i <= steps; i++ {
		v := float32(i) * spacing
		// Parallel to Z
		vertices = append(vertices,
			GridVertex{Pos: [3]float32{v, 0, -halfExtent}},
			GridVertex{Pos: [3]float32{v, 0, halfExtent}},
		)
		// Parallel to X
		vertices = append(vertices,
			GridVertex{Pos: [3]float32{-halfExtent, 0, v}},
			GridVertex{Pos: [3]float32{halfExtent, 0, v}},
		)
	}

	return GridMesh{
		Vertices:   vertices,
		HalfExtent: halfExtent,
		Spacing:    spacing,
	}
}
