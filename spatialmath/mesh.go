package spatialmath

// Mesh is a set of triangles expressed in a common frame. Meshes are used for display only.
type Mesh struct {
	triangles []*Triangle
}

// NewMesh creates a mesh from the given triangles.
func NewMesh(triangles []*Triangle) *Mesh {
	return &Mesh{triangles: triangles}
}

// NewEmptyMesh returns a mesh without faces.
func NewEmptyMesh() *Mesh {
	return &Mesh{}
}

// Triangles returns the faces of the mesh.
func (m *Mesh) Triangles() []*Triangle {
	if m == nil {
		return nil
	}
	return m.triangles
}

// Len returns the number of faces.
func (m *Mesh) Len() int {
	return len(m.Triangles())
}

// Append returns a new mesh holding the faces of m followed by the faces of others.
// Nil meshes are skipped.
func (m *Mesh) Append(others ...*Mesh) *Mesh {
	triangles := make([]*Triangle, 0, m.Len())
	triangles = append(triangles, m.Triangles()...)
	for _, other := range others {
		triangles = append(triangles, other.Triangles()...)
	}
	return &Mesh{triangles: triangles}
}

// Transform returns a new mesh with every vertex moved by pose.
func (m *Mesh) Transform(pose Pose) *Mesh {
	triangles := make([]*Triangle, 0, m.Len())
	for _, t := range m.Triangles() {
		triangles = append(triangles, t.Transform(pose))
	}
	return &Mesh{triangles: triangles}
}
