package geometry

import (
	"github.com/spaghettifunk/meshport/exporter/core"
	"github.com/spaghettifunk/meshport/exporter/math"
)

// Mesh is an indexed triangle mesh. Indices always come in groups of
// three; each group is one triangle wound counter-clockwise when seen
// from outside the solid.
type Mesh struct {
	Name     string
	Vertices []math.Vec3
	Indices  []uint32
}

func NewMesh(name string) *Mesh {
	return &Mesh{
		Name: name,
	}
}

func (m *Mesh) VertexCount() uint32 {
	return uint32(len(m.Vertices))
}

func (m *Mesh) TriangleCount() uint32 {
	return uint32(len(m.Indices) / 3)
}

// AddTriangle appends one triangle, creating three new vertices.
func (m *Mesh) AddTriangle(v0, v1, v2 math.Vec3) {
	base := uint32(len(m.Vertices))
	m.Vertices = append(m.Vertices, v0, v1, v2)
	m.Indices = append(m.Indices, base, base+1, base+2)
}

// Triangle returns the three corner positions of triangle i.
func (m *Mesh) Triangle(i uint32) (math.Vec3, math.Vec3, math.Vec3) {
	return m.Vertices[m.Indices[i*3+0]],
		m.Vertices[m.Indices[i*3+1]],
		m.Vertices[m.Indices[i*3+2]]
}

// FaceNormal returns the unit normal of triangle i, or the zero vector
// for a degenerate triangle.
func (m *Mesh) FaceNormal(i uint32) math.Vec3 {
	v0, v1, v2 := m.Triangle(i)
	c := v1.Sub(v0).Cross(v2.Sub(v0))
	if c.LengthSquared() <= math.K_FLOAT_EPSILON {
		return math.NewVec3Zero()
	}
	return c.Normalized()
}

// Merge appends every triangle of other into m, offsetting indices.
// This is the mesh-level union: triangle soups are concatenated, no
// boolean evaluation takes place.
func (m *Mesh) Merge(other *Mesh) {
	if other == nil || len(other.Indices) == 0 {
		return
	}
	offset := uint32(len(m.Vertices))
	m.Vertices = append(m.Vertices, other.Vertices...)
	for _, idx := range other.Indices {
		m.Indices = append(m.Indices, idx+offset)
	}
}

// ApplyTransform transforms every vertex of m by the given matrix in place.
func (m *Mesh) ApplyTransform(world math.Mat4) {
	for i := range m.Vertices {
		m.Vertices[i] = m.Vertices[i].Transform(world)
	}
}

// Extents returns the axis-aligned bounds of the mesh.
func (m *Mesh) Extents() math.Extents3D {
	ext := math.Extents3D{
		Min: math.NewVec3(math.K_INFINITY, math.K_INFINITY, math.K_INFINITY),
		Max: math.NewVec3(-math.K_INFINITY, -math.K_INFINITY, -math.K_INFINITY),
	}
	for _, v := range m.Vertices {
		if v.X < ext.Min.X {
			ext.Min.X = v.X
		}
		if v.Y < ext.Min.Y {
			ext.Min.Y = v.Y
		}
		if v.Z < ext.Min.Z {
			ext.Min.Z = v.Z
		}
		if v.X > ext.Max.X {
			ext.Max.X = v.X
		}
		if v.Y > ext.Max.Y {
			ext.Max.Y = v.Y
		}
		if v.Z > ext.Max.Z {
			ext.Max.Z = v.Z
		}
	}
	return ext
}

// DeduplicateVertices collapses exactly-equal vertices and remaps the
// index buffer. Triangle order and winding are unaffected.
func (m *Mesh) DeduplicateVertices() {
	vertexCount := uint32(len(m.Vertices))
	uniqueVerts := make([]math.Vec3, 0, vertexCount)
	remap := make(map[math.Vec3]uint32, vertexCount)
	oldToNew := make([]uint32, vertexCount)

	for v := uint32(0); v < vertexCount; v++ {
		u, found := remap[m.Vertices[v]]
		if !found {
			u = uint32(len(uniqueVerts))
			uniqueVerts = append(uniqueVerts, m.Vertices[v])
			remap[m.Vertices[v]] = u
		}
		oldToNew[v] = u
	}

	for i, idx := range m.Indices {
		m.Indices[i] = oldToNew[idx]
	}

	removedCount := vertexCount - uint32(len(uniqueVerts))
	m.Vertices = uniqueVerts
	core.LogDebug("mesh %s: deduplicate removed %d vertices, orig/now %d/%d", m.Name, removedCount, vertexCount, len(uniqueVerts))
}
