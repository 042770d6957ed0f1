package geometry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spaghettifunk/meshport/exporter/math"
)

func TestMeshAddTriangle(t *testing.T) {
	m := NewMesh("m")
	m.AddTriangle(math.NewVec3(0, 0, 0), math.NewVec3(1, 0, 0), math.NewVec3(0, 1, 0))

	assert.Equal(t, uint32(1), m.TriangleCount())
	assert.Equal(t, uint32(3), m.VertexCount())

	n := m.FaceNormal(0)
	assert.True(t, n.Compare(math.NewVec3(0, 0, 1), 1e-6))
}

func TestMeshFaceNormalDegenerate(t *testing.T) {
	m := NewMesh("m")
	p := math.NewVec3(1, 1, 1)
	m.AddTriangle(p, p, p)
	assert.Equal(t, math.NewVec3Zero(), m.FaceNormal(0))
}

func TestMeshMergeOffsetsIndices(t *testing.T) {
	a := NewMesh("a")
	a.AddTriangle(math.NewVec3(0, 0, 0), math.NewVec3(1, 0, 0), math.NewVec3(0, 1, 0))

	b := NewMesh("b")
	b.AddTriangle(math.NewVec3(5, 0, 0), math.NewVec3(6, 0, 0), math.NewVec3(5, 1, 0))
	b.AddTriangle(math.NewVec3(5, 0, 1), math.NewVec3(6, 0, 1), math.NewVec3(5, 1, 1))

	a.Merge(b)
	assert.Equal(t, uint32(3), a.TriangleCount())
	assert.Equal(t, uint32(9), a.VertexCount())

	// Triangles of b keep their geometry after the merge.
	v0, _, _ := a.Triangle(1)
	assert.True(t, v0.Compare(math.NewVec3(5, 0, 0), 1e-6))

	// Merging nil or empty is a no-op.
	a.Merge(nil)
	a.Merge(NewMesh("empty"))
	assert.Equal(t, uint32(3), a.TriangleCount())
}

func TestMeshMergeIsOrderIndependentOnTriangleSet(t *testing.T) {
	box, err := GenerateBoxMesh(1, 1, 1, "box")
	require.NoError(t, err)
	sphere, err := GenerateSphereMesh(1, NewDeflection(0.5, 0.8), "sphere")
	require.NoError(t, err)

	ab := NewMesh("ab")
	ab.Merge(box)
	ab.Merge(sphere)

	ba := NewMesh("ba")
	ba.Merge(sphere)
	ba.Merge(box)

	assert.Equal(t, ab.TriangleCount(), ba.TriangleCount())
	assert.InDelta(t, signedVolume(ab), signedVolume(ba), 1e-5)
}

func TestMeshApplyTransform(t *testing.T) {
	m := NewMesh("m")
	m.AddTriangle(math.NewVec3(0, 0, 0), math.NewVec3(1, 0, 0), math.NewVec3(0, 1, 0))

	m.ApplyTransform(math.NewMat4Translation(math.NewVec3(0, 0, 10)))
	v0, _, _ := m.Triangle(0)
	assert.True(t, v0.Compare(math.NewVec3(0, 0, 10), 1e-6))
}

func TestMeshDeduplicateVertices(t *testing.T) {
	m := NewMesh("m")
	// Two triangles sharing an edge: 6 stored vertices, 4 unique.
	m.AddTriangle(math.NewVec3(0, 0, 0), math.NewVec3(1, 0, 0), math.NewVec3(1, 1, 0))
	m.AddTriangle(math.NewVec3(0, 0, 0), math.NewVec3(1, 1, 0), math.NewVec3(0, 1, 0))

	before0, before1, before2 := m.Triangle(1)
	m.DeduplicateVertices()

	assert.Equal(t, uint32(4), m.VertexCount())
	assert.Equal(t, uint32(2), m.TriangleCount())

	after0, after1, after2 := m.Triangle(1)
	assert.Equal(t, before0, after0)
	assert.Equal(t, before1, after1)
	assert.Equal(t, before2, after2)
}

func TestMeshExtentsEmpty(t *testing.T) {
	m := NewMesh("m")
	ext := m.Extents()
	// An empty mesh reports inverted bounds.
	assert.Greater(t, ext.Min.X, ext.Max.X)
}
