package geometry

import (
	stdmath "math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spaghettifunk/meshport/exporter/math"
)

func defaultDeflection() Deflection {
	return NewDeflection(0.1, 0.5236)
}

// signedVolume computes the volume enclosed by a closed mesh via the
// divergence theorem. Positive means consistent outward winding.
func signedVolume(m *Mesh) float64 {
	var v float64
	for i := uint32(0); i < m.TriangleCount(); i++ {
		v0, v1, v2 := m.Triangle(i)
		v += float64(v0.Dot(v1.Cross(v2))) / 6.0
	}
	return v
}

// requireClosed checks that every edge of the deduplicated mesh is
// shared by exactly two triangles with opposite direction: the mesh is
// watertight and consistently wound.
func requireClosed(t *testing.T, m *Mesh) {
	t.Helper()
	m.DeduplicateVertices()

	directed := make(map[[2]uint32]int)
	for i := uint32(0); i < m.TriangleCount(); i++ {
		i0 := m.Indices[i*3+0]
		i1 := m.Indices[i*3+1]
		i2 := m.Indices[i*3+2]
		require.NotEqual(t, i0, i1, "degenerate triangle %d", i)
		require.NotEqual(t, i1, i2, "degenerate triangle %d", i)
		require.NotEqual(t, i2, i0, "degenerate triangle %d", i)
		directed[[2]uint32{i0, i1}]++
		directed[[2]uint32{i1, i2}]++
		directed[[2]uint32{i2, i0}]++
	}

	for e, n := range directed {
		require.Equal(t, 1, n, "directed edge %v used %d times", e, n)
		require.Equal(t, 1, directed[[2]uint32{e[1], e[0]}], "edge %v has no opposite", e)
	}
}

func TestSegmentCountBounds(t *testing.T) {
	// Huge tolerances floor at the minimum.
	assert.Equal(t, MinSegments, SegmentCount(1, NewDeflection(10, 10)))
	// Tiny tolerances cap at the maximum.
	assert.Equal(t, MaxSegments, SegmentCount(1000, NewDeflection(1e-6, 1e-6)))

	// Tighter angular tolerance can only add facets.
	loose := SegmentCount(1, NewDeflection(0.1, 0.8))
	tight := SegmentCount(1, NewDeflection(0.1, 0.1))
	assert.Greater(t, tight, loose)

	// The linear bound kicks in as the radius grows.
	small := SegmentCount(1, NewDeflection(0.1, 1.0))
	large := SegmentCount(100, NewDeflection(0.1, 1.0))
	assert.Greater(t, large, small)
}

func TestGenerateBoxMesh(t *testing.T) {
	m, err := GenerateBoxMesh(2, 4, 6, "b")
	require.NoError(t, err)
	assert.Equal(t, uint32(12), m.TriangleCount())

	requireClosed(t, m)
	assert.Equal(t, uint32(8), m.VertexCount())

	assert.InDelta(t, 48.0, signedVolume(m), 1e-4)

	ext := m.Extents()
	assert.True(t, ext.Min.Compare(math.NewVec3(-1, -2, -3), 1e-6))
	assert.True(t, ext.Max.Compare(math.NewVec3(1, 2, 3), 1e-6))
}

func TestGenerateBoxMeshRejectsBadDimensions(t *testing.T) {
	_, err := GenerateBoxMesh(0, 1, 1, "b")
	assert.Error(t, err)
	_, err = GenerateBoxMesh(1, -1, 1, "b")
	assert.Error(t, err)
}

func TestGeneratePlaneMesh(t *testing.T) {
	m, err := GeneratePlaneMesh(4, 2, "p")
	require.NoError(t, err)
	assert.Equal(t, uint32(2), m.TriangleCount())

	// Both triangles face +z.
	for i := uint32(0); i < m.TriangleCount(); i++ {
		n := m.FaceNormal(i)
		assert.True(t, n.Compare(math.NewVec3(0, 0, 1), 1e-6))
	}
}

func TestGenerateCylinderMesh(t *testing.T) {
	m, err := GenerateCylinderMesh(2, 10, defaultDeflection(), "c")
	require.NoError(t, err)
	requireClosed(t, m)

	analytic := stdmath.Pi * 4 * 10
	v := signedVolume(m)
	assert.Greater(t, v, analytic*0.8)
	assert.Less(t, v, analytic*1.001)

	ext := m.Extents()
	assert.InDelta(t, 0.0, float64(ext.Min.Z), 1e-6)
	assert.InDelta(t, 10.0, float64(ext.Max.Z), 1e-6)
}

func TestGenerateConeMesh(t *testing.T) {
	// Full cone with an apex.
	m, err := GenerateConeMesh(3, 0, 6, defaultDeflection(), "cone")
	require.NoError(t, err)
	requireClosed(t, m)

	analytic := stdmath.Pi * 9 * 6 / 3
	v := signedVolume(m)
	assert.Greater(t, v, analytic*0.8)
	assert.Less(t, v, analytic*1.001)
}

func TestGenerateTruncatedConeMesh(t *testing.T) {
	m, err := GenerateConeMesh(3, 1, 6, defaultDeflection(), "frustum")
	require.NoError(t, err)
	requireClosed(t, m)

	// Frustum volume: h*pi/3 * (r0^2 + r0*r1 + r1^2)
	analytic := 6 * stdmath.Pi / 3 * (9 + 3 + 1)
	v := signedVolume(m)
	assert.Greater(t, v, analytic*0.8)
	assert.Less(t, v, analytic*1.001)
}

func TestGenerateConeMeshRejectsDegenerate(t *testing.T) {
	_, err := GenerateConeMesh(0, 0, 5, defaultDeflection(), "cone")
	assert.Error(t, err)
	_, err = GenerateConeMesh(1, 1, 0, defaultDeflection(), "cone")
	assert.Error(t, err)
}

func TestGenerateSphereMesh(t *testing.T) {
	m, err := GenerateSphereMesh(1, defaultDeflection(), "s")
	require.NoError(t, err)
	requireClosed(t, m)

	analytic := 4.0 / 3.0 * stdmath.Pi
	v := signedVolume(m)
	assert.Greater(t, v, analytic*0.85)
	assert.Less(t, v, analytic*1.001)
}

func TestGenerateTorusMesh(t *testing.T) {
	m, err := GenerateTorusMesh(3, 1, defaultDeflection(), "t")
	require.NoError(t, err)
	requireClosed(t, m)

	analytic := 2 * stdmath.Pi * stdmath.Pi * 3 * 1
	v := signedVolume(m)
	assert.Greater(t, v, analytic*0.8)
	assert.Less(t, v, analytic*1.001)
}

func TestGenerateTorusMeshRejectsBadRadii(t *testing.T) {
	_, err := GenerateTorusMesh(1, 2, defaultDeflection(), "t")
	assert.Error(t, err)
	_, err = GenerateTorusMesh(0, 0, defaultDeflection(), "t")
	assert.Error(t, err)
}

func TestDeflectionControlsTriangleBudget(t *testing.T) {
	coarse, err := GenerateSphereMesh(10, NewDeflection(1, 1), "coarse")
	require.NoError(t, err)
	fine, err := GenerateSphereMesh(10, NewDeflection(0.01, 0.05), "fine")
	require.NoError(t, err)

	assert.Greater(t, fine.TriangleCount(), coarse.TriangleCount())
}
