package geometry

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"strings"

	"github.com/spaghettifunk/meshport/exporter/math"
)

const stlHeaderSize = 80

// stlTriangle is one binary STL record: a face normal, three corners and
// an unused attribute word, all little-endian.
type stlTriangle struct {
	Normal    [3]float32
	V0        [3]float32
	V1        [3]float32
	V2        [3]float32
	Attribute uint16
}

func vec3ToArray(v math.Vec3) [3]float32 {
	return [3]float32{v.X, v.Y, v.Z}
}

// WriteSTLBinary serializes the mesh in binary STL form. Face normals
// are recomputed from the triangle winding.
func WriteSTLBinary(w io.Writer, m *Mesh) error {
	var header [stlHeaderSize]byte
	copy(header[:], "meshport binary STL: "+m.Name)
	if err := binary.Write(w, binary.LittleEndian, header); err != nil {
		return fmt.Errorf("failed to write STL header: %w", err)
	}

	count := m.TriangleCount()
	if err := binary.Write(w, binary.LittleEndian, count); err != nil {
		return fmt.Errorf("failed to write STL triangle count: %w", err)
	}

	bw := bufio.NewWriter(w)
	for i := uint32(0); i < count; i++ {
		v0, v1, v2 := m.Triangle(i)
		rec := stlTriangle{
			Normal: vec3ToArray(m.FaceNormal(i)),
			V0:     vec3ToArray(v0),
			V1:     vec3ToArray(v1),
			V2:     vec3ToArray(v2),
		}
		if err := binary.Write(bw, binary.LittleEndian, &rec); err != nil {
			return fmt.Errorf("failed to write STL triangle %d: %w", i, err)
		}
	}
	return bw.Flush()
}

// WriteSTLASCII serializes the mesh in ASCII STL form.
func WriteSTLASCII(w io.Writer, m *Mesh) error {
	bw := bufio.NewWriter(w)

	name := m.Name
	if name == "" {
		name = "mesh"
	}

	fmt.Fprintf(bw, "solid %s\n", name)
	count := m.TriangleCount()
	for i := uint32(0); i < count; i++ {
		v0, v1, v2 := m.Triangle(i)
		n := m.FaceNormal(i)
		fmt.Fprintf(bw, "  facet normal %e %e %e\n", n.X, n.Y, n.Z)
		fmt.Fprintf(bw, "    outer loop\n")
		fmt.Fprintf(bw, "      vertex %e %e %e\n", v0.X, v0.Y, v0.Z)
		fmt.Fprintf(bw, "      vertex %e %e %e\n", v1.X, v1.Y, v1.Z)
		fmt.Fprintf(bw, "      vertex %e %e %e\n", v2.X, v2.Y, v2.Z)
		fmt.Fprintf(bw, "    endloop\n")
		fmt.Fprintf(bw, "  endfacet\n")
	}
	fmt.Fprintf(bw, "endsolid %s\n", name)

	return bw.Flush()
}

// ReadSTLBinary parses a binary STL stream back into a mesh. Vertices
// shared between triangles are collapsed. Used to validate exports.
func ReadSTLBinary(r io.Reader) (*Mesh, error) {
	var header struct {
		H    [stlHeaderSize]byte
		NTri uint32
	}
	if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
		return nil, fmt.Errorf("failed to read STL header: %w", err)
	}

	m := NewMesh(strings.TrimRight(string(header.H[:]), "\x00 "))

	vertMap := make(map[math.Vec3]uint32)
	intern := func(v [3]float32) uint32 {
		p := math.NewVec3(v[0], v[1], v[2])
		idx, ok := vertMap[p]
		if !ok {
			idx = uint32(len(m.Vertices))
			m.Vertices = append(m.Vertices, p)
			vertMap[p] = idx
		}
		return idx
	}

	for i := uint32(0); i < header.NTri; i++ {
		var rec stlTriangle
		if err := binary.Read(r, binary.LittleEndian, &rec); err != nil {
			return nil, fmt.Errorf("failed to read STL triangle %d: %w", i, err)
		}
		m.Indices = append(m.Indices, intern(rec.V0), intern(rec.V1), intern(rec.V2))
	}

	return m, nil
}
