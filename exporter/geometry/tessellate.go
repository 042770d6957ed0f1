package geometry

import (
	"fmt"

	"github.com/spaghettifunk/meshport/exporter/math"
)

const (
	// MinSegments is the lowest usable facet count for a full circle.
	MinSegments uint32 = 3
	// MaxSegments caps facet counts so tiny deflections on large radii
	// cannot explode the output.
	MaxSegments uint32 = 512
)

// Deflection carries the tessellation tolerances: Linear is the maximum
// distance between the mesh and the true surface, Angular the maximum
// normal change between adjacent facets, in radians.
type Deflection struct {
	Linear  float32
	Angular float32
}

func NewDeflection(linear, angular float32) Deflection {
	return Deflection{Linear: linear, Angular: angular}
}

// SegmentCount returns the number of facets a full circle of the given
// radius needs to honor both tolerances. The linear bound follows from
// the sagitta of a chord: deviation d on radius r allows an arc step of
// 2*acos(1 - d/r).
func SegmentCount(radius float32, d Deflection) uint32 {
	n := MinSegments

	if d.Angular > 0 {
		na := uint32(mceil(math.K_PI_2 / d.Angular))
		if na > n {
			n = na
		}
	}

	if d.Linear > 0 && d.Linear < radius {
		step := math.Acos(1.0 - d.Linear/radius)
		if step > 0 {
			nl := uint32(mceil(math.K_PI / step))
			if nl > n {
				n = nl
			}
		}
	}

	return math.Clamp(n, MinSegments, MaxSegments)
}

func mceil(x float32) float32 {
	i := float32(uint32(x))
	if x > i {
		return i + 1
	}
	return i
}

// GenerateBoxMesh creates a closed box centered on the origin. Boxes are
// exact: deflection never changes the output.
func GenerateBoxMesh(width, height, depth float32, name string) (*Mesh, error) {
	if width <= 0 || height <= 0 || depth <= 0 {
		return nil, fmt.Errorf("box %s must have positive dimensions, got %fx%fx%f", name, width, height, depth)
	}

	hw := width * 0.5
	hh := height * 0.5
	hd := depth * 0.5

	min := math.NewVec3(-hw, -hh, -hd)
	max := math.NewVec3(hw, hh, hd)

	m := NewMesh(name)

	// Corner layout: bit 0 = +x, bit 1 = +y, bit 2 = +z.
	c := [8]math.Vec3{}
	for i := 0; i < 8; i++ {
		c[i] = min
		if i&1 != 0 {
			c[i].X = max.X
		}
		if i&2 != 0 {
			c[i].Y = max.Y
		}
		if i&4 != 0 {
			c[i].Z = max.Z
		}
	}

	quad := func(a, b, cc, d int) {
		m.AddTriangle(c[a], c[b], c[cc])
		m.AddTriangle(c[a], c[cc], c[d])
	}

	quad(1, 3, 7, 5) // +x
	quad(2, 0, 4, 6) // -x
	quad(3, 2, 6, 7) // +y
	quad(0, 1, 5, 4) // -y
	quad(4, 5, 7, 6) // +z
	quad(1, 0, 2, 3) // -z

	return m, nil
}

// GeneratePlaneMesh creates a single-sided rectangle in the XY plane
// centered on the origin, facing +z. Planes are exact and not watertight.
func GeneratePlaneMesh(width, height float32, name string) (*Mesh, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("plane %s must have positive dimensions, got %fx%f", name, width, height)
	}

	hw := width * 0.5
	hh := height * 0.5

	m := NewMesh(name)
	m.AddTriangle(math.NewVec3(-hw, -hh, 0), math.NewVec3(hw, -hh, 0), math.NewVec3(hw, hh, 0))
	m.AddTriangle(math.NewVec3(-hw, -hh, 0), math.NewVec3(hw, hh, 0), math.NewVec3(-hw, hh, 0))
	return m, nil
}

// GenerateCylinderMesh creates a closed cylinder of the given radius
// along +z, base at z=0, top at z=height.
func GenerateCylinderMesh(radius, height float32, d Deflection, name string) (*Mesh, error) {
	if radius <= 0 || height <= 0 {
		return nil, fmt.Errorf("cylinder %s must have positive radius and height, got r=%f h=%f", name, radius, height)
	}
	return generateFrustum(radius, radius, height, d, name)
}

// GenerateConeMesh creates a closed cone (or truncated cone) along +z,
// base radius at z=0, top radius at z=height. One of the radii may be
// zero; both zero is degenerate and rejected.
func GenerateConeMesh(bottomRadius, topRadius, height float32, d Deflection, name string) (*Mesh, error) {
	if height <= 0 {
		return nil, fmt.Errorf("cone %s must have positive height, got %f", name, height)
	}
	if bottomRadius < 0 || topRadius < 0 || (bottomRadius == 0 && topRadius == 0) {
		return nil, fmt.Errorf("cone %s must have at least one positive radius, got %f/%f", name, bottomRadius, topRadius)
	}
	return generateFrustum(bottomRadius, topRadius, height, d, name)
}

// generateFrustum is the shared body for cylinders and cones: two rings
// (either may collapse to an apex), an outward-wound side wall and caps.
func generateFrustum(r0, r1, height float32, d Deflection, name string) (*Mesh, error) {
	rmax := r0
	if r1 > rmax {
		rmax = r1
	}
	n := SegmentCount(rmax, d)

	ring := func(r, z float32) []math.Vec3 {
		pts := make([]math.Vec3, n)
		for i := uint32(0); i < n; i++ {
			a := math.K_PI_2 * float32(i) / float32(n)
			pts[i] = math.NewVec3(r*math.Cos(a), r*math.Sin(a), z)
		}
		return pts
	}

	m := NewMesh(name)
	bottom := ring(r0, 0)
	top := ring(r1, height)
	bottomCenter := math.NewVec3(0, 0, 0)
	topCenter := math.NewVec3(0, 0, height)

	for i := uint32(0); i < n; i++ {
		j := (i + 1) % n

		// Side wall. Collapsed rings contribute a single apex triangle.
		switch {
		case r0 == 0:
			m.AddTriangle(bottomCenter, top[j], top[i])
		case r1 == 0:
			m.AddTriangle(bottom[i], bottom[j], topCenter)
		default:
			m.AddTriangle(bottom[i], bottom[j], top[j])
			m.AddTriangle(bottom[i], top[j], top[i])
		}

		// Caps, facing -z and +z.
		if r0 > 0 {
			m.AddTriangle(bottomCenter, bottom[j], bottom[i])
		}
		if r1 > 0 {
			m.AddTriangle(topCenter, top[i], top[j])
		}
	}

	return m, nil
}

// GenerateSphereMesh creates a closed lat/long sphere centered on the
// origin.
func GenerateSphereMesh(radius float32, d Deflection, name string) (*Mesh, error) {
	if radius <= 0 {
		return nil, fmt.Errorf("sphere %s must have a positive radius, got %f", name, radius)
	}

	slices := SegmentCount(radius, d)
	stacks := slices / 2
	if stacks < 2 {
		stacks = 2
	}

	point := func(stack, slice uint32) math.Vec3 {
		// Pole rows must be bit-exact across slices or the mesh leaks.
		if stack == 0 {
			return math.NewVec3(0, 0, radius)
		}
		if stack == stacks {
			return math.NewVec3(0, 0, -radius)
		}
		phi := math.K_PI * float32(stack) / float32(stacks)
		theta := math.K_PI_2 * float32(slice%slices) / float32(slices)
		return math.NewVec3(
			radius*math.Sin(phi)*math.Cos(theta),
			radius*math.Sin(phi)*math.Sin(theta),
			radius*math.Cos(phi))
	}

	m := NewMesh(name)
	for st := uint32(0); st < stacks; st++ {
		for sl := uint32(0); sl < slices; sl++ {
			a := point(st, sl)
			b := point(st+1, sl)
			c := point(st+1, sl+1)
			dd := point(st, sl+1)

			// Pole rows emit one triangle per slice, not two: at the
			// top row a==dd, at the bottom row b==c.
			if st != stacks-1 {
				m.AddTriangle(a, b, c)
			}
			if st != 0 {
				m.AddTriangle(a, c, dd)
			}
		}
	}

	return m, nil
}

// GenerateTorusMesh creates a closed torus around the z axis:
// majorRadius from the axis to the tube center, minorRadius of the tube.
func GenerateTorusMesh(majorRadius, minorRadius float32, d Deflection, name string) (*Mesh, error) {
	if majorRadius <= 0 || minorRadius <= 0 {
		return nil, fmt.Errorf("torus %s must have positive radii, got R=%f r=%f", name, majorRadius, minorRadius)
	}
	if minorRadius >= majorRadius {
		return nil, fmt.Errorf("torus %s minor radius %f must be smaller than major radius %f", name, minorRadius, majorRadius)
	}

	nu := SegmentCount(majorRadius+minorRadius, d)
	nv := SegmentCount(minorRadius, d)

	point := func(iu, iv uint32) math.Vec3 {
		u := math.K_PI_2 * float32(iu%nu) / float32(nu)
		v := math.K_PI_2 * float32(iv%nv) / float32(nv)
		w := majorRadius + minorRadius*math.Cos(v)
		return math.NewVec3(
			w*math.Cos(u),
			w*math.Sin(u),
			minorRadius*math.Sin(v))
	}

	m := NewMesh(name)
	for iu := uint32(0); iu < nu; iu++ {
		for iv := uint32(0); iv < nv; iv++ {
			a := point(iu, iv)
			b := point(iu+1, iv)
			c := point(iu+1, iv+1)
			dd := point(iu, iv+1)
			m.AddTriangle(a, b, c)
			m.AddTriangle(a, c, dd)
		}
	}

	return m, nil
}
