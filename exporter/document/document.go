package document

import (
	"github.com/google/uuid"
	"github.com/spaghettifunk/meshport/exporter/math"
)

type ObjectType string

const (
	// Container types. A hidden container hides everything below it.
	TypeAssembly ObjectType = "assembly"
	TypeBody     ObjectType = "body"
	TypeGroup    ObjectType = "group"

	// Leaf solid types.
	TypeBox      ObjectType = "box"
	TypePlane    ObjectType = "plane"
	TypeCylinder ObjectType = "cylinder"
	TypeCone     ObjectType = "cone"
	TypeSphere   ObjectType = "sphere"
	TypeTorus    ObjectType = "torus"
)

func (t ObjectType) IsContainer() bool {
	switch t {
	case TypeAssembly, TypeBody, TypeGroup:
		return true
	}
	return false
}

func (t ObjectType) IsSolid() bool {
	switch t {
	case TypeBox, TypePlane, TypeCylinder, TypeCone, TypeSphere, TypeTorus:
		return true
	}
	return false
}

func (t ObjectType) IsValid() bool {
	return t.IsContainer() || t.IsSolid()
}

// Dimensions holds the shape parameters of a leaf solid. Which fields
// matter depends on the object type; the rest stay zero.
type Dimensions struct {
	Width  float32 `toml:"width,omitempty"`
	Height float32 `toml:"height,omitempty"`
	Depth  float32 `toml:"depth,omitempty"`

	Radius    float32 `toml:"radius,omitempty"`
	TopRadius float32 `toml:"top_radius,omitempty"`

	MajorRadius float32 `toml:"major_radius,omitempty"`
	MinorRadius float32 `toml:"minor_radius,omitempty"`
}

// Object is one node of the document graph. Containers carry no shape;
// leaf solids carry dimensions. An object can sit in more than one
// container, so Parents is a list.
type Object struct {
	// UID is a runtime identity assigned at load time, independent of
	// the user-facing label.
	UID        uuid.UUID
	Label      string
	Type       ObjectType
	Visible    bool
	Parents    []*Object
	Transform  *math.Transform
	Dimensions Dimensions
}

// WorldMatrix resolves the object's fully-chained placement.
func (o *Object) WorldMatrix() math.Mat4 {
	return o.Transform.GetWorld()
}

// Document is an in-memory scene: a flat object list with parent links.
type Document struct {
	Name    string
	Path    string
	Objects []*Object

	byLabel map[string]*Object
}

// ObjectByLabel returns the object with the given label, or nil.
func (d *Document) ObjectByLabel(label string) *Object {
	return d.byLabel[label]
}

// DisplayName returns the document name, falling back to "Unnamed" for
// documents that were never named or saved.
func (d *Document) DisplayName() string {
	if d.Name != "" {
		return d.Name
	}
	return "Unnamed"
}
