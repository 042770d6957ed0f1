package document

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/pelletier/go-toml/v2"
	"github.com/spaghettifunk/meshport/exporter/core"
	"github.com/spaghettifunk/meshport/exporter/math"
)

// PlacementDef and ObjectDef mirror the on-disk TOML shape of a scene
// object. They are also the programmatic way to assemble a document.
type PlacementDef struct {
	Position [3]float32 `toml:"position"`
	// Rotation is euler angles in degrees, applied x, then y, then z.
	Rotation [3]float32 `toml:"rotation"`
	Scale    [3]float32 `toml:"scale"`
}

type ObjectDef struct {
	Label      string        `toml:"label"`
	Type       string        `toml:"type"`
	Visible    *bool         `toml:"visible"`
	Parents    []string      `toml:"parents"`
	Placement  *PlacementDef `toml:"placement"`
	Dimensions Dimensions    `toml:"dimensions"`
}

type sceneFile struct {
	Name    string      `toml:"name"`
	Objects []ObjectDef `toml:"objects"`
}

// Load reads a TOML scene document from disk. The document name falls
// back to the file stem when the file does not carry one.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read document %s: %w", path, err)
	}

	var scene sceneFile
	if err := toml.Unmarshal(data, &scene); err != nil {
		return nil, fmt.Errorf("failed to parse document %s: %w", path, err)
	}

	name := scene.Name
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}

	doc, err := build(name, scene.Objects)
	if err != nil {
		return nil, fmt.Errorf("invalid document %s: %w", path, err)
	}
	doc.Path = path

	core.LogDebug("loaded document %s with %d objects", doc.Name, len(doc.Objects))
	return doc, nil
}

// New assembles a document from already-constructed scene objects.
// Mostly useful for tests and programmatic callers.
func New(name string, objects []ObjectDef) (*Document, error) {
	return build(name, objects)
}

func build(name string, objects []ObjectDef) (*Document, error) {
	doc := &Document{
		Name:    name,
		byLabel: make(map[string]*Object, len(objects)),
	}

	// First pass: materialize every object so parent links can resolve
	// forward references.
	for _, so := range objects {
		if so.Label == "" {
			return nil, fmt.Errorf("object without a label")
		}
		if _, exists := doc.byLabel[so.Label]; exists {
			return nil, fmt.Errorf("duplicate object label %q", so.Label)
		}

		t := ObjectType(so.Type)
		if !t.IsValid() {
			return nil, fmt.Errorf("object %q has unknown type %q", so.Label, so.Type)
		}

		visible := true
		if so.Visible != nil {
			visible = *so.Visible
		}

		obj := &Object{
			UID:        uuid.New(),
			Label:      so.Label,
			Type:       t,
			Visible:    visible,
			Transform:  placementTransform(so.Placement),
			Dimensions: so.Dimensions,
		}
		doc.Objects = append(doc.Objects, obj)
		doc.byLabel[so.Label] = obj
	}

	// Second pass: resolve parent links and chain transforms through the
	// first parent.
	for i, so := range objects {
		obj := doc.Objects[i]
		for _, parentLabel := range so.Parents {
			parent, ok := doc.byLabel[parentLabel]
			if !ok {
				return nil, fmt.Errorf("object %q references unknown parent %q", obj.Label, parentLabel)
			}
			if parent == obj {
				return nil, fmt.Errorf("object %q cannot be its own parent", obj.Label)
			}
			obj.Parents = append(obj.Parents, parent)
		}
		if len(obj.Parents) > 0 {
			obj.Transform.Parent = obj.Parents[0].Transform
		}
	}

	for _, obj := range doc.Objects {
		if hasParentCycle(obj, make(map[uuid.UUID]bool)) {
			return nil, fmt.Errorf("object %q is part of a parent cycle", obj.Label)
		}
	}

	return doc, nil
}

func placementTransform(p *PlacementDef) *math.Transform {
	if p == nil {
		return math.TransformCreate()
	}

	scale := math.NewVec3(p.Scale[0], p.Scale[1], p.Scale[2])
	if scale == math.NewVec3Zero() {
		scale = math.NewVec3One()
	}

	rotation := math.NewQuatFromEulerXYZ(
		math.DegToRad(p.Rotation[0]),
		math.DegToRad(p.Rotation[1]),
		math.DegToRad(p.Rotation[2]))

	return math.TransformFromPositionRotationScale(
		math.NewVec3(p.Position[0], p.Position[1], p.Position[2]),
		rotation,
		scale)
}

func hasParentCycle(o *Object, seen map[uuid.UUID]bool) bool {
	if seen[o.UID] {
		return true
	}
	seen[o.UID] = true
	for _, p := range o.Parents {
		if hasParentCycle(p, seen) {
			return true
		}
	}
	delete(seen, o.UID)
	return false
}
