package document

import (
	"github.com/google/uuid"
)

// VisibleObjects returns, in document order, the leaf solids that are
// effectively visible: the object's own flag is set and no container
// ancestor hides it.
func (d *Document) VisibleObjects() []*Object {
	var out []*Object
	for _, o := range d.Objects {
		if !o.Type.IsSolid() {
			continue
		}
		if !o.Visible {
			continue
		}
		if hiddenByAncestor(o, make(map[uuid.UUID]bool)) {
			continue
		}
		out = append(out, o)
	}
	return out
}

// hiddenByAncestor walks the parent graph depth-first. Only container
// parents participate: a non-container parent's visibility does not
// propagate, and the walk does not continue above it. The visited set
// guards against malformed graphs.
func hiddenByAncestor(o *Object, visited map[uuid.UUID]bool) bool {
	for _, p := range o.Parents {
		if !p.Type.IsContainer() {
			continue
		}
		if visited[p.UID] {
			continue
		}
		visited[p.UID] = true

		if !p.Visible {
			return true
		}
		if hiddenByAncestor(p, visited) {
			return true
		}
	}
	return false
}
