package document

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func labels(objs []*Object) []string {
	out := make([]string, 0, len(objs))
	for _, o := range objs {
		out = append(out, o.Label)
	}
	return out
}

func box(label string, visible bool, parents ...string) ObjectDef {
	return ObjectDef{
		Label:      label,
		Type:       "box",
		Visible:    vis(visible),
		Parents:    parents,
		Dimensions: Dimensions{Width: 1, Height: 1, Depth: 1},
	}
}

func container(label, typ string, visible bool, parents ...string) ObjectDef {
	return ObjectDef{
		Label:   label,
		Type:    typ,
		Visible: vis(visible),
		Parents: parents,
	}
}

func TestVisibleObjectsOwnFlag(t *testing.T) {
	doc, err := New("d", []ObjectDef{
		box("Shown", true),
		box("Hidden", false),
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"Shown"}, labels(doc.VisibleObjects()))
}

func TestHiddenContainerHidesChildren(t *testing.T) {
	doc, err := New("d", []ObjectDef{
		container("Asm", "assembly", false),
		box("Child", true, "Asm"),
	})
	require.NoError(t, err)

	assert.Empty(t, doc.VisibleObjects())
}

func TestHiddenContainerHidesThroughNestedContainers(t *testing.T) {
	doc, err := New("d", []ObjectDef{
		container("Root", "assembly", false),
		container("Sub", "body", true, "Root"),
		container("SubSub", "group", true, "Sub"),
		box("Leaf", true, "SubSub"),
	})
	require.NoError(t, err)

	assert.Empty(t, doc.VisibleObjects())
}

func TestNonContainerParentDoesNotPropagate(t *testing.T) {
	// A solid can be the parent of another solid (an attached feature).
	// Its own visibility does not hide the child.
	doc, err := New("d", []ObjectDef{
		box("Base", false),
		box("Boss", true, "Base"),
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"Boss"}, labels(doc.VisibleObjects()))
}

func TestWalkStopsAtNonContainerParent(t *testing.T) {
	// A hidden assembly above a non-container parent cannot hide the
	// leaf: the ancestor walk proceeds through container types only.
	doc, err := New("d", []ObjectDef{
		container("Asm", "assembly", false),
		box("Base", true, "Asm"),
		box("Boss", true, "Base"),
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"Boss"}, labels(doc.VisibleObjects()))
}

func TestAnyHiddenParentPathHides(t *testing.T) {
	// Multiple parents: one visible group and one hidden group. The
	// hidden path wins.
	doc, err := New("d", []ObjectDef{
		container("GroupA", "group", true),
		container("GroupB", "group", false),
		box("Shared", true, "GroupA", "GroupB"),
	})
	require.NoError(t, err)

	assert.Empty(t, doc.VisibleObjects())
}

func TestVisibleContainersDoNotHide(t *testing.T) {
	doc, err := New("d", []ObjectDef{
		container("Asm", "assembly", true),
		container("Body", "body", true, "Asm"),
		box("Leaf", true, "Body"),
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"Leaf"}, labels(doc.VisibleObjects()))
}

func TestContainersAreNeverExported(t *testing.T) {
	doc, err := New("d", []ObjectDef{
		container("Asm", "assembly", true),
		box("Leaf", true, "Asm"),
	})
	require.NoError(t, err)

	got := labels(doc.VisibleObjects())
	assert.NotContains(t, got, "Asm")
	assert.Equal(t, []string{"Leaf"}, got)
}

func TestVisibleObjectsDocumentOrder(t *testing.T) {
	doc, err := New("d", []ObjectDef{
		box("C", true),
		box("A", true),
		box("B", true),
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"C", "A", "B"}, labels(doc.VisibleObjects()))
}
