package csg

import (
	"github.com/df07/go-csg-raytracer/pkg/core"
	"github.com/pkg/errors"
)

// label is the display name carried by every composite
type label struct {
	name string
}

// Name returns the composite's display name
func (l *label) Name() string { return l.name }

// SetName changes the composite's display name
func (l *label) SetName(name string) { l.name = name }

// group is an ordered list of children with a visibility flag per child. It is
// shared by Container and Union, which differ only in how they search it.
type group struct {
	owner    core.SceneObject
	children []core.SceneObject
	visible  []bool
}

func (g *group) add(child core.SceneObject, visible bool) error {
	if child == nil {
		return errors.Wrapf(ErrNilMember, "%s: child %d", describe(g.owner), len(g.children))
	}
	g.children = append(g.children, child)
	g.visible = append(g.visible, visible)
	core.Attach(child, g.owner)
	return nil
}

// Add appends a visible child
func (g *group) Add(child core.SceneObject) error {
	return g.add(child, true)
}

// AddInvisible appends a child that takes part in inside tests but is never
// returned by intersection queries
func (g *group) AddInvisible(child core.SceneObject) error {
	return g.add(child, false)
}

// Len returns the number of children
func (g *group) Len() int {
	return len(g.children)
}

// Visible reports whether child i is visible
func (g *group) Visible(i int) bool {
	return g.visible[i]
}

// SetVisible changes the visibility of child i
func (g *group) SetVisible(i int, visible bool) {
	g.visible[i] = visible
}

// Children returns a copy of the child list
func (g *group) Children() []core.SceneObject {
	return append([]core.SceneObject(nil), g.children...)
}

// Remove removes the first occurrence of child and reports whether it was found
func (g *group) Remove(child core.SceneObject) bool {
	for i, c := range g.children {
		if c == child {
			g.children = append(g.children[:i], g.children[i+1:]...)
			g.visible = append(g.visible[:i], g.visible[i+1:]...)
			core.Detach(child, g.owner)
			return true
		}
	}
	return false
}

// InsideObject is true if any child, visible or not, contains p
func (g *group) InsideObject(p core.Vec3) bool {
	return insideAny(g.children, p)
}

func (g *group) Primitives() []core.Primitive {
	return flatten(g.children)
}

// fill adds the transformed children of src to g, keeping visibility
func (g *group) fill(src *group, t core.Transformation) {
	for i, child := range src.children {
		// children are non-nil, add cannot fail
		_ = g.add(child.Transform(t), src.visible[i])
	}
}
