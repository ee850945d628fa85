package core

import "sync/atomic"

// Parented is implemented by scene objects that remember the composite they were
// last attached to
type Parented interface {
	Parent() SceneObject
	AttachTo(parent SceneObject)
}

// ParentLink is an embeddable, non-owning back-reference to a parent composite.
// Ownership flows from parent to child only; the link is for context lookups
// such as building a path from the root and never takes part in queries.
type ParentLink struct {
	parent atomic.Pointer[SceneObject]
}

// Parent returns the composite this object was last attached to, or nil
func (l *ParentLink) Parent() SceneObject {
	if p := l.parent.Load(); p != nil {
		return *p
	}
	return nil
}

// AttachTo records parent as the owning composite
func (l *ParentLink) AttachTo(parent SceneObject) {
	if parent == nil {
		l.parent.Store(nil)
		return
	}
	l.parent.Store(&parent)
}

// Attach records parent on child if child keeps a parent link
func Attach(child, parent SceneObject) {
	if p, ok := child.(Parented); ok {
		p.AttachTo(parent)
	}
}

// Detach clears the parent link of child if it points at parent
func Detach(child, parent SceneObject) {
	if p, ok := child.(Parented); ok && p.Parent() == parent {
		p.AttachTo(nil)
	}
}
