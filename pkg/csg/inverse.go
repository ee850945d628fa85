package csg

import (
	"github.com/df07/go-csg-raytracer/pkg/core"
	"github.com/pkg/errors"
)

// Inverse presents a scene object with inside and outside swapped. It is a view:
// the wrapped object is shared, never copied or modified. Hits are reported on
// an inverted view of the surface that was hit, so the outward normal points
// the other way.
type Inverse struct {
	core.ParentLink

	object core.SceneObject
}

// NewInverse creates an inverted view of o and records itself as o's parent
func NewInverse(o core.SceneObject) (*Inverse, error) {
	if o == nil {
		return nil, errors.Wrap(ErrNilMember, "inverse")
	}
	inv := invert(o)
	core.Attach(o, inv)
	return inv, nil
}

// invert creates the view without touching o
func invert(o core.SceneObject) *Inverse {
	return &Inverse{object: o}
}

// Unwrap returns the viewed object
func (inv *Inverse) Unwrap() core.SceneObject {
	return inv.object
}

// Children returns the viewed object
func (inv *Inverse) Children() []core.SceneObject {
	return []core.SceneObject{inv.object}
}

// Name returns "inverse(...)" around the name of the viewed object
func (inv *Inverse) Name() string {
	return "inverse(" + describe(inv.object) + ")"
}

// retag moves a hit on the viewed object onto an inverted view of the surface
// that was hit
func (inv *Inverse) retag(hit core.RayIntersection) core.RayIntersection {
	if !hit.Exists() {
		return hit
	}
	if hit.Object == inv.object {
		hit.Object = inv
		return hit
	}
	if view, ok := hit.Object.(*Inverse); ok {
		// inverting an inverted surface restores it
		hit.Object = view.object
		return hit
	}
	hit.Object = invert(hit.Object)
	return hit
}

func (inv *Inverse) ClosestIntersection(ray core.Ray) core.RayIntersection {
	return inv.retag(inv.object.ClosestIntersection(ray))
}

func (inv *Inverse) ClosestIntersectionAvoidingOrigin(ray core.Ray, avoid core.SceneObject) core.RayIntersection {
	return inv.retag(inv.object.ClosestIntersectionAvoidingOrigin(ray, avoid))
}

func (inv *Inverse) ClosestShadowIntersection(ray core.Ray) core.RayIntersection {
	return inv.retag(inv.object.ClosestShadowIntersection(ray))
}

func (inv *Inverse) ClosestShadowIntersectionAvoidingOrigin(ray core.Ray, avoid core.SceneObject) core.RayIntersection {
	return inv.retag(inv.object.ClosestShadowIntersectionAvoidingOrigin(ray, avoid))
}

func (inv *Inverse) NextIntersection(ray core.Ray, avoid core.SceneObject, previous core.RayIntersection) core.RayIntersection {
	return inv.retag(inv.object.NextIntersection(ray, avoid, previous))
}

// InsideObject is the negation of the viewed object's test
func (inv *Inverse) InsideObject(p core.Vec3) bool {
	return !inv.object.InsideObject(p)
}

// OutwardNormal reverses the viewed surface's normal. Views of objects without a
// surface of their own report the zero vector.
func (inv *Inverse) OutwardNormal(p core.Vec3) core.Vec3 {
	if s, ok := inv.object.(core.Surface); ok {
		return s.OutwardNormal(p).Negate()
	}
	return core.Vec3{}
}

// ShadowThrowing follows the viewed object
func (inv *Inverse) ShadowThrowing() bool {
	if c, ok := inv.object.(core.ShadowCaster); ok {
		return c.ShadowThrowing()
	}
	return true
}

// Transform inverts the transformed object
func (inv *Inverse) Transform(t core.Transformation) core.SceneObject {
	o := inv.object.Transform(t)
	out := invert(o)
	core.Attach(o, out)
	return out
}

// Primitives returns the primitives of the viewed object
func (inv *Inverse) Primitives() []core.Primitive {
	return inv.object.Primitives()
}
