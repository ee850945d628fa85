package csg

import (
	"github.com/df07/go-csg-raytracer/pkg/core"
)

// Union is the boolean OR of its children. Only the outer boundary is visible: a
// hit on one child is rejected while it lies inside another visible child.
type Union struct {
	label
	group
	core.ParentLink

	cfg Config
}

// NewUnion creates the union of the given visible children
func NewUnion(children ...core.SceneObject) (*Union, error) {
	u := &Union{label: label{name: "union"}, cfg: DefaultConfig()}
	u.owner = u
	for _, child := range children {
		if err := u.Add(child); err != nil {
			return nil, err
		}
	}
	return u, nil
}

// SetConfig replaces the candidate search configuration
func (u *Union) SetConfig(cfg Config) {
	u.cfg = cfg
}

// insideOther reports whether p is inside a visible child other than child i.
// The child is skipped by identity: p lies on its surface, where its own inside
// test is undecided.
func (u *Union) insideOther(i int, p core.Vec3) bool {
	self := u.children[i]
	for j, other := range u.children {
		if other != self && u.visible[j] && other.InsideObject(p) {
			return true
		}
	}
	return false
}

func (u *Union) closest(ray core.Ray, avoid core.SceneObject, include core.InclusionCriterion) core.RayIntersection {
	ray, avoid = avoidSelf(u, ray, avoid)

	best := core.NoIntersection
	for i, child := range u.children {
		if !u.visible[i] {
			continue
		}
		hit := u.cfg.search(u, child, ray, avoid, best, func(candidate core.RayIntersection) bool {
			return include(candidate) && !u.insideOther(i, candidate.Position)
		})
		if hit.Closer(best, ray.Origin) {
			best = hit
		}
	}
	return best
}

func (u *Union) ClosestIntersection(ray core.Ray) core.RayIntersection {
	return u.closest(ray, nil, core.AcceptAll)
}

func (u *Union) ClosestIntersectionAvoidingOrigin(ray core.Ray, avoid core.SceneObject) core.RayIntersection {
	return u.closest(ray, avoid, core.AcceptAll)
}

func (u *Union) ClosestShadowIntersection(ray core.Ray) core.RayIntersection {
	return u.closest(ray, nil, core.ShadowThrowingOnly)
}

func (u *Union) ClosestShadowIntersectionAvoidingOrigin(ray core.Ray, avoid core.SceneObject) core.RayIntersection {
	return u.closest(ray, avoid, core.ShadowThrowingOnly)
}

func (u *Union) NextIntersection(ray core.Ray, avoid core.SceneObject, previous core.RayIntersection) core.RayIntersection {
	ray, avoid = continueAfter(ray, avoid, previous)
	return u.closest(ray, avoid, core.AcceptAll)
}

func (u *Union) Transform(t core.Transformation) core.SceneObject {
	out := &Union{label: u.label, cfg: u.cfg}
	out.owner = out
	out.fill(&u.group, t)
	return out
}
