package csg

import (
	"github.com/df07/go-csg-raytracer/pkg/core"
	"github.com/pkg/errors"
)

// Role is the part a member plays in an Intersection
type Role int

const (
	// Positive members must contain every boundary point; their surface is visible
	Positive Role = iota
	// Negative members must not contain any boundary point; their surface is
	// visible from the inside
	Negative
	// InvisiblePositive members constrain like Positive ones but are never hit
	InvisiblePositive
	// InvisibleNegative members constrain like Negative ones but are never hit
	InvisibleNegative
	// Clipped members are hit where the others allow but constrain nothing
	Clipped
)

var roleNames = [...]string{"positive", "negative", "invisible-positive", "invisible-negative", "clipped"}

func (r Role) String() string {
	if r < 0 || int(r) >= len(roleNames) {
		return "unknown"
	}
	return roleNames[r]
}

func (r Role) valid() bool { return r >= Positive && r <= Clipped }

// provides reports whether members with this role can produce hits
func (r Role) provides() bool { return r == Positive || r == Negative || r == Clipped }

func (r Role) positive() bool { return r == Positive || r == InvisiblePositive }

func (r Role) negative() bool { return r == Negative || r == InvisibleNegative }

// Members lists the members of a full intersection by role
type Members struct {
	Positive          []core.SceneObject
	Negative          []core.SceneObject
	InvisiblePositive []core.SceneObject
	InvisibleNegative []core.SceneObject
	Clipped           []core.SceneObject
}

type member struct {
	object core.SceneObject // as added
	query  core.SceneObject // object, or its inverted view for negative roles
	role   Role
}

// Intersection is the boolean AND of its members. A hit from one member counts
// when it lies inside every other positive member and outside every other
// negative member.
type Intersection struct {
	label
	core.ParentLink

	cfg     Config
	members []member
}

// NewIntersection creates the intersection of visible positive members
func NewIntersection(members ...core.SceneObject) (*Intersection, error) {
	return NewFullIntersection(Members{Positive: members})
}

// NewFullIntersection creates an intersection whose members play the given roles
func NewFullIntersection(m Members) (*Intersection, error) {
	x := &Intersection{label: label{name: "intersection"}, cfg: DefaultConfig()}
	groups := []struct {
		role    Role
		objects []core.SceneObject
	}{
		{Positive, m.Positive},
		{Negative, m.Negative},
		{InvisiblePositive, m.InvisiblePositive},
		{InvisibleNegative, m.InvisibleNegative},
		{Clipped, m.Clipped},
	}
	for _, g := range groups {
		for _, o := range g.objects {
			if err := x.Add(g.role, o); err != nil {
				return nil, err
			}
		}
	}
	if err := checkMembers(x.members); err != nil {
		return nil, err
	}
	return x, nil
}

// check rejects member sets that cannot describe a solid: without a positive
// or negative member nothing constrains the clipped ones, and with only
// invisible members nothing can be hit
func checkMembers(members []member) error {
	if len(members) == 0 {
		return errors.Wrap(ErrEmptyComposite, "intersection")
	}
	constrained, visible := false, false
	for _, m := range members {
		constrained = constrained || m.role.positive() || m.role.negative()
		visible = visible || m.role.provides()
	}
	if !constrained {
		return errors.Wrap(ErrEmptyComposite, "intersection: no positive or negative member")
	}
	if !visible {
		return errors.Wrap(ErrEmptyComposite, "intersection: every member is invisible")
	}
	return nil
}

// SetConfig replaces the candidate search configuration
func (x *Intersection) SetConfig(cfg Config) {
	x.cfg = cfg
}

// Add appends a member with the given role
func (x *Intersection) Add(role Role, o core.SceneObject) error {
	if !role.valid() {
		return errors.Errorf("%s: invalid role %d", x.name, int(role))
	}
	if o == nil {
		return errors.Wrapf(ErrNilMember, "%s: %s member %d", x.name, role, len(x.members))
	}
	x.members = append(x.members, newMember(o, role))
	core.Attach(o, x)
	return nil
}

func newMember(o core.SceneObject, role Role) member {
	m := member{object: o, query: o, role: role}
	if role.negative() {
		m.query = invert(o)
	}
	return m
}

// Members returns the members that play role, in the order they were added
func (x *Intersection) Members(role Role) []core.SceneObject {
	var objects []core.SceneObject
	for _, m := range x.members {
		if m.role == role {
			objects = append(objects, m.object)
		}
	}
	return objects
}

// RoleOf returns the role of o, if o is a member
func (x *Intersection) RoleOf(o core.SceneObject) (Role, bool) {
	for _, m := range x.members {
		if m.object == o {
			return m.role, true
		}
	}
	return 0, false
}

// Children returns every member regardless of role
func (x *Intersection) Children() []core.SceneObject {
	children := make([]core.SceneObject, len(x.members))
	for i, m := range x.members {
		children[i] = m.object
	}
	return children
}

// Remove removes the first occurrence of o. The last member cannot be removed.
func (x *Intersection) Remove(o core.SceneObject) bool {
	for i, m := range x.members {
		if m.object != o {
			continue
		}
		kept := append(append([]member(nil), x.members[:i]...), x.members[i+1:]...)
		if err := checkMembers(kept); err != nil {
			return false
		}
		x.members = kept
		core.Detach(o, x)
		return true
	}
	return false
}

// onBoundary applies the positive and negative constraints of every member
// except self to p
func (x *Intersection) onBoundary(self core.SceneObject, p core.Vec3) bool {
	for _, m := range x.members {
		if m.object == self {
			continue
		}
		switch {
		case m.role.positive():
			if !m.object.InsideObject(p) {
				return false
			}
		case m.role.negative():
			if m.object.InsideObject(p) {
				return false
			}
		}
	}
	return true
}

func (x *Intersection) closest(ray core.Ray, avoid core.SceneObject, include core.InclusionCriterion) core.RayIntersection {
	ray, avoid = avoidSelf(x, ray, avoid)

	best := core.NoIntersection
	for _, m := range x.members {
		if !m.role.provides() {
			continue
		}
		self := m.object
		hit := x.cfg.search(x, m.query, ray, avoid, best, func(candidate core.RayIntersection) bool {
			return include(candidate) && x.onBoundary(self, candidate.Position)
		})
		if hit.Closer(best, ray.Origin) {
			best = hit
		}
	}
	return best
}

func (x *Intersection) ClosestIntersection(ray core.Ray) core.RayIntersection {
	return x.closest(ray, nil, core.AcceptAll)
}

func (x *Intersection) ClosestIntersectionAvoidingOrigin(ray core.Ray, avoid core.SceneObject) core.RayIntersection {
	return x.closest(ray, avoid, core.AcceptAll)
}

func (x *Intersection) ClosestShadowIntersection(ray core.Ray) core.RayIntersection {
	return x.closest(ray, nil, core.ShadowThrowingOnly)
}

func (x *Intersection) ClosestShadowIntersectionAvoidingOrigin(ray core.Ray, avoid core.SceneObject) core.RayIntersection {
	return x.closest(ray, avoid, core.ShadowThrowingOnly)
}

// ClosestIntersectionWith runs the search with a caller supplied inclusion
// criterion
func (x *Intersection) ClosestIntersectionWith(ray core.Ray, avoid core.SceneObject, include core.InclusionCriterion) core.RayIntersection {
	return x.closest(ray, avoid, include)
}

func (x *Intersection) NextIntersection(ray core.Ray, avoid core.SceneObject, previous core.RayIntersection) core.RayIntersection {
	ray, avoid = continueAfter(ray, avoid, previous)
	return x.closest(ray, avoid, core.AcceptAll)
}

// InsideObject is true when every positive member contains p and no negative
// member does. Clipped members do not take part.
func (x *Intersection) InsideObject(p core.Vec3) bool {
	return x.onBoundary(nil, p)
}

func (x *Intersection) Transform(t core.Transformation) core.SceneObject {
	out := &Intersection{label: x.label, cfg: x.cfg}
	for _, m := range x.members {
		o := m.object.Transform(t)
		out.members = append(out.members, newMember(o, m.role))
		core.Attach(o, out)
	}
	return out
}

func (x *Intersection) Primitives() []core.Primitive {
	return flatten(x.Children())
}
