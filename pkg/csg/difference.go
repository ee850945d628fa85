package csg

import (
	"github.com/df07/go-csg-raytracer/pkg/core"
	"github.com/pkg/errors"
)

// Difference is its plus member with every minus member carved out. Surfaces of
// the minus members become visible from the inside, through inverted views.
type Difference struct {
	label
	core.ParentLink

	cfg    Config
	plus   core.SceneObject
	minus  []core.SceneObject
	carved []*Inverse // inverted views of minus, same order
}

// NewDifference creates plus minus all of minus
func NewDifference(plus core.SceneObject, minus ...core.SceneObject) (*Difference, error) {
	if plus == nil {
		return nil, errors.Wrap(ErrMissingPlus, "difference")
	}
	if len(minus) == 0 {
		return nil, errors.Wrap(ErrMissingMinus, "difference")
	}
	for i, m := range minus {
		if m == nil {
			return nil, errors.Wrapf(ErrNilMember, "difference: minus member %d", i)
		}
	}
	return newDifference(label{name: "difference"}, DefaultConfig(), plus, minus), nil
}

func newDifference(l label, cfg Config, plus core.SceneObject, minus []core.SceneObject) *Difference {
	d := &Difference{
		label: l,
		cfg:   cfg,
		plus:  plus,
		minus: append([]core.SceneObject(nil), minus...),
	}
	core.Attach(plus, d)
	for _, m := range d.minus {
		d.carved = append(d.carved, invert(m))
		core.Attach(m, d)
	}
	return d
}

// SetConfig replaces the candidate search configuration
func (d *Difference) SetConfig(cfg Config) {
	d.cfg = cfg
}

// Plus returns the object carved from
func (d *Difference) Plus() core.SceneObject {
	return d.plus
}

// Minus returns the carved out objects
func (d *Difference) Minus() []core.SceneObject {
	return append([]core.SceneObject(nil), d.minus...)
}

// Children returns the plus member followed by the minus members
func (d *Difference) Children() []core.SceneObject {
	return append([]core.SceneObject{d.plus}, d.minus...)
}

// insideMinus reports whether p is inside a minus member other than self
func (d *Difference) insideMinus(self core.SceneObject, p core.Vec3) bool {
	for _, m := range d.minus {
		if m != self && m.InsideObject(p) {
			return true
		}
	}
	return false
}

func (d *Difference) closest(ray core.Ray, avoid core.SceneObject, include core.InclusionCriterion) core.RayIntersection {
	ray, avoid = avoidSelf(d, ray, avoid)

	// plus hits count outside every minus member
	best := d.cfg.search(d, d.plus, ray, avoid, core.NoIntersection, func(candidate core.RayIntersection) bool {
		return include(candidate) && !d.insideMinus(nil, candidate.Position)
	})

	// minus hits count inside plus and outside the other minus members
	for k, view := range d.carved {
		self := d.minus[k]
		hit := d.cfg.search(d, view, ray, avoid, best, func(candidate core.RayIntersection) bool {
			return include(candidate) && d.plus.InsideObject(candidate.Position) && !d.insideMinus(self, candidate.Position)
		})
		if hit.Closer(best, ray.Origin) {
			best = hit
		}
	}
	return best
}

func (d *Difference) ClosestIntersection(ray core.Ray) core.RayIntersection {
	return d.closest(ray, nil, core.AcceptAll)
}

func (d *Difference) ClosestIntersectionAvoidingOrigin(ray core.Ray, avoid core.SceneObject) core.RayIntersection {
	return d.closest(ray, avoid, core.AcceptAll)
}

func (d *Difference) ClosestShadowIntersection(ray core.Ray) core.RayIntersection {
	return d.closest(ray, nil, core.ShadowThrowingOnly)
}

func (d *Difference) ClosestShadowIntersectionAvoidingOrigin(ray core.Ray, avoid core.SceneObject) core.RayIntersection {
	return d.closest(ray, avoid, core.ShadowThrowingOnly)
}

func (d *Difference) NextIntersection(ray core.Ray, avoid core.SceneObject, previous core.RayIntersection) core.RayIntersection {
	ray, avoid = continueAfter(ray, avoid, previous)
	return d.closest(ray, avoid, core.AcceptAll)
}

// InsideObject is plus AND NOT any minus
func (d *Difference) InsideObject(p core.Vec3) bool {
	return d.plus.InsideObject(p) && !d.insideMinus(nil, p)
}

func (d *Difference) Transform(t core.Transformation) core.SceneObject {
	minus := make([]core.SceneObject, len(d.minus))
	for i, m := range d.minus {
		minus[i] = m.Transform(t)
	}
	return newDifference(d.label, d.cfg, d.plus.Transform(t), minus)
}

func (d *Difference) Primitives() []core.Primitive {
	return flatten(d.Children())
}
