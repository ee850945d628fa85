package geometry

import (
	"math"

	"github.com/df07/go-csg-raytracer/pkg/core"
	"github.com/pkg/errors"
)

// Plane is the half-space behind an infinite plane: points on the opposite side
// of the normal are inside
type Plane struct {
	attributes
	core.ParentLink

	Point  core.Vec3 // A point on the plane
	Normal core.Vec3 // Outward normal (normalized)
}

// NewPlane creates a new half-space
func NewPlane(point, normal core.Vec3, opts ...Option) *Plane {
	return &Plane{
		attributes: newAttributes("plane", opts),
		Point:      point,
		Normal:     normal.Normalize(), // Ensure normal is normalized
	}
}

// Validate checks that the plane has a direction
func (p *Plane) Validate() error {
	if p.Normal.LengthSquared() == 0 {
		return errors.Wrapf(ErrInvalidPrimitive, "plane %q: zero normal", p.name)
	}
	return nil
}

func (p *Plane) crossings(ray core.Ray) []float64 {
	denominator := ray.Direction.Dot(p.Normal)

	// Ray is parallel to the plane
	if math.Abs(denominator) < 1e-12 {
		return nil
	}

	// t = (point_on_plane - ray_origin) · normal / (ray_direction · normal)
	return []float64{p.Point.Subtract(ray.Origin).Dot(p.Normal) / denominator}
}

func (p *Plane) ClosestIntersection(ray core.Ray) core.RayIntersection {
	return closestIntersection(p, ray, nil)
}

func (p *Plane) ClosestIntersectionAvoidingOrigin(ray core.Ray, avoid core.SceneObject) core.RayIntersection {
	return closestIntersection(p, ray, avoid)
}

func (p *Plane) ClosestShadowIntersection(ray core.Ray) core.RayIntersection {
	return closestShadowIntersection(p, ray, nil)
}

func (p *Plane) ClosestShadowIntersectionAvoidingOrigin(ray core.Ray, avoid core.SceneObject) core.RayIntersection {
	return closestShadowIntersection(p, ray, avoid)
}

func (p *Plane) NextIntersection(ray core.Ray, avoid core.SceneObject, previous core.RayIntersection) core.RayIntersection {
	return nextIntersection(p, ray, avoid, previous)
}

func (p *Plane) InsideObject(q core.Vec3) bool {
	return q.Subtract(p.Point).Dot(p.Normal) < 0
}

func (p *Plane) OutwardNormal(core.Vec3) core.Vec3 {
	return p.Normal
}

func (p *Plane) Transform(t core.Transformation) core.SceneObject {
	return &Plane{
		attributes: p.attributes,
		Point:      t.Point(p.Point),
		Normal:     t.Normal(p.Normal),
	}
}

func (p *Plane) Primitives() []core.Primitive {
	return []core.Primitive{p}
}
