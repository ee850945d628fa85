package geometry

import (
	"math"

	"github.com/df07/go-csg-raytracer/pkg/core"
	"github.com/pkg/errors"
)

// Sphere represents a solid sphere
type Sphere struct {
	attributes
	core.ParentLink

	Center core.Vec3
	Radius float64
}

// NewSphere creates a new sphere
func NewSphere(center core.Vec3, radius float64, opts ...Option) *Sphere {
	return &Sphere{
		attributes: newAttributes("sphere", opts),
		Center:     center,
		Radius:     radius,
	}
}

// Validate checks that the sphere encloses a volume
func (s *Sphere) Validate() error {
	if !(s.Radius > 0) {
		return errors.Wrapf(ErrInvalidPrimitive, "sphere %q: radius %g must be positive", s.name, s.Radius)
	}
	return nil
}

func (s *Sphere) crossings(ray core.Ray) []float64 {
	// Vector from sphere center to ray origin
	oc := ray.Origin.Subtract(s.Center)

	// Quadratic equation coefficients: at² + 2bt + c = 0
	a := ray.Direction.Dot(ray.Direction)
	halfB := oc.Dot(ray.Direction)
	c := oc.Dot(oc) - s.Radius*s.Radius

	discriminant := halfB*halfB - a*c
	if discriminant < 0 || a == 0 {
		return nil
	}

	sqrtD := math.Sqrt(discriminant)
	return []float64{(-halfB - sqrtD) / a, (-halfB + sqrtD) / a}
}

// ClosestIntersection returns the nearest surface crossing in front of the ray origin
func (s *Sphere) ClosestIntersection(ray core.Ray) core.RayIntersection {
	return closestIntersection(s, ray, nil)
}

func (s *Sphere) ClosestIntersectionAvoidingOrigin(ray core.Ray, avoid core.SceneObject) core.RayIntersection {
	return closestIntersection(s, ray, avoid)
}

func (s *Sphere) ClosestShadowIntersection(ray core.Ray) core.RayIntersection {
	return closestShadowIntersection(s, ray, nil)
}

func (s *Sphere) ClosestShadowIntersectionAvoidingOrigin(ray core.Ray, avoid core.SceneObject) core.RayIntersection {
	return closestShadowIntersection(s, ray, avoid)
}

func (s *Sphere) NextIntersection(ray core.Ray, avoid core.SceneObject, previous core.RayIntersection) core.RayIntersection {
	return nextIntersection(s, ray, avoid, previous)
}

// InsideObject reports whether p is strictly inside the sphere
func (s *Sphere) InsideObject(p core.Vec3) bool {
	return p.DistanceSquared(s.Center) < s.Radius*s.Radius
}

// OutwardNormal returns the unit normal pointing away from the center
func (s *Sphere) OutwardNormal(p core.Vec3) core.Vec3 {
	return p.Subtract(s.Center).Normalize()
}

// Transform maps the center and scales the radius. Only similarity
// transformations keep a sphere a sphere; others are approximated by their
// mean scale factor.
func (s *Sphere) Transform(t core.Transformation) core.SceneObject {
	return &Sphere{
		attributes: s.attributes,
		Center:     t.Point(s.Center),
		Radius:     s.Radius * t.ScaleFactor(),
	}
}

func (s *Sphere) Primitives() []core.Primitive {
	return []core.Primitive{s}
}

// BoundingBox returns the axis-aligned bounding box for this sphere
func (s *Sphere) BoundingBox() core.AABB {
	radius := core.NewVec3(s.Radius, s.Radius, s.Radius)
	return core.NewAABB(
		s.Center.Subtract(radius),
		s.Center.Add(radius),
	)
}
