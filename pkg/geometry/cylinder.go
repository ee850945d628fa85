package geometry

import (
	"math"

	"github.com/df07/go-csg-raytracer/pkg/core"
	"github.com/pkg/errors"
)

// Cylinder represents a solid cylinder closed by flat caps at both ends
type Cylinder struct {
	attributes
	core.ParentLink

	BaseCenter core.Vec3
	TopCenter  core.Vec3
	Radius     float64

	// Cached derived values
	axis   core.Vec3 // Unit vector from base to top
	height float64   // Distance between base and top
}

// NewCylinder creates a new capped cylinder
func NewCylinder(baseCenter, topCenter core.Vec3, radius float64, opts ...Option) *Cylinder {
	// Calculate derived values
	axisVector := topCenter.Subtract(baseCenter)

	return &Cylinder{
		attributes: newAttributes("cylinder", opts),
		BaseCenter: baseCenter,
		TopCenter:  topCenter,
		Radius:     radius,
		axis:       axisVector.Normalize(),
		height:     axisVector.Length(),
	}
}

// Validate checks that the cylinder has volume
func (c *Cylinder) Validate() error {
	if !(c.Radius > 0) {
		return errors.Wrapf(ErrInvalidPrimitive, "cylinder %q: radius %g must be positive", c.name, c.Radius)
	}
	if !(c.height > 0) {
		return errors.Wrapf(ErrInvalidPrimitive, "cylinder %q: base and top coincide", c.name)
	}
	return nil
}

// crossings intersects the infinite cylinder's interval with the slab between
// the caps
func (c *Cylinder) crossings(ray core.Ray) []float64 {
	// Vector from base center to ray origin
	delta := ray.Origin.Subtract(c.BaseCenter)

	DV := ray.Direction.Dot(c.axis) // D · V̂
	deltaV := delta.Dot(c.axis)     // Δ · V̂

	// Side: a = |D|² - (D·V̂)², b = 2[Δ·D - (Δ·V̂)(D·V̂)], cc = |Δ|² - (Δ·V̂)² - r²
	a := ray.Direction.LengthSquared() - DV*DV
	b := 2.0 * (delta.Dot(ray.Direction) - deltaV*DV)
	cc := delta.LengthSquared() - deltaV*deltaV - c.Radius*c.Radius

	sideNear, sideFar := math.Inf(-1), math.Inf(1)
	if math.Abs(a) < 1e-12 {
		// Ray is parallel to the axis: either always or never within the radius
		if cc >= 0 {
			return nil
		}
	} else {
		discriminant := b*b - 4*a*cc
		if discriminant < 0 {
			return nil
		}
		sqrtD := math.Sqrt(discriminant)
		sideNear = (-b - sqrtD) / (2 * a)
		sideFar = (-b + sqrtD) / (2 * a)
	}

	capNear, capFar := math.Inf(-1), math.Inf(1)
	if math.Abs(DV) < 1e-12 {
		// Ray is perpendicular to the axis: either between the caps or not
		if deltaV < 0 || deltaV > c.height {
			return nil
		}
	} else {
		capNear = -deltaV / DV
		capFar = (c.height - deltaV) / DV
		if capNear > capFar {
			capNear, capFar = capFar, capNear
		}
	}

	tNear := math.Max(sideNear, capNear)
	tFar := math.Min(sideFar, capFar)
	if tNear > tFar {
		return nil
	}
	return []float64{tNear, tFar}
}

func (c *Cylinder) ClosestIntersection(ray core.Ray) core.RayIntersection {
	return closestIntersection(c, ray, nil)
}

func (c *Cylinder) ClosestIntersectionAvoidingOrigin(ray core.Ray, avoid core.SceneObject) core.RayIntersection {
	return closestIntersection(c, ray, avoid)
}

func (c *Cylinder) ClosestShadowIntersection(ray core.Ray) core.RayIntersection {
	return closestShadowIntersection(c, ray, nil)
}

func (c *Cylinder) ClosestShadowIntersectionAvoidingOrigin(ray core.Ray, avoid core.SceneObject) core.RayIntersection {
	return closestShadowIntersection(c, ray, avoid)
}

func (c *Cylinder) NextIntersection(ray core.Ray, avoid core.SceneObject, previous core.RayIntersection) core.RayIntersection {
	return nextIntersection(c, ray, avoid, previous)
}

func (c *Cylinder) InsideObject(p core.Vec3) bool {
	delta := p.Subtract(c.BaseCenter)
	h := delta.Dot(c.axis)
	if h <= 0 || h >= c.height {
		return false
	}
	radial := delta.Subtract(c.axis.Multiply(h))
	return radial.LengthSquared() < c.Radius*c.Radius
}

// OutwardNormal returns the cap normal or the radial normal, whichever surface p
// is closer to
func (c *Cylinder) OutwardNormal(p core.Vec3) core.Vec3 {
	delta := p.Subtract(c.BaseCenter)
	h := delta.Dot(c.axis)
	radial := delta.Subtract(c.axis.Multiply(h))

	sideDistance := math.Abs(radial.Length() - c.Radius)
	baseDistance := math.Abs(h)
	topDistance := math.Abs(c.height - h)

	switch {
	case baseDistance < sideDistance && baseDistance <= topDistance:
		return c.axis.Negate()
	case topDistance < sideDistance:
		return c.axis
	default:
		return radial.Normalize()
	}
}

func (c *Cylinder) Transform(t core.Transformation) core.SceneObject {
	base := t.Point(c.BaseCenter)
	top := t.Point(c.TopCenter)
	axisVector := top.Subtract(base)
	return &Cylinder{
		attributes: c.attributes,
		BaseCenter: base,
		TopCenter:  top,
		Radius:     c.Radius * t.ScaleFactor(),
		axis:       axisVector.Normalize(),
		height:     axisVector.Length(),
	}
}

func (c *Cylinder) Primitives() []core.Primitive {
	return []core.Primitive{c}
}

// BoundingBox returns the axis-aligned bounding box for this cylinder
func (c *Cylinder) BoundingBox() core.AABB {
	// Extent of the cap disc along each world axis is r·sqrt(1 - axis²)
	extent := core.NewVec3(
		c.Radius*math.Sqrt(math.Max(0, 1-c.axis.X*c.axis.X)),
		c.Radius*math.Sqrt(math.Max(0, 1-c.axis.Y*c.axis.Y)),
		c.Radius*math.Sqrt(math.Max(0, 1-c.axis.Z*c.axis.Z)),
	)
	return core.NewAABBFromPoints(
		c.BaseCenter.Subtract(extent), c.BaseCenter.Add(extent),
		c.TopCenter.Subtract(extent), c.TopCenter.Add(extent),
	)
}
