package geometry

import (
	"math"

	"github.com/df07/go-csg-raytracer/pkg/core"
	"github.com/pkg/errors"
)

// Box represents a solid, possibly rotated, rectangular box
type Box struct {
	attributes
	core.ParentLink

	Center core.Vec3    // Center point of the box
	Size   core.Vec3    // Half-extents along each local axis
	axes   [3]core.Vec3 // Unit local axes in world space
}

// NewBox creates a new box with the given center, size and rotation.
// Size represents half-extents (so a size of (1,1,1) creates a 2x2x2 box).
// Rotation is in radians around X, Y, Z axes (applied in that order).
func NewBox(center, size, rotation core.Vec3, opts ...Option) *Box {
	return &Box{
		attributes: newAttributes("box", opts),
		Center:     center,
		Size:       size,
		axes: [3]core.Vec3{
			core.NewVec3(1, 0, 0).Rotate(rotation),
			core.NewVec3(0, 1, 0).Rotate(rotation),
			core.NewVec3(0, 0, 1).Rotate(rotation),
		},
	}
}

// NewAxisAlignedBox creates a new axis-aligned box (no rotation)
func NewAxisAlignedBox(center, size core.Vec3, opts ...Option) *Box {
	return NewBox(center, size, core.NewVec3(0, 0, 0), opts...)
}

// Validate checks that the box has volume
func (b *Box) Validate() error {
	if !(b.Size.X > 0 && b.Size.Y > 0 && b.Size.Z > 0) {
		return errors.Wrapf(ErrInvalidPrimitive, "box %q: half-extents %v must be positive", b.name, b.Size)
	}
	return nil
}

// Axes returns the box's local axes in world space
func (b *Box) Axes() [3]core.Vec3 {
	return b.axes
}

func (b *Box) local(p core.Vec3) [3]float64 {
	d := p.Subtract(b.Center)
	return [3]float64{d.Dot(b.axes[0]), d.Dot(b.axes[1]), d.Dot(b.axes[2])}
}

func (b *Box) halfExtents() [3]float64 {
	return [3]float64{b.Size.X, b.Size.Y, b.Size.Z}
}

// crossings uses the slab method in the box's local frame
func (b *Box) crossings(ray core.Ray) []float64 {
	origin := b.local(ray.Origin)
	half := b.halfExtents()
	tNear, tFar := math.Inf(-1), math.Inf(1)

	for axis := 0; axis < 3; axis++ {
		direction := ray.Direction.Dot(b.axes[axis])

		// Handle parallel rays (direction near zero)
		if math.Abs(direction) < 1e-12 {
			if origin[axis] < -half[axis] || origin[axis] > half[axis] {
				return nil
			}
			continue
		}

		invDirection := 1.0 / direction
		t1 := (-half[axis] - origin[axis]) * invDirection
		t2 := (half[axis] - origin[axis]) * invDirection
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tNear = math.Max(tNear, t1)
		tFar = math.Min(tFar, t2)
		if tNear > tFar {
			return nil
		}
	}
	return []float64{tNear, tFar}
}

func (b *Box) ClosestIntersection(ray core.Ray) core.RayIntersection {
	return closestIntersection(b, ray, nil)
}

func (b *Box) ClosestIntersectionAvoidingOrigin(ray core.Ray, avoid core.SceneObject) core.RayIntersection {
	return closestIntersection(b, ray, avoid)
}

func (b *Box) ClosestShadowIntersection(ray core.Ray) core.RayIntersection {
	return closestShadowIntersection(b, ray, nil)
}

func (b *Box) ClosestShadowIntersectionAvoidingOrigin(ray core.Ray, avoid core.SceneObject) core.RayIntersection {
	return closestShadowIntersection(b, ray, avoid)
}

func (b *Box) NextIntersection(ray core.Ray, avoid core.SceneObject, previous core.RayIntersection) core.RayIntersection {
	return nextIntersection(b, ray, avoid, previous)
}

func (b *Box) InsideObject(p core.Vec3) bool {
	l := b.local(p)
	half := b.halfExtents()
	for axis := 0; axis < 3; axis++ {
		if math.Abs(l[axis]) >= half[axis] {
			return false
		}
	}
	return true
}

// OutwardNormal returns the normal of the face p is relatively closest to
func (b *Box) OutwardNormal(p core.Vec3) core.Vec3 {
	l := b.local(p)
	half := b.halfExtents()
	best, bestRatio := 0, -1.0
	for axis := 0; axis < 3; axis++ {
		if ratio := math.Abs(l[axis]) / half[axis]; ratio > bestRatio {
			best, bestRatio = axis, ratio
		}
	}
	if l[best] < 0 {
		return b.axes[best].Negate()
	}
	return b.axes[best]
}

// Transform maps the center and the scaled axes; the result stays a box as long
// as t keeps the axes perpendicular
func (b *Box) Transform(t core.Transformation) core.SceneObject {
	half := b.halfExtents()
	var axes [3]core.Vec3
	var size [3]float64
	for axis := 0; axis < 3; axis++ {
		edge := t.Direction(b.axes[axis].Multiply(half[axis]))
		size[axis] = edge.Length()
		axes[axis] = edge.Normalize()
	}
	return &Box{
		attributes: b.attributes,
		Center:     t.Point(b.Center),
		Size:       core.NewVec3(size[0], size[1], size[2]),
		axes:       axes,
	}
}

func (b *Box) Primitives() []core.Primitive {
	return []core.Primitive{b}
}

// BoundingBox returns the axis-aligned bounding box for this box
func (b *Box) BoundingBox() core.AABB {
	half := b.halfExtents()
	var corners []core.Vec3
	for i := 0; i < 8; i++ {
		c := b.Center
		for axis := 0; axis < 3; axis++ {
			sign := 1.0
			if i&(1<<axis) != 0 {
				sign = -1.0
			}
			c = c.Add(b.axes[axis].Multiply(sign * half[axis]))
		}
		corners = append(corners, c)
	}
	return core.NewAABBFromPoints(corners...)
}
