package geometry

import (
	"math"

	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/df07/go-csg-raytracer/pkg/core"
	"github.com/pkg/errors"
)

const (
	// sdfMaxSteps bounds the sphere-tracing march along one ray
	sdfMaxSteps = 4096
	// sdfBisections refines a bracketed crossing to well below core.Epsilon
	sdfBisections = 48
	// sdfMinStepFraction is the smallest march step as a fraction of the bounds diagonal
	sdfMinStepFraction = 1e-4
)

// SDFSolid adapts a signed distance function from the sdfx CAD library to a
// primitive. Crossings are found by sphere tracing inside the bounding box and
// refined by bisection.
type SDFSolid struct {
	attributes
	core.ParentLink

	sdf     sdf.SDF3
	toLocal core.Transformation // world -> sdf space
	scale   float64             // world distance per sdf distance
	bounds  core.AABB           // world-space bounds
}

// NewSDFSolid wraps s, whose negative region is the inside of the solid
func NewSDFSolid(s sdf.SDF3, opts ...Option) (*SDFSolid, error) {
	if s == nil {
		return nil, errors.Wrap(ErrInvalidPrimitive, "sdf solid: nil sdf")
	}
	bb := s.BoundingBox()
	bounds := core.NewAABB(
		core.NewVec3(bb.Min.X, bb.Min.Y, bb.Min.Z),
		core.NewVec3(bb.Max.X, bb.Max.Y, bb.Max.Z),
	)
	if !bounds.IsValid() {
		return nil, errors.Wrapf(ErrInvalidPrimitive, "sdf solid: invalid bounding box %v", bounds)
	}
	return &SDFSolid{
		attributes: newAttributes("sdf", opts),
		sdf:        s,
		toLocal:    core.Identity(),
		scale:      1,
		bounds:     bounds,
	}, nil
}

// Evaluate returns the (approximate) signed distance from p to the surface
func (s *SDFSolid) Evaluate(p core.Vec3) float64 {
	l := s.toLocal.Point(p)
	return s.sdf.Evaluate(v3.Vec{X: l.X, Y: l.Y, Z: l.Z}) * s.scale
}

// BoundingBox returns the world-space bounds
func (s *SDFSolid) BoundingBox() core.AABB {
	return s.bounds
}

func (s *SDFSolid) crossings(ray core.Ray) []float64 {
	margin := s.minStep()
	tNear, tFar, ok := s.bounds.Expand(margin).Interval(ray, 0, math.Inf(1))
	if !ok {
		return nil
	}

	directionLength := ray.Direction.Length()
	if directionLength == 0 {
		return nil
	}
	minStep := margin / directionLength

	var result []float64
	t := tNear
	value := s.Evaluate(ray.At(t))
	for step := 0; step < sdfMaxSteps && t < tFar; step++ {
		next := math.Min(t+math.Max(math.Abs(value)/directionLength, minStep), tFar)
		nextValue := s.Evaluate(ray.At(next))
		if (value < 0) != (nextValue < 0) {
			result = append(result, s.bisect(ray, t, next, value < 0))
		}
		t, value = next, nextValue
	}
	return result
}

// bisect narrows a bracketed sign change; inside tells which sign lo has
func (s *SDFSolid) bisect(ray core.Ray, lo, hi float64, inside bool) float64 {
	for i := 0; i < sdfBisections; i++ {
		mid := 0.5 * (lo + hi)
		if (s.Evaluate(ray.At(mid)) < 0) == inside {
			lo = mid
		} else {
			hi = mid
		}
	}
	return 0.5 * (lo + hi)
}

func (s *SDFSolid) minStep() float64 {
	return s.bounds.Size().Length() * sdfMinStepFraction
}

func (s *SDFSolid) ClosestIntersection(ray core.Ray) core.RayIntersection {
	return closestIntersection(s, ray, nil)
}

func (s *SDFSolid) ClosestIntersectionAvoidingOrigin(ray core.Ray, avoid core.SceneObject) core.RayIntersection {
	return closestIntersection(s, ray, avoid)
}

func (s *SDFSolid) ClosestShadowIntersection(ray core.Ray) core.RayIntersection {
	return closestShadowIntersection(s, ray, nil)
}

func (s *SDFSolid) ClosestShadowIntersectionAvoidingOrigin(ray core.Ray, avoid core.SceneObject) core.RayIntersection {
	return closestShadowIntersection(s, ray, avoid)
}

func (s *SDFSolid) NextIntersection(ray core.Ray, avoid core.SceneObject, previous core.RayIntersection) core.RayIntersection {
	return nextIntersection(s, ray, avoid, previous)
}

func (s *SDFSolid) InsideObject(p core.Vec3) bool {
	return s.Evaluate(p) < 0
}

// OutwardNormal is the normalised central-difference gradient of the distance
func (s *SDFSolid) OutwardNormal(p core.Vec3) core.Vec3 {
	h := s.minStep() * 0.1
	dx := core.NewVec3(h, 0, 0)
	dy := core.NewVec3(0, h, 0)
	dz := core.NewVec3(0, 0, h)
	return core.NewVec3(
		s.Evaluate(p.Add(dx))-s.Evaluate(p.Subtract(dx)),
		s.Evaluate(p.Add(dy))-s.Evaluate(p.Subtract(dy)),
		s.Evaluate(p.Add(dz))-s.Evaluate(p.Subtract(dz)),
	).Normalize()
}

// Transform keeps the sdf and composes the world-to-local mapping. Distances are
// scaled by the mean scale factor, which is exact for similarity transformations.
func (s *SDFSolid) Transform(t core.Transformation) core.SceneObject {
	return &SDFSolid{
		attributes: s.attributes,
		sdf:        s.sdf,
		toLocal:    t.Inverse().Then(s.toLocal),
		scale:      s.scale * t.ScaleFactor(),
		bounds:     s.bounds.Transform(t),
	}
}

func (s *SDFSolid) Primitives() []core.Primitive {
	return []core.Primitive{s}
}

// NewRoundedBox creates a box centred on the origin with full side lengths size
// and edges rounded by round
func NewRoundedBox(size core.Vec3, round float64, opts ...Option) (*SDFSolid, error) {
	s, err := sdf.Box3D(v3.Vec{X: size.X, Y: size.Y, Z: size.Z}, round)
	if err != nil {
		return nil, errors.Wrapf(ErrInvalidPrimitive, "rounded box: %v", err)
	}
	return NewSDFSolid(s, opts...)
}

// NewRoundedCylinder creates a cylinder along Z centred on the origin with
// rounded rims
func NewRoundedCylinder(height, radius, round float64, opts ...Option) (*SDFSolid, error) {
	s, err := sdf.Cylinder3D(height, radius, round)
	if err != nil {
		return nil, errors.Wrapf(ErrInvalidPrimitive, "rounded cylinder: %v", err)
	}
	return NewSDFSolid(s, opts...)
}
