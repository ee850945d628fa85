package core

// RayIntersection records where a ray hit which object
type RayIntersection struct {
	Position Vec3        // Hit position, on the surface of Object
	Object   SceneObject // Object hit; nil for NoIntersection
	Time     float64     // Ray time at the hit
}

// NoIntersection is the sentinel for "the ray hits nothing"
var NoIntersection = RayIntersection{}

// Exists reports whether the record describes an actual hit
func (i RayIntersection) Exists() bool {
	return i.Object != nil
}

// DistanceSquared returns the squared distance of the hit from p
func (i RayIntersection) DistanceSquared(p Vec3) float64 {
	return i.Position.DistanceSquared(p)
}

// Closer reports whether i is an existing hit nearer to from than other.
// A missing other always loses.
func (i RayIntersection) Closer(other RayIntersection, from Vec3) bool {
	if !i.Exists() {
		return false
	}
	if !other.Exists() {
		return true
	}
	return i.DistanceSquared(from) < other.DistanceSquared(from)
}

// Normal returns the outward surface normal of the hit object at the hit, or the
// zero vector if the object cannot report one
func (i RayIntersection) Normal() Vec3 {
	if s, ok := i.Object.(Surface); ok {
		return s.OutwardNormal(i.Position)
	}
	return Vec3{}
}

// ShadowThrowing reports whether the hit object throws shadows. Objects that do
// not say otherwise are taken to throw shadows.
func (i RayIntersection) ShadowThrowing() bool {
	if !i.Exists() {
		return false
	}
	if c, ok := i.Object.(ShadowCaster); ok {
		return c.ShadowThrowing()
	}
	return true
}

// FaceNormal returns the surface normal oriented against the ray and whether the
// ray hit the outside of the surface
func (i RayIntersection) FaceNormal(ray Ray) (normal Vec3, frontFace bool) {
	outward := i.Normal()
	frontFace = ray.Direction.Dot(outward) < 0
	if frontFace {
		return outward, true
	}
	return outward.Negate(), false
}
