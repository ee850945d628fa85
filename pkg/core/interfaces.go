package core

// SceneObject is anything a ray can be traced against: a primitive or a
// composite built from primitives. Implementations must not mutate themselves
// while answering queries, so a built scene graph can be queried from many
// goroutines at once.
type SceneObject interface {
	// ClosestIntersection returns the nearest intersection at a strictly positive
	// distance from the ray origin, or NoIntersection.
	ClosestIntersection(ray Ray) RayIntersection

	// ClosestIntersectionAvoidingOrigin is ClosestIntersection for a ray that starts
	// on the surface of avoid. If the ray would re-hit avoid at its origin, the ray
	// is advanced by Epsilon first.
	ClosestIntersectionAvoidingOrigin(ray Ray, avoid SceneObject) RayIntersection

	// ClosestShadowIntersection only considers shadow-throwing surfaces.
	ClosestShadowIntersection(ray Ray) RayIntersection

	// ClosestShadowIntersectionAvoidingOrigin combines the shadow and
	// self-avoidance variants.
	ClosestShadowIntersectionAvoidingOrigin(ray Ray, avoid SceneObject) RayIntersection

	// NextIntersection returns the first intersection along ray beyond previous,
	// which must have been produced by this object for the same ray.
	NextIntersection(ray Ray, avoid SceneObject, previous RayIntersection) RayIntersection

	// InsideObject reports whether p lies inside the solid.
	InsideObject(p Vec3) bool

	// Transform returns a new, independent scene object with all geometry mapped
	// through t.
	Transform(t Transformation) SceneObject

	// Primitives returns the flat list of primitives the object is built from.
	Primitives() []Primitive
}

// Surface is implemented by objects that can report an outward surface normal
type Surface interface {
	OutwardNormal(p Vec3) Vec3
}

// ShadowCaster is implemented by objects that know whether they throw shadows
type ShadowCaster interface {
	ShadowThrowing() bool
}

// Primitive is a leaf scene object with its own surface
type Primitive interface {
	SceneObject
	Surface
	ShadowCaster
	Name() string
}

// Unwrapper is implemented by views that present another object differently
// (for example inverted). Unwrap returns the viewed object.
type Unwrapper interface {
	Unwrap() SceneObject
}

// SameSurface reports whether a and b refer to the same underlying object,
// looking through any number of views on either side
func SameSurface(a, b SceneObject) bool {
	if a == nil || b == nil {
		return false
	}
	for x := a; x != nil; x = unwrap(x) {
		for y := b; y != nil; y = unwrap(y) {
			if x == y {
				return true
			}
		}
	}
	return false
}

func unwrap(o SceneObject) SceneObject {
	if u, ok := o.(Unwrapper); ok {
		return u.Unwrap()
	}
	return nil
}

// InclusionCriterion decides whether a candidate intersection may be returned
type InclusionCriterion func(RayIntersection) bool

// AcceptAll accepts every intersection
func AcceptAll(RayIntersection) bool { return true }

// ShadowThrowingOnly accepts intersections with shadow-throwing surfaces
func ShadowThrowingOnly(i RayIntersection) bool { return i.ShadowThrowing() }
