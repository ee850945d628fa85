package geometry

import (
	"github.com/df07/go-csg-raytracer/pkg/core"
	"github.com/pkg/errors"
)

// ErrInvalidPrimitive is returned when a primitive's parameters describe no solid
var ErrInvalidPrimitive = errors.New("invalid primitive")

// Option configures the shared attributes of a primitive
type Option func(*attributes)

// Named sets the primitive's name, used in diagnostics and scene paths
func Named(name string) Option {
	return func(a *attributes) { a.name = name }
}

// ShadowThrowing sets whether the primitive occludes light. Primitives throw
// shadows by default.
func ShadowThrowing(throws bool) Option {
	return func(a *attributes) { a.shadowThrowing = throws }
}

// attributes holds what every primitive carries besides its geometry
type attributes struct {
	name           string
	shadowThrowing bool
}

func newAttributes(kind string, opts []Option) attributes {
	a := attributes{name: kind, shadowThrowing: true}
	for _, opt := range opts {
		opt(&a)
	}
	return a
}

// Name returns the primitive's name
func (a attributes) Name() string { return a.name }

// ShadowThrowing reports whether the primitive occludes light
func (a attributes) ShadowThrowing() bool { return a.shadowThrowing }

// crossingSolid is implemented by every primitive in this package. crossings
// returns every ray parameter at which the ray crosses the surface, ascending.
type crossingSolid interface {
	core.Primitive
	crossings(ray core.Ray) []float64
}

// closestIntersection returns the first crossing at strictly positive distance.
// A ray starting on s itself is advanced by core.Epsilon first.
func closestIntersection(s crossingSolid, ray core.Ray, avoid core.SceneObject) core.RayIntersection {
	if avoid != nil && core.SameSurface(s, avoid) {
		ray = ray.Advance(core.Epsilon)
	}
	for _, t := range s.crossings(ray) {
		if t > 0 {
			return core.RayIntersection{
				Position: ray.At(t),
				Object:   s,
				Time:     ray.Time(t),
			}
		}
	}
	return core.NoIntersection
}

func closestShadowIntersection(s crossingSolid, ray core.Ray, avoid core.SceneObject) core.RayIntersection {
	if !s.ShadowThrowing() {
		return core.NoIntersection
	}
	return closestIntersection(s, ray, avoid)
}

// nextIntersection continues the ray from the previous hit, stepping off the surface
func nextIntersection(s crossingSolid, ray core.Ray, avoid core.SceneObject, previous core.RayIntersection) core.RayIntersection {
	if !previous.Exists() {
		return closestIntersection(s, ray, avoid)
	}
	return closestIntersection(s, ray.ContinueFrom(previous.Position), s)
}

// sortedPair returns a and b in ascending order
func sortedPair(a, b float64) []float64 {
	if a > b {
		a, b = b, a
	}
	return []float64{a, b}
}
