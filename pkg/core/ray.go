package core

// Epsilon is the distance a ray is advanced to step off the surface it starts on
const Epsilon = 1e-6

// Ray represents a ray with an origin, a direction and the time at which it leaves
// its origin. Rays are values; every modifying method returns a new ray.
type Ray struct {
	Origin    Vec3
	Direction Vec3
	StartTime float64
}

// NewRay creates a new ray starting at time zero
func NewRay(origin, direction Vec3) Ray {
	return Ray{Origin: origin, Direction: direction}
}

// NewRayAt creates a new ray leaving its origin at the given time
func NewRayAt(origin, direction Vec3, startTime float64) Ray {
	return Ray{Origin: origin, Direction: direction, StartTime: startTime}
}

// At returns the point at parameter t along the ray
func (r Ray) At(t float64) Vec3 {
	return r.Origin.Add(r.Direction.Multiply(t))
}

// Time returns the time at which the ray reaches parameter t, taking the ray to
// travel one unit of distance per unit of time
func (r Ray) Time(t float64) float64 {
	return r.StartTime + t*r.Direction.Length()
}

// Advance returns the ray with its origin moved a distance eps along its direction
func (r Ray) Advance(eps float64) Ray {
	return Ray{
		Origin:    r.Origin.Add(r.Direction.Normalize().Multiply(eps)),
		Direction: r.Direction,
		StartTime: r.StartTime + eps,
	}
}

// ContinueFrom returns a ray with the same direction starting at p, which should
// lie on (or very near) the original ray
func (r Ray) ContinueFrom(p Vec3) Ray {
	travelled := p.Subtract(r.Origin).Dot(r.Direction.Normalize())
	return Ray{
		Origin:    p,
		Direction: r.Direction,
		StartTime: r.StartTime + travelled,
	}
}
