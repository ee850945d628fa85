package csg

import (
	"math"
	"sync/atomic"

	"github.com/df07/go-csg-raytracer/pkg/core"
)

var retryLimitHits, stalledSearches atomic.Uint64

// RetryLimitHits returns how many candidate searches have been cut off by
// Config.MaxRetries since the process started. A growing count points at
// degenerate geometry.
func RetryLimitHits() uint64 {
	return retryLimitHits.Load()
}

// StalledSearches returns how many candidate searches have ended because a
// member returned a candidate no farther along the ray than the previous one
func StalledSearches() uint64 {
	return stalledSearches.Load()
}

// acceptFunc decides whether a candidate from one member lies on the boundary of
// the composite
type acceptFunc func(core.RayIntersection) bool

// search pulls candidates from member, closest first, until accept approves one.
// It gives up when the member runs out of candidates, when a candidate lies
// beyond best, when a candidate fails to move forward along the ray, or after
// the configured number of candidates. The last two are counted and logged.
func (c Config) search(owner, member core.SceneObject, ray core.Ray, avoid core.SceneObject, best core.RayIntersection, accept acceptFunc) core.RayIntersection {
	limit := math.Inf(1)
	if best.Exists() {
		limit = best.DistanceSquared(ray.Origin)
	}

	previous := -1.0
	candidate := member.ClosestIntersectionAvoidingOrigin(ray, avoid)
	for tries := 1; candidate.Exists(); tries++ {
		distance := candidate.DistanceSquared(ray.Origin)
		if distance > limit {
			return core.NoIntersection
		}
		if distance <= previous {
			stalledSearches.Add(1)
			c.logger().Printf("csg: %s member %s stalled at %v\n", describe(owner), describe(member), candidate.Position)
			return core.NoIntersection
		}
		if accept(candidate) {
			return candidate
		}
		if tries >= c.maxRetries() {
			retryLimitHits.Add(1)
			c.logger().Printf("csg: %s gave up on member %s after %d candidates (ray %v -> %v)\n",
				describe(owner), describe(member), tries, ray.Origin, ray.Direction)
			return core.NoIntersection
		}
		previous = distance
		candidate = member.NextIntersection(ray, avoid, candidate)
	}
	return core.NoIntersection
}

// avoidSelf handles an avoid object that is the composite itself: the ray is
// advanced instead, since no member would recognise the composite as its surface
func avoidSelf(self core.SceneObject, ray core.Ray, avoid core.SceneObject) (core.Ray, core.SceneObject) {
	if avoid != nil && core.SameSurface(self, avoid) {
		return ray.Advance(core.Epsilon), nil
	}
	return ray, avoid
}

// continueAfter returns the ray and avoid object for the query that follows previous
func continueAfter(ray core.Ray, avoid core.SceneObject, previous core.RayIntersection) (core.Ray, core.SceneObject) {
	if !previous.Exists() {
		return ray, avoid
	}
	return ray.ContinueFrom(previous.Position), previous.Object
}

func insideAny(objects []core.SceneObject, p core.Vec3) bool {
	for _, o := range objects {
		if o.InsideObject(p) {
			return true
		}
	}
	return false
}

func flatten(objects []core.SceneObject) []core.Primitive {
	var primitives []core.Primitive
	for _, o := range objects {
		primitives = append(primitives, o.Primitives()...)
	}
	return primitives
}
