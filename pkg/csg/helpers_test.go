package csg

import (
	"fmt"
	"math"
	"sync"

	"github.com/df07/go-csg-raytracer/pkg/core"
	"github.com/df07/go-csg-raytracer/pkg/geometry"
)

const tolerance = 1e-6

func sphere(name string, x, y, z, radius float64) *geometry.Sphere {
	return geometry.NewSphere(core.NewVec3(x, y, z), radius, geometry.Named(name))
}

// rayAlongX is the ray used by most scenarios: from x=-10 towards +x
func rayAlongX() core.Ray {
	return core.NewRay(core.NewVec3(-10, 0, 0), core.NewVec3(1, 0, 0))
}

// quietConfig keeps test output clean while still recording what was logged
func quietConfig(maxRetries int) (Config, *recordingLogger) {
	logger := &recordingLogger{}
	return Config{MaxRetries: maxRetries, Logger: logger}, logger
}

type recordingLogger struct {
	mu       sync.Mutex
	messages []string
}

func (l *recordingLogger) Printf(format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.messages = append(l.messages, fmt.Sprintf(format, args...))
}

func (l *recordingLogger) count() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.messages)
}

// allHits follows NextIntersection until the object runs out of hits
func allHits(o core.SceneObject, ray core.Ray) []core.RayIntersection {
	var hits []core.RayIntersection
	hit := o.ClosestIntersection(ray)
	for hit.Exists() && len(hits) < 64 {
		hits = append(hits, hit)
		hit = o.NextIntersection(ray, nil, hit)
	}
	return hits
}

func xs(hits []core.RayIntersection) []float64 {
	out := make([]float64, len(hits))
	for i, h := range hits {
		out[i] = h.Position.X
	}
	return out
}

func sameFloats(a, b []float64, tol float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if math.Abs(a[i]-b[i]) > tol {
			return false
		}
	}
	return true
}

// stepper is a scene object that never runs out of candidates: the first is at
// ray parameter start, each next one step further along
type stepper struct {
	start  float64 // parameter of the first candidate (0 means 1)
	step   float64 // parameter increment between candidates; 0 repeats the same one
	inside bool
}

func (s *stepper) hit(ray core.Ray, t float64) core.RayIntersection {
	return core.RayIntersection{Position: ray.At(t), Object: s, Time: ray.Time(t)}
}

func (s *stepper) first(ray core.Ray) core.RayIntersection {
	if s.start == 0 {
		return s.hit(ray, 1)
	}
	return s.hit(ray, s.start)
}

func (s *stepper) ClosestIntersection(ray core.Ray) core.RayIntersection {
	return s.first(ray)
}

func (s *stepper) ClosestIntersectionAvoidingOrigin(ray core.Ray, _ core.SceneObject) core.RayIntersection {
	return s.first(ray)
}

func (s *stepper) ClosestShadowIntersection(ray core.Ray) core.RayIntersection {
	return s.first(ray)
}

func (s *stepper) ClosestShadowIntersectionAvoidingOrigin(ray core.Ray, _ core.SceneObject) core.RayIntersection {
	return s.first(ray)
}

func (s *stepper) NextIntersection(ray core.Ray, _ core.SceneObject, previous core.RayIntersection) core.RayIntersection {
	t := previous.Position.Subtract(ray.Origin).Dot(ray.Direction) / ray.Direction.LengthSquared()
	return s.hit(ray, t+s.step)
}

func (s *stepper) InsideObject(core.Vec3) bool                    { return s.inside }
func (s *stepper) Transform(core.Transformation) core.SceneObject { return s }
func (s *stepper) Primitives() []core.Primitive                   { return nil }

func approx(a, b float64) bool {
	return math.Abs(a-b) < tolerance
}
