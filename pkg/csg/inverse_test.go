package csg

import (
	"testing"

	"github.com/df07/go-csg-raytracer/pkg/core"
	"github.com/pkg/errors"
)

func TestInverse_HitsAreRetagged(t *testing.T) {
	a := sphere("a", 0, 0, 0, 1)
	inv, _ := NewInverse(a)

	hit := inv.ClosestIntersection(rayAlongX())
	if !hit.Position.ApproxEqual(core.NewVec3(-1, 0, 0), tolerance) {
		t.Fatalf("Expected hit at x=-1, got %v", hit.Position)
	}
	if hit.Object != inv {
		t.Errorf("Expected the hit to be reported on the inverse, got %v", hit.Object)
	}
	if n := hit.Normal(); !n.ApproxEqual(core.NewVec3(1, 0, 0), tolerance) {
		t.Errorf("Expected reversed normal (1,0,0), got %v", n)
	}
	if !core.SameSurface(hit.Object, a) {
		t.Error("Expected the inverse to share a's surface")
	}
}

func TestInverse_OfComposite(t *testing.T) {
	a := sphere("a", 0, 0, 0, 1)
	b := sphere("b", 1.5, 0, 0, 1)
	u, _ := NewUnion(a, b)
	inv, _ := NewInverse(u)

	hits := allHits(inv, rayAlongX())
	if got := xs(hits); !sameFloats(got, []float64{-1, 2.5}, tolerance) {
		t.Fatalf("Expected hits at -1 and 2.5, got %v", got)
	}
	view, ok := hits[1].Object.(*Inverse)
	if !ok || view.Unwrap() != b {
		t.Fatalf("Expected an inverted view of b, got %v", hits[1].Object)
	}
	if n := hits[1].Normal(); !n.ApproxEqual(core.NewVec3(-1, 0, 0), tolerance) {
		t.Errorf("Expected reversed normal (-1,0,0), got %v", n)
	}

	// inverting twice restores the original surface
	twice, _ := NewInverse(inv)
	if hit := twice.ClosestIntersection(rayAlongX()); hit.Object != a {
		t.Errorf("Expected double inversion to report a, got %v", hit.Object)
	}
	if !twice.InsideObject(core.NewVec3(2, 0, 0)) {
		t.Error("Expected double inversion to restore InsideObject")
	}
}

func TestInverse_SelfAvoidance(t *testing.T) {
	a := sphere("a", 0, 0, 0, 1)
	inv, _ := NewInverse(a)

	// a ray leaving the inverted surface into the sphere, avoiding the view
	ray := core.NewRay(core.NewVec3(1, 0, 0), core.NewVec3(-1, 0, 0))
	hit := inv.ClosestIntersectionAvoidingOrigin(ray, inv)
	if !hit.Position.ApproxEqual(core.NewVec3(-1, 0, 0), tolerance) {
		t.Errorf("Expected far side at x=-1, got %v", hit.Position)
	}

	// the plain primitive recognises the view as its own surface
	if hit := a.ClosestIntersectionAvoidingOrigin(ray, inv); !hit.Position.ApproxEqual(core.NewVec3(-1, 0, 0), tolerance) {
		t.Errorf("Expected far side at x=-1, got %v", hit.Position)
	}
}

func TestInverse_SharesData(t *testing.T) {
	a := sphere("a", 0, 0, 0, 1)
	inv, _ := NewInverse(a)

	if inv.Unwrap() != a {
		t.Error("Expected the view to wrap a itself")
	}
	primitives := inv.Primitives()
	if len(primitives) != 1 || primitives[0] != a {
		t.Errorf("Expected primitives [a], got %v", primitives)
	}
	if inv.Name() != "inverse(a)" {
		t.Errorf("Expected name inverse(a), got %s", inv.Name())
	}
	if !inv.ShadowThrowing() {
		t.Error("Expected the view to follow a's shadow flag")
	}

	if _, err := NewInverse(nil); !errors.Is(err, ErrNilMember) {
		t.Errorf("Expected ErrNilMember, got %v", err)
	}
}
