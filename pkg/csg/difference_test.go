package csg

import (
	"testing"

	"github.com/df07/go-csg-raytracer/pkg/core"
	"github.com/pkg/errors"
)

func TestDifference_SeveralMinusMembers(t *testing.T) {
	a := sphere("a", 0, 0, 0, 1)
	left := sphere("left", -1, 0, 0, 0.5)
	right := sphere("right", 1, 0, 0, 0.5)
	d, err := NewDifference(a, left, right)
	if err != nil {
		t.Fatalf("NewDifference: %v", err)
	}

	// both ends of a are carved away: the ray enters through left's inside
	// surface and leaves through right's
	hits := allHits(d, rayAlongX())
	if got := xs(hits); !sameFloats(got, []float64{-0.5, 0.5}, tolerance) {
		t.Fatalf("Expected hits at -0.5 and 0.5, got %v", got)
	}
	if !core.SameSurface(hits[0].Object, left) || !core.SameSurface(hits[1].Object, right) {
		t.Errorf("Expected left then right, got %v then %v", hits[0].Object, hits[1].Object)
	}

	tests := []struct {
		point    core.Vec3
		expected bool
	}{
		{core.NewVec3(0, 0, 0), true},
		{core.NewVec3(-0.9, 0, 0), false},
		{core.NewVec3(0.9, 0, 0), false},
		{core.NewVec3(0, 0.9, 0), true},
		{core.NewVec3(0, 1.1, 0), false},
	}
	for _, tt := range tests {
		if got := d.InsideObject(tt.point); got != tt.expected {
			t.Errorf("InsideObject(%v) = %t, expected %t", tt.point, got, tt.expected)
		}
	}
}

func TestDifference_MinusOutsidePlusIsInvisible(t *testing.T) {
	a := sphere("a", 0, 0, 0, 1)
	away := sphere("away", -5, 0, 0, 1)
	d, _ := NewDifference(a, away)

	hit := d.ClosestIntersection(rayAlongX())
	if !hit.Position.ApproxEqual(core.NewVec3(-1, 0, 0), tolerance) || hit.Object != a {
		t.Errorf("Expected hit on a at x=-1, got %v on %v", hit.Position, hit.Object)
	}
}

func TestDifference_Accessors(t *testing.T) {
	a := sphere("a", 0, 0, 0, 1)
	b := sphere("b", 1, 0, 0, 1)
	d, _ := NewDifference(a, b)

	if d.Plus() != a {
		t.Errorf("Expected plus a, got %v", d.Plus())
	}
	if minus := d.Minus(); len(minus) != 1 || minus[0] != b {
		t.Errorf("Expected minus [b], got %v", minus)
	}
	if children := d.Children(); len(children) != 2 || children[0] != a || children[1] != b {
		t.Errorf("Expected children [a b], got %v", children)
	}
}

func TestDifference_Errors(t *testing.T) {
	a := sphere("a", 0, 0, 0, 1)

	tests := []struct {
		name     string
		plus     core.SceneObject
		minus    []core.SceneObject
		expected error
	}{
		{"no plus", nil, []core.SceneObject{a}, ErrMissingPlus},
		{"no minus", a, nil, ErrMissingMinus},
		{"nil minus", a, []core.SceneObject{nil}, ErrNilMember},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewDifference(tt.plus, tt.minus...)
			if !errors.Is(err, tt.expected) {
				t.Errorf("Expected %v, got %v", tt.expected, err)
			}
		})
	}
}
