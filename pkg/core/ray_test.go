package core

import (
	"math"
	"testing"
)

func TestRay_Advance(t *testing.T) {
	ray := NewRayAt(NewVec3(1, 0, 0), NewVec3(0, 2, 0), 3)
	advanced := ray.Advance(0.5)

	if !advanced.Origin.ApproxEqual(NewVec3(1, 0.5, 0), 1e-12) {
		t.Errorf("Expected origin (1,0.5,0), got %v", advanced.Origin)
	}
	if advanced.Direction != ray.Direction {
		t.Errorf("Advance changed the direction: %v", advanced.Direction)
	}
	if math.Abs(advanced.StartTime-3.5) > 1e-12 {
		t.Errorf("Expected start time 3.5, got %f", advanced.StartTime)
	}
	if ray.Origin != NewVec3(1, 0, 0) {
		t.Error("Advance must not modify the original ray")
	}
}

func TestRay_ContinueFrom(t *testing.T) {
	ray := NewRay(NewVec3(-10, 0, 0), NewVec3(2, 0, 0))
	hit := ray.At(4.5) // x = -1

	continued := ray.ContinueFrom(hit)
	if continued.Origin != hit {
		t.Errorf("Expected origin %v, got %v", hit, continued.Origin)
	}
	if math.Abs(continued.StartTime-9) > 1e-12 {
		t.Errorf("Expected start time 9, got %f", continued.StartTime)
	}
	if math.Abs(ray.Time(4.5)-9) > 1e-12 {
		t.Errorf("Expected ray time 9 at t=4.5, got %f", ray.Time(4.5))
	}
}
