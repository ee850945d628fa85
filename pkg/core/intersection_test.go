package core

import "testing"

type stubObject struct {
	SceneObject
	shadow bool
	normal Vec3
}

func (s *stubObject) ShadowThrowing() bool    { return s.shadow }
func (s *stubObject) OutwardNormal(Vec3) Vec3 { return s.normal }

type stubView struct {
	stubObject
	viewed SceneObject
}

func (v *stubView) Unwrap() SceneObject { return v.viewed }

func TestRayIntersection_Closer(t *testing.T) {
	obj := &stubObject{}
	origin := NewVec3(0, 0, 0)
	near := RayIntersection{Position: NewVec3(1, 0, 0), Object: obj}
	far := RayIntersection{Position: NewVec3(0, 3, 0), Object: obj}

	if !near.Closer(far, origin) {
		t.Error("near should be closer than far")
	}
	if far.Closer(near, origin) {
		t.Error("far should not be closer than near")
	}
	if !far.Closer(NoIntersection, origin) {
		t.Error("any hit should be closer than no hit")
	}
	if NoIntersection.Closer(near, origin) {
		t.Error("no hit is never closer")
	}
	if NoIntersection.Exists() {
		t.Error("NoIntersection must not exist")
	}
}

func TestRayIntersection_FaceNormal(t *testing.T) {
	obj := &stubObject{normal: NewVec3(0, 0, 1)}
	hit := RayIntersection{Position: NewVec3(0, 0, 1), Object: obj}

	n, front := hit.FaceNormal(NewRay(NewVec3(0, 0, 5), NewVec3(0, 0, -1)))
	if !front || n != NewVec3(0, 0, 1) {
		t.Errorf("Expected front face with normal (0,0,1), got %v %t", n, front)
	}
	n, front = hit.FaceNormal(NewRay(NewVec3(0, 0, 0), NewVec3(0, 0, 1)))
	if front || n != NewVec3(0, 0, -1) {
		t.Errorf("Expected back face with normal (0,0,-1), got %v %t", n, front)
	}
}

func TestInclusionCriteria(t *testing.T) {
	caster := RayIntersection{Object: &stubObject{shadow: true}}
	ghost := RayIntersection{Object: &stubObject{shadow: false}}

	if !AcceptAll(ghost) || !AcceptAll(caster) {
		t.Error("AcceptAll must accept everything")
	}
	if !ShadowThrowingOnly(caster) {
		t.Error("shadow-throwing hit rejected")
	}
	if ShadowThrowingOnly(ghost) {
		t.Error("non-shadow-throwing hit accepted")
	}
	if ShadowThrowingOnly(NoIntersection) {
		t.Error("no hit must not count as shadow-throwing")
	}
}

func TestSameSurface(t *testing.T) {
	a := &stubObject{}
	b := &stubObject{}
	view := &stubView{viewed: a}
	viewOfView := &stubView{viewed: view}

	tests := []struct {
		name     string
		x, y     SceneObject
		expected bool
	}{
		{"identical", a, a, true},
		{"different", a, b, false},
		{"view of a", view, a, true},
		{"a and view", a, view, true},
		{"nested view", viewOfView, a, true},
		{"view of other", view, b, false},
		{"nil", a, nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SameSurface(tt.x, tt.y); got != tt.expected {
				t.Errorf("Expected %t, got %t", tt.expected, got)
			}
		})
	}
}
