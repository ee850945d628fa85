package scene

import (
	"math"
	"testing"

	"github.com/df07/go-csg-raytracer/pkg/core"
	"github.com/df07/go-csg-raytracer/pkg/csg"
	"github.com/pkg/errors"
)

func TestBuiltinScenes_Build(t *testing.T) {
	for _, info := range BuiltinScenes() {
		t.Run(info.ID, func(t *testing.T) {
			s, err := NewBuiltinScene(info.ID)
			if err != nil {
				t.Fatalf("NewBuiltinScene(%q) error: %v", info.ID, err)
			}
			if err := s.Preprocess(); err != nil {
				t.Fatalf("Preprocess() error: %v", err)
			}
			if s.GetPrimitiveCount() < 2 {
				t.Errorf("Expected at least an object and the ground, got %d primitives", s.GetPrimitiveCount())
			}
			if s.GetNodeCount() <= s.GetPrimitiveCount() {
				t.Errorf("Expected composite nodes above the %d primitives, got %d nodes",
					s.GetPrimitiveCount(), s.GetNodeCount())
			}
			if csg.FindByName(s.Root, "ground") == nil {
				t.Error("Expected a ground plane")
			}

			// The camera looks down at the scene, so its central ray hits something
			cam := s.CameraConfig
			ray := core.NewRay(cam.Center, cam.LookAt.Subtract(cam.Center).Normalize())
			if hit := s.Root.ClosestIntersection(ray); !hit.Exists() {
				t.Error("Expected the central camera ray to hit the scene")
			}
		})
	}
}

func TestBuiltinScenes_Silhouettes(t *testing.T) {
	alongX := core.NewRay(core.NewVec3(-10, 0, 0), core.NewVec3(1, 0, 0))
	tests := []struct {
		id    string
		wantX float64
	}{
		{"union", -1.3},
		{"lens", -0.5},
		{"crescent", -1},
		{"container", -1},
		{"cutaway", -1},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			s, err := NewBuiltinScene(tt.id)
			if err != nil {
				t.Fatalf("NewBuiltinScene(%q) error: %v", tt.id, err)
			}
			hit := s.Root.ClosestIntersection(alongX)
			if !hit.Exists() {
				t.Fatal("Expected a hit")
			}
			if math.Abs(hit.Position.X-tt.wantX) > 1e-6 {
				t.Errorf("Expected hit at x=%g, got %v", tt.wantX, hit.Position)
			}
		})
	}
}

func TestNewBuiltinScene_Unknown(t *testing.T) {
	_, err := NewBuiltinScene("cornell-box")
	if !errors.Is(err, ErrUnknownScene) {
		t.Errorf("Expected ErrUnknownScene, got %v", err)
	}
}

func TestScene_Preprocess(t *testing.T) {
	if err := New("empty", nil).Preprocess(); !errors.Is(err, ErrNoRoot) {
		t.Errorf("Expected ErrNoRoot, got %v", err)
	}

	s, err := NewLensScene()
	if err != nil {
		t.Fatal(err)
	}
	s.Light = core.Vec3{}
	if err := s.Preprocess(); err == nil {
		t.Error("Expected an error for a zero light direction")
	}
}

func TestScene_Configure(t *testing.T) {
	s, err := NewDefaultScene()
	if err != nil {
		t.Fatal(err)
	}
	// union, lens and crescent
	if n := s.Configure(csg.Config{MaxRetries: 5, Logger: core.NopLogger{}}); n != 3 {
		t.Errorf("Expected 3 configurable composites, got %d", n)
	}
}

func TestMergeCameraConfig(t *testing.T) {
	base := DefaultCameraConfig()
	merged := MergeCameraConfig(base, CameraConfig{VFov: 60, Center: core.NewVec3(1, 2, 3)})

	if merged.VFov != 60 || merged.Center != core.NewVec3(1, 2, 3) {
		t.Errorf("Expected overrides applied, got %+v", merged)
	}
	if merged.LookAt != base.LookAt || merged.Up != base.Up {
		t.Errorf("Expected zero fields to keep base values, got %+v", merged)
	}
}
