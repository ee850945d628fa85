package scene

import (
	"math"
	"path/filepath"
	"testing"

	"github.com/df07/go-csg-raytracer/pkg/core"
	"github.com/df07/go-csg-raytracer/pkg/csg"
	"github.com/df07/go-csg-raytracer/pkg/script"
	"github.com/pkg/errors"
)

func newTestLoader(dir string) *Loader {
	return &Loader{
		Dir:    dir,
		Engine: script.NewEngine(csg.Config{MaxRetries: 20, Logger: core.NopLogger{}}),
	}
}

func TestLoader_Builtin(t *testing.T) {
	s, err := newTestLoader(t.TempDir()).Load("lens")
	if err != nil {
		t.Fatalf("Load(lens) error: %v", err)
	}
	if s.Name != "lens" || csg.FindByName(s.Root, "lens") == nil {
		t.Errorf("Expected the lens scene, got %q", s.Name)
	}
}

func TestLoader_Script(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "pair.zy", `; Scene: Pair
(camera :from (vec3 0 0 -4) :fov 25)
(light :direction (vec3 0 -1 0))
(union (sphere :center (vec3 -0.5 0 0) :radius 0.8)
       (sphere :center (vec3 0.5 0 0) :radius 0.8)
       :name "pair")
`)

	s, err := newTestLoader(dir).Load("script:pair")
	if err != nil {
		t.Fatalf("Load(script:pair) error: %v", err)
	}
	if s.Name != "Pair" {
		t.Errorf("Expected the header name, got %q", s.Name)
	}
	if s.CameraConfig.Center != core.NewVec3(0, 0, -4) || s.CameraConfig.VFov != 25 {
		t.Errorf("Expected the script camera, got %+v", s.CameraConfig)
	}
	if s.Light != core.NewVec3(0, -1, 0) {
		t.Errorf("Expected the script light, got %v", s.Light)
	}

	hit := s.Root.ClosestIntersection(core.NewRay(core.NewVec3(-10, 0, 0), core.NewVec3(1, 0, 0)))
	if !hit.Exists() || math.Abs(hit.Position.X+1.3) > 1e-6 {
		t.Errorf("Expected union hit at x=-1.3, got %v", hit.Position)
	}
}

func TestLoader_Errors(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "broken.zy", `(sphere :radius -2)`)
	writeScript(t, dir, "nothing.zy", `(vec3 1 2 3)`)
	loader := newTestLoader(dir)

	if _, err := loader.Load("cornell-box"); !errors.Is(err, ErrUnknownScene) {
		t.Errorf("Expected ErrUnknownScene for an unknown builtin, got %v", err)
	}
	if _, err := loader.Load("script:missing"); !errors.Is(err, ErrUnknownScene) {
		t.Errorf("Expected ErrUnknownScene for a missing script, got %v", err)
	}

	_, err := loader.Load("script:broken")
	var scriptErr *ScriptError
	if !errors.As(err, &scriptErr) {
		t.Fatalf("Expected a ScriptError, got %v", err)
	}
	if scriptErr.Scene != "Broken" || len(scriptErr.Errors) == 0 {
		t.Errorf("Expected errors for scene Broken, got %+v", scriptErr)
	}

	if _, err := loader.Load("script:nothing"); !errors.Is(err, ErrNoRoot) {
		t.Errorf("Expected ErrNoRoot for a script without objects, got %v", err)
	}
}

// The scripts shipped in the repository must all load
func TestLoader_ShippedScripts(t *testing.T) {
	dir := filepath.Join("..", "..", "scenes")
	scenes, err := ListScriptScenes(dir)
	if err != nil {
		t.Fatalf("ListScriptScenes() error: %v", err)
	}
	if len(scenes) == 0 {
		t.Skip("no scene scripts found")
	}

	loader := newTestLoader(dir)
	for _, info := range scenes {
		t.Run(info.ID, func(t *testing.T) {
			s, err := loader.Load(info.ID)
			if err != nil {
				t.Fatalf("Load(%s) error: %v", info.ID, err)
			}
			if s.GetPrimitiveCount() == 0 {
				t.Error("Expected primitives")
			}
		})
	}
}
