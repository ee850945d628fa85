package scene

import (
	"github.com/df07/go-csg-raytracer/pkg/core"
	"github.com/df07/go-csg-raytracer/pkg/csg"
	"github.com/df07/go-csg-raytracer/pkg/geometry"
	"github.com/pkg/errors"
)

// ErrNoRoot is returned for a scene without anything to render
var ErrNoRoot = errors.New("scene has no root object")

// CameraConfig places a look-at camera
type CameraConfig struct {
	Center core.Vec3 // Camera position
	LookAt core.Vec3 // Point the camera looks at
	Up     core.Vec3 // Up direction
	VFov   float64   // Vertical field of view in degrees
}

// DefaultCameraConfig looks down +Z at the origin from six units away
func DefaultCameraConfig() CameraConfig {
	return CameraConfig{
		Center: core.NewVec3(0, 1.5, -6),
		LookAt: core.NewVec3(0, 0, 0),
		Up:     core.NewVec3(0, 1, 0),
		VFov:   40,
	}
}

// MergeCameraConfig returns base with every non-zero field of override applied
func MergeCameraConfig(base, override CameraConfig) CameraConfig {
	zero := core.Vec3{}
	if override.Center != zero {
		base.Center = override.Center
	}
	if override.LookAt != zero {
		base.LookAt = override.LookAt
	}
	if override.Up != zero {
		base.Up = override.Up
	}
	if override.VFov != 0 {
		base.VFov = override.VFov
	}
	return base
}

// Scene contains all the elements needed for rendering
type Scene struct {
	Name         string
	Root         core.SceneObject
	CameraConfig CameraConfig
	Light        core.Vec3 // Unit direction the light travels in
	Ambient      float64   // Brightness of surfaces facing away from the light or in shadow
	Background   core.Vec3 // Color of rays that hit nothing
}

// New creates a scene around root with the default camera and lighting
func New(name string, root core.SceneObject) *Scene {
	return &Scene{
		Name:         name,
		Root:         root,
		CameraConfig: DefaultCameraConfig(),
		Light:        core.NewVec3(-1, -2, 1).Normalize(),
		Ambient:      0.15,
		Background:   core.NewVec3(0.5, 0.7, 1.0),
	}
}

// Preprocess checks the scene before rendering: it needs a root, and every
// primitive that can check its parameters must pass
func (s *Scene) Preprocess() error {
	if s.Root == nil {
		return errors.Wrapf(ErrNoRoot, "scene %q", s.Name)
	}
	for _, p := range s.Root.Primitives() {
		if v, ok := p.(geometry.Validator); ok {
			if err := v.Validate(); err != nil {
				return errors.Wrapf(err, "scene %q", s.Name)
			}
		}
	}
	if s.Light.LengthSquared() == 0 {
		return errors.Errorf("scene %q: light direction is zero", s.Name)
	}
	return nil
}

// Configure applies cfg to every boolean composite in the scene
func (s *Scene) Configure(cfg csg.Config) int {
	if s.Root == nil {
		return 0
	}
	return csg.Configure(s.Root, cfg)
}

// GetPrimitiveCount returns the number of primitives the scene flattens to
func (s *Scene) GetPrimitiveCount() int {
	if s.Root == nil {
		return 0
	}
	return len(s.Root.Primitives())
}

// GetNodeCount returns the number of nodes in the scene graph
func (s *Scene) GetNodeCount() int {
	if s.Root == nil {
		return 0
	}
	return csg.CountNodes(s.Root)
}
