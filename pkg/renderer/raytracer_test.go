package renderer

import (
	"image"
	"image/color"
	"math/rand"
	"testing"

	"github.com/df07/go-csg-raytracer/pkg/core"
	"github.com/df07/go-csg-raytracer/pkg/csg"
	"github.com/df07/go-csg-raytracer/pkg/geometry"
	"github.com/df07/go-csg-raytracer/pkg/scene"
)

// sphereScene puts a unit sphere straight ahead of a camera at z=-5
func sphereScene(t *testing.T) *scene.Scene {
	t.Helper()
	s := scene.New("sphere", geometry.NewSphere(core.Vec3{}, 1, geometry.Named("ball")))
	s.CameraConfig = scene.CameraConfig{
		Center: core.NewVec3(0, 0, -5),
		LookAt: core.NewVec3(0, 0, 0),
		Up:     core.NewVec3(0, 1, 0),
		VFov:   40,
	}
	s.Light = core.NewVec3(0, 0, 1)
	return s
}

func TestRaytracer_RayColor(t *testing.T) {
	s := sphereScene(t)
	rt := NewRaytracer(s, 10, 10)

	var stats RenderStats
	// Head-on: the light shines along the view direction, so the front is fully lit
	lit := rt.rayColor(core.NewRay(core.NewVec3(0, 0, -5), core.NewVec3(0, 0, 1)), &stats)
	if want := surfaceColor(s.Root); !lit.ApproxEqual(want, 1e-9) {
		t.Errorf("Expected fully lit %v, got %v", want, lit)
	}

	miss := rt.rayColor(core.NewRay(core.NewVec3(0, 0, -5), core.NewVec3(0, 1, 0)), &stats)
	if !miss.ApproxEqual(s.Background, 1e-9) {
		t.Errorf("Expected background %v straight up, got %v", s.Background, miss)
	}

	if stats.PrimaryRays != 2 || stats.Hits != 1 || stats.ShadowRays != 1 || stats.Occluded != 0 {
		t.Errorf("Unexpected counters %+v", stats)
	}
}

func TestRaytracer_Shadow(t *testing.T) {
	// A small ball between the light and the big one shadows its center
	big := geometry.NewSphere(core.Vec3{}, 1, geometry.Named("big"))
	blocker := geometry.NewSphere(core.NewVec3(0, 0, -3), 0.5, geometry.Named("blocker"))
	root, err := csg.NewContainer(big, blocker)
	if err != nil {
		t.Fatalf("NewContainer: %v", err)
	}
	s := scene.New("shadow", root)
	s.Light = core.NewVec3(0, 0, 1)
	rt := NewRaytracer(s, 10, 10)

	var stats RenderStats
	// Approach the big sphere from the side so the blocker is not in the way
	got := rt.rayColor(core.NewRay(core.NewVec3(0, 0, -1.5), core.NewVec3(0, 0, 1)), &stats)
	want := surfaceColor(big).Multiply(s.Ambient)
	if !got.ApproxEqual(want, 1e-9) {
		t.Errorf("Expected ambient-only %v, got %v", want, got)
	}
	if stats.Occluded != 1 {
		t.Errorf("Expected one occluded shadow ray, got %d", stats.Occluded)
	}

	// The same blocker no longer shadows once it stops throwing shadows
	ghost := geometry.NewSphere(core.NewVec3(0, 0, -3), 0.5, geometry.Named("blocker"), geometry.ShadowThrowing(false))
	root, err = csg.NewContainer(big, ghost)
	if err != nil {
		t.Fatalf("NewContainer: %v", err)
	}
	s.Root = root
	rt = NewRaytracer(s, 10, 10)
	got = rt.rayColor(core.NewRay(core.NewVec3(0, 0, -1.5), core.NewVec3(0, 0, 1)), &stats)
	if !got.ApproxEqual(surfaceColor(big), 1e-9) {
		t.Errorf("Expected fully lit %v, got %v", surfaceColor(big), got)
	}
}

func TestSurfaceColor(t *testing.T) {
	a := geometry.NewSphere(core.Vec3{}, 1, geometry.Named("same"))
	b := geometry.NewSphere(core.NewVec3(5, 0, 0), 2, geometry.Named("same"))
	if surfaceColor(a) != surfaceColor(b) {
		t.Error("Expected primitives with the same name to share a color")
	}

	ground := geometry.NewPlane(core.Vec3{}, core.NewVec3(0, 1, 0), geometry.Named("ground"))
	if surfaceColor(ground) != groundColor {
		t.Errorf("Expected ground color, got %v", surfaceColor(ground))
	}

	inv, err := csg.NewInverse(a)
	if err != nil {
		t.Fatalf("NewInverse: %v", err)
	}
	if surfaceColor(inv) != surfaceColor(a) {
		t.Error("Expected an inverted view to keep the color of its primitive")
	}
}

func TestVec3ToColor(t *testing.T) {
	tests := []struct {
		in   core.Vec3
		want color.RGBA
	}{
		{core.NewVec3(0, 0, 0), color.RGBA{0, 0, 0, 255}},
		{core.NewVec3(1, 1, 1), color.RGBA{255, 255, 255, 255}},
		{core.NewVec3(0.25, 4, -1), color.RGBA{127, 255, 0, 255}},
	}
	for _, tt := range tests {
		if got := vec3ToColor(tt.in); got != tt.want {
			t.Errorf("vec3ToColor(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestRaytracer_RenderBounds(t *testing.T) {
	s := sphereScene(t)
	rt := NewRaytracer(s, 8, 8)
	rt.SetSamplingConfig(SamplingConfig{SamplesPerPixel: 2})

	pixelStats := make([][]PixelStats, 8)
	for y := range pixelStats {
		pixelStats[y] = make([]PixelStats, 8)
	}
	bounds := image.Rect(2, 2, 6, 6)
	stats := rt.RenderBounds(bounds, pixelStats, rand.New(rand.NewSource(1)))

	if stats.TotalPixels != 16 || stats.TotalSamples != 32 || stats.PrimaryRays != 32 {
		t.Errorf("Expected 16 pixels with 32 samples, got %+v", stats)
	}
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			inside := image.Pt(x, y).In(bounds)
			if n := pixelStats[y][x].SampleCount; (n == 2) != inside || (n == 0) == inside {
				t.Errorf("Pixel (%d,%d): unexpected sample count %d", x, y, n)
			}
		}
	}

	// Already converged pixels are left alone
	if again := rt.RenderBounds(bounds, pixelStats, rand.New(rand.NewSource(1))); again.TotalSamples != 0 {
		t.Errorf("Expected no new samples, got %d", again.TotalSamples)
	}
}

func TestRaytracer_RenderPass(t *testing.T) {
	s := sphereScene(t)
	rt := NewRaytracer(s, 9, 9)
	img, stats := rt.RenderPass()

	if stats.PrimaryRays != 9*9*DefaultSamplingConfig().SamplesPerPixel {
		t.Errorf("Unexpected primary ray count %d", stats.PrimaryRays)
	}
	// The middle pixel looks straight at the ball, the corner past it
	if img.RGBAAt(4, 4) == vec3ToColor(s.Background) {
		t.Error("Expected the center pixel to show the sphere")
	}
	if img.RGBAAt(0, 0) == img.RGBAAt(4, 4) {
		t.Error("Expected the corner pixel to differ from the center")
	}
	if lum := CalculateAverageLuminance(img); lum <= 0 || lum >= 1 {
		t.Errorf("Expected luminance in (0,1), got %f", lum)
	}
}

func TestDownsample(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 40, 30))
	if Downsample(img, 1) != image.Image(img) {
		t.Error("Expected factor 1 to return the image unchanged")
	}
	if b := Downsample(img, 2).Bounds(); b.Dx() != 20 || b.Dy() != 15 {
		t.Errorf("Expected 20x15, got %v", b)
	}
}

// stuck reports the same candidate one unit along every ray, however often it
// is asked for the next one
type stuck struct{}

func (s stuck) at(ray core.Ray) core.RayIntersection {
	return core.RayIntersection{Position: ray.At(1), Object: s, Time: ray.Time(1)}
}

func (s stuck) ClosestIntersection(ray core.Ray) core.RayIntersection { return s.at(ray) }
func (s stuck) ClosestIntersectionAvoidingOrigin(ray core.Ray, _ core.SceneObject) core.RayIntersection {
	return s.at(ray)
}
func (s stuck) ClosestShadowIntersection(ray core.Ray) core.RayIntersection { return s.at(ray) }
func (s stuck) ClosestShadowIntersectionAvoidingOrigin(ray core.Ray, _ core.SceneObject) core.RayIntersection {
	return s.at(ray)
}
func (s stuck) NextIntersection(ray core.Ray, _ core.SceneObject, _ core.RayIntersection) core.RayIntersection {
	return s.at(ray)
}
func (s stuck) InsideObject(core.Vec3) bool                    { return false }
func (s stuck) Transform(core.Transformation) core.SceneObject { return s }
func (s stuck) Primitives() []core.Primitive                   { return nil }

func TestRaytracer_RenderPassCountsStalls(t *testing.T) {
	s := sphereScene(t)
	x, err := csg.NewIntersection(stuck{}, s.Root)
	if err != nil {
		t.Fatalf("NewIntersection: %v", err)
	}
	csg.Configure(x, csg.Config{Logger: core.NopLogger{}})
	s.Root = x

	_, stats := NewRaytracer(s, 3, 3).RenderPass()
	if stats.Stalls == 0 {
		t.Error("Expected the stuck member to be counted as stalled")
	}
	if stats.Hits != 0 {
		t.Errorf("Expected no hits, got %d", stats.Hits)
	}
}
