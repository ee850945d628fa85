package renderer

import (
	"hash/fnv"
	"image"
	"image/color"
	"math"
	"math/rand"

	"github.com/df07/go-csg-raytracer/pkg/core"
	"github.com/df07/go-csg-raytracer/pkg/csg"
	"github.com/df07/go-csg-raytracer/pkg/scene"
)

// SamplingConfig contains rendering configuration
type SamplingConfig struct {
	SamplesPerPixel int // Number of rays per pixel
}

// DefaultSamplingConfig returns sensible default values
func DefaultSamplingConfig() SamplingConfig {
	return SamplingConfig{SamplesPerPixel: 4}
}

// palette colors surfaces by the primitive they belong to
var palette = []core.Vec3{
	{X: 0.80, Y: 0.30, Z: 0.25},
	{X: 0.25, Y: 0.55, Z: 0.80},
	{X: 0.85, Y: 0.70, Z: 0.25},
	{X: 0.35, Y: 0.70, Z: 0.40},
	{X: 0.65, Y: 0.40, Z: 0.75},
	{X: 0.90, Y: 0.55, Z: 0.35},
	{X: 0.40, Y: 0.75, Z: 0.75},
	{X: 0.75, Y: 0.75, Z: 0.70},
}

// groundColor is used for the primitive named "ground"
var groundColor = core.NewVec3(0.55, 0.55, 0.5)

// Raytracer shades camera rays with a single directional light and hard
// shadows. It is meant for inspecting scene geometry, not for realism.
type Raytracer struct {
	scene  *scene.Scene
	camera *Camera
	width  int
	height int
	config SamplingConfig
}

// NewRaytracer creates a new raytracer
func NewRaytracer(s *scene.Scene, width, height int) *Raytracer {
	return &Raytracer{
		scene:  s,
		camera: NewCamera(s.CameraConfig, float64(width)/float64(height)),
		width:  width,
		height: height,
		config: DefaultSamplingConfig(),
	}
}

// SetSamplingConfig updates the sampling configuration
func (rt *Raytracer) SetSamplingConfig(config SamplingConfig) {
	rt.config = config
}

// background returns a vertical gradient from white to the scene background
func (rt *Raytracer) background(r core.Ray) core.Vec3 {
	t := 0.5 * (r.Direction.Normalize().Y + 1.0)
	return core.NewVec3(1, 1, 1).Multiply(1.0 - t).Add(rt.scene.Background.Multiply(t))
}

// surfaceColor picks a stable color for the primitive behind o
func surfaceColor(o core.SceneObject) core.Vec3 {
	for {
		u, ok := o.(core.Unwrapper)
		if !ok {
			break
		}
		o = u.Unwrap()
	}
	name := ""
	if n, ok := o.(csg.Named); ok {
		name = n.Name()
	}
	if name == "ground" {
		return groundColor
	}
	h := fnv.New32a()
	h.Write([]byte(name))
	return palette[h.Sum32()%uint32(len(palette))]
}

// rayColor returns the color seen along r
func (rt *Raytracer) rayColor(r core.Ray, stats *RenderStats) core.Vec3 {
	stats.PrimaryRays++
	root := rt.scene.Root
	hit := root.ClosestIntersection(r)
	if !hit.Exists() {
		return rt.background(r)
	}
	stats.Hits++

	normal, frontFace := hit.FaceNormal(r)
	base := surfaceColor(hit.Object)
	if !frontFace {
		// Inside of an open surface
		base = base.Multiply(0.5)
	}

	toLight := rt.scene.Light.Negate().Normalize()
	lit := 0.0
	if cosine := normal.Dot(toLight); cosine > 0 {
		stats.ShadowRays++
		shadowRay := core.NewRay(hit.Position, toLight)
		if root.ClosestShadowIntersectionAvoidingOrigin(shadowRay, hit.Object).Exists() {
			stats.Occluded++
		} else {
			lit = cosine
		}
	}

	ambient := rt.scene.Ambient
	return base.Multiply(ambient + (1-ambient)*lit)
}

// vec3ToColor converts a Vec3 color to RGBA with proper clamping and gamma correction
func vec3ToColor(colorVec core.Vec3) color.RGBA {
	// Gamma 2
	colorVec = core.NewVec3(
		math.Sqrt(math.Max(0, colorVec.X)),
		math.Sqrt(math.Max(0, colorVec.Y)),
		math.Sqrt(math.Max(0, colorVec.Z)),
	).Clamp(0.0, 1.0)

	return color.RGBA{
		R: uint8(255 * colorVec.X),
		G: uint8(255 * colorVec.Y),
		B: uint8(255 * colorVec.Z),
		A: 255,
	}
}

// RenderBounds brings every pixel in bounds up to the configured sample count.
// Pixels are indexed [y][x] with y growing downwards.
func (rt *Raytracer) RenderBounds(bounds image.Rectangle, pixelStats [][]PixelStats, random *rand.Rand) RenderStats {
	var stats RenderStats
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			pixel := &pixelStats[y][x]
			for pixel.SampleCount < rt.config.SamplesPerPixel {
				s := (float64(x) + random.Float64()) / float64(rt.width)
				t := 1 - (float64(y)+random.Float64())/float64(rt.height)
				pixel.AddSample(rt.rayColor(rt.camera.GetRay(s, t), &stats))
				stats.TotalSamples++
			}
		}
	}
	stats.TotalPixels = bounds.Dx() * bounds.Dy()
	return stats
}

// RenderPass renders the whole image on the calling goroutine
func (rt *Raytracer) RenderPass() (*image.RGBA, RenderStats) {
	pixelStats := make([][]PixelStats, rt.height)
	for y := range pixelStats {
		pixelStats[y] = make([]PixelStats, rt.width)
	}

	before, stallsBefore := csg.RetryLimitHits(), csg.StalledSearches()
	random := rand.New(rand.NewSource(42))
	stats := rt.RenderBounds(image.Rect(0, 0, rt.width, rt.height), pixelStats, random)
	stats.RetryLimitHits = csg.RetryLimitHits() - before
	stats.Stalls = csg.StalledSearches() - stallsBefore

	img := image.NewRGBA(image.Rect(0, 0, rt.width, rt.height))
	for y := 0; y < rt.height; y++ {
		for x := 0; x < rt.width; x++ {
			img.SetRGBA(x, y, vec3ToColor(pixelStats[y][x].GetColor()))
		}
	}
	stats.MaxSamples = rt.config.SamplesPerPixel
	stats.MinSamples = rt.config.SamplesPerPixel
	stats.MaxSamplesUsed = rt.config.SamplesPerPixel
	if stats.TotalPixels > 0 {
		stats.AverageSamples = float64(stats.TotalSamples) / float64(stats.TotalPixels)
	}
	return img, stats
}
