package renderer

import (
	"image"
	"image/color"
	"math"
	"testing"

	"github.com/df07/go-csg-raytracer/pkg/core"
)

func TestCalculateAverageLuminance(t *testing.T) {
	quad := image.NewRGBA(image.Rect(0, 0, 2, 2))
	quad.Set(0, 0, color.RGBA{255, 0, 0, 255})
	quad.Set(1, 0, color.RGBA{0, 255, 0, 255})
	quad.Set(0, 1, color.RGBA{0, 0, 255, 255})
	quad.Set(1, 1, color.RGBA{0, 0, 0, 255})

	white := image.NewRGBA(image.Rect(0, 0, 3, 1))
	for x := 0; x < 3; x++ {
		white.Set(x, 0, color.RGBA{255, 255, 255, 255})
	}

	tests := []struct {
		name string
		img  image.Image
		want float64
	}{
		{"primaries and black", quad, 0.25},
		{"white", white, 1},
		{"empty", image.NewRGBA(image.Rect(0, 0, 0, 0)), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CalculateAverageLuminance(tt.img); math.Abs(got-tt.want) > 1e-4 {
				t.Errorf("CalculateAverageLuminance = %f, want %f", got, tt.want)
			}
		})
	}
}

func TestPixelStats(t *testing.T) {
	var ps PixelStats
	if c := ps.GetColor(); c != (core.Vec3{}) {
		t.Errorf("Expected black before any sample, got %v", c)
	}
	ps.AddSample(core.NewVec3(1, 0, 0.5))
	ps.AddSample(core.NewVec3(0, 1, 0.5))
	if ps.SampleCount != 2 {
		t.Errorf("Expected 2 samples, got %d", ps.SampleCount)
	}
	if c := ps.GetColor(); !c.ApproxEqual(core.NewVec3(0.5, 0.5, 0.5), 1e-12) {
		t.Errorf("Expected mean (0.5,0.5,0.5), got %v", c)
	}
}

func TestRenderStats_AddRays(t *testing.T) {
	total := RenderStats{PrimaryRays: 10, Hits: 4, ShadowRays: 3, Occluded: 1, RetryLimitHits: 7}
	total.addRays(RenderStats{PrimaryRays: 5, Hits: 5, ShadowRays: 2, Occluded: 2, RetryLimitHits: 9})

	want := RenderStats{PrimaryRays: 15, Hits: 9, ShadowRays: 5, Occluded: 3, RetryLimitHits: 7}
	if total != want {
		t.Errorf("addRays = %+v, want %+v", total, want)
	}
}
