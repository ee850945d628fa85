package main

import (
	"context"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/df07/go-csg-raytracer/pkg/core"
	"github.com/df07/go-csg-raytracer/pkg/csg"
)

func testConfig() csg.Config {
	return csg.Config{MaxRetries: 20, Logger: core.NopLogger{}}
}

func TestCreateScene(t *testing.T) {
	tests := []struct {
		name        string
		sceneType   string
		expectError bool
	}{
		{"default scene", "default", false},
		{"lens scene", "lens", false},
		{"dice scene", "dice", false},
		{"rounded scene", "rounded", false},
		{"script by ID", "script:bowl", false},
		{"script by path", "scenes/nut.zy", false},

		{"unknown scene", "nonexistent", true},
		{"unknown script", "script:nonexistent", true},
		{"missing script path", "scenes/nonexistent.zy", true},
		{"empty scene name", "", true},
	}

	loader := newLoader("scenes", 20, core.NopLogger{})
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := createScene(loader, tt.sceneType, testConfig())

			if tt.expectError {
				if err == nil {
					t.Errorf("Expected error for scene '%s', but got none", tt.sceneType)
				}
				if s != nil {
					t.Errorf("Expected nil scene for '%s', got %q", tt.sceneType, s.Name)
				}
				return
			}

			if err != nil {
				t.Fatalf("Unexpected error for scene '%s': %v", tt.sceneType, err)
			}
			if s.Root == nil || s.GetPrimitiveCount() == 0 {
				t.Errorf("Expected scene '%s' to contain primitives", tt.sceneType)
			}
			if s.CameraConfig.VFov <= 0 {
				t.Errorf("Expected a positive field of view, got %f", s.CameraConfig.VFov)
			}
		})
	}
}

func TestSceneBaseName(t *testing.T) {
	tests := []struct {
		sceneType string
		want      string
	}{
		{"default", "default"},
		{"script:bowl", "bowl"},
		{"scenes/nut.zy", "nut"},
		{"scenes/subdir/my-scene.zy", "my-scene"},
		{"script:", "scene"},
	}
	for _, tt := range tests {
		if got := sceneBaseName(tt.sceneType); got != tt.want {
			t.Errorf("sceneBaseName(%q) = %q, want %q", tt.sceneType, got, tt.want)
		}
	}
}

func TestCreateOutputDir(t *testing.T) {
	t.Chdir(t.TempDir())

	outputDir := createOutputDir("script:bowl")
	if outputDir != filepath.Join("output", "bowl") {
		t.Errorf("Expected output/bowl, got %q", outputDir)
	}
	if info, err := os.Stat(outputDir); err != nil || !info.IsDir() {
		t.Errorf("Expected %s to be created: %v", outputDir, err)
	}
}

func TestRun(t *testing.T) {
	output := filepath.Join(t.TempDir(), "renders", "lens.png")
	opts := options{
		sceneType:   "lens",
		width:       20,
		height:      15,
		supersample: 2,
		maxSamples:  2,
		maxPasses:   2,
		workers:     2,
		maxRetries:  20,
		output:      output,
	}

	if err := run(context.Background(), opts, core.NopLogger{}); err != nil {
		t.Fatalf("run: %v", err)
	}

	file, err := os.Open(output)
	if err != nil {
		t.Fatalf("Expected the render to be saved: %v", err)
	}
	defer file.Close()
	img, err := png.Decode(file)
	if err != nil {
		t.Fatalf("Invalid PNG: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 20 || b.Dy() != 15 {
		t.Errorf("Expected a 20x15 image after downsampling, got %v", b)
	}
}

func TestRun_Errors(t *testing.T) {
	tests := []struct {
		name    string
		opts    options
		wantErr string
	}{
		{"bad size", options{sceneType: "lens", width: 0, height: 10}, "invalid image size"},
		{"unknown scene", options{sceneType: "nope", width: 10, height: 10}, "unknown scene"},
		{"publish without config", options{sceneType: "lens", width: 4, height: 4, maxSamples: 1, maxPasses: 1, publish: true}, "not configured"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("S3_BUCKET", "")
			t.Setenv("S3_ACCESS_KEY", "")
			t.Setenv("S3_SECRET_KEY", "")
			if tt.opts.output == "" {
				tt.opts.output = filepath.Join(t.TempDir(), "out.png")
			}
			tt.opts.maxRetries = 20

			err := run(context.Background(), tt.opts, core.NopLogger{})
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}
