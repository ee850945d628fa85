package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/df07/go-csg-raytracer/pkg/core"
	"github.com/df07/go-csg-raytracer/pkg/csg"
	"github.com/df07/go-csg-raytracer/pkg/publish"
	"github.com/df07/go-csg-raytracer/pkg/renderer"
	"github.com/df07/go-csg-raytracer/pkg/scene"
	"github.com/df07/go-csg-raytracer/pkg/script"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
)

type options struct {
	sceneType   string
	width       int
	height      int
	supersample int
	maxSamples  int
	maxPasses   int
	workers     int
	maxRetries  int
	scenesDir   string
	output      string
	publish     bool
}

func main() {
	var opts options
	flag.StringVar(&opts.sceneType, "scene", "default", "Scene: a built-in ID, script:<name>, or a path to a .zy file")
	flag.IntVar(&opts.width, "width", 400, "Image width")
	flag.IntVar(&opts.height, "height", 300, "Image height")
	flag.IntVar(&opts.supersample, "supersample", 1, "Render at this multiple of the size and downsample")
	flag.IntVar(&opts.maxSamples, "samples", 16, "Samples per pixel")
	flag.IntVar(&opts.maxPasses, "passes", 4, "Number of progressive passes")
	flag.IntVar(&opts.workers, "workers", 0, "Number of parallel workers (0 = auto-detect CPU count)")
	flag.IntVar(&opts.maxRetries, "max-retries", csg.DefaultConfig().MaxRetries, "Retry cap for composite intersection searches")
	flag.StringVar(&opts.scenesDir, "scenes-dir", "", "Directory with .zy scene scripts (default: search near the working directory)")
	flag.StringVar(&opts.output, "output", "", "Output PNG path (default: output/<scene>/render_<timestamp>.png)")
	flag.BoolVar(&opts.publish, "publish", false, "Upload the render to the S3 bucket configured in the environment")
	list := flag.Bool("list", false, "List available scenes and exit")
	help := flag.Bool("help", false, "Show help information")
	flag.Parse()

	if *help {
		fmt.Println("CSG Raytracer")
		fmt.Println("Usage: raytracer [options]")
		fmt.Println()
		fmt.Println("Options:")
		flag.PrintDefaults()
		fmt.Println()
		fmt.Println("Publishing reads S3_BUCKET, S3_ACCESS_KEY, S3_SECRET_KEY, S3_REGION, S3_ENDPOINT, S3_PREFIX and CDN_URL,")
		fmt.Println("also from a .env file in the working directory.")
		return
	}

	// A missing .env file is fine
	_ = godotenv.Load()

	logger := core.NewDefaultLogger()
	if *list {
		if err := listScenes(opts.scenesDir); err != nil {
			logger.Printf("Error listing scenes: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := run(context.Background(), opts, logger); err != nil {
		logger.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}

// listScenes prints every scene ID by group
func listScenes(dir string) error {
	if dir == "" {
		dir = scene.FindScenesDir()
	}
	response, err := scene.ListAllScenes(dir)
	if err != nil {
		return err
	}
	for _, group := range response.Groups {
		fmt.Printf("%s:\n", group.Name)
		for _, info := range group.Scenes {
			fmt.Printf("  %-20s %s\n", info.ID, info.Description)
		}
	}
	return nil
}

// newLoader creates a scene loader whose composites use the given retry cap
func newLoader(dir string, maxRetries int, logger core.Logger) *scene.Loader {
	cfg := csg.Config{MaxRetries: maxRetries, Logger: logger}
	return &scene.Loader{Dir: dir, Engine: script.NewEngine(cfg)}
}

// createScene resolves sceneType to a scene. Paths ending in .zy are read
// directly; everything else goes through the loader.
func createScene(loader *scene.Loader, sceneType string, cfg csg.Config) (*scene.Scene, error) {
	if sceneType == "" {
		return nil, errors.New("no scene given")
	}

	var s *scene.Scene
	var err error
	if strings.HasSuffix(sceneType, scene.ScriptExt) {
		var source []byte
		source, err = os.ReadFile(sceneType)
		if err != nil {
			return nil, errors.Wrapf(err, "reading %s", sceneType)
		}
		s, err = loader.FromSource(sceneBaseName(sceneType), string(source))
	} else {
		s, err = loader.Load(sceneType)
	}
	if err != nil {
		return nil, err
	}

	// Built-in scenes are constructed with the package defaults
	s.Configure(cfg)
	return s, nil
}

// sceneBaseName turns a scene argument into a file-system friendly name
func sceneBaseName(sceneType string) string {
	name := strings.TrimPrefix(sceneType, "script:")
	name = strings.TrimSuffix(filepath.Base(name), scene.ScriptExt)
	if name == "" || name == "." || name == string(filepath.Separator) {
		return "scene"
	}
	return name
}

// createOutputDir returns output/<scene>, creating it if needed
func createOutputDir(sceneType string) string {
	outputDir := filepath.Join("output", sceneBaseName(sceneType))
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return ""
	}
	return outputDir
}

// run renders one scene to a PNG and optionally publishes it
func run(ctx context.Context, opts options, logger core.Logger) error {
	if opts.width <= 0 || opts.height <= 0 {
		return errors.Errorf("invalid image size %dx%d", opts.width, opts.height)
	}
	if opts.supersample < 1 {
		opts.supersample = 1
	}

	cfg := csg.Config{MaxRetries: opts.maxRetries, Logger: logger}
	loader := newLoader(opts.scenesDir, opts.maxRetries, logger)
	selectedScene, err := createScene(loader, opts.sceneType, cfg)
	if err != nil {
		return err
	}
	logger.Printf("Rendering %q: %d nodes, %d primitives\n",
		selectedScene.Name, selectedScene.GetNodeCount(), selectedScene.GetPrimitiveCount())

	width, height := opts.width*opts.supersample, opts.height*opts.supersample
	config := renderer.DefaultProgressiveConfig()
	config.MaxSamplesPerPixel = opts.maxSamples
	config.MaxPasses = opts.maxPasses
	config.NumWorkers = opts.workers

	startTime := time.Now()
	raytracer := renderer.NewProgressiveRaytracer(selectedScene, width, height, config, logger)
	passChan, _, errChan := raytracer.RenderProgressive(ctx, renderer.RenderOptions{})

	var final renderer.PassResult
	for result := range passChan {
		final = result
	}
	if err := <-errChan; err != nil {
		return err
	}
	if final.Image == nil {
		return errors.New("render produced no image")
	}

	stats := final.Stats
	logger.Printf("Render completed in %v\n", time.Since(startTime))
	logger.Printf("Samples per pixel: %.1f (range %d - %d)\n", stats.AverageSamples, stats.MinSamples, stats.MaxSamplesUsed)
	logger.Printf("Last pass: %d primary rays, %d hits, %d of %d shadow rays occluded\n",
		stats.PrimaryRays, stats.Hits, stats.Occluded, stats.ShadowRays)

	img := renderer.Downsample(final.Image, opts.supersample)
	logger.Printf("Average luminance: %.3f\n", renderer.CalculateAverageLuminance(img))

	filename := opts.output
	if filename == "" {
		outputDir := createOutputDir(opts.sceneType)
		if outputDir == "" {
			return errors.New("could not create output directory")
		}
		filename = filepath.Join(outputDir, fmt.Sprintf("render_%s.png", time.Now().Format("20060102_150405")))
	}
	if err := savePNG(filename, img); err != nil {
		return err
	}
	logger.Printf("Render saved as %s\n", filename)

	if opts.publish {
		publisher, err := publish.New(publish.ConfigFromEnv(), logger)
		if err != nil {
			return err
		}
		url, err := publisher.PublishImage(ctx, img, publisher.Key(opts.sceneType, time.Now()))
		if err != nil {
			return err
		}
		logger.Printf("Published to %s\n", url)
	}
	return nil
}

func savePNG(filename string, img image.Image) error {
	if dir := filepath.Dir(filename); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return errors.Wrap(err, "creating output directory")
		}
	}
	file, err := os.Create(filename)
	if err != nil {
		return errors.Wrap(err, "creating file")
	}
	defer file.Close()

	if err := png.Encode(file, img); err != nil {
		return errors.Wrap(err, "saving PNG")
	}
	return file.Close()
}
