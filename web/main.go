package main

import (
	"flag"
	"log"
	"os"

	"github.com/df07/go-csg-raytracer/pkg/core"
	"github.com/df07/go-csg-raytracer/pkg/csg"
	"github.com/df07/go-csg-raytracer/pkg/scene"
	"github.com/df07/go-csg-raytracer/pkg/script"
	"github.com/df07/go-csg-raytracer/web/server"
	"github.com/joho/godotenv"
)

func main() {
	port := flag.Int("port", 8080, "Port to serve on")
	scenesDir := flag.String("scenes-dir", "", "Directory with .zy scene scripts (default: search near the working directory)")
	maxRetries := flag.Int("max-retries", csg.DefaultConfig().MaxRetries, "Retry cap for composite intersection searches")
	flag.Parse()

	_ = godotenv.Load()

	cfg := csg.Config{MaxRetries: *maxRetries, Logger: core.NewDefaultLogger()}
	loader := &scene.Loader{Dir: *scenesDir, Engine: script.NewEngine(cfg)}
	webServer := server.NewServer(*port, loader)

	log.Printf("CSG Raytracer Web Server")
	log.Printf("Visit http://localhost:%d to start rendering", *port)

	if err := webServer.Start(); err != nil {
		log.Printf("Error starting server: %v", err)
		os.Exit(1)
	}
}
