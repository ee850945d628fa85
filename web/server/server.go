package server

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"

	"github.com/df07/go-csg-raytracer/pkg/csg"
	"github.com/df07/go-csg-raytracer/pkg/scene"
	"github.com/df07/go-csg-raytracer/pkg/script"
	"github.com/pkg/errors"
)

// DefaultTileSize is the tile edge used for streamed renders
const DefaultTileSize = 32

// maxScriptBytes bounds the body of an evaluate request
const maxScriptBytes = 1 << 20

// Server handles web requests for the CSG raytracer
type Server struct {
	port   int
	loader *scene.Loader
	editor *scene.Loader // Own engine, so editor posts only supersede each other
}

// NewServer creates a new web server that resolves scenes through loader
func NewServer(port int, loader *scene.Loader) *Server {
	if loader.Engine == nil {
		loader.Engine = script.NewEngine(csg.DefaultConfig())
	}
	return &Server{
		port:   port,
		loader: loader,
		editor: &scene.Loader{Dir: loader.Dir, Engine: script.NewEngine(csg.DefaultConfig())},
	}
}

// RenderRequest holds the parameters shared by render and inspect requests
type RenderRequest struct {
	Scene      string `json:"scene"`      // Scene ID, e.g. "lens" or "script:bowl"
	Width      int    `json:"width"`      // Image width
	Height     int    `json:"height"`     // Image height
	MaxSamples int    `json:"maxSamples"` // Maximum samples per pixel
	MaxPasses  int    `json:"maxPasses"`  // Maximum number of passes
}

// Handler returns the API routes plus the static file server
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/", http.FileServer(http.Dir("static/")))
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/scenes", s.handleScenes)
	mux.HandleFunc("/api/evaluate", s.handleEvaluate)
	mux.HandleFunc("/api/render", s.handleRender)
	mux.HandleFunc("/api/inspect", s.handleInspect)
	return mux
}

// Start starts the web server
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.port)
	log.Printf("Starting web server on http://localhost%s", addr)
	return http.ListenAndServe(addr, s.Handler())
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// handleHealth provides a simple health check endpoint
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleScenes lists built-in and script scenes by group
func (s *Server) handleScenes(w http.ResponseWriter, r *http.Request) {
	dir := s.loader.Dir
	if dir == "" {
		dir = scene.FindScenesDir()
	}
	response, err := scene.ListAllScenes(dir)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, response)
}

// EvaluateError is one problem found in a posted script
type EvaluateError struct {
	Line    int    `json:"line"`
	Message string `json:"message"`
}

// EvaluateResponse summarises a posted script without rendering it
type EvaluateResponse struct {
	OK             bool            `json:"ok"`
	Title          string          `json:"title,omitempty"`
	NodeCount      int             `json:"nodeCount"`
	PrimitiveCount int             `json:"primitiveCount"`
	Errors         []EvaluateError `json:"errors,omitempty"`
}

// handleEvaluate checks a script posted as the request body. Editors post on
// every keystroke; a request overtaken by a newer one reports a conflict.
func (s *Server) handleEvaluate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "POST a scene script")
		return
	}
	source, err := io.ReadAll(io.LimitReader(r.Body, maxScriptBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	sceneObj, err := s.editor.FromSource("untitled", string(source))
	var scriptErr *scene.ScriptError
	switch {
	case errors.As(err, &scriptErr):
		response := EvaluateResponse{}
		for _, e := range scriptErr.Errors {
			response.Errors = append(response.Errors, EvaluateError{Line: e.Line, Message: e.Message})
		}
		writeJSON(w, http.StatusOK, response)
	case errors.Is(err, scene.ErrNoRoot):
		writeJSON(w, http.StatusOK, EvaluateResponse{Errors: []EvaluateError{{Message: "script builds no object"}}})
	case err != nil:
		writeError(w, http.StatusConflict, err.Error())
	default:
		writeJSON(w, http.StatusOK, EvaluateResponse{
			OK:             true,
			Title:          sceneObj.Name,
			NodeCount:      sceneObj.GetNodeCount(),
			PrimitiveCount: sceneObj.GetPrimitiveCount(),
		})
	}
}

// parseCommonSceneParams reads the scene and image size
func (s *Server) parseCommonSceneParams(r *http.Request, req *RenderRequest) error {
	query := r.URL.Query()
	req.Scene = query.Get("scene")
	if req.Scene == "" {
		req.Scene = "default"
	}

	var err error
	if req.Width, err = parseIntParam(query, "width", 400, 16, 2000); err != nil {
		return err
	}
	if req.Height, err = parseIntParam(query, "height", 300, 16, 2000); err != nil {
		return err
	}
	return nil
}

// parseIntParam parses an integer parameter from URL query with validation
func parseIntParam(values url.Values, key string, defaultValue, min, max int) (int, error) {
	value := values.Get(key)
	if value == "" {
		return defaultValue, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, errors.Errorf("invalid %s: %s", key, value)
	}
	if parsed < min || parsed > max {
		return 0, errors.Errorf("%s must be between %d and %d, got: %d", key, min, max, parsed)
	}
	return parsed, nil
}

// createScene loads the requested scene
func (s *Server) createScene(req *RenderRequest) (*scene.Scene, error) {
	return s.loader.Load(req.Scene)
}
