// Package script evaluates scene descriptions written in a small Lisp dialect
// and turns them into CSG scene graphs. It wraps zygomys in a sandbox; every
// evaluation gets a fresh environment.
package script

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/df07/go-csg-raytracer/pkg/core"
	"github.com/df07/go-csg-raytracer/pkg/csg"
	zygo "github.com/glycerine/zygomys/zygo"
	"github.com/pkg/errors"
)

// EvalError is a problem in the user's source, such as a parse error or a
// builtin rejecting its arguments
type EvalError struct {
	Line    int
	Message string
}

func (e EvalError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Message)
	}
	return e.Message
}

// Result is what a script produced
type Result struct {
	Root   core.SceneObject // nil if the script built no object
	Camera *Camera          // nil unless the script called camera
	Light  *core.Vec3       // Unit direction of travel; nil unless the script called light
	Title  string
}

// Engine evaluates scene scripts. It is safe for concurrent use.
type Engine struct {
	mu         sync.Mutex
	generation uint64
	current    *atomic.Bool // Stop flag of the newest run
	timeout    time.Duration
	cfg        csg.Config
}

// NewEngine creates an engine whose composites are configured with cfg
func NewEngine(cfg csg.Config) *Engine {
	return &Engine{cfg: cfg, timeout: EvalTimeout}
}

// Evaluate runs source and returns the scene it describes.
//
//   - On success: result, nil, nil
//   - On a problem in the source: nil, eval errors, nil
//   - On timeout, panic or a superseded run: nil, nil, error
//
// A run that times out or is superseded is stopped at its next function call.
func (e *Engine) Evaluate(source string) (*Result, []EvalError, error) {
	stop := new(atomic.Bool)

	e.mu.Lock()
	e.generation++
	gen := e.generation
	if e.current != nil {
		e.current.Store(true)
	}
	e.current = stop
	e.mu.Unlock()

	ch := make(chan evalResult, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				if r == errCancelled {
					ch <- evalResult{err: errCancelled}
					return
				}
				ch <- evalResult{err: errors.Errorf("panic during evaluation: %v", r)}
			}
		}()
		result, evalErrs := e.evaluate(source, stop)
		ch <- evalResult{result: result, errors: evalErrs}
	}()

	return waitWithTimeout(ch, gen, e.timeout, stop, &e.mu, &e.generation)
}

func (e *Engine) evaluate(source string, stop *atomic.Bool) (*Result, []EvalError) {
	if strings.TrimSpace(source) == "" {
		return &Result{}, nil
	}

	env := zygo.NewZlispSandbox()
	defer env.Stop()
	env.AddPreHook(cancelHook(stop))

	b := &builder{}
	registerBuiltins(env, b)

	if err := env.LoadString(preprocessSource(source)); err != nil {
		return nil, parseZygomysError(err)
	}
	last, err := env.Run()
	if err != nil {
		return nil, parseZygomysError(err)
	}

	root := b.root
	if root == nil {
		if o, ok := last.(*sexpObject); ok {
			root = o.object
		}
	}
	if root != nil {
		csg.Configure(root, e.cfg)
	}
	return &Result{Root: root, Camera: b.camera, Light: b.light, Title: b.title}, nil
}

// linePattern matches "Error on line N: ..." as zygomys reports parse errors
var linePattern = regexp.MustCompile(`(?i)(?:error )?on line (\d+):\s*(.*)`)

// linePatternShort matches "line N: ..."
var linePatternShort = regexp.MustCompile(`(?i)^line (\d+):\s*(.*)`)

// parseZygomysError extracts line information from a zygomys error
func parseZygomysError(err error) []EvalError {
	msg := err.Error()
	for _, pattern := range []*regexp.Regexp{linePattern, linePatternShort} {
		if m := pattern.FindStringSubmatch(msg); m != nil {
			line, _ := strconv.Atoi(m[1])
			return []EvalError{{Line: line, Message: strings.TrimSpace(m[2])}}
		}
	}
	return []EvalError{{Message: strings.TrimSpace(msg)}}
}
