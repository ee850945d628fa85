package scene

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/df07/go-csg-raytracer/pkg/csg"
	"github.com/df07/go-csg-raytracer/pkg/script"
	"github.com/pkg/errors"
)

// Loader resolves scene IDs to scenes: plain IDs name built-in scenes and
// "script:<name>" IDs name scripts in Dir
type Loader struct {
	Dir    string // Scenes directory; "" means FindScenesDir
	Engine *script.Engine
}

// Load builds the scene with the given ID
func (l *Loader) Load(id string) (*Scene, error) {
	name, isScript := strings.CutPrefix(id, "script:")
	if !isScript {
		s, err := NewBuiltinScene(id)
		if err != nil {
			return nil, err
		}
		return s, s.Preprocess()
	}

	dir := l.Dir
	if dir == "" {
		dir = FindScenesDir()
	}
	if dir == "" {
		return nil, errors.Wrapf(ErrUnknownScene, "%s: no scenes directory", id)
	}
	path := filepath.Join(dir, name+ScriptExt)
	source, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrapf(ErrUnknownScene, "%s: %s not found", id, path)
		}
		return nil, errors.Wrapf(err, "reading %s", path)
	}

	info, err := ParseScriptMetadata(path)
	if err != nil {
		return nil, err
	}
	return l.FromSource(info.DisplayName, string(source))
}

// FromSource evaluates a scene script. The script's title, when it sets one,
// replaces name.
func (l *Loader) FromSource(name, source string) (*Scene, error) {
	if l.Engine == nil {
		l.Engine = script.NewEngine(csg.DefaultConfig())
	}
	result, evalErrs, err := l.Engine.Evaluate(source)
	if err != nil {
		return nil, errors.Wrapf(err, "evaluating %s", name)
	}
	if len(evalErrs) > 0 {
		return nil, &ScriptError{Scene: name, Errors: evalErrs}
	}
	if result.Title != "" {
		name = result.Title
	}

	s := New(name, result.Root)
	if result.Camera != nil {
		s.CameraConfig = MergeCameraConfig(s.CameraConfig, CameraConfig{
			Center: result.Camera.From,
			LookAt: result.Camera.At,
			Up:     result.Camera.Up,
			VFov:   result.Camera.VFov,
		})
	}
	if result.Light != nil {
		s.Light = *result.Light
	}
	return s, s.Preprocess()
}

// ScriptError reports the problems found in a scene script
type ScriptError struct {
	Scene  string
	Errors []script.EvalError
}

func (e *ScriptError) Error() string {
	messages := make([]string, len(e.Errors))
	for i, evalErr := range e.Errors {
		messages[i] = evalErr.Error()
	}
	return "scene " + e.Scene + ": " + strings.Join(messages, "; ")
}
