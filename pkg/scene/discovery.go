package scene

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pkg/errors"
)

// ScriptExt is the file extension of scene scripts
const ScriptExt = ".zy"

const scriptGroup = "Script Scenes"

// SceneInfo represents a discovered scene with its metadata
type SceneInfo struct {
	ID          string `json:"id"`          // Unique identifier
	Name        string `json:"name"`        // Scene name
	DisplayName string `json:"displayName"` // UI display name
	Description string `json:"description"` // Optional description
	Group       string `json:"group"`       // Grouping category
	Type        string `json:"type"`        // "builtin" or "script"
	FilePath    string `json:"filePath"`    // Path to the script (script type only)
	Variant     string `json:"variant"`     // Variant name (optional)
}

// SceneGroup represents a group of related scenes
type SceneGroup struct {
	Name   string      `json:"name"`
	Scenes []SceneInfo `json:"scenes"`
}

// ScenesResponse lists every known scene by group
type ScenesResponse struct {
	Groups []SceneGroup `json:"groups"`
}

// FindScenesDir returns the first existing scenes directory near the working
// directory, or "" if there is none
func FindScenesDir() string {
	for _, path := range []string{"scenes", "../scenes", "../../scenes"} {
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			return path
		}
	}
	return ""
}

// ListScriptScenes returns the scene scripts in dir sorted by display name. An
// empty dir means FindScenesDir; a missing directory yields an empty list.
func ListScriptScenes(dir string) ([]SceneInfo, error) {
	if dir == "" {
		dir = FindScenesDir()
	}
	scenes := []SceneInfo{}
	if dir == "" {
		return scenes, nil
	}

	files, err := filepath.Glob(filepath.Join(dir, "*"+ScriptExt))
	if err != nil {
		return nil, errors.Wrap(err, "failed to scan scenes directory")
	}

	for _, filePath := range files {
		info, err := ParseScriptMetadata(filePath)
		if err != nil {
			// Keep going; one unreadable header should not hide the rest
			fmt.Printf("Warning: failed to parse metadata for %s: %v\n", filePath, err)
			continue
		}
		scenes = append(scenes, info)
	}

	sort.Slice(scenes, func(i, j int) bool {
		return scenes[i].DisplayName < scenes[j].DisplayName
	})
	return scenes, nil
}

// ParseScriptMetadata reads the header comments of a scene script:
//
//	; Scene: Lens
//	; Variant: Wide
//	; Description: Two spheres intersected
//	; Group: Booleans
//
// Both ; and // comments are accepted. Parsing stops at the first line that is
// not a comment; a missing file yields the fallback values.
func ParseScriptMetadata(filePath string) (SceneInfo, error) {
	base := strings.TrimSuffix(filepath.Base(filePath), filepath.Ext(filePath))
	info := SceneInfo{
		ID:          "script:" + base,
		Name:        titleCase(base),
		DisplayName: titleCase(base),
		Group:       scriptGroup,
		Type:        "script",
		FilePath:    filePath,
	}

	file, err := os.Open(filePath)
	if err != nil {
		return info, nil
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		content, ok := commentText(scanner.Text())
		if !ok {
			break
		}
		key, value, found := strings.Cut(content, ":")
		if !found {
			continue
		}
		value = strings.TrimSpace(value)
		switch strings.TrimSpace(key) {
		case "Scene":
			if value != "" {
				info.Name = value
			}
		case "Variant":
			info.Variant = value
		case "Description":
			info.Description = value
		case "Group":
			if value != "" {
				info.Group = value
			}
		}
	}

	info.DisplayName = info.Name
	if info.Variant != "" {
		info.DisplayName = fmt.Sprintf("%s - %s", info.Name, info.Variant)
	}
	return info, scanner.Err()
}

// commentText strips a leading ; or // comment marker. Blank lines count as
// comments so a header may be spaced out.
func commentText(line string) (string, bool) {
	line = strings.TrimSpace(line)
	switch {
	case line == "":
		return "", true
	case strings.HasPrefix(line, ";"):
		return strings.TrimSpace(strings.TrimLeft(line, ";")), true
	case strings.HasPrefix(line, "//"):
		return strings.TrimSpace(strings.TrimPrefix(line, "//")), true
	}
	return "", false
}

// ListAllScenes returns the built-in scenes followed by the scripts in dir,
// grouped by category
func ListAllScenes(dir string) (ScenesResponse, error) {
	var response ScenesResponse

	scripts, err := ListScriptScenes(dir)
	if err != nil {
		return response, errors.Wrap(err, "failed to list script scenes")
	}
	allScenes := append(BuiltinScenes(), scripts...)

	groupMap := make(map[string][]SceneInfo)
	for _, s := range allScenes {
		groupMap[s.Group] = append(groupMap[s.Group], s)
	}

	// Built-in first, then alphabetical
	var groupNames []string
	for name := range groupMap {
		if name != builtinGroup {
			groupNames = append(groupNames, name)
		}
	}
	sort.Strings(groupNames)

	if group, ok := groupMap[builtinGroup]; ok {
		response.Groups = append(response.Groups, SceneGroup{Name: builtinGroup, Scenes: group})
	}
	for _, name := range groupNames {
		response.Groups = append(response.Groups, SceneGroup{Name: name, Scenes: groupMap[name]})
	}
	return response, nil
}

// titleCase converts a filename-style string to title case
// e.g., "cornell-empty" -> "Cornell Empty"
func titleCase(s string) string {
	s = strings.ReplaceAll(s, "-", " ")
	s = strings.ReplaceAll(s, "_", " ")

	words := strings.Fields(s)
	for i, word := range words {
		words[i] = strings.ToUpper(word[:1]) + strings.ToLower(word[1:])
	}
	return strings.Join(words, " ")
}
