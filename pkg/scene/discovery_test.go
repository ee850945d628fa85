package scene

import (
	"os"
	"path/filepath"
	"testing"
)

func TestTitleCase(t *testing.T) {
	testCases := []struct {
		input    string
		expected string
	}{
		{"rounded-die", "Rounded Die"},
		{"hex_nut", "Hex Nut"},
		{"my-custom-scene", "My Custom Scene"},
		{"simple", "Simple"},
		{"UPPER-case", "Upper Case"},
		{"", ""},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			result := titleCase(tc.input)
			if result != tc.expected {
				t.Errorf("titleCase(%q) = %q, want %q", tc.input, result, tc.expected)
			}
		})
	}
}

func writeScript(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write %s: %v", path, err)
	}
	return path
}

func TestParseScriptMetadata(t *testing.T) {
	testCases := []struct {
		name     string
		content  string
		expected SceneInfo
	}{
		{
			name: "complete.zy",
			content: `; Scene: Lens
; Variant: Wide
; Description: Two spheres intersected
; Group: Booleans

(intersect (sphere) (sphere :center (vec3 1 0 0)))`,
			expected: SceneInfo{
				ID:          "script:complete",
				Name:        "Lens",
				DisplayName: "Lens - Wide",
				Description: "Two spheres intersected",
				Group:       "Booleans",
				Type:        "script",
				Variant:     "Wide",
			},
		},
		{
			name: "slashes.zy",
			content: `// Scene: Bowl
;; Description: Hemisphere with a foot
(sphere)`,
			expected: SceneInfo{
				ID:          "script:slashes",
				Name:        "Bowl",
				DisplayName: "Bowl",
				Description: "Hemisphere with a foot",
				Group:       "Script Scenes",
				Type:        "script",
			},
		},
		{
			name: "no_metadata.zy",
			content: `(sphere)
; Scene: Ignored after code`,
			expected: SceneInfo{
				ID:          "script:no_metadata",
				Name:        "No Metadata",
				DisplayName: "No Metadata",
				Group:       "Script Scenes",
				Type:        "script",
			},
		},
	}

	dir := t.TempDir()
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			path := writeScript(t, dir, tc.name, tc.content)
			tc.expected.FilePath = path

			result, err := ParseScriptMetadata(path)
			if err != nil {
				t.Fatalf("ParseScriptMetadata() error: %v", err)
			}
			if result != tc.expected {
				t.Errorf("ParseScriptMetadata() = %+v, want %+v", result, tc.expected)
			}
		})
	}
}

func TestParseScriptMetadata_MissingFile(t *testing.T) {
	result, err := ParseScriptMetadata(filepath.Join(t.TempDir(), "missing.zy"))
	if err != nil {
		t.Errorf("ParseScriptMetadata() should handle missing files gracefully: %v", err)
	}
	if result.ID != "script:missing" || result.DisplayName != "Missing" {
		t.Errorf("Expected fallback values, got %+v", result)
	}
}

func TestListScriptScenes(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "b.zy", "; Scene: Zeta\n(sphere)")
	writeScript(t, dir, "a.zy", "; Scene: Alpha\n(sphere)")
	writeScript(t, dir, "notes.txt", "; Scene: Not a script")

	scenes, err := ListScriptScenes(dir)
	if err != nil {
		t.Fatalf("ListScriptScenes() error: %v", err)
	}
	if len(scenes) != 2 {
		t.Fatalf("Expected 2 scripts, got %d", len(scenes))
	}
	if scenes[0].DisplayName != "Alpha" || scenes[1].DisplayName != "Zeta" {
		t.Errorf("Expected scenes sorted by display name, got %q then %q",
			scenes[0].DisplayName, scenes[1].DisplayName)
	}

	empty, err := ListScriptScenes(filepath.Join(dir, "nowhere"))
	if err != nil {
		t.Errorf("ListScriptScenes() error for missing directory: %v", err)
	}
	if empty == nil || len(empty) != 0 {
		t.Errorf("Expected an empty, non-nil list, got %v", empty)
	}
}

func TestListAllScenes(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "bowl.zy", "; Scene: Bowl\n; Group: Vessels\n(sphere)")

	response, err := ListAllScenes(dir)
	if err != nil {
		t.Fatalf("ListAllScenes() error: %v", err)
	}
	if len(response.Groups) != 2 {
		t.Fatalf("Expected built-in and Vessels groups, got %d groups", len(response.Groups))
	}
	if response.Groups[0].Name != builtinGroup {
		t.Errorf("Expected built-in scenes first, got %q", response.Groups[0].Name)
	}
	if n := len(response.Groups[0].Scenes); n != len(BuiltinScenes()) {
		t.Errorf("Built-in scenes count = %d, want %d", n, len(BuiltinScenes()))
	}
	vessels := response.Groups[1]
	if vessels.Name != "Vessels" || len(vessels.Scenes) != 1 || vessels.Scenes[0].ID != "script:bowl" {
		t.Errorf("Expected Vessels group holding script:bowl, got %+v", vessels)
	}

	for _, group := range response.Groups {
		for _, s := range group.Scenes {
			if s.ID == "" || s.DisplayName == "" {
				t.Errorf("Scene with empty fields: %+v", s)
			}
			if s.Type != "builtin" && s.Type != "script" {
				t.Errorf("Invalid scene type: %s", s.Type)
			}
		}
	}
}
