package gen_test

import (
	"os"
	"path/filepath"
	"testing"

	"css2rust/gen"
)

func TestMappingsApply(t *testing.T) {
	m, err := gen.DefaultMappings()
	if err != nil {
		t.Fatalf("unable to load default mappings: %v", err)
	}

	cases := []struct {
		prop, value, want string
	}{
		{"color", "#007bff", "var(--color-primary)"},
		{"background-color", "#ffffff", "var(--color-white)"},
		{"padding", "16px", "var(--spacing-md)"},
		{"margin-top", "8px", "var(--spacing-sm)"},
		{"border-radius", "8px", "var(--radius-lg)"},
		{"font-size", "14px", "var(--font-size-base)"},
		{"font-weight", "600", "var(--font-weight-semibold)"},
		{"box-shadow", "0 1px 3px rgba(0, 0, 0, 0.1)", "var(--shadow-sm)"},
		{"transition", "all 0.3s ease", "var(--transition-base)"},
		// same literal, different category
		{"padding", "8px", "var(--spacing-sm)"},
		// unmapped values pass through
		{"color", "#123456", "#123456"},
		{"display", "flex", "flex"},
		{"border", "1px solid #dee2e6", "1px solid #dee2e6"},
	}
	for _, c := range cases {
		if got := m.Apply(c.prop, c.value); got != c.want {
			t.Errorf("Apply(%q, %q) = %q, expected %q", c.prop, c.value, got, c.want)
		}
	}
}

func TestLoadMappingsOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mappings.yaml")
	custom := `colors:
  "#007bff": "var(--brand)"
  "#ff00ff": "var(--accent)"
spacing:
  "64px": "var(--spacing-huge)"
`
	if err := os.WriteFile(path, []byte(custom), 0o644); err != nil {
		t.Fatal(err)
	}

	m, err := gen.LoadMappings(path)
	if err != nil {
		t.Fatalf("unable to load mappings: %v", err)
	}
	if got := m.Apply("color", "#007bff"); got != "var(--brand)" {
		t.Errorf("override lost: got %q", got)
	}
	if got := m.Apply("color", "#ff00ff"); got != "var(--accent)" {
		t.Errorf("new entry lost: got %q", got)
	}
	if got := m.Apply("color", "#6c757d"); got != "var(--color-secondary)" {
		t.Errorf("default entry lost: got %q", got)
	}
	if got := m.Apply("padding", "64px"); got != "var(--spacing-huge)" {
		t.Errorf("new spacing entry lost: got %q", got)
	}
}

func TestLoadMappingsRejectsUnknownCategory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mappings.yaml")
	if err := os.WriteFile(path, []byte("gradients:\n  a: b\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := gen.LoadMappings(path); err == nil {
		t.Error("expected unknown category to be rejected")
	}
}
