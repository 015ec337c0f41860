package convert

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"

	"css2rust/gen"
	"css2rust/state"
)

func TestCollectInputs(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.css", "sub/b.CSS", "sub/skip.txt", "c.scss"} {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(".x { color: red; }"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	inputs, err := collectInputs(dir)
	if err != nil {
		t.Fatalf("collectInputs() error = %v", err)
	}
	if len(inputs) != 2 {
		t.Fatalf("expected 2 css files, got %v", inputs)
	}

	single, err := collectInputs(filepath.Join(dir, "a.css"))
	if err != nil || len(single) != 1 {
		t.Fatalf("single file input failed: %v %v", single, err)
	}

	if _, err := collectInputs(filepath.Join(dir, "c.scss")); err == nil {
		t.Error("expected non-css file to be rejected")
	}
	if _, err := collectInputs(filepath.Join(dir, "missing.css")); err == nil {
		t.Error("expected missing input to fail")
	}
}

func TestWriteFiles(t *testing.T) {
	dst := filepath.Join(t.TempDir(), "generated")
	env := &state.LocalEnv{}
	files := []gen.File{
		{Name: "button.rs", Content: "pub fn button() {}\n"},
		{Name: "mod.rs", Content: "pub mod button;\n"},
	}

	if err := writeFiles(env, dst, files, zap.NewNop()); err != nil {
		t.Fatalf("writeFiles() error = %v", err)
	}
	data, err := os.ReadFile(filepath.Join(dst, "button.rs"))
	if err != nil || !strings.Contains(string(data), "pub fn button()") {
		t.Fatalf("generated file not written: %v", err)
	}

	// second run without overwrite must refuse
	if err := writeFiles(env, dst, files, zap.NewNop()); err == nil {
		t.Fatal("expected existing output to be protected")
	}

	env.Overwrite = true
	if err := writeFiles(env, dst, files, zap.NewNop()); err != nil {
		t.Fatalf("overwrite run failed: %v", err)
	}
}

func TestCollapseComponents(t *testing.T) {
	comps := []*gen.Component{
		gen.BuiltinUtilities(),
		{Name: "button", Animations: []gen.Animation{{Name: "pulse"}}},
	}
	single := collapseComponents(comps)
	if len(single) != 1 || single[0].Name != "styles" {
		t.Fatalf("unexpected collapse result: %+v", single)
	}
	if len(single[0].Sheets) == 0 || len(single[0].Animations) != 1 {
		t.Errorf("collapse lost content: %+v", single[0])
	}
}
