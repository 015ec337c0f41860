package convert

import (
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"

	"css2rust/config"
	"css2rust/css"
	"css2rust/gen"
	"css2rust/style"
)

func componentCfg() config.GeneratorConfig {
	return config.GeneratorConfig{
		Grouping:        config.GroupingModeComponent,
		ExtractVariants: true,
		ModuleDoc:       "Style modules",
	}
}

func parseAdd(t *testing.T, b *Builder, src, stem string) {
	t.Helper()
	sheet := css.NewParser(zap.NewNop()).Parse([]byte(src), stem)
	if err := b.AddStylesheet(sheet, stem); err != nil {
		t.Fatalf("unexpected build failure: %v", err)
	}
}

func generate(t *testing.T, comps []*gen.Component) map[string]string {
	t.Helper()
	files, err := gen.New(zap.NewNop(), "Style modules").Generate(comps)
	if err != nil {
		t.Fatalf("unexpected generation failure: %v", err)
	}
	byName := make(map[string]string, len(files))
	for _, f := range files {
		byName[f.Name] = f.Content
	}
	return byName
}

func TestBuildComponentGrouping(t *testing.T) {
	b := NewBuilder(zap.NewNop(), componentCfg(), nil)
	parseAdd(t, b, `
.btn { display: inline-block; }
.btn:hover { opacity: 0.9; }
.btn-secondary { background-color: gray; }
.card { padding: 16px; }
.card h2 { margin: 0; }
`, "styles")

	comps := b.Components()
	if len(comps) != 2 {
		t.Fatalf("expected button and card components, got %d", len(comps))
	}

	files := generate(t, comps)
	button := files["button.rs"]
	for _, want := range []string{
		"pub fn btn() -> Style {",
		"pub fn btn_secondary() -> Style {",
		"&:hover {",
		"opacity: 0.9;",
	} {
		if !strings.Contains(button, want) {
			t.Errorf("button.rs missing %q:\n%s", want, button)
		}
	}

	card := files["card.rs"]
	if !strings.Contains(card, "h2 {") || !strings.Contains(card, "margin: 0;") {
		t.Errorf("descendant rule lost:\n%s", card)
	}

	mod := files["mod.rs"]
	if !strings.Contains(mod, "pub mod button;") || !strings.Contains(mod, "pub mod card;") {
		t.Errorf("mod.rs incomplete:\n%s", mod)
	}
}

func TestBuildAncestorPseudo(t *testing.T) {
	b := NewBuilder(zap.NewNop(), componentCfg(), nil)
	parseAdd(t, b, `.card:hover h2 { color: red; }`, "styles")

	files := generate(t, b.Components())
	content := files["card.rs"]

	hover := strings.Index(content, "&:hover {")
	inner := strings.Index(content, "h2 {")
	if hover < 0 {
		t.Fatalf("pseudo state on the ancestor part lost:\n%s", content)
	}
	if inner < 0 || inner < hover {
		t.Fatalf("descendant block must nest inside the pseudo block:\n%s", content)
	}
	if !strings.Contains(content, "color: red;") {
		t.Errorf("declarations lost:\n%s", content)
	}
}

func TestBuildMidChainPseudo(t *testing.T) {
	b := NewBuilder(zap.NewNop(), componentCfg(), nil)
	parseAdd(t, b, `.menu > li:hover a { color: blue; }`, "styles")

	files := generate(t, b.Components())
	content := files["menu.rs"]

	if !strings.Contains(content, "> li:hover {") {
		t.Fatalf("pseudo state on a mid-chain part lost:\n%s", content)
	}
	if !strings.Contains(content, "a {") {
		t.Fatalf("leaf block lost:\n%s", content)
	}
	if strings.Contains(content, "> li {") {
		t.Errorf("mid-chain part emitted without its pseudo state:\n%s", content)
	}
}

func TestBuildFileGrouping(t *testing.T) {
	cfg := componentCfg()
	cfg.Grouping = config.GroupingModeFile

	b := NewBuilder(zap.NewNop(), cfg, nil)
	parseAdd(t, b, `.btn { color: red; } .card { color: blue; }`, "theme")

	comps := b.Components()
	if len(comps) != 1 || comps[0].Name != "theme" {
		t.Fatalf("expected single theme component, got %+v", comps)
	}
	if len(comps[0].Sheets) != 2 {
		t.Fatalf("expected 2 sheets, got %d", len(comps[0].Sheets))
	}
}

func TestBuildMediaBlocks(t *testing.T) {
	b := NewBuilder(zap.NewNop(), componentCfg(), nil)
	parseAdd(t, b, `
.container { width: 100%; }

@media (max-width: 768px) {
    .container { padding: 8px; }
}
@media (max-width: 768px) {
    .container { margin: 0; }
}
`, "layout")

	files := generate(t, b.Components())
	content := files["container.rs"]
	if !strings.Contains(content, "@media (max-width: 768px) {") {
		t.Fatalf("media block lost:\n%s", content)
	}
	// both blocks share one condition, declarations merge into one child
	if strings.Count(content, "@media") != 1 {
		t.Errorf("same condition should merge into a single block:\n%s", content)
	}
	for _, want := range []string{"padding: 8px;", "margin: 0;"} {
		if !strings.Contains(content, want) {
			t.Errorf("media declaration %q lost:\n%s", want, content)
		}
	}
}

func TestBuildIncompleteMediaQuery(t *testing.T) {
	b := NewBuilder(zap.NewNop(), componentCfg(), nil)
	sheet := &css.Stylesheet{Items: []css.StylesheetItem{{
		MediaBlock: &css.MediaBlock{
			Query: css.MediaQuery{Raw: "(max-width: 768px"},
			Rules: []css.Rule{{Selector: css.Selector{Raw: ".x", Class: "x"}}},
		},
	}}}

	err := b.AddStylesheet(sheet, "broken")
	if !errors.Is(err, style.ErrMalformedMediaQuery) {
		t.Fatalf("expected malformed media query, got %v", err)
	}
}

func TestBuildAnimations(t *testing.T) {
	b := NewBuilder(zap.NewNop(), componentCfg(), nil)
	parseAdd(t, b, `
@keyframes fade-in {
    from { opacity: 0; }
    to { opacity: 1; }
}
`, "anims")

	files := generate(t, b.Components())
	content, ok := files["animations.rs"]
	if !ok {
		t.Fatalf("animations.rs missing, have %v", keysOf(files))
	}
	if !strings.Contains(content, "pub fn animation_fade_in() -> Style {") {
		t.Errorf("animation function lost:\n%s", content)
	}
}

func TestBuildAppliesMappings(t *testing.T) {
	m, err := gen.DefaultMappings()
	if err != nil {
		t.Fatal(err)
	}
	b := NewBuilder(zap.NewNop(), componentCfg(), m)
	parseAdd(t, b, `.btn { color: #007bff; padding: 16px; border: 1px solid #dee2e6; }`, "styles")

	files := generate(t, b.Components())
	content := files["button.rs"]
	for _, want := range []string{
		"color: var(--color-primary);",
		"padding: var(--spacing-md);",
		"border: 1px solid #dee2e6;",
	} {
		if !strings.Contains(content, want) {
			t.Errorf("mapping result missing %q:\n%s", want, content)
		}
	}
}

func TestComponentGroup(t *testing.T) {
	cases := []struct{ in, want string }{
		{"btn", "button"},
		{"btn-primary", "button"},
		{"button-large", "button"},
		{"card", "card"},
		{"nav-link", "navbar"},
		{"navbar", "navbar"},
		{"modal-header", "modal"},
		{"input-group", "form"},
		{"table", "table"},
		{"th", "table"},
		{"title", "title"},
		{"alert-danger", "alert"},
		{"sidebar-item", "sidebar"},
	}
	for _, c := range cases {
		if got := componentGroup(c.in); got != c.want {
			t.Errorf("componentGroup(%q) = %q, expected %q", c.in, got, c.want)
		}
	}
}

func keysOf(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	return keys
}
