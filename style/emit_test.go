package style_test

import (
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"

	"css2rust/style"
)

// collapse reduces all whitespace runs to single spaces for layout-agnostic
// comparisons.
func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func TestEmit_RequiresNormalization(t *testing.T) {
	sheet := style.NewSheet("button")
	sheet.Root.AddDeclaration("display", "flex")

	_, err := style.Emit(sheet)
	if !errors.Is(err, style.ErrInvalidIR) {
		t.Errorf("expected ErrInvalidIR for non-normalized sheet, got: %v", err)
	}
}

func TestEmit_RootAndHover(t *testing.T) {
	sheet := style.NewSheet("button")
	sheet.Root.AddDeclaration("display", "flex")
	sheet.Root.AddChild(style.Pseudo("hover")).AddDeclaration("color", "red")

	if err := style.NewNormalizer(zap.NewNop()).Normalize(sheet); err != nil {
		t.Fatalf("normalize failed: %v", err)
	}
	text, err := style.Emit(sheet)
	if err != nil {
		t.Fatalf("emit failed: %v", err)
	}

	want := "{ display: flex; } &:hover { color: red; }"
	if got := collapse(text); got != want {
		t.Errorf("unexpected output:\ngot:  %s\nwant: %s", got, want)
	}
}

func TestEmit_DeclarationOrderPreserved(t *testing.T) {
	sheet := style.NewSheet("button")
	sheet.Root.AddDeclaration("display", "inline-flex")
	sheet.Root.AddDeclaration("align-items", "center")
	sheet.Root.AddDeclaration("justify-content", "center")

	if err := style.NewNormalizer(nil).Normalize(sheet); err != nil {
		t.Fatalf("normalize failed: %v", err)
	}
	text, err := style.Emit(sheet)
	if err != nil {
		t.Fatalf("emit failed: %v", err)
	}

	di := strings.Index(text, "display:")
	ai := strings.Index(text, "align-items:")
	ji := strings.Index(text, "justify-content:")
	if !(di < ai && ai < ji) {
		t.Errorf("declaration order not preserved:\n%s", text)
	}

	// one statement per line
	for line := range strings.SplitSeq(strings.TrimSpace(text), "\n") {
		if strings.Count(line, ";") > 1 {
			t.Errorf("more than one statement on a line: %q", line)
		}
	}
}

func TestEmit_NestedCombinator(t *testing.T) {
	sheet := style.NewSheet("card")
	sheet.Root.AddDeclaration("padding", "16px")
	title := sheet.Root.AddChild(style.Combinator(style.CombinatorDescendant, ".title"))
	title.AddDeclaration("font-weight", "600")
	title.AddChild(style.Pseudo("hover")).AddDeclaration("text-decoration", "underline")
	sheet.Root.AddChild(style.Combinator(style.CombinatorChild, "img")).AddDeclaration("max-width", "100%")

	if err := style.NewNormalizer(zap.NewNop()).Normalize(sheet); err != nil {
		t.Fatalf("normalize failed: %v", err)
	}
	text, err := style.Emit(sheet)
	if err != nil {
		t.Fatalf("emit failed: %v", err)
	}

	collapsed := collapse(text)
	if !strings.Contains(collapsed, ".title { font-weight: 600; &:hover { text-decoration: underline; } }") {
		t.Errorf("nested block not emitted inside its parent:\n%s", text)
	}
	if !strings.Contains(collapsed, "> img { max-width: 100%; }") {
		t.Errorf("child combinator not emitted:\n%s", text)
	}

	if err := style.CheckText(text); err != nil {
		t.Errorf("emitted text failed validation: %v\n%s", err, text)
	}
}

func TestEmit_MediaAsTopLevelSibling(t *testing.T) {
	sheet := style.NewSheet("button")
	sheet.Root.AddDeclaration("padding", "8px 16px")
	sheet.Root.AddChild(style.Pseudo("focus")).AddDeclaration("outline", "2px solid #007bff")
	media := sheet.Root.AddChild(style.Media("(max-width: 768px)"))
	media.AddDeclaration("width", "100%")
	media.AddDeclaration("padding", "12px 16px")

	if err := style.NewNormalizer(zap.NewNop()).Normalize(sheet); err != nil {
		t.Fatalf("normalize failed: %v", err)
	}
	text, err := style.Emit(sheet)
	if err != nil {
		t.Fatalf("emit failed: %v", err)
	}

	if !strings.HasPrefix(strings.TrimSpace(text), "{") {
		t.Errorf("root declarations should come first:\n%s", text)
	}
	mi := strings.Index(text, "@media (")
	if mi < 0 {
		t.Fatalf("media prelude missing or incomplete:\n%s", text)
	}
	// the media block must be at top level, not inside another block
	before := text[:mi]
	if strings.Count(before, "{") != strings.Count(before, "}") {
		t.Errorf("media block is nested inside another block:\n%s", text)
	}

	if err := style.CheckText(text); err != nil {
		t.Errorf("emitted text failed validation: %v\n%s", err, text)
	}
}

func TestEmit_RoundTrip(t *testing.T) {
	sheets := []*style.Sheet{}

	button := style.NewSheet("button")
	button.Root.AddDeclaration("display", "inline-flex")
	button.Root.AddDeclaration("cursor", "pointer")
	button.Root.AddChild(style.Pseudo("hover")).
		AddDeclaration("background", "var(--color-primary-hover)").
		AddDeclaration("transform", "translateY(-2px)")
	button.Root.AddChild(style.Pseudo("focus")).AddDeclaration("outline-offset", "2px")
	bm := button.Root.AddChild(style.Media("(max-width: 768px)"))
	bm.AddDeclaration("width", "100%")
	sheets = append(sheets, button)

	card := style.NewSheet("card")
	card.Root.AddDeclaration("box-shadow", "0 1px 3px rgba(0, 0, 0, 0.1)")
	body := card.Root.AddChild(style.Combinator(style.CombinatorDescendant, ".body"))
	body.AddDeclaration("padding", "var(--spacing-md)")
	body.AddChild(style.PseudoElement("after")).AddDeclaration("content", `""`)
	sheets = append(sheets, card)

	hidden := style.NewSheet("hidden")
	hidden.Root.AddDeclaration("display", "none")
	sheets = append(sheets, hidden)

	n := style.NewNormalizer(zap.NewNop())
	for _, sheet := range sheets {
		if err := n.Normalize(sheet); err != nil {
			t.Fatalf("sheet %s: normalize failed: %v", sheet.Name, err)
		}
		text, err := style.Emit(sheet)
		if err != nil {
			t.Fatalf("sheet %s: emit failed: %v", sheet.Name, err)
		}
		if err := style.CheckText(text); err != nil {
			t.Errorf("sheet %s: emitted text does not parse: %v\n%s", sheet.Name, err, text)
		}
	}
}

func TestEmitAnimation(t *testing.T) {
	frames := []style.Keyframe{
		{Key: "from", Declarations: []style.Declaration{{Property: "opacity", Value: "0"}}},
		{Key: "to", Declarations: []style.Declaration{{Property: "opacity", Value: "1"}}},
	}
	text, err := style.EmitAnimation("fade-in", frames)
	if err != nil {
		t.Fatalf("emit failed: %v", err)
	}
	if !strings.HasPrefix(text, "@keyframes fade-in {") {
		t.Errorf("unexpected prelude:\n%s", text)
	}
	if err := style.CheckText(text); err != nil {
		t.Errorf("animation text does not parse: %v\n%s", err, text)
	}

	if _, err := style.EmitAnimation("", frames); !errors.Is(err, style.ErrInvalidIR) {
		t.Errorf("expected ErrInvalidIR for empty name, got: %v", err)
	}
	if _, err := style.EmitAnimation("bad name", frames); !errors.Is(err, style.ErrInvalidIR) {
		t.Errorf("expected ErrInvalidIR for name with space, got: %v", err)
	}
}

func TestModule_NameCollision(t *testing.T) {
	m := style.NewModule()
	if err := m.Add(style.NewSheet("button")); err != nil {
		t.Fatalf("first add failed: %v", err)
	}
	err := m.Add(style.NewSheet("button"))
	if !errors.Is(err, style.ErrNameCollision) {
		t.Fatalf("expected ErrNameCollision, got: %v", err)
	}
	var nce *style.NameCollisionError
	if !errors.As(err, &nce) || nce.Name != "button" {
		t.Errorf("collision error should carry the name, got: %v", err)
	}
	if m.Len() != 1 {
		t.Errorf("failed add must not grow the module, len=%d", m.Len())
	}
}
