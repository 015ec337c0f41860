package gen

import (
	"fmt"
	"sort"
	"strings"

	"github.com/maruel/natural"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"css2rust/style"
)

// Animation is a named keyframes sequence rendered alongside a component's
// style functions.
type Animation struct {
	Name   string
	Frames []style.Keyframe
}

// Component groups sheets and animations destined for a single generated
// source file.
type Component struct {
	Name       string
	Sheets     []*style.Sheet
	Animations []Animation
}

// File is a single generated source file.
type File struct {
	Name    string
	Content string
}

// Generator assembles normalized sheets into Rust source files backed by the
// stylist crate.
type Generator struct {
	log       *zap.Logger
	norm      *style.Normalizer
	moduleDoc string
}

// New returns a generator. moduleDoc becomes the doc comment of the
// generated mod.rs.
func New(log *zap.Logger, moduleDoc string) *Generator {
	return &Generator{
		log:       log.Named("gen"),
		norm:      style.NewNormalizer(log),
		moduleDoc: moduleDoc,
	}
}

// Generate compiles every component into a source file and appends the
// aggregating mod.rs. Sheets are registered module-wide first, so a function
// name claimed twice fails the whole run before any text is produced.
// Per-sheet compilation defects are collected across the full input and
// returned together.
func (g *Generator) Generate(components []*Component) ([]File, error) {
	module := style.NewModule()
	for _, comp := range components {
		for _, sheet := range comp.Sheets {
			if err := module.Add(sheet); err != nil {
				return nil, fmt.Errorf("component %s: %w", comp.Name, err)
			}
		}
		for _, anim := range comp.Animations {
			if err := module.Add(style.NewSheet("animation_" + RustIdentifier(anim.Name))); err != nil {
				return nil, fmt.Errorf("component %s: %w", comp.Name, err)
			}
		}
	}

	var (
		errs  error
		files []File
		names []string
	)
	seen := make(map[string]struct{}, len(components))
	for _, comp := range components {
		if !IsRustIdentifier(comp.Name) {
			errs = multierr.Append(errs, fmt.Errorf("component name %q is not a valid module name: %w", comp.Name, style.ErrInvalidIR))
			continue
		}
		if _, dup := seen[comp.Name]; dup {
			errs = multierr.Append(errs, &style.NameCollisionError{Name: comp.Name})
			continue
		}
		seen[comp.Name] = struct{}{}

		content, err := g.componentFile(comp)
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		files = append(files, File{Name: comp.Name + ".rs", Content: content})
		names = append(names, comp.Name)
	}
	if errs != nil {
		return nil, errs
	}

	sort.Sort(natural.StringSlice(names))
	mod, err := render(modFileTmpl, modFileData{Doc: g.moduleDoc, Components: names})
	if err != nil {
		return nil, fmt.Errorf("unable to render mod.rs: %w", err)
	}
	files = append(files, File{Name: "mod.rs", Content: mod})

	g.log.Debug("Generated module", zap.Int("components", len(names)), zap.Int("files", len(files)))
	return files, nil
}

func (g *Generator) componentFile(comp *Component) (string, error) {
	var (
		errs  error
		funcs []string
	)
	for _, sheet := range comp.Sheets {
		fn, err := g.styleFunction(sheet)
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		funcs = append(funcs, fn)
	}
	for _, anim := range comp.Animations {
		fn, err := g.animationFunction(anim)
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		funcs = append(funcs, fn)
	}
	if errs != nil {
		return "", errs
	}
	if len(funcs) == 0 {
		return "", fmt.Errorf("component %s has no sheets: %w", comp.Name, style.ErrInvalidIR)
	}
	return render(componentFileTmpl, componentFileData{Name: comp.Name, Functions: funcs})
}

func (g *Generator) styleFunction(sheet *style.Sheet) (string, error) {
	if err := g.norm.Normalize(sheet); err != nil {
		return "", err
	}
	text, err := style.Emit(sheet)
	if err != nil {
		return "", err
	}
	if err := style.CheckText(text); err != nil {
		return "", fmt.Errorf("sheet %s produced malformed output: %w", sheet.Name, err)
	}
	if !IsRustIdentifier(sheet.Name) {
		return "", fmt.Errorf("sheet name %q is not a valid function name: %w", sheet.Name, style.ErrInvalidIR)
	}
	return render(styleFunctionTmpl, styleFunctionData{Name: sheet.Name, Body: strings.TrimRight(text, "\n")})
}

func (g *Generator) animationFunction(anim Animation) (string, error) {
	name := "animation_" + RustIdentifier(anim.Name)
	text, err := style.EmitAnimation(anim.Name, anim.Frames)
	if err != nil {
		return "", err
	}
	if err := style.CheckText(text); err != nil {
		return "", fmt.Errorf("animation %s produced malformed output: %w", anim.Name, err)
	}
	return render(styleFunctionTmpl, styleFunctionData{Name: name, Body: strings.TrimRight(text, "\n")})
}

// BuiltinUtilities returns the stock utility component shipped with the
// generator: small single-purpose sheets like flex_center and hidden.
func BuiltinUtilities() *Component {
	mk := func(name string, decls ...style.Declaration) *style.Sheet {
		s := style.NewSheet(name)
		for _, d := range decls {
			s.Root.AddDeclaration(d.Property, d.Value)
		}
		return s
	}
	return &Component{
		Name: "utilities",
		Sheets: []*style.Sheet{
			mk("flex_center",
				style.Declaration{Property: "display", Value: "flex"},
				style.Declaration{Property: "align-items", Value: "center"},
				style.Declaration{Property: "justify-content", Value: "center"}),
			mk("flex_column",
				style.Declaration{Property: "display", Value: "flex"},
				style.Declaration{Property: "flex-direction", Value: "column"}),
			mk("flex_between",
				style.Declaration{Property: "display", Value: "flex"},
				style.Declaration{Property: "align-items", Value: "center"},
				style.Declaration{Property: "justify-content", Value: "space-between"}),
			mk("full_width",
				style.Declaration{Property: "width", Value: "100%"}),
			mk("full_height",
				style.Declaration{Property: "height", Value: "100%"}),
			mk("hidden",
				style.Declaration{Property: "display", Value: "none"}),
			mk("text_center",
				style.Declaration{Property: "text-align", Value: "center"}),
			mk("truncate",
				style.Declaration{Property: "overflow", Value: "hidden"},
				style.Declaration{Property: "text-overflow", Value: "ellipsis"},
				style.Declaration{Property: "white-space", Value: "nowrap"}),
		},
	}
}
