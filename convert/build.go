// Package convert drives the compilation pipeline: authored CSS is parsed
// into the typed model, mapped onto component style sheets and handed to the
// generator which renders the Rust module.
package convert

import (
	"strings"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"css2rust/config"
	"css2rust/css"
	"css2rust/gen"
	"css2rust/style"
)

// Builder accumulates parsed stylesheets into components. It is stateful so
// rules for the same component spread over several input files end up in a
// single sheet.
type Builder struct {
	log      *zap.Logger
	cfg      config.GeneratorConfig
	mappings *gen.Mappings

	sheets map[string]*style.Sheet
	// sheet name to root media node per condition, so repeated @media
	// blocks with the same condition extend one child
	mediaNodes map[string]map[string]*style.RuleNode

	comps     map[string]*gen.Component
	compOrder []string
}

// NewBuilder creates a builder. mappings may be nil to disable design token
// substitution.
func NewBuilder(log *zap.Logger, cfg config.GeneratorConfig, mappings *gen.Mappings) *Builder {
	return &Builder{
		log:        log.Named("build"),
		cfg:        cfg,
		mappings:   mappings,
		sheets:     make(map[string]*style.Sheet),
		mediaNodes: make(map[string]map[string]*style.RuleNode),
		comps:      make(map[string]*gen.Component),
	}
}

// AddStylesheet folds one parsed stylesheet into the accumulated components.
// stem is the input file name without extension, used for file grouping.
// Defects are collected across the whole stylesheet and returned together.
func (b *Builder) AddStylesheet(sheet *css.Stylesheet, stem string) error {
	var errs error

	for _, item := range sheet.Items {
		switch {
		case item.Rule != nil:
			if err := b.addRule(*item.Rule, stem, nil); err != nil {
				errs = multierr.Append(errs, err)
			}

		case item.MediaBlock != nil:
			if err := b.addMediaBlock(*item.MediaBlock, stem); err != nil {
				errs = multierr.Append(errs, err)
			}

		case item.Keyframes != nil:
			b.addAnimation(*item.Keyframes, stem)

		case item.Import != nil:
			// imports have no place in generated scoped styles
			b.log.Info("Ignoring @import", zap.String("url", *item.Import), zap.String("source", stem))
		}
	}
	return errs
}

// Components returns everything accumulated so far, in first-seen order.
func (b *Builder) Components() []*gen.Component {
	res := make([]*gen.Component, 0, len(b.compOrder))
	for _, name := range b.compOrder {
		res = append(res, b.comps[name])
	}
	return res
}

// addRule attaches a parsed rule to its owning sheet. When media is non-nil
// the rule came from inside a @media block and attaches under that node.
func (b *Builder) addRule(rule css.Rule, stem string, media *style.RuleNode) error {
	sel := rule.Selector
	if !sel.IsSimple() {
		// parser already warned about it
		return nil
	}

	owner := &sel
	for owner.Ancestor != nil {
		owner = owner.Ancestor
	}

	sheet := b.sheetFor(owner.BaseName(), stem)
	node := sheet.Root
	if media != nil {
		node = media
	}

	// descend through combinator parts, leftmost ancestor excluded since it
	// names the sheet itself
	chain := combinatorChain(&sel)

	// a pseudo state on the owner part scopes the whole nested chain,
	// e.g. ".card:hover h2" compiles to "&:hover { h2 { ... } }"
	if len(chain) > 0 && owner.Pseudo != "" {
		node = node.AddChild(pseudoSpec(owner))
	}

	for i, part := range chain {
		kind := style.CombinatorDescendant
		if part.Child {
			kind = style.CombinatorChild
		}
		target := selectorText(part)
		// mid-chain pseudo states stay in the target text, only the leaf
		// gets its own nested block
		if part.Pseudo != "" && i < len(chain)-1 {
			target += pseudoSuffix(part)
		}
		node = node.AddChild(style.Combinator(kind, target))
	}

	if sel.Pseudo != "" {
		node = node.AddChild(pseudoSpec(&sel))
	}

	for _, d := range rule.Declarations {
		node.AddDeclaration(d.Property, b.mapValue(d.Property, d.Value.Raw))
	}
	return nil
}

func (b *Builder) addMediaBlock(block css.MediaBlock, stem string) error {
	if !block.Query.IsComplete() {
		return &style.MalformedMediaQueryError{
			Sheet:     stem,
			Path:      "@media",
			Condition: block.Query.Raw,
			Reason:    "incomplete media condition in source",
		}
	}

	var errs error
	for _, rule := range block.Rules {
		sel := rule.Selector
		if !sel.IsSimple() {
			continue
		}
		owner := &sel
		for owner.Ancestor != nil {
			owner = owner.Ancestor
		}
		sheet := b.sheetFor(owner.BaseName(), stem)
		node := b.mediaNodeFor(sheet, block.Query.Raw)
		if err := b.addRule(rule, stem, node); err != nil {
			errs = multierr.Append(errs, err)
		}
	}
	return errs
}

func (b *Builder) addAnimation(kf css.Keyframes, stem string) {
	frames := make([]style.Keyframe, 0, len(kf.Frames))
	for _, f := range kf.Frames {
		decls := make([]style.Declaration, 0, len(f.Declarations))
		for _, d := range f.Declarations {
			decls = append(decls, style.Declaration{
				Property: d.Property,
				Value:    b.mapValue(d.Property, d.Value.Raw),
			})
		}
		frames = append(frames, style.Keyframe{Key: f.Key, Declarations: decls})
	}

	comp := b.componentFor(b.animationComponent(stem))
	comp.Animations = append(comp.Animations, gen.Animation{Name: kf.Name, Frames: frames})
	b.log.Debug("Added animation", zap.String("name", kf.Name), zap.String("component", comp.Name))
}

func (b *Builder) mapValue(property, value string) string {
	if b.mappings == nil {
		return value
	}
	return b.mappings.Apply(property, value)
}

// sheetFor returns the sheet owning base, creating it and registering it with
// its component on first use.
func (b *Builder) sheetFor(base, stem string) *style.Sheet {
	name := gen.RustIdentifier(base)
	if sheet, ok := b.sheets[name]; ok {
		return sheet
	}

	sheet := style.NewSheet(name)
	b.sheets[name] = sheet

	comp := b.componentFor(b.componentName(base, stem))
	comp.Sheets = append(comp.Sheets, sheet)
	b.log.Debug("New component sheet", zap.String("sheet", name), zap.String("component", comp.Name))
	return sheet
}

func (b *Builder) mediaNodeFor(sheet *style.Sheet, condition string) *style.RuleNode {
	byCond := b.mediaNodes[sheet.Name]
	if byCond == nil {
		byCond = make(map[string]*style.RuleNode)
		b.mediaNodes[sheet.Name] = byCond
	}
	if node, ok := byCond[condition]; ok {
		return node
	}
	node := sheet.Root.AddChild(style.Media(condition))
	byCond[condition] = node
	return node
}

func (b *Builder) componentFor(name string) *gen.Component {
	if comp, ok := b.comps[name]; ok {
		return comp
	}
	comp := &gen.Component{Name: name}
	b.comps[name] = comp
	b.compOrder = append(b.compOrder, name)
	return comp
}

// componentName decides which generated file a sheet belongs to.
func (b *Builder) componentName(base, stem string) string {
	if b.cfg.Grouping == config.GroupingModeFile {
		return gen.RustIdentifier(stem)
	}
	if !b.cfg.ExtractVariants {
		// every selector gets its own file
		return gen.RustIdentifier(base)
	}
	return componentGroup(base)
}

func (b *Builder) animationComponent(stem string) string {
	if b.cfg.Grouping == config.GroupingModeFile {
		return gen.RustIdentifier(stem)
	}
	return "animations"
}

// pseudoSpec maps a parsed pseudo state onto its selector spec.
func pseudoSpec(s *css.Selector) style.SelectorSpec {
	if s.PseudoElement {
		return style.PseudoElement(s.Pseudo)
	}
	return style.Pseudo(s.Pseudo)
}

// pseudoSuffix renders a pseudo state back into selector text for parts that
// cannot own a nested block of their own.
func pseudoSuffix(s *css.Selector) string {
	if s.PseudoElement {
		return "::" + s.Pseudo
	}
	return ":" + s.Pseudo
}

// selectorText renders a selector part without its pseudo suffix.
func selectorText(s *css.Selector) string {
	switch {
	case s.Element != "" && s.Class != "":
		return s.Element + "." + s.Class
	case s.Class != "":
		return "." + s.Class
	default:
		return s.Element
	}
}

// combinatorChain returns the combinator parts of a compound selector from
// the part just below the root ancestor down to the leaf. A simple selector
// yields no parts.
func combinatorChain(sel *css.Selector) []*css.Selector {
	var parts []*css.Selector
	for s := sel; s.Ancestor != nil; s = s.Ancestor {
		parts = append(parts, s)
	}
	// collected leaf first, reverse into document order
	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}
	return parts
}

// tableElements are selectors grouped into the table component by exact match
// rather than prefix, short element names collide with too many words.
var tableElements = map[string]struct{}{
	"table": {}, "thead": {}, "tbody": {}, "tfoot": {}, "tr": {}, "th": {}, "td": {},
}

// componentGroup maps a selector base name to its component using the same
// stem heuristics the generated module layout is organized around.
func componentGroup(base string) string {
	b := strings.ToLower(strings.TrimPrefix(base, "."))
	if _, ok := tableElements[b]; ok {
		return "table"
	}
	switch {
	case strings.HasPrefix(b, "btn") || strings.HasPrefix(b, "button"):
		return "button"
	case strings.HasPrefix(b, "card"):
		return "card"
	case strings.HasPrefix(b, "nav"):
		return "navbar"
	case strings.HasPrefix(b, "modal"):
		return "modal"
	case strings.HasPrefix(b, "form") || strings.HasPrefix(b, "input") ||
		strings.HasPrefix(b, "select") || strings.HasPrefix(b, "textarea") ||
		strings.HasPrefix(b, "label") || strings.HasPrefix(b, "fieldset"):
		return "form"
	case strings.HasPrefix(b, "alert"):
		return "alert"
	}

	// fall back to the first word of the selector name
	if i := strings.IndexAny(b, "-_"); i > 0 {
		b = b[:i]
	}
	return gen.RustIdentifier(b)
}
