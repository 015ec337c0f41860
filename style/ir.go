// Package style implements the style compiler core: an intermediate
// representation for nested style rules, the normalization pass that
// guarantees every selector and block boundary is well-formed, and the
// emitter that serializes a normalized tree into style-language text.
package style

import (
	"fmt"
	"strings"
)

// Declaration is a single property declaration. Property must be non-empty,
// the value is not validated at this layer - the styling engine owns value
// semantics.
type Declaration struct {
	Property string
	Value    string
}

// SelectorKind discriminates SelectorSpec variants.
type SelectorKind int

const (
	// SelectorSelf is the implicit selector of a sheet's root block.
	SelectorSelf SelectorKind = iota
	// SelectorPseudo is a pseudo-class or pseudo-element attached to the parent.
	SelectorPseudo
	// SelectorCombinator targets another selector relative to the parent.
	SelectorCombinator
	// SelectorMedia is a @media condition block.
	SelectorMedia
)

func (k SelectorKind) String() string {
	switch k {
	case SelectorSelf:
		return "self"
	case SelectorPseudo:
		return "pseudo"
	case SelectorCombinator:
		return "combinator"
	case SelectorMedia:
		return "media"
	default:
		return fmt.Sprintf("SelectorKind(%d)", int(k))
	}
}

// CombinatorKind specifies how a combinator target relates to its parent.
type CombinatorKind int

const (
	CombinatorDescendant CombinatorKind = iota
	CombinatorChild
)

// SelectorSpec is a tagged selector variant. Use the constructors below -
// a zero value is the implicit self selector.
type SelectorSpec struct {
	Kind SelectorKind

	// SelectorPseudo
	Pseudo        string // state name without colons, e.g. "hover"
	PseudoElement bool   // true for the double-colon form (::before)

	// SelectorCombinator
	Combinator CombinatorKind
	Target     string // target selector text, e.g. "h2" or ".title"

	// SelectorMedia
	Condition string // media condition, e.g. "(max-width: 768px)"
}

// Self returns the implicit parent selector.
func Self() SelectorSpec {
	return SelectorSpec{Kind: SelectorSelf}
}

// Pseudo returns a pseudo-class selector spec for the given state name.
func Pseudo(state string) SelectorSpec {
	return SelectorSpec{Kind: SelectorPseudo, Pseudo: state}
}

// PseudoElement returns a pseudo-element selector spec (serialized with a
// double colon).
func PseudoElement(name string) SelectorSpec {
	return SelectorSpec{Kind: SelectorPseudo, Pseudo: name, PseudoElement: true}
}

// Combinator returns a combinator selector spec relating target to the parent.
func Combinator(kind CombinatorKind, target string) SelectorSpec {
	return SelectorSpec{Kind: SelectorCombinator, Combinator: kind, Target: target}
}

// Media returns a media-query selector spec for the given condition.
func Media(condition string) SelectorSpec {
	return SelectorSpec{Kind: SelectorMedia, Condition: condition}
}

// describe returns a short human readable form for node paths in errors.
// Unlike the normalizer it never fails on malformed specs.
func (s SelectorSpec) describe() string {
	switch s.Kind {
	case SelectorSelf:
		return "&"
	case SelectorPseudo:
		if s.Pseudo == "" {
			return "&:?"
		}
		if s.PseudoElement {
			return "&::" + s.Pseudo
		}
		return "&:" + s.Pseudo
	case SelectorCombinator:
		if strings.TrimSpace(s.Target) == "" {
			return "<empty target>"
		}
		if s.Combinator == CombinatorChild {
			return "> " + s.Target
		}
		return s.Target
	case SelectorMedia:
		if strings.TrimSpace(s.Condition) == "" {
			return "@media <empty>"
		}
		return "@media " + s.Condition
	default:
		return s.Kind.String()
	}
}

// RuleNode is a single block in the style tree: a selector, its ordered
// declarations and nested child blocks. The root node of a sheet uses the
// implicit self selector.
type RuleNode struct {
	Selector     SelectorSpec
	Declarations []Declaration
	Children     []*RuleNode

	// selector text resolved by normalization, empty until then
	resolved string
}

// AddDeclaration appends a property declaration and returns the node for
// chaining. No validation happens at build time - authoring proceeds
// incrementally and the normalizer rejects malformed trees later.
func (n *RuleNode) AddDeclaration(property, value string) *RuleNode {
	n.Declarations = append(n.Declarations, Declaration{Property: property, Value: value})
	return n
}

// AddChild appends a nested block with the given selector and returns the
// new node so authoring can continue inside it.
func (n *RuleNode) AddChild(spec SelectorSpec) *RuleNode {
	child := &RuleNode{Selector: spec}
	n.Children = append(n.Children, child)
	return child
}

// Sheet is one component's style sheet: a name mapping 1:1 to the generated
// function identifier and a root declaration block with nested rules.
type Sheet struct {
	Name string
	Root *RuleNode

	normalized bool
}

// NewSheet creates an empty component sheet with an implicit root block.
func NewSheet(name string) *Sheet {
	return &Sheet{Name: name, Root: &RuleNode{Selector: Self()}}
}

// Normalized reports whether the sheet passed normalization.
func (s *Sheet) Normalized() bool {
	return s != nil && s.normalized
}

// Module is an ordered collection of component sheets with unique names.
type Module struct {
	sheets []*Sheet
	names  map[string]struct{}
}

func NewModule() *Module {
	return &Module{names: make(map[string]struct{})}
}

// Add appends a sheet to the module. Duplicate names fail with
// NameCollisionError.
func (m *Module) Add(sheet *Sheet) error {
	if sheet == nil || sheet.Name == "" {
		return &InvalidIRError{Reason: "sheet without a name cannot be aggregated"}
	}
	if _, dup := m.names[sheet.Name]; dup {
		return &NameCollisionError{Name: sheet.Name}
	}
	m.names[sheet.Name] = struct{}{}
	m.sheets = append(m.sheets, sheet)
	return nil
}

// Sheets returns the module's sheets in insertion order.
func (m *Module) Sheets() []*Sheet {
	return m.sheets
}

// Len returns the number of aggregated sheets.
func (m *Module) Len() int {
	return len(m.sheets)
}
