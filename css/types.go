// Package css implements the authored stylesheet front end. It parses plain
// CSS text into a typed model which maps onto the style IR - this is the only
// input boundary of the compiler.
package css

import (
	"strings"
	"unicode"
)

// Value represents a parsed CSS property value.
type Value struct {
	Raw     string  // Original CSS value string (e.g., "1.2em", "bold", "#ff0000")
	Value   float64 // Numeric value if applicable
	Unit    string  // Unit if applicable: "em", "px", "%", "pt", etc.
	Keyword string  // Keyword if applicable: "bold", "flex", "center", etc.
}

// IsNumeric returns true if the value has a numeric component.
// This includes explicit zero values like "0" or "0px".
func (v Value) IsNumeric() bool {
	if v.Unit != "" {
		return true
	}
	if v.Value != 0 && v.Keyword == "" {
		return true
	}
	if v.Raw != "" && v.Keyword == "" {
		firstChar := rune(v.Raw[0])
		if unicode.IsDigit(firstChar) || firstChar == '.' || firstChar == '-' || firstChar == '+' {
			return true
		}
	}
	return false
}

// IsKeyword returns true if the value is a keyword (no numeric component).
func (v Value) IsKeyword() bool {
	return v.Keyword != "" && v.Unit == ""
}

// Declaration is a single property declaration. Order of declarations within
// a rule is significant and preserved from source.
type Declaration struct {
	Property string
	Value    Value
}

// Selector represents a parsed CSS selector with its components.
type Selector struct {
	Raw           string    // Original selector string
	Element       string    // Element name (e.g., "p", "h1") or empty for class-only
	Class         string    // Class name without dot (e.g., "card") or empty
	Pseudo        string    // Pseudo-class or pseudo-element name without colons (e.g., "hover", "before")
	PseudoElement bool      // true when Pseudo was written with the double-colon form
	Child         bool      // true when this selector is a direct child (>) of Ancestor
	Ancestor      *Selector // Ancestor selector for compound selectors (e.g., ".card h2" -> Ancestor is ".card")
}

// IsSimple returns true if this is a simple selector (element, class, or element.class).
func (s Selector) IsSimple() bool {
	return s.Element != "" || s.Class != ""
}

// IsCompound returns true if this selector has an ancestor part.
func (s Selector) IsCompound() bool {
	return s.Ancestor != nil
}

// BaseName returns the name for the rightmost part of the selector.
// Class takes precedence over element.
func (s Selector) BaseName() string {
	switch {
	case s.Class != "":
		return s.Class
	case s.Element != "":
		return s.Element
	default:
		return s.Raw
	}
}

// Rule represents a single CSS rule (selector + ordered declarations).
type Rule struct {
	Selector     Selector
	Declarations []Declaration
}

// GetProperty returns the last declared value for a property.
func (r Rule) GetProperty(name string) (Value, bool) {
	for i := len(r.Declarations) - 1; i >= 0; i-- {
		if r.Declarations[i].Property == name {
			return r.Declarations[i].Value, true
		}
	}
	return Value{}, false
}

// MediaQuery represents a parsed @media query condition.
type MediaQuery struct {
	Raw string // Condition text as written, e.g. "(max-width: 768px)" or "screen and (min-width: 30em)"
}

// IsComplete returns true when the condition text is non-empty and all
// parentheses are balanced. Incomplete conditions must never reach emission.
func (mq MediaQuery) IsComplete() bool {
	if strings.TrimSpace(mq.Raw) == "" {
		return false
	}
	depth := 0
	for _, r := range mq.Raw {
		switch r {
		case '(':
			depth++
		case ')':
			depth--
			if depth < 0 {
				return false
			}
		case '{', '}', ';':
			return false
		}
	}
	return depth == 0
}

// MediaBlock represents a @media block with its query and nested rules.
type MediaBlock struct {
	Query MediaQuery
	Rules []Rule
}

// Frame is a single keyframe selector ("from", "to", "50%") with declarations.
type Frame struct {
	Key          string
	Declarations []Declaration
}

// Keyframes represents an @keyframes animation definition.
type Keyframes struct {
	Name   string
	Frames []Frame
}

// StylesheetItem is a single top-level item in a stylesheet.
// Exactly one of Rule, MediaBlock, Keyframes or Import is non-nil.
type StylesheetItem struct {
	Rule       *Rule
	MediaBlock *MediaBlock
	Keyframes  *Keyframes
	Import     *string
}

// Stylesheet represents a parsed CSS stylesheet.
type Stylesheet struct {
	Items    []StylesheetItem // All top-level items in source order
	Warnings []string         // Warnings for unsupported features
}

// Rules returns all plain top-level rules in source order.
func (s *Stylesheet) Rules() []Rule {
	var rules []Rule
	for _, item := range s.Items {
		if item.Rule != nil {
			rules = append(rules, *item.Rule)
		}
	}
	return rules
}

// MediaBlocks returns all @media blocks in source order.
func (s *Stylesheet) MediaBlocks() []MediaBlock {
	var blocks []MediaBlock
	for _, item := range s.Items {
		if item.MediaBlock != nil {
			blocks = append(blocks, *item.MediaBlock)
		}
	}
	return blocks
}

// Animations returns all @keyframes definitions in source order.
func (s *Stylesheet) Animations() []Keyframes {
	var kfs []Keyframes
	for _, item := range s.Items {
		if item.Keyframes != nil {
			kfs = append(kfs, *item.Keyframes)
		}
	}
	return kfs
}

// Imports returns all @import URLs from the stylesheet in source order.
func (s *Stylesheet) Imports() []string {
	var urls []string
	for _, item := range s.Items {
		if item.Import != nil {
			urls = append(urls, *item.Import)
		}
	}
	return urls
}

// RulesBySelector returns all top-level rules matching the given selector string.
func (s *Stylesheet) RulesBySelector(selector string) []Rule {
	var matches []Rule
	for _, item := range s.Items {
		if item.Rule != nil && item.Rule.Selector.Raw == selector {
			matches = append(matches, *item.Rule)
		}
	}
	return matches
}
