// Package gen turns compiled component sheets into Rust source files: one
// style function per sheet, one file per component and a mod.rs re-export
// surface tying the generated crate module together.
package gen

import (
	"strings"
	"unicode"

	"github.com/gosimple/slug"
)

// rustKeywords are identifiers that cannot name a generated function.
var rustKeywords = map[string]struct{}{
	"as": {}, "async": {}, "await": {}, "box": {}, "break": {}, "const": {},
	"continue": {}, "crate": {}, "dyn": {}, "else": {}, "enum": {}, "extern": {},
	"false": {}, "fn": {}, "for": {}, "if": {}, "impl": {}, "in": {}, "let": {},
	"loop": {}, "match": {}, "mod": {}, "move": {}, "mut": {}, "pub": {},
	"ref": {}, "return": {}, "self": {}, "static": {}, "struct": {}, "super": {},
	"trait": {}, "true": {}, "type": {}, "unsafe": {}, "use": {}, "where": {},
	"while": {}, "yield": {},
}

// RustIdentifier derives a snake_case Rust identifier from a selector or
// component name. The result is never empty and never a Rust keyword.
func RustIdentifier(name string) string {
	s := slug.Make(name)
	s = strings.ReplaceAll(s, "-", "_")

	// collapse runs left over from punctuation-heavy input
	for strings.Contains(s, "__") {
		s = strings.ReplaceAll(s, "__", "_")
	}
	s = strings.Trim(s, "_")

	if s == "" {
		return "style"
	}
	if r := rune(s[0]); unicode.IsDigit(r) {
		s = "style_" + s
	}
	if _, kw := rustKeywords[s]; kw {
		s += "_style"
	}
	return s
}

// IsRustIdentifier reports whether s is directly usable as a Rust identifier.
func IsRustIdentifier(s string) bool {
	if s == "" {
		return false
	}
	if _, kw := rustKeywords[s]; kw {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_':
		case unicode.IsLetter(r):
		case unicode.IsDigit(r):
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}
