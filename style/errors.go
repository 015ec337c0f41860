package style

import (
	"errors"
	"fmt"
)

// Sentinel errors for errors.Is checks. Callers branching on a specific
// defect class should use these, the typed errors below carry details.
var (
	ErrMissingSelector     = errors.New("missing selector")
	ErrMalformedSelector   = errors.New("malformed pseudo selector")
	ErrMalformedMediaQuery = errors.New("malformed media query")
	ErrInvalidIR           = errors.New("invalid style tree")
	ErrNameCollision       = errors.New("name collision")
)

// MissingSelectorError reports a nested rule node with no resolvable selector
// text. It fails normalization and aborts that sheet's compilation.
type MissingSelectorError struct {
	Sheet string
	Path  string
}

func (e *MissingSelectorError) Error() string {
	return fmt.Sprintf("sheet %q: node %s: nested rule has no resolvable selector", e.Sheet, e.Path)
}

func (e *MissingSelectorError) Unwrap() error { return ErrMissingSelector }

// MalformedSelectorError reports selector text with disallowed whitespace or
// punctuation (space after a colon, stray semicolons, braces).
type MalformedSelectorError struct {
	Sheet    string
	Path     string
	Selector string
	Reason   string
}

func (e *MalformedSelectorError) Error() string {
	return fmt.Sprintf("sheet %q: node %s: selector %q is malformed: %s", e.Sheet, e.Path, e.Selector, e.Reason)
}

func (e *MalformedSelectorError) Unwrap() error { return ErrMalformedSelector }

// MalformedMediaQueryError reports a media block whose condition is absent,
// unbalanced or split across nodes.
type MalformedMediaQueryError struct {
	Sheet     string
	Path      string
	Condition string
	Reason    string
}

func (e *MalformedMediaQueryError) Error() string {
	return fmt.Sprintf("sheet %q: node %s: media condition %q is malformed: %s", e.Sheet, e.Path, e.Condition, e.Reason)
}

func (e *MalformedMediaQueryError) Unwrap() error { return ErrMalformedMediaQuery }

// InvalidIRError reports an operation on a tree that violates builder
// contracts or skipped normalization. This is a programming error, not
// recoverable by retry.
type InvalidIRError struct {
	Sheet  string
	Reason string
}

func (e *InvalidIRError) Error() string {
	if e.Sheet == "" {
		return "invalid style tree: " + e.Reason
	}
	return fmt.Sprintf("sheet %q: invalid style tree: %s", e.Sheet, e.Reason)
}

func (e *InvalidIRError) Unwrap() error { return ErrInvalidIR }

// NameCollisionError reports two sheets sharing a generated identifier
// within one module.
type NameCollisionError struct {
	Name string
}

func (e *NameCollisionError) Error() string {
	return fmt.Sprintf("duplicate sheet name %q in module", e.Name)
}

func (e *NameCollisionError) Unwrap() error { return ErrNameCollision }
