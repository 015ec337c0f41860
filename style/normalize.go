package style

import (
	"strings"
	"unicode"

	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// Normalizer walks a sheet's rule tree, resolves selector composition and
// validates that every nested block has well-formed, non-empty selector text
// before emission. All defects found in one sheet are reported together.
type Normalizer struct {
	log *zap.Logger
}

func NewNormalizer(log *zap.Logger) *Normalizer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Normalizer{log: log.Named("normalize")}
}

// Normalize validates and rewrites the sheet's tree in place. Normalizing an
// already-normalized sheet is a no-op. On error the sheet stays
// non-normalized and must not be emitted.
func (n *Normalizer) Normalize(sheet *Sheet) error {
	if sheet == nil || sheet.Root == nil {
		return &InvalidIRError{Reason: "sheet has no root block"}
	}
	if sheet.normalized {
		return nil
	}
	if sheet.Root.Selector.Kind != SelectorSelf {
		return &InvalidIRError{Sheet: sheet.Name, Reason: "root block must use the implicit self selector"}
	}

	err := n.walk(sheet.Name, sheet.Root, "/", 0)
	if err != nil {
		n.log.Debug("Normalization failed", zap.String("sheet", sheet.Name), zap.Int("defects", len(multierr.Errors(err))))
		return err
	}

	sheet.normalized = true
	return nil
}

func (n *Normalizer) walk(name string, node *RuleNode, path string, depth int) (err error) {
	if depth == 0 {
		node.resolved = ""
	} else {
		resolved, rerr := n.resolve(name, node, path, depth)
		if rerr != nil {
			err = multierr.Append(err, rerr)
		}
		node.resolved = resolved
	}

	for _, decl := range node.Declarations {
		if !isValidProperty(decl.Property) {
			// builder contract breach, not an authoring defect
			err = multierr.Append(err, &InvalidIRError{Sheet: name, Reason: "declaration with empty or malformed property at node " + path})
		}
	}

	for _, child := range node.Children {
		childPath := path + child.Selector.describe()
		if len(child.Children) > 0 {
			childPath += "/"
		}
		err = multierr.Append(err, n.walk(name, child, childPath, depth+1))
	}
	return err
}

// resolve produces the final selector text for a non-root node.
func (n *Normalizer) resolve(name string, node *RuleNode, path string, depth int) (string, error) {
	spec := node.Selector

	switch spec.Kind {
	case SelectorSelf:
		return "", &InvalidIRError{Sheet: name, Reason: "self selector is only valid at the root, found at node " + path}

	case SelectorPseudo:
		state := spec.Pseudo
		if state == "" {
			return "", &MissingSelectorError{Sheet: name, Path: path}
		}
		if reason := pseudoNameDefect(state); reason != "" {
			return "", &MalformedSelectorError{Sheet: name, Path: path, Selector: "&:" + state, Reason: reason}
		}
		// no space between the colon and the state name, ever
		if spec.PseudoElement {
			return "&::" + state, nil
		}
		return "&:" + state, nil

	case SelectorCombinator:
		target := strings.TrimSpace(spec.Target)
		if target == "" {
			return "", &MissingSelectorError{Sheet: name, Path: path}
		}
		if reason := selectorTextDefect(target); reason != "" {
			return "", &MalformedSelectorError{Sheet: name, Path: path, Selector: target, Reason: reason}
		}
		if spec.Combinator == CombinatorChild {
			return "> " + target, nil
		}
		return target, nil

	case SelectorMedia:
		if depth != 1 {
			return "", &MalformedMediaQueryError{Sheet: name, Path: path, Condition: spec.Condition,
				Reason: "media blocks may only appear directly below the root"}
		}
		cond, reason := normalizeMediaCondition(spec.Condition)
		if reason != "" {
			return "", &MalformedMediaQueryError{Sheet: name, Path: path, Condition: spec.Condition, Reason: reason}
		}
		node.Selector.Condition = cond
		return "@media " + cond, nil

	default:
		return "", &InvalidIRError{Sheet: name, Reason: "unknown selector kind at node " + path}
	}
}

// pseudoNameDefect checks a pseudo state name, returning a description of the
// first defect or empty string when the name is clean.
func pseudoNameDefect(state string) string {
	for _, r := range state {
		switch {
		case unicode.IsSpace(r):
			return "whitespace inside pseudo state name"
		case r == ':' || r == ';':
			return "stray punctuation inside pseudo state name"
		case r == '{' || r == '}':
			return "brace inside pseudo state name"
		case !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '-' && r != '_':
			return "disallowed character " + string(r) + " in pseudo state name"
		}
	}
	return ""
}

// selectorTextDefect checks combinator target text for characters that would
// corrupt block structure on emission.
func selectorTextDefect(target string) string {
	if strings.ContainsAny(target, ";{}") {
		return "stray punctuation inside selector"
	}
	// a space after a colon re-creates the "&: hover" defect downstream
	if strings.Contains(target, ": ") || strings.Contains(target, ":\t") {
		return "whitespace after colon in selector"
	}
	if strings.HasSuffix(target, ":") || strings.HasSuffix(target, "::") {
		return "dangling colon in selector"
	}
	return ""
}

// normalizeMediaCondition validates a media condition and rewrites bare
// feature conditions into their parenthesized form. Returns the normalized
// condition and a defect description (empty when valid).
func normalizeMediaCondition(cond string) (string, string) {
	cond = strings.TrimSpace(cond)
	if cond == "" {
		return "", "empty media condition"
	}
	if strings.ContainsAny(cond, ";{}") {
		return "", "stray punctuation inside media condition"
	}

	// bare feature form like "max-width: 768px" gets wrapped
	if !strings.HasPrefix(cond, "(") && strings.Contains(cond, ":") && !strings.Contains(cond, "(") {
		cond = "(" + cond + ")"
	}

	depth := 0
	for _, r := range cond {
		switch r {
		case '(':
			depth++
		case ')':
			depth--
			if depth < 0 {
				return "", "unbalanced parentheses in media condition"
			}
		}
	}
	if depth != 0 {
		return "", "unbalanced parentheses in media condition"
	}
	return cond, ""
}

// isValidProperty reports whether a declaration property name is usable.
func isValidProperty(p string) bool {
	if p == "" {
		return false
	}
	for _, r := range p {
		if unicode.IsSpace(r) || r == ':' || r == ';' || r == '{' || r == '}' {
			return false
		}
	}
	return true
}
