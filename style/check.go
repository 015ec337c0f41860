package style

import (
	"fmt"
	"io"
	"strings"

	parse "github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
)

// CheckText verifies that emitted style-language text is structurally sound:
// balanced blocks, well-formed selectors (no whitespace after a colon, no
// stray semicolons), complete @media preludes and colon-separated
// declarations. It plays the role of the styling engine's own parser for
// round-trip verification - text rejected here would never compile into a
// style handle.
func CheckText(text string) error {
	l := css.NewLexer(parse.NewInput(strings.NewReader(text)))

	type tok struct {
		tt   css.TokenType
		data string
	}

	var run []tok
	depth := 0
	justOpened := false

	significant := func() bool {
		for _, t := range run {
			if t.tt != css.WhitespaceToken && t.tt != css.CommentToken {
				return true
			}
		}
		return false
	}

	runText := func() string {
		var sb strings.Builder
		for _, t := range run {
			sb.WriteString(t.data)
		}
		return strings.TrimSpace(sb.String())
	}

	checkSelector := func() error {
		if !significant() {
			if depth > 0 {
				return fmt.Errorf("empty selector before opening brace at nesting depth %d", depth)
			}
			// the bare root declaration block
			return nil
		}
		sel := runText()
		for _, t := range run {
			if t.tt == css.SemicolonToken {
				return fmt.Errorf("semicolon inside selector %q", sel)
			}
		}

		if strings.HasPrefix(sel, "@media") {
			// colons inside a media condition are feature separators and may
			// carry whitespace, only block structure is checked here
			if depth > 0 {
				return fmt.Errorf("nested @media block: %q", sel)
			}
			cond := strings.TrimSpace(strings.TrimPrefix(sel, "@media"))
			if cond == "" {
				return fmt.Errorf("@media block without a condition")
			}
			open, closed := strings.Count(cond, "("), strings.Count(cond, ")")
			if open != closed {
				return fmt.Errorf("unbalanced parentheses in media condition %q", cond)
			}
			return nil
		}
		if strings.HasPrefix(sel, "@") && !strings.HasPrefix(sel, "@keyframes") {
			return fmt.Errorf("unsupported at-rule %q", sel)
		}

		for i, t := range run {
			if t.tt != css.ColonToken {
				continue
			}
			if i+1 < len(run) && run[i+1].tt == css.WhitespaceToken {
				return fmt.Errorf("whitespace after colon in selector %q", sel)
			}
			if i+1 == len(run) {
				return fmt.Errorf("dangling colon in selector %q", sel)
			}
		}
		return nil
	}

	checkDeclaration := func() error {
		if !significant() {
			return nil
		}
		decl := runText()
		colon := -1
		for i, t := range run {
			if t.tt == css.ColonToken {
				colon = i
				break
			}
		}
		if colon < 0 {
			return fmt.Errorf("declaration %q has no property/value separator", decl)
		}
		prop := ""
		for _, t := range run[:colon] {
			if t.tt != css.WhitespaceToken && t.tt != css.CommentToken {
				prop += t.data
			}
		}
		if prop == "" {
			return fmt.Errorf("declaration %q has an empty property", decl)
		}
		return nil
	}

	for {
		tt, data := l.Next()
		switch tt {
		case css.ErrorToken:
			if l.Err() != io.EOF {
				return fmt.Errorf("lexing failed: %w", l.Err())
			}
			if depth != 0 {
				return fmt.Errorf("unbalanced braces: %d block(s) left open", depth)
			}
			if significant() {
				return fmt.Errorf("trailing content outside any block: %q", runText())
			}
			return nil

		case css.BadStringToken, css.BadURLToken:
			return fmt.Errorf("malformed token %q", string(data))

		case css.LeftBraceToken:
			if err := checkSelector(); err != nil {
				return err
			}
			depth++
			run = run[:0]
			justOpened = true

		case css.RightBraceToken:
			if err := checkDeclaration(); err != nil {
				return err
			}
			depth--
			if depth < 0 {
				return fmt.Errorf("closing brace without matching opening brace")
			}
			run = run[:0]
			justOpened = false

		case css.SemicolonToken:
			if justOpened && !significant() {
				return fmt.Errorf("semicolon immediately after opening brace")
			}
			if err := checkDeclaration(); err != nil {
				return err
			}
			run = run[:0]
			justOpened = false

		default:
			run = append(run, tok{tt: tt, data: string(data)})
			if tt != css.WhitespaceToken && tt != css.CommentToken {
				justOpened = false
			}
		}
	}
}
