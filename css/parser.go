package css

import (
	"bytes"
	"strconv"
	"strings"
	"unicode"

	parse "github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
	"go.uber.org/zap"
)

// Parser parses CSS stylesheets into the typed authored model.
type Parser struct {
	log *zap.Logger
}

// NewParser creates a new CSS parser.
func NewParser(log *zap.Logger) *Parser {
	if log == nil {
		log = zap.NewNop()
	}
	return &Parser{log: log.Named("css-parser")}
}

// Parse parses CSS text into a Stylesheet.
// The optional source parameter identifies what's being parsed (for debug logging).
func (p *Parser) Parse(data []byte, source ...string) *Stylesheet {
	sheet := &Stylesheet{
		Items:    make([]StylesheetItem, 0),
		Warnings: make([]string, 0),
	}

	if len(source) > 0 && source[0] != "" {
		p.log.Debug("Parsing CSS", zap.String("source", source[0]), zap.Int("bytes", len(data)))
	}

	input := parse.NewInput(bytes.NewReader(data))
	parser := css.NewParser(input, false)

	// selectors of a grouped rule accumulated before its block opens
	var pending []string

	for {
		gt, _, data := parser.Next()

		switch gt {
		case css.ErrorGrammar:
			// End of input or error
			if parser.Err() != nil && parser.Err().Error() != "EOF" {
				p.log.Debug("CSS parse error", zap.Error(parser.Err()))
			}
			return sheet

		case css.BeginAtRuleGrammar:
			atRule := string(data)
			switch atRule {
			case "@media":
				mq := MediaQuery{Raw: joinTokens(parser.Values())}
				rules := p.parseMediaBlockRules(parser, sheet)
				p.log.Debug("Parsed @media block", zap.String("query", mq.Raw), zap.Int("rules", len(rules)))
				sheet.Items = append(sheet.Items, StylesheetItem{
					MediaBlock: &MediaBlock{Query: mq, Rules: rules},
				})
			case "@keyframes":
				name := joinTokens(parser.Values())
				frames := p.parseKeyframeFrames(parser)
				if name == "" {
					sheet.Warnings = append(sheet.Warnings, "skipping @keyframes without a name")
					continue
				}
				p.log.Debug("Parsed @keyframes", zap.String("name", name), zap.Int("frames", len(frames)))
				sheet.Items = append(sheet.Items, StylesheetItem{
					Keyframes: &Keyframes{Name: name, Frames: frames},
				})
			default:
				p.skipAtRuleBlock(parser)
				sheet.Warnings = append(sheet.Warnings, "unsupported at-rule: "+atRule)
				p.log.Debug("Skipping @-rule", zap.String("rule", atRule))
			}

		case css.AtRuleGrammar:
			// Simple @-rule without block (e.g. @import)
			atRule := string(data)
			if atRule == "@import" {
				url := extractImportURL(parser.Values())
				if url != "" {
					sheet.Items = append(sheet.Items, StylesheetItem{Import: &url})
					p.log.Debug("Parsed @import", zap.String("url", url))
				}
			} else {
				p.log.Debug("Skipping @-rule", zap.String("rule", atRule))
			}

		case css.QualifiedRuleGrammar:
			// part of a grouped selector list, block opens later
			pending = append(pending, p.parseSelectors(data, parser.Values())...)

		case css.BeginRulesetGrammar:
			selectors := append(pending, p.parseSelectors(data, parser.Values())...)
			pending = nil
			decls := p.parseDeclarations(parser)

			for _, selStr := range selectors {
				sel := p.parseSelector(selStr, sheet)
				if !sel.IsSimple() {
					continue
				}
				// Clone declarations for each selector of a grouped rule
				declsCopy := make([]Declaration, len(decls))
				copy(declsCopy, decls)
				sheet.Items = append(sheet.Items, StylesheetItem{
					Rule: &Rule{Selector: sel, Declarations: declsCopy},
				})
			}
		}
	}
}

// joinTokens rebuilds source text from tokens, collapsing whitespace runs.
func joinTokens(tokens []css.Token) string {
	var parts []string
	for _, t := range tokens {
		if t.TokenType != css.WhitespaceToken {
			parts = append(parts, string(t.Data))
		} else if len(parts) > 0 {
			parts = append(parts, " ")
		}
	}
	return strings.TrimSpace(strings.Join(parts, ""))
}

// extractImportURL extracts the URL from @import tokens.
// Handles: @import "url"; @import url("url"); @import url(url);
func extractImportURL(tokens []css.Token) string {
	for _, t := range tokens {
		switch t.TokenType {
		case css.StringToken:
			return unquote(string(t.Data))
		case css.URLToken:
			s := string(t.Data)
			s = strings.TrimPrefix(s, "url(")
			s = strings.TrimSuffix(s, ")")
			return unquote(strings.TrimSpace(s))
		}
	}
	return ""
}

// parseSelectors extracts selector strings from token data.
func (p *Parser) parseSelectors(data []byte, values []css.Token) []string {
	var sb strings.Builder
	sb.Write(data)
	for _, v := range values {
		sb.Write(v.Data)
	}

	// Split by comma for grouped selectors
	var selectors []string
	for s := range strings.SplitSeq(sb.String(), ",") {
		s = strings.TrimSpace(s)
		if s != "" {
			selectors = append(selectors, s)
		}
	}
	return selectors
}

// parseDeclarations parses property declarations until EndRulesetGrammar,
// preserving source order.
func (p *Parser) parseDeclarations(parser *css.Parser) []Declaration {
	var decls []Declaration

	for {
		gt, _, data := parser.Next()

		switch gt {
		case css.ErrorGrammar, css.EndRulesetGrammar:
			return decls

		case css.DeclarationGrammar:
			propName := string(data)
			values := parser.Values()
			if propName == "" || len(values) == 0 {
				continue
			}
			decls = append(decls, Declaration{
				Property: propName,
				Value:    p.parsePropertyValue(values),
			})

		case css.CustomPropertyGrammar:
			// CSS custom properties (--var) pass through as raw text
			propName := string(data)
			raw := strings.TrimSpace(joinTokens(parser.Values()))
			if propName != "" && raw != "" {
				decls = append(decls, Declaration{
					Property: propName,
					Value:    Value{Raw: raw, Keyword: raw},
				})
			}
		}
	}
}

// parsePropertyValue converts CSS tokens to a Value.
func (p *Parser) parsePropertyValue(tokens []css.Token) Value {
	if len(tokens) == 0 {
		return Value{}
	}

	raw := joinTokens(tokens)
	val := Value{Raw: raw}

	// Handle single token cases
	if len(tokens) == 1 || (len(tokens) == 2 && tokens[1].TokenType == css.WhitespaceToken) {
		t := tokens[0]
		switch t.TokenType {
		case css.DimensionToken:
			val.Value, val.Unit = parseDimension(string(t.Data))
		case css.PercentageToken:
			val.Value, _ = strconv.ParseFloat(strings.TrimSuffix(string(t.Data), "%"), 64)
			val.Unit = "%"
		case css.NumberToken:
			val.Value, _ = strconv.ParseFloat(string(t.Data), 64)
		case css.IdentToken:
			val.Keyword = strings.ToLower(string(t.Data))
		case css.StringToken:
			val.Keyword = unquote(string(t.Data))
		case css.HashToken:
			// Color value
			val.Keyword = string(t.Data)
		}
		return val
	}

	// Function tokens (rgb(), var(), ...) and multi-value properties keep raw text
	val.Keyword = raw
	return val
}

// parseDimension extracts numeric value and unit from dimension token.
func parseDimension(s string) (float64, string) {
	numEnd := 0
	for i, r := range s {
		if unicode.IsDigit(r) || r == '.' || r == '-' || r == '+' {
			numEnd = i + 1
		} else {
			break
		}
	}
	if numEnd == 0 {
		return 0, ""
	}
	num, _ := strconv.ParseFloat(s[:numEnd], 64)
	unit := strings.ToLower(s[numEnd:])
	return num, unit
}

// parseSelector parses a single selector string into a Selector.
func (p *Parser) parseSelector(selStr string, sheet *Stylesheet) Selector {
	selStr = strings.TrimSpace(selStr)
	sel := Selector{Raw: selStr}

	// Check for unsupported selector patterns first
	if strings.ContainsAny(selStr, "+~") {
		sheet.Warnings = append(sheet.Warnings, "unsupported sibling combinator: "+selStr)
		p.log.Debug("Skipping sibling combinator selector", zap.String("selector", selStr))
		return sel
	}
	if strings.Contains(selStr, "[") {
		sheet.Warnings = append(sheet.Warnings, "unsupported attribute selector: "+selStr)
		p.log.Debug("Skipping attribute selector", zap.String("selector", selStr))
		return sel
	}
	if strings.Contains(selStr, "(") {
		sheet.Warnings = append(sheet.Warnings, "unsupported functional pseudo-class: "+selStr)
		p.log.Debug("Skipping functional pseudo-class selector", zap.String("selector", selStr))
		return sel
	}

	// Compound selector: descendant (whitespace) and/or child (>) parts
	if strings.ContainsAny(selStr, " \t\n>") {
		return p.parseCompoundSelector(selStr, sheet)
	}

	return p.parseSimpleSelector(selStr, sheet)
}

// parseCompoundSelector parses selectors with descendant or child combinators,
// like ".card h2" or ".menu > li". Parts are linked right to left through
// Ancestor, with Child marking direct-child links.
func (p *Parser) parseCompoundSelector(selStr string, sheet *Stylesheet) Selector {
	sel := Selector{Raw: selStr}

	// Isolate ">" so Fields splits it out as its own part
	spaced := strings.ReplaceAll(selStr, ">", " > ")
	parts := strings.Fields(spaced)
	if len(parts) < 2 {
		return sel
	}

	var current *Selector
	child := false
	for _, part := range parts {
		if part == ">" {
			if current == nil {
				// leading combinator, nothing to attach to
				sheet.Warnings = append(sheet.Warnings, "malformed selector: "+selStr)
				return sel
			}
			child = true
			continue
		}

		next := p.parseSimpleSelector(part, sheet)
		if !next.IsSimple() {
			return sel
		}
		next.Child = child
		next.Ancestor = current
		current = &next
		child = false
	}

	if current == nil {
		return sel
	}
	result := *current
	result.Raw = selStr
	return result
}

// parseSimpleSelector parses a simple selector (element, class, or
// element.class) with an optional pseudo-class or pseudo-element.
func (p *Parser) parseSimpleSelector(selStr string, sheet *Stylesheet) Selector {
	selStr = strings.TrimSpace(selStr)
	sel := Selector{Raw: selStr}

	remaining := selStr
	if before, pseudo, found := strings.Cut(selStr, "::"); found {
		if !isPseudoName(pseudo) {
			sheet.Warnings = append(sheet.Warnings, "unsupported pseudo-element: "+selStr)
			p.log.Debug("Skipping unsupported pseudo-element", zap.String("selector", selStr))
			return sel
		}
		remaining = before
		sel.Pseudo = strings.ToLower(pseudo)
		sel.PseudoElement = true
	} else if before, pseudo, found := strings.Cut(remaining, ":"); found {
		if !isPseudoName(pseudo) {
			sheet.Warnings = append(sheet.Warnings, "unsupported pseudo-class: "+selStr)
			p.log.Debug("Skipping unsupported pseudo-class", zap.String("selector", selStr))
			return sel
		}
		remaining = before
		sel.Pseudo = strings.ToLower(pseudo)
		// single-colon legacy spelling of before/after is still a pseudo-element
		if sel.Pseudo == "before" || sel.Pseudo == "after" {
			sel.PseudoElement = true
		}
	}

	if remaining == "" {
		// ":hover" without a base part is not meaningful at the top level
		return sel
	}

	if element, class, found := strings.Cut(remaining, "."); found {
		if element != "" {
			sel.Element = element
		}
		sel.Class = class
	} else {
		sel.Element = remaining
	}

	return sel
}

// isPseudoName reports whether s is a plain pseudo-class/element name.
func isPseudoName(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '-' && r != '_' {
			return false
		}
	}
	return true
}

// parseMediaBlockRules parses rules inside an @media block and returns them
// for the caller to wrap in a MediaBlock.
func (p *Parser) parseMediaBlockRules(parser *css.Parser, sheet *Stylesheet) []Rule {
	var (
		rules   []Rule
		pending []string
	)

	for {
		gt, _, data := parser.Next()

		switch gt {
		case css.ErrorGrammar, css.EndAtRuleGrammar:
			return rules

		case css.QualifiedRuleGrammar:
			pending = append(pending, p.parseSelectors(data, parser.Values())...)

		case css.BeginRulesetGrammar:
			selectors := append(pending, p.parseSelectors(data, parser.Values())...)
			pending = nil
			decls := p.parseDeclarations(parser)

			for _, selStr := range selectors {
				sel := p.parseSelector(selStr, sheet)
				if !sel.IsSimple() {
					continue
				}
				declsCopy := make([]Declaration, len(decls))
				copy(declsCopy, decls)
				rules = append(rules, Rule{Selector: sel, Declarations: declsCopy})
			}
		}
	}
}

// parseKeyframeFrames parses the frame blocks inside an @keyframes rule.
func (p *Parser) parseKeyframeFrames(parser *css.Parser) []Frame {
	var frames []Frame

	for {
		gt, _, data := parser.Next()

		switch gt {
		case css.ErrorGrammar, css.EndAtRuleGrammar:
			return frames

		case css.BeginRulesetGrammar:
			key := joinTokens(append([]css.Token{{TokenType: css.IdentToken, Data: data}}, parser.Values()...))
			decls := p.parseDeclarations(parser)
			if key == "" {
				continue
			}
			frames = append(frames, Frame{Key: key, Declarations: decls})
		}
	}
}

// skipAtRuleBlock skips tokens until the matching end of an @-rule block.
func (p *Parser) skipAtRuleBlock(parser *css.Parser) {
	depth := 1
	for depth > 0 {
		gt, _, _ := parser.Next()
		switch gt {
		case css.ErrorGrammar:
			return
		case css.BeginAtRuleGrammar, css.BeginRulesetGrammar:
			depth++
		case css.EndAtRuleGrammar, css.EndRulesetGrammar:
			depth--
		}
	}
}

// unquote removes surrounding quotes from a string.
func unquote(s string) string {
	s = strings.TrimSpace(s)
	if len(s) < 2 {
		return s
	}
	if (s[0] == '"' && s[len(s)-1] == '"') ||
		(s[0] == '\'' && s[len(s)-1] == '\'') {
		return s[1 : len(s)-1]
	}
	return s
}
