package style

import (
	"strings"
)

const indentStep = "  "

// Emit serializes a normalized sheet into style-language text: the root
// declarations as a bare block first, then each child block in insertion
// order. Media blocks come out as top-level siblings, everything else nests
// inside its parent's block.
//
// Emit is pure text assembly - all structural guarantees come from the
// normalizer, and emitting a non-normalized sheet fails fast with
// InvalidIRError instead of attempting best-effort serialization.
func Emit(sheet *Sheet) (string, error) {
	if sheet == nil || sheet.Root == nil {
		return "", &InvalidIRError{Reason: "emission attempted on a sheet without a root block"}
	}
	if !sheet.normalized {
		return "", &InvalidIRError{Sheet: sheet.Name, Reason: "emission attempted on a non-normalized tree"}
	}

	var sb strings.Builder

	first := true
	if len(sheet.Root.Declarations) > 0 {
		sb.WriteString("{\n")
		writeDeclarations(&sb, sheet.Root.Declarations, indentStep)
		sb.WriteString("}\n")
		first = false
	}

	for _, child := range sheet.Root.Children {
		if !first {
			sb.WriteString("\n")
		}
		writeBlock(&sb, child, "")
		first = false
	}

	return sb.String(), nil
}

// writeBlock writes one rule block and its nested children recursively.
func writeBlock(sb *strings.Builder, node *RuleNode, indent string) {
	sb.WriteString(indent)
	sb.WriteString(node.resolved)
	sb.WriteString(" {\n")

	writeDeclarations(sb, node.Declarations, indent+indentStep)

	for i, child := range node.Children {
		if i > 0 || len(node.Declarations) > 0 {
			sb.WriteString("\n")
		}
		writeBlock(sb, child, indent+indentStep)
	}

	sb.WriteString(indent)
	sb.WriteString("}\n")
}

// writeDeclarations writes declarations one statement per line, in order.
func writeDeclarations(sb *strings.Builder, decls []Declaration, indent string) {
	for _, d := range decls {
		sb.WriteString(indent)
		sb.WriteString(d.Property)
		sb.WriteString(": ")
		sb.WriteString(strings.TrimSpace(d.Value))
		sb.WriteString(";\n")
	}
}

// Keyframe is a single frame of an animation definition.
type Keyframe struct {
	Key          string
	Declarations []Declaration
}

// EmitAnimation serializes an @keyframes definition. Frame keys and the
// animation name are validated here since keyframes bypass the rule tree.
func EmitAnimation(name string, frames []Keyframe) (string, error) {
	if strings.TrimSpace(name) == "" {
		return "", &InvalidIRError{Reason: "animation without a name"}
	}
	if strings.ContainsAny(name, ";{}() \t\n") {
		return "", &InvalidIRError{Reason: "animation name " + name + " contains disallowed characters"}
	}

	var sb strings.Builder
	sb.WriteString("@keyframes ")
	sb.WriteString(name)
	sb.WriteString(" {\n")
	for i, f := range frames {
		key := strings.TrimSpace(f.Key)
		if key == "" || strings.ContainsAny(key, ";{}") {
			return "", &InvalidIRError{Reason: "animation " + name + " has a malformed frame key"}
		}
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(indentStep)
		sb.WriteString(key)
		sb.WriteString(" {\n")
		writeDeclarations(&sb, f.Declarations, indentStep+indentStep)
		sb.WriteString(indentStep)
		sb.WriteString("}\n")
	}
	sb.WriteString("}\n")
	return sb.String(), nil
}
