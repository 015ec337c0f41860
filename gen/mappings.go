package gen

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed mappings.yaml
var defaultMappings []byte

// Mappings translates literal declaration values into design token
// references. Each category applies to its own set of properties, so a
// pixel value maps differently for padding than for border-radius.
type Mappings struct {
	Colors       map[string]string `yaml:"colors"`
	Spacing      map[string]string `yaml:"spacing"`
	BorderRadius map[string]string `yaml:"border_radius"`
	FontSizes    map[string]string `yaml:"font_sizes"`
	FontWeights  map[string]string `yaml:"font_weights"`
	Shadows      map[string]string `yaml:"shadows"`
	Transitions  map[string]string `yaml:"transitions"`
}

// DefaultMappings returns the built-in token table.
func DefaultMappings() (*Mappings, error) {
	var m Mappings
	dec := yaml.NewDecoder(strings.NewReader(string(defaultMappings)))
	dec.KnownFields(true)
	if err := dec.Decode(&m); err != nil {
		return nil, fmt.Errorf("unable to parse built-in mappings: %w", err)
	}
	return &m, nil
}

// LoadMappings returns the built-in table extended with entries from a user
// supplied YAML file. User entries win on conflict.
func LoadMappings(path string) (*Mappings, error) {
	m, err := DefaultMappings()
	if err != nil {
		return nil, err
	}
	if path == "" {
		return m, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("unable to read mappings file: %w", err)
	}
	var custom Mappings
	dec := yaml.NewDecoder(strings.NewReader(string(data)))
	dec.KnownFields(true)
	if err := dec.Decode(&custom); err != nil {
		return nil, fmt.Errorf("unable to parse mappings file %s: %w", path, err)
	}
	m.merge(&custom)
	return m, nil
}

func (m *Mappings) merge(other *Mappings) {
	mergeCategory(&m.Colors, other.Colors)
	mergeCategory(&m.Spacing, other.Spacing)
	mergeCategory(&m.BorderRadius, other.BorderRadius)
	mergeCategory(&m.FontSizes, other.FontSizes)
	mergeCategory(&m.FontWeights, other.FontWeights)
	mergeCategory(&m.Shadows, other.Shadows)
	mergeCategory(&m.Transitions, other.Transitions)
}

func mergeCategory(dst *map[string]string, src map[string]string) {
	if len(src) == 0 {
		return
	}
	if *dst == nil {
		*dst = make(map[string]string, len(src))
	}
	for k, v := range src {
		(*dst)[k] = v
	}
}

// Apply maps a declaration value to its token form when the property falls
// into a known category and the whole value matches a table entry. Values
// without a mapping pass through unchanged.
func (m *Mappings) Apply(property, value string) string {
	if m == nil {
		return value
	}
	table := m.categoryFor(strings.ToLower(strings.TrimSpace(property)))
	if table == nil {
		return value
	}
	if mapped, ok := table[strings.TrimSpace(value)]; ok {
		return mapped
	}
	return value
}

func (m *Mappings) categoryFor(property string) map[string]string {
	switch {
	case property == "border-radius" || strings.HasSuffix(property, "-radius"):
		return m.BorderRadius
	case property == "font-size":
		return m.FontSizes
	case property == "font-weight":
		return m.FontWeights
	case property == "box-shadow" || property == "text-shadow":
		return m.Shadows
	case property == "transition" || strings.HasPrefix(property, "transition-"):
		return m.Transitions
	case strings.Contains(property, "color") || property == "background":
		return m.Colors
	case strings.HasPrefix(property, "padding") || strings.HasPrefix(property, "margin") ||
		property == "gap" || property == "row-gap" || property == "column-gap" ||
		property == "top" || property == "right" || property == "bottom" || property == "left":
		return m.Spacing
	}
	return nil
}
