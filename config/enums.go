package config

import (
	"fmt"
	"strings"
)

// GroupingMode specifies how parsed CSS rules are split into component sheets.
type GroupingMode int

const (
	// GroupingModeFile keeps all rules from one input file in a single sheet set.
	GroupingModeFile GroupingMode = iota
	// GroupingModeComponent groups rules by component name derived from selectors.
	GroupingModeComponent
)

var groupingModeNames = []string{"file", "component"}

func GroupingModeNames() []string {
	out := make([]string, len(groupingModeNames))
	copy(out, groupingModeNames)
	return out
}

func ParseGroupingMode(name string) (GroupingMode, error) {
	for i, n := range groupingModeNames {
		if strings.EqualFold(name, n) {
			return GroupingMode(i), nil
		}
	}
	return GroupingModeFile, fmt.Errorf("unknown grouping mode: %q", name)
}

func (m GroupingMode) String() string {
	if int(m) < 0 || int(m) >= len(groupingModeNames) {
		return fmt.Sprintf("GroupingMode(%d)", int(m))
	}
	return groupingModeNames[m]
}

// MarshalYAML implements yaml.Marshaler so configuration dumps stay readable.
func (m GroupingMode) MarshalYAML() (any, error) {
	if int(m) < 0 || int(m) >= len(groupingModeNames) {
		return nil, fmt.Errorf("invalid grouping mode value: %d", int(m))
	}
	return m.String(), nil
}

// UnmarshalYAML implements yaml.Unmarshaler accepting mode names.
func (m *GroupingMode) UnmarshalYAML(unmarshal func(any) error) error {
	var name string
	if err := unmarshal(&name); err != nil {
		return err
	}
	v, err := ParseGroupingMode(name)
	if err != nil {
		return err
	}
	*m = v
	return nil
}
