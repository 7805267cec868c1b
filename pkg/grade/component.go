package grade

import (
	"errors"
	"fmt"
	"strings"
)

// Component is one of the graded inputs of a student record.
type Component int

const (
	Lab1 Component = iota
	Lab2
	Lab3
	Midterm
	Final

	// ComponentCount is the number of graded components.
	ComponentCount = 5
)

var (
	// ErrUnknownComponent is returned for component names outside lab1..lab3, midterm, final.
	ErrUnknownComponent = errors.New("unknown component name")

	componentNames = [ComponentCount]string{"lab1", "lab2", "lab3", "midterm", "final"}
)

// Components returns all components in positional order.
func Components() []Component {
	return []Component{Lab1, Lab2, Lab3, Midterm, Final}
}

func (c Component) String() string {
	if !c.Valid() {
		return fmt.Sprintf("component(%d)", int(c))
	}
	return componentNames[c]
}

// Valid reports whether c is one of the five known components.
func (c Component) Valid() bool {
	return c >= Lab1 && c <= Final
}

// ParseComponent resolves a component name (case insensitive).
func ParseComponent(name string) (Component, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	for i, v := range componentNames {
		if v == n {
			return Component(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownComponent, name)
}

// Change sets one component to a new value.
type Change struct {
	Component Component `json:"component" yaml:"component"`
	Value     float64   `json:"value" yaml:"value"`
}

// MarshalText encodes the component by name.
func (c Component) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownComponent, int(c))
	}
	return []byte(c.String()), nil
}

// UnmarshalText decodes a component name.
func (c *Component) UnmarshalText(b []byte) error {
	v, err := ParseComponent(string(b))
	if err != nil {
		return err
	}
	*c = v
	return nil
}
