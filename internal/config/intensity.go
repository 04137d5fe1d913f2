package config

import (
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Intensity is an 8-bit gray level used for padding and border fill.
type Intensity uint8

const (
	Black Intensity = 0
	White Intensity = 255
)

// ParseIntensity accepts "white", "black" or a decimal value in 0-255.
func ParseIntensity(s string) (Intensity, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "white":
		return White, nil
	case "black":
		return Black, nil
	}
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || v < 0 || v > 255 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidIntensity, s)
	}
	return Intensity(v), nil
}

// String returns the name for black and white, the number otherwise.
func (i Intensity) String() string {
	switch i {
	case White:
		return "white"
	case Black:
		return "black"
	}
	return strconv.Itoa(int(i))
}

// Set implements pflag.Value.
func (i *Intensity) Set(s string) error {
	v, err := ParseIntensity(s)
	if err != nil {
		return err
	}
	*i = v
	return nil
}

// Type implements pflag.Value.
func (i *Intensity) Type() string {
	return "intensity"
}

// UnmarshalYAML accepts both names and integers.
func (i *Intensity) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: %w", node.Line, ErrInvalidIntensity)
	}
	v, err := ParseIntensity(node.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	*i = v
	return nil
}

// MarshalYAML writes names for black and white and integers otherwise.
func (i Intensity) MarshalYAML() (any, error) {
	if i == White || i == Black {
		return i.String(), nil
	}
	return int(i), nil
}
