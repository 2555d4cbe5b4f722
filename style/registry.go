package style

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidRegistration is returned for malformed custom property registrations.
var ErrInvalidRegistration = errors.New("invalid custom property registration")

// Syntax is the value syntax of a registered custom property.
type Syntax string

// Supported syntax strings.
const (
	SyntaxUniversal Syntax = "*"
	SyntaxLength    Syntax = "<length>"
	SyntaxNumber    Syntax = "<number>"
	SyntaxColor     Syntax = "<color>"
)

// Registration describes a registered custom property (@property).
type Registration struct {
	Name         string
	Syntax       Syntax
	Inherits     bool
	InitialValue Property
}

// IsInterpolable is true for registrations with a typed (non-universal) syntax.
func (r *Registration) IsInterpolable() bool {
	return r != nil && r.Syntax != SyntaxUniversal
}

// PropertyRegistry holds the custom property registrations of a document.
type PropertyRegistry struct {
	regs map[string]*Registration
}

// NewPropertyRegistry creates an empty registry.
func NewPropertyRegistry() *PropertyRegistry {
	return &PropertyRegistry{regs: make(map[string]*Registration)}
}

// Register adds a custom property registration. Registering a name twice is an error.
func (reg *PropertyRegistry) Register(r Registration) error {
	if !IsValidCustomPropertyName(r.Name) {
		return fmt.Errorf("%w: name %q", ErrInvalidRegistration, r.Name)
	}
	switch Syntax(strings.TrimSpace(string(r.Syntax))) {
	case SyntaxUniversal, SyntaxLength, SyntaxNumber, SyntaxColor:
	default:
		return fmt.Errorf("%w: unsupported syntax %q", ErrInvalidRegistration, r.Syntax)
	}
	if r.Syntax != SyntaxUniversal && r.InitialValue.IsEmpty() {
		return fmt.Errorf("%w: %s needs an initial value", ErrInvalidRegistration, r.Name)
	}
	if _, exists := reg.regs[r.Name]; exists {
		return fmt.Errorf("%w: %s already registered", ErrInvalidRegistration, r.Name)
	}
	reg.regs[r.Name] = &r
	return nil
}

// Registration returns the registration for a custom property, or nil.
// A nil registry has no registrations.
func (reg *PropertyRegistry) Registration(name string) *Registration {
	if reg == nil {
		return nil
	}
	return reg.regs[name]
}
