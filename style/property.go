/*
Package style holds the property layer the animation engine works on:
raw property values, property handles, computed styles and the static
metadata of CSS properties (interpolable, inherited, compositable, …).

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package style

import (
	"strings"

	"github.com/npillmayer/schuko/tracing"
)

// tracer will return a tracer. We are tracing to 'cssanim.style'
func tracer() tracing.Trace {
	return tracing.Select("cssanim.style")
}

// Property is a raw value for a CSS property. For example, with
//
//     color: black
//
// a property value of "black" is set. The main purpose of wrapping
// the raw string value into type Property is to provide a set of
// convenient type conversion functions and other helpers.
type Property string

// NullStyle is an empty property value.
const NullStyle Property = ""

func (p Property) String() string {
	return string(p)
}

// IsInitial denotes if a property is of inheritence-type "initial"
func (p Property) IsInitial() bool {
	return p == "initial"
}

// IsInherit denotes if a property is of inheritence-type "inherit"
func (p Property) IsInherit() bool {
	return p == "inherit"
}

// IsCSSWideKeyword is true for initial, inherit, unset, revert and revert-layer.
func (p Property) IsCSSWideKeyword() bool {
	switch p {
	case "initial", "inherit", "unset", "revert", "revert-layer":
		return true
	}
	return false
}

// IsEmpty checks wether a property is empty, i.e. the null-string.
func (p Property) IsEmpty() bool {
	return p == ""
}

// Normalized returns the property value trimmed and in lower case, except
// for quoted strings.
func (p Property) Normalized() Property {
	s := strings.TrimSpace(string(p))
	if strings.ContainsAny(s, `"'`) {
		return Property(s)
	}
	return Property(strings.ToLower(s))
}

// List splits a comma separated property value into its items, e.g.
//
//     "slide, fade 2s" => ["slide", "fade 2s"]
//
// Commas nested in parentheses do not split.
func (p Property) List() []Property {
	s := strings.TrimSpace(string(p))
	if s == "" {
		return nil
	}
	var items []Property
	depth, start := 0, 0
	for i, r := range s {
		switch r {
		case '(':
			depth++
		case ')':
			depth--
		case ',':
			if depth == 0 {
				items = append(items, Property(strings.TrimSpace(s[start:i])))
				start = i + 1
			}
		}
	}
	items = append(items, Property(strings.TrimSpace(s[start:])))
	return items
}

// KeyValue is a container for a style property.
type KeyValue struct {
	Key   string
	Value Property
}

// --- Property handles -------------------------------------------------

// PropertyHandle identifies an animatable property: either a standard CSS
// longhand property or a custom property ("--my-prop").
type PropertyHandle struct {
	name string
}

// Handle creates a property handle for a property name.
func Handle(name string) PropertyHandle {
	name = strings.TrimSpace(name)
	if !strings.HasPrefix(name, "--") {
		name = strings.ToLower(name)
	}
	return PropertyHandle{name: name}
}

// Name returns the property name of a handle.
func (h PropertyHandle) Name() string {
	return h.name
}

func (h PropertyHandle) String() string {
	return h.name
}

// IsCSSCustomProperty is true for custom properties.
func (h PropertyHandle) IsCSSCustomProperty() bool {
	return strings.HasPrefix(h.name, "--")
}

// IsCSSProperty is true for known standard CSS properties.
func (h PropertyHandle) IsCSSProperty() bool {
	if h.IsCSSCustomProperty() {
		return false
	}
	_, ok := propertyTable[h.name]
	return ok
}

// IsPresentationAttribute is true for SVG presentation attribute handles,
// which we denote with a prefix of "svg:".
func (h PropertyHandle) IsPresentationAttribute() bool {
	return strings.HasPrefix(h.name, "svg:")
}

// IsValidCustomPropertyName checks the syntax of a custom property name.
func IsValidCustomPropertyName(name string) bool {
	return len(name) > 2 && strings.HasPrefix(name, "--")
}

// PropertySet is a set of property handles.
type PropertySet map[PropertyHandle]struct{}

// Insert adds a property to the set.
func (ps PropertySet) Insert(h PropertyHandle) {
	ps[h] = struct{}{}
}

// Contains checks for set membership.
func (ps PropertySet) Contains(h PropertyHandle) bool {
	_, ok := ps[h]
	return ok
}
