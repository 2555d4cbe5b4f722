/*
Package interpolation converts CSS property values into interpolable
values, interpolates between them and composites them onto underlying
values.

Every property is associated with a list of interpolation types. A pair of
values can be smoothly interpolated if one of the types converts both of
them into compatible interpolable values. All other pairs flip discretely
at the midpoint.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package interpolation

import (
	"strings"

	"github.com/npillmayer/cssanim/style"
	"github.com/npillmayer/schuko/tracing"
)

// tracer will return a tracer. We are tracing to 'cssanim.interpolation'
func tracer() tracing.Trace {
	return tracing.Select("cssanim.interpolation")
}

// Type is an interpolation type, i.e. a way to read property values as
// vectors of numbers.
type Type interface {
	Name() string
	// MaybeConvert converts a property value in the context of a computed
	// style (for em units and currentcolor).
	MaybeConvert(p style.Property, cs *style.ComputedStyle) (Value, bool)
	compatible(a, b Value) bool
	serialize(v Value) style.Property
}

// Value is an interpolable value.
type Value struct {
	typ  Type
	nums []float64
	tmpl []string // text fragments between numbers, for templates
}

// Type returns the interpolation type a value has been converted by.
func (v Value) Type() Type {
	return v.typ
}

// Numbers returns the components of a value.
func (v Value) Numbers() []float64 {
	return v.nums
}

// Property converts an interpolable value back to a property value.
func (v Value) Property() style.Property {
	if v.typ == nil {
		return style.NullStyle
	}
	return v.typ.serialize(v)
}

func (v Value) String() string {
	return v.Property().String()
}

// Compatible is true if a and b may be interpolated smoothly.
func Compatible(a, b Value) bool {
	return a.typ != nil && a.typ == b.typ && len(a.nums) == len(b.nums) && a.typ.compatible(a, b)
}

// Interpolate interpolates between compatible values. For incompatible
// values it returns a for fractions < 0.5 and b otherwise.
func Interpolate(a, b Value, fraction float64) Value {
	if !Compatible(a, b) {
		if fraction < 0.5 {
			return a
		}
		return b
	}
	r := Value{typ: a.typ, tmpl: a.tmpl, nums: make([]float64, len(a.nums))}
	for i := range a.nums {
		r.nums[i] = a.nums[i] + (b.nums[i]-a.nums[i])*fraction
	}
	return r
}

// Add composites v onto underlying as for composite "add". Function lists,
// e.g. transforms, are concatenated; other values must be compatible and
// are added component-wise. If the values cannot be added, Add returns v
// and false.
func Add(underlying, v Value) (Value, bool) {
	if isFunctionList(underlying) && isFunctionList(v) {
		return concat(underlying, v), true
	}
	return Accumulate(underlying, v)
}

// Accumulate composites v onto underlying as for composite "accumulate":
// compatible values are added component-wise, so that for function lists
// the arguments of matching functions are summed. If the values are not
// compatible, Accumulate returns v and false.
func Accumulate(underlying, v Value) (Value, bool) {
	if !Compatible(underlying, v) {
		return v, false
	}
	r := Value{typ: v.typ, tmpl: v.tmpl, nums: make([]float64, len(v.nums))}
	for i := range v.nums {
		r.nums[i] = underlying.nums[i] + v.nums[i]
	}
	return r, true
}

// isFunctionList is true for template values made of functions only,
// e.g. "rotate(45deg) scale(2)".
func isFunctionList(v Value) bool {
	if v.typ != Template || len(v.tmpl) < 2 {
		return false
	}
	first, last := v.tmpl[0], v.tmpl[len(v.tmpl)-1]
	return first != "" && first[0] >= 'a' && first[0] <= 'z' && strings.HasSuffix(last, ")")
}

// concat appends the function list b to a.
func concat(a, b Value) Value {
	r := Value{typ: Template}
	r.nums = append(append(make([]float64, 0, len(a.nums)+len(b.nums)), a.nums...), b.nums...)
	r.tmpl = make([]string, 0, len(a.tmpl)+len(b.tmpl)-1)
	r.tmpl = append(r.tmpl, a.tmpl[:len(a.tmpl)-1]...)
	r.tmpl = append(r.tmpl, a.tmpl[len(a.tmpl)-1]+" "+b.tmpl[0])
	r.tmpl = append(r.tmpl, b.tmpl[1:]...)
	return r
}

// --- Types per property ------------------------------------------------------

var (
	lengthProperties = map[string]bool{
		"width": true, "height": true, "min-width": true, "min-height": true,
		"max-width": true, "max-height": true, "top": true, "right": true,
		"bottom": true, "left": true, "font-size": true, "letter-spacing": true,
		"word-spacing": true,
	}
	numberProperties = map[string]bool{
		"opacity": true, "zoom": true, "z-index": true, "font-weight": true,
	}
)

// TypesFor returns the candidate interpolation types for a property, in
// order of preference. A property without candidate types can only be
// animated discretely and is never transitioned. Custom properties need a
// typed registration.
func TypesFor(h style.PropertyHandle, reg *style.PropertyRegistry) []Type {
	name := h.Name()
	if h.IsCSSCustomProperty() {
		r := reg.Registration(name)
		if !r.IsInterpolable() {
			return nil
		}
		switch r.Syntax {
		case style.SyntaxLength:
			return []Type{Length}
		case style.SyntaxNumber:
			return []Type{Number}
		case style.SyntaxColor:
			return []Type{Color}
		}
		return nil
	}
	if !style.IsInterpolable(name) {
		return nil
	}
	switch {
	case strings.HasSuffix(name, "color"):
		return []Type{Color}
	case lengthProperties[name], strings.HasPrefix(name, "margin-"), strings.HasPrefix(name, "padding-"),
		strings.HasPrefix(name, "border-") && strings.HasSuffix(name, "-width"):
		return []Type{Length}
	case numberProperties[name]:
		return []Type{Number}
	case name == "line-height":
		return []Type{Number, Length}
	case name == "visibility":
		return nil
	}
	return []Type{Template}
}

// MaybeConvertPair searches the candidate types of a property for the
// first one which converts both values into compatible interpolable values.
func MaybeConvertPair(types []Type, a, b style.Property, csA, csB *style.ComputedStyle) (Value, Value, bool) {
	for _, t := range types {
		va, ok := t.MaybeConvert(a, csA)
		if !ok {
			continue
		}
		vb, ok := t.MaybeConvert(b, csB)
		if !ok {
			continue
		}
		if Compatible(va, vb) {
			return va, vb, true
		}
	}
	return Value{}, Value{}, false
}
