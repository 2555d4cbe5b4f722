package style

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// ComputedStyle is the resolved style of an element. Once handed out by a
// style resolver, a computed style is treated as immutable; changes create
// a new style with Clone().
//
// Values not set locally cascade to the parent style for inherited
// properties and fall back to the initial value otherwise.
type ComputedStyle struct {
	props  map[string]Property
	parent *ComputedStyle
	base   *ComputedStyle // style without animation effects, if different
	flags  AnimationFlags
}

// NewComputedStyle creates an empty style inheriting from parent (which may be nil).
func NewComputedStyle(parent *ComputedStyle) *ComputedStyle {
	return &ComputedStyle{parent: parent}
}

// Clone creates a copy of a style, sharing the parent but not the base style.
func (cs *ComputedStyle) Clone() *ComputedStyle {
	c := &ComputedStyle{parent: cs.parent, flags: cs.flags}
	if len(cs.props) > 0 {
		c.props = make(map[string]Property, len(cs.props))
		for k, v := range cs.props {
			c.props[k] = v
		}
	}
	return c
}

// Parent returns the style this style inherits from.
func (cs *ComputedStyle) Parent() *ComputedStyle {
	return cs.parent
}

func (cs *ComputedStyle) String() string {
	var b strings.Builder
	b.WriteString("{")
	for i, kv := range cs.Properties() {
		if i > 0 {
			b.WriteString("; ")
		}
		fmt.Fprintf(&b, "%s: %s", kv.Key, kv.Value)
	}
	b.WriteString("}")
	return b.String()
}

// Set sets a property's value. CSS-wide keywords are resolved immediately:
// inherit copies the parent's value, initial and unset remove a local value.
func (cs *ComputedStyle) Set(key string, p Property) {
	if cs.props == nil {
		cs.props = make(map[string]Property)
	}
	p = p.Normalized()
	switch p {
	case "inherit":
		if cs.parent != nil {
			cs.props[key] = cs.parent.Get(key)
		} else {
			delete(cs.props, key)
		}
		return
	case "initial":
		if isCustom(key) {
			delete(cs.props, key)
		} else {
			cs.props[key] = InitialValue(key)
		}
		return
	case "unset", "revert", "revert-layer":
		delete(cs.props, key)
		return
	}
	cs.props[key] = p
}

// IsSet is a predicate wether a property is set locally.
func (cs *ComputedStyle) IsSet(key string) bool {
	if cs == nil {
		return false
	}
	_, ok := cs.props[key]
	return ok
}

// Get returns a property's computed value. The search cascades to parent
// styles for inherited properties.
func (cs *ComputedStyle) Get(key string) Property {
	for it := cs; it != nil; it = it.parent {
		if p, ok := it.props[key]; ok {
			return p
		}
		if !IsInherited(key) && !isCustom(key) {
			break
		}
	}
	if isCustom(key) {
		return NullStyle
	}
	return InitialValue(key)
}

// GetHandle returns the computed value for a property handle.
func (cs *ComputedStyle) GetHandle(h PropertyHandle) Property {
	return cs.Get(h.Name())
}

// Properties returns all locally set properties, sorted by key.
func (cs *ComputedStyle) Properties() []KeyValue {
	r := make([]KeyValue, 0, len(cs.props))
	for k, v := range cs.props {
		r = append(r, KeyValue{k, v})
	}
	sort.Slice(r, func(i, j int) bool { return r[i].Key < r[j].Key })
	return r
}

// EffectiveZoom returns the accumulated zoom factor.
func (cs *ComputedStyle) EffectiveZoom() float64 {
	z := 1.0
	for it := cs; it != nil; it = it.parent {
		if p, ok := it.props["zoom"]; ok {
			if f, err := strconv.ParseFloat(string(p), 64); err == nil && f > 0 {
				z *= f
			}
		}
	}
	return z
}

// WritingDirection returns the writing-mode / direction pair of a style.
func (cs *ComputedStyle) WritingDirection() WritingDirection {
	return WritingDirection{
		Mode:      ParseWritingMode(cs.Get("writing-mode")),
		Direction: ParseDirection(cs.Get("direction")),
	}
}

// Display returns the value of the display property.
func (cs *ComputedStyle) Display() Property {
	return cs.Get("display")
}

// IsDisplayNone is true for display: none.
func (cs *ComputedStyle) IsDisplayNone() bool {
	return cs.Display() == "none"
}

// SetBaseComputedStyle links a style to its base style, i.e. the style
// before animation effects have been applied.
func (cs *ComputedStyle) SetBaseComputedStyle(base *ComputedStyle) {
	if base == cs {
		base = nil
	}
	cs.base = base
}

// GetBaseComputedStyleOrThis returns the base style if present, cs otherwise.
// Elements which have not been animated have no separate base style.
func (cs *ComputedStyle) GetBaseComputedStyleOrThis() *ComputedStyle {
	if cs.base != nil {
		return cs.base
	}
	return cs
}

// AnimationFlags returns the animation flags of a style.
func (cs *ComputedStyle) AnimationFlags() AnimationFlags {
	return cs.flags
}

// SetAnimationFlags replaces the animation flags of a style.
func (cs *ComputedStyle) SetAnimationFlags(f AnimationFlags) {
	cs.flags = f
}

// PropertiesEqual compares the stored computed values of a property.
func PropertiesEqual(h PropertyHandle, a, b *ComputedStyle) bool {
	return a.GetHandle(h) == b.GetHandle(h)
}

func isCustom(key string) bool {
	return strings.HasPrefix(key, "--")
}

// --- Animation flags --------------------------------------------------

// AnimationFlags are set on computed styles for elements with current
// animations of compositable properties.
type AnimationFlags uint32

// Animation flags.
const (
	HasCurrentOpacityAnimation AnimationFlags = 1 << iota
	HasCurrentTransformAnimation
	HasCurrentRotateAnimation
	HasCurrentScaleAnimation
	HasCurrentTranslateAnimation
	HasCurrentFilterAnimation
	HasCurrentBackdropFilterAnimation
	HasCurrentBackgroundColorAnimation
	HasCurrentClipPathAnimation
	IsRunningOpacityAnimationOnCompositor
	IsRunningTransformAnimationOnCompositor
	IsRunningScaleAnimationOnCompositor
	IsRunningRotateAnimationOnCompositor
	IsRunningTranslateAnimationOnCompositor
	IsRunningFilterAnimationOnCompositor
	IsRunningBackdropFilterAnimationOnCompositor
	CompositablePaintAnimationChanged
)

// Has checks if all flags of f are set.
func (af AnimationFlags) Has(f AnimationFlags) bool {
	return af&f == f
}

// Set sets flags.
func (af *AnimationFlags) Set(f AnimationFlags) {
	*af |= f
}

// HasCurrentCompositableAnimation is true if any of the HasCurrent… flags is set.
func (af AnimationFlags) HasCurrentCompositableAnimation() bool {
	return af&(HasCurrentOpacityAnimation|HasCurrentTransformAnimation|HasCurrentRotateAnimation|
		HasCurrentScaleAnimation|HasCurrentTranslateAnimation|HasCurrentFilterAnimation|
		HasCurrentBackdropFilterAnimation|HasCurrentBackgroundColorAnimation) != 0
}
