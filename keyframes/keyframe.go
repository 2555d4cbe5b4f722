/*
Package keyframes builds keyframe effect models from @keyframes rules and
for CSS transitions.

Models built from @keyframes rules follow the keyframe construction of CSS
Animations Level 2: keyframe blocks are sorted by offset, blocks with equal
offset, easing and composite operation are merged (the last declaration
of a property wins), and boundary keyframes at offsets 0 and 1 are
synthesized where the rule does not fully specify them.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package keyframes

import (
	"fmt"
	"strings"

	"github.com/npillmayer/cssanim/maybe"
	"github.com/npillmayer/cssanim/style"
	"github.com/npillmayer/cssanim/style/css"
	"github.com/npillmayer/cssanim/timing"
	"github.com/npillmayer/schuko/tracing"
)

// tracer will return a tracer. We are tracing to 'cssanim.keyframes'
func tracer() tracing.Trace {
	return tracing.Select("cssanim.keyframes")
}

// Keyframe is a single offset point of a keyframe effect. A keyframe
// without values for some animated property takes the underlying
// (computed) value for it.
type Keyframe struct {
	offset    float64
	easing    timing.TimingFunction
	composite maybe.Maybe[css.CompositeOperation]
	values    map[style.PropertyHandle]style.Property
	order     []style.PropertyHandle
}

// NewKeyframe creates an empty keyframe with linear easing.
func NewKeyframe(offset float64) *Keyframe {
	return &Keyframe{offset: offset, easing: timing.Linear}
}

func (kf *Keyframe) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%g%%", kf.offset*100)
	if kf.easing != nil && kf.easing.String() != "linear" {
		fmt.Fprintf(&b, " [%s]", kf.easing)
	}
	if c, ok := kf.composite.Get(); ok {
		fmt.Fprintf(&b, " [%s]", c)
	}
	b.WriteString(" {")
	for i, h := range kf.order {
		if i > 0 {
			b.WriteString(";")
		}
		fmt.Fprintf(&b, " %s: %s", h, kf.values[h])
	}
	b.WriteString(" }")
	return b.String()
}

// Offset returns the offset of a keyframe, in [0,1].
func (kf *Keyframe) Offset() float64 {
	return kf.offset
}

// Easing returns the timing function applied from this keyframe to the next one.
func (kf *Keyframe) Easing() timing.TimingFunction {
	return kf.easing
}

// SetEasing sets the easing of a keyframe.
func (kf *Keyframe) SetEasing(tf timing.TimingFunction) {
	kf.easing = tf
}

// Composite returns the composite operation of the keyframe, if set.
func (kf *Keyframe) Composite() maybe.Maybe[css.CompositeOperation] {
	return kf.composite
}

// SetComposite overrides the composite operation of the model for this keyframe.
func (kf *Keyframe) SetComposite(c css.CompositeOperation) {
	kf.composite = maybe.Just(c)
}

// SetValue sets the value of a property. Properties keep the order of
// their first insertion.
func (kf *Keyframe) SetValue(h style.PropertyHandle, v style.Property) {
	if kf.values == nil {
		kf.values = make(map[style.PropertyHandle]style.Property)
	}
	if _, ok := kf.values[h]; !ok {
		kf.order = append(kf.order, h)
	}
	kf.values[h] = v
}

// Value returns the value of a property.
func (kf *Keyframe) Value(h style.PropertyHandle) (style.Property, bool) {
	v, ok := kf.values[h]
	return v, ok
}

// Has is true if the keyframe carries a value for a property.
func (kf *Keyframe) Has(h style.PropertyHandle) bool {
	_, ok := kf.values[h]
	return ok
}

// Properties returns the properties of a keyframe in insertion order.
func (kf *Keyframe) Properties() []style.PropertyHandle {
	return kf.order
}

// CloneWithOffset copies a keyframe, sharing nothing, with a new offset.
func (kf *Keyframe) CloneWithOffset(offset float64) *Keyframe {
	c := &Keyframe{offset: offset, easing: kf.easing, composite: kf.composite}
	for _, h := range kf.order {
		c.SetValue(h, kf.values[h])
	}
	return c
}

func sameEasing(a, b timing.TimingFunction) bool {
	return timing.EqualTimingFunctions(a, b)
}
