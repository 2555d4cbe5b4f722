package animation

import (
	"sort"

	"github.com/npillmayer/cssanim/interpolation"
	"github.com/npillmayer/cssanim/style"
	"github.com/npillmayer/cssanim/style/css"
)

// EffectStack holds the animations targeting one element.
type EffectStack struct {
	animations []*Animation
}

// Add puts an animation on the stack.
func (es *EffectStack) Add(a *Animation) {
	for _, x := range es.animations {
		if x == a {
			return
		}
	}
	es.animations = append(es.animations, a)
}

// Remove takes an animation off the stack.
func (es *EffectStack) Remove(a *Animation) {
	for i, x := range es.animations {
		if x == a {
			es.animations = append(es.animations[:i], es.animations[i+1:]...)
			return
		}
	}
}

// Animations returns the animations of the stack in composite order.
func (es *EffectStack) Animations() []*Animation {
	r := make([]*Animation, len(es.animations))
	copy(r, es.animations)
	sort.SliceStable(r, func(i, j int) bool { return CompareCompositeOrder(r[i], r[j]) })
	return r
}

// IsEmpty is true if there are no animations on the stack.
func (es *EffectStack) IsEmpty() bool {
	return len(es.animations) == 0
}

// CompareCompositeOrder is a less-function for the composite order of
// animations: CSS transitions sort before CSS animations, transitions by
// generation and property name, animations by their position in
// animation-name. Animations no longer owned by CSS sort last, by
// creation.
// https://drafts.csswg.org/css-animations-2/#animation-composite-order
func CompareCompositeOrder(a, b *Animation) bool {
	ca, cb := a.compositeClass(), b.compositeClass()
	if ca != cb {
		return ca < cb
	}
	switch ca {
	case 0:
		if a.generation != b.generation {
			return a.generation < b.generation
		}
		if a.property != b.property {
			return a.property.Name() < b.property.Name()
		}
	case 1:
		if a.index != b.index {
			return a.index < b.index
		}
	}
	return a.seq < b.seq
}

func (a *Animation) compositeClass() int {
	switch {
	case a.owner == nil:
		return 2
	case a.kind == CSSTransition:
		return 0
	}
	return 1
}

// PropertyFilter selects properties for active interpolations.
type PropertyFilter func(style.PropertyHandle) bool

// CSSPropertiesOnly is a filter accepting standard and custom CSS
// properties, but not presentation attributes.
func CSSPropertiesOnly(h style.PropertyHandle) bool {
	return !h.IsPresentationAttribute()
}

// ActiveInterpolations samples the effects of priority on the stack,
// skipping suppressed animations, and appends the output of newEffects.
// Replacing interpolations drop everything below them.
func (es *EffectStack) ActiveInterpolations(priority Priority, filter PropertyFilter,
	newEffects []*InertEffect, suppressed map[*Animation]bool) interpolation.ActiveInterpolations {
	result := make(interpolation.ActiveInterpolations)
	if es != nil {
		for _, a := range es.Animations() {
			if suppressed[a] || a.effect == nil || a.effect.Priority() != priority {
				continue
			}
			addInterpolations(result, a.effect.Sample(), filter)
		}
	}
	for _, ie := range newEffects {
		addInterpolations(result, ie.Sample(), filter)
	}
	return result
}

func addInterpolations(result interpolation.ActiveInterpolations,
	samples []*interpolation.Interpolation, filter PropertyFilter) {
	for _, ip := range samples {
		if filter != nil && !filter(ip.Property) {
			continue
		}
		if replaces(ip) {
			result[ip.Property] = []*interpolation.Interpolation{ip}
			continue
		}
		result[ip.Property] = append(result[ip.Property], ip)
	}
}

// replaces is true if an interpolation does not depend on the
// underlying value.
func replaces(ip *interpolation.Interpolation) bool {
	return !ip.From.IsEmpty() && !ip.To.IsEmpty() &&
		ip.FromComposite == css.CompositeReplace && ip.ToComposite == css.CompositeReplace
}

// HasActiveAnimationsOnCompositor is true if the compositor runs an effect
// for property h.
func (es *EffectStack) HasActiveAnimationsOnCompositor(h style.PropertyHandle) bool {
	for _, a := range es.animations {
		if a.effect != nil && a.effect.HasActiveAnimationsOnCompositor(h) {
			return true
		}
	}
	return false
}

// AffectsProperties is true if a current effect of the stack animates a
// property matching filter.
func (es *EffectStack) AffectsProperties(filter PropertyFilter) bool {
	for _, a := range es.animations {
		if a.effect == nil || !a.effect.IsCurrent() || a.effect.Model() == nil {
			continue
		}
		for _, h := range a.effect.Model().PropertyList() {
			if filter(h) {
				return true
			}
		}
	}
	return false
}
