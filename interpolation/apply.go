package interpolation

import (
	"fmt"
	"sort"

	"github.com/npillmayer/cssanim/style"
	"github.com/npillmayer/cssanim/style/css"
)

// Interpolation is the sampled output of an effect for one property: a
// pair of keyframe values and the (eased) fraction between them.
// An empty keyframe value is the neutral value, i.e. the underlying value.
type Interpolation struct {
	Property                   style.PropertyHandle
	From, To                   style.Property
	FromComposite, ToComposite css.CompositeOperation
	Fraction                   float64
	Types                      []Type
}

func (ip *Interpolation) String() string {
	return fmt.Sprintf("%s: %q→%q @%.3f", ip.Property, ip.From, ip.To, ip.Fraction)
}

// Apply composites the interpolation onto an underlying value.
func (ip *Interpolation) Apply(underlying style.Property, cs *style.ComputedStyle) style.Property {
	from, fromComp := ip.From, ip.FromComposite
	if from.IsEmpty() {
		from, fromComp = underlying, css.CompositeReplace
	}
	to, toComp := ip.To, ip.ToComposite
	if to.IsEmpty() {
		to, toComp = underlying, css.CompositeReplace
	}
	for _, t := range ip.Types {
		vf, ok1 := t.MaybeConvert(from, cs)
		vt, ok2 := t.MaybeConvert(to, cs)
		if !ok1 || !ok2 {
			continue
		}
		if fromComp != css.CompositeReplace || toComp != css.CompositeReplace {
			if vu, ok := t.MaybeConvert(underlying, cs); ok {
				vf = ip.composite(fromComp, vu, vf)
				vt = ip.composite(toComp, vu, vt)
			}
		}
		if Compatible(vf, vt) {
			return Interpolate(vf, vt, ip.Fraction).Property()
		}
	}
	if ip.Fraction < 0.5 {
		return from
	}
	return to
}

// composite combines a keyframe value with the underlying value. Values
// which cannot be combined replace the underlying value.
func (ip *Interpolation) composite(op css.CompositeOperation, underlying, v Value) Value {
	var r Value
	var ok bool
	switch op {
	case css.CompositeAdd:
		r, ok = Add(underlying, v)
	case css.CompositeAccumulate:
		r, ok = Accumulate(underlying, v)
	default:
		return v
	}
	if !ok {
		tracer().Debugf("%s: cannot %s %s onto %s, replacing", ip.Property, op, v, underlying)
		return v
	}
	return r
}

// ActiveInterpolations maps properties to their interpolations, ordered
// from the lowest to the highest composite order.
type ActiveInterpolations map[style.PropertyHandle][]*Interpolation

// Properties returns the animated properties, sorted by name.
func (ai ActiveInterpolations) Properties() []style.PropertyHandle {
	props := make([]style.PropertyHandle, 0, len(ai))
	for h := range ai {
		props = append(props, h)
	}
	sort.Slice(props, func(i, j int) bool { return props[i].Name() < props[j].Name() })
	return props
}

// Contains is true if there are interpolations for a property.
func (ai ActiveInterpolations) Contains(h style.PropertyHandle) bool {
	_, ok := ai[h]
	return ok
}

// Apply applies all interpolations to a clone of style base. Properties
// are applied in name order, with font-affecting properties first so that
// em lengths resolve against animated font sizes.
func (ai ActiveInterpolations) Apply(base *style.ComputedStyle) *style.ComputedStyle {
	cs := base.Clone()
	props := ai.Properties()
	sort.SliceStable(props, func(i, j int) bool {
		return style.AffectsFont(props[i].Name()) && !style.AffectsFont(props[j].Name())
	})
	for _, h := range props {
		v := cs.GetHandle(h)
		for _, ip := range ai[h] {
			v = ip.Apply(v, cs)
		}
		tracer().Debugf("animated %s = %s", h, v)
		cs.Set(h.Name(), v)
	}
	return cs
}
