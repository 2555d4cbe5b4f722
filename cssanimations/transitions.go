package cssanimations

import (
	"time"

	"github.com/npillmayer/cssanim/animation"
	"github.com/npillmayer/cssanim/interpolation"
	"github.com/npillmayer/cssanim/keyframes"
	"github.com/npillmayer/cssanim/maybe"
	"github.com/npillmayer/cssanim/style"
	"github.com/npillmayer/cssanim/style/css"
	"github.com/npillmayer/cssanim/timing"
)

// CalculateTransitionUpdate compares the old and the new style of the
// element for every property listed in transition-property. Changed values
// start transitions, transitions of properties no longer listed are
// cancelled and finished transitions are retired.
func (ca *CSSAnimations) CalculateTransitionUpdate(u *CSSAnimationUpdate, sc *StyleChange) {
	tc := transitionContext{
		ca:     ca,
		u:      u,
		base:   sc.Style,
		old:    ca.element.ComputedStyle(),
		data:   css.TransitionDataFrom(sc.Style),
		listed: make(style.PropertySet),
	}
	anyAll := false
	if !sc.IsAnimationStyleChange && !sc.Style.IsDisplayNone() && tc.old != nil && !tc.old.IsDisplayNone() {
		if tc.data != nil {
			for i, tp := range tc.data.Properties {
				if tp.IsAll() {
					anyAll = true
				}
				tc.forProperty(tp, i)
			}
		} else if len(ca.transitions) > 0 {
			// Without transition-* declarations, running transitions are
			// checked as if "all" was listed.
			anyAll = true
			tc.forProperty(css.AllProperties, 0)
		}
	}
	for _, h := range ca.transitionProperties() {
		rt := ca.transitions[h]
		if !anyAll && !sc.IsAnimationStyleChange && !tc.listed.Contains(h) {
			tracer().Debugf("%v: transition-property no longer lists %s", ca.element, h)
			u.CancelTransition(h)
		} else if rt.Animation.FinishedInternal() {
			u.FinishTransition(h)
		}
	}
	ca.calculateTransitionActiveInterpolations(u)
}

// transitionContext carries the state of one transition update.
type transitionContext struct {
	ca     *CSSAnimations
	u      *CSSAnimationUpdate
	base   *style.ComputedStyle // after-change style
	old    *style.ComputedStyle
	before *style.ComputedStyle // created on demand
	data   *css.TransitionData
	listed style.PropertySet
}

// forProperty expands the i-th entry of transition-property to longhands.
func (tc *transitionContext) forProperty(tp css.TransitionProperty, i int) {
	switch tp.Type {
	case css.TransitionNone:
		return
	case css.TransitionUnknownProperty:
		if !style.IsValidCustomPropertyName(tp.Name) {
			return
		}
		tc.forHandle(style.Handle(tp.Name), i)
		return
	}
	all := tp.IsAll()
	var names []string
	if all {
		for _, h := range style.PropertiesForTransitionAll() {
			names = append(names, h.Name())
		}
	} else if style.IsShorthand(tp.Name) {
		names = style.Longhands(tp.Name)
	} else {
		names = []string{tp.Name}
	}
	wd := tc.base.WritingDirection()
	for _, name := range names {
		name = wd.ResolveDirectionAware(name)
		if !all && !style.IsInterpolable(name) {
			continue
		}
		tc.forHandle(style.Handle(name), i)
	}
}

// forHandle decides whether a change of property h starts a transition.
func (tc *transitionContext) forHandle(h style.PropertyHandle, i int) {
	ca, u := tc.ca, tc.u
	tc.listed.Insert(h)
	if u.animInterpolations.Contains(h) || ca.previousInterpolations.Contains(h) {
		return // animations take precedence
	}
	after := tc.base.GetHandle(h)
	var interrupted *RunningTransition
	if rt, ok := ca.transitions[h]; ok {
		if equalValues(after, rt.To) && tc.data != nil {
			return
		}
		u.CancelTransition(h)
		if equalValues(after, rt.ReversingAdjustedStart) {
			interrupted = rt
		}
	}
	if tc.data == nil {
		return
	}
	reg := ca.doc.registry
	if h.IsCSSCustomProperty() && reg.Registration(h.Name()) == nil {
		return
	}
	before := tc.beforeChangeStyle()
	if style.PropertiesEqual(h, before, tc.base) {
		return
	}
	va, vb, ok := interpolation.MaybeConvertPair(interpolation.TypesFor(h, reg),
		before.GetHandle(h), after, before, tc.base)
	if !ok {
		return
	}
	t := tc.data.ConvertToTiming(i)
	if t.StartDelay+t.IterationDuration <= 0 {
		u.UnstartTransition(h)
		return
	}
	adjustedStart, factor := before.GetHandle(h), 1.0
	if interrupted != nil {
		if p, ok := interrupted.Animation.Effect().CalculatedTiming().Progress.Get(); ok {
			adjustedStart = interrupted.To
			factor = shorteningFactor(p, interrupted.ShorteningFactor)
			t.IterationDuration = timing.ScaleDuration(t.IterationDuration, factor)
			if t.StartDelay < 0 {
				t.StartDelay = timing.ScaleDuration(t.StartDelay, factor)
			}
		}
	}
	model := keyframes.NewTransitionModel(h, va.Property(), vb.Property(), reg)
	if style.IsCompositableProperty(h.Name()) && model.RequiresCompositorSnapshot() {
		model.SnapshotCompositorKeyframes(tc.base)
	}
	tracer().Debugf("%v: transition %s from %s to %s", ca.element, h, before.GetHandle(h), after)
	u.StartTransition(&NewTransition{
		Property:               h,
		From:                   before.GetHandle(h),
		To:                     after,
		ReversingAdjustedStart: adjustedStart,
		ShorteningFactor:       factor,
		Effect:                 animation.NewInertEffect(model, t, false, maybe.Just[time.Duration](0), 1),
	})
}

// beforeChangeStyle is the old base style with running transitions
// advanced to the current time.
func (tc *transitionContext) beforeChangeStyle() *style.ComputedStyle {
	if tc.before != nil {
		return tc.before
	}
	base := tc.old.GetBaseComputedStyleOrThis()
	ai := make(interpolation.ActiveInterpolations)
	for _, a := range tc.ca.stack.Animations() {
		effect := a.Effect()
		if !a.IsCSSTransition() || effect == nil || effect.Model() == nil {
			continue
		}
		ct := effect.SpecifiedTiming().Calculate(a.CurrentTime(), a.PlaybackRate())
		if p, ok := ct.Progress.Get(); ok {
			for _, ip := range effect.Model().Sample(p) {
				ai[ip.Property] = append(ai[ip.Property], ip)
			}
		}
	}
	if len(ai) == 0 {
		tc.before = base
	} else {
		tc.before = ai.Apply(base)
	}
	return tc.before
}

// calculateTransitionActiveInterpolations samples the running transitions,
// leaving out cancelled ones and adding new ones. Properties animated by
// CSS animations are not transitioned.
func (ca *CSSAnimations) calculateTransitionActiveInterpolations(u *CSSAnimationUpdate) {
	var ai interpolation.ActiveInterpolations
	if len(u.newTransitions) == 0 && len(u.cancelledTransitions) == 0 {
		ai = ca.stack.ActiveInterpolations(animation.TransitionPriority, animation.CSSPropertiesOnly, nil, nil)
	} else {
		var effects []*animation.InertEffect
		for _, nt := range u.NewTransitions() {
			effects = append(effects, nt.Effect)
		}
		suppressed := make(map[*animation.Animation]bool)
		for h := range u.cancelledTransitions {
			if rt, ok := ca.transitions[h]; ok {
				suppressed[rt.Animation] = true
			}
		}
		ai = ca.stack.ActiveInterpolations(animation.TransitionPriority, animation.CSSPropertiesOnly,
			effects, suppressed)
	}
	for h := range ai {
		if u.animInterpolations.Contains(h) {
			delete(ai, h)
		}
	}
	u.AdoptActiveInterpolationsForTransitions(ai)
}

func equalValues(a, b style.Property) bool {
	return a.Normalized() == b.Normalized()
}

// shorteningFactor is the share of its duration a transition reversing an
// interrupted one gets.
func shorteningFactor(progress, previous float64) float64 {
	return clamp01(progress*previous + (1 - previous))
}

func clamp01(f float64) float64 {
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}
