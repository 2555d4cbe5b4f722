/*
Package cssanimations reconciles CSS animations and transitions with style
changes.

For every style change of an element, the declared animation-*, transition-*
and timeline properties are compared with the animations currently running on
the element. The result is a CSSAnimationUpdate, a staged set of animations
and transitions to start, update, pause, cancel or finish, together with the
interpolations to apply to the element's base style. Nothing is changed until
the update is committed with MaybeApplyPendingUpdate, which is the only
operation mutating the running state.

A style change proceeds like this:

    ca := doc.ElementAnimations(e)
    ca.CalculateUpdate(&cssanimations.StyleChange{Element: e, Style: base, …})
    animated := ca.AnimatedStyle(base)
    e.SetComputedStyle(animated)
    ca.MaybeApplyPendingUpdate()

Package resolver drives this for whole documents.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package cssanimations

import (
	"github.com/npillmayer/cssanim/animation"
	"github.com/npillmayer/cssanim/dom"
	"github.com/npillmayer/cssanim/interpolation"
	"github.com/npillmayer/cssanim/style"
	"github.com/npillmayer/schuko/tracing"
)

// tracer will return a tracer. We are tracing to 'cssanim.cssanimations'
func tracer() tracing.Trace {
	return tracing.Select("cssanim.cssanimations")
}

// StyleChange holds the inputs of a style change of an element. The old
// style is the current computed style of the element.
type StyleChange struct {
	Element                *dom.Element
	Style                  *style.ComputedStyle // new base style, without animation effects
	ParentStyle            *style.ComputedStyle
	Keyframes              KeyframesResolver
	IsAnimationStyleChange bool // style change caused by animations only
	ViewportResized        bool
	ForceCompositorUpdate  bool
}

// CSSAnimations is the animation state of an element: the running CSS
// animations (in animation-name order), the running transitions, the named
// timelines the element declares and the pending update.
type CSSAnimations struct {
	doc                    *Document
	element                *dom.Element
	runningAnimations      []*RunningAnimation
	transitions            map[style.PropertyHandle]*RunningTransition
	timelineData           TimelineData
	pendingUpdate          CSSAnimationUpdate
	previousInterpolations interpolation.ActiveInterpolations // of animations, one frame behind
	stack                  animation.EffectStack
}

func newCSSAnimations(doc *Document, e *dom.Element) *CSSAnimations {
	return &CSSAnimations{
		doc:         doc,
		element:     e,
		transitions: make(map[style.PropertyHandle]*RunningTransition),
	}
}

// Element returns the element.
func (ca *CSSAnimations) Element() *dom.Element { return ca.element }

// RunningAnimations returns the running CSS animations in animation-name order.
func (ca *CSSAnimations) RunningAnimations() []*RunningAnimation {
	return ca.runningAnimations
}

// Transitions returns the running transitions.
func (ca *CSSAnimations) Transitions() map[style.PropertyHandle]*RunningTransition {
	return ca.transitions
}

// TimelineData returns the named timelines declared by the element.
func (ca *CSSAnimations) TimelineData() *TimelineData { return &ca.timelineData }

// EffectStack returns the effect stack of the element.
func (ca *CSSAnimations) EffectStack() *animation.EffectStack { return &ca.stack }

// PendingUpdate returns the update computed by the last style change.
func (ca *CSSAnimations) PendingUpdate() *CSSAnimationUpdate { return &ca.pendingUpdate }

// ClearPendingUpdate discards the pending update.
func (ca *CSSAnimations) ClearPendingUpdate() { ca.pendingUpdate.Clear() }

// IsEmpty is true if there are neither running animations and transitions
// nor named timelines.
func (ca *CSSAnimations) IsEmpty() bool {
	return len(ca.runningAnimations) == 0 && len(ca.transitions) == 0 &&
		ca.timelineData.IsEmpty() && ca.pendingUpdate.IsEmpty()
}

// CalculateUpdate computes the pending update for a style change: named
// timelines, animations, compositor snapshots, transitions and animation
// flags, in this order. Animation flags are set on sc.Style.
func (ca *CSSAnimations) CalculateUpdate(sc *StyleChange) *CSSAnimationUpdate {
	u := &ca.pendingUpdate
	u.Clear()
	ca.CalculateTimelineUpdate(u, sc.Style)
	ca.CalculateAnimationUpdate(u, sc)
	ca.CalculateCompositorAnimationUpdate(u, sc)
	ca.CalculateTransitionUpdate(u, sc)
	ca.UpdateAnimationFlags(u, sc.Style)
	ca.SnapshotCompositorKeyframes(u, sc.Style)
	return u
}

// AnimatedStyle applies the active interpolations of the pending update to
// a base style. Transitions apply on top of animations. If nothing is
// animated, base is returned.
func (ca *CSSAnimations) AnimatedStyle(base *style.ComputedStyle) *style.ComputedStyle {
	u := &ca.pendingUpdate
	if len(u.animInterpolations) == 0 && len(u.transInterpolations) == 0 {
		return base
	}
	all := make(interpolation.ActiveInterpolations, len(u.animInterpolations)+len(u.transInterpolations))
	for h, ips := range u.animInterpolations {
		all[h] = ips
	}
	for h, ips := range u.transInterpolations {
		all[h] = append(all[h], ips...)
	}
	animated := all.Apply(base)
	animated.SetBaseComputedStyle(base)
	return animated
}

// MaybeApplyPendingUpdate commits the pending update to the running state
// and clears it.
func (ca *CSSAnimations) MaybeApplyPendingUpdate() {
	u := &ca.pendingUpdate
	ca.previousInterpolations = nil
	if u.IsEmpty() {
		return
	}
	ca.previousInterpolations = u.animInterpolations
	if !u.HasUpdates() {
		ca.ClearPendingUpdate()
		return
	}
	tracer().Debugf("%v: apply animation update", ca.element)
	cfg := ca.doc.config
	for _, name := range u.changedScrollTimeline.Keys() {
		tl, _ := u.changedScrollTimeline.Get(name)
		ca.timelineData.SetScrollTimeline(name, tl)
	}
	for _, name := range u.changedViewTimeline.Keys() {
		tl, _ := u.changedViewTimeline.Get(name)
		ca.timelineData.SetViewTimeline(name, tl)
	}
	for _, index := range u.pauseToggled {
		if !cfg.assert(index < len(ca.runningAnimations), "pause toggle for unknown animation %d", index) {
			continue
		}
		a := ca.runningAnimations[index].Animation
		a.TogglePausedFromCSS()
		a.ResetIgnoreCSSPlayState()
		if a.Outdated() {
			a.Update(animation.TimingUpdateOnDemand)
		}
	}
	for _, a := range u.compositorKeyframes {
		a.SetCompositorPending(true)
	}
	for _, ua := range u.updatedAnimations {
		if effect := ua.Animation.Effect(); effect != nil {
			if !effect.IgnoreCSSKeyframes() {
				effect.SetModel(ua.Effect.Model())
			}
			effect.UpdateSpecifiedTiming(ua.Effect.SpecifiedTiming())
		}
		if ua.Animation.Timeline() != ua.Timeline {
			ua.Animation.SetTimeline(ua.Timeline)
			ua.Animation.ResetIgnoreCSSTimeline()
		}
		ua.Animation.SetRangeStart(ua.RangeStart)
		ua.Animation.SetRangeEnd(ua.RangeEnd)
		ca.runningAnimations[ua.Index].Update(ua)
		ua.Animation.Update(animation.TimingUpdateOnDemand)
	}
	ca.applyCancelledAnimations(u.cancelledIndices)
	for _, na := range u.newAnimations {
		ca.startAnimation(na)
	}
	ca.applyTransitions(u)
	ca.ClearPendingUpdate()
}

// applyCancelledAnimations cancels running animations. Indices are
// processed in descending order, so that removing an entry does not shift
// the ones still to be processed.
func (ca *CSSAnimations) applyCancelledAnimations(indices []int) {
	cfg := ca.doc.config
	for i := len(indices) - 1; i >= 0; i-- {
		index := indices[i]
		if !cfg.assert(i == len(indices)-1 || index < indices[i+1], "cancelled indices not ascending") ||
			!cfg.assert(index < len(ca.runningAnimations), "cancel of unknown animation %d", index) {
			continue
		}
		a := ca.runningAnimations[index].Animation
		a.ClearOwningElement()
		if a.IsCSSAnimation() && !a.IgnoreCSSPlayState() {
			a.Cancel()
			ca.stack.Remove(a)
		}
		a.Update(animation.TimingUpdateOnDemand)
		ca.runningAnimations = append(ca.runningAnimations[:index], ca.runningAnimations[index+1:]...)
	}
}

func (ca *CSSAnimations) startAnimation(na NewAnimation) {
	inert := na.Effect
	delegate := animation.NewAnimationEventDelegate(ca.element, na.Name, ca.doc)
	effect := animation.NewKeyframeEffect(ca.element, inert.Model(), inert.SpecifiedTiming(),
		animation.DefaultPriority, delegate)
	a := animation.NewCSSAnimation(na.Timeline, effect, na.Index, na.Name)
	a.PlayFromCSS(inert.Paused())
	a.ResetIgnoreCSSPlayState()
	a.SetRangeStart(na.RangeStart)
	a.SetRangeEnd(na.RangeEnd)
	a.Update(animation.TimingUpdateOnDemand)
	ca.stack.Add(a)
	ca.runningAnimations = append(ca.runningAnimations, &RunningAnimation{
		Animation:     a,
		Name:          na.Name,
		NameIndex:     na.NameIndex,
		Timing:        na.Timing,
		Rule:          na.Rule,
		Version:       na.Version,
		PlayStates:    na.PlayStates,
		ScrollOffsets: viewOffsets(na.Timeline),
	})
	tracer().Debugf("%v: started %s", ca.element, a)
}

func (ca *CSSAnimations) applyTransitions(u *CSSAnimationUpdate) {
	cfg := ca.doc.config
	retargeted := make(style.PropertySet)
	for _, h := range sortedProperties(u.cancelledTransitions) {
		rt, ok := ca.transitions[h]
		if !cfg.assert(ok, "cancel of unknown transition %s", h) {
			continue
		}
		delete(ca.transitions, h)
		a := rt.Animation
		effect := a.Effect()
		if effect != nil && effect.HasActiveAnimationsOnCompositor(h) &&
			u.NewTransition(h) != nil && !a.Limited() {
			retargeted.Insert(h)
		}
		a.ClearOwningElement()
		a.Cancel()
		if effect != nil {
			effect.DowngradeToNormal()
		}
		a.Update(animation.TimingUpdateOnDemand)
		ca.stack.Remove(a)
	}
	for _, h := range sortedProperties(u.finishedTransitions) {
		rt, ok := ca.transitions[h]
		if !ok {
			continue // cancelled and finished at the same time
		}
		delete(ca.transitions, h)
		if effect := rt.Animation.Effect(); effect != nil {
			effect.DowngradeToNormal()
		}
		ca.stack.Remove(rt.Animation)
	}
	if len(u.newTransitions) == 0 {
		return
	}
	ca.doc.IncrementTransitionGeneration()
	for _, nt := range u.NewTransitions() {
		h := nt.Property
		inert := nt.Effect
		delegate := animation.NewTransitionEventDelegate(ca.element, h, ca.doc)
		effect := animation.NewKeyframeEffect(ca.element, inert.Model(), inert.SpecifiedTiming(),
			animation.TransitionPriority, delegate)
		a := animation.NewCSSTransition(ca.doc.timeline, effect, ca.doc.TransitionGeneration(), h)
		a.PlayFromCSS(false)
		if retargeted.Contains(h) {
			a.SetStartTime(ca.doc.timeline.CurrentTime())
		}
		a.Update(animation.TimingUpdateOnDemand)
		ca.stack.Add(a)
		ca.transitions[h] = &RunningTransition{
			Animation:              a,
			From:                   nt.From,
			To:                     nt.To,
			ReversingAdjustedStart: nt.ReversingAdjustedStart,
			ShorteningFactor:       nt.ShorteningFactor,
		}
		tracer().Debugf("%v: started %s", ca.element, a)
	}
}

// Cancel cancels all animations and transitions and drops the timelines
// and the pending update.
func (ca *CSSAnimations) Cancel() {
	for _, ra := range ca.runningAnimations {
		ra.Animation.Cancel()
		ra.Animation.Update(animation.TimingUpdateOnDemand)
		ca.stack.Remove(ra.Animation)
	}
	for _, h := range ca.transitionProperties() {
		a := ca.transitions[h].Animation
		a.Cancel()
		a.Update(animation.TimingUpdateOnDemand)
		ca.stack.Remove(a)
	}
	ca.runningAnimations = nil
	ca.transitions = make(map[style.PropertyHandle]*RunningTransition)
	ca.timelineData.Clear()
	ca.ClearPendingUpdate()
}

func (ca *CSSAnimations) transitionProperties() []style.PropertyHandle {
	set := make(style.PropertySet, len(ca.transitions))
	for h := range ca.transitions {
		set.Insert(h)
	}
	return sortedProperties(set)
}
