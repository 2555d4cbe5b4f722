/*
Package animation implements the animation objects CSS animations and
transitions are made of: inert and keyframe effects, animations bound to a
timeline, the effect stack of an element and the delegates which turn
phase changes into events.

Animations are driven by calls to Update, either on demand from
reconciliation or once per frame from the client. There are no pending
tasks: a play request resolves as soon as the timeline has a current time.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package animation

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/npillmayer/cssanim/dom"
	"github.com/npillmayer/cssanim/maybe"
	"github.com/npillmayer/cssanim/style"
	"github.com/npillmayer/cssanim/style/css"
	"github.com/npillmayer/cssanim/timeline"
	"github.com/npillmayer/cssanim/timing"
	"github.com/npillmayer/schuko/tracing"
)

// tracer will return a tracer. We are tracing to 'cssanim.animation'
func tracer() tracing.Trace {
	return tracing.Select("cssanim.animation")
}

// Kind tells CSS animations from CSS transitions.
type Kind uint8

// Kinds of animations.
const (
	CSSAnimation Kind = iota
	CSSTransition
)

func (k Kind) String() string {
	if k == CSSTransition {
		return "transition"
	}
	return "animation"
}

// PlayState is the play state of an animation.
type PlayState uint8

// Play states.
const (
	Idle PlayState = iota
	Running
	Paused
	Finished
)

func (ps PlayState) String() string {
	return [...]string{"idle", "running", "paused", "finished"}[ps]
}

// TimingUpdateReason tells why an animation is updated.
type TimingUpdateReason uint8

// Reasons for timing updates.
const (
	TimingUpdateOnDemand TimingUpdateReason = iota
	TimingUpdateForAnimationFrame
)

var sequence uint64

// Animation is an effect bound to a timeline.
type Animation struct {
	kind         Kind
	seq          uint64
	timeline     timeline.Timeline
	effect       *KeyframeEffect
	startTime    maybe.Maybe[time.Duration]
	holdTime     maybe.Maybe[time.Duration]
	playbackRate float64
	idle         bool
	paused       bool
	outdated     bool
	// CSS animation properties
	owner      *dom.Element
	name       string
	index      int
	rangeStart maybe.Maybe[css.TimelineOffset]
	rangeEnd   maybe.Maybe[css.TimelineOffset]
	// CSS transition properties
	property   style.PropertyHandle
	generation uint64
	// overrides set when script takes control
	ignoreCSSPlayState        bool
	ignoreCSSTimeline         bool
	resetsCurrentTimeOnResume bool
	compositorPending         bool
}

func newAnimation(kind Kind, tl timeline.Timeline, effect *KeyframeEffect) *Animation {
	a := &Animation{
		kind:         kind,
		seq:          atomic.AddUint64(&sequence, 1),
		timeline:     tl,
		effect:       effect,
		playbackRate: 1,
		idle:         true,
	}
	if effect != nil {
		effect.animation = a
		a.owner = effect.Target()
	}
	attach(tl)
	return a
}

// NewCSSAnimation creates an idle CSS animation for the animation-name
// entry at position index.
func NewCSSAnimation(tl timeline.Timeline, effect *KeyframeEffect, index int, name string) *Animation {
	a := newAnimation(CSSAnimation, tl, effect)
	a.index = index
	a.name = name
	return a
}

// NewCSSTransition creates an idle CSS transition of property h.
func NewCSSTransition(tl timeline.Timeline, effect *KeyframeEffect, generation uint64,
	h style.PropertyHandle) *Animation {
	a := newAnimation(CSSTransition, tl, effect)
	a.generation = generation
	a.property = h
	return a
}

func (a *Animation) String() string {
	if a.kind == CSSTransition {
		return fmt.Sprintf("transition(%s #%d %s)", a.property, a.seq, a.CalculateAnimationPlayState())
	}
	return fmt.Sprintf("animation(%s[%d] #%d %s)", a.name, a.index, a.seq, a.CalculateAnimationPlayState())
}

// Kind returns the kind of animation.
func (a *Animation) Kind() Kind { return a.kind }

// IsCSSAnimation is true for animations created from animation-name.
func (a *Animation) IsCSSAnimation() bool { return a.kind == CSSAnimation }

// IsCSSTransition is true for transitions.
func (a *Animation) IsCSSTransition() bool { return a.kind == CSSTransition }

// SequenceNumber orders animations by creation.
func (a *Animation) SequenceNumber() uint64 { return a.seq }

// Effect returns the keyframe effect.
func (a *Animation) Effect() *KeyframeEffect { return a.effect }

// Timeline returns the timeline, which may be nil.
func (a *Animation) Timeline() timeline.Timeline { return a.timeline }

// AnimationName returns the name of a CSS animation.
func (a *Animation) AnimationName() string { return a.name }

// AnimationIndex returns the position in animation-name.
func (a *Animation) AnimationIndex() int { return a.index }

// SetAnimationIndex updates the position in animation-name.
func (a *Animation) SetAnimationIndex(i int) { a.index = i }

// TransitionProperty returns the property of a transition.
func (a *Animation) TransitionProperty() style.PropertyHandle { return a.property }

// TransitionGeneration returns the generation a transition was created in.
func (a *Animation) TransitionGeneration() uint64 { return a.generation }

// OwningElement is the element whose style created the animation. It is
// nil once the animation is no longer owned by CSS.
func (a *Animation) OwningElement() *dom.Element { return a.owner }

// ClearOwningElement disconnects the animation from CSS.
func (a *Animation) ClearOwningElement() { a.owner = nil }

// PlaybackRate returns the playback rate.
func (a *Animation) PlaybackRate() float64 { return a.playbackRate }

// SetPlaybackRate changes the playback rate, preserving the current time.
func (a *Animation) SetPlaybackRate(rate float64) {
	ct := a.CurrentTime()
	a.playbackRate = rate
	if t, ok := ct.Get(); ok && a.startTime.IsJust() {
		a.setCurrentTime(t)
	}
	a.outdated = true
}

// --- Overrides -----------------------------------------------------------

// IgnoreCSSPlayState is set once script has called play() or pause().
func (a *Animation) IgnoreCSSPlayState() bool { return a.ignoreCSSPlayState }

// ResetIgnoreCSSPlayState lets CSS drive the play state again.
func (a *Animation) ResetIgnoreCSSPlayState() { a.ignoreCSSPlayState = false }

// IgnoreCSSTimeline is set once script has set the timeline.
func (a *Animation) IgnoreCSSTimeline() bool { return a.ignoreCSSTimeline }

// ResetIgnoreCSSTimeline lets CSS drive the timeline again.
func (a *Animation) ResetIgnoreCSSTimeline() { a.ignoreCSSTimeline = false }

// ResetsCurrentTimeOnResume is set for animations which were paused when
// their timeline changed to a progress-based one.
func (a *Animation) ResetsCurrentTimeOnResume() bool { return a.resetsCurrentTimeOnResume }

// CompositorPending is true if the compositor has to pick up changes.
func (a *Animation) CompositorPending() bool { return a.compositorPending }

// SetCompositorPending flags the animation for the compositor.
func (a *Animation) SetCompositorPending(pending bool) { a.compositorPending = pending }

// Outdated is true if the animation has to be updated.
func (a *Animation) Outdated() bool { return a.outdated }

// --- Ranges --------------------------------------------------------------

// RangeStart returns animation-range-start.
func (a *Animation) RangeStart() maybe.Maybe[css.TimelineOffset] { return a.rangeStart }

// RangeEnd returns animation-range-end.
func (a *Animation) RangeEnd() maybe.Maybe[css.TimelineOffset] { return a.rangeEnd }

// SetRangeStart sets animation-range-start.
func (a *Animation) SetRangeStart(o maybe.Maybe[css.TimelineOffset]) {
	a.rangeStart = o
	a.outdated = true
}

// SetRangeEnd sets animation-range-end.
func (a *Animation) SetRangeEnd(o maybe.Maybe[css.TimelineOffset]) {
	a.rangeEnd = o
	a.outdated = true
}

// EqualRanges compares two range boundaries.
func EqualRanges(a, b maybe.Maybe[css.TimelineOffset]) bool {
	x, okx := a.Get()
	y, oky := b.Get()
	if okx != oky {
		return false
	}
	return !okx || x.String() == y.String()
}

// --- Timeline ------------------------------------------------------------

type attachable interface {
	Attach()
	Detach()
}

func attach(tl timeline.Timeline) {
	if at, ok := tl.(attachable); ok {
		at.Attach()
	}
}

func detach(tl timeline.Timeline) {
	if at, ok := tl.(attachable); ok {
		at.Detach()
	}
}

// SetTimeline binds the animation to a new timeline, preserving its
// progress where possible.
func (a *Animation) SetTimeline(tl timeline.Timeline) {
	if tl == a.timeline {
		return
	}
	old := a.timeline
	progress := a.progress()
	detach(old)
	a.timeline = tl
	attach(tl)
	a.outdated = true
	if a.idle {
		return
	}
	if tl != nil && tl.IsScrollTimeline() {
		if a.paused {
			a.resetsCurrentTimeOnResume = true
			return
		}
		a.startTime = maybe.Just[time.Duration](0)
		a.holdTime = maybe.Nothing[time.Duration]()
		return
	}
	if old == nil || !old.IsScrollTimeline() {
		return
	}
	// from a progress-based timeline: continue at the same progress
	a.holdTime = maybe.Just(timing.ScaleDuration(a.effectEnd(), progress.WithDefault(0)))
	a.startTime = maybe.Nothing[time.Duration]()
	a.resolveStartTime()
}

// SetTimelineFromScript binds a new timeline and stops following CSS.
func (a *Animation) SetTimelineFromScript(tl timeline.Timeline) {
	a.SetTimeline(tl)
	a.ignoreCSSTimeline = true
}

func (a *Animation) effectEnd() time.Duration {
	if a.effect == nil {
		return 0
	}
	return a.effect.SpecifiedTiming().EndTime()
}

// progress is the current time as a fraction of the effect end.
func (a *Animation) progress() maybe.Maybe[float64] {
	end := a.effectEnd()
	if end == 0 || end == timing.Infinite {
		return maybe.Nothing[float64]()
	}
	return maybe.AndThen(func(t time.Duration) maybe.Maybe[float64] {
		return maybe.Just(float64(t) / float64(end))
	}, a.CurrentTime())
}

type rangeResolver interface {
	ToFractionalOffset(css.TimelineOffset) maybe.Maybe[float64]
}

// rangeFractions resolves the animation range on a progress-based timeline.
func (a *Animation) rangeFractions() (float64, float64) {
	start, end := 0.0, 1.0
	rr, ok := a.timeline.(rangeResolver)
	if !ok {
		return start, end
	}
	if o, ok := a.rangeStart.Get(); ok {
		start = rr.ToFractionalOffset(o).WithDefault(start)
	}
	if o, ok := a.rangeEnd.Get(); ok {
		end = rr.ToFractionalOffset(o).WithDefault(end)
	}
	return start, end
}

// timelineTime returns the time of the timeline. For progress-based
// timelines, the animation range is stretched over the effect's end time.
func (a *Animation) timelineTime() maybe.Maybe[time.Duration] {
	if a.timeline == nil {
		return maybe.Nothing[time.Duration]()
	}
	t := a.timeline.CurrentTime()
	if !a.timeline.IsScrollTimeline() {
		return t
	}
	cur, ok := t.Get()
	if !ok {
		return t
	}
	start, end := a.rangeFractions()
	if end <= start {
		return maybe.Nothing[time.Duration]()
	}
	p := (float64(cur)/float64(timeline.ScrollTimelineDuration) - start) / (end - start)
	total := a.effectEnd()
	if total == 0 || total == timing.Infinite {
		total = timeline.ScrollTimelineDuration
	}
	return maybe.Just(time.Duration(p * float64(total)))
}

// --- Time ----------------------------------------------------------------

// StartTime returns the start time on the timeline.
func (a *Animation) StartTime() maybe.Maybe[time.Duration] { return a.startTime }

// SetStartTime sets the start time, which unpauses the animation.
func (a *Animation) SetStartTime(t maybe.Maybe[time.Duration]) {
	a.startTime = t
	if t.IsJust() {
		a.holdTime = maybe.Nothing[time.Duration]()
		a.paused = false
		a.idle = false
	}
	a.outdated = true
}

// UnlimitedCurrentTime returns the current time, not clamped to the end of
// a finished animation.
func (a *Animation) UnlimitedCurrentTime() maybe.Maybe[time.Duration] {
	if h, ok := a.holdTime.Get(); ok {
		return maybe.Just(h)
	}
	st, ok := a.startTime.Get()
	if !ok {
		return maybe.Nothing[time.Duration]()
	}
	return maybe.AndThen(func(tt time.Duration) maybe.Maybe[time.Duration] {
		return maybe.Just(time.Duration(float64(tt-st) * a.playbackRate))
	}, a.timelineTime())
}

// CurrentTime returns the current time. Finished animations hold at their
// end.
func (a *Animation) CurrentTime() maybe.Maybe[time.Duration] {
	t, ok := a.UnlimitedCurrentTime().Get()
	if !ok {
		return maybe.Nothing[time.Duration]()
	}
	if end := a.effectEnd(); a.playbackRate > 0 && t > end {
		t = end
	} else if a.playbackRate < 0 && t < 0 {
		t = 0
	}
	return maybe.Just(t)
}

func (a *Animation) setCurrentTime(t time.Duration) {
	if a.paused || a.playbackRate == 0 {
		a.holdTime = maybe.Just(t)
		a.startTime = maybe.Nothing[time.Duration]()
		return
	}
	if tt, ok := a.timelineTime().Get(); ok {
		a.startTime = maybe.Just(tt - time.Duration(float64(t)/a.playbackRate))
		a.holdTime = maybe.Nothing[time.Duration]()
		return
	}
	a.holdTime = maybe.Just(t)
	a.startTime = maybe.Nothing[time.Duration]()
}

// resolveStartTime converts a hold time into a start time, if the
// timeline has a current time.
func (a *Animation) resolveStartTime() {
	if a.paused || a.idle {
		return
	}
	h, ok := a.holdTime.Get()
	if !ok {
		return
	}
	if a.timeline != nil && a.timeline.IsScrollTimeline() {
		if a.timeline.CurrentTime().IsJust() {
			a.startTime = maybe.Just[time.Duration](0)
			a.holdTime = maybe.Nothing[time.Duration]()
		}
		return
	}
	if tt, ok := a.timelineTime().Get(); ok && a.playbackRate != 0 {
		a.startTime = maybe.Just(tt - time.Duration(float64(h)/a.playbackRate))
		a.holdTime = maybe.Nothing[time.Duration]()
	}
}

// --- Playback control ------------------------------------------------------

// Play starts or resumes playback. Finished animations restart.
func (a *Animation) Play() {
	a.ignoreCSSPlayState = true
	a.play()
}

func (a *Animation) play() {
	ct := a.UnlimitedCurrentTime()
	a.paused = false
	a.idle = false
	if a.resetsCurrentTimeOnResume {
		ct = maybe.Nothing[time.Duration]()
		a.resetsCurrentTimeOnResume = false
	}
	t, ok := ct.Get()
	switch {
	case !ok:
		a.holdTime = maybe.Just(a.startOffset())
	case a.playbackRate > 0 && (t < 0 || t >= a.effectEnd()):
		a.holdTime = maybe.Just[time.Duration](0)
	case a.playbackRate < 0 && (t <= 0 || t > a.effectEnd()):
		a.holdTime = maybe.Just(a.effectEnd())
	default:
		a.holdTime = maybe.Just(t)
	}
	a.startTime = maybe.Nothing[time.Duration]()
	a.resolveStartTime()
	a.outdated = true
}

func (a *Animation) startOffset() time.Duration {
	if a.playbackRate < 0 {
		return a.effectEnd()
	}
	return 0
}

// Pause pauses playback, holding the current time.
func (a *Animation) Pause() {
	a.ignoreCSSPlayState = true
	a.pause()
}

func (a *Animation) pause() {
	if a.paused {
		return
	}
	ct := a.UnlimitedCurrentTime()
	if a.idle {
		ct = maybe.Just(a.startOffset())
	}
	a.idle = false
	a.paused = true
	a.holdTime = maybe.Just(ct.WithDefault(a.startOffset()))
	a.startTime = maybe.Nothing[time.Duration]()
	a.outdated = true
}

// PlayFromCSS starts a new CSS animation, optionally paused, without
// taking the play state away from CSS.
func (a *Animation) PlayFromCSS(paused bool) {
	a.play()
	if paused {
		a.pause()
	}
}

// TogglePausedFromCSS applies a change of animation-play-state.
func (a *Animation) TogglePausedFromCSS() {
	if a.paused {
		a.play()
	} else {
		a.pause()
	}
}

// Paused is true for paused animations.
func (a *Animation) Paused() bool { return a.paused }

// Cancel stops the animation and clears its times. The effect is updated
// immediately, firing cancel events.
func (a *Animation) Cancel() {
	if a.idle {
		return
	}
	tracer().Debugf("cancel %s", a)
	a.idle = true
	a.paused = false
	a.startTime = maybe.Nothing[time.Duration]()
	a.holdTime = maybe.Nothing[time.Duration]()
	a.compositorPending = false
	a.Update(TimingUpdateOnDemand)
}

// Finish jumps to the end of the animation.
func (a *Animation) Finish() {
	end := a.effectEnd()
	if end == timing.Infinite {
		tracer().Infof("cannot finish an infinite animation")
		return
	}
	a.idle = false
	if a.playbackRate < 0 {
		end = 0
	}
	a.setCurrentTime(end)
	a.outdated = true
}

// CalculateAnimationPlayState returns the play state.
func (a *Animation) CalculateAnimationPlayState() PlayState {
	if a.idle {
		return Idle
	}
	if a.paused {
		return Paused
	}
	t, ok := a.UnlimitedCurrentTime().Get()
	if !ok {
		if a.holdTime.IsNothing() && a.startTime.IsNothing() {
			return Idle
		}
		return Running
	}
	if (a.playbackRate > 0 && t >= a.effectEnd()) || (a.playbackRate < 0 && t <= 0) {
		return Finished
	}
	return Running
}

// FinishedInternal is true if the animation has played to its end.
func (a *Animation) FinishedInternal() bool {
	return a.CalculateAnimationPlayState() == Finished
}

// Limited is true if the current time is clamped at an end.
func (a *Animation) Limited() bool {
	return a.FinishedInternal()
}

// Update recalculates the timing of the effect and dispatches events.
func (a *Animation) Update(reason TimingUpdateReason) {
	a.resolveStartTime()
	local := a.CurrentTime()
	if a.idle {
		local = maybe.Nothing[time.Duration]()
	}
	if a.effect != nil {
		a.effect.updateInheritedTime(local, a.playbackRate)
	}
	a.outdated = false
	if reason == TimingUpdateForAnimationFrame {
		tracer().Debugf("%s: local time %s", a, local)
	}
}
