package animation

import (
	"fmt"
	"time"

	"github.com/npillmayer/cssanim/dom"
	"github.com/npillmayer/cssanim/interpolation"
	"github.com/npillmayer/cssanim/keyframes"
	"github.com/npillmayer/cssanim/maybe"
	"github.com/npillmayer/cssanim/style"
	"github.com/npillmayer/cssanim/timing"
)

// Priority separates animation effects from transition effects in the
// effect stack.
type Priority uint8

// Effect priorities.
const (
	DefaultPriority Priority = iota
	TransitionPriority
)

func (p Priority) String() string {
	if p == TransitionPriority {
		return "transition"
	}
	return "default"
}

// --- Inert effects ---------------------------------------------------------

// InertEffect is a keyframe model with timing which is not attached to a
// playing animation. Reconciliation builds inert effects to preview the
// output of animations it is about to start or update.
type InertEffect struct {
	model         *keyframes.Model
	timing        timing.Timing
	paused        bool
	inheritedTime maybe.Maybe[time.Duration]
	playbackRate  float64
}

// NewInertEffect creates an inert effect sampled at inheritedTime.
func NewInertEffect(model *keyframes.Model, t timing.Timing, paused bool,
	inheritedTime maybe.Maybe[time.Duration], playbackRate float64) *InertEffect {
	return &InertEffect{
		model:         model,
		timing:        t,
		paused:        paused,
		inheritedTime: inheritedTime,
		playbackRate:  playbackRate,
	}
}

func (ie *InertEffect) String() string {
	return fmt.Sprintf("inert{%s %s @%s}", ie.model, ie.timing, ie.inheritedTime)
}

// Model returns the keyframe model.
func (ie *InertEffect) Model() *keyframes.Model {
	return ie.model
}

// SpecifiedTiming returns the timing of the effect.
func (ie *InertEffect) SpecifiedTiming() timing.Timing {
	return ie.timing
}

// Paused is true if the animation is to be created paused.
func (ie *InertEffect) Paused() bool {
	return ie.paused
}

// InheritedTime is the local time the effect is sampled at.
func (ie *InertEffect) InheritedTime() maybe.Maybe[time.Duration] {
	return ie.inheritedTime
}

// PlaybackRate returns the playback rate of the effect.
func (ie *InertEffect) PlaybackRate() float64 {
	return ie.playbackRate
}

// CalculatedTiming samples the timing at the inherited time.
func (ie *InertEffect) CalculatedTiming() timing.CalculatedTiming {
	return ie.timing.Calculate(ie.inheritedTime, ie.playbackRate)
}

// IsCurrent is true if the effect is active or will become active.
func (ie *InertEffect) IsCurrent() bool {
	return ie.CalculatedTiming().IsCurrent
}

// Affects is true if the model animates property h.
func (ie *InertEffect) Affects(h style.PropertyHandle) bool {
	return ie.model != nil && ie.model.Affects(h)
}

// Sample returns the interpolations of the effect, or nil if the effect is
// not in effect.
func (ie *InertEffect) Sample() []*interpolation.Interpolation {
	if ie.model == nil {
		return nil
	}
	if p, ok := ie.CalculatedTiming().Progress.Get(); ok {
		return ie.model.Sample(p)
	}
	return nil
}

// --- Keyframe effects ------------------------------------------------------

// KeyframeEffect is the effect of a live animation: a keyframe model
// targeting an element, with timing, a composite priority and an event
// delegate.
type KeyframeEffect struct {
	target             *dom.Element
	model              *keyframes.Model
	timing             timing.Timing
	priority           Priority
	delegate           *EventDelegate
	animation          *Animation
	calculated         timing.CalculatedTiming
	lastLocalTime      maybe.Maybe[time.Duration]
	playbackRate       float64
	ignoreCSSKeyframes bool
	writingDirection   style.WritingDirection
	onCompositor       style.PropertySet
}

// NewKeyframeEffect creates an effect. delegate may be nil.
func NewKeyframeEffect(target *dom.Element, model *keyframes.Model, t timing.Timing,
	priority Priority, delegate *EventDelegate) *KeyframeEffect {
	return &KeyframeEffect{
		target:       target,
		model:        model,
		timing:       t,
		priority:     priority,
		delegate:     delegate,
		playbackRate: 1,
		onCompositor: make(style.PropertySet),
	}
}

func (ke *KeyframeEffect) String() string {
	return fmt.Sprintf("effect{%s %s %s}", ke.priority, ke.model, ke.timing)
}

// Target returns the animated element.
func (ke *KeyframeEffect) Target() *dom.Element {
	return ke.target
}

// Model returns the keyframe model.
func (ke *KeyframeEffect) Model() *keyframes.Model {
	return ke.model
}

// SetModel replaces the keyframe model.
func (ke *KeyframeEffect) SetModel(m *keyframes.Model) {
	ke.model = m
	ke.invalidate()
}

// SpecifiedTiming returns the timing of the effect.
func (ke *KeyframeEffect) SpecifiedTiming() timing.Timing {
	return ke.timing
}

// UpdateSpecifiedTiming replaces the timing.
func (ke *KeyframeEffect) UpdateSpecifiedTiming(t timing.Timing) {
	ke.timing = t
	ke.invalidate()
}

// NormalizedTiming returns the derived times of the timing.
func (ke *KeyframeEffect) NormalizedTiming() timing.NormalizedTiming {
	return ke.timing.Normalized()
}

// Priority returns the composite priority.
func (ke *KeyframeEffect) Priority() Priority {
	return ke.priority
}

// DowngradeToNormal demotes a transition effect to a normal effect. It is
// called when a transition is cancelled or has finished.
func (ke *KeyframeEffect) DowngradeToNormal() {
	ke.priority = DefaultPriority
}

// EventDelegate returns the event delegate, which may be nil.
func (ke *KeyframeEffect) EventDelegate() *EventDelegate {
	return ke.delegate
}

// Animation returns the animation the effect is attached to.
func (ke *KeyframeEffect) Animation() *Animation {
	return ke.animation
}

// IgnoreCSSKeyframes is set if script has replaced the keyframes.
func (ke *KeyframeEffect) IgnoreCSSKeyframes() bool {
	return ke.ignoreCSSKeyframes
}

// SetIgnoreCSSKeyframes keeps keyframe changes of CSS from being applied.
func (ke *KeyframeEffect) SetIgnoreCSSKeyframes(ignore bool) {
	ke.ignoreCSSKeyframes = ignore
}

// SetLogicalPropertyResolutionContext sets the writing direction logical
// properties of the model are resolved with. It returns true if the
// context changed.
func (ke *KeyframeEffect) SetLogicalPropertyResolutionContext(wd style.WritingDirection) bool {
	if ke.writingDirection == wd {
		return false
	}
	ke.writingDirection = wd
	return true
}

// WritingDirection returns the logical resolution context.
func (ke *KeyframeEffect) WritingDirection() style.WritingDirection {
	return ke.writingDirection
}

// Affects is true if the model animates property h.
func (ke *KeyframeEffect) Affects(h style.PropertyHandle) bool {
	return ke.model != nil && ke.model.Affects(h)
}

// CalculatedTiming returns the timing calculated at the last update.
func (ke *KeyframeEffect) CalculatedTiming() timing.CalculatedTiming {
	return ke.calculated
}

// IsCurrent is true if the effect is active or will become active.
func (ke *KeyframeEffect) IsCurrent() bool {
	return ke.calculated.IsCurrent
}

// IsInEffect is true if the effect produces output.
func (ke *KeyframeEffect) IsInEffect() bool {
	return ke.calculated.IsInEffect
}

// CurrentIteration returns the current iteration, unresolved if the effect
// is not in effect.
func (ke *KeyframeEffect) CurrentIteration() maybe.Maybe[float64] {
	return ke.calculated.CurrentIteration
}

// LocalTime returns the local time of the last update.
func (ke *KeyframeEffect) LocalTime() maybe.Maybe[time.Duration] {
	return ke.calculated.LocalTime
}

// CancelTime is the active time at the moment of cancellation, calculated
// with a fill mode of both.
func (ke *KeyframeEffect) CancelTime() time.Duration {
	t := ke.timing
	t.FillMode = timing.FillBoth
	return t.Calculate(ke.lastLocalTime, ke.playbackRate).ActiveTime.WithDefault(0)
}

// Sample returns the interpolations of the effect for the last update.
func (ke *KeyframeEffect) Sample() []*interpolation.Interpolation {
	if ke.model == nil {
		return nil
	}
	if p, ok := ke.calculated.Progress.Get(); ok {
		return ke.model.Sample(p)
	}
	return nil
}

// MarkRunningOnCompositor records that the compositor runs the effect for
// property h. It is called by the compositor integration.
func (ke *KeyframeEffect) MarkRunningOnCompositor(h style.PropertyHandle) {
	ke.onCompositor.Insert(h)
}

// HasActiveAnimationsOnCompositor is true if the compositor runs the effect
// for property h.
func (ke *KeyframeEffect) HasActiveAnimationsOnCompositor(h style.PropertyHandle) bool {
	return ke.onCompositor.Contains(h) && ke.IsCurrent()
}

// updateInheritedTime recalculates the timing for a local time and
// notifies the event delegate.
func (ke *KeyframeEffect) updateInheritedTime(local maybe.Maybe[time.Duration], playbackRate float64) {
	if local.IsJust() {
		ke.lastLocalTime = local
	}
	ke.playbackRate = playbackRate
	ke.calculated = ke.timing.Calculate(local, playbackRate)
	if local.IsNothing() {
		ke.calculated.Phase = timing.PhaseNone
		ke.onCompositor = make(style.PropertySet)
	}
	if ke.delegate != nil {
		ke.delegate.OnEventCondition(ke, ke.calculated.Phase)
	}
}

func (ke *KeyframeEffect) invalidate() {
	if ke.animation != nil {
		ke.animation.outdated = true
	}
}
