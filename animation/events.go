package animation

import (
	"fmt"
	"time"

	"github.com/npillmayer/cssanim/dom"
	"github.com/npillmayer/cssanim/maybe"
	"github.com/npillmayer/cssanim/style"
	"github.com/npillmayer/cssanim/timing"
)

// EventType enumerates the events of CSS animations and transitions.
type EventType uint8

// Event types.
const (
	AnimationStart EventType = iota
	AnimationEnd
	AnimationIteration
	AnimationCancel
	TransitionRun
	TransitionStart
	TransitionEnd
	TransitionCancel
)

var eventTypeNames = [...]string{
	"animationstart", "animationend", "animationiteration", "animationcancel",
	"transitionrun", "transitionstart", "transitionend", "transitioncancel",
}

func (et EventType) String() string {
	return eventTypeNames[et]
}

// Event is a queued animation or transition event.
type Event struct {
	Type          EventType
	Target        *dom.Element
	AnimationName string               // for animation events
	Property      style.PropertyHandle // for transition events
	ElapsedTime   time.Duration
}

func (ev Event) String() string {
	if ev.Type >= TransitionRun {
		return fmt.Sprintf("%s(%s, %v)", ev.Type, ev.Property, ev.ElapsedTime)
	}
	return fmt.Sprintf("%s(%s, %v)", ev.Type, ev.AnimationName, ev.ElapsedTime)
}

// EventSink receives events. Events are only created if the sink has a
// listener for their type.
type EventSink interface {
	HasListener(EventType) bool
	Enqueue(Event)
}

// DelegateKind tells animation delegates from transition delegates.
type DelegateKind uint8

// Kinds of event delegates.
const (
	AnimationDelegate DelegateKind = iota
	TransitionDelegate
)

// EventDelegate turns phase changes of an effect into events.
type EventDelegate struct {
	Kind              DelegateKind
	target            *dom.Element
	name              string               // animation name
	property          style.PropertyHandle // transition property
	sink              EventSink
	previousPhase     timing.Phase
	previousIteration maybe.Maybe[float64]
}

// NewAnimationEventDelegate creates a delegate for a CSS animation.
func NewAnimationEventDelegate(target *dom.Element, name string, sink EventSink) *EventDelegate {
	return &EventDelegate{Kind: AnimationDelegate, target: target, name: name, sink: sink}
}

// NewTransitionEventDelegate creates a delegate for a CSS transition.
func NewTransitionEventDelegate(target *dom.Element, h style.PropertyHandle, sink EventSink) *EventDelegate {
	return &EventDelegate{Kind: TransitionDelegate, target: target, property: h, sink: sink}
}

// Inherit copies the phase state of an older delegate of the same kind,
// so that a replaced delegate does not repeat events.
func (d *EventDelegate) Inherit(old *EventDelegate) {
	if old == nil || old.Kind != d.Kind {
		return
	}
	d.previousPhase = old.previousPhase
	if d.Kind == AnimationDelegate {
		d.previousIteration = old.previousIteration
	}
}

// PreviousPhase is the phase seen at the last event condition.
func (d *EventDelegate) PreviousPhase() timing.Phase {
	return d.previousPhase
}

// RequiresIterationEvents is true if somebody listens for animationiteration.
func (d *EventDelegate) RequiresIterationEvents() bool {
	return d.Kind == AnimationDelegate && d.sink != nil && d.sink.HasListener(AnimationIteration)
}

// OnEventCondition is called whenever the timing of an effect has been
// recalculated.
func (d *EventDelegate) OnEventCondition(effect *KeyframeEffect, phase timing.Phase) {
	switch d.Kind {
	case AnimationDelegate:
		d.onAnimationCondition(effect, phase)
	case TransitionDelegate:
		d.onTransitionCondition(effect, phase)
	}
}

func (d *EventDelegate) dispatch(et EventType, elapsed time.Duration) {
	if d.sink == nil || !d.sink.HasListener(et) {
		return
	}
	ev := Event{Type: et, Target: d.target, ElapsedTime: elapsed}
	if d.Kind == AnimationDelegate {
		ev.AnimationName = d.name
	} else {
		ev.Property = d.property
	}
	tracer().Debugf("enqueue %s", ev)
	d.sink.Enqueue(ev)
}

// https://drafts.csswg.org/css-animations-2/#event-dispatch
func (d *EventDelegate) onAnimationCondition(effect *KeyframeEffect, phase timing.Phase) {
	iteration := effect.CurrentIteration()
	prev := d.previousPhase
	changed := prev != phase
	wasIdleOrBefore := prev == timing.PhaseNone || prev == timing.PhaseBefore
	isActiveOrAfter := phase == timing.PhaseActive || phase == timing.PhaseAfter
	isActiveOrBefore := phase == timing.PhaseActive || phase == timing.PhaseBefore
	wasAfter := prev == timing.PhaseAfter
	// start is dispatched before end
	if changed && ((wasIdleOrBefore && isActiveOrAfter) || (wasAfter && isActiveOrBefore)) {
		if wasAfter {
			d.dispatch(AnimationStart, IntervalEnd(effect))
		} else {
			d.dispatch(AnimationStart, IntervalStart(effect))
		}
	}
	wasActiveOrAfter := prev == timing.PhaseActive || prev == timing.PhaseAfter
	if changed && (phase == timing.PhaseAfter || (wasActiveOrAfter && phase == timing.PhaseBefore)) {
		if phase == timing.PhaseAfter {
			d.dispatch(AnimationEnd, IntervalEnd(effect))
		} else {
			d.dispatch(AnimationEnd, IntervalStart(effect))
		}
	}
	if changed && phase == timing.PhaseNone && prev != timing.PhaseAfter {
		d.dispatch(AnimationCancel, effect.CancelTime())
	}
	if !changed && phase == timing.PhaseActive && !maybe.Equal(d.previousIteration, iteration) {
		// a single event for all iterations between two samples
		if it, ok := d.previousIteration.Get(); ok {
			d.dispatch(AnimationIteration, IterationElapsedTime(effect, it))
		}
	}
	d.previousIteration = iteration
	d.previousPhase = phase
}

func (d *EventDelegate) onTransitionCondition(effect *KeyframeEffect, phase timing.Phase) {
	prev := d.previousPhase
	if phase == prev {
		return
	}
	nt := effect.NormalizedTiming()
	if prev == timing.PhaseNone {
		d.dispatch(TransitionRun, startTimeFromDelay(nt.StartDelay))
	}
	switch {
	case (phase == timing.PhaseActive || phase == timing.PhaseAfter) &&
		(prev == timing.PhaseNone || prev == timing.PhaseBefore):
		d.dispatch(TransitionStart, startTimeFromDelay(nt.StartDelay))
	case (phase == timing.PhaseActive || phase == timing.PhaseBefore) && prev == timing.PhaseAfter:
		// running backwards: started at the end
		d.dispatch(TransitionStart, nt.IterationDuration)
	}
	switch {
	case phase == timing.PhaseAfter && prev != timing.PhaseAfter:
		d.dispatch(TransitionEnd, nt.IterationDuration)
	case phase == timing.PhaseBefore && (prev == timing.PhaseActive || prev == timing.PhaseAfter):
		d.dispatch(TransitionEnd, startTimeFromDelay(nt.StartDelay))
	}
	if phase == timing.PhaseNone && prev != timing.PhaseAfter {
		d.dispatch(TransitionCancel, effect.CancelTime())
	}
	d.previousPhase = phase
}

// --- Elapsed time calculations ---------------------------------------------

func startTimeFromDelay(delay time.Duration) time.Duration {
	if delay < 0 {
		return -delay
	}
	return 0
}

// IntervalStart is the elapsed time reported at the start of the active
// interval: max(min(-start delay, active duration), 0).
func IntervalStart(effect *KeyframeEffect) time.Duration {
	nt := effect.NormalizedTiming()
	return maxDur(minDur(-nt.StartDelay, nt.ActiveDuration), 0)
}

// IntervalEnd is the elapsed time reported at the end of the active
// interval.
func IntervalEnd(effect *KeyframeEffect) time.Duration {
	nt := effect.NormalizedTiming()
	if nt.ActiveDuration == timing.Infinite {
		return timing.Infinite
	}
	end := maxDur(nt.StartDelay+nt.ActiveDuration+nt.EndDelay, 0)
	return maxDur(minDur(end-nt.StartDelay, nt.ActiveDuration), 0)
}

// IterationElapsedTime is the elapsed time reported for an iteration event,
// measured at the iteration boundary following previousIteration.
func IterationElapsedTime(effect *KeyframeEffect, previousIteration float64) time.Duration {
	current := effect.CurrentIteration().WithDefault(previousIteration)
	boundary := current
	if previousIteration > current {
		boundary = current + 1
	}
	t := effect.SpecifiedTiming()
	return timing.ScaleDuration(t.IterationDuration, boundary-t.IterationStart)
}

func minDur(a, b time.Duration) time.Duration {
	if a < b {
		return a
	}
	return b
}

func maxDur(a, b time.Duration) time.Duration {
	if a > b {
		return a
	}
	return b
}
