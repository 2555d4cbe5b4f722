/*
Package timing implements the timing model of animation effects: specified
timing, timing functions and the calculation of phase, iteration and progress
from a local time.

The reconciliation of CSS animations treats this package as a black box:
it hands over a Timing and queries phase and progress.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package timing

import (
	"fmt"
	"math"
	"time"

	"github.com/npillmayer/schuko/tracing"
)

// tracer will return a tracer. We are tracing to 'cssanim.timing'
func tracer() tracing.Trace {
	return tracing.Select("cssanim.timing")
}

// Infinite is used for unbounded durations.
const Infinite = time.Duration(math.MaxInt64)

// PlaybackDirection is the CSS animation-direction.
type PlaybackDirection uint8

// Playback directions.
const (
	DirectionNormal PlaybackDirection = iota
	DirectionReverse
	DirectionAlternate
	DirectionAlternateReverse
)

func (d PlaybackDirection) String() string {
	switch d {
	case DirectionReverse:
		return "reverse"
	case DirectionAlternate:
		return "alternate"
	case DirectionAlternateReverse:
		return "alternate-reverse"
	}
	return "normal"
}

// FillMode is the CSS animation-fill-mode.
type FillMode uint8

// Fill modes.
const (
	FillAuto FillMode = iota
	FillNone
	FillForwards
	FillBackwards
	FillBoth
)

func (f FillMode) String() string {
	switch f {
	case FillNone:
		return "none"
	case FillForwards:
		return "forwards"
	case FillBackwards:
		return "backwards"
	case FillBoth:
		return "both"
	}
	return "auto"
}

// Phase is the phase of an animation effect.
type Phase uint8

// Phases of an animation effect.
const (
	PhaseNone Phase = iota
	PhaseBefore
	PhaseActive
	PhaseAfter
)

func (p Phase) String() string {
	switch p {
	case PhaseBefore:
		return "before"
	case PhaseActive:
		return "active"
	case PhaseAfter:
		return "after"
	}
	return "none"
}

// Timing holds the specified timing of an animation effect.
type Timing struct {
	StartDelay        time.Duration
	EndDelay          time.Duration
	IterationDuration time.Duration
	IterationCount    float64 // may be +Inf
	IterationStart    float64
	Direction         PlaybackDirection
	FillMode          FillMode
	TimingFunction    TimingFunction
}

// DefaultTiming returns a timing with a single iteration of zero duration.
func DefaultTiming() Timing {
	return Timing{
		IterationCount: 1,
		FillMode:       FillAuto,
		TimingFunction: Linear,
	}
}

func (t Timing) String() string {
	tf := "linear"
	if t.TimingFunction != nil {
		tf = t.TimingFunction.String()
	}
	return fmt.Sprintf("{duration=%v delay=%v count=%g dir=%s fill=%s %s}",
		t.IterationDuration, t.StartDelay, t.IterationCount, t.Direction, t.FillMode, tf)
}

// Equal compares two timings. Timing functions are compared by their
// serialization.
func (t Timing) Equal(o Timing) bool {
	return t.StartDelay == o.StartDelay && t.EndDelay == o.EndDelay &&
		t.IterationDuration == o.IterationDuration &&
		sameFloat(t.IterationCount, o.IterationCount) &&
		t.IterationStart == o.IterationStart &&
		t.Direction == o.Direction && t.FillMode == o.FillMode &&
		EqualTimingFunctions(t.TimingFunction, o.TimingFunction)
}

func sameFloat(a, b float64) bool {
	return a == b || (math.IsInf(a, 1) && math.IsInf(b, 1))
}

// ResolvedFillMode resolves FillAuto. For CSS animations and transitions,
// auto is none.
func (t Timing) ResolvedFillMode() FillMode {
	if t.FillMode == FillAuto {
		return FillNone
	}
	return t.FillMode
}

// ActiveDuration returns the iteration duration times the iteration count.
func (t Timing) ActiveDuration() time.Duration {
	if t.IterationDuration == 0 || t.IterationCount == 0 {
		return 0
	}
	if math.IsInf(t.IterationCount, 1) {
		return Infinite
	}
	return scale(t.IterationDuration, t.IterationCount)
}

// EndTime returns max(start delay + active duration + end delay, 0).
func (t Timing) EndTime() time.Duration {
	ad := t.ActiveDuration()
	if ad == Infinite {
		return Infinite
	}
	e := t.StartDelay + ad + t.EndDelay
	if e < 0 {
		return 0
	}
	return e
}

func scale(d time.Duration, f float64) time.Duration {
	x := float64(d) * f
	if x >= float64(Infinite) {
		return Infinite
	}
	return time.Duration(x)
}

// ScaleDuration multiplies a duration by a factor.
func ScaleDuration(d time.Duration, f float64) time.Duration {
	if d == Infinite {
		return d
	}
	return scale(d, f)
}
