package timing

import (
	"math"
	"time"

	"github.com/npillmayer/cssanim/maybe"
)

// CalculatedTiming is the result of sampling a Timing at a local time.
type CalculatedTiming struct {
	Phase            Phase
	LocalTime        maybe.Maybe[time.Duration]
	ActiveTime       maybe.Maybe[time.Duration]
	CurrentIteration maybe.Maybe[float64]
	Progress         maybe.Maybe[float64] // transformed progress
	IsInEffect       bool
	IsCurrent        bool
}

// NormalizedTiming holds the derived times of a Timing.
type NormalizedTiming struct {
	StartDelay        time.Duration
	EndDelay          time.Duration
	IterationDuration time.Duration
	ActiveDuration    time.Duration
	EndTime           time.Duration
}

// Normalized returns the derived times of t.
func (t Timing) Normalized() NormalizedTiming {
	return NormalizedTiming{
		StartDelay:        t.StartDelay,
		EndDelay:          t.EndDelay,
		IterationDuration: t.IterationDuration,
		ActiveDuration:    t.ActiveDuration(),
		EndTime:           t.EndTime(),
	}
}

// Calculate computes phase, iteration and progress for a local time.
// A negative playback rate changes the phase at the interval boundaries.
// https://w3.org/TR/web-animations-1/#calculating-the-active-time
func (t Timing) Calculate(localTime maybe.Maybe[time.Duration], playbackRate float64) CalculatedTiming {
	ct := CalculatedTiming{LocalTime: localTime}
	lt, ok := localTime.Get()
	if !ok {
		return ct
	}
	ad := t.ActiveDuration()
	end := t.EndTime()
	beforeActive := clampDur(minDur(t.StartDelay, end), 0)
	activeAfter := clampDur(minDur(addDur(t.StartDelay, ad), end), 0)
	switch {
	case lt < beforeActive || (playbackRate < 0 && lt == beforeActive):
		ct.Phase = PhaseBefore
	case lt > activeAfter || (playbackRate >= 0 && lt == activeAfter):
		ct.Phase = PhaseAfter
	default:
		ct.Phase = PhaseActive
	}
	fill := t.ResolvedFillMode()
	var activeTime time.Duration
	switch ct.Phase {
	case PhaseBefore:
		if fill != FillBackwards && fill != FillBoth {
			return t.finish(ct, playbackRate)
		}
		activeTime = clampDur(lt-t.StartDelay, 0)
	case PhaseActive:
		activeTime = lt - t.StartDelay
	case PhaseAfter:
		if fill != FillForwards && fill != FillBoth {
			return t.finish(ct, playbackRate)
		}
		activeTime = clampDur(minDur(lt-t.StartDelay, ad), 0)
	}
	ct.ActiveTime = maybe.Just(activeTime)
	// overall progress
	var overall float64
	if t.IterationDuration == 0 {
		if ct.Phase != PhaseBefore {
			overall = t.IterationCount
		}
	} else {
		overall = float64(activeTime) / float64(t.IterationDuration)
	}
	overall += t.IterationStart
	// simple iteration progress
	var simple float64
	if math.IsInf(overall, 1) {
		simple = math.Mod(t.IterationStart, 1)
	} else {
		simple = math.Mod(overall, 1)
	}
	if simple == 0 && (ct.Phase == PhaseActive || ct.Phase == PhaseAfter) &&
		activeTime == ad && t.IterationCount != 0 {
		simple = 1
	}
	// current iteration
	var iteration float64
	switch {
	case ct.Phase == PhaseAfter && math.IsInf(t.IterationCount, 1):
		iteration = math.Inf(1)
	case simple == 1:
		iteration = math.Floor(overall) - 1
	default:
		iteration = math.Floor(overall)
	}
	ct.CurrentIteration = maybe.Just(iteration)
	directed := simple
	if t.directionIsReversed(iteration) {
		directed = 1 - simple
	}
	tf := t.TimingFunction
	if tf == nil {
		tf = Linear
	}
	ct.Progress = maybe.Just(tf.Evaluate(directed))
	return t.finish(ct, playbackRate)
}

func (t Timing) finish(ct CalculatedTiming, playbackRate float64) CalculatedTiming {
	ct.IsInEffect = ct.ActiveTime.IsJust()
	ct.IsCurrent = ct.Phase == PhaseActive ||
		(playbackRate > 0 && ct.Phase == PhaseBefore) ||
		(playbackRate < 0 && ct.Phase == PhaseAfter)
	return ct
}

func (t Timing) directionIsReversed(iteration float64) bool {
	switch t.Direction {
	case DirectionReverse:
		return true
	case DirectionAlternate, DirectionAlternateReverse:
		odd := !math.IsInf(iteration, 1) && math.Mod(iteration, 2) == 1
		if t.Direction == DirectionAlternate {
			return odd
		}
		return !odd
	}
	return false
}

func minDur(a, b time.Duration) time.Duration {
	if a < b {
		return a
	}
	return b
}

func clampDur(d, lower time.Duration) time.Duration {
	if d < lower {
		return lower
	}
	return d
}

func addDur(a, b time.Duration) time.Duration {
	if a == Infinite || b == Infinite {
		return Infinite
	}
	return a + b
}
