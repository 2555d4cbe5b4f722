/*
Package css provides typed readings of the CSS properties the animation engine
depends on: the animation-* and transition-* lists, timeline declarations,
named timeline ranges and CSS dimensions.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package css

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/npillmayer/cssanim/maybe"
	"github.com/npillmayer/cssanim/style"
	"github.com/npillmayer/cssanim/timing"
	"github.com/npillmayer/schuko/tracing"
)

// tracer will return a tracer. We are tracing to 'cssanim.css'
func tracer() tracing.Trace {
	return tracing.Select("cssanim.css")
}

// ErrTime is returned for unparsable time values.
var ErrTime = errors.New("invalid CSS time")

// GetRepeated returns the i-th item of a list, repeating the list if it is
// shorter than i. CSS lists of animation-* properties are matched up this
// way with animation-name. An empty list returns the zero value.
func GetRepeated[T any](list []T, i int) T {
	if len(list) == 0 {
		var zero T
		return zero
	}
	return list[i%len(list)]
}

// ParseTime parses a CSS time value ("1s", "250ms").
func ParseTime(s string) (time.Duration, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	var unit time.Duration
	switch {
	case strings.HasSuffix(s, "ms"):
		unit, s = time.Millisecond, strings.TrimSuffix(s, "ms")
	case strings.HasSuffix(s, "s"):
		unit, s = time.Second, strings.TrimSuffix(s, "s")
	case s == "0":
		return 0, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrTime, s)
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%w: %q", ErrTime, s)
	}
	return time.Duration(f * float64(unit)), nil
}

// PlayState is the CSS animation-play-state.
type PlayState uint8

// Play states.
const (
	PlayStateRunning PlayState = iota
	PlayStatePaused
)

func (ps PlayState) String() string {
	if ps == PlayStatePaused {
		return "paused"
	}
	return "running"
}

// CompositeOperation is the CSS animation-composition.
type CompositeOperation uint8

// Composite operations.
const (
	CompositeReplace CompositeOperation = iota
	CompositeAdd
	CompositeAccumulate
)

func (co CompositeOperation) String() string {
	return [...]string{"replace", "add", "accumulate"}[co]
}

// ParseCompositeOperation converts a composite keyword.
func ParseCompositeOperation(s string) (CompositeOperation, bool) {
	switch strings.TrimSpace(strings.ToLower(s)) {
	case "replace":
		return CompositeReplace, true
	case "add":
		return CompositeAdd, true
	case "accumulate":
		return CompositeAccumulate, true
	}
	return CompositeReplace, false
}

// AnimationData is the parsed set of animation-* lists of a computed style.
// Lists are not padded; use GetRepeated to align them with Names.
type AnimationData struct {
	Names           []string
	Durations       []time.Duration
	Delays          []time.Duration
	IterationCounts []float64
	Directions      []timing.PlaybackDirection
	FillModes       []timing.FillMode
	PlayStates      []PlayState
	TimingFunctions []timing.TimingFunction
	Timelines       []StyleTimeline
	RangeStarts     []maybe.Maybe[TimelineOffset]
	RangeEnds       []maybe.Maybe[TimelineOffset]
	Compositions    []CompositeOperation
}

// AnimationDataFrom reads the animation-* properties of a style. It returns
// nil if animation-name has not been set.
func AnimationDataFrom(cs *style.ComputedStyle) *AnimationData {
	if cs == nil || !cs.IsSet("animation-name") {
		return nil
	}
	ad := &AnimationData{}
	for _, n := range cs.Get("animation-name").List() {
		name := strings.Trim(string(n), `"'`)
		if name != string(n) {
			ad.Names = append(ad.Names, name) // quoted names are case-sensitive
		} else {
			ad.Names = append(ad.Names, strings.TrimSpace(name))
		}
	}
	for _, d := range cs.Get("animation-duration").List() {
		if d.Normalized() == "auto" {
			ad.Durations = append(ad.Durations, 0)
			continue
		}
		ad.Durations = append(ad.Durations, parseTimeOrZero("animation-duration", d))
	}
	for _, d := range cs.Get("animation-delay").List() {
		ad.Delays = append(ad.Delays, parseTimeOrZero("animation-delay", d))
	}
	for _, c := range cs.Get("animation-iteration-count").List() {
		ad.IterationCounts = append(ad.IterationCounts, parseIterationCount(c))
	}
	for _, d := range cs.Get("animation-direction").List() {
		ad.Directions = append(ad.Directions, parseDirection(string(d.Normalized())))
	}
	for _, f := range cs.Get("animation-fill-mode").List() {
		ad.FillModes = append(ad.FillModes, parseFillMode(string(f.Normalized())))
	}
	for _, p := range cs.Get("animation-play-state").List() {
		ps := PlayStateRunning
		if p.Normalized() == "paused" {
			ps = PlayStatePaused
		}
		ad.PlayStates = append(ad.PlayStates, ps)
	}
	ad.TimingFunctions = parseTimingFunctions(cs.Get("animation-timing-function"))
	for _, t := range cs.Get("animation-timeline").List() {
		st, err := ParseStyleTimeline(string(t))
		if err != nil {
			tracer().Infof("animation-timeline: %v", err)
			st = StyleTimeline{Kind: TimelineAuto}
		}
		ad.Timelines = append(ad.Timelines, st)
	}
	ad.RangeStarts = parseRangeList(cs.Get("animation-range-start"), 0)
	ad.RangeEnds = parseRangeList(cs.Get("animation-range-end"), 100)
	for _, c := range cs.Get("animation-composition").List() {
		co, _ := ParseCompositeOperation(string(c))
		ad.Compositions = append(ad.Compositions, co)
	}
	return ad
}

// ConvertToTiming creates the specified timing for the i-th animation.
func (ad *AnimationData) ConvertToTiming(i int) timing.Timing {
	t := timing.DefaultTiming()
	t.IterationDuration = GetRepeated(ad.Durations, i)
	t.StartDelay = GetRepeated(ad.Delays, i)
	if len(ad.IterationCounts) > 0 {
		t.IterationCount = GetRepeated(ad.IterationCounts, i)
	}
	t.Direction = GetRepeated(ad.Directions, i)
	t.FillMode = GetRepeated(ad.FillModes, i)
	if t.FillMode == timing.FillAuto {
		t.FillMode = timing.FillNone
	}
	if tf := GetRepeated(ad.TimingFunctions, i); tf != nil {
		t.TimingFunction = tf
	} else {
		t.TimingFunction = timing.Ease
	}
	return t
}

// PlayState returns the play state of the i-th animation.
func (ad *AnimationData) PlayState(i int) PlayState {
	return GetRepeated(ad.PlayStates, i)
}

// Timeline returns the animation-timeline value of the i-th animation.
func (ad *AnimationData) Timeline(i int) StyleTimeline {
	return GetRepeated(ad.Timelines, i)
}

// RangeStart returns the animation-range-start of the i-th animation.
func (ad *AnimationData) RangeStart(i int) maybe.Maybe[TimelineOffset] {
	return GetRepeated(ad.RangeStarts, i)
}

// RangeEnd returns the animation-range-end of the i-th animation.
func (ad *AnimationData) RangeEnd(i int) maybe.Maybe[TimelineOffset] {
	return GetRepeated(ad.RangeEnds, i)
}

// Composition returns the animation-composition of the i-th animation.
func (ad *AnimationData) Composition(i int) CompositeOperation {
	return GetRepeated(ad.Compositions, i)
}

// FirstTimingFunction returns the timing function of the first animation,
// or ease if there is none.
func (ad *AnimationData) FirstTimingFunction() timing.TimingFunction {
	if ad == nil || len(ad.TimingFunctions) == 0 || ad.TimingFunctions[0] == nil {
		return timing.Ease
	}
	return ad.TimingFunctions[0]
}

func parseTimeOrZero(prop string, p style.Property) time.Duration {
	d, err := ParseTime(string(p))
	if err != nil {
		tracer().Infof("%s: %v", prop, err)
		return 0
	}
	return d
}

func parseIterationCount(p style.Property) float64 {
	s := string(p.Normalized())
	if s == "infinite" {
		return math.Inf(1)
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f < 0 {
		tracer().Infof("animation-iteration-count: invalid value %q", s)
		return 1
	}
	return f
}

func parseDirection(s string) timing.PlaybackDirection {
	switch s {
	case "reverse":
		return timing.DirectionReverse
	case "alternate":
		return timing.DirectionAlternate
	case "alternate-reverse":
		return timing.DirectionAlternateReverse
	}
	return timing.DirectionNormal
}

func parseFillMode(s string) timing.FillMode {
	switch s {
	case "forwards":
		return timing.FillForwards
	case "backwards":
		return timing.FillBackwards
	case "both":
		return timing.FillBoth
	}
	return timing.FillNone
}

func parseTimingFunctions(p style.Property) []timing.TimingFunction {
	var tfs []timing.TimingFunction
	for _, item := range p.List() {
		tf, err := timing.ParseTimingFunction(string(item))
		if err != nil {
			tracer().Infof("%v", err)
			tf = timing.Ease
		}
		tfs = append(tfs, tf)
	}
	return tfs
}

func parseRangeList(p style.Property, defaultPercent float64) []maybe.Maybe[TimelineOffset] {
	var r []maybe.Maybe[TimelineOffset]
	for _, item := range p.List() {
		o, err := ParseRangeBoundary(string(item), defaultPercent)
		if err != nil {
			tracer().Infof("animation-range: %v", err)
		}
		r = append(r, o)
	}
	return r
}
