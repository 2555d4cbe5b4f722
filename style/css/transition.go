package css

import (
	"strings"
	"time"

	"github.com/npillmayer/cssanim/style"
	"github.com/npillmayer/cssanim/timing"
)

// TransitionPropertyType classifies an item of transition-property.
type TransitionPropertyType uint8

// Types of transition properties.
const (
	TransitionNone            TransitionPropertyType = iota
	TransitionKnownProperty                          // a standard CSS property (or "all")
	TransitionUnknownProperty                        // custom or unknown property
)

// TransitionProperty is one item of transition-property.
type TransitionProperty struct {
	Type TransitionPropertyType
	Name string
}

// IsAll is true for the item "all".
func (tp TransitionProperty) IsAll() bool {
	return tp.Type == TransitionKnownProperty && tp.Name == "all"
}

// AllProperties is the transition property "all".
var AllProperties = TransitionProperty{Type: TransitionKnownProperty, Name: "all"}

// TransitionData is the parsed set of transition-* lists of a computed style.
type TransitionData struct {
	Properties      []TransitionProperty
	Durations       []time.Duration
	Delays          []time.Duration
	TimingFunctions []timing.TimingFunction
}

// TransitionDataFrom reads the transition-* properties of a style. It returns
// nil if none of them have been set, which is equivalent to "transition: all 0s".
func TransitionDataFrom(cs *style.ComputedStyle) *TransitionData {
	if cs == nil {
		return nil
	}
	set := false
	for _, key := range []string{"transition-property", "transition-duration",
		"transition-delay", "transition-timing-function"} {
		set = set || cs.IsSet(key)
	}
	if !set {
		return nil
	}
	td := &TransitionData{}
	for _, p := range cs.Get("transition-property").List() {
		td.Properties = append(td.Properties, classifyTransitionProperty(string(p.Normalized())))
	}
	for _, d := range cs.Get("transition-duration").List() {
		td.Durations = append(td.Durations, parseTimeOrZero("transition-duration", d))
	}
	for _, d := range cs.Get("transition-delay").List() {
		td.Delays = append(td.Delays, parseTimeOrZero("transition-delay", d))
	}
	td.TimingFunctions = parseTimingFunctions(cs.Get("transition-timing-function"))
	return td
}

func classifyTransitionProperty(name string) TransitionProperty {
	switch {
	case name == "none":
		return TransitionProperty{Type: TransitionNone}
	case name == "all":
		return AllProperties
	case strings.HasPrefix(name, "--"):
		return TransitionProperty{Type: TransitionUnknownProperty, Name: name}
	case style.IsShorthand(name) || style.Handle(name).IsCSSProperty():
		return TransitionProperty{Type: TransitionKnownProperty, Name: name}
	}
	return TransitionProperty{Type: TransitionUnknownProperty, Name: name}
}

// ConvertToTiming creates the specified timing for the i-th transition.
// Transitions always fill backwards, so that a delayed transition starts
// from the before-change value.
func (td *TransitionData) ConvertToTiming(i int) timing.Timing {
	t := timing.DefaultTiming()
	t.IterationDuration = GetRepeated(td.Durations, i)
	t.StartDelay = GetRepeated(td.Delays, i)
	t.FillMode = timing.FillBackwards
	if tf := GetRepeated(td.TimingFunctions, i); tf != nil {
		t.TimingFunction = tf
	} else {
		t.TimingFunction = timing.Ease
	}
	return t
}
