package cssanimations

import (
	"github.com/npillmayer/cssanim/animation"
	"github.com/npillmayer/cssanim/maybe"
	"github.com/npillmayer/cssanim/style"
	"github.com/npillmayer/cssanim/style/css"
	"github.com/npillmayer/cssanim/style/cssom"
	"github.com/npillmayer/cssanim/timeline"
	"github.com/npillmayer/cssanim/timing"
)

// RunningAnimation is a CSS animation started by animation-name, together
// with the inputs it has been built from.
type RunningAnimation struct {
	Animation     *animation.Animation
	Name          string
	NameIndex     int
	Timing        timing.Timing
	Rule          cssom.KeyframesRule
	Version       int
	PlayStates    []css.PlayState
	ScrollOffsets maybe.Maybe[timeline.ScrollOffsets]
}

// Update takes over the inputs of an applied change.
func (ra *RunningAnimation) Update(ua UpdatedAnimation) {
	ra.Rule = ua.Rule
	ra.Version = ua.Version
	ra.PlayStates = ua.PlayStates
	ra.Timing = ua.Timing
	ra.ScrollOffsets = viewOffsets(ua.Timeline)
}

// Timeline returns the timeline of the animation.
func (ra *RunningAnimation) Timeline() timeline.Timeline {
	return ra.Animation.Timeline()
}

// RangeStart returns the start of the animation range.
func (ra *RunningAnimation) RangeStart() maybe.Maybe[css.TimelineOffset] {
	return ra.Animation.RangeStart()
}

// RangeEnd returns the end of the animation range.
func (ra *RunningAnimation) RangeEnd() maybe.Maybe[css.TimelineOffset] {
	return ra.Animation.RangeEnd()
}

// viewOffsets returns the resolved scroll offsets of view timelines.
func viewOffsets(tl timeline.Timeline) maybe.Maybe[timeline.ScrollOffsets] {
	if vt, ok := tl.(*timeline.ViewTimeline); ok && vt != nil {
		return vt.ResolvedScrollOffsets()
	}
	return maybe.Nothing[timeline.ScrollOffsets]()
}

// RunningTransition is a CSS transition of a property, together with the
// values it transitions between.
type RunningTransition struct {
	Animation              *animation.Animation
	From, To               style.Property
	ReversingAdjustedStart style.Property
	ShorteningFactor       float64
}
