package timeline

import (
	"fmt"
	"time"

	"github.com/npillmayer/cssanim/dom"
	"github.com/npillmayer/cssanim/maybe"
	"github.com/npillmayer/cssanim/style/css"
)

// ScrollTimelineDuration is the fixed duration of progress-based timelines:
// a progress of p corresponds to a current time of p × ScrollTimelineDuration.
const ScrollTimelineDuration = 100 * time.Second

// ReferenceType tells how the scroll source of a scroll timeline is found.
type ReferenceType uint8

// Reference types.
const (
	ReferenceSource          ReferenceType = iota // the reference element is the source
	ReferenceNearestAncestor                      // nearest scroll container ancestor of the reference
)

// ScrollOffsets is a range of scroll positions.
type ScrollOffsets struct {
	Start, End float64
}

// ScrollOptions identify a scroll timeline. A ReferenceSource timeline
// without a reference element uses the root scroller.
type ScrollOptions struct {
	ReferenceType ReferenceType
	Reference     *dom.Element
	Axis          css.TimelineAxis
}

type timelineState struct {
	resolved bool
	source   *dom.Element
	axis     PhysicalAxis
	position float64
	offsets  ScrollOffsets
}

// ScrollTimeline is a progress-based timeline driven by the scroll
// position of a scroll container.
type ScrollTimeline struct {
	opts     ScrollOptions
	document *dom.Element
	geo      Geometry
	state    timelineState
	offsets  func(source *dom.Element, axis PhysicalAxis) (ScrollOffsets, bool)
	attached int
}

// NewScrollTimeline creates a scroll timeline for a document.
func NewScrollTimeline(document *dom.Element, opts ScrollOptions, geo Geometry) *ScrollTimeline {
	st := &ScrollTimeline{opts: opts, document: document, geo: geo}
	st.offsets = st.scrollRange
	return st
}

func (st *ScrollTimeline) String() string {
	return fmt.Sprintf("ScrollTimeline(%v %s)", st.opts.Reference, st.opts.Axis)
}

// Options returns the options the timeline has been created with.
func (st *ScrollTimeline) Options() ScrollOptions {
	return st.opts
}

// Matches is true if the timeline has been created with options opts.
func (st *ScrollTimeline) Matches(opts ScrollOptions) bool {
	return st.opts == opts
}

// ComputeSource finds the scroll container of the timeline.
func (st *ScrollTimeline) ComputeSource() *dom.Element {
	if st.geo == nil {
		return nil
	}
	switch st.opts.ReferenceType {
	case ReferenceNearestAncestor:
		if st.opts.Reference == nil {
			return nil
		}
		return NearestScrollContainer(st.geo, st.opts.Reference)
	}
	if st.opts.Reference == nil {
		if st.document == nil {
			return nil
		}
		return st.geo.RootScroller(st.document)
	}
	return st.opts.Reference
}

// ServiceAnimations snapshots the scroll state.
func (st *ScrollTimeline) ServiceAnimations() {
	st.state = timelineState{}
	source := st.ComputeSource()
	if source == nil {
		return
	}
	axis := ResolveAxis(st.opts.Axis, source)
	offsets, ok := st.offsets(source, axis)
	if !ok {
		return
	}
	st.state = timelineState{
		resolved: true,
		source:   source,
		axis:     axis,
		position: st.geo.ScrollPosition(source, axis),
		offsets:  offsets,
	}
}

func (st *ScrollTimeline) scrollRange(source *dom.Element, axis PhysicalAxis) (ScrollOffsets, bool) {
	max := st.geo.MaxScroll(source, axis)
	return ScrollOffsets{0, max}, max > 0
}

// IsActive is true if the timeline has a resolved source with a non-empty
// scroll range.
func (st *ScrollTimeline) IsActive() bool {
	return st.state.resolved && st.state.offsets.End > st.state.offsets.Start
}

// ResolvedScrollOffsets returns the scroll range of the timeline, as of
// the last service tick.
func (st *ScrollTimeline) ResolvedScrollOffsets() maybe.Maybe[ScrollOffsets] {
	if !st.state.resolved {
		return maybe.Nothing[ScrollOffsets]()
	}
	return maybe.Just(st.state.offsets)
}

// Progress returns the scroll progress, which may be outside [0,1] for
// view timelines.
func (st *ScrollTimeline) Progress() maybe.Maybe[float64] {
	if !st.IsActive() {
		return maybe.Nothing[float64]()
	}
	o := st.state.offsets
	return maybe.Just((st.state.position - o.Start) / (o.End - o.Start))
}

// CurrentTime returns progress × ScrollTimelineDuration.
func (st *ScrollTimeline) CurrentTime() maybe.Maybe[time.Duration] {
	return maybe.AndThen(func(p float64) maybe.Maybe[time.Duration] {
		return maybe.Just(time.Duration(p * float64(ScrollTimelineDuration)))
	}, st.Progress())
}

// ToFractionalOffset converts an animation-range boundary to a fraction of
// the scroll range. Named ranges are only meaningful for view timelines and
// resolve against the full range here.
func (st *ScrollTimeline) ToFractionalOffset(o css.TimelineOffset) maybe.Maybe[float64] {
	if !st.IsActive() {
		return maybe.Nothing[float64]()
	}
	r := st.state.offsets
	switch {
	case o.Offset.IsPercent():
		return maybe.Just(o.Offset.Percent() / 100)
	case o.Offset.IsAbsolute():
		return maybe.Just(o.Offset.PixelValue() / (r.End - r.Start))
	}
	return maybe.Nothing[float64]()
}

// IsMonotonicallyIncreasing is false.
func (st *ScrollTimeline) IsMonotonicallyIncreasing() bool { return false }

// IsScrollTimeline is true.
func (st *ScrollTimeline) IsScrollTimeline() bool { return true }

// Attach registers an animation with the timeline.
func (st *ScrollTimeline) Attach() { st.attached++ }

// Detach unregisters an animation from the timeline.
func (st *ScrollTimeline) Detach() {
	if st.attached > 0 {
		st.attached--
	}
}

// Attachments returns the number of animations attached to the timeline.
func (st *ScrollTimeline) Attachments() int {
	return st.attached
}

var _ Timeline = &ScrollTimeline{}
