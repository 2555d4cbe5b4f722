/*
Package timeline implements the timelines animations are bound to: the
monotonic document timeline and progress-based scroll and view timelines.

Scroll and view timelines read their geometry from a Geometry, which is
provided by the layout engine (or by tests).

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package timeline

import (
	"fmt"
	"time"

	"github.com/npillmayer/cssanim/maybe"
	"github.com/npillmayer/schuko/tracing"
)

// tracer will return a tracer. We are tracing to 'cssanim.timeline'
func tracer() tracing.Trace {
	return tracing.Select("cssanim.timeline")
}

// Timeline is the time source of an animation.
type Timeline interface {
	// CurrentTime is unresolved for inactive timelines.
	CurrentTime() maybe.Maybe[time.Duration]
	// IsMonotonicallyIncreasing is true for document timelines.
	IsMonotonicallyIncreasing() bool
	// IsScrollTimeline is true for scroll and view timelines.
	IsScrollTimeline() bool
	// ServiceAnimations updates the timeline state on demand.
	ServiceAnimations()
	String() string
}

// DocumentTimeline is the default, monotonic timeline of a document.
// Its time is advanced by the client, e.g. once per animation frame.
type DocumentTimeline struct {
	now      time.Duration
	inactive bool
}

// NewDocumentTimeline creates a document timeline at time 0.
func NewDocumentTimeline() *DocumentTimeline {
	return &DocumentTimeline{}
}

// CurrentTime returns the current time.
func (dt *DocumentTimeline) CurrentTime() maybe.Maybe[time.Duration] {
	if dt.inactive {
		return maybe.Nothing[time.Duration]()
	}
	return maybe.Just(dt.now)
}

// Advance moves the timeline forward by d.
func (dt *DocumentTimeline) Advance(d time.Duration) {
	if d < 0 {
		tracer().Errorf("document timeline cannot run backwards")
		return
	}
	dt.now += d
}

// SetCurrentTime sets the time of the timeline.
func (dt *DocumentTimeline) SetCurrentTime(t time.Duration) {
	if t < dt.now {
		tracer().Errorf("document timeline cannot run backwards")
		return
	}
	dt.now = t
}

// SetInactive toggles the timeline between active and inactive.
func (dt *DocumentTimeline) SetInactive(inactive bool) {
	dt.inactive = inactive
}

// IsMonotonicallyIncreasing is true.
func (dt *DocumentTimeline) IsMonotonicallyIncreasing() bool { return true }

// IsScrollTimeline is false.
func (dt *DocumentTimeline) IsScrollTimeline() bool { return false }

// ServiceAnimations does nothing for document timelines.
func (dt *DocumentTimeline) ServiceAnimations() {}

func (dt *DocumentTimeline) String() string {
	return fmt.Sprintf("DocumentTimeline(%v)", dt.now)
}

var _ Timeline = &DocumentTimeline{}
