package timeline

import (
	"fmt"

	"github.com/npillmayer/cssanim/dom"
	"github.com/npillmayer/cssanim/maybe"
	"github.com/npillmayer/cssanim/style/css"
)

// ViewOptions identify a view timeline.
type ViewOptions struct {
	Subject *dom.Element
	Axis    css.TimelineAxis
	Inset   css.TimelineInset
}

// ViewTimeline is a scroll timeline whose range is defined by the
// visibility of a subject element within its nearest scroll container.
type ViewTimeline struct {
	ScrollTimeline
	subject     *dom.Element
	inset       css.TimelineInset
	viewOffsets ScrollOffsets // subject start/end position
	viewport    float64
}

// NewViewTimeline creates a view timeline for a subject.
func NewViewTimeline(opts ViewOptions, geo Geometry) *ViewTimeline {
	vt := &ViewTimeline{subject: opts.Subject, inset: opts.Inset}
	vt.opts = ScrollOptions{
		ReferenceType: ReferenceNearestAncestor,
		Reference:     opts.Subject,
		Axis:          opts.Axis,
	}
	vt.geo = geo
	if opts.Subject != nil {
		vt.document = opts.Subject.Document()
	}
	vt.offsets = vt.calculateOffsets
	return vt
}

func (vt *ViewTimeline) String() string {
	return fmt.Sprintf("ViewTimeline(%v %s %s)", vt.subject, vt.opts.Axis, vt.inset)
}

// Subject returns the subject element.
func (vt *ViewTimeline) Subject() *dom.Element {
	return vt.subject
}

// Inset returns the inset of the timeline.
func (vt *ViewTimeline) Inset() css.TimelineInset {
	return vt.inset
}

// ViewMatches is true if the timeline has been created with options opts.
func (vt *ViewTimeline) ViewMatches(opts ViewOptions) bool {
	return vt.subject == opts.Subject && vt.opts.Axis == opts.Axis && vt.inset == opts.Inset
}

func (vt *ViewTimeline) resolveInset(d css.DimenT, viewport float64) float64 {
	return css.DimenPattern[float64](d).OneOf(css.DimenPatterns[float64]{
		Just:    d.PixelValue(),
		Percent: d.Percent() / 100 * viewport,
	})
}

// Scroll offsets of a view timeline are the cover range: from the subject's
// start edge entering the scrollport (at its end edge) to the subject's end
// edge leaving it (at its start edge).
func (vt *ViewTimeline) calculateOffsets(source *dom.Element, axis PhysicalAxis) (ScrollOffsets, bool) {
	if vt.subject == nil {
		return ScrollOffsets{}, false
	}
	pos, size, ok := vt.geo.Box(vt.subject, source, axis)
	if !ok {
		return ScrollOffsets{}, false
	}
	viewport := vt.geo.ViewportSize(source, axis)
	startInset := vt.resolveInset(vt.inset.Start, viewport)
	endInset := vt.resolveInset(vt.inset.End, viewport)
	vt.viewOffsets = ScrollOffsets{pos, pos + size}
	vt.viewport = viewport
	return ScrollOffsets{
		Start: pos - viewport + endInset,
		End:   pos + size - startInset,
	}, true
}

// rangeOffsets returns the scroll offsets of a named range.
func (vt *ViewTimeline) rangeOffsets(name css.RangeName) ScrollOffsets {
	cover := vt.state.offsets
	size := vt.viewOffsets.End - vt.viewOffsets.Start
	subjectStartAtViewEnd := cover.Start
	subjectEndAtViewStart := cover.End
	subjectEndAtViewEnd := subjectStartAtViewEnd + size
	subjectStartAtViewStart := subjectEndAtViewStart - size
	containStart := minf(subjectEndAtViewEnd, subjectStartAtViewStart)
	containEnd := maxf(subjectEndAtViewEnd, subjectStartAtViewStart)
	switch name {
	case css.RangeContain:
		return ScrollOffsets{containStart, containEnd}
	case css.RangeEntry:
		return ScrollOffsets{subjectStartAtViewEnd, containStart}
	case css.RangeExit:
		return ScrollOffsets{containEnd, subjectEndAtViewStart}
	case css.RangeEntryCrossing:
		return ScrollOffsets{subjectStartAtViewEnd, subjectEndAtViewEnd}
	case css.RangeExitCrossing:
		return ScrollOffsets{subjectStartAtViewStart, subjectEndAtViewStart}
	}
	return cover
}

// ToFractionalOffset converts a timeline offset, e.g. "entry 25%", to a
// fraction of the cover range. It is unresolved if the timeline is inactive.
func (vt *ViewTimeline) ToFractionalOffset(o css.TimelineOffset) maybe.Maybe[float64] {
	if !vt.IsActive() {
		return maybe.Nothing[float64]()
	}
	r := vt.rangeOffsets(o.Name)
	var pos float64
	switch {
	case o.Offset.IsPercent():
		pos = r.Start + o.Offset.Percent()/100*(r.End-r.Start)
	case o.Offset.IsAbsolute():
		pos = r.Start + o.Offset.PixelValue()
	default:
		tracer().Infof("cannot resolve timeline offset %s", o)
		return maybe.Nothing[float64]()
	}
	cover := vt.state.offsets
	return maybe.Just((pos - cover.Start) / (cover.End - cover.Start))
}

func minf(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func maxf(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

var _ Timeline = &ViewTimeline{}
