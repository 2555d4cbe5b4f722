package css

import (
	"fmt"
	"strings"

	"github.com/npillmayer/cssanim/maybe"
	"github.com/npillmayer/cssanim/style"
)

// TimelineAxis is the axis of a scroll or view timeline.
type TimelineAxis uint8

// Timeline axes.
const (
	AxisBlock TimelineAxis = iota
	AxisInline
	AxisX
	AxisY
)

func (a TimelineAxis) String() string {
	return [...]string{"block", "inline", "x", "y"}[a]
}

// ParseTimelineAxis converts an axis keyword. Unknown keywords map to block.
func ParseTimelineAxis(s string) TimelineAxis {
	switch strings.TrimSpace(strings.ToLower(s)) {
	case "inline":
		return AxisInline
	case "x", "horizontal":
		return AxisX
	case "y", "vertical":
		return AxisY
	}
	return AxisBlock
}

// TimelineInset is the inset of a view timeline. Auto insets are
// represented as DimenT values of kind auto.
type TimelineInset struct {
	Start, End DimenT
}

// AutoInset returns the inset "auto".
func AutoInset() TimelineInset {
	return TimelineInset{Auto(), Auto()}
}

func (in TimelineInset) String() string {
	if in.Start == in.End {
		return in.Start.String()
	}
	return in.Start.String() + " " + in.End.String()
}

// ParseTimelineInset parses one item of view-timeline-inset.
func ParseTimelineInset(s string) (TimelineInset, error) {
	f := strings.Fields(s)
	if len(f) == 0 {
		return AutoInset(), nil
	}
	if len(f) > 2 {
		return TimelineInset{}, fmt.Errorf("%w: inset %q", ErrDimension, s)
	}
	start, err := ParseDimen(style.Property(f[0]))
	if err != nil {
		return TimelineInset{}, err
	}
	end := start
	if len(f) == 2 {
		if end, err = ParseDimen(style.Property(f[1])); err != nil {
			return TimelineInset{}, err
		}
	}
	return TimelineInset{start, end}, nil
}

// Scroller selects the scroll container of an anonymous scroll() timeline.
type Scroller uint8

// Scroller values for scroll().
const (
	ScrollerNearest Scroller = iota
	ScrollerRoot
	ScrollerSelf
)

// TimelineKind tells the variants of animation-timeline apart.
type TimelineKind uint8

// Kinds of animation-timeline values.
const (
	TimelineAuto TimelineKind = iota
	TimelineNone
	TimelineName
	TimelineScroll
	TimelineView
)

// StyleTimeline is a single value of animation-timeline.
type StyleTimeline struct {
	Kind     TimelineKind
	Name     string        // for TimelineName
	Scroller Scroller      // for scroll()
	Axis     TimelineAxis  // for scroll() and view()
	Inset    TimelineInset // for view()
}

func (st StyleTimeline) String() string {
	switch st.Kind {
	case TimelineNone:
		return "none"
	case TimelineName:
		return st.Name
	case TimelineScroll:
		return fmt.Sprintf("scroll(%d %s)", st.Scroller, st.Axis)
	case TimelineView:
		return fmt.Sprintf("view(%s %s)", st.Axis, st.Inset)
	}
	return "auto"
}

// ParseStyleTimeline parses one item of animation-timeline.
func ParseStyleTimeline(s string) (StyleTimeline, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	switch s {
	case "", "auto":
		return StyleTimeline{Kind: TimelineAuto}, nil
	case "none":
		return StyleTimeline{Kind: TimelineNone}, nil
	}
	if strings.HasPrefix(s, "scroll(") && strings.HasSuffix(s, ")") {
		st := StyleTimeline{Kind: TimelineScroll}
		for _, arg := range strings.Fields(s[7 : len(s)-1]) {
			switch arg {
			case "nearest":
				st.Scroller = ScrollerNearest
			case "root":
				st.Scroller = ScrollerRoot
			case "self":
				st.Scroller = ScrollerSelf
			default:
				st.Axis = ParseTimelineAxis(arg)
			}
		}
		return st, nil
	}
	if strings.HasPrefix(s, "view(") && strings.HasSuffix(s, ")") {
		st := StyleTimeline{Kind: TimelineView, Inset: AutoInset()}
		var insets []string
		for _, arg := range strings.Fields(s[5 : len(s)-1]) {
			switch arg {
			case "block", "inline", "x", "y":
				st.Axis = ParseTimelineAxis(arg)
			default:
				insets = append(insets, arg)
			}
		}
		if len(insets) > 0 {
			in, err := ParseTimelineInset(strings.Join(insets, " "))
			if err != nil {
				return StyleTimeline{}, err
			}
			st.Inset = in
		}
		return st, nil
	}
	if strings.ContainsAny(s, "() ") {
		return StyleTimeline{}, fmt.Errorf("invalid animation-timeline %q", s)
	}
	return StyleTimeline{Kind: TimelineName, Name: s}, nil
}

// --- Named timeline ranges -------------------------------------------------

// RangeName is a named timeline range of a view timeline.
type RangeName uint8

// Named timeline ranges.
const (
	RangeNone RangeName = iota
	RangeCover
	RangeContain
	RangeEntry
	RangeExit
	RangeEntryCrossing
	RangeExitCrossing
)

var rangeNames = []string{"none", "cover", "contain", "entry", "exit", "entry-crossing", "exit-crossing"}

func (r RangeName) String() string {
	return rangeNames[r]
}

func parseRangeName(s string) (RangeName, bool) {
	for i, n := range rangeNames {
		if i > 0 && n == s {
			return RangeName(i), true
		}
	}
	return RangeNone, false
}

// TimelineOffset is a position on a timeline, optionally relative to a
// named range, e.g. "entry 25%".
type TimelineOffset struct {
	Name   RangeName
	Offset DimenT
}

func (o TimelineOffset) String() string {
	if o.Name == RangeNone {
		return o.Offset.String()
	}
	return o.Name.String() + " " + o.Offset.String()
}

// ParseTimelineOffset parses a timeline offset. A missing offset after a
// range name defaults to defaultPercent.
func ParseTimelineOffset(s string, defaultPercent float64) (TimelineOffset, error) {
	f := strings.Fields(strings.ToLower(strings.TrimSpace(s)))
	if len(f) == 0 || len(f) > 2 {
		return TimelineOffset{}, fmt.Errorf("invalid timeline offset %q", s)
	}
	name, isNamed := parseRangeName(f[0])
	if !isNamed {
		if len(f) != 1 {
			return TimelineOffset{}, fmt.Errorf("invalid timeline offset %q", s)
		}
		d, err := ParseDimen(style.Property(f[0]))
		return TimelineOffset{Offset: d}, err
	}
	if len(f) == 1 {
		return TimelineOffset{Name: name, Offset: Percentage(defaultPercent)}, nil
	}
	d, err := ParseDimen(style.Property(f[1]))
	return TimelineOffset{Name: name, Offset: d}, err
}

// ParseRangeBoundary parses one item of animation-range-start/end.
// "normal" results in Nothing.
func ParseRangeBoundary(s string, defaultPercent float64) (maybe.Maybe[TimelineOffset], error) {
	if strings.TrimSpace(strings.ToLower(s)) == "normal" || strings.TrimSpace(s) == "" {
		return maybe.Nothing[TimelineOffset](), nil
	}
	o, err := ParseTimelineOffset(s, defaultPercent)
	if err != nil {
		return maybe.Nothing[TimelineOffset](), err
	}
	return maybe.Just(o), nil
}

// --- Timeline declarations -------------------------------------------------

// TimelineSpec is one entry of scroll-timeline-* or view-timeline-*:
// a name with axis and (for view timelines) inset.
type TimelineSpec struct {
	Name  string
	Axis  TimelineAxis
	Inset TimelineInset
}

// ScrollTimelineSpecs reads scroll-timeline-name and scroll-timeline-axis.
// Names of "none" are kept as placeholders so that positions line up.
func ScrollTimelineSpecs(cs *style.ComputedStyle) []TimelineSpec {
	names := cs.Get("scroll-timeline-name").List()
	axes := cs.Get("scroll-timeline-axis").List()
	specs := make([]TimelineSpec, 0, len(names))
	for i, n := range names {
		specs = append(specs, TimelineSpec{
			Name: string(n.Normalized()),
			Axis: ParseTimelineAxis(string(GetRepeated(axes, i))),
		})
	}
	return specs
}

// ViewTimelineSpecs reads view-timeline-name, -axis and -inset.
func ViewTimelineSpecs(cs *style.ComputedStyle) []TimelineSpec {
	names := cs.Get("view-timeline-name").List()
	axes := cs.Get("view-timeline-axis").List()
	insets := cs.Get("view-timeline-inset").List()
	specs := make([]TimelineSpec, 0, len(names))
	for i, n := range names {
		inset, err := ParseTimelineInset(string(GetRepeated(insets, i)))
		if err != nil {
			tracer().Infof("view-timeline-inset: %v", err)
			inset = AutoInset()
		}
		specs = append(specs, TimelineSpec{
			Name:  string(n.Normalized()),
			Axis:  ParseTimelineAxis(string(GetRepeated(axes, i))),
			Inset: inset,
		})
	}
	return specs
}
