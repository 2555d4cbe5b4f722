package timeline

import (
	"github.com/npillmayer/cssanim/dom"
	"github.com/npillmayer/cssanim/style"
	"github.com/npillmayer/cssanim/style/css"
)

// PhysicalAxis is the horizontal or vertical scroll axis.
type PhysicalAxis uint8

// Physical axes.
const (
	Horizontal PhysicalAxis = iota
	Vertical
)

// Geometry provides layout information to scroll and view timelines.
// Sizes and positions are in CSS pixels.
type Geometry interface {
	// IsScrollContainer is true for elements with a scrollable overflow.
	IsScrollContainer(e *dom.Element) bool
	// RootScroller returns the scroll container of the document.
	RootScroller(doc *dom.Element) *dom.Element
	// ScrollPosition returns the current scroll offset of a container.
	ScrollPosition(container *dom.Element, axis PhysicalAxis) float64
	// MaxScroll returns the maximum scroll offset of a container.
	MaxScroll(container *dom.Element, axis PhysicalAxis) float64
	// ViewportSize returns the size of the scrollport of a container.
	ViewportSize(container *dom.Element, axis PhysicalAxis) float64
	// Box returns position (relative to the scroll origin of container) and
	// size of an element. ok is false for elements without a layout box.
	Box(e, container *dom.Element, axis PhysicalAxis) (pos, size float64, ok bool)
}

// NearestScrollContainer returns the nearest scroll container ancestor of
// e (excluding e), following the flat tree, or the root scroller.
func NearestScrollContainer(geo Geometry, e *dom.Element) *dom.Element {
	for p := e.FlatTreeParent(); p != nil; p = p.FlatTreeParent() {
		if geo.IsScrollContainer(p) {
			return p
		}
	}
	if doc := e.Document(); doc != nil {
		return geo.RootScroller(doc)
	}
	return nil
}

// ResolveAxis maps a logical timeline axis to a physical one, using the
// writing mode of the scroll container.
func ResolveAxis(axis css.TimelineAxis, container *dom.Element) PhysicalAxis {
	switch axis {
	case css.AxisX:
		return Horizontal
	case css.AxisY:
		return Vertical
	}
	horizontalWM := true
	if container != nil && container.ComputedStyle() != nil {
		horizontalWM = container.ComputedStyle().WritingDirection().Mode == style.HorizontalTB
	}
	if (axis == css.AxisBlock) == horizontalWM {
		return Vertical
	}
	return Horizontal
}

// --- Static geometry -------------------------------------------------------

// BoxInfo holds static layout information for an element.
type BoxInfo struct {
	Position   [2]float64 // relative to the scroll origin of the scroll container
	Size       [2]float64
	Scrollable bool
	Scroll     [2]float64 // current scroll offset, for scroll containers
	MaxScroll  [2]float64 // maximum scroll offset, for scroll containers
	Viewport   [2]float64 // scrollport size, for scroll containers
}

// StaticGeometry is a Geometry with explicitly set layout information.
// The document node acts as the root scroller.
type StaticGeometry struct {
	boxes map[*dom.Element]*BoxInfo
}

// NewStaticGeometry creates an empty static geometry.
func NewStaticGeometry() *StaticGeometry {
	return &StaticGeometry{boxes: make(map[*dom.Element]*BoxInfo)}
}

// Set sets the box information for an element.
func (sg *StaticGeometry) Set(e *dom.Element, box BoxInfo) {
	b := box
	sg.boxes[e] = &b
}

// ScrollTo changes the scroll position of a scroll container.
func (sg *StaticGeometry) ScrollTo(container *dom.Element, axis PhysicalAxis, pos float64) {
	if b, ok := sg.boxes[container]; ok {
		b.Scroll[axis] = pos
	}
}

// IsScrollContainer is part of interface Geometry.
func (sg *StaticGeometry) IsScrollContainer(e *dom.Element) bool {
	b, ok := sg.boxes[e]
	return ok && b.Scrollable
}

// RootScroller is part of interface Geometry.
func (sg *StaticGeometry) RootScroller(doc *dom.Element) *dom.Element {
	return doc
}

// ScrollPosition is part of interface Geometry.
func (sg *StaticGeometry) ScrollPosition(container *dom.Element, axis PhysicalAxis) float64 {
	if b, ok := sg.boxes[container]; ok {
		return b.Scroll[axis]
	}
	return 0
}

// MaxScroll is part of interface Geometry.
func (sg *StaticGeometry) MaxScroll(container *dom.Element, axis PhysicalAxis) float64 {
	if b, ok := sg.boxes[container]; ok {
		return b.MaxScroll[axis]
	}
	return 0
}

// ViewportSize is part of interface Geometry.
func (sg *StaticGeometry) ViewportSize(container *dom.Element, axis PhysicalAxis) float64 {
	if b, ok := sg.boxes[container]; ok {
		return b.Viewport[axis]
	}
	return 0
}

// Box is part of interface Geometry.
func (sg *StaticGeometry) Box(e, container *dom.Element, axis PhysicalAxis) (float64, float64, bool) {
	b, ok := sg.boxes[e]
	if !ok {
		return 0, 0, false
	}
	return b.Position[axis], b.Size[axis], true
}

var _ Geometry = &StaticGeometry{}
