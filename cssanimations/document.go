package cssanimations

import (
	"time"

	"github.com/npillmayer/cssanim/animation"
	"github.com/npillmayer/cssanim/dom"
	"github.com/npillmayer/cssanim/style"
	"github.com/npillmayer/cssanim/style/cssom"
	"github.com/npillmayer/cssanim/timeline"
)

// KeyframesResolver finds @keyframes rules. Implementations return the
// rule that applies to an element for an animation name, i.e. the last one
// in document order of the nearest tree scope declaring it, together with
// that scope. The rule is nil if there is none.
type KeyframesResolver interface {
	FindKeyframesRule(e *dom.Element, name string) (cssom.KeyframesRule, *dom.TreeScope)
}

// Document holds the state of animations shared across the elements of a
// document: the document timeline, the transition generation, event
// listeners and queued events, custom property registrations and the
// scroll geometry used by scroll and view timelines.
type Document struct {
	root       *dom.Element
	config     Config
	timeline   *timeline.DocumentTimeline
	geometry   timeline.Geometry
	registry   *style.PropertyRegistry
	generation uint64
	listeners  map[animation.EventType]int
	events     []animation.Event
	elements   map[*dom.Element]*CSSAnimations
}

// NewDocument creates the animation state of a document. geo may be nil
// if no scroll-driven animations are used.
func NewDocument(root *dom.Element, config Config, geo timeline.Geometry) *Document {
	if geo == nil {
		geo = timeline.NewStaticGeometry()
	}
	return &Document{
		root:      root,
		config:    config,
		timeline:  timeline.NewDocumentTimeline(),
		geometry:  geo,
		registry:  style.NewPropertyRegistry(),
		listeners: make(map[animation.EventType]int),
		elements:  make(map[*dom.Element]*CSSAnimations),
	}
}

// Root returns the document node.
func (doc *Document) Root() *dom.Element { return doc.root }

// Config returns the configuration.
func (doc *Document) Config() Config { return doc.config }

// Timeline returns the document timeline.
func (doc *Document) Timeline() *timeline.DocumentTimeline { return doc.timeline }

// Geometry returns the scroll geometry.
func (doc *Document) Geometry() timeline.Geometry { return doc.geometry }

// Registry returns the custom property registry.
func (doc *Document) Registry() *style.PropertyRegistry { return doc.registry }

// TransitionGeneration returns the current transition generation.
func (doc *Document) TransitionGeneration() uint64 { return doc.generation }

// IncrementTransitionGeneration starts a new generation of transitions.
func (doc *Document) IncrementTransitionGeneration() { doc.generation++ }

// AddListener registers interest in an event type.
func (doc *Document) AddListener(et animation.EventType) {
	doc.listeners[et]++
}

// RemoveListener unregisters interest in an event type.
func (doc *Document) RemoveListener(et animation.EventType) {
	if doc.listeners[et] > 0 {
		doc.listeners[et]--
	}
}

// HasListener is part of interface animation.EventSink.
func (doc *Document) HasListener(et animation.EventType) bool {
	return doc.listeners[et] > 0
}

// Enqueue is part of interface animation.EventSink.
func (doc *Document) Enqueue(ev animation.Event) {
	doc.events = append(doc.events, ev)
}

// TakeEvents returns the queued events and clears the queue.
func (doc *Document) TakeEvents() []animation.Event {
	evs := doc.events
	doc.events = nil
	return evs
}

var _ animation.EventSink = &Document{}

// ElementAnimations returns the animation state of an element, creating
// it if necessary.
func (doc *Document) ElementAnimations(e *dom.Element) *CSSAnimations {
	ca, ok := doc.elements[e]
	if !ok {
		ca = newCSSAnimations(doc, e)
		doc.elements[e] = ca
	}
	return ca
}

// Lookup returns the animation state of an element, or nil.
func (doc *Document) Lookup(e *dom.Element) *CSSAnimations {
	return doc.elements[e]
}

// RemoveElement cancels all animations of an element and drops its state.
func (doc *Document) RemoveElement(e *dom.Element) {
	if ca, ok := doc.elements[e]; ok {
		ca.Cancel()
		delete(doc.elements, e)
	}
}

// ServiceAnimations advances the document timeline by d, refreshes scroll
// and view timelines and updates every animation for the new frame.
// Events are queued as a side effect.
func (doc *Document) ServiceAnimations(d time.Duration) {
	doc.timeline.Advance(d)
	serviced := make(map[timeline.Timeline]bool)
	doc.root.WalkComposed(func(e *dom.Element) bool {
		ca := doc.elements[e]
		if ca == nil {
			return true
		}
		for _, tl := range ca.timelineData.Timelines() {
			if !serviced[tl] {
				tl.ServiceAnimations()
				serviced[tl] = true
			}
		}
		for _, a := range ca.stack.Animations() {
			if tl := a.Timeline(); tl != nil && !serviced[tl] {
				tl.ServiceAnimations()
				serviced[tl] = true
			}
			a.Update(animation.TimingUpdateForAnimationFrame)
		}
		return true
	})
}
