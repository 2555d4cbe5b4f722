package cssanimations

import (
	"github.com/npillmayer/cssanim/dom"
	"github.com/npillmayer/cssanim/timeline"
)

// cssTimeline is the constraint for the timelines of a TimelineMap.
type cssTimeline interface {
	comparable
	timeline.Timeline
}

// TimelineMap maps tree-scoped names to timelines, keeping the order of
// insertion. In a map of changed timelines, a nil timeline marks the
// removal of an existing one.
type TimelineMap[T cssTimeline] struct {
	keys   []dom.ScopedName
	values map[dom.ScopedName]T
}

// Get returns the timeline for a name.
func (tm *TimelineMap[T]) Get(name dom.ScopedName) (T, bool) {
	v, ok := tm.values[name]
	return v, ok
}

// Contains is true if there is an entry for name, nil entries included.
func (tm *TimelineMap[T]) Contains(name dom.ScopedName) bool {
	_, ok := tm.values[name]
	return ok
}

// Set stores a timeline for a name. A new name is appended to the order
// of iteration, an existing one keeps its position.
func (tm *TimelineMap[T]) Set(name dom.ScopedName, tl T) {
	if tm.values == nil {
		tm.values = make(map[dom.ScopedName]T)
	}
	if _, ok := tm.values[name]; !ok {
		tm.keys = append(tm.keys, name)
	}
	tm.values[name] = tl
}

// Delete removes the entry for a name.
func (tm *TimelineMap[T]) Delete(name dom.ScopedName) {
	if _, ok := tm.values[name]; !ok {
		return
	}
	delete(tm.values, name)
	for i, k := range tm.keys {
		if k == name {
			tm.keys = append(tm.keys[:i], tm.keys[i+1:]...)
			break
		}
	}
}

// Keys returns the names in order of insertion.
func (tm *TimelineMap[T]) Keys() []dom.ScopedName {
	return tm.keys
}

// Len returns the number of entries.
func (tm *TimelineMap[T]) Len() int {
	return len(tm.keys)
}

// IsEmpty is true for a map without entries.
func (tm *TimelineMap[T]) IsEmpty() bool {
	return len(tm.keys) == 0
}

// Clear removes all entries.
func (tm *TimelineMap[T]) Clear() {
	tm.keys = nil
	tm.values = nil
}

// nullify returns a map with a nil entry for every name of tm.
func nullify[T cssTimeline](tm *TimelineMap[T]) TimelineMap[T] {
	var r TimelineMap[T]
	var zero T
	for _, k := range tm.keys {
		r.Set(k, zero)
	}
	return r
}

// TimelineData holds the named timelines an element declares with
// scroll-timeline-* and view-timeline-*.
type TimelineData struct {
	scroll TimelineMap[*timeline.ScrollTimeline]
	view   TimelineMap[*timeline.ViewTimeline]
}

// ScrollTimelines returns the named scroll timelines.
func (td *TimelineData) ScrollTimelines() *TimelineMap[*timeline.ScrollTimeline] {
	return &td.scroll
}

// ViewTimelines returns the named view timelines.
func (td *TimelineData) ViewTimelines() *TimelineMap[*timeline.ViewTimeline] {
	return &td.view
}

// SetScrollTimeline stores or, for nil, removes a named scroll timeline.
func (td *TimelineData) SetScrollTimeline(name dom.ScopedName, tl *timeline.ScrollTimeline) {
	if tl == nil {
		td.scroll.Delete(name)
		return
	}
	td.scroll.Set(name, tl)
}

// SetViewTimeline stores or, for nil, removes a named view timeline.
func (td *TimelineData) SetViewTimeline(name dom.ScopedName, tl *timeline.ViewTimeline) {
	if tl == nil {
		td.view.Delete(name)
		return
	}
	td.view.Set(name, tl)
}

// IsEmpty is true if the element declares no timelines.
func (td *TimelineData) IsEmpty() bool {
	return td.scroll.IsEmpty() && td.view.IsEmpty()
}

// Timelines returns all timelines, scroll timelines first.
func (td *TimelineData) Timelines() []timeline.Timeline {
	var r []timeline.Timeline
	for _, k := range td.scroll.Keys() {
		if tl, _ := td.scroll.Get(k); tl != nil {
			r = append(r, tl)
		}
	}
	for _, k := range td.view.Keys() {
		if tl, _ := td.view.Get(k); tl != nil {
			r = append(r, tl)
		}
	}
	return r
}

// Clear removes all timelines.
func (td *TimelineData) Clear() {
	td.scroll.Clear()
	td.view.Clear()
}
