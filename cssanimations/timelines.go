package cssanimations

import (
	"math"

	"github.com/npillmayer/cssanim/dom"
	"github.com/npillmayer/cssanim/style"
	"github.com/npillmayer/cssanim/style/css"
	"github.com/npillmayer/cssanim/timeline"
)

// --- Named timelines declared by an element ----------------------------------

// CalculateTimelineUpdate stages the changes of the named scroll and view
// timelines an element declares.
func (ca *CSSAnimations) CalculateTimelineUpdate(u *CSSAnimationUpdate, cs *style.ComputedStyle) {
	scrollSpecs, viewSpecs := css.ScrollTimelineSpecs(cs), css.ViewTimelineSpecs(cs)
	if len(scrollSpecs) > 0 || !ca.timelineData.scroll.IsEmpty() {
		u.SetChangedScrollTimelines(ca.calculateChangedScrollTimelines(scrollSpecs))
	}
	if len(viewSpecs) > 0 || !ca.timelineData.view.IsEmpty() {
		u.SetChangedViewTimelines(ca.calculateChangedViewTimelines(viewSpecs))
	}
}

// The changed timelines start with every existing timeline marked as
// removed. Timelines which still match the declaration are dropped from
// the delta, new or modified ones replace their marker.
func (ca *CSSAnimations) calculateChangedScrollTimelines(specs []css.TimelineSpec) TimelineMap[*timeline.ScrollTimeline] {
	changed := nullify(&ca.timelineData.scroll)
	doc := ca.element.Document()
	for _, spec := range specs {
		if spec.Name == "none" || spec.Name == "" {
			continue
		}
		name := ca.scopedName(spec.Name)
		opts := timeline.ScrollOptions{
			ReferenceType: timeline.ReferenceSource,
			Reference:     ca.element,
			Axis:          spec.Axis,
		}
		if existing, ok := ca.timelineData.scroll.Get(name); ok && existing.Matches(opts) {
			changed.Delete(name)
			continue
		}
		tl := timeline.NewScrollTimeline(doc, opts, ca.doc.geometry)
		tl.ServiceAnimations()
		changed.Set(name, tl)
		tracer().Debugf("%v: scroll timeline %s = %s", ca.element, name, tl)
	}
	return changed
}

func (ca *CSSAnimations) calculateChangedViewTimelines(specs []css.TimelineSpec) TimelineMap[*timeline.ViewTimeline] {
	changed := nullify(&ca.timelineData.view)
	for _, spec := range specs {
		if spec.Name == "none" || spec.Name == "" {
			continue
		}
		name := ca.scopedName(spec.Name)
		opts := timeline.ViewOptions{Subject: ca.element, Axis: spec.Axis, Inset: spec.Inset}
		if existing, ok := ca.timelineData.view.Get(name); ok && existing.ViewMatches(opts) {
			changed.Delete(name)
			continue
		}
		tl := timeline.NewViewTimeline(opts, ca.doc.geometry)
		tl.ServiceAnimations()
		changed.Set(name, tl)
		tracer().Debugf("%v: view timeline %s = %s", ca.element, name, tl)
	}
	return changed
}

// scopedName qualifies a name declared by the element with its tree scope.
func (ca *CSSAnimations) scopedName(name string) dom.ScopedName {
	return dom.ScopedName{Name: name, Scope: ca.element.TreeScope()}
}

// --- Timeline lookup ---------------------------------------------------------

// FindTimelineForElement finds the timeline named target among existing
// and changed timelines. Existing timelines affected by the changes are
// skipped, as are removed ones. With tree-scoped names, the timeline
// declared nearest to the scope of target wins; otherwise the last match
// in declaration order wins, with changed timelines after existing ones.
func FindTimelineForElement[T cssTimeline](target dom.ScopedName, existing, changed *TimelineMap[T],
	treeScoped bool) T {
	var match T
	var zero T
	distance := math.MaxInt
	consider := func(name dom.ScopedName, candidate T) {
		if name.Name != target.Name {
			return
		}
		if !treeScoped {
			match = candidate
			return
		}
		if d := dom.TreeScopeDistance(name.Scope, target.Scope); d < distance {
			match, distance = candidate, d
		}
	}
	if existing != nil {
		for _, name := range existing.Keys() {
			if changed != nil && changed.Contains(name) {
				continue
			}
			tl, _ := existing.Get(name)
			consider(name, tl)
		}
	}
	if changed != nil {
		for _, name := range changed.Keys() {
			tl, _ := changed.Get(name)
			if tl == zero {
				continue
			}
			consider(name, tl)
		}
	}
	return match
}

// findTimelineForNode looks for a named timeline declared by e, where view
// timelines take precedence over scroll timelines. u is the pending update
// of e, if any.
func (doc *Document) findTimelineForNode(name dom.ScopedName, e *dom.Element, u *CSSAnimationUpdate) timeline.Timeline {
	if !e.IsElement() {
		return nil
	}
	var existingScroll *TimelineMap[*timeline.ScrollTimeline]
	var existingView *TimelineMap[*timeline.ViewTimeline]
	if ca := doc.Lookup(e); ca != nil {
		existingScroll, existingView = &ca.timelineData.scroll, &ca.timelineData.view
	}
	var changedScroll *TimelineMap[*timeline.ScrollTimeline]
	var changedView *TimelineMap[*timeline.ViewTimeline]
	if u != nil {
		changedScroll, changedView = &u.changedScrollTimeline, &u.changedViewTimeline
	}
	scoped := doc.config.TreeScopedTimelines
	if vt := FindTimelineForElement(name, existingView, changedView, scoped); vt != nil {
		return vt
	}
	if st := FindTimelineForElement(name, existingScroll, changedScroll, scoped); st != nil {
		return st
	}
	return nil
}

// pendingUpdate returns the pending update of an element, or nil.
func (doc *Document) pendingUpdate(e *dom.Element) *CSSAnimationUpdate {
	if ca := doc.Lookup(e); ca != nil {
		return &ca.pendingUpdate
	}
	return nil
}

// FindPreviousSiblingAncestorTimeline searches a named timeline declared
// by e, by its previous siblings in the flat tree, or by one of its
// ancestors and their previous siblings. u is the pending update of e.
func (doc *Document) FindPreviousSiblingAncestorTimeline(name dom.ScopedName, e *dom.Element,
	u *CSSAnimationUpdate) timeline.Timeline {
	for e != nil {
		if tl := doc.findTimelineForNode(name, e, u); tl != nil {
			return tl
		}
		for prev := e.FlatTreePreviousSibling(); prev != nil; prev = prev.FlatTreePreviousSibling() {
			if tl := doc.findTimelineForNode(name, prev, doc.pendingUpdate(prev)); tl != nil {
				return tl
			}
		}
		if doc.config.TreeScopedTimelines {
			e = e.ParentOrShadowHostElement()
		} else {
			e = e.FlatTreeParent()
		}
		u = doc.pendingUpdate(e)
	}
	return nil
}

// ComputeTimeline resolves an animation-timeline value for an element.
// auto is the document timeline and none is nil. Anonymous scroll() and
// view() timelines reuse the existing timeline if it matches.
func (ca *CSSAnimations) ComputeTimeline(st css.StyleTimeline, u *CSSAnimationUpdate,
	existing timeline.Timeline) timeline.Timeline {
	switch st.Kind {
	case css.TimelineAuto:
		return ca.doc.timeline
	case css.TimelineNone:
		return nil
	case css.TimelineName:
		tl := ca.doc.FindPreviousSiblingAncestorTimeline(ca.scopedName(st.Name), ca.element, u)
		if tl == nil {
			tracer().Infof("%v: no timeline named %q", ca.element, st.Name)
		}
		return tl
	case css.TimelineView:
		opts := timeline.ViewOptions{Subject: ca.element, Axis: st.Axis, Inset: st.Inset}
		if vt, ok := existing.(*timeline.ViewTimeline); ok && vt.ViewMatches(opts) {
			return vt
		}
		vt := timeline.NewViewTimeline(opts, ca.doc.geometry)
		vt.ServiceAnimations()
		return vt
	}
	opts := timeline.ScrollOptions{Axis: st.Axis}
	switch st.Scroller {
	case css.ScrollerNearest:
		opts.ReferenceType, opts.Reference = timeline.ReferenceNearestAncestor, ca.element
	case css.ScrollerRoot:
		opts.ReferenceType = timeline.ReferenceSource
	case css.ScrollerSelf:
		opts.ReferenceType, opts.Reference = timeline.ReferenceSource, ca.element
	}
	if sc, ok := existing.(*timeline.ScrollTimeline); ok && sc.Matches(opts) {
		return sc
	}
	sc := timeline.NewScrollTimeline(ca.element.Document(), opts, ca.doc.geometry)
	sc.ServiceAnimations()
	return sc
}
