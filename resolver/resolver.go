/*
Package resolver drives style changes of documents with CSS animations and
transitions.

A Resolver matches the style sheets of each tree scope against its
elements (using cascadia selectors), computes base styles and hands them
to package cssanimations. Style changes are processed in composed tree
order, so that parents are styled before their children and named
timelines are known before they are referenced by later elements.

    r, err := resolver.Parse(strings.NewReader(htmlSource), cssanimations.DefaultConfig(), nil)
    r.Recalc()                      // style change
    r.Tick(16 * time.Millisecond)   // animation frame

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package resolver

import (
	"io"
	"time"

	"github.com/andybalholm/cascadia"
	"github.com/npillmayer/cssanim/cssanimations"
	"github.com/npillmayer/cssanim/dom"
	"github.com/npillmayer/cssanim/style"
	"github.com/npillmayer/cssanim/style/cssom"
	"github.com/npillmayer/cssanim/style/cssom/douceuradapter"
	"github.com/npillmayer/cssanim/timeline"
	"github.com/npillmayer/schuko/tracing"
	"golang.org/x/net/html"
)

// tracer will return a tracer. We are tracing to 'cssanim.resolver'
func tracer() tracing.Trace {
	return tracing.Select("cssanim.resolver")
}

// Resolver computes the styles of a document.
type Resolver struct {
	doc       *cssanimations.Document
	root      *dom.Element
	selectors map[string]cascadia.SelectorGroup
	synthetic map[*dom.Element]*html.Node
	viewport  bool // viewport resized since the last style change
}

// New creates a resolver for an element tree. Style sheets have to be
// added to the tree scopes of root.
func New(root *dom.Element, config cssanimations.Config, geo timeline.Geometry) *Resolver {
	return &Resolver{
		doc:       cssanimations.NewDocument(root, config, geo),
		root:      root,
		selectors: make(map[string]cascadia.SelectorGroup),
		synthetic: make(map[*dom.Element]*html.Node),
	}
}

// Parse reads an HTML document. <style> elements of the document and of
// declarative shadow roots are added to their tree scopes.
func Parse(r io.Reader, config cssanimations.Config, geo timeline.Geometry) (*Resolver, error) {
	root, err := dom.Parse(r)
	if err != nil {
		return nil, err
	}
	for _, sheet := range douceuradapter.ExtractStyleElements(root.HTMLNode()) {
		root.TreeScope().AddStyleSheet(sheet)
	}
	root.WalkComposed(func(e *dom.Element) bool {
		if sr := e.ShadowRoot(); sr != nil && sr.HTMLNode() != nil {
			for _, sheet := range douceuradapter.ExtractChildStyles(sr.HTMLNode()) {
				sr.TreeScope().AddStyleSheet(sheet)
			}
		}
		return true
	})
	return New(root, config, geo), nil
}

// Document returns the animation state of the document.
func (r *Resolver) Document() *cssanimations.Document { return r.doc }

// Root returns the root of the element tree.
func (r *Resolver) Root() *dom.Element { return r.root }

// ViewportResized records a change of the viewport size, which invalidates
// compositor snapshots with the next style change.
func (r *Resolver) ViewportResized() { r.viewport = true }

// FindKeyframesRule finds the @keyframes rule for name which applies to e.
// The tree scope of e is searched first, then the enclosing scopes. Within
// a scope, the last rule in document order wins.
func (r *Resolver) FindKeyframesRule(e *dom.Element, name string) (cssom.KeyframesRule, *dom.TreeScope) {
	for scope := e.TreeScope(); scope != nil; scope = scope.ParentTreeScope() {
		var found cssom.KeyframesRule
		for _, sheet := range scope.StyleSheets() {
			for _, rule := range sheet.KeyframesRules() {
				if rule.Name() == name {
					found = rule
				}
			}
		}
		if found != nil {
			return found, scope
		}
	}
	return nil, nil
}

var _ cssanimations.KeyframesResolver = &Resolver{}

// Recalc runs a style change for every element of the document, in
// composed tree order. Animations of elements in display:none subtrees
// are cancelled.
func (r *Resolver) Recalc() {
	viewport := r.viewport
	r.viewport = false
	hidden := make(map[*dom.Element]bool)
	r.root.WalkComposed(func(e *dom.Element) bool {
		if !e.IsElement() {
			return true
		}
		parent := e.FlatTreeParent()
		if hidden[parent] {
			hidden[e] = true
			r.doc.RemoveElement(e)
			e.SetComputedStyle(nil)
			return true
		}
		var parentStyle *style.ComputedStyle
		if parent != nil {
			parentStyle = parent.ComputedStyle()
		}
		base := r.BaseStyle(e, parentStyle)
		r.styleChange(&cssanimations.StyleChange{
			Element:         e,
			Style:           base,
			ParentStyle:     parentStyle,
			Keyframes:       r,
			ViewportResized: viewport,
		})
		if base.IsDisplayNone() {
			hidden[e] = true
		}
		return true
	})
}

// Tick advances the document timeline by d, services all timelines and
// applies the animation effects to the elements with running animations.
func (r *Resolver) Tick(d time.Duration) {
	r.doc.ServiceAnimations(d)
	r.root.WalkComposed(func(e *dom.Element) bool {
		ca := r.doc.Lookup(e)
		if ca == nil || e.ComputedStyle() == nil {
			return true
		}
		base := e.ComputedStyle().GetBaseComputedStyleOrThis()
		var parentStyle *style.ComputedStyle
		if parent := e.FlatTreeParent(); parent != nil {
			parentStyle = parent.ComputedStyle()
		}
		r.styleChange(&cssanimations.StyleChange{
			Element:                e,
			Style:                  base.Clone(),
			ParentStyle:            parentStyle,
			Keyframes:              r,
			IsAnimationStyleChange: true,
		})
		return true
	})
}

// styleChange runs the style change of an element: the animation update
// is calculated, the animated style is set and the update is applied.
func (r *Resolver) styleChange(sc *cssanimations.StyleChange) {
	ca := r.doc.ElementAnimations(sc.Element)
	ca.CalculateUpdate(sc)
	animated := ca.AnimatedStyle(sc.Style)
	sc.Element.SetComputedStyle(animated)
	ca.MaybeApplyPendingUpdate()
	if ca.IsEmpty() {
		r.doc.RemoveElement(sc.Element)
	}
}
