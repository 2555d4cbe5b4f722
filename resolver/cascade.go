package resolver

import (
	"sort"
	"strings"

	"github.com/andybalholm/cascadia"
	"github.com/npillmayer/cssanim/dom"
	"github.com/npillmayer/cssanim/style"
	"github.com/npillmayer/cssanim/style/css"
	"github.com/npillmayer/cssanim/style/cssom"
	"github.com/npillmayer/cssanim/style/cssom/douceuradapter"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// declaration is a declared value together with its position in the
// cascade.
type declaration struct {
	key         string
	value       style.Property
	important   bool
	specificity cascadia.Specificity
	order       int // source order of the rule
}

// matchedDeclarations collects the declarations of the style rules of e's
// tree scope which match e, followed by the declarations of its style
// attribute. The result is in cascade order, i.e. later entries win.
func (r *Resolver) matchedDeclarations(e *dom.Element) []declaration {
	var decls []declaration
	order := 0
	if scope := e.TreeScope(); scope != nil {
		for _, sheet := range scope.StyleSheets() {
			for _, rule := range sheet.Rules() {
				order++
				spec, ok := r.match(rule.Selector(), e)
				if !ok {
					continue
				}
				decls = appendRule(decls, rule, spec, order)
			}
		}
	}
	if inline, ok := e.Attr("style"); ok {
		parsed, err := douceuradapter.ParseDeclarations(inline)
		if err != nil {
			tracer().Infof("%v: style attribute: %v", e, err)
		}
		inlineSpec := cascadia.Specificity{1 << 16, 0, 0} // above any selector
		for _, d := range parsed {
			order++
			decls = append(decls, declaration{
				key:         strings.ToLower(d.Property),
				value:       style.Property(d.Value),
				important:   d.Important,
				specificity: inlineSpec,
				order:       order,
			})
		}
	}
	sort.SliceStable(decls, func(i, j int) bool {
		a, b := decls[i], decls[j]
		if a.important != b.important {
			return b.important
		}
		if a.specificity != b.specificity {
			return a.specificity.Less(b.specificity)
		}
		return a.order < b.order
	})
	return decls
}

func appendRule(decls []declaration, rule cssom.Rule, spec cascadia.Specificity, order int) []declaration {
	for _, key := range rule.Properties() {
		value := rule.Value(key)
		if value.IsEmpty() {
			continue
		}
		decls = append(decls, declaration{
			key:         strings.ToLower(key),
			value:       value,
			important:   rule.IsImportant(key),
			specificity: spec,
			order:       order,
		})
	}
	return decls
}

// match matches a selector list against an element. It returns the
// highest specificity of the matching selectors.
func (r *Resolver) match(selector string, e *dom.Element) (cascadia.Specificity, bool) {
	group, ok := r.selectors[selector]
	if !ok {
		var err error
		group, err = cascadia.ParseGroup(selector)
		if err != nil {
			tracer().Infof("ignoring selector %q: %v", selector, err)
		}
		r.selectors[selector] = group
	}
	n := r.htmlNode(e)
	var best cascadia.Specificity
	matched := false
	for _, sel := range group {
		if sel.PseudoElement() != "" || !sel.Match(n) {
			continue
		}
		if spec := sel.Specificity(); !matched || best.Less(spec) {
			best = spec
		}
		matched = true
	}
	return best, matched
}

// htmlNode returns the HTML node of an element for selector matching.
// Elements not imported from HTML get a synthetic node, mirroring their
// ancestors, tag name and attributes.
func (r *Resolver) htmlNode(e *dom.Element) *html.Node {
	if n := e.HTMLNode(); n != nil && e.Kind() == dom.ElementNode {
		return n
	}
	n, ok := r.synthetic[e]
	if !ok {
		n = &html.Node{
			Type:     html.ElementNode,
			Data:     e.Tag(),
			DataAtom: atom.Lookup([]byte(e.Tag())),
		}
		if e.Kind() != dom.ElementNode {
			n.Type = html.DocumentNode
		}
		r.synthetic[e] = n
		if p := e.Parent(); p != nil {
			r.htmlNode(p).AppendChild(n)
		}
	}
	n.Attr = n.Attr[:0]
	for _, key := range e.AttrKeys() {
		v, _ := e.Attr(key)
		n.Attr = append(n.Attr, html.Attribute{Key: key, Val: v})
	}
	return n
}

// BaseStyle computes the style of e without animation effects, from the
// matching style rules and the style attribute of e. parent is the style
// inherited from.
func (r *Resolver) BaseStyle(e *dom.Element, parent *style.ComputedStyle) *style.ComputedStyle {
	cs := style.NewComputedStyle(parent)
	for _, d := range r.matchedDeclarations(e) {
		for _, kv := range css.ExpandDeclaration(d.key, d.value) {
			cs.Set(kv.Key, kv.Value)
		}
	}
	return cs
}
