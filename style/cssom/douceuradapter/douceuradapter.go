/*
Package douceuradapter is a concrete implementation of interface cssom.StyleSheet,
based on the douceur CSS parser. Besides style rules it exposes @keyframes
rules, which douceur parses as at-rules with embedded rules.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>
*/
package douceuradapter

import (
	"fmt"
	"strings"

	"github.com/aymerick/douceur/css"
	"github.com/aymerick/douceur/parser"
	"github.com/npillmayer/cssanim/style"
	"github.com/npillmayer/cssanim/style/cssom"
	cssv "github.com/npillmayer/cssanim/style/css"
	"github.com/npillmayer/schuko/tracing"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// tracer traces with key 'cssanim.cssom'.
func tracer() tracing.Trace {
	return tracing.Select("cssanim.cssom")
}

// CSSStyles is an adapter for interface cssom.StyleSheet.
// For an explanation of the motivation behind this design, please refer
// to documentation for interface cssom.StyleSheet.
type CSSStyles struct {
	css       css.Stylesheet
	keyframes []*KeyframesRule // created on demand, identity is stable
	converted int              // number of at-rules already checked for keyframes
}

// Wrap a douceur.css.Stylesheet into CssStyles.
// The stylesheet is now managed by the wrapper.
func Wrap(css *css.Stylesheet) *CSSStyles {
	sheet := &CSSStyles{css: *css}
	return sheet
}

// Parse parses a CSS source text into a stylesheet.
func Parse(source string) (*CSSStyles, error) {
	c, err := parser.Parse(source)
	if err != nil {
		return nil, fmt.Errorf("douceur: %w", err)
	}
	return Wrap(c), nil
}

// Empty checks if this stylesheet contains any rules.
//
// Interface cssom.StyleSheet
func (sheet *CSSStyles) Empty() bool {
	return len(sheet.css.Rules) == 0
}

// AppendRules appends rules from another stylesheet.
//
// Interface cssom.StyleSheet
func (sheet *CSSStyles) AppendRules(other cssom.StyleSheet) {
	othercss, ok := other.(*CSSStyles)
	if !ok {
		tracer().Errorf("cannot append rules from stylesheet of type %T", other)
		return
	}
	sheet.css.Rules = append(sheet.css.Rules, othercss.css.Rules...)
}

// Rules returns all the style rules of a stylesheet.
//
// Interface cssom.StyleSheet
func (sheet *CSSStyles) Rules() []cssom.Rule {
	rules := make([]cssom.Rule, 0, len(sheet.css.Rules))
	for _, r := range sheet.css.Rules {
		if r.Kind == css.QualifiedRule {
			rules = append(rules, Rule(*r))
		}
	}
	return rules
}

// KeyframesRules returns all the @keyframes rules of a stylesheet, in
// source order. Repeated calls return identical rule objects.
//
// Interface cssom.StyleSheet
func (sheet *CSSStyles) KeyframesRules() []cssom.KeyframesRule {
	for ; sheet.converted < len(sheet.css.Rules); sheet.converted++ {
		r := sheet.css.Rules[sheet.converted]
		if r.Kind != css.AtRule || !isKeyframesAtRule(r.Name) {
			continue
		}
		kfr, err := convertKeyframes(r)
		if err != nil {
			tracer().Infof("dropping @keyframes %s: %v", r.Prelude, err)
			continue
		}
		sheet.keyframes = append(sheet.keyframes, kfr)
	}
	rules := make([]cssom.KeyframesRule, len(sheet.keyframes))
	for i, kfr := range sheet.keyframes {
		rules[i] = kfr
	}
	return rules
}

var _ cssom.StyleSheet = &CSSStyles{}

func isKeyframesAtRule(name string) bool {
	name = strings.ToLower(name)
	return name == "@keyframes" || name == "@-webkit-keyframes"
}

// --- Style rules -----------------------------------------------------------

// Rule is an adapter for interface cssom.Rule.
type Rule css.Rule

// Selector returns the prelude / selectors of the rule.
func (r Rule) Selector() string {
	return r.Prelude
}

// Properties returns the property keys of a rule,
// e.g. "margin-top"
func (r Rule) Properties() []string {
	decl := r.Declarations
	props := make([]string, 0, len(decl))
	for _, d := range decl {
		props = append(props, d.Property)
	}
	return props
}

// Value returns the property values for given key with this rule, e.g. "15px"
func (r Rule) Value(key string) style.Property {
	return lastValue(r.Declarations, key)
}

// IsImportant returns true if a style key is marked as important ("!").
func (r Rule) IsImportant(key string) bool {
	decl := r.Declarations
	for i := len(decl) - 1; i >= 0; i-- {
		if decl[i].Property == key {
			return decl[i].Important
		}
	}
	return false
}

var _ cssom.Rule = &Rule{}

func lastValue(decl []*css.Declaration, key string) style.Property {
	for i := len(decl) - 1; i >= 0; i-- {
		if decl[i].Property == key {
			return style.Property(decl[i].Value)
		}
	}
	return ""
}

// ParseDeclarations parses a declaration list without braces, as found in
// style attributes. The last declaration need not be terminated by a
// semicolon. Declarations without a value are dropped.
func ParseDeclarations(text string) ([]*css.Declaration, error) {
	text = strings.TrimSpace(text)
	if text != "" && !strings.HasSuffix(text, ";") {
		text += ";" // douceur drops the value of an unterminated declaration
	}
	decls, err := parser.ParseDeclarations(text)
	if err != nil {
		return nil, fmt.Errorf("douceur: %w", err)
	}
	r := decls[:0]
	for _, d := range decls {
		if strings.TrimSpace(d.Value) == "" {
			tracer().Debugf("dropping declaration of %q without value", d.Property)
			continue
		}
		r = append(r, d)
	}
	return r, nil
}

// --- @keyframes ------------------------------------------------------------

// KeyframesRule is an adapter for interface cssom.KeyframesRule.
// It supports CSSOM-style mutation, which increments its version.
type KeyframesRule struct {
	name    string
	frames  []*Keyframe
	version int
}

func convertKeyframes(r *css.Rule) (*KeyframesRule, error) {
	name := strings.Trim(strings.TrimSpace(r.Prelude), `"'`)
	if name == "" || strings.ContainsAny(name, " \t") {
		return nil, fmt.Errorf("invalid keyframes name %q", r.Prelude)
	}
	kfr := &KeyframesRule{name: name}
	for _, block := range r.Rules {
		kf, err := newKeyframe(block.Prelude, block.Declarations)
		if err != nil {
			tracer().Infof("@keyframes %s: dropping keyframe: %v", name, err)
			continue
		}
		kfr.frames = append(kfr.frames, kf)
	}
	return kfr, nil
}

// Name returns the name of the @keyframes rule.
func (kfr *KeyframesRule) Name() string {
	return kfr.name
}

// Keyframes returns the keyframe blocks in source order.
func (kfr *KeyframesRule) Keyframes() []cssom.Keyframe {
	kfs := make([]cssom.Keyframe, len(kfr.frames))
	for i, kf := range kfr.frames {
		kfs[i] = kf
	}
	return kfs
}

// Version is incremented on every mutation of the rule.
func (kfr *KeyframesRule) Version() int {
	return kfr.version
}

// AppendKeyframe appends a keyframe block, given as CSS source text
// without the braces, e.g. AppendKeyframe("50%", "left: 20px").
func (kfr *KeyframesRule) AppendKeyframe(selector, declarations string) error {
	decls, err := ParseDeclarations(declarations)
	if err != nil {
		return err
	}
	kf, err := newKeyframe(selector, decls)
	if err != nil {
		return err
	}
	kfr.frames = append(kfr.frames, kf)
	kfr.version++
	return nil
}

// DeleteKeyframe removes the last keyframe block with a given selector.
func (kfr *KeyframesRule) DeleteKeyframe(selector string) bool {
	for i := len(kfr.frames) - 1; i >= 0; i-- {
		if kfr.frames[i].selector == strings.TrimSpace(selector) {
			kfr.frames = append(kfr.frames[:i], kfr.frames[i+1:]...)
			kfr.version++
			return true
		}
	}
	return false
}

var _ cssom.KeyframesRule = &KeyframesRule{}

// Keyframe is an adapter for interface cssom.Keyframe.
type Keyframe struct {
	selector string
	keys     []cssv.TimelineOffset
	decls    []*css.Declaration
}

func newKeyframe(selector string, decls []*css.Declaration) (*Keyframe, error) {
	keys, err := cssom.ParseKeyframeKeys(selector)
	if err != nil {
		return nil, err
	}
	return &Keyframe{selector: strings.TrimSpace(selector), keys: keys, decls: decls}, nil
}

// Keys returns the offsets of a keyframe block.
func (kf *Keyframe) Keys() []cssv.TimelineOffset {
	return kf.keys
}

// Properties returns the distinct property keys of a keyframe block.
// Within a block, the last declaration of a property wins.
func (kf *Keyframe) Properties() []string {
	seen := make(map[string]bool, len(kf.decls))
	props := make([]string, 0, len(kf.decls))
	for _, d := range kf.decls {
		key := strings.ToLower(d.Property)
		if strings.HasPrefix(d.Property, "--") {
			key = d.Property
		}
		if !seen[key] {
			seen[key] = true
			props = append(props, key)
		}
	}
	return props
}

// Value returns the value of a property in a keyframe block.
func (kf *Keyframe) Value(key string) style.Property {
	for i := len(kf.decls) - 1; i >= 0; i-- {
		if strings.EqualFold(kf.decls[i].Property, key) {
			return style.Property(kf.decls[i].Value)
		}
	}
	return ""
}

var _ cssom.Keyframe = &Keyframe{}

// --- <style> elements ------------------------------------------------------

// ExtractStyleElements visits <head> and <body> elements in an HTML parse
// tree and searches for embedded <style>s. It returns the content of
// style-elements as style sheets.
func ExtractStyleElements(htmldoc *html.Node) []*CSSStyles {
	head := findElement(atom.Head, htmldoc)
	body := findElement(atom.Body, htmldoc)
	css := ExtractChildStyles(head)
	css = append(css, ExtractChildStyles(body)...)
	return css
}

// ExtractChildStyles parses the <style> children of an HTML node, e.g. of
// a <template shadowrootmode> element.
func ExtractChildStyles(h *html.Node) []*CSSStyles {
	if h == nil {
		return nil
	}
	var css []*CSSStyles
	for ch := h.FirstChild; ch != nil; ch = ch.NextSibling {
		if ch.DataAtom == atom.Style && ch.FirstChild != nil {
			c, err := parser.Parse(ch.FirstChild.Data)
			if err != nil {
				tracer().Errorf("cannot parse <style>: %v", err)
				continue
			}
			css = append(css, Wrap(c))
		}
	}
	return css
}

func findElement(a atom.Atom, h *html.Node) *html.Node {
	if h == nil {
		return nil
	}
	if h.DataAtom == a {
		return h
	}
	ch := h.FirstChild
	for ch != nil {
		r := findElement(a, ch)
		if r != nil && r.DataAtom == a {
			return r
		}
		ch = ch.NextSibling
	}
	return nil
}
