package dom

import (
	"fmt"
	"sort"
	"strings"

	"github.com/npillmayer/cssanim/style"
	"github.com/npillmayer/cssanim/tree"
	"golang.org/x/net/html"
)

// NodeKind tells documents, elements and shadow roots apart.
type NodeKind uint8

// Kinds of nodes.
const (
	ElementNode NodeKind = iota
	DocumentNode
	ShadowRootNode
)

// Element is a node of the element tree.
type Element struct {
	tree.Node[*Element] // we build on top of general purpose tree
	kind                NodeKind
	tag                 string
	attrs               map[string]string
	htmlNode            *html.Node
	scope               *TreeScope
	shadowRoot          *Element // shadow root, if this element is a shadow host
	host                *Element // for shadow roots: the shadow host
	computed            *style.ComputedStyle
}

func newElement(kind NodeKind, tag string) *Element {
	e := &Element{kind: kind, tag: strings.ToLower(tag)}
	e.Payload = e // Payload will always reference the element itself
	return e
}

// NewDocument creates an empty document, which is the root of the
// document tree scope.
func NewDocument() *Element {
	doc := newElement(DocumentNode, "#document")
	doc.scope = &TreeScope{root: doc}
	return doc
}

// NewElement creates a detached element with a tag name.
func NewElement(tag string) *Element {
	return newElement(ElementNode, tag)
}

// Node gets the element from a generic tree node.
func Node(n *tree.Node[*Element]) *Element {
	if n == nil {
		return nil
	}
	return n.Payload
}

func (e *Element) String() string {
	switch e.kind {
	case DocumentNode:
		return "#document"
	case ShadowRootNode:
		return "#shadow-root"
	}
	if id := e.ID(); id != "" {
		return fmt.Sprintf("<%s#%s>", e.tag, id)
	}
	return fmt.Sprintf("<%s>", e.tag)
}

// Kind returns the node kind.
func (e *Element) Kind() NodeKind {
	return e.kind
}

// IsElement is true for element nodes, i.e., neither documents nor shadow roots.
func (e *Element) IsElement() bool {
	return e != nil && e.kind == ElementNode
}

// Tag returns the lower-case tag name of an element.
func (e *Element) Tag() string {
	return e.tag
}

// Attr returns the value of an attribute.
func (e *Element) Attr(key string) (string, bool) {
	v, ok := e.attrs[key]
	return v, ok
}

// SetAttr sets an attribute.
func (e *Element) SetAttr(key, value string) {
	if e.attrs == nil {
		e.attrs = make(map[string]string)
	}
	key = strings.ToLower(key)
	e.attrs[key] = value
	if e.htmlNode == nil || e.kind != ElementNode {
		return
	}
	for i, a := range e.htmlNode.Attr {
		if strings.EqualFold(a.Key, key) {
			e.htmlNode.Attr[i].Val = value
			return
		}
	}
	e.htmlNode.Attr = append(e.htmlNode.Attr, html.Attribute{Key: key, Val: value})
}

// AttrKeys returns the attribute keys of an element, sorted.
func (e *Element) AttrKeys() []string {
	keys := make([]string, 0, len(e.attrs))
	for k := range e.attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// ID returns the id attribute of an element.
func (e *Element) ID() string {
	return e.attrs["id"]
}

// HTMLNode returns the HTML parse node an element has been created from, if any.
func (e *Element) HTMLNode() *html.Node {
	return e.htmlNode
}

// TreeScope returns the tree scope an element belongs to. Detached
// elements have no tree scope.
func (e *Element) TreeScope() *TreeScope {
	return e.scope
}

// ComputedStyle returns the style of an element, as last set by a style resolver.
func (e *Element) ComputedStyle() *style.ComputedStyle {
	return e.computed
}

// SetComputedStyle sets the computed style of an element.
func (e *Element) SetComputedStyle(cs *style.ComputedStyle) {
	e.computed = cs
}

// AppendChild appends a child element. The child and its subtree join the
// tree scope of e.
func (e *Element) AppendChild(ch *Element) *Element {
	if ch.kind != ElementNode {
		tracer().Errorf("cannot append %s as a child", ch)
		return e
	}
	e.AddChild(&ch.Node)
	ch.setScope(e.scope)
	return e
}

// Remove detaches an element from its parent.
func (e *Element) Remove() {
	e.Isolate()
	e.setScope(nil)
}

func (e *Element) setScope(scope *TreeScope) {
	e.Walk(func(n *tree.Node[*Element]) bool {
		n.Payload.scope = scope
		return true
	})
	// shadow trees keep their own scopes, but re-parent them
	e.Walk(func(n *tree.Node[*Element]) bool {
		if sr := n.Payload.shadowRoot; sr != nil {
			sr.scope.parent = scope
		}
		return true
	})
}

// Parent returns the light-tree parent node (which may be a document or a shadow root).
func (e *Element) Parent() *Element {
	return Node(e.Node.Parent())
}

// ParentElement returns the parent if it is an element, nil otherwise.
func (e *Element) ParentElement() *Element {
	if p := e.Parent(); p.IsElement() {
		return p
	}
	return nil
}

// ParentOrShadowHostElement returns the parent element, or the shadow
// host for top-level elements of a shadow tree.
func (e *Element) ParentOrShadowHostElement() *Element {
	p := e.Parent()
	if p == nil {
		return nil
	}
	if p.kind == ShadowRootNode {
		return p.host
	}
	if p.kind == DocumentNode {
		return nil
	}
	return p
}

// PreviousElementSibling returns the previous light-tree sibling.
func (e *Element) PreviousElementSibling() *Element {
	return Node(e.Node.PreviousSibling())
}

// ChildElements returns the light-tree children of e.
func (e *Element) ChildElements() []*Element {
	chs := e.Children()
	r := make([]*Element, len(chs))
	for i, ch := range chs {
		r[i] = ch.Payload
	}
	return r
}

// AttachShadow creates a shadow root for a host element. The shadow root
// establishes a new tree scope, nested into the tree scope of the host.
func (e *Element) AttachShadow() (*Element, error) {
	if e.kind != ElementNode {
		return nil, fmt.Errorf("cannot attach shadow root to %s", e)
	}
	if e.shadowRoot != nil {
		return nil, fmt.Errorf("%s already hosts a shadow root", e)
	}
	sr := newElement(ShadowRootNode, "#shadow-root")
	sr.host = e
	sr.scope = &TreeScope{root: sr, parent: e.scope}
	e.shadowRoot = sr
	return sr, nil
}

// ShadowRoot returns the shadow root of a shadow host, or nil.
func (e *Element) ShadowRoot() *Element {
	return e.shadowRoot
}

// Host returns the host of a shadow root, or nil.
func (e *Element) Host() *Element {
	return e.host
}

// WalkComposed visits e and its descendents in tree order. The shadow tree
// of a host is visited before its light children. Walking stops early if
// visit returns false.
func (e *Element) WalkComposed(visit func(*Element) bool) bool {
	if !visit(e) {
		return false
	}
	if e.shadowRoot != nil {
		for _, ch := range e.shadowRoot.ChildElements() {
			if !ch.WalkComposed(visit) {
				return false
			}
		}
	}
	for _, ch := range e.ChildElements() {
		if !ch.WalkComposed(visit) {
			return false
		}
	}
	return true
}

// Document returns the document an element is attached to, or nil.
func (e *Element) Document() *Element {
	scope := e.scope
	for scope != nil && scope.parent != nil {
		scope = scope.parent
	}
	if scope == nil || scope.root.kind != DocumentNode {
		return nil
	}
	return scope.root
}
