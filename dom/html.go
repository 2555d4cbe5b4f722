package dom

import (
	"errors"
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ErrNoDocument is returned if an HTML parse tree has no document node.
var ErrNoDocument = errors.New("HTML parse tree has no document node")

// Parse parses an HTML document and builds an element tree from it.
func Parse(r io.Reader) (*Element, error) {
	h, err := html.Parse(r)
	if err != nil {
		return nil, err
	}
	return FromHTML(h)
}

// FromHTML builds an element tree from an HTML parse tree. Only element
// nodes are imported. A <template shadowrootmode="…"> child (declarative
// shadow DOM) creates a shadow root for its parent element; the template's
// HTML node is kept as the shadow root's HTML node, to allow for the
// extraction of scoped <style>s.
func FromHTML(h *html.Node) (*Element, error) {
	if h == nil || h.Type != html.DocumentNode {
		return nil, ErrNoDocument
	}
	doc := NewDocument()
	doc.htmlNode = h
	for c := h.FirstChild; c != nil; c = c.NextSibling {
		if err := importNode(doc, c); err != nil {
			return nil, err
		}
	}
	return doc, nil
}

func importNode(parent *Element, h *html.Node) error {
	if h.Type != html.ElementNode {
		return nil
	}
	if h.DataAtom == atom.Template && parent.kind == ElementNode {
		if mode := attr(h, "shadowrootmode"); mode != "" {
			sr, err := parent.AttachShadow()
			if err != nil {
				return err
			}
			sr.htmlNode = h
			for c := h.FirstChild; c != nil; c = c.NextSibling {
				if err := importNode(sr, c); err != nil {
					return err
				}
			}
			return nil
		}
	}
	e := NewElement(h.Data)
	e.htmlNode = h
	for _, a := range h.Attr {
		e.SetAttr(a.Key, a.Val)
	}
	parent.AppendChild(e)
	for c := h.FirstChild; c != nil; c = c.NextSibling {
		if err := importNode(e, c); err != nil {
			return err
		}
	}
	return nil
}

func attr(h *html.Node, key string) string {
	for _, a := range h.Attr {
		if strings.EqualFold(a.Key, key) {
			return a.Val
		}
	}
	return ""
}

// FindByID returns the first element in composed tree order with a given id.
func (e *Element) FindByID(id string) *Element {
	var found *Element
	e.WalkComposed(func(n *Element) bool {
		if n.ID() == id {
			found = n
			return false
		}
		return true
	})
	return found
}
