package dom

import (
	"math"
	"strings"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

var page = `<html><body>
<div id="outer">
  <div id="host">
    <template shadowrootmode="open">
      <p id="inner"></p>
      <slot></slot>
    </template>
    <span id="light"></span>
  </div>
  <div id="sibling"></div>
</div>
</body></html>`

func parsePage(t *testing.T) *Element {
	doc, err := Parse(strings.NewReader(page))
	if err != nil {
		t.Fatal(err)
	}
	return doc
}

func TestParseWithShadowRoot(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cssanim.dom")
	defer teardown()
	//
	doc := parsePage(t)
	host := doc.FindByID("host")
	if host == nil || host.ShadowRoot() == nil {
		t.Fatalf("expected host element with a shadow root")
	}
	inner := doc.FindByID("inner")
	if inner == nil {
		t.Fatalf("expected to find element in shadow tree")
	}
	if inner.ParentOrShadowHostElement() != host {
		t.Errorf("expected shadow host to be %v, is %v", host, inner.ParentOrShadowHostElement())
	}
	if inner.ParentElement() != nil {
		t.Errorf("top-level element of shadow tree should not have a parent element")
	}
	if inner.TreeScope().ParentTreeScope() != doc.TreeScope() {
		t.Errorf("shadow tree scope should be nested in document scope")
	}
	if inner.Document() != doc {
		t.Errorf("expected element in shadow tree to know its document")
	}
}

func TestTreeScopeDistance(t *testing.T) {
	doc := parsePage(t)
	inner := doc.FindByID("inner")
	outer := doc.FindByID("outer")
	if d := TreeScopeDistance(outer.TreeScope(), outer.TreeScope()); d != 0 {
		t.Errorf("expected distance 0 within a scope, have %d", d)
	}
	if d := TreeScopeDistance(outer.TreeScope(), inner.TreeScope()); d != 1 {
		t.Errorf("expected distance 1 to enclosing scope, have %d", d)
	}
	if d := TreeScopeDistance(inner.TreeScope(), outer.TreeScope()); d != math.MaxInt {
		t.Errorf("nested scope should be unreachable from enclosing scope, distance is %d", d)
	}
}

func TestFlatTree(t *testing.T) {
	doc := parsePage(t)
	light := doc.FindByID("light")
	slot := light.AssignedSlot()
	if slot == nil {
		t.Fatalf("expected light child to be assigned to a slot")
	}
	if slot.Tag() != "slot" {
		t.Errorf("expected <slot>, have <%s>", slot.Tag())
	}
	if light.FlatTreeParent() != slot {
		t.Errorf("flat tree parent of slotted element should be its slot")
	}
	if slot.FlatTreePreviousSibling() != doc.FindByID("inner") {
		t.Errorf("flat tree previous sibling of slot should be #inner")
	}
	if doc.FindByID("sibling").FlatTreePreviousSibling() != doc.FindByID("host") {
		t.Errorf("flat tree previous sibling of #sibling should be #host")
	}
	if doc.FindByID("inner").FlatTreeParent() != doc.FindByID("host") {
		t.Errorf("flat tree parent of shadow tree content should be the host")
	}
}

func TestScopedNames(t *testing.T) {
	doc := parsePage(t)
	a := ScopedName{"tl", doc.TreeScope()}
	b := ScopedName{"tl", doc.FindByID("inner").TreeScope()}
	if a.Matches(b) {
		t.Errorf("names of different tree scopes should not match")
	}
	if !a.Matches(ScopedName{Name: "tl"}) {
		t.Errorf("name without scope should match any scope")
	}
}
