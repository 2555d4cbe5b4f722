package resolver

import (
	"strings"
	"testing"
	"time"

	"github.com/npillmayer/cssanim/animation"
	"github.com/npillmayer/cssanim/cssanimations"
	"github.com/npillmayer/cssanim/dom"
	"github.com/npillmayer/cssanim/style"
	"github.com/npillmayer/cssanim/style/cssom/douceuradapter"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const page = `<!DOCTYPE html>
<html><head><style>
@keyframes fade { from { opacity: 1 } to { opacity: 0 } }
#box { animation: fade 1s linear; }
#p { left: 0px; transition: left 1s linear; }
#p.moved { left: 100px; }
</style></head>
<body><div id="box"></div><p id="p"></p></body></html>`

func parse(t *testing.T, source string) *Resolver {
	r, err := Parse(strings.NewReader(source), cssanimations.DefaultConfig(), nil)
	require.NoError(t, err)
	return r
}

func TestAnimationFromStylesheet(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cssanim.resolver")
	defer teardown()
	//
	r := parse(t, page)
	r.Document().AddListener(animation.AnimationEnd)
	r.Recalc()
	box := r.Root().FindByID("box")
	require.NotNil(t, box)
	assert.Equal(t, style.Property("1"), box.ComputedStyle().Get("opacity"))
	require.NotNil(t, r.Document().Lookup(box))
	//
	r.Tick(500 * time.Millisecond)
	assert.Equal(t, style.Property("0.5"), box.ComputedStyle().Get("opacity"))
	r.Tick(600 * time.Millisecond)
	assert.Equal(t, style.Property("1"), box.ComputedStyle().Get("opacity"))
	evs := r.Document().TakeEvents()
	require.Len(t, evs, 1)
	assert.Equal(t, animation.AnimationEnd, evs[0].Type)
	assert.Equal(t, "fade", evs[0].AnimationName)
	//
	// an unchanged document keeps the finished animation
	r.Recalc()
	ca := r.Document().Lookup(box)
	require.NotNil(t, ca)
	assert.Len(t, ca.RunningAnimations(), 1)
}

func TestTransitionOnClassChange(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cssanim.resolver")
	defer teardown()
	//
	r := parse(t, page)
	r.Recalc()
	p := r.Root().FindByID("p")
	require.NotNil(t, p)
	assert.Equal(t, style.Property("0px"), p.ComputedStyle().Get("left"))
	assert.Nil(t, r.Document().Lookup(p), "no animation state without animations")
	//
	p.SetAttr("class", "moved")
	r.Recalc()
	ca := r.Document().Lookup(p)
	require.NotNil(t, ca)
	assert.Contains(t, ca.Transitions(), style.Handle("left"))
	assert.Equal(t, style.Property("0px"), p.ComputedStyle().Get("left"))
	r.Tick(250 * time.Millisecond)
	assert.Equal(t, style.Property("25px"), p.ComputedStyle().Get("left"))
	assert.Equal(t, style.Property("100px"), p.ComputedStyle().GetBaseComputedStyleOrThis().Get("left"))
}

func TestDisplayNoneSubtreeCancels(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cssanim.resolver")
	defer teardown()
	//
	r := parse(t, page)
	r.Recalc()
	box := r.Root().FindByID("box")
	require.NotNil(t, r.Document().Lookup(box))
	box.Parent().SetAttr("style", "display: none")
	r.Recalc()
	assert.Nil(t, r.Document().Lookup(box))
	assert.Nil(t, box.ComputedStyle())
}

func TestCascadeOrder(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cssanim.resolver")
	defer teardown()
	//
	root := dom.NewDocument()
	x := dom.NewElement("div")
	x.SetAttr("id", "x")
	x.SetAttr("style", "left: 5px")
	root.AppendChild(x)
	sheet, err := douceuradapter.Parse(`
		div { left: 1px; top: 3px !important; margin: 1px 2px }
		#x { left: 2px; top: 4px }`)
	require.NoError(t, err)
	root.TreeScope().AddStyleSheet(sheet)
	r := New(root, cssanimations.DefaultConfig(), nil)
	cs := r.BaseStyle(x, nil)
	assert.Equal(t, style.Property("5px"), cs.Get("left"))
	assert.Equal(t, style.Property("3px"), cs.Get("top"))
	assert.Equal(t, style.Property("2px"), cs.Get("margin-right"))
}

func TestKeyframesByTreeScope(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cssanim.resolver")
	defer teardown()
	//
	root := dom.NewDocument()
	host := dom.NewElement("div")
	root.AppendChild(host)
	shadow, err := host.AttachShadow()
	require.NoError(t, err)
	inner := dom.NewElement("span")
	shadow.AppendChild(inner)
	outerSheet, err := douceuradapter.Parse(`
		@keyframes spin { to { opacity: 0 } }
		@keyframes grow { to { opacity: 0 } }
		@keyframes grow { to { opacity: 0.5 } }`)
	require.NoError(t, err)
	innerSheet, err := douceuradapter.Parse(`@keyframes spin { to { opacity: 1 } }`)
	require.NoError(t, err)
	root.TreeScope().AddStyleSheet(outerSheet)
	shadow.TreeScope().AddStyleSheet(innerSheet)
	r := New(root, cssanimations.DefaultConfig(), nil)
	//
	rule, scope := r.FindKeyframesRule(inner, "spin")
	require.NotNil(t, rule)
	assert.Same(t, shadow.TreeScope(), scope)
	rule, scope = r.FindKeyframesRule(host, "spin")
	require.NotNil(t, rule)
	assert.Same(t, root.TreeScope(), scope)
	// inherited from the enclosing scope, last rule wins
	rule, scope = r.FindKeyframesRule(inner, "grow")
	require.NotNil(t, rule)
	assert.Same(t, root.TreeScope(), scope)
	assert.Same(t, outerSheet.KeyframesRules()[2], rule)
	rule, _ = r.FindKeyframesRule(inner, "none")
	assert.Nil(t, rule)
}

func TestSelectorsOnSyntheticTree(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cssanim.resolver")
	defer teardown()
	//
	root := dom.NewDocument()
	section := dom.NewElement("section")
	item := dom.NewElement("p")
	item.SetAttr("class", "item")
	root.AppendChild(section)
	section.AppendChild(item)
	sheet, err := douceuradapter.Parse(`section > .item { top: 7px } section p.other { top: 9px }`)
	require.NoError(t, err)
	root.TreeScope().AddStyleSheet(sheet)
	r := New(root, cssanimations.DefaultConfig(), nil)
	assert.Equal(t, style.Property("7px"), r.BaseStyle(item, nil).Get("top"))
	item.SetAttr("class", "item other")
	assert.Equal(t, style.Property("9px"), r.BaseStyle(item, nil).Get("top"))
}

func TestUnterminatedInlineStyle(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cssanim.resolver")
	defer teardown()
	//
	root := dom.NewDocument()
	x := dom.NewElement("div")
	root.AppendChild(x)
	sheet, err := douceuradapter.Parse(`div { left: 1px; top: 2px }`)
	if err != nil {
		t.Fatal(err)
	}
	root.TreeScope().AddStyleSheet(sheet)
	r := New(root, cssanimations.DefaultConfig(), nil)
	for _, inline := range []string{"left: 5px", "top: 1px; left: 5px", " left: 5px ; ", "left: 5px;"} {
		x.SetAttr("style", inline)
		cs := r.BaseStyle(x, nil)
		if left := cs.Get("left"); left != "5px" {
			t.Errorf("style=%q: expected left to be 5px, is %q", inline, left)
		}
	}
	x.SetAttr("style", "left:")
	if left := r.BaseStyle(x, nil).Get("left"); left != "1px" {
		t.Errorf("declaration without value must not override the style sheet, left is %q", left)
	}
	x.SetAttr("style", "display: none")
	if !r.BaseStyle(x, nil).IsDisplayNone() {
		t.Errorf("expected style=\"display: none\" to hide the element")
	}
}
