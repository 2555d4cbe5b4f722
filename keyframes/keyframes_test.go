package keyframes

import (
	"testing"

	"github.com/npillmayer/cssanim/dom"
	"github.com/npillmayer/cssanim/style"
	"github.com/npillmayer/cssanim/style/css"
	"github.com/npillmayer/cssanim/style/cssom"
	"github.com/npillmayer/cssanim/style/cssom/douceuradapter"
	"github.com/npillmayer/cssanim/timeline"
	"github.com/npillmayer/cssanim/timing"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func keyframesRule(t *testing.T, source string) cssom.KeyframesRule {
	sheet, err := douceuradapter.Parse(source)
	require.NoError(t, err)
	rules := sheet.KeyframesRules()
	require.Len(t, rules, 1)
	return rules[0]
}

func build(t *testing.T, source string) *Model {
	return CreateModel(keyframesRule(t, source), &BuildContext{
		DefaultTimingFunction: timing.Linear,
		AnimationComposition:  true,
	})
}

func value(t *testing.T, kf *Keyframe, prop string) style.Property {
	v, ok := kf.Value(style.Handle(prop))
	if !ok {
		t.Errorf("keyframe %s has no value for %s", kf, prop)
	}
	return v
}

func TestBoundarySynthesis(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cssanim.keyframes")
	defer teardown()
	//
	for _, source := range []string{
		`@keyframes a { 50% { left: 10px } }`,
		`@keyframes a { from { left: 0px } }`,
		`@keyframes a { to { left: 0px } 20%, 80% { top: 1px } }`,
		`@keyframes a { }`,
		`@keyframes a { from { left: 0px } to { left: 9px; top: 2px } }`,
	} {
		m := build(t, source)
		kfs := m.Keyframes()
		if len(kfs) < 2 || kfs[0].Offset() != 0 || kfs[len(kfs)-1].Offset() != 1 {
			t.Errorf("%s: model is not bounded: %s", source, m)
		}
		t.Logf("%s => %s", source, m)
	}
}

func TestFullySpecifiedRuleNeedsNoSynthesis(t *testing.T) {
	m := build(t, `@keyframes slide { from { left: 0px } to { left: 100px } }`)
	require.Len(t, m.Keyframes(), 2)
	assert.Equal(t, style.Property("0px"), value(t, m.Keyframes()[0], "left"))
	assert.Equal(t, style.Property("100px"), value(t, m.Keyframes()[1], "left"))
	assert.False(t, m.HasSyntheticKeyframes())
}

func TestMergeSameOffset(t *testing.T) {
	m := build(t, `@keyframes a { 50% { left: 10px } 50% { top: 5px } }`)
	require.Len(t, m.Keyframes(), 3)
	mid := m.Keyframes()[1]
	assert.Equal(t, 0.5, mid.Offset())
	assert.Equal(t, style.Property("10px"), value(t, mid, "left"))
	assert.Equal(t, style.Property("5px"), value(t, mid, "top"))
}

func TestLastDeclarationWins(t *testing.T) {
	m := build(t, `@keyframes a { 50% { left: 10px } 50% { left: 20px } }`)
	require.Len(t, m.Keyframes(), 3)
	assert.Equal(t, style.Property("20px"), value(t, m.Keyframes()[1], "left"))
}

func TestDifferentEasingDoesNotMerge(t *testing.T) {
	m := build(t, `@keyframes a {
		50% { left: 10px; animation-timing-function: ease-in }
		50% { top: 5px }
		50% { left: 30px; animation-composition: add }
	}`)
	var mids []*Keyframe
	for _, kf := range m.Keyframes() {
		if kf.Offset() == 0.5 {
			mids = append(mids, kf)
		}
	}
	require.Len(t, mids, 3)
	assert.Equal(t, "ease-in", mids[0].Easing().String())
	assert.True(t, mids[2].Composite().IsJust())
	assert.Equal(t, style.Property("30px"), value(t, mids[2], "left"))
}

func TestLogicalAndAffectingProperties(t *testing.T) {
	rule := keyframesRule(t, `@keyframes a { to { margin-inline-start: 5px; display: none; animation-duration: 2s } }`)
	m := CreateModel(rule, &BuildContext{
		WritingDirection: style.WritingDirection{Direction: style.RTL},
	})
	end := m.Keyframes()[len(m.Keyframes())-1]
	assert.Equal(t, []style.PropertyHandle{style.Handle("margin-right")}, end.Properties())
	m = CreateModel(rule, &BuildContext{DisplayAnimation: true})
	assert.True(t, m.Affects(style.Handle("display")))
}

func TestNeedsBoundaryKeyframe(t *testing.T) {
	animated := style.PropertySet{style.Handle("left"): {}}
	kf := NewKeyframe(0)
	kf.SetEasing(timing.Ease)
	kf.SetValue(style.Handle("left"), "0px")
	assert.True(t, NeedsBoundaryKeyframe(nil, 0, animated, animated, timing.Ease, css.CompositeReplace))
	assert.True(t, NeedsBoundaryKeyframe(kf, 1, animated, animated, timing.Ease, css.CompositeReplace))
	assert.False(t, NeedsBoundaryKeyframe(kf, 0, animated, animated, timing.Ease, css.CompositeReplace))
	animated.Insert(style.Handle("top"))
	bounding := style.PropertySet{style.Handle("left"): {}}
	// missing properties with default easing and replace are filled in lazily
	assert.False(t, NeedsBoundaryKeyframe(kf, 0, animated, bounding, timing.Ease, css.CompositeReplace))
	assert.True(t, NeedsBoundaryKeyframe(kf, 0, animated, bounding, timing.Ease, css.CompositeAdd))
	assert.True(t, NeedsBoundaryKeyframe(kf, 0, animated, bounding, timing.Linear, css.CompositeReplace))
}

type namedRangeRule struct{}
type namedRangeBlock struct{ keys []css.TimelineOffset }

func (namedRangeRule) Name() string { return "reveal" }
func (namedRangeRule) Version() int { return 0 }
func (namedRangeRule) Keyframes() []cssom.Keyframe {
	entry, _ := css.ParseTimelineOffset("entry 50%", 0)
	return []cssom.Keyframe{
		namedRangeBlock{[]css.TimelineOffset{{Offset: css.Percentage(0)}}},
		namedRangeBlock{[]css.TimelineOffset{entry}},
	}
}
func (b namedRangeBlock) Keys() []css.TimelineOffset    { return b.keys }
func (namedRangeBlock) Properties() []string            { return []string{"opacity"} }
func (namedRangeBlock) Value(key string) style.Property { return "0.5" }

func TestNamedRangeKeyframes(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cssanim.keyframes")
	defer teardown()
	//
	kfs, named := ProcessKeyframesRule(namedRangeRule{}, &BuildContext{})
	assert.True(t, named)
	assert.Len(t, kfs, 1, "named-range keyframe must be dropped without a view timeline")
	//
	doc := dom.NewDocument()
	scroller, subject := dom.NewElement("div"), dom.NewElement("p")
	doc.AppendChild(scroller)
	scroller.AppendChild(subject)
	geo := timeline.NewStaticGeometry()
	geo.Set(scroller, timeline.BoxInfo{Scrollable: true, Viewport: [2]float64{0, 100}, MaxScroll: [2]float64{0, 400}})
	geo.Set(subject, timeline.BoxInfo{Position: [2]float64{0, 200}, Size: [2]float64{0, 50}})
	vt := timeline.NewViewTimeline(timeline.ViewOptions{Subject: subject, Inset: css.AutoInset()}, geo)
	vt.ServiceAnimations()
	m := CreateModel(namedRangeRule{}, &BuildContext{Timeline: vt})
	assert.True(t, m.HasNamedRangeKeyframes())
	found := false
	for _, kf := range m.Keyframes() {
		if kf.Offset() > 0.16 && kf.Offset() < 0.17 {
			found = true
		}
	}
	assert.True(t, found, "expected a keyframe at offset 1/6 in %s", m)
}

func TestSample(t *testing.T) {
	m := build(t, `@keyframes slide { from { left: 0px } to { left: 100px } }`)
	ips := m.Sample(0.25)
	require.Len(t, ips, 1)
	cs := style.NewComputedStyle(nil)
	assert.Equal(t, style.Property("25px"), ips[0].Apply("7px", cs))
	m = build(t, `@keyframes grow { 50% { width: 100px } }`)
	ips = m.Sample(0.25)
	require.Len(t, ips, 1)
	assert.Equal(t, style.Property("60px"), ips[0].Apply("20px", cs))
}

func TestTransitionModelSnapshot(t *testing.T) {
	m := NewTransitionModel(style.Handle("opacity"), "0", "1", nil)
	assert.True(t, m.IsTransition())
	assert.True(t, m.RequiresCompositorSnapshot())
	cs := style.NewComputedStyle(nil)
	assert.True(t, m.SnapshotCompositorKeyframes(cs))
	assert.False(t, m.SnapshotCompositorKeyframes(cs))
	assert.Equal(t, []style.Property{"0", "1"}, m.CompositorSnapshot(style.Handle("opacity")))
}
