package cssanimations

import (
	"testing"
	"time"

	"github.com/npillmayer/cssanim/animation"
	"github.com/npillmayer/cssanim/dom"
	"github.com/npillmayer/cssanim/maybe"
	"github.com/npillmayer/cssanim/style"
	"github.com/npillmayer/cssanim/style/cssom"
	"github.com/npillmayer/cssanim/style/cssom/douceuradapter"
	"github.com/npillmayer/cssanim/timeline"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sheetResolver finds @keyframes rules in a single stylesheet.
type sheetResolver struct {
	rules map[string]cssom.KeyframesRule
}

func (r *sheetResolver) FindKeyframesRule(e *dom.Element, name string) (cssom.KeyframesRule, *dom.TreeScope) {
	if rule, ok := r.rules[name]; ok {
		return rule, e.TreeScope()
	}
	return nil, nil
}

func parseKeyframes(t *testing.T, source string) *sheetResolver {
	sheet, err := douceuradapter.Parse(source)
	require.NoError(t, err)
	r := &sheetResolver{rules: make(map[string]cssom.KeyframesRule)}
	for _, rule := range sheet.KeyframesRules() {
		r.rules[rule.Name()] = rule
	}
	return r
}

func styled(kv ...string) *style.ComputedStyle {
	cs := style.NewComputedStyle(nil)
	for i := 0; i+1 < len(kv); i += 2 {
		cs.Set(kv[i], style.Property(kv[i+1]))
	}
	return cs
}

type fixture struct {
	doc  *Document
	root *dom.Element
	div  *dom.Element
	kfs  KeyframesResolver
}

func newFixture(kfs KeyframesResolver) *fixture {
	root := dom.NewDocument()
	div := dom.NewElement("div")
	root.AppendChild(div)
	return &fixture{
		doc:  NewDocument(root, DefaultConfig(), nil),
		root: root,
		div:  div,
		kfs:  kfs,
	}
}

// calculate runs the staging phase for a style change of e.
func (f *fixture) calculate(e *dom.Element, cs *style.ComputedStyle) *CSSAnimationUpdate {
	return f.doc.ElementAnimations(e).CalculateUpdate(&StyleChange{
		Element:   e,
		Style:     cs,
		Keyframes: f.kfs,
	})
}

// restyle runs a complete style change of e and returns the animated style.
func (f *fixture) restyle(e *dom.Element, cs *style.ComputedStyle) *style.ComputedStyle {
	ca := f.doc.ElementAnimations(e)
	f.calculate(e, cs)
	animated := ca.AnimatedStyle(cs)
	e.SetComputedStyle(animated)
	ca.MaybeApplyPendingUpdate()
	return animated
}

func runningNames(ca *CSSAnimations) []string {
	var names []string
	for _, ra := range ca.RunningAnimations() {
		names = append(names, ra.Name)
	}
	return names
}

const slide = `@keyframes slide { from { left: 0px } to { left: 100px } }`

func TestStartAnimationThenNoOp(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cssanim.cssanimations")
	defer teardown()
	//
	f := newFixture(parseKeyframes(t, slide))
	u := f.calculate(f.div, styled("animation-name", "slide", "animation-duration", "1s"))
	require.Len(t, u.NewAnimations(), 1)
	na := u.NewAnimations()[0]
	assert.Equal(t, "slide", na.Name)
	assert.Equal(t, 0, na.NameIndex)
	assert.Equal(t, time.Second, na.Timing.IterationDuration)
	kfs := na.Effect.Model().Keyframes()
	require.Len(t, kfs, 2)
	left := style.Handle("left")
	v0, _ := kfs[0].Value(left)
	v1, _ := kfs[1].Value(left)
	assert.Equal(t, style.Property("0px"), v0)
	assert.Equal(t, style.Property("100px"), v1)
	//
	ca := f.doc.ElementAnimations(f.div)
	animated := ca.AnimatedStyle(styled("animation-name", "slide", "animation-duration", "1s"))
	assert.Equal(t, style.Property("0px"), animated.Get("left"))
	f.div.SetComputedStyle(animated)
	ca.MaybeApplyPendingUpdate()
	require.Len(t, ca.RunningAnimations(), 1)
	assert.Same(t, f.doc.Timeline(), ca.RunningAnimations()[0].Timeline())
	//
	u = f.calculate(f.div, styled("animation-name", "slide", "animation-duration", "1s"))
	assert.False(t, u.HasUpdates(), "unchanged style must not stage anything")
	assert.True(t, u.ActiveInterpolationsForAnimations().Contains(left))
}

func TestAnimationProgressesWithDocumentTimeline(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cssanim.cssanimations")
	defer teardown()
	//
	f := newFixture(parseKeyframes(t, slide))
	cs := func() *style.ComputedStyle {
		return styled("animation-name", "slide", "animation-duration", "1s",
			"animation-timing-function", "linear")
	}
	f.restyle(f.div, cs())
	f.doc.ServiceAnimations(500 * time.Millisecond)
	f.calculate(f.div, cs())
	animated := f.doc.ElementAnimations(f.div).AnimatedStyle(cs())
	assert.Equal(t, style.Property("50px"), animated.Get("left"))
}

func TestRepeatedAnimationNames(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cssanim.cssanimations")
	defer teardown()
	//
	f := newFixture(parseKeyframes(t, `@keyframes a { to { opacity: 0 } }`))
	f.restyle(f.div, styled("animation-name", "a, a", "animation-duration", "1s, 2s"))
	ca := f.doc.ElementAnimations(f.div)
	require.Len(t, ca.RunningAnimations(), 2)
	first, second := ca.RunningAnimations()[0], ca.RunningAnimations()[1]
	assert.Equal(t, 0, first.NameIndex)
	assert.Equal(t, 1, second.NameIndex)
	assert.NotSame(t, first.Animation, second.Animation)
	assert.Equal(t, 2*time.Second, second.Timing.IterationDuration)
	//
	u := f.calculate(f.div, styled("animation-name", "a", "animation-duration", "1s"))
	assert.Equal(t, []int{1}, u.CancelledAnimationIndices())
	assert.Empty(t, u.NewAnimations())
	f.div.SetComputedStyle(ca.AnimatedStyle(styled("animation-name", "a", "animation-duration", "1s")))
	ca.MaybeApplyPendingUpdate()
	require.Len(t, ca.RunningAnimations(), 1)
	assert.Same(t, first.Animation, ca.RunningAnimations()[0].Animation)
	assert.Equal(t, animation.Idle, second.Animation.CalculateAnimationPlayState())
}

func TestCancellationKeepsRemainingAnimations(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cssanim.cssanimations")
	defer teardown()
	//
	f := newFixture(parseKeyframes(t, `
		@keyframes a { to { opacity: 0 } }
		@keyframes b { to { opacity: 0 } }
		@keyframes c { to { opacity: 0 } }
		@keyframes d { to { opacity: 0 } }
		@keyframes e { to { opacity: 0 } }`))
	f.restyle(f.div, styled("animation-name", "a, b, c, d, e", "animation-duration", "1s"))
	ca := f.doc.ElementAnimations(f.div)
	require.Equal(t, []string{"a", "b", "c", "d", "e"}, runningNames(ca))
	before := make(map[string]*animation.Animation)
	for _, ra := range ca.RunningAnimations() {
		before[ra.Name] = ra.Animation
	}
	//
	u := f.calculate(f.div, styled("animation-name", "a, c, e", "animation-duration", "1s"))
	assert.Equal(t, []int{1, 3}, u.CancelledAnimationIndices())
	f.div.SetComputedStyle(ca.AnimatedStyle(styled("animation-name", "a, c, e", "animation-duration", "1s")))
	ca.MaybeApplyPendingUpdate()
	assert.Equal(t, []string{"a", "c", "e"}, runningNames(ca))
	for _, ra := range ca.RunningAnimations() {
		assert.Same(t, before[ra.Name], ra.Animation)
	}
	assert.Equal(t, animation.Idle, before["b"].CalculateAnimationPlayState())
	assert.Equal(t, animation.Idle, before["d"].CalculateAnimationPlayState())
	assert.Len(t, ca.EffectStack().Animations(), 3)
}

func TestMissingKeyframesCancels(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cssanim.cssanimations")
	defer teardown()
	//
	r := parseKeyframes(t, slide)
	f := newFixture(r)
	f.restyle(f.div, styled("animation-name", "slide", "animation-duration", "1s"))
	delete(r.rules, "slide")
	u := f.calculate(f.div, styled("animation-name", "slide", "animation-duration", "1s"))
	assert.Equal(t, []int{0}, u.CancelledAnimationIndices())
}

func TestTimingChangeUpdatesAnimation(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cssanim.cssanimations")
	defer teardown()
	//
	f := newFixture(parseKeyframes(t, slide))
	f.restyle(f.div, styled("animation-name", "slide", "animation-duration", "1s"))
	ca := f.doc.ElementAnimations(f.div)
	a := ca.RunningAnimations()[0].Animation
	f.doc.ServiceAnimations(250 * time.Millisecond)
	//
	u := f.calculate(f.div, styled("animation-name", "slide", "animation-duration", "2s"))
	require.Len(t, u.UpdatedAnimations(), 1)
	assert.True(t, u.SuppressedAnimations()[a])
	ua := u.UpdatedAnimations()[0]
	assert.Equal(t, 2*time.Second, ua.Effect.SpecifiedTiming().IterationDuration)
	inherited, ok := ua.Effect.InheritedTime().Get()
	require.True(t, ok)
	assert.Equal(t, 250*time.Millisecond, inherited)
	//
	f.div.SetComputedStyle(ca.AnimatedStyle(styled("animation-name", "slide", "animation-duration", "2s")))
	ca.MaybeApplyPendingUpdate()
	assert.Same(t, a, ca.RunningAnimations()[0].Animation)
	assert.Equal(t, 2*time.Second, a.Effect().SpecifiedTiming().IterationDuration)
}

func TestPlayStateToggle(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cssanim.cssanimations")
	defer teardown()
	//
	f := newFixture(parseKeyframes(t, slide))
	f.restyle(f.div, styled("animation-name", "slide", "animation-duration", "1s"))
	ca := f.doc.ElementAnimations(f.div)
	a := ca.RunningAnimations()[0].Animation
	u := f.calculate(f.div, styled("animation-name", "slide", "animation-duration", "1s",
		"animation-play-state", "paused"))
	assert.Equal(t, []int{0}, u.PauseToggledIndices())
	f.div.SetComputedStyle(ca.AnimatedStyle(styled("animation-name", "slide")))
	ca.MaybeApplyPendingUpdate()
	assert.Equal(t, animation.Paused, a.CalculateAnimationPlayState())
	//
	// script overrides the play state
	a.Play()
	u = f.calculate(f.div, styled("animation-name", "slide", "animation-duration", "1s",
		"animation-play-state", "running"))
	assert.Empty(t, u.PauseToggledIndices())
}

func TestAnimationEvents(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cssanim.cssanimations")
	defer teardown()
	//
	f := newFixture(parseKeyframes(t, slide))
	f.doc.AddListener(animation.AnimationStart)
	f.doc.AddListener(animation.AnimationCancel)
	f.restyle(f.div, styled("animation-name", "slide", "animation-duration", "1s"))
	evs := f.doc.TakeEvents()
	require.Len(t, evs, 1)
	assert.Equal(t, animation.AnimationStart, evs[0].Type)
	assert.Equal(t, "slide", evs[0].AnimationName)
	assert.Same(t, f.div, evs[0].Target)
	//
	f.doc.ServiceAnimations(400 * time.Millisecond)
	f.restyle(f.div, styled("animation-name", "none"))
	evs = f.doc.TakeEvents()
	require.Len(t, evs, 1)
	assert.Equal(t, animation.AnimationCancel, evs[0].Type)
	assert.Equal(t, 400*time.Millisecond, evs[0].ElapsedTime)
}

func TestTransitionStartsOnChange(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cssanim.cssanimations")
	defer teardown()
	//
	f := newFixture(nil)
	f.restyle(f.div, styled("left", "0px", "transition-property", "left", "transition-duration", "1s"))
	u := f.calculate(f.div, styled("left", "100px", "transition-property", "left", "transition-duration", "1s"))
	nt := u.NewTransition(style.Handle("left"))
	require.NotNil(t, nt)
	assert.Equal(t, style.Property("0px"), nt.From)
	assert.Equal(t, style.Property("100px"), nt.To)
	assert.Equal(t, 1.0, nt.ShorteningFactor)
	assert.True(t, u.ActiveInterpolationsForTransitions().Contains(style.Handle("left")))
	//
	ca := f.doc.ElementAnimations(f.div)
	base := styled("left", "100px", "transition-property", "left", "transition-duration", "1s")
	animated := ca.AnimatedStyle(base)
	assert.Equal(t, style.Property("0px"), animated.Get("left"))
	f.div.SetComputedStyle(animated)
	ca.MaybeApplyPendingUpdate()
	require.Contains(t, ca.Transitions(), style.Handle("left"))
	assert.Equal(t, uint64(1), f.doc.TransitionGeneration())
	//
	f.doc.ServiceAnimations(time.Second + time.Millisecond)
	u = f.calculate(f.div, styled("left", "100px", "transition-property", "left", "transition-duration", "1s"))
	assert.True(t, u.FinishedTransitions().Contains(style.Handle("left")))
}

func TestTransitionReversal(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cssanim.cssanimations")
	defer teardown()
	//
	f := newFixture(nil)
	color := style.Handle("color")
	cs := func(c string) *style.ComputedStyle {
		return styled("color", c, "transition-property", "color", "transition-duration", "1s")
	}
	f.restyle(f.div, cs("red"))
	f.restyle(f.div, cs("blue"))
	ca := f.doc.ElementAnimations(f.div)
	require.Contains(t, ca.Transitions(), color)
	first := ca.Transitions()[color]
	assert.Equal(t, style.Property("red"), first.ReversingAdjustedStart)
	//
	f.doc.ServiceAnimations(500 * time.Millisecond)
	u := f.calculate(f.div, cs("red"))
	assert.True(t, u.CancelledTransitions().Contains(color))
	nt := u.NewTransition(color)
	require.NotNil(t, nt)
	assert.Equal(t, style.Property("blue"), nt.ReversingAdjustedStart)
	assert.Greater(t, nt.ShorteningFactor, 0.0)
	assert.Less(t, nt.ShorteningFactor, 1.0)
	assert.Less(t, nt.Effect.SpecifiedTiming().IterationDuration, time.Second)
	//
	f.div.SetComputedStyle(ca.AnimatedStyle(cs("red")))
	ca.MaybeApplyPendingUpdate()
	assert.NotSame(t, first, ca.Transitions()[color])
	assert.Equal(t, animation.Idle, first.Animation.CalculateAnimationPlayState())
}

func TestZeroDurationCancelsTransition(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cssanim.cssanimations")
	defer teardown()
	//
	f := newFixture(nil)
	f.doc.AddListener(animation.TransitionCancel)
	f.restyle(f.div, styled("left", "0px", "transition-property", "all", "transition-duration", "1s"))
	f.restyle(f.div, styled("left", "100px", "transition-property", "all", "transition-duration", "1s"))
	ca := f.doc.ElementAnimations(f.div)
	require.Contains(t, ca.Transitions(), style.Handle("left"))
	f.doc.ServiceAnimations(100 * time.Millisecond)
	f.doc.TakeEvents()
	//
	u := f.calculate(f.div, styled("left", "50px", "transition-property", "all", "transition-duration", "0s"))
	assert.True(t, u.CancelledTransitions().Contains(style.Handle("left")))
	assert.Empty(t, u.NewTransitions())
	f.div.SetComputedStyle(ca.AnimatedStyle(styled("left", "50px")))
	ca.MaybeApplyPendingUpdate()
	assert.Empty(t, ca.Transitions())
	evs := f.doc.TakeEvents()
	require.Len(t, evs, 1)
	assert.Equal(t, animation.TransitionCancel, evs[0].Type)
}

func TestRemovedTransitionPropertyCancels(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cssanim.cssanimations")
	defer teardown()
	//
	f := newFixture(nil)
	f.restyle(f.div, styled("left", "0px", "top", "0px", "transition-property", "left, top", "transition-duration", "1s"))
	f.restyle(f.div, styled("left", "9px", "top", "9px", "transition-property", "left, top", "transition-duration", "1s"))
	ca := f.doc.ElementAnimations(f.div)
	require.Len(t, ca.Transitions(), 2)
	u := f.calculate(f.div, styled("left", "9px", "top", "9px", "transition-property", "left", "transition-duration", "1s"))
	assert.True(t, u.CancelledTransitions().Contains(style.Handle("top")))
	assert.False(t, u.CancelledTransitions().Contains(style.Handle("left")))
}

func TestAnimationBlocksTransition(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cssanim.cssanimations")
	defer teardown()
	//
	f := newFixture(parseKeyframes(t, slide))
	f.restyle(f.div, styled("left", "0px", "transition-property", "left", "transition-duration", "1s"))
	u := f.calculate(f.div, styled("left", "5px", "transition-property", "left", "transition-duration", "1s",
		"animation-name", "slide", "animation-duration", "1s"))
	assert.Len(t, u.NewAnimations(), 1)
	assert.Empty(t, u.NewTransitions())
}

func TestUnregisteredCustomPropertyDoesNotTransition(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cssanim.cssanimations")
	defer teardown()
	//
	f := newFixture(nil)
	f.restyle(f.div, styled("--x", "0px", "transition-property", "--x", "transition-duration", "1s"))
	u := f.calculate(f.div, styled("--x", "10px", "transition-property", "--x", "transition-duration", "1s"))
	assert.Empty(t, u.NewTransitions())
	//
	require.NoError(t, f.doc.Registry().Register(style.Registration{
		Name: "--x", Syntax: style.SyntaxLength, InitialValue: "0px",
	}))
	u = f.calculate(f.div, styled("--x", "10px", "transition-property", "--x", "transition-duration", "1s"))
	assert.NotNil(t, u.NewTransition(style.Handle("--x")))
}

func TestShorteningFactorIsClamped(t *testing.T) {
	for _, progress := range []float64{-0.5, 0, 0.25, 0.5, 1, 1.4} {
		for _, previous := range []float64{0, 0.3, 0.5, 1} {
			f := shorteningFactor(progress, previous)
			assert.GreaterOrEqual(t, f, 0.0, "progress=%g previous=%g", progress, previous)
			assert.LessOrEqual(t, f, 1.0, "progress=%g previous=%g", progress, previous)
		}
	}
	assert.Equal(t, 1.0, shorteningFactor(0.3, 0))
	assert.InDelta(t, 0.75, shorteningFactor(0.5, 0.5), 1e-9)
}

func TestAnimationFlags(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cssanim.cssanimations")
	defer teardown()
	//
	f := newFixture(parseKeyframes(t, `@keyframes fade { to { opacity: 0 } }`))
	cs := styled("animation-name", "fade", "animation-duration", "1s")
	f.calculate(f.div, cs)
	flags := cs.AnimationFlags()
	assert.True(t, flags.Has(style.HasCurrentOpacityAnimation))
	assert.False(t, flags.Has(style.HasCurrentTransformAnimation))
	assert.False(t, flags.Has(style.IsRunningOpacityAnimationOnCompositor))
}

func TestQueries(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cssanim.cssanimations")
	defer teardown()
	//
	f := newFixture(parseKeyframes(t, `
		@keyframes grow { to { font-size: 20px } }
		@keyframes back { to { left: revert } }`))
	f.restyle(f.div, styled("animation-name", "grow", "animation-duration", "1s"))
	ca := f.doc.ElementAnimations(f.div)
	assert.True(t, ca.IsAnimatingStandardProperties())
	assert.True(t, ca.IsAnimatingFontAffectingProperties())
	assert.False(t, ca.IsAnimatingCustomProperties())
	assert.False(t, ca.IsAnimatingLineHeightProperty())
	assert.False(t, ca.IsAnimatingRevert())
	//
	f.restyle(f.div, styled("animation-name", "back", "animation-duration", "1s"))
	assert.True(t, ca.IsAnimatingRevert())
	assert.True(t, f.doc.Config().IsAnimationAffectingProperty("animation-name"))
	assert.False(t, f.doc.Config().IsAnimationAffectingProperty("left"))
}

func TestKeyframesScope(t *testing.T) {
	root := dom.NewDocument()
	host := dom.NewElement("div")
	root.AppendChild(host)
	shadow, err := host.AttachShadow()
	require.NoError(t, err)
	inner := dom.NewElement("span")
	shadow.AppendChild(inner)
	//
	assert.True(t, IsAffectedByKeyframesFromScope(host, root.TreeScope()))
	assert.True(t, IsAffectedByKeyframesFromScope(host, shadow.TreeScope()))
	assert.True(t, IsAffectedByKeyframesFromScope(inner, shadow.TreeScope()))
	assert.False(t, IsAffectedByKeyframesFromScope(inner, root.TreeScope()))
}

func TestCancelAll(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cssanim.cssanimations")
	defer teardown()
	//
	f := newFixture(parseKeyframes(t, slide))
	f.restyle(f.div, styled("top", "0px", "transition-property", "top", "transition-duration", "1s"))
	f.restyle(f.div, styled("top", "5px", "transition-property", "top", "transition-duration", "1s",
		"animation-name", "slide", "animation-duration", "1s"))
	ca := f.doc.ElementAnimations(f.div)
	require.Len(t, ca.RunningAnimations(), 1)
	require.Len(t, ca.Transitions(), 1)
	f.doc.RemoveElement(f.div)
	assert.True(t, ca.IsEmpty())
	assert.True(t, ca.EffectStack().IsEmpty())
	assert.Nil(t, f.doc.Lookup(f.div))
}

// --- Timelines ---------------------------------------------------------------

func TestNamedScrollTimeline(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cssanim.cssanimations")
	defer teardown()
	//
	f := newFixture(parseKeyframes(t, slide))
	child := dom.NewElement("p")
	f.div.AppendChild(child)
	f.restyle(f.div, styled("scroll-timeline-name", "--scroller"))
	scrollers := f.doc.ElementAnimations(f.div).TimelineData().ScrollTimelines()
	require.Equal(t, 1, scrollers.Len())
	declared, _ := scrollers.Get(dom.ScopedName{Name: "--scroller", Scope: f.root.TreeScope()})
	require.NotNil(t, declared)
	//
	f.restyle(child, styled("animation-name", "slide", "animation-duration", "1s",
		"animation-timeline", "--scroller"))
	ca := f.doc.ElementAnimations(child)
	require.Len(t, ca.RunningAnimations(), 1)
	assert.Same(t, declared, ca.RunningAnimations()[0].Timeline())
	//
	// redeclaring the same timeline keeps it
	u := f.calculate(f.div, styled("scroll-timeline-name", "--scroller"))
	assert.True(t, u.ChangedScrollTimelines().IsEmpty())
	u = f.calculate(f.div, styled("scroll-timeline-name", "none"))
	removed, ok := u.ChangedScrollTimelines().Get(dom.ScopedName{Name: "--scroller", Scope: f.root.TreeScope()})
	assert.True(t, ok)
	assert.Nil(t, removed)
}

func TestAnonymousScrollTimelineIsReused(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cssanim.cssanimations")
	defer teardown()
	//
	f := newFixture(parseKeyframes(t, slide))
	cs := func() *style.ComputedStyle {
		return styled("animation-name", "slide", "animation-duration", "1s", "animation-timeline", "scroll(root)")
	}
	f.restyle(f.div, cs())
	ca := f.doc.ElementAnimations(f.div)
	require.Len(t, ca.RunningAnimations(), 1)
	tl := ca.RunningAnimations()[0].Timeline()
	_, ok := tl.(*timeline.ScrollTimeline)
	require.True(t, ok)
	u := f.calculate(f.div, cs())
	assert.False(t, u.HasUpdates())
}

func TestTimelineProximity(t *testing.T) {
	root := dom.NewDocument()
	outerHost := dom.NewElement("div")
	root.AppendChild(outerHost)
	outer, err := outerHost.AttachShadow()
	require.NoError(t, err)
	innerHost := dom.NewElement("div")
	outer.AppendChild(innerHost)
	inner, err := innerHost.AttachShadow()
	require.NoError(t, err)
	//
	geo := timeline.NewStaticGeometry()
	near := timeline.NewScrollTimeline(root, timeline.ScrollOptions{ReferenceType: timeline.ReferenceSource}, geo)
	far := timeline.NewScrollTimeline(root, timeline.ScrollOptions{ReferenceType: timeline.ReferenceSource}, geo)
	var existing TimelineMap[*timeline.ScrollTimeline]
	existing.Set(dom.ScopedName{Name: "--t", Scope: outer.TreeScope()}, near)
	existing.Set(dom.ScopedName{Name: "--t", Scope: root.TreeScope()}, far)
	target := dom.ScopedName{Name: "--t", Scope: inner.TreeScope()}
	//
	assert.Same(t, near, FindTimelineForElement(target, &existing, nil, true))
	// without tree scopes, the last declaration wins
	assert.Same(t, far, FindTimelineForElement(target, &existing, nil, false))
	//
	// changed timelines shadow existing ones, nil values remove them
	var changed TimelineMap[*timeline.ScrollTimeline]
	changed.Set(dom.ScopedName{Name: "--t", Scope: outer.TreeScope()}, nil)
	assert.Same(t, far, FindTimelineForElement(target, &existing, &changed, true))
	other := timeline.NewScrollTimeline(root, timeline.ScrollOptions{ReferenceType: timeline.ReferenceSource}, geo)
	changed.Set(dom.ScopedName{Name: "--t", Scope: inner.TreeScope()}, other)
	assert.Same(t, other, FindTimelineForElement(target, &existing, &changed, true))
	assert.Nil(t, FindTimelineForElement(dom.ScopedName{Name: "--u"}, &existing, &changed, true))
}

func TestWritingDirectionChangeRebuildsAnimation(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cssanim.cssanimations")
	defer teardown()
	//
	f := newFixture(parseKeyframes(t, `@keyframes m { to { margin-inline-start: 10px } }`))
	f.restyle(f.div, styled("animation-name", "m", "animation-duration", "1s"))
	ca := f.doc.Lookup(f.div)
	require.NotNil(t, ca)
	model := ca.RunningAnimations()[0].Animation.Effect().Model()
	assert.True(t, model.Affects(style.Handle("margin-left")))
	//
	u := f.calculate(f.div, styled("animation-name", "m", "animation-duration", "1s",
		"direction", "rtl"))
	require.Len(t, u.UpdatedAnimations(), 1)
	f.div.SetComputedStyle(ca.AnimatedStyle(styled("animation-name", "m", "animation-duration", "1s",
		"direction", "rtl")))
	ca.MaybeApplyPendingUpdate()
	model = ca.RunningAnimations()[0].Animation.Effect().Model()
	assert.True(t, model.Affects(style.Handle("margin-right")))
	assert.False(t, model.Affects(style.Handle("margin-left")))
}

func TestViewTimelinePrecedesScrollTimeline(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cssanim.cssanimations")
	defer teardown()
	//
	f := newFixture(parseKeyframes(t, slide))
	child := dom.NewElement("p")
	f.div.AppendChild(child)
	f.restyle(f.div, styled("scroll-timeline-name", "--t", "view-timeline-name", "--t"))
	td := f.doc.ElementAnimations(f.div).TimelineData()
	name := dom.ScopedName{Name: "--t", Scope: f.root.TreeScope()}
	view, _ := td.ViewTimelines().Get(name)
	require.NotNil(t, view)
	scroll, _ := td.ScrollTimelines().Get(name)
	require.NotNil(t, scroll)
	//
	cs := func() *style.ComputedStyle {
		return styled("animation-name", "slide", "animation-duration", "1s", "animation-timeline", "--t")
	}
	f.restyle(child, cs())
	ca := f.doc.ElementAnimations(child)
	require.Len(t, ca.RunningAnimations(), 1)
	assert.Same(t, view, ca.RunningAnimations()[0].Timeline())
	//
	// without the view timeline, the scroll timeline of the same name is used
	f.restyle(f.div, styled("scroll-timeline-name", "--t"))
	assert.Equal(t, 0, td.ViewTimelines().Len())
	u := f.calculate(child, cs())
	require.Len(t, u.UpdatedAnimations(), 1)
	assert.Same(t, scroll, u.UpdatedAnimations()[0].Timeline)
}

func TestNamedViewTimelineOfPreviousSibling(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cssanim.cssanimations")
	defer teardown()
	//
	f := newFixture(parseKeyframes(t, slide))
	subject := dom.NewElement("p")
	target := dom.NewElement("span")
	f.div.AppendChild(subject)
	f.div.AppendChild(target)
	geo := f.doc.Geometry().(*timeline.StaticGeometry)
	geo.Set(f.div, timeline.BoxInfo{
		Scrollable: true,
		MaxScroll:  [2]float64{0, 1000},
		Viewport:   [2]float64{100, 100},
	})
	geo.Set(subject, timeline.BoxInfo{Position: [2]float64{0, 200}, Size: [2]float64{100, 50}})
	f.restyle(subject, styled("view-timeline-name", "--v", "view-timeline-axis", "y"))
	vt, _ := f.doc.ElementAnimations(subject).TimelineData().ViewTimelines().Get(
		dom.ScopedName{Name: "--v", Scope: f.root.TreeScope()})
	require.NotNil(t, vt)
	assert.Same(t, subject, vt.Subject())
	// cover range: subject enters at 200-100, leaves at 200+50
	assert.Equal(t, maybe.Just(timeline.ScrollOffsets{Start: 100, End: 250}), vt.ResolvedScrollOffsets())
	//
	cs := func() *style.ComputedStyle {
		return styled("animation-name", "slide", "animation-duration", "1s",
			"animation-timing-function", "linear", "animation-timeline", "--v")
	}
	f.restyle(target, cs())
	ca := f.doc.ElementAnimations(target)
	require.Len(t, ca.RunningAnimations(), 1)
	a := ca.RunningAnimations()[0].Animation
	assert.Same(t, vt, a.Timeline())
	//
	geo.ScrollTo(f.div, timeline.Vertical, 175)
	f.doc.ServiceAnimations(0)
	assert.Equal(t, maybe.Just(500*time.Millisecond), a.CurrentTime())
	f.calculate(target, cs())
	assert.Equal(t, style.Property("50px"), ca.AnimatedStyle(cs()).Get("left"))
}

func TestLeavingScrollTimelineKeepsProgress(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cssanim.cssanimations")
	defer teardown()
	//
	f := newFixture(parseKeyframes(t, slide))
	geo := f.doc.Geometry().(*timeline.StaticGeometry)
	geo.Set(f.div, timeline.BoxInfo{
		Scrollable: true,
		Scroll:     [2]float64{100, 100},
		MaxScroll:  [2]float64{200, 200},
		Viewport:   [2]float64{100, 100},
	})
	child := dom.NewElement("p")
	f.div.AppendChild(child)
	f.restyle(f.div, styled("scroll-timeline-name", "--scroller"))
	cs := func(tl string) *style.ComputedStyle {
		return styled("animation-name", "slide", "animation-duration", "2s",
			"animation-timing-function", "linear", "animation-timeline", tl)
	}
	f.restyle(child, cs("--scroller"))
	ca := f.doc.ElementAnimations(child)
	require.Len(t, ca.RunningAnimations(), 1)
	a := ca.RunningAnimations()[0].Animation
	require.True(t, a.Timeline().IsScrollTimeline())
	assert.Equal(t, maybe.Just(time.Second), a.CurrentTime(), "half-way scrolled")
	//
	u := f.calculate(child, cs("auto"))
	require.Len(t, u.UpdatedAnimations(), 1)
	ua := u.UpdatedAnimations()[0]
	assert.Same(t, f.doc.Timeline(), ua.Timeline)
	assert.Equal(t, maybe.Just(time.Second), ua.Effect.InheritedTime())
	animated := ca.AnimatedStyle(cs("auto"))
	assert.Equal(t, style.Property("50px"), animated.Get("left"))
	//
	child.SetComputedStyle(animated)
	ca.MaybeApplyPendingUpdate()
	assert.Same(t, f.doc.Timeline(), a.Timeline())
	assert.Equal(t, maybe.Just(time.Second), a.CurrentTime())
	f.doc.ServiceAnimations(500 * time.Millisecond)
	assert.Equal(t, maybe.Just(1500*time.Millisecond), a.CurrentTime())
}

func TestCompositorTransitionIsRetargeted(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cssanim.cssanimations")
	defer teardown()
	//
	f := newFixture(nil)
	opacity := style.Handle("opacity")
	cs := func(o string) *style.ComputedStyle {
		return styled("opacity", o, "transition-property", "opacity", "transition-duration", "1s",
			"transition-timing-function", "linear")
	}
	f.restyle(f.div, cs("1"))
	f.restyle(f.div, cs("0"))
	ca := f.doc.ElementAnimations(f.div)
	require.Contains(t, ca.Transitions(), opacity)
	old := ca.Transitions()[opacity].Animation
	old.Effect().MarkRunningOnCompositor(opacity)
	f.doc.ServiceAnimations(300 * time.Millisecond)
	require.True(t, old.Effect().HasActiveAnimationsOnCompositor(opacity))
	//
	u := f.calculate(f.div, cs("0.5"))
	require.True(t, u.CancelledTransitions().Contains(opacity))
	nt := u.NewTransition(opacity)
	require.NotNil(t, nt)
	assert.Equal(t, style.Property("0.5"), nt.To)
	f.div.SetComputedStyle(ca.AnimatedStyle(cs("0.5")))
	ca.MaybeApplyPendingUpdate()
	//
	assert.Equal(t, animation.Idle, old.CalculateAnimationPlayState())
	assert.Equal(t, animation.DefaultPriority, old.Effect().Priority())
	assert.Nil(t, old.OwningElement())
	rt := ca.Transitions()[opacity]
	require.NotNil(t, rt)
	assert.NotSame(t, old, rt.Animation)
	assert.Equal(t, f.doc.Timeline().CurrentTime(), rt.Animation.StartTime(),
		"a retargeted transition starts at the current time of the timeline")
	assert.Equal(t, maybe.Just[time.Duration](0), rt.Animation.CurrentTime())
	assert.Equal(t, animation.TransitionPriority, rt.Animation.Effect().Priority())
}
