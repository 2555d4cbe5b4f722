package cssanimations

import (
	"time"

	"github.com/npillmayer/cssanim/animation"
	"github.com/npillmayer/cssanim/dom"
	"github.com/npillmayer/cssanim/keyframes"
	"github.com/npillmayer/cssanim/maybe"
	"github.com/npillmayer/cssanim/style"
	"github.com/npillmayer/cssanim/style/css"
	"github.com/npillmayer/cssanim/style/cssom"
	"github.com/npillmayer/cssanim/timeline"
	"github.com/npillmayer/cssanim/timing"
)

// CalculateAnimationUpdate matches the declared animation-name list with
// the running animations. Entries are matched by name and by the number of
// equal names before them. Unmatched declarations start new animations,
// matched ones are updated if any of their inputs changed, and running
// animations without a declaration are cancelled.
func (ca *CSSAnimations) CalculateAnimationUpdate(u *CSSAnimationUpdate, sc *StyleChange) {
	if sc.IsAnimationStyleChange {
		ca.calculateAnimationActiveInterpolations(u)
		return
	}
	cfg := ca.doc.config
	wd := sc.Style.WritingDirection()
	oldStyle := ca.element.ComputedStyle()
	logicalMappingChange := oldStyle == nil || oldStyle.WritingDirection() != wd
	if logicalMappingChange {
		for _, a := range ca.stack.Animations() {
			if effect := a.Effect(); effect != nil {
				effect.SetLogicalPropertyResolutionContext(wd)
				if a.Outdated() {
					a.Update(animation.TimingUpdateOnDemand)
				}
			}
		}
	}
	cancelled := make([]bool, len(ca.runningAnimations))
	for i := range cancelled {
		cancelled[i] = true
	}
	data := css.AnimationDataFrom(sc.Style)
	if data != nil && (!sc.Style.IsDisplayNone() ||
		(cfg.DisplayAnimation && oldStyle != nil && !oldStyle.IsDisplayNone())) {
		for i, name := range data.Names {
			if name == "none" || name == "" {
				continue
			}
			nameIndex := 0
			for _, other := range data.Names[:i] {
				if other == name {
					nameIndex++
				}
			}
			var rule cssom.KeyframesRule
			var ruleScope *dom.TreeScope
			if sc.Keyframes != nil {
				rule, ruleScope = sc.Keyframes.FindKeyframesRule(ca.element, name)
			}
			if rule == nil {
				tracer().Debugf("%v: no @keyframes %s", ca.element, name)
				continue
			}
			decl := animationDeclaration{
				name:        name,
				nameIndex:   nameIndex,
				index:       i,
				data:        data,
				rule:        rule,
				ruleScope:   ruleScope,
				paused:      data.PlayState(i) == css.PlayStatePaused,
				writingDir:  wd,
				parentStyle: sc.ParentStyle,
			}
			decl.specified = data.ConvertToTiming(i)
			decl.timing = decl.specified
			decl.timing.TimingFunction = timing.Linear // easing moves to the keyframes
			decl.composite = css.CompositeReplace
			if cfg.AnimationComposition {
				decl.composite = data.Composition(i)
			}
			existing := -1
			for j, ra := range ca.runningAnimations {
				if ra.Name == name && ra.NameIndex == nameIndex {
					existing = j
					break
				}
			}
			if existing < 0 {
				ca.stageNewAnimation(u, &decl)
				continue
			}
			cancelled[existing] = false
			ca.stageUpdatedAnimation(u, &decl, existing, logicalMappingChange)
		}
	}
	for i, c := range cancelled {
		if c {
			tracer().Debugf("%v: cancel %s", ca.element, ca.runningAnimations[i].Animation)
			u.CancelAnimation(i, ca.runningAnimations[i].Animation)
		}
	}
	ca.calculateAnimationActiveInterpolations(u)
}

// animationDeclaration is the i-th entry of the animation-* lists.
type animationDeclaration struct {
	name        string
	nameIndex   int
	index       int
	data        *css.AnimationData
	rule        cssom.KeyframesRule
	ruleScope   *dom.TreeScope
	paused      bool
	specified   timing.Timing // as declared
	timing      timing.Timing // of the effect, with linear timing function
	composite   css.CompositeOperation
	writingDir  style.WritingDirection
	parentStyle *style.ComputedStyle
}

func (ca *CSSAnimations) buildModel(decl *animationDeclaration, tl timeline.Timeline) *keyframes.Model {
	cfg := ca.doc.config
	ctx := &keyframes.BuildContext{
		WritingDirection:      decl.writingDir,
		ParentStyle:           decl.parentStyle,
		DefaultTimingFunction: decl.specified.TimingFunction,
		Composite:             decl.composite,
		Timeline:              tl,
		Registry:              ca.doc.registry,
		AnimationComposition:  cfg.AnimationComposition,
		DisplayAnimation:      cfg.DisplayAnimation,
	}
	return keyframes.CreateModel(decl.rule, ctx)
}

func (ca *CSSAnimations) stageNewAnimation(u *CSSAnimationUpdate, decl *animationDeclaration) {
	tl := ca.ComputeTimeline(decl.data.Timeline(decl.index), u, nil)
	inherited := maybe.Just[time.Duration](0)
	if tl != nil && !tl.IsMonotonicallyIncreasing() {
		inherited = tl.CurrentTime()
	}
	effect := animation.NewInertEffect(ca.buildModel(decl, tl), decl.timing, decl.paused, inherited, 1)
	tracer().Debugf("%v: start animation %s[%d]", ca.element, decl.name, decl.nameIndex)
	u.StartAnimation(NewAnimation{
		Name:       decl.name,
		NameIndex:  decl.nameIndex,
		Index:      decl.index,
		Effect:     effect,
		Timing:     decl.specified,
		Rule:       decl.rule,
		RuleScope:  decl.ruleScope,
		Version:    decl.rule.Version(),
		Timeline:   tl,
		PlayStates: decl.data.PlayStates,
		RangeStart: decl.data.RangeStart(decl.index),
		RangeEnd:   decl.data.RangeEnd(decl.index),
	})
}

func (ca *CSSAnimations) stageUpdatedAnimation(u *CSSAnimationUpdate, decl *animationDeclaration,
	existing int, logicalMappingChange bool) {
	//
	ra := ca.runningAnimations[existing]
	a := ra.Animation
	a.SetAnimationIndex(decl.index)
	wasPaused := css.GetRepeated(ra.PlayStates, decl.index) == css.PlayStatePaused
	// Play control from script overrides animation-play-state.
	togglePause, willBePlaying := false, false
	playState := a.CalculateAnimationPlayState()
	if decl.paused != wasPaused && !a.IgnoreCSSPlayState() {
		switch playState {
		case animation.Paused:
			togglePause = !decl.paused
			willBePlaying = !decl.paused
		case animation.Running, animation.Finished:
			togglePause = decl.paused
			willBePlaying = !decl.paused
		}
	} else {
		willBePlaying = playState == animation.Running || playState == animation.Finished
	}
	tl := ra.Timeline()
	if !a.IgnoreCSSTimeline() {
		tl = ca.ComputeTimeline(decl.data.Timeline(decl.index), u, ra.Timeline())
	}
	rangeStart, rangeEnd := decl.data.RangeStart(decl.index), decl.data.RangeEnd(decl.index)
	hasNamedRangeKeyframes, compositeChanged := false, false
	if effect := a.Effect(); effect != nil && effect.Model() != nil {
		hasNamedRangeKeyframes = effect.Model().HasNamedRangeKeyframes()
		compositeChanged = effect.Model().Composite() != decl.composite
	}
	scrollOffsetsChanged := false
	if _, ok := tl.(*timeline.ViewTimeline); ok {
		scrollOffsetsChanged = !maybe.Equal(ra.ScrollOffsets, viewOffsets(tl))
	}
	needsRebuild := (hasNamedRangeKeyframes && scrollOffsetsChanged) || compositeChanged ||
		decl.rule != ra.Rule || decl.rule.Version() != ra.Version ||
		!ra.Timing.Equal(decl.specified) || decl.paused != wasPaused ||
		logicalMappingChange || tl != ra.Timeline() ||
		!animation.EqualRanges(rangeStart, ra.RangeStart()) || !animation.EqualRanges(rangeEnd, ra.RangeEnd())
	if !needsRebuild {
		return
	}
	inherited := maybe.Nothing[time.Duration]()
	if tl != nil {
		inherited = a.UnlimitedCurrentTime()
		if willBePlaying && (tl != ra.Timeline() || a.ResetsCurrentTimeOnResume()) {
			if tl.IsScrollTimeline() {
				inherited = tl.CurrentTime()
			} else if prev := ra.Timeline(); prev != nil && prev.IsScrollTimeline() {
				if t, ok := prev.CurrentTime().Get(); ok {
					// keep the progress when leaving a scroll timeline
					progress := float64(t) / float64(timeline.ScrollTimelineDuration)
					end := decl.specified.EndTime()
					if end < 0 {
						end = 0
					}
					inherited = maybe.Just(timing.ScaleDuration(end, progress))
				}
			}
		}
	}
	effect := animation.NewInertEffect(ca.buildModel(decl, tl), decl.timing, decl.paused,
		inherited, a.PlaybackRate())
	tracer().Debugf("%v: update animation %s[%d]", ca.element, decl.name, decl.nameIndex)
	u.UpdateAnimation(UpdatedAnimation{
		Index:      existing,
		Animation:  a,
		Effect:     effect,
		Timing:     decl.specified,
		Rule:       decl.rule,
		Version:    decl.rule.Version(),
		Timeline:   tl,
		PlayStates: decl.data.PlayStates,
		RangeStart: rangeStart,
		RangeEnd:   rangeEnd,
	})
	if togglePause {
		u.ToggleAnimationIndexPaused(existing)
	}
}

// calculateAnimationActiveInterpolations samples the effects of running
// animations. Animations to be started or updated contribute their inert
// effects instead, and suppressed animations are left out.
func (ca *CSSAnimations) calculateAnimationActiveInterpolations(u *CSSAnimationUpdate) {
	if len(u.newAnimations) == 0 && len(u.suppressed) == 0 {
		u.AdoptActiveInterpolationsForAnimations(ca.stack.ActiveInterpolations(
			animation.DefaultPriority, animation.CSSPropertiesOnly, nil, nil))
		return
	}
	var effects []*animation.InertEffect
	for _, na := range u.newAnimations {
		effects = append(effects, na.Effect)
	}
	for _, ua := range u.updatedAnimations {
		effects = append(effects, ua.Effect)
	}
	u.AdoptActiveInterpolationsForAnimations(ca.stack.ActiveInterpolations(
		animation.DefaultPriority, animation.CSSPropertiesOnly, effects, u.suppressed))
}
