package cssanimations

import (
	"github.com/npillmayer/cssanim/animation"
	"github.com/npillmayer/cssanim/style"
)

// compositableFlags maps compositable properties to the flags for current
// animations and for animations running on the compositor.
var compositableFlags = []struct {
	property string
	current  style.AnimationFlags
	running  style.AnimationFlags // 0 for paint-only animations
}{
	{"opacity", style.HasCurrentOpacityAnimation, style.IsRunningOpacityAnimationOnCompositor},
	{"transform", style.HasCurrentTransformAnimation, style.IsRunningTransformAnimationOnCompositor},
	{"rotate", style.HasCurrentRotateAnimation, style.IsRunningRotateAnimationOnCompositor},
	{"scale", style.HasCurrentScaleAnimation, style.IsRunningScaleAnimationOnCompositor},
	{"translate", style.HasCurrentTranslateAnimation, style.IsRunningTranslateAnimationOnCompositor},
	{"filter", style.HasCurrentFilterAnimation, style.IsRunningFilterAnimationOnCompositor},
	{"backdrop-filter", style.HasCurrentBackdropFilterAnimation, style.IsRunningBackdropFilterAnimationOnCompositor},
	{"background-color", style.HasCurrentBackgroundColorAnimation, 0},
	{"clip-path", style.HasCurrentClipPathAnimation, 0},
}

// affecter is an effect, inert or live, which may animate a property.
type affecter interface {
	IsCurrent() bool
	Affects(h style.PropertyHandle) bool
}

// CalculateCompositorAnimationUpdate refreshes the compositor keyframe
// snapshots of running animations. Snapshots of transform animations are
// invalidated if the zoom or the viewport changes, as their values may
// depend on it.
func (ca *CSSAnimations) CalculateCompositorAnimationUpdate(u *CSSAnimationUpdate, sc *StyleChange) {
	old := ca.element.ComputedStyle()
	if sc.IsAnimationStyleChange || old == nil || old.IsDisplayNone() ||
		!old.AnimationFlags().HasCurrentCompositableAnimation() {
		return
	}
	flags := old.AnimationFlags()
	zoomChanged := (flags.Has(style.HasCurrentTranslateAnimation) || flags.Has(style.HasCurrentTransformAnimation)) &&
		old.EffectiveZoom() != sc.Style.EffectiveZoom()
	transform, translate := style.Handle("transform"), style.Handle("translate")
	for _, a := range ca.stack.Animations() {
		effect := a.Effect()
		if effect == nil || effect.Model() == nil {
			continue
		}
		model := effect.Model()
		if sc.ForceCompositorUpdate ||
			((zoomChanged || sc.ViewportResized) && (model.Affects(transform) || model.Affects(translate))) {
			model.InvalidateCompositorSnapshot()
		}
		if model.SnapshotCompositorKeyframes(sc.Style) {
			tracer().Debugf("%v: compositor keyframes of %s changed", ca.element, a)
			u.UpdateCompositorKeyframes(a)
		}
	}
}

// UpdateAnimationFlags sets the animation flags of the new style from the
// effects which will be current after the update is applied.
func (ca *CSSAnimations) UpdateAnimationFlags(u *CSSAnimationUpdate, cs *style.ComputedStyle) {
	var flags style.AnimationFlags
	bgPaint := ca.doc.config.CompositeBGColorAnimation
	mark := func(e affecter) {
		if !e.IsCurrent() {
			return
		}
		for _, cf := range compositableFlags {
			if !e.Affects(style.Handle(cf.property)) {
				continue
			}
			flags.Set(cf.current)
			if cf.current == style.HasCurrentBackgroundColorAnimation && bgPaint {
				flags.Set(style.CompositablePaintAnimationChanged)
			}
		}
	}
	for _, na := range u.newAnimations {
		mark(na.Effect)
	}
	for _, ua := range u.updatedAnimations {
		mark(ua.Effect)
	}
	for _, nt := range u.newTransitions {
		mark(nt.Effect)
	}
	cancelledTransitions := make(map[*animation.Animation]bool)
	for h := range u.cancelledTransitions {
		if rt, ok := ca.transitions[h]; ok {
			cancelledTransitions[rt.Animation] = true
		}
	}
	for _, a := range ca.stack.Animations() {
		if u.suppressed[a] || cancelledTransitions[a] || a.Effect() == nil {
			continue
		}
		mark(a.Effect())
		if bgPaint && a.CalculateAnimationPlayState() != animation.Idle && a.CompositorPending() {
			flags.Set(style.CompositablePaintAnimationChanged)
		}
	}
	for _, a := range u.compositorKeyframes {
		if !u.suppressed[a] && bgPaint {
			flags.Set(style.CompositablePaintAnimationChanged)
		}
	}
	for _, cf := range compositableFlags {
		if cf.running != 0 && flags.Has(cf.current) &&
			ca.stack.HasActiveAnimationsOnCompositor(style.Handle(cf.property)) {
			flags.Set(cf.running)
		}
	}
	cs.SetAnimationFlags(flags)
}

// SnapshotCompositorKeyframes resolves the compositor keyframes of running
// animations and of animations to be started or updated against the new
// style.
func (ca *CSSAnimations) SnapshotCompositorKeyframes(u *CSSAnimationUpdate, cs *style.ComputedStyle) {
	for _, a := range ca.stack.Animations() {
		if effect := a.Effect(); effect != nil && effect.Model() != nil {
			effect.Model().SnapshotCompositorKeyframes(cs)
		}
	}
	for _, na := range u.newAnimations {
		if m := na.Effect.Model(); m != nil {
			m.SnapshotCompositorKeyframes(cs)
		}
	}
	for _, ua := range u.updatedAnimations {
		if m := ua.Effect.Model(); m != nil {
			m.SnapshotCompositorKeyframes(cs)
		}
	}
}
