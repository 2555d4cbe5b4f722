package keyframes

import (
	"sort"

	"github.com/npillmayer/cssanim/style"
	"github.com/npillmayer/cssanim/style/css"
	"github.com/npillmayer/cssanim/style/cssom"
	"github.com/npillmayer/cssanim/timeline"
	"github.com/npillmayer/cssanim/timing"
)

// BuildContext holds everything keyframe construction depends on, besides
// the @keyframes rule.
type BuildContext struct {
	WritingDirection      style.WritingDirection // maps logical properties to physical ones
	ParentStyle           *style.ComputedStyle   // resolves animation-timing-function: inherit
	DefaultTimingFunction timing.TimingFunction  // from animation-timing-function of the element
	Composite             css.CompositeOperation // from animation-composition of the element
	Timeline              timeline.Timeline      // resolves named-range offsets, may be nil
	Registry              *style.PropertyRegistry
	AnimationComposition  bool // honour animation-composition inside keyframe blocks
	DisplayAnimation      bool // display is animatable
}

func (ctx *BuildContext) defaultEasing() timing.TimingFunction {
	if ctx.DefaultTimingFunction == nil {
		return timing.Ease
	}
	return ctx.DefaultTimingFunction
}

// resolveOffset converts a keyframe selector key to a fractional offset.
// Named-range keys need a view timeline; without one they are unresolved.
func (ctx *BuildContext) resolveOffset(key css.TimelineOffset, hasNamedRange *bool) (float64, bool) {
	if key.Name == css.RangeNone {
		return key.Offset.Percent() / 100, true
	}
	*hasNamedRange = true
	if vt, ok := ctx.Timeline.(*timeline.ViewTimeline); ok {
		return vt.ToFractionalOffset(key).Get()
	}
	return 0, false
}

// ProcessKeyframesRule extracts keyframes from a @keyframes rule: one
// keyframe per key of every keyframe block, stably sorted by offset.
// Keyframes whose offset cannot be resolved are dropped.
// hasNamedRange reports keyframes with named-range offsets.
func ProcessKeyframesRule(rule cssom.KeyframesRule, ctx *BuildContext) (kfs []*Keyframe, hasNamedRange bool) {
	for _, block := range rule.Keyframes() {
		keys := block.Keys()
		if len(keys) == 0 {
			continue
		}
		proto := NewKeyframe(0)
		proto.SetEasing(ctx.defaultEasing())
		for _, key := range block.Properties() {
			for _, kv := range css.ExpandDeclaration(key, block.Value(key)) {
				ctx.classifyDeclaration(proto, kv)
			}
		}
		for _, key := range keys {
			offset, ok := ctx.resolveOffset(key, &hasNamedRange)
			if !ok {
				tracer().Debugf("@keyframes %s: dropping keyframe %s without view timeline", rule.Name(), key)
				continue
			}
			kfs = append(kfs, proto.CloneWithOffset(offset))
		}
	}
	sort.SliceStable(kfs, func(i, j int) bool { return kfs[i].offset < kfs[j].offset })
	return kfs, hasNamedRange
}

func (ctx *BuildContext) classifyDeclaration(kf *Keyframe, kv style.KeyValue) {
	switch kv.Key {
	case "animation-composition":
		if !ctx.AnimationComposition {
			return
		}
		items := kv.Value.List()
		if len(items) == 0 {
			return
		}
		if c, ok := css.ParseCompositeOperation(string(items[0])); ok {
			kf.SetComposite(c)
		}
	case "animation-timing-function":
		v := kv.Value.Normalized()
		switch {
		case v.IsInherit() && ctx.ParentStyle != nil && css.AnimationDataFrom(ctx.ParentStyle) != nil:
			kf.SetEasing(css.AnimationDataFrom(ctx.ParentStyle).FirstTimingFunction())
		case v.IsCSSWideKeyword():
			kf.SetEasing(timing.Ease)
		default:
			items := v.List()
			if len(items) == 0 {
				return
			}
			tf, err := timing.ParseTimingFunction(string(items[0]))
			if err != nil {
				tracer().Infof("keyframe easing: %v", err)
				return
			}
			kf.SetEasing(tf)
		}
	default:
		if style.IsAnimationAffectingProperty(kv.Key, ctx.DisplayAnimation) {
			return
		}
		name := ctx.WritingDirection.ResolveDirectionAware(kv.Key)
		kf.SetValue(style.Handle(name), kv.Value)
	}
}

// NeedsBoundaryKeyframe tells if a synthetic keyframe has to be inserted at
// offset (0 or 1), given the candidate keyframe nearest to that offset.
// boundingProps are the properties present at offset.
func NeedsBoundaryKeyframe(candidate *Keyframe, offset float64, animatedProps, boundingProps style.PropertySet,
	defaultEasing timing.TimingFunction, composite css.CompositeOperation) bool {
	//
	if candidate == nil || candidate.offset != offset {
		return true
	}
	if len(boundingProps) == len(animatedProps) {
		return false
	}
	// no keyframe composite and a model composite of replace count as replace
	if candidate.composite.WithDefault(composite) != css.CompositeReplace {
		return true
	}
	return !sameEasing(candidate.easing, defaultEasing)
}

// CreateModel builds the keyframe effect model of an animation from a
// @keyframes rule.
func CreateModel(rule cssom.KeyframesRule, ctx *BuildContext) *Model {
	kfs, hasNamedRange := ProcessKeyframesRule(rule, ctx)
	defaultEasing := ctx.defaultEasing()
	animated := make(style.PropertySet)
	startProps := make(style.PropertySet)
	endProps := make(style.PropertySet)
	current := make(style.PropertySet) // properties set at the current offset
	lastOffset := 1.0
	// Iterate in reverse, building the merged list in reverse as well.
	// Keyframes with equal offset, easing and composite merge into the one
	// processed first, i.e. the one latest in source order.
	var merged []*Keyframe
	for i := len(kfs) - 1; i >= 0; i-- {
		kf := kfs[i]
		if kf.offset != lastOffset {
			current = make(style.PropertySet)
			lastOffset = kf.offset
		}
		target := findMatchingKeyframe(merged, kf)
		if target == nil {
			target = &Keyframe{offset: kf.offset, easing: kf.easing, composite: kf.composite}
			merged = append(merged, target)
		}
		for _, h := range kf.order {
			if current.Contains(h) {
				continue // a later declaration at this offset wins
			}
			target.SetValue(h, kf.values[h])
			current.Insert(h)
			animated.Insert(h)
			if kf.offset == 0 {
				startProps.Insert(h)
			} else if kf.offset == 1 {
				endProps.Insert(h)
			}
		}
	}
	result := make([]*Keyframe, 0, len(merged)+2)
	for i := len(merged) - 1; i >= 0; i-- {
		result = append(result, merged[i])
	}
	var start *Keyframe
	if len(result) > 0 {
		start = result[0]
	}
	if NeedsBoundaryKeyframe(start, 0, animated, startProps, defaultEasing, ctx.Composite) {
		start = syntheticKeyframe(0, defaultEasing)
		result = append([]*Keyframe{start}, result...)
	}
	end := result[len(result)-1]
	if NeedsBoundaryKeyframe(end, 1, animated, endProps, defaultEasing, ctx.Composite) {
		result = append(result, syntheticKeyframe(1, defaultEasing))
	}
	m := NewModel(result, ctx.Composite, hasNamedRange, ctx.Registry)
	tracer().Debugf("@keyframes %s => %s", rule.Name(), m)
	return m
}

func syntheticKeyframe(offset float64, easing timing.TimingFunction) *Keyframe {
	kf := NewKeyframe(offset)
	kf.SetEasing(easing)
	kf.SetComposite(css.CompositeReplace)
	return kf
}

// findMatchingKeyframe searches the already merged keyframes for one with
// equal offset, easing and composite operation.
func findMatchingKeyframe(merged []*Keyframe, kf *Keyframe) *Keyframe {
	for i := len(merged) - 1; i >= 0; i-- {
		m := merged[i]
		if m.offset > kf.offset {
			break
		}
		if m.offset == kf.offset && sameEasing(m.easing, kf.easing) &&
			sameComposite(m, kf) {
			return m
		}
	}
	return nil
}

func sameComposite(a, b *Keyframe) bool {
	ca, oka := a.composite.Get()
	cb, okb := b.composite.Get()
	return oka == okb && ca == cb
}
