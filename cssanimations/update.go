package cssanimations

import (
	"sort"

	"github.com/npillmayer/cssanim/animation"
	"github.com/npillmayer/cssanim/dom"
	"github.com/npillmayer/cssanim/interpolation"
	"github.com/npillmayer/cssanim/maybe"
	"github.com/npillmayer/cssanim/style"
	"github.com/npillmayer/cssanim/style/css"
	"github.com/npillmayer/cssanim/style/cssom"
	"github.com/npillmayer/cssanim/timeline"
	"github.com/npillmayer/cssanim/timing"
)

// NewAnimation describes a CSS animation to be started.
type NewAnimation struct {
	Name       string
	NameIndex  int // n-th occurence of Name in animation-name
	Index      int // position in animation-name
	Effect     *animation.InertEffect
	Timing     timing.Timing // as specified, including the timing function
	Rule       cssom.KeyframesRule
	RuleScope  *dom.TreeScope
	Version    int
	Timeline   timeline.Timeline // nil for animation-timeline: none
	PlayStates []css.PlayState
	RangeStart maybe.Maybe[css.TimelineOffset]
	RangeEnd   maybe.Maybe[css.TimelineOffset]
}

// UpdatedAnimation describes a change of a running CSS animation.
type UpdatedAnimation struct {
	Index      int // position in the list of running animations
	Animation  *animation.Animation
	Effect     *animation.InertEffect
	Timing     timing.Timing
	Rule       cssom.KeyframesRule
	Version    int
	Timeline   timeline.Timeline
	PlayStates []css.PlayState
	RangeStart maybe.Maybe[css.TimelineOffset]
	RangeEnd   maybe.Maybe[css.TimelineOffset]
}

// NewTransition describes a CSS transition to be started.
type NewTransition struct {
	Property               style.PropertyHandle
	From, To               style.Property
	ReversingAdjustedStart style.Property
	ShorteningFactor       float64
	Effect                 *animation.InertEffect
}

// CSSAnimationUpdate is the set of changes computed by a style change for
// an element. It is applied by CSSAnimations.MaybeApplyPendingUpdate.
type CSSAnimationUpdate struct {
	newAnimations         []NewAnimation
	updatedAnimations     []UpdatedAnimation
	cancelledIndices      []int
	suppressed            map[*animation.Animation]bool
	pauseToggled          []int
	newTransitions        map[style.PropertyHandle]*NewTransition
	cancelledTransitions  style.PropertySet
	finishedTransitions   style.PropertySet
	compositorKeyframes   []*animation.Animation
	changedScrollTimeline TimelineMap[*timeline.ScrollTimeline]
	changedViewTimeline   TimelineMap[*timeline.ViewTimeline]
	animInterpolations    interpolation.ActiveInterpolations
	transInterpolations   interpolation.ActiveInterpolations
}

// StartAnimation records a new CSS animation.
func (u *CSSAnimationUpdate) StartAnimation(na NewAnimation) {
	u.newAnimations = append(u.newAnimations, na)
}

// UpdateAnimation records a change of the running animation at position
// ua.Index. Its current effect is suppressed until the change is applied.
func (u *CSSAnimationUpdate) UpdateAnimation(ua UpdatedAnimation) {
	u.updatedAnimations = append(u.updatedAnimations, ua)
	u.suppress(ua.Animation)
}

// CancelAnimation records the cancellation of the running animation at
// position index.
func (u *CSSAnimationUpdate) CancelAnimation(index int, a *animation.Animation) {
	u.cancelledIndices = append(u.cancelledIndices, index)
	u.suppress(a)
}

func (u *CSSAnimationUpdate) suppress(a *animation.Animation) {
	if u.suppressed == nil {
		u.suppressed = make(map[*animation.Animation]bool)
	}
	u.suppressed[a] = true
}

// ToggleAnimationIndexPaused records a change of animation-play-state for
// the running animation at position index.
func (u *CSSAnimationUpdate) ToggleAnimationIndexPaused(index int) {
	u.pauseToggled = append(u.pauseToggled, index)
}

// StartTransition records a new transition, replacing an earlier one for
// the same property.
func (u *CSSAnimationUpdate) StartTransition(nt *NewTransition) {
	if u.newTransitions == nil {
		u.newTransitions = make(map[style.PropertyHandle]*NewTransition)
	}
	u.newTransitions[nt.Property] = nt
}

// UnstartTransition drops a transition recorded for h.
func (u *CSSAnimationUpdate) UnstartTransition(h style.PropertyHandle) {
	delete(u.newTransitions, h)
}

// CancelTransition records the cancellation of the running transition of h.
func (u *CSSAnimationUpdate) CancelTransition(h style.PropertyHandle) {
	if u.cancelledTransitions == nil {
		u.cancelledTransitions = make(style.PropertySet)
	}
	u.cancelledTransitions.Insert(h)
}

// FinishTransition records that the running transition of h has finished.
func (u *CSSAnimationUpdate) FinishTransition(h style.PropertyHandle) {
	if u.finishedTransitions == nil {
		u.finishedTransitions = make(style.PropertySet)
	}
	u.finishedTransitions.Insert(h)
}

// UpdateCompositorKeyframes records an animation with changed compositor
// keyframe snapshots.
func (u *CSSAnimationUpdate) UpdateCompositorKeyframes(a *animation.Animation) {
	u.compositorKeyframes = append(u.compositorKeyframes, a)
}

// SetChangedScrollTimelines records named scroll timelines to be created,
// replaced or (with nil values) removed.
func (u *CSSAnimationUpdate) SetChangedScrollTimelines(tm TimelineMap[*timeline.ScrollTimeline]) {
	u.changedScrollTimeline = tm
}

// SetChangedViewTimelines records named view timelines to be created,
// replaced or (with nil values) removed.
func (u *CSSAnimationUpdate) SetChangedViewTimelines(tm TimelineMap[*timeline.ViewTimeline]) {
	u.changedViewTimeline = tm
}

// ChangedScrollTimelines returns the changed named scroll timelines.
func (u *CSSAnimationUpdate) ChangedScrollTimelines() *TimelineMap[*timeline.ScrollTimeline] {
	return &u.changedScrollTimeline
}

// ChangedViewTimelines returns the changed named view timelines.
func (u *CSSAnimationUpdate) ChangedViewTimelines() *TimelineMap[*timeline.ViewTimeline] {
	return &u.changedViewTimeline
}

// AdoptActiveInterpolationsForAnimations stores the interpolations of
// CSS animations.
func (u *CSSAnimationUpdate) AdoptActiveInterpolationsForAnimations(ai interpolation.ActiveInterpolations) {
	u.animInterpolations = ai
}

// AdoptActiveInterpolationsForTransitions stores the interpolations of
// CSS transitions.
func (u *CSSAnimationUpdate) AdoptActiveInterpolationsForTransitions(ai interpolation.ActiveInterpolations) {
	u.transInterpolations = ai
}

// ActiveInterpolationsForAnimations returns the interpolations of CSS animations.
func (u *CSSAnimationUpdate) ActiveInterpolationsForAnimations() interpolation.ActiveInterpolations {
	return u.animInterpolations
}

// ActiveInterpolationsForTransitions returns the interpolations of CSS transitions.
func (u *CSSAnimationUpdate) ActiveInterpolationsForTransitions() interpolation.ActiveInterpolations {
	return u.transInterpolations
}

// NewAnimations returns the animations to start.
func (u *CSSAnimationUpdate) NewAnimations() []NewAnimation { return u.newAnimations }

// UpdatedAnimations returns the changes of running animations.
func (u *CSSAnimationUpdate) UpdatedAnimations() []UpdatedAnimation { return u.updatedAnimations }

// CancelledAnimationIndices returns the positions of running animations to
// cancel, in ascending order.
func (u *CSSAnimationUpdate) CancelledAnimationIndices() []int { return u.cancelledIndices }

// PauseToggledIndices returns the positions of running animations whose
// play state changes.
func (u *CSSAnimationUpdate) PauseToggledIndices() []int { return u.pauseToggled }

// SuppressedAnimations returns the running animations whose effect is
// replaced or removed by the update.
func (u *CSSAnimationUpdate) SuppressedAnimations() map[*animation.Animation]bool {
	return u.suppressed
}

// NewTransitions returns the transitions to start, ordered by property.
func (u *CSSAnimationUpdate) NewTransitions() []*NewTransition {
	r := make([]*NewTransition, 0, len(u.newTransitions))
	for _, nt := range u.newTransitions {
		r = append(r, nt)
	}
	sort.Slice(r, func(i, j int) bool { return r[i].Property.Name() < r[j].Property.Name() })
	return r
}

// NewTransition returns the transition to start for h, or nil.
func (u *CSSAnimationUpdate) NewTransition(h style.PropertyHandle) *NewTransition {
	return u.newTransitions[h]
}

// CancelledTransitions returns the properties of transitions to cancel.
func (u *CSSAnimationUpdate) CancelledTransitions() style.PropertySet { return u.cancelledTransitions }

// FinishedTransitions returns the properties of finished transitions.
func (u *CSSAnimationUpdate) FinishedTransitions() style.PropertySet { return u.finishedTransitions }

// UpdatedCompositorKeyframes returns the animations with changed snapshots.
func (u *CSSAnimationUpdate) UpdatedCompositorKeyframes() []*animation.Animation {
	return u.compositorKeyframes
}

// HasUpdates is true if applying the update changes any animation state.
func (u *CSSAnimationUpdate) HasUpdates() bool {
	return len(u.newAnimations) > 0 || len(u.cancelledIndices) > 0 ||
		len(u.updatedAnimations) > 0 || len(u.pauseToggled) > 0 ||
		len(u.newTransitions) > 0 || len(u.cancelledTransitions) > 0 ||
		len(u.finishedTransitions) > 0 || len(u.compositorKeyframes) > 0 ||
		!u.changedScrollTimeline.IsEmpty() || !u.changedViewTimeline.IsEmpty()
}

// IsEmpty is true if there are neither updates nor active interpolations.
func (u *CSSAnimationUpdate) IsEmpty() bool {
	return !u.HasUpdates() && len(u.animInterpolations) == 0 && len(u.transInterpolations) == 0
}

// Clear resets the update.
func (u *CSSAnimationUpdate) Clear() {
	*u = CSSAnimationUpdate{}
}
