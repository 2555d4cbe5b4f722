package cssanimations

import (
	"sort"

	"github.com/npillmayer/cssanim/dom"
	"github.com/npillmayer/cssanim/style"
)

// IsAnimationAffectingProperty is true for the properties which may not
// be animated, as they control animations themselves.
func (c Config) IsAnimationAffectingProperty(name string) bool {
	return style.IsAnimationAffectingProperty(name, c.DisplayAnimation)
}

// IsAffectedByKeyframesFromScope is true if @keyframes rules of scope
// apply to element e: rules of e's own tree scope, and rules of the shadow
// tree hosted by e.
func IsAffectedByKeyframesFromScope(e *dom.Element, scope *dom.TreeScope) bool {
	if e == nil || scope == nil {
		return false
	}
	if e.TreeScope() == scope {
		return true
	}
	if scope.IsDocumentScope() {
		return false
	}
	root := scope.RootNode()
	return root != nil && root.Host() == e
}

// IsAnimatingCustomProperties is true if a current effect animates a
// custom property.
func (ca *CSSAnimations) IsAnimatingCustomProperties() bool {
	return ca.stack.AffectsProperties(func(h style.PropertyHandle) bool {
		return h.IsCSSCustomProperty()
	})
}

// IsAnimatingStandardProperties is true if a current effect animates a
// standard CSS property.
func (ca *CSSAnimations) IsAnimatingStandardProperties() bool {
	return ca.stack.AffectsProperties(func(h style.PropertyHandle) bool {
		return h.IsCSSProperty()
	})
}

// IsAnimatingFontAffectingProperties is true if a current effect animates
// a property the font depends on.
func (ca *CSSAnimations) IsAnimatingFontAffectingProperties() bool {
	return ca.stack.AffectsProperties(func(h style.PropertyHandle) bool {
		return h.IsCSSProperty() && style.AffectsFont(h.Name())
	})
}

// IsAnimatingLineHeightProperty is true if a current effect animates
// line-height.
func (ca *CSSAnimations) IsAnimatingLineHeightProperty() bool {
	lh := style.Handle("line-height")
	return ca.stack.AffectsProperties(func(h style.PropertyHandle) bool {
		return h == lh
	})
}

// IsAnimatingRevert is true if a current effect has a keyframe value of
// revert or revert-layer.
func (ca *CSSAnimations) IsAnimatingRevert() bool {
	for _, a := range ca.stack.Animations() {
		effect := a.Effect()
		if effect == nil || !effect.IsCurrent() || effect.Model() == nil {
			continue
		}
		for _, kf := range effect.Model().Keyframes() {
			for _, h := range kf.Properties() {
				v, _ := kf.Value(h)
				if n := v.Normalized(); n == "revert" || n == "revert-layer" {
					return true
				}
			}
		}
	}
	return false
}

// sortedProperties returns the properties of a set ordered by name.
func sortedProperties(set style.PropertySet) []style.PropertyHandle {
	r := make([]style.PropertyHandle, 0, len(set))
	for h := range set {
		r = append(r, h)
	}
	sort.Slice(r, func(i, j int) bool { return r[i].Name() < r[j].Name() })
	return r
}
