package cssom

import (
	"fmt"
	"strings"

	"github.com/npillmayer/cssanim/style"
	"github.com/npillmayer/cssanim/style/css"
)

// StyleSheet is an interface to abstract away a stylesheet-implementation.
// In order to de-couple implementations of CSS-stylesheets from the
// construction of styles, we introduce an interface for CSS stylesheets.
// Clients will have to provide a concrete implementation of this interface
// (e.g., see package douceuradapter).
//
// See interfaces Rule and KeyframesRule.
type StyleSheet interface {
	AppendRules(StyleSheet)          // append rules from another stylesheet
	Empty() bool                     // does this stylesheet contain any rules?
	Rules() []Rule                   // all the style rules of a stylesheet
	KeyframesRules() []KeyframesRule // all the @keyframes rules, in source order
}

// Rule is the type stylesheets consists of.
//
// See interface StyleSheet.
type Rule interface {
	Selector() string            // the prelude / selectors of the rule
	Properties() []string        // property keys, e.g. "margin-top"
	Value(string) style.Property // property value for key, e.g. "15px"
	IsImportant(string) bool     // is property key marked as important?
}

// KeyframesRule is a @keyframes rule. Its version changes whenever the
// rule is mutated, i.e. rule identity plus version tell if the keyframes
// of an animation have to be rebuilt.
type KeyframesRule interface {
	Name() string
	Keyframes() []Keyframe // keyframe blocks in source order
	Version() int
}

// Keyframe is a keyframe block of a @keyframes rule. A block may carry
// more than one offset ("0%, 100% { … }").
type Keyframe interface {
	Keys() []css.TimelineOffset // offsets, with from = 0% and to = 100%
	Properties() []string       // property keys in source order
	Value(string) style.Property
}

// ParseKeyframeKeys parses the selector of a keyframe block, e.g.
// "from, 50%" or "entry 0%, exit 100%".
func ParseKeyframeKeys(selector string) ([]css.TimelineOffset, error) {
	var keys []css.TimelineOffset
	for _, item := range strings.Split(selector, ",") {
		item = strings.TrimSpace(strings.ToLower(item))
		switch item {
		case "from":
			keys = append(keys, css.TimelineOffset{Offset: css.Percentage(0)})
			continue
		case "to":
			keys = append(keys, css.TimelineOffset{Offset: css.Percentage(100)})
			continue
		}
		o, err := css.ParseTimelineOffset(item, 0)
		if err != nil {
			return nil, err
		}
		if !o.Offset.IsPercent() || o.Offset.Percent() < 0 || o.Offset.Percent() > 100 {
			return nil, fmt.Errorf("invalid keyframe selector %q", item)
		}
		keys = append(keys, o)
	}
	if len(keys) == 0 {
		tracer().Debugf("empty keyframe selector")
	}
	return keys, nil
}
