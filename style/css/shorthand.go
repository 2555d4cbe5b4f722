package css

import (
	"strconv"
	"strings"

	"github.com/npillmayer/cssanim/style"
	"github.com/npillmayer/cssanim/timing"
)

var animationLonghands = []string{
	"animation-name", "animation-duration", "animation-timing-function",
	"animation-delay", "animation-iteration-count", "animation-direction",
	"animation-fill-mode", "animation-play-state",
}

var transitionLonghands = []string{
	"transition-property", "transition-duration",
	"transition-timing-function", "transition-delay",
}

// ExpandDeclaration expands shorthand declarations into longhands. Besides
// the box shorthands known to package style, it handles `animation` and
// `transition`.
func ExpandDeclaration(key string, value style.Property) []style.KeyValue {
	switch key {
	case "animation":
		return expandList(animationLonghands, value, expandAnimationItem)
	case "transition":
		return expandList(transitionLonghands, value, expandTransitionItem)
	}
	return style.ExpandDeclaration(key, value)
}

func expandList(longhands []string, value style.Property,
	expandItem func(string) []string) []style.KeyValue {
	//
	r := make([]style.KeyValue, len(longhands))
	if value.IsCSSWideKeyword() {
		for i, l := range longhands {
			r[i] = style.KeyValue{Key: l, Value: value}
		}
		return r
	}
	columns := make([][]string, len(longhands))
	for _, item := range value.List() {
		values := expandItem(string(item))
		for i := range longhands {
			columns[i] = append(columns[i], values[i])
		}
	}
	for i, l := range longhands {
		r[i] = style.KeyValue{Key: l, Value: style.Property(strings.Join(columns[i], ", "))}
	}
	return r
}

// item values in order of transitionLonghands
func expandTransitionItem(item string) []string {
	v := []string{"all", "0s", "ease", "0s"}
	times := 0
	for _, tok := range tokenize(item) {
		if _, err := ParseTime(tok); err == nil {
			if times == 0 {
				v[1] = tok
			} else {
				v[3] = tok
			}
			times++
		} else if _, err := timing.ParseTimingFunction(tok); err == nil {
			v[2] = tok
		} else {
			v[0] = tok
		}
	}
	return v
}

// item values in order of animationLonghands
func expandAnimationItem(item string) []string {
	v := []string{"none", "0s", "ease", "0s", "1", "normal", "none", "running"}
	times := 0
	nameSet, fillSet := false, false
	for _, tok := range tokenize(item) {
		lower := strings.ToLower(tok)
		switch lower {
		case "normal", "reverse", "alternate", "alternate-reverse":
			v[5] = lower
			continue
		case "forwards", "backwards", "both":
			v[6], fillSet = lower, true
			continue
		case "running", "paused":
			v[7] = lower
			continue
		case "infinite":
			v[4] = lower
			continue
		case "none":
			if nameSet && !fillSet {
				v[6], fillSet = lower, true
			} else {
				v[0], nameSet = lower, true
			}
			continue
		}
		if _, err := ParseTime(tok); err == nil {
			if times == 0 {
				v[1] = tok
			} else {
				v[3] = tok
			}
			times++
		} else if _, err := timing.ParseTimingFunction(tok); err == nil {
			v[2] = tok
		} else if _, err := strconv.ParseFloat(tok, 64); err == nil {
			v[4] = tok
		} else {
			v[0], nameSet = tok, true
		}
	}
	return v
}

// tokenize splits at whitespace outside of parentheses.
func tokenize(s string) []string {
	var toks []string
	depth, start := 0, -1
	for i, r := range s {
		switch {
		case r == '(':
			depth++
		case r == ')':
			depth--
		case (r == ' ' || r == '\t' || r == '\n') && depth == 0:
			if start >= 0 {
				toks = append(toks, s[start:i])
				start = -1
			}
			continue
		}
		if start < 0 {
			start = i
		}
	}
	if start >= 0 {
		toks = append(toks, s[start:])
	}
	return toks
}
