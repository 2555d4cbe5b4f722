package cssanimations

import "fmt"

// Config holds the feature switches of the engine.
type Config struct {
	AnimationComposition      bool // honour animation-composition, also inside @keyframes
	TreeScopedTimelines       bool // timeline names are matched by tree-scope proximity
	DisplayAnimation          bool // display may be animated
	CompositeBGColorAnimation bool // background-color animations run on the compositor
	Assertions                bool // invariant violations panic instead of being logged
}

// DefaultConfig returns the default configuration, with animation
// composition and tree-scoped timelines enabled.
func DefaultConfig() Config {
	return Config{
		AnimationComposition: true,
		TreeScopedTimelines:  true,
	}
}

// assert checks an invariant. If it does not hold, it panics when
// assertions are enabled and logs an error otherwise. It returns the
// condition, so callers may skip the offending entry.
func (c Config) assert(cond bool, format string, args ...interface{}) bool {
	if cond {
		return true
	}
	msg := fmt.Sprintf(format, args...)
	tracer().Errorf("invariant violated: %s", msg)
	if c.Assertions {
		panic("cssanimations: " + msg)
	}
	return false
}
