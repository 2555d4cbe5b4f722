package timing

import (
	"math"
	"testing"
	"time"

	"github.com/npillmayer/cssanim/maybe"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
)

func TestParseTimingFunction(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cssanim.timing")
	defer teardown()
	//
	for _, s := range []string{"ease", "linear", "steps(4)", "steps(2, jump-start)",
		"cubic-bezier(0.1, 0.7, 1, 0.1)", "step-end"} {
		tf, err := ParseTimingFunction(s)
		if err != nil {
			t.Errorf("unexpected error for %q: %v", s, err)
			continue
		}
		t.Logf("%q => %s", s, tf)
	}
	for _, s := range []string{"bounce", "cubic-bezier(2, 0, 0, 1)", "steps(0)", "steps(1, jump-none)"} {
		if _, err := ParseTimingFunction(s); err == nil {
			t.Errorf("expected error for %q", s)
		}
	}
}

func TestTimingFunctionValues(t *testing.T) {
	assert.InDelta(t, 0.5, Linear.Evaluate(0.5), 1e-9)
	assert.InDelta(t, 0.0, Ease.Evaluate(0), 1e-9)
	assert.InDelta(t, 1.0, Ease.Evaluate(1), 1e-9)
	assert.InDelta(t, 0.8024, Ease.Evaluate(0.5), 1e-3)
	assert.InDelta(t, 0.5, EaseInOut.Evaluate(0.5), 1e-3)
	st, _ := ParseTimingFunction("steps(4)")
	assert.InDelta(t, 0.25, st.Evaluate(0.3), 1e-9)
	assert.InDelta(t, 1.0, st.Evaluate(1), 1e-9)
	assert.InDelta(t, 1.0, StepStart.Evaluate(0.1), 1e-9)
	assert.True(t, EqualTimingFunctions(nil, Linear))
	assert.False(t, EqualTimingFunctions(Ease, EaseIn))
}

func TestCalculatePhases(t *testing.T) {
	tm := DefaultTiming()
	tm.IterationDuration = time.Second
	tm.StartDelay = 500 * time.Millisecond
	ct := tm.Calculate(maybe.Nothing[time.Duration](), 1)
	if ct.Phase != PhaseNone || ct.IsInEffect {
		t.Errorf("expected unresolved local time to give phase none, have %s", ct.Phase)
	}
	ct = tm.Calculate(maybe.Just(100*time.Millisecond), 1)
	if ct.Phase != PhaseBefore || ct.IsInEffect || !ct.IsCurrent {
		t.Errorf("expected before phase, not in effect; have %+v", ct)
	}
	ct = tm.Calculate(maybe.Just(time.Second), 1)
	if p, ok := ct.Progress.Get(); ct.Phase != PhaseActive || !ok || math.Abs(p-0.5) > 1e-9 {
		t.Errorf("expected active phase at 50%%, have %+v", ct)
	}
	ct = tm.Calculate(maybe.Just(2*time.Second), 1)
	if ct.Phase != PhaseAfter || ct.IsInEffect {
		t.Errorf("expected after phase without fill, have %+v", ct)
	}
	tm.FillMode = FillForwards
	ct = tm.Calculate(maybe.Just(2*time.Second), 1)
	if p, _ := ct.Progress.Get(); !ct.IsInEffect || p != 1 {
		t.Errorf("expected forwards fill with progress 1, have %+v", ct)
	}
}

func TestCalculateAlternate(t *testing.T) {
	tm := DefaultTiming()
	tm.IterationDuration = time.Second
	tm.IterationCount = 3
	tm.Direction = DirectionAlternate
	ct := tm.Calculate(maybe.Just(1250*time.Millisecond), 1)
	it, _ := ct.CurrentIteration.Get()
	p, _ := ct.Progress.Get()
	assert.Equal(t, 1.0, it)
	assert.InDelta(t, 0.75, p, 1e-9)
	tm.IterationCount = math.Inf(1)
	assert.Equal(t, Infinite, tm.ActiveDuration())
	assert.Equal(t, Infinite, tm.EndTime())
}
