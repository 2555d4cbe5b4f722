package maybe_test

import (
	"testing"
	"time"

	. "github.com/npillmayer/cssanim/maybe"
)

func TestMaybeSimple(t *testing.T) {
	x := Just(7) // infers type
	y := Nothing[int]()

	var v int
	switch m := x.Match(); m {
	case m.Just(&v):
		t.Logf("Just(%d)", v)
	case m.Nothing():
		t.Logf("Nothing")
	}
	if v != 7 {
		t.Errorf("expected v to be 7, is %#v", v)
	}

	var w int
	matchedNothing := false
	switch m := y.Match(); m {
	case m.Just(&w):
		t.Logf("Just(%d)", w)
	case m.Nothing():
		matchedNothing = true
	}
	if w != 0 || !matchedNothing {
		t.Errorf("expected Nothing to match, w is %#v", w)
	}
}

func TestMaybeWithDefault(t *testing.T) {
	if xx := Just(7).WithDefault(100); xx != 7 {
		t.Errorf("expected Just(7) to have value 7, has %d", xx)
	}
	if yy := Nothing[int]().WithDefault(100); yy != 100 {
		t.Errorf("expected Nothing to default to 100, is %d", yy)
	}
}

func TestMaybeMap(t *testing.T) {
	xx := Just(time.Second).Map(func(d time.Duration) time.Duration {
		return d * 2
	})
	if v, ok := xx.Get(); !ok || v != 2*time.Second {
		t.Errorf("expected Just(1s).Map(…) to return 2s, is %v", xx)
	}
	yy := Nothing[float64]().Map(func(f float64) float64 { return f * 2 })
	if yy.IsJust() {
		t.Error("expected Nothing.Map(…) to stay Nothing")
	}
}

func TestMaybeAndThenEqual(t *testing.T) {
	gt0 := func(n int) Maybe[bool] {
		if n > 0 {
			return Just(true)
		}
		return Nothing[bool]()
	}
	if !Equal(AndThen(gt0, Just(7)), Just(true)) {
		t.Error("expected Just(7) |> andThen(gt0) to be true, isn't")
	}
	if AndThen(gt0, Just(-1)).IsJust() {
		t.Error("expected Just(-1) |> andThen(gt0) to be Nothing")
	}
	if Equal(Just(0.5), Nothing[float64]()) {
		t.Error("Just and Nothing must not be equal")
	}
}
