package interpolation

import (
	"testing"

	"github.com/npillmayer/cssanim/style"
	"github.com/npillmayer/cssanim/style/css"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLengthInterpolation(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cssanim.interpolation")
	defer teardown()
	//
	a, b, ok := MaybeConvertPair([]Type{Length}, "0px", "100px", nil, nil)
	require.True(t, ok)
	assert.Equal(t, style.Property("25px"), Interpolate(a, b, 0.25).Property())
	cs := style.NewComputedStyle(nil)
	cs.Set("font-size", "20px")
	a, b, ok = MaybeConvertPair([]Type{Length}, "1em", "50%", cs, cs)
	require.True(t, ok)
	assert.Equal(t, style.Property("calc(25% + 10px)"), Interpolate(a, b, 0.5).Property())
	_, _, ok = MaybeConvertPair([]Type{Length}, "auto", "10px", nil, nil)
	assert.False(t, ok)
}

func TestColorInterpolation(t *testing.T) {
	a, b, ok := MaybeConvertPair([]Type{Color}, "red", "blue", nil, nil)
	require.True(t, ok)
	assert.Equal(t, style.Property("rgb(128, 0, 128)"), Interpolate(a, b, 0.5).Property())
	a, b, ok = MaybeConvertPair([]Type{Color}, "transparent", "#ff0000", nil, nil)
	require.True(t, ok)
	assert.Equal(t, style.Property("rgba(255, 0, 0, 0.5019607843137255)"), Interpolate(a, b, 0.5).Property())
}

func TestTemplateInterpolation(t *testing.T) {
	a, b, ok := MaybeConvertPair([]Type{Template}, "rotate(0deg) scale(1)", "rotate(90deg) scale(2)", nil, nil)
	require.True(t, ok)
	assert.Equal(t, style.Property("rotate(45deg) scale(1.5)"), Interpolate(a, b, 0.5).Property())
	_, _, ok = MaybeConvertPair([]Type{Template}, "rotate(0deg)", "scale(2)", nil, nil)
	assert.False(t, ok)
	_, _, ok = MaybeConvertPair([]Type{Template}, "none", "translate3d(1px, 2px, 3px)", nil, nil)
	assert.False(t, ok)
}

func TestTypesFor(t *testing.T) {
	assert.Equal(t, []Type{Color}, TypesFor(style.Handle("background-color"), nil))
	assert.Equal(t, []Type{Length}, TypesFor(style.Handle("margin-left"), nil))
	assert.Nil(t, TypesFor(style.Handle("display"), nil))
	assert.Nil(t, TypesFor(style.Handle("--x"), nil))
	reg := style.NewPropertyRegistry()
	require.NoError(t, reg.Register(style.Registration{Name: "--x", Syntax: style.SyntaxNumber, InitialValue: "0"}))
	assert.Equal(t, []Type{Number}, TypesFor(style.Handle("--x"), reg))
}

func TestApplyComposite(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cssanim.interpolation")
	defer teardown()
	//
	h := style.Handle("left")
	ai := ActiveInterpolations{
		h: {
			&Interpolation{Property: h, From: "", To: "100px", Fraction: 0.5, Types: []Type{Length}},
			&Interpolation{Property: h, From: "10px", To: "10px", Fraction: 0.3,
				FromComposite: css.CompositeAdd, ToComposite: css.CompositeAdd, Types: []Type{Length}},
		},
	}
	base := style.NewComputedStyle(nil)
	base.Set("left", "20px")
	cs := ai.Apply(base)
	// 20px → 100px at 0.5 gives 60px, plus 10px
	assert.Equal(t, style.Property("70px"), cs.Get("left"))
	assert.Equal(t, style.Property("20px"), base.Get("left"))
	discrete := &Interpolation{Property: style.Handle("display"), From: "block", To: "none", Fraction: 0.4}
	assert.Equal(t, style.Property("block"), discrete.Apply("inline", base))
}

func TestAddAndAccumulate(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cssanim.interpolation")
	defer teardown()
	//
	under, _ := Template.MaybeConvert("rotate(30deg)", nil)
	v, _ := Template.MaybeConvert("rotate(10deg)", nil)
	if r, ok := Add(under, v); !ok || r.Property() != "rotate(30deg) rotate(10deg)" {
		t.Errorf("expected add to append transform functions, have %q", r.Property())
	}
	if r, ok := Accumulate(under, v); !ok || r.Property() != "rotate(40deg)" {
		t.Errorf("expected accumulate to sum function arguments, have %q", r.Property())
	}
	scale, _ := Template.MaybeConvert("scale(2)", nil)
	if r, ok := Accumulate(scale, v); ok || r.Property() != "rotate(10deg)" {
		t.Errorf("expected accumulate of different functions to fail, have %q", r.Property())
	}
	a, _ := Length.MaybeConvert("10px", nil)
	b, _ := Length.MaybeConvert("5px", nil)
	for _, op := range []func(Value, Value) (Value, bool){Add, Accumulate} {
		if r, ok := op(a, b); !ok || r.Property() != "15px" {
			t.Errorf("expected lengths to be summed, have %q", r.Property())
		}
	}
	//
	ip := &Interpolation{Property: style.Handle("transform"), From: "rotate(0deg)", To: "rotate(20deg)",
		Fraction: 0.5, Types: []Type{Template}}
	cases := []struct {
		op         css.CompositeOperation
		underlying style.Property
		expected   style.Property
	}{
		{css.CompositeAdd, "scale(2)", "scale(2) rotate(10deg)"},
		{css.CompositeAccumulate, "rotate(30deg)", "rotate(40deg)"},
		{css.CompositeAccumulate, "scale(2)", "rotate(10deg)"}, // falls back to replace
		{css.CompositeReplace, "scale(2)", "rotate(10deg)"},
	}
	for _, c := range cases {
		ip.FromComposite, ip.ToComposite = c.op, c.op
		if r := ip.Apply(c.underlying, nil); r != c.expected {
			t.Errorf("%s onto %q: expected %q, have %q", c.op, c.underlying, c.expected, r)
		}
	}
}
