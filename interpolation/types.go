package interpolation

import (
	"image/color"
	"math"
	"strconv"
	"strings"

	"github.com/npillmayer/cssanim/style"
	"github.com/npillmayer/cssanim/style/css"
	"github.com/npillmayer/tyse/core/dimen"
)

// Length, Number, Color and Template are the interpolation types.
var (
	Length   Type = lengthType{}
	Number   Type = numberType{}
	Color    Type = colorType{}
	Template Type = templateType{}
)

func ftoa(f float64) string {
	if math.Abs(f-math.Round(f)) < 1e-9 {
		f = math.Round(f)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// --- Lengths -----------------------------------------------------------------

// lengths are stored as (px, %) pairs
type lengthType struct{}

func (lengthType) Name() string { return "length" }

func fontSizePx(cs *style.ComputedStyle) float64 {
	if cs == nil {
		return 16
	}
	d, err := css.ParseDimen(cs.Get("font-size"))
	if err != nil || !d.IsAbsolute() {
		return 16
	}
	return d.PixelValue()
}

func (lengthType) MaybeConvert(p style.Property, cs *style.ComputedStyle) (Value, bool) {
	s := string(p.Normalized())
	if strings.HasPrefix(s, "calc(") {
		return parseCalcLength(s)
	}
	if strings.HasSuffix(s, "vw") || strings.HasSuffix(s, "vh") {
		return Value{}, false
	}
	d, err := css.ParseDimen(style.Property(s))
	if err != nil {
		return Value{}, false
	}
	if d.IsPercent() {
		return Value{typ: Length, nums: []float64{0, d.Percent()}}, true
	}
	if d.IsRelative() {
		d = d.Resolve(css.Context{
			FontSize:     dimen.DU(fontSizePx(cs) * float64(css.PX)),
			RootFontSize: dimen.DU(16 * float64(css.PX)),
		})
	}
	if !d.IsAbsolute() {
		return Value{}, false
	}
	return Value{typ: Length, nums: []float64{d.PixelValue(), 0}}, true
}

// parseCalcLength reads calc(<percent> + <px>) as produced by serialize.
func parseCalcLength(s string) (Value, bool) {
	inner := strings.TrimSuffix(strings.TrimPrefix(s, "calc("), ")")
	v := Value{typ: Length, nums: []float64{0, 0}}
	sign := 1.0
	for _, tok := range strings.Fields(inner) {
		switch tok {
		case "+":
			sign = 1
			continue
		case "-":
			sign = -1
			continue
		}
		d, err := css.ParseDimen(style.Property(tok))
		switch {
		case err != nil:
			return Value{}, false
		case d.IsPercent():
			v.nums[1] += sign * d.Percent()
		case d.IsAbsolute():
			v.nums[0] += sign * d.PixelValue()
		default:
			return Value{}, false
		}
	}
	return v, true
}

func (lengthType) compatible(a, b Value) bool { return true }

func (lengthType) serialize(v Value) style.Property {
	px, pct := v.nums[0], v.nums[1]
	switch {
	case pct == 0:
		return style.Property(ftoa(px) + "px")
	case px == 0:
		return style.Property(ftoa(pct) + "%")
	case px < 0:
		return style.Property("calc(" + ftoa(pct) + "% - " + ftoa(-px) + "px)")
	}
	return style.Property("calc(" + ftoa(pct) + "% + " + ftoa(px) + "px)")
}

// --- Numbers -----------------------------------------------------------------

type numberType struct{}

func (numberType) Name() string { return "number" }

func (numberType) MaybeConvert(p style.Property, cs *style.ComputedStyle) (Value, bool) {
	s := string(p.Normalized())
	if s == "bold" {
		s = "700"
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return Value{}, false
	}
	return Value{typ: Number, nums: []float64{f}}, true
}

func (numberType) compatible(a, b Value) bool { return true }

func (numberType) serialize(v Value) style.Property {
	return style.Property(ftoa(v.nums[0]))
}

// --- Colors ------------------------------------------------------------------

// colors are stored as premultiplied RGBA, as CSS color interpolation demands
type colorType struct{}

func (colorType) Name() string { return "color" }

func (colorType) MaybeConvert(p style.Property, cs *style.ComputedStyle) (Value, bool) {
	if p.Normalized() == "currentcolor" {
		if cs == nil {
			return Value{}, false
		}
		p = cs.Get("color")
	}
	c, ok := p.Color()
	if !ok {
		return Value{}, false
	}
	a := float64(c.A) / 255
	return Value{typ: Color, nums: []float64{
		float64(c.R) * a, float64(c.G) * a, float64(c.B) * a, a,
	}}, true
}

func (colorType) compatible(a, b Value) bool { return true }

func clamp(f, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, f))
}

func (colorType) serialize(v Value) style.Property {
	a := clamp(v.nums[3], 0, 1)
	if a == 0 {
		return style.Property(style.ColorString(color.NRGBA{}))
	}
	ch := func(f float64) uint8 {
		return uint8(clamp(f/a, 0, 255) + 0.5)
	}
	return style.Property(style.ColorString(color.NRGBA{
		R: ch(v.nums[0]), G: ch(v.nums[1]), B: ch(v.nums[2]), A: uint8(a*255 + 0.5),
	}))
}

// --- Numeric templates -------------------------------------------------------

// A numeric template splits a value into numbers and the text between them,
// e.g. "rotate(45deg) scale(1.5)" into [45 1.5] and ["rotate(", "deg) scale(", ")"].
// Values with equal text fragments interpolate number by number.
type templateType struct{}

func (templateType) Name() string { return "template" }

func (templateType) MaybeConvert(p style.Property, cs *style.ComputedStyle) (Value, bool) {
	s := string(p.Normalized())
	v := Value{typ: Template}
	var frag strings.Builder
	for i := 0; i < len(s); {
		if j := scanNumber(s, i); j > i {
			f, err := strconv.ParseFloat(s[i:j], 64)
			if err != nil {
				return Value{}, false
			}
			v.nums = append(v.nums, f)
			v.tmpl = append(v.tmpl, frag.String())
			frag.Reset()
			i = j
			continue
		}
		frag.WriteByte(s[i])
		i++
	}
	v.tmpl = append(v.tmpl, frag.String())
	return v, len(v.nums) > 0
}

// scanNumber returns the end of a number starting at i, or i. Numbers
// must not be preceded by letters, so that e.g. "translate3d" is text.
func scanNumber(s string, i int) int {
	if i > 0 {
		c := s[i-1]
		if c >= 'a' && c <= 'z' || c >= '0' && c <= '9' || c == '.' {
			return i
		}
	}
	j := i
	if j < len(s) && (s[j] == '-' || s[j] == '+') {
		j++
	}
	digits := 0
	for j < len(s) && (s[j] >= '0' && s[j] <= '9' || s[j] == '.') {
		j++
		digits++
	}
	if digits == 0 {
		return i
	}
	return j
}

func (templateType) compatible(a, b Value) bool {
	if len(a.tmpl) != len(b.tmpl) {
		return false
	}
	for i := range a.tmpl {
		if a.tmpl[i] != b.tmpl[i] {
			return false
		}
	}
	return true
}

func (templateType) serialize(v Value) style.Property {
	var b strings.Builder
	for i, f := range v.nums {
		b.WriteString(v.tmpl[i])
		b.WriteString(ftoa(f))
	}
	b.WriteString(v.tmpl[len(v.tmpl)-1])
	return style.Property(b.String())
}
