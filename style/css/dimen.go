package css

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/npillmayer/cssanim/style"
	"github.com/npillmayer/tyse/core/dimen"
)

// ErrDimension is returned for unparsable CSS dimensions.
var ErrDimension = errors.New("invalid CSS dimension")

// PX is a CSS pixel, which is 3/4 of a point.
var PX = dimen.PT * 3 / 4

const (
	dimenNone uint32 = 0

	dimenAbsolute uint32 = 0x0001
	dimenAuto     uint32 = 0x0002
	dimenInherit  uint32 = 0x0003
	dimenInitial  uint32 = 0x0004
	kindMask      uint32 = 0x000f

	dimenEM      uint32 = 0x0100
	dimenREM     uint32 = 0x0400
	dimenVW      uint32 = 0x0500
	dimenVH      uint32 = 0x0600
	dimenPercent uint32 = 0x0900
	relativeMask uint32 = 0xff00
)

// DimenT is an option type for CSS dimensions.
type DimenT struct {
	d     dimen.DU
	rel   float64 // factor for relative units, percentage for %
	flags uint32
}

/*
type DimenT
	= Auto
	| Inherit
	| Initial
	| JustDimen dimen
	| Percentage float
	| FontRel unit
	| ViewRel unit
*/

// Auto creates a CSS dimension of value `auto`.
func Auto() DimenT {
	return DimenT{flags: dimenAuto}
}

// Inherit creates a CSS dimension of value `inherit`.
func Inherit() DimenT {
	return DimenT{flags: dimenInherit}
}

// Initial creates a CSS dimension of value `initial`.
func Initial() DimenT {
	return DimenT{flags: dimenInitial}
}

// JustDimen creates a CSS dimension with a fixed value of x.
func JustDimen(x dimen.DU) DimenT {
	return DimenT{d: x, flags: dimenAbsolute}
}

// Pixels creates a CSS dimension of n pixels.
func Pixels(n float64) DimenT {
	return JustDimen(dimen.DU(n * float64(PX)))
}

// Percentage creates a CSS dimension with a %-relative value.
func Percentage(n float64) DimenT {
	return DimenT{rel: n, flags: dimenPercent}
}

// IsNone is true for the zero value.
func (d DimenT) IsNone() bool {
	return d.flags == dimenNone
}

// IsAuto is true for `auto`.
func (d DimenT) IsAuto() bool {
	return d.flags&kindMask == dimenAuto
}

// IsAbsolute is true for fixed dimensions.
func (d DimenT) IsAbsolute() bool {
	return d.flags&kindMask == dimenAbsolute
}

// IsPercent is true for %-relative dimensions.
func (d DimenT) IsPercent() bool {
	return d.flags&relativeMask == dimenPercent
}

// IsRelative is true for dimensions which need a context to be resolved.
func (d DimenT) IsRelative() bool {
	return d.flags&relativeMask != 0
}

// Unwrap returns the fixed value of a dimension (0 for non-absolute dimensions).
func (d DimenT) Unwrap() dimen.DU {
	return d.d
}

// Percent returns the percentage of a %-relative dimension.
func (d DimenT) Percent() float64 {
	if d.IsPercent() {
		return d.rel
	}
	return 0
}

// PixelValue returns an absolute dimension in CSS pixels.
func (d DimenT) PixelValue() float64 {
	return float64(d.d) / float64(PX)
}

// Context holds the values relative units are resolved against.
type Context struct {
	FontSize     dimen.DU
	RootFontSize dimen.DU
	Viewport     [2]dimen.DU // width, height
}

// Resolve resolves relative units, except percentages, to absolute dimensions.
func (d DimenT) Resolve(ctx Context) DimenT {
	var base dimen.DU
	switch d.flags & relativeMask {
	case dimenEM:
		base = ctx.FontSize
	case dimenREM:
		base = ctx.RootFontSize
	case dimenVW:
		base = ctx.Viewport[0] / 100
	case dimenVH:
		base = ctx.Viewport[1] / 100
	default:
		return d
	}
	return JustDimen(dimen.DU(d.rel * float64(base)))
}

// ResolvePercent resolves a percentage against a base. Other dimensions are
// returned unchanged.
func (d DimenT) ResolvePercent(base dimen.DU) DimenT {
	if !d.IsPercent() {
		return d
	}
	return JustDimen(dimen.DU(d.rel / 100 * float64(base)))
}

func (d DimenT) String() string {
	switch {
	case d.IsAuto():
		return "auto"
	case d.flags&kindMask == dimenInherit:
		return "inherit"
	case d.flags&kindMask == dimenInitial:
		return "initial"
	case d.IsAbsolute():
		return ftoa(d.PixelValue()) + "px"
	case d.IsPercent():
		return ftoa(d.rel) + "%"
	}
	switch d.flags & relativeMask {
	case dimenEM:
		return ftoa(d.rel) + "em"
	case dimenREM:
		return ftoa(d.rel) + "rem"
	case dimenVW:
		return ftoa(d.rel) + "vw"
	case dimenVH:
		return ftoa(d.rel) + "vh"
	}
	return "none"
}

var units = []struct {
	suffix string
	flags  uint32
	factor float64 // in CSS pixels for absolute units
}{
	{"px", dimenAbsolute, 1},
	{"pt", dimenAbsolute, 4.0 / 3.0},
	{"pc", dimenAbsolute, 16},
	{"in", dimenAbsolute, 96},
	{"cm", dimenAbsolute, 96 / 2.54},
	{"mm", dimenAbsolute, 96 / 25.4},
	{"rem", dimenREM, 1},
	{"em", dimenEM, 1},
	{"vw", dimenVW, 1},
	{"vh", dimenVH, 1},
	{"%", dimenPercent, 1},
}

// ParseDimen parses a CSS dimension, e.g. "12px", "50%" or "auto".
// A unitless 0 is accepted.
func ParseDimen(p style.Property) (DimenT, error) {
	s := string(p.Normalized())
	switch s {
	case "auto":
		return Auto(), nil
	case "inherit":
		return Inherit(), nil
	case "initial":
		return Initial(), nil
	case "0":
		return JustDimen(0), nil
	}
	for _, u := range units {
		if !strings.HasSuffix(s, u.suffix) {
			continue
		}
		f, err := strconv.ParseFloat(strings.TrimSuffix(s, u.suffix), 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return DimenT{}, fmt.Errorf("%w: %q", ErrDimension, s)
		}
		if u.flags == dimenAbsolute {
			return Pixels(f * u.factor), nil
		}
		return DimenT{rel: f, flags: u.flags}, nil
	}
	return DimenT{}, fmt.Errorf("%w: %q", ErrDimension, s)
}

// --- Expression matching ---------------------------------------------------

// DimenPatterns holds a result value per kind of dimension.
type DimenPatterns[T any] struct {
	Auto    T
	Inherit T
	Initial T
	Just    T
	Percent T
	Default T
}

// DimenPattern starts a pattern match on d.
func DimenPattern[T any](d DimenT) *MatchExpr[T] {
	return &MatchExpr[T]{dimen: d}
}

// MatchExpr is a pattern matching expression over dimensions.
type MatchExpr[T any] struct {
	dimen DimenT
}

// OneOf selects the pattern value for the kind of dimension.
func (m *MatchExpr[T]) OneOf(patterns DimenPatterns[T]) T {
	switch m.dimen.flags & kindMask {
	case dimenAuto:
		return patterns.Auto
	case dimenAbsolute:
		return patterns.Just
	case dimenInitial:
		return patterns.Initial
	case dimenInherit:
		return patterns.Inherit
	}
	if m.dimen.IsPercent() {
		return patterns.Percent
	}
	return patterns.Default
}

func ftoa(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
