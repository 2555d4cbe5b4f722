package style

import "strings"

// WritingMode is the CSS writing-mode.
type WritingMode uint8

// Writing modes.
const (
	HorizontalTB WritingMode = iota
	VerticalRL
	VerticalLR
)

// TextDirection is the CSS direction.
type TextDirection uint8

// Text directions.
const (
	LTR TextDirection = iota
	RTL
)

// WritingDirection combines writing-mode and direction. It is the context
// needed to map logical properties to physical ones.
type WritingDirection struct {
	Mode      WritingMode
	Direction TextDirection
}

// ParseWritingMode converts a writing-mode value.
func ParseWritingMode(p Property) WritingMode {
	switch p.Normalized() {
	case "vertical-rl", "sideways-rl", "tb-rl", "tb":
		return VerticalRL
	case "vertical-lr", "sideways-lr":
		return VerticalLR
	}
	return HorizontalTB
}

// ParseDirection converts a direction value.
func ParseDirection(p Property) TextDirection {
	if p.Normalized() == "rtl" {
		return RTL
	}
	return LTR
}

func (wd WritingDirection) isHorizontal() bool {
	return wd.Mode == HorizontalTB
}

// physical sides, clockwise
var sides = [4]string{"top", "right", "bottom", "left"}

// side indices for block-start/end and inline-start/end
func (wd WritingDirection) logicalSides() (blockStart, blockEnd, inlineStart, inlineEnd int) {
	switch wd.Mode {
	case VerticalRL:
		blockStart, blockEnd = 1, 3
		inlineStart, inlineEnd = 0, 2
	case VerticalLR:
		blockStart, blockEnd = 3, 1
		inlineStart, inlineEnd = 0, 2
	default:
		blockStart, blockEnd = 0, 2
		inlineStart, inlineEnd = 3, 1
	}
	if wd.Direction == RTL {
		inlineStart, inlineEnd = inlineEnd, inlineStart
	}
	return
}

// ResolveDirectionAware maps a logical property name to its physical
// counterpart, e.g. in a horizontal left-to-right context
//
//     margin-inline-start => margin-left
//
// Physical property names are returned unchanged.
func (wd WritingDirection) ResolveDirectionAware(name string) string {
	if !IsLogicalProperty(name) {
		return name
	}
	switch name {
	case "inline-size":
		if wd.isHorizontal() {
			return "width"
		}
		return "height"
	case "block-size":
		if wd.isHorizontal() {
			return "height"
		}
		return "width"
	}
	bs, be, is, ie := wd.logicalSides()
	prefix, logical := splitLogical(name)
	var side string
	switch logical {
	case "block-start":
		side = sides[bs]
	case "block-end":
		side = sides[be]
	case "inline-start":
		side = sides[is]
	case "inline-end":
		side = sides[ie]
	default:
		tracer().Errorf("cannot resolve logical property %s", name)
		return name
	}
	if prefix == "inset" {
		return side
	}
	return prefix + "-" + side
}

func splitLogical(name string) (string, string) {
	for _, l := range []string{"block-start", "block-end", "inline-start", "inline-end"} {
		if strings.HasSuffix(name, "-"+l) {
			return strings.TrimSuffix(name, "-"+l), l
		}
	}
	return name, ""
}
