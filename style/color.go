package style

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

var namedColors = map[string]color.NRGBA{
	"black":       {0, 0, 0, 0xff},
	"white":       {0xff, 0xff, 0xff, 0xff},
	"red":         {0xff, 0, 0, 0xff},
	"green":       {0, 0x80, 0, 0xff},
	"lime":        {0, 0xff, 0, 0xff},
	"blue":        {0, 0, 0xff, 0xff},
	"yellow":      {0xff, 0xff, 0, 0xff},
	"orange":      {0xff, 0xa5, 0, 0xff},
	"purple":      {0x80, 0, 0x80, 0xff},
	"gray":        {0x80, 0x80, 0x80, 0xff},
	"grey":        {0x80, 0x80, 0x80, 0xff},
	"silver":      {0xc0, 0xc0, 0xc0, 0xff},
	"navy":        {0, 0, 0x80, 0xff},
	"teal":        {0, 0x80, 0x80, 0xff},
	"maroon":      {0x80, 0, 0, 0xff},
	"powderblue":  {0xb0, 0xe0, 0xe6, 0xff},
	"transparent": {0, 0, 0, 0},
}

// Color interprets a property as a CSS color. Supported are named colors,
// hex notation (#rgb, #rgba, #rrggbb, #rrggbbaa) and rgb()/rgba().
// currentcolor and unparsable values return false.
func (p Property) Color() (color.NRGBA, bool) {
	s := string(p.Normalized())
	if c, ok := namedColors[s]; ok {
		return c, true
	}
	if strings.HasPrefix(s, "#") {
		return parseHexColor(s[1:])
	}
	if strings.HasPrefix(s, "rgb(") || strings.HasPrefix(s, "rgba(") {
		return parseRGBFunction(s)
	}
	return color.NRGBA{}, false
}

func parseHexColor(h string) (color.NRGBA, bool) {
	var digits []uint8
	switch len(h) {
	case 3, 4:
		for i := 0; i < len(h); i++ {
			v, err := strconv.ParseUint(h[i:i+1], 16, 8)
			if err != nil {
				return color.NRGBA{}, false
			}
			digits = append(digits, uint8(v*17))
		}
	case 6, 8:
		for i := 0; i < len(h); i += 2 {
			v, err := strconv.ParseUint(h[i:i+2], 16, 8)
			if err != nil {
				return color.NRGBA{}, false
			}
			digits = append(digits, uint8(v))
		}
	default:
		return color.NRGBA{}, false
	}
	c := color.NRGBA{digits[0], digits[1], digits[2], 0xff}
	if len(digits) == 4 {
		c.A = digits[3]
	}
	return c, true
}

func parseRGBFunction(s string) (color.NRGBA, bool) {
	open, close := strings.IndexByte(s, '('), strings.LastIndexByte(s, ')')
	if open < 0 || close < open {
		return color.NRGBA{}, false
	}
	args := strings.FieldsFunc(s[open+1:close], func(r rune) bool {
		return r == ',' || r == ' ' || r == '/'
	})
	if len(args) < 3 || len(args) > 4 {
		return color.NRGBA{}, false
	}
	var ch [4]uint8
	ch[3] = 0xff
	for i, a := range args {
		var f float64
		var err error
		if strings.HasSuffix(a, "%") {
			f, err = strconv.ParseFloat(strings.TrimSuffix(a, "%"), 64)
			f = f / 100 * 255
		} else {
			f, err = strconv.ParseFloat(a, 64)
			if i == 3 {
				f *= 255
			}
		}
		if err != nil {
			return color.NRGBA{}, false
		}
		ch[i] = clampByte(f)
	}
	return color.NRGBA{ch[0], ch[1], ch[2], ch[3]}, true
}

func clampByte(f float64) uint8 {
	if f <= 0 {
		return 0
	}
	if f >= 255 {
		return 255
	}
	return uint8(f + 0.5)
}

// ColorString formats a color in CSS functional notation.
func ColorString(c color.NRGBA) string {
	if c.A == 0xff {
		return fmt.Sprintf("rgb(%d, %d, %d)", c.R, c.G, c.B)
	}
	return fmt.Sprintf("rgba(%d, %d, %d, %s)", c.R, c.G, c.B,
		strconv.FormatFloat(float64(c.A)/255, 'f', -1, 64))
}
