package style

import (
	"fmt"
	"strings"
)

var shorthands = map[string][4]string{
	"margin":       {"margin-top", "margin-right", "margin-bottom", "margin-left"},
	"padding":      {"padding-top", "padding-right", "padding-bottom", "padding-left"},
	"inset":        {"top", "right", "bottom", "left"},
	"border-color": {"border-top-color", "border-right-color", "border-bottom-color", "border-left-color"},
	"border-width": {"border-top-width", "border-right-width", "border-bottom-width", "border-left-width"},
	"border-style": {"border-top-style", "border-right-style", "border-bottom-style", "border-left-style"},
}

// IsShorthand is true for the four-sided shorthand properties this engine expands.
func IsShorthand(key string) bool {
	_, ok := shorthands[key]
	return ok
}

// Longhands returns the longhand properties of a shorthand, or nil if key is
// not a shorthand.
func Longhands(key string) []string {
	l, ok := shorthands[key]
	if !ok {
		return nil
	}
	return l[:]
}

// SplitCompoundProperty splits up a shortcut property into its individual
// components. Returns a slice of key-value pairs representing the
// individual (fine grained) style properties.
// Example:
//    SplitCompountProperty("padding", "3px")
// will return
//    "padding-top"    => "3px"
//    "padding-right"  => "3px"
//    "padding-bottom" => "3px"
//    "padding-left  " => "3px"
// For the logic behind this, refer to e.g.
// https://www.w3schools.com/css/css_padding.asp .
func SplitCompoundProperty(key string, value Property) ([]KeyValue, error) {
	longhands, ok := shorthands[key]
	if !ok {
		return nil, fmt.Errorf("not recognized as compound property: %s", key)
	}
	if value.IsCSSWideKeyword() {
		r := make([]KeyValue, 4)
		for i := range r {
			r[i] = KeyValue{longhands[i], value}
		}
		return r, nil
	}
	return feazeCompound4(key, longhands, strings.Fields(value.String()))
}

// CSS logic to distribute individual values from compound shortcuts is as
// follows: https://www.w3schools.com/css/css_border.asp
func feazeCompound4(key string, longhands [4]string, fields []string) ([]KeyValue, error) {
	l := len(fields)
	if l == 0 || l > 4 {
		return nil, fmt.Errorf("expecting 1-4 values for %s", key)
	}
	r := make([]KeyValue, 4)
	r[0] = KeyValue{longhands[0], Property(fields[0])}
	if l >= 2 {
		r[1] = KeyValue{longhands[1], Property(fields[1])}
		if l >= 3 {
			r[2] = KeyValue{longhands[2], Property(fields[2])}
			if l == 4 {
				r[3] = KeyValue{longhands[3], Property(fields[3])}
			} else {
				r[3] = KeyValue{longhands[3], Property(fields[1])}
			}
		} else {
			r[2] = KeyValue{longhands[2], Property(fields[0])}
			r[3] = KeyValue{longhands[3], Property(fields[1])}
		}
	} else {
		r[1] = KeyValue{longhands[1], Property(fields[0])}
		r[2] = KeyValue{longhands[2], Property(fields[0])}
		r[3] = KeyValue{longhands[3], Property(fields[0])}
	}
	return r, nil
}

// ExpandDeclaration expands a declaration into longhand declarations.
// Non-shorthand declarations are returned as is. Invalid shorthand values
// are dropped with a trace message.
func ExpandDeclaration(key string, value Property) []KeyValue {
	if !IsShorthand(key) {
		return []KeyValue{{key, value}}
	}
	kv, err := SplitCompoundProperty(key, value)
	if err != nil {
		tracer().Infof("dropping declaration %s: %v", key, err)
		return nil
	}
	return kv
}
