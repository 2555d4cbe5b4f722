package timing

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrTimingFunction is returned for unparsable timing functions.
var ErrTimingFunction = errors.New("invalid timing function")

// TimingFunction maps an input progress to an output progress.
type TimingFunction interface {
	Evaluate(x float64) float64
	String() string
}

// EqualTimingFunctions compares timing functions by serialization. nil
// is treated as linear.
func EqualTimingFunctions(a, b TimingFunction) bool {
	return tfString(a) == tfString(b)
}

func tfString(tf TimingFunction) string {
	if tf == nil {
		return "linear"
	}
	return tf.String()
}

// --- Linear ----------------------------------------------------------------

type linearFunction struct{}

func (linearFunction) Evaluate(x float64) float64 { return x }
func (linearFunction) String() string             { return "linear" }

// Linear is the identity timing function.
var Linear TimingFunction = linearFunction{}

// --- Cubic Bézier ------------------------------------------------------------

// CubicBezier is a cubic Bézier timing function with control points
// (X1,Y1) and (X2,Y2).
type CubicBezier struct {
	X1, Y1, X2, Y2 float64
	keyword        string
}

// Predefined cubic Bézier timing functions.
var (
	Ease      TimingFunction = CubicBezier{0.25, 0.1, 0.25, 1, "ease"}
	EaseIn    TimingFunction = CubicBezier{0.42, 0, 1, 1, "ease-in"}
	EaseOut   TimingFunction = CubicBezier{0, 0, 0.58, 1, "ease-out"}
	EaseInOut TimingFunction = CubicBezier{0.42, 0, 0.58, 1, "ease-in-out"}
)

// NewCubicBezier creates a cubic Bézier timing function.
func NewCubicBezier(x1, y1, x2, y2 float64) CubicBezier {
	return CubicBezier{X1: x1, Y1: y1, X2: x2, Y2: y2}
}

func (cb CubicBezier) String() string {
	if cb.keyword != "" {
		return cb.keyword
	}
	return fmt.Sprintf("cubic-bezier(%s, %s, %s, %s)", ftoa(cb.X1), ftoa(cb.Y1),
		ftoa(cb.X2), ftoa(cb.Y2))
}

func bezier(t, p1, p2 float64) float64 {
	u := 1 - t
	return 3*u*u*t*p1 + 3*u*t*t*p2 + t*t*t
}

func bezierSlope(t, p1, p2 float64) float64 {
	u := 1 - t
	return 3*u*u*p1 + 6*u*t*(p2-p1) + 3*t*t*(1-p2)
}

// Evaluate solves the curve for x and returns y.
func (cb CubicBezier) Evaluate(x float64) float64 {
	if x <= 0 || x >= 1 {
		return cb.extrapolate(x)
	}
	// Newton-Raphson, falling back to bisection
	t := x
	for i := 0; i < 8; i++ {
		dx := bezier(t, cb.X1, cb.X2) - x
		if math.Abs(dx) < 1e-7 {
			return bezier(t, cb.Y1, cb.Y2)
		}
		slope := bezierSlope(t, cb.X1, cb.X2)
		if math.Abs(slope) < 1e-6 {
			break
		}
		t -= dx / slope
	}
	lo, hi := 0.0, 1.0
	t = x
	for i := 0; i < 64; i++ {
		v := bezier(t, cb.X1, cb.X2)
		if math.Abs(v-x) < 1e-7 {
			break
		}
		if v < x {
			lo = t
		} else {
			hi = t
		}
		t = (lo + hi) / 2
	}
	return bezier(t, cb.Y1, cb.Y2)
}

// outside of [0,1] the curve continues with its end tangents
func (cb CubicBezier) extrapolate(x float64) float64 {
	if x <= 0 {
		if cb.X1 > 0 {
			return cb.Y1 / cb.X1 * x
		}
		return 0
	}
	if cb.X2 < 1 {
		return 1 + (cb.Y2-1)/(cb.X2-1)*(x-1)
	}
	return 1
}

// --- Steps -----------------------------------------------------------------

// StepPosition is the jump position of a step timing function.
type StepPosition uint8

// Step positions.
const (
	JumpEnd StepPosition = iota
	JumpStart
	JumpNone
	JumpBoth
)

// Steps is a step timing function.
type Steps struct {
	Count    int
	Position StepPosition
	keyword  string
}

// Predefined step functions.
var (
	StepStart TimingFunction = Steps{1, JumpStart, "step-start"}
	StepEnd   TimingFunction = Steps{1, JumpEnd, "step-end"}
)

func (s Steps) String() string {
	if s.keyword != "" {
		return s.keyword
	}
	pos := ""
	switch s.Position {
	case JumpStart:
		pos = ", jump-start"
	case JumpNone:
		pos = ", jump-none"
	case JumpBoth:
		pos = ", jump-both"
	}
	return fmt.Sprintf("steps(%d%s)", s.Count, pos)
}

// Evaluate returns the step value for x.
func (s Steps) Evaluate(x float64) float64 {
	if s.Count <= 0 {
		return x
	}
	current := math.Floor(x * float64(s.Count))
	if s.Position == JumpStart || s.Position == JumpBoth {
		current++
	}
	jumps := float64(s.Count)
	switch s.Position {
	case JumpNone:
		jumps--
	case JumpBoth:
		jumps++
	}
	if x >= 0 && current < 0 {
		current = 0
	}
	if x <= 1 && current > jumps {
		current = jumps
	}
	if jumps <= 0 {
		return 0
	}
	return current / jumps
}

// --- Parsing ---------------------------------------------------------------

// ParseTimingFunction parses a CSS easing function.
func ParseTimingFunction(s string) (TimingFunction, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "linear":
		return Linear, nil
	case "ease":
		return Ease, nil
	case "ease-in":
		return EaseIn, nil
	case "ease-out":
		return EaseOut, nil
	case "ease-in-out":
		return EaseInOut, nil
	case "step-start":
		return StepStart, nil
	case "step-end":
		return StepEnd, nil
	}
	name, args, ok := splitFunction(s)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrTimingFunction, s)
	}
	switch name {
	case "cubic-bezier":
		if len(args) != 4 {
			return nil, fmt.Errorf("%w: cubic-bezier needs 4 arguments", ErrTimingFunction)
		}
		var p [4]float64
		for i, a := range args {
			f, err := strconv.ParseFloat(a, 64)
			if err != nil {
				return nil, fmt.Errorf("%w: %v", ErrTimingFunction, err)
			}
			p[i] = f
		}
		if p[0] < 0 || p[0] > 1 || p[2] < 0 || p[2] > 1 {
			return nil, fmt.Errorf("%w: x values out of range", ErrTimingFunction)
		}
		return NewCubicBezier(p[0], p[1], p[2], p[3]), nil
	case "steps":
		if len(args) < 1 || len(args) > 2 {
			return nil, fmt.Errorf("%w: steps needs 1 or 2 arguments", ErrTimingFunction)
		}
		n, err := strconv.Atoi(args[0])
		if err != nil || n < 1 {
			return nil, fmt.Errorf("%w: invalid step count %q", ErrTimingFunction, args[0])
		}
		st := Steps{Count: n}
		if len(args) == 2 {
			switch args[1] {
			case "jump-start", "start":
				st.Position = JumpStart
			case "jump-end", "end":
				st.Position = JumpEnd
			case "jump-none":
				st.Position = JumpNone
				if n < 2 {
					return nil, fmt.Errorf("%w: jump-none needs 2 steps", ErrTimingFunction)
				}
			case "jump-both":
				st.Position = JumpBoth
			default:
				return nil, fmt.Errorf("%w: step position %q", ErrTimingFunction, args[1])
			}
		}
		return st, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrTimingFunction, s)
}

func splitFunction(s string) (string, []string, bool) {
	open := strings.IndexByte(s, '(')
	if open <= 0 || !strings.HasSuffix(s, ")") {
		return "", nil, false
	}
	name := strings.TrimSpace(s[:open])
	inner := s[open+1 : len(s)-1]
	parts := strings.Split(inner, ",")
	args := make([]string, 0, len(parts))
	for _, p := range parts {
		args = append(args, strings.TrimSpace(p))
	}
	return name, args, true
}

func ftoa(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
