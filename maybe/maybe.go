/*
Package maybe implements an option type. It is used throughout the animation
engine for values which may be unresolved, e.g. the current time of an
animation without a timeline or the progress of an effect outside its active
interval.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package maybe

import "fmt"

// Maybe is either Just a value or Nothing.
//
// Values may be pattern-matched:
//
//     var v float64
//     switch m := progress.Match(); m {
//     case m.Just(&v):
//         …
//     case m.Nothing():
//         …
//     }
//
type Maybe[T any] struct {
	value T
	tag   bool
}

// Just wraps a value.
func Just[T any](x T) Maybe[T] {
	return Maybe[T]{value: x, tag: true}
}

// Nothing returns an empty option.
func Nothing[T any]() Maybe[T] {
	return Maybe[T]{}
}

// IsJust is true if m holds a value.
func (m Maybe[T]) IsJust() bool {
	return m.tag
}

// IsNothing is true if m holds no value.
func (m Maybe[T]) IsNothing() bool {
	return !m.tag
}

// Get returns the value and a flag indicating presence of the value.
func (m Maybe[T]) Get() (T, bool) {
	return m.value, m.tag
}

// WithDefault returns the wrapped value or def.
func (m Maybe[T]) WithDefault(def T) T {
	if m.tag {
		return m.value
	}
	return def
}

// Map applies f to a wrapped value.
func (m Maybe[T]) Map(f func(T) T) Maybe[T] {
	if m.tag {
		return Just(f(m.value))
	}
	return m
}

func (m Maybe[T]) String() string {
	if m.tag {
		return fmt.Sprintf("Just(%v)", m.value)
	}
	return "Nothing"
}

// AndThen chains a computation which may fail.
func AndThen[T, S any](f func(T) Maybe[S], x Maybe[T]) Maybe[S] {
	if v, ok := x.Get(); ok {
		return f(v)
	}
	return Nothing[S]()
}

// Equal compares two options of comparable type.
func Equal[T comparable](a, b Maybe[T]) bool {
	if a.tag != b.tag {
		return false
	}
	return !a.tag || a.value == b.value
}

// --- Matching --------------------------------------------------------------

// Matcher is used for switch-style matching of options.
type Matcher[T any] interface {
	Just(*T) Matcher[T]
	Nothing() Matcher[T]
}

// Match returns a matcher for m.
func (m Maybe[T]) Match() Matcher[T] {
	return &matcher[T]{m: m}
}

type matcher[T any] struct {
	m Maybe[T]
}

func (mm *matcher[T]) Just(v *T) Matcher[T] {
	if mm.m.tag {
		*v = mm.m.value
		return mm
	}
	return nil
}

func (mm *matcher[T]) Nothing() Matcher[T] {
	if !mm.m.tag {
		return mm
	}
	return nil
}
