/*
Package cssom provides the CSS object model the animation engine consumes:
stylesheets, style rules and @keyframes rules.

CSS handling is de-coupled by introducing interfaces StyleSheet, Rule and
KeyframesRule. A concrete implementation may be found in sub-package
douceuradapter.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>
*/
package cssom

import "github.com/npillmayer/schuko/tracing"

// tracer traces with key 'cssanim.cssom'.
func tracer() tracing.Trace {
	return tracing.Select("cssanim.cssom")
}
