/*
Package dom provides the element tree the animation engine runs on.

Tree Implementation

Elements are implemented on top of a general purpose tree type
(package tree). In a fully object oriented programming language we would
subclass the tree node type, but in Go we resort to composition, thus
including a generic tree node in every element. The payload of the tree
node always references the element itself.

Tree Scopes

A document and every shadow root form a tree scope. Tree scopes are
nested: the parent of a shadow root's scope is the scope of its host.
Named CSS identifiers, like timeline names, may be scoped to a tree scope
and are matched across scopes by tree-scope distance.

Flat Tree

Traversals which have to follow the rendered structure (e.g., looking up
named timelines from siblings and ancestors) use the flat tree: the
children of a shadow host are the children of its shadow root, and light
children of a host appear at the <slot> they are assigned to.

___________________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package dom

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer will return a tracer. We are tracing to 'cssanim.dom'
func tracer() tracing.Trace {
	return tracing.Select("cssanim.dom")
}
