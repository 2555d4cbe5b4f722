/*
Package tree implements a small general purpose tree of nodes carrying a payload.

Element trees of package dom are built on top of this type by composition:
an element embeds a Node and sets the payload to reference itself.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package tree

import (
	"fmt"
	"sync"
)

// Node is the base type our tree is built of.
type Node[T comparable] struct {
	parent   *Node[T]         // parent node of this node
	children childrenSlice[T] // mutex-protected slice of children nodes
	Payload  T                // nodes may carry a payload of arbitrary type
}

// NewNode creates a new tree node with a given payload.
func NewNode[T comparable](payload T) *Node[T] {
	return &Node[T]{Payload: payload}
}

func (node *Node[T]) String() string {
	return fmt.Sprintf("(Node #ch=%d %v)", node.ChildCount(), node.Payload)
}

// AddChild appends a new child node.
// The newly inserted node is connected to this node as its parent.
// It returns the parent node to allow for chaining.
func (node *Node[T]) AddChild(ch *Node[T]) *Node[T] {
	if ch != nil {
		node.children.addChild(ch, node)
	}
	return node
}

// InsertChildAt inserts a new child node at position i, shifting children
// at later positions.
// It returns the parent node to allow for chaining.
func (node *Node[T]) InsertChildAt(i int, ch *Node[T]) *Node[T] {
	if ch != nil {
		node.children.insertChildAt(i, ch, node)
	}
	return node
}

// Parent returns the parent node or nil (for the root of the tree).
func (node *Node[T]) Parent() *Node[T] {
	if node == nil {
		return nil
	}
	return node.parent
}

// Isolate removes a node from its parent.
// Isolate returns the isolated node.
func (node *Node[T]) Isolate() *Node[T] {
	if node != nil && node.parent != nil {
		node.parent.children.remove(node)
	}
	return node
}

// ChildCount returns the number of children-nodes for a node.
func (node *Node[T]) ChildCount() int {
	return node.children.length()
}

// Child returns the n-th child of a node.
func (node *Node[T]) Child(n int) (*Node[T], bool) {
	ch := node.children.child(n)
	return ch, ch != nil
}

// Children returns a slice with all children of a node.
func (node *Node[T]) Children() []*Node[T] {
	return node.children.asSlice()
}

// IndexOfChild returns the index of a child within the list of children
// of its parent, or -1.
func (node *Node[T]) IndexOfChild(ch *Node[T]) int {
	for i, child := range node.Children() {
		if ch == child {
			return i
		}
	}
	return -1
}

// PreviousSibling returns the sibling immediately before node, or nil.
func (node *Node[T]) PreviousSibling() *Node[T] {
	if node == nil || node.parent == nil {
		return nil
	}
	i := node.parent.IndexOfChild(node)
	if i <= 0 {
		return nil
	}
	ch, _ := node.parent.Child(i - 1)
	return ch
}

// NextSibling returns the sibling immediately after node, or nil.
func (node *Node[T]) NextSibling() *Node[T] {
	if node == nil || node.parent == nil {
		return nil
	}
	i := node.parent.IndexOfChild(node)
	if i < 0 {
		return nil
	}
	ch, _ := node.parent.Child(i + 1)
	return ch
}

// Walk visits node and all of its descendents in pre-order (document order).
// Walking stops early if visit returns false.
func (node *Node[T]) Walk(visit func(*Node[T]) bool) bool {
	if node == nil {
		return true
	}
	if !visit(node) {
		return false
	}
	for _, ch := range node.Children() {
		if !ch.Walk(visit) {
			return false
		}
	}
	return true
}

// --- Slices of concurrency-safe sets of children ----------------------

type childrenSlice[T comparable] struct {
	sync.RWMutex
	slice []*Node[T]
}

func (chs *childrenSlice[T]) length() int {
	chs.RLock()
	defer chs.RUnlock()
	return len(chs.slice)
}

func (chs *childrenSlice[T]) addChild(child *Node[T], parent *Node[T]) {
	chs.Lock()
	defer chs.Unlock()
	chs.slice = append(chs.slice, child)
	child.parent = parent
}

func (chs *childrenSlice[T]) insertChildAt(i int, child *Node[T], parent *Node[T]) {
	chs.Lock()
	defer chs.Unlock()
	if i < 0 {
		i = 0
	}
	if i >= len(chs.slice) {
		chs.slice = append(chs.slice, child)
	} else {
		chs.slice = append(chs.slice, nil)   // make room for one child
		copy(chs.slice[i+1:], chs.slice[i:]) // shift i+1..n
		chs.slice[i] = child
	}
	child.parent = parent
}

func (chs *childrenSlice[T]) remove(node *Node[T]) {
	chs.Lock()
	defer chs.Unlock()
	for i, ch := range chs.slice {
		if ch == node {
			chs.slice = append(chs.slice[:i], chs.slice[i+1:]...)
			node.parent = nil
			break
		}
	}
}

func (chs *childrenSlice[T]) child(n int) *Node[T] {
	chs.RLock()
	defer chs.RUnlock()
	if n < 0 || n >= len(chs.slice) {
		return nil
	}
	return chs.slice[n]
}

func (chs *childrenSlice[T]) asSlice() []*Node[T] {
	chs.RLock()
	defer chs.RUnlock()
	children := make([]*Node[T], len(chs.slice))
	copy(children, chs.slice)
	return children
}
