package dom

// The flat tree is the composed tree as rendered: the children of a shadow
// host are the children of its shadow root, and light children of a host
// are reparented to the <slot> they are assigned to. Light children of a
// host without a matching slot are not part of the flat tree.

// AssignedSlot returns the slot a light child of a shadow host is assigned
// to, or nil. A child with a "slot" attribute is assigned to the first slot
// with this name; other children go to the first slot without a name.
func (e *Element) AssignedSlot() *Element {
	host := e.ParentElement()
	if host == nil || host.shadowRoot == nil {
		return nil
	}
	want, _ := e.Attr("slot")
	var slot *Element
	for _, ch := range host.shadowRoot.ChildElements() {
		ch.WalkComposed(func(n *Element) bool {
			if n.tag != "slot" {
				return true
			}
			if name, _ := n.Attr("name"); name == want {
				slot = n
				return false
			}
			return true
		})
		if slot != nil {
			break
		}
	}
	return slot
}

// AssignedNodes returns the light children of the host assigned to a slot.
func (e *Element) AssignedNodes() []*Element {
	if e.tag != "slot" || e.scope == nil || e.scope.root.host == nil {
		return nil
	}
	host := e.scope.root.host
	var nodes []*Element
	for _, ch := range host.ChildElements() {
		if ch.AssignedSlot() == e {
			nodes = append(nodes, ch)
		}
	}
	return nodes
}

// FlatTreeParent returns the parent element in the flat tree.
func (e *Element) FlatTreeParent() *Element {
	p := e.Parent()
	if p == nil {
		return nil
	}
	switch p.kind {
	case ShadowRootNode:
		return p.host
	case DocumentNode:
		return nil
	}
	if p.shadowRoot != nil {
		return e.AssignedSlot()
	}
	return p
}

// FlatTreeChildren returns the children of e in the flat tree.
func (e *Element) FlatTreeChildren() []*Element {
	if e.shadowRoot != nil {
		return e.shadowRoot.ChildElements()
	}
	if e.tag == "slot" && e.scope != nil && e.scope.root.host != nil {
		if assigned := e.AssignedNodes(); len(assigned) > 0 {
			return assigned
		}
	}
	return e.ChildElements()
}

// FlatTreePreviousSibling returns the previous sibling of e in the flat tree.
func (e *Element) FlatTreePreviousSibling() *Element {
	var siblings []*Element
	if parent := e.FlatTreeParent(); parent != nil {
		siblings = parent.FlatTreeChildren()
	} else if p := e.Parent(); p != nil {
		siblings = p.ChildElements()
	}
	for i, s := range siblings {
		if s == e && i > 0 {
			return siblings[i-1]
		}
	}
	return nil
}
