package dom

import (
	"fmt"
	"math"

	"github.com/npillmayer/cssanim/style/cssom"
)

// TreeScope is a document or a shadow tree. It holds the stylesheets
// which apply to elements within the scope.
type TreeScope struct {
	root   *Element
	parent *TreeScope
	sheets []cssom.StyleSheet
}

// RootNode returns the document or shadow root node of a scope.
func (ts *TreeScope) RootNode() *Element {
	return ts.root
}

// ParentTreeScope returns the enclosing tree scope, or nil for a document.
func (ts *TreeScope) ParentTreeScope() *TreeScope {
	if ts == nil {
		return nil
	}
	return ts.parent
}

// IsDocumentScope is true for the outermost tree scope.
func (ts *TreeScope) IsDocumentScope() bool {
	return ts.root.kind == DocumentNode
}

func (ts *TreeScope) String() string {
	if ts == nil {
		return "scope(nil)"
	}
	if ts.root.host != nil {
		return fmt.Sprintf("scope(%s)", ts.root.host)
	}
	return "scope(#document)"
}

// AddStyleSheet adds a stylesheet to the scope.
func (ts *TreeScope) AddStyleSheet(sheet cssom.StyleSheet) {
	ts.sheets = append(ts.sheets, sheet)
}

// StyleSheets returns the stylesheets of a scope in document order.
func (ts *TreeScope) StyleSheets() []cssom.StyleSheet {
	return ts.sheets
}

// TreeScopeDistance returns the number of steps from inner up to outer
// through the chain of parent scopes. If outer is not an ancestor of
// inner (or inner itself), it returns math.MaxInt.
func TreeScopeDistance(outer, inner *TreeScope) int {
	d := 0
	for s := inner; s != nil; s = s.parent {
		if s == outer {
			return d
		}
		d++
	}
	return math.MaxInt
}

// ScopedName is a CSS identifier together with the tree scope it has been
// declared in. A nil scope matches names of any scope.
type ScopedName struct {
	Name  string
	Scope *TreeScope
}

func (sn ScopedName) String() string {
	return sn.Name
}

// Matches compares names, with scopes considered only if both names are scoped.
func (sn ScopedName) Matches(other ScopedName) bool {
	if sn.Name != other.Name {
		return false
	}
	return sn.Scope == nil || other.Scope == nil || sn.Scope == other.Scope
}
