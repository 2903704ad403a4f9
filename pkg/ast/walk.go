package ast

// Walk visits node and its children in pre-order. Children of a node are
// skipped when visitor returns false for it.
func Walk(node Node, visitor func(Node) bool) {
	if node == nil {
		return
	}
	if !visitor(node) {
		return
	}

	switch n := node.(type) {
	case *Grouped:
		Walk(n.Inner, visitor)
	case *Conditional:
		Walk(n.Condition, visitor)
		Walk(n.Consequence, visitor)
		Walk(n.Alternative, visitor)
	}
}

// Identifiers returns the leaf names in source order.
func Identifiers(node Node) []string {
	var names []string
	Walk(node, func(n Node) bool {
		if id, ok := n.(*Identifier); ok {
			names = append(names, id.Value)
		}
		return true
	})
	return names
}

// Depth is the height of the tree; a bare identifier has depth 1.
func Depth(node Node) int {
	switch n := node.(type) {
	case *Identifier:
		return 1
	case *Grouped:
		return 1 + Depth(n.Inner)
	case *Conditional:
		return 1 + max(Depth(n.Condition), Depth(n.Consequence), Depth(n.Alternative))
	}
	return 0
}

// Equal compares two trees structurally. Token positions are ignored.
func Equal(a, b Node) bool {
	switch x := a.(type) {
	case *Identifier:
		y, ok := b.(*Identifier)
		return ok && x.Value == y.Value
	case *Grouped:
		y, ok := b.(*Grouped)
		return ok && Equal(x.Inner, y.Inner)
	case *Conditional:
		y, ok := b.(*Conditional)
		return ok &&
			Equal(x.Condition, y.Condition) &&
			Equal(x.Consequence, y.Consequence) &&
			Equal(x.Alternative, y.Alternative)
	}
	return a == nil && b == nil
}

type Stats struct {
	Identifiers  int `json:"identifiers" yaml:"identifiers"`
	Conditionals int `json:"conditionals" yaml:"conditionals"`
	Groups       int `json:"groups" yaml:"groups"`
	Depth        int `json:"depth" yaml:"depth"`
}

func Collect(node Node) Stats {
	var s Stats
	Walk(node, func(n Node) bool {
		switch n.(type) {
		case *Identifier:
			s.Identifiers++
		case *Conditional:
			s.Conditionals++
		case *Grouped:
			s.Groups++
		}
		return true
	})
	s.Depth = Depth(node)
	return s
}
