package model

import (
	"fmt"
	"strings"
)

// CompareOp is a comparison operator extracted from rule text.
type CompareOp string

const (
	OpGT      CompareOp = ">"
	OpLT      CompareOp = "<"
	OpGE      CompareOp = ">="
	OpLE      CompareOp = "<="
	OpEQ      CompareOp = "=="
	OpBetween CompareOp = "between"
)

// LogicOp combines child predicates.
type LogicOp string

const (
	LogicAND LogicOp = "AND"
	LogicOR  LogicOp = "OR"
)

// PredicateNode is one node of a parsed rule tree: either a Comparison
// leaf or a Logical combinator. Exactly one of the two forms is set.
// The tree is read-only after parsing, so a single tree may be evaluated
// concurrently across symbols.
type PredicateNode struct {
	// Comparison leaf. For OpBetween, Value is the inclusive lower bound
	// and High the inclusive upper bound.
	Field Field
	Op    CompareOp
	Value float64
	High  float64

	// Desc is the human-readable clause this leaf was parsed from.
	Desc string

	// Logical combinator.
	Logic    LogicOp
	Children []*PredicateNode
}

// IsLeaf reports whether the node is a Comparison.
func (n *PredicateNode) IsLeaf() bool { return n.Logic == "" }

// Leaves counts the Comparison leaves in the tree.
func (n *PredicateNode) Leaves() int {
	if n == nil {
		return 0
	}
	if n.IsLeaf() {
		return 1
	}
	total := 0
	for _, c := range n.Children {
		total += c.Leaves()
	}
	return total
}

// FieldsReferenced returns every field referenced by the tree, in
// first-appearance order.
func (n *PredicateNode) FieldsReferenced() []Field {
	var out []Field
	seen := make(map[Field]bool)
	var walk func(*PredicateNode)
	walk = func(p *PredicateNode) {
		if p == nil {
			return
		}
		if p.IsLeaf() {
			if !seen[p.Field] {
				seen[p.Field] = true
				out = append(out, p.Field)
			}
			return
		}
		for _, c := range p.Children {
			walk(c)
		}
	}
	walk(n)
	return out
}

// String renders the tree in a compact debug form.
func (n *PredicateNode) String() string {
	if n == nil {
		return "<nil>"
	}
	if n.IsLeaf() {
		if n.Op == OpBetween {
			return fmt.Sprintf("%s between [%g, %g]", n.Field, n.Value, n.High)
		}
		return fmt.Sprintf("%s %s %g", n.Field, n.Op, n.Value)
	}
	parts := make([]string, len(n.Children))
	for i, c := range n.Children {
		parts[i] = c.String()
	}
	return fmt.Sprintf("%s(%s)", n.Logic, strings.Join(parts, ", "))
}
