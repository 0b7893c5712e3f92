package rule

import (
	"fmt"

	"StockScout/internal/model"
)

// UnknownFieldError reports a predicate leaf referencing a feature
// outside the closed enumeration. It is raised by Validate before any
// per-symbol work, so a bad rule never burns time scanning the universe.
type UnknownFieldError struct {
	Field model.Field
}

func (e *UnknownFieldError) Error() string {
	return fmt.Sprintf("未知的筛选字段 %q", string(e.Field))
}

// Validate walks the tree and rejects unknown fields and malformed
// nodes. A nil tree is rejected too.
func Validate(n *model.PredicateNode) error {
	if n == nil {
		return fmt.Errorf("nil predicate")
	}
	if n.IsLeaf() {
		if !model.KnownField(n.Field) {
			return &UnknownFieldError{Field: n.Field}
		}
		switch n.Op {
		case model.OpGT, model.OpLT, model.OpGE, model.OpLE, model.OpEQ, model.OpBetween:
			return nil
		default:
			return fmt.Errorf("unknown comparison operator %q", n.Op)
		}
	}
	if n.Logic != model.LogicAND && n.Logic != model.LogicOR {
		return fmt.Errorf("unknown logical operator %q", n.Logic)
	}
	for _, c := range n.Children {
		if err := Validate(c); err != nil {
			return err
		}
	}
	return nil
}

// Evaluate tests one predicate tree against one stock's features. A
// comparison on an unavailable feature is false — absence of data is a
// non-match, never a pass and never an error. The tree is read-only, so
// concurrent evaluation across stocks is safe.
func Evaluate(n *model.PredicateNode, fs *model.FeatureSet) bool {
	if n == nil || fs == nil {
		return false
	}
	if n.IsLeaf() {
		return evaluateLeaf(n, fs)
	}
	switch n.Logic {
	case model.LogicAND:
		// Empty child list is vacuously true.
		for _, c := range n.Children {
			if !Evaluate(c, fs) {
				return false
			}
		}
		return true
	case model.LogicOR:
		for _, c := range n.Children {
			if Evaluate(c, fs) {
				return true
			}
		}
		return false
	default:
		return false
	}
}

func evaluateLeaf(n *model.PredicateNode, fs *model.FeatureSet) bool {
	v, ok := fs.Get(n.Field)
	if !ok {
		return false
	}
	switch n.Op {
	case model.OpGT:
		return v > n.Value
	case model.OpLT:
		return v < n.Value
	case model.OpGE:
		return v >= n.Value
	case model.OpLE:
		return v <= n.Value
	case model.OpEQ:
		return v == n.Value
	case model.OpBetween:
		return v >= n.Value && v <= n.High
	default:
		return false
	}
}
