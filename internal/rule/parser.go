// Package rule translates free-form Chinese screening criteria into
// predicate trees and evaluates them against per-stock feature sets.
package rule

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"StockScout/internal/model"
)

// ErrNoCondition is returned when no clause of the input matched any
// pattern. The message carries example phrasing for the user.
var ErrNoCondition = errors.New("未能识别出任何选股条件，示例：股价大于10元且涨幅大于5%")

// Mode selects how unmatched clauses are treated.
type Mode int

const (
	// Lenient drops unmatched clauses with a warning and fails only if
	// nothing matched. This is the default.
	Lenient Mode = iota
	// Strict fails the whole parse on the first unmatched clause.
	Strict
)

// Parsed is the outcome of a successful parse.
type Parsed struct {
	Tree     *model.PredicateNode
	Warnings []string
}

// Connective vocabulary. Any OR connective at the top level makes the
// whole rule an OR; nested grouping is not supported.
var (
	orConnectives = []string{"或者", "或", "要么", "||"}

	// Order matters inside the splitter: multi-character connectives
	// before their prefixes.
	clauseSplitter = regexp.MustCompile(`并且|或者|且|或|同时|以及|和|要么|&&|\|\||[,，;；、&|]`)
)

// Parse parses a natural-language rule in lenient mode.
func Parse(text string) (*Parsed, error) {
	return ParseMode(text, Lenient)
}

// ParseMode parses a natural-language rule string into a predicate tree.
// The input is split on logical connectives at the top level, and each
// clause is matched against the pattern catalogue in priority order; the
// first matching pattern wins.
func ParseMode(text string, mode Mode) (*Parsed, error) {
	normalized := normalize(text)
	if strings.TrimSpace(normalized) == "" {
		return nil, fmt.Errorf("empty rule: %w", ErrNoCondition)
	}

	logic := model.LogicAND
	for _, c := range orConnectives {
		if strings.Contains(normalized, c) {
			logic = model.LogicOR
			break
		}
	}

	var (
		children []*model.PredicateNode
		warnings []string
	)
	for _, clause := range splitClauses(normalized) {
		leaf, why := matchClause(clause)
		if leaf == nil {
			if mode == Strict {
				return nil, fmt.Errorf("无法识别的条件 %q: %s", clause, why)
			}
			warnings = append(warnings, fmt.Sprintf("忽略无法识别的条件 %q: %s", clause, why))
			continue
		}
		leaf.Desc = clause
		children = append(children, leaf)
	}

	if len(children) == 0 {
		return nil, fmt.Errorf("rule %q: %w", text, ErrNoCondition)
	}
	if len(children) == 1 {
		return &Parsed{Tree: children[0], Warnings: warnings}, nil
	}
	return &Parsed{
		Tree:     &model.PredicateNode{Logic: logic, Children: children},
		Warnings: warnings,
	}, nil
}

// normalize unifies full-width punctuation so the splitter and the
// numeric patterns see a single form.
func normalize(text string) string {
	r := strings.NewReplacer(
		"。", " ",
		"：", ":",
		"！", " ",
		"？", " ",
	)
	return strings.TrimSpace(r.Replace(text))
}

func splitClauses(text string) []string {
	parts := clauseSplitter.Split(text, -1)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// matchClause tries the catalogue in priority order and returns the
// first leaf built, or nil with the reason no pattern applied.
func matchClause(clause string) (*model.PredicateNode, string) {
	for _, p := range catalog {
		m := p.re.FindStringSubmatch(clause)
		if m == nil {
			continue
		}
		leaf, err := p.build(m)
		if err != nil {
			// A template matched but its payload was unusable (e.g. an
			// unsupported MA window); surface that instead of trying
			// weaker patterns, so priority stays deterministic.
			return nil, err.Error()
		}
		return leaf, ""
	}
	return nil, "没有匹配的条件模板"
}
