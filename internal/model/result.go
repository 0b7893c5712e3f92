package model

import "time"

// StockMatch is one screened stock: its snapshot info, whether it passed,
// and the feature values it was evaluated against.
type StockMatch struct {
	Info     SymbolInfo
	Passed   bool
	Features *FeatureSet
}

// SkippedSymbol records a symbol excluded from a run and why.
type SkippedSymbol struct {
	Symbol string
	Reason string
}

// ScreeningResult is the outcome of one screening run. It is created
// fresh per run and not mutated after construction. Matches preserve
// universe order unless a sort feature was requested.
type ScreeningResult struct {
	RuleText  string
	Predicate *PredicateNode
	Warnings  []string

	Matches   []StockMatch
	Skipped   []SkippedSymbol
	Universe  int
	Simulated bool

	StartedAt  time.Time
	FinishedAt time.Time
}
