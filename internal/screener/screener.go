// Package screener batch-evaluates a parsed rule across a stock
// universe.
package screener

import (
	"context"
	"fmt"
	"log"
	"sort"
	"sync"
	"time"

	"StockScout/internal/datasource"
	"StockScout/internal/indicator"
	"StockScout/internal/model"
	"StockScout/internal/rule"
)

// Options tunes one screening run.
type Options struct {
	// Workers bounds the number of concurrent per-symbol pipelines.
	// Zero means DefaultWorkers.
	Workers int

	// HistoryDays is the lookback window for indicator history. Zero
	// means DefaultHistoryDays.
	HistoryDays int

	// SortBy names a feature to rank matches by, descending, ties
	// broken by symbol ascending. Empty keeps universe order.
	SortBy model.Field

	// Limit caps the number of matches after sorting. Zero means no cap.
	Limit int

	// Strict makes rule parsing fail on any unrecognized clause.
	Strict bool
}

const (
	DefaultWorkers     = 8
	DefaultHistoryDays = 120
)

// Screener orchestrates a screening run: parse, validate, fetch,
// compute, evaluate, collect.
type Screener struct {
	Source datasource.HistoryDataSource
}

// New creates a Screener over the given data source.
func New(source datasource.HistoryDataSource) *Screener {
	return &Screener{Source: source}
}

// ScreenRule parses a natural-language rule and screens the universe
// with it. Parse and validation failures surface before any data
// fetching begins.
func (s *Screener) ScreenRule(ctx context.Context, ruleText string, opts Options) (*model.ScreeningResult, error) {
	mode := rule.Lenient
	if opts.Strict {
		mode = rule.Strict
	}
	parsed, err := rule.ParseMode(ruleText, mode)
	if err != nil {
		return nil, fmt.Errorf("parse rule: %w", err)
	}
	res, err := s.Screen(ctx, parsed.Tree, opts)
	if res != nil {
		res.RuleText = ruleText
		res.Warnings = parsed.Warnings
	}
	return res, err
}

// Screen evaluates an already-parsed predicate across the universe. The
// predicate is validated first, the universe is fetched once, and each
// symbol runs through its own fetch-compute-evaluate pipeline inside a
// bounded worker pool. A failing symbol is skipped and recorded; it
// never aborts the run. On cancellation the partial result gathered so
// far is returned together with the context error.
func (s *Screener) Screen(ctx context.Context, pred *model.PredicateNode, opts Options) (*model.ScreeningResult, error) {
	if err := rule.Validate(pred); err != nil {
		return nil, fmt.Errorf("validate rule: %w", err)
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = DefaultWorkers
	}
	historyDays := opts.HistoryDays
	if historyDays <= 0 {
		historyDays = DefaultHistoryDays
	}
	if opts.SortBy != "" && !model.KnownField(opts.SortBy) {
		return nil, fmt.Errorf("validate sort feature: %w", &rule.UnknownFieldError{Field: opts.SortBy})
	}

	res := &model.ScreeningResult{
		Predicate: pred,
		StartedAt: time.Now(),
	}

	universe, err := s.Source.ListSymbols(ctx)
	if err != nil {
		return nil, fmt.Errorf("list symbols: %w", err)
	}
	res.Universe = len(universe)
	if len(universe) == 0 {
		res.FinishedAt = time.Now()
		return res, nil
	}

	end := time.Now()
	start := end.AddDate(0, 0, -historyDays)

	// Index-addressed outcome slots keep universe order without locking.
	type outcome struct {
		match     *model.StockMatch
		skip      *model.SkippedSymbol
		simulated bool
	}
	outcomes := make([]outcome, len(universe))

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				info := universe[i]
				fs, simulated, err := s.features(ctx, info, start, end)
				if err != nil {
					if ctx.Err() != nil {
						return
					}
					outcomes[i].skip = &model.SkippedSymbol{Symbol: info.Symbol, Reason: err.Error()}
					continue
				}
				outcomes[i].simulated = simulated
				if rule.Evaluate(pred, fs) {
					outcomes[i].match = &model.StockMatch{Info: info, Passed: true, Features: fs}
				}
			}
		}()
	}

feed:
	for i := range universe {
		select {
		case jobs <- i:
		case <-ctx.Done():
			break feed
		}
	}
	close(jobs)
	wg.Wait()

	for _, o := range outcomes {
		if o.simulated {
			res.Simulated = true
		}
		if o.match != nil {
			res.Matches = append(res.Matches, *o.match)
		}
		if o.skip != nil {
			res.Skipped = append(res.Skipped, *o.skip)
			log.Printf("[WARN] skipped %s: %s", o.skip.Symbol, o.skip.Reason)
		}
	}

	if opts.SortBy != "" {
		sortMatches(res.Matches, opts.SortBy)
	}
	if opts.Limit > 0 && len(res.Matches) > opts.Limit {
		res.Matches = res.Matches[:opts.Limit]
	}
	res.FinishedAt = time.Now()

	if ctx.Err() != nil {
		return res, ctx.Err()
	}
	return res, nil
}

// features runs one symbol's pipeline: fetch history, compute the
// feature set.
func (s *Screener) features(ctx context.Context, info model.SymbolInfo, start, end time.Time) (*model.FeatureSet, bool, error) {
	ts, err := s.Source.GetHistory(ctx, info.Symbol, start, end)
	if err != nil {
		return nil, false, fmt.Errorf("fetch history: %w", err)
	}
	fs, err := indicator.ComputeFeatures(ts, info)
	if err != nil {
		return nil, false, err
	}
	if fs.DegradedBars > 0 {
		log.Printf("[WARN] %s: indicators degraded, %d missing bars skipped", info.Symbol, fs.DegradedBars)
	}
	return fs, ts.Simulated, nil
}

// sortMatches ranks by the given feature descending; symbols without the
// feature sink to the bottom, ties break by symbol ascending.
func sortMatches(matches []model.StockMatch, by model.Field) {
	sort.SliceStable(matches, func(i, j int) bool {
		vi, oki := matches[i].Features.Get(by)
		vj, okj := matches[j].Features.Get(by)
		if oki != okj {
			return oki
		}
		if oki && vi != vj {
			return vi > vj
		}
		return matches[i].Info.Symbol < matches[j].Info.Symbol
	})
}
