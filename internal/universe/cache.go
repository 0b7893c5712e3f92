// Package universe wraps a data source's symbol listing with a JSON
// file cache, so screening keeps a universe when providers go dark.
package universe

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"sync"
	"time"

	"StockScout/internal/datasource"
	"StockScout/internal/model"
)

// cacheState is the on-disk shape of the cached universe.
type cacheState struct {
	Source    string             `json:"source"`
	Symbols   []model.SymbolInfo `json:"symbols"`
	UpdatedAt time.Time          `json:"updated_at"`
}

// Manager serves the screening universe: fresh from the data source when
// possible, from the last persisted good list otherwise. An optional
// allowlist restricts the universe to the configured symbols.
type Manager struct {
	mu        sync.Mutex
	source    datasource.HistoryDataSource
	filePath  string
	allowlist map[string]bool
	state     *cacheState
}

// NewManager creates a Manager, loading any previously cached universe
// from disk. An empty symbols list means no restriction.
func NewManager(source datasource.HistoryDataSource, filePath string, symbols []string) (*Manager, error) {
	state, err := loadState(filePath)
	if err != nil {
		return nil, fmt.Errorf("load universe cache: %w", err)
	}
	var allow map[string]bool
	if len(symbols) > 0 {
		allow = make(map[string]bool, len(symbols))
		for _, s := range symbols {
			allow[s] = true
		}
	}
	return &Manager{source: source, filePath: filePath, allowlist: allow, state: state}, nil
}

// ListSymbols fetches the universe from the source and refreshes the
// cache; when the source fails it serves the cached list instead.
func (m *Manager) ListSymbols(ctx context.Context) ([]model.SymbolInfo, error) {
	infos, err := m.source.ListSymbols(ctx)
	if err == nil && len(infos) > 0 {
		m.store(infos)
		return m.filter(infos), nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != nil && len(m.state.Symbols) > 0 {
		log.Printf("[WARN] symbol listing failed (%v), serving %d cached symbols from %s",
			err, len(m.state.Symbols), m.state.UpdatedAt.Format("2006-01-02"))
		return m.filter(m.state.Symbols), nil
	}
	if err == nil {
		err = fmt.Errorf("empty symbol list")
	}
	return nil, fmt.Errorf("list symbols: %w", err)
}

// filter applies the allowlist, preserving the source order.
func (m *Manager) filter(infos []model.SymbolInfo) []model.SymbolInfo {
	if m.allowlist == nil {
		return infos
	}
	kept := make([]model.SymbolInfo, 0, len(m.allowlist))
	for _, info := range infos {
		if m.allowlist[info.Symbol] {
			kept = append(kept, info)
		}
	}
	return kept
}

// GetHistory passes through to the underlying source.
func (m *Manager) GetHistory(ctx context.Context, symbol string, start, end time.Time) (*model.TimeSeries, error) {
	return m.source.GetHistory(ctx, symbol, start, end)
}

func (m *Manager) Name() string { return m.source.Name() }

func (m *Manager) store(infos []model.SymbolInfo) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = &cacheState{
		Source:    m.source.Name(),
		Symbols:   infos,
		UpdatedAt: time.Now(),
	}
	if err := saveState(m.filePath, m.state); err != nil {
		log.Printf("[WARN] persist universe cache: %v", err)
	}
}

// loadState reads the cached universe from a JSON file. Returns nil if
// the file doesn't exist.
func loadState(filePath string) (*cacheState, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var state cacheState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, err
	}
	return &state, nil
}

// saveState writes the cached universe to a JSON file.
func saveState(filePath string, state *cacheState) error {
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filePath, data, 0644)
}
