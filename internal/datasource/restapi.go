package datasource

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"time"

	"StockScout/internal/model"
)

// RESTSource implements HistoryDataSource against a self-hosted quote
// API (symbols + daily bars endpoints with bearer authentication).
type RESTSource struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
}

// NewRESTSource creates a REST client with optional proxy support.
func NewRESTSource(baseURL, apiKey, proxyURL string) *RESTSource {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &RESTSource{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
	}
}

func (s *RESTSource) Name() string { return "restapi" }

// restSymbol is the expected JSON shape of one symbol listing row.
type restSymbol struct {
	Symbol    string  `json:"symbol"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	PctChange float64 `json:"pct_change"`
	Volume    float64 `json:"volume"`
	Amount    float64 `json:"amount"`
	MarketCap float64 `json:"market_cap"`
	PE        float64 `json:"pe"`
	PB        float64 `json:"pb"`
	Turnover  float64 `json:"turnover"`
}

func (s *RESTSource) ListSymbols(ctx context.Context) ([]model.SymbolInfo, error) {
	endpoint := fmt.Sprintf("%s/api/v1/symbols", s.BaseURL)
	body, err := s.get(ctx, endpoint)
	if err != nil {
		return nil, fmt.Errorf("list symbols: %w", err)
	}
	var rows []restSymbol
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("decode symbols: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("list symbols: empty response")
	}
	infos := make([]model.SymbolInfo, len(rows))
	for i, r := range rows {
		infos[i] = model.SymbolInfo{
			Symbol:    r.Symbol,
			Name:      r.Name,
			Price:     r.Price,
			PctChange: r.PctChange,
			Volume:    r.Volume,
			Amount:    r.Amount,
			MarketCap: r.MarketCap,
			PE:        r.PE,
			PB:        r.PB,
			Turnover:  r.Turnover,
		}
	}
	return infos, nil
}

// restBar is the expected JSON shape of one daily bar.
type restBar struct {
	Timestamp int64   `json:"timestamp"`
	Open      float64 `json:"open"`
	High      float64 `json:"high"`
	Low       float64 `json:"low"`
	Close     float64 `json:"close"`
	Volume    float64 `json:"volume"`
	Amount    float64 `json:"amount"`
}

func (s *RESTSource) GetHistory(ctx context.Context, symbol string, start, end time.Time) (*model.TimeSeries, error) {
	endpoint := fmt.Sprintf("%s/api/v1/bars/daily?symbol=%s&start=%s&end=%s",
		s.BaseURL, url.QueryEscape(symbol),
		start.Format("2006-01-02"), end.Format("2006-01-02"))
	body, err := s.get(ctx, endpoint)
	if err != nil {
		return nil, fmt.Errorf("fetch bars %s: %w", symbol, err)
	}
	var rows []restBar
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("decode bars %s: %w", symbol, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("fetch bars %s: empty response", symbol)
	}
	bars := make([]model.OHLCV, len(rows))
	for i, r := range rows {
		bars[i] = model.OHLCV{
			Date:   time.Unix(r.Timestamp, 0),
			Open:   r.Open,
			High:   r.High,
			Low:    r.Low,
			Close:  r.Close,
			Volume: r.Volume,
			Amount: r.Amount,
		}
	}
	// Ensure chronological order before the series is validated.
	sort.Slice(bars, func(i, j int) bool { return bars[i].Date.Before(bars[j].Date) })
	return &model.TimeSeries{Symbol: symbol, Bars: bars, FetchedAt: time.Now()}, nil
}

func (s *RESTSource) get(ctx context.Context, endpoint string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	if s.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.APIKey)
	}
	resp, err := s.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status %d, body: %s", resp.StatusCode, string(body))
	}
	return body, nil
}
