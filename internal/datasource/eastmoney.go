package datasource

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"StockScout/internal/model"
)

// EastmoneySource implements HistoryDataSource using the Eastmoney
// public quote API. No API key is required.
type EastmoneySource struct {
	Client   *http.Client
	PageSize int
}

// NewEastmoneySource creates an Eastmoney client with optional proxy
// support.
func NewEastmoneySource(proxyURL string) *EastmoneySource {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &EastmoneySource{
		Client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
		PageSize: 200,
	}
}

func (s *EastmoneySource) Name() string { return "eastmoney" }

// secID maps a bare A-share code to Eastmoney's market-prefixed form:
// 1.XXXXXX for Shanghai, 0.XXXXXX for Shenzhen.
func secID(symbol string) string {
	if strings.HasPrefix(symbol, "6") || strings.HasPrefix(symbol, "5") || strings.HasPrefix(symbol, "9") {
		return "1." + symbol
	}
	return "0." + symbol
}

// emListResponse is the shape of the clist endpoint. Fields: f2 price,
// f3 pct change, f5 volume (lots), f6 amount, f8 turnover rate, f9 PE,
// f12 code, f14 name, f20 total market cap, f23 PB.
type emListResponse struct {
	Data *struct {
		Total int `json:"total"`
		Diff  []struct {
			Price     float64 `json:"f2"`
			PctChange float64 `json:"f3"`
			Volume    float64 `json:"f5"`
			Amount    float64 `json:"f6"`
			Turnover  float64 `json:"f8"`
			PE        float64 `json:"f9"`
			Code      string  `json:"f12"`
			Name      string  `json:"f14"`
			MarketCap float64 `json:"f20"`
			PB        float64 `json:"f23"`
		} `json:"diff"`
	} `json:"data"`
}

func (s *EastmoneySource) ListSymbols(ctx context.Context) ([]model.SymbolInfo, error) {
	u := fmt.Sprintf("https://push2.eastmoney.com/api/qt/clist/get"+
		"?pn=1&pz=%d&po=0&np=1&fltt=2&invt=2"+
		"&fs=m:0+t:6,m:0+t:80,m:1+t:2,m:1+t:23"+
		"&fields=f2,f3,f5,f6,f8,f9,f12,f14,f20,f23", s.PageSize)

	body, err := s.get(ctx, u)
	if err != nil {
		return nil, fmt.Errorf("eastmoney list: %w", err)
	}

	var resp emListResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("eastmoney decode list: %w", err)
	}
	if resp.Data == nil || len(resp.Data.Diff) == 0 {
		return nil, fmt.Errorf("eastmoney: empty symbol list")
	}

	infos := make([]model.SymbolInfo, 0, len(resp.Data.Diff))
	for _, d := range resp.Data.Diff {
		infos = append(infos, model.SymbolInfo{
			Symbol:    d.Code,
			Name:      d.Name,
			Price:     d.Price,
			PctChange: d.PctChange,
			Volume:    d.Volume * 100, // lots to shares
			Amount:    d.Amount,
			Turnover:  d.Turnover,
			PE:        d.PE,
			MarketCap: d.MarketCap,
			PB:        d.PB,
		})
	}
	return infos, nil
}

// emKlineResponse is the shape of the kline endpoint; each kline string
// is "date,open,close,high,low,volume,amount".
type emKlineResponse struct {
	Data *struct {
		Code   string   `json:"code"`
		Klines []string `json:"klines"`
	} `json:"data"`
}

func (s *EastmoneySource) GetHistory(ctx context.Context, symbol string, start, end time.Time) (*model.TimeSeries, error) {
	u := fmt.Sprintf("https://push2his.eastmoney.com/api/qt/stock/kline/get"+
		"?secid=%s&klt=101&fqt=1&beg=%s&end=%s"+
		"&fields1=f1,f2,f3&fields2=f51,f52,f53,f54,f55,f56,f57",
		secID(symbol), start.Format("20060102"), end.Format("20060102"))

	body, err := s.get(ctx, u)
	if err != nil {
		return nil, fmt.Errorf("eastmoney history %s: %w", symbol, err)
	}

	var resp emKlineResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("eastmoney decode history %s: %w", symbol, err)
	}
	if resp.Data == nil || len(resp.Data.Klines) == 0 {
		return nil, fmt.Errorf("eastmoney: no history for %s", symbol)
	}

	bars := make([]model.OHLCV, 0, len(resp.Data.Klines))
	for _, line := range resp.Data.Klines {
		bar, err := parseKline(line)
		if err != nil {
			continue // skip malformed lines rather than abort the series
		}
		bars = append(bars, bar)
	}
	if len(bars) == 0 {
		return nil, fmt.Errorf("eastmoney: no parsable bars for %s", symbol)
	}
	return &model.TimeSeries{Symbol: symbol, Bars: bars, FetchedAt: time.Now()}, nil
}

func parseKline(line string) (model.OHLCV, error) {
	parts := strings.Split(line, ",")
	if len(parts) < 7 {
		return model.OHLCV{}, fmt.Errorf("kline %q: want 7 fields, got %d", line, len(parts))
	}
	date, err := time.Parse("2006-01-02", parts[0])
	if err != nil {
		return model.OHLCV{}, fmt.Errorf("kline date %q: %w", parts[0], err)
	}
	nums := make([]float64, 6)
	for i := 0; i < 6; i++ {
		v, err := strconv.ParseFloat(parts[i+1], 64)
		if err != nil {
			return model.OHLCV{}, fmt.Errorf("kline field %q: %w", parts[i+1], err)
		}
		nums[i] = v
	}
	return model.OHLCV{
		Date:   date,
		Open:   nums[0],
		Close:  nums[1],
		High:   nums[2],
		Low:    nums[3],
		Volume: nums[4],
		Amount: nums[5],
	}, nil
}

func (s *EastmoneySource) get(ctx context.Context, u string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

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
