// Package report renders screening results as plain text for logs and
// the CLI.
package report

import (
	"fmt"
	"strings"
	"time"

	"StockScout/internal/indicator"
	"StockScout/internal/model"
)

// FormatScreeningReport formats one screening run as an aligned
// plain-text table.
func FormatScreeningReport(res *model.ScreeningResult) string {
	var b strings.Builder

	b.WriteString("=== 股票筛选报告 ===\n")
	b.WriteString(fmt.Sprintf("筛选时间: %s\n", res.FinishedAt.Format("2006-01-02 15:04:05")))
	b.WriteString(fmt.Sprintf("筛选规则: %s\n", res.RuleText))
	b.WriteString(fmt.Sprintf("解析条件: %s\n", res.Predicate.String()))
	if res.Simulated {
		b.WriteString("数据来源: 模拟数据（所有真实数据源均不可用）\n")
	}
	b.WriteString(fmt.Sprintf("股票池: %d | 符合条件: %d | 跳过: %d\n",
		res.Universe, len(res.Matches), len(res.Skipped)))
	b.WriteString(fmt.Sprintf("耗时: %s\n", res.FinishedAt.Sub(res.StartedAt).Round(time.Millisecond)))

	for _, w := range res.Warnings {
		b.WriteString(fmt.Sprintf("⚠️ %s\n", w))
	}

	if len(res.Matches) == 0 {
		b.WriteString("\n未找到符合条件的股票\n")
		return b.String()
	}

	b.WriteString("\n")
	b.WriteString(strings.Repeat("-", 80) + "\n")
	b.WriteString(fmt.Sprintf("%-10s %-12s %10s %10s %12s %8s %8s\n",
		"代码", "名称", "现价", "涨跌幅", "市值(亿)", "PE", "PB"))
	b.WriteString(strings.Repeat("-", 80) + "\n")
	for _, m := range res.Matches {
		b.WriteString(formatMatchRow(m))
	}
	b.WriteString(strings.Repeat("-", 80) + "\n")

	return b.String()
}

func formatMatchRow(m model.StockMatch) string {
	price := featureCell(m.Features, model.FieldPrice, "%.2f")
	pct := featureCell(m.Features, model.FieldPctChange, "%+.2f%%")
	pe := featureCell(m.Features, model.FieldPE, "%.2f")
	pb := featureCell(m.Features, model.FieldPB, "%.2f")

	mcap := "-"
	if v, ok := m.Features.Get(model.FieldMarketCap); ok {
		mcap = fmt.Sprintf("%.2f", v/1e8)
	}

	return fmt.Sprintf("%-10s %-12s %10s %10s %12s %8s %8s\n",
		m.Info.Symbol, m.Info.Name, price, pct, mcap, pe, pb)
}

func featureCell(fs *model.FeatureSet, f model.Field, format string) string {
	v, ok := fs.Get(f)
	if !ok {
		return "-"
	}
	return fmt.Sprintf(format, v)
}

// FormatAnalysis renders the latest indicator readings for one symbol.
func FormatAnalysis(a *indicator.Analysis) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("=== %s 技术指标 ===\n", a.Series.Symbol))
	if a.Series.Simulated {
		b.WriteString("数据来源: 模拟数据\n")
	}
	if n := len(a.Series.Bars); n > 0 {
		last := a.Series.Bars[n-1]
		b.WriteString(fmt.Sprintf("最新交易日: %s  收盘: %.2f  (共 %d 根K线)\n",
			last.Date.Format("2006-01-02"), last.Close, n))
	}

	writeIndicatorLine(&b, "MA5", indicator.Last(a.MA5))
	writeIndicatorLine(&b, "MA10", indicator.Last(a.MA10))
	writeIndicatorLine(&b, "MA20", indicator.Last(a.MA20))
	writeIndicatorLine(&b, "RSI", indicator.Last(a.RSI))
	writeIndicatorLine(&b, "MACD", indicator.Last(a.MACD.MACD))
	writeIndicatorLine(&b, "MACD信号线", indicator.Last(a.MACD.Signal))
	writeIndicatorLine(&b, "MACD柱", indicator.Last(a.MACD.Histogram))
	writeIndicatorLine(&b, "布林上轨", indicator.Last(a.Bollinger.Upper))
	writeIndicatorLine(&b, "布林中轨", indicator.Last(a.Bollinger.Middle))
	writeIndicatorLine(&b, "布林下轨", indicator.Last(a.Bollinger.Lower))
	writeIndicatorLine(&b, "KDJ-K", indicator.Last(a.KDJ.K))
	writeIndicatorLine(&b, "KDJ-D", indicator.Last(a.KDJ.D))
	writeIndicatorLine(&b, "KDJ-J", indicator.Last(a.KDJ.J))

	return b.String()
}

func writeIndicatorLine(b *strings.Builder, label string, v float64) {
	if !indicator.Valid(v) {
		b.WriteString(fmt.Sprintf("%-10s 数据不足\n", label))
		return
	}
	b.WriteString(fmt.Sprintf("%-10s %.4f\n", label, v))
}

// FormatSkipped summarizes the symbols omitted from a run.
func FormatSkipped(res *model.ScreeningResult) string {
	if len(res.Skipped) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(fmt.Sprintf("跳过 %d 只股票:\n", len(res.Skipped)))
	for _, s := range res.Skipped {
		b.WriteString(fmt.Sprintf("  %s: %s\n", s.Symbol, s.Reason))
	}
	return b.String()
}
