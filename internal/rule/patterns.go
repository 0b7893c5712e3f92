package rule

import (
	"fmt"
	"regexp"
	"strconv"

	"StockScout/internal/model"
)

// opTokens maps every recognized comparison word to its operator.
var opTokens = map[string]model.CompareOp{
	"大于等于": model.OpGE, "不少于": model.OpGE, "不低于": model.OpGE, "至少": model.OpGE,
	"小于等于": model.OpLE, "不超过": model.OpLE, "不高于": model.OpLE, "至多": model.OpLE,
	"大于": model.OpGT, "高于": model.OpGT, "超过": model.OpGT, "多于": model.OpGT,
	"超越": model.OpGT, "高出": model.OpGT,
	"小于": model.OpLT, "低于": model.OpLT, "少于": model.OpLT, "不足": model.OpLT, "低过": model.OpLT,
	"等于": model.OpEQ,
	">=": model.OpGE, "≥": model.OpGE, "<=": model.OpLE, "≤": model.OpLE,
	">": model.OpGT, "＞": model.OpGT, "<": model.OpLT, "＜": model.OpLT,
	"=": model.OpEQ, "＝": model.OpEQ,
}

// Longer tokens first so 大于等于 never matches as 大于.
const opAlternation = `大于等于|小于等于|不少于|不低于|不超过|不高于|至少|至多|高出|低过|超越|大于|高于|超过|多于|小于|低于|少于|不足|等于|>=|≥|<=|≤|＞|>|＜|<|＝|=`

const numPattern = `(\d+(?:\.\d+)?)`

// filler covers hedge words between a field keyword and its operator,
// e.g. 市盈率要低于25倍.
const filler = `(?:要|需要|应该|最好)?`

// pattern is one entry of the ordered catalogue: a compiled template and
// a builder that turns its submatches into a comparison leaf.
type pattern struct {
	name  string
	re    *regexp.Regexp
	build func(m []string) (*model.PredicateNode, error)
}

// catalog is the ordered, immutable pattern catalogue. Built once at
// startup and never mutated, so match priority is deterministic: more
// specific templates (moving-average crosses, ranges) come before the
// generic field comparisons, and fuzzy concept words come last.
var catalog = buildCatalog()

func buildCatalog() []pattern {
	return []pattern{
		{
			name: "ma_cross",
			re: regexp.MustCompile(`(?:股价|价格)?(站上|突破|升穿|高于|大于|跌破|跌穿|低于|小于)\s*` +
				numPattern + `\s*日?\s*(?:均线|MA|ma)`),
			build: buildMACross,
		},
		{
			name: "rsi_range",
			re: regexp.MustCompile(`(?:RSI|rsi|相对强弱指数)\s*(?:在|介于)?\s*` + numPattern +
				`\s*(?:到|至|-|~)\s*` + numPattern + `\s*(?:之间)?`),
			build: rangeBuilder(model.FieldRSI),
		},
		{
			name: "price_range",
			re: regexp.MustCompile(`(?:股价|价格|收盘价|现价|最新价)\s*(?:在|介于|从)?\s*` + numPattern +
				`\s*(?:元|块)?\s*(?:到|至|-|~)\s*` + numPattern + `\s*(?:元|块)?\s*(?:之间|范围)?`),
			build: rangeBuilder(model.FieldPrice),
		},
		{
			name: "market_cap_cmp",
			re: regexp.MustCompile(`(?:市值|总市值)` + filler + `\s*(` + opAlternation + `)\s*` +
				numPattern + `\s*(` + unitAlternation + `)?\s*(?:元)?`),
			build: scaledBuilder(model.FieldMarketCap),
		},
		{
			name: "amount_cmp",
			re: regexp.MustCompile(`(?:成交额|交易额)` + filler + `\s*(` + opAlternation + `)\s*` +
				numPattern + `\s*(` + unitAlternation + `)?\s*(?:元)?`),
			build: scaledBuilder(model.FieldAmount),
		},
		{
			name: "volume_cmp",
			re: regexp.MustCompile(`(?:成交量|交易量)` + filler + `\s*(` + opAlternation + `)\s*` +
				numPattern + `\s*(` + unitAlternation + `)?\s*(?:手|股)?`),
			build: scaledBuilder(model.FieldVolume),
		},
		{
			name: "price_cmp",
			re: regexp.MustCompile(`(?:股价|价格|收盘价|现价|最新价|股票价格)` + filler + `\s*(` + opAlternation + `)\s*` +
				numPattern + `\s*(?:元|块)?`),
			build: plainBuilder(model.FieldPrice),
		},
		{
			name: "change_cmp",
			re: regexp.MustCompile(`(?:涨幅|涨跌幅|涨幅度|涨跌率)` + filler + `\s*(` + opAlternation + `)\s*` +
				numPattern + `\s*(?:%|％|个百分点|百分点)?`),
			build: plainBuilder(model.FieldPctChange),
		},
		{
			name: "turnover_cmp",
			re: regexp.MustCompile(`(?:换手率|流通率)` + filler + `\s*(` + opAlternation + `)\s*` +
				numPattern + `\s*(?:%|％)?`),
			build: plainBuilder(model.FieldTurnover),
		},
		{
			name: "pe_cmp",
			re: regexp.MustCompile(`(?:PE|pe|市盈率|动态市盈率|静态市盈率)` + filler + `\s*(` + opAlternation + `)\s*` +
				numPattern + `\s*(?:倍)?`),
			build: plainBuilder(model.FieldPE),
		},
		{
			name: "pb_cmp",
			re: regexp.MustCompile(`(?:PB|pb|市净率)` + filler + `\s*(` + opAlternation + `)\s*` +
				numPattern + `\s*(?:倍)?`),
			build: plainBuilder(model.FieldPB),
		},
		{
			name: "rsi_cmp",
			re: regexp.MustCompile(`(?:RSI|rsi|相对强弱指数)` + filler + `\s*(` + opAlternation + `)\s*` + numPattern),
			build: plainBuilder(model.FieldRSI),
		},
		{
			name: "kdj_cmp",
			re: regexp.MustCompile(`(?:KDJ|kdj)?\s*([KDJkdj])值` + filler + `\s*(` + opAlternation + `)\s*` + numPattern),
			build: buildKDJ,
		},
		{
			name: "change_positive",
			re:   regexp.MustCompile(`上涨|涨幅为正|收红|红盘`),
			build: func(m []string) (*model.PredicateNode, error) {
				return &model.PredicateNode{Field: model.FieldPctChange, Op: model.OpGT, Value: 0}, nil
			},
		},
		fuzzy("大盘股", &model.PredicateNode{Field: model.FieldMarketCap, Op: model.OpGT, Value: 5e10}),
		fuzzy("中盘股", &model.PredicateNode{Field: model.FieldMarketCap, Op: model.OpBetween, Value: 1e10, High: 5e10}),
		fuzzy("小盘股", &model.PredicateNode{Field: model.FieldMarketCap, Op: model.OpLT, Value: 1e10}),
		fuzzy("高价股", &model.PredicateNode{Field: model.FieldPrice, Op: model.OpGT, Value: 50}),
		fuzzy("中价股", &model.PredicateNode{Field: model.FieldPrice, Op: model.OpBetween, Value: 10, High: 50}),
		fuzzy("低价股", &model.PredicateNode{Field: model.FieldPrice, Op: model.OpLT, Value: 10}),
		fuzzy("活跃股", &model.PredicateNode{Field: model.FieldTurnover, Op: model.OpGT, Value: 5}),
		fuzzy("价值股", &model.PredicateNode{Field: model.FieldPB, Op: model.OpLT, Value: 2}),
		fuzzy("成长股", &model.PredicateNode{Field: model.FieldPE, Op: model.OpBetween, Value: 15, High: 40}),
	}
}

// maBiasFields maps supported moving-average windows to their price
// deviation feature.
var maBiasFields = map[int]model.Field{
	5:  model.FieldBias5,
	10: model.FieldBias10,
	20: model.FieldBias20,
	60: model.FieldBias60,
}

// buildMACross turns 站上/跌破 N日均线 clauses into a sign comparison on
// the price-vs-MA deviation feature.
func buildMACross(m []string) (*model.PredicateNode, error) {
	window, err := strconv.Atoi(m[2])
	if err != nil {
		return nil, fmt.Errorf("parse MA window %q: %w", m[2], err)
	}
	field, ok := maBiasFields[window]
	if !ok {
		return nil, fmt.Errorf("unsupported MA window %d (supported: 5/10/20/60)", window)
	}
	switch m[1] {
	case "站上", "突破", "升穿", "高于", "大于":
		return &model.PredicateNode{Field: field, Op: model.OpGT, Value: 0}, nil
	default:
		return &model.PredicateNode{Field: field, Op: model.OpLT, Value: 0}, nil
	}
}

func buildKDJ(m []string) (*model.PredicateNode, error) {
	var field model.Field
	switch m[1] {
	case "K", "k":
		field = model.FieldKDJK
	case "D", "d":
		field = model.FieldKDJD
	default:
		field = model.FieldKDJJ
	}
	op, ok := opTokens[m[2]]
	if !ok {
		return nil, fmt.Errorf("unknown operator %q", m[2])
	}
	value, err := strconv.ParseFloat(m[3], 64)
	if err != nil {
		return nil, fmt.Errorf("parse number %q: %w", m[3], err)
	}
	return &model.PredicateNode{Field: field, Op: op, Value: value}, nil
}

// plainBuilder handles field-operator-number clauses with no magnitude
// unit. Submatches: [1] operator token, [2] numeric literal.
func plainBuilder(field model.Field) func(m []string) (*model.PredicateNode, error) {
	return func(m []string) (*model.PredicateNode, error) {
		op, ok := opTokens[m[1]]
		if !ok {
			return nil, fmt.Errorf("unknown operator %q", m[1])
		}
		value, err := strconv.ParseFloat(m[2], 64)
		if err != nil {
			return nil, fmt.Errorf("parse number %q: %w", m[2], err)
		}
		return &model.PredicateNode{Field: field, Op: op, Value: value}, nil
	}
}

// scaledBuilder handles clauses whose numeric literal may carry a
// Chinese magnitude suffix (市值大于200亿). Submatches: [1] operator,
// [2] number, [3] optional unit.
func scaledBuilder(field model.Field) func(m []string) (*model.PredicateNode, error) {
	return func(m []string) (*model.PredicateNode, error) {
		op, ok := opTokens[m[1]]
		if !ok {
			return nil, fmt.Errorf("unknown operator %q", m[1])
		}
		value, err := parseAmount(m[2], m[3])
		if err != nil {
			return nil, err
		}
		return &model.PredicateNode{Field: field, Op: op, Value: value}, nil
	}
}

// rangeBuilder handles X到Y之间 clauses. Bounds are normalized so the
// lower one always comes first. Submatches: [1] low, [2] high.
func rangeBuilder(field model.Field) func(m []string) (*model.PredicateNode, error) {
	return func(m []string) (*model.PredicateNode, error) {
		low, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			return nil, fmt.Errorf("parse number %q: %w", m[1], err)
		}
		high, err := strconv.ParseFloat(m[2], 64)
		if err != nil {
			return nil, fmt.Errorf("parse number %q: %w", m[2], err)
		}
		if low > high {
			low, high = high, low
		}
		return &model.PredicateNode{Field: field, Op: model.OpBetween, Value: low, High: high}, nil
	}
}

// fuzzy wires a market-jargon word straight to a fixed comparison, e.g.
// 大盘股 means a market cap above 50 billion yuan.
func fuzzy(word string, leaf *model.PredicateNode) pattern {
	return pattern{
		name: "fuzzy_" + word,
		re:   regexp.MustCompile(word),
		build: func(_ []string) (*model.PredicateNode, error) {
			clone := *leaf
			return &clone, nil
		},
	}
}
