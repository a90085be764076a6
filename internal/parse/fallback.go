package parse

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/tally-dev/tally/internal/ledger"
	"github.com/tally-dev/tally/internal/model"
)

var fallbackPattern = regexp.MustCompile(
	`(?i)(spent|paid|gave|got|received)\s+([\d,.]+k?)\s*(usd|dollars?|\$)?\s*(?:on|for)?\s*(.+)`)

var thousands = decimal.NewFromInt(1000)

// FallbackParser extracts a single transaction from simple phrases like
// "spent 50k on food" or "received 200 usd for consulting". It covers the
// common case when no smarter extractor is available.
type FallbackParser struct {
	primary   model.Currency
	secondary model.Currency // used when dollar words appear
}

// NewFallbackParser creates a FallbackParser over the configured pair.
func NewFallbackParser(primary, secondary model.Currency) *FallbackParser {
	return &FallbackParser{primary: primary, secondary: secondary}
}

// Name implements Parser.
func (p *FallbackParser) Name() string { return "fallback" }

// Parse implements Parser.
func (p *FallbackParser) Parse(text string) ([]ledger.Draft, error) {
	m := fallbackPattern.FindStringSubmatch(text)
	if m == nil {
		return nil, nil
	}

	amount, err := parseAmount(m[2])
	if err != nil {
		return nil, nil // not an amount after all; let the next parser try
	}

	kind := model.KindIncome
	switch strings.ToLower(m[1]) {
	case "spent", "paid", "gave":
		kind = model.KindExpense
	}

	currency := p.primary
	if m[3] != "" {
		currency = p.secondary
	}

	return []ledger.Draft{{
		Kind:        kind,
		Amount:      amount,
		Currency:    currency,
		Category:    "Other",
		Description: strings.TrimSpace(m[4]),
	}}, nil
}

// parseAmount handles comma separators and the "k" thousands suffix.
func parseAmount(s string) (decimal.Decimal, error) {
	s = strings.ReplaceAll(strings.ToLower(s), ",", "")
	mult := decimal.NewFromInt(1)
	if strings.HasSuffix(s, "k") {
		s = strings.TrimSuffix(s, "k")
		mult = thousands
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, err
	}
	return d.Mul(mult), nil
}
