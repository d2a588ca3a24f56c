// Package tax computes statutory tax figures (VAT, individual income tax,
// corporate tax) from ledger balances. All functions are stateless; rates
// and bracket tables are configuration so yearly updates never touch code.
// The built-in tables are illustrative, not authoritative.
package tax

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/shopspring/decimal"
)

// Bracket is one rung of a progressive tax ladder. Floor is the inclusive
// lower bound of income taxed at Rate.
type Bracket struct {
	Floor decimal.Decimal `json:"floor"`
	Rate  decimal.Decimal `json:"rate"`
}

// Rules carries every tunable statutory parameter for one tax year.
type Rules struct {
	VATRate decimal.Decimal `json:"vat_rate"`

	IncomeBrackets   []Bracket       `json:"income_brackets"`
	IncomeCreditRate decimal.Decimal `json:"income_credit_rate"`
	IncomeCreditCap  decimal.Decimal `json:"income_credit_cap"`

	CorporateRate       decimal.Decimal `json:"corporate_rate"`
	CorporateCreditRate decimal.Decimal `json:"corporate_credit_rate"`
	CorporateCreditCap  decimal.Decimal `json:"corporate_credit_cap"`
}

// DefaultRules returns the illustrative rule set resembling the Korean
// individual income tax ladder and 10% VAT.
func DefaultRules() Rules {
	return Rules{
		VATRate: decimal.RequireFromString("0.10"),
		IncomeBrackets: []Bracket{
			{Floor: decimal.Zero, Rate: decimal.RequireFromString("0.06")},
			{Floor: decimal.NewFromInt(14_000_000), Rate: decimal.RequireFromString("0.15")},
			{Floor: decimal.NewFromInt(50_000_000), Rate: decimal.RequireFromString("0.24")},
			{Floor: decimal.NewFromInt(88_000_000), Rate: decimal.RequireFromString("0.35")},
			{Floor: decimal.NewFromInt(150_000_000), Rate: decimal.RequireFromString("0.38")},
			{Floor: decimal.NewFromInt(300_000_000), Rate: decimal.RequireFromString("0.40")},
			{Floor: decimal.NewFromInt(500_000_000), Rate: decimal.RequireFromString("0.42")},
			{Floor: decimal.NewFromInt(1_000_000_000), Rate: decimal.RequireFromString("0.45")},
		},
		IncomeCreditRate: decimal.RequireFromString("0.07"),
		IncomeCreditCap:  decimal.NewFromInt(700_000),

		CorporateRate:       decimal.RequireFromString("0.19"),
		CorporateCreditRate: decimal.RequireFromString("0.10"),
		CorporateCreditCap:  decimal.NewFromInt(1_000_000),
	}
}

// LoadRules reads a Rules JSON document from path, falling back to the
// defaults when path is empty.
func LoadRules(path string) (Rules, error) {
	if path == "" {
		return DefaultRules(), nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return Rules{}, fmt.Errorf("tax: read rules: %w", err)
	}
	var rules Rules
	if err := json.Unmarshal(raw, &rules); err != nil {
		return Rules{}, fmt.Errorf("tax: decode rules: %w", err)
	}
	if err := rules.Validate(); err != nil {
		return Rules{}, err
	}
	return rules, nil
}

// Validate checks the bracket table is a well-formed ladder.
func (r Rules) Validate() error {
	if len(r.IncomeBrackets) == 0 {
		return fmt.Errorf("tax: rules need at least one income bracket")
	}
	sorted := sort.SliceIsSorted(r.IncomeBrackets, func(i, j int) bool {
		return r.IncomeBrackets[i].Floor.LessThan(r.IncomeBrackets[j].Floor)
	})
	if !sorted {
		return fmt.Errorf("tax: income brackets must be sorted by floor ascending")
	}
	if !r.IncomeBrackets[0].Floor.IsZero() {
		return fmt.Errorf("tax: first income bracket must start at zero")
	}
	for i, b := range r.IncomeBrackets {
		if b.Rate.IsNegative() {
			return fmt.Errorf("tax: bracket %d has negative rate", i)
		}
	}
	return nil
}
