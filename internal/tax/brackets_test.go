package tax

import (
	"testing"

	"github.com/shopspring/decimal"
)

func amt(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestBracketTaxMarginalLadder(t *testing.T) {
	rules := DefaultRules()

	// 30,000,000: 14M at 6% + 16M at 15%.
	got := BracketTax(amt("30000000"), rules.IncomeBrackets)
	if !got.Equal(amt("3240000")) {
		t.Fatalf("tax(30M) = %s, want 3240000", got)
	}

	// A flat-rate shortcut would give 30M * 15% = 4,500,000.
	if got.Equal(amt("4500000")) {
		t.Fatalf("ladder collapsed to flat top-rate computation")
	}
}

func TestBracketTaxBoundariesMatchClosedForm(t *testing.T) {
	rules := DefaultRules()
	for idx, b := range rules.IncomeBrackets {
		if idx == 0 {
			continue
		}
		atFloor := BracketTax(b.Floor, rules.IncomeBrackets)
		closed := CumulativeAtFloor(idx, rules.IncomeBrackets)
		if !atFloor.Equal(closed) {
			t.Fatalf("bracket %d: ladder %s != closed form %s", idx, atFloor, closed)
		}
	}
}

func TestBracketTaxMarginalStepAboveBoundary(t *testing.T) {
	rules := DefaultRules()
	boundary := amt("50000000")
	atBoundary := BracketTax(boundary, rules.IncomeBrackets)
	justAbove := BracketTax(boundary.Add(amt("100")), rules.IncomeBrackets)

	// Only the 100 won above the floor is taxed at the higher 24% rate.
	delta := justAbove.Sub(atBoundary)
	if !delta.Equal(amt("24")) {
		t.Fatalf("marginal delta = %s, want 24", delta)
	}
}

func TestBracketTaxNonPositiveIncome(t *testing.T) {
	rules := DefaultRules()
	if got := BracketTax(decimal.Zero, rules.IncomeBrackets); !got.IsZero() {
		t.Fatalf("tax(0) = %s", got)
	}
	if got := BracketTax(amt("-5000"), rules.IncomeBrackets); !got.IsZero() {
		t.Fatalf("tax(-5000) = %s", got)
	}
}

func TestRulesValidate(t *testing.T) {
	rules := DefaultRules()
	if err := rules.Validate(); err != nil {
		t.Fatalf("default rules invalid: %v", err)
	}

	rules.IncomeBrackets[0].Floor = amt("1000")
	if err := rules.Validate(); err == nil {
		t.Fatalf("expected error for non-zero first floor")
	}

	rules = DefaultRules()
	rules.IncomeBrackets[1], rules.IncomeBrackets[2] = rules.IncomeBrackets[2], rules.IncomeBrackets[1]
	if err := rules.Validate(); err == nil {
		t.Fatalf("expected error for unsorted brackets")
	}

	rules = DefaultRules()
	rules.IncomeBrackets = nil
	if err := rules.Validate(); err == nil {
		t.Fatalf("expected error for empty bracket table")
	}
}
