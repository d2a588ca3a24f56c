package tax

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestComputeVATPayable(t *testing.T) {
	got := ComputeVAT(amt("1000000"), amt("600000"), DefaultRules())

	if !got.OutputVAT.Equal(amt("100000")) {
		t.Fatalf("output VAT = %s", got.OutputVAT)
	}
	if !got.InputVAT.Equal(amt("60000")) {
		t.Fatalf("input VAT = %s", got.InputVAT)
	}
	if !got.Payable.Equal(amt("40000")) {
		t.Fatalf("payable = %s", got.Payable)
	}
	if !got.Refund.IsZero() {
		t.Fatalf("refund = %s, want 0", got.Refund)
	}
}

func TestComputeVATRefund(t *testing.T) {
	got := ComputeVAT(amt("600000"), amt("1000000"), DefaultRules())

	if !got.Refund.Equal(amt("40000")) {
		t.Fatalf("refund = %s", got.Refund)
	}
	if !got.Payable.IsZero() {
		t.Fatalf("payable = %s, want 0", got.Payable)
	}
}

func TestComputeVATExactlyOneSide(t *testing.T) {
	rules := DefaultRules()
	cases := []struct{ sales, purchases string }{
		{"0", "0"},
		{"1000000", "1000000"},
		{"500000", "123456"},
		{"-50000", "200000"},
	}
	for _, tc := range cases {
		got := ComputeVAT(amt(tc.sales), amt(tc.purchases), rules)
		if !got.Payable.IsZero() && !got.Refund.IsZero() {
			t.Fatalf("sales=%s purchases=%s: payable %s and refund %s both set",
				tc.sales, tc.purchases, got.Payable, got.Refund)
		}
		if got.Payable.IsNegative() || got.Refund.IsNegative() {
			t.Fatalf("sales=%s purchases=%s: negative side", tc.sales, tc.purchases)
		}
	}
}

func TestComputeVATClampsNegativeTotals(t *testing.T) {
	got := ComputeVAT(amt("-100000"), amt("-100000"), DefaultRules())
	if !got.TaxableSales.IsZero() || !got.TaxablePurchases.IsZero() {
		t.Fatalf("negative totals not clamped: %+v", got)
	}
}

func TestComputeIncomeTax(t *testing.T) {
	got := ComputeIncomeTax(IncomeTaxInput{
		GrossIncome:        amt("40000000"),
		DeductibleExpenses: amt("10000000"),
	}, DefaultRules())

	if !got.TaxableIncome.Equal(amt("30000000")) {
		t.Fatalf("taxable income = %s", got.TaxableIncome)
	}
	if !got.CalculatedTax.Equal(amt("3240000")) {
		t.Fatalf("calculated tax = %s", got.CalculatedTax)
	}
	// 7% of 3,240,000 stays below the cap.
	if !got.TaxCredit.Equal(amt("226800")) {
		t.Fatalf("credit = %s", got.TaxCredit)
	}
	if !got.FinalTax.Equal(amt("3013200")) {
		t.Fatalf("final tax = %s", got.FinalTax)
	}
	if !got.TaxLiability.Equal(amt("3013200")) {
		t.Fatalf("liability = %s", got.TaxLiability)
	}
}

func TestComputeIncomeTaxCreditCapped(t *testing.T) {
	got := ComputeIncomeTax(IncomeTaxInput{GrossIncome: amt("100000000")}, DefaultRules())

	if !got.CalculatedTax.Equal(amt("19560000")) {
		t.Fatalf("calculated tax = %s", got.CalculatedTax)
	}
	if !got.TaxCredit.Equal(amt("700000")) {
		t.Fatalf("credit = %s, want capped at 700000", got.TaxCredit)
	}
	if !got.FinalTax.Equal(amt("18860000")) {
		t.Fatalf("final tax = %s", got.FinalTax)
	}
}

func TestComputeIncomeTaxWithholdingFloorsAtZero(t *testing.T) {
	got := ComputeIncomeTax(IncomeTaxInput{
		GrossIncome:        amt("40000000"),
		DeductibleExpenses: amt("10000000"),
		WithholdingTax:     amt("4000000"),
	}, DefaultRules())

	if !got.TaxLiability.IsZero() {
		t.Fatalf("liability = %s, want 0 when withholding exceeds final tax", got.TaxLiability)
	}
}

func TestComputeIncomeTaxExpensesExceedIncome(t *testing.T) {
	got := ComputeIncomeTax(IncomeTaxInput{
		GrossIncome:        amt("5000000"),
		DeductibleExpenses: amt("8000000"),
	}, DefaultRules())

	if !got.TaxableIncome.IsZero() {
		t.Fatalf("taxable income = %s, want 0", got.TaxableIncome)
	}
	if !got.TaxLiability.IsZero() {
		t.Fatalf("liability = %s, want 0", got.TaxLiability)
	}
}

func TestComputeCorporateTax(t *testing.T) {
	got := ComputeCorporateTax(CorporateTaxInput{
		GrossIncome:        amt("50000000"),
		DeductibleExpenses: amt("40000000"),
	}, DefaultRules())

	if !got.CalculatedTax.Equal(amt("1900000")) {
		t.Fatalf("calculated tax = %s", got.CalculatedTax)
	}
	if !got.TaxCredit.Equal(amt("190000")) {
		t.Fatalf("credit = %s", got.TaxCredit)
	}
	if !got.FinalTax.Equal(amt("1710000")) {
		t.Fatalf("final tax = %s", got.FinalTax)
	}
}

func TestComputeCorporateTaxCreditCapped(t *testing.T) {
	// 19% of 100M is 19,000,000; 10% of that exceeds the 1,000,000 cap.
	got := ComputeCorporateTax(CorporateTaxInput{GrossIncome: amt("100000000")}, DefaultRules())
	if !got.TaxCredit.Equal(amt("1000000")) {
		t.Fatalf("credit = %s, want capped at 1000000", got.TaxCredit)
	}
	if !got.FinalTax.Equal(amt("18000000")) {
		t.Fatalf("final tax = %s", got.FinalTax)
	}
}

func TestLoadRulesFallsBackToDefaults(t *testing.T) {
	rules, err := LoadRules("")
	if err != nil {
		t.Fatalf("LoadRules: %v", err)
	}
	if !rules.VATRate.Equal(decimal.RequireFromString("0.10")) {
		t.Fatalf("vat rate = %s", rules.VATRate)
	}
}
