package tax

import "github.com/shopspring/decimal"

// VATAssessment is the computed value-added tax position for one period.
// Exactly one of Payable and Refund is non-zero (or both are zero).
type VATAssessment struct {
	TaxableSales     decimal.Decimal `json:"taxable_sales"`
	OutputVAT        decimal.Decimal `json:"output_vat"`
	TaxablePurchases decimal.Decimal `json:"taxable_purchases"`
	InputVAT         decimal.Decimal `json:"input_vat"`
	Payable          decimal.Decimal `json:"payable"`
	Refund           decimal.Decimal `json:"refund"`
}

// ComputeVAT derives the VAT position from taxable sales and purchase
// totals. Output VAT is charged on sales, input VAT reclaimed on
// purchases; the net falls on exactly one side.
func ComputeVAT(taxableSales, taxablePurchases decimal.Decimal, rules Rules) VATAssessment {
	if taxableSales.IsNegative() {
		taxableSales = decimal.Zero
	}
	if taxablePurchases.IsNegative() {
		taxablePurchases = decimal.Zero
	}
	outputVAT := taxableSales.Mul(rules.VATRate).Round(2)
	inputVAT := taxablePurchases.Mul(rules.VATRate).Round(2)
	net := outputVAT.Sub(inputVAT)
	assessment := VATAssessment{
		TaxableSales:     taxableSales,
		OutputVAT:        outputVAT,
		TaxablePurchases: taxablePurchases,
		InputVAT:         inputVAT,
		Payable:          decimal.Zero,
		Refund:           decimal.Zero,
	}
	if net.IsPositive() {
		assessment.Payable = net
	} else {
		assessment.Refund = net.Neg()
	}
	return assessment
}
