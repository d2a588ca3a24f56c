package tax

import "github.com/shopspring/decimal"

// CorporateTaxInput carries the ledger-derived figures for a corporate tax
// computation.
type CorporateTaxInput struct {
	GrossIncome        decimal.Decimal `json:"gross_income"`
	DeductibleExpenses decimal.Decimal `json:"deductible_expenses"`
	WithholdingTax     decimal.Decimal `json:"withholding_tax"`
}

// CorporateTaxAssessment is the computed corporate tax position.
type CorporateTaxAssessment struct {
	GrossIncome        decimal.Decimal `json:"gross_income"`
	DeductibleExpenses decimal.Decimal `json:"deductible_expenses"`
	TaxableIncome      decimal.Decimal `json:"taxable_income"`
	CalculatedTax      decimal.Decimal `json:"calculated_tax"`
	TaxCredit          decimal.Decimal `json:"tax_credit"`
	FinalTax           decimal.Decimal `json:"final_tax"`
	WithholdingTax     decimal.Decimal `json:"withholding_tax"`
	TaxLiability       decimal.Decimal `json:"tax_liability"`
}

// ComputeCorporateTax mirrors the income tax shape with a flat statutory
// rate and its own credit cap.
func ComputeCorporateTax(in CorporateTaxInput, rules Rules) CorporateTaxAssessment {
	taxableIncome := maxZero(in.GrossIncome.Sub(in.DeductibleExpenses))
	calculated := taxableIncome.Mul(rules.CorporateRate).Round(2)
	credit := decimal.Min(calculated.Mul(rules.CorporateCreditRate).Round(2), rules.CorporateCreditCap)
	final := maxZero(calculated.Sub(credit))
	liability := maxZero(final.Sub(in.WithholdingTax))
	return CorporateTaxAssessment{
		GrossIncome:        in.GrossIncome,
		DeductibleExpenses: in.DeductibleExpenses,
		TaxableIncome:      taxableIncome,
		CalculatedTax:      calculated,
		TaxCredit:          credit,
		FinalTax:           final,
		WithholdingTax:     in.WithholdingTax,
		TaxLiability:       liability,
	}
}
