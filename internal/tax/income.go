package tax

import "github.com/shopspring/decimal"

// IncomeTaxInput carries the ledger-derived figures for an individual
// income tax computation.
type IncomeTaxInput struct {
	GrossIncome        decimal.Decimal `json:"gross_income"`
	DeductibleExpenses decimal.Decimal `json:"deductible_expenses"`
	WithholdingTax     decimal.Decimal `json:"withholding_tax"`
}

// IncomeTaxAssessment is the computed individual income tax position.
type IncomeTaxAssessment struct {
	GrossIncome        decimal.Decimal `json:"gross_income"`
	DeductibleExpenses decimal.Decimal `json:"deductible_expenses"`
	TaxableIncome      decimal.Decimal `json:"taxable_income"`
	CalculatedTax      decimal.Decimal `json:"calculated_tax"`
	TaxCredit          decimal.Decimal `json:"tax_credit"`
	FinalTax           decimal.Decimal `json:"final_tax"`
	WithholdingTax     decimal.Decimal `json:"withholding_tax"`
	TaxLiability       decimal.Decimal `json:"tax_liability"`
}

// ComputeIncomeTax applies the progressive bracket ladder, subtracts the
// capped credit, then offsets tax already withheld. The liability never
// goes negative; over-withholding is the caller's refund concern.
func ComputeIncomeTax(in IncomeTaxInput, rules Rules) IncomeTaxAssessment {
	taxableIncome := maxZero(in.GrossIncome.Sub(in.DeductibleExpenses))
	calculated := BracketTax(taxableIncome, rules.IncomeBrackets).Round(2)
	credit := decimal.Min(calculated.Mul(rules.IncomeCreditRate).Round(2), rules.IncomeCreditCap)
	final := maxZero(calculated.Sub(credit))
	liability := maxZero(final.Sub(in.WithholdingTax))
	return IncomeTaxAssessment{
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

func maxZero(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}
