package coa

// DefaultChart returns the standard chart of accounts seeded for a new
// organization. Codes follow the conventional Korean small-business layout:
// 1xxx assets, 2xxx liabilities, 3xxx equity, 4xxx revenue, 5xxx expenses.
func DefaultChart() []CreateInput {
	return []CreateInput{
		{Code: "1100", Name: "현금", Category: CategoryAsset},
		{Code: "1110", Name: "보통예금", Category: CategoryAsset},
		{Code: "1200", Name: "외상매출금", Category: CategoryAsset},
		{Code: "1300", Name: "부가세대급금", Category: CategoryAsset, TaxCategory: TaxCategoryTaxable},
		{Code: "2100", Name: "외상매입금", Category: CategoryLiability},
		{Code: "2200", Name: "미지급금", Category: CategoryLiability},
		{Code: "2300", Name: "부가세예수금", Category: CategoryLiability, TaxCategory: TaxCategoryTaxable},
		{Code: "3100", Name: "자본금", Category: CategoryEquity},
		{Code: "4100", Name: "매출", Category: CategoryRevenue, TaxCategory: TaxCategoryTaxable},
		{Code: "4200", Name: "영업외수익", Category: CategoryRevenue},
		{Code: "5100", Name: "매입", Category: CategoryExpense, TaxCategory: TaxCategoryTaxable},
		{Code: "5210", Name: "복리후생비", Category: CategoryExpense},
		{Code: "5220", Name: "여비교통비", Category: CategoryExpense},
		{Code: "5230", Name: "접대비", Category: CategoryExpense},
		{Code: "5240", Name: "통신비", Category: CategoryExpense},
		{Code: "5250", Name: "수도광열비", Category: CategoryExpense},
		{Code: "5260", Name: "지급임차료", Category: CategoryExpense},
		{Code: "5270", Name: "차량유지비", Category: CategoryExpense},
		{Code: "5280", Name: "소모품비", Category: CategoryExpense},
		{Code: "5290", Name: "지급수수료", Category: CategoryExpense},
	}
}
