// Package coa maintains the chart of accounts: the registry of account
// codes, categories, and normal balance sides that every journal line must
// resolve against.
package coa

import (
	"time"
)

// Category enumerates chart of accounts categories.
type Category string

const (
	CategoryAsset     Category = "ASSET"
	CategoryLiability Category = "LIABILITY"
	CategoryEquity    Category = "EQUITY"
	CategoryRevenue   Category = "REVENUE"
	CategoryExpense   Category = "EXPENSE"
)

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	switch c {
	case CategoryAsset, CategoryLiability, CategoryEquity, CategoryRevenue, CategoryExpense:
		return true
	}
	return false
}

// BalanceSide enumerates the two sides of the ledger.
type BalanceSide string

const (
	SideDebit  BalanceSide = "DEBIT"
	SideCredit BalanceSide = "CREDIT"
)

// NormalBalanceFor derives the normal balance side from the category.
// Asset and expense accounts grow on the debit side; liability, equity,
// and revenue accounts grow on the credit side.
func NormalBalanceFor(c Category) BalanceSide {
	switch c {
	case CategoryAsset, CategoryExpense:
		return SideDebit
	default:
		return SideCredit
	}
}

// TaxCategory tags how an account participates in VAT computation.
type TaxCategory string

const (
	// TaxCategoryTaxable marks 과세 accounts whose balances feed VAT.
	TaxCategoryTaxable TaxCategory = "TAXABLE"
	// TaxCategoryExempt marks 면세 accounts excluded from VAT.
	TaxCategoryExempt TaxCategory = "EXEMPT"
	// TaxCategoryNone marks accounts outside the VAT scope.
	TaxCategoryNone TaxCategory = "NONE"
)

// Account models a chart of accounts entry. The normal balance side is
// derived from the category at creation and is immutable once any
// transaction references the account.
type Account struct {
	Code          string
	Name          string
	Category      Category
	NormalBalance BalanceSide
	TaxCategory   TaxCategory
	IsActive      bool
	UseCount      int64
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
