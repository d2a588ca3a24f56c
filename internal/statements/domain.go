// Package statements derives financial statements (trial balance, income
// statement, balance sheet) from ledger balances.
package statements

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/semubook/semubook/internal/coa"
)

// AccountFigure is one account's aggregated figures feeding the builders.
// Balance is already signed by the account's normal balance side.
type AccountFigure struct {
	Code     string
	Name     string
	Category coa.Category
	Debit    decimal.Decimal
	Credit   decimal.Decimal
	Balance  decimal.Decimal
}

// TrialBalanceRow is one line of the trial balance.
type TrialBalanceRow struct {
	Code    string          `json:"code"`
	Name    string          `json:"name"`
	Debit   decimal.Decimal `json:"debit"`
	Credit  decimal.Decimal `json:"credit"`
	Balance decimal.Decimal `json:"balance"`
}

// TrialBalance lists every account with ledger activity as of a date.
type TrialBalance struct {
	AsOf        time.Time         `json:"as_of"`
	Rows        []TrialBalanceRow `json:"rows"`
	TotalDebit  decimal.Decimal   `json:"total_debit"`
	TotalCredit decimal.Decimal   `json:"total_credit"`
}

// StatementLine is one detail row of an income statement or balance sheet
// section.
type StatementLine struct {
	Code   string          `json:"code"`
	Name   string          `json:"name"`
	Amount decimal.Decimal `json:"amount"`
}

// IncomeStatement aggregates revenue and expense balances for a period.
// Detail lines include only accounts reporting a positive balance under
// their normal-balance convention; the totals cover every account so they
// reconcile even when contra balances are hidden from the breakdown.
type IncomeStatement struct {
	Year          int             `json:"year"`
	Period        int             `json:"period"`
	Revenue       []StatementLine `json:"revenue"`
	Expenses      []StatementLine `json:"expenses"`
	TotalRevenue  decimal.Decimal `json:"total_revenue"`
	TotalExpenses decimal.Decimal `json:"total_expenses"`
	NetIncome     decimal.Decimal `json:"net_income"`
}

// BalanceSheet aggregates asset, liability, and equity balances. The
// accounting identity (assets = liabilities + equity) is exposed for the
// caller to verify, never asserted here.
type BalanceSheet struct {
	Year             int             `json:"year"`
	Period           int             `json:"period"`
	Assets           []StatementLine `json:"assets"`
	Liabilities      []StatementLine `json:"liabilities"`
	Equity           []StatementLine `json:"equity"`
	TotalAssets      decimal.Decimal `json:"total_assets"`
	TotalLiabilities decimal.Decimal `json:"total_liabilities"`
	TotalEquity      decimal.Decimal `json:"total_equity"`
}
