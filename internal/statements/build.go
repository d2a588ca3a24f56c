package statements

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/semubook/semubook/internal/coa"
)

// BuildTrialBalance lists accounts with non-zero debit or credit totals,
// sorted by account code ascending.
func BuildTrialBalance(asOf time.Time, figures []AccountFigure) TrialBalance {
	tb := TrialBalance{AsOf: asOf, TotalDebit: decimal.Zero, TotalCredit: decimal.Zero}
	for _, fig := range figures {
		if fig.Debit.IsZero() && fig.Credit.IsZero() {
			continue
		}
		tb.Rows = append(tb.Rows, TrialBalanceRow{
			Code:    fig.Code,
			Name:    fig.Name,
			Debit:   fig.Debit,
			Credit:  fig.Credit,
			Balance: fig.Balance,
		})
		tb.TotalDebit = tb.TotalDebit.Add(fig.Debit)
		tb.TotalCredit = tb.TotalCredit.Add(fig.Credit)
	}
	sort.Slice(tb.Rows, func(i, j int) bool { return tb.Rows[i].Code < tb.Rows[j].Code })
	return tb
}

// BuildIncomeStatement aggregates revenue and expense figures. Totals sum
// every account of the category; detail lines keep only positive balances.
func BuildIncomeStatement(year, period int, figures []AccountFigure) IncomeStatement {
	is := IncomeStatement{
		Year:          year,
		Period:        period,
		TotalRevenue:  decimal.Zero,
		TotalExpenses: decimal.Zero,
	}
	for _, fig := range figures {
		switch fig.Category {
		case coa.CategoryRevenue:
			is.TotalRevenue = is.TotalRevenue.Add(fig.Balance)
			if fig.Balance.IsPositive() {
				is.Revenue = append(is.Revenue, StatementLine{Code: fig.Code, Name: fig.Name, Amount: fig.Balance})
			}
		case coa.CategoryExpense:
			is.TotalExpenses = is.TotalExpenses.Add(fig.Balance)
			if fig.Balance.IsPositive() {
				is.Expenses = append(is.Expenses, StatementLine{Code: fig.Code, Name: fig.Name, Amount: fig.Balance})
			}
		}
	}
	sortLines(is.Revenue)
	sortLines(is.Expenses)
	is.NetIncome = is.TotalRevenue.Sub(is.TotalExpenses)
	return is
}

// BuildBalanceSheet aggregates asset, liability, and equity figures with the
// same detail-line convention as the income statement.
func BuildBalanceSheet(year, period int, figures []AccountFigure) BalanceSheet {
	bs := BalanceSheet{
		Year:             year,
		Period:           period,
		TotalAssets:      decimal.Zero,
		TotalLiabilities: decimal.Zero,
		TotalEquity:      decimal.Zero,
	}
	for _, fig := range figures {
		line := StatementLine{Code: fig.Code, Name: fig.Name, Amount: fig.Balance}
		switch fig.Category {
		case coa.CategoryAsset:
			bs.TotalAssets = bs.TotalAssets.Add(fig.Balance)
			if fig.Balance.IsPositive() {
				bs.Assets = append(bs.Assets, line)
			}
		case coa.CategoryLiability:
			bs.TotalLiabilities = bs.TotalLiabilities.Add(fig.Balance)
			if fig.Balance.IsPositive() {
				bs.Liabilities = append(bs.Liabilities, line)
			}
		case coa.CategoryEquity:
			bs.TotalEquity = bs.TotalEquity.Add(fig.Balance)
			if fig.Balance.IsPositive() {
				bs.Equity = append(bs.Equity, line)
			}
		}
	}
	sortLines(bs.Assets)
	sortLines(bs.Liabilities)
	sortLines(bs.Equity)
	return bs
}

func sortLines(lines []StatementLine) {
	sort.Slice(lines, func(i, j int) bool { return lines[i].Code < lines[j].Code })
}
