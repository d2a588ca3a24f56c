package taxreturn

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/semubook/semubook/internal/coa"
	"github.com/semubook/semubook/internal/ledger"
	"github.com/semubook/semubook/internal/shared"
)

// AccountLister enumerates active chart of accounts entries.
type AccountLister interface {
	ListActive(ctx context.Context) ([]coa.Account, error)
}

// BalanceReader reads one account's point-in-time balance from the ledger.
type BalanceReader interface {
	AccountBalance(ctx context.Context, accountCode string, asOf time.Time) (ledger.Balance, error)
}

// LedgerFigures derives computation inputs from ledger balances. It is the
// production FiguresSource.
type LedgerFigures struct {
	accounts AccountLister
	balances BalanceReader
}

// NewLedgerFigures constructs LedgerFigures.
func NewLedgerFigures(accounts AccountLister, balances BalanceReader) *LedgerFigures {
	return &LedgerFigures{accounts: accounts, balances: balances}
}

// VATTotals sums signed balances of taxable revenue accounts (sales side)
// and taxable expense accounts (purchase side) as of the period end.
func (f *LedgerFigures) VATTotals(ctx context.Context, year, period int) (decimal.Decimal, decimal.Decimal, error) {
	asOf, err := shared.PeriodEnd(year, period)
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}
	taxableSales := decimal.Zero
	taxablePurchases := decimal.Zero
	accounts, err := f.accounts.ListActive(ctx)
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}
	for _, account := range accounts {
		if account.TaxCategory != coa.TaxCategoryTaxable {
			continue
		}
		switch account.Category {
		case coa.CategoryRevenue, coa.CategoryExpense:
		default:
			continue
		}
		balance, err := f.balances.AccountBalance(ctx, account.Code, asOf)
		if err != nil {
			return decimal.Zero, decimal.Zero, fmt.Errorf("balance for %s: %w", account.Code, err)
		}
		if account.Category == coa.CategoryRevenue {
			taxableSales = taxableSales.Add(balance.Balance)
		} else {
			taxablePurchases = taxablePurchases.Add(balance.Balance)
		}
	}
	return taxableSales, taxablePurchases, nil
}

// IncomeTotals sums signed balances of every revenue account (gross income)
// and every expense account (deductible expenses) as of the period end.
func (f *LedgerFigures) IncomeTotals(ctx context.Context, year, period int) (decimal.Decimal, decimal.Decimal, error) {
	asOf, err := shared.PeriodEnd(year, period)
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}
	gross := decimal.Zero
	deductible := decimal.Zero
	accounts, err := f.accounts.ListActive(ctx)
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}
	for _, account := range accounts {
		switch account.Category {
		case coa.CategoryRevenue, coa.CategoryExpense:
		default:
			continue
		}
		balance, err := f.balances.AccountBalance(ctx, account.Code, asOf)
		if err != nil {
			return decimal.Zero, decimal.Zero, fmt.Errorf("balance for %s: %w", account.Code, err)
		}
		if account.Category == coa.CategoryRevenue {
			gross = gross.Add(balance.Balance)
		} else {
			deductible = deductible.Add(balance.Balance)
		}
	}
	return gross, deductible, nil
}
