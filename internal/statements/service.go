package statements

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/semubook/semubook/internal/coa"
	"github.com/semubook/semubook/internal/ledger"
	"github.com/semubook/semubook/internal/shared"
)

const balanceConcurrency = 8

// AccountLister enumerates chart of accounts entries.
type AccountLister interface {
	ListActive(ctx context.Context) ([]coa.Account, error)
}

// BalanceReader reads one account's point-in-time balance from the ledger.
type BalanceReader interface {
	AccountBalance(ctx context.Context, accountCode string, asOf time.Time) (ledger.Balance, error)
}

// Service assembles statements from ledger balances, memoising results in
// the versioned cache.
type Service struct {
	accounts AccountLister
	balances BalanceReader
	cache    *Cache
}

// NewService constructs the statement service. cache may be nil.
func NewService(accounts AccountLister, balances BalanceReader, cache *Cache) *Service {
	return &Service{accounts: accounts, balances: balances, cache: cache}
}

// figures loads the signed balance of every active account as of a date.
// Reads fan out over a bounded errgroup; each balance is its own
// read-committed snapshot, so a write landing mid-scan may be reflected in
// later reads but never in earlier ones.
func (s *Service) figures(ctx context.Context, asOf time.Time) ([]AccountFigure, error) {
	accounts, err := s.accounts.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("statements: list accounts: %w", err)
	}
	figures := make([]AccountFigure, len(accounts))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(balanceConcurrency)
	for i, account := range accounts {
		g.Go(func() error {
			balance, err := s.balances.AccountBalance(ctx, account.Code, asOf)
			if err != nil {
				return err
			}
			figures[i] = AccountFigure{
				Code:     account.Code,
				Name:     account.Name,
				Category: account.Category,
				Debit:    balance.Debit,
				Credit:   balance.Credit,
				Balance:  balance.Balance,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return figures, nil
}

// TrialBalance builds the trial balance as of a date.
func (s *Service) TrialBalance(ctx context.Context, asOf time.Time) (TrialBalance, error) {
	key, err := s.cache.BuildKey(ctx, "statements", "tb", asOf.Format("2006-01-02"))
	if err != nil {
		return TrialBalance{}, err
	}
	var cached TrialBalance
	if hit, err := s.cache.Get(ctx, key, &cached); err == nil && hit {
		return cached, nil
	}
	figures, err := s.figures(ctx, asOf)
	if err != nil {
		return TrialBalance{}, err
	}
	tb := BuildTrialBalance(asOf, figures)
	_ = s.cache.Set(ctx, key, tb)
	return tb, nil
}

// incomeStatementPeriodEnd resolves the income statement's period key:
// 0 = whole year, 1..4 = quarter, 5..12 = calendar month. Months below May
// are reachable through their enclosing quarter.
func incomeStatementPeriodEnd(year, period int) (time.Time, error) {
	if period >= 5 && period <= 12 {
		return shared.MonthEnd(year, time.Month(period)), nil
	}
	return shared.PeriodEnd(year, period)
}

// IncomeStatement builds the income statement for a fiscal period.
func (s *Service) IncomeStatement(ctx context.Context, year, period int) (IncomeStatement, error) {
	asOf, err := incomeStatementPeriodEnd(year, period)
	if err != nil {
		return IncomeStatement{}, &shared.ValidationError{Rule: "invalid_period", Detail: err.Error()}
	}
	key, err := s.cache.BuildKey(ctx, "statements", "is", fmt.Sprintf("%d-%d", year, period))
	if err != nil {
		return IncomeStatement{}, err
	}
	var cached IncomeStatement
	if hit, err := s.cache.Get(ctx, key, &cached); err == nil && hit {
		return cached, nil
	}
	figures, err := s.figures(ctx, asOf)
	if err != nil {
		return IncomeStatement{}, err
	}
	is := BuildIncomeStatement(year, period, figures)
	_ = s.cache.Set(ctx, key, is)
	return is, nil
}

// BalanceSheet builds the balance sheet for a fiscal period.
func (s *Service) BalanceSheet(ctx context.Context, year, period int) (BalanceSheet, error) {
	asOf, err := shared.PeriodEnd(year, period)
	if err != nil {
		return BalanceSheet{}, &shared.ValidationError{Rule: "invalid_period", Detail: err.Error()}
	}
	key, err := s.cache.BuildKey(ctx, "statements", "bs", fmt.Sprintf("%d-%d", year, period))
	if err != nil {
		return BalanceSheet{}, err
	}
	var cached BalanceSheet
	if hit, err := s.cache.Get(ctx, key, &cached); err == nil && hit {
		return cached, nil
	}
	figures, err := s.figures(ctx, asOf)
	if err != nil {
		return BalanceSheet{}, err
	}
	bs := BuildBalanceSheet(year, period, figures)
	_ = s.cache.Set(ctx, key, bs)
	return bs, nil
}
