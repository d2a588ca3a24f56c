package ledger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/semubook/semubook/internal/coa"
	"github.com/semubook/semubook/internal/shared"
)

// ============================================================================
// MOCK REPOSITORY
// ============================================================================

type mockRepo struct {
	txns map[uuid.UUID]Transaction
}

func newMockRepo() *mockRepo {
	return &mockRepo{txns: make(map[uuid.UUID]Transaction)}
}

func (r *mockRepo) Insert(ctx context.Context, txn Transaction) (Transaction, error) {
	txn.CreatedAt = time.Now()
	txn.UpdatedAt = txn.CreatedAt
	r.txns[txn.ID] = txn
	return txn, nil
}

func (r *mockRepo) Get(ctx context.Context, id uuid.UUID) (Transaction, error) {
	txn, ok := r.txns[id]
	if !ok {
		return Transaction{}, &shared.NotFoundError{Entity: "transaction", Ref: id.String()}
	}
	return txn, nil
}

func (r *mockRepo) List(ctx context.Context, filter ListFilter) ([]Transaction, error) {
	var out []Transaction
	for _, txn := range r.txns {
		if filter.Status != "" && txn.Status != filter.Status {
			continue
		}
		out = append(out, txn)
	}
	return out, nil
}

func (r *mockRepo) SetApproved(ctx context.Context, id uuid.UUID, approver string, at time.Time) error {
	txn, ok := r.txns[id]
	if !ok {
		return &shared.NotFoundError{Entity: "transaction", Ref: id.String()}
	}
	txn.Status = StatusPosted
	txn.ApprovedBy = approver
	txn.ApprovedAt = &at
	r.txns[id] = txn
	return nil
}

func (r *mockRepo) SetCancelled(ctx context.Context, id uuid.UUID, actor, reason string, at time.Time) error {
	txn, ok := r.txns[id]
	if !ok {
		return &shared.NotFoundError{Entity: "transaction", Ref: id.String()}
	}
	txn.Status = StatusCancelled
	txn.CancelledBy = actor
	txn.CancelReason = reason
	txn.CancelledAt = &at
	r.txns[id] = txn
	return nil
}

func (r *mockRepo) SumAccount(ctx context.Context, accountCode string, asOf time.Time) (decimal.Decimal, decimal.Decimal, error) {
	debit := decimal.Zero
	credit := decimal.Zero
	for _, txn := range r.txns {
		if txn.Status == StatusCancelled || txn.Date.After(asOf) {
			continue
		}
		for _, line := range txn.Lines {
			if line.AccountCode != accountCode {
				continue
			}
			debit = debit.Add(line.Debit)
			credit = credit.Add(line.Credit)
		}
	}
	return debit, credit, nil
}

type mockRegistry struct {
	accounts map[string]coa.Account
	usage    map[string]int
	usageErr error
}

func newMockRegistry(accounts ...coa.Account) *mockRegistry {
	reg := &mockRegistry{accounts: make(map[string]coa.Account), usage: make(map[string]int)}
	for _, account := range accounts {
		reg.accounts[account.Code] = account
	}
	return reg
}

func (r *mockRegistry) Get(ctx context.Context, code string) (coa.Account, error) {
	account, ok := r.accounts[code]
	if !ok {
		return coa.Account{}, &shared.NotFoundError{Entity: "account", Ref: code}
	}
	return account, nil
}

func (r *mockRegistry) IncrementUsage(ctx context.Context, codes []string) error {
	if r.usageErr != nil {
		return r.usageErr
	}
	for _, code := range codes {
		r.usage[code]++
	}
	return nil
}

type mockInvalidator struct {
	calls int
}

func (m *mockInvalidator) Invalidate(ctx context.Context) error {
	m.calls++
	return nil
}

func testAccount(code string, category coa.Category) coa.Account {
	return coa.Account{
		Code:          code,
		Name:          "account " + code,
		Category:      category,
		NormalBalance: coa.NormalBalanceFor(category),
		IsActive:      true,
	}
}

func newTestService() (*Service, *mockRepo, *mockRegistry) {
	repo := newMockRepo()
	registry := newMockRegistry(
		testAccount("1100", coa.CategoryAsset),
		testAccount("2100", coa.CategoryLiability),
		testAccount("3100", coa.CategoryEquity),
		testAccount("4100", coa.CategoryRevenue),
		testAccount("5210", coa.CategoryExpense),
	)
	return NewService(repo, registry), repo, registry
}

func amount(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func date(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

// ============================================================================
// POSTING
// ============================================================================

func TestPostBalancedEntry(t *testing.T) {
	svc, _, registry := newTestService()

	txn, err := svc.Post(context.Background(), PostingInput{
		Date:        date("2024-01-15"),
		Description: "복리후생비 지출",
		Lines: []Line{
			{AccountCode: "5210", Debit: amount("100000")},
			{AccountCode: "1100", Credit: amount("100000")},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, StatusDraft, txn.Status)
	assert.NotEqual(t, uuid.Nil, txn.ID)
	assert.Equal(t, 1, registry.usage["5210"])
	assert.Equal(t, 1, registry.usage["1100"])
}

func TestPostUnbalancedEntryRejected(t *testing.T) {
	svc, repo, _ := newTestService()

	_, err := svc.Post(context.Background(), PostingInput{
		Date: date("2024-01-15"),
		Lines: []Line{
			{AccountCode: "5210", Debit: amount("100000")},
			{AccountCode: "1100", Credit: amount("90000")},
		},
	})
	require.Error(t, err)
	assert.True(t, shared.IsValidation(err))
	assert.Empty(t, repo.txns, "no partial write on validation failure")
}

func TestPostWithinTolerance(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.Post(context.Background(), PostingInput{
		Date: date("2024-01-15"),
		Lines: []Line{
			{AccountCode: "5210", Debit: amount("100.00")},
			{AccountCode: "1100", Credit: amount("99.99")},
		},
	})
	assert.NoError(t, err, "1 cent mismatch is inside tolerance")
}

func TestPostUnknownAccountRejected(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.Post(context.Background(), PostingInput{
		Date: date("2024-01-15"),
		Lines: []Line{
			{AccountCode: "9999", Debit: amount("1000")},
			{AccountCode: "1100", Credit: amount("1000")},
		},
	})
	require.Error(t, err)
	var ve *shared.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "unknown_account", ve.Rule)
}

func TestPostInactiveAccountRejected(t *testing.T) {
	svc, _, registry := newTestService()
	inactive := testAccount("5999", coa.CategoryExpense)
	inactive.IsActive = false
	registry.accounts["5999"] = inactive

	_, err := svc.Post(context.Background(), PostingInput{
		Date: date("2024-01-15"),
		Lines: []Line{
			{AccountCode: "5999", Debit: amount("1000")},
			{AccountCode: "1100", Credit: amount("1000")},
		},
	})
	require.Error(t, err)
	var ve *shared.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "inactive_account", ve.Rule)
}

func TestPostLineWithBothSidesRejected(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.Post(context.Background(), PostingInput{
		Date: date("2024-01-15"),
		Lines: []Line{
			{AccountCode: "5210", Debit: amount("1000"), Credit: amount("1000")},
			{AccountCode: "1100"},
		},
	})
	require.Error(t, err)
	var ve *shared.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "line_both_sides", ve.Rule)
}

func TestPostTooFewLinesRejected(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.Post(context.Background(), PostingInput{
		Date:  date("2024-01-15"),
		Lines: []Line{{AccountCode: "5210", Debit: amount("1000")}},
	})
	require.Error(t, err)
	assert.True(t, shared.IsValidation(err))
}

func TestPostInvalidatesCacheBeforeUsageCounter(t *testing.T) {
	repo := newMockRepo()
	registry := newMockRegistry(
		testAccount("1100", coa.CategoryAsset),
		testAccount("5210", coa.CategoryExpense),
	)
	registry.usageErr = errors.New("counter store down")
	inv := &mockInvalidator{}
	svc := NewService(repo, registry).WithInvalidator(inv)

	_, err := svc.Post(context.Background(), PostingInput{
		Date: date("2024-01-15"),
		Lines: []Line{
			{AccountCode: "5210", Debit: amount("100000")},
			{AccountCode: "1100", Credit: amount("100000")},
		},
	})
	require.Error(t, err)
	// The entry is already persisted, so stale statement snapshots must
	// be dropped even though the usage counter failed.
	assert.Len(t, repo.txns, 1)
	assert.Equal(t, 1, inv.calls)
}

func TestPostCancelInvalidateCaches(t *testing.T) {
	repo := newMockRepo()
	registry := newMockRegistry(
		testAccount("1100", coa.CategoryAsset),
		testAccount("5210", coa.CategoryExpense),
	)
	inv := &mockInvalidator{}
	svc := NewService(repo, registry).WithInvalidator(inv)

	txn := mustPost(t, svc, "2024-01-15", "5210", "1100", "50000")
	assert.Equal(t, 1, inv.calls)

	_, err := svc.Cancel(context.Background(), txn.ID, "kim", "dup")
	require.NoError(t, err)
	assert.Equal(t, 2, inv.calls)
}

// ============================================================================
// APPROVAL / CANCELLATION
// ============================================================================

func TestApproveDraft(t *testing.T) {
	svc, _, _ := newTestService()
	txn := mustPost(t, svc, "2024-01-15", "5210", "1100", "50000")

	approved, err := svc.Approve(context.Background(), txn.ID, "kim")
	require.NoError(t, err)
	assert.Equal(t, StatusPosted, approved.Status)
	assert.Equal(t, "kim", approved.ApprovedBy)
	require.NotNil(t, approved.ApprovedAt)
}

func TestApproveTwiceConflicts(t *testing.T) {
	svc, _, _ := newTestService()
	txn := mustPost(t, svc, "2024-01-15", "5210", "1100", "50000")

	_, err := svc.Approve(context.Background(), txn.ID, "kim")
	require.NoError(t, err)
	_, err = svc.Approve(context.Background(), txn.ID, "lee")
	assert.True(t, shared.IsConflict(err))
}

func TestApproveMissingNotFound(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.Approve(context.Background(), uuid.New(), "kim")
	assert.True(t, shared.IsNotFound(err))
}

func TestCancelExcludesFromBalances(t *testing.T) {
	svc, _, _ := newTestService()
	txn := mustPost(t, svc, "2024-01-15", "5210", "1100", "50000")

	cancelled, err := svc.Cancel(context.Background(), txn.ID, "kim", "entered twice")
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, cancelled.Status)
	assert.Equal(t, "entered twice", cancelled.CancelReason)

	balance, err := svc.AccountBalance(context.Background(), "5210", date("2024-12-31"))
	require.NoError(t, err)
	assert.True(t, balance.Balance.IsZero(), "cancelled transactions are filtered out")
}

func TestCancelTwiceConflicts(t *testing.T) {
	svc, _, _ := newTestService()
	txn := mustPost(t, svc, "2024-01-15", "5210", "1100", "50000")

	_, err := svc.Cancel(context.Background(), txn.ID, "kim", "dup")
	require.NoError(t, err)
	_, err = svc.Cancel(context.Background(), txn.ID, "kim", "dup again")
	assert.True(t, shared.IsConflict(err))
}

// ============================================================================
// BALANCES
// ============================================================================

func TestBalanceSignConvention(t *testing.T) {
	svc, repo, _ := newTestService()
	// Asset account: debit 100, credit 30 -> +70.
	// Revenue account: debit 100, credit 30 -> -70 (credit-normal flips).
	repo.txns[uuid.New()] = Transaction{
		ID:     uuid.New(),
		Date:   date("2024-03-01"),
		Status: StatusPosted,
		Lines: []Line{
			{AccountCode: "1100", Debit: amount("100")},
			{AccountCode: "4100", Debit: amount("100")},
			{AccountCode: "2100", Credit: amount("200")},
		},
	}
	repo.txns[uuid.New()] = Transaction{
		ID:     uuid.New(),
		Date:   date("2024-03-02"),
		Status: StatusPosted,
		Lines: []Line{
			{AccountCode: "1100", Credit: amount("30")},
			{AccountCode: "4100", Credit: amount("30")},
			{AccountCode: "2100", Debit: amount("60")},
		},
	}

	asset, err := svc.AccountBalance(context.Background(), "1100", date("2024-12-31"))
	require.NoError(t, err)
	assert.True(t, asset.Balance.Equal(amount("70")), "asset balance = %s", asset.Balance)

	revenue, err := svc.AccountBalance(context.Background(), "4100", date("2024-12-31"))
	require.NoError(t, err)
	assert.True(t, revenue.Balance.Equal(amount("-70")), "revenue balance = %s", revenue.Balance)
}

func TestBalanceScenarioExpenseVsCash(t *testing.T) {
	svc, _, _ := newTestService()
	mustPost(t, svc, "2024-01-15", "5210", "1100", "100000")

	expense, err := svc.AccountBalance(context.Background(), "5210", date("2024-01-31"))
	require.NoError(t, err)
	assert.True(t, expense.Balance.Equal(amount("100000")), "expense balance = %s", expense.Balance)

	cash, err := svc.AccountBalance(context.Background(), "1100", date("2024-01-31"))
	require.NoError(t, err)
	assert.True(t, cash.Balance.Equal(amount("-100000")), "cash balance = %s", cash.Balance)
}

func TestBalanceRespectsAsOfDate(t *testing.T) {
	svc, _, _ := newTestService()
	mustPost(t, svc, "2024-02-10", "5210", "1100", "100000")

	before, err := svc.AccountBalance(context.Background(), "5210", date("2024-01-31"))
	require.NoError(t, err)
	assert.True(t, before.Balance.IsZero())

	after, err := svc.AccountBalance(context.Background(), "5210", date("2024-02-28"))
	require.NoError(t, err)
	assert.True(t, after.Balance.Equal(amount("100000")))
}

func mustPost(t *testing.T, svc *Service, day, debitAccount, creditAccount, value string) Transaction {
	t.Helper()
	txn, err := svc.Post(context.Background(), PostingInput{
		Date: date(day),
		Lines: []Line{
			{AccountCode: debitAccount, Debit: amount(value)},
			{AccountCode: creditAccount, Credit: amount(value)},
		},
	})
	require.NoError(t, err)
	return txn
}
