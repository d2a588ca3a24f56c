package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/semubook/semubook/internal/coa"
	"github.com/semubook/semubook/internal/shared"
)

// Repository abstracts transaction persistence. Insert must write the whole
// transaction, lines included, atomically so no reader ever observes an
// unbalanced document.
type Repository interface {
	Insert(ctx context.Context, txn Transaction) (Transaction, error)
	Get(ctx context.Context, id uuid.UUID) (Transaction, error)
	List(ctx context.Context, filter ListFilter) ([]Transaction, error)
	SetApproved(ctx context.Context, id uuid.UUID, approver string, at time.Time) error
	SetCancelled(ctx context.Context, id uuid.UUID, actor, reason string, at time.Time) error
	SumAccount(ctx context.Context, accountCode string, asOf time.Time) (debit, credit decimal.Decimal, err error)
}

// AccountRegistry resolves journal line codes against the chart of accounts.
type AccountRegistry interface {
	Get(ctx context.Context, code string) (coa.Account, error)
	IncrementUsage(ctx context.Context, codes []string) error
}

// Invalidator is notified whenever ledger contents change, so derived
// statement caches can drop stale entries.
type Invalidator interface {
	Invalidate(ctx context.Context) error
}

// Service coordinates posting, approving, and cancelling transactions.
type Service struct {
	repo       Repository
	accounts   AccountRegistry
	invalidate Invalidator
	now        func() time.Time
}

// NewService constructs the ledger service.
func NewService(repo Repository, accounts AccountRegistry) *Service {
	return &Service{repo: repo, accounts: accounts, now: time.Now}
}

// WithInvalidator attaches a statement cache invalidator.
func (s *Service) WithInvalidator(inv Invalidator) *Service {
	s.invalidate = inv
	return s
}

// WithNow overrides the clock for testing.
func (s *Service) WithNow(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

// Post validates and persists a new journal entry with status DRAFT.
// Callers decide when to advance it to POSTED via Approve. No partial write
// occurs on any validation failure.
func (s *Service) Post(ctx context.Context, input PostingInput) (Transaction, error) {
	if err := input.Validate(); err != nil {
		return Transaction{}, err
	}
	codes := make([]string, 0, len(input.Lines))
	seen := make(map[string]bool, len(input.Lines))
	for _, line := range input.Lines {
		account, err := s.accounts.Get(ctx, line.AccountCode)
		if err != nil {
			if shared.IsNotFound(err) {
				return Transaction{}, &shared.ValidationError{Rule: "unknown_account", Detail: line.AccountCode}
			}
			return Transaction{}, err
		}
		if !account.IsActive {
			return Transaction{}, &shared.ValidationError{Rule: "inactive_account", Detail: line.AccountCode}
		}
		if !seen[line.AccountCode] {
			seen[line.AccountCode] = true
			codes = append(codes, line.AccountCode)
		}
	}
	txn := Transaction{
		ID:          uuid.New(),
		Date:        input.Date,
		Description: input.Description,
		Status:      StatusDraft,
		Lines:       input.Lines,
	}
	inserted, err := s.repo.Insert(ctx, txn)
	if err != nil {
		return Transaction{}, err
	}
	// The entry is persisted from here on: invalidate statement caches
	// before anything else can fail, so no snapshot misses the new row.
	s.bumpCaches(ctx)
	if err := s.accounts.IncrementUsage(ctx, codes); err != nil {
		return inserted, fmt.Errorf("increment account usage: %w", err)
	}
	return inserted, nil
}

// Approve advances a draft transaction to POSTED, stamping the approver.
func (s *Service) Approve(ctx context.Context, id uuid.UUID, approver string) (Transaction, error) {
	txn, err := s.repo.Get(ctx, id)
	if err != nil {
		return Transaction{}, err
	}
	switch txn.Status {
	case StatusPosted:
		return Transaction{}, &shared.ConflictError{Detail: "transaction " + id.String() + " already posted"}
	case StatusCancelled:
		return Transaction{}, &shared.ConflictError{Detail: "transaction " + id.String() + " is cancelled"}
	}
	at := s.now()
	if err := s.repo.SetApproved(ctx, id, approver, at); err != nil {
		return Transaction{}, err
	}
	txn.Status = StatusPosted
	txn.ApprovedBy = approver
	txn.ApprovedAt = &at
	return txn, nil
}

// Cancel marks a transaction CANCELLED. Balances are not altered
// retroactively; cancelled transactions are excluded from balance queries
// by filter, and no reversing entry is generated.
func (s *Service) Cancel(ctx context.Context, id uuid.UUID, actor, reason string) (Transaction, error) {
	txn, err := s.repo.Get(ctx, id)
	if err != nil {
		return Transaction{}, err
	}
	if txn.Status == StatusCancelled {
		return Transaction{}, &shared.ConflictError{Detail: "transaction " + id.String() + " already cancelled"}
	}
	at := s.now()
	if err := s.repo.SetCancelled(ctx, id, actor, reason, at); err != nil {
		return Transaction{}, err
	}
	txn.Status = StatusCancelled
	txn.CancelledBy = actor
	txn.CancelledAt = &at
	txn.CancelReason = reason
	s.bumpCaches(ctx)
	return txn, nil
}

// Get retrieves a transaction by id.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (Transaction, error) {
	return s.repo.Get(ctx, id)
}

// List retrieves transactions matching the filter, newest first.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]Transaction, error) {
	return s.repo.List(ctx, filter)
}

// AccountBalance aggregates all non-cancelled lines for the account dated at
// or before asOf. Debit-normal accounts report debit minus credit;
// credit-normal accounts flip the subtraction order, so a revenue account
// with more credits than debits reports a positive balance.
func (s *Service) AccountBalance(ctx context.Context, accountCode string, asOf time.Time) (Balance, error) {
	account, err := s.accounts.Get(ctx, accountCode)
	if err != nil {
		return Balance{}, err
	}
	debit, credit, err := s.repo.SumAccount(ctx, accountCode, asOf)
	if err != nil {
		return Balance{}, err
	}
	balance := Balance{AccountCode: accountCode, Debit: debit, Credit: credit}
	if account.NormalBalance == coa.SideDebit {
		balance.Balance = debit.Sub(credit)
	} else {
		balance.Balance = credit.Sub(debit)
	}
	return balance, nil
}

func (s *Service) bumpCaches(ctx context.Context) {
	if s.invalidate != nil {
		_ = s.invalidate.Invalidate(ctx)
	}
}
