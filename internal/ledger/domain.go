// Package ledger validates and posts double-entry journal transactions and
// derives point-in-time account balances.
package ledger

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/semubook/semubook/internal/shared"
)

// Status enumerates transaction lifecycle values.
type Status string

const (
	StatusDraft     Status = "DRAFT"
	StatusPosted    Status = "POSTED"
	StatusCancelled Status = "CANCELLED"
)

// BalanceTolerance is the largest permitted debit/credit mismatch.
var BalanceTolerance = decimal.RequireFromString("0.01")

// Line stores the debit or credit amount for one account. Both fields exist
// so contra-entries can carry amounts on either side, but a single line may
// not use both.
type Line struct {
	AccountCode string          `json:"account_code"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
}

// Transaction is a journal entry: a dated, balanced set of lines persisted
// as one document.
type Transaction struct {
	ID           uuid.UUID
	Date         time.Time
	Description  string
	Status       Status
	Lines        []Line
	ApprovedBy   string
	ApprovedAt   *time.Time
	CancelledBy  string
	CancelledAt  *time.Time
	CancelReason string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// PostingInput groups fields required to record a journal entry.
type PostingInput struct {
	Date        time.Time
	Description string
	Lines       []Line
}

// Validate checks the structural posting rules that need no registry lookup.
func (in PostingInput) Validate() error {
	if in.Date.IsZero() {
		return &shared.ValidationError{Rule: "transaction_date_required"}
	}
	if len(in.Lines) < 2 {
		return &shared.ValidationError{Rule: "too_few_lines", Detail: fmt.Sprintf("%d line(s), need at least 2", len(in.Lines))}
	}
	totalDebit := decimal.Zero
	totalCredit := decimal.Zero
	for idx, line := range in.Lines {
		if line.AccountCode == "" {
			return &shared.ValidationError{Rule: "line_account_required", Detail: fmt.Sprintf("line %d", idx)}
		}
		if line.Debit.IsNegative() || line.Credit.IsNegative() {
			return &shared.ValidationError{Rule: "line_amount_negative", Detail: fmt.Sprintf("line %d", idx)}
		}
		if line.Debit.IsPositive() && line.Credit.IsPositive() {
			return &shared.ValidationError{Rule: "line_both_sides", Detail: fmt.Sprintf("line %d carries both debit and credit", idx)}
		}
		totalDebit = totalDebit.Add(line.Debit)
		totalCredit = totalCredit.Add(line.Credit)
	}
	if totalDebit.Sub(totalCredit).Abs().GreaterThan(BalanceTolerance) {
		return &shared.ValidationError{
			Rule:   "unbalanced_entry",
			Detail: fmt.Sprintf("debits %s != credits %s", totalDebit.StringFixed(2), totalCredit.StringFixed(2)),
		}
	}
	return nil
}

// Balance is the point-in-time aggregation for one account. For
// debit-normal accounts Balance = Debit - Credit; for credit-normal
// accounts the subtraction order flips.
type Balance struct {
	AccountCode string
	Debit       decimal.Decimal
	Credit      decimal.Decimal
	Balance     decimal.Decimal
}

// ListFilter narrows List queries.
type ListFilter struct {
	Status Status
	From   *time.Time
	To     *time.Time
}
