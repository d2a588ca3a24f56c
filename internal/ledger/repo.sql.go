package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/semubook/semubook/internal/shared"
)

// PgRepository persists transactions in PostgreSQL. A transaction and its
// lines live in a single row (lines as JSONB), so every posting is one
// atomic write.
type PgRepository struct {
	pool *pgxpool.Pool
}

// NewPgRepository constructs PgRepository.
func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

const txnColumns = `id, date, description, status, lines, approved_by, approved_at, cancelled_by, cancelled_at, cancel_reason, created_at, updated_at`

func (r *PgRepository) Insert(ctx context.Context, txn Transaction) (Transaction, error) {
	lines, err := json.Marshal(txn.Lines)
	if err != nil {
		return Transaction{}, fmt.Errorf("ledger: encode lines: %w", err)
	}
	row := r.pool.QueryRow(ctx, `INSERT INTO transactions (id, date, description, status, lines)
VALUES ($1,$2,$3,$4,$5) RETURNING created_at, updated_at`,
		txn.ID, txn.Date, txn.Description, txn.Status, lines)
	if err := row.Scan(&txn.CreatedAt, &txn.UpdatedAt); err != nil {
		return Transaction{}, err
	}
	return txn, nil
}

func scanTransaction(row pgx.Row) (Transaction, error) {
	var (
		txn   Transaction
		lines []byte
	)
	err := row.Scan(&txn.ID, &txn.Date, &txn.Description, &txn.Status, &lines,
		&txn.ApprovedBy, &txn.ApprovedAt, &txn.CancelledBy, &txn.CancelledAt,
		&txn.CancelReason, &txn.CreatedAt, &txn.UpdatedAt)
	if err != nil {
		return Transaction{}, err
	}
	if err := json.Unmarshal(lines, &txn.Lines); err != nil {
		return Transaction{}, fmt.Errorf("ledger: decode lines: %w", err)
	}
	return txn, nil
}

func (r *PgRepository) Get(ctx context.Context, id uuid.UUID) (Transaction, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+txnColumns+` FROM transactions WHERE id = $1`, id)
	txn, err := scanTransaction(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Transaction{}, &shared.NotFoundError{Entity: "transaction", Ref: id.String()}
	}
	return txn, err
}

func (r *PgRepository) List(ctx context.Context, filter ListFilter) ([]Transaction, error) {
	query := `SELECT ` + txnColumns + ` FROM transactions WHERE 1=1`
	args := []any{}
	idx := 1
	if filter.Status != "" {
		query += fmt.Sprintf(` AND status = $%d`, idx)
		args = append(args, filter.Status)
		idx++
	}
	if filter.From != nil {
		query += fmt.Sprintf(` AND date >= $%d`, idx)
		args = append(args, *filter.From)
		idx++
	}
	if filter.To != nil {
		query += fmt.Sprintf(` AND date <= $%d`, idx)
		args = append(args, *filter.To)
		idx++
	}
	query += ` ORDER BY date DESC, created_at DESC`
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var txns []Transaction
	for rows.Next() {
		txn, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		txns = append(txns, txn)
	}
	return txns, rows.Err()
}

func (r *PgRepository) SetApproved(ctx context.Context, id uuid.UUID, approver string, at time.Time) error {
	tag, err := r.pool.Exec(ctx, `UPDATE transactions
SET status = $2, approved_by = $3, approved_at = $4, updated_at = now()
WHERE id = $1`, id, StatusPosted, approver, at)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return &shared.NotFoundError{Entity: "transaction", Ref: id.String()}
	}
	return nil
}

func (r *PgRepository) SetCancelled(ctx context.Context, id uuid.UUID, actor, reason string, at time.Time) error {
	tag, err := r.pool.Exec(ctx, `UPDATE transactions
SET status = $2, cancelled_by = $3, cancelled_at = $4, cancel_reason = $5, updated_at = now()
WHERE id = $1`, id, StatusCancelled, actor, at, reason)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return &shared.NotFoundError{Entity: "transaction", Ref: id.String()}
	}
	return nil
}

// SumAccount aggregates debit and credit totals for one account across all
// non-cancelled transactions dated at or before asOf. The aggregation runs
// at read time against the store; no materialized running balance exists.
func (r *PgRepository) SumAccount(ctx context.Context, accountCode string, asOf time.Time) (decimal.Decimal, decimal.Decimal, error) {
	row := r.pool.QueryRow(ctx, `SELECT
  COALESCE(SUM((line->>'debit')::numeric), 0)::text,
  COALESCE(SUM((line->>'credit')::numeric), 0)::text
FROM transactions t, jsonb_array_elements(t.lines) AS line
WHERE t.status <> 'CANCELLED'
  AND t.date <= $2
  AND line->>'account_code' = $1`, accountCode, asOf)
	var debitText, creditText string
	if err := row.Scan(&debitText, &creditText); err != nil {
		return decimal.Zero, decimal.Zero, err
	}
	debit, err := decimal.NewFromString(debitText)
	if err != nil {
		return decimal.Zero, decimal.Zero, fmt.Errorf("ledger: parse debit sum: %w", err)
	}
	credit, err := decimal.NewFromString(creditText)
	if err != nil {
		return decimal.Zero, decimal.Zero, fmt.Errorf("ledger: parse credit sum: %w", err)
	}
	return debit, credit, nil
}
