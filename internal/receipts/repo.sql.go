package receipts

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/semubook/semubook/internal/shared"
)

// PgRepository persists receipts in PostgreSQL with the recognition,
// classification, and accounting blocks as JSONB.
type PgRepository struct {
	pool *pgxpool.Pool
}

// NewPgRepository constructs PgRepository.
func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

const receiptColumns = `id, org_id, file_name, merchant, total_amount::text, tax_amount::text, issued_at, status, recognition, classification, accounting, created_at, updated_at`

func (r *PgRepository) Insert(ctx context.Context, receipt Receipt) (Receipt, error) {
	recognition, classification, accounting, err := encodeBlocks(receipt)
	if err != nil {
		return Receipt{}, err
	}
	row := r.pool.QueryRow(ctx, `INSERT INTO receipts
  (id, org_id, file_name, merchant, total_amount, tax_amount, issued_at, status, recognition, classification, accounting)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
RETURNING created_at, updated_at`,
		receipt.ID, receipt.OrgID, receipt.FileName, receipt.Merchant, receipt.TotalAmount,
		receipt.TaxAmount, nullTime(receipt), receipt.Status, recognition, classification, accounting)
	if err := row.Scan(&receipt.CreatedAt, &receipt.UpdatedAt); err != nil {
		return Receipt{}, err
	}
	return receipt, nil
}

func scanReceipt(row pgx.Row) (Receipt, error) {
	var (
		receipt                                 Receipt
		totalText, taxText                      string
		recognition, classification, accounting []byte
		issuedAt                                *time.Time
	)
	err := row.Scan(&receipt.ID, &receipt.OrgID, &receipt.FileName, &receipt.Merchant,
		&totalText, &taxText, &issuedAt, &receipt.Status,
		&recognition, &classification, &accounting, &receipt.CreatedAt, &receipt.UpdatedAt)
	if err != nil {
		return Receipt{}, err
	}
	if issuedAt != nil {
		receipt.IssuedAt = *issuedAt
	}
	if err := receipt.TotalAmount.UnmarshalText([]byte(totalText)); err != nil {
		return Receipt{}, fmt.Errorf("receipts: decode total: %w", err)
	}
	if err := receipt.TaxAmount.UnmarshalText([]byte(taxText)); err != nil {
		return Receipt{}, fmt.Errorf("receipts: decode tax: %w", err)
	}
	if err := json.Unmarshal(recognition, &receipt.Recognition); err != nil {
		return Receipt{}, fmt.Errorf("receipts: decode recognition: %w", err)
	}
	if err := json.Unmarshal(classification, &receipt.Classification); err != nil {
		return Receipt{}, fmt.Errorf("receipts: decode classification: %w", err)
	}
	if err := json.Unmarshal(accounting, &receipt.Accounting); err != nil {
		return Receipt{}, fmt.Errorf("receipts: decode accounting: %w", err)
	}
	return receipt, nil
}

func (r *PgRepository) Get(ctx context.Context, id uuid.UUID) (Receipt, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+receiptColumns+` FROM receipts WHERE id = $1`, id)
	receipt, err := scanReceipt(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Receipt{}, &shared.NotFoundError{Entity: "receipt", Ref: id.String()}
	}
	return receipt, err
}

func (r *PgRepository) ListByStatus(ctx context.Context, status Status) ([]Receipt, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+receiptColumns+` FROM receipts WHERE status = $1 ORDER BY created_at`, status)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var receipts []Receipt
	for rows.Next() {
		receipt, err := scanReceipt(rows)
		if err != nil {
			return nil, err
		}
		receipts = append(receipts, receipt)
	}
	return receipts, rows.Err()
}

func (r *PgRepository) Update(ctx context.Context, receipt Receipt) (Receipt, error) {
	recognition, classification, accounting, err := encodeBlocks(receipt)
	if err != nil {
		return Receipt{}, err
	}
	row := r.pool.QueryRow(ctx, `UPDATE receipts
SET merchant = $2, total_amount = $3, tax_amount = $4, issued_at = $5, status = $6,
    recognition = $7, classification = $8, accounting = $9, updated_at = now()
WHERE id = $1
RETURNING updated_at`,
		receipt.ID, receipt.Merchant, receipt.TotalAmount, receipt.TaxAmount,
		nullTime(receipt), receipt.Status, recognition, classification, accounting)
	if err := row.Scan(&receipt.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Receipt{}, &shared.NotFoundError{Entity: "receipt", Ref: receipt.ID.String()}
		}
		return Receipt{}, err
	}
	return receipt, nil
}

func nullTime(receipt Receipt) *time.Time {
	if receipt.IssuedAt.IsZero() {
		return nil
	}
	t := receipt.IssuedAt
	return &t
}

func encodeBlocks(receipt Receipt) (recognition, classification, accounting []byte, err error) {
	if recognition, err = json.Marshal(receipt.Recognition); err != nil {
		return nil, nil, nil, fmt.Errorf("receipts: encode recognition: %w", err)
	}
	if classification, err = json.Marshal(receipt.Classification); err != nil {
		return nil, nil, nil, fmt.Errorf("receipts: encode classification: %w", err)
	}
	if accounting, err = json.Marshal(receipt.Accounting); err != nil {
		return nil, nil, nil, fmt.Errorf("receipts: encode accounting: %w", err)
	}
	return recognition, classification, accounting, nil
}
