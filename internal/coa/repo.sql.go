package coa

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/semubook/semubook/internal/shared"
)

// PgRepository persists accounts in PostgreSQL.
type PgRepository struct {
	pool *pgxpool.Pool
}

// NewPgRepository constructs PgRepository.
func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

const accountColumns = `code, name, category, normal_balance, tax_category, is_active, use_count, created_at, updated_at`

func scanAccount(row pgx.Row) (Account, error) {
	var a Account
	err := row.Scan(&a.Code, &a.Name, &a.Category, &a.NormalBalance, &a.TaxCategory, &a.IsActive, &a.UseCount, &a.CreatedAt, &a.UpdatedAt)
	return a, err
}

func (r *PgRepository) Insert(ctx context.Context, account Account) (Account, error) {
	row := r.pool.QueryRow(ctx, `INSERT INTO accounts (code, name, category, normal_balance, tax_category, is_active)
VALUES ($1,$2,$3,$4,$5,$6) RETURNING `+accountColumns,
		account.Code, account.Name, account.Category, account.NormalBalance, account.TaxCategory, account.IsActive)
	inserted, err := scanAccount(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return Account{}, &shared.ConflictError{Detail: "account code " + account.Code + " already exists"}
		}
		return Account{}, err
	}
	return inserted, nil
}

func (r *PgRepository) Get(ctx context.Context, code string) (Account, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+accountColumns+` FROM accounts WHERE code = $1`, code)
	account, err := scanAccount(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Account{}, &shared.NotFoundError{Entity: "account", Ref: code}
	}
	return account, err
}

func (r *PgRepository) List(ctx context.Context) ([]Account, error) {
	return r.list(ctx, `SELECT `+accountColumns+` FROM accounts ORDER BY code`)
}

func (r *PgRepository) ListActive(ctx context.Context) ([]Account, error) {
	return r.list(ctx, `SELECT `+accountColumns+` FROM accounts WHERE is_active ORDER BY code`)
}

func (r *PgRepository) list(ctx context.Context, query string) ([]Account, error) {
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var accounts []Account
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, account)
	}
	return accounts, rows.Err()
}

func (r *PgRepository) SetActive(ctx context.Context, code string, active bool) error {
	tag, err := r.pool.Exec(ctx, `UPDATE accounts SET is_active = $2, updated_at = now() WHERE code = $1`, code, active)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return &shared.NotFoundError{Entity: "account", Ref: code}
	}
	return nil
}

func (r *PgRepository) IncrementUsage(ctx context.Context, codes []string) error {
	if len(codes) == 0 {
		return nil
	}
	_, err := r.pool.Exec(ctx, `UPDATE accounts SET use_count = use_count + 1, updated_at = now() WHERE code = ANY($1)`, codes)
	return err
}
