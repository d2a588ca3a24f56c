package taxreturn

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/semubook/semubook/internal/shared"
)

// PgRepository persists tax returns in PostgreSQL. The tax_returns table
// carries a unique index over (org_id, tax_type, tax_year, tax_period), so
// duplicate creation is rejected atomically by the store.
type PgRepository struct {
	pool *pgxpool.Pool
}

// NewPgRepository constructs PgRepository.
func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

const returnColumns = `id, org_id, tax_type, tax_year, tax_period, status, taxpayer, withholding::text, return_data, validation, submission_id, result_reason, created_at, updated_at`

func (r *PgRepository) Insert(ctx context.Context, ret Return) (Return, error) {
	taxpayer, data, validation, err := encodeBlocks(ret)
	if err != nil {
		return Return{}, err
	}
	row := r.pool.QueryRow(ctx, `INSERT INTO tax_returns
  (id, org_id, tax_type, tax_year, tax_period, status, taxpayer, withholding, return_data, validation)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
RETURNING created_at, updated_at`,
		ret.ID, ret.OrgID, ret.TaxType, ret.Year, ret.Period, ret.Status, taxpayer, ret.Withholding, data, validation)
	if err := row.Scan(&ret.CreatedAt, &ret.UpdatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return Return{}, &shared.ConflictError{
				Detail: fmt.Sprintf("tax return for %s %s %d/%d already exists", ret.OrgID, ret.TaxType, ret.Year, ret.Period),
			}
		}
		return Return{}, err
	}
	return ret, nil
}

func scanReturn(row pgx.Row) (Return, error) {
	var (
		ret                        Return
		taxpayer, data, validation []byte
		withholding                string
	)
	err := row.Scan(&ret.ID, &ret.OrgID, &ret.TaxType, &ret.Year, &ret.Period, &ret.Status,
		&taxpayer, &withholding, &data, &validation, &ret.SubmissionID, &ret.ResultReason,
		&ret.CreatedAt, &ret.UpdatedAt)
	if err != nil {
		return Return{}, err
	}
	if err := json.Unmarshal(taxpayer, &ret.Taxpayer); err != nil {
		return Return{}, fmt.Errorf("taxreturn: decode taxpayer: %w", err)
	}
	if err := json.Unmarshal(data, &ret.Data); err != nil {
		return Return{}, fmt.Errorf("taxreturn: decode return data: %w", err)
	}
	if err := json.Unmarshal(validation, &ret.Validation); err != nil {
		return Return{}, fmt.Errorf("taxreturn: decode validation: %w", err)
	}
	if err := ret.Withholding.UnmarshalText([]byte(withholding)); err != nil {
		return Return{}, fmt.Errorf("taxreturn: decode withholding: %w", err)
	}
	return ret, nil
}

func (r *PgRepository) Get(ctx context.Context, id uuid.UUID) (Return, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+returnColumns+` FROM tax_returns WHERE id = $1`, id)
	ret, err := scanReturn(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Return{}, &shared.NotFoundError{Entity: "tax return", Ref: id.String()}
	}
	return ret, err
}

func (r *PgRepository) ListByOrg(ctx context.Context, orgID string) ([]Return, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+returnColumns+` FROM tax_returns WHERE org_id = $1 ORDER BY tax_year DESC, tax_period DESC`, orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var rets []Return
	for rows.Next() {
		ret, err := scanReturn(rows)
		if err != nil {
			return nil, err
		}
		rets = append(rets, ret)
	}
	return rets, rows.Err()
}

func (r *PgRepository) Update(ctx context.Context, ret Return) (Return, error) {
	taxpayer, data, validation, err := encodeBlocks(ret)
	if err != nil {
		return Return{}, err
	}
	row := r.pool.QueryRow(ctx, `UPDATE tax_returns
SET status = $2, taxpayer = $3, withholding = $4, return_data = $5, validation = $6,
    submission_id = $7, result_reason = $8, updated_at = now()
WHERE id = $1
RETURNING updated_at`,
		ret.ID, ret.Status, taxpayer, ret.Withholding, data, validation, ret.SubmissionID, ret.ResultReason)
	if err := row.Scan(&ret.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Return{}, &shared.NotFoundError{Entity: "tax return", Ref: ret.ID.String()}
		}
		return Return{}, err
	}
	return ret, nil
}

func encodeBlocks(ret Return) (taxpayer, data, validation []byte, err error) {
	if taxpayer, err = json.Marshal(ret.Taxpayer); err != nil {
		return nil, nil, nil, fmt.Errorf("taxreturn: encode taxpayer: %w", err)
	}
	if data, err = json.Marshal(ret.Data); err != nil {
		return nil, nil, nil, fmt.Errorf("taxreturn: encode return data: %w", err)
	}
	if validation, err = json.Marshal(ret.Validation); err != nil {
		return nil, nil, nil, fmt.Errorf("taxreturn: encode validation: %w", err)
	}
	return taxpayer, data, validation, nil
}
