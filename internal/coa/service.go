package coa

import (
	"context"
	"fmt"
	"strconv"

	"github.com/semubook/semubook/internal/shared"
)

// Repository abstracts account persistence.
type Repository interface {
	Insert(ctx context.Context, account Account) (Account, error)
	Get(ctx context.Context, code string) (Account, error)
	List(ctx context.Context) ([]Account, error)
	ListActive(ctx context.Context) ([]Account, error)
	SetActive(ctx context.Context, code string, active bool) error
	IncrementUsage(ctx context.Context, codes []string) error
}

// CreateInput groups fields required to register an account.
type CreateInput struct {
	Code        string
	Name        string
	Category    Category
	TaxCategory TaxCategory
}

// Service manages the chart of accounts registry.
type Service struct {
	repo Repository
}

// NewService constructs the chart of accounts service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create registers a new account. The normal balance side is derived from
// the category, never supplied by the caller.
func (s *Service) Create(ctx context.Context, in CreateInput) (Account, error) {
	if _, err := strconv.Atoi(in.Code); err != nil || in.Code == "" {
		return Account{}, &shared.ValidationError{Rule: "account_code_numeric", Detail: fmt.Sprintf("code %q must be a numeric string", in.Code)}
	}
	if in.Name == "" {
		return Account{}, &shared.ValidationError{Rule: "account_name_required"}
	}
	if !in.Category.Valid() {
		return Account{}, &shared.ValidationError{Rule: "account_category_unknown", Detail: string(in.Category)}
	}
	taxCat := in.TaxCategory
	if taxCat == "" {
		taxCat = TaxCategoryNone
	}
	account := Account{
		Code:          in.Code,
		Name:          in.Name,
		Category:      in.Category,
		NormalBalance: NormalBalanceFor(in.Category),
		TaxCategory:   taxCat,
		IsActive:      true,
	}
	return s.repo.Insert(ctx, account)
}

// Get retrieves an account by code.
func (s *Service) Get(ctx context.Context, code string) (Account, error) {
	return s.repo.Get(ctx, code)
}

// List retrieves all accounts ordered by code.
func (s *Service) List(ctx context.Context) ([]Account, error) {
	return s.repo.List(ctx)
}

// ListActive retrieves active accounts ordered by code.
func (s *Service) ListActive(ctx context.Context) ([]Account, error) {
	return s.repo.ListActive(ctx)
}

// Deactivate soft-disables an account. Accounts are never hard-deleted so
// historical journal lines keep resolving.
func (s *Service) Deactivate(ctx context.Context, code string) error {
	if _, err := s.repo.Get(ctx, code); err != nil {
		return err
	}
	return s.repo.SetActive(ctx, code, false)
}

// IncrementUsage bumps usage counters after a successful posting. Once an
// account is referenced, its normal balance side is frozen.
func (s *Service) IncrementUsage(ctx context.Context, codes []string) error {
	return s.repo.IncrementUsage(ctx, codes)
}

// Reactivate re-enables a previously deactivated account.
func (s *Service) Reactivate(ctx context.Context, code string) error {
	if _, err := s.repo.Get(ctx, code); err != nil {
		return err
	}
	return s.repo.SetActive(ctx, code, true)
}
