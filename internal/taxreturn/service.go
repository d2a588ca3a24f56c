package taxreturn

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/semubook/semubook/internal/shared"
	"github.com/semubook/semubook/internal/tax"
)

// Repository abstracts return persistence. Insert must enforce the
// (org, tax type, year, period) uniqueness atomically.
type Repository interface {
	Insert(ctx context.Context, ret Return) (Return, error)
	Get(ctx context.Context, id uuid.UUID) (Return, error)
	ListByOrg(ctx context.Context, orgID string) ([]Return, error)
	Update(ctx context.Context, ret Return) (Return, error)
}

// FiguresSource supplies the ledger-derived totals the computation engine
// consumes.
type FiguresSource interface {
	VATTotals(ctx context.Context, year, period int) (taxableSales, taxablePurchases decimal.Decimal, err error)
	IncomeTotals(ctx context.Context, year, period int) (grossIncome, deductibleExpenses decimal.Decimal, err error)
}

// Gateway submits a finalized return to the tax authority.
type Gateway interface {
	Submit(ctx context.Context, ret Return) (submissionID string, err error)
}

// CreateInput groups fields required to open a return.
type CreateInput struct {
	OrgID       string
	TaxType     TaxType
	Year        int
	Period      int
	Taxpayer    Taxpayer
	Withholding decimal.Decimal
}

// Service drives the return lifecycle.
type Service struct {
	repo     Repository
	figures  FiguresSource
	gateway  Gateway
	rules    tax.Rules
	validate *validator.Validate
	now      func() time.Time
}

// NewService constructs the tax return service.
func NewService(repo Repository, figures FiguresSource, gateway Gateway, rules tax.Rules) *Service {
	return &Service{
		repo:     repo,
		figures:  figures,
		gateway:  gateway,
		rules:    rules,
		validate: validator.New(),
		now:      time.Now,
	}
}

// WithNow overrides the clock for testing.
func (s *Service) WithNow(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

// Create opens a draft return. A second return for the same
// (org, tax type, year, period) tuple fails with ConflictError.
func (s *Service) Create(ctx context.Context, in CreateInput) (Return, error) {
	if in.OrgID == "" {
		return Return{}, &shared.ValidationError{Rule: "org_required"}
	}
	if !in.TaxType.Valid() {
		return Return{}, &shared.ValidationError{Rule: "tax_type_unknown", Detail: string(in.TaxType)}
	}
	if in.Year < 2000 || in.Year > 2100 {
		return Return{}, &shared.ValidationError{Rule: "tax_year_out_of_range", Detail: fmt.Sprintf("%d", in.Year)}
	}
	if in.Period < 0 || in.Period > 4 {
		return Return{}, &shared.ValidationError{Rule: "tax_period_out_of_range", Detail: fmt.Sprintf("%d", in.Period)}
	}
	ret := Return{
		ID:          uuid.New(),
		OrgID:       in.OrgID,
		TaxType:     in.TaxType,
		Year:        in.Year,
		Period:      in.Period,
		Status:      StatusDraft,
		Taxpayer:    in.Taxpayer,
		Withholding: in.Withholding,
	}
	return s.repo.Insert(ctx, ret)
}

// Get retrieves a return by id.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (Return, error) {
	return s.repo.Get(ctx, id)
}

// ListByOrg retrieves an organization's returns.
func (s *Service) ListByOrg(ctx context.Context, orgID string) ([]Return, error) {
	return s.repo.ListByOrg(ctx, orgID)
}

// Calculate runs the computation engine for the return's tax type and
// stores the figures. Recalculation overwrites prior figures, so calling
// it twice with an unchanged ledger yields identical data.
func (s *Service) Calculate(ctx context.Context, id uuid.UUID) (Return, error) {
	ret, err := s.repo.Get(ctx, id)
	if err != nil {
		return Return{}, err
	}
	switch ret.Status {
	case StatusFiled, StatusAccepted, StatusCancelled:
		return Return{}, &shared.StateError{Entity: "tax return", State: string(ret.Status), Op: "calculate"}
	}
	data := ReturnData{}
	switch ret.TaxType {
	case TaxTypeVAT:
		sales, purchases, err := s.figures.VATTotals(ctx, ret.Year, ret.Period)
		if err != nil {
			return Return{}, fmt.Errorf("taxreturn: vat totals: %w", err)
		}
		assessment := tax.ComputeVAT(sales, purchases, s.rules)
		data.VAT = &assessment
	case TaxTypeIncome:
		gross, deductible, err := s.figures.IncomeTotals(ctx, ret.Year, ret.Period)
		if err != nil {
			return Return{}, fmt.Errorf("taxreturn: income totals: %w", err)
		}
		assessment := tax.ComputeIncomeTax(tax.IncomeTaxInput{
			GrossIncome:        gross,
			DeductibleExpenses: deductible,
			WithholdingTax:     ret.Withholding,
		}, s.rules)
		data.Income = &assessment
	case TaxTypeCorporate:
		gross, deductible, err := s.figures.IncomeTotals(ctx, ret.Year, ret.Period)
		if err != nil {
			return Return{}, fmt.Errorf("taxreturn: corporate totals: %w", err)
		}
		assessment := tax.ComputeCorporateTax(tax.CorporateTaxInput{
			GrossIncome:        gross,
			DeductibleExpenses: deductible,
			WithholdingTax:     ret.Withholding,
		}, s.rules)
		data.Corporate = &assessment
	default:
		return Return{}, &shared.ValidationError{Rule: "tax_type_unknown", Detail: string(ret.TaxType)}
	}
	ret.Data = data
	ret.Validation.IsCalculated = true
	if ret.Status == StatusDraft || ret.Status == StatusAmended {
		ret.Status = StatusCalculated
	}
	return s.repo.Update(ctx, ret)
}

// Validate runs the structural checks, independent of calculation: the
// taxpayer section must be complete and all stored amounts non-negative.
func (s *Service) Validate(ctx context.Context, id uuid.UUID) (Return, error) {
	ret, err := s.repo.Get(ctx, id)
	if err != nil {
		return Return{}, err
	}
	if ret.Status.Terminal() {
		return Return{}, &shared.StateError{Entity: "tax return", State: string(ret.Status), Op: "validate"}
	}
	var errs []string
	if err := s.validate.Struct(ret.Taxpayer); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) {
			for _, fe := range fieldErrs {
				errs = append(errs, fmt.Sprintf("taxpayer.%s: failed %s", fe.Field(), fe.Tag()))
			}
		} else {
			errs = append(errs, err.Error())
		}
	}
	if ret.Withholding.IsNegative() {
		errs = append(errs, "withholding: must not be negative")
	}
	errs = append(errs, negativeAmountErrors(ret.Data)...)
	ret.Validation.IsValid = len(errs) == 0
	ret.Validation.Errors = errs
	if ret.Validation.IsValid && ret.Validation.IsCalculated && ret.Status == StatusCalculated {
		ret.Status = StatusValidated
	}
	return s.repo.Update(ctx, ret)
}

// File submits a validated return to the tax authority. On gateway failure
// the return keeps its prior status and the error surfaces to the caller.
func (s *Service) File(ctx context.Context, id uuid.UUID) (Return, error) {
	ret, err := s.repo.Get(ctx, id)
	if err != nil {
		return Return{}, err
	}
	switch ret.Status {
	case StatusFiled, StatusAccepted, StatusCancelled:
		return Return{}, &shared.StateError{Entity: "tax return", State: string(ret.Status), Op: "file"}
	}
	if !ret.Validation.IsValid {
		return Return{}, &shared.StateError{Entity: "tax return", State: string(ret.Status), Op: "file before passing validation"}
	}
	submissionID, err := s.gateway.Submit(ctx, ret)
	if err != nil {
		return Return{}, err
	}
	ret.Status = StatusFiled
	ret.SubmissionID = submissionID
	return s.repo.Update(ctx, ret)
}

// SubmitResult applies the tax authority's asynchronous verdict to a filed
// return.
func (s *Service) SubmitResult(ctx context.Context, id uuid.UUID, accepted bool, reason string) (Return, error) {
	ret, err := s.repo.Get(ctx, id)
	if err != nil {
		return Return{}, err
	}
	if ret.Status != StatusFiled {
		return Return{}, &shared.StateError{Entity: "tax return", State: string(ret.Status), Op: "record submission result"}
	}
	if accepted {
		ret.Status = StatusAccepted
	} else {
		ret.Status = StatusRejected
	}
	ret.ResultReason = reason
	return s.repo.Update(ctx, ret)
}

// Amend reopens a non-terminal return for correction.
func (s *Service) Amend(ctx context.Context, id uuid.UUID) (Return, error) {
	ret, err := s.repo.Get(ctx, id)
	if err != nil {
		return Return{}, err
	}
	if ret.Status.Terminal() {
		return Return{}, &shared.StateError{Entity: "tax return", State: string(ret.Status), Op: "amend"}
	}
	ret.Status = StatusAmended
	ret.Validation = Validation{}
	return s.repo.Update(ctx, ret)
}

// Cancel soft-closes a non-terminal return. Returns are never deleted.
func (s *Service) Cancel(ctx context.Context, id uuid.UUID) (Return, error) {
	ret, err := s.repo.Get(ctx, id)
	if err != nil {
		return Return{}, err
	}
	if ret.Status.Terminal() {
		return Return{}, &shared.StateError{Entity: "tax return", State: string(ret.Status), Op: "cancel"}
	}
	ret.Status = StatusCancelled
	return s.repo.Update(ctx, ret)
}

func negativeAmountErrors(data ReturnData) []string {
	var errs []string
	check := func(name string, d decimal.Decimal) {
		if d.IsNegative() {
			errs = append(errs, name+": must not be negative")
		}
	}
	switch {
	case data.VAT != nil:
		check("vat.taxable_sales", data.VAT.TaxableSales)
		check("vat.taxable_purchases", data.VAT.TaxablePurchases)
		check("vat.payable", data.VAT.Payable)
		check("vat.refund", data.VAT.Refund)
	case data.Income != nil:
		check("income.taxable_income", data.Income.TaxableIncome)
		check("income.calculated_tax", data.Income.CalculatedTax)
		check("income.tax_liability", data.Income.TaxLiability)
	case data.Corporate != nil:
		check("corporate.taxable_income", data.Corporate.TaxableIncome)
		check("corporate.calculated_tax", data.Corporate.CalculatedTax)
		check("corporate.tax_liability", data.Corporate.TaxLiability)
	}
	return errs
}
