// Package taxreturn manages the lifecycle of tax filings: one return per
// (organization, tax type, year, period), moving draft → calculated →
// validated → filed → accepted/rejected, with amendment and cancellation.
package taxreturn

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/semubook/semubook/internal/tax"
)

// TaxType enumerates the supported filing kinds.
type TaxType string

const (
	TaxTypeVAT       TaxType = "VAT"
	TaxTypeIncome    TaxType = "INCOME"
	TaxTypeCorporate TaxType = "CORPORATE"
)

// Valid reports whether t is a known tax type.
func (t TaxType) Valid() bool {
	switch t {
	case TaxTypeVAT, TaxTypeIncome, TaxTypeCorporate:
		return true
	}
	return false
}

// Status enumerates return lifecycle values.
type Status string

const (
	StatusDraft      Status = "DRAFT"
	StatusCalculated Status = "CALCULATED"
	StatusValidated  Status = "VALIDATED"
	StatusFiled      Status = "FILED"
	StatusAccepted   Status = "ACCEPTED"
	StatusRejected   Status = "REJECTED"
	StatusAmended    Status = "AMENDED"
	StatusCancelled  Status = "CANCELLED"
)

// Terminal reports whether no further transition may leave s.
func (s Status) Terminal() bool {
	return s == StatusAccepted || s == StatusCancelled
}

// Taxpayer is the structurally validated filer section of a return.
type Taxpayer struct {
	Name               string `json:"name" validate:"required"`
	RegistrationNumber string `json:"registration_number" validate:"required,numeric,min=10"`
	Address            string `json:"address"`
	Email              string `json:"email" validate:"omitempty,email"`
}

// ReturnData is the tagged union of per-tax-type figures. Exactly the
// variant matching the return's TaxType is populated; callers select via
// exhaustive switch on TaxType, never by probing pointers.
type ReturnData struct {
	VAT       *tax.VATAssessment          `json:"vat,omitempty"`
	Income    *tax.IncomeTaxAssessment    `json:"income,omitempty"`
	Corporate *tax.CorporateTaxAssessment `json:"corporate,omitempty"`
}

// Validation records the outcome of the two independent pre-filing passes.
type Validation struct {
	IsCalculated bool     `json:"is_calculated"`
	IsValid      bool     `json:"is_valid"`
	Errors       []string `json:"errors,omitempty"`
}

// Return is one tax filing for an organization and period.
type Return struct {
	ID           uuid.UUID
	OrgID        string
	TaxType      TaxType
	Year         int
	Period       int
	Status       Status
	Taxpayer     Taxpayer
	Withholding  decimal.Decimal
	Data         ReturnData
	Validation   Validation
	SubmissionID string
	ResultReason string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
