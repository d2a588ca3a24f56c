// Package receipts tracks scanned receipts through recognition and
// classification, and bridges classified receipts into the ledger as
// balanced journal entries.
package receipts

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Status enumerates receipt lifecycle values.
type Status string

const (
	StatusUploaded   Status = "UPLOADED"
	StatusProcessing Status = "PROCESSING"
	StatusRecognized Status = "RECOGNIZED"
	StatusClassified Status = "CLASSIFIED"
	StatusPosted     Status = "POSTED"
	StatusArchived   Status = "ARCHIVED"
)

// Recognition holds the OCR output for a receipt. Confidence is metadata
// only; it never gates posting.
type Recognition struct {
	IsRecognized bool              `json:"is_recognized"`
	Confidence   float64           `json:"confidence"`
	Fields       map[string]string `json:"fields,omitempty"`
	RecognizedAt *time.Time        `json:"recognized_at,omitempty"`
}

// Classification holds the suggested expense account for a receipt.
type Classification struct {
	IsClassified bool       `json:"is_classified"`
	AccountCode  string     `json:"account_code,omitempty"`
	TaxCategory  string     `json:"tax_category,omitempty"`
	Confidence   float64    `json:"confidence"`
	ClassifiedAt *time.Time `json:"classified_at,omitempty"`
}

// Accounting records whether and which transaction the receipt produced.
// The transaction id is a weak link kept for traceability; the receipt
// never owns the transaction.
type Accounting struct {
	IsPosted      bool       `json:"is_posted"`
	TransactionID *uuid.UUID `json:"transaction_id,omitempty"`
	PostedAt      *time.Time `json:"posted_at,omitempty"`
}

// Receipt is one scanned document and its extracted facts.
type Receipt struct {
	ID             uuid.UUID
	OrgID          string
	FileName       string
	Merchant       string
	TotalAmount    decimal.Decimal
	TaxAmount      decimal.Decimal
	IssuedAt       time.Time
	Status         Status
	Recognition    Recognition
	Classification Classification
	Accounting     Accounting
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// RegisterInput groups the facts known at upload time.
type RegisterInput struct {
	OrgID    string
	FileName string
}
