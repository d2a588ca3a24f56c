package receipts

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/semubook/semubook/internal/ledger"
	"github.com/semubook/semubook/internal/shared"
)

// Repository abstracts receipt persistence.
type Repository interface {
	Insert(ctx context.Context, receipt Receipt) (Receipt, error)
	Get(ctx context.Context, id uuid.UUID) (Receipt, error)
	ListByStatus(ctx context.Context, status Status) ([]Receipt, error)
	Update(ctx context.Context, receipt Receipt) (Receipt, error)
}

// Poster records journal entries in the ledger.
type Poster interface {
	Post(ctx context.Context, input ledger.PostingInput) (ledger.Transaction, error)
}

// Enqueuer schedules background receipt processing. Optional: when nil,
// receipts wait in UPLOADED until a worker or operator advances them.
type Enqueuer interface {
	EnqueueReceiptProcess(ctx context.Context, receiptID uuid.UUID) error
}

// Service owns the receipt lifecycle and the receipt-to-ledger bridge.
type Service struct {
	repo     Repository
	poster   Poster
	enqueue  Enqueuer
	clearing string
	now      func() time.Time
}

// NewService constructs the receipt service. clearingAccount is the
// cash/card clearing account credited when a receipt is posted.
func NewService(repo Repository, poster Poster, clearingAccount string) *Service {
	return &Service{repo: repo, poster: poster, clearing: clearingAccount, now: time.Now}
}

// WithEnqueuer attaches the background processing queue.
func (s *Service) WithEnqueuer(enqueue Enqueuer) *Service {
	s.enqueue = enqueue
	return s
}

// WithNow overrides the clock for testing.
func (s *Service) WithNow(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

// Register stores a freshly uploaded receipt and, when a queue is wired,
// schedules recognition and classification.
func (s *Service) Register(ctx context.Context, in RegisterInput) (Receipt, error) {
	if in.OrgID == "" {
		return Receipt{}, &shared.ValidationError{Rule: "org_required"}
	}
	receipt := Receipt{
		ID:       uuid.New(),
		OrgID:    in.OrgID,
		FileName: in.FileName,
		Status:   StatusUploaded,
	}
	inserted, err := s.repo.Insert(ctx, receipt)
	if err != nil {
		return Receipt{}, err
	}
	if s.enqueue != nil {
		if err := s.enqueue.EnqueueReceiptProcess(ctx, inserted.ID); err != nil {
			return Receipt{}, fmt.Errorf("receipts: enqueue processing: %w", err)
		}
	}
	return inserted, nil
}

// Get retrieves a receipt by id.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (Receipt, error) {
	return s.repo.Get(ctx, id)
}

// MarkProcessing transitions an uploaded receipt into the pipeline.
func (s *Service) MarkProcessing(ctx context.Context, id uuid.UUID) (Receipt, error) {
	receipt, err := s.repo.Get(ctx, id)
	if err != nil {
		return Receipt{}, err
	}
	if receipt.Status != StatusUploaded {
		return Receipt{}, &shared.StateError{Entity: "receipt", State: string(receipt.Status), Op: "start processing"}
	}
	receipt.Status = StatusProcessing
	return s.repo.Update(ctx, receipt)
}

// RecognizedInput carries the OCR output applied by the worker.
type RecognizedInput struct {
	Merchant    string
	TotalAmount decimal.Decimal
	TaxAmount   decimal.Decimal
	IssuedAt    time.Time
	Confidence  float64
	Fields      map[string]string
}

// MarkRecognized stores extracted fields on a processing receipt.
func (s *Service) MarkRecognized(ctx context.Context, id uuid.UUID, in RecognizedInput) (Receipt, error) {
	receipt, err := s.repo.Get(ctx, id)
	if err != nil {
		return Receipt{}, err
	}
	switch receipt.Status {
	case StatusProcessing, StatusUploaded:
	default:
		return Receipt{}, &shared.StateError{Entity: "receipt", State: string(receipt.Status), Op: "record recognition"}
	}
	if in.TotalAmount.IsNegative() {
		return Receipt{}, &shared.ValidationError{Rule: "receipt_amount_negative"}
	}
	at := s.now()
	receipt.Merchant = in.Merchant
	receipt.TotalAmount = in.TotalAmount
	receipt.TaxAmount = in.TaxAmount
	receipt.IssuedAt = in.IssuedAt
	receipt.Recognition = Recognition{
		IsRecognized: true,
		Confidence:   in.Confidence,
		Fields:       in.Fields,
		RecognizedAt: &at,
	}
	receipt.Status = StatusRecognized
	return s.repo.Update(ctx, receipt)
}

// ClassifiedInput carries the classifier's suggestion.
type ClassifiedInput struct {
	AccountCode string
	TaxCategory string
	Confidence  float64
}

// MarkClassified stores the suggested expense account on a recognized
// receipt. Confidence is recorded but never gates posting.
func (s *Service) MarkClassified(ctx context.Context, id uuid.UUID, in ClassifiedInput) (Receipt, error) {
	receipt, err := s.repo.Get(ctx, id)
	if err != nil {
		return Receipt{}, err
	}
	if receipt.Status != StatusRecognized {
		return Receipt{}, &shared.StateError{Entity: "receipt", State: string(receipt.Status), Op: "record classification"}
	}
	if in.AccountCode == "" {
		return Receipt{}, &shared.ValidationError{Rule: "classification_account_required"}
	}
	at := s.now()
	receipt.Classification = Classification{
		IsClassified: true,
		AccountCode:  in.AccountCode,
		TaxCategory:  in.TaxCategory,
		Confidence:   in.Confidence,
		ClassifiedAt: &at,
	}
	receipt.Status = StatusClassified
	return s.repo.Update(ctx, receipt)
}

// ResetToUploaded returns a mid-pipeline receipt (PROCESSING or RECOGNIZED)
// to UPLOADED after a failed run, so the caller's retry policy can
// re-enqueue it. Classified and posted receipts are never rewound.
func (s *Service) ResetToUploaded(ctx context.Context, id uuid.UUID) error {
	receipt, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	switch receipt.Status {
	case StatusProcessing, StatusRecognized:
	default:
		return nil
	}
	receipt.Status = StatusUploaded
	_, err = s.repo.Update(ctx, receipt)
	return err
}

// PostAsTransaction emits a balanced two-line journal entry for a
// classified receipt: debit the classified expense account, credit the
// clearing account, both for the receipt's total amount. The created
// transaction id is linked back onto the receipt.
func (s *Service) PostAsTransaction(ctx context.Context, id uuid.UUID) (ledger.Transaction, error) {
	receipt, err := s.repo.Get(ctx, id)
	if err != nil {
		return ledger.Transaction{}, err
	}
	if receipt.Accounting.IsPosted {
		return ledger.Transaction{}, &shared.ConflictError{Detail: "receipt " + id.String() + " already posted"}
	}
	if !receipt.Classification.IsClassified {
		return ledger.Transaction{}, &shared.StateError{Entity: "receipt", State: string(receipt.Status), Op: "post before classification"}
	}
	date := receipt.IssuedAt
	if date.IsZero() {
		date = s.now()
	}
	txn, err := s.poster.Post(ctx, ledger.PostingInput{
		Date:        date,
		Description: fmt.Sprintf("영수증: %s", receipt.Merchant),
		Lines: []ledger.Line{
			{AccountCode: receipt.Classification.AccountCode, Debit: receipt.TotalAmount, Credit: decimal.Zero},
			{AccountCode: s.clearing, Debit: decimal.Zero, Credit: receipt.TotalAmount},
		},
	})
	if err != nil {
		return ledger.Transaction{}, err
	}
	at := s.now()
	receipt.Accounting = Accounting{IsPosted: true, TransactionID: &txn.ID, PostedAt: &at}
	receipt.Status = StatusPosted
	if _, err := s.repo.Update(ctx, receipt); err != nil {
		return ledger.Transaction{}, err
	}
	return txn, nil
}

// Archive retires a receipt from the working set.
func (s *Service) Archive(ctx context.Context, id uuid.UUID) (Receipt, error) {
	receipt, err := s.repo.Get(ctx, id)
	if err != nil {
		return Receipt{}, err
	}
	receipt.Status = StatusArchived
	return s.repo.Update(ctx, receipt)
}
