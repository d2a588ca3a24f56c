package jobs

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/shopspring/decimal"

	"github.com/semubook/semubook/internal/ai"
	"github.com/semubook/semubook/internal/receipts"
	"github.com/semubook/semubook/internal/shared"
)

// Recognizer is the slice of the AI client the processor needs.
type Recognizer interface {
	Recognize(ctx context.Context, receiptID, fileName string) (ai.RecognizeResult, error)
	Classify(ctx context.Context, merchant string, fields map[string]string) (ai.ClassifyResult, error)
}

// ReceiptPipeline is the slice of the receipt service the processor needs.
type ReceiptPipeline interface {
	Get(ctx context.Context, id uuid.UUID) (receipts.Receipt, error)
	MarkProcessing(ctx context.Context, id uuid.UUID) (receipts.Receipt, error)
	MarkRecognized(ctx context.Context, id uuid.UUID, in receipts.RecognizedInput) (receipts.Receipt, error)
	MarkClassified(ctx context.Context, id uuid.UUID, in receipts.ClassifiedInput) (receipts.Receipt, error)
	ResetToUploaded(ctx context.Context, id uuid.UUID) error
}

// ReceiptProcessor advances a receipt uploaded → processing → recognized →
// classified using the AI collaborator. Posting to the ledger remains a
// synchronous caller decision.
type ReceiptProcessor struct {
	pipeline ReceiptPipeline
	ai       Recognizer
	logger   *slog.Logger
}

// NewReceiptProcessor constructs ReceiptProcessor.
func NewReceiptProcessor(pipeline ReceiptPipeline, recognizer Recognizer, logger *slog.Logger) *ReceiptProcessor {
	if logger == nil {
		logger = slog.Default()
	}
	return &ReceiptProcessor{pipeline: pipeline, ai: recognizer, logger: logger}
}

// Handle processes one TaskTypeReceiptProcess task. On collaborator failure
// the receipt is reset to UPLOADED and the error is returned to asynq,
// whose retry policy lives outside the ledger core.
func (p *ReceiptProcessor) Handle(ctx context.Context, t *asynq.Task) error {
	var payload ReceiptProcessPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	receipt, err := p.pipeline.MarkProcessing(ctx, payload.ReceiptID)
	if err != nil {
		if shared.IsNotFound(err) || shared.IsState(err) {
			p.logger.Warn("receipt process skipped", "receipt_id", payload.ReceiptID.String(), "error", err)
			return asynq.SkipRetry
		}
		return err
	}

	recognized, err := p.ai.Recognize(ctx, receipt.ID.String(), receipt.FileName)
	if err != nil {
		p.fail(ctx, receipt.ID, "recognize", err)
		return err
	}
	total, err := decimal.NewFromString(recognized.TotalAmount)
	if err != nil {
		p.logger.Warn("unparseable receipt total", "receipt_id", receipt.ID.String(), "total", recognized.TotalAmount)
		p.fail(ctx, receipt.ID, "recognize", err)
		return asynq.SkipRetry
	}
	taxAmount := decimal.Zero
	if recognized.TaxAmount != "" {
		if taxAmount, err = decimal.NewFromString(recognized.TaxAmount); err != nil {
			taxAmount = decimal.Zero
		}
	}
	if _, err := p.pipeline.MarkRecognized(ctx, receipt.ID, receipts.RecognizedInput{
		Merchant:    recognized.Merchant,
		TotalAmount: total,
		TaxAmount:   taxAmount,
		IssuedAt:    recognized.IssuedAt,
		Confidence:  recognized.Confidence,
		Fields:      recognized.Fields,
	}); err != nil {
		p.fail(ctx, receipt.ID, "recognize", err)
		return err
	}

	classified, err := p.ai.Classify(ctx, recognized.Merchant, recognized.Fields)
	if err != nil {
		p.fail(ctx, receipt.ID, "classify", err)
		return err
	}
	if _, err := p.pipeline.MarkClassified(ctx, receipt.ID, receipts.ClassifiedInput{
		AccountCode: classified.AccountCode,
		TaxCategory: classified.TaxCategory,
		Confidence:  classified.Confidence,
	}); err != nil {
		p.fail(ctx, receipt.ID, "classify", err)
		return err
	}
	p.logger.Info("receipt classified",
		"receipt_id", receipt.ID.String(),
		"account_code", classified.AccountCode,
		"confidence", classified.Confidence,
	)
	return nil
}

func (p *ReceiptProcessor) fail(ctx context.Context, id uuid.UUID, stage string, cause error) {
	p.logger.Error("receipt processing failed", "receipt_id", id.String(), "stage", stage, "error", cause)
	if err := p.pipeline.ResetToUploaded(ctx, id); err != nil {
		p.logger.Error("receipt reset failed", "receipt_id", id.String(), "error", err)
	}
}
