// Package jobs defines the background task types and the asynq worker that
// drives the receipt recognition pipeline.
package jobs

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskTypeReceiptProcess drives one receipt through recognition and
	// classification.
	TaskTypeReceiptProcess = "receipt:process"
	// TaskTypeLedgerIntegrity is the nightly double-entry integrity scan.
	TaskTypeLedgerIntegrity = "ledger:integrity"
)

// ReceiptProcessPayload identifies the receipt to process.
type ReceiptProcessPayload struct {
	ReceiptID uuid.UUID `json:"receipt_id"`
}

// NewReceiptProcessTask constructs an asynq task for one receipt.
func NewReceiptProcessTask(payload ReceiptProcessPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeReceiptProcess, data), nil
}

// NewLedgerIntegrityTask constructs the integrity scan task.
func NewLedgerIntegrityTask() *asynq.Task {
	return asynq.NewTask(TaskTypeLedgerIntegrity, nil)
}

// Client submits jobs to the queue.
type Client struct {
	client *asynq.Client
}

// NewClient constructs an asynq client.
func NewClient(redisOpts asynq.RedisClientOpt) *Client {
	return &Client{client: asynq.NewClient(redisOpts)}
}

// EnqueueReceiptProcess schedules processing for an uploaded receipt. It
// satisfies the receipt service's Enqueuer port.
func (c *Client) EnqueueReceiptProcess(ctx context.Context, receiptID uuid.UUID) error {
	task, err := NewReceiptProcessTask(ReceiptProcessPayload{ReceiptID: receiptID})
	if err != nil {
		return err
	}
	_, err = c.client.EnqueueContext(ctx, task, asynq.Queue(QueueDefault))
	return err
}

// Close releases the underlying asynq client.
func (c *Client) Close() error {
	return c.client.Close()
}
