// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/mmynk/billsplit/internal/models"
)

// ErrNotFound is returned when a receipt does not exist.
var ErrNotFound = errors.New("not found")

// Store defines the interface for receipt storage operations.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL, etc.)
// without changing the service layer.
type Store interface {
	// CreateReceipt persists a parsed receipt.
	// The receipt.ID and CreatedAt fields are populated by the store when empty.
	CreateReceipt(ctx context.Context, receipt *models.Receipt) error

	// GetReceipt retrieves a receipt with its items and latest assignment.
	// Returns an error wrapping ErrNotFound if the receipt does not exist.
	GetReceipt(ctx context.Context, receiptID string) (*models.Receipt, error)

	// ListReceipts returns receipt summaries, newest first.
	ListReceipts(ctx context.Context, limit int) ([]models.ReceiptSummary, error)

	// SaveAssignment replaces the receipt's item assignment.
	SaveAssignment(ctx context.Context, receiptID string, assigned []models.AssignedItem) error

	// RecordPaymentRequest stores the outcome of a money request.
	RecordPaymentRequest(ctx context.Context, req *models.PaymentRequest) error

	// ListPaymentRequests returns payment requests, newest first. An empty
	// receiptID lists requests for all receipts.
	ListPaymentRequests(ctx context.Context, receiptID string) ([]models.PaymentRequest, error)

	// Close releases any resources held by the store.
	Close() error
}
