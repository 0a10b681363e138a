package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/billsplit/internal/models"
)

// RecordPaymentRequest inserts a payment request record.
func (s *SQLiteStore) RecordPaymentRequest(ctx context.Context, req *models.PaymentRequest) error {
	if req.ID == "" {
		req.ID = uuid.New().String()
	}
	if req.CreatedAt == 0 {
		req.CreatedAt = time.Now().Unix()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO payment_requests (id, receipt_id, username, item, amount, status, message, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		req.ID, req.ReceiptID, req.Username, req.Item, req.Amount, string(req.Status), req.Message, req.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to record payment request: %w", err)
	}
	return nil
}

// ListPaymentRequests returns payment requests newest first, optionally filtered by receipt.
func (s *SQLiteStore) ListPaymentRequests(ctx context.Context, receiptID string) ([]models.PaymentRequest, error) {
	query := `
		SELECT id, receipt_id, username, item, amount, status, message, created_at
		FROM payment_requests`
	var args []any
	if receiptID != "" {
		query += " WHERE receipt_id = ?"
		args = append(args, receiptID)
	}
	query += " ORDER BY created_at DESC, rowid DESC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list payment requests: %w", err)
	}
	defer rows.Close()

	var reqs []models.PaymentRequest
	for rows.Next() {
		var r models.PaymentRequest
		var status string
		if err := rows.Scan(&r.ID, &r.ReceiptID, &r.Username, &r.Item, &r.Amount, &status, &r.Message, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan payment request: %w", err)
		}
		r.Status = models.PaymentStatus(status)
		reqs = append(reqs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating payment requests: %w", err)
	}
	return reqs, nil
}
