package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/billsplit/internal/models"
	"github.com/mmynk/billsplit/internal/storage"
)

// CreateReceipt persists a new receipt and its items.
func (s *SQLiteStore) CreateReceipt(ctx context.Context, receipt *models.Receipt) error {
	if receipt.ID == "" {
		receipt.ID = uuid.New().String()
	}
	if receipt.CreatedAt == 0 {
		receipt.CreatedAt = time.Now().Unix()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		"INSERT INTO receipts (id, filename, created_at) VALUES (?, ?, ?)",
		receipt.ID, receipt.Filename, receipt.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert receipt: %w", err)
	}

	for i, item := range receipt.Items {
		_, err = tx.ExecContext(ctx,
			"INSERT INTO items (receipt_id, position, name, cost) VALUES (?, ?, ?, ?)",
			receipt.ID, i, item.Name, item.Cost,
		)
		if err != nil {
			return fmt.Errorf("failed to insert item: %w", err)
		}
	}

	if err := insertAssignments(ctx, tx, receipt.ID, receipt.Assignments); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// GetReceipt retrieves a receipt by ID, including items and assignments in order.
func (s *SQLiteStore) GetReceipt(ctx context.Context, receiptID string) (*models.Receipt, error) {
	receipt := &models.Receipt{}
	err := s.db.QueryRowContext(ctx,
		"SELECT id, filename, created_at FROM receipts WHERE id = ?",
		receiptID,
	).Scan(&receipt.ID, &receipt.Filename, &receipt.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("receipt %s: %w", receiptID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get receipt: %w", err)
	}

	// Each helper closes its rows before the next query; the pool holds a single connection.
	if receipt.Items, err = s.receiptItems(ctx, receiptID); err != nil {
		return nil, err
	}
	if receipt.Assignments, err = s.receiptAssignments(ctx, receiptID); err != nil {
		return nil, err
	}

	return receipt, nil
}

func (s *SQLiteStore) receiptItems(ctx context.Context, receiptID string) ([]models.Item, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT name, cost FROM items WHERE receipt_id = ? ORDER BY position",
		receiptID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get items: %w", err)
	}
	defer rows.Close()

	items := []models.Item{}
	for rows.Next() {
		var item models.Item
		if err := rows.Scan(&item.Name, &item.Cost); err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate items: %w", err)
	}
	return items, nil
}

func (s *SQLiteStore) receiptAssignments(ctx context.Context, receiptID string) ([]models.AssignedItem, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT name, cost, assigned_to FROM assignments WHERE receipt_id = ? ORDER BY position",
		receiptID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get assignments: %w", err)
	}
	defer rows.Close()

	assigned := []models.AssignedItem{}
	for rows.Next() {
		var a models.AssignedItem
		if err := rows.Scan(&a.Name, &a.Cost, &a.AssignedTo); err != nil {
			return nil, fmt.Errorf("failed to scan assignment: %w", err)
		}
		assigned = append(assigned, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate assignments: %w", err)
	}
	return assigned, nil
}

// ListReceipts returns up to limit receipt summaries, newest first.
// A non-positive limit returns all receipts.
func (s *SQLiteStore) ListReceipts(ctx context.Context, limit int) ([]models.ReceiptSummary, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT r.id, r.filename, r.created_at, COUNT(i.position), COALESCE(SUM(i.cost), 0)
		FROM receipts r
		LEFT JOIN items i ON i.receipt_id = r.id
		GROUP BY r.id
		ORDER BY r.created_at DESC, r.rowid DESC
		LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list receipts: %w", err)
	}
	defer rows.Close()

	summaries := []models.ReceiptSummary{}
	for rows.Next() {
		var sum models.ReceiptSummary
		if err := rows.Scan(&sum.ID, &sum.Filename, &sum.CreatedAt, &sum.ItemCount, &sum.Total); err != nil {
			return nil, fmt.Errorf("failed to scan receipt summary: %w", err)
		}
		summaries = append(summaries, sum)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate receipts: %w", err)
	}
	return summaries, nil
}

// SaveAssignment replaces the assignment stored for a receipt.
func (s *SQLiteStore) SaveAssignment(ctx context.Context, receiptID string, assigned []models.AssignedItem) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var exists int
	err = tx.QueryRowContext(ctx, "SELECT 1 FROM receipts WHERE id = ?", receiptID).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("receipt %s: %w", receiptID, storage.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to check receipt: %w", err)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM assignments WHERE receipt_id = ?", receiptID); err != nil {
		return fmt.Errorf("failed to clear assignments: %w", err)
	}
	if err := insertAssignments(ctx, tx, receiptID, assigned); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func insertAssignments(ctx context.Context, tx *sql.Tx, receiptID string, assigned []models.AssignedItem) error {
	for i, a := range assigned {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO assignments (receipt_id, position, name, cost, assigned_to) VALUES (?, ?, ?, ?, ?)",
			receiptID, i, a.Name, a.Cost, a.AssignedTo,
		)
		if err != nil {
			return fmt.Errorf("failed to insert assignment: %w", err)
		}
	}
	return nil
}
