package payments

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const ledgerSchema = `
CREATE TABLE IF NOT EXISTS ledger_requests (
    id TEXT PRIMARY KEY,
    user_id TEXT NOT NULL,
    amount REAL NOT NULL,
    note TEXT NOT NULL,
    created_at INTEGER NOT NULL
);`

// LedgerEntry is a money request captured by the Ledger provider.
type LedgerEntry struct {
	ID        string
	UserID    string
	Amount    float64
	Note      string
	CreatedAt int64
}

// Ledger is a local Provider for development and demos. It serves a fixed
// friends list and writes requests to a SQLite table instead of moving money.
type Ledger struct {
	db      *sql.DB
	friends []string
}

var _ Provider = (*Ledger)(nil)

// NewLedger creates the ledger table in db if needed.
func NewLedger(db *sql.DB, friends []string) (*Ledger, error) {
	if _, err := db.Exec(ledgerSchema); err != nil {
		return nil, fmt.Errorf("failed to create ledger table: %w", err)
	}
	return &Ledger{db: db, friends: append([]string(nil), friends...)}, nil
}

// Friends returns the configured friends list.
func (l *Ledger) Friends(ctx context.Context) ([]string, error) {
	return append([]string{}, l.friends...), nil
}

// LookupUser matches username against the friends list. The username doubles as the ID.
func (l *Ledger) LookupUser(ctx context.Context, username string) (*User, error) {
	for _, f := range l.friends {
		if f == username {
			return &User{ID: f, Username: f}, nil
		}
	}
	return nil, ErrUserNotFound
}

// RequestMoney records the request.
func (l *Ledger) RequestMoney(ctx context.Context, userID string, amount float64, note string) error {
	_, err := l.db.ExecContext(ctx,
		"INSERT INTO ledger_requests (id, user_id, amount, note, created_at) VALUES (?, ?, ?, ?, ?)",
		uuid.New().String(), userID, amount, note, time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to record ledger request: %w", err)
	}
	return nil
}

// Entries returns recorded requests in insertion order.
func (l *Ledger) Entries(ctx context.Context) ([]LedgerEntry, error) {
	rows, err := l.db.QueryContext(ctx,
		"SELECT id, user_id, amount, note, created_at FROM ledger_requests ORDER BY rowid",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list ledger requests: %w", err)
	}
	defer rows.Close()

	var entries []LedgerEntry
	for rows.Next() {
		var e LedgerEntry
		if err := rows.Scan(&e.ID, &e.UserID, &e.Amount, &e.Note, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan ledger request: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
