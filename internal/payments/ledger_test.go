package payments

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/mmynk/billsplit/internal/storage/sqlite"
)

func newTestLedger(t *testing.T, friends []string) *Ledger {
	t.Helper()
	store, err := sqlite.New(filepath.Join(t.TempDir(), "ledger.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	ledger, err := NewLedger(store.DB(), friends)
	if err != nil {
		t.Fatalf("NewLedger failed: %v", err)
	}
	return ledger
}

func TestLedger(t *testing.T) {
	ctx := context.Background()
	friends := []string{"alice", "bob"}
	ledger := newTestLedger(t, friends)
	friends[0] = "mutated"

	got, err := ledger.Friends(ctx)
	if err != nil {
		t.Fatalf("Friends failed: %v", err)
	}
	if len(got) != 2 || got[0] != "alice" {
		t.Errorf("Friends = %v", got)
	}

	user, err := ledger.LookupUser(ctx, "bob")
	if err != nil {
		t.Fatalf("LookupUser failed: %v", err)
	}
	if user.ID != "bob" {
		t.Errorf("ID = %q", user.ID)
	}
	if _, err := ledger.LookupUser(ctx, "mallory"); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound, got %v", err)
	}

	if err := ledger.RequestMoney(ctx, "bob", 2.25, "Payment for Bagel"); err != nil {
		t.Fatalf("RequestMoney failed: %v", err)
	}
	entries, err := ledger.Entries(ctx)
	if err != nil {
		t.Fatalf("Entries failed: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if entries[0].UserID != "bob" || entries[0].Amount != 2.25 || entries[0].Note != "Payment for Bagel" {
		t.Errorf("unexpected entry %+v", entries[0])
	}
}
