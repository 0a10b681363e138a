package calculator

import (
	"errors"
	"math"
	"testing"

	"github.com/mmynk/billsplit/internal/models"
)

func TestCalculateSplit(t *testing.T) {
	tests := []struct {
		name         string
		items        []Item
		billTotal    float64
		billSubtotal float64
		participants []string
		wantErr      error
		validateFunc func(t *testing.T, splits map[string]*PersonSplit)
	}{
		{
			name: "simple two-person split with tax",
			items: []Item{
				{Description: "Pizza", Amount: 20.0, AssignedTo: []string{"Alice", "Bob"}},
				{Description: "Salad", Amount: 10.0, AssignedTo: []string{"Alice"}},
			},
			billTotal:    33.0,
			billSubtotal: 30.0,
			participants: []string{"Alice", "Bob"},
			validateFunc: func(t *testing.T, splits map[string]*PersonSplit) {
				// Alice: subtotal = 10 + 10 = 20, tax = 20 * (3/30) = 2, total = 22
				// Bob: subtotal = 10, tax = 10 * (3/30) = 1, total = 11
				alice := splits["Alice"]
				if math.Abs(alice.Subtotal-20.0) > 0.01 {
					t.Errorf("Alice subtotal = %v, want 20.0", alice.Subtotal)
				}
				if math.Abs(alice.Tax-2.0) > 0.01 {
					t.Errorf("Alice tax = %v, want 2.0", alice.Tax)
				}
				if math.Abs(alice.Total-22.0) > 0.01 {
					t.Errorf("Alice total = %v, want 22.0", alice.Total)
				}
				if len(alice.Items) != 2 {
					t.Errorf("Alice items = %d, want 2", len(alice.Items))
				}

				bob := splits["Bob"]
				if math.Abs(bob.Subtotal-10.0) > 0.01 {
					t.Errorf("Bob subtotal = %v, want 10.0", bob.Subtotal)
				}
				if math.Abs(bob.Total-11.0) > 0.01 {
					t.Errorf("Bob total = %v, want 11.0", bob.Total)
				}
			},
		},
		{
			name:         "zero subtotal should error",
			items:        []Item{{Description: "Item", Amount: 10.0, AssignedTo: []string{"Alice"}}},
			billTotal:    10.0,
			billSubtotal: 0.0,
			participants: []string{"Alice"},
			wantErr:      ErrZeroSubtotal,
		},
		{
			name:         "no participants should error",
			items:        []Item{{Description: "Item", Amount: 10.0, AssignedTo: []string{"Alice"}}},
			billTotal:    10.0,
			billSubtotal: 10.0,
			participants: []string{},
			wantErr:      ErrNoParticipants,
		},
		{
			name:         "no items - split equally among participants",
			items:        []Item{},
			billTotal:    33.0,
			billSubtotal: 30.0,
			participants: []string{"Alice", "Bob"},
			validateFunc: func(t *testing.T, splits map[string]*PersonSplit) {
				for _, person := range []string{"Alice", "Bob"} {
					split := splits[person]
					if math.Abs(split.Subtotal-15.0) > 0.01 {
						t.Errorf("%s subtotal = %v, want 15.0", person, split.Subtotal)
					}
					if math.Abs(split.Tax-1.5) > 0.01 {
						t.Errorf("%s tax = %v, want 1.5", person, split.Tax)
					}
					if math.Abs(split.Total-16.5) > 0.01 {
						t.Errorf("%s total = %v, want 16.5", person, split.Total)
					}
				}
			},
		},
		{
			name: "odd cents go to the first assignees",
			items: []Item{
				{Description: "Nachos", Amount: 10.0, AssignedTo: []string{"Alice", "Bob", "Carol"}},
			},
			billTotal:    10.0,
			billSubtotal: 10.0,
			participants: []string{"Alice", "Bob", "Carol"},
			validateFunc: func(t *testing.T, splits map[string]*PersonSplit) {
				want := map[string]float64{"Alice": 3.34, "Bob": 3.33, "Carol": 3.33}
				for person, w := range want {
					if got := splits[person].Subtotal; math.Abs(got-w) > 0.001 {
						t.Errorf("%s subtotal = %v, want %v", person, got, w)
					}
				}
			},
		},
		{
			name: "unassigned item and unknown assignee are skipped",
			items: []Item{
				{Description: "Fries", Amount: 4.0},
				{Description: "Shake", Amount: 6.0, AssignedTo: []string{"Mallory"}},
				{Description: "Burger", Amount: 10.0, AssignedTo: []string{"Alice"}},
			},
			billTotal:    20.0,
			billSubtotal: 20.0,
			participants: []string{"Alice"},
			validateFunc: func(t *testing.T, splits map[string]*PersonSplit) {
				if _, ok := splits["Mallory"]; ok {
					t.Error("unexpected split for non-participant")
				}
				if got := splits["Alice"].Total; math.Abs(got-10.0) > 0.01 {
					t.Errorf("Alice total = %v, want 10.0", got)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			splits, err := CalculateSplit(tt.items, tt.billTotal, tt.billSubtotal, tt.participants)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("CalculateSplit() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("CalculateSplit() unexpected error: %v", err)
			}
			if tt.validateFunc != nil {
				tt.validateFunc(t, splits)
			}
		})
	}
}

func TestSplitAssigned(t *testing.T) {
	assigned := []models.AssignedItem{
		{Name: "Coffee", Cost: 3.5, AssignedTo: "alice"},
		{Name: "Bagel", Cost: 2.25, AssignedTo: "bob"},
		{Name: "Juice", Cost: 4.0, AssignedTo: "alice"},
	}

	splits, err := SplitAssigned(assigned)
	if err != nil {
		t.Fatalf("SplitAssigned failed: %v", err)
	}
	if got := splits["alice"].Total; math.Abs(got-7.5) > 0.001 {
		t.Errorf("alice total = %v, want 7.5", got)
	}
	if got := splits["bob"].Total; math.Abs(got-2.25) > 0.001 {
		t.Errorf("bob total = %v, want 2.25", got)
	}
	if got := splits["alice"].Tax; got != 0 {
		t.Errorf("alice tax = %v, want 0", got)
	}
}

func TestSplitAssigned_Empty(t *testing.T) {
	if _, err := SplitAssigned(nil); err == nil {
		t.Error("expected error for empty assignment")
	}
}

func TestSplitAssignedTotal(t *testing.T) {
	assigned := []models.AssignedItem{
		{Name: "Coffee", Cost: 3.5, AssignedTo: "alice"},
		{Name: "Bagel", Cost: 2.25, AssignedTo: "bob"},
		{Name: "Juice", Cost: 4.0, AssignedTo: "alice"},
	}

	// 9.75 of items, 11.70 paid: 20% shared as tip.
	splits, err := SplitAssignedTotal(assigned, 11.70)
	if err != nil {
		t.Fatalf("SplitAssignedTotal failed: %v", err)
	}
	if got := splits["alice"].Tax; math.Abs(got-1.5) > 0.01 {
		t.Errorf("alice tax = %v, want 1.5", got)
	}
	if got := splits["bob"].Total; math.Abs(got-2.7) > 0.01 {
		t.Errorf("bob total = %v, want 2.7", got)
	}

	if _, err := SplitAssignedTotal(assigned, 5); !errors.Is(err, ErrTotalBelowSubtotal) {
		t.Errorf("expected ErrTotalBelowSubtotal, got %v", err)
	}
}

func TestFillFriends(t *testing.T) {
	friends := []models.Friend{
		{Username: "alice", IsSelected: true, Amount: 99},
		{Username: "bob", IsSelected: true},
		{Username: "carol", IsSelected: true},
	}
	splits := map[string]*PersonSplit{
		"alice": {Total: 7.5, Items: []PersonItem{{Description: "Coffee", Amount: 3.5}, {Description: "Juice", Amount: 4}}},
		"bob":   {Total: 2.25, Items: []PersonItem{{Description: "Bagel", Amount: 2.25}}},
	}

	out := FillFriends(friends, splits)

	if out[0].Amount != 7.5 || len(out[0].Items) != 2 {
		t.Errorf("alice = %+v", out[0])
	}
	if out[1].Amount != 2.25 || out[1].Items[0].Name != "Bagel" {
		t.Errorf("bob = %+v", out[1])
	}
	if out[2].Amount != 0 || len(out[2].Items) != 0 {
		t.Errorf("carol = %+v, want zero amount and no items", out[2])
	}
	if !out[2].IsSelected {
		t.Error("selection flag should be preserved")
	}
	if friends[0].Amount != 99 {
		t.Error("input slice should not be modified")
	}
}
