package calculator

import (
	"errors"

	"github.com/shopspring/decimal"

	"github.com/mmynk/billsplit/internal/models"
)

// PersonItem is one person's share of an item.
type PersonItem struct {
	Description string
	Amount      float64
}

// PersonSplit represents the calculated split for one person.
type PersonSplit struct {
	Subtotal float64
	Tax      float64
	Total    float64
	Items    []PersonItem
}

// Item represents a single item on the bill.
type Item struct {
	Description string
	Amount      float64
	AssignedTo  []string
}

var (
	ErrZeroSubtotal   = errors.New("subtotal cannot be zero")
	ErrNoParticipants = errors.New("must have at least one participant")
	// ErrTotalBelowSubtotal means the amount paid is less than the items cost.
	ErrTotalBelowSubtotal = errors.New("total cannot be less than the item subtotal")
	hundred               = decimal.NewFromInt(100)
)

// CalculateSplit computes how much each person owes including proportional tax:
// person_total = person_subtotal × (1 + (total_tax / bill_subtotal)).
//
// Amounts are worked in whole cents. When an item is shared, the leftover cents
// go one each to the first people in AssignedTo, so shares always add back up to
// the item amount. People assigned to an item but missing from participants are ignored.
func CalculateSplit(items []Item, billTotal float64, billSubtotal float64, participants []string) (map[string]*PersonSplit, error) {
	if billSubtotal == 0 {
		return nil, ErrZeroSubtotal
	}
	if len(participants) == 0 {
		return nil, ErrNoParticipants
	}

	total := decimal.NewFromFloat(billTotal)
	subtotal := decimal.NewFromFloat(billSubtotal)
	tax := total.Sub(subtotal)

	subtotals := make(map[string]decimal.Decimal, len(participants))
	splits := make(map[string]*PersonSplit, len(participants))
	for _, p := range participants {
		subtotals[p] = decimal.Zero
		splits[p] = &PersonSplit{}
	}

	// No items: split the whole bill equally.
	if len(items) == 0 {
		shares := shareCents(subtotal, len(participants))
		for i, p := range participants {
			subtotals[p] = shares[i]
		}
	}

	for _, item := range items {
		if len(item.AssignedTo) == 0 {
			continue
		}
		shares := shareCents(decimal.NewFromFloat(item.Amount), len(item.AssignedTo))
		for i, person := range item.AssignedTo {
			split, ok := splits[person]
			if !ok {
				continue
			}
			subtotals[person] = subtotals[person].Add(shares[i])
			split.Items = append(split.Items, PersonItem{
				Description: item.Description,
				Amount:      shares[i].InexactFloat64(),
			})
		}
	}

	for person, split := range splits {
		personSubtotal := subtotals[person]
		personTax := personSubtotal.Mul(tax).Div(subtotal).Round(2)
		split.Subtotal = personSubtotal.InexactFloat64()
		split.Tax = personTax.InexactFloat64()
		split.Total = personSubtotal.Add(personTax).InexactFloat64()
	}

	return splits, nil
}

// shareCents divides amount into n cent-rounded shares that sum to amount
// (rounded to cents).
func shareCents(amount decimal.Decimal, n int) []decimal.Decimal {
	cents := amount.Mul(hundred).Round(0).IntPart()
	base := cents / int64(n)
	rem := cents % int64(n)

	shares := make([]decimal.Decimal, n)
	for i := range shares {
		c := base
		if int64(i) < rem {
			c++
		}
		shares[i] = decimal.New(c, -2)
	}
	return shares
}

// SplitAssigned splits a round-robin assignment where the items are the whole bill
// (no separate tax line).
func SplitAssigned(assigned []models.AssignedItem) (map[string]*PersonSplit, error) {
	return SplitAssignedTotal(assigned, 0)
}

// SplitAssignedTotal splits an assignment against the amount actually paid. The
// difference between billTotal and the item sum is shared like tax. A zero
// billTotal means the items are the whole bill.
func SplitAssignedTotal(assigned []models.AssignedItem, billTotal float64) (map[string]*PersonSplit, error) {
	var participants []string
	seen := make(map[string]bool)
	items := make([]Item, len(assigned))
	sum := decimal.Zero
	for i, a := range assigned {
		if !seen[a.AssignedTo] {
			seen[a.AssignedTo] = true
			participants = append(participants, a.AssignedTo)
		}
		items[i] = Item{Description: a.Name, Amount: a.Cost, AssignedTo: []string{a.AssignedTo}}
		sum = sum.Add(decimal.NewFromFloat(a.Cost))
	}
	subtotal := sum.InexactFloat64()
	if billTotal == 0 {
		billTotal = subtotal
	}
	if decimal.NewFromFloat(billTotal).LessThan(sum) {
		return nil, ErrTotalBelowSubtotal
	}
	return CalculateSplit(items, billTotal, subtotal, participants)
}

// FillFriends copies the computed amounts and items onto friends, matched by
// username. Friends without a split are reset to zero.
func FillFriends(friends []models.Friend, splits map[string]*PersonSplit) []models.Friend {
	out := make([]models.Friend, len(friends))
	for i, f := range friends {
		f.Items = []models.Item{}
		f.Amount = 0
		if split, ok := splits[f.Username]; ok {
			f.Amount = split.Total
			for _, it := range split.Items {
				f.Items = append(f.Items, models.Item{Name: it.Description, Cost: it.Amount})
			}
		}
		out[i] = f
	}
	return out
}
