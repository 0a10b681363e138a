// Package display formats items and friends the way the screens show them.
package display

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/mmynk/billsplit/internal/models"
)

// FormatAmount renders a dollar amount with exactly two decimals, rounding half
// away from zero (3.005 -> "3.01").
func FormatAmount(amount float64) string {
	return decimal.NewFromFloat(amount).StringFixed(2)
}

// FormatItem renders an item row, e.g. "Coffee: $3.50".
func FormatItem(item models.Item) string {
	return fmt.Sprintf("%s: $%s", item.Name, FormatAmount(item.Cost))
}

// FormatFriend renders a friend card, e.g. "alice: $7.50".
func FormatFriend(friend models.Friend) string {
	return fmt.Sprintf("%s: $%s", friend.Username, FormatAmount(friend.Amount))
}

// FormatAssigned renders an assigned item, e.g. "Coffee: $3.50 -> alice".
func FormatAssigned(a models.AssignedItem) string {
	return fmt.Sprintf("%s: $%s -> %s", a.Name, FormatAmount(a.Cost), a.AssignedTo)
}
