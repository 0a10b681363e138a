// Package receipt turns a photo of a receipt into line items: the image is
// binarized, run through OCR, and each text line is scanned for a price.
package receipt

import (
	"errors"
	"log/slog"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/mmynk/billsplit/internal/models"
)

// ErrNoItems is returned when no line of the receipt carried a price.
var ErrNoItems = errors.New("no valid items found")

var (
	// Keeps only letters, digits, underscores, whitespace and . $ , characters.
	// Letters and digits include non-ASCII ones.
	disallowedChars = regexp.MustCompile(`[^\p{L}\p{N}_\s.$,]`)
	pricePattern    = regexp.MustCompile(`\d+\.\d{2}`)
)

// Lines containing any of these (case-insensitive) are totals, tenders or
// promotions rather than purchased items.
var excludeKeywords = []string{
	"subtotal", "total", "change", "balance",
	"amount due", "grand total", "payment", "visa", "mastercard",
	"credit", "debit", "cash", "thank you", "regular price",
	"discount", "savings", "you saved",
}

// ParseText extracts items from OCR output. The last price on a line is taken as
// the item cost; the rest of the line, minus any prices, is the item name.
func ParseText(text string) ([]models.Item, error) {
	lines := strings.Split(text, "\n")
	slog.Debug("Parsing receipt text", "lines", len(lines))

	var items []models.Item
	for _, raw := range lines {
		line := cleanLine(raw)
		if shouldExcludeLine(line) {
			slog.Debug("Line excluded by keyword", "line", line)
			continue
		}

		prices := pricePattern.FindAllString(line, -1)
		if len(prices) == 0 {
			continue
		}
		cost, err := strconv.ParseFloat(prices[len(prices)-1], 64)
		if err != nil {
			continue
		}
		name := strings.TrimFunc(pricePattern.ReplaceAllString(line, ""), trimName)
		items = append(items, models.Item{Name: name, Cost: cost})
		slog.Debug("Item found", "item", name, "cost", cost)
	}

	if len(items) == 0 {
		return nil, ErrNoItems
	}
	return items, nil
}

func cleanLine(line string) string {
	return disallowedChars.ReplaceAllString(line, "")
}

func trimName(r rune) bool {
	return unicode.IsSpace(r) || r == '$'
}

func shouldExcludeLine(line string) bool {
	lower := strings.ToLower(line)
	for _, keyword := range excludeKeywords {
		if strings.Contains(lower, keyword) {
			return true
		}
	}
	return false
}
