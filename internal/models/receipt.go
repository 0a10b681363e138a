package models

// Receipt is a parsed receipt kept by the server so it can be assigned,
// charted and listed later.
type Receipt struct {
	// ID is the unique identifier for the receipt (UUID format).
	ID string `json:"id"`

	// Filename is the name of the uploaded image, as sent by the client.
	Filename string `json:"filename"`

	// Items are the parsed line items in receipt order.
	Items []Item `json:"items"`

	// Assignments is the latest item-to-friend assignment, empty until /assign-items
	// is called with this receipt's ID.
	Assignments []AssignedItem `json:"assignments"`

	// CreatedAt is the Unix timestamp when the receipt was parsed.
	CreatedAt int64 `json:"created_at"`
}

// ReceiptSummary is the lightweight listing form of a Receipt.
type ReceiptSummary struct {
	ID        string  `json:"id"`
	Filename  string  `json:"filename"`
	ItemCount int     `json:"item_count"`
	Total     float64 `json:"total"`
	CreatedAt int64   `json:"created_at"`
}
