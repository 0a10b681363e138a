package models

// Item represents a single line item parsed from a receipt.
type Item struct {
	// Name is the cleaned text of the receipt line with prices removed (e.g., "Coffee").
	// Serialized as "item" to match the parse-receipt response.
	Name string `json:"item"`

	// Cost is the last price found on the receipt line.
	Cost float64 `json:"cost"`
}

// AssignedItem is an item together with the friend who owes it.
type AssignedItem struct {
	Name       string  `json:"item"`
	Cost       float64 `json:"cost"`
	AssignedTo string  `json:"assigned_to"`
}
