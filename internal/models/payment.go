package models

// PaymentStatus is the outcome of a single payment request.
type PaymentStatus string

const (
	// PaymentSuccess means the provider accepted the request.
	PaymentSuccess PaymentStatus = "success"
	// PaymentFailure means the assigned friend could not be found.
	PaymentFailure PaymentStatus = "failure"
	// PaymentError means the provider returned an error.
	PaymentError PaymentStatus = "error"
)

// PaymentResult is returned to the client for each requested item.
type PaymentResult struct {
	Status  PaymentStatus `json:"status"`
	Message string        `json:"message"`
}

// PaymentRequest is the stored record of a money request.
type PaymentRequest struct {
	// ID is the unique identifier for the request (UUID format).
	ID string

	// ReceiptID links the request to a parsed receipt. Empty when the client did not send one.
	ReceiptID string

	// Username is the friend the money was requested from.
	Username string

	// Item is the item name used in the request note.
	Item string

	// Amount is the requested amount.
	Amount float64

	// Status and Message mirror the PaymentResult sent back to the client.
	Status  PaymentStatus
	Message string

	// CreatedAt is the Unix timestamp when the request was made.
	CreatedAt int64
}
