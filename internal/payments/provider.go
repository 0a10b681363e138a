// Package payments talks to the service money is requested through.
package payments

import (
	"context"
	"errors"
)

// ErrUserNotFound is returned by LookupUser when no account has the username.
var ErrUserNotFound = errors.New("user not found")

// User is a payments-provider account.
type User struct {
	ID       string
	Username string
}

// Provider lists friends and requests money from them.
type Provider interface {
	// Friends returns the usernames of the authenticated account's friends.
	Friends(ctx context.Context) ([]string, error)

	// LookupUser finds an account by exact username.
	// Returns ErrUserNotFound when there is no such account.
	LookupUser(ctx context.Context, username string) (*User, error)

	// RequestMoney asks userID to pay amount, with note shown on the request.
	RequestMoney(ctx context.Context, userID string, amount float64, note string) error
}
