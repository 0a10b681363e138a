package payments

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const friendsPageSize = 1337

// Venmo implements Provider against the Venmo REST API.
type Venmo struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

var _ Provider = (*Venmo)(nil)

// NewVenmo creates a Venmo client. baseURL is normally https://api.venmo.com/v1.
func NewVenmo(baseURL, accessToken string, httpClient *http.Client) *Venmo {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Venmo{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      accessToken,
		httpClient: httpClient,
	}
}

type venmoUser struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

type venmoError struct {
	Error struct {
		Message string `json:"message"`
		Code    int    `json:"code"`
	} `json:"error"`
}

// Profile returns the account the access token belongs to.
func (v *Venmo) Profile(ctx context.Context) (*User, error) {
	var resp struct {
		Data struct {
			User venmoUser `json:"user"`
		} `json:"data"`
	}
	if err := v.do(ctx, http.MethodGet, v.baseURL+"/account", nil, &resp); err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	slog.Debug("Venmo profile retrieved", "username", resp.Data.User.Username)
	return &User{ID: resp.Data.User.ID, Username: resp.Data.User.Username}, nil
}

// Friends returns the usernames of the authenticated user's friends, following pagination.
func (v *Venmo) Friends(ctx context.Context) ([]string, error) {
	profile, err := v.Profile(ctx)
	if err != nil {
		return nil, err
	}

	next := fmt.Sprintf("%s/users/%s/friends?limit=%d", v.baseURL, url.PathEscape(profile.ID), friendsPageSize)
	usernames := []string{}
	seen := map[string]bool{}
	for next != "" {
		if seen[next] {
			slog.Warn("Friends pagination repeated a page", "next", next)
			break
		}
		seen[next] = true

		var page struct {
			Data       []venmoUser `json:"data"`
			Pagination struct {
				Next string `json:"next"`
			} `json:"pagination"`
		}
		if err := v.do(ctx, http.MethodGet, next, nil, &page); err != nil {
			return nil, fmt.Errorf("failed to get friends list: %w", err)
		}
		for _, u := range page.Data {
			usernames = append(usernames, u.Username)
		}
		next = page.Pagination.Next
	}
	return usernames, nil
}

// LookupUser searches for username and returns the exact match.
func (v *Venmo) LookupUser(ctx context.Context, username string) (*User, error) {
	q := url.Values{}
	q.Set("query", username)
	q.Set("limit", "50")

	var resp struct {
		Data []venmoUser `json:"data"`
	}
	if err := v.do(ctx, http.MethodGet, v.baseURL+"/users?"+q.Encode(), nil, &resp); err != nil {
		return nil, fmt.Errorf("failed to search users: %w", err)
	}
	for _, u := range resp.Data {
		if strings.EqualFold(u.Username, username) {
			return &User{ID: u.ID, Username: u.Username}, nil
		}
	}
	return nil, ErrUserNotFound
}

// RequestMoney creates a private payment request. Venmo models a request as a
// payment with a negative amount.
func (v *Venmo) RequestMoney(ctx context.Context, userID string, amount float64, note string) error {
	body := map[string]any{
		"user_id":  userID,
		"audience": "private",
		"amount":   -amount,
		"note":     note,
	}
	if err := v.do(ctx, http.MethodPost, v.baseURL+"/payments", body, nil); err != nil {
		return fmt.Errorf("failed to request money: %w", err)
	}
	return nil
}

func (v *Venmo) do(ctx context.Context, method, rawURL string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+v.token)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := v.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr venmoError
		if json.NewDecoder(resp.Body).Decode(&apiErr) == nil && apiErr.Error.Message != "" {
			return fmt.Errorf("venmo: %s (status %d)", apiErr.Error.Message, resp.StatusCode)
		}
		return fmt.Errorf("venmo: unexpected status %d", resp.StatusCode)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
