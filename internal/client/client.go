// Package client wraps the billsplit server for the terminal app: one method per
// REST endpoint, plus receipt history over the Connect BillService.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/mmynk/billsplit/internal/models"
)

// DefaultFilename is the upload name used when the caller has none.
const DefaultFilename = "receipt.jpg"

// APIError is a non-2xx reply from the server.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("server returned %d: %s", e.StatusCode, e.Message)
}

// Client calls the billsplit REST API.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithToken sends token as a bearer token on every request.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// New creates a client for the server at baseURL (e.g., http://localhost:5000).
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the server address.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// ParsedReceipt is the result of uploading a receipt photo.
type ParsedReceipt struct {
	ReceiptID string        `json:"receipt_id"`
	Items     []models.Item `json:"items"`
}

// ParseReceipt uploads a receipt photo and returns the items found on it.
func (c *Client) ParseReceipt(ctx context.Context, filename string, image io.Reader) (*ParsedReceipt, error) {
	if filename == "" {
		filename = DefaultFilename
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return nil, fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := io.Copy(part, image); err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("failed to finish upload body: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/parse-receipt", &body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	var out ParsedReceipt
	if err := c.do(req, &out); err != nil {
		return nil, err
	}
	if out.Items == nil {
		out.Items = []models.Item{}
	}
	return &out, nil
}

// FriendsList returns the usernames of the payment account's friends.
func (c *Client) FriendsList(ctx context.Context) ([]string, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/friends-list", nil)
	if err != nil {
		return nil, err
	}

	var out struct {
		Friends []string `json:"friends"`
	}
	if err := c.do(req, &out); err != nil {
		return nil, err
	}
	if out.Friends == nil {
		out.Friends = []string{}
	}
	return out.Friends, nil
}

// AssignItems asks the server to distribute items across friends.
// receiptID may be empty; when set the server stores the assignment with the receipt.
func (c *Client) AssignItems(ctx context.Context, receiptID string, items []models.Item, friends []string) ([]models.AssignedItem, error) {
	in := struct {
		Items     []models.Item `json:"items"`
		Friends   []string      `json:"friends"`
		ReceiptID string        `json:"receipt_id,omitempty"`
	}{Items: items, Friends: friends, ReceiptID: receiptID}
	if in.Items == nil {
		in.Items = []models.Item{}
	}
	if in.Friends == nil {
		in.Friends = []string{}
	}

	var out struct {
		AssignedItems []models.AssignedItem `json:"assigned_items"`
	}
	if err := c.postJSON(ctx, "/assign-items", in, &out); err != nil {
		return nil, err
	}
	return out.AssignedItems, nil
}

// RequestPayments requests money for every assigned item. The result slice lines
// up with assigned.
func (c *Client) RequestPayments(ctx context.Context, receiptID string, assigned []models.AssignedItem) ([]models.PaymentResult, error) {
	in := struct {
		AssignedItems []models.AssignedItem `json:"assigned_items"`
		ReceiptID     string                `json:"receipt_id,omitempty"`
	}{AssignedItems: assigned, ReceiptID: receiptID}
	if in.AssignedItems == nil {
		in.AssignedItems = []models.AssignedItem{}
	}

	var out struct {
		Results []models.PaymentResult `json:"results"`
	}
	if err := c.postJSON(ctx, "/request-payments", in, &out); err != nil {
		return nil, err
	}
	return out.Results, nil
}

// Login exchanges the server password for a token and uses it from then on.
func (c *Client) Login(ctx context.Context, password, device string) (string, error) {
	in := map[string]string{"password": password, "device": device}
	var out struct {
		Token string `json:"token"`
	}
	if err := c.postJSON(ctx, "/login", in, &out); err != nil {
		return "", err
	}
	c.token = out.Token
	return out.Token, nil
}

// Ping checks that the server is reachable.
func (c *Client) Ping(ctx context.Context) error {
	req, err := c.newRequest(ctx, http.MethodGet, "/test", nil)
	if err != nil {
		return err
	}
	return c.do(req, nil)
}

func (c *Client) postJSON(ctx context.Context, path string, in, out any) error {
	data, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}
	req, err := c.newRequest(ctx, http.MethodPost, path, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	return req, nil
}

// do sends req and decodes a 2xx JSON body into out. A nil out discards the body.
func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call %s: %w", req.URL.Path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
		var body struct {
			Error string `json:"error"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&body); err == nil && body.Error != "" {
			apiErr.Message = body.Error
		}
		return apiErr
	}

	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", req.URL.Path, err)
	}
	return nil
}
