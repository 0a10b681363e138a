package client

import (
	"context"
	"fmt"

	"connectrpc.com/connect"

	"github.com/mmynk/billsplit/internal/models"
	"github.com/mmynk/billsplit/internal/rpc"
)

// History reads stored receipts over the BillService RPC.
type History struct {
	rpc   *rpc.BillServiceClient
	token string
}

// NewHistory creates a history client with c's address and current token.
func (c *Client) NewHistory() *History {
	return &History{
		rpc:   rpc.NewBillServiceClient(c.httpClient, c.baseURL),
		token: c.token,
	}
}

func authorize[T any](req *connect.Request[T], token string) *connect.Request[T] {
	if token != "" {
		req.Header().Set("Authorization", "Bearer "+token)
	}
	return req
}

// Receipts lists the most recent receipts. A limit of zero returns all of them.
func (h *History) Receipts(ctx context.Context, limit int) ([]models.ReceiptSummary, error) {
	resp, err := h.rpc.ListReceipts(ctx, authorize(connect.NewRequest(&rpc.ListReceiptsRequest{Limit: limit}), h.token))
	if err != nil {
		return nil, fmt.Errorf("failed to list receipts: %w", err)
	}
	return resp.Msg.Receipts, nil
}

// Receipt fetches one receipt with its payment requests.
func (h *History) Receipt(ctx context.Context, receiptID string) (*rpc.GetReceiptResponse, error) {
	resp, err := h.rpc.GetReceipt(ctx, authorize(connect.NewRequest(&rpc.GetReceiptRequest{ReceiptID: receiptID}), h.token))
	if err != nil {
		return nil, fmt.Errorf("failed to get receipt: %w", err)
	}
	return resp.Msg, nil
}

// Split computes what each friend owes on a stored receipt. A zero total means
// the items are the whole bill.
func (h *History) Split(ctx context.Context, receiptID string, total float64) (*rpc.CalculateSplitResponse, error) {
	req := connect.NewRequest(&rpc.CalculateSplitRequest{ReceiptID: receiptID, Total: total})
	resp, err := h.rpc.CalculateSplit(ctx, authorize(req, h.token))
	if err != nil {
		return nil, fmt.Errorf("failed to calculate split: %w", err)
	}
	return resp.Msg, nil
}
