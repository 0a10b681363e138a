package service

import (
	"context"
	"errors"
	"math"
	"net/http"
	"testing"

	"connectrpc.com/connect"

	"github.com/mmynk/billsplit/internal/models"
	"github.com/mmynk/billsplit/internal/rpc"
)

// seedReceipt stores a receipt assigned to alice and bob.
func seedReceipt(t *testing.T, env *testEnv) *models.Receipt {
	t.Helper()
	ctx := context.Background()

	rec := &models.Receipt{
		Filename: "dinner.jpg",
		Items:    []models.Item{{Name: "Pasta", Cost: 12}, {Name: "Salad", Cost: 8}, {Name: "Wine", Cost: 20}},
	}
	if err := env.store.CreateReceipt(ctx, rec); err != nil {
		t.Fatalf("CreateReceipt failed: %v", err)
	}
	assigned := []models.AssignedItem{
		{Name: "Pasta", Cost: 12, AssignedTo: "alice"},
		{Name: "Salad", Cost: 8, AssignedTo: "bob"},
		{Name: "Wine", Cost: 20, AssignedTo: "alice"},
	}
	if err := env.store.SaveAssignment(ctx, rec.ID, assigned); err != nil {
		t.Fatalf("SaveAssignment failed: %v", err)
	}
	return rec
}

func newBillClient(env *testEnv) *rpc.BillServiceClient {
	return rpc.NewBillServiceClient(http.DefaultClient, env.server.URL)
}

func TestBillService_ListReceipts(t *testing.T) {
	env := setupTestServer(t, testOptions{})
	client := newBillClient(env)
	ctx := context.Background()

	resp, err := client.ListReceipts(ctx, connect.NewRequest(&rpc.ListReceiptsRequest{}))
	if err != nil {
		t.Fatalf("ListReceipts failed: %v", err)
	}
	if len(resp.Msg.Receipts) != 0 {
		t.Errorf("expected no receipts, got %d", len(resp.Msg.Receipts))
	}

	rec := seedReceipt(t, env)
	resp, err = client.ListReceipts(ctx, connect.NewRequest(&rpc.ListReceiptsRequest{Limit: 10}))
	if err != nil {
		t.Fatalf("ListReceipts failed: %v", err)
	}
	if len(resp.Msg.Receipts) != 1 {
		t.Fatalf("expected 1 receipt, got %d", len(resp.Msg.Receipts))
	}
	summary := resp.Msg.Receipts[0]
	if summary.ID != rec.ID || summary.ItemCount != 3 || math.Abs(summary.Total-40) > 0.01 {
		t.Errorf("unexpected summary: %+v", summary)
	}

	_, err = client.ListReceipts(ctx, connect.NewRequest(&rpc.ListReceiptsRequest{Limit: -1}))
	if connect.CodeOf(err) != connect.CodeInvalidArgument {
		t.Errorf("expected InvalidArgument for negative limit, got %v", err)
	}
}

func TestBillService_GetReceipt(t *testing.T) {
	env := setupTestServer(t, testOptions{})
	client := newBillClient(env)
	ctx := context.Background()
	rec := seedReceipt(t, env)

	postJSON(t, env.server.URL+"/request-payments", map[string]any{
		"receipt_id":     rec.ID,
		"assigned_items": []models.AssignedItem{{Name: "Salad", Cost: 8, AssignedTo: "bob"}},
	})

	resp, err := client.GetReceipt(ctx, connect.NewRequest(&rpc.GetReceiptRequest{ReceiptID: rec.ID}))
	if err != nil {
		t.Fatalf("GetReceipt failed: %v", err)
	}
	if resp.Msg.Receipt.Filename != "dinner.jpg" || len(resp.Msg.Receipt.Assignments) != 3 {
		t.Errorf("unexpected receipt: %+v", resp.Msg.Receipt)
	}
	if len(resp.Msg.Payments) != 1 {
		t.Fatalf("expected 1 payment record, got %d", len(resp.Msg.Payments))
	}
	if p := resp.Msg.Payments[0]; p.Username != "bob" || p.Status != models.PaymentSuccess {
		t.Errorf("unexpected payment record: %+v", p)
	}

	tests := []struct {
		name     string
		id       string
		wantCode connect.Code
	}{
		{"missing id", "", connect.CodeInvalidArgument},
		{"unknown id", "does-not-exist", connect.CodeNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := client.GetReceipt(ctx, connect.NewRequest(&rpc.GetReceiptRequest{ReceiptID: tt.id}))
			var connectErr *connect.Error
			if !errors.As(err, &connectErr) {
				t.Fatalf("expected connect error, got %v", err)
			}
			if connectErr.Code() != tt.wantCode {
				t.Errorf("code = %v, want %v", connectErr.Code(), tt.wantCode)
			}
		})
	}
}

func TestBillService_CalculateSplit(t *testing.T) {
	env := setupTestServer(t, testOptions{})
	client := newBillClient(env)
	ctx := context.Background()
	rec := seedReceipt(t, env)

	tests := []struct {
		name         string
		total        float64
		validateFunc func(t *testing.T, resp *rpc.CalculateSplitResponse)
	}{
		{
			name:  "items are the whole bill",
			total: 0,
			validateFunc: func(t *testing.T, resp *rpc.CalculateSplitResponse) {
				if math.Abs(resp.Subtotal-40) > 0.01 || resp.TaxAmount != 0 {
					t.Errorf("subtotal/tax = %v/%v, want 40/0", resp.Subtotal, resp.TaxAmount)
				}
				if got := resp.Splits["alice"].Total; math.Abs(got-32) > 0.01 {
					t.Errorf("alice total = %v, want 32", got)
				}
				if got := len(resp.Splits["alice"].Items); got != 2 {
					t.Errorf("alice has %d items, want 2", got)
				}
			},
		},
		{
			name:  "tip shared proportionally",
			total: 48,
			validateFunc: func(t *testing.T, resp *rpc.CalculateSplitResponse) {
				if math.Abs(resp.TaxAmount-8) > 0.01 {
					t.Errorf("tax = %v, want 8", resp.TaxAmount)
				}
				if got := resp.Splits["alice"].Total; math.Abs(got-38.4) > 0.01 {
					t.Errorf("alice total = %v, want 38.4", got)
				}
				if got := resp.Splits["bob"].Tax; math.Abs(got-1.6) > 0.01 {
					t.Errorf("bob tax = %v, want 1.6", got)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := client.CalculateSplit(ctx, connect.NewRequest(&rpc.CalculateSplitRequest{
				ReceiptID: rec.ID,
				Total:     tt.total,
			}))
			if err != nil {
				t.Fatalf("CalculateSplit failed: %v", err)
			}
			tt.validateFunc(t, resp.Msg)
		})
	}

	t.Run("total below subtotal", func(t *testing.T) {
		_, err := client.CalculateSplit(ctx, connect.NewRequest(&rpc.CalculateSplitRequest{ReceiptID: rec.ID, Total: 10}))
		if connect.CodeOf(err) != connect.CodeInvalidArgument {
			t.Errorf("expected InvalidArgument, got %v", err)
		}
	})

	t.Run("no assignment", func(t *testing.T) {
		bare := &models.Receipt{Filename: "bare.jpg", Items: []models.Item{{Name: "Tea", Cost: 2}}}
		if err := env.store.CreateReceipt(ctx, bare); err != nil {
			t.Fatalf("CreateReceipt failed: %v", err)
		}
		_, err := client.CalculateSplit(ctx, connect.NewRequest(&rpc.CalculateSplitRequest{ReceiptID: bare.ID}))
		if connect.CodeOf(err) != connect.CodeFailedPrecondition {
			t.Errorf("expected FailedPrecondition, got %v", err)
		}
	})
}

func TestBillService_RequiresToken(t *testing.T) {
	jwtManager := newTestJWT()
	env := setupTestServer(t, testOptions{
		cfg: func(cfg *RouterConfig) { cfg.JWT = jwtManager },
	})
	ctx := context.Background()

	_, err := newBillClient(env).ListReceipts(ctx, connect.NewRequest(&rpc.ListReceiptsRequest{}))
	if connect.CodeOf(err) != connect.CodeUnauthenticated {
		t.Fatalf("expected Unauthenticated, got %v", err)
	}

	token, err := jwtManager.Generate("laptop")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	req := connect.NewRequest(&rpc.ListReceiptsRequest{})
	req.Header().Set("Authorization", "Bearer "+token)
	if _, err := newBillClient(env).ListReceipts(ctx, req); err != nil {
		t.Errorf("ListReceipts with token failed: %v", err)
	}
}

func TestChart(t *testing.T) {
	env := setupTestServer(t, testOptions{})
	rec := seedReceipt(t, env)

	resp, err := http.Get(env.server.URL + "/receipts/" + rec.ID + "/chart.png")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "image/png" {
		t.Errorf("Content-Type = %q, want image/png", ct)
	}

	missing, err := http.Get(env.server.URL + "/receipts/nope/chart.png")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	body := decodeBody(t, missing)
	if missing.StatusCode != http.StatusNotFound || errorMessage(t, body) != "Receipt not found" {
		t.Errorf("got %d %v", missing.StatusCode, body)
	}
}
