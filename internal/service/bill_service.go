package service

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"math"
	"net/http"
	"sort"

	"connectrpc.com/connect"
	"github.com/gorilla/mux"

	"github.com/mmynk/billsplit/internal/calculator"
	"github.com/mmynk/billsplit/internal/charts"
	"github.com/mmynk/billsplit/internal/models"
	"github.com/mmynk/billsplit/internal/rpc"
	"github.com/mmynk/billsplit/internal/storage"
)

// BillService implements the BillService RPC interface over stored receipts.
type BillService struct {
	store storage.Store
}

var _ rpc.BillServiceHandler = (*BillService)(nil)

// NewBillService creates a new bill service.
func NewBillService(store storage.Store) *BillService {
	return &BillService{store: store}
}

// ListReceipts returns receipt summaries, newest first.
func (s *BillService) ListReceipts(ctx context.Context, req *connect.Request[rpc.ListReceiptsRequest]) (*connect.Response[rpc.ListReceiptsResponse], error) {
	if req.Msg.Limit < 0 {
		return nil, connect.NewError(connect.CodeInvalidArgument, errors.New("limit cannot be negative"))
	}

	receipts, err := s.store.ListReceipts(ctx, req.Msg.Limit)
	if err != nil {
		slog.Error("Failed to list receipts", "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}
	if receipts == nil {
		receipts = []models.ReceiptSummary{}
	}

	return connect.NewResponse(&rpc.ListReceiptsResponse{Receipts: receipts}), nil
}

// GetReceipt returns one receipt with its assignment and payment requests.
func (s *BillService) GetReceipt(ctx context.Context, req *connect.Request[rpc.GetReceiptRequest]) (*connect.Response[rpc.GetReceiptResponse], error) {
	receipt, err := s.loadReceipt(ctx, req.Msg.ReceiptID)
	if err != nil {
		return nil, err
	}

	requests, err := s.store.ListPaymentRequests(ctx, receipt.ID)
	if err != nil {
		slog.Error("Failed to list payment requests", "receipt_id", receipt.ID, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	records := make([]rpc.PaymentRecord, len(requests))
	for i, p := range requests {
		records[i] = rpc.PaymentRecord{
			Username:  p.Username,
			Item:      p.Item,
			Amount:    p.Amount,
			Status:    p.Status,
			Message:   p.Message,
			CreatedAt: p.CreatedAt,
		}
	}

	return connect.NewResponse(&rpc.GetReceiptResponse{Receipt: receipt, Payments: records}), nil
}

// CalculateSplit computes per-friend totals for a receipt's saved assignment.
func (s *BillService) CalculateSplit(ctx context.Context, req *connect.Request[rpc.CalculateSplitRequest]) (*connect.Response[rpc.CalculateSplitResponse], error) {
	receipt, err := s.loadReceipt(ctx, req.Msg.ReceiptID)
	if err != nil {
		return nil, err
	}
	if len(receipt.Assignments) == 0 {
		return nil, connect.NewError(connect.CodeFailedPrecondition, errors.New("receipt has no assignment"))
	}

	splits, err := calculator.SplitAssignedTotal(receipt.Assignments, req.Msg.Total)
	if err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}

	var subtotal, total float64
	for _, split := range splits {
		subtotal += split.Subtotal
		total += split.Total
	}

	resp := &rpc.CalculateSplitResponse{
		Splits:    make(map[string]rpc.PersonSplit, len(splits)),
		Subtotal:  math.Round(subtotal*100) / 100,
		TaxAmount: math.Round((total-subtotal)*100) / 100,
	}
	for name, split := range splits {
		personItems := make([]models.Item, len(split.Items))
		for i, it := range split.Items {
			personItems[i] = models.Item{Name: it.Description, Cost: it.Amount}
		}
		resp.Splits[name] = rpc.PersonSplit{
			Subtotal: split.Subtotal,
			Tax:      split.Tax,
			Total:    split.Total,
			Items:    personItems,
		}
	}

	slog.Info("Split calculated", "receipt_id", receipt.ID, "participants", len(splits))
	return connect.NewResponse(resp), nil
}

// Chart handles GET /receipts/{id}/chart.png.
func (s *BillService) Chart(w http.ResponseWriter, r *http.Request) {
	receiptID := mux.Vars(r)["id"]

	receipt, err := s.store.GetReceipt(r.Context(), receiptID)
	if errors.Is(err, storage.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Receipt not found")
		return
	}
	if err != nil {
		slog.Error("Failed to get receipt", "receipt_id", receiptID, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to load receipt")
		return
	}
	if len(receipt.Assignments) == 0 {
		writeError(w, http.StatusNotFound, "Receipt has no assignment")
		return
	}

	splits, err := calculator.SplitAssigned(receipt.Assignments)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	shares := make([]charts.Share, 0, len(splits))
	for name, split := range splits {
		shares = append(shares, charts.Share{Username: name, Amount: split.Total})
	}
	sort.Slice(shares, func(i, j int) bool { return shares[i].Username < shares[j].Username })

	var buf bytes.Buffer
	if err := charts.RenderSplitPie(&buf, shares); err != nil {
		if errors.Is(err, charts.ErrNoData) {
			writeError(w, http.StatusUnprocessableEntity, "Nothing to chart")
			return
		}
		slog.Error("Failed to render chart", "receipt_id", receiptID, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to render chart")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Write(buf.Bytes())
}

func (s *BillService) loadReceipt(ctx context.Context, receiptID string) (*models.Receipt, error) {
	if receiptID == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, errors.New("receipt_id is required"))
	}
	receipt, err := s.store.GetReceipt(ctx, receiptID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, connect.NewError(connect.CodeNotFound, err)
	}
	if err != nil {
		slog.Error("Failed to get receipt", "receipt_id", receiptID, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}
	return receipt, nil
}
