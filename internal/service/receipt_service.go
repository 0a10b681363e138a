// Package service implements the HTTP surface of the billsplit server: the REST
// endpoints the mobile client calls and the Connect BillService.
package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/mmynk/billsplit/internal/calculator"
	"github.com/mmynk/billsplit/internal/display"
	"github.com/mmynk/billsplit/internal/metrics"
	"github.com/mmynk/billsplit/internal/models"
	"github.com/mmynk/billsplit/internal/payments"
	"github.com/mmynk/billsplit/internal/receipt"
	"github.com/mmynk/billsplit/internal/storage"
)

// maxUploadBytes caps a receipt upload. Uploads under the cap are parsed in memory.
const maxUploadBytes = 32 << 20

// Scanner extracts items from a receipt image.
type Scanner interface {
	Scan(ctx context.Context, image io.Reader) ([]models.Item, error)
}

// ReceiptService serves the receipt, friends and payment endpoints.
type ReceiptService struct {
	store    storage.Store
	scanner  Scanner
	payments payments.Provider
	metrics  *metrics.Metrics

	maxUpload int64
}

// NewReceiptService creates the REST service. provider may be nil, in which case
// the friends and payment endpoints answer 500 like an unconfigured server.
func NewReceiptService(store storage.Store, scanner Scanner, provider payments.Provider, m *metrics.Metrics) *ReceiptService {
	return &ReceiptService{
		store:    store,
		scanner:  scanner,
		payments: provider,
		metrics:  m,

		maxUpload: maxUploadBytes,
	}
}

type parseReceiptResponse struct {
	Items     []models.Item `json:"items"`
	ReceiptID string        `json:"receipt_id,omitempty"`
}

// ParseReceipt handles POST /parse-receipt with a multipart "file" field.
func (s *ReceiptService) ParseReceipt(w http.ResponseWriter, r *http.Request) {
	slog.Info("ParseReceipt request received")

	if r.ContentLength > s.maxUpload {
		writeError(w, http.StatusRequestEntityTooLarge, "File too large")
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload)
	if err := r.ParseMultipartForm(s.maxUpload); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "File too large")
			return
		}
		writeError(w, http.StatusBadRequest, "No file part")
		return
	}
	file, header, err := r.FormFile("file")
	if errors.Is(err, http.ErrMissingFile) {
		// A part named "file" with an empty filename is parsed as a plain value.
		if _, ok := r.MultipartForm.Value["file"]; ok {
			writeError(w, http.StatusBadRequest, "No selected file")
			return
		}
		writeError(w, http.StatusBadRequest, "No file part")
		return
	}
	if err != nil {
		writeError(w, http.StatusBadRequest, "No file part")
		return
	}
	defer file.Close()
	if header.Filename == "" {
		writeError(w, http.StatusBadRequest, "No selected file")
		return
	}

	items, err := s.scanner.Scan(r.Context(), file)
	if errors.Is(err, receipt.ErrNoItems) {
		slog.Warn("ParseReceipt found no items", "filename", header.Filename)
		writeError(w, http.StatusBadRequest, "No valid items found")
		return
	}
	if err != nil {
		slog.Error("ParseReceipt failed", "filename", header.Filename, "error", err)
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to parse receipt: %v", err))
		return
	}
	s.metrics.ItemsParsed.Observe(float64(len(items)))

	resp := parseReceiptResponse{Items: items}
	rec := &models.Receipt{Filename: header.Filename, Items: items}
	if err := s.store.CreateReceipt(r.Context(), rec); err != nil {
		// The client only needs the items; history is best effort.
		slog.Error("Failed to store receipt", "error", err)
	} else {
		resp.ReceiptID = rec.ID
	}

	slog.Info("Receipt parsed", "receipt_id", resp.ReceiptID, "items_count", len(items))
	writeJSON(w, http.StatusOK, resp)
}

// FriendsList handles GET /friends-list.
func (s *ReceiptService) FriendsList(w http.ResponseWriter, r *http.Request) {
	slog.Info("FriendsList request received")

	if s.payments == nil {
		writeError(w, http.StatusInternalServerError, "Payments client not initialized")
		return
	}

	friends, err := s.payments.Friends(r.Context())
	if err != nil {
		slog.Error("FriendsList failed", "error", err)
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to fetch friends list: %v", err))
		return
	}

	slog.Info("FriendsList successful", "count", len(friends))
	writeJSON(w, http.StatusOK, map[string][]string{"friends": friends})
}

type assignItemsRequest struct {
	Items     *[]models.Item `json:"items"`
	Friends   *[]string      `json:"friends"`
	ReceiptID string         `json:"receipt_id"`
}

// AssignItems handles POST /assign-items.
func (s *ReceiptService) AssignItems(w http.ResponseWriter, r *http.Request) {
	var req assignItemsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Items == nil || req.Friends == nil {
		writeError(w, http.StatusBadRequest, "Invalid request data")
		return
	}
	slog.Info("AssignItems request received",
		"items_count", len(*req.Items),
		"friends_count", len(*req.Friends),
		"receipt_id", req.ReceiptID,
	)

	assigned, err := calculator.Assign(*req.Items, *req.Friends)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request data")
		return
	}

	if req.ReceiptID != "" {
		err := s.store.SaveAssignment(r.Context(), req.ReceiptID, assigned)
		if errors.Is(err, storage.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Receipt not found")
			return
		}
		if err != nil {
			slog.Error("Failed to save assignment", "receipt_id", req.ReceiptID, "error", err)
			writeError(w, http.StatusInternalServerError, "Failed to save assignment")
			return
		}
	}

	writeJSON(w, http.StatusOK, map[string][]models.AssignedItem{"assigned_items": assigned})
}

type requestPaymentsRequest struct {
	AssignedItems *[]models.AssignedItem `json:"assigned_items"`
	// Older clients send the field misspelled.
	LegacyAssignedItems *[]models.AssignedItem `json:"assignmed_items"`
	ReceiptID           string                 `json:"receipt_id"`
}

// RequestPayments handles POST /request-payments. Each item produces one result;
// a failure on one item does not stop the rest.
func (s *ReceiptService) RequestPayments(w http.ResponseWriter, r *http.Request) {
	var req requestPaymentsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request data")
		return
	}
	items := req.AssignedItems
	if items == nil {
		items = req.LegacyAssignedItems
	}
	if items == nil {
		writeError(w, http.StatusBadRequest, "Invalid request data")
		return
	}
	if s.payments == nil {
		writeError(w, http.StatusInternalServerError, "Payments client not initialized")
		return
	}
	slog.Info("RequestPayments request received", "items_count", len(*items), "receipt_id", req.ReceiptID)

	results := make([]models.PaymentResult, 0, len(*items))
	for _, item := range *items {
		result := s.requestPayment(r.Context(), item)
		results = append(results, result)
		s.metrics.PaymentRequests.WithLabelValues(string(result.Status)).Inc()

		record := &models.PaymentRequest{
			ReceiptID: req.ReceiptID,
			Username:  item.AssignedTo,
			Item:      item.Name,
			Amount:    item.Cost,
			Status:    result.Status,
			Message:   result.Message,
		}
		if err := s.store.RecordPaymentRequest(r.Context(), record); err != nil {
			slog.Error("Failed to record payment request", "username", item.AssignedTo, "error", err)
		}
	}

	writeJSON(w, http.StatusOK, map[string][]models.PaymentResult{"results": results})
}

func (s *ReceiptService) requestPayment(ctx context.Context, item models.AssignedItem) models.PaymentResult {
	user, err := s.payments.LookupUser(ctx, item.AssignedTo)
	if errors.Is(err, payments.ErrUserNotFound) {
		return models.PaymentResult{
			Status:  models.PaymentFailure,
			Message: fmt.Sprintf("User not found: %s", item.AssignedTo),
		}
	}
	if err != nil {
		slog.Error("User lookup failed", "username", item.AssignedTo, "error", err)
		return models.PaymentResult{
			Status:  models.PaymentError,
			Message: fmt.Sprintf("Error requesting payments: %v", err),
		}
	}

	note := fmt.Sprintf("Payment for %s", item.Name)
	if err := s.payments.RequestMoney(ctx, user.ID, item.Cost, note); err != nil {
		slog.Error("RequestMoney failed", "username", item.AssignedTo, "error", err)
		return models.PaymentResult{
			Status:  models.PaymentError,
			Message: fmt.Sprintf("Error requesting payments: %v", err),
		}
	}

	slog.Info("Payment requested", "username", item.AssignedTo, "item", item.Name, "amount", item.Cost)
	return models.PaymentResult{
		Status:  models.PaymentSuccess,
		Message: fmt.Sprintf("Requested $%s from %s for %s", display.FormatAmount(item.Cost), item.AssignedTo, item.Name),
	}
}

// Test handles GET /test, a reachability probe for the mobile client.
func (s *ReceiptService) Test(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	io.WriteString(w, "Server is accessible!")
}
