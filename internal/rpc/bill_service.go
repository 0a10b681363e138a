package rpc

import (
	"context"
	"net/http"

	"connectrpc.com/connect"

	"github.com/mmynk/billsplit/internal/models"
)

// BillServiceName is the fully-qualified name of the BillService.
const BillServiceName = "billsplit.v1.BillService"

// Procedure paths.
const (
	ListReceiptsProcedure   = "/" + BillServiceName + "/ListReceipts"
	GetReceiptProcedure     = "/" + BillServiceName + "/GetReceipt"
	CalculateSplitProcedure = "/" + BillServiceName + "/CalculateSplit"
)

type ListReceiptsRequest struct {
	// Limit caps the number of receipts returned. Zero means no limit.
	Limit int `json:"limit"`
}

type ListReceiptsResponse struct {
	Receipts []models.ReceiptSummary `json:"receipts"`
}

type GetReceiptRequest struct {
	ReceiptID string `json:"receipt_id"`
}

type PaymentRecord struct {
	Username  string               `json:"username"`
	Item      string               `json:"item"`
	Amount    float64              `json:"amount"`
	Status    models.PaymentStatus `json:"status"`
	Message   string               `json:"message"`
	CreatedAt int64                `json:"created_at"`
}

type GetReceiptResponse struct {
	Receipt  *models.Receipt `json:"receipt"`
	Payments []PaymentRecord `json:"payments"`
}

type CalculateSplitRequest struct {
	ReceiptID string `json:"receipt_id"`
	// Total is the amount actually paid. When greater than the item sum the
	// difference is shared as tax/tip in proportion to each friend's subtotal.
	// Zero means the items are the whole bill.
	Total float64 `json:"total"`
}

type PersonSplit struct {
	Subtotal float64       `json:"subtotal"`
	Tax      float64       `json:"tax"`
	Total    float64       `json:"total"`
	Items    []models.Item `json:"items"`
}

type CalculateSplitResponse struct {
	Splits    map[string]PersonSplit `json:"splits"`
	Subtotal  float64                `json:"subtotal"`
	TaxAmount float64                `json:"tax_amount"`
}

// BillServiceHandler is implemented by the server.
type BillServiceHandler interface {
	ListReceipts(context.Context, *connect.Request[ListReceiptsRequest]) (*connect.Response[ListReceiptsResponse], error)
	GetReceipt(context.Context, *connect.Request[GetReceiptRequest]) (*connect.Response[GetReceiptResponse], error)
	CalculateSplit(context.Context, *connect.Request[CalculateSplitRequest]) (*connect.Response[CalculateSplitResponse], error)
}

// NewBillServiceHandler builds an HTTP handler for svc and returns the path to mount it on.
func NewBillServiceHandler(svc BillServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{connect.WithCodec(JSONCodec{})}, opts...)

	mux := http.NewServeMux()
	mux.Handle(ListReceiptsProcedure, connect.NewUnaryHandler(ListReceiptsProcedure, svc.ListReceipts, opts...))
	mux.Handle(GetReceiptProcedure, connect.NewUnaryHandler(GetReceiptProcedure, svc.GetReceipt, opts...))
	mux.Handle(CalculateSplitProcedure, connect.NewUnaryHandler(CalculateSplitProcedure, svc.CalculateSplit, opts...))
	return "/" + BillServiceName + "/", mux
}

// BillServiceClient calls a remote BillService.
type BillServiceClient struct {
	listReceipts   *connect.Client[ListReceiptsRequest, ListReceiptsResponse]
	getReceipt     *connect.Client[GetReceiptRequest, GetReceiptResponse]
	calculateSplit *connect.Client[CalculateSplitRequest, CalculateSplitResponse]
}

// NewBillServiceClient creates a client for the service at baseURL (e.g., http://localhost:5000).
func NewBillServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *BillServiceClient {
	opts = append([]connect.ClientOption{connect.WithCodec(JSONCodec{})}, opts...)
	return &BillServiceClient{
		listReceipts:   connect.NewClient[ListReceiptsRequest, ListReceiptsResponse](httpClient, baseURL+ListReceiptsProcedure, opts...),
		getReceipt:     connect.NewClient[GetReceiptRequest, GetReceiptResponse](httpClient, baseURL+GetReceiptProcedure, opts...),
		calculateSplit: connect.NewClient[CalculateSplitRequest, CalculateSplitResponse](httpClient, baseURL+CalculateSplitProcedure, opts...),
	}
}

func (c *BillServiceClient) ListReceipts(ctx context.Context, req *connect.Request[ListReceiptsRequest]) (*connect.Response[ListReceiptsResponse], error) {
	return c.listReceipts.CallUnary(ctx, req)
}

func (c *BillServiceClient) GetReceipt(ctx context.Context, req *connect.Request[GetReceiptRequest]) (*connect.Response[GetReceiptResponse], error) {
	return c.getReceipt.CallUnary(ctx, req)
}

func (c *BillServiceClient) CalculateSplit(ctx context.Context, req *connect.Request[CalculateSplitRequest]) (*connect.Response[CalculateSplitResponse], error) {
	return c.calculateSplit.CallUnary(ctx, req)
}
