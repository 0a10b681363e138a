package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetrics(t *testing.T) {
	m := New()

	m.RequestsTotal.WithLabelValues("/test", "GET", "200").Inc()
	m.PaymentRequests.WithLabelValues("success").Add(2)
	m.ItemsParsed.Observe(3)

	if got := testutil.ToFloat64(m.RequestsTotal.WithLabelValues("/test", "GET", "200")); got != 1 {
		t.Errorf("requests = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.PaymentRequests.WithLabelValues("success")); got != 2 {
		t.Errorf("payments = %v, want 2", got)
	}

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, _ := io.ReadAll(rec.Body)
	if !strings.Contains(string(body), "billsplit_payment_requests_total") {
		t.Error("expected payment counter in /metrics output")
	}
	if !strings.Contains(string(body), "billsplit_receipt_items_parsed") {
		t.Error("expected items histogram in /metrics output")
	}
}
