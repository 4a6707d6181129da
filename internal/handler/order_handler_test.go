package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/ovoloshina/shopbot-backend/internal/metrics"
	"github.com/ovoloshina/shopbot-backend/internal/payment"
	"github.com/ovoloshina/shopbot-backend/internal/repository"
	"github.com/ovoloshina/shopbot-backend/internal/service"
	"github.com/prometheus/client_golang/prometheus"
)

type fixedProvider struct {
	status payment.Status
	err    error
}

func (p *fixedProvider) CreateBill(context.Context, float64, string) (payment.Invoice, error) {
	if p.err != nil {
		return payment.Invoice{}, p.err
	}
	return payment.Invoice{BillID: "bill-1", PayURL: "https://pay.example/bill-1"}, nil
}

func (p *fixedProvider) QueryStatus(context.Context, string) (payment.Status, error) {
	if p.err != nil {
		return "", p.err
	}
	return p.status, nil
}

func newTestHandlers(t *testing.T, stock map[string]int, provider payment.Provider) (*OrderHandler, *StockHandler) {
	t.Helper()
	ctx := context.Background()

	stockRepo := repository.NewMemoryStockRepository([]string{"S", "M", "L"})
	if err := stockRepo.EnsureSizes(ctx); err != nil {
		t.Fatalf("EnsureSizes: %v", err)
	}
	for name, qty := range stock {
		if err := stockRepo.SetQuantity(ctx, name, qty); err != nil {
			t.Fatalf("SetQuantity: %v", err)
		}
	}
	profileRepo := repository.NewMemoryProfileRepository()
	if _, err := profileRepo.Create(ctx, 1, "alice"); err != nil {
		t.Fatalf("Create profile: %v", err)
	}
	billRepo := repository.NewMemoryBillRepository()
	m := metrics.New(prometheus.NewRegistry())
	svc := service.NewOrderService(stockRepo, billRepo, profileRepo, provider, m, nil)
	return NewOrderHandler(svc), NewStockHandler(svc)
}

func doJSON(method, target, body string, params map[string]string, h echo.HandlerFunc) *httptest.ResponseRecorder {
	e := echo.New()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	names := make([]string, 0, len(params))
	values := make([]string, 0, len(params))
	for k, v := range params {
		names = append(names, k)
		values = append(values, v)
	}
	c.SetParamNames(names...)
	c.SetParamValues(values...)
	_ = h(c)
	return rec
}

func TestStartCheckoutHandler(t *testing.T) {
	orderH, _ := newTestHandlers(t, map[string]int{"M": 1}, &fixedProvider{status: payment.StatusUnpaid})

	rec := doJSON(http.MethodPost, "/api/checkout", `{"userId":1,"size":"M","amount":100}`, nil, orderH.StartCheckout)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status=%d body=%s", rec.Code, rec.Body.String())
	}
	var resp BillResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.BillID != "bill-1" || resp.Status != "UNPAID" || resp.Size != "M" {
		t.Fatalf("resp=%+v", resp)
	}
	if resp.PayURL != "https://pay.example/bill-1" {
		t.Fatalf("payUrl=%q", resp.PayURL)
	}

	// Stock is gone now; same request must report out_of_stock.
	rec = doJSON(http.MethodPost, "/api/checkout", `{"userId":1,"size":"M","amount":100}`, nil, orderH.StartCheckout)
	if rec.Code != http.StatusConflict {
		t.Fatalf("status=%d want 409", rec.Code)
	}
}

func TestStartCheckoutHandlerProviderDown(t *testing.T) {
	orderH, stockH := newTestHandlers(t, map[string]int{"M": 2}, &fixedProvider{err: payment.ErrUnavailable})

	rec := doJSON(http.MethodPost, "/api/checkout", `{"userId":1,"size":"M","amount":100}`, nil, orderH.StartCheckout)
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("status=%d want 502", rec.Code)
	}

	rec = doJSON(http.MethodGet, "/api/stock", "", nil, stockH.GetStock)
	if rec.Code != http.StatusOK {
		t.Fatalf("stock status=%d", rec.Code)
	}
	var stock map[string]int
	if err := json.Unmarshal(rec.Body.Bytes(), &stock); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if stock["M"] != 2 {
		t.Fatalf("M=%d want 2 (reservation released)", stock["M"])
	}
}

func TestStartCheckoutHandlerBadInput(t *testing.T) {
	orderH, _ := newTestHandlers(t, map[string]int{"M": 1}, &fixedProvider{})

	tests := []struct {
		name string
		body string
		want int
	}{
		{"zero amount", `{"userId":1,"size":"M","amount":0}`, http.StatusBadRequest},
		{"unknown size", `{"userId":1,"size":"XXL","amount":100}`, http.StatusBadRequest},
		{"unknown user", `{"userId":9,"size":"M","amount":100}`, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doJSON(http.MethodPost, "/api/checkout", tt.body, nil, orderH.StartCheckout)
			if rec.Code != tt.want {
				t.Fatalf("status=%d want=%d body=%s", rec.Code, tt.want, rec.Body.String())
			}
		})
	}
}

func TestCheckBillHandler(t *testing.T) {
	provider := &fixedProvider{status: payment.StatusUnpaid}
	orderH, _ := newTestHandlers(t, map[string]int{"M": 1}, provider)

	rec := doJSON(http.MethodPost, "/api/checkout", `{"userId":1,"size":"M","amount":100}`, nil, orderH.StartCheckout)
	if rec.Code != http.StatusCreated {
		t.Fatalf("checkout status=%d", rec.Code)
	}

	rec = doJSON(http.MethodGet, "/api/bills/bill-1", "", map[string]string{"id": "bill-1"}, orderH.CheckBill)
	if rec.Code != http.StatusOK {
		t.Fatalf("status=%d", rec.Code)
	}
	var resp map[string]string
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp["status"] != "UNPAID" {
		t.Fatalf("status=%q want UNPAID", resp["status"])
	}

	provider.status = payment.StatusPaid
	rec = doJSON(http.MethodGet, "/api/bills/bill-1", "", map[string]string{"id": "bill-1"}, orderH.CheckBill)
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp["status"] != "PAID" {
		t.Fatalf("status=%q want PAID", resp["status"])
	}

	rec = doJSON(http.MethodGet, "/api/bills/nope", "", map[string]string{"id": "nope"}, orderH.CheckBill)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status=%d want 404", rec.Code)
	}
}

func TestAbandonHandler(t *testing.T) {
	orderH, stockH := newTestHandlers(t, map[string]int{"M": 1}, &fixedProvider{status: payment.StatusExpired})

	rec := doJSON(http.MethodPost, "/api/checkout", `{"userId":1,"size":"M","amount":100}`, nil, orderH.StartCheckout)
	if rec.Code != http.StatusCreated {
		t.Fatalf("checkout status=%d", rec.Code)
	}

	for i := 0; i < 2; i++ {
		rec = doJSON(http.MethodPost, "/api/bills/bill-1/abandon", "", map[string]string{"id": "bill-1"}, orderH.Abandon)
		if rec.Code != http.StatusNoContent {
			t.Fatalf("abandon #%d status=%d", i+1, rec.Code)
		}
	}

	rec = doJSON(http.MethodGet, "/api/stock", "", nil, stockH.GetStock)
	var stock map[string]int
	_ = json.Unmarshal(rec.Body.Bytes(), &stock)
	if stock["M"] != 1 {
		t.Fatalf("M=%d want 1 (released exactly once)", stock["M"])
	}
}

func TestAbandonHandlerStillPayable(t *testing.T) {
	orderH, _ := newTestHandlers(t, map[string]int{"M": 1}, &fixedProvider{status: payment.StatusUnpaid})

	rec := doJSON(http.MethodPost, "/api/checkout", `{"userId":1,"size":"M","amount":100}`, nil, orderH.StartCheckout)
	if rec.Code != http.StatusCreated {
		t.Fatalf("checkout status=%d", rec.Code)
	}

	rec = doJSON(http.MethodPost, "/api/bills/bill-1/abandon", "", map[string]string{"id": "bill-1"}, orderH.Abandon)
	if rec.Code != http.StatusConflict {
		t.Fatalf("status=%d want 409 while provider reports WAITING", rec.Code)
	}
}

func TestSelectSizeHandler(t *testing.T) {
	orderH, _ := newTestHandlers(t, map[string]int{"M": 1, "L": 0}, &fixedProvider{})

	tests := []struct {
		name string
		id   string
		body string
		want int
	}{
		{"ok", "1", `{"size":"M"}`, http.StatusNoContent},
		{"out of stock", "1", `{"size":"L"}`, http.StatusConflict},
		{"unknown size", "1", `{"size":"XXL"}`, http.StatusBadRequest},
		{"unknown user", "9", `{"size":"M"}`, http.StatusNotFound},
		{"bad id", "abc", `{"size":"M"}`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doJSON(http.MethodPost, "/api/users/"+tt.id+"/size", tt.body, map[string]string{"id": tt.id}, orderH.SelectSize)
			if rec.Code != tt.want {
				t.Fatalf("status=%d want=%d body=%s", rec.Code, tt.want, rec.Body.String())
			}
		})
	}
}
