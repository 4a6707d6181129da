package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// QiwiClient talks to the QIWI P2P bills API. Bill ids are chosen client
// side (the API is PUT-with-id), which also makes create retries safe.
type QiwiClient struct {
	httpClient *http.Client
	baseURL    string
	secretKey  string
	lifetime   time.Duration
}

func NewQiwiClient(baseURL, secretKey string, timeout, lifetime time.Duration) *QiwiClient {
	return &QiwiClient{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
		secretKey:  secretKey,
		lifetime:   lifetime,
	}
}

type qiwiAmount struct {
	Currency string `json:"currency"`
	Value    string `json:"value"`
}

type qiwiBillRequest struct {
	Amount             qiwiAmount `json:"amount"`
	Comment            string     `json:"comment"`
	ExpirationDateTime string     `json:"expirationDateTime"`
}

type qiwiBillResponse struct {
	BillID string `json:"billId"`
	Status struct {
		Value string `json:"value"`
	} `json:"status"`
	PayURL string `json:"payUrl"`
}

func (c *QiwiClient) CreateBill(ctx context.Context, amount float64, comment string) (Invoice, error) {
	billID := uuid.NewString()

	body, err := json.Marshal(qiwiBillRequest{
		Amount: qiwiAmount{
			Currency: "RUB",
			Value:    strconv.FormatFloat(amount, 'f', 2, 64),
		},
		Comment:            comment,
		ExpirationDateTime: time.Now().Add(c.lifetime).Format("2006-01-02T15:04:05-07:00"),
	})
	if err != nil {
		return Invoice{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.billURL(billID), bytes.NewReader(body))
	if err != nil {
		return Invoice{}, err
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Invoice{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 500:
		return Invoice{}, fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	case resp.StatusCode >= 400:
		return Invoice{}, fmt.Errorf("%w: status %d", ErrRejected, resp.StatusCode)
	}

	var parsed qiwiBillResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&parsed); err != nil {
		return Invoice{}, fmt.Errorf("%w: decode response: %v", ErrUnavailable, err)
	}
	if parsed.BillID != "" {
		billID = parsed.BillID
	}
	return Invoice{BillID: billID, PayURL: parsed.PayURL}, nil
}

func (c *QiwiClient) QueryStatus(ctx context.Context, billID string) (Status, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.billURL(billID), nil)
	if err != nil {
		return "", err
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}

	var parsed qiwiBillResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&parsed); err != nil {
		return "", fmt.Errorf("%w: decode response: %v", ErrUnavailable, err)
	}

	switch parsed.Status.Value {
	case "PAID":
		return StatusPaid, nil
	case "EXPIRED", "REJECTED":
		return StatusExpired, nil
	default:
		// WAITING and anything unrecognized count as still payable.
		return StatusUnpaid, nil
	}
}

func (c *QiwiClient) billURL(billID string) string {
	return c.baseURL + "/" + billID
}

func (c *QiwiClient) setHeaders(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
}
