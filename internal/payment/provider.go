package payment

import (
	"context"
	"errors"
)

// Status is the provider-side view of a bill.
type Status string

const (
	StatusUnpaid  Status = "UNPAID"
	StatusPaid    Status = "PAID"
	StatusExpired Status = "EXPIRED"
)

var (
	// ErrUnavailable covers network failures, timeouts and 5xx answers.
	// Safe to retry; on bill creation the caller must release its stock
	// reservation first.
	ErrUnavailable = errors.New("payment provider unavailable")
	// ErrRejected means the provider refused the bill outright.
	ErrRejected = errors.New("payment provider rejected the bill")
)

// Invoice is the provider's answer to a create-bill call: the externally
// issued bill id plus the link the user pays at.
type Invoice struct {
	BillID string
	PayURL string
}

// Provider issues payable bills and reports their status. The order
// coordinator is the only consumer.
type Provider interface {
	CreateBill(ctx context.Context, amount float64, comment string) (Invoice, error)
	QueryStatus(ctx context.Context, billID string) (Status, error)
}
