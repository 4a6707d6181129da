package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ovoloshina/shopbot-backend/internal/metrics"
	"github.com/ovoloshina/shopbot-backend/internal/model"
	"github.com/ovoloshina/shopbot-backend/internal/payment"
	"github.com/ovoloshina/shopbot-backend/internal/repository"
	"go.uber.org/zap"
)

var (
	ErrOutOfStock       = errors.New("out_of_stock")
	ErrPaymentProvider  = errors.New("payment_provider_error")
	ErrBillAlreadyPaid  = errors.New("bill_already_paid")
	ErrBillStillPayable = errors.New("bill_still_payable")
	ErrInvalidAmount    = errors.New("invalid amount")
)

// OrderService coordinates a checkout attempt: reserve a unit of stock,
// issue a bill at the payment provider, record it, and later reconcile or
// abandon it. Stock is reserved at bill-creation time, not at payment time,
// so two open conversations can never both sell the last unit.
type OrderService interface {
	Stock(ctx context.Context) (map[string]int, error)
	SelectSize(ctx context.Context, userID int64, sizeName string) error
	StartCheckout(ctx context.Context, userID int64, sizeName string, amount float64) (*model.Bill, error)
	CheckBill(ctx context.Context, billID string) (model.BillStatus, error)
	Abandon(ctx context.Context, billID string) error
}

type orderService struct {
	stockRepo   repository.StockRepository
	billRepo    repository.BillRepository
	profileRepo repository.ProfileRepository
	provider    payment.Provider
	metrics     *metrics.Metrics
	log         *zap.Logger
}

func NewOrderService(
	stockRepo repository.StockRepository,
	billRepo repository.BillRepository,
	profileRepo repository.ProfileRepository,
	provider payment.Provider,
	m *metrics.Metrics,
	log *zap.Logger,
) OrderService {
	if log == nil {
		log = zap.NewNop()
	}
	return &orderService{
		stockRepo:   stockRepo,
		billRepo:    billRepo,
		profileRepo: profileRepo,
		provider:    provider,
		metrics:     m,
		log:         log,
	}
}

func (s *orderService) Stock(ctx context.Context) (map[string]int, error) {
	return s.stockRepo.All(ctx)
}

// SelectSize validates the choice against current stock and records it on
// the profile. No reservation happens here; the front end only uses this to
// steer the conversation.
func (s *orderService) SelectSize(ctx context.Context, userID int64, sizeName string) error {
	has, err := s.stockRepo.Has(ctx, sizeName)
	if err != nil {
		return err
	}
	if !has {
		return ErrOutOfStock
	}
	return s.profileRepo.SetField(ctx, userID, model.ProfileFieldSizeName, sizeName)
}

func (s *orderService) StartCheckout(ctx context.Context, userID int64, sizeName string, amount float64) (*model.Bill, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	profile, err := s.profileRepo.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	s.metrics.CheckoutsStarted.Inc()
	if err := s.stockRepo.Reserve(ctx, sizeName, 1); err != nil {
		if errors.Is(err, repository.ErrInsufficientStock) {
			s.metrics.CheckoutsOutOfStock.Inc()
			return nil, ErrOutOfStock
		}
		return nil, err
	}

	comment := fmt.Sprintf("order: size %s for %s (user %d)", sizeName, profile.Handle, userID)
	invoice, err := s.provider.CreateBill(ctx, amount, comment)
	if err != nil {
		// The reservation must not outlive a failed bill creation.
		s.releaseReservation(ctx, sizeName)
		s.metrics.ProviderErrors.Inc()
		s.log.Warn("bill creation failed, reservation released",
			zap.Int64("user_id", userID),
			zap.String("size", sizeName),
			zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrPaymentProvider, err)
	}

	bill := &model.Bill{
		BillID:   invoice.BillID,
		UserID:   userID,
		SizeName: sizeName,
		Amount:   amount,
		Comment:  comment,
		PayURL:   invoice.PayURL,
		Status:   model.BillStatusUnpaid,
	}
	if err := s.billRepo.Create(ctx, bill); err != nil {
		s.releaseReservation(ctx, sizeName)
		return nil, err
	}

	s.metrics.BillsCreated.Inc()
	s.log.Info("bill created",
		zap.String("bill_id", invoice.BillID),
		zap.Int64("user_id", userID),
		zap.String("size", sizeName),
		zap.Float64("amount", amount))
	return bill, nil
}

// CheckBill reconciles the ledger against the provider. A provider timeout
// leaves state untouched and is safe to retry; MarkPaid is idempotent so a
// repeated poll for a paid bill is harmless. An abandoned bill is terminal:
// its unit is already back in stock, so it is never reconciled to PAID.
func (s *orderService) CheckBill(ctx context.Context, billID string) (model.BillStatus, error) {
	bill, err := s.billRepo.Get(ctx, billID)
	if err != nil {
		return "", err
	}
	if bill.Status == model.BillStatusPaid {
		return model.BillStatusPaid, nil
	}
	if bill.AbandonedAt != nil {
		return model.BillStatusUnpaid, nil
	}

	status, err := s.provider.QueryStatus(ctx, billID)
	if err != nil {
		s.metrics.ProviderErrors.Inc()
		return "", fmt.Errorf("%w: %v", ErrPaymentProvider, err)
	}
	if status == payment.StatusPaid {
		if err := s.billRepo.MarkPaid(ctx, billID); err != nil {
			return "", err
		}
		s.metrics.BillsPaid.Inc()
		s.log.Info("bill paid", zap.String("bill_id", billID))
		return model.BillStatusPaid, nil
	}
	return model.BillStatusUnpaid, nil
}

// Abandon gives up on an unpaid bill and returns its reserved unit to
// stock. The provider is consulted first: a bill it still considers payable
// is refused, and one it reports paid is reconciled instead of abandoned.
// The abandonment flag on the bill row guards the release: only the call
// that flips the flag increments stock, so repeated or concurrent abandons
// cannot double-credit inventory.
func (s *orderService) Abandon(ctx context.Context, billID string) error {
	bill, err := s.billRepo.Get(ctx, billID)
	if err != nil {
		return err
	}
	if bill.Status == model.BillStatusPaid {
		return ErrBillAlreadyPaid
	}
	if bill.AbandonedAt != nil {
		// Already abandoned. Nothing to release.
		return nil
	}

	status, err := s.provider.QueryStatus(ctx, billID)
	if err != nil {
		s.metrics.ProviderErrors.Inc()
		return fmt.Errorf("%w: %v", ErrPaymentProvider, err)
	}
	switch status {
	case payment.StatusPaid:
		if err := s.billRepo.MarkPaid(ctx, billID); err != nil {
			return err
		}
		s.metrics.BillsPaid.Inc()
		s.log.Info("bill paid, abandonment refused", zap.String("bill_id", billID))
		return ErrBillAlreadyPaid
	case payment.StatusUnpaid:
		return ErrBillStillPayable
	}

	flipped, err := s.billRepo.MarkAbandoned(ctx, billID, time.Now())
	if err != nil {
		return err
	}
	if !flipped {
		// Already abandoned, or paid in the meantime. Nothing to release.
		return nil
	}
	if err := s.stockRepo.Release(ctx, bill.SizeName, 1); err != nil {
		s.log.Error("stock release after abandonment failed",
			zap.String("bill_id", billID),
			zap.String("size", bill.SizeName),
			zap.Error(err))
		return err
	}
	s.metrics.BillsAbandoned.Inc()
	s.log.Info("bill abandoned, stock released",
		zap.String("bill_id", billID),
		zap.String("size", bill.SizeName))
	return nil
}

func (s *orderService) releaseReservation(ctx context.Context, sizeName string) {
	if err := s.stockRepo.Release(ctx, sizeName, 1); err != nil {
		s.log.Error("failed to release stock reservation",
			zap.String("size", sizeName),
			zap.Error(err))
	}
}
