package repository

import (
	"context"
	"errors"
	"time"

	"github.com/ovoloshina/shopbot-backend/internal/model"
	"gorm.io/gorm"
)

var (
	ErrDuplicateBill = errors.New("bill already recorded")
	ErrBillNotFound  = errors.New("bill not found")
)

// BillRepository is the durable payment ledger. Rows are append-then-update
// only: Create inserts UNPAID, MarkPaid is the single monotonic transition,
// MarkAbandoned flips the abandonment flag at most once. Nothing deletes.
type BillRepository interface {
	Create(ctx context.Context, b *model.Bill) error
	Get(ctx context.Context, billID string) (*model.Bill, error)
	// MarkPaid transitions UNPAID -> PAID. Calling it on an already paid
	// bill is a no-op success, so reconciliation may run any number of
	// times for the same provider poll. An abandoned bill is terminal:
	// MarkPaid leaves it UNPAID, since its reserved unit has already been
	// returned to stock.
	MarkPaid(ctx context.Context, billID string) error
	// MarkAbandoned records the abandonment timestamp iff the bill is
	// still UNPAID and not yet abandoned. Returns true only for the call
	// that actually flipped the flag; the caller releases stock exactly
	// when that happens.
	MarkAbandoned(ctx context.Context, billID string, at time.Time) (bool, error)
}

type billRepository struct {
	db *gorm.DB
}

func NewBillRepository(db *gorm.DB) BillRepository {
	return &billRepository{db: db}
}

func (r *billRepository) Create(ctx context.Context, b *model.Bill) error {
	if b.Status == "" {
		b.Status = model.BillStatusUnpaid
	}
	if err := r.db.WithContext(ctx).Create(b).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateBill
		}
		return err
	}
	return nil
}

func (r *billRepository) Get(ctx context.Context, billID string) (*model.Bill, error) {
	var b model.Bill
	if err := r.db.WithContext(ctx).
		Where("bill_id = ?", billID).
		First(&b).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBillNotFound
		}
		return nil, err
	}
	return &b, nil
}

func (r *billRepository) MarkPaid(ctx context.Context, billID string) error {
	res := r.db.WithContext(ctx).
		Model(&model.Bill{}).
		Where("bill_id = ? AND status = ? AND abandoned_at IS NULL", billID, model.BillStatusUnpaid).
		Update("status", model.BillStatusPaid)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		// The bill does not exist, is already PAID, or was abandoned.
		if _, err := r.Get(ctx, billID); err != nil {
			return err
		}
	}
	return nil
}

func (r *billRepository) MarkAbandoned(ctx context.Context, billID string, at time.Time) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&model.Bill{}).
		Where("bill_id = ? AND status = ? AND abandoned_at IS NULL", billID, model.BillStatusUnpaid).
		Update("abandoned_at", at)
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected == 0 {
		if _, err := r.Get(ctx, billID); err != nil {
			return false, err
		}
		return false, nil
	}
	return true, nil
}
