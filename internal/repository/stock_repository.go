package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/ovoloshina/shopbot-backend/internal/model"
	"gorm.io/gorm"
)

var (
	ErrUnknownSize        = errors.New("unknown size")
	ErrInsufficientStock  = errors.New("insufficient stock")
	ErrStockNotConfigured = errors.New("stock row missing for configured size")
)

// StockRepository owns the per-size available-unit counters. Reserve and
// Release are the only mutations after startup; both are single atomic
// UPDATE statements so concurrent checkouts can never oversell a size.
type StockRepository interface {
	EnsureSizes(ctx context.Context) error
	All(ctx context.Context) (map[string]int, error)
	Has(ctx context.Context, sizeName string) (bool, error)
	Reserve(ctx context.Context, sizeName string, quantity int) error
	Release(ctx context.Context, sizeName string, quantity int) error
	SetQuantity(ctx context.Context, sizeName string, quantity int) error
}

type stockRepository struct {
	db    *gorm.DB
	sizes []string
}

func NewStockRepository(db *gorm.DB, sizes []string) StockRepository {
	return &stockRepository{db: db, sizes: sizes}
}

func (r *stockRepository) known(sizeName string) bool {
	for _, s := range r.sizes {
		if s == sizeName {
			return true
		}
	}
	return false
}

// EnsureSizes upserts one row per configured size name. Existing rows keep
// their in_stock value; the call is idempotent across restarts.
func (r *stockRepository) EnsureSizes(ctx context.Context) error {
	for _, name := range r.sizes {
		var s model.Size
		err := r.db.WithContext(ctx).
			Where("size_name = ?", name).
			Attrs(model.Size{SizeName: name, InStock: 0}).
			FirstOrCreate(&s).Error
		if err != nil && !errors.Is(err, gorm.ErrDuplicatedKey) {
			return err
		}
	}
	return nil
}

func (r *stockRepository) All(ctx context.Context) (map[string]int, error) {
	var rows []model.Size
	if err := r.db.WithContext(ctx).
		Where("size_name IN ?", r.sizes).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	data := make(map[string]int, len(r.sizes))
	for _, row := range rows {
		data[row.SizeName] = row.InStock
	}
	for _, name := range r.sizes {
		if _, ok := data[name]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrStockNotConfigured, name)
		}
	}
	return data, nil
}

func (r *stockRepository) Has(ctx context.Context, sizeName string) (bool, error) {
	if !r.known(sizeName) {
		return false, ErrUnknownSize
	}
	var s model.Size
	if err := r.db.WithContext(ctx).
		Where("size_name = ?", sizeName).
		First(&s).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, fmt.Errorf("%w: %s", ErrStockNotConfigured, sizeName)
		}
		return false, err
	}
	return s.InStock > 0, nil
}

// Reserve decrements in_stock by quantity iff enough units remain. The
// check and the decrement are one statement; two callers racing for the
// last unit see exactly one success.
func (r *stockRepository) Reserve(ctx context.Context, sizeName string, quantity int) error {
	if !r.known(sizeName) {
		return ErrUnknownSize
	}
	if quantity <= 0 {
		return fmt.Errorf("invalid quantity %d", quantity)
	}
	res := r.db.WithContext(ctx).
		Model(&model.Size{}).
		Where("size_name = ? AND in_stock >= ?", sizeName, quantity).
		UpdateColumn("in_stock", gorm.Expr("in_stock - ?", quantity))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrInsufficientStock
	}
	return nil
}

func (r *stockRepository) Release(ctx context.Context, sizeName string, quantity int) error {
	if !r.known(sizeName) {
		return ErrUnknownSize
	}
	if quantity <= 0 {
		return fmt.Errorf("invalid quantity %d", quantity)
	}
	res := r.db.WithContext(ctx).
		Model(&model.Size{}).
		Where("size_name = ?", sizeName).
		UpdateColumn("in_stock", gorm.Expr("in_stock + ?", quantity))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: %s", ErrStockNotConfigured, sizeName)
	}
	return nil
}

func (r *stockRepository) SetQuantity(ctx context.Context, sizeName string, quantity int) error {
	if !r.known(sizeName) {
		return ErrUnknownSize
	}
	if quantity < 0 {
		return fmt.Errorf("invalid quantity %d", quantity)
	}
	res := r.db.WithContext(ctx).
		Model(&model.Size{}).
		Where("size_name = ?", sizeName).
		UpdateColumn("in_stock", quantity)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: %s", ErrStockNotConfigured, sizeName)
	}
	return nil
}
