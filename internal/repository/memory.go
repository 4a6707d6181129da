package repository

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ovoloshina/shopbot-backend/internal/model"
)

// In-memory implementations of the three stores, used by unit tests in place
// of MySQL. They enforce the same semantics as the gorm implementations:
// atomic check-then-decrement on reserve, duplicate-key rejection on create,
// RowsAffected-style one-shot transitions on the bill ledger.

type MemoryStockRepository struct {
	mu    sync.Mutex
	sizes []string
	stock map[string]int
}

func NewMemoryStockRepository(sizes []string) *MemoryStockRepository {
	return &MemoryStockRepository{sizes: sizes, stock: make(map[string]int, len(sizes))}
}

func (r *MemoryStockRepository) known(sizeName string) bool {
	for _, s := range r.sizes {
		if s == sizeName {
			return true
		}
	}
	return false
}

func (r *MemoryStockRepository) EnsureSizes(_ context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, name := range r.sizes {
		if _, ok := r.stock[name]; !ok {
			r.stock[name] = 0
		}
	}
	return nil
}

func (r *MemoryStockRepository) All(_ context.Context) (map[string]int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	data := make(map[string]int, len(r.sizes))
	for _, name := range r.sizes {
		n, ok := r.stock[name]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrStockNotConfigured, name)
		}
		data[name] = n
	}
	return data, nil
}

func (r *MemoryStockRepository) Has(_ context.Context, sizeName string) (bool, error) {
	if !r.known(sizeName) {
		return false, ErrUnknownSize
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	n, ok := r.stock[sizeName]
	if !ok {
		return false, fmt.Errorf("%w: %s", ErrStockNotConfigured, sizeName)
	}
	return n > 0, nil
}

func (r *MemoryStockRepository) Reserve(_ context.Context, sizeName string, quantity int) error {
	if !r.known(sizeName) {
		return ErrUnknownSize
	}
	if quantity <= 0 {
		return fmt.Errorf("invalid quantity %d", quantity)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.stock[sizeName] < quantity {
		return ErrInsufficientStock
	}
	r.stock[sizeName] -= quantity
	return nil
}

func (r *MemoryStockRepository) Release(_ context.Context, sizeName string, quantity int) error {
	if !r.known(sizeName) {
		return ErrUnknownSize
	}
	if quantity <= 0 {
		return fmt.Errorf("invalid quantity %d", quantity)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stock[sizeName] += quantity
	return nil
}

func (r *MemoryStockRepository) SetQuantity(_ context.Context, sizeName string, quantity int) error {
	if !r.known(sizeName) {
		return ErrUnknownSize
	}
	if quantity < 0 {
		return fmt.Errorf("invalid quantity %d", quantity)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stock[sizeName] = quantity
	return nil
}

type MemoryProfileRepository struct {
	mu       sync.Mutex
	profiles map[int64]*model.Profile
	nextID   uint64
}

func NewMemoryProfileRepository() *MemoryProfileRepository {
	return &MemoryProfileRepository{profiles: make(map[int64]*model.Profile)}
}

func (r *MemoryProfileRepository) Exists(_ context.Context, userID int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.profiles[userID]
	return ok, nil
}

func (r *MemoryProfileRepository) Create(_ context.Context, userID int64, handle string) (*model.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.profiles[userID]; ok {
		return nil, ErrDuplicateUser
	}
	r.nextID++
	p := &model.Profile{
		ID:        r.nextID,
		UserID:    userID,
		Handle:    handle,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	r.profiles[userID] = p
	return cloneProfile(p), nil
}

func (r *MemoryProfileRepository) SetField(_ context.Context, userID int64, field model.ProfileField, value string) error {
	if _, ok := model.ProfileColumns[field]; !ok {
		return ErrUnknownField
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.profiles[userID]
	if !ok {
		return ErrUserNotFound
	}
	v := value
	switch field {
	case model.ProfileFieldSizeName:
		p.SizeName = &v
	case model.ProfileFieldName:
		p.Name = &v
	case model.ProfileFieldEmail:
		p.Email = &v
	case model.ProfileFieldPhone:
		p.Phone = &v
	case model.ProfileFieldDeliveryType:
		p.DeliveryType = &v
	case model.ProfileFieldAddress:
		p.Address = &v
	case model.ProfileFieldPostcode:
		p.Postcode = &v
	case model.ProfileFieldSocialHandle:
		p.SocialHandle = &v
	}
	p.UpdatedAt = time.Now()
	return nil
}

func (r *MemoryProfileRepository) Get(_ context.Context, userID int64) (*model.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.profiles[userID]
	if !ok {
		return nil, ErrUserNotFound
	}
	return cloneProfile(p), nil
}

func cloneProfile(p *model.Profile) *model.Profile {
	clone := *p
	return &clone
}

type MemoryBillRepository struct {
	mu     sync.Mutex
	bills  map[string]*model.Bill
	nextID uint64
}

func NewMemoryBillRepository() *MemoryBillRepository {
	return &MemoryBillRepository{bills: make(map[string]*model.Bill)}
}

func (r *MemoryBillRepository) Create(_ context.Context, b *model.Bill) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.bills[b.BillID]; ok {
		return ErrDuplicateBill
	}
	if b.Status == "" {
		b.Status = model.BillStatusUnpaid
	}
	r.nextID++
	b.ID = r.nextID
	b.CreatedAt = time.Now()
	b.UpdatedAt = b.CreatedAt
	clone := *b
	r.bills[b.BillID] = &clone
	return nil
}

func (r *MemoryBillRepository) Get(_ context.Context, billID string) (*model.Bill, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bills[billID]
	if !ok {
		return nil, ErrBillNotFound
	}
	clone := *b
	return &clone, nil
}

func (r *MemoryBillRepository) MarkPaid(_ context.Context, billID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bills[billID]
	if !ok {
		return ErrBillNotFound
	}
	if b.Status == model.BillStatusUnpaid && b.AbandonedAt == nil {
		b.Status = model.BillStatusPaid
		b.UpdatedAt = time.Now()
	}
	return nil
}

func (r *MemoryBillRepository) MarkAbandoned(_ context.Context, billID string, at time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bills[billID]
	if !ok {
		return false, ErrBillNotFound
	}
	if b.Status != model.BillStatusUnpaid || b.AbandonedAt != nil {
		return false, nil
	}
	b.AbandonedAt = &at
	b.UpdatedAt = time.Now()
	return true, nil
}
