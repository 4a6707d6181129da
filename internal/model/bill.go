package model

import "time"

type BillStatus string

const (
	BillStatusUnpaid BillStatus = "UNPAID"
	BillStatusPaid   BillStatus = "PAID"
)

// Bill is one payment attempt against the external provider. Rows are never
// deleted; the table doubles as the payment ledger. Status only ever moves
// UNPAID -> PAID. AbandonedAt is set at most once, and only while UNPAID,
// when the reserved unit is returned to stock.
type Bill struct {
	ID          uint64     `gorm:"primaryKey;autoIncrement"`
	BillID      string     `gorm:"column:bill_id;size:64;uniqueIndex;not null"`
	UserID      int64      `gorm:"column:user_id;index;not null"`
	SizeName    string     `gorm:"column:size_name;size:16;not null"`
	Amount      float64    `gorm:"column:amount;not null"`
	Comment     string     `gorm:"column:comment;size:255;not null"`
	PayURL      string     `gorm:"column:pay_url;size:512"`
	Status      BillStatus `gorm:"column:status;size:16;not null;default:UNPAID"`
	AbandonedAt *time.Time `gorm:"column:abandoned_at"`
	CreatedAt   time.Time  `gorm:"autoCreateTime"`
	UpdatedAt   time.Time  `gorm:"autoUpdateTime"`
}

func (Bill) TableName() string {
	return "bills"
}
