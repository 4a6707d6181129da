package model

import "time"

type Size struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement"`
	SizeName  string    `gorm:"column:size_name;size:16;uniqueIndex;not null"`
	InStock   int       `gorm:"column:in_stock;not null;default:0"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (Size) TableName() string {
	return "sizes"
}
