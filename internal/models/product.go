package models

import "time"

// Product catalog models. Every product owns exactly one Stock row for its
// whole lifetime: creation inserts the pair, deletion removes the stock row
// first, both inside a single transaction.
type Product struct {
	ID        uint    `gorm:"primaryKey"`
	Name      string  `gorm:"not null;index"`
	Category  string  `gorm:"index"`
	Price     float64 `gorm:"not null"`
	Stock     Stock   `gorm:"foreignKey:ProductID"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Stock struct {
	ID        uint     `gorm:"primaryKey"`
	ProductID uint     `gorm:"not null;uniqueIndex"`
	Product   *Product `gorm:"foreignKey:ProductID;references:ID"`
	Quantity  int      `gorm:"not null"` // never negative; the invoice engine checks before decrementing
	CreatedAt time.Time
	UpdatedAt time.Time
}
