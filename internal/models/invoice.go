package models

import "time"

// Invoice status values. An invoice starts Unpaid and can only ever move to
// Paid; there are no other transitions.
const (
	StatusUnpaid = "Unpaid"
	StatusPaid   = "Paid"
)

// Invoicing models. An invoice and its items are created together in one
// transaction; subtotal and total are computed once at creation and never
// recomputed (there is no edit-invoice flow).
type Invoice struct {
	ID            uint          `gorm:"primaryKey"`
	CustomerID    uint          `gorm:"not null;index"`
	Customer      *Customer     `gorm:"foreignKey:CustomerID"`
	InvoiceNumber string        `gorm:"uniqueIndex"` // INV-<id>, assigned once the insert yields the id
	PaymentMethod string        `gorm:"not null"`
	Tax           float64       `gorm:"not null"`
	Subtotal      float64       `gorm:"not null"`
	Total         float64       `gorm:"not null"`
	Status        string        `gorm:"not null;default:'Unpaid'"`
	Items         []InvoiceItem `gorm:"foreignKey:InvoiceID"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type InvoiceItem struct {
	ID        uint    `gorm:"primaryKey"`
	InvoiceID uint    `gorm:"not null;index"`
	ProductID uint    `gorm:"not null"`
	Product   Product `gorm:"foreignKey:ProductID"`
	Quantity  int     `gorm:"not null"`
	Price     float64 `gorm:"not null"` // unit price snapshot at invoice time
}
