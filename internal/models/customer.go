package models

import "time"

// Customer entity. Referenced by invoices through CustomerID but owns
// nothing; customers and invoices have independent lifecycles.
type Customer struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"not null;index"`
	Phone     string
	Address   string
	CreatedAt time.Time
	UpdatedAt time.Time
}
