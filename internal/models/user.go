package models

import "time"

// User accounts. The only account the application itself creates is the
// bootstrap admin; there is no self-service signup flow.
type User struct {
	ID        uint   `gorm:"primaryKey"`
	Username  string `gorm:"unique;not null;index"`
	Password  string `gorm:"not null"` // bcrypt hash
	Role      string `gorm:"not null;default:'user'"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
