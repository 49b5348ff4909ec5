package db

import (
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/diewo77/billing-manager/internal/models"
)

// Bootstrap creates the default admin account when no user named "admin"
// exists yet. Idempotent: a second run is a no-op.
func Bootstrap(conn *gorm.DB, adminPassword string) error {
	var count int64
	if err := conn.Model(&models.User{}).Where("username = ?", "admin").Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	admin := models.User{Username: "admin", Password: string(hash), Role: "admin"}
	return conn.Create(&admin).Error
}
