package services

import (
	"gorm.io/gorm"

	"github.com/diewo77/billing-manager/internal/models"
)

// LowStockThreshold marks stock rows that should be restocked soon.
const LowStockThreshold = 10

// ReportService exposes the read-only aggregations behind /reports.
type ReportService struct {
	DB *gorm.DB
}

func NewReportService(db *gorm.DB) *ReportService { return &ReportService{DB: db} }

// PaidInvoices returns all invoices with status Paid, newest first.
func (s *ReportService) PaidInvoices() ([]models.Invoice, error) {
	var invs []models.Invoice
	err := s.DB.Preload("Customer").Where("status = ?", models.StatusPaid).Order("id desc").Find(&invs).Error
	return invs, err
}

// LowStock returns stock rows below the restock threshold (out-of-stock included).
func (s *ReportService) LowStock() ([]models.Stock, error) {
	var rows []models.Stock
	err := s.DB.Preload("Product").Where("quantity < ?", LowStockThreshold).Order("quantity asc").Find(&rows).Error
	return rows, err
}

// OutOfStock returns stock rows with zero quantity.
func (s *ReportService) OutOfStock() ([]models.Stock, error) {
	var rows []models.Stock
	err := s.DB.Preload("Product").Where("quantity = 0").Find(&rows).Error
	return rows, err
}
