package handlers

import (
	"net/http"

	"gorm.io/gorm"

	"github.com/diewo77/billing-manager/internal/auth"
	"github.com/diewo77/billing-manager/internal/middleware"
	"github.com/diewo77/billing-manager/internal/models"
)

type DashboardHandler struct{ DB *gorm.DB }

func NewDashboardHandler(db *gorm.DB) *DashboardHandler { return &DashboardHandler{DB: db} }

// Dashboard: GET /dashboard – landing page with quick stats
func (h *DashboardHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	data := map[string]any{}
	if msg, ok := middleware.TakeFlash(w, r); ok {
		data["Flash"] = msg
	}
	if uid, ok := auth.UserIDFromContext(r.Context()); ok {
		var user models.User
		if err := h.DB.First(&user, uid).Error; err == nil {
			data["User"] = user
		}
	}
	var invoiceCount, productCount, customerCount int64
	h.DB.Model(&models.Invoice{}).Count(&invoiceCount)
	h.DB.Model(&models.Product{}).Count(&productCount)
	h.DB.Model(&models.Customer{}).Count(&customerCount)
	data["Stats"] = map[string]any{
		"InvoiceCount":  invoiceCount,
		"ProductCount":  productCount,
		"CustomerCount": customerCount,
	}
	var recentInvoices []models.Invoice
	h.DB.Preload("Customer").Order("created_at desc").Limit(5).Find(&recentInvoices)
	data["RecentInvoices"] = recentInvoices
	renderTemplate(w, r, "dashboard", data)
}
