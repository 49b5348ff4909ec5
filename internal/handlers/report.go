package handlers

import (
	"net/http"

	"github.com/diewo77/billing-manager/internal/httpx"
	"github.com/diewo77/billing-manager/internal/services"
)

type ReportHandler struct{ Svc *services.ReportService }

func NewReportHandler(svc *services.ReportService) *ReportHandler { return &ReportHandler{Svc: svc} }

// Reports: GET /reports – paid sales plus low/out-of-stock rows
func (h *ReportHandler) Reports(w http.ResponseWriter, r *http.Request) {
	sales, err := h.Svc.PaidInvoices()
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_load_reports", nil)
		return
	}
	lowStock, err := h.Svc.LowStock()
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_load_reports", nil)
		return
	}
	outOfStock, err := h.Svc.OutOfStock()
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_load_reports", nil)
		return
	}
	if httpx.WantsJSON(r) {
		httpx.JSON(w, http.StatusOK, map[string]any{
			"sales":        sales,
			"low_stock":    lowStock,
			"out_of_stock": outOfStock,
		})
		return
	}
	renderTemplate(w, r, "reports", map[string]any{
		"Sales":      sales,
		"LowStock":   lowStock,
		"OutOfStock": outOfStock,
	})
}
