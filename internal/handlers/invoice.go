package handlers

import (
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"strconv"
	"strings"

	"gorm.io/gorm"

	"github.com/diewo77/billing-manager/internal/httpx"
	"github.com/diewo77/billing-manager/internal/i18n"
	"github.com/diewo77/billing-manager/internal/middleware"
	"github.com/diewo77/billing-manager/internal/models"
	pdfgen "github.com/diewo77/billing-manager/internal/pdf"
	"github.com/diewo77/billing-manager/internal/services"
)

type InvoiceHandler struct {
	DB  *gorm.DB
	Svc *services.InvoiceService
}

func NewInvoiceHandler(db *gorm.DB, svc *services.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{DB: db, Svc: svc}
}

// List: GET /invoices – HTML or JSON
func (h *InvoiceHandler) List(w http.ResponseWriter, r *http.Request) {
	var invs []models.Invoice
	if err := h.DB.Preload("Customer").Preload("Items.Product").Order("id desc").Find(&invs).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_invoices", nil)
		return
	}
	if httpx.WantsJSON(r) {
		httpx.JSON(w, http.StatusOK, map[string]any{"items": invs, "total": len(invs)})
		return
	}
	data := map[string]any{"Invoices": invs}
	if msg, ok := middleware.TakeFlash(w, r); ok {
		data["Flash"] = msg
	}
	renderTemplate(w, r, "invoices", data)
}

// CreateForm: GET /invoices/create
func (h *InvoiceHandler) CreateForm(w http.ResponseWriter, r *http.Request) {
	var customers []models.Customer
	var products []models.Product
	_ = h.DB.Order("name asc").Find(&customers).Error
	_ = h.DB.Preload("Stock").Order("name asc").Find(&products).Error
	data := map[string]any{"Customers": customers, "Products": products}
	if msg, ok := middleware.TakeFlash(w, r); ok {
		data["Flash"] = msg
	}
	renderTemplate(w, r, "create_invoice", data)
}

type createInvoiceReq struct {
	CustomerID    uint                `json:"customer_id"`
	Items         []services.LineItem `json:"items"`
	PaymentMethod string              `json:"payment_method"`
	Tax           float64             `json:"tax"`
}

// parseCreateForm turns the parallel product_id[]/quantity[] form arrays into
// a structured line item list, rejecting non-numeric or mismatched input
// before anything touches the store.
func parseCreateForm(r *http.Request) (createInvoiceReq, error) {
	var req createInvoiceReq
	if err := r.ParseForm(); err != nil {
		return req, err
	}
	cid, err := strconv.Atoi(r.FormValue("customer_id"))
	if err != nil || cid <= 0 {
		return req, errors.New("invalid customer_id")
	}
	req.CustomerID = uint(cid)
	req.PaymentMethod = strings.TrimSpace(r.FormValue("payment_method"))
	req.Tax = 0
	if v := r.FormValue("tax"); v != "" {
		req.Tax, err = strconv.ParseFloat(v, 64)
		if err != nil || req.Tax < 0 || math.IsNaN(req.Tax) || math.IsInf(req.Tax, 0) {
			return req, errors.New("invalid tax")
		}
	}
	ids := r.Form["product_id[]"]
	qtys := r.Form["quantity[]"]
	if len(ids) == 0 || len(ids) != len(qtys) {
		return req, errors.New("mismatched line items")
	}
	for i := range ids {
		// Untouched spare rows submit as empty pairs; skip those, but a
		// half-filled pair is still an error.
		if strings.TrimSpace(ids[i]) == "" && strings.TrimSpace(qtys[i]) == "" {
			continue
		}
		pid, err := strconv.Atoi(ids[i])
		if err != nil || pid <= 0 {
			return req, errors.New("invalid product_id")
		}
		qty, err := strconv.Atoi(qtys[i])
		if err != nil || qty <= 0 {
			return req, errors.New("invalid quantity")
		}
		req.Items = append(req.Items, services.LineItem{ProductID: uint(pid), Quantity: qty})
	}
	if len(req.Items) == 0 {
		return req, errors.New("no line items")
	}
	return req, nil
}

// Create: POST /invoices/create – JSON or form
func (h *InvoiceHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createInvoiceReq
	wantsJSON := httpx.WantsJSON(r)
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		wantsJSON = true
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
			return
		}
		if req.CustomerID == 0 || len(req.Items) == 0 {
			httpx.JSONError(w, http.StatusBadRequest, "validation_failed", map[string]string{"customer_id": "required", "items": "required"})
			return
		}
		if req.Tax < 0 {
			httpx.JSONError(w, http.StatusBadRequest, "validation_failed", map[string]string{"tax": "must_not_be_negative"})
			return
		}
		for _, it := range req.Items {
			if it.ProductID == 0 || it.Quantity <= 0 {
				httpx.JSONError(w, http.StatusBadRequest, "validation_failed", map[string]string{"items": "invalid_product_or_quantity"})
				return
			}
		}
	} else {
		var err error
		req, err = parseCreateForm(r)
		if err != nil {
			middleware.Flash(w, r, "invalid_input")
			http.Redirect(w, r, "/invoices/create", http.StatusSeeOther)
			return
		}
	}

	inv, err := h.Svc.CreateInvoice(req.CustomerID, req.Items, req.PaymentMethod, req.Tax)
	if err != nil {
		var shortage *services.StockShortageError
		switch {
		case errors.As(err, &shortage):
			if wantsJSON {
				httpx.JSONError(w, http.StatusConflict, "stock_shortage", map[string]any{
					"product_id": shortage.ProductID,
					"product":    shortage.ProductName,
					"requested":  shortage.Requested,
					"available":  shortage.Available,
				})
				return
			}
			lang := middleware.LangFrom(r)
			middleware.FlashText(w, i18n.T(lang, "insufficient_stock")+" "+shortage.ProductName)
			http.Redirect(w, r, "/invoices/create", http.StatusSeeOther)
		case errors.Is(err, services.ErrCustomerNotFound), errors.Is(err, services.ErrProductNotFound):
			if wantsJSON {
				httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
				return
			}
			middleware.Flash(w, r, "not_found")
			http.Redirect(w, r, "/invoices/create", http.StatusSeeOther)
		case errors.Is(err, services.ErrNoItems), errors.Is(err, services.ErrInvalidQuantity):
			if wantsJSON {
				httpx.JSONError(w, http.StatusBadRequest, "validation_failed", nil)
				return
			}
			middleware.Flash(w, r, "invalid_input")
			http.Redirect(w, r, "/invoices/create", http.StatusSeeOther)
		default:
			if wantsJSON {
				httpx.JSONError(w, http.StatusInternalServerError, "failed_to_create_invoice", nil)
				return
			}
			middleware.Flash(w, r, "invoice_create_failed")
			http.Redirect(w, r, "/invoices/create", http.StatusSeeOther)
		}
		return
	}
	if wantsJSON {
		httpx.JSON(w, http.StatusCreated, inv)
		return
	}
	middleware.Flash(w, r, "invoice_created")
	http.Redirect(w, r, "/invoices", http.StatusSeeOther)
}

// Pay: GET /invoices/pay/{id}
func (h *InvoiceHandler) Pay(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	inv, err := h.Svc.MarkPaid(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			if httpx.WantsJSON(r) {
				httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
				return
			}
			middleware.Flash(w, r, "not_found")
			http.Redirect(w, r, "/invoices", http.StatusSeeOther)
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_pay_invoice", nil)
		return
	}
	if httpx.WantsJSON(r) {
		httpx.JSON(w, http.StatusOK, inv)
		return
	}
	middleware.Flash(w, r, "invoice_paid")
	http.Redirect(w, r, "/invoices", http.StatusSeeOther)
}

// PDF: GET /invoices/pdf/{id} – downloadable receipt
func (h *InvoiceHandler) PDF(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	var inv models.Invoice
	if err := h.DB.Preload("Customer").Preload("Items.Product").First(&inv, id).Error; err != nil {
		httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
		return
	}

	customerName := "N/A"
	if inv.Customer != nil && inv.Customer.Name != "" {
		customerName = inv.Customer.Name
	}
	items := make([]pdfgen.Item, 0, len(inv.Items))
	for _, it := range inv.Items {
		items = append(items, pdfgen.Item{Name: it.Product.Name, Quantity: it.Quantity, UnitPrice: it.Price})
	}
	data := pdfgen.InvoiceData{
		Number:        inv.InvoiceNumber,
		CustomerName:  customerName,
		Date:          inv.CreatedAt.Format("2006-01-02"),
		Subtotal:      inv.Subtotal,
		Tax:           inv.Tax,
		Total:         inv.Total,
		PaymentMethod: inv.PaymentMethod,
		Status:        inv.Status,
		Items:         items,
	}
	b, genErr := pdfgen.Invoice(data)
	if genErr != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "pdf_generation_failed", nil)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename=\"invoice_"+inv.InvoiceNumber+".pdf\"")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(b)
}
