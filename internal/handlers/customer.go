package handlers

import (
	"net/http"
	"strings"

	"gorm.io/gorm"

	"github.com/diewo77/billing-manager/internal/httpx"
	"github.com/diewo77/billing-manager/internal/middleware"
	"github.com/diewo77/billing-manager/internal/models"
	"github.com/diewo77/billing-manager/internal/validation"
)

type CustomerHandler struct{ DB *gorm.DB }

func NewCustomerHandler(db *gorm.DB) *CustomerHandler { return &CustomerHandler{DB: db} }

// List: GET /customers – HTML or JSON
func (h *CustomerHandler) List(w http.ResponseWriter, r *http.Request) {
	var customers []models.Customer
	if err := h.DB.Order("id asc").Find(&customers).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_customers", nil)
		return
	}
	if httpx.WantsJSON(r) {
		httpx.JSON(w, http.StatusOK, map[string]any{"items": customers, "total": len(customers)})
		return
	}
	data := map[string]any{"Customers": customers}
	if msg, ok := middleware.TakeFlash(w, r); ok {
		data["Flash"] = msg
	}
	renderTemplate(w, r, "customers", data)
}

// Create: POST /customers
func (h *CustomerHandler) Create(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_form", nil)
		return
	}
	name := strings.TrimSpace(r.FormValue("name"))
	v := validation.Violations{}
	validation.Required("name", name, v)
	if !v.Empty() {
		if httpx.WantsJSON(r) {
			httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
			return
		}
		var customers []models.Customer
		_ = h.DB.Order("id asc").Find(&customers).Error
		w.WriteHeader(http.StatusBadRequest)
		renderTemplate(w, r, "customers", map[string]any{"Errors": v, "Customers": customers})
		return
	}
	customer := models.Customer{Name: name, Phone: strings.TrimSpace(r.FormValue("phone")), Address: strings.TrimSpace(r.FormValue("address"))}
	if err := h.DB.Create(&customer).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "customer_create_failed", nil)
		return
	}
	if httpx.WantsJSON(r) {
		httpx.JSON(w, http.StatusCreated, customer)
		return
	}
	middleware.Flash(w, r, "customer_added")
	http.Redirect(w, r, "/customers", http.StatusSeeOther)
}

// EditForm: GET /customers/edit/{id}
func (h *CustomerHandler) EditForm(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	var customer models.Customer
	if err := h.DB.First(&customer, id).Error; err != nil {
		middleware.Flash(w, r, "not_found")
		http.Redirect(w, r, "/customers", http.StatusSeeOther)
		return
	}
	renderTemplate(w, r, "edit_customer", map[string]any{"Customer": customer})
}

// Edit: POST /customers/edit/{id}
func (h *CustomerHandler) Edit(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	var customer models.Customer
	if err := h.DB.First(&customer, id).Error; err != nil {
		middleware.Flash(w, r, "not_found")
		http.Redirect(w, r, "/customers", http.StatusSeeOther)
		return
	}
	if err := r.ParseForm(); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_form", nil)
		return
	}
	name := strings.TrimSpace(r.FormValue("name"))
	v := validation.Violations{}
	validation.Required("name", name, v)
	if !v.Empty() {
		w.WriteHeader(http.StatusBadRequest)
		renderTemplate(w, r, "edit_customer", map[string]any{"Customer": customer, "Errors": v})
		return
	}
	customer.Name = name
	customer.Phone = strings.TrimSpace(r.FormValue("phone"))
	customer.Address = strings.TrimSpace(r.FormValue("address"))
	if err := h.DB.Save(&customer).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "update_failed", nil)
		return
	}
	middleware.Flash(w, r, "customer_updated")
	http.Redirect(w, r, "/customers", http.StatusSeeOther)
}

// Delete: GET /customers/delete/{id}
func (h *CustomerHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	if err := h.DB.Delete(&models.Customer{}, id).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "delete_failed", nil)
		return
	}
	middleware.Flash(w, r, "customer_deleted")
	http.Redirect(w, r, "/customers", http.StatusSeeOther)
}
