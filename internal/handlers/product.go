package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"gorm.io/gorm"

	"github.com/diewo77/billing-manager/internal/httpx"
	"github.com/diewo77/billing-manager/internal/middleware"
	"github.com/diewo77/billing-manager/internal/models"
	"github.com/diewo77/billing-manager/internal/validation"
)

type ProductHandler struct{ DB *gorm.DB }

func NewProductHandler(db *gorm.DB) *ProductHandler { return &ProductHandler{DB: db} }

// List: GET /products – HTML or JSON, stock preloaded
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	var products []models.Product
	if err := h.DB.Preload("Stock").Order("id asc").Find(&products).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_products", nil)
		return
	}
	if httpx.WantsJSON(r) {
		httpx.JSON(w, http.StatusOK, map[string]any{"items": products, "total": len(products)})
		return
	}
	data := map[string]any{"Products": products}
	if msg, ok := middleware.TakeFlash(w, r); ok {
		data["Flash"] = msg
	}
	renderTemplate(w, r, "products", data)
}

// parseProductForm validates the shared product form fields.
func parseProductForm(r *http.Request) (name, category string, price float64, stockQty int, v validation.Violations) {
	v = validation.Violations{}
	name = strings.TrimSpace(r.FormValue("name"))
	category = strings.TrimSpace(r.FormValue("category"))
	var err error
	price, err = strconv.ParseFloat(r.FormValue("price"), 64)
	if err != nil {
		v["price"] = "must_be_a_number"
	}
	stockQty, err = strconv.Atoi(r.FormValue("stock"))
	if err != nil {
		v["stock"] = "must_be_a_number"
	}
	validation.Required("name", name, v)
	if _, bad := v["price"]; !bad {
		validation.PositiveFloat("price", price, v)
	}
	if _, bad := v["stock"]; !bad {
		validation.NonNegativeInt("stock", stockQty, v)
	}
	return
}

// Create: POST /products – creates the product together with its stock row
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_form", nil)
		return
	}
	name, category, price, stockQty, v := parseProductForm(r)
	if !v.Empty() {
		if httpx.WantsJSON(r) {
			httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
			return
		}
		var products []models.Product
		_ = h.DB.Preload("Stock").Order("id asc").Find(&products).Error
		w.WriteHeader(http.StatusBadRequest)
		renderTemplate(w, r, "products", map[string]any{"Errors": v, "Products": products})
		return
	}
	product := models.Product{Name: name, Category: category, Price: price}
	err := h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&product).Error; err != nil {
			return err
		}
		return tx.Create(&models.Stock{ProductID: product.ID, Quantity: stockQty}).Error
	})
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "product_create_failed", nil)
		return
	}
	if httpx.WantsJSON(r) {
		httpx.JSON(w, http.StatusCreated, product)
		return
	}
	middleware.Flash(w, r, "product_added")
	http.Redirect(w, r, "/products", http.StatusSeeOther)
}

// EditForm: GET /products/edit/{id}
func (h *ProductHandler) EditForm(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	var product models.Product
	if err := h.DB.Preload("Stock").First(&product, id).Error; err != nil {
		middleware.Flash(w, r, "not_found")
		http.Redirect(w, r, "/products", http.StatusSeeOther)
		return
	}
	renderTemplate(w, r, "edit_product", map[string]any{"Product": product})
}

// Edit: POST /products/edit/{id} – rewrites the paired stock quantity too
func (h *ProductHandler) Edit(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	var product models.Product
	if err := h.DB.Preload("Stock").First(&product, id).Error; err != nil {
		middleware.Flash(w, r, "not_found")
		http.Redirect(w, r, "/products", http.StatusSeeOther)
		return
	}
	if err := r.ParseForm(); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_form", nil)
		return
	}
	name, category, price, stockQty, v := parseProductForm(r)
	if !v.Empty() {
		w.WriteHeader(http.StatusBadRequest)
		renderTemplate(w, r, "edit_product", map[string]any{"Product": product, "Errors": v})
		return
	}
	err := h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Product{}).Where("id = ?", product.ID).Updates(map[string]any{
			"name":     name,
			"category": category,
			"price":    price,
		}).Error; err != nil {
			return err
		}
		return tx.Model(&models.Stock{}).Where("product_id = ?", product.ID).Update("quantity", stockQty).Error
	})
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "update_failed", nil)
		return
	}
	middleware.Flash(w, r, "product_updated")
	http.Redirect(w, r, "/products", http.StatusSeeOther)
}

// Delete: GET /products/delete/{id} – stock row goes first, then the product
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	err := h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("product_id = ?", id).Delete(&models.Stock{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Product{}, id).Error
	})
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "delete_failed", nil)
		return
	}
	middleware.Flash(w, r, "product_deleted")
	http.Redirect(w, r, "/products", http.StatusSeeOther)
}
