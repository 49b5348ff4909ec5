package handlers

import (
	"net/http"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/diewo77/billing-manager/internal/auth"
	"github.com/diewo77/billing-manager/internal/httpx"
	"github.com/diewo77/billing-manager/internal/i18n"
	"github.com/diewo77/billing-manager/internal/middleware"
	"github.com/diewo77/billing-manager/internal/models"
)

type AuthHandler struct{ DB *gorm.DB }

func NewAuthHandler(db *gorm.DB) *AuthHandler { return &AuthHandler{DB: db} }

// LoginForm: GET /login
func (h *AuthHandler) LoginForm(w http.ResponseWriter, r *http.Request) {
	// Already logged in with a live account? Straight to the dashboard.
	if uid, ok := auth.ParseSession(r); ok && uid != 0 {
		var count int64
		if err := h.DB.Model(&models.User{}).Where("id = ?", uid).Limit(1).Count(&count).Error; err == nil && count > 0 {
			http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
			return
		}
		auth.ClearSession(w)
	}
	data := map[string]any{}
	if msg, ok := middleware.TakeFlash(w, r); ok {
		data["Flash"] = msg
	}
	renderTemplate(w, r, "login", data)
}

// Login: POST /login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_form", nil)
		return
	}
	username := strings.TrimSpace(r.FormValue("username"))
	pass := r.FormValue("password")
	lang := middleware.LangFrom(r)
	if username == "" || pass == "" {
		renderTemplate(w, r, "login", map[string]any{"Error": i18n.T(lang, "invalid_credentials")})
		return
	}
	var user models.User
	if err := h.DB.Where("username = ?", username).First(&user).Error; err != nil {
		renderTemplate(w, r, "login", map[string]any{"Error": i18n.T(lang, "invalid_credentials")})
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(pass)) != nil {
		renderTemplate(w, r, "login", map[string]any{"Error": i18n.T(lang, "invalid_credentials")})
		return
	}
	auth.CreateSession(w, user.ID)
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

// Logout: GET /logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	auth.ClearSession(w)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}
