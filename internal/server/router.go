package server

import (
	"context"
	"log"
	"net/http"
	"time"

	"gorm.io/gorm"

	"github.com/diewo77/billing-manager/internal/auth"
	"github.com/diewo77/billing-manager/internal/handlers"
	"github.com/diewo77/billing-manager/internal/httpx"
	"github.com/diewo77/billing-manager/internal/middleware"
	"github.com/diewo77/billing-manager/internal/models"
	"github.com/diewo77/billing-manager/internal/services"
	"github.com/diewo77/billing-manager/internal/view"
)

func init() {
	// Templates read language/theme preferences through the middleware so the
	// view package stays decoupled from it.
	view.SetLangResolver(middleware.LangFrom)
	view.SetThemeResolver(middleware.ThemeFrom)
}

// New constructs the root http.Handler with all routes and middlewares applied.
func New(db *gorm.DB) http.Handler {
	mux := http.NewServeMux()

	// RequireAuth double-checks that the session's user still exists.
	auth.SetUserVerifier(func(_ context.Context, uid uint) bool {
		var count int64
		if err := db.Model(&models.User{}).Where("id = ?", uid).Limit(1).Count(&count).Error; err != nil {
			return false
		}
		return count > 0
	})

	// --- Health endpoints ---
	//revive:disable:unused-parameter simple handlers intentionally ignore *http.Request
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		// Lightweight DB check (SELECT 1) – no detailed errors in the body
		if err := db.Exec("SELECT 1").Error; err != nil {
			httpx.JSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded"})
			return
		}
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	//revive:enable:unused-parameter

	// Static assets (CSS) under /static/
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.Dir("static"))))

	// Auth endpoints
	ah := handlers.NewAuthHandler(db)
	mux.HandleFunc("GET /login", ah.LoginForm)
	mux.HandleFunc("POST /login", ah.Login)
	mux.HandleFunc("GET /logout", ah.Logout)

	// Everything below requires a live session.
	protect := func(h http.HandlerFunc) http.Handler { return auth.RequireAuth(h) }

	mux.Handle("GET /{$}", protect(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
	}))

	dh := handlers.NewDashboardHandler(db)
	mux.Handle("GET /dashboard", protect(dh.Dashboard))

	ch := handlers.NewCustomerHandler(db)
	mux.Handle("GET /customers", protect(ch.List))
	mux.Handle("POST /customers", protect(ch.Create))
	mux.Handle("GET /customers/edit/{id}", protect(ch.EditForm))
	mux.Handle("POST /customers/edit/{id}", protect(ch.Edit))
	mux.Handle("GET /customers/delete/{id}", protect(ch.Delete))

	ph := handlers.NewProductHandler(db)
	mux.Handle("GET /products", protect(ph.List))
	mux.Handle("POST /products", protect(ph.Create))
	mux.Handle("GET /products/edit/{id}", protect(ph.EditForm))
	mux.Handle("POST /products/edit/{id}", protect(ph.Edit))
	mux.Handle("GET /products/delete/{id}", protect(ph.Delete))

	invSvc := services.NewInvoiceService(db)
	ih := handlers.NewInvoiceHandler(db, invSvc)
	mux.Handle("GET /invoices", protect(ih.List))
	mux.Handle("GET /invoices/create", protect(ih.CreateForm))
	mux.Handle("POST /invoices/create", protect(ih.Create))
	mux.Handle("GET /invoices/pay/{id}", protect(ih.Pay))
	mux.Handle("GET /invoices/pdf/{id}", protect(ih.PDF))

	rh := handlers.NewReportHandler(services.NewReportService(db))
	mux.Handle("GET /reports", protect(rh.Reports))

	return middleware.Prefs(auth.Middleware(withRecover(withLogging(mux))))
}

// Simple middleware logging & recovery kept private to this package to avoid duplication.
func withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("%s %s %s", r.Method, r.URL.Path, time.Since(start))
	})
}

func withRecover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				httpx.JSONError(w, http.StatusInternalServerError, "internal_error", nil)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
