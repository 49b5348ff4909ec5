package handlers

import (
	"net/http"
	"strconv"

	"github.com/diewo77/billing-manager/internal/view"
)

// renderTemplate uses the shared view.Render to ensure layout, funcs, and caching.
func renderTemplate(w http.ResponseWriter, r *http.Request, name string, data map[string]any) {
	if err := view.Render(w, r, name+".html", data); err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		if _, werr := w.Write([]byte("template error")); werr != nil {
			_ = werr
		}
	}
}

// pathID extracts the {id} route parameter as a positive integer.
func pathID(r *http.Request) (uint, bool) {
	n, err := strconv.Atoi(r.PathValue("id"))
	if err != nil || n <= 0 {
		return 0, false
	}
	return uint(n), true
}
