package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestSessionRoundTrip(t *testing.T) {
	w := httptest.NewRecorder()
	CreateSession(w, 42)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range w.Result().Cookies() {
		req.AddCookie(c)
	}
	uid, ok := ParseSession(req)
	if !ok || uid != 42 {
		t.Fatalf("round-trip failed: uid=%d ok=%v", uid, ok)
	}
}

func TestParseSessionRejectsTampered(t *testing.T) {
	w := httptest.NewRecorder()
	CreateSession(w, 42)
	cookie := w.Result().Cookies()[0]

	// Forge a different user id while keeping the original signature.
	parts := strings.SplitN(cookie.Value, ".", 2)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: cookie.Name, Value: "1." + parts[1]})
	if _, ok := ParseSession(req); ok {
		t.Fatalf("tampered session accepted")
	}

	// Garbage value.
	req2 := httptest.NewRequest(http.MethodGet, "/", nil)
	req2.AddCookie(&http.Cookie{Name: cookie.Name, Value: "not-a-session"})
	if _, ok := ParseSession(req2); ok {
		t.Fatalf("garbage session accepted")
	}
}

func TestMiddlewareAttachesUserID(t *testing.T) {
	w := httptest.NewRecorder()
	CreateSession(w, 7)

	var got uint
	var ok bool
	next := http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		got, ok = UserIDFromContext(r.Context())
	})
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range w.Result().Cookies() {
		req.AddCookie(c)
	}
	Middleware(next).ServeHTTP(httptest.NewRecorder(), req)
	if !ok || got != 7 {
		t.Fatalf("middleware did not attach user id: got=%d ok=%v", got, ok)
	}
}

func TestRequireAuthRedirectsAnonymous(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/customers", nil)
	w := httptest.NewRecorder()
	RequireAuth(next).ServeHTTP(w, req)
	if w.Code != http.StatusSeeOther {
		t.Fatalf("expected 303 got %d", w.Code)
	}
	if loc := w.Header().Get("Location"); loc != "/login" {
		t.Fatalf("expected redirect to /login got %s", loc)
	}

	// JSON clients get a 401 instead of a redirect.
	jsonReq := httptest.NewRequest(http.MethodGet, "/customers", nil)
	jsonReq.Header.Set("Accept", "application/json")
	jsonW := httptest.NewRecorder()
	RequireAuth(next).ServeHTTP(jsonW, jsonReq)
	if jsonW.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", jsonW.Code)
	}
}

func TestRequireAuthVerifierRejectsDeletedUser(t *testing.T) {
	SetUserVerifier(func(_ context.Context, uid uint) bool { return uid == 1 })
	t.Cleanup(func() { SetUserVerifier(nil) })

	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })

	okReq := httptest.NewRequest(http.MethodGet, "/", nil)
	okReq = okReq.WithContext(WithUserID(okReq.Context(), 1))
	okW := httptest.NewRecorder()
	RequireAuth(next).ServeHTTP(okW, okReq)
	if okW.Code != http.StatusOK {
		t.Fatalf("live user rejected: %d", okW.Code)
	}

	staleReq := httptest.NewRequest(http.MethodGet, "/", nil)
	staleReq = staleReq.WithContext(WithUserID(staleReq.Context(), 2))
	staleW := httptest.NewRecorder()
	RequireAuth(next).ServeHTTP(staleW, staleReq)
	if staleW.Code != http.StatusSeeOther {
		t.Fatalf("expected 303 for stale session got %d", staleW.Code)
	}
	cleared := false
	for _, c := range staleW.Result().Cookies() {
		if c.Name == "session" && c.Value == "" {
			cleared = true
		}
	}
	if !cleared {
		t.Fatalf("stale session cookie not cleared")
	}
}
