package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSecurityHeadersMiddleware(t *testing.T) {
	for _, secure := range []bool{false, true} {
		mw := NewSecurityHeadersMiddleware(secure)
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusCreated)
		})

		rec := httptest.NewRecorder()
		mw.Handler(next).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/internal/reminders/sweep", nil))

		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
		assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
		assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
		assert.Contains(t, rec.Header().Get("Content-Security-Policy"), "default-src 'none'")

		if secure {
			assert.Contains(t, rec.Header().Get("Strict-Transport-Security"), "max-age=31536000")
		} else {
			assert.Empty(t, rec.Header().Get("Strict-Transport-Security"))
		}
	}
}

func TestStack_Order(t *testing.T) {
	var order []string
	mark := func(name string) func(http.Handler) http.Handler {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	h := Stack(mark("outer"), mark("inner"))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		order = append(order, "handler")
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, []string{"outer", "inner", "handler"}, order)
}
