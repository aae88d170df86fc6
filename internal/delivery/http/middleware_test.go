package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap/zaptest"
)

func TestIsAllowedOrigin(t *testing.T) {
	tests := []struct {
		name           string
		origin         string
		allowedOrigins []string
		want           bool
	}{
		{
			name:           "exact match",
			origin:         "http://localhost:5173",
			allowedOrigins: []string{"http://localhost:5173"},
			want:           true,
		},
		{
			name:           "wildcard match",
			origin:         "https://console.retailpulse.app",
			allowedOrigins: []string{"https://console.retailpulse.*"},
			want:           true,
		},
		{
			name:           "multiple allowed origins - matches second",
			origin:         "http://localhost:5173",
			allowedOrigins: []string{"https://console.retailpulse.app", "http://localhost:5173"},
			want:           true,
		},
		{
			name:           "no match",
			origin:         "http://evil.example",
			allowedOrigins: []string{"http://localhost:5173"},
			want:           false,
		},
		{
			name:           "empty origin",
			origin:         "",
			allowedOrigins: []string{"http://localhost:5173"},
			want:           false,
		},
		{
			name:           "empty allowed list",
			origin:         "http://localhost:5173",
			allowedOrigins: []string{},
			want:           false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isAllowedOrigin(tt.origin, tt.allowedOrigins); got != tt.want {
				t.Errorf("isAllowedOrigin(%q, %v) = %v, want %v", tt.origin, tt.allowedOrigins, got, tt.want)
			}
		})
	}
}

func TestCORSMiddleware_Preflight(t *testing.T) {
	router := gin.New()
	router.Use(CORSMiddleware([]string{"http://localhost:5173"}))
	router.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	req, _ := http.NewRequest(http.MethodOptions, "/x", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Errorf("preflight status = %d, want 204", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:5173" {
		t.Errorf("Allow-Origin = %q", got)
	}
}

func TestRequestIDMiddleware(t *testing.T) {
	router := gin.New()
	router.Use(RequestIDMiddleware())
	router.Use(RequestLoggerMiddleware(zaptest.NewLogger(t).Sugar()))
	router.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	t.Run("assigns an id", func(t *testing.T) {
		req, _ := http.NewRequest(http.MethodGet, "/x", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Header().Get(requestIDHeader) == "" {
			t.Error("no request id assigned")
		}
	})

	t.Run("keeps a caller-supplied id", func(t *testing.T) {
		req, _ := http.NewRequest(http.MethodGet, "/x", nil)
		req.Header.Set(requestIDHeader, "req-123")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if got := w.Header().Get(requestIDHeader); got != "req-123" {
			t.Errorf("request id = %q, want req-123", got)
		}
	})
}
