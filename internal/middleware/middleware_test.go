package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func newEngine(token string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID(), RequireBearer(token, nil))
	r.GET("/healthz", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	r.POST("/api/ingest", func(c *gin.Context) {
		c.String(http.StatusOK, RequestIDFromContext(c.Request.Context()))
	})
	return r
}

func TestRequireBearer(t *testing.T) {
	cases := []struct {
		name   string
		token  string
		header string
		path   string
		want   int
	}{
		{"missing header", "secret", "", "/api/ingest", http.StatusUnauthorized},
		{"wrong token", "secret", "Bearer nope", "/api/ingest", http.StatusUnauthorized},
		{"not bearer", "secret", "Basic secret", "/api/ingest", http.StatusUnauthorized},
		{"valid", "secret", "Bearer secret", "/api/ingest", http.StatusOK},
		{"empty configured token", "", "Bearer ", "/api/ingest", http.StatusUnauthorized},
		{"health is open", "secret", "", "/healthz", http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := newEngine(tc.token)
			method := http.MethodPost
			if tc.path == "/healthz" {
				method = http.MethodGet
			}
			req := httptest.NewRequest(method, tc.path, nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			if w.Code != tc.want {
				t.Fatalf("status=%d want=%d", w.Code, tc.want)
			}
		})
	}
}

func TestRequestIDPropagates(t *testing.T) {
	r := newEngine("secret")
	req := httptest.NewRequest(http.MethodPost, "/api/ingest", nil)
	req.Header.Set("Authorization", "Bearer secret")
	req.Header.Set(HeaderRequestID, "abc-123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if got := w.Header().Get(HeaderRequestID); got != "abc-123" {
		t.Fatalf("header=%q want abc-123", got)
	}
	if w.Body.String() != "abc-123" {
		t.Fatalf("ctx id=%q want abc-123", w.Body.String())
	}

	req = httptest.NewRequest(http.MethodPost, "/api/ingest", nil)
	req.Header.Set("Authorization", "Bearer secret")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if len(w.Header().Get(HeaderRequestID)) != 36 {
		t.Fatalf("generated id=%q", w.Header().Get(HeaderRequestID))
	}
}
