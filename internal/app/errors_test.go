package app

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestNoRouteHandler(t *testing.T) {
	r := gin.New()
	r.NoRoute(noRouteHandler())

	tests := []struct {
		name   string
		method string
		path   string
		accept string
	}{
		{"api path", http.MethodGet, "/api/unknown", "application/json"},
		{"root path with browser accept", http.MethodGet, "/nowhere", "text/html,*/*"},
		{"unknown method path", http.MethodPost, "/api/v1/anything", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			if tt.accept != "" {
				req.Header.Set("Accept", tt.accept)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != http.StatusNotFound {
				t.Fatalf("expected 404, got %d", w.Code)
			}
			want := `{"success":false,"message":"not found","data":null}`
			if got := w.Body.String(); got != want {
				t.Errorf("body = %s, want %s", got, want)
			}
		})
	}
}
