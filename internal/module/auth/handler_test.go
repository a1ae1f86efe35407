package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

// mockService implements Service for handler testing.
type mockService struct {
	pairResp    *PairResponse
	pairErr     error
	refreshResp *RefreshResponse
	refreshErr  error
}

func (m *mockService) Pair(_ context.Context, _, _ string) (*PairResponse, error) {
	return m.pairResp, m.pairErr
}

func (m *mockService) Refresh(_ context.Context, _ string) (*RefreshResponse, error) {
	return m.refreshResp, m.refreshErr
}

func setupAuthRouter(svc Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewModule(NewHandler(svc)).RegisterRoutes(r.Group("/api"))
	return r
}

func post(r *gin.Engine, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthHandler_Pair(t *testing.T) {
	r := setupAuthRouter(&mockService{
		pairResp: &PairResponse{Access: "a", Refresh: "r", User: UserSchema{FirstName: "Test", Email: "t@example.com"}},
	})

	w := post(r, "/api/token/pair", `{"username":"testuser","password":"testpass123"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	want := `{"success":true,"message":null,"data":{"access":"a","refresh":"r","user":{"first_name":"Test","email":"t@example.com"}}}`
	if got := w.Body.String(); got != want {
		t.Errorf("got %s\nwant %s", got, want)
	}
}

func TestAuthHandler_PairFailure(t *testing.T) {
	r := setupAuthRouter(&mockService{pairErr: ErrInvalidCredentials})

	w := post(r, "/api/token/pair", `{"username":"testuser","password":"wrongpass"}`)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", w.Code)
	}
	want := `{"success":false,"message":"No active account found with the given credentials","data":null}`
	if got := w.Body.String(); got != want {
		t.Errorf("got %s\nwant %s", got, want)
	}
}

func TestAuthHandler_PairValidation(t *testing.T) {
	r := setupAuthRouter(&mockService{})

	w := post(r, "/api/token/pair", `{"username":"testuser"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", w.Code)
	}
}

func TestAuthHandler_Refresh(t *testing.T) {
	r := setupAuthRouter(&mockService{refreshResp: &RefreshResponse{Access: "new", Refresh: "r"}})

	w := post(r, "/api/token/refresh", `{"refresh":"r"}`)
	want := `{"success":true,"message":null,"data":{"access":"new","refresh":"r"}}`
	if got := w.Body.String(); w.Code != http.StatusOK || got != want {
		t.Errorf("got %d %s\nwant %s", w.Code, got, want)
	}
}

func TestAuthHandler_RefreshFailure(t *testing.T) {
	r := setupAuthRouter(&mockService{refreshErr: ErrInvalidToken})

	w := post(r, "/api/token/refresh", `{"refresh":"stale"}`)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", w.Code)
	}
	want := `{"success":false,"message":"Token is invalid or expired","data":null}`
	if got := w.Body.String(); got != want {
		t.Errorf("got %s\nwant %s", got, want)
	}
}

func TestAuthHandler_EndToEnd(t *testing.T) {
	store := newFakeUserStore()
	store.add(t, "testuser", "testpass123", true)
	r := setupAuthRouter(newTestService(store))

	w := post(r, "/api/token/pair", `{"username":"testuser","password":"testpass123"}`)
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"user":{"first_name":"Test","email":"testuser@example.com"}`) {
		t.Fatalf("pair: %d %s", w.Code, w.Body.String())
	}
}
