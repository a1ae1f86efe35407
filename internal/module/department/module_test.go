package department

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/simp-lee/staffdesk/internal/domain"
	"github.com/simp-lee/staffdesk/internal/pkg"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	sqlDB, _ := db.DB()
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	if err := db.AutoMigrate(&domain.Department{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func send(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestSeed_InsertsMissingTitlesOnce(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	if err := Seed(ctx, svc, []string{"Engineering", "Sales", "Engineering"}); err != nil {
		t.Fatalf("Seed: %v", err)
	}
	if err := Seed(ctx, svc, []string{"Sales", "Support"}); err != nil {
		t.Fatalf("second Seed: %v", err)
	}

	var titles []string
	db.Model(&domain.Department{}).Order("id").Pluck("title", &titles)
	if strings.Join(titles, ",") != "Engineering,Sales,Support" {
		t.Errorf("unexpected titles %v", titles)
	}

	var creator string
	db.Raw("SELECT creator FROM departments WHERE title = ?", "Support").Scan(&creator)
	if creator != SeedActor {
		t.Errorf("expected creator %q, got %q", SeedActor, creator)
	}
}

func TestSeed_Empty(t *testing.T) {
	if err := Seed(context.Background(), NewService(setupTestDB(t)), nil); err != nil {
		t.Errorf("Seed(nil) = %v", err)
	}
}

func TestDepartment_UniqueTitleLifecycle(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewModule(NewService(setupTestDB(t))).RegisterRoutes(r.Group("/api"))

	w := send(r, http.MethodPost, "/api/departments", `{"title":"Engineering"}`)
	if got := w.Body.String(); got != `{"success":true,"message":null,"data":{"id":1}}` {
		t.Fatalf("create: %s", got)
	}

	w = send(r, http.MethodPost, "/api/departments", `{"title":"Engineering"}`)
	if w.Code != http.StatusConflict {
		t.Fatalf("expected status 409, got %d", w.Code)
	}
	if got := w.Body.String(); got != `{"success":false,"message":"department with this title already exists","data":null}` {
		t.Errorf("unexpected conflict body %s", got)
	}

	w = send(r, http.MethodDelete, "/api/departments/1", "")
	if got := w.Body.String(); got != `{"success":true,"message":null,"data":true}` {
		t.Fatalf("delete: %s", got)
	}

	w = send(r, http.MethodPost, "/api/departments", `{"title":"Engineering"}`)
	if got := w.Body.String(); got != `{"success":true,"message":null,"data":{"id":2}}` {
		t.Fatalf("re-create after delete: %s", got)
	}

	w = send(r, http.MethodGet, "/api/departments?title=Eng", "")
	var res pkg.Result[domain.Page[DepartmentOut]]
	if err := json.Unmarshal(w.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if res.Data.Total != 1 || res.Data.Details[0].ID != 2 {
		t.Errorf("expected only the live department, got %+v", res.Data)
	}
}

func TestDepartment_TitleTooLong(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewModule(NewService(setupTestDB(t))).RegisterRoutes(r.Group("/api"))

	w := send(r, http.MethodPost, "/api/departments", `{"title":"`+strings.Repeat("x", 101)+`"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", w.Code)
	}
	var resp pkg.ValidationErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Errors["title"] != "max=100" {
		t.Errorf("expected title max=100, got %v", resp.Errors)
	}
}

func TestNewModule_PanicsOnNilService(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("NewModule() expected panic for nil service, got none")
		}
	}()
	_ = NewModule(nil)
}
