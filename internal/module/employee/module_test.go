package employee

import (
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
	if err := db.AutoMigrate(&domain.Employee{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func setupRouter(t *testing.T) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewModule(NewService(setupTestDB(t))).RegisterRoutes(r.Group("/api"))
	return r
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

func TestEmployeeModuleRegisterRoutes(t *testing.T) {
	r := setupRouter(t)

	expected := []string{
		"POST:/api/employees",
		"GET:/api/employees",
		"GET:/api/employees/:id",
		"PUT:/api/employees/:id",
		"PATCH:/api/employees/:id",
		"DELETE:/api/employees/:id",
	}
	registered := make(map[string]bool)
	for _, ri := range r.Routes() {
		registered[ri.Method+":"+ri.Path] = true
	}
	for _, key := range expected {
		if !registered[key] {
			t.Errorf("expected route %s to be registered", key)
		}
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

func TestEmployee_CreateAndGet(t *testing.T) {
	r := setupRouter(t)

	w := send(r, http.MethodPost, "/api/employees", `{"first_name":"John","last_name":"Doe","department_id":2,"birthdate":"1990-03-07"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("create: %d %s", w.Code, w.Body.String())
	}

	w = send(r, http.MethodGet, "/api/employees/1", "")
	want := `{"success":true,"message":null,"data":{"id":1,"first_name":"John","last_name":"Doe","department_id":2,"birthdate":"1990-03-07"}}`
	if got := w.Body.String(); got != want {
		t.Errorf("get:\n got %s\nwant %s", got, want)
	}
}

func TestEmployee_InvalidBirthdate(t *testing.T) {
	r := setupRouter(t)

	w := send(r, http.MethodPost, "/api/employees", `{"first_name":"John","last_name":"Doe","birthdate":"1990-13-40"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", w.Code)
	}
}

func TestEmployee_ListFilters(t *testing.T) {
	r := setupRouter(t)
	for _, body := range []string{
		`{"first_name":"John","last_name":"Doe","department_id":1}`,
		`{"first_name":"Johanna","last_name":"Smith","department_id":2}`,
		`{"first_name":"Mary","last_name":"Johnson","department_id":1}`,
	} {
		if w := send(r, http.MethodPost, "/api/employees", body); w.Code != http.StatusOK {
			t.Fatalf("seed: %d %s", w.Code, w.Body.String())
		}
	}

	tests := []struct {
		query string
		want  []string
	}{
		{"", []string{"John", "Johanna", "Mary"}},
		{"?first_name=Joh", []string{"John", "Johanna"}},
		{"?last_name=son", []string{"Mary"}},
		{"?department_id=1", []string{"John", "Mary"}},
		{"?first_name=Joh&department_id=2", []string{"Johanna"}},
		{"?ordering=-first_name", []string{"Mary", "John", "Johanna"}},
		{"?page_size=1&page_index=2", []string{"Johanna"}},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			w := send(r, http.MethodGet, "/api/employees"+tt.query, "")
			if w.Code != http.StatusOK {
				t.Fatalf("list: %d %s", w.Code, w.Body.String())
			}
			var res pkg.Result[domain.Page[EmployeeOut]]
			if err := json.Unmarshal(w.Body.Bytes(), &res); err != nil {
				t.Fatalf("decode: %v", err)
			}
			var names []string
			for _, e := range res.Data.Details {
				names = append(names, e.FirstName)
			}
			if strings.Join(names, ",") != strings.Join(tt.want, ",") {
				t.Errorf("got %v, want %v", names, tt.want)
			}
		})
	}
}

func TestEmployee_ListRejectsBadDepartment(t *testing.T) {
	r := setupRouter(t)

	w := send(r, http.MethodGet, "/api/employees?department_id=-1", "")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", w.Code)
	}
}

func TestEmployee_PatchClearsDepartment(t *testing.T) {
	r := setupRouter(t)
	send(r, http.MethodPost, "/api/employees", `{"first_name":"John","last_name":"Doe","department_id":3}`)

	w := send(r, http.MethodPatch, "/api/employees/1", `{"department_id":null}`)
	if got := w.Body.String(); got != `{"success":true,"message":null,"data":{"id":1}}` {
		t.Fatalf("patch: %s", got)
	}

	w = send(r, http.MethodGet, "/api/employees/1", "")
	var res pkg.Result[*EmployeeOut]
	if err := json.Unmarshal(w.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if res.Data.DepartmentID != nil || res.Data.FirstName != "John" {
		t.Errorf("unexpected employee %+v", res.Data)
	}
}
