package pkg

import (
	"encoding/json"
	"errors"
	"net/http"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/simp-lee/staffdesk/internal/domain"
)

// Result is the standard JSON envelope for API responses. Message is null on
// success; the shape of Data is fixed per endpoint by T.
type Result[T any] struct {
	Success bool    `json:"success"`
	Message *string `json:"message"`
	Data    T       `json:"data"`
}

// OK returns a successful envelope carrying data.
func OK[T any](data T) Result[T] {
	return Result[T]{Success: true, Data: data}
}

// Fail returns a failed envelope with message and data.
func Fail[T any](message string, data T) Result[T] {
	return Result[T]{Success: false, Message: &message, Data: data}
}

// MessageText returns the message or "" when it is null.
func (r Result[T]) MessageText() string {
	if r.Message == nil {
		return ""
	}
	return *r.Message
}

// IDRef wraps the primary key of a created or updated record.
type IDRef struct {
	ID uint `json:"id"`
}

type updateKind uint8

const (
	updateFailed updateKind = iota
	updateApplied
	updateMissing
)

// UpdateResult is the data of an update envelope. It is one of Updated(id)
// encoded as {"id":n}, Missing encoded as {} and Failed encoded as null.
type UpdateResult struct {
	kind updateKind
	id   uint
}

// Updated reports a written record.
func Updated(id uint) UpdateResult { return UpdateResult{kind: updateApplied, id: id} }

// Missing reports that the target record does not exist.
func Missing() UpdateResult { return UpdateResult{kind: updateMissing} }

// Failed reports a save failure.
func Failed() UpdateResult { return UpdateResult{kind: updateFailed} }

// ID returns the written id and whether the update was applied.
func (u UpdateResult) ID() (uint, bool) {
	return u.id, u.kind == updateApplied
}

// IsMissing reports whether the target record was absent.
func (u UpdateResult) IsMissing() bool { return u.kind == updateMissing }

// MarshalJSON implements json.Marshaler.
func (u UpdateResult) MarshalJSON() ([]byte, error) {
	switch u.kind {
	case updateApplied:
		return json.Marshal(IDRef{ID: u.id})
	case updateMissing:
		return []byte("{}"), nil
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON implements json.Unmarshaler.
func (u *UpdateResult) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*u = Failed()
		return nil
	}
	var ref struct {
		ID *uint `json:"id"`
	}
	if err := json.Unmarshal(b, &ref); err != nil {
		return err
	}
	if ref.ID == nil {
		*u = Missing()
		return nil
	}
	*u = Updated(*ref.ID)
	return nil
}

// ValidationErrorResponse is the JSON envelope for validation error responses.
type ValidationErrorResponse struct {
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Data    any               `json:"data"`
	Errors  map[string]string `json:"errors"`
}

// JSON writes r with the given HTTP status.
func JSON[T any](c *gin.Context, status int, r Result[T]) {
	c.JSON(status, r)
}

// Success sends a 200 JSON response with the given data.
func Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, OK(data))
}

// Error sends a JSON error response. If err is a *domain.AppError, its code is
// mapped to the appropriate HTTP status; otherwise 500 is returned.
func Error(c *gin.Context, err error) {
	status := domain.HTTPStatusCode(err)

	var appErr *domain.AppError
	msg := "internal error"
	if errors.As(err, &appErr) {
		msg = appErr.Message
	}

	c.JSON(status, Fail[any](msg, nil))
}

// Abort is Error followed by c.Abort, for use in middleware.
func Abort(c *gin.Context, err error) {
	Error(c, err)
	c.Abort()
}

// ValidationError sends a 400 JSON response with per-field validation error details.
// It detects validator.ValidationErrors and extracts field-level messages.
func ValidationError(c *gin.Context, err error) {
	validationErrorWithType(c, err, nil)
}

// BindAndValidate binds the request body to obj and validates it.
// On failure it automatically sends a ValidationError response and returns false.
// Because obj is available, JSON struct tags are used for field names when possible.
// Usage in handlers:
//
//	if !pkg.BindAndValidate(c, &req) { return }
func BindAndValidate(c *gin.Context, obj any) bool {
	if err := c.ShouldBind(obj); err != nil {
		validationErrorWithType(c, err, obj)
		return false
	}
	return true
}

// BindQuery is BindAndValidate for query string parameters.
func BindQuery(c *gin.Context, obj any) bool {
	if err := c.ShouldBindQuery(obj); err != nil {
		validationErrorWithType(c, err, obj)
		return false
	}
	return true
}

// FieldErrors sends a 400 validation response for already collected field errors.
func FieldErrors(c *gin.Context, fieldErrors map[string]string) {
	c.JSON(http.StatusBadRequest, ValidationErrorResponse{
		Success: false,
		Message: "validation error",
		Errors:  fieldErrors,
	})
}

// validationErrorWithType sends a 400 validation error response.
// When obj is non-nil, it reflects on the struct to prefer JSON tag names.
func validationErrorWithType(c *gin.Context, err error, obj any) {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		// Not a validation error; send a generic bad request.
		c.JSON(http.StatusBadRequest, Fail[any](err.Error(), nil))
		return
	}

	FieldErrors(c, DescribeValidationErrors(ve, obj))
}

// DescribeValidationErrors converts validator errors into a field → rule map.
// When obj is non-nil, JSON tag names are used as keys.
func DescribeValidationErrors(ve validator.ValidationErrors, obj any) map[string]string {
	// Build a struct-field → json-tag map when the concrete type is available.
	jsonTags := buildJSONTagMap(obj)

	fieldErrors := make(map[string]string, len(ve))
	for _, fe := range ve {
		name := fe.Field()
		if tag, ok := jsonTags[fe.StructField()]; ok {
			name = tag
		} else {
			name = strings.ToLower(name)
		}
		msg := fe.Tag()
		if fe.Param() != "" {
			msg += "=" + fe.Param()
		}
		fieldErrors[name] = msg
	}
	return fieldErrors
}

// JSONFields maps each JSON field name of obj's struct type to its Go field name.
func JSONFields(obj any) map[string]string {
	tags := buildJSONTagMap(obj)
	out := make(map[string]string, len(tags))
	for field, tag := range tags {
		out[tag] = field
	}
	return out
}

// buildJSONTagMap returns a map from struct field name to its JSON tag name.
// If obj is nil or not a struct (pointer), it returns an empty map.
func buildJSONTagMap(obj any) map[string]string {
	if obj == nil {
		return nil
	}
	t := reflect.TypeOf(obj)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil
	}
	m := make(map[string]string, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		tag := f.Tag.Get("json")
		if name := parseJSONTagName(tag); name != "" {
			m[f.Name] = name
		}
	}
	return m
}

// parseJSONTagName extracts the field name from a JSON struct tag value.
func parseJSONTagName(tag string) string {
	if tag == "" || tag == "-" {
		return ""
	}
	name, _, _ := strings.Cut(tag, ",")
	if name == "" || name == "-" {
		return ""
	}
	return name
}
