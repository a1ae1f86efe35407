package crud

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/simp-lee/staffdesk/internal/domain"
	"github.com/simp-lee/staffdesk/internal/middleware"
	"github.com/simp-lee/staffdesk/internal/pkg"
)

// Payload is the request body of create and update endpoints.
type Payload[E any] interface {
	// NewEntity builds a fresh entity from the payload.
	NewEntity() (*E, error)
	// Changes returns column → value for the given JSON keys, or for every
	// field when no key is given.
	Changes(keys ...string) (map[string]any, error)
}

// Filter is the query string of the list endpoint.
type Filter interface {
	Lookups() map[string]any
}

// Schema describes how an entity is exposed over HTTP.
type Schema[E, Out any] struct {
	// Path is the collection path relative to the group, e.g. "/employees".
	Path string
	// Project converts an entity into its response shape.
	Project func(*E) Out
	// ValidateUnique routes create through UniqueCreator.
	ValidateUnique bool
}

// Register mounts create, get, list, update, partial update and delete
// endpoints for svc under group.
func Register[E any, In Payload[E], Out any, F Filter](group *gin.RouterGroup, svc Service[E], schema Schema[E, Out]) {
	var unique UniqueCreator[E]
	if schema.ValidateUnique {
		u, ok := svc.(UniqueCreator[E])
		if !ok {
			panic(fmt.Sprintf("crud: %s: service does not implement UniqueCreator", schema.Path))
		}
		unique = u
	}

	h := &handler[E, In, Out, F]{svc: svc, unique: unique, project: schema.Project}
	g := group.Group(schema.Path)
	g.POST("", h.create)
	g.GET("", h.list)
	g.GET("/:id", h.get)
	g.PUT("/:id", h.update)
	g.PATCH("/:id", h.partialUpdate)
	g.DELETE("/:id", h.delete)
}

type handler[E any, In Payload[E], Out any, F Filter] struct {
	svc     Service[E]
	unique  UniqueCreator[E]
	project func(*E) Out
}

func (h *handler[E, In, Out, F]) create(c *gin.Context) {
	var in In
	if !pkg.BindAndValidate(c, &in) {
		return
	}
	entity, err := in.NewEntity()
	if err != nil {
		pkg.Error(c, err)
		return
	}

	actor := middleware.Actor(c)
	if h.unique != nil {
		res, err := h.unique.CreateValidateUnique(c.Request.Context(), entity, actor)
		if err != nil {
			pkg.Error(c, err)
			return
		}
		pkg.JSON(c, http.StatusOK, res)
		return
	}
	pkg.JSON(c, http.StatusOK, h.svc.Create(c.Request.Context(), entity, actor))
}

func (h *handler[E, In, Out, F]) get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	res, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		pkg.Error(c, err)
		return
	}

	out := pkg.Result[*Out]{Success: res.Success, Message: res.Message}
	if res.Data != nil {
		v := h.project(res.Data)
		out.Data = &v
	}
	pkg.JSON(c, http.StatusOK, out)
}

func (h *handler[E, In, Out, F]) list(c *gin.Context) {
	var filter F
	if !pkg.BindQuery(c, &filter) {
		return
	}
	var page pkg.PageQuery
	if !pkg.BindQuery(c, &page) {
		return
	}

	res, err := h.svc.List(c.Request.Context(), filter.Lookups(), page)
	if err != nil {
		pkg.Error(c, err)
		return
	}

	out := &domain.Page[Out]{Details: []Out{}}
	if res.Data != nil {
		out.Total = res.Data.Total
		out.PageSize = res.Data.PageSize
		out.PageIndex = res.Data.PageIndex
		out.Details = make([]Out, 0, len(res.Data.Details))
		for i := range res.Data.Details {
			out.Details = append(out.Details, h.project(&res.Data.Details[i]))
		}
	}
	pkg.JSON(c, http.StatusOK, pkg.Result[*domain.Page[Out]]{Success: res.Success, Message: res.Message, Data: out})
}

func (h *handler[E, In, Out, F]) update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var in In
	if !pkg.BindAndValidate(c, &in) {
		return
	}
	fields, err := in.Changes()
	if err != nil {
		pkg.Error(c, err)
		return
	}
	res, err := h.svc.Update(c.Request.Context(), id, fields, middleware.Actor(c))
	if err != nil {
		pkg.Error(c, err)
		return
	}
	pkg.JSON(c, http.StatusOK, res)
}

func (h *handler[E, In, Out, F]) partialUpdate(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	in, keys, ok := bindPartial[In](c)
	if !ok {
		return
	}

	fields := map[string]any{}
	if len(keys) > 0 {
		var err error
		if fields, err = in.Changes(keys...); err != nil {
			pkg.Error(c, err)
			return
		}
	}
	res, err := h.svc.PartialUpdate(c.Request.Context(), id, middleware.Actor(c), fields)
	if err != nil {
		pkg.Error(c, err)
		return
	}
	pkg.JSON(c, http.StatusOK, res)
}

func (h *handler[E, In, Out, F]) delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	res, err := h.svc.Delete(c.Request.Context(), id)
	if err != nil {
		pkg.Error(c, err)
		return
	}
	pkg.JSON(c, http.StatusOK, res)
}

// parseID reads the :id path parameter. On failure it writes a 400 response.
func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		pkg.FieldErrors(c, map[string]string{"id": "must be a positive integer"})
		return 0, false
	}
	return uint(id), true
}

// bindPartial decodes a PATCH body into In and validates only the supplied
// keys. Keys that are not fields of In are rejected. It returns the supplied
// JSON keys in sorted order.
func bindPartial[In any](c *gin.Context) (In, []string, bool) {
	var in In
	body, err := c.GetRawData()
	if err != nil {
		pkg.Error(c, domain.NewAppError(domain.CodeValidation, "unreadable body", err))
		return in, nil, false
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		c.JSON(http.StatusBadRequest, pkg.Fail[any](err.Error(), nil))
		return in, nil, false
	}

	known := pkg.JSONFields(&in)
	unknown := map[string]string{}
	keys := make([]string, 0, len(raw))
	fieldNames := make([]string, 0, len(raw))
	for k := range raw {
		name, ok := known[k]
		if !ok {
			unknown[k] = "unknown field"
			continue
		}
		keys = append(keys, k)
		fieldNames = append(fieldNames, name)
	}
	if len(unknown) > 0 {
		pkg.FieldErrors(c, unknown)
		return in, nil, false
	}
	slices.Sort(keys)

	if err := json.Unmarshal(body, &in); err != nil {
		c.JSON(http.StatusBadRequest, pkg.Fail[any](err.Error(), nil))
		return in, nil, false
	}
	if len(fieldNames) > 0 {
		if err := validatePartial(&in, fieldNames); err != nil {
			var ve validator.ValidationErrors
			if errors.As(err, &ve) {
				pkg.FieldErrors(c, pkg.DescribeValidationErrors(ve, &in))
			} else {
				c.JSON(http.StatusBadRequest, pkg.Fail[any](err.Error(), nil))
			}
			return in, nil, false
		}
	}
	return in, keys, true
}

// validatePartial runs gin's binding rules for the named struct fields only.
func validatePartial(obj any, fieldNames []string) error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}
	return v.StructPartial(obj, fieldNames...)
}
