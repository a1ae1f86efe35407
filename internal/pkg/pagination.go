package pkg

import (
	"fmt"
	"reflect"
	"regexp"
	"slices"
	"sort"
	"strings"

	"gorm.io/gorm"
)

const (
	DefaultPageIndex = 1
	DefaultPageSize  = 10
	MaxPageSize      = 100
	defaultOrder     = "id asc"
)

// validFieldName matches only alphanumeric characters and underscores.
var validFieldName = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// PageQuery carries the paging and ordering query parameters of a list request.
// The page_size range is enforced by binding validation; Paginate trusts it.
type PageQuery struct {
	PageIndex int    `form:"page_index,default=1" json:"page_index"`
	PageSize  int    `form:"page_size,default=10" json:"page_size" binding:"min=1,max=100"`
	Ordering  string `form:"ordering" json:"ordering"`
}

// DefaultPageQuery returns the first page with the default size.
func DefaultPageQuery() PageQuery {
	return PageQuery{PageIndex: DefaultPageIndex, PageSize: DefaultPageSize}
}

// NormalizePageIndex maps every index below 1 to the first page.
func NormalizePageIndex(i int) int {
	if i <= 1 {
		return 1
	}
	return i
}

// Offset returns the number of rows skipped before the requested page.
func (q PageQuery) Offset() int {
	return (NormalizePageIndex(q.PageIndex) - 1) * q.PageSize
}

// Paginate returns a GORM scope that applies LIMIT and OFFSET for the page query.
func Paginate(q PageQuery) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Offset(q.Offset()).Limit(q.PageSize)
	}
}

// Lookups returns a GORM scope that applies WHERE conditions from a
// field__operator → value map. Supported operators are exact (no suffix),
// contains, icontains, startswith, gt, gte, lt, lte and in. Nil values,
// malformed field names and unknown operators are ignored. Keys are applied
// in sorted order so the generated SQL is stable.
func Lookups(filter map[string]any) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		keys := make([]string, 0, len(filter))
		for k := range filter {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		for _, key := range keys {
			value, ok := deref(filter[key])
			if !ok {
				continue
			}
			cond, arg, ok := lookupCondition(key, value)
			if !ok {
				continue
			}
			db = db.Where(cond, arg)
		}
		return db
	}
}

// lookupCondition translates one lookup into a SQL condition and its argument.
func lookupCondition(key string, value any) (string, any, bool) {
	field, op, _ := strings.Cut(key, "__")
	if !validFieldName.MatchString(field) {
		return "", nil, false
	}

	switch op {
	case "", "exact":
		return field + " = ?", value, true
	case "contains":
		return field + ` LIKE ? ESCAPE '\'`, "%" + escapeLike(fmt.Sprint(value)) + "%", true
	case "icontains":
		return "LOWER(" + field + `) LIKE LOWER(?) ESCAPE '\'`, "%" + escapeLike(fmt.Sprint(value)) + "%", true
	case "startswith":
		return field + ` LIKE ? ESCAPE '\'`, escapeLike(fmt.Sprint(value)) + "%", true
	case "gt":
		return field + " > ?", value, true
	case "gte":
		return field + " >= ?", value, true
	case "lt":
		return field + " < ?", value, true
	case "lte":
		return field + " <= ?", value, true
	case "in":
		rv := reflect.ValueOf(value)
		if rv.Kind() != reflect.Slice || rv.Len() == 0 {
			return "", nil, false
		}
		return field + " IN ?", value, true
	default:
		return "", nil, false
	}
}

// escapeLike escapes the LIKE wildcards in s.
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

// deref unwraps pointers and reports false for nil values.
func deref(v any) (any, bool) {
	if v == nil {
		return nil, false
	}
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return nil, false
		}
		rv = rv.Elem()
	}
	return rv.Interface(), true
}

// OrderClauses parses a comma separated ordering such as "-create_at,id"
// into ORDER BY terms. Columns outside allowed are dropped. The result ends
// with the primary key so paging is stable.
func OrderClauses(ordering string, allowed []string) []string {
	var clauses []string
	seenID := false
	for _, part := range strings.Split(ordering, ",") {
		field := strings.TrimSpace(part)
		direction := "asc"
		if strings.HasPrefix(field, "-") {
			field = strings.TrimPrefix(field, "-")
			direction = "desc"
		}
		if !validFieldName.MatchString(field) {
			continue
		}
		if !isAllowed(field, allowed) {
			continue
		}
		if field == "id" {
			seenID = true
		}
		clauses = append(clauses, field+" "+direction)
	}
	if !seenID {
		clauses = append(clauses, defaultOrder)
	}
	return clauses
}

// Order returns a GORM scope that applies ORDER BY from OrderClauses.
func Order(ordering string, allowed []string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		for _, clause := range OrderClauses(ordering, allowed) {
			db = db.Order(clause)
		}
		return db
	}
}

// isAllowed checks if a field name is in the allowed list.
func isAllowed(field string, allowed []string) bool {
	return slices.Contains(allowed, field)
}
