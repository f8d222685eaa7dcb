package validators

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/orderup/orderup-backend/pkg/types"
)

// QueryReader coerces string query values into typed values, collecting a
// field error for every value that fails to parse.
type QueryReader struct {
	values url.Values
	errs   []types.FieldError
}

func NewQueryReader(r *http.Request) *QueryReader {
	return &QueryReader{values: r.URL.Query()}
}

func (q *QueryReader) raw(key string) string {
	return strings.TrimSpace(q.values.Get(key))
}

func (q *QueryReader) fail(key, message string) {
	q.errs = append(q.errs, types.FieldError{Field: PartQuery + "." + key, Message: message})
}

// String returns the trimmed value, or nil when it is absent or blank.
func (q *QueryReader) String(key string) *string {
	raw := q.raw(key)
	if raw == "" {
		return nil
	}
	return &raw
}

// Int returns the parsed integer or def when the key is absent.
func (q *QueryReader) Int(key string, def int) int {
	raw := q.raw(key)
	if raw == "" {
		return def
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		q.fail(key, fmt.Sprintf("%s must be an integer", key))
		return def
	}
	return value
}

// Float returns the parsed number, or nil when the key is absent.
func (q *QueryReader) Float(key string) *float64 {
	raw := q.raw(key)
	if raw == "" {
		return nil
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		q.fail(key, fmt.Sprintf("%s must be a number", key))
		return nil
	}
	return &value
}

// Bool accepts only "true" and "false" and returns nil when the key is absent.
func (q *QueryReader) Bool(key string) *bool {
	raw := strings.ToLower(q.raw(key))
	switch raw {
	case "":
		return nil
	case "true":
		v := true
		return &v
	case "false":
		v := false
		return &v
	default:
		q.fail(key, fmt.Sprintf("%s must be true or false", key))
		return nil
	}
}

// Err reports every coercion failure seen so far as a validation error.
func (q *QueryReader) Err() error {
	if len(q.errs) == 0 {
		return nil
	}
	return fieldFailure(q.errs...)
}

// ValidateQuery applies struct-tag rules to an already coerced query struct.
func ValidateQuery(dest any) error {
	return Validate(PartQuery, dest)
}
