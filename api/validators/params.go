package validators

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	pkgerrors "github.com/orderup/orderup-backend/pkg/errors"
	"github.com/orderup/orderup-backend/pkg/types"
	"go.uber.org/multierr"
)

// PathUUID reads a chi path parameter and requires it to be a UUID.
func PathUUID(r *http.Request, key string) (uuid.UUID, error) {
	raw := strings.TrimSpace(chi.URLParam(r, key))
	if raw == "" {
		return uuid.Nil, fieldFailure(types.FieldError{Field: PartParams + "." + key, Message: fmt.Sprintf("%s is required", key)})
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fieldFailure(types.FieldError{Field: PartParams + "." + key, Message: fmt.Sprintf("%s must be a valid UUID", key)})
	}
	return id, nil
}

// Collect merges the validation failures of several request parts into a
// single error, so params, query and body problems are reported together.
// Any non-validation error is returned as is.
func Collect(errs ...error) error {
	combined := multierr.Combine(errs...)
	if combined == nil {
		return nil
	}

	var fields []types.FieldError
	for _, err := range multierr.Errors(combined) {
		typed := pkgerrors.As(err)
		if typed == nil || typed.Code() != pkgerrors.CodeValidation {
			return err
		}
		if details, ok := typed.Details().([]types.FieldError); ok {
			fields = append(fields, details...)
		}
	}
	return fieldFailure(fields...)
}

// FieldErrors extracts the field list carried by a validation error.
func FieldErrors(err error) []types.FieldError {
	typed := pkgerrors.As(err)
	if typed == nil {
		return nil
	}
	fields, _ := typed.Details().([]types.FieldError)
	return fields
}
