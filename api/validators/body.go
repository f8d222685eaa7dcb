package validators

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	pkgerrors "github.com/orderup/orderup-backend/pkg/errors"
	"github.com/orderup/orderup-backend/pkg/types"
	"github.com/shopspring/decimal"
)

// Request parts used as field path prefixes.
const (
	PartBody   = "body"
	PartQuery  = "query"
	PartParams = "params"
)

const validationFailedMessage = "Validation failed"

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		for _, key := range []string{"json", "query"} {
			tag := strings.SplitN(f.Tag.Get(key), ",", 2)[0]
			if tag == "-" {
				return ""
			}
			if tag != "" {
				return tag
			}
		}
		return f.Name
	})
	// Range tags (min, max, gte, lte) compare decimals as numbers.
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
	return v
}

// DecodeJSONBody decodes the request body into dest, rejecting unknown fields,
// then validates dest's struct tags.
func DecodeJSONBody(r *http.Request, dest any) error {
	if r.Body == nil {
		return fieldFailure(types.FieldError{Field: PartBody, Message: "request body is required"})
	}
	defer func() {
		_, _ = io.Copy(io.Discard, r.Body)
	}()

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dest); err != nil {
		return decodeFailure(err)
	}
	if decoder.More() {
		return fieldFailure(types.FieldError{Field: PartBody, Message: "request body must contain a single JSON object"})
	}
	return Validate(PartBody, dest)
}

// Validate runs the struct-tag rules on dest and prefixes every failing field with part.
func Validate(part string, dest any) error {
	if err := validate.Struct(dest); err != nil {
		return formatValidationErrors(part, err)
	}
	return nil
}

func decodeFailure(err error) error {
	var (
		syntaxErr *json.SyntaxError
		typeErr   *json.UnmarshalTypeError
		maxErr    *http.MaxBytesError
	)
	switch {
	case errors.Is(err, io.EOF):
		return fieldFailure(types.FieldError{Field: PartBody, Message: "request body is required"})
	case errors.As(err, &maxErr):
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, validationFailedMessage).
			WithDetails([]types.FieldError{{Field: PartBody, Message: fmt.Sprintf("request body must not exceed %d bytes", maxErr.Limit)}})
	case errors.As(err, &syntaxErr), errors.Is(err, io.ErrUnexpectedEOF):
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, validationFailedMessage).
			WithDetails([]types.FieldError{{Field: PartBody, Message: "request body must be valid JSON"}})
	case errors.As(err, &typeErr):
		field := typeErr.Field
		if field == "" {
			return pkgerrors.Wrap(pkgerrors.CodeValidation, err, validationFailedMessage).
				WithDetails([]types.FieldError{{Field: PartBody, Message: "request body must be a JSON object"}})
		}
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, validationFailedMessage).
			WithDetails([]types.FieldError{{Field: PartBody + "." + field, Message: fmt.Sprintf("%s must be of type %s", lastSegment(field), describeKind(typeErr.Type))}})
	case strings.HasPrefix(err.Error(), "json: unknown field "):
		name := strings.Trim(strings.TrimPrefix(err.Error(), "json: unknown field "), `"`)
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, validationFailedMessage).
			WithDetails([]types.FieldError{{Field: PartBody + "." + name, Message: fmt.Sprintf("%s is not allowed", name)}})
	default:
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, validationFailedMessage).
			WithDetails([]types.FieldError{{Field: PartBody, Message: "request body could not be decoded"}})
	}
}

func fieldFailure(fields ...types.FieldError) *pkgerrors.Error {
	return pkgerrors.New(pkgerrors.CodeValidation, validationFailedMessage).WithDetails(fields)
}

func formatValidationErrors(part string, err error) error {
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "validate request")
	}
	fields := make([]types.FieldError, 0, len(errs))
	for _, fe := range errs {
		fields = append(fields, types.FieldError{
			Field:   fieldPath(part, fe.Namespace()),
			Message: validationMessage(fe),
		})
	}
	return fieldFailure(fields...)
}

// fieldPath drops the root struct name from the validator namespace,
// e.g. CreateRestaurantRequest.address becomes body.address.
func fieldPath(part, namespace string) string {
	if idx := strings.Index(namespace, "."); idx >= 0 {
		namespace = namespace[idx+1:]
	}
	if namespace == "" {
		return part
	}
	return part + "." + namespace
}

func validationMessage(fe validator.FieldError) string {
	name := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", name)
	case "min", "gte":
		return fmt.Sprintf("%s must be at least %s%s", name, fe.Param(), unitSuffix(fe))
	case "max", "lte":
		return fmt.Sprintf("%s must be at most %s%s", name, fe.Param(), unitSuffix(fe))
	case "email":
		return fmt.Sprintf("%s must be a valid email address", name)
	case "url", "http_url":
		return fmt.Sprintf("%s must be a valid URL", name)
	case "uuid", "uuid4":
		return fmt.Sprintf("%s must be a valid UUID", name)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", name, strings.ReplaceAll(fe.Param(), " ", ", "))
	case "boolean":
		return fmt.Sprintf("%s must be a boolean", name)
	case "numeric", "number":
		return fmt.Sprintf("%s must be a number", name)
	}
	return fmt.Sprintf("%s is invalid", name)
}

func unitSuffix(fe validator.FieldError) string {
	switch fe.Kind() {
	case reflect.String:
		return " characters"
	case reflect.Slice, reflect.Array, reflect.Map:
		return " items"
	default:
		return ""
	}
}

func describeKind(t reflect.Type) string {
	if t == nil {
		return "unknown"
	}
	switch t.Kind() {
	case reflect.String:
		return "string"
	case reflect.Bool:
		return "boolean"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return "number"
	case reflect.Slice, reflect.Array:
		return "array"
	default:
		if t == reflect.TypeOf(decimal.Decimal{}) {
			return "number"
		}
		return "object"
	}
}

func lastSegment(path string) string {
	if idx := strings.LastIndex(path, "."); idx >= 0 {
		return path[idx+1:]
	}
	return path
}
