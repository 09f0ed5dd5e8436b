package rootfind

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// V is the shared validator instance.
var V *validator.Validate

func init() {
	V = validator.New()
	V.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
	V.RegisterStructValidation(requestStructLevel, Request{})
}

// ValidationError is one failed field.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrors is every failed field of a request. It matches
// ErrInvalidInput under errors.Is.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	var msgs []string
	for _, err := range e {
		msgs = append(msgs, fmt.Sprintf("%s: %s", err.Field, err.Message))
	}
	return strings.Join(msgs, "; ")
}

func (e ValidationErrors) Is(target error) bool { return target == ErrInvalidInput }

// Validate checks v against its validate tags.
func Validate(v any) error {
	if err := V.Struct(v); err != nil {
		return formatValidationErrors(err)
	}
	return nil
}

func formatValidationErrors(err error) error {
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	out := make(ValidationErrors, 0, len(errs))
	for _, e := range errs {
		out = append(out, ValidationError{Field: e.Field(), Message: getErrorMessage(e)})
	}
	return out
}

// requestStructLevel enforces the inputs each method needs.
func requestStructLevel(sl validator.StructLevel) {
	r := sl.Current().Interface().(Request)
	m, err := ParseMethod(string(r.Method))
	if err != nil {
		// oneof on the field reports it.
		return
	}
	required := func(v *float64, name string) {
		if v == nil {
			sl.ReportError(v, name, name, "required_for", string(m))
		}
	}
	switch m {
	case MethodBisection, MethodFalsePosition:
		required(r.XL, "xl")
		required(r.XR, "xr")
		if r.XL != nil && r.XR != nil && !(*r.XL < *r.XR) {
			sl.ReportError(*r.XL, "xl", "XL", "ltfield", "xr")
		}
		if !(r.Tolerance > 0) {
			sl.ReportError(r.Tolerance, "tolerance", "Tolerance", "gt", "0")
		}
	case MethodNewtonRaphson:
		required(r.X0, "x0")
	case MethodSecant:
		required(r.XA, "xa")
		required(r.XB, "xb")
		if r.XA != nil && r.XB != nil && *r.XA == *r.XB {
			sl.ReportError(*r.XA, "xa", "XA", "nefield", "xb")
		}
	}
}

func getErrorMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "is required"
	case "required_for":
		return fmt.Sprintf("is required for method %s", e.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", e.Param())
	case "min":
		if e.Kind() == reflect.String {
			return fmt.Sprintf("must be at least %s characters", e.Param())
		}
		return fmt.Sprintf("must be at least %s", e.Param())
	case "max":
		if e.Kind() == reflect.String {
			return fmt.Sprintf("must be at most %s characters", e.Param())
		}
		return fmt.Sprintf("must be at most %s", e.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", e.Param())
	case "gte":
		return fmt.Sprintf("must be greater than or equal to %s", e.Param())
	case "lte":
		return fmt.Sprintf("must be less than or equal to %s", e.Param())
	case "ltfield":
		return fmt.Sprintf("must be less than %s", e.Param())
	case "nefield":
		return fmt.Sprintf("must differ from %s", e.Param())
	case "ascii", "alpha":
		return fmt.Sprintf("must be %s", e.Tag())
	default:
		return fmt.Sprintf("failed validation: %s", e.Tag())
	}
}
