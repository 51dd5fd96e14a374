// Package validation wraps go-playground/validator and turns its failures
// into apperr.ValidationError values with readable field messages.
package validation

import (
	"chatline/backend/internal/apperr"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Messages overrides the default text for a "field.tag" pair.
type Messages map[string]string

// Struct validates v against its `validate` tags.
func Struct(v any, messages Messages) error {
	return translate(validate.Struct(v), messages)
}

// Var validates a single value under the given field name.
func Var(field string, value any, tag string, messages Messages) error {
	err := validate.Var(value, tag)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[field] = message(field, fe, messages)
	}
	return &apperr.ValidationError{Message: fields[field], Fields: fields}
}

func translate(err error, messages Messages) error {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	fields := make(map[string]string, len(verrs))
	var first string
	for _, fe := range verrs {
		field := fieldPath(fe)
		if _, seen := fields[field]; seen {
			continue
		}
		fields[field] = message(field, fe, messages)
		if first == "" {
			first = fields[field]
		}
	}
	return &apperr.ValidationError{Message: first, Fields: fields}
}

// fieldPath drops the root struct name from the namespace: "CreateInput.users[0]" -> "users[0]".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func message(field string, fe validator.FieldError, messages Messages) string {
	base := field
	if i := strings.IndexByte(base, '['); i >= 0 {
		base = base[:i] + ".*"
	}
	if msg, ok := messages[base+"."+fe.Tag()]; ok {
		return msg
	}

	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("The %s field is required.", field)
	case "min":
		return fmt.Sprintf("The %s field must be at least %s.", field, fe.Param())
	case "max":
		return fmt.Sprintf("The %s field must not be greater than %s.", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("The %s field must be one of: %s.", field, fe.Param())
	case "unique":
		return fmt.Sprintf("The %s field has a duplicate value.", field)
	default:
		return fmt.Sprintf("The %s field is invalid.", field)
	}
}
