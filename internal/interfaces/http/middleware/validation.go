package middleware

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// SetupValidator makes gin's validator report JSON field names
func SetupValidator() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name == "" {
				name = strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
			}
			return name
		})
	}
}

// FormatValidationErrors turns validator errors into messages keyed by dotted
// field path ("addresses.0.city"). ok is false when err is not a validation error.
func FormatValidationErrors(err error) (fields map[string][]string, ok bool) {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil, false
	}

	fields = make(map[string][]string, len(verrs))
	for _, fe := range verrs {
		key := FieldKey(fe.Namespace())
		fields[key] = append(fields[key], validationMessage(key, fe))
	}
	return fields, true
}

// FieldKey converts a validator namespace such as
// "CustomerRequest.addresses[0].city" into "addresses.0.city"
func FieldKey(namespace string) string {
	if i := strings.IndexByte(namespace, '.'); i >= 0 {
		namespace = namespace[i+1:]
	}
	namespace = strings.ReplaceAll(namespace, "[", ".")
	return strings.ReplaceAll(namespace, "]", "")
}

func validationMessage(field string, fe validator.FieldError) string {
	kind := fe.Kind()
	isList := kind == reflect.Slice || kind == reflect.Array || kind == reflect.Map

	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("The %s field is required.", field)
	case "email":
		return fmt.Sprintf("The %s must be a valid email address.", field)
	case "max":
		switch {
		case kind == reflect.String:
			return fmt.Sprintf("The %s may not be greater than %s characters.", field, fe.Param())
		case isList:
			return fmt.Sprintf("The %s may not have more than %s items.", field, fe.Param())
		default:
			return fmt.Sprintf("The %s may not be greater than %s.", field, fe.Param())
		}
	case "min":
		switch {
		case kind == reflect.String:
			return fmt.Sprintf("The %s must be at least %s characters.", field, fe.Param())
		case isList:
			return fmt.Sprintf("The %s must have at least %s items.", field, fe.Param())
		default:
			return fmt.Sprintf("The %s must be at least %s.", field, fe.Param())
		}
	case "gt":
		return fmt.Sprintf("The %s must be greater than %s.", field, fe.Param())
	default:
		return fmt.Sprintf("The %s is invalid.", field)
	}
}
