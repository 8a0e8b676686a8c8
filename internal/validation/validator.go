// Package validation configures the struct validator shared by the HTTP and
// Kafka inputs.
package validation

import (
	"errors"
	"reflect"
	"strings"

	validatorv10 "github.com/go-playground/validator/v10"
)

// New returns a validator that reports json field names.
func New() *validatorv10.Validate {
	v := validatorv10.New(validatorv10.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Fields flattens validation errors into field -> failed tag.
func Fields(err error) map[string]string {
	out := map[string]string{}
	var ve validatorv10.ValidationErrors
	if !errors.As(err, &ve) {
		out["error"] = err.Error()
		return out
	}
	for _, fe := range ve {
		out[fe.Field()] = fe.Tag()
	}
	return out
}

// Message renders validation errors as one line.
func Message(err error) string {
	var ve validatorv10.ValidationErrors
	if !errors.As(err, &ve) {
		return err.Error()
	}
	parts := make([]string, 0, len(ve))
	for _, fe := range ve {
		parts = append(parts, fe.Field()+": "+fe.Tag())
	}
	return "validation failed: " + strings.Join(parts, ", ")
}
