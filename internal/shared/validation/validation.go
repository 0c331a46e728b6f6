// Package validation provides the field checks applied to request input before any entity is built.
// The checks reuse go-playground/validator, the same engine gin uses for binding tags.
package validation

import (
	"strconv"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Field is a named input value checked for presence.
type Field struct {
	Name  string
	Value any
}

// Present reports whether v holds a value.
// Missing values, empty strings and zero numbers are not present.
func Present(v any) bool {
	return validate.Var(v, "required") == nil
}

// MinLength reports whether text has at least n characters.
// The raw input is measured; no trimming is applied.
func MinLength(text string, n int) bool {
	return validate.Var(text, "min="+strconv.Itoa(n)) == nil
}

// MaxLength reports whether text has at most n characters.
func MaxLength(text string, n int) bool {
	return validate.Var(text, "max="+strconv.Itoa(n)) == nil
}

// FirstMissing returns the name of the first field that is not present, in the given order.
func FirstMissing(fields ...Field) (string, bool) {
	for _, f := range fields {
		if !Present(f.Value) {
			return f.Name, true
		}
	}
	return "", false
}
