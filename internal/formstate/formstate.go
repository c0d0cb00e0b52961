// Package formstate parses raw user-entered form values into numbers.
//
// Per-instance fields are keyed "<field>_<instance>" (for example "WOB_2"),
// shared fields by name alone ("K1", "dα").
package formstate

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	ErrEmpty       = errors.New("is empty")
	ErrNotNumeric  = errors.New("is not a number")
	ErrNotPositive = errors.New("must be greater than zero")
)

// FieldError names the offending field and, for per-instance fields, the
// 1-based instance index.
type FieldError struct {
	Field    string
	Instance int // 0 for shared fields
	Err      error
}

func (e *FieldError) Error() string {
	if e.Instance > 0 {
		return fmt.Sprintf("field '%s' (instance %d) %v", e.Field, e.Instance, e.Err)
	}
	return fmt.Sprintf("field '%s' %v", e.Field, e.Err)
}

func (e *FieldError) Unwrap() error { return e.Err }

// Values is the key->string mapping supplied by the form/state store.
type Values map[string]string

// Key builds the storage key of a per-instance field.
func Key(field string, instance int) string {
	if instance <= 0 {
		return field
	}
	return field + "_" + strconv.Itoa(instance)
}

// Has reports whether the field holds a non-blank value.
func (v Values) Has(field string, instance int) bool {
	return strings.TrimSpace(v[Key(field, instance)]) != ""
}

// Require checks that every listed field is filled for instances 1..n,
// iterating field-major like the form layout. The first gap is returned.
func (v Values) Require(fields []string, n int) error {
	for _, f := range fields {
		for i := 1; i <= n; i++ {
			if !v.Has(f, i) {
				return &FieldError{Field: f, Instance: i, Err: ErrEmpty}
			}
		}
	}
	return nil
}

// Float parses one field. instance 0 addresses a shared field.
func (v Values) Float(field string, instance int) (float64, error) {
	raw := strings.TrimSpace(v[Key(field, instance)])
	if raw == "" {
		return 0, &FieldError{Field: field, Instance: instance, Err: ErrEmpty}
	}
	f, err := ParseFloat(raw)
	if err != nil {
		return 0, &FieldError{Field: field, Instance: instance, Err: ErrNotNumeric}
	}
	return f, nil
}

// ParseFloat accepts a decimal comma as well as a decimal point.
func ParseFloat(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if strings.Contains(s, ",") && !strings.Contains(s, ".") {
		s = strings.ReplaceAll(s, ",", ".")
	}
	return strconv.ParseFloat(s, 64)
}
