package types

import (
	"reflect"

	"github.com/pkg/errors"
)

// Unwrap returns the nullable-unwrapped form of t: if t is a pointer to a
// value type it returns (elem, true), otherwise (t, false). This is
// exprquery's stand-in for the host's Nullable<T>/T? distinction (Go has no
// built-in nullable value type), grounded on the design note in spec.md §9
// ("record-per-signature ... Equality must remain field-wise" suggested the
// same "wrap in the closest native facility" approach used here).
func Unwrap(t reflect.Type) (reflect.Type, bool) {
	if t.Kind() == reflect.Pointer && t.Elem().Kind() != reflect.Pointer {
		return t.Elem(), true
	}
	return t, false
}

// UnwrapValue is the reflect.Value analogue of Unwrap: it dereferences a
// non-nil pointer-to-value-type, or returns v unchanged.
func UnwrapValue(v reflect.Value) (reflect.Value, bool) {
	if v.Kind() == reflect.Pointer && v.Type().Elem().Kind() != reflect.Pointer {
		if v.IsNil() {
			return reflect.Zero(v.Type().Elem()), true
		}
		return v.Elem(), true
	}
	return v, false
}

// IsNullable reports whether t is already in nullable (pointer-to-value)
// form.
func IsNullable(t reflect.Type) bool {
	_, nullable := Unwrap(t)
	return nullable
}

// MakeNullable returns the nullable form of t (spec.md §4.4's "Type?"
// primary). It fails for reference types (anything that is already a
// pointer, interface, map, slice, channel, or func — these have no
// meaningful non-nullable/nullable distinction) and for types that are
// already nullable.
func MakeNullable(t reflect.Type) (reflect.Type, error) {
	if IsNullable(t) {
		return nil, errors.Errorf("type %s is already nullable", t)
	}
	switch t.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func:
		return nil, errors.Errorf("no nullable form for reference type %s", t)
	}
	return reflect.PointerTo(t), nil
}

// IsNil reports whether v is a nullable value currently holding no value.
func IsNil(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func:
		return v.IsNil()
	}
	return false
}
