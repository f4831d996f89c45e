// Package types provides the type utilities the parser and overload
// resolver share: numeric-kind classification and widening, nullable
// (pointer) unwrapping, base/interface walking, and the recognized-type
// whitelist. It is grounded on the teacher's orphaned internal/reflect
// package (see DESIGN.md).
package types

import (
	"reflect"

	"github.com/shopspring/decimal"
)

// NumericKind classifies a reflect.Type into the numeric-kind lattice that
// spec.md §4.6's widening table is defined over. Non-numeric types classify
// as NotNumeric.
type NumericKind int

const (
	NotNumeric NumericKind = iota
	SByte
	Byte
	Int16
	UInt16
	Int32
	UInt32
	Int64
	UInt64
	Float32
	Float64
	Decimal
)

var numericKindNames = map[NumericKind]string{
	NotNumeric: "not numeric",
	SByte:      "sbyte", Byte: "byte",
	Int16: "int16", UInt16: "uint16",
	Int32: "int32", UInt32: "uint32",
	Int64: "int64", UInt64: "uint64",
	Float32: "float32", Float64: "float64",
	Decimal: "decimal",
}

func (k NumericKind) String() string { return numericKindNames[k] }

// IsIntegral reports whether k is one of the signed/unsigned integer kinds.
func (k NumericKind) IsIntegral() bool {
	return k >= SByte && k <= UInt64
}

// IsReal reports whether k is a floating-point or decimal kind.
func (k NumericKind) IsReal() bool {
	return k == Float32 || k == Float64 || k == Decimal
}

// IsSigned reports whether k is a signed integer kind.
func (k NumericKind) IsSigned() bool {
	switch k {
	case SByte, Int16, Int32, Int64:
		return true
	}
	return false
}

var decimalType = reflect.TypeOf(decimal.Decimal{})

// KindOf classifies t's numeric kind, unwrapping a nullable (pointer) type
// first. It returns NotNumeric for any non-numeric type.
func KindOf(t reflect.Type) NumericKind {
	t, _ = Unwrap(t)
	if t == decimalType {
		return Decimal
	}
	switch t.Kind() {
	case reflect.Int8:
		return SByte
	case reflect.Uint8:
		return Byte
	case reflect.Int16:
		return Int16
	case reflect.Uint16:
		return UInt16
	case reflect.Int, reflect.Int32:
		return Int32
	case reflect.Uint, reflect.Uint32:
		return UInt32
	case reflect.Int64:
		return Int64
	case reflect.Uint64:
		return UInt64
	case reflect.Float32:
		return Float32
	case reflect.Float64:
		return Float64
	}
	return NotNumeric
}

// IsNumeric reports whether t (after nullable-unwrap) is a recognized
// numeric kind.
func IsNumeric(t reflect.Type) bool {
	return KindOf(t) != NotNumeric
}

// widening records, for each numeric kind, the set of kinds it implicitly
// widens to, per spec.md §4.6's table.
var widening = map[NumericKind][]NumericKind{
	SByte:   {SByte, Int16, Int32, Int64, Float32, Float64, Decimal},
	Byte:    {Byte, Int16, UInt16, Int32, UInt32, Int64, UInt64, Float32, Float64, Decimal},
	Int16:   {Int16, Int32, Int64, Float32, Float64, Decimal},
	UInt16:  {UInt16, Int32, UInt32, Int64, UInt64, Float32, Float64, Decimal},
	Int32:   {Int32, Int64, Float32, Float64, Decimal},
	UInt32:  {UInt32, Int64, UInt64, Float32, Float64, Decimal},
	Int64:   {Int64, Float32, Float64, Decimal},
	UInt64:  {UInt64, Float32, Float64, Decimal},
	Float32: {Float32, Float64},
	Float64: {Float64},
	Decimal: {Decimal},
}

// WidensTo reports whether a value of numeric kind from implicitly converts
// to numeric kind to, per the built-in widening table.
func WidensTo(from, to NumericKind) bool {
	if from == to {
		return true
	}
	for _, k := range widening[from] {
		if k == to {
			return true
		}
	}
	return false
}

// Rank gives the relative width of an integral kind of a given signedness,
// used to decide "signed beats unsigned of equal rank" during overload
// pruning (spec.md §4.5 step 2).
func Rank(k NumericKind) int {
	switch k {
	case SByte, Byte:
		return 1
	case Int16, UInt16:
		return 2
	case Int32, UInt32:
		return 3
	case Int64, UInt64:
		return 4
	case Float32:
		return 5
	case Float64:
		return 6
	case Decimal:
		return 7
	}
	return 0
}

// AsFloat64 converts any recognized numeric reflect.Value to float64. It is
// used by aggregate operators (Sum/Average/Min/Max) that need a common
// comparison domain.
func AsFloat64(v reflect.Value) (float64, bool) {
	v, _ = UnwrapValue(v)
	if v.Type() == decimalType {
		d := v.Interface().(decimal.Decimal)
		f, _ := d.Float64()
		return f, true
	}
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(v.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(v.Uint()), true
	case reflect.Float32, reflect.Float64:
		return v.Float(), true
	}
	return 0, false
}
