package types

import (
	"reflect"
	"testing"
)

func TestKindOfAndWidening(t *testing.T) {
	tests := []struct {
		from, to reflect.Type
		widens   bool
	}{
		{reflect.TypeOf(int8(0)), reflect.TypeOf(int64(0)), true},
		{reflect.TypeOf(int8(0)), reflect.TypeOf(uint8(0)), false},
		{reflect.TypeOf(byte(0)), reflect.TypeOf(float64(0)), true},
		{reflect.TypeOf(float32(0)), reflect.TypeOf(float64(0)), true},
		{reflect.TypeOf(float64(0)), reflect.TypeOf(float32(0)), false},
		{reflect.TypeOf(int32(0)), reflect.TypeOf(int32(0)), true},
	}
	for _, tc := range tests {
		got := WidensTo(KindOf(tc.from), KindOf(tc.to))
		if got != tc.widens {
			t.Errorf("WidensTo(%s, %s) = %v, want %v", tc.from, tc.to, got, tc.widens)
		}
	}
}

func TestKindOfUnwrapsNullable(t *testing.T) {
	var x int32
	pt := reflect.PointerTo(reflect.TypeOf(x))
	if KindOf(pt) != Int32 {
		t.Fatalf("expected nullable int32 to classify as Int32")
	}
}

func TestNullableRoundTrip(t *testing.T) {
	intType := reflect.TypeOf(0)
	nt, err := MakeNullable(intType)
	if err != nil {
		t.Fatalf("MakeNullable: %s", err)
	}
	if !IsNullable(nt) {
		t.Fatalf("expected %s to be nullable", nt)
	}
	elem, nullable := Unwrap(nt)
	if !nullable || elem != intType {
		t.Fatalf("Unwrap(%s) = (%s, %v), want (%s, true)", nt, elem, nullable, intType)
	}
}

func TestMakeNullableRejectsReferenceType(t *testing.T) {
	if _, err := MakeNullable(reflect.TypeOf([]int(nil))); err == nil {
		t.Fatalf("expected error for reference type []int")
	}
}

func TestMakeNullableRejectsAlreadyNullable(t *testing.T) {
	nt, _ := MakeNullable(reflect.TypeOf(0))
	if _, err := MakeNullable(nt); err == nil {
		t.Fatalf("expected error for already-nullable type")
	}
}

func TestResolverCaseInsensitive(t *testing.T) {
	r := Default()
	if _, ok := r.Lookup("guid"); !ok {
		t.Fatalf("expected case-insensitive lookup of Guid to succeed")
	}
	if _, ok := r.Lookup("GUID"); !ok {
		t.Fatalf("expected case-insensitive lookup of GUID to succeed")
	}
}

func TestResolverRejectsDuplicate(t *testing.T) {
	r := New()
	if err := r.Register("Foo", reflect.TypeOf(0)); err != nil {
		t.Fatalf("Register: %s", err)
	}
	if err := r.Register("foo", reflect.TypeOf("")); err == nil {
		t.Fatalf("expected duplicate registration to fail")
	}
}
