package anonclass

import (
	"reflect"
	"testing"
)

func TestTypeForCachesIdenticalSignature(t *testing.T) {
	f := &Factory{byKey: map[string]reflect.Type{}}
	sig := Signature{
		{Name: "Name", Type: reflect.TypeOf("")},
		{Name: "Age", Type: reflect.TypeOf(0)},
	}
	t1 := f.TypeFor(sig)
	t2 := f.TypeFor(sig)
	if t1 != t2 {
		t.Fatalf("expected identical reflect.Type for equal signatures")
	}
	if t1.NumField() != 2 {
		t.Fatalf("expected 2 fields, got %d", t1.NumField())
	}
}

func TestTypeForDistinguishesOrder(t *testing.T) {
	f := &Factory{byKey: map[string]reflect.Type{}}
	a := Signature{{Name: "X", Type: reflect.TypeOf(0)}, {Name: "Y", Type: reflect.TypeOf(0)}}
	b := Signature{{Name: "Y", Type: reflect.TypeOf(0)}, {Name: "X", Type: reflect.TypeOf(0)}}
	if f.TypeFor(a) == f.TypeFor(b) {
		t.Fatalf("expected different field order to produce distinct types")
	}
}

func TestNewAndEqual(t *testing.T) {
	f := &Factory{byKey: map[string]reflect.Type{}}
	sig := Signature{{Name: "Name", Type: reflect.TypeOf("")}, {Name: "Age", Type: reflect.TypeOf(0)}}
	v1 := f.New(sig, []reflect.Value{reflect.ValueOf("Ada"), reflect.ValueOf(30)})
	v2 := f.New(sig, []reflect.Value{reflect.ValueOf("Ada"), reflect.ValueOf(30)})
	v3 := f.New(sig, []reflect.Value{reflect.ValueOf("Ada"), reflect.ValueOf(31)})

	if !Equal(v1, v2) {
		t.Fatalf("expected structurally equal instances to be Equal")
	}
	if Equal(v1, v3) {
		t.Fatalf("expected differing Age to break Equal")
	}
	if HashCode(v1) != HashCode(v2) {
		t.Fatalf("expected equal instances to hash identically")
	}
}

func TestString(t *testing.T) {
	f := &Factory{byKey: map[string]reflect.Type{}}
	sig := Signature{{Name: "Name", Type: reflect.TypeOf("")}}
	v := f.New(sig, []reflect.Value{reflect.ValueOf("Ada")})
	if got, want := String(v), "{ Name = Ada }"; got != want {
		t.Fatalf("String() = %q, want %q", got, want)
	}
}

func TestExportNameFallsBackForUnexportable(t *testing.T) {
	if got := exportName("", 3); got != "Field3" {
		t.Fatalf("exportName(empty) = %q", got)
	}
	if got := exportName("1x", 0); got != "Field0" {
		t.Fatalf("exportName(leading digit) = %q", got)
	}
}
