package exprquery

import (
	"fmt"
	"reflect"
	"testing"

	"github.com/shopspring/decimal"
)

type Profile struct {
	FirstName string
	Age       int
}

type User struct {
	Id       int
	UserName string
	Profile  Profile
}

func TestParseLambdaParamsArithmetic(t *testing.T) {
	lambda, err := ParseLambdaParams([]Param{{Name: "x", Typ: reflect.TypeOf(0)}}, nil, "x + 1")
	if err != nil {
		t.Fatalf("ParseLambdaParams: %s", err)
	}
	out, err := lambda.Invoke(41)
	if err != nil {
		t.Fatalf("Invoke: %s", err)
	}
	if fmt.Sprintf("%v", out) != "42" {
		t.Fatalf("got %v, want 42", out)
	}
}

func TestWhereOverRange(t *testing.T) {
	items := make([]int, 100)
	for i := range items {
		items[i] = i + 1
	}
	expr, err := Parse(nil, "items.Where(it in (2,4,6,8))", map[string]any{"items": items})
	if err != nil {
		t.Fatalf("Parse: %s", err)
	}
	out, err := expr.Invoke()
	if err != nil {
		t.Fatalf("Invoke: %s", err)
	}
	got := out.([]int)
	want := []int{2, 4, 6, 8}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestLambdaContainsOverExternalList(t *testing.T) {
	lambda, err := ParseLambda(reflect.TypeOf(User{}), reflect.TypeOf(false), "@0.Contains(UserName)", []string{"A", "B", "C"})
	if err != nil {
		t.Fatalf("ParseLambda: %s", err)
	}
	names := []string{"A", "B", "C", "D", "E"}
	var kept []string
	for _, n := range names {
		u := User{UserName: n}
		out, err := lambda.Invoke(u)
		if err != nil {
			t.Fatalf("Invoke: %s", err)
		}
		if out.(bool) {
			kept = append(kept, n)
		}
	}
	want := []string{"A", "B", "C"}
	if len(kept) != len(want) {
		t.Fatalf("got %v, want %v", kept, want)
	}
	for i := range want {
		if kept[i] != want[i] {
			t.Fatalf("got %v, want %v", kept, want)
		}
	}
}

func TestLambdaSelectAnonymousClass(t *testing.T) {
	lambda, err := ParseLambda(reflect.TypeOf(User{}), nil, "new(UserName as Name, Profile.FirstName)")
	if err != nil {
		t.Fatalf("ParseLambda: %s", err)
	}
	u := User{UserName: "Ada", Profile: Profile{FirstName: "Augusta"}}
	out, err := lambda.Invoke(u)
	if err != nil {
		t.Fatalf("Invoke: %s", err)
	}
	rv := reflect.ValueOf(out)
	if rv.FieldByName("Name").String() != "Ada" {
		t.Fatalf("Name = %v, want Ada", rv.FieldByName("Name"))
	}
	if rv.FieldByName("FirstName").String() != "Augusta" {
		t.Fatalf("FirstName = %v, want Augusta", rv.FieldByName("FirstName"))
	}
}

func TestTupleItemConcat(t *testing.T) {
	text := `tuple(1,"2",3,44,55,66,777,888.8,999.9,1000).Item1 + tuple("ABC").Item1`
	expr, err := Parse(reflect.TypeOf(""), text)
	if err != nil {
		t.Fatalf("Parse: %s", err)
	}
	out, err := expr.Invoke()
	if err != nil {
		t.Fatalf("Invoke: %s", err)
	}
	if out.(string) != "1ABC" {
		t.Fatalf("got %q, want %q", out, "1ABC")
	}
}

func TestSelectShift(t *testing.T) {
	cases := []struct {
		text string
		want []int32
	}{
		{"items.Select(it << 1)", []int32{20, 40, 60}},
		{"items.Select(it >> 1)", []int32{5, 10, 15}},
	}
	for _, c := range cases {
		expr, err := Parse(nil, c.text, map[string]any{"items": []int{10, 20, 30}})
		if err != nil {
			t.Fatalf("Parse %q: %s", c.text, err)
		}
		out, err := expr.Invoke()
		if err != nil {
			t.Fatalf("Invoke %q: %s", c.text, err)
		}
		got := out.([]int32)
		if len(got) != len(c.want) {
			t.Fatalf("%q: got %v, want %v", c.text, got, c.want)
		}
		for i := range c.want {
			if got[i] != c.want[i] {
				t.Fatalf("%q: got %v, want %v", c.text, got, c.want)
			}
		}
	}
}

func TestParseOrderingMultiTerm(t *testing.T) {
	terms, err := ParseOrdering(reflect.TypeOf(User{}), "Profile.Age desc, Id")
	if err != nil {
		t.Fatalf("ParseOrdering: %s", err)
	}
	if len(terms) != 2 {
		t.Fatalf("got %d terms, want 2", len(terms))
	}
	if terms[0].Ascending {
		t.Fatalf("first term should be descending")
	}
	if !terms[1].Ascending {
		t.Fatalf("second term should be ascending")
	}
}

func TestArithmeticAmbiguityFails(t *testing.T) {
	type Row struct {
		FloatValue   float32
		DecimalValue decimal.Decimal
	}
	_, err := ParseExpression("it", reflect.TypeOf(Row{}), nil, "it.FloatValue * it.DecimalValue")
	if err == nil {
		t.Fatalf("expected parse error for incompatible widening, got nil")
	}
}

func TestEmptyTextIsArgumentError(t *testing.T) {
	_, err := Parse(nil, "")
	if _, ok := err.(*ArgumentError); !ok {
		t.Fatalf("got %T, want *ArgumentError", err)
	}
}
