package numlit

import (
	"reflect"
	"testing"

	"github.com/shopspring/decimal"
)

func TestParseIntegerSuffixes(t *testing.T) {
	r := Default()
	tests := []struct {
		text string
		want any
	}{
		{"42", int(42)},
		{"42L", int64(42)},
		{"42UL", uint64(42)},
		{"42UI", uint32(42)},
		{"42US", uint16(42)},
		{"42UB", byte(42)},
		{"42B", byte(42)},
		{"42SB", int8(42)},
		{"42S", int16(42)},
		{"42I", int32(42)},
		{"4294967296", int64(4294967296)},
	}
	for _, tc := range tests {
		t.Run(tc.text, func(t *testing.T) {
			v, err := r.ParseInteger(tc.text)
			if err != nil {
				t.Fatalf("ParseInteger(%q): %s", tc.text, err)
			}
			got := v.Interface()
			if !reflect.DeepEqual(got, tc.want) {
				t.Errorf("ParseInteger(%q) = %#v (%T), want %#v (%T)", tc.text, got, got, tc.want, tc.want)
			}
		})
	}
}

func TestParseRealSuffixes(t *testing.T) {
	r := Default()
	tests := []struct {
		text string
		want any
	}{
		{"1.5", float64(1.5)},
		{"1.5F", float32(1.5)},
		{"1.5D", float64(1.5)},
	}
	for _, tc := range tests {
		t.Run(tc.text, func(t *testing.T) {
			v, err := r.ParseReal(tc.text)
			if err != nil {
				t.Fatalf("ParseReal(%q): %s", tc.text, err)
			}
			got := v.Interface()
			if !reflect.DeepEqual(got, tc.want) {
				t.Errorf("ParseReal(%q) = %#v, want %#v", tc.text, got, tc.want)
			}
		})
	}
}

func TestParseRealDecimalSuffix(t *testing.T) {
	r := Default()
	v, err := r.ParseReal("888.8M")
	if err != nil {
		t.Fatalf("ParseReal: %s", err)
	}
	d, ok := v.Interface().(decimal.Decimal)
	if !ok {
		t.Fatalf("expected decimal.Decimal, got %T", v.Interface())
	}
	if !d.Equal(decimal.NewFromFloat(888.8)) {
		t.Errorf("got %s, want 888.8", d)
	}
}

func TestParseIntegerOverflowRejected(t *testing.T) {
	r := Default()
	if _, err := r.ParseInteger("300B"); err == nil {
		t.Fatalf("expected overflow error for 300B")
	}
}

func TestSuffixSetIncludesDefaults(t *testing.T) {
	set := Default().SuffixSet()
	for _, c := range []byte{'F', 'M', 'D', 'U', 'S', 'I', 'L', 'B'} {
		if !set[c] {
			t.Errorf("expected suffix set to include %q", c)
		}
	}
}
