package numlit

import (
	"reflect"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// hasSuffixFold reports whether text ends with suffix, case-insensitively,
// and the remainder is non-empty.
func hasSuffixFold(text, suffix string) bool {
	if len(text) <= len(suffix) {
		return false
	}
	return strings.EqualFold(text[len(text)-len(suffix):], suffix)
}

func trimSuffix(text string, n int) string {
	return text[:len(text)-n]
}

// floatHandler parses the "F" suffix into a 32-bit float.
type floatHandler struct{}

func (floatHandler) Suffixes() []string { return []string{"F"} }
func (floatHandler) Priority() int      { return 0 }
func (floatHandler) Integral() bool     { return false }
func (floatHandler) CanHandle(text string) bool {
	return hasSuffixFold(text, "F")
}
func (floatHandler) Parse(text string) (reflect.Value, error) {
	body := trimSuffix(text, 1)
	f, err := strconv.ParseFloat(body, 32)
	if err != nil {
		return reflect.Value{}, errors.Wrapf(err, "invalid real literal %q", text)
	}
	return reflect.ValueOf(float32(f)), nil
}

// decimalHandler parses the "M" suffix into a 128-bit decimal, standing in
// for the host's decimal numeric kind (Go has no built-in equivalent).
type decimalHandler struct{}

func (decimalHandler) Suffixes() []string { return []string{"M"} }
func (decimalHandler) Priority() int      { return 0 }
func (decimalHandler) Integral() bool     { return false }
func (decimalHandler) CanHandle(text string) bool {
	return hasSuffixFold(text, "M")
}
func (decimalHandler) Parse(text string) (reflect.Value, error) {
	body := trimSuffix(text, 1)
	d, err := decimal.NewFromString(body)
	if err != nil {
		return reflect.Value{}, errors.Wrapf(err, "invalid real literal %q", text)
	}
	return reflect.ValueOf(d), nil
}

// doubleHandler parses the "D" suffix into a 64-bit float.
type doubleHandler struct{}

func (doubleHandler) Suffixes() []string { return []string{"D"} }
func (doubleHandler) Priority() int      { return 0 }
func (doubleHandler) Integral() bool     { return false }
func (doubleHandler) CanHandle(text string) bool {
	return hasSuffixFold(text, "D")
}
func (doubleHandler) Parse(text string) (reflect.Value, error) {
	body := trimSuffix(text, 1)
	f, err := strconv.ParseFloat(body, 64)
	if err != nil {
		return reflect.Value{}, errors.Wrapf(err, "invalid real literal %q", text)
	}
	return reflect.ValueOf(f), nil
}

// fallbackRealHandler parses unsuffixed real-literal text as a double.
type fallbackRealHandler struct{}

func (fallbackRealHandler) Suffixes() []string        { return nil }
func (fallbackRealHandler) Priority() int              { return 100 }
func (fallbackRealHandler) Integral() bool             { return false }
func (fallbackRealHandler) CanHandle(text string) bool { return true }
func (fallbackRealHandler) Parse(text string) (reflect.Value, error) {
	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return reflect.Value{}, errors.Wrapf(err, "invalid real literal %q", text)
	}
	return reflect.ValueOf(f), nil
}

// unsignedHandler parses "UB"/"US"/"UI"/"UL", or a bare "B" (byte), into the
// corresponding unsigned integer kind.
type unsignedHandler struct{}

func (unsignedHandler) Suffixes() []string { return []string{"UB", "US", "UI", "UL", "B"} }
func (unsignedHandler) Priority() int      { return 0 }
func (unsignedHandler) Integral() bool     { return true }
func (unsignedHandler) CanHandle(text string) bool {
	for _, s := range []string{"UB", "US", "UI", "UL"} {
		if hasSuffixFold(text, s) {
			return true
		}
	}
	// A bare "B" suffix means byte, unless it is actually the second
	// character of the signed "SB" (sbyte) suffix.
	return hasSuffixFold(text, "B") && !hasSuffixFold(text, "SB")
}
func (unsignedHandler) Parse(text string) (reflect.Value, error) {
	for _, s := range []string{"UB", "US", "UI", "UL"} {
		if hasSuffixFold(text, s) {
			body := trimSuffix(text, 2)
			return parseUnsigned(body, s[1], text)
		}
	}
	body := trimSuffix(text, 1)
	return parseUnsigned(body, 'B', text)
}

func parseUnsigned(body string, kind byte, original string) (reflect.Value, error) {
	switch kind {
	case 'B':
		n, err := strconv.ParseUint(body, 10, 8)
		if err != nil {
			return reflect.Value{}, errors.Wrapf(err, "invalid integer literal %q", original)
		}
		return reflect.ValueOf(byte(n)), nil
	case 'S':
		n, err := strconv.ParseUint(body, 10, 16)
		if err != nil {
			return reflect.Value{}, errors.Wrapf(err, "invalid integer literal %q", original)
		}
		return reflect.ValueOf(uint16(n)), nil
	case 'I':
		n, err := strconv.ParseUint(body, 10, 32)
		if err != nil {
			return reflect.Value{}, errors.Wrapf(err, "invalid integer literal %q", original)
		}
		return reflect.ValueOf(uint32(n)), nil
	case 'L':
		n, err := strconv.ParseUint(body, 10, 64)
		if err != nil {
			return reflect.Value{}, errors.Wrapf(err, "invalid integer literal %q", original)
		}
		return reflect.ValueOf(n), nil
	}
	return reflect.Value{}, errors.Errorf("invalid integer literal %q", original)
}

// signedHandler parses "SB"/"S"/"I"/"L" into the corresponding signed
// integer kind. Note "S" alone means int16 (short); "SB" means sbyte (int8).
type signedHandler struct{}

func (signedHandler) Suffixes() []string { return []string{"SB", "S", "I", "L"} }
func (signedHandler) Priority() int      { return 1 }
func (signedHandler) Integral() bool     { return true }
func (signedHandler) CanHandle(text string) bool {
	if hasSuffixFold(text, "SB") {
		return true
	}
	for _, s := range []string{"S", "I", "L"} {
		if hasSuffixFold(text, s) {
			return true
		}
	}
	return false
}
func (signedHandler) Parse(text string) (reflect.Value, error) {
	if hasSuffixFold(text, "SB") {
		body := trimSuffix(text, 2)
		n, err := strconv.ParseInt(body, 10, 8)
		if err != nil {
			return reflect.Value{}, errors.Wrapf(err, "invalid integer literal %q", text)
		}
		return reflect.ValueOf(int8(n)), nil
	}
	body := trimSuffix(text, 1)
	switch text[len(text)-1] {
	case 'S', 's':
		n, err := strconv.ParseInt(body, 10, 16)
		if err != nil {
			return reflect.Value{}, errors.Wrapf(err, "invalid integer literal %q", text)
		}
		return reflect.ValueOf(int16(n)), nil
	case 'I', 'i':
		n, err := strconv.ParseInt(body, 10, 32)
		if err != nil {
			return reflect.Value{}, errors.Wrapf(err, "invalid integer literal %q", text)
		}
		return reflect.ValueOf(int32(n)), nil
	case 'L', 'l':
		n, err := strconv.ParseInt(body, 10, 64)
		if err != nil {
			return reflect.Value{}, errors.Wrapf(err, "invalid integer literal %q", text)
		}
		return reflect.ValueOf(n), nil
	}
	return reflect.Value{}, errors.Errorf("invalid integer literal %q", text)
}

// fallbackIntegerHandler parses unsuffixed integer-literal text, choosing
// the first of int (for values in the 32-bit signed range), uint32, int64
// and uint64 that holds the value. The text never carries a leading '-';
// the unary negation operator supplies that.
type fallbackIntegerHandler struct{}

func (fallbackIntegerHandler) Suffixes() []string        { return nil }
func (fallbackIntegerHandler) Priority() int              { return 100 }
func (fallbackIntegerHandler) Integral() bool             { return true }
func (fallbackIntegerHandler) CanHandle(text string) bool { return true }
func (fallbackIntegerHandler) Parse(text string) (reflect.Value, error) {
	if n, err := strconv.ParseInt(text, 10, 32); err == nil {
		return reflect.ValueOf(int(n)), nil
	}
	if n, err := strconv.ParseUint(text, 10, 32); err == nil {
		return reflect.ValueOf(uint32(n)), nil
	}
	if n, err := strconv.ParseInt(text, 10, 64); err == nil {
		return reflect.ValueOf(n), nil
	}
	if n, err := strconv.ParseUint(text, 10, 64); err == nil {
		return reflect.ValueOf(n), nil
	}
	return reflect.Value{}, errors.Errorf("invalid integer literal %q", text)
}
