package types

import (
	"reflect"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// Resolver is a whitelist of non-predefined types addressable by their bare
// simple name in expression text (spec.md §3 item 3), e.g. "Guid(...)" or
// "Decimal(...)". Register can add names after construction; a mutex guards
// the table, so it is safe to share across concurrent parses (spec.md §5).
//
// Grounded on the teacher's orphaned root typeinfo package
// (GetInfoFromName(name string)), whose string-keyed cache shape is reused
// here with different contents: a name→reflect.Type whitelist rather than a
// name→db-tag-map cache.
type Resolver struct {
	mu    sync.RWMutex
	byName map[string]reflect.Type
}

var defaultOnce sync.Once
var defaultResolver *Resolver

// Default returns the process-wide resolver seeded with the types
// exprquery recognizes out of the box: the numeric primitives, string,
// bool, time.Time, uuid.UUID (standing in for the host's Guid) and
// decimal.Decimal (standing in for the host's 128-bit decimal).
func Default() *Resolver {
	defaultOnce.Do(func() {
		defaultResolver = New()
		defaultResolver.mustRegister("string", reflect.TypeOf(""))
		defaultResolver.mustRegister("bool", reflect.TypeOf(false))
		defaultResolver.mustRegister("byte", reflect.TypeOf(byte(0)))
		defaultResolver.mustRegister("sbyte", reflect.TypeOf(int8(0)))
		defaultResolver.mustRegister("int16", reflect.TypeOf(int16(0)))
		defaultResolver.mustRegister("uint16", reflect.TypeOf(uint16(0)))
		defaultResolver.mustRegister("int", reflect.TypeOf(int(0)))
		defaultResolver.mustRegister("int32", reflect.TypeOf(int32(0)))
		defaultResolver.mustRegister("uint", reflect.TypeOf(uint(0)))
		defaultResolver.mustRegister("uint32", reflect.TypeOf(uint32(0)))
		defaultResolver.mustRegister("long", reflect.TypeOf(int64(0)))
		defaultResolver.mustRegister("int64", reflect.TypeOf(int64(0)))
		defaultResolver.mustRegister("ulong", reflect.TypeOf(uint64(0)))
		defaultResolver.mustRegister("uint64", reflect.TypeOf(uint64(0)))
		defaultResolver.mustRegister("float", reflect.TypeOf(float32(0)))
		defaultResolver.mustRegister("float32", reflect.TypeOf(float32(0)))
		defaultResolver.mustRegister("double", reflect.TypeOf(float64(0)))
		defaultResolver.mustRegister("float64", reflect.TypeOf(float64(0)))
		defaultResolver.mustRegister("decimal", reflect.TypeOf(decimal.Decimal{}))
		defaultResolver.mustRegister("Guid", reflect.TypeOf(uuid.UUID{}))
		defaultResolver.mustRegister("DateTime", reflect.TypeOf(time.Time{}))
	})
	return defaultResolver
}

// New returns an empty Resolver.
func New() *Resolver {
	return &Resolver{byName: map[string]reflect.Type{}}
}

func (r *Resolver) mustRegister(name string, t reflect.Type) {
	if err := r.Register(name, t); err != nil {
		panic(err)
	}
}

// Register adds a type under the given case-sensitive simple name. Lookup
// is case-insensitive (spec.md §3 invariant: "Case-insensitive matching for
// identifiers"), so Register rejects a name colliding case-insensitively
// with one already registered.
func (r *Resolver) Register(name string, t reflect.Type) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := foldKey(name)
	if _, ok := r.byName[key]; ok {
		return errors.Errorf("type %q already registered", name)
	}
	r.byName[key] = t
	return nil
}

// Lookup resolves name to a recognized type, case-insensitively.
func (r *Resolver) Lookup(name string) (reflect.Type, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.byName[foldKey(name)]
	return t, ok
}

func foldKey(name string) string {
	b := make([]byte, len(name))
	for i := 0; i < len(name); i++ {
		c := name[i]
		if c >= 'A' && c <= 'Z' {
			c += 'a' - 'A'
		}
		b[i] = c
	}
	return string(b)
}
