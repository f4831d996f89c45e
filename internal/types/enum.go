package types

import (
	"reflect"
	"strings"
	"sync"
)

// EnumRegistry maps enum types to their case-insensitive member name→value
// table. Go has no runtime reflection over named integer constants (unlike
// the host's Enum.Parse/Enum.GetValues), so callers that want string-literal
// promotion or named-member lookup against an enum type (spec.md §4.6,
// §4.7) must register its members explicitly.
//
// Grounded on internal/types/resolver.go's Resolver: the same
// mutex-protected, immutable-after-population, case-folding-key shape,
// applied to enum member tables instead of a type-name whitelist.
type EnumRegistry struct {
	mu      sync.RWMutex
	members map[reflect.Type]map[string]int64
}

// NewEnumRegistry returns an empty EnumRegistry.
func NewEnumRegistry() *EnumRegistry {
	return &EnumRegistry{members: map[reflect.Type]map[string]int64{}}
}

var (
	defaultEnumsOnce sync.Once
	defaultEnums     *EnumRegistry
)

// DefaultEnums returns the process-wide enum registry, created empty on
// first use. Callers register their enum types against it before parsing
// expression text that references enum member names.
func DefaultEnums() *EnumRegistry {
	defaultEnumsOnce.Do(func() { defaultEnums = NewEnumRegistry() })
	return defaultEnums
}

// Register records t's member name→value table. Member names are matched
// case-insensitively (spec.md §4.6: "if the text names a member of T
// case-insensitively"). A second Register for the same type replaces its
// table.
func (r *EnumRegistry) Register(t reflect.Type, members map[string]int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m := make(map[string]int64, len(members))
	for name, v := range members {
		m[strings.ToLower(name)] = v
	}
	r.members[t] = m
}

// Member looks up name against t's registered member table, case-
// insensitively. ok is false if t is unregistered or has no such member.
func (r *EnumRegistry) Member(t reflect.Type, name string) (int64, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.members[t]
	if !ok {
		return 0, false
	}
	v, ok := m[strings.ToLower(name)]
	return v, ok
}

// IsEnum reports whether t is a user-defined named integer type, e.g.
// `type Status int32`, as opposed to one of Go's bare predefined numeric
// types (which share the same reflect.Kind but have an empty PkgPath).
func IsEnum(t reflect.Type) bool {
	if t == nil {
		return false
	}
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return t.PkgPath() != ""
	}
	return false
}
