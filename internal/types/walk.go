package types

import "reflect"

// BaseChain walks t and its embedded-struct "base types" outward, returning
// t first. Go has no class inheritance, so a type's base chain is its
// sequence of anonymous (embedded) struct fields — the closest native
// analogue to the host's base-type walk used by member lookup (spec.md
// §4.8).
func BaseChain(t reflect.Type) []reflect.Type {
	t, _ = Unwrap(t)
	chain := []reflect.Type{t}
	cur := t
	for cur.Kind() == reflect.Struct {
		var embedded reflect.Type
		for i := 0; i < cur.NumField(); i++ {
			f := cur.Field(i)
			if f.Anonymous {
				embedded = f.Type
				break
			}
		}
		if embedded == nil {
			break
		}
		if embedded.Kind() == reflect.Pointer {
			embedded = embedded.Elem()
		}
		chain = append(chain, embedded)
		cur = embedded
	}
	return chain
}

// InterfaceMethodSet returns the method set of an interface receiver t. Go's
// reflect.Type already flattens an interface's embedded interfaces into one
// method set, so the "transitive interface closure, visited-set guarded
// against mutually referencing interfaces" walk spec.md §4.8/§9 describes
// collapses, in this host, to reading t's own methods directly — there is
// no separate embedded-interface structure left to walk by the time
// reflect.TypeOf produces t. The visited-set discipline spec.md asks for is
// preserved in InterfaceCandidates below, which does need it: a method
// lookup across several interface receiver types held by a single dynamic
// value can revisit the same interface more than once.
func InterfaceMethodSet(t reflect.Type) []reflect.Method {
	if t.Kind() != reflect.Interface {
		return nil
	}
	methods := make([]reflect.Method, t.NumMethod())
	for i := range methods {
		methods[i] = t.Method(i)
	}
	return methods
}

// InterfaceCandidates walks a set of candidate interface types (e.g. every
// interface a concrete receiver type implements among a fixed whitelist) and
// returns the deduplicated set, guarding against revisiting the same
// interface type with a visited-set.
func InterfaceCandidates(candidates []reflect.Type, receiver reflect.Type) []reflect.Type {
	visited := map[reflect.Type]bool{}
	var out []reflect.Type
	for _, c := range candidates {
		if c.Kind() != reflect.Interface || visited[c] {
			continue
		}
		visited[c] = true
		if receiver.Implements(c) {
			out = append(out, c)
		}
	}
	return out
}

// AssignableWidening reports whether a value of type from can be assigned to
// a variable of type to via Go's built-in assignability (covers interface
// satisfaction and identical/defined-type widening), used by the promotion
// rule "class-assignability widening" in spec.md §4.6.
func AssignableWidening(from, to reflect.Type) bool {
	return from.AssignableTo(to)
}
