// Package overload implements the overload resolver (spec.md §4.5): given a
// set of candidate signatures and a vector of argument types, it narrows to
// 0, 1, or "ambiguous" candidates, the same three-way result the parser
// surfaces for method calls and operator signature tables (spec.md §4.7).
// Constructors and indexers are not resolved through it.
//
// Grounded on the teacher's orphaned internal/assemble.Assemble: that
// function walks a fixed set of candidates (the query parts), checks each
// one's applicability against the available type info, and fails with a
// specific, named error the moment no candidate fits. The shape here is the
// same walk generalized to real overload sets and to the "more than one
// fits" case the teacher's single-candidate checks never had to handle.
package overload

import (
	"reflect"

	"github.com/pkg/errors"

	"github.com/exprquery/exprquery/internal/types"
)

// Signature is one candidate's parameter-type vector. Payload carries
// whatever the caller needs back out of a resolved match (a reflect.Method,
// an operator implementation, a constructor function, ...).
type Signature struct {
	Params  []reflect.Type
	Payload any
}

// Result is the overload resolver's three-way outcome.
type Result struct {
	Count     int
	Candidate Signature
}

// None, One, Ambiguous classify a Result.Count.
func (r Result) None() bool      { return r.Count == 0 }
func (r Result) One() bool       { return r.Count == 1 }
func (r Result) Ambiguous() bool { return r.Count > 1 }

// Resolve runs the two-step algorithm of spec.md §4.5 over candidates given
// the static types of the supplied arguments.
func Resolve(candidates []Signature, args []reflect.Type) Result {
	applicable := filterApplicable(candidates, args)
	if len(applicable) == 0 {
		return Result{Count: 0}
	}
	if len(applicable) == 1 {
		return Result{Count: 1, Candidate: applicable[0]}
	}

	best := prune(applicable, args)
	if len(best) == 1 {
		return Result{Count: 1, Candidate: best[0]}
	}
	return Result{Count: len(best)}
}

// filterApplicable keeps candidates with the same arity as args where every
// argument is promotable (non-exact) to the corresponding parameter type.
func filterApplicable(candidates []Signature, args []reflect.Type) []Signature {
	var out []Signature
	for _, c := range candidates {
		if len(c.Params) != len(args) {
			continue
		}
		ok := true
		for i, p := range c.Params {
			if !Promotable(args[i], p) {
				ok = false
				break
			}
		}
		if ok {
			out = append(out, c)
		}
	}
	return out
}

// Promotable reports whether a value of type S can be promoted (spec.md
// §4.6, exact=false) to target type T for overload-applicability purposes:
// identity, numeric widening, non-nullable-to-nullable-of-same, or Go
// assignability (covering interface satisfaction).
func Promotable(s, t reflect.Type) bool {
	if s == t {
		return true
	}
	if types.IsNumeric(s) && types.IsNumeric(t) && types.WidensTo(types.KindOf(s), types.KindOf(t)) {
		return true
	}
	if types.IsNullable(t) {
		if elem, _ := types.Unwrap(t); elem == s {
			return true
		}
		if types.IsNumeric(s) {
			if elem, _ := types.Unwrap(t); types.IsNumeric(elem) && types.WidensTo(types.KindOf(s), types.KindOf(elem)) {
				return true
			}
		}
	}
	if types.AssignableWidening(s, t) {
		return true
	}
	return false
}

// prune applies the "better than or equal on every argument, strictly
// better on at least one" pairwise dominance rule (spec.md §4.5 step 2),
// returning the surviving, pairwise-undominated candidates.
func prune(applicable []Signature, args []reflect.Type) []Signature {
	dominated := make([]bool, len(applicable))
	for i, m := range applicable {
		for j, n := range applicable {
			if i == j {
				continue
			}
			if dominates(n, m, args) && !dominates(m, n, args) {
				dominated[i] = true
				break
			}
		}
	}
	var out []Signature
	for i, m := range applicable {
		if !dominated[i] {
			out = append(out, m)
		}
	}
	return out
}

// dominates reports whether candidate a is better-than-or-equal to b on
// every argument and strictly better on at least one.
func dominates(a, b Signature, args []reflect.Type) bool {
	strictlyBetter := false
	for i := range args {
		cmp := better(args[i], a.Params[i], b.Params[i])
		if cmp < 0 {
			return false
		}
		if cmp > 0 {
			strictlyBetter = true
		}
	}
	return strictlyBetter
}

// better compares target types t1, t2 as conversion targets for source type
// s, per spec.md §4.5 step 2's "better" ordering. Returns 1 if t1 is
// preferred, -1 if t2 is preferred, 0 for a tie.
func better(s, t1, t2 reflect.Type) int {
	if t1 == t2 {
		return 0
	}
	if s == t1 {
		return 1
	}
	if s == t2 {
		return -1
	}
	t1ToT2 := Promotable(t1, t2)
	t2ToT1 := Promotable(t2, t1)
	if t1ToT2 && !t2ToT1 {
		// t1 converts into t2 but not back: t1 is the narrower type.
		return 1
	}
	if t2ToT1 && !t1ToT2 {
		return -1
	}
	if types.IsNumeric(s) && types.IsNumeric(t1) && types.IsNumeric(t2) {
		k1, k2 := types.KindOf(t1), types.KindOf(t2)
		if types.Rank(k1) == types.Rank(k2) {
			if k1.IsSigned() && !k2.IsSigned() {
				return 1
			}
			if k2.IsSigned() && !k1.IsSigned() {
				return -1
			}
		}
	}
	return 0
}

// ErrNoApplicable and ErrAmbiguous are the two named failure shapes every
// call site (method calls, constructors, indexers, operators) wraps with
// its own context, mirroring the teacher's "cannot assemble expression: %s"
// wrapping convention.
var (
	ErrNoApplicable = errors.New("no applicable overload")
	ErrAmbiguous    = errors.New("ambiguous overload")
)
