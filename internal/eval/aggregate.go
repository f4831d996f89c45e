package eval

import (
	"reflect"

	"github.com/pkg/errors"

	"github.com/exprquery/exprquery/internal/ast"
	"github.com/exprquery/exprquery/internal/types"
)

// evalAggregate evaluates a recognized sequence operator (spec.md §4.7)
// directly over a slice reflect.Value, standing in for the host's
// enumerable-primitive dispatch (Where/Select/OrderBy* etc. against
// System.Linq.Enumerable). Each element is bound as the shifted `it`
// (parent = the outer it) while Arg is evaluated.
func evalAggregate(n *ast.Aggregate, env *Env) (reflect.Value, error) {
	receiver, err := Eval(n.Receiver, env)
	if err != nil {
		return reflect.Value{}, err
	}

	if n.Op == ast.Contains {
		return evalContains(n, receiver, env)
	}

	elementOf := func(i int) (reflect.Value, error) {
		elem := receiver.Index(i)
		inner := &Env{It: elem, Parent: env.It, Root: env.Root, Named: env.Named}
		if n.Arg == nil {
			return reflect.Value{}, nil
		}
		return Eval(n.Arg, inner)
	}

	switch n.Op {
	case ast.Where:
		return filterSlice(receiver, elementOf)
	case ast.Select:
		return mapSlice(n, receiver, elementOf)
	case ast.Any:
		return existsSlice(receiver, elementOf, true)
	case ast.All:
		return existsSlice(receiver, elementOf, false)
	case ast.Count:
		return reflect.ValueOf(receiver.Len()), nil
	case ast.First, ast.FirstOrDefault:
		return firstSlice(n, receiver, elementOf)
	case ast.Last, ast.LastOrDefault:
		return lastSlice(n, receiver, elementOf)
	case ast.Single, ast.SingleOrDefault:
		return singleSlice(n, receiver, elementOf)
	case ast.Min, ast.Max:
		return minMaxSlice(n, receiver, elementOf)
	case ast.Sum:
		return sumSlice(n, receiver, elementOf)
	case ast.Average:
		return averageSlice(n, receiver, elementOf)
	case ast.OrderBy, ast.OrderByDescending:
		return orderBySlice(n, receiver, elementOf)
	}
	return reflect.Value{}, errors.Errorf("eval: unsupported aggregate operator %s", n.Op)
}

func evalContains(n *ast.Aggregate, receiver reflect.Value, env *Env) (reflect.Value, error) {
	needle, err := Eval(n.Args[0], env)
	if err != nil {
		return reflect.Value{}, err
	}
	for i := 0; i < receiver.Len(); i++ {
		if reflect.DeepEqual(receiver.Index(i).Interface(), needle.Interface()) {
			return reflect.ValueOf(true), nil
		}
	}
	return reflect.ValueOf(false), nil
}

func filterSlice(receiver reflect.Value, pred func(int) (reflect.Value, error)) (reflect.Value, error) {
	out := reflect.MakeSlice(receiver.Type(), 0, receiver.Len())
	for i := 0; i < receiver.Len(); i++ {
		keep, err := pred(i)
		if err != nil {
			return reflect.Value{}, err
		}
		if keep.Bool() {
			out = reflect.Append(out, receiver.Index(i))
		}
	}
	return out, nil
}

func mapSlice(n *ast.Aggregate, receiver reflect.Value, fn func(int) (reflect.Value, error)) (reflect.Value, error) {
	out := reflect.MakeSlice(reflect.SliceOf(n.Arg.Type()), 0, receiver.Len())
	for i := 0; i < receiver.Len(); i++ {
		v, err := fn(i)
		if err != nil {
			return reflect.Value{}, err
		}
		out = reflect.Append(out, v)
	}
	return out, nil
}

func existsSlice(receiver reflect.Value, pred func(int) (reflect.Value, error), isAny bool) (reflect.Value, error) {
	if isAny && receiver.Len() == 0 {
		return reflect.ValueOf(false), nil
	}
	for i := 0; i < receiver.Len(); i++ {
		v, err := pred(i)
		if err != nil {
			return reflect.Value{}, err
		}
		if isAny && v.Bool() {
			return reflect.ValueOf(true), nil
		}
		if !isAny && !v.Bool() {
			return reflect.ValueOf(false), nil
		}
	}
	return reflect.ValueOf(!isAny), nil
}

func firstSlice(n *ast.Aggregate, receiver reflect.Value, pred func(int) (reflect.Value, error)) (reflect.Value, error) {
	for i := 0; i < receiver.Len(); i++ {
		if n.Arg == nil {
			if receiver.Len() == 0 {
				break
			}
			return receiver.Index(0), nil
		}
		ok, err := pred(i)
		if err != nil {
			return reflect.Value{}, err
		}
		if ok.Bool() {
			return receiver.Index(i), nil
		}
	}
	if n.Op == ast.FirstOrDefault {
		return reflect.Zero(receiver.Type().Elem()), nil
	}
	return reflect.Value{}, errors.New("sequence contains no matching element")
}

func lastSlice(n *ast.Aggregate, receiver reflect.Value, pred func(int) (reflect.Value, error)) (reflect.Value, error) {
	for i := receiver.Len() - 1; i >= 0; i-- {
		if n.Arg == nil {
			if receiver.Len() == 0 {
				break
			}
			return receiver.Index(receiver.Len() - 1), nil
		}
		ok, err := pred(i)
		if err != nil {
			return reflect.Value{}, err
		}
		if ok.Bool() {
			return receiver.Index(i), nil
		}
	}
	if n.Op == ast.LastOrDefault {
		return reflect.Zero(receiver.Type().Elem()), nil
	}
	return reflect.Value{}, errors.New("sequence contains no matching element")
}

func singleSlice(n *ast.Aggregate, receiver reflect.Value, pred func(int) (reflect.Value, error)) (reflect.Value, error) {
	var found reflect.Value
	count := 0
	for i := 0; i < receiver.Len(); i++ {
		matched := n.Arg == nil
		if !matched {
			ok, err := pred(i)
			if err != nil {
				return reflect.Value{}, err
			}
			matched = ok.Bool()
		}
		if matched {
			found = receiver.Index(i)
			count++
			if count > 1 {
				return reflect.Value{}, errors.New("sequence contains more than one matching element")
			}
		}
	}
	if count == 0 {
		if n.Op == ast.SingleOrDefault {
			return reflect.Zero(receiver.Type().Elem()), nil
		}
		return reflect.Value{}, errors.New("sequence contains no matching element")
	}
	return found, nil
}

func minMaxSlice(n *ast.Aggregate, receiver reflect.Value, selector func(int) (reflect.Value, error)) (reflect.Value, error) {
	if receiver.Len() == 0 {
		return reflect.Value{}, errors.New("sequence is empty")
	}
	var best reflect.Value
	var bestF float64
	for i := 0; i < receiver.Len(); i++ {
		var v reflect.Value
		var err error
		if n.Arg != nil {
			v, err = selector(i)
		} else {
			v = receiver.Index(i)
		}
		if err != nil {
			return reflect.Value{}, err
		}
		f, ok := types.AsFloat64(v)
		if !ok {
			return reflect.Value{}, errors.Errorf("%s selector produced non-numeric value of type %s", n.Op, v.Type())
		}
		if i == 0 || (n.Op == ast.Min && f < bestF) || (n.Op == ast.Max && f > bestF) {
			best, bestF = v, f
		}
	}
	return best, nil
}

func sumSlice(n *ast.Aggregate, receiver reflect.Value, selector func(int) (reflect.Value, error)) (reflect.Value, error) {
	var total float64
	for i := 0; i < receiver.Len(); i++ {
		var v reflect.Value
		var err error
		if n.Arg != nil {
			v, err = selector(i)
		} else {
			v = receiver.Index(i)
		}
		if err != nil {
			return reflect.Value{}, err
		}
		f, ok := types.AsFloat64(v)
		if !ok {
			return reflect.Value{}, errors.Errorf("Sum selector produced non-numeric value of type %s", v.Type())
		}
		total += f
	}
	return reflect.ValueOf(total), nil
}

func averageSlice(n *ast.Aggregate, receiver reflect.Value, selector func(int) (reflect.Value, error)) (reflect.Value, error) {
	if receiver.Len() == 0 {
		return reflect.Value{}, errors.New("sequence is empty")
	}
	sum, err := sumSlice(n, receiver, selector)
	if err != nil {
		return reflect.Value{}, err
	}
	return reflect.ValueOf(sum.Float() / float64(receiver.Len())), nil
}

func orderBySlice(n *ast.Aggregate, receiver reflect.Value, selector func(int) (reflect.Value, error)) (reflect.Value, error) {
	length := receiver.Len()
	keys := make([]float64, length)
	idx := make([]int, length)
	for i := 0; i < length; i++ {
		v, err := selector(i)
		if err != nil {
			return reflect.Value{}, err
		}
		f, ok := types.AsFloat64(v)
		if !ok {
			return reflect.Value{}, errors.Errorf("ordering selector produced non-numeric value of type %s", v.Type())
		}
		keys[i] = f
		idx[i] = i
	}
	for i := 1; i < length; i++ {
		for j := i; j > 0; j-- {
			less := keys[idx[j]] < keys[idx[j-1]]
			if n.Op == ast.OrderByDescending {
				less = keys[idx[j]] > keys[idx[j-1]]
			}
			if !less {
				break
			}
			idx[j], idx[j-1] = idx[j-1], idx[j]
		}
	}
	out := reflect.MakeSlice(receiver.Type(), length, length)
	for i, srcIdx := range idx {
		out.Index(i).Set(receiver.Index(srcIdx))
	}
	return out, nil
}
