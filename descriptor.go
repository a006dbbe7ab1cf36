package plinth

import (
	"errors"
	"fmt"
	"math"
	"reflect"
)

var (
	errorType     = reflect.TypeOf((*error)(nil)).Elem()
	containerType = reflect.TypeOf((*Container)(nil))
)

// Param describes a declared parameter of a constructor, function or method.
// Go reflection exposes parameter types but not names or default values, so
// these are supplied when a definition is registered.
//
// Example:
//
//	catalog.Define(NewMailer,
//	    plinth.Params(plinth.P("host"), plinth.P("port").Default(25)),
//	)
type Param struct {
	Name         string
	DefaultValue any
	HasDefault   bool
	AllowNull    bool
}

// P starts a parameter description.
func P(name string) Param {
	return Param{Name: name}
}

// Default returns a copy of p with a default value.
func (p Param) Default(value any) Param {
	p.DefaultValue = value
	p.HasDefault = true
	return p
}

// Nullable returns a copy of p that accepts nil when nothing else is available.
func (p Param) Nullable() Param {
	p.AllowNull = true
	return p
}

// paramInfo holds analyzed parameter metadata
type paramInfo struct {
	typ       reflect.Type
	index     int
	name      string
	component bool   // Struct or interface typed, injected by Get
	depName   string // Identifier used for Get when component is true
	nullable  bool
	hasDef    bool
	def       any
}

// signature holds the analyzed parameters of a function type.
type signature struct {
	fnType   reflect.Type
	params   []paramInfo
	variadic bool
}

// analyzeSignature inspects a function type and pairs each parameter with
// the declared metadata, in order.
func analyzeSignature(fnType reflect.Type, declared []Param) (*signature, error) {
	if fnType.Kind() != reflect.Func {
		return nil, errors.New("target must be a function")
	}

	fixed := fnType.NumIn()
	if fnType.IsVariadic() {
		fixed--
	}

	if len(declared) > fixed {
		return nil, fmt.Errorf("%d parameters declared but the function takes %d", len(declared), fixed)
	}

	sig := &signature{
		fnType:   fnType,
		variadic: fnType.IsVariadic(),
		params:   make([]paramInfo, 0, fixed),
	}

	seen := make(map[string]bool, len(declared))

	for i := 0; i < fixed; i++ {
		t := fnType.In(i)
		info := paramInfo{
			typ:      t,
			index:    i,
			nullable: isNullableKind(t),
		}

		if i < len(declared) {
			d := declared[i]
			if d.Name != "" {
				if seen[d.Name] {
					return nil, fmt.Errorf("parameter name %q declared twice", d.Name)
				}
				seen[d.Name] = true
			}

			info.name = d.Name
			info.hasDef = d.HasDefault
			info.def = d.DefaultValue
			info.nullable = info.nullable || d.AllowNull
		}

		if isComponentType(t) {
			info.component = true
			info.depName = typeName(t)
		}

		sig.params = append(sig.params, info)
	}

	return sig, nil
}

// isComponentType reports whether t is class-like: a named struct, a pointer
// to one, or a named interface with methods. Everything else is built-in.
func isComponentType(t reflect.Type) bool {
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	if t.Name() == "" {
		return false
	}

	switch t.Kind() {
	case reflect.Struct:
		return true
	case reflect.Interface:
		return t.NumMethod() > 0
	default:
		return false
	}
}

// isNullableKind reports whether nil is a valid value of t.
func isNullableKind(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return true
	default:
		return false
	}
}

// typeName returns the package-qualified name of t with one pointer level
// stripped, the same way a "?Type" nullability marker is dropped.
func typeName(t reflect.Type) string {
	if t == nil {
		return ""
	}

	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	if t.PkgPath() == "" {
		return t.String()
	}

	return t.PkgPath() + "." + t.Name()
}

// bind turns an argument collection into call values for the signature.
// Parameters not covered by the collection fall back to their default, then
// to nil when nullable.
func (s *signature) bind(owner string, args Args) ([]reflect.Value, error) {
	if args.IsNamed() {
		return s.bindNamed(owner, args)
	}

	return s.bindPositional(owner, args.Values())
}

func (s *signature) bindPositional(owner string, values []any) ([]reflect.Value, error) {
	if len(values) > len(s.params) && !s.variadic {
		return nil, NewConfigurationError(owner,
			fmt.Sprintf("%d arguments given but %d parameters declared", len(values), len(s.params)))
	}

	out := make([]reflect.Value, 0, len(values))

	for i, p := range s.params {
		if i < len(values) {
			v, err := coerce(owner, values[i], p.typ)
			if err != nil {
				return nil, err
			}
			out = append(out, v)

			continue
		}

		v, err := p.fallback(owner)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}

	if s.variadic {
		elem := s.fnType.In(s.fnType.NumIn() - 1).Elem()
		for i := len(s.params); i < len(values); i++ {
			v, err := coerce(owner, values[i], elem)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
	}

	return out, nil
}

func (s *signature) bindNamed(owner string, args Args) ([]reflect.Value, error) {
	known := make(map[string]bool, len(s.params))
	out := make([]reflect.Value, 0, len(s.params))

	for _, p := range s.params {
		if p.name != "" {
			known[p.name] = true
		}

		if raw, ok := args.Lookup(p.name); ok && p.name != "" {
			v, err := coerce(owner, raw, p.typ)
			if err != nil {
				return nil, err
			}
			out = append(out, v)

			continue
		}

		v, err := p.fallback(owner)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}

	for key := range args.named {
		if !known[key] {
			return nil, NewConfigurationError(owner, fmt.Sprintf("unknown named parameter '%s'", key))
		}
	}

	return out, nil
}

// fallback returns the value used when no argument was supplied.
func (p paramInfo) fallback(owner string) (reflect.Value, error) {
	if p.hasDef {
		return coerce(owner, p.def, p.typ)
	}

	if p.nullable {
		return reflect.Zero(p.typ), nil
	}

	return reflect.Value{}, ErrScalarParam(owner, p.index, p.name)
}

// coerce adapts a value to a parameter type. Assignable values pass through,
// pointers are dereferenced into value parameters, numbers convert between
// kinds, and generic slices and string maps are converted element by element.
func coerce(owner string, value any, t reflect.Type) (reflect.Value, error) {
	if value == nil {
		if isNullableKind(t) {
			return reflect.Zero(t), nil
		}
		return reflect.Value{}, ErrTypeMismatch(owner, t, value)
	}

	rv := reflect.ValueOf(value)
	rt := rv.Type()

	switch {
	case rt.AssignableTo(t):
		return rv, nil

	case rt.Kind() == reflect.Ptr && !rv.IsNil() && rt.Elem().AssignableTo(t):
		return rv.Elem(), nil

	case t.Kind() == reflect.Ptr && rt.AssignableTo(t.Elem()):
		ptr := reflect.New(t.Elem())
		ptr.Elem().Set(rv)
		return ptr, nil

	case isNumericKind(rt.Kind()) && isNumericKind(t.Kind()):
		out, ok := convertNumber(rv, t)
		if !ok {
			return reflect.Value{}, ErrTypeMismatch(owner, t, value)
		}
		return out, nil

	case rt.Kind() == reflect.String && t.Kind() == reflect.String:
		return rv.Convert(t), nil

	case rt.Kind() == reflect.Slice && t.Kind() == reflect.Slice:
		out := reflect.MakeSlice(t, 0, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			elem, err := coerce(owner, rv.Index(i).Interface(), t.Elem())
			if err != nil {
				return reflect.Value{}, err
			}
			out = reflect.Append(out, elem)
		}
		return out, nil

	case rt.Kind() == reflect.Map && t.Kind() == reflect.Map &&
		rt.Key().Kind() == reflect.String && t.Key().Kind() == reflect.String:
		out := reflect.MakeMapWithSize(t, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			elem, err := coerce(owner, iter.Value().Interface(), t.Elem())
			if err != nil {
				return reflect.Value{}, err
			}
			out.SetMapIndex(iter.Key().Convert(t.Key()), elem)
		}
		return out, nil
	}

	return reflect.Value{}, ErrTypeMismatch(owner, t, value)
}

// convertNumber converts rv to the numeric type t. It fails when the value
// does not fit t, when a negative value targets an unsigned kind, or when a
// float with a fractional part targets an integer kind.
func convertNumber(rv reflect.Value, t reflect.Type) (reflect.Value, bool) {
	out := reflect.New(t).Elem()

	switch {
	case isIntKind(t.Kind()):
		var n int64
		switch {
		case isIntKind(rv.Kind()):
			n = rv.Int()
		case isUintKind(rv.Kind()):
			u := rv.Uint()
			if u > math.MaxInt64 {
				return reflect.Value{}, false
			}
			n = int64(u)
		default:
			f := rv.Float()
			if f != math.Trunc(f) || f < math.MinInt64 || f >= math.MaxInt64 {
				return reflect.Value{}, false
			}
			n = int64(f)
		}
		if out.OverflowInt(n) {
			return reflect.Value{}, false
		}
		out.SetInt(n)

	case isUintKind(t.Kind()):
		var u uint64
		switch {
		case isIntKind(rv.Kind()):
			n := rv.Int()
			if n < 0 {
				return reflect.Value{}, false
			}
			u = uint64(n)
		case isUintKind(rv.Kind()):
			u = rv.Uint()
		default:
			f := rv.Float()
			if f != math.Trunc(f) || f < 0 || f >= math.MaxUint64 {
				return reflect.Value{}, false
			}
			u = uint64(f)
		}
		if out.OverflowUint(u) {
			return reflect.Value{}, false
		}
		out.SetUint(u)

	default:
		var f float64
		switch {
		case isIntKind(rv.Kind()):
			f = float64(rv.Int())
		case isUintKind(rv.Kind()):
			f = float64(rv.Uint())
		default:
			f = rv.Float()
		}
		if out.OverflowFloat(f) {
			return reflect.Value{}, false
		}
		out.SetFloat(f)
	}

	return out, true
}

func isIntKind(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return true
	default:
		return false
	}
}

func isUintKind(k reflect.Kind) bool {
	switch k {
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return true
	default:
		return false
	}
}

func isNumericKind(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	default:
		return false
	}
}

// callResults unpacks the return values of a reflected call: a trailing error
// is surfaced, no value yields nil, a single value is returned as is, and
// several values are returned as []any.
func callResults(fnType reflect.Type, results []reflect.Value) (any, error) {
	n := fnType.NumOut()
	if n > 0 && fnType.Out(n-1) == errorType {
		if errVal := results[n-1]; !errVal.IsNil() {
			return nil, errVal.Interface().(error)
		}
		results = results[:n-1]
	}

	switch len(results) {
	case 0:
		return nil, nil
	case 1:
		return results[0].Interface(), nil
	default:
		out := make([]any, len(results))
		for i, r := range results {
			out[i] = r.Interface()
		}
		return out, nil
	}
}
