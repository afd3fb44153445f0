package modules

import (
	"errors"
	"fmt"
	"reflect"
)

var (
	// ErrArgumentMismatch is returned when an argument does not fit its parameter
	ErrArgumentMismatch = errors.New("argument type mismatch")

	// ErrNilInstance is returned when an operation is called without an instance
	ErrNilInstance = errors.New("nil instance")
)

var errorType = reflect.TypeFor[error]()

// Method builds a [MethodSpec] from a method expression such as (*Calculator).Add.
//
// The first parameter of fn is the receiver. fn may return nothing, a value,
// an error, or a value and an error. params name the remaining parameters in
// order and may carry defaults; unnamed parameters are called arg0, arg1, ...
// Parameter types always come from fn.
func Method(name string, fn any, params ...ParamSpec) (MethodSpec, error) {
	fv := reflect.ValueOf(fn)
	if fv.Kind() != reflect.Func {
		return MethodSpec{}, fmt.Errorf("method %s: expected a func, got %T", name, fn)
	}
	ft := fv.Type()
	if ft.NumIn() < 1 {
		return MethodSpec{}, fmt.Errorf("method %s: func has no receiver parameter", name)
	}
	if ft.IsVariadic() {
		return MethodSpec{}, fmt.Errorf("method %s: variadic funcs are not supported", name)
	}
	if err := checkResults(ft); err != nil {
		return MethodSpec{}, fmt.Errorf("method %s: %w", name, err)
	}
	nparams := ft.NumIn() - 1
	if len(params) > nparams {
		return MethodSpec{}, fmt.Errorf("method %s: %d params declared for %d parameters", name, len(params), nparams)
	}

	specs := make([]ParamSpec, nparams)
	for i := range nparams {
		p := ParamSpec{Name: fmt.Sprintf("arg%d", i)}
		if i < len(params) {
			p = params[i]
		}
		p.Type = ft.In(i + 1)
		if p.HasDefault {
			if _, err := argValue(p.Default, p.Type); err != nil {
				return MethodSpec{}, fmt.Errorf("method %s: default for %s: %w", name, p.Name, err)
			}
		}
		specs[i] = p
	}

	recvType := ft.In(0)
	call := func(instance any, args []any) (any, error) {
		if instance == nil {
			return nil, ErrNilInstance
		}
		recv := reflect.ValueOf(instance)
		if !recv.Type().AssignableTo(recvType) {
			return nil, fmt.Errorf("receiver %T is not %s: %w", instance, recvType, ErrArgumentMismatch)
		}
		if recv.Kind() == reflect.Pointer && recv.IsNil() {
			return nil, ErrNilInstance
		}
		if err := CheckArgs(specs, args); err != nil {
			return nil, err
		}
		in := make([]reflect.Value, 0, len(args)+1)
		in = append(in, recv)
		for i, a := range args {
			v, _ := argValue(a, specs[i].Type)
			in = append(in, v)
		}
		return unpackResults(fv.Call(in))
	}

	return MethodSpec{Name: name, Params: specs, Call: call}, nil
}

// MustMethod is [Method] for static declarations; it panics on error
func MustMethod(name string, fn any, params ...ParamSpec) MethodSpec {
	m, err := Method(name, fn, params...)
	if err != nil {
		panic(err)
	}
	return m
}

// CheckArgs verifies that args has one assignable value per param.
// nil is accepted for parameters whose type can hold nil.
func CheckArgs(params []ParamSpec, args []any) error {
	if len(args) != len(params) {
		return fmt.Errorf("expected %d arguments, got %d: %w", len(params), len(args), ErrArgumentMismatch)
	}
	for i, p := range params {
		if p.Type == nil {
			continue
		}
		if _, err := argValue(args[i], p.Type); err != nil {
			return fmt.Errorf("argument %d (%s): %w", i, p.Name, err)
		}
	}
	return nil
}

func argValue(a any, t reflect.Type) (reflect.Value, error) {
	if a == nil {
		if nilable(t) {
			return reflect.Zero(t), nil
		}
		return reflect.Value{}, fmt.Errorf("cannot use nil as %s: %w", t, ErrArgumentMismatch)
	}
	v := reflect.ValueOf(a)
	if !v.Type().AssignableTo(t) {
		return reflect.Value{}, fmt.Errorf("cannot use %T as %s: %w", a, t, ErrArgumentMismatch)
	}
	return v, nil
}

func nilable(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return true
	}
	return false
}

func checkResults(ft reflect.Type) error {
	switch ft.NumOut() {
	case 0, 1:
		return nil
	case 2:
		if ft.Out(1) != errorType {
			return fmt.Errorf("second result must be error, got %s", ft.Out(1))
		}
		return nil
	default:
		return fmt.Errorf("at most 2 results supported, got %d", ft.NumOut())
	}
}

func unpackResults(out []reflect.Value) (any, error) {
	switch len(out) {
	case 0:
		return nil, nil
	case 1:
		if out[0].Type() == errorType {
			err, _ := out[0].Interface().(error)
			return nil, err
		}
		return out[0].Interface(), nil
	default:
		err, _ := out[1].Interface().(error)
		if err != nil {
			return nil, err
		}
		return out[0].Interface(), nil
	}
}
