package modules

import "reflect"

// Module is implemented by every loadable plugin module
type Module interface {
	// Name identifies the module in logs and messages
	Name() string

	// Types returns the module's exported types in declaration order
	Types() []TypeSpec
}

// TypeSpec describes one exported type of a module
type TypeSpec struct {
	Name         string
	Capabilities []string // Named contracts the type implements, i.e. "INeededInterface"

	// New is the parameterless constructor; nil if the type has none
	New func() (any, error)

	Methods []MethodSpec
}

// MethodSpec describes one callable member of a type
type MethodSpec struct {
	Name   string
	Params []ParamSpec

	Static   bool // Not instance-level; never listed as an operation
	Accessor bool // Synthesized property accessor; never listed as an operation

	// Call invokes the member on instance with one argument per param
	Call func(instance any, args []any) (any, error)
}

// ParamSpec describes one parameter in declaration order
type ParamSpec struct {
	Name       string
	Type       reflect.Type
	Default    any
	HasDefault bool
}

// Arg declares a parameter without a default. The type is filled in by [Method].
func Arg(name string) ParamSpec {
	return ParamSpec{Name: name}
}

// ArgDefault declares a parameter with a default value
func ArgDefault(name string, def any) ParamSpec {
	return ParamSpec{Name: name, Default: def, HasDefault: true}
}

// Initial returns the value an argument slot starts with: the declared
// default, or the zero value of the parameter's type.
func (p ParamSpec) Initial() any {
	if p.HasDefault {
		return p.Default
	}
	if p.Type == nil {
		return nil
	}
	return reflect.Zero(p.Type).Interface()
}

// TypeName returns a printable name for the parameter's declared type
func (p ParamSpec) TypeName() string {
	if p.Type == nil {
		return "any"
	}
	return p.Type.String()
}

// Ctor returns a parameterless constructor producing a new *T
func Ctor[T any]() func() (any, error) {
	return func() (any, error) {
		return new(T), nil
	}
}
