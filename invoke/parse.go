package invoke

import (
	"fmt"
	"reflect"

	"github.com/brettbedarf/foldertree/modules"
	"gopkg.in/yaml.v3"
)

var stringType = reflect.TypeFor[string]()

// ParseArgument converts user-entered text to the parameter's declared type.
// Strings are taken verbatim; everything else is decoded as YAML, so "42",
// "1.5", "true", "[1, 2]" and "{a: 1}" all work. Parameters of interface
// type get whatever YAML decodes to.
func ParseArgument(param modules.ParamSpec, raw string) (any, error) {
	if param.Type == nil {
		var v any
		if err := yaml.Unmarshal([]byte(raw), &v); err != nil {
			return nil, fmt.Errorf("failed to parse %q: %w", raw, err)
		}
		return v, nil
	}
	if param.Type == stringType {
		return raw, nil
	}

	ptr := reflect.New(param.Type)
	if err := yaml.Unmarshal([]byte(raw), ptr.Interface()); err != nil {
		return nil, fmt.Errorf("failed to parse %q as %s: %w", raw, param.TypeName(), err)
	}
	return ptr.Elem().Interface(), nil
}
