package modules

import (
	"errors"
	"fmt"
	"os"
	"plugin"
	"slices"
	"strings"

	"github.com/puzpuzpuz/xsync/v4"
)

// BuiltinScheme prefixes paths that name a builtin module, i.e. "builtin:sample"
const BuiltinScheme = "builtin:"

// Loader turns a module path into a [Module]
type Loader interface {
	Load(path string) (Module, error)
}

// BuiltinLoader serves modules compiled into the binary, keyed by name
type BuiltinLoader struct {
	factories *xsync.Map[string, func() Module]
}

func NewBuiltinLoader() *BuiltinLoader {
	return &BuiltinLoader{factories: xsync.NewMap[string, func() Module]()}
}

// Register ties a module factory to a name and should be called for each
// builtin module during app init. The first registration of a name wins;
// returns false if name was already taken.
func (l *BuiltinLoader) Register(name string, factory func() Module) bool {
	_, loaded := l.factories.LoadOrStore(name, factory)
	return !loaded
}

// Load accepts "builtin:<name>" or a bare name
func (l *BuiltinLoader) Load(path string) (Module, error) {
	name := strings.TrimPrefix(path, BuiltinScheme)
	factory, ok := l.factories.Load(name)
	if !ok {
		return nil, fmt.Errorf("no builtin module %q", name)
	}
	m := factory()
	if m == nil {
		return nil, fmt.Errorf("builtin module %q factory returned nil", name)
	}
	return m, nil
}

// Names returns the registered module names sorted
func (l *BuiltinLoader) Names() []string {
	names := make([]string, 0, l.factories.Size())
	l.factories.Range(func(name string, _ func() Module) bool {
		names = append(names, name)
		return true
	})
	slices.Sort(names)
	return names
}

// SharedObjectLoader loads Go plugins built with -buildmode=plugin.
// The plugin must export Symbol as a [Module], a pointer to one, or a
// func() Module.
type SharedObjectLoader struct {
	Symbol string
}

func (l *SharedObjectLoader) Load(path string) (Module, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("module path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		return nil, err
	}
	p, err := plugin.Open(path)
	if err != nil {
		return nil, err
	}
	sym, err := p.Lookup(l.Symbol)
	if err != nil {
		return nil, err
	}
	return moduleFromSymbol(l.Symbol, sym)
}

func moduleFromSymbol(name string, sym any) (Module, error) {
	switch v := sym.(type) {
	case *Module:
		if v == nil || *v == nil {
			return nil, fmt.Errorf("symbol %s is nil", name)
		}
		return *v, nil
	case func() Module:
		if m := v(); m != nil {
			return m, nil
		}
		return nil, fmt.Errorf("symbol %s returned nil", name)
	case *func() Module:
		if v == nil || *v == nil {
			return nil, fmt.Errorf("symbol %s is nil", name)
		}
		return moduleFromSymbol(name, *v)
	case Module:
		return v, nil
	default:
		return nil, fmt.Errorf("symbol %s has type %T, want modules.Module", name, sym)
	}
}
