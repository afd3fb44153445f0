package modules

import (
	"errors"
	"fmt"
	"strings"

	"github.com/brettbedarf/foldertree"
	"github.com/brettbedarf/foldertree/config"
	"github.com/brettbedarf/foldertree/internal/util"
	"github.com/google/uuid"
)

// Registry owns at most one active module. Loading a module replaces the
// active one and invalidates every handle derived from it.
//
// NOTE: Registry is not thread-safe; it is driven by a single session
type Registry struct {
	builtins *BuiltinLoader
	shared   Loader
	active   *LoadedModule
}

// NewRegistry routes "builtin:" paths to builtins and everything else to shared.
// Either loader may be nil, in which case paths routed to it fail to load.
func NewRegistry(builtins *BuiltinLoader, shared Loader) *Registry {
	return &Registry{builtins: builtins, shared: shared}
}

// NewRegistryFromConfig wires the default builtin loader and a shared object
// loader looking up cfg.ModuleSymbol
func NewRegistryFromConfig(cfg *config.Config) *Registry {
	return NewRegistry(DefaultBuiltins, &SharedObjectLoader{Symbol: cfg.ModuleSymbol})
}

// Active returns the active module or nil
func (r *Registry) Active() *LoadedModule {
	return r.active
}

// LoadModule loads the module at path and makes it the active one.
// Every failure is a [foldertree.ModuleLoadError]; the previously active
// module stays active when loading fails.
func (r *Registry) LoadModule(path string) (lm *LoadedModule, err error) {
	logger := util.GetLogger("LoadModule")

	defer func() {
		if rec := recover(); rec != nil {
			lm, err = nil, &foldertree.ModuleLoadError{Path: path, Err: fmt.Errorf("panic during load: %v", rec)}
		}
		if err != nil {
			logger.Error().Err(err).Str("path", path).Msg("Failed to load module")
		}
	}()

	m, err := r.loaderFor(path).Load(path)
	if err != nil {
		return nil, &foldertree.ModuleLoadError{Path: path, Err: err}
	}
	lm = &LoadedModule{id: uuid.New(), path: path, module: m}
	seen := make(map[string]struct{})
	for _, spec := range m.Types() {
		if spec.Name == "" {
			return nil, &foldertree.ModuleLoadError{Path: path, Err: errors.New("module declares a type without a name")}
		}
		if _, dup := seen[spec.Name]; dup {
			return nil, &foldertree.ModuleLoadError{Path: path, Err: fmt.Errorf("module declares type %q twice", spec.Name)}
		}
		seen[spec.Name] = struct{}{}
		lm.types = append(lm.types, newCandidateType(lm, spec))
	}

	if r.active != nil {
		logger.Debug().Str("previous", r.active.path).Msg("Replacing active module")
	}
	r.active = lm
	logger.Info().Str("path", path).Str("module", m.Name()).Int("types", len(lm.types)).Msg("Loaded module")
	return lm, nil
}

// ListCandidateTypes returns m's types whose capabilities include marker, in
// declaration order. No qualifying types is an empty result, not an error.
func (r *Registry) ListCandidateTypes(m *LoadedModule, marker string) ([]*CandidateType, error) {
	if err := r.checkActive(m); err != nil {
		return nil, err
	}
	out := make([]*CandidateType, 0, len(m.types))
	for _, t := range m.types {
		if t.HasCapability(marker) {
			out = append(out, t)
		}
	}
	logger := util.GetLogger("ListCandidateTypes")
	logger.Debug().Str("marker", marker).Int("count", len(out)).Msg("Listed candidate types")
	return out, nil
}

// ListOperations returns the public instance-level, non-accessor operations
// of t in declaration order
func (r *Registry) ListOperations(t *CandidateType) ([]*OperationDescriptor, error) {
	if t == nil {
		return nil, &foldertree.MissingSelectionError{Missing: "type"}
	}
	if err := r.checkActive(t.module); err != nil {
		return nil, err
	}
	out := make([]*OperationDescriptor, len(t.ops))
	copy(out, t.ops)
	return out, nil
}

// IsActive reports whether handles derived from m are still valid
func (r *Registry) IsActive(m *LoadedModule) bool {
	return m != nil && m == r.active
}

func (r *Registry) checkActive(m *LoadedModule) error {
	if m == nil {
		return &foldertree.MissingSelectionError{Missing: "module"}
	}
	if m != r.active {
		return fmt.Errorf("module %q: %w", m.path, foldertree.ErrStaleHandle)
	}
	return nil
}

func (r *Registry) loaderFor(path string) Loader {
	if strings.HasPrefix(path, BuiltinScheme) {
		if r.builtins == nil {
			return missingLoader{kind: "builtin"}
		}
		return r.builtins
	}
	if r.shared == nil {
		return missingLoader{kind: "shared object"}
	}
	return r.shared
}

type missingLoader struct{ kind string }

func (l missingLoader) Load(string) (Module, error) {
	return nil, fmt.Errorf("no %s loader configured", l.kind)
}
