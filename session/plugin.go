package session

import (
	"fmt"

	"github.com/brettbedarf/foldertree"
	"github.com/brettbedarf/foldertree/internal/util"
	"github.com/brettbedarf/foldertree/invoke"
	"github.com/brettbedarf/foldertree/modules"
)

// State is a step of the plugin state machine
type State int

const (
	NoModule State = iota
	ModuleLoaded
	TypeSelected
	OperationSelected
	ArgumentsBound
	Invoked
)

func (s State) String() string {
	switch s {
	case NoModule:
		return "NoModule"
	case ModuleLoaded:
		return "ModuleLoaded"
	case TypeSelected:
		return "TypeSelected"
	case OperationSelected:
		return "OperationSelected"
	case ArgumentsBound:
		return "ArgumentsBound"
	case Invoked:
		return "Invoked"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

func (s *Session) State() State { return s.state }

func (s *Session) Module() *modules.LoadedModule { return s.module }

// Types returns the candidate types of the loaded module, i.e. those carrying
// the configured marker capability
func (s *Session) Types() []*modules.CandidateType { return s.types }

func (s *Session) SelectedType() *modules.CandidateType { return s.typ }

// Operations returns the operations of the selected type
func (s *Session) Operations() []*modules.OperationDescriptor { return s.ops }

func (s *Session) Pending() *invoke.PendingInvocation { return s.pending }

// LastResult returns the outcome of the most recent invocation
func (s *Session) LastResult() (any, error) { return s.result, s.lastErr }

// LoadModule loads the module at path and lists its candidate types.
// On failure the session keeps its previous module and selections.
func (s *Session) LoadModule(path string) (*modules.LoadedModule, error) {
	lm, err := s.registry.LoadModule(path)
	if err != nil {
		return nil, err
	}
	types, err := s.registry.ListCandidateTypes(lm, s.cfg.MarkerCapability)
	if err != nil {
		return nil, err
	}

	s.module, s.types = lm, types
	s.resetType()
	s.state = ModuleLoaded
	logger := util.GetLogger("Session")
	logger.Info().
		Str("module", lm.Name()).
		Str("marker", s.cfg.MarkerCapability).
		Int("candidates", len(types)).
		Msg("Module ready")
	for _, o := range s.observers {
		o.ModuleLoaded(lm)
	}
	return lm, nil
}

// SelectType selects a candidate type by name, which discards any selected
// operation and bound arguments
func (s *Session) SelectType(name string) error {
	if s.module == nil {
		return &foldertree.MissingSelectionError{Missing: "module"}
	}
	for _, t := range s.types {
		if t.Name() != name {
			continue
		}
		ops, err := s.registry.ListOperations(t)
		if err != nil {
			return err
		}
		s.resetType()
		s.typ, s.ops = t, ops
		s.state = TypeSelected
		return nil
	}
	return fmt.Errorf("module %q has no candidate type %q", s.module.Name(), name)
}

// SelectOperation selects an operation of the selected type by name and
// prepares its argument slots, discarding previously bound arguments
func (s *Session) SelectOperation(name string) error {
	if s.typ == nil {
		return &foldertree.MissingSelectionError{Missing: "type"}
	}
	for _, op := range s.ops {
		if op.Name() != name {
			continue
		}
		p, err := invoke.Prepare(s.typ, op)
		if err != nil {
			return err
		}
		s.pending = p
		s.result, s.lastErr = nil, nil
		s.state = OperationSelected
		return nil
	}
	return fmt.Errorf("type %q has no operation %q", s.typ.Name(), name)
}

// SetArgument binds v to argument slot i of the selected operation
func (s *Session) SetArgument(i int, v any) error {
	if s.pending == nil {
		return &foldertree.MissingSelectionError{Missing: "operation"}
	}
	if err := s.pending.SetArgument(i, v); err != nil {
		return err
	}
	s.state = ArgumentsBound
	return nil
}

// SetArgumentText parses raw as slot i's declared type and binds it
func (s *Session) SetArgumentText(i int, raw string) error {
	if s.pending == nil {
		return &foldertree.MissingSelectionError{Missing: "operation"}
	}
	params := s.pending.Operation().Params()
	if i < 0 || i >= len(params) {
		return &foldertree.IndexOutOfRangeError{Index: i, Len: len(params)}
	}
	v, err := invoke.ParseArgument(params[i], raw)
	if err != nil {
		return fmt.Errorf("argument %s: %w", params[i].Name, err)
	}
	return s.SetArgument(i, v)
}

// Invoke runs the selected operation with the bound arguments. Every outcome
// is reported to observers. The selection and bound arguments survive a
// failure so the caller can correct and retry.
func (s *Session) Invoke() (any, error) {
	if err := s.checkInvocable(); err != nil {
		s.notifyInvocationFailed(err)
		return nil, err
	}

	result, err := s.pending.Invoke()
	s.result, s.lastErr = result, err
	s.state = Invoked
	if err != nil {
		s.notifyInvocationFailed(err)
		return nil, err
	}
	for _, o := range s.observers {
		o.InvocationCompleted(s.pending, result)
	}
	return result, nil
}

func (s *Session) checkInvocable() error {
	if s.pending == nil {
		return &foldertree.MissingSelectionError{Missing: "operation"}
	}
	if !s.registry.IsActive(s.module) {
		return fmt.Errorf("type %q: %w", s.typ.Name(), foldertree.ErrStaleHandle)
	}
	return nil
}

// notifyInvocationFailed reports err to observers; the pending invocation is
// nil when no operation was selected
func (s *Session) notifyInvocationFailed(err error) {
	for _, o := range s.observers {
		o.InvocationFailed(s.pending, err)
	}
}

func (s *Session) resetType() {
	s.typ, s.ops, s.pending = nil, nil, nil
	s.result, s.lastErr = nil, nil
}
