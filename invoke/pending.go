// Package invoke binds arguments to an operation of a loaded plugin type and
// invokes it on a fresh instance.
package invoke

import (
	"errors"
	"fmt"
	"slices"

	"github.com/brettbedarf/foldertree"
	"github.com/brettbedarf/foldertree/internal/util"
	"github.com/brettbedarf/foldertree/modules"
)

// PendingInvocation is a selected operation with its argument slots.
// It can be invoked any number of times; slots keep their values between calls.
type PendingInvocation struct {
	typ  *modules.CandidateType
	op   *modules.OperationDescriptor
	args []any
}

// Prepare creates a PendingInvocation with each slot holding the parameter's
// default value, or the zero value of its type if it has none
func Prepare(t *modules.CandidateType, op *modules.OperationDescriptor) (*PendingInvocation, error) {
	if t == nil {
		return nil, &foldertree.MissingSelectionError{Missing: "type"}
	}
	if op == nil {
		return nil, &foldertree.MissingSelectionError{Missing: "operation"}
	}
	if op.Owner() != t {
		return nil, fmt.Errorf("operation %s does not belong to type %s", op.Name(), t.Name())
	}

	params := op.Params()
	args := make([]any, len(params))
	for i, p := range params {
		args[i] = p.Initial()
	}
	return &PendingInvocation{typ: t, op: op, args: args}, nil
}

func (p *PendingInvocation) Type() *modules.CandidateType { return p.typ }

func (p *PendingInvocation) Operation() *modules.OperationDescriptor { return p.op }

// Args returns the bound arguments in a new slice
func (p *PendingInvocation) Args() []any {
	return slices.Clone(p.args)
}

// SetArgument overwrites slot i. Types are not checked until [PendingInvocation.Invoke].
func (p *PendingInvocation) SetArgument(i int, v any) error {
	if i < 0 || i >= len(p.args) {
		return &foldertree.IndexOutOfRangeError{Index: i, Len: len(p.args)}
	}
	p.args[i] = v
	return nil
}

// Invoke constructs a new instance of the type and calls the operation on it
// with the bound arguments. Construction failures are
// [foldertree.InstantiationError]s; anything going wrong during the call is an
// [foldertree.InvocationError].
func (p *PendingInvocation) Invoke() (any, error) {
	logger := util.GetLogger("Invoke").With().
		Str("type", p.typ.Name()).
		Str("op", p.op.Name()).
		Logger()

	instance, err := p.instantiate()
	if err != nil {
		logger.Error().Err(err).Msg("Failed to instantiate type")
		return nil, err
	}

	result, err := p.call(instance)
	if err != nil {
		logger.Error().Err(err).Msg("Invocation failed")
		return nil, err
	}
	logger.Debug().Interface("result", result).Msg("Invocation completed")
	return result, nil
}

func (p *PendingInvocation) instantiate() (instance any, err error) {
	if !p.typ.Instantiable() {
		return nil, &foldertree.InstantiationError{Type: p.typ.Name(), Err: errors.New("no parameterless constructor")}
	}
	defer func() {
		if rec := recover(); rec != nil {
			instance, err = nil, &foldertree.InstantiationError{Type: p.typ.Name(), Err: fmt.Errorf("panic in constructor: %v", rec)}
		}
	}()
	instance, err = p.typ.New()
	if err != nil {
		return nil, &foldertree.InstantiationError{Type: p.typ.Name(), Err: err}
	}
	return instance, nil
}

func (p *PendingInvocation) call(instance any) (result any, err error) {
	wrap := func(cause error) error {
		return &foldertree.InvocationError{Type: p.typ.Name(), Operation: p.op.Name(), Err: cause}
	}
	if instance == nil {
		return nil, wrap(modules.ErrNilInstance)
	}
	defer func() {
		if rec := recover(); rec != nil {
			result, err = nil, wrap(fmt.Errorf("panic in operation: %v", rec))
		}
	}()
	result, err = p.op.Call(instance, p.Args())
	if err != nil {
		return nil, wrap(err)
	}
	return result, nil
}
