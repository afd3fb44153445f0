package modules

import (
	"go/token"
	"slices"

	"github.com/google/uuid"
)

// LoadedModule is the handle for a module loaded by a [Registry].
// It stays valid until the registry loads another module.
type LoadedModule struct {
	id     uuid.UUID
	path   string
	module Module
	types  []*CandidateType
}

func (m *LoadedModule) ID() uuid.UUID { return m.id }

// Path returns the path the module was loaded from
func (m *LoadedModule) Path() string { return m.path }

func (m *LoadedModule) Name() string { return m.module.Name() }

// CandidateType describes one type of a loaded module
type CandidateType struct {
	module *LoadedModule
	spec   TypeSpec
	ops    []*OperationDescriptor
}

func newCandidateType(m *LoadedModule, spec TypeSpec) *CandidateType {
	t := &CandidateType{module: m, spec: spec}
	for _, ms := range spec.Methods {
		if !isOperation(ms) {
			continue
		}
		t.ops = append(t.ops, &OperationDescriptor{owner: t, spec: ms})
	}
	return t
}

// isOperation keeps public instance-level members that are not synthesized accessors
func isOperation(ms MethodSpec) bool {
	return token.IsExported(ms.Name) && !ms.Static && !ms.Accessor && ms.Call != nil
}

func (t *CandidateType) Name() string { return t.spec.Name }

// Module returns the module the type was discovered in
func (t *CandidateType) Module() *LoadedModule { return t.module }

// Capabilities returns the declared capability names in a new slice
func (t *CandidateType) Capabilities() []string {
	return slices.Clone(t.spec.Capabilities)
}

func (t *CandidateType) HasCapability(capability string) bool {
	return slices.Contains(t.spec.Capabilities, capability)
}

// Instantiable reports whether the type has a parameterless constructor
func (t *CandidateType) Instantiable() bool {
	return t.spec.New != nil
}

// New runs the parameterless constructor. Callers check [CandidateType.Instantiable] first.
func (t *CandidateType) New() (any, error) {
	return t.spec.New()
}

// OperationDescriptor describes one callable operation of a [CandidateType]
type OperationDescriptor struct {
	owner *CandidateType
	spec  MethodSpec
}

func (o *OperationDescriptor) Name() string { return o.spec.Name }

// Owner returns the type that declares the operation
func (o *OperationDescriptor) Owner() *CandidateType { return o.owner }

// Params returns the parameter specs in declaration order in a new slice
func (o *OperationDescriptor) Params() []ParamSpec {
	return slices.Clone(o.spec.Params)
}

func (o *OperationDescriptor) ParamCount() int {
	return len(o.spec.Params)
}

// Call invokes the operation on instance. See [MethodSpec.Call].
func (o *OperationDescriptor) Call(instance any, args []any) (any, error) {
	return o.spec.Call(instance, args)
}
