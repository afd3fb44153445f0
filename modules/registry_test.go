package modules_test

import (
	"errors"
	"testing"

	"github.com/brettbedarf/foldertree"
	"github.com/brettbedarf/foldertree/config"
	"github.com/brettbedarf/foldertree/internal/mocks"
	"github.com/brettbedarf/foldertree/modules"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const marker = config.DefaultMarkerCapability

func createSampleRegistry(t *testing.T) (*modules.Registry, *modules.LoadedModule) {
	t.Helper()
	builtins := modules.NewBuiltinLoader()
	builtins.Register(modules.SampleModuleName, modules.SampleModule)
	r := modules.NewRegistry(builtins, nil)
	lm, err := r.LoadModule(modules.BuiltinScheme + modules.SampleModuleName)
	require.NoError(t, err)
	return r, lm
}

func typeNames(types []*modules.CandidateType) []string {
	names := make([]string, len(types))
	for i, ct := range types {
		names[i] = ct.Name()
	}
	return names
}

func opNames(ops []*modules.OperationDescriptor) []string {
	names := make([]string, len(ops))
	for i, op := range ops {
		names[i] = op.Name()
	}
	return names
}

func TestRegistry_LoadModule(t *testing.T) {
	t.Parallel()

	r, lm := createSampleRegistry(t)

	assert.Same(t, lm, r.Active())
	assert.True(t, r.IsActive(lm))
	assert.Equal(t, modules.SampleModuleName, lm.Name())
	assert.Equal(t, "builtin:sample", lm.Path())
}

func TestRegistry_ListCandidateTypes(t *testing.T) {
	t.Parallel()

	r, lm := createSampleRegistry(t)

	types, err := r.ListCandidateTypes(lm, marker)

	require.NoError(t, err)
	assert.Equal(t, []string{"Calculator", "Greeter"}, typeNames(types))
	for _, ct := range types {
		assert.Same(t, lm, ct.Module())
		assert.True(t, ct.HasCapability(marker))
	}
}

func TestRegistry_ListCandidateTypes_Empty(t *testing.T) {
	t.Parallel()

	r, lm := createSampleRegistry(t)

	types, err := r.ListCandidateTypes(lm, "IUnknownInterface")

	require.NoError(t, err)
	assert.NotNil(t, types)
	assert.Empty(t, types)
}

func TestRegistry_ListOperations(t *testing.T) {
	t.Parallel()

	r, lm := createSampleRegistry(t)
	types, err := r.ListCandidateTypes(lm, marker)
	require.NoError(t, err)

	tests := []struct {
		typ  *modules.CandidateType
		want []string
	}{
		// GetPrecision is an accessor and Version is static
		{typ: types[0], want: []string{"Add", "Multiply", "Divide"}},
		{typ: types[1], want: []string{"Greet", "Repeat"}},
	}

	for _, tt := range tests {
		t.Run(tt.typ.Name(), func(t *testing.T) {
			t.Parallel()
			ops, err := r.ListOperations(tt.typ)
			require.NoError(t, err)
			assert.Equal(t, tt.want, opNames(ops))
			for _, op := range ops {
				assert.Same(t, tt.typ, op.Owner())
			}
		})
	}
}

func TestRegistry_ListOperations_ParamSpecs(t *testing.T) {
	t.Parallel()

	r, lm := createSampleRegistry(t)
	types, err := r.ListCandidateTypes(lm, marker)
	require.NoError(t, err)
	ops, err := r.ListOperations(types[1])
	require.NoError(t, err)

	repeat := ops[1]
	params := repeat.Params()
	require.Equal(t, 3, repeat.ParamCount())
	assert.Equal(t, "text", params[0].Name)
	assert.False(t, params[0].HasDefault)
	assert.Equal(t, "times", params[1].Name)
	assert.Equal(t, 2, params[1].Default)
	assert.Equal(t, "int", params[1].TypeName())
	assert.Equal(t, " ", params[2].Default)
}

func TestRegistry_ListOperations_NilType(t *testing.T) {
	t.Parallel()

	r, _ := createSampleRegistry(t)

	_, err := r.ListOperations(nil)

	var missing *foldertree.MissingSelectionError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "type", missing.Missing)
}

func TestRegistry_ReloadInvalidatesHandles(t *testing.T) {
	t.Parallel()

	r, old := createSampleRegistry(t)
	oldTypes, err := r.ListCandidateTypes(old, marker)
	require.NoError(t, err)

	fresh, err := r.LoadModule(modules.BuiltinScheme + modules.SampleModuleName)
	require.NoError(t, err)

	assert.NotSame(t, old, fresh)
	assert.False(t, r.IsActive(old))
	_, err = r.ListCandidateTypes(old, marker)
	assert.ErrorIs(t, err, foldertree.ErrStaleHandle)
	_, err = r.ListOperations(oldTypes[0])
	assert.ErrorIs(t, err, foldertree.ErrStaleHandle)
}

func TestRegistry_NilModuleHandle(t *testing.T) {
	t.Parallel()

	r, _ := createSampleRegistry(t)

	_, err := r.ListCandidateTypes(nil, marker)

	var missing *foldertree.MissingSelectionError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "module", missing.Missing)
}

func TestRegistry_LoadModule_Failures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		setup func(l *mocks.MockLoader)
	}{
		{
			name: "loader error",
			setup: func(l *mocks.MockLoader) {
				l.On("Load", "bad.so").Return(nil, errors.New("invalid ELF header"))
			},
		},
		{
			name: "loader panic",
			setup: func(l *mocks.MockLoader) {
				l.On("Load", "bad.so").Return(func(string) modules.Module { panic("corrupt") }, nil)
			},
		},
		{
			name: "types panic",
			setup: func(l *mocks.MockLoader) {
				m := &mocks.MockModule{}
				m.On("Types").Return(func() []modules.TypeSpec { panic("init failed") })
				l.On("Load", "bad.so").Return(m, nil)
			},
		},
		{
			name: "unnamed type",
			setup: func(l *mocks.MockLoader) {
				m := &mocks.MockModule{}
				m.On("Types").Return([]modules.TypeSpec{{Name: ""}})
				l.On("Load", "bad.so").Return(m, nil)
			},
		},
		{
			name: "duplicate type",
			setup: func(l *mocks.MockLoader) {
				m := &mocks.MockModule{}
				m.On("Types").Return([]modules.TypeSpec{{Name: "A"}, {Name: "A"}})
				l.On("Load", "bad.so").Return(m, nil)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			builtins := modules.NewBuiltinLoader()
			builtins.Register(modules.SampleModuleName, modules.SampleModule)
			shared := &mocks.MockLoader{}
			tt.setup(shared)
			r := modules.NewRegistry(builtins, shared)
			prev, err := r.LoadModule("builtin:sample")
			require.NoError(t, err)

			lm, err := r.LoadModule("bad.so")

			assert.Nil(t, lm)
			var loadErr *foldertree.ModuleLoadError
			require.ErrorAs(t, err, &loadErr)
			assert.Equal(t, "bad.so", loadErr.Path)
			assert.NotNil(t, loadErr.Err)
			// Previous module stays usable
			assert.Same(t, prev, r.Active())
			_, err = r.ListCandidateTypes(prev, marker)
			assert.NoError(t, err)
			shared.AssertExpectations(t)
		})
	}
}

func TestRegistry_LoadModule_SharedObjectErrors(t *testing.T) {
	t.Parallel()

	r := modules.NewRegistryFromConfig(config.NewDefaultConfig())

	for _, path := range []string{"", "/nonexistent/module.so"} {
		lm, err := r.LoadModule(path)
		assert.Nil(t, lm)
		var loadErr *foldertree.ModuleLoadError
		assert.ErrorAs(t, err, &loadErr)
	}
	assert.Nil(t, r.Active())
}

func TestRegistry_LoadModule_MissingLoaders(t *testing.T) {
	t.Parallel()

	r := modules.NewRegistry(nil, nil)

	for _, path := range []string{"builtin:sample", "plugin.so"} {
		_, err := r.LoadModule(path)
		var loadErr *foldertree.ModuleLoadError
		assert.ErrorAs(t, err, &loadErr)
	}
}

func TestRegistry_LoadModule_UsesSharedLoader(t *testing.T) {
	t.Parallel()

	module := &mocks.MockModule{}
	module.On("Name").Return("mocked")
	module.On("Types").Return([]modules.TypeSpec{{Name: "Only", Capabilities: []string{marker}}})
	shared := &mocks.MockLoader{}
	shared.On("Load", mock.AnythingOfType("string")).Return(module, nil)
	r := modules.NewRegistry(modules.NewBuiltinLoader(), shared)

	lm, err := r.LoadModule("./plugins/sample.so")

	require.NoError(t, err)
	assert.Equal(t, "mocked", lm.Name())
	types, err := r.ListCandidateTypes(lm, marker)
	require.NoError(t, err)
	assert.Equal(t, []string{"Only"}, typeNames(types))
	ops, err := r.ListOperations(types[0])
	require.NoError(t, err)
	assert.Empty(t, ops)
	shared.AssertExpectations(t)
	module.AssertExpectations(t)
}
