package mocks

import (
	"github.com/brettbedarf/foldertree/modules"
	"github.com/stretchr/testify/mock"
)

// MockModule implements modules.Module for testing across packages
type MockModule struct {
	mock.Mock
}

func (m *MockModule) Name() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockModule) Types() []modules.TypeSpec {
	args := m.Called()

	// Handle function return types (for modules that panic or change between calls)
	if fn, ok := args.Get(0).(func() []modules.TypeSpec); ok {
		return fn()
	}

	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]modules.TypeSpec)
}

var _ modules.Module = (*MockModule)(nil)

// MockLoader implements modules.Loader for testing across packages
type MockLoader struct {
	mock.Mock
}

func (m *MockLoader) Load(path string) (modules.Module, error) {
	args := m.Called(path)

	if fn, ok := args.Get(0).(func(string) modules.Module); ok {
		return fn(path), args.Error(1)
	}

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(modules.Module), args.Error(1)
}

var _ modules.Loader = (*MockLoader)(nil)
