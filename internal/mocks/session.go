package mocks

import (
	"github.com/brettbedarf/foldertree/filesystem"
	"github.com/brettbedarf/foldertree/invoke"
	"github.com/brettbedarf/foldertree/modules"
	"github.com/brettbedarf/foldertree/session"
	"github.com/stretchr/testify/mock"
)

// MockObserver implements session.Observer for testing across packages
type MockObserver struct {
	mock.Mock
}

func (m *MockObserver) TreeChanged(op string, node filesystem.Node) {
	m.Called(op, node)
}

func (m *MockObserver) MutationFailed(op string, err error) {
	m.Called(op, err)
}

func (m *MockObserver) ModuleLoaded(lm *modules.LoadedModule) {
	m.Called(lm)
}

func (m *MockObserver) InvocationCompleted(p *invoke.PendingInvocation, result any) {
	m.Called(p, result)
}

func (m *MockObserver) InvocationFailed(p *invoke.PendingInvocation, err error) {
	m.Called(p, err)
}

var _ session.Observer = (*MockObserver)(nil)

// MockTreeOperator implements session.TreeOperator for testing across packages
type MockTreeOperator struct {
	mock.Mock
}

func (m *MockTreeOperator) Root() *filesystem.Folder {
	args := m.Called()
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(*filesystem.Folder)
}

func (m *MockTreeOperator) Lookup(path string) (filesystem.Node, error) {
	args := m.Called(path)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(filesystem.Node), args.Error(1)
}

func (m *MockTreeOperator) Copy(source filesystem.Node, dst *filesystem.Folder) (filesystem.Node, error) {
	args := m.Called(source, dst)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(filesystem.Node), args.Error(1)
}

func (m *MockTreeOperator) Move(source filesystem.Node, dst *filesystem.Folder) error {
	args := m.Called(source, dst)
	return args.Error(0)
}

func (m *MockTreeOperator) Size(n filesystem.Node) uint64 {
	args := m.Called(n)
	return args.Get(0).(uint64)
}

var _ session.TreeOperator = (*MockTreeOperator)(nil)
