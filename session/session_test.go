package session_test

import (
	"errors"
	"testing"

	"github.com/brettbedarf/foldertree"
	"github.com/brettbedarf/foldertree/filesystem"
	"github.com/brettbedarf/foldertree/internal/mocks"
	"github.com/brettbedarf/foldertree/modules"
	"github.com/brettbedarf/foldertree/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func createRegistry() *modules.Registry {
	builtins := modules.NewBuiltinLoader()
	builtins.Register(modules.SampleModuleName, modules.SampleModule)
	return modules.NewRegistry(builtins, nil)
}

// createDemoSession returns a session over the demo tree with no observers
func createDemoSession(t *testing.T) (*session.Session, *filesystem.FileSystem) {
	t.Helper()
	fs := filesystem.NewFS(nil)
	require.NoError(t, fs.SeedDemo())
	return session.New(nil, fs, createRegistry()), fs
}

func TestSession_Copy(t *testing.T) {
	t.Parallel()

	s, fs := createDemoSession(t)
	obs := &mocks.MockObserver{}
	obs.On("TreeChanged", session.OpCopy, mock.Anything).Return()
	s.Subscribe(obs)
	other, err := fs.AddDirNode(&foldertree.DirCreateRequest{NodeRequest: foldertree.NodeRequest{Path: "Other"}})
	require.NoError(t, err)
	require.NoError(t, s.SelectSourcePath("Root/Subfolder"))
	require.NoError(t, s.SelectDestinationPath("Other"))

	cp, err := s.Copy()

	require.NoError(t, err)
	assert.Same(t, other, cp.Parent())
	assert.Equal(t, uint64(3072), cp.Size())
	assert.Nil(t, s.Source())
	assert.Nil(t, s.Destination())
	obs.AssertCalled(t, "TreeChanged", session.OpCopy, cp)
}

func TestSession_CopyFailureKeepsSelection(t *testing.T) {
	t.Parallel()

	s, fs := createDemoSession(t)
	obs := &mocks.MockObserver{}
	obs.On("MutationFailed", session.OpCopy, mock.Anything).Return()
	s.Subscribe(obs)
	require.NoError(t, s.SelectSourcePath("Subfolder"))
	s.SelectDestination(fs.Root())

	_, err := s.Copy()

	var dupErr *foldertree.DuplicateNameError
	require.ErrorAs(t, err, &dupErr)
	assert.NotNil(t, s.Source())
	assert.Same(t, fs.Root(), s.Destination())
	obs.AssertNumberOfCalls(t, "MutationFailed", 1)
	obs.AssertNotCalled(t, "TreeChanged", mock.Anything, mock.Anything)
}

func TestSession_Move(t *testing.T) {
	t.Parallel()

	s, fs := createDemoSession(t)
	obs := &mocks.MockObserver{}
	obs.On("TreeChanged", session.OpMove, mock.Anything).Return()
	s.Subscribe(obs)
	require.NoError(t, s.SelectSourcePath("Subfolder/File1.txt"))
	s.SelectDestination(fs.Root())

	require.NoError(t, s.Move())

	moved, err := fs.Lookup("File1.txt")
	require.NoError(t, err)
	assert.Same(t, fs.Root(), moved.Parent())
	assert.Nil(t, s.Source())
	obs.AssertCalled(t, "TreeChanged", session.OpMove, moved)
}

func TestSession_MoveIntoItself(t *testing.T) {
	t.Parallel()

	s, _ := createDemoSession(t)
	require.NoError(t, s.SelectSourcePath("Subfolder"))
	require.NoError(t, s.SelectDestinationPath("Subfolder"))

	err := s.Move()

	var cycErr *foldertree.CyclicMoveError
	require.ErrorAs(t, err, &cycErr)
	assert.NotNil(t, s.Source())
	assert.NotNil(t, s.Destination())
}

func TestSession_MissingSelection(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		source  string
		dest    string
		missing string
	}{
		{name: "nothing selected", missing: "source"},
		{name: "no destination", source: "Subfolder", missing: "destination"},
		{name: "no source", dest: "Subfolder", missing: "source"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			s, _ := createDemoSession(t)
			obs := &mocks.MockObserver{}
			obs.On("MutationFailed", mock.Anything, mock.Anything).Return()
			s.Subscribe(obs)
			if tt.source != "" {
				require.NoError(t, s.SelectSourcePath(tt.source))
			}
			if tt.dest != "" {
				require.NoError(t, s.SelectDestinationPath(tt.dest))
			}

			_, copyErr := s.Copy()
			moveErr := s.Move()

			for _, err := range []error{copyErr, moveErr} {
				var missing *foldertree.MissingSelectionError
				require.ErrorAs(t, err, &missing)
				assert.Equal(t, tt.missing, missing.Missing)
			}
			obs.AssertNumberOfCalls(t, "MutationFailed", 2)
		})
	}
}

func TestSession_MutationErrorsFromTree(t *testing.T) {
	t.Parallel()

	tree := &mocks.MockTreeOperator{}
	src := filesystem.NewFile("a.txt", 1)
	dst := filesystem.NewFolder("dst")
	treeErr := errors.New("tree failure")
	tree.On("Copy", src, dst).Return(nil, treeErr)
	tree.On("Move", src, dst).Return(treeErr)
	obs := &mocks.MockObserver{}
	obs.On("MutationFailed", mock.Anything, treeErr).Return()
	s := session.New(nil, tree, createRegistry())
	s.Subscribe(obs)
	s.SelectSource(src)
	s.SelectDestination(dst)

	_, err := s.Copy()
	assert.ErrorIs(t, err, treeErr)
	assert.ErrorIs(t, s.Move(), treeErr)

	obs.AssertCalled(t, "MutationFailed", session.OpCopy, treeErr)
	obs.AssertCalled(t, "MutationFailed", session.OpMove, treeErr)
	tree.AssertExpectations(t)
}

func TestSession_SelectedSize(t *testing.T) {
	t.Parallel()

	s, _ := createDemoSession(t)

	_, err := s.SelectedSize()
	var missing *foldertree.MissingSelectionError
	require.ErrorAs(t, err, &missing)

	require.NoError(t, s.SelectSourcePath("Subfolder"))
	size, err := s.SelectedSize()
	require.NoError(t, err)
	assert.Equal(t, uint64(3072), size)
}

func TestSession_SelectPathErrors(t *testing.T) {
	t.Parallel()

	s, _ := createDemoSession(t)

	var notFound *foldertree.NotFoundError
	assert.ErrorAs(t, s.SelectSourcePath("missing"), &notFound)
	assert.Error(t, s.SelectDestinationPath("Subfolder/File1.txt"))
	assert.Nil(t, s.Source())
	assert.Nil(t, s.Destination())
}
