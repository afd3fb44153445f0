// Package session holds the selection state a presentation layer drives:
// source and destination nodes for tree mutations, and the plugin state
// machine from loading a module through invoking one of its operations.
//
// A Session is not safe for concurrent use.
package session

import (
	"fmt"

	"github.com/brettbedarf/foldertree"
	"github.com/brettbedarf/foldertree/config"
	"github.com/brettbedarf/foldertree/filesystem"
	"github.com/brettbedarf/foldertree/internal/util"
	"github.com/brettbedarf/foldertree/invoke"
	"github.com/brettbedarf/foldertree/modules"
)

// TreeOperator is the part of [filesystem.FileSystem] a session uses
type TreeOperator interface {
	Root() *filesystem.Folder
	Lookup(path string) (filesystem.Node, error)
	Copy(source filesystem.Node, dst *filesystem.Folder) (filesystem.Node, error)
	Move(source filesystem.Node, dst *filesystem.Folder) error
	Size(n filesystem.Node) uint64
}

var _ TreeOperator = (*filesystem.FileSystem)(nil)

// Observer is notified after every mutation, module load and invocation
type Observer interface {
	TreeChanged(op string, node filesystem.Node)
	MutationFailed(op string, err error)
	ModuleLoaded(m *modules.LoadedModule)
	InvocationCompleted(p *invoke.PendingInvocation, result any)
	InvocationFailed(p *invoke.PendingInvocation, err error)
}

const (
	OpCopy = "copy"
	OpMove = "move"
)

type Session struct {
	cfg       *config.Config
	tree      TreeOperator
	registry  *modules.Registry
	observers []Observer

	source filesystem.Node
	dest   *filesystem.Folder

	state   State
	module  *modules.LoadedModule
	types   []*modules.CandidateType
	typ     *modules.CandidateType
	ops     []*modules.OperationDescriptor
	pending *invoke.PendingInvocation
	result  any
	lastErr error
}

func New(cfg *config.Config, tree TreeOperator, registry *modules.Registry) *Session {
	if cfg == nil {
		cfg = config.NewDefaultConfig()
	}
	return &Session{cfg: cfg, tree: tree, registry: registry}
}

func (s *Session) Tree() TreeOperator { return s.tree }

// Subscribe adds an observer; observers are notified in subscription order
func (s *Session) Subscribe(o Observer) {
	s.observers = append(s.observers, o)
}

func (s *Session) Source() filesystem.Node { return s.source }

func (s *Session) Destination() *filesystem.Folder { return s.dest }

// SelectSource sets the node to copy or move; nil clears the selection
func (s *Session) SelectSource(n filesystem.Node) {
	s.source = n
}

// SelectDestination sets the folder to copy or move into; nil clears the selection
func (s *Session) SelectDestination(f *filesystem.Folder) {
	s.dest = f
}

// SelectSourcePath selects the node at path
func (s *Session) SelectSourcePath(path string) error {
	n, err := s.tree.Lookup(path)
	if err != nil {
		return err
	}
	s.source = n
	return nil
}

// SelectDestinationPath selects the folder at path
func (s *Session) SelectDestinationPath(path string) error {
	n, err := s.tree.Lookup(path)
	if err != nil {
		return err
	}
	folder, ok := n.(*filesystem.Folder)
	if !ok {
		return fmt.Errorf("%q is not a folder", path)
	}
	s.dest = folder
	return nil
}

// Copy copies the source selection into the destination selection.
// Both selections are cleared on success and kept on failure.
func (s *Session) Copy() (filesystem.Node, error) {
	if err := s.checkMutationSelection(); err != nil {
		s.notifyFailed(OpCopy, err)
		return nil, err
	}
	cp, err := s.tree.Copy(s.source, s.dest)
	if err != nil {
		s.notifyFailed(OpCopy, err)
		return nil, err
	}
	s.source, s.dest = nil, nil
	s.notifyChanged(OpCopy, cp)
	return cp, nil
}

// Move moves the source selection into the destination selection.
// Both selections are cleared on success and kept on failure.
func (s *Session) Move() error {
	if err := s.checkMutationSelection(); err != nil {
		s.notifyFailed(OpMove, err)
		return err
	}
	moved := s.source
	if err := s.tree.Move(moved, s.dest); err != nil {
		s.notifyFailed(OpMove, err)
		return err
	}
	s.source, s.dest = nil, nil
	s.notifyChanged(OpMove, moved)
	return nil
}

// SelectedSize returns the recursive size of the source selection
func (s *Session) SelectedSize() (uint64, error) {
	if s.source == nil {
		return 0, &foldertree.MissingSelectionError{Missing: "source"}
	}
	return s.tree.Size(s.source), nil
}

func (s *Session) checkMutationSelection() error {
	if s.source == nil {
		return &foldertree.MissingSelectionError{Missing: "source"}
	}
	if s.dest == nil {
		return &foldertree.MissingSelectionError{Missing: "destination"}
	}
	return nil
}

func (s *Session) notifyChanged(op string, n filesystem.Node) {
	logger := util.GetLogger("Session")
	logger.Debug().Str("op", op).Str("path", filesystem.Path(n)).Msg("Tree changed")
	for _, o := range s.observers {
		o.TreeChanged(op, n)
	}
}

func (s *Session) notifyFailed(op string, err error) {
	logger := util.GetLogger("Session")
	logger.Debug().Err(err).Str("op", op).Msg("Mutation failed")
	for _, o := range s.observers {
		o.MutationFailed(op, err)
	}
}
