package filesystem

import (
	"fmt"

	"github.com/brettbedarf/foldertree"
	"github.com/brettbedarf/foldertree/internal/util"
)

// Copy attaches a deep copy of source to dst and returns the copy.
//
// The name collision check happens once, before anything is built: a
// colliding copy is never created, so the tree is unchanged on any failure.
// The copy has fresh IDs and shares no nodes with source.
func (fs *FileSystem) Copy(source Node, dst *Folder) (Node, error) {
	logger := util.GetLogger("Copy")

	fs.mu.Lock()
	defer fs.mu.Unlock()

	if err := fs.checkOperandsLocked(source, dst); err != nil {
		logger.Debug().Err(err).Msg("Rejected copy")
		return nil, err
	}
	if _, exists := dst.Child(source.Name()); exists {
		err := &foldertree.DuplicateNameError{Folder: dst.Name(), Name: source.Name()}
		logger.Debug().Err(err).Str("source", Path(source)).Str("dst", Path(dst)).Msg("Rejected copy")
		return nil, err
	}

	cp := source.clone()
	if err := fs.attachLocked(dst, cp); err != nil {
		logger.Error().Err(err).Str("source", Path(source)).Str("dst", Path(dst)).Msg("Failed to attach copy")
		return nil, err
	}
	logger.Debug().Str("source", Path(source)).Str("dst", Path(dst)).Msg("Copied node")
	return cp, nil
}

// Move reparents source into dst.
//
// Preconditions are checked in order: source must not be dst, a folder source
// must not be an ancestor of dst ([foldertree.CyclicMoveError] for both), and
// dst must not already contain source's name ([foldertree.DuplicateNameError]).
// Detach and attach are one step: if attaching fails source is restored to its
// original position before the error is returned.
func (fs *FileSystem) Move(source Node, dst *Folder) error {
	logger := util.GetLogger("Move")

	fs.mu.Lock()
	defer fs.mu.Unlock()

	if err := fs.checkOperandsLocked(source, dst); err != nil {
		logger.Debug().Err(err).Msg("Rejected move")
		return err
	}
	if folder, ok := source.(*Folder); ok {
		if folder == dst || folder.IsAncestorOf(dst) {
			err := &foldertree.CyclicMoveError{Source: source.Name(), Destination: dst.Name()}
			logger.Debug().Err(err).Str("source", Path(source)).Str("dst", Path(dst)).Msg("Rejected move")
			return err
		}
	}
	if _, exists := dst.Child(source.Name()); exists {
		err := &foldertree.DuplicateNameError{Folder: dst.Name(), Name: source.Name()}
		logger.Debug().Err(err).Str("source", Path(source)).Str("dst", Path(dst)).Msg("Rejected move")
		return err
	}

	oldParent := source.Parent()
	oldIdx := -1
	if oldParent != nil {
		idx, err := oldParent.removeChild(source)
		if err != nil {
			return err
		}
		oldIdx = idx
	}
	// The prechecks above mirror AddChild's guards and hold under fs.mu, so this
	// only fails if the tree was modified behind the FileSystem's back
	if err := fs.moveAttach(dst, source); err != nil {
		if oldParent != nil {
			if rbErr := oldParent.insertChild(oldIdx, source); rbErr != nil {
				// Only reachable if the invariants were already broken
				logger.Error().Err(rbErr).Str("name", source.Name()).Msg("Failed to roll back move")
				return fmt.Errorf("move %q: %w (rollback failed: %v)", source.Name(), err, rbErr)
			}
		}
		logger.Error().Err(err).Str("name", source.Name()).Msg("Move rolled back")
		return err
	}
	logger.Debug().Str("name", source.Name()).Str("dst", Path(dst)).Msg("Moved node")
	return nil
}

// Remove detaches n from its parent and drops its subtree from the tree.
// The root cannot be removed.
func (fs *FileSystem) Remove(n Node) error {
	logger := util.GetLogger("Remove")

	fs.mu.Lock()
	defer fs.mu.Unlock()

	if n == nil || isNilNode(n) {
		return &foldertree.MissingSelectionError{Missing: "source"}
	}
	if n == Node(fs.root) {
		return foldertree.ErrRootImmutable
	}
	if !fs.containsLocked(n) {
		return &foldertree.NotFoundError{Name: n.Name()}
	}
	if err := n.Parent().RemoveChild(n); err != nil {
		return err
	}
	fs.unindexSubtree(n)
	logger.Debug().Str("name", n.Name()).Msg("Removed node")
	return nil
}

// checkOperandsLocked validates that both operands are present and part of this tree
func (fs *FileSystem) checkOperandsLocked(source Node, dst *Folder) error {
	if source == nil || isNilNode(source) {
		return &foldertree.MissingSelectionError{Missing: "source"}
	}
	if dst == nil {
		return &foldertree.MissingSelectionError{Missing: "destination"}
	}
	if !fs.containsLocked(source) {
		return &foldertree.NotFoundError{Name: source.Name()}
	}
	if !fs.containsLocked(dst) {
		return &foldertree.NotFoundError{Name: dst.Name()}
	}
	return nil
}

func (fs *FileSystem) containsLocked(n Node) bool {
	found, ok := fs.index.Load(n.ID())
	return ok && found == n
}

// isNilNode catches typed nil pointers stored in a Node interface
func isNilNode(n Node) bool {
	switch v := n.(type) {
	case *File:
		return v == nil
	case *Folder:
		return v == nil
	}
	return false
}
