package filesystem

import (
	"fmt"
	"slices"

	"github.com/brettbedarf/foldertree"
	"github.com/google/uuid"
)

// Folder owns an ordered list of children. Insertion order is display order.
//
// NOTE: Folder is not thread-safe; [FileSystem] serializes mutations
type Folder struct {
	node
	children []Node
}

// NewFolder creates a detached, empty folder
func NewFolder(name string) *Folder {
	return &Folder{node: newNode(name, uuid.Nil)}
}

func newFolderWithID(name string, id uuid.UUID) *Folder {
	return &Folder{node: newNode(name, id)}
}

func (f *Folder) IsDir() bool { return true }

// Size returns the sum of all file sizes in the subtree. Never cached.
func (f *Folder) Size() uint64 {
	var total uint64
	for _, ch := range f.children {
		total += ch.Size()
	}
	return total
}

// Child returns the direct child with the given name
func (f *Folder) Child(name string) (Node, bool) {
	if i := f.indexOfName(name); i >= 0 {
		return f.children[i], true
	}
	return nil, false
}

// Children returns the direct children in display order in a new slice
func (f *Folder) Children() []Node {
	return slices.Clone(f.children)
}

// Len returns the number of direct children
func (f *Folder) Len() int {
	return len(f.children)
}

// AddChild appends child and sets its parent to f.
//
// Fails with [foldertree.DuplicateNameError] on a sibling name collision,
// [foldertree.ErrNodeAttached] if child already has a parent and
// [foldertree.CyclicMoveError] if child is f or one of its ancestors.
// f is unchanged on failure.
func (f *Folder) AddChild(child Node) error {
	return f.insertChild(len(f.children), child)
}

func (f *Folder) insertChild(idx int, child Node) error {
	if child.Parent() != nil {
		return fmt.Errorf("add %q to %q: %w", child.Name(), f.name, foldertree.ErrNodeAttached)
	}
	if folder, ok := child.(*Folder); ok && (folder == f || folder.IsAncestorOf(f)) {
		return &foldertree.CyclicMoveError{Source: folder.name, Destination: f.name}
	}
	if f.indexOfName(child.Name()) >= 0 {
		return &foldertree.DuplicateNameError{Folder: f.name, Name: child.Name()}
	}
	f.children = slices.Insert(f.children, idx, child)
	child.setParent(f)
	return nil
}

// RemoveChild detaches child from f and clears its parent.
// Fails with [foldertree.NotFoundError] if child is not a current child of f.
func (f *Folder) RemoveChild(child Node) error {
	_, err := f.removeChild(child)
	return err
}

// removeChild is [Folder.RemoveChild] returning the former index for rollback
func (f *Folder) removeChild(child Node) (int, error) {
	idx := slices.Index(f.children, child)
	if idx < 0 {
		return -1, &foldertree.NotFoundError{Folder: f.name, Name: child.Name()}
	}
	f.children = slices.Delete(f.children, idx, idx+1)
	child.setParent(nil)
	return idx, nil
}

// IsAncestorOf reports whether f appears in candidate's parent chain.
// A folder is never its own ancestor.
func (f *Folder) IsAncestorOf(candidate Node) bool {
	if candidate == nil {
		return false
	}
	for p := candidate.Parent(); p != nil; p = p.Parent() {
		if p == f {
			return true
		}
	}
	return false
}

func (f *Folder) indexOfName(name string) int {
	return slices.IndexFunc(f.children, func(n Node) bool { return n.Name() == name })
}

// clone builds the whole copy before anything is attached so copying a
// folder into its own subtree sees the pre-copy snapshot
func (f *Folder) clone() Node {
	cp := NewFolder(f.name)
	cp.children = make([]Node, 0, len(f.children))
	for _, ch := range f.children {
		c := ch.clone()
		c.setParent(cp)
		cp.children = append(cp.children, c)
	}
	return cp
}
