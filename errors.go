package foldertree

import (
	"errors"
	"fmt"
)

var (
	// ErrNodeAttached is returned when attaching a node that already has a parent
	ErrNodeAttached = errors.New("node already has a parent")

	// ErrStaleHandle is returned when a type or operation handle belongs to a
	// module that has since been replaced
	ErrStaleHandle = errors.New("handle belongs to a module that is no longer loaded")

	// ErrRootImmutable is returned when removing the root folder
	ErrRootImmutable = errors.New("root folder cannot be removed")

	// ErrDuplicateID is returned when creating a node with an ID another node already has
	ErrDuplicateID = errors.New("node ID already in use")
)

// DuplicateNameError reports a sibling name collision inside Folder
type DuplicateNameError struct {
	Folder string
	Name   string
}

func (e *DuplicateNameError) Error() string {
	return fmt.Sprintf("folder %q already contains %q", e.Folder, e.Name)
}

// CyclicMoveError reports an attempt to place a folder inside itself or its own subtree
type CyclicMoveError struct {
	Source      string
	Destination string
}

func (e *CyclicMoveError) Error() string {
	if e.Source == e.Destination {
		return fmt.Sprintf("cannot move %q into itself", e.Source)
	}
	return fmt.Sprintf("cannot move %q into its descendant %q", e.Source, e.Destination)
}

// NotFoundError reports a node missing from a folder or from the tree
type NotFoundError struct {
	Folder string // empty when the lookup was tree-wide
	Name   string
}

func (e *NotFoundError) Error() string {
	if e.Folder == "" {
		return fmt.Sprintf("%q not found", e.Name)
	}
	return fmt.Sprintf("%q is not a child of %q", e.Name, e.Folder)
}

// IndexOutOfRangeError reports an argument index outside [0, Len)
type IndexOutOfRangeError struct {
	Index int
	Len   int
}

func (e *IndexOutOfRangeError) Error() string {
	return fmt.Sprintf("argument index %d out of range [0, %d)", e.Index, e.Len)
}

// ModuleLoadError collapses every load-time failure into one kind.
// The cause is kept for diagnostics.
type ModuleLoadError struct {
	Path string
	Err  error
}

func (e *ModuleLoadError) Error() string {
	return fmt.Sprintf("failed to load module %q: %v", e.Path, e.Err)
}

func (e *ModuleLoadError) Unwrap() error { return e.Err }

// InstantiationError reports a type that could not be constructed
type InstantiationError struct {
	Type string
	Err  error
}

func (e *InstantiationError) Error() string {
	return fmt.Sprintf("failed to instantiate %q: %v", e.Type, e.Err)
}

func (e *InstantiationError) Unwrap() error { return e.Err }

// InvocationError wraps any fault raised while calling a plugin operation
type InvocationError struct {
	Type      string
	Operation string
	Err       error
}

func (e *InvocationError) Error() string {
	return fmt.Sprintf("%s.%s failed: %v", e.Type, e.Operation, e.Err)
}

func (e *InvocationError) Unwrap() error { return e.Err }

// MissingSelectionError is returned when an operation runs without a required selection
type MissingSelectionError struct {
	Missing string // i.e. "source", "destination", "type", "operation"
}

func (e *MissingSelectionError) Error() string {
	return fmt.Sprintf("no %s selected", e.Missing)
}
