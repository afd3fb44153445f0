package filesystem

import (
	"strings"

	"github.com/google/uuid"
)

// Node is either a [*File] or a [*Folder]
type Node interface {
	// ID returns the node's stable identifier
	ID() uuid.UUID

	// Name returns the node's name, unique among its siblings
	Name() string

	// Parent returns the owning folder, or nil for the root and detached nodes
	Parent() *Folder

	// Size returns the byte count; folders recompute it from their subtree
	Size() uint64

	IsDir() bool

	setParent(parent *Folder)
	// clone deep-copies the node with fresh IDs and no parent
	clone() Node
}

// node has common fields embedded in File and Folder
type node struct {
	id     uuid.UUID
	name   string
	parent *Folder // non-owning back-reference; only set by Folder.AddChild/RemoveChild
}

func newNode(name string, id uuid.UUID) node {
	if id == uuid.Nil {
		id = uuid.New()
	}
	return node{id: id, name: name}
}

func (n *node) ID() uuid.UUID { return n.id }

func (n *node) Name() string { return n.name }

func (n *node) Parent() *Folder { return n.parent }

func (n *node) setParent(parent *Folder) { n.parent = parent }

// File is a leaf with an immutable size
type File struct {
	node
	size uint64
}

// NewFile creates a detached file node
func NewFile(name string, size uint64) *File {
	return &File{node: newNode(name, uuid.Nil), size: size}
}

func newFileWithID(name string, size uint64, id uuid.UUID) *File {
	return &File{node: newNode(name, id), size: size}
}

func (f *File) Size() uint64 { return f.size }

func (f *File) IsDir() bool { return false }

func (f *File) clone() Node {
	return NewFile(f.name, f.size)
}

// Path returns the "/"-joined names from the topmost ancestor down to n.
// The topmost ancestor (normally the root) is included.
func Path(n Node) string {
	var parts []string
	for cur := n; cur != nil; {
		parts = append(parts, cur.Name())
		p := cur.Parent()
		if p == nil {
			break
		}
		cur = p
	}
	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}
	return strings.Join(parts, "/")
}

// Walk visits n and every descendant in pre-order, children in display order.
// Returning a non-nil error from fn stops the walk and is returned.
func Walk(n Node, fn func(n Node, depth int) error) error {
	return walk(n, 0, fn)
}

func walk(n Node, depth int, fn func(n Node, depth int) error) error {
	if err := fn(n, depth); err != nil {
		return err
	}
	folder, ok := n.(*Folder)
	if !ok {
		return nil
	}
	for _, ch := range folder.children {
		if err := walk(ch, depth+1, fn); err != nil {
			return err
		}
	}
	return nil
}
