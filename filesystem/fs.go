package filesystem

import (
	"fmt"
	"strings"
	"sync"

	"github.com/brettbedarf/foldertree"
	"github.com/brettbedarf/foldertree/config"
	"github.com/brettbedarf/foldertree/internal/util"
	"github.com/google/uuid"
	"github.com/puzpuzpuz/xsync/v4"
)

// FileSystem owns the folder tree and an index of every attached node by ID.
// Copy and Move are each atomic with respect to one another.
type FileSystem struct {
	cfg   *config.Config
	root  *Folder                     // Root of node tree
	index *xsync.Map[uuid.UUID, Node] // every node reachable from root
	mu    sync.Mutex                  // serializes tree mutations

	// moveAttach attaches a detached node during Move; tests swap it to fail
	moveAttach func(dst *Folder, n Node) error
}

func NewFS(cfg *config.Config) *FileSystem {
	if cfg == nil {
		cfg = config.NewDefaultConfig()
	}
	root := NewFolder(cfg.RootName)
	fs := &FileSystem{
		cfg:        cfg,
		root:       root,
		index:      xsync.NewMap[uuid.UUID, Node](),
		moveAttach: (*Folder).AddChild,
	}
	fs.index.Store(root.ID(), root)
	return fs
}

func (fs *FileSystem) Root() *Folder {
	return fs.root
}

// Get returns an attached node by ID
func (fs *FileSystem) Get(id uuid.UUID) (Node, bool) {
	return fs.index.Load(id)
}

// NodeCount returns the number of nodes reachable from root, root included
func (fs *FileSystem) NodeCount() int {
	return fs.index.Size()
}

// Contains reports whether n is attached to this tree
func (fs *FileSystem) Contains(n Node) bool {
	if n == nil || isNilNode(n) {
		return false
	}
	found, ok := fs.index.Load(n.ID())
	return ok && found == n
}

// Lookup resolves a "/"-separated path relative to root.
// A leading root name, leading/trailing slashes and empty segments are ignored;
// "" and "/" resolve to root.
func (fs *FileSystem) Lookup(path string) (Node, error) {
	var cur Node = fs.root
	parts := splitPath(path)
	if len(parts) > 0 && parts[0] == fs.root.Name() {
		if _, shadowed := fs.root.Child(parts[0]); !shadowed {
			parts = parts[1:]
		}
	}
	for _, name := range parts {
		folder, ok := cur.(*Folder)
		if !ok {
			return nil, &foldertree.NotFoundError{Name: path}
		}
		child, ok := folder.Child(name)
		if !ok {
			return nil, &foldertree.NotFoundError{Name: path}
		}
		cur = child
	}
	return cur, nil
}

// LookupFolder is [FileSystem.Lookup] restricted to folders
func (fs *FileSystem) LookupFolder(path string) (*Folder, error) {
	n, err := fs.Lookup(path)
	if err != nil {
		return nil, err
	}
	folder, ok := n.(*Folder)
	if !ok {
		return nil, fmt.Errorf("%q is not a folder", path)
	}
	return folder, nil
}

// Size returns the size of n, recomputed on every call
func (fs *FileSystem) Size(n Node) uint64 {
	if n == nil || isNilNode(n) {
		return 0
	}
	return n.Size()
}

// AddFileNode adds a new file node to the filesystem. It will add any missing
// folders in the path and return the newly created leaf node.
// If a node already exists at the requested path, it will return an error
func (fs *FileSystem) AddFileNode(req *foldertree.FileCreateRequest) (*File, error) {
	logger := util.GetLogger("AddFileNode")

	fs.mu.Lock()
	defer fs.mu.Unlock()

	parts := splitPath(req.Path)
	if len(parts) == 0 {
		return nil, fmt.Errorf("file path is empty")
	}
	dirParts, name := parts[:len(parts)-1], parts[len(parts)-1]
	if err := fs.checkRequestIDLocked(req.UUID, parts); err != nil {
		logger.Error().Err(err).Str("path", req.Path).Msg("Rejected file request")
		return nil, err
	}

	parent, err := fs.mkdirAllLocked(dirParts)
	if err != nil {
		logger.Error().Err(err).Str("path", req.Path).Msg("Failed to create file's ancestor folder(s)")
		return nil, err
	}

	file := newFileWithID(name, req.Size, req.UUID)
	if err := fs.attachLocked(parent, file); err != nil {
		logger.Error().Err(err).Str("path", req.Path).Msg("Failed to create file")
		return nil, err
	}
	logger.Debug().Str("path", req.Path).Uint64("size", req.Size).Msg("Added new file node")
	return file, nil
}

// AddDirNode recursively adds all missing folders starting at [root]
// in the request's path and returns the leaf.
// It is equivalent to calling `mkdir -p` from a shell and similarly will only create
// folders that do not already exist and will not error if the leaf already exists.
func (fs *FileSystem) AddDirNode(req *foldertree.DirCreateRequest) (*Folder, error) {
	logger := util.GetLogger("AddDirNode")

	fs.mu.Lock()
	defer fs.mu.Unlock()

	parts := splitPath(req.Path)
	if len(parts) == 0 {
		return fs.root, nil
	}
	if err := fs.checkRequestIDLocked(req.UUID, parts); err != nil {
		logger.Error().Err(err).Str("path", req.Path).Msg("Rejected folder request")
		return nil, err
	}
	parent, err := fs.mkdirAllLocked(parts[:len(parts)-1])
	if err != nil {
		logger.Error().Err(err).Str("path", req.Path).Msg("Failed to create folder")
		return nil, err
	}
	leaf := parts[len(parts)-1]
	if existing, ok := parent.Child(leaf); ok {
		folder, isDir := existing.(*Folder)
		if !isDir {
			return nil, &foldertree.DuplicateNameError{Folder: parent.Name(), Name: leaf}
		}
		return folder, nil
	}
	folder := newFolderWithID(leaf, req.UUID)
	if err := fs.attachLocked(parent, folder); err != nil {
		return nil, err
	}
	logger.Debug().Str("path", req.Path).Msg("Added new folder node")
	return folder, nil
}

// checkRequestIDLocked rejects a requested ID that already belongs to a node,
// unless that node is the one at parts. Nothing is created on failure.
func (fs *FileSystem) checkRequestIDLocked(id uuid.UUID, parts []string) error {
	if id == uuid.Nil {
		return nil
	}
	owner, ok := fs.index.Load(id)
	if !ok {
		return nil
	}
	var cur Node = fs.root
	for _, name := range parts {
		folder, isDir := cur.(*Folder)
		if !isDir {
			cur = nil
			break
		}
		child, found := folder.Child(name)
		if !found {
			cur = nil
			break
		}
		cur = child
	}
	if cur == owner {
		return nil
	}
	return fmt.Errorf("%s (used by %q): %w", id, Path(owner), foldertree.ErrDuplicateID)
}

func (fs *FileSystem) mkdirAllLocked(parts []string) (*Folder, error) {
	cur := fs.root
	newCnt := 0
	// Traverse the path until we get to existing folder and make
	// any missing along the way
	for _, name := range parts {
		if child, ok := cur.Child(name); ok {
			folder, isDir := child.(*Folder)
			if !isDir {
				return nil, &foldertree.DuplicateNameError{Folder: cur.Name(), Name: name}
			}
			cur = folder
			continue
		}
		folder := NewFolder(name)
		if err := fs.attachLocked(cur, folder); err != nil {
			return nil, err
		}
		newCnt++
		cur = folder
	}
	if newCnt > 0 {
		logger := util.GetLogger("mkdirAll")
		logger.Debug().Int("created", newCnt).Msg("Created missing folder(s)")
	}
	return cur, nil
}

// SeedDemo populates the sample tree Root/Subfolder/{File1.txt, File2.txt}
func (fs *FileSystem) SeedDemo() error {
	sub := NewFolder("Subfolder")
	if err := sub.AddChild(NewFile("File1.txt", 1024)); err != nil {
		return err
	}
	if err := sub.AddChild(NewFile("File2.txt", 2048)); err != nil {
		return err
	}
	fs.mu.Lock()
	defer fs.mu.Unlock()
	return fs.attachLocked(fs.root, sub)
}

// attachLocked adds n to parent and indexes its subtree
func (fs *FileSystem) attachLocked(parent *Folder, n Node) error {
	if err := parent.AddChild(n); err != nil {
		return err
	}
	fs.indexSubtree(n)
	return nil
}

func (fs *FileSystem) indexSubtree(n Node) {
	_ = Walk(n, func(n Node, _ int) error {
		fs.index.Store(n.ID(), n)
		return nil
	})
}

func (fs *FileSystem) unindexSubtree(n Node) {
	_ = Walk(n, func(n Node, _ int) error {
		fs.index.Delete(n.ID())
		return nil
	})
}

func splitPath(p string) []string {
	return strings.FieldsFunc(p, func(r rune) bool { return r == '/' })
}
