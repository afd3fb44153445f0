package filesystem

import (
	"errors"
	"fmt"
	"testing"

	"github.com/brettbedarf/foldertree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFile(t *testing.T) {
	t.Parallel()

	f := NewFile("File1.txt", 1024)

	assert.Equal(t, "File1.txt", f.Name())
	assert.Equal(t, uint64(1024), f.Size())
	assert.False(t, f.IsDir())
	assert.Nil(t, f.Parent())
	assert.NotEqual(t, NewFile("File1.txt", 1024).ID(), f.ID(), "every node gets its own ID")
}

func TestFolder_AddChild(t *testing.T) {
	t.Parallel()

	parent := NewFolder("parent")
	child := NewFile("child.txt", 1)

	require.NoError(t, parent.AddChild(child))

	retrieved, ok := parent.Child("child.txt")
	require.True(t, ok)
	assert.Same(t, child, retrieved)
	assert.Same(t, parent, child.Parent())
	assert.Equal(t, 1, parent.Len())
}

func TestFolder_AddChild_KeepsInsertionOrder(t *testing.T) {
	t.Parallel()

	parent := NewFolder("parent")
	names := []string{"b", "a", "c"}
	for _, n := range names {
		require.NoError(t, parent.AddChild(NewFile(n, 0)))
	}

	got := make([]string, 0, parent.Len())
	for _, ch := range parent.Children() {
		got = append(got, ch.Name())
	}
	assert.Equal(t, names, got)
}

func TestFolder_AddChild_DuplicateName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		desc   string
		first  Node
		second Node
	}{
		{"file then file", NewFile("x", 1), NewFile("x", 2)},
		{"file then folder", NewFile("x", 1), NewFolder("x")},
		{"folder then file", NewFolder("x"), NewFile("x", 1)},
		{"folder then folder", NewFolder("x"), NewFolder("x")},
	}
	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			t.Parallel()
			parent := NewFolder("parent")
			require.NoError(t, parent.AddChild(tt.first))
			before := parent.Children()

			err := parent.AddChild(tt.second)

			var dupErr *foldertree.DuplicateNameError
			require.ErrorAs(t, err, &dupErr)
			assert.Equal(t, "x", dupErr.Name)
			assert.Equal(t, before, parent.Children(), "children must be unchanged")
			assert.Nil(t, tt.second.Parent())
		})
	}
}

func TestFolder_AddChild_NamesAreCaseSensitive(t *testing.T) {
	t.Parallel()

	parent := NewFolder("parent")
	require.NoError(t, parent.AddChild(NewFile("readme", 1)))
	assert.NoError(t, parent.AddChild(NewFile("README", 1)))
}

func TestFolder_AddChild_AlreadyAttached(t *testing.T) {
	t.Parallel()

	a := NewFolder("a")
	b := NewFolder("b")
	f := NewFile("f", 1)
	require.NoError(t, a.AddChild(f))

	err := b.AddChild(f)

	assert.ErrorIs(t, err, foldertree.ErrNodeAttached)
	assert.Same(t, a, f.Parent())
	assert.Equal(t, 0, b.Len())
}

func TestFolder_AddChild_RejectsCycle(t *testing.T) {
	t.Parallel()

	t.Run("self", func(t *testing.T) {
		t.Parallel()
		a := NewFolder("a")
		var cycErr *foldertree.CyclicMoveError
		assert.ErrorAs(t, a.AddChild(a), &cycErr)
	})
	t.Run("ancestor", func(t *testing.T) {
		t.Parallel()
		a := NewFolder("a")
		b := NewFolder("b")
		require.NoError(t, a.AddChild(b))

		var cycErr *foldertree.CyclicMoveError
		assert.ErrorAs(t, b.AddChild(a), &cycErr)
		assert.Equal(t, 0, b.Len())
	})
}

func TestFolder_RemoveChild(t *testing.T) {
	t.Parallel()

	parent := NewFolder("parent")
	child := NewFile("child.txt", 1)
	require.NoError(t, parent.AddChild(child))

	require.NoError(t, parent.RemoveChild(child))

	_, ok := parent.Child("child.txt")
	assert.False(t, ok)
	assert.Nil(t, child.Parent(), "parent reference must be cleared")

	// Removing again is a NotFoundError
	var nfErr *foldertree.NotFoundError
	require.ErrorAs(t, parent.RemoveChild(child), &nfErr)
	assert.Equal(t, "parent", nfErr.Folder)
}

func TestFolder_RemoveChild_SameNameDifferentNode(t *testing.T) {
	t.Parallel()

	parent := NewFolder("parent")
	require.NoError(t, parent.AddChild(NewFile("x", 1)))

	err := parent.RemoveChild(NewFile("x", 1))

	var nfErr *foldertree.NotFoundError
	assert.ErrorAs(t, err, &nfErr)
	assert.Equal(t, 1, parent.Len())
}

func TestFolder_IsAncestorOf(t *testing.T) {
	t.Parallel()

	root := NewFolder("root")
	a := NewFolder("a")
	b := NewFolder("b")
	f := NewFile("f", 1)
	other := NewFolder("other")
	require.NoError(t, root.AddChild(a))
	require.NoError(t, a.AddChild(b))
	require.NoError(t, b.AddChild(f))
	require.NoError(t, root.AddChild(other))

	tests := []struct {
		anc  *Folder
		cand Node
		want bool
	}{
		{root, a, true},
		{root, f, true},
		{a, f, true},
		{b, f, true},
		{a, a, false},
		{root, root, false},
		{b, a, false},
		{other, f, false},
		{a, other, false},
		{a, nil, false},
	}
	for _, tt := range tests {
		name := fmt.Sprintf("%s_of_%v", tt.anc.Name(), tt.cand)
		if tt.cand != nil {
			name = fmt.Sprintf("%s_of_%s", tt.anc.Name(), tt.cand.Name())
		}
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.anc.IsAncestorOf(tt.cand))
		})
	}
}

func TestFolder_Size(t *testing.T) {
	t.Parallel()

	sub := NewFolder("Subfolder")
	require.NoError(t, sub.AddChild(NewFile("File1.txt", 1024)))
	require.NoError(t, sub.AddChild(NewFile("File2.txt", 2048)))
	assert.Equal(t, uint64(3072), sub.Size())

	// Nesting an empty folder does not change the total
	require.NoError(t, sub.AddChild(NewFolder("empty")))
	assert.Equal(t, uint64(3072), sub.Size())

	// Recomputed on demand after changes deeper in the tree
	deep := NewFolder("deep")
	require.NoError(t, sub.AddChild(deep))
	require.NoError(t, deep.AddChild(NewFile("big.bin", 10_000)))
	assert.Equal(t, uint64(13_072), sub.Size())

	assert.Equal(t, uint64(0), NewFolder("x").Size())
}

func TestPath(t *testing.T) {
	t.Parallel()

	root := NewFolder("Root")
	sub := NewFolder("Subfolder")
	f := NewFile("File1.txt", 1)
	require.NoError(t, root.AddChild(sub))
	require.NoError(t, sub.AddChild(f))

	assert.Equal(t, "Root", Path(root))
	assert.Equal(t, "Root/Subfolder/File1.txt", Path(f))
	assert.Equal(t, "detached", Path(NewFile("detached", 0)))
}

func TestWalk(t *testing.T) {
	t.Parallel()

	root := NewFolder("Root")
	sub := NewFolder("Subfolder")
	require.NoError(t, root.AddChild(sub))
	require.NoError(t, sub.AddChild(NewFile("File1.txt", 1)))
	require.NoError(t, root.AddChild(NewFile("top.txt", 1)))

	var visited []string
	err := Walk(root, func(n Node, depth int) error {
		visited = append(visited, fmt.Sprintf("%d:%s", depth, n.Name()))
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"0:Root", "1:Subfolder", "2:File1.txt", "1:top.txt"}, visited)
}

func TestWalk_StopsOnError(t *testing.T) {
	t.Parallel()

	root := NewFolder("Root")
	require.NoError(t, root.AddChild(NewFile("a", 1)))
	require.NoError(t, root.AddChild(NewFile("b", 1)))
	stop := errors.New("stop")

	count := 0
	err := Walk(root, func(n Node, _ int) error {
		count++
		if n.Name() == "a" {
			return stop
		}
		return nil
	})

	assert.ErrorIs(t, err, stop)
	assert.Equal(t, 2, count)
}
