package render

import (
	"bytes"
	"strings"
	"testing"

	"lobmcts/searcher"

	"github.com/stretchr/testify/require"
)

func testTree(t *testing.T, epochs int) *searcher.Node {
	root, err := searcher.FromSnapshot([]float64{
		100, 99.5, 99, 98.5, 98,
		10, 9, 8, 7, 6,
		100.5, 101, 101.5, 102, 102.5,
		10, 9, 8, 7, 6,
	}, 10000, 0)
	require.NoError(t, err)
	if epochs > 0 {
		_, err = searcher.NewMCTS(root, searcher.WithEpochs(epochs), searcher.WithSeed(3)).Search()
		require.NoError(t, err)
	}
	return root
}

func TestTree(t *testing.T) {
	t.Run("rendering a lone root", func(t *testing.T) {
		var buf bytes.Buffer

		require.NoError(t, NewRenderer(false).Tree(&buf, testTree(t, 0), 3))

		require.Equal(t, "root capital=10000.00 holding=0 visits=0 value=0.0000\n", buf.String())
	})

	t.Run("rendering one level", func(t *testing.T) {
		var buf bytes.Buffer
		root := testTree(t, 10)

		require.NoError(t, NewRenderer(false).Tree(&buf, root, 1))

		lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
		require.Len(t, lines, 3)
		require.True(t, strings.HasPrefix(lines[1], "├── sell "))
		require.True(t, strings.HasPrefix(lines[2], "└── buy "))
	})

	t.Run("limiting depth", func(t *testing.T) {
		var shallow, deep bytes.Buffer
		root := testTree(t, 20)

		require.NoError(t, NewRenderer(false).Tree(&shallow, root, 1))
		require.NoError(t, NewRenderer(false).Tree(&deep, root, 100))

		require.Less(t, strings.Count(shallow.String(), "\n"), strings.Count(deep.String(), "\n"))
		require.Equal(t, root.Size(), strings.Count(deep.String(), "\n"))
	})

	t.Run("coloring", func(t *testing.T) {
		var buf bytes.Buffer

		require.NoError(t, NewRenderer(true).Tree(&buf, testTree(t, 4), 1))

		require.Contains(t, buf.String(), "\x1b[")
	})

	t.Run("plain output to non-terminals", func(t *testing.T) {
		var buf bytes.Buffer

		require.NoError(t, Tree(&buf, testTree(t, 4), 2))

		require.NotContains(t, buf.String(), "\x1b[")
	})
}
