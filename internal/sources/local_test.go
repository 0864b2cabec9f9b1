package sources

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalSource_List(t *testing.T) {
	ctx := context.Background()

	t.Run("returns sorted PDF names only", func(t *testing.T) {
		dir := t.TempDir()
		for _, name := range []string{"b.pdf", "a.pdf", "notes.txt", "UPPER.PDF"} {
			require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644))
		}
		require.NoError(t, os.Mkdir(filepath.Join(dir, "nested.pdf"), 0o755))

		names, err := NewLocalSource(dir).List(ctx)

		require.NoError(t, err)
		assert.Equal(t, []string{"UPPER.PDF", "a.pdf", "b.pdf"}, names)
	})

	t.Run("missing directory yields an empty list", func(t *testing.T) {
		names, err := NewLocalSource(filepath.Join(t.TempDir(), "missing")).List(ctx)

		require.NoError(t, err)
		assert.Empty(t, names)
	})
}

func TestLocalSource_Fetch(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "doc.pdf"), []byte("x"), 0o644))

	source := NewLocalSource(dir)

	path, err := source.Fetch(ctx, "doc.pdf")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "doc.pdf"), path)

	_, err = source.Fetch(ctx, "missing.pdf")
	assert.Error(t, err)
}
