package filesystem

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/readme-quote/internal/domain"
)

func writeFile(t *testing.T, name, content string, perm os.FileMode) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), perm))
	require.NoError(t, os.Chmod(path, perm))

	return path
}

func TestStore_Read(t *testing.T) {
	path := writeFile(t, "README.md", "# Title\n<!--QUOTE-START-->\n<!--QUOTE-END-->\n", 0o644)

	doc, err := NewStore().Read(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, path, doc.Path)
	assert.Equal(t, "# Title\n<!--QUOTE-START-->\n<!--QUOTE-END-->\n", doc.Content)
}

func TestStore_ReadMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.md")

	_, err := NewStore().Read(context.Background(), path)
	require.Error(t, err)

	assert.True(t, domain.IsFileIO(err))
	assert.ErrorIs(t, err, os.ErrNotExist)

	var ioErr *domain.FileIOError
	require.ErrorAs(t, err, &ioErr)
	assert.Equal(t, "read", ioErr.Op)
	assert.Equal(t, path, ioErr.Path)
}

func TestStore_ReadCancelled(t *testing.T) {
	path := writeFile(t, "README.md", "x", 0o644)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewStore().Read(ctx, path)
	require.Error(t, err)
	assert.True(t, domain.IsFileIO(err))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestStore_WriteReplacesContent(t *testing.T) {
	path := writeFile(t, "README.md", "old content that is longer than the new one", 0o644)

	err := NewStore().Write(context.Background(), &domain.Document{Path: path, Content: "new"})
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "new", string(data))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file must not be left behind")
}

func TestStore_WritePreservesMode(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("permission bits are not meaningful on windows")
	}

	path := writeFile(t, "README.md", "old", 0o600)

	require.NoError(t, NewStore().Write(context.Background(), &domain.Document{Path: path, Content: "new"}))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestStore_WriteFollowsSymlink(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks need privileges on windows")
	}

	target := writeFile(t, "README.md", "old", 0o644)
	link := filepath.Join(t.TempDir(), "LINK.md")
	require.NoError(t, os.Symlink(target, link))

	require.NoError(t, NewStore().Write(context.Background(), &domain.Document{Path: link, Content: "new"}))

	info, err := os.Lstat(link)
	require.NoError(t, err)
	assert.NotZero(t, info.Mode()&os.ModeSymlink, "link must stay a symlink")

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "new", string(data))
}

func TestStore_WriteMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.md")

	err := NewStore().Write(context.Background(), &domain.Document{Path: path, Content: "new"})
	require.Error(t, err)
	assert.True(t, domain.IsFileIO(err))

	_, statErr := os.Stat(path)
	assert.ErrorIs(t, statErr, os.ErrNotExist)
}

func TestStore_WriteNilDocument(t *testing.T) {
	err := NewStore().Write(context.Background(), nil)
	assert.True(t, domain.IsValidation(err))
}
