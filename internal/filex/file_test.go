package filex

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureSubDir_CreatesDirectory(t *testing.T) {
	tmp := t.TempDir()

	got, err := EnsureSubDir(tmp, "documents")
	require.NoError(t, err)
	require.Equal(t, filepath.Join(tmp, "documents"), got)

	fi, err := os.Stat(got)
	require.NoError(t, err)
	require.True(t, fi.IsDir())

	if runtime.GOOS != "windows" {
		require.Equal(t, os.FileMode(0o700), fi.Mode().Perm()&0o700)
	}
}

func TestEnsureSubDir_Idempotent(t *testing.T) {
	tmp := t.TempDir()

	first, err := EnsureSubDir(tmp, "documents")
	require.NoError(t, err)
	second, err := EnsureSubDir(tmp, "documents")
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestEnsureSubDir_FailsIfFileWithSameNameExists(t *testing.T) {
	tmp := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmp, "documents"), []byte("x"), 0o660))

	_, err := EnsureSubDir(tmp, "documents")
	require.Error(t, err)
}

func TestWritable(t *testing.T) {
	tmp := t.TempDir()
	assert.True(t, Writable(filepath.Join(tmp, "new", "dir")))

	blocker := filepath.Join(tmp, "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o660))
	assert.False(t, Writable(filepath.Join(blocker, "sub")))
}

func TestCopyFile(t *testing.T) {
	tmp := t.TempDir()
	src := filepath.Join(tmp, "src.pdf")
	dst := filepath.Join(tmp, "dst.pdf")
	require.NoError(t, os.WriteFile(src, []byte("%PDF-1.7"), 0o660))

	require.NoError(t, CopyFile(src, dst))
	got, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-1.7"), got)

	require.Error(t, CopyFile(src, dst), "existing destination must not be overwritten")
	require.Error(t, CopyFile(filepath.Join(tmp, "missing"), filepath.Join(tmp, "other")))
}

func TestRemove_MissingFileIsNotAnError(t *testing.T) {
	tmp := t.TempDir()
	p := filepath.Join(tmp, "a.txt")
	require.NoError(t, os.WriteFile(p, []byte("x"), 0o660))

	require.NoError(t, Remove("file://"+p))
	_, err := os.Stat(p)
	require.True(t, os.IsNotExist(err))

	require.NoError(t, Remove(p))
}

func TestIsLocalPath(t *testing.T) {
	abs, err := filepath.Abs("x.pdf")
	require.NoError(t, err)

	assert.True(t, IsLocalPath("file:///data/documents/x.pdf"))
	assert.True(t, IsLocalPath(abs))
	assert.False(t, IsLocalPath("5b1d/0f0e.pdf"))
}

func TestExt(t *testing.T) {
	tests := map[string]string{
		"file:///docs/passport.PDF": "pdf",
		"user/doc.tar.gz":           "gz",
		"noext":                     "",
		"/dir.d/noext":              "",
		".hidden":                   "",
		"trailing.":                 "",
		`C:\docs\scan.JpEg`:         "jpeg",
	}
	for in, want := range tests {
		assert.Equal(t, want, Ext(in), in)
	}
}
