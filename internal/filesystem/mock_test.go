package filesystem

import (
	"bytes"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMockFileSystem_ReadDirListsDirectChildren(t *testing.T) {
	mfs := NewMockFileSystem().
		AddFile("/root/b/reports/x.json", []byte(`{}`)).
		AddFile("/root/a.txt", []byte("a")).
		AddDir("/root/c")

	entries, err := mfs.ReadDir("/root")
	require.NoError(t, err)

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		names = append(names, entry.Name())
	}
	require.Equal(t, []string{"a.txt", "b", "c"}, names)
	require.False(t, entries[0].IsDir())
	require.True(t, entries[1].IsDir())
}

func TestMockFileSystem_NotExist(t *testing.T) {
	mfs := NewMockFileSystem()

	_, err := mfs.ReadFile("/missing")
	require.ErrorIs(t, err, fs.ErrNotExist)
	_, err = mfs.ReadDir("/missing")
	require.ErrorIs(t, err, fs.ErrNotExist)
	_, err = mfs.Stat("/missing")
	require.ErrorIs(t, err, fs.ErrNotExist)
	require.ErrorIs(t, mfs.Remove("/missing"), fs.ErrNotExist)
	require.ErrorIs(t, mfs.WriteFile("/missing/file", nil, 0644), fs.ErrNotExist)
}

func TestMockFileSystem_WriteAfterMkdirAll(t *testing.T) {
	mfs := NewMockFileSystem()

	require.NoError(t, mfs.MkdirAll("/a/b/c", 0755))
	require.NoError(t, mfs.WriteFile("/a/b/c/f.json", []byte("1"), 0644))

	content, err := mfs.ReadFile("/a/b/c/f.json")
	require.NoError(t, err)
	require.Equal(t, []byte("1"), content)

	info, err := mfs.Stat("/a/b")
	require.NoError(t, err)
	require.True(t, info.IsDir())

	require.ErrorIs(t, mfs.MkdirAll("/a/b/c/f.json", 0755), fs.ErrExist)
	require.Error(t, mfs.Remove("/a/b"))
	require.NoError(t, mfs.Remove("/a/b/c/f.json"))
	require.False(t, mfs.Exists("/a/b/c/f.json"))
}

func TestMockFileSystem_FailOn(t *testing.T) {
	mfs := NewMockFileSystem().AddFile("/r/f", []byte("x"))
	mfs.FailOn("/r/f", fs.ErrPermission)

	_, err := mfs.ReadFile("/r/f")
	require.ErrorIs(t, err, fs.ErrPermission)
	_, err = mfs.Stat("/r/f")
	require.ErrorIs(t, err, fs.ErrPermission)

	mfs.FailOn("/r/f", nil)
	_, err = mfs.ReadFile("/r/f")
	require.NoError(t, err)
}

func TestMockFileSystem_PrintTree(t *testing.T) {
	mfs := NewMockFileSystem().AddFile("/p/reports/r.json", []byte(`{}`))

	var buf bytes.Buffer
	mfs.PrintTree(&buf)
	require.Equal(t, "d /p\nd /p/reports\n- /p/reports/r.json\n", buf.String())
}
