package buffer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	perrors "github.com/zhubert/secops/internal/errors"
)

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0644))
	return path
}

func TestOpen_TextFile(t *testing.T) {
	path := writeFile(t, "main.go", []byte("package main\n"))

	f, err := Open(path)
	require.NoError(t, err)

	assert.True(t, f.IsSingleFileBacked())
	assert.Equal(t, "package main\n", f.SnapshotText())
	assert.Equal(t, path, f.Path())
	assert.Equal(t, 13, f.Size())
}

func TestOpen_SnapshotIsStable(t *testing.T) {
	path := writeFile(t, "a.txt", []byte("before"))

	f, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, []byte("after"), 0644))

	assert.Equal(t, "before", f.SnapshotText())
}

func TestOpen_BinaryIsNotEligible(t *testing.T) {
	tests := map[string][]byte{
		"nul byte":     {'a', 0, 'b'},
		"invalid utf8": {0xff, 0xfe, 'x'},
	}

	for name, data := range tests {
		t.Run(name, func(t *testing.T) {
			f, err := Open(writeFile(t, "blob.bin", data))
			require.NoError(t, err)
			assert.False(t, f.IsSingleFileBacked())
		})
	}
}

func TestOpen_Errors(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing.txt"))
	assert.True(t, perrors.Is(err, perrors.KindIO))

	_, err = Open(t.TempDir())
	assert.True(t, perrors.Is(err, perrors.KindIO))
	assert.Contains(t, err.Error(), "not a regular file")
}

func TestFromText(t *testing.T) {
	assert.True(t, FromText("/tmp/x.go", "ok").IsSingleFileBacked())
	assert.False(t, FromText("", "ok").IsSingleFileBacked(), "unsaved buffers are not file-backed")
	assert.False(t, FromText("/tmp/x.bin", "a\x00b").IsSingleFileBacked())
}

func TestMulti(t *testing.T) {
	m := NewMulti(FromText("/a", "one"), FromText("/b", "two"))

	assert.False(t, m.IsSingleFileBacked())
	assert.Equal(t, "one\ntwo", m.SnapshotText())
	assert.Len(t, m.Files(), 2)
	assert.False(t, NewMulti(FromText("/a", "only")).IsSingleFileBacked())
}
