package files_test

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcpgate/mcpgate/internal/files"
)

func TestWriteReadRoundTrip(t *testing.T) {
	s, err := files.NewStore(t.TempDir())
	require.NoError(t, err)

	contents := []string{"", "hello", "line one\nline two\n", "ünïcødé ✅", string([]byte{0, 1, 2})}
	for i, want := range contents {
		name := filepath.Join("notes", string(rune('a'+i))+".txt")
		path, err := s.Write(name, want)
		require.NoError(t, err)
		assert.True(t, filepath.IsAbs(path))

		got, err := s.Read(name)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestResolveRejectsEscape(t *testing.T) {
	s, err := files.NewStore(t.TempDir())
	require.NoError(t, err)

	for _, name := range []string{"../secret", "a/../../b", "/etc/passwd"} {
		_, err := s.Resolve(name)
		assert.True(t, errors.Is(err, files.ErrOutsideRoot), "%s should be rejected", name)
	}

	inside := filepath.Join(s.Root(), "ok.txt")
	got, err := s.Resolve(inside)
	require.NoError(t, err)
	assert.Equal(t, inside, got)
}

func TestListSorted(t *testing.T) {
	s, err := files.NewStore(t.TempDir())
	require.NoError(t, err)
	for _, n := range []string{"b.pdf", "a.py", "c.txt"} {
		_, err := s.Write(n, n)
		require.NoError(t, err)
	}
	names, err := s.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"a.py", "b.pdf", "c.txt"}, names)
}

func TestReadMissing(t *testing.T) {
	s, err := files.NewStore(t.TempDir())
	require.NoError(t, err)
	_, err = s.Read("missing.txt")
	assert.Error(t, err)
}
