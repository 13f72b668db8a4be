package upload

import (
	"errors"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAcquire_CopiesAndRewinds(t *testing.T) {
	dir := t.TempDir()

	s, err := Acquire(dir, strings.NewReader("firstName,phone\nA,1\n"))
	require.NoError(t, err)
	require.Equal(t, int64(20), s.Size())
	require.FileExists(t, s.Path())

	data, err := io.ReadAll(s.File())
	require.NoError(t, err)
	require.Equal(t, "firstName,phone\nA,1\n", string(data))

	require.NoError(t, s.Release())
	require.NoFileExists(t, s.Path())
	require.NoError(t, s.Release(), "release is idempotent")
	requireEmptyDir(t, dir)
}

func TestAcquire_FailedCopyLeavesNothing(t *testing.T) {
	dir := t.TempDir()

	_, err := Acquire(dir, io.MultiReader(strings.NewReader("partial"), failingReader{}))
	require.Error(t, err)
	requireEmptyDir(t, dir)
}

func TestAcquire_HandlesAreIndependent(t *testing.T) {
	dir := t.TempDir()

	a, err := Acquire(dir, strings.NewReader("a"))
	require.NoError(t, err)
	b, err := Acquire(dir, strings.NewReader("b"))
	require.NoError(t, err)
	require.NotEqual(t, a.Path(), b.Path())

	require.NoError(t, a.Release())
	require.FileExists(t, b.Path())
	require.NoError(t, b.Release())
	requireEmptyDir(t, dir)
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, errors.New("connection reset")
}

func requireEmptyDir(t *testing.T, dir string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Empty(t, entries)
}
