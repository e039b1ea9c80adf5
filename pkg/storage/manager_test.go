package storage

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// failingReader returns some data and then an error
type failingReader struct {
	data []byte
	done bool
}

func (f *failingReader) Read(p []byte) (int, error) {
	if f.done {
		return 0, errors.New("connection reset")
	}
	f.done = true
	return copy(p, f.data), nil
}

func listDir(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func TestNewManagerCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b")

	m, err := NewManager(dir)
	require.NoError(t, err)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
	assert.Equal(t, dir, m.GetOutputDir())
}

func TestSave(t *testing.T) {
	dir := t.TempDir()
	m, err := NewManager(dir)
	require.NoError(t, err)

	assert.False(t, m.Exists("sunset", "png"))

	n, err := m.Save(bytes.NewReader([]byte("image bytes")), "sunset", "png")
	require.NoError(t, err)
	assert.Equal(t, int64(11), n)

	content, err := os.ReadFile(filepath.Join(dir, "sunset.png"))
	require.NoError(t, err)
	assert.Equal(t, "image bytes", string(content))

	assert.True(t, m.Exists("sunset", "png"))
	assert.Equal(t, 1, m.GetSavedCount())
	assert.Equal(t, int64(11), m.GetSavedBytes())
	assert.Equal(t, []string{"sunset.png"}, listDir(t, dir))
}

func TestSaveOverwritesExisting(t *testing.T) {
	dir := t.TempDir()
	m, err := NewManager(dir)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "sunset.jpg"), []byte("old"), 0644))

	_, err = m.Save(strings.NewReader("new"), "sunset", "jpg")
	require.NoError(t, err)

	content, err := os.ReadFile(filepath.Join(dir, "sunset.jpg"))
	require.NoError(t, err)
	assert.Equal(t, "new", string(content))
}

func TestSaveFailureRemovesPartialFile(t *testing.T) {
	dir := t.TempDir()
	m, err := NewManager(dir)
	require.NoError(t, err)

	_, err = m.Save(&failingReader{data: []byte("half an ima")}, "broken", "png")
	require.Error(t, err)

	assert.Empty(t, listDir(t, dir))
	assert.False(t, m.Exists("broken", "png"))
	assert.Equal(t, 0, m.GetSavedCount())
}

func TestPathStaysInsideOutputDir(t *testing.T) {
	dir := t.TempDir()
	m, err := NewManager(dir)
	require.NoError(t, err)

	p := m.Path("../escape", "png")
	assert.Equal(t, dir, filepath.Dir(p))
	assert.Equal(t, "..-escape.png", filepath.Base(p))

	p = m.Path(`..\escape`, "jpg")
	assert.Equal(t, dir, filepath.Dir(p))
	assert.Equal(t, "..-escape.jpg", filepath.Base(p))
}
