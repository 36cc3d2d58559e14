package watch

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/Klin/backend/internal/shared/apperr"
)

func TestNewValidatesFolder(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "f.txt")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))

	tests := []struct {
		name string
		path string
		want apperr.Kind
	}{
		{"empty", "", apperr.InvalidInput},
		{"missing", filepath.Join(dir, "nope"), apperr.NotFound},
		{"file", file, apperr.InvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.path)
			require.Error(t, err)
			assert.Equal(t, tt.want, apperr.KindOf(err))
		})
	}
}

func TestWatcherReportsCreate(t *testing.T) {
	dir := t.TempDir()
	w, err := New(dir)
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "new.md"), []byte("x"), 0o644))

	select {
	case ev := <-w.Events():
		assert.Equal(t, "create", ev.Op)
		assert.Equal(t, "new.md", ev.Name)
	case <-time.After(5 * time.Second):
		t.Fatal("no event received")
	}
}

func TestCloseIsIdempotent(t *testing.T) {
	w, err := New(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, w.Close())
	assert.NoError(t, w.Close())

	_, ok := <-w.Events()
	assert.False(t, ok, "events channel closed")
}

func TestOpName(t *testing.T) {
	assert.Equal(t, "create", OpName(fsnotify.Create))
	assert.Equal(t, "write", OpName(fsnotify.Write))
	assert.Equal(t, "remove", OpName(fsnotify.Remove))
	assert.Equal(t, "rename", OpName(fsnotify.Rename))
	assert.Equal(t, "", OpName(fsnotify.Chmod))
	assert.Equal(t, "create", OpName(fsnotify.Create|fsnotify.Write))
}
