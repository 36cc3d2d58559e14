package notes

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"

	"github.com/klauspost/compress/zip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/Klin/backend/internal/infrastructure/dialog"
	"github.com/GriffinCanCode/Klin/backend/internal/shared/apperr"
	"github.com/GriffinCanCode/Klin/backend/internal/testutil"
)

func TestBackupFilename(t *testing.T) {
	assert.Equal(t, "notes-backup-20261014.zip", BackupFilename(time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC)))
}

func TestBackupWritesArchive(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "backup.zip")
	wantName := BackupFilename(time.UnixMilli(1700000000000))
	d := new(testutil.MockSaveDialog)
	d.On("SaveFile", mock.Anything, mock.MatchedBy(func(o dialog.SaveOptions) bool {
		return o.DefaultFilename == wantName && o.Filters[0].Patterns[0] == "*.zip"
	})).Return(dest, true, nil).Once()

	store, dir := newTestStore(t, WithDialog(d), WithClock(fixedClock(1700000000000)))
	seedNotes(t, store, map[string]string{"1-a.md": "alpha", "2-b.md": "beta"})
	testutil.WriteFile(t, dir, "ignored.txt", "nope")

	result, err := store.Backup(context.Background())
	require.NoError(t, err)
	assert.True(t, result.Saved)
	assert.Equal(t, dest, result.Path)
	assert.Equal(t, 2, result.Count)

	zr, err := zip.OpenReader(dest)
	require.NoError(t, err)
	defer zr.Close()

	contents := map[string]string{}
	names := []string{}
	for _, f := range zr.File {
		rc, err := f.Open()
		require.NoError(t, err)
		data, err := io.ReadAll(rc)
		require.NoError(t, err)
		rc.Close()
		contents[f.Name] = string(data)
		names = append(names, f.Name)
	}
	sort.Strings(names)
	assert.Equal(t, []string{"1-a.md", "2-b.md"}, names)
	assert.Equal(t, "alpha", contents["1-a.md"])
	d.AssertExpectations(t)
}

func TestBackupCancelled(t *testing.T) {
	store, _ := newTestStore(t, WithDialog(testutil.NewCancellingDialog(t)))
	seedNotes(t, store, map[string]string{"1-a.md": "alpha"})

	result, err := store.Backup(context.Background())
	require.NoError(t, err)
	assert.False(t, result.Saved)
}

func TestBackupUnwritableDestination(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "missing-dir", "backup.zip")
	store, _ := newTestStore(t, WithDialog(testutil.NewSavingDialog(t, dest)))
	seedNotes(t, store, map[string]string{"1-a.md": "alpha"})

	_, err := store.Backup(context.Background())
	require.Error(t, err)
	assert.Equal(t, apperr.NotFound, apperr.KindOf(err))

	_, statErr := os.Stat(dest)
	assert.True(t, os.IsNotExist(statErr))
}

func TestBackupDestinationIsDirectoryIsKept(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "chosen")
	require.NoError(t, os.Mkdir(dest, 0o755))
	testutil.WriteFile(t, dest, "keep.txt", "mine")

	store, _ := newTestStore(t, WithDialog(testutil.NewSavingDialog(t, dest)))
	seedNotes(t, store, map[string]string{"1-a.md": "alpha"})

	_, err := store.Backup(context.Background())
	require.Error(t, err)

	info, statErr := os.Stat(dest)
	require.NoError(t, statErr)
	assert.True(t, info.IsDir())
	data, readErr := os.ReadFile(filepath.Join(dest, "keep.txt"))
	require.NoError(t, readErr)
	assert.Equal(t, "mine", string(data))
}

func TestBackupSkipsBareExtensionFile(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "backup.zip")
	store, dir := newTestStore(t, WithDialog(testutil.NewSavingDialog(t, dest)))
	seedNotes(t, store, map[string]string{"1-a.md": "alpha"})
	testutil.WriteFile(t, dir, ".md", "hidden")

	result, err := store.Backup(context.Background())
	require.NoError(t, err)
	assert.True(t, result.Saved)

	zr, err := zip.OpenReader(dest)
	require.NoError(t, err)
	defer zr.Close()
	require.Len(t, zr.File, 1)
	assert.Equal(t, "1-a.md", zr.File[0].Name)
}
