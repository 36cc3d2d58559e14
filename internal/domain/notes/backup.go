package notes

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/klauspost/compress/zip"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/Klin/backend/internal/infrastructure/dialog"
	"github.com/GriffinCanCode/Klin/backend/internal/shared/apperr"
)

// BackupFilename is the default archive name offered by the save dialog
func BackupFilename(t time.Time) string {
	return "notes-backup-" + t.Format("20060102") + ".zip"
}

// Backup asks for a destination and writes every note into a zip archive there.
func (s *Store) Backup(ctx context.Context) (SaveResult, error) {
	dir, err := s.Dir()
	if err != nil {
		return SaveResult{}, err
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return SaveResult{}, apperr.FromOS(err, "Failed to read notes directory")
	}

	dest, ok, err := s.dialog.SaveFile(ctx, dialog.SaveOptions{
		Title:           "Back up notes",
		DefaultFilename: BackupFilename(s.now()),
		Filters:         []dialog.Filter{{Name: "Zip archive", Patterns: []string{"*.zip"}}},
	})
	if err != nil {
		return SaveResult{}, err
	}
	if !ok {
		return SaveResult{Saved: false}, nil
	}

	count, err := writeArchive(ctx, dest, dir, entries)
	if err != nil {
		s.logger.Warn("backup failed", zap.String("path", dest), zap.Error(err))
		return SaveResult{}, err
	}

	s.logger.Info("notes backed up", zap.String("path", dest), zap.Int("count", count))
	return SaveResult{Saved: true, Path: dest, Count: count}, nil
}

// writeArchive creates dest and fills it. A partial archive is removed on
// failure; a dest that could not be created is left untouched.
func writeArchive(ctx context.Context, dest, dir string, entries []os.DirEntry) (count int, err error) {
	f, err := os.Create(dest)
	if err != nil {
		return 0, apperr.FromOS(err, "Failed to create backup")
	}
	defer func() {
		if err != nil {
			_ = f.Close()
			_ = os.Remove(dest)
		}
	}()

	zw := zip.NewWriter(f)
	for _, entry := range entries {
		if entry.IsDir() || !IsNoteName(entry.Name()) {
			continue
		}
		if err := ctx.Err(); err != nil {
			return 0, apperr.Wrap(apperr.Unavailable, "Backup cancelled", err)
		}
		if err := addFile(zw, filepath.Join(dir, entry.Name()), entry); err != nil {
			return 0, err
		}
		count++
	}

	if err := zw.Close(); err != nil {
		return 0, apperr.FromOS(err, "Failed to write backup")
	}
	if err := f.Close(); err != nil {
		return 0, apperr.FromOS(err, "Failed to write backup")
	}
	return count, nil
}

func addFile(zw *zip.Writer, path string, entry os.DirEntry) error {
	info, err := entry.Info()
	if err != nil {
		return apperr.FromOS(err, "Failed to read note")
	}
	header, err := zip.FileInfoHeader(info)
	if err != nil {
		return apperr.Wrap(apperr.IoFailure, "Failed to write backup", err)
	}
	header.Name = entry.Name()
	header.Method = zip.Deflate

	w, err := zw.CreateHeader(header)
	if err != nil {
		return apperr.FromOS(err, "Failed to write backup")
	}

	src, err := os.Open(path)
	if err != nil {
		return apperr.FromOS(err, "Failed to read note")
	}
	defer src.Close()

	if _, err := io.Copy(w, src); err != nil {
		return apperr.FromOS(err, "Failed to write backup")
	}
	return nil
}
