package notes

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/Klin/backend/internal/infrastructure/dialog"
	"github.com/GriffinCanCode/Klin/backend/internal/shared/apperr"
	"github.com/GriffinCanCode/Klin/backend/internal/shared/filetime"
)

const (
	msgNoteMissing = "Note does not exist"
	dirPerm        = 0o755
	filePerm       = 0o644
)

// Store manages the Markdown files in one notes directory.
// Nothing is cached: every call goes to the filesystem.
type Store struct {
	dir    string
	dirErr error
	dialog dialog.SaveDialog
	logger *zap.Logger
	now    func() time.Time
}

// Option configures a Store
type Option func(*Store)

// WithDialog sets the save dialog used by Download and Backup
func WithDialog(d dialog.SaveDialog) Option {
	return func(s *Store) { s.dialog = d }
}

// WithLogger sets the logger
func WithLogger(l *zap.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// WithClock overrides the time source used for new filenames
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// NewStore creates a store rooted at dir. The directory is created on first use.
func NewStore(dir string, opts ...Option) *Store {
	s := &Store{
		dir:    dir,
		dialog: dialog.Disabled{},
		logger: zap.NewNop(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewUnavailableStore creates a store whose every operation fails with err,
// for when the app data directory could not be determined.
func NewUnavailableStore(err error, opts ...Option) *Store {
	s := NewStore("", opts...)
	if err == nil {
		err = apperr.New(apperr.Unavailable, "Failed to get app data dir")
	}
	s.dirErr = err
	return s
}

// Dir returns the notes directory, creating it if absent
func (s *Store) Dir() (string, error) {
	if s.dirErr != nil {
		return "", s.dirErr
	}
	if s.dir == "" {
		return "", apperr.New(apperr.Unavailable, "Failed to get app data dir")
	}
	if err := os.MkdirAll(s.dir, dirPerm); err != nil {
		return "", apperr.Wrap(apperr.Unavailable, "Failed to create notes directory", err)
	}
	return s.dir, nil
}

// path validates filename and joins it onto the notes directory
func (s *Store) path(filename string) (string, error) {
	if err := ValidateFilename(filename); err != nil {
		return "", err
	}
	dir, err := s.Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, filename), nil
}

// existing is path plus a check that the note exists
func (s *Store) existing(filename string) (string, error) {
	p, err := s.path(filename)
	if err != nil {
		return "", err
	}
	if _, err := os.Stat(p); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", apperr.New(apperr.NotFound, msgNoteMissing)
		}
		return "", apperr.FromOS(err, "Failed to read note")
	}
	return p, nil
}

// List returns every note, newest modification first
func (s *Store) List(ctx context.Context) ([]Note, error) {
	dir, err := s.Dir()
	if err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, apperr.FromOS(err, "Failed to read notes directory")
	}

	notes := make([]Note, 0, len(entries))
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, apperr.Wrap(apperr.Unavailable, "Listing cancelled", err)
		}
		if entry.IsDir() || !IsNoteName(entry.Name()) {
			continue
		}
		notes = append(notes, s.load(dir, entry))
	}

	SortByModified(notes)
	return notes, nil
}

// load builds a Note; unreadable content and timestamps become ""
func (s *Store) load(dir string, entry fs.DirEntry) Note {
	name := entry.Name()
	p := filepath.Join(dir, name)

	note := Note{Filename: name, Title: Title(name)}

	if data, err := os.ReadFile(p); err == nil && utf8.Valid(data) {
		note.Content = string(data)
	} else if err != nil {
		s.logger.Debug("note content unreadable", zap.String("path", p), zap.Error(err))
	}

	if info, err := entry.Info(); err == nil {
		note.Modified = filetime.Seconds(filetime.Modified(info))
		note.Created = filetime.Seconds(filetime.Created(p, info))
		if note.Created == "" {
			note.Created = note.Modified
		}
	}
	return note
}

// SortByModified orders notes by numeric modified timestamp, newest first.
// Missing or malformed timestamps sort last; ties are broken by filename.
func SortByModified(notes []Note) {
	sort.SliceStable(notes, func(i, j int) bool {
		a, aok := filetime.ParseSeconds(notes[i].Modified)
		b, bok := filetime.ParseSeconds(notes[j].Modified)
		switch {
		case aok && bok && a != b:
			return a > b
		case aok != bok:
			return aok
		default:
			return notes[i].Filename < notes[j].Filename
		}
	})
}

// Create writes a new note and returns its filename.
// A note created in the same millisecond with the same title is overwritten.
func (s *Store) Create(title, content string) (string, error) {
	dir, err := s.Dir()
	if err != nil {
		return "", err
	}

	filename := NewFilename(s.now(), title)
	p := filepath.Join(dir, filename)
	if err := os.WriteFile(p, []byte(content), filePerm); err != nil {
		s.logger.Warn("create note failed", zap.String("path", p), zap.Error(err))
		return "", apperr.FromOS(err, "Failed to write note")
	}

	s.logger.Info("note created", zap.String("filename", filename))
	return filename, nil
}

// Read returns the content of a note
func (s *Store) Read(filename string) (string, error) {
	p, err := s.existing(filename)
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(p)
	if err != nil {
		return "", apperr.FromOS(err, "Failed to read note")
	}
	if !utf8.Valid(data) {
		return "", apperr.New(apperr.IoFailure, "Failed to read note: content is not valid UTF-8")
	}
	return string(data), nil
}

// Update replaces the whole content of an existing note
func (s *Store) Update(filename, content string) error {
	p, err := s.existing(filename)
	if err != nil {
		return err
	}
	if err := os.WriteFile(p, []byte(content), filePerm); err != nil {
		s.logger.Warn("update note failed", zap.String("path", p), zap.Error(err))
		return apperr.FromOS(err, "Failed to update note")
	}
	s.logger.Info("note updated", zap.String("filename", filename))
	return nil
}

// Delete removes a note
func (s *Store) Delete(filename string) error {
	p, err := s.existing(filename)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil {
		s.logger.Warn("delete note failed", zap.String("path", p), zap.Error(err))
		return apperr.FromOS(err, "Failed to delete note")
	}
	s.logger.Info("note deleted", zap.String("filename", filename))
	return nil
}

// Rename gives a note a new title, keeping its timestamp prefix.
// An existing note at the destination is replaced.
func (s *Store) Rename(oldFilename, newTitle string) (string, error) {
	oldPath, err := s.existing(oldFilename)
	if err != nil {
		return "", err
	}
	prefix, err := TimestampPrefix(oldFilename)
	if err != nil {
		return "", err
	}

	newFilename := prefix + "-" + Sanitize(newTitle) + Ext
	newPath := filepath.Join(filepath.Dir(oldPath), newFilename)
	if err := os.Rename(oldPath, newPath); err != nil {
		s.logger.Warn("rename note failed", zap.String("path", oldPath), zap.Error(err))
		return "", apperr.FromOS(err, "Failed to rename note")
	}

	s.logger.Info("note renamed", zap.String("from", oldFilename), zap.String("to", newFilename))
	return newFilename, nil
}

// Download asks the user for a destination and copies the note there.
// Cancelling the dialog is not an error.
func (s *Store) Download(ctx context.Context, filename string) (SaveResult, error) {
	content, err := s.Read(filename)
	if err != nil {
		return SaveResult{}, err
	}

	dest, ok, err := s.dialog.SaveFile(ctx, dialog.SaveOptions{
		Title:           "Save note",
		DefaultFilename: filename,
		Filters:         []dialog.Filter{{Name: "Markdown", Patterns: []string{"*.md"}}},
	})
	if err != nil {
		return SaveResult{}, err
	}
	if !ok {
		return SaveResult{Saved: false}, nil
	}

	if err := os.WriteFile(dest, []byte(content), filePerm); err != nil {
		s.logger.Warn("save note failed", zap.String("path", dest), zap.Error(err))
		return SaveResult{}, apperr.FromOS(err, "Failed to save note")
	}

	s.logger.Info("note downloaded", zap.String("filename", filename), zap.String("path", dest))
	return SaveResult{Saved: true, Path: dest}, nil
}
