package paths

import (
	"path/filepath"
	"unicode/utf8"

	"github.com/adrg/xdg"

	"github.com/GriffinCanCode/Klin/backend/internal/shared/apperr"
)

// NotesDirName is the notes subdirectory of the application data directory
const NotesDirName = "notes"

// DefaultIdentifier names the application data directory under the OS data home
const DefaultIdentifier = "com.klin.app"

// Resolver resolves the environment directories the commands operate on.
// Empty overrides fall back to OS discovery.
type Resolver struct {
	DownloadsOverride string
	AppDataOverride   string
	Identifier        string
	discoverDownloads func() string
	discoverDataHome  func() string
}

// NewResolver creates a resolver backed by XDG / Known Folder discovery
func NewResolver(downloadsOverride, appDataOverride, identifier string) *Resolver {
	if identifier == "" {
		identifier = DefaultIdentifier
	}
	return &Resolver{
		DownloadsOverride: downloadsOverride,
		AppDataOverride:   appDataOverride,
		Identifier:        identifier,
		discoverDownloads: func() string { return xdg.UserDirs.Download },
		discoverDataHome:  func() string { return xdg.DataHome },
	}
}

// Downloads returns the user's downloads directory
func (r *Resolver) Downloads() (string, error) {
	dir := r.DownloadsOverride
	if dir == "" {
		dir = r.discoverDownloads()
	}
	return validate(dir, "Could not find downloads folder")
}

// AppData returns the application's private data directory
func (r *Resolver) AppData() (string, error) {
	if r.AppDataOverride != "" {
		return validate(r.AppDataOverride, "Failed to get app data dir")
	}
	home := r.discoverDataHome()
	if home == "" {
		return "", apperr.New(apperr.Unavailable, "Failed to get app data dir")
	}
	return validate(filepath.Join(home, r.Identifier), "Failed to get app data dir")
}

// Notes returns <app-data>/notes without creating it
func (r *Resolver) Notes() (string, error) {
	dir, err := r.AppData()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, NotesDirName), nil
}

func validate(dir, msg string) (string, error) {
	if dir == "" {
		return "", apperr.New(apperr.Unavailable, msg)
	}
	if !utf8.ValidString(dir) {
		return "", apperr.New(apperr.Unavailable, "Invalid path")
	}
	return filepath.Clean(dir), nil
}
