package dialog

import (
	"context"
	"errors"

	"github.com/ncruces/zenity"

	"github.com/GriffinCanCode/Klin/backend/internal/shared/apperr"
)

// Filter restricts the files offered by a dialog
type Filter struct {
	Name     string
	Patterns []string
}

// SaveOptions configures a save dialog
type SaveOptions struct {
	Title           string
	DefaultFilename string
	Filters         []Filter
}

// SaveDialog asks the user where to save a file.
// It returns the chosen path, or ok=false when the user cancelled.
type SaveDialog interface {
	SaveFile(ctx context.Context, opts SaveOptions) (path string, ok bool, err error)
}

// Native shows the platform save dialog through zenity
type Native struct{}

// NewNative creates a native save dialog
func NewNative() *Native {
	return &Native{}
}

// SaveFile blocks until the user answers or ctx is cancelled
func (n *Native) SaveFile(ctx context.Context, opts SaveOptions) (string, bool, error) {
	zopts := []zenity.Option{
		zenity.Context(ctx),
		zenity.ConfirmOverwrite(),
	}
	if opts.Title != "" {
		zopts = append(zopts, zenity.Title(opts.Title))
	}
	if opts.DefaultFilename != "" {
		zopts = append(zopts, zenity.Filename(opts.DefaultFilename))
	}
	if len(opts.Filters) > 0 {
		filters := make(zenity.FileFilters, 0, len(opts.Filters))
		for _, f := range opts.Filters {
			filters = append(filters, zenity.FileFilter{Name: f.Name, Patterns: f.Patterns})
		}
		zopts = append(zopts, filters)
	}

	path, err := zenity.SelectFileSave(zopts...)
	switch {
	case ctx.Err() != nil:
		return "", false, apperr.Wrap(apperr.Unavailable, "Save dialog was closed", ctx.Err())
	case errors.Is(err, zenity.ErrCanceled):
		return "", false, nil
	case err != nil:
		return "", false, apperr.Wrap(apperr.Unavailable, "Failed to show save dialog", err)
	}
	return path, true, nil
}

// Disabled is used when no desktop session is available
type Disabled struct{}

// SaveFile always fails with Unavailable
func (Disabled) SaveFile(context.Context, SaveOptions) (string, bool, error) {
	return "", false, apperr.New(apperr.Unavailable, "Save dialog is not available")
}

// Static answers every request with a fixed path. Used for headless runs
// where downloads should land in a known directory.
type Static struct {
	Path string
}

// SaveFile returns the configured path, honouring ctx cancellation
func (s Static) SaveFile(ctx context.Context, _ SaveOptions) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, apperr.Wrap(apperr.Unavailable, "Save dialog was closed", err)
	}
	if s.Path == "" {
		return "", false, nil
	}
	return s.Path, true, nil
}
