package filesystem

import (
	"io/fs"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/Klin/backend/internal/infrastructure/logging"
	"github.com/GriffinCanCode/Klin/backend/internal/shared/apperr"
	"github.com/GriffinCanCode/Klin/backend/internal/shared/filetime"
	"github.com/GriffinCanCode/Klin/backend/internal/shared/types"
)

const (
	msgFolderMissing = "Folder does not exist"
	msgFileMissing   = "File does not exist"
	dirPerm          = 0o755
)

// FileItem is one entry of a folder listing
type FileItem struct {
	Name     string  `json:"name"`
	Path     string  `json:"path"`
	IsDir    bool    `json:"is_dir"`
	Size     int64   `json:"size"`
	Modified *string `json:"modified,omitempty"`
}

// DownloadsResolver locates the user's downloads directory
type DownloadsResolver interface {
	Downloads() (string, error)
}

// FilesystemOps provides common filesystem operation helpers
type FilesystemOps struct {
	Resolver DownloadsResolver
	Launcher Launcher
	Logger   *zap.Logger
}

// newFileItem builds a listing entry. Names that are not valid UTF-8 are
// converted lossily so they survive JSON encoding.
func newFileItem(path string, info fs.FileInfo) FileItem {
	item := FileItem{
		Name:  strings.ToValidUTF8(info.Name(), "�"),
		Path:  strings.ToValidUTF8(path, "�"),
		IsDir: info.IsDir(),
		Size:  info.Size(),
	}
	if s := filetime.Seconds(filetime.Modified(info)); s != "" {
		item.Modified = &s
	}
	return item
}

// toMap converts an item into result data
func (f FileItem) toMap() map[string]interface{} {
	m := map[string]interface{}{
		"name":   f.Name,
		"path":   f.Path,
		"is_dir": f.IsDir,
		"size":   f.Size,
	}
	if f.Modified != nil {
		m["modified"] = *f.Modified
	}
	return m
}

// pathParam reads a required, non-empty path argument
func pathParam(params map[string]interface{}, name string) (string, error) {
	p, ok := params[name].(string)
	if !ok || p == "" {
		return "", apperr.New(apperr.InvalidInput, name+" parameter required")
	}
	return filepath.Clean(p), nil
}

// fail logs a failed operation and converts it into a result
func (ops *FilesystemOps) fail(op, path string, err error) (*types.Result, error) {
	logging.Failure(ops.Logger, "filesystem operation failed", err, logging.Op(op), logging.Path(path))
	return types.FromError(err)
}
