package filesystem

import (
	"context"
	"errors"
	"io/fs"
	"os"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/Klin/backend/internal/shared/apperr"
	"github.com/GriffinCanCode/Klin/backend/internal/shared/types"
)

// BasicOps handles the downloads lookup, open and delete
type BasicOps struct {
	*FilesystemOps
}

// GetTools returns basic operation tool definitions
func (b *BasicOps) GetTools() []types.Tool {
	return []types.Tool{
		{
			ID:          "filesystem.downloads",
			Command:     "get_downloads_folder",
			Name:        "Downloads Folder",
			Description: "Locate the user's downloads directory",
			Parameters:  []types.Parameter{},
			Returns:     "object",
		},
		{
			ID:          "filesystem.open",
			Command:     "open_file",
			Name:        "Open File",
			Description: "Open a file with the default application",
			Parameters: []types.Parameter{
				{Name: "file_path", Type: "string", Description: "File path", Required: true},
			},
			Returns: "boolean",
		},
		{
			ID:          "filesystem.delete",
			Command:     "delete_file",
			Name:        "Delete",
			Description: "Delete a file, or a folder and everything in it",
			Parameters: []types.Parameter{
				{Name: "file_path", Type: "string", Description: "File or folder path", Required: true},
			},
			Returns: "boolean",
		},
	}
}

// Downloads returns the downloads directory
func (b *BasicOps) Downloads(ctx context.Context, params map[string]interface{}, appCtx *types.Context) (*types.Result, error) {
	dir, err := b.Resolver.Downloads()
	if err != nil {
		return b.fail("downloads", "", err)
	}
	return types.Success(map[string]interface{}{"path": dir})
}

// Open hands a file to the platform opener without waiting for it
func (b *BasicOps) Open(ctx context.Context, params map[string]interface{}, appCtx *types.Context) (*types.Result, error) {
	path, err := pathParam(params, "file_path")
	if err != nil {
		return types.FromError(err)
	}

	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return b.fail("open", path, apperr.New(apperr.NotFound, msgFileMissing))
		}
		return b.fail("open", path, apperr.FromOS(err, "Failed to open file"))
	}

	if err := b.Launcher.Open(path); err != nil {
		return b.fail("open", path, apperr.Wrap(apperr.IoFailure, "Failed to open file", err))
	}

	b.Logger.Info("opened file", zap.String("path", path))
	return types.Success(map[string]interface{}{"path": path, "opened": true})
}

// Delete removes a file with a single unlink, or a directory recursively.
// Symlinks are removed as links, dangling or not.
func (b *BasicOps) Delete(ctx context.Context, params map[string]interface{}, appCtx *types.Context) (*types.Result, error) {
	path, err := pathParam(params, "file_path")
	if err != nil {
		return types.FromError(err)
	}

	info, err := os.Lstat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return b.fail("delete", path, apperr.New(apperr.NotFound, msgFileMissing))
		}
		return b.fail("delete", path, apperr.FromOS(err, "Failed to delete file"))
	}

	if info.IsDir() {
		err = os.RemoveAll(path)
	} else {
		err = os.Remove(path)
	}
	if err != nil {
		return b.fail("delete", path, apperr.FromOS(err, "Failed to delete file"))
	}

	b.Logger.Info("deleted", zap.String("path", path), zap.Bool("dir", info.IsDir()))
	return types.Success(map[string]interface{}{"path": path, "deleted": true})
}
