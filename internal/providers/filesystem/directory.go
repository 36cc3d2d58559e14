package filesystem

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/Klin/backend/internal/shared/apperr"
	"github.com/GriffinCanCode/Klin/backend/internal/shared/types"
)

// DirectoryOps handles directory operations
type DirectoryOps struct {
	*FilesystemOps
}

// GetTools returns directory operation tool definitions
func (d *DirectoryOps) GetTools() []types.Tool {
	return []types.Tool{
		{
			ID:          "filesystem.read_folder",
			Command:     "read_folder",
			Name:        "Read Folder",
			Description: "List the immediate children of a folder",
			Parameters: []types.Parameter{
				{Name: "folder_path", Type: "string", Description: "Folder path", Required: true},
			},
			Returns: "array",
		},
		{
			ID:          "filesystem.create_folder",
			Command:     "create_folder",
			Name:        "Create Folder",
			Description: "Create a folder and any missing parents",
			Parameters: []types.Parameter{
				{Name: "folder_path", Type: "string", Description: "Folder path", Required: true},
			},
			Returns: "boolean",
		},
	}
}

// ReadFolder lists a folder in OS enumeration order. Entries whose metadata
// cannot be read are skipped.
func (d *DirectoryOps) ReadFolder(ctx context.Context, params map[string]interface{}, appCtx *types.Context) (*types.Result, error) {
	path, err := pathParam(params, "folder_path")
	if err != nil {
		return types.FromError(err)
	}

	items, err := readFolder(path)
	if err != nil {
		return d.fail("read_folder", path, err)
	}

	return types.Success(map[string]interface{}{
		"path":  path,
		"files": items,
		"count": len(items),
	})
}

func readFolder(path string) ([]FileItem, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, apperr.New(apperr.NotFound, msgFolderMissing)
		}
		return nil, apperr.FromOS(err, "Failed to read folder")
	}
	defer f.Close()

	// File.ReadDir keeps the directory's own order; os.ReadDir would sort.
	entries, err := f.ReadDir(-1)
	if err != nil {
		return nil, apperr.FromOS(err, "Failed to read folder")
	}

	items := make([]FileItem, 0, len(entries))
	for _, entry := range entries {
		info, err := entry.Info()
		if err != nil {
			continue
		}
		items = append(items, newFileItem(filepath.Join(path, entry.Name()), info))
	}
	return items, nil
}

// CreateFolder creates the full directory chain; existing folders are left alone
func (d *DirectoryOps) CreateFolder(ctx context.Context, params map[string]interface{}, appCtx *types.Context) (*types.Result, error) {
	path, err := pathParam(params, "folder_path")
	if err != nil {
		return types.FromError(err)
	}

	if err := os.MkdirAll(path, dirPerm); err != nil {
		return d.fail("create_folder", path, apperr.FromOS(err, "Failed to create folder"))
	}

	d.Logger.Info("created folder", zap.String("path", path))
	return types.Success(map[string]interface{}{"path": path, "created": true})
}
