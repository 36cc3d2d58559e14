package filesystem

import (
	"context"
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/GriffinCanCode/Klin/backend/internal/shared/apperr"
	"github.com/GriffinCanCode/Klin/backend/internal/shared/types"
)

// SearchOps handles glob search below a folder
type SearchOps struct {
	*FilesystemOps
}

// GetTools returns search operation tool definitions
func (s *SearchOps) GetTools() []types.Tool {
	return []types.Tool{
		{
			ID:          "filesystem.search",
			Command:     "search_folder",
			Name:        "Search Folder",
			Description: "Find entries matching a glob with ** patterns (e.g. '**/*.pdf')",
			Parameters: []types.Parameter{
				{Name: "folder_path", Type: "string", Description: "Root folder", Required: true},
				{Name: "pattern", Type: "string", Description: "Glob pattern relative to the folder", Required: true},
			},
			Returns: "array",
		},
	}
}

// Search matches a doublestar pattern against the tree below folder_path
func (s *SearchOps) Search(ctx context.Context, params map[string]interface{}, appCtx *types.Context) (*types.Result, error) {
	root, err := pathParam(params, "folder_path")
	if err != nil {
		return types.FromError(err)
	}
	pattern, ok := params["pattern"].(string)
	if !ok || pattern == "" {
		return types.Failure("pattern parameter required")
	}

	items, err := searchFolder(ctx, root, pattern)
	if err != nil {
		return s.fail("search", root, err)
	}

	return types.Success(map[string]interface{}{
		"path":    root,
		"pattern": pattern,
		"files":   items,
		"count":   len(items),
	})
}

func searchFolder(ctx context.Context, root, pattern string) ([]FileItem, error) {
	if !doublestar.ValidatePattern(pattern) {
		return nil, apperr.New(apperr.InvalidInput, "Invalid search pattern")
	}
	if err := requireDir(root); err != nil {
		return nil, err
	}

	// Globbing through an fs.FS keeps metacharacters in root from being interpreted
	matches, err := doublestar.Glob(os.DirFS(root), pattern)
	if err != nil {
		return nil, apperr.FromOS(err, "Failed to search folder")
	}

	items := make([]FileItem, 0, len(matches))
	for _, m := range matches {
		if err := ctx.Err(); err != nil {
			return nil, apperr.Wrap(apperr.Unavailable, "Search cancelled", err)
		}
		p := filepath.Join(root, filepath.FromSlash(m))
		info, err := os.Lstat(p)
		if err != nil {
			continue
		}
		items = append(items, newFileItem(p, info))
	}

	sort.Slice(items, func(i, j int) bool { return items[i].Path < items[j].Path })
	return items, nil
}
