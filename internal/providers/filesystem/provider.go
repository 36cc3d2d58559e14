package filesystem

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/Klin/backend/internal/shared/apperr"
	"github.com/GriffinCanCode/Klin/backend/internal/shared/types"
)

// Provider implements the file browser commands
type Provider struct {
	basic     *BasicOps
	directory *DirectoryOps
	metadata  *MetadataOps
	search    *SearchOps
}

// NewProvider creates a filesystem provider
func NewProvider(resolver DownloadsResolver, launcher Launcher, logger *zap.Logger) *Provider {
	if launcher == nil {
		launcher = SystemLauncher{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	ops := &FilesystemOps{
		Resolver: resolver,
		Launcher: launcher,
		Logger:   logger.Named("filesystem"),
	}
	return &Provider{
		basic:     &BasicOps{FilesystemOps: ops},
		directory: &DirectoryOps{FilesystemOps: ops},
		metadata:  &MetadataOps{FilesystemOps: ops},
		search:    &SearchOps{FilesystemOps: ops},
	}
}

// Definition returns service metadata
func (p *Provider) Definition() types.Service {
	tools := make([]types.Tool, 0, 10)
	tools = append(tools, p.basic.GetTools()...)
	tools = append(tools, p.directory.GetTools()...)
	tools = append(tools, p.metadata.GetTools()...)
	tools = append(tools, p.search.GetTools()...)

	return types.Service{
		ID:          "filesystem",
		Name:        "Filesystem Service",
		Description: "Browse, open, create and delete files on the host",
		Category:    types.CategoryFilesystem,
		Capabilities: []string{
			"downloads",
			"list",
			"open",
			"delete",
			"mkdir",
			"stat",
			"glob",
			"size",
		},
		Tools: tools,
	}
}

// Execute runs a filesystem operation
func (p *Provider) Execute(ctx context.Context, toolID string, params map[string]interface{}, appCtx *types.Context) (*types.Result, error) {
	switch toolID {
	case "filesystem.downloads":
		return p.basic.Downloads(ctx, params, appCtx)
	case "filesystem.open":
		return p.basic.Open(ctx, params, appCtx)
	case "filesystem.delete":
		return p.basic.Delete(ctx, params, appCtx)
	case "filesystem.read_folder":
		return p.directory.ReadFolder(ctx, params, appCtx)
	case "filesystem.create_folder":
		return p.directory.CreateFolder(ctx, params, appCtx)
	case "filesystem.stat":
		return p.metadata.Stat(ctx, params, appCtx)
	case "filesystem.folder_size":
		return p.metadata.FolderSize(ctx, params, appCtx)
	case "filesystem.search":
		return p.search.Search(ctx, params, appCtx)
	default:
		return types.FailureKind(apperr.NotFound, fmt.Sprintf("unknown tool: %s", toolID))
	}
}
