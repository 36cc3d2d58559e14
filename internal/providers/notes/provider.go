package notes

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/Klin/backend/internal/domain/notes"
	"github.com/GriffinCanCode/Klin/backend/internal/infrastructure/logging"
	"github.com/GriffinCanCode/Klin/backend/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/Klin/backend/internal/shared/apperr"
	"github.com/GriffinCanCode/Klin/backend/internal/shared/types"
)

// Dialog outcomes recorded for download and backup
const (
	outcomeSaved     = "saved"
	outcomeCancelled = "cancelled"
	outcomeFailed    = "failed"
)

// Provider exposes the note store as tools
type Provider struct {
	store    *notes.Store
	renderer *notes.Renderer
	metrics  *monitoring.Metrics
	logger   *zap.Logger
}

// NewProvider creates a notes provider. metrics may be nil.
func NewProvider(store *notes.Store, metrics *monitoring.Metrics, logger *zap.Logger) *Provider {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Provider{
		store:    store,
		renderer: notes.NewRenderer(),
		metrics:  metrics,
		logger:   logger.Named("notes"),
	}
}

// Definition returns service metadata
func (p *Provider) Definition() types.Service {
	return types.Service{
		ID:          "notes",
		Name:        "Notes Service",
		Description: "Markdown notes stored one file per note in the app data directory",
		Category:    types.CategoryNotes,
		Capabilities: []string{
			"list",
			"create",
			"read",
			"update",
			"delete",
			"rename",
			"export",
			"search",
			"render",
			"backup",
		},
		Tools: p.getTools(),
	}
}

func (p *Provider) getTools() []types.Tool {
	filename := types.Parameter{Name: "filename", Type: "string", Description: "Note filename, e.g. 1700000000000-Groceries.md", Required: true}

	return []types.Tool{
		{
			ID:          "notes.resolve_dir",
			Command:     "resolve_notes_dir",
			Name:        "Notes Directory",
			Description: "Locate the notes directory, creating it if absent",
			Parameters:  []types.Parameter{},
			Returns:     "object",
		},
		{
			ID:          "notes.list",
			Command:     "list_notes",
			Name:        "List Notes",
			Description: "List every note, most recently modified first",
			Parameters:  []types.Parameter{},
			Returns:     "array",
		},
		{
			ID:          "notes.create",
			Command:     "create_note",
			Name:        "Create Note",
			Description: "Create a note named after the current time and its title",
			Parameters: []types.Parameter{
				{Name: "title", Type: "string", Description: "Note title", Required: true},
				{Name: "content", Type: "string", Description: "Markdown content", Required: true},
			},
			Returns: "object",
		},
		{
			ID:          "notes.read",
			Command:     "read_note",
			Name:        "Read Note",
			Description: "Read a note's content",
			Parameters:  []types.Parameter{filename},
			Returns:     "string",
		},
		{
			ID:          "notes.update",
			Command:     "update_note",
			Name:        "Update Note",
			Description: "Replace a note's content",
			Parameters: []types.Parameter{
				filename,
				{Name: "content", Type: "string", Description: "Markdown content", Required: true},
			},
			Returns: "boolean",
		},
		{
			ID:          "notes.delete",
			Command:     "delete_note",
			Name:        "Delete Note",
			Description: "Delete a note",
			Parameters:  []types.Parameter{filename},
			Returns:     "boolean",
		},
		{
			ID:          "notes.rename",
			Command:     "rename_note",
			Name:        "Rename Note",
			Description: "Retitle a note, keeping its creation timestamp prefix",
			Parameters: []types.Parameter{
				{Name: "old_filename", Type: "string", Description: "Current filename", Required: true},
				{Name: "new_title", Type: "string", Description: "New title", Required: true},
			},
			Returns: "object",
		},
		{
			ID:          "notes.download",
			Command:     "download_note",
			Name:        "Download Note",
			Description: "Save a copy of a note to a location chosen in a save dialog",
			Parameters:  []types.Parameter{filename},
			Returns:     "object",
		},
		{
			ID:          "notes.search",
			Command:     "search_notes",
			Name:        "Search Notes",
			Description: "Fuzzy match titles, then match content",
			Parameters: []types.Parameter{
				{Name: "query", Type: "string", Description: "Search text (empty lists all)", Required: false},
			},
			Returns: "array",
		},
		{
			ID:          "notes.render",
			Command:     "render_note",
			Name:        "Render Note",
			Description: "Render a note's Markdown to sanitized HTML",
			Parameters:  []types.Parameter{filename},
			Returns:     "object",
		},
		{
			ID:          "notes.backup",
			Command:     "backup_notes",
			Name:        "Backup Notes",
			Description: "Save every note into a zip archive chosen in a save dialog",
			Parameters:  []types.Parameter{},
			Returns:     "object",
		},
	}
}

// Execute runs a notes operation
func (p *Provider) Execute(ctx context.Context, toolID string, params map[string]interface{}, appCtx *types.Context) (*types.Result, error) {
	switch toolID {
	case "notes.resolve_dir":
		return p.resolveDir()
	case "notes.list":
		return p.list(ctx)
	case "notes.create":
		return p.create(ctx, params)
	case "notes.read":
		return p.read(params)
	case "notes.update":
		return p.update(params)
	case "notes.delete":
		return p.delete(ctx, params)
	case "notes.rename":
		return p.rename(params)
	case "notes.download":
		return p.download(ctx, params)
	case "notes.search":
		return p.search(ctx, params)
	case "notes.render":
		return p.render(params)
	case "notes.backup":
		return p.backup(ctx)
	default:
		return types.FailureKind(apperr.NotFound, fmt.Sprintf("unknown tool: %s", toolID))
	}
}

func (p *Provider) resolveDir() (*types.Result, error) {
	dir, err := p.store.Dir()
	if err != nil {
		return p.fail("resolve_dir", "", err)
	}
	return types.Success(map[string]interface{}{"path": dir})
}

func (p *Provider) list(ctx context.Context) (*types.Result, error) {
	items, err := p.store.List(ctx)
	if err != nil {
		return p.fail("list", "", err)
	}
	p.setNotes(len(items))
	return types.Success(map[string]interface{}{"notes": items, "count": len(items)})
}

func (p *Provider) create(ctx context.Context, params map[string]interface{}) (*types.Result, error) {
	title, ok := params["title"].(string)
	if !ok {
		return types.Failure("title parameter required")
	}
	content, ok := params["content"].(string)
	if !ok {
		return types.Failure("content parameter required")
	}

	filename, err := p.store.Create(title, content)
	if err != nil {
		return p.fail("create", "", err)
	}
	p.refreshCount(ctx)
	return types.Success(map[string]interface{}{"filename": filename})
}

func (p *Provider) read(params map[string]interface{}) (*types.Result, error) {
	filename, ok := params["filename"].(string)
	if !ok || filename == "" {
		return types.Failure("filename parameter required")
	}

	content, err := p.store.Read(filename)
	if err != nil {
		return p.fail("read", filename, err)
	}
	return types.Success(map[string]interface{}{"filename": filename, "content": content})
}

func (p *Provider) update(params map[string]interface{}) (*types.Result, error) {
	filename, ok := params["filename"].(string)
	if !ok || filename == "" {
		return types.Failure("filename parameter required")
	}
	content, ok := params["content"].(string)
	if !ok {
		return types.Failure("content parameter required")
	}

	if err := p.store.Update(filename, content); err != nil {
		return p.fail("update", filename, err)
	}
	return types.Success(map[string]interface{}{"filename": filename, "updated": true})
}

func (p *Provider) delete(ctx context.Context, params map[string]interface{}) (*types.Result, error) {
	filename, ok := params["filename"].(string)
	if !ok || filename == "" {
		return types.Failure("filename parameter required")
	}

	if err := p.store.Delete(filename); err != nil {
		return p.fail("delete", filename, err)
	}
	p.refreshCount(ctx)
	return types.Success(map[string]interface{}{"filename": filename, "deleted": true})
}

func (p *Provider) rename(params map[string]interface{}) (*types.Result, error) {
	oldFilename, ok := params["old_filename"].(string)
	if !ok || oldFilename == "" {
		return types.Failure("old_filename parameter required")
	}
	newTitle, ok := params["new_title"].(string)
	if !ok {
		return types.Failure("new_title parameter required")
	}

	filename, err := p.store.Rename(oldFilename, newTitle)
	if err != nil {
		return p.fail("rename", oldFilename, err)
	}
	return types.Success(map[string]interface{}{"filename": filename})
}

func (p *Provider) download(ctx context.Context, params map[string]interface{}) (*types.Result, error) {
	filename, ok := params["filename"].(string)
	if !ok || filename == "" {
		return types.Failure("filename parameter required")
	}

	res, err := p.store.Download(ctx, filename)
	p.recordDialog("download_note", res, err)
	if err != nil {
		return p.fail("download", filename, err)
	}
	return types.Success(saveResultData(res))
}

func (p *Provider) search(ctx context.Context, params map[string]interface{}) (*types.Result, error) {
	query, _ := params["query"].(string)

	items, err := p.store.Search(ctx, query)
	if err != nil {
		return p.fail("search", "", err)
	}
	return types.Success(map[string]interface{}{"query": query, "notes": items, "count": len(items)})
}

func (p *Provider) render(params map[string]interface{}) (*types.Result, error) {
	filename, ok := params["filename"].(string)
	if !ok || filename == "" {
		return types.Failure("filename parameter required")
	}

	r, err := p.store.Render(p.renderer, filename)
	if err != nil {
		return p.fail("render", filename, err)
	}

	data := map[string]interface{}{"filename": r.Filename, "html": r.HTML}
	if r.Heading != "" {
		data["heading"] = r.Heading
	}
	return types.Success(data)
}

func (p *Provider) backup(ctx context.Context) (*types.Result, error) {
	res, err := p.store.Backup(ctx)
	p.recordDialog("backup_notes", res, err)
	if err != nil {
		return p.fail("backup", "", err)
	}

	data := saveResultData(res)
	if res.Saved {
		data["count"] = res.Count
	}
	return types.Success(data)
}

func saveResultData(res notes.SaveResult) map[string]interface{} {
	data := map[string]interface{}{"saved": res.Saved}
	if res.Saved {
		data["path"] = res.Path
	}
	return data
}

// refreshCount updates the notes gauge after a create or delete
func (p *Provider) refreshCount(ctx context.Context) {
	if p.metrics == nil {
		return
	}
	if items, err := p.store.List(ctx); err == nil {
		p.metrics.SetNotes(len(items))
	}
}

func (p *Provider) setNotes(n int) {
	if p.metrics != nil {
		p.metrics.SetNotes(n)
	}
}

func (p *Provider) recordDialog(command string, res notes.SaveResult, err error) {
	if p.metrics == nil {
		return
	}
	switch {
	case err != nil:
		p.metrics.RecordDialog(command, outcomeFailed)
	case res.Saved:
		p.metrics.RecordDialog(command, outcomeSaved)
	default:
		p.metrics.RecordDialog(command, outcomeCancelled)
	}
}

func (p *Provider) fail(op, filename string, err error) (*types.Result, error) {
	logging.Failure(p.logger, "notes operation failed", err, logging.Op(op), logging.Filename(filename))
	return types.FromError(err)
}
