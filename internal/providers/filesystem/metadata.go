package filesystem

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	"github.com/charlievieth/fastwalk"
	"github.com/gabriel-vasile/mimetype"
	"github.com/saintfish/chardet"

	"github.com/GriffinCanCode/Klin/backend/internal/shared/apperr"
	"github.com/GriffinCanCode/Klin/backend/internal/shared/filetime"
	"github.com/GriffinCanCode/Klin/backend/internal/shared/types"
)

// charsetSample bounds how much of a text file is read for charset detection
const charsetSample = 4096

// File kinds shown as badges in the file list
const (
	KindFolder   = "folder"
	KindImage    = "image"
	KindGIF      = "gif"
	KindVideo    = "video"
	KindDocument = "document"
	KindCode     = "code"
	KindArchive  = "archive"
	KindText     = "text"
)

var kindByExt = map[string]string{
	"jpg": KindImage, "jpeg": KindImage, "png": KindImage, "bmp": KindImage, "svg": KindImage, "webp": KindImage,
	"gif": KindGIF,
	"mp4": KindVideo, "avi": KindVideo, "mov": KindVideo, "wmv": KindVideo, "mkv": KindVideo,
	"pdf": KindDocument, "doc": KindDocument, "docx": KindDocument, "xls": KindDocument,
	"xlsx": KindDocument, "ppt": KindDocument, "pptx": KindDocument,
	"js": KindCode, "ts": KindCode, "tsx": KindCode, "jsx": KindCode, "py": KindCode, "java": KindCode,
	"cpp": KindCode, "c": KindCode, "html": KindCode, "css": KindCode, "rs": KindCode,
	"zip": KindArchive, "rar": KindArchive, "7z": KindArchive, "tar": KindArchive, "gz": KindArchive,
}

// MetadataOps handles file metadata operations
type MetadataOps struct {
	*FilesystemOps
}

// GetTools returns metadata operation tool definitions
func (m *MetadataOps) GetTools() []types.Tool {
	return []types.Tool{
		{
			ID:          "filesystem.stat",
			Command:     "stat_file",
			Name:        "File Details",
			Description: "Get entry metadata with kind, MIME type and text charset",
			Parameters: []types.Parameter{
				{Name: "file_path", Type: "string", Description: "File or folder path", Required: true},
			},
			Returns: "object",
		},
		{
			ID:          "filesystem.folder_size",
			Command:     "folder_size",
			Name:        "Folder Size",
			Description: "Calculate the total size of a folder (fast parallel walk)",
			Parameters: []types.Parameter{
				{Name: "folder_path", Type: "string", Description: "Folder path", Required: true},
			},
			Returns: "object",
		},
	}
}

// Stat gets entry details
func (m *MetadataOps) Stat(ctx context.Context, params map[string]interface{}, appCtx *types.Context) (*types.Result, error) {
	path, err := pathParam(params, "file_path")
	if err != nil {
		return types.FromError(err)
	}

	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return m.fail("stat", path, apperr.New(apperr.NotFound, msgFileMissing))
		}
		return m.fail("stat", path, apperr.FromOS(err, "Failed to read file metadata"))
	}

	data := newFileItem(path, info).toMap()
	data["kind"] = KindOf(info.Name(), info.IsDir())
	if created := filetime.Seconds(filetime.Created(path, info)); created != "" {
		data["created"] = created
	}

	if info.IsDir() {
		return types.Success(data)
	}

	mtype, err := mimetype.DetectFile(path)
	if err != nil {
		return m.fail("stat", path, apperr.FromOS(err, "Failed to read file"))
	}
	data["mime_type"] = mtype.String()
	data["extension"] = mtype.Extension()

	if isText(mtype) {
		if cs := detectCharset(path); cs != "" {
			data["charset"] = cs
		}
	}

	return types.Success(data)
}

// FolderSize totals the bytes of every regular file below a folder
func (m *MetadataOps) FolderSize(ctx context.Context, params map[string]interface{}, appCtx *types.Context) (*types.Result, error) {
	path, err := pathParam(params, "folder_path")
	if err != nil {
		return types.FromError(err)
	}

	total, files, err := folderSize(ctx, path)
	if err != nil {
		return m.fail("folder_size", path, err)
	}

	return types.Success(map[string]interface{}{
		"path":  path,
		"bytes": total,
		"files": files,
		"size":  formatBytes(total),
	})
}

func folderSize(ctx context.Context, root string) (int64, int64, error) {
	if err := requireDir(root); err != nil {
		return 0, 0, err
	}

	// fastwalk runs the callback from several goroutines
	var total, files atomic.Int64
	conf := fastwalk.Config{Follow: false}

	err := fastwalk.Walk(&conf, root, func(p string, d os.DirEntry, err error) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err != nil || !d.Type().IsRegular() {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return nil
		}

		total.Add(info.Size())
		files.Add(1)
		return nil
	})
	if err != nil {
		if ctx.Err() != nil {
			return 0, 0, apperr.Wrap(apperr.Unavailable, "Size calculation cancelled", err)
		}
		return 0, 0, apperr.FromOS(err, "Failed to calculate folder size")
	}

	return total.Load(), files.Load(), nil
}

// requireDir reports NotFound for a missing folder and InvalidInput for a file
func requireDir(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return apperr.New(apperr.NotFound, msgFolderMissing)
		}
		return apperr.FromOS(err, "Failed to read folder")
	}
	if !info.IsDir() {
		return apperr.New(apperr.InvalidInput, "Not a folder")
	}
	return nil
}

// KindOf classifies an entry by its extension
func KindOf(name string, isDir bool) string {
	if isDir {
		return KindFolder
	}
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
	if kind, ok := kindByExt[ext]; ok {
		return kind
	}
	return KindText
}

func isText(mtype *mimetype.MIME) bool {
	for m := mtype; m != nil; m = m.Parent() {
		if m.Is("text/plain") {
			return true
		}
	}
	return strings.HasPrefix(mtype.String(), "text/")
}

func detectCharset(path string) string {
	f, err := os.Open(path)
	if err != nil {
		return ""
	}
	defer f.Close()

	buf := make([]byte, charsetSample)
	n, err := io.ReadFull(f, buf)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) {
		return ""
	}

	result, err := chardet.NewTextDetector().DetectBest(buf[:n])
	if err != nil || result == nil {
		return ""
	}
	return strings.ToLower(result.Charset)
}

// formatBytes formats bytes to human-readable size
func formatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}

	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}

	units := []string{"KB", "MB", "GB", "TB", "PB"}
	return fmt.Sprintf("%.2f %s", float64(bytes)/float64(div), units[exp])
}
