package filesystem

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/Klin/backend/internal/shared/apperr"
	"github.com/GriffinCanCode/Klin/backend/internal/shared/types"
	"github.com/GriffinCanCode/Klin/backend/internal/testutil"
)

type fakeResolver struct {
	dir string
	err error
}

func (f fakeResolver) Downloads() (string, error) { return f.dir, f.err }

type recordingLauncher struct {
	opened []string
	err    error
}

func (r *recordingLauncher) Open(path string) error {
	r.opened = append(r.opened, path)
	return r.err
}

func newTestProvider(t *testing.T) (*Provider, *recordingLauncher) {
	t.Helper()
	l := &recordingLauncher{}
	return NewProvider(fakeResolver{dir: t.TempDir()}, l, nil), l
}

func run(t *testing.T, p *Provider, toolID string, params map[string]interface{}) *types.Result {
	t.Helper()
	result, err := p.Execute(context.Background(), toolID, params, &types.Context{})
	require.NoError(t, err)
	require.NotNil(t, result)
	return result
}

func fileNames(items []FileItem) []string {
	names := make([]string, 0, len(items))
	for _, it := range items {
		names = append(names, it.Name)
	}
	sort.Strings(names)
	return names
}

func TestDefinitionCommandsAreUnique(t *testing.T) {
	p, _ := newTestProvider(t)
	def := p.Definition()

	assert.Equal(t, "filesystem", def.ID)
	assert.Equal(t, types.CategoryFilesystem, def.Category)

	seen := map[string]bool{}
	for _, tool := range def.Tools {
		assert.True(t, strings.HasPrefix(tool.ID, "filesystem."), tool.ID)
		assert.NotEmpty(t, tool.Command, tool.ID)
		assert.False(t, seen[tool.Command], "duplicate command %s", tool.Command)
		seen[tool.Command] = true
	}
	for _, cmd := range []string{"get_downloads_folder", "read_folder", "open_file", "delete_file", "create_folder"} {
		assert.True(t, seen[cmd], cmd)
	}
}

func TestUnknownTool(t *testing.T) {
	p, _ := newTestProvider(t)
	testutil.AssertErrorKind(t, run(t, p, "filesystem.nope", nil), apperr.NotFound)
}

func TestDownloads(t *testing.T) {
	p := NewProvider(fakeResolver{dir: "/home/u/Downloads"}, &recordingLauncher{}, nil)
	testutil.AssertDataField(t, run(t, p, "filesystem.downloads", nil), "path", "/home/u/Downloads")

	p = NewProvider(fakeResolver{err: apperr.New(apperr.Unavailable, "Could not find downloads folder")}, nil, nil)
	result := run(t, p, "filesystem.downloads", nil)
	testutil.AssertErrorKind(t, result, apperr.Unavailable)
	assert.Equal(t, "Could not find downloads folder", *result.Error)
}

func TestReadFolderListsImmediateChildren(t *testing.T) {
	p, _ := newTestProvider(t)
	root := t.TempDir()
	testutil.WriteFile(t, root, "a.txt", "hello")
	testutil.WriteFile(t, root, "sub/nested.txt", "deep")

	result := run(t, p, "filesystem.read_folder", map[string]interface{}{"folder_path": root})
	testutil.AssertSuccess(t, result)

	items := result.Data["files"].([]FileItem)
	assert.Equal(t, []string{"a.txt", "sub"}, fileNames(items))
	assert.Equal(t, 2, result.Data["count"])

	for _, it := range items {
		assert.Equal(t, filepath.Join(root, it.Name), it.Path)
		require.NotNil(t, it.Modified)
		switch it.Name {
		case "a.txt":
			assert.False(t, it.IsDir)
			assert.Equal(t, int64(5), it.Size)
		case "sub":
			assert.True(t, it.IsDir)
		}
	}
}

func TestReadFolderEmpty(t *testing.T) {
	p, _ := newTestProvider(t)
	result := run(t, p, "filesystem.read_folder", map[string]interface{}{"folder_path": t.TempDir()})
	testutil.AssertDataField(t, result, "count", 0)
	assert.Empty(t, result.Data["files"])
}

func TestReadFolderErrors(t *testing.T) {
	p, _ := newTestProvider(t)
	root := t.TempDir()
	file := testutil.WriteFile(t, root, "plain.txt", "x")

	result := run(t, p, "filesystem.read_folder", map[string]interface{}{"folder_path": filepath.Join(root, "missing")})
	testutil.AssertErrorKind(t, result, apperr.NotFound)
	assert.Equal(t, "Folder does not exist", *result.Error)

	testutil.AssertError(t, run(t, p, "filesystem.read_folder", map[string]interface{}{"folder_path": file}))
	testutil.AssertErrorKind(t, run(t, p, "filesystem.read_folder", map[string]interface{}{}), apperr.InvalidInput)
}

func TestOpenFile(t *testing.T) {
	p, l := newTestProvider(t)
	file := testutil.WriteFile(t, t.TempDir(), "doc.pdf", "%PDF")

	testutil.AssertSuccess(t, run(t, p, "filesystem.open", map[string]interface{}{"file_path": file}))
	assert.Equal(t, []string{file}, l.opened)
}

func TestOpenFileMissing(t *testing.T) {
	p, l := newTestProvider(t)

	result := run(t, p, "filesystem.open", map[string]interface{}{"file_path": filepath.Join(t.TempDir(), "nope")})
	testutil.AssertErrorKind(t, result, apperr.NotFound)
	assert.Equal(t, "File does not exist", *result.Error)
	assert.Empty(t, l.opened)
}

func TestOpenFileLauncherFailure(t *testing.T) {
	l := &recordingLauncher{err: errors.New("exec: \"xdg-open\": executable file not found")}
	p := NewProvider(fakeResolver{}, l, nil)
	file := testutil.WriteFile(t, t.TempDir(), "a.txt", "")

	result := run(t, p, "filesystem.open", map[string]interface{}{"file_path": file})
	testutil.AssertErrorKind(t, result, apperr.IoFailure)
	assert.Contains(t, *result.Error, "Failed to open file")
}

func TestDeleteFile(t *testing.T) {
	p, _ := newTestProvider(t)
	root := t.TempDir()
	file := testutil.WriteFile(t, root, "a.txt", "x")

	testutil.AssertSuccess(t, run(t, p, "filesystem.delete", map[string]interface{}{"file_path": file}))
	_, err := os.Stat(file)
	assert.True(t, os.IsNotExist(err))
}

func TestDeleteFolderRecursive(t *testing.T) {
	p, _ := newTestProvider(t)
	root := t.TempDir()
	testutil.WriteFile(t, root, "tree/a/b/c.txt", "x")

	testutil.AssertSuccess(t, run(t, p, "filesystem.delete", map[string]interface{}{"file_path": filepath.Join(root, "tree")}))
	_, err := os.Stat(filepath.Join(root, "tree"))
	assert.True(t, os.IsNotExist(err))
}

func TestDeleteMissingChangesNothing(t *testing.T) {
	p, _ := newTestProvider(t)
	root := t.TempDir()
	testutil.WriteFile(t, root, "keep.txt", "x")

	result := run(t, p, "filesystem.delete", map[string]interface{}{"file_path": filepath.Join(root, "gone.txt")})
	testutil.AssertErrorKind(t, result, apperr.NotFound)
	assert.Equal(t, "File does not exist", *result.Error)

	entries, err := os.ReadDir(root)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestDeleteDanglingSymlink(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks need elevated privileges on windows")
	}
	p, _ := newTestProvider(t)
	root := t.TempDir()
	link := filepath.Join(root, "dangling")
	require.NoError(t, os.Symlink(filepath.Join(root, "target"), link))

	testutil.AssertSuccess(t, run(t, p, "filesystem.delete", map[string]interface{}{"file_path": link}))
	_, err := os.Lstat(link)
	assert.True(t, os.IsNotExist(err))
}

func TestDeleteSymlinkToFolderKeepsTarget(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks need elevated privileges on windows")
	}
	p, _ := newTestProvider(t)
	root := t.TempDir()
	target := filepath.Join(root, "target")
	testutil.WriteFile(t, target, "inner.txt", "x")
	link := filepath.Join(root, "link")
	require.NoError(t, os.Symlink(target, link))

	testutil.AssertSuccess(t, run(t, p, "filesystem.delete", map[string]interface{}{"file_path": link}))
	_, err := os.Stat(filepath.Join(target, "inner.txt"))
	assert.NoError(t, err)
}

func TestCreateFolder(t *testing.T) {
	p, _ := newTestProvider(t)
	dir := filepath.Join(t.TempDir(), "a", "b", "c")

	testutil.AssertSuccess(t, run(t, p, "filesystem.create_folder", map[string]interface{}{"folder_path": dir}))
	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	// existing folder is a no-op
	testutil.AssertSuccess(t, run(t, p, "filesystem.create_folder", map[string]interface{}{"folder_path": dir}))
}

func TestCreateFolderUnderFile(t *testing.T) {
	p, _ := newTestProvider(t)
	file := testutil.WriteFile(t, t.TempDir(), "plain", "x")

	testutil.AssertError(t, run(t, p, "filesystem.create_folder", map[string]interface{}{"folder_path": filepath.Join(file, "child")}))
}
