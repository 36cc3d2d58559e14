package filetime

import (
	"io/fs"
	"time"
)

type fakeInfo struct {
	mod time.Time
}

func (f fakeInfo) Name() string       { return "missing.md" }
func (f fakeInfo) Size() int64        { return 0 }
func (f fakeInfo) Mode() fs.FileMode  { return 0o644 }
func (f fakeInfo) ModTime() time.Time { return f.mod }
func (f fakeInfo) IsDir() bool        { return false }
func (f fakeInfo) Sys() any           { return nil }
