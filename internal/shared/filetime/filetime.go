// Package filetime reads file timestamps as whole seconds since the epoch.
//
// Creation time is platform specific: darwin and windows carry it in the
// stat result, linux needs statx(2) and only some filesystems record it.
// Where it is missing, Created falls back to the modification time.
package filetime

import (
	"io/fs"
	"strconv"
	"time"
)

// Modified returns the modification time of info
func Modified(info fs.FileInfo) time.Time {
	return info.ModTime()
}

// Created returns the creation time of the file at path, or its
// modification time when the platform or filesystem does not expose one.
func Created(path string, info fs.FileInfo) time.Time {
	if t, ok := birthTime(path, info); ok && !t.IsZero() {
		return t
	}
	return info.ModTime()
}

// Seconds formats t as decimal seconds since the epoch.
// The zero time and anything before the epoch yield "".
func Seconds(t time.Time) string {
	if t.IsZero() || t.Unix() < 0 {
		return ""
	}
	return strconv.FormatInt(t.Unix(), 10)
}

// ParseSeconds parses a value produced by Seconds
func ParseSeconds(s string) (int64, bool) {
	if s == "" {
		return 0, false
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}
