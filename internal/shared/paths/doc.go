// Package paths resolves the directories the backend works against.
//
// Two environment directories matter:
//   - Downloads: the folder the file browser opens by default
//   - App data: the private data root; notes live in <app-data>/notes
//
// Both honour explicit overrides from configuration before falling back to
// OS discovery (XDG user dirs on Linux, Known Folders on Windows, the
// standard locations on macOS). A path that cannot be determined or is not
// valid UTF-8 is reported as apperr.Unavailable.
package paths
