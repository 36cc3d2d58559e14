// Package notes stores Markdown notes as individual files in one directory.
//
// A note's filename is "<unix-millis>-<sanitized-title>.md". The timestamp
// prefix is the note's identity and survives renames; the title is derived
// from the rest of the filename and never stored separately.
//
// Example Usage:
//
//	store := notes.NewStore(dir, notes.WithDialog(dialog.NewNative()))
//	name, _ := store.Create("Shopping list", "- milk")
//	all, _ := store.List(ctx)
//	renamed, _ := store.Rename(name, "Groceries")
package notes
