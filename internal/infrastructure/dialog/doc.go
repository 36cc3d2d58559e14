// Package dialog wraps the native "save file" dialog used by the note
// download and backup commands.
//
// Native uses ncruces/zenity, which drives the platform dialog on macOS
// and Windows and zenity/kdialog on Linux. The call blocks until the user
// answers; cancelling the context (the HTTP client went away) closes it.
package dialog
