// Package watch notifies about changes in one folder so the browser view
// can refresh. It only signals; listings are re-read with read_folder.
package watch
