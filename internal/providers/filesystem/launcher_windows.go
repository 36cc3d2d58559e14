//go:build windows

package filesystem

// The empty argument is the window title start would otherwise take from a quoted path
func openCommand(path string) (string, []string) {
	return "cmd", []string{"/C", "start", "", path}
}
