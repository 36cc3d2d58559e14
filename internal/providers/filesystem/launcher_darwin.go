//go:build darwin

package filesystem

func openCommand(path string) (string, []string) {
	return "open", []string{path}
}
