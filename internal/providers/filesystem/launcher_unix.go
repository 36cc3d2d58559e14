//go:build !darwin && !windows

package filesystem

func openCommand(path string) (string, []string) {
	return "xdg-open", []string{path}
}
