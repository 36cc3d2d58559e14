package filesystem

import (
	"fmt"
	"os/exec"
)

// Launcher opens a file with the user's default application
type Launcher interface {
	Open(path string) error
}

// SystemLauncher starts the platform opener and returns once it is running
type SystemLauncher struct{}

// Open starts the opener without waiting for it to exit
func (SystemLauncher) Open(path string) error {
	name, args := openCommand(path)
	cmd := exec.Command(name, args...)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start %s: %w", name, err)
	}
	// Reap the child so it does not linger as a zombie
	go func() { _ = cmd.Wait() }()
	return nil
}

// LauncherFunc adapts a function to the Launcher interface
type LauncherFunc func(path string) error

// Open calls f(path)
func (f LauncherFunc) Open(path string) error {
	return f(path)
}
