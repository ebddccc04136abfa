// Package browser opens files with the operating system's default
// application.
package browser

import (
	"fmt"
	"os/exec"
	"runtime"
)

// Open launches the platform's default handler on path. The handler is
// started, not waited on.
func Open(path string) error {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", path)
	case "darwin":
		cmd = exec.Command("open", path)
	case "linux":
		cmd = exec.Command("xdg-open", path)
	default:
		return fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}

	err := cmd.Start()
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}

	return nil
}
