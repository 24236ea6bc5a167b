package shared

import (
	"fmt"
	"os/exec"
	"runtime"
)

var getRuntime = func() string { return runtime.GOOS }

// OpenBrowser hands a resolved navigation target to the system browser,
// the CLI analog of the page navigating after a form submit.
//
// Works on macOS, Linux, and Windows.
func OpenBrowser(url string) error {
	var name string
	var args []string

	switch rt := getRuntime(); rt {
	case "darwin":
		name = "open"
		args = []string{url}
	case "linux":
		name = "xdg-open"
		args = []string{url}
	case "windows":
		name = "cmd"
		args = []string{"/c", "start", url}
	default:
		return fmt.Errorf("unsupported platform: %s", rt)
	}

	if err := exec.Command(name, args...).Start(); err != nil {
		return fmt.Errorf("failed to open browser: %w", err)
	}
	return nil
}
