// Package hints provides actionable error hints for common failure scenarios.
// Hints are formatted consistently as "\n  hint: <text>" for appending to error messages.
package hints

import (
	"os"
	"strings"

	"github.com/campuskit/campuskit/internal/fileutil"
)

// IsInContainer detects if running inside a Docker container or similar.
var IsInContainer = func() bool {
	return fileutil.FileExists("/.dockerenv")
}

// ForBrowserConnect returns hints for browser connection errors during export.
func ForBrowserConnect() string {
	var hints []string

	inCI := os.Getenv("CI") != "" ||
		os.Getenv("GITHUB_ACTIONS") != "" ||
		os.Getenv("GITLAB_CI") != ""

	if (inCI || IsInContainer()) && os.Getenv("ROD_NO_SANDBOX") != "1" {
		hints = append(hints, "set ROD_NO_SANDBOX=1 for Docker/CI")
	}
	if os.Getenv("ROD_BROWSER_BIN") == "" {
		hints = append(hints, "set ROD_BROWSER_BIN to use custom Chrome")
	}

	return formatHints(hints)
}

// ForTimeout returns a hint about raising the export timeout.
func ForTimeout() string {
	return format("heavy projects may need a longer --timeout")
}

// ForConfigNotFound suggests --config or a file in ~/.config/campuskit/.
func ForConfigNotFound(searchedPaths []string) string {
	hint := "use --config /path/to/file.yaml"
	for _, p := range searchedPaths {
		if strings.Contains(filepathSlash(p), ".config/campuskit") {
			hint += " or create " + p
			break
		}
	}
	return format(hint)
}

// ForProjectDir explains the expected project layout.
func ForProjectDir() string {
	return format("a project directory holds index.html, style.css, script.js and an assets/ folder")
}

// ForDatabase returns hints for store open failures.
func ForDatabase(path string) string {
	if path == "" {
		return format("set database.path in the config or CAMPUSKIT_DATABASE")
	}
	return format("check that the directory of " + path + " exists and is writable")
}

// ForListen returns hints for listener failures.
func ForListen(addr string) string {
	return format("is another process bound to " + addr + "? set server.addr or CAMPUSKIT_ADDR")
}

func filepathSlash(p string) string {
	return strings.ReplaceAll(p, `\`, "/")
}

// format creates a single hint string with consistent formatting.
func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}

// formatHints joins multiple hints with consistent formatting.
func formatHints(hints []string) string {
	if len(hints) == 0 {
		return ""
	}
	return format(strings.Join(hints, "; "))
}
