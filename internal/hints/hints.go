// Package hints provides actionable error hints for common CI failure scenarios.
// Hints are formatted consistently as "\n  hint: <text>" for appending to error messages.
package hints

import (
	"os"
	"strings"

	"github.com/alnah/go-docpdf/internal/fileutil"
)

// IsInContainer detects if running inside a Docker container or similar.
// Checks for /.dockerenv file which Docker creates automatically.
var IsInContainer = func() bool {
	return fileutil.FileExists("/.dockerenv")
}

// InCI reports whether a known CI provider is driving the process.
func InCI() bool {
	return os.Getenv("CI") != "" ||
		os.Getenv("GITHUB_ACTIONS") != "" ||
		os.Getenv("GITLAB_CI") != "" ||
		os.Getenv("JENKINS_URL") != ""
}

// toolHints maps external binaries to the usual way of installing them.
var toolHints = map[string]string{
	"git":     "install git or run inside a checked-out repository",
	"pandoc":  "install pandoc (apt-get install pandoc) or use --engine chrome",
	"xelatex": "install a TeX distribution (apt-get install texlive-xetex) or choose --pdf-engine",
}

// ForToolNotFound returns a hint for a missing external binary.
func ForToolNotFound(tool string) string {
	if h, ok := toolHints[tool]; ok {
		return format(h)
	}
	return format("make sure " + tool + " is on PATH")
}

// ForShallowClone returns a hint for diffs against a parent revision that
// is missing, which happens with the default actions/checkout depth of 1.
func ForShallowClone(stderr string) string {
	if !strings.Contains(stderr, "unknown revision") && !strings.Contains(stderr, "bad revision") {
		return ""
	}
	if os.Getenv("GITHUB_ACTIONS") != "" {
		return format("set fetch-depth: 2 (or 0) on actions/checkout")
	}
	return format("the base revision is not available; fetch more history")
}

// ForBrowserConnect returns hints for browser connection errors.
// Detects CI/Docker environment and suggests relevant environment variables.
func ForBrowserConnect() string {
	var hints []string

	if (InCI() || IsInContainer()) && os.Getenv("ROD_NO_SANDBOX") != "1" {
		hints = append(hints, "set ROD_NO_SANDBOX=1 for Docker/CI")
	}

	if os.Getenv("ROD_BROWSER_BIN") == "" {
		hints = append(hints, "set ROD_BROWSER_BIN to use custom Chrome")
	}

	return formatHints(hints)
}

// ForConfigNotFound returns hints for config file not found errors.
// Suggests --config flag and creating a config in ~/.config/go-docpdf/.
func ForConfigNotFound(searchedPaths []string) string {
	hint := "use --config /path/to/file.yaml"

	for _, p := range searchedPaths {
		if strings.Contains(p, "go-docpdf") {
			hint += " or create " + p
			break
		}
	}

	return format(hint)
}

// ForOutputDirectory returns hints for output write errors.
func ForOutputDirectory() string {
	return format("check the output directory exists and is writable")
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
