package config

import (
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
)

// defaultVersion is used when no VERSION file is reachable.
const defaultVersion = "1.0.0"

// GetVersion resolves the build version. APP_VERSION (set by CI/CD)
// wins; otherwise the VERSION file plus the git commit count.
func GetVersion() string {
	if v := os.Getenv("APP_VERSION"); v != "" {
		return v
	}

	version := getBaseVersion()
	if count := getGitCommitCount(); count > 0 {
		version += "." + strconv.Itoa(count)
	}
	return version
}

// getBaseVersion reads the VERSION file. The daemon runs from the
// repository root; the cmd tools run two levels down.
func getBaseVersion() string {
	candidates := []string{
		"VERSION",
		filepath.Join("..", "..", "VERSION"),
	}
	for _, p := range candidates {
		if content, err := os.ReadFile(p); err == nil {
			return strings.TrimSpace(string(content))
		}
	}
	return defaultVersion
}

// getGitCommitCount returns the repository commit count, or zero
// outside a git checkout.
func getGitCommitCount() int {
	output, err := exec.Command("git", "rev-list", "--all", "--count", "HEAD").Output()
	if err != nil {
		return 0
	}
	count, err := strconv.Atoi(strings.TrimSpace(string(output)))
	if err != nil {
		return 0
	}
	return count
}
