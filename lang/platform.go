package lang

import (
	"path/filepath"
	"runtime"
	"strings"
)

// platform captures the OS-dependent naming rules for artifacts and interpreters.
type platform struct {
	goos string
}

func newPlatform(goos string) platform {
	if goos == "" {
		goos = runtime.GOOS
	}
	return platform{goos: goos}
}

func (p platform) windows() bool {
	return p.goos == "windows"
}

func (p platform) exeSuffix() string {
	if p.windows() {
		return ".exe"
	}
	return ""
}

// binaryPath is how a compiled artifact is invoked from inside dir.
func (p platform) binaryPath(artifact, dir string) string {
	if p.windows() {
		return filepath.Join(dir, artifact)
	}
	return "./" + artifact
}

func baseName(file string) string {
	return strings.TrimSuffix(file, filepath.Ext(file))
}

// argv joins command fragments into a freshly allocated argument vector.
func argv(parts ...[]string) []string {
	n := 0
	for _, p := range parts {
		n += len(p)
	}
	out := make([]string, 0, n)
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}
