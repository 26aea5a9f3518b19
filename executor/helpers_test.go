package executor

import (
	"os"
	"os/exec"
	"runtime"
	"sync"
	"testing"
	"time"

	"xcoderunner/lang"
	appErr "xcoderunner/pkg/errors"
)

func requireShell(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts are not available on windows")
	}
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not found")
	}
}

type fakeProfiles map[lang.Language]lang.Profile

func (f fakeProfiles) Resolve(l lang.Language) (lang.Profile, error) {
	p, ok := f[l]
	if !ok {
		return lang.Profile{}, appErr.New(appErr.LanguageNotSupported)
	}
	return p, nil
}

// shellProfile interprets the source with sh, standing in for Python.
func shellProfile() lang.Profile {
	return lang.Profile{
		Language:  lang.Python,
		Extension: ".sh",
		RunArgs: func(sourceFile, _ string) []string {
			return []string{"sh", sourceFile}
		},
	}
}

// compiledShellProfile "compiles" with the given shell command and runs the
// resulting ./program, standing in for C.
func compiledShellProfile(compileCmd string) lang.Profile {
	return lang.Profile{
		Language:  lang.C,
		Extension: ".sh",
		CompileArgs: func(string) []string {
			return []string{"sh", "-c", compileCmd}
		},
		RunArgs: func(string, string) []string {
			return []string{"./program"}
		},
		Artifact: func(string) string { return "program" },
	}
}

func testConfig(t *testing.T) Config {
	t.Helper()
	cfg := DefaultConfig()
	cfg.BaseDir = t.TempDir()
	cfg.CompileTimeout = 5 * time.Second
	cfg.ExecTimeout = 5 * time.Second
	cfg.MaxProcesses = 8
	return cfg
}

func newTestEngine(t *testing.T, cfg Config, profiles Profiles, opts ...Option) *Engine {
	t.Helper()
	opts = append([]Option{WithProfiles(profiles)}, opts...)
	e, err := NewEngine(cfg, opts...)
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	return e
}

func assertEmptyDir(t *testing.T, dir string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read %s: %v", dir, err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected %s to be empty, found %d entries", dir, len(entries))
	}
}

type recordingObserver struct {
	NopObserver

	mu        sync.Mutex
	active    int64
	maxActive int64
	stages    []State
	cleanups  []int
	runs      []ExecStatus
}

func (o *recordingObserver) ActiveProcesses(n int64) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.active = n
	if n > o.maxActive {
		o.maxActive = n
	}
}

func (o *recordingObserver) JobFinished(_ lang.Language, stage State, _ time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.stages = append(o.stages, stage)
}

func (o *recordingObserver) CleanupFinished(_ lang.Language, failures int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.cleanups = append(o.cleanups, failures)
}

func (o *recordingObserver) RunFinished(_ lang.Language, outcome ExecutionOutcome) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.runs = append(o.runs, outcome.Status)
}
