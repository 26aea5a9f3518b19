package executor

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"

	appErr "xcoderunner/pkg/errors"
)

// Workspace is the private directory of a single job.
type Workspace struct {
	jobID  string
	dir    string
	logger *logrus.Logger

	once     sync.Once
	failures int
}

// CreateWorkspace allocates root/jobID. The directory must not exist yet.
func CreateWorkspace(root, jobID string, logger *logrus.Logger) (*Workspace, error) {
	if jobID == "" || jobID != filepath.Base(jobID) || jobID == "." || jobID == ".." {
		return nil, appErr.Newf(appErr.WorkspaceError, "invalid job id %q", jobID)
	}
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, appErr.Wrapf(err, appErr.WorkspaceError, "resolve workspace root: %v", err)
	}
	if err := os.MkdirAll(absRoot, 0o755); err != nil {
		return nil, appErr.Wrapf(err, appErr.WorkspaceError, "create workspace root: %v", err)
	}

	ws := &Workspace{jobID: jobID, dir: filepath.Join(absRoot, jobID), logger: logger}
	if err := os.Mkdir(ws.dir, 0o755); err != nil {
		return nil, appErr.Wrapf(err, appErr.WorkspaceError, "create workspace: %v", err)
	}
	return ws, nil
}

func (w *Workspace) JobID() string { return w.jobID }

// Dir is the absolute workspace path.
func (w *Workspace) Dir() string { return w.dir }

// Path joins name onto the workspace directory.
func (w *Workspace) Path(name string) string {
	return filepath.Join(w.dir, name)
}

// WriteSource writes text verbatim to name inside the workspace.
func (w *Workspace) WriteSource(name, text string) error {
	if name == "" || strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return appErr.Newf(appErr.WorkspaceError, "invalid source file name %q", name)
	}
	if err := os.WriteFile(w.Path(name), []byte(text), 0o644); err != nil {
		return appErr.Wrapf(err, appErr.WorkspaceError, "write source: %v", err)
	}
	return nil
}

// Exists reports whether name is present in the workspace.
func (w *Workspace) Exists(name string) bool {
	_, err := os.Stat(w.Path(name))
	return err == nil
}

// Destroy removes the workspace tree, children before parents. Failures are
// logged and counted, never returned. Only the first call does anything.
func (w *Workspace) Destroy() int {
	w.once.Do(func() {
		var paths []string
		walkErr := filepath.WalkDir(w.dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				if !os.IsNotExist(err) {
					w.logFailure(path, err)
				}
				return nil
			}
			paths = append(paths, path)
			return nil
		})
		if walkErr != nil {
			w.logFailure(w.dir, walkErr)
		}

		for i := len(paths) - 1; i >= 0; i-- {
			if err := os.Remove(paths[i]); err != nil && !os.IsNotExist(err) {
				w.logFailure(paths[i], err)
			}
		}
	})
	return w.failures
}

func (w *Workspace) logFailure(path string, err error) {
	w.failures++
	if w.logger == nil {
		return
	}
	w.logger.WithFields(logrus.Fields{
		"job_id": w.jobID,
		"path":   path,
		"error":  err,
	}).Warn("Failed to remove workspace entry")
}
