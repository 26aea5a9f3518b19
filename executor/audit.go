package executor

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
)

// NewProcessLogger builds the engine's logrus logger. An empty path logs to
// stderr; otherwise entries are appended to the file as JSON.
func NewProcessLogger(path, level string) (*logrus.Logger, error) {
	logger := logrus.New()

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	logger.SetLevel(lvl)

	if path == "" {
		logger.SetOutput(os.Stderr)
		return logger, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	logFile, err := os.OpenFile(path, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	logger.SetOutput(logFile)
	logger.SetFormatter(&logrus.JSONFormatter{})
	return logger, nil
}

func discardLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func processFields(prog Program, res processResult) logrus.Fields {
	return logrus.Fields{
		"job_id":    prog.Workspace.JobID(),
		"language":  prog.Profile.Language.String(),
		"pid":       res.Pid,
		"exit_code": res.ExitCode,
		"timed_out": res.TimedOut,
		"truncated": res.Truncated,
		"duration":  res.Duration,
	}
}
