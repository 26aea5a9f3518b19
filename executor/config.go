package executor

import (
	"fmt"
	"time"
)

// Config is the engine's immutable tuning, copied in at construction.
type Config struct {
	// BaseDir holds one subdirectory per running job.
	BaseDir        string
	CompileTimeout time.Duration
	ExecTimeout    time.Duration
	MaxInputs      int
	// MaxProcesses bounds compile and run processes across all jobs.
	MaxProcesses int64
	// QueueTimeout bounds the wait for a process slot; zero waits until the
	// caller's context ends.
	QueueTimeout time.Duration
	// MaxOutputBytes caps each captured stream; zero disables the cap.
	MaxOutputBytes int64
}

// DefaultConfig mirrors the service defaults.
func DefaultConfig() Config {
	return Config{
		BaseDir:        "jobs",
		CompileTimeout: 10 * time.Second,
		ExecTimeout:    10 * time.Second,
		MaxInputs:      20,
		MaxProcesses:   32,
		MaxOutputBytes: 1 << 20,
	}
}

// Validate reports the first unusable setting.
func (c Config) Validate() error {
	if c.BaseDir == "" {
		return fmt.Errorf("base dir is required")
	}
	if c.CompileTimeout <= 0 {
		return fmt.Errorf("compile timeout must be positive")
	}
	if c.ExecTimeout <= 0 {
		return fmt.Errorf("exec timeout must be positive")
	}
	if c.MaxInputs <= 0 {
		return fmt.Errorf("max inputs must be positive")
	}
	if c.MaxProcesses <= 0 {
		return fmt.Errorf("max processes must be positive")
	}
	if c.QueueTimeout < 0 || c.MaxOutputBytes < 0 {
		return fmt.Errorf("queue timeout and output cap must not be negative")
	}
	return nil
}
