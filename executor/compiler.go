package executor

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// Compiler runs a profile's compile step inside the workspace.
type Compiler struct {
	pool      *ProcessPool
	timeout   time.Duration
	maxOutput int64
	logger    *logrus.Logger
}

func NewCompiler(pool *ProcessPool, timeout time.Duration, maxOutput int64, logger *logrus.Logger) *Compiler {
	if logger == nil {
		logger = discardLogger()
	}
	return &Compiler{pool: pool, timeout: timeout, maxOutput: maxOutput, logger: logger}
}

// Compile never returns an error: every failure becomes a CompileFailed
// outcome whose diagnostic is shown to the caller.
func (c *Compiler) Compile(ctx context.Context, prog Program) CompileOutcome {
	if !prog.Profile.Compiled() {
		return CompileOutcome{Status: CompileNotNeeded}
	}

	release, err := c.pool.Acquire(ctx)
	if err != nil {
		return compileFailed("Compilation failed: "+err.Error(), 0)
	}
	defer release()

	args := prog.Profile.CompileArgs(prog.SourceFile)
	res := runProcess(ctx, processSpec{
		Args:      args,
		Dir:       prog.Workspace.Dir(),
		Timeout:   c.timeout,
		MaxOutput: c.maxOutput,
	})
	c.logger.WithFields(processFields(prog, res)).WithField("args", args).Debug("Compile process finished")

	switch {
	case res.TimedOut:
		c.logger.WithFields(processFields(prog, res)).Warn("Compilation timeout, process group killed")
		return compileFailed("Compilation timed out", res.Duration)
	case res.Err != nil:
		return compileFailed("Compilation failed: "+res.Err.Error(), res.Duration)
	case res.ExitCode != 0:
		diag := strings.TrimSpace(res.Stderr)
		if diag == "" {
			diag = strings.TrimSpace(res.Stdout)
		}
		if diag == "" {
			diag = fmt.Sprintf("Compilation failed with exit code: %d", res.ExitCode)
		}
		return compileFailed(diag, res.Duration)
	}

	stdout := strings.TrimSpace(res.Stdout)
	if artifact := prog.Profile.ArtifactName(prog.SourceFile); artifact != "" && !prog.Workspace.Exists(artifact) {
		return compileFailed(strings.TrimSpace("Compilation failed: executable not created. "+stdout), res.Duration)
	}
	return CompileOutcome{Status: CompileSucceeded, Diagnostic: stdout, Duration: res.Duration}
}

func compileFailed(diag string, d time.Duration) CompileOutcome {
	return CompileOutcome{Status: CompileFailed, Diagnostic: diag, Duration: d}
}
