package executor

import (
	"context"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// Runner executes a built program once per input.
type Runner struct {
	pool      *ProcessPool
	timeout   time.Duration
	maxOutput int64
	logger    *logrus.Logger
}

func NewRunner(pool *ProcessPool, timeout time.Duration, maxOutput int64, logger *logrus.Logger) *Runner {
	if logger == nil {
		logger = discardLogger()
	}
	return &Runner{pool: pool, timeout: timeout, maxOutput: maxOutput, logger: logger}
}

// Run feeds input on stdin and classifies how the program ended.
func (r *Runner) Run(ctx context.Context, prog Program, input string) ExecutionOutcome {
	release, err := r.pool.Acquire(ctx)
	if err != nil {
		return ExecutionOutcome{Status: ExecSpawnError, Output: err.Error()}
	}
	defer release()

	res := runProcess(ctx, processSpec{
		Args:      prog.Profile.RunArgs(prog.SourceFile, prog.Workspace.Dir()),
		Dir:       prog.Workspace.Dir(),
		Stdin:     input,
		Timeout:   r.timeout,
		MaxOutput: r.maxOutput,
	})

	out := ExecutionOutcome{Duration: res.Duration, Truncated: res.Truncated}
	switch {
	case res.TimedOut:
		r.logger.WithFields(processFields(prog, res)).Warn("Execution timeout, process group killed")
		out.Status = ExecTimedOut
	case res.Err != nil:
		r.logger.WithFields(processFields(prog, res)).WithField("error", res.Err).Error("Execution failed to start")
		out.Status = ExecSpawnError
		out.Output = res.Err.Error()
	case res.ExitCode == 0:
		out.Status = ExecCompleted
		out.Output = res.Stdout
	default:
		out.Status = ExecNonZeroExit
		out.ExitCode = res.ExitCode
		out.Output = res.Stderr
		if strings.TrimSpace(out.Output) == "" {
			out.Output = res.Stdout
		}
	}

	r.logger.WithFields(processFields(prog, res)).WithField("status", out.Status).Debug("Execution completed")
	return out
}
