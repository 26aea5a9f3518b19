package executor

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"xcoderunner/lang"
	appErr "xcoderunner/pkg/errors"
)

// Profiles resolves the build/run recipe of a language.
type Profiles interface {
	Resolve(l lang.Language) (lang.Profile, error)
}

// Engine compiles a snippet once and runs it against every input of a job.
// One Engine serves all jobs of a process; its ProcessPool is shared.
type Engine struct {
	cfg      Config
	profiles Profiles
	pool     *ProcessPool
	compiler *Compiler
	runner   *Runner
	logger   *logrus.Logger
	observer Observer
}

type Option func(*Engine)

func WithLogger(logger *logrus.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

func WithObserver(observer Observer) Option {
	return func(e *Engine) { e.observer = observer }
}

func WithProfiles(profiles Profiles) Option {
	return func(e *Engine) { e.profiles = profiles }
}

// NewEngine validates cfg and wires the compile/run pipeline.
func NewEngine(cfg Config, opts ...Option) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid executor config: %w", err)
	}

	e := &Engine{cfg: cfg}
	for _, opt := range opts {
		opt(e)
	}
	if e.profiles == nil {
		e.profiles = lang.Default()
	}
	if e.logger == nil {
		e.logger = discardLogger()
	}
	if e.observer == nil {
		e.observer = NopObserver{}
	}

	e.pool = NewProcessPool(cfg.MaxProcesses, cfg.QueueTimeout, e.observer, e.logger)
	e.compiler = NewCompiler(e.pool, cfg.CompileTimeout, cfg.MaxOutputBytes, e.logger)
	e.runner = NewRunner(e.pool, cfg.ExecTimeout, cfg.MaxOutputBytes, e.logger)
	return e, nil
}

func (e *Engine) Config() Config { return e.cfg }

func (e *Engine) Pool() *ProcessPool { return e.pool }

// Submit builds a job with a fresh id and executes it.
func (e *Engine) Submit(ctx context.Context, language lang.Language, source string, inputs []string) (Result, error) {
	return e.Execute(ctx, NewJob(uuid.NewString(), language, source, inputs))
}

// Execute drives one job through workspace creation, source write, compile
// and the per-input fan-out. The workspace is always destroyed before
// Execute returns. A returned error means no program was run.
func (e *Engine) Execute(ctx context.Context, job Job) (result Result, err error) {
	if job.ID == "" {
		job.ID = uuid.NewString()
	}
	start := time.Now()
	run := &jobRun{job: job, state: StateCreated, logger: e.logger}
	result.JobID = job.ID

	defer func() {
		result.Duration = time.Since(start)
		if err != nil {
			result.Stage = StateAborted
			run.abort(err)
		}
		e.observer.JobFinished(job.Language, result.Stage, result.Duration)
	}()

	if n := len(job.Inputs); n == 0 {
		return result, appErr.BadRequest("at least one input is required")
	} else if n > e.cfg.MaxInputs {
		return result, appErr.Newf(appErr.TooManyInputs, "too many inputs: %d (max %d)", n, e.cfg.MaxInputs)
	}

	profile, err := e.profiles.Resolve(job.Language)
	if err != nil {
		return result, err
	}

	ws, err := CreateWorkspace(e.cfg.BaseDir, job.ID, e.logger)
	if err != nil {
		return result, err
	}
	defer func() {
		if err != nil {
			run.abort(err)
		}
		failures := ws.Destroy()
		e.observer.CleanupFinished(job.Language, failures)
		run.transition(StateCleanedUp)
	}()
	run.transition(StateWorkspaceReady)

	file, err := profile.FileName(job.Source)
	if err != nil {
		return result, err
	}
	if err = ws.WriteSource(file, job.Source); err != nil {
		return result, err
	}
	run.transition(StateSourceWritten)

	prog := Program{Profile: profile, SourceFile: file, Workspace: ws}

	result.Compile = e.compiler.Compile(ctx, prog)
	e.observer.CompileFinished(job.Language, result.Compile)
	run.transition(StateCompiled)
	result.Stage = StateCompiled

	if result.Compile.Failed() {
		result.Outputs = []string{result.Compile.Diagnostic}
		return result, nil
	}
	if result.Compile.Diagnostic != "" {
		run.entry().WithField("diagnostic", result.Compile.Diagnostic).Info("Compiler reported output on success")
	}

	result.Executions = e.runAll(ctx, prog, job.Inputs)
	result.Outputs = make([]string, len(result.Executions))
	for i, outcome := range result.Executions {
		result.Outputs[i] = outcome.Text()
	}
	run.transition(StateExecuted)
	result.Stage = StateExecuted
	return result, nil
}

// runAll runs one goroutine per input; each writes only its own slot.
func (e *Engine) runAll(ctx context.Context, prog Program, inputs []string) []ExecutionOutcome {
	outcomes := make([]ExecutionOutcome, len(inputs))
	var wg sync.WaitGroup
	for i, input := range inputs {
		wg.Add(1)
		go func(i int, input string) {
			defer wg.Done()
			outcomes[i] = e.runner.Run(ctx, prog, input)
			e.observer.RunFinished(prog.Profile.Language, outcomes[i])
		}(i, input)
	}
	wg.Wait()
	return outcomes
}

type jobRun struct {
	job     Job
	state   State
	aborted bool
	logger  *logrus.Logger
}

func (r *jobRun) entry() *logrus.Entry {
	return r.logger.WithFields(logrus.Fields{
		"job_id":   r.job.ID,
		"language": r.job.Language.String(),
	})
}

func (r *jobRun) transition(to State) {
	r.entry().WithFields(logrus.Fields{"from": r.state, "to": to}).Debug("Job state transition")
	r.state = to
}

func (r *jobRun) abort(err error) {
	if r.aborted {
		return
	}
	r.aborted = true
	r.entry().WithFields(logrus.Fields{"from": r.state, "error": err}).Warn("Job aborted")
	r.state = StateAborted
}
