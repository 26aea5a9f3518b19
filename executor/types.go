package executor

import (
	"fmt"
	"strings"
	"time"

	"xcoderunner/lang"
)

// State is a job's position in the workspace/compile/run lifecycle.
type State string

const (
	StateCreated        State = "created"
	StateWorkspaceReady State = "workspace_ready"
	StateSourceWritten  State = "source_written"
	StateCompiled       State = "compiled"
	StateExecuted       State = "executed"
	StateCleanedUp      State = "cleaned_up"
	StateAborted        State = "aborted"
)

// CompileStatus classifies the compile step.
type CompileStatus string

const (
	CompileNotNeeded CompileStatus = "not_needed"
	CompileSucceeded CompileStatus = "succeeded"
	CompileFailed    CompileStatus = "failed"
)

// CompileOutcome carries the compiler's diagnostic text. For a successful
// compile it holds whatever the compiler printed to stdout.
type CompileOutcome struct {
	Status     CompileStatus
	Diagnostic string
	Duration   time.Duration
}

func (o CompileOutcome) Failed() bool {
	return o.Status == CompileFailed
}

// ExecStatus classifies one run of the program.
type ExecStatus string

const (
	ExecCompleted   ExecStatus = "completed"
	ExecNonZeroExit ExecStatus = "non_zero_exit"
	ExecTimedOut    ExecStatus = "timed_out"
	ExecSpawnError  ExecStatus = "spawn_error"
)

const (
	timedOutMessage  = "Code execution timed out"
	truncationNotice = "... (output truncated)"
)

// ExecutionOutcome is the classified result of running one input.
type ExecutionOutcome struct {
	Status ExecStatus
	// Output is the captured text for Completed and NonZeroExit, the error
	// message for SpawnError.
	Output    string
	ExitCode  int
	Duration  time.Duration
	Truncated bool
}

// Text renders the outcome as the string reported for its input slot.
func (o ExecutionOutcome) Text() string {
	var text string
	switch o.Status {
	case ExecCompleted:
		text = strings.TrimSpace(o.Output)
	case ExecNonZeroExit:
		text = strings.TrimSpace(strings.TrimSpace(o.Output) + fmt.Sprintf("\nExit code: %d", o.ExitCode))
	case ExecTimedOut:
		return "Error: " + timedOutMessage
	default:
		return "Error: " + o.Output
	}
	if o.Truncated {
		text += "\n" + truncationNotice
	}
	return text
}

// Job is one compile-then-run request. Build it with NewJob.
type Job struct {
	ID       string
	Language lang.Language
	Source   string
	Inputs   []string
}

// NewJob copies inputs so later changes by the caller do not leak in.
func NewJob(id string, language lang.Language, source string, inputs []string) Job {
	in := make([]string, len(inputs))
	copy(in, inputs)
	return Job{ID: id, Language: language, Source: source, Inputs: in}
}

// Result is the engine's answer for a job.
type Result struct {
	JobID string
	// Outputs has one entry per input in input order, or exactly the compile
	// diagnostic when compilation failed.
	Outputs    []string
	Compile    CompileOutcome
	Executions []ExecutionOutcome
	// Stage is the last state reached before cleanup.
	Stage    State
	Duration time.Duration
}
