package executor

import (
	"time"

	"xcoderunner/lang"
)

// Observer receives engine events, typically to feed metrics.
type Observer interface {
	CompileFinished(language lang.Language, outcome CompileOutcome)
	RunFinished(language lang.Language, outcome ExecutionOutcome)
	JobFinished(language lang.Language, stage State, elapsed time.Duration)
	CleanupFinished(language lang.Language, failures int)
	QueueWait(waited time.Duration)
	ActiveProcesses(n int64)
}

// NopObserver discards every event.
type NopObserver struct{}

func (NopObserver) CompileFinished(lang.Language, CompileOutcome)   {}
func (NopObserver) RunFinished(lang.Language, ExecutionOutcome)     {}
func (NopObserver) JobFinished(lang.Language, State, time.Duration) {}
func (NopObserver) CleanupFinished(lang.Language, int)              {}
func (NopObserver) QueueWait(time.Duration)                         {}
func (NopObserver) ActiveProcesses(int64)                           {}
