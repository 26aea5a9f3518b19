package executor

import (
	"context"
	"testing"
	"time"

	appErr "xcoderunner/pkg/errors"
)

func TestProcessPoolQueueTimeout(t *testing.T) {
	obs := &recordingObserver{}
	pool := NewProcessPool(1, 50*time.Millisecond, obs, nil)
	if pool.Size() != 1 {
		t.Fatalf("size = %d", pool.Size())
	}

	release, err := pool.Acquire(context.Background())
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	if _, err := pool.Acquire(context.Background()); !appErr.Is(err, appErr.ExecutionQueueFull) {
		t.Fatalf("expected ExecutionQueueFull, got %v", err)
	}

	release()
	release()
	if pool.Active() != 0 {
		t.Fatalf("double release must not underflow: %d", pool.Active())
	}

	release2, err := pool.Acquire(context.Background())
	if err != nil {
		t.Fatalf("Acquire after release: %v", err)
	}
	release2()
	if obs.maxActive != 1 {
		t.Fatalf("max active = %d", obs.maxActive)
	}
}

func TestProcessPoolCanceledContext(t *testing.T) {
	pool := NewProcessPool(1, 0, nil, nil)
	release, err := pool.Acquire(context.Background())
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	defer release()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if _, err := pool.Acquire(ctx); !appErr.Is(err, appErr.Timeout) {
		t.Fatalf("expected Timeout, got %v", err)
	}
}

func TestRunnerQueueFullBecomesSpawnError(t *testing.T) {
	pool := NewProcessPool(1, 20*time.Millisecond, nil, nil)
	hold, err := pool.Acquire(context.Background())
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	defer hold()

	ws, err := CreateWorkspace(t.TempDir(), "queued", nil)
	if err != nil {
		t.Fatalf("CreateWorkspace: %v", err)
	}
	defer ws.Destroy()

	r := NewRunner(pool, time.Second, 0, nil)
	out := r.Run(context.Background(), Program{Profile: shellProfile(), SourceFile: "program.sh", Workspace: ws}, "")
	if out.Status != ExecSpawnError || out.Text() != "Error: Execution queue is full" {
		t.Fatalf("unexpected outcome %+v", out)
	}
}
