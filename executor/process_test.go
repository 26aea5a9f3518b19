package executor

import (
	"context"
	"testing"
	"time"
)

func TestCappedBuffer(t *testing.T) {
	b := newCappedBuffer(5)
	n, err := b.Write([]byte("abc"))
	if n != 3 || err != nil {
		t.Fatalf("write: %d %v", n, err)
	}
	n, err = b.Write([]byte("defgh"))
	if n != 5 || err != nil {
		t.Fatalf("overflowing write must report full length: %d %v", n, err)
	}
	b.Write([]byte("ij"))
	if b.String() != "abcde" || !b.Truncated() {
		t.Fatalf("got %q truncated=%v", b.String(), b.Truncated())
	}

	unlimited := newCappedBuffer(0)
	unlimited.Write([]byte("everything"))
	if unlimited.String() != "everything" || unlimited.Truncated() {
		t.Fatalf("unlimited buffer truncated")
	}
}

func TestRunProcessEmptyCommand(t *testing.T) {
	res := runProcess(context.Background(), processSpec{})
	if res.Err == nil {
		t.Fatalf("expected error for empty command")
	}
}

func TestRunProcessKillsProcessGroup(t *testing.T) {
	requireShell(t)
	dir := t.TempDir()
	// the background child inherits stdout; without a group kill Wait would
	// block until it exits
	start := time.Now()
	res := runProcess(context.Background(), processSpec{
		Args:    []string{"sh", "-c", "sleep 30 & sleep 30"},
		Dir:     dir,
		Timeout: 200 * time.Millisecond,
	})
	if !res.TimedOut {
		t.Fatalf("expected timeout, got %+v", res)
	}
	if elapsed := time.Since(start); elapsed > waitDelay+2*time.Second {
		t.Fatalf("kill took %s", elapsed)
	}
}

func TestRunProcessCanceledContext(t *testing.T) {
	requireShell(t)
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(100 * time.Millisecond)
		cancel()
	}()
	res := runProcess(ctx, processSpec{
		Args:    []string{"sh", "-c", "sleep 30"},
		Dir:     t.TempDir(),
		Timeout: 10 * time.Second,
	})
	if res.TimedOut || res.Err == nil {
		t.Fatalf("expected cancellation error, got %+v", res)
	}
}

func TestRunProcessStdinAndExitCode(t *testing.T) {
	requireShell(t)
	res := runProcess(context.Background(), processSpec{
		Args:    []string{"sh", "-c", "read x; echo got $x; echo oops >&2; exit 7"},
		Dir:     t.TempDir(),
		Stdin:   "hello\n",
		Timeout: 5 * time.Second,
	})
	if res.Err != nil || res.ExitCode != 7 {
		t.Fatalf("unexpected result %+v", res)
	}
	if res.Stdout != "got hello\n" || res.Stderr != "oops\n" {
		t.Fatalf("stdout=%q stderr=%q", res.Stdout, res.Stderr)
	}
}
