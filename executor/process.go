package executor

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"strings"
	"sync"
	"time"
)

// waitDelay bounds how long output is drained after the process group is
// killed, and how long Wait waits for a canceled process to exit.
const waitDelay = 2 * time.Second

type processSpec struct {
	Args      []string
	Dir       string
	Stdin     string
	Timeout   time.Duration
	MaxOutput int64
}

type processResult struct {
	Stdout    string
	Stderr    string
	ExitCode  int
	TimedOut  bool
	Truncated bool
	Pid       int
	Duration  time.Duration
	// Err is a spawn or I/O failure; exit status is not an error here.
	Err error
}

// runProcess starts spec.Args in spec.Dir and waits for it to exit, be killed
// at the deadline, or be killed when ctx ends. Once the leader is gone the
// rest of its process group is killed too, so nothing the program spawned
// outlives the run.
func runProcess(ctx context.Context, spec processSpec) processResult {
	if len(spec.Args) == 0 {
		return processResult{Err: errors.New("empty command")}
	}

	runCtx := ctx
	cancel := func() {}
	if spec.Timeout > 0 {
		runCtx, cancel = context.WithTimeout(ctx, spec.Timeout)
	}
	defer cancel()

	cmd := exec.CommandContext(runCtx, spec.Args[0], spec.Args[1:]...)
	cmd.Dir = spec.Dir
	cmd.WaitDelay = waitDelay
	configureProcessGroup(cmd)

	if spec.Stdin != "" {
		cmd.Stdin = strings.NewReader(spec.Stdin)
	}
	stdout, err := newCapture(spec.MaxOutput)
	if err != nil {
		return processResult{Err: err}
	}
	stderr, err := newCapture(spec.MaxOutput)
	if err != nil {
		stdout.abandon()
		return processResult{Err: err}
	}
	cmd.Stdout = stdout.w
	cmd.Stderr = stderr.w

	start := time.Now()
	if err := cmd.Start(); err != nil {
		stdout.abandon()
		stderr.abandon()
		return processResult{Err: err, Duration: time.Since(start)}
	}
	stdout.started()
	stderr.started()
	pid := cmd.Process.Pid

	// Stdout and Stderr are files, so Wait returns when the leader exits
	// even if a background child still holds the pipes.
	waitErr := cmd.Wait()
	killProcessGroup(pid)
	stdout.drain(waitDelay)
	stderr.drain(waitDelay)

	res := processResult{
		Stdout:    stdout.buf.String(),
		Stderr:    stderr.buf.String(),
		Truncated: stdout.buf.Truncated() || stderr.buf.Truncated(),
		Pid:       pid,
		Duration:  time.Since(start),
	}

	if waitErr != nil && errors.Is(runCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
		res.TimedOut = true
		return res
	}
	if waitErr != nil && ctx.Err() != nil {
		res.Err = ctx.Err()
		return res
	}

	var exitErr *exec.ExitError
	switch {
	case waitErr == nil:
		res.ExitCode = 0
	case errors.As(waitErr, &exitErr):
		res.ExitCode = exitStatus(exitErr.ProcessState)
	case errors.Is(waitErr, exec.ErrWaitDelay) && cmd.ProcessState != nil:
		res.ExitCode = exitStatus(cmd.ProcessState)
	default:
		res.Err = waitErr
	}
	return res
}

// capture reads one output pipe of the child into a capped buffer.
type capture struct {
	r, w *os.File
	buf  *cappedBuffer
	done chan struct{}
}

func newCapture(limit int64) (*capture, error) {
	r, w, err := os.Pipe()
	if err != nil {
		return nil, err
	}
	c := &capture{r: r, w: w, buf: newCappedBuffer(limit), done: make(chan struct{})}
	go func() {
		defer close(c.done)
		io.Copy(c.buf, r)
	}()
	return c, nil
}

// started closes the parent's copy of the write end so the reader sees EOF
// once every process holding it is gone.
func (c *capture) started() {
	c.w.Close()
}

func (c *capture) abandon() {
	c.w.Close()
	c.r.Close()
	<-c.done
}

// drain waits for EOF, giving up after d when a process outside the group
// still holds the pipe.
func (c *capture) drain(d time.Duration) {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-c.done:
	case <-timer.C:
	}
	c.r.Close()
	<-c.done
}

// cappedBuffer keeps the first limit bytes written to it and discards the rest
// while still reporting full writes, so the child never sees a broken pipe.
type cappedBuffer struct {
	mu        sync.Mutex
	buf       bytes.Buffer
	limit     int64
	truncated bool
}

func newCappedBuffer(limit int64) *cappedBuffer {
	return &cappedBuffer{limit: limit}
}

func (b *cappedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.limit <= 0 {
		return b.buf.Write(p)
	}
	room := b.limit - int64(b.buf.Len())
	if room <= 0 {
		if len(p) > 0 {
			b.truncated = true
		}
		return len(p), nil
	}
	if int64(len(p)) > room {
		b.buf.Write(p[:room])
		b.truncated = true
		return len(p), nil
	}
	return b.buf.Write(p)
}

func (b *cappedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func (b *cappedBuffer) Truncated() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.truncated
}
