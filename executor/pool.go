package executor

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/semaphore"

	appErr "xcoderunner/pkg/errors"
)

// ProcessPool bounds how many compile and run processes exist at once across
// every job sharing it.
type ProcessPool struct {
	sem          *semaphore.Weighted
	size         int64
	active       atomic.Int64
	queueTimeout time.Duration
	observer     Observer
	logger       *logrus.Logger
}

// NewProcessPool creates a pool with size slots.
func NewProcessPool(size int64, queueTimeout time.Duration, observer Observer, logger *logrus.Logger) *ProcessPool {
	if observer == nil {
		observer = NopObserver{}
	}
	return &ProcessPool{
		sem:          semaphore.NewWeighted(size),
		size:         size,
		queueTimeout: queueTimeout,
		observer:     observer,
		logger:       logger,
	}
}

// Acquire blocks until a slot is free. The returned release func is safe to
// call more than once.
func (p *ProcessPool) Acquire(ctx context.Context) (func(), error) {
	start := time.Now()
	waitCtx := ctx
	if p.queueTimeout > 0 {
		var cancel context.CancelFunc
		waitCtx, cancel = context.WithTimeout(ctx, p.queueTimeout)
		defer cancel()
	}

	if err := p.sem.Acquire(waitCtx, 1); err != nil {
		if ctx.Err() != nil {
			return nil, appErr.Wrapf(ctx.Err(), appErr.Timeout, "execution canceled: %v", ctx.Err())
		}
		if p.logger != nil {
			p.logger.WithFields(logrus.Fields{
				"size":   p.size,
				"waited": time.Since(start),
			}).Warn("Process slot wait timed out")
		}
		return nil, appErr.New(appErr.ExecutionQueueFull)
	}
	p.observer.QueueWait(time.Since(start))
	p.observer.ActiveProcesses(p.active.Add(1))

	var once sync.Once
	return func() {
		once.Do(func() {
			p.observer.ActiveProcesses(p.active.Add(-1))
			p.sem.Release(1)
		})
	}, nil
}

// Active is the number of slots currently held.
func (p *ProcessPool) Active() int64 {
	return p.active.Load()
}

func (p *ProcessPool) Size() int64 {
	return p.size
}
