package natshandler

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"xcoderunner/model"
	appErr "xcoderunner/pkg/errors"
)

// Executor is the service each request is handed to.
type Executor interface {
	Execute(ctx context.Context, req model.ExecutionRequest) (model.ExecutionResponse, error)
}

// Publisher is the subset of *nats.Conn used to reply.
type Publisher interface {
	Publish(subject string, data []byte) error
}

type Handler struct {
	svc     Executor
	pub     Publisher
	logger  *zap.Logger
	timeout time.Duration
	wg      sync.WaitGroup
}

// NewHandler builds a handler; timeout bounds one request end to end, zero
// means no bound.
func NewHandler(svc Executor, pub Publisher, timeout time.Duration, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{svc: svc, pub: pub, logger: logger, timeout: timeout}
}

// Subscribe joins the queue group on subject. Each message is processed on
// its own goroutine so a slow job does not hold up the subscription.
func (h *Handler) Subscribe(nc *nats.Conn, subject, queue string) (*nats.Subscription, error) {
	return nc.QueueSubscribe(subject, queue, func(msg *nats.Msg) {
		h.wg.Add(1)
		go func() {
			defer h.wg.Done()
			h.HandleCompilerRequest(msg)
		}()
	})
}

// Wait blocks until in-flight requests have replied.
func (h *Handler) Wait() {
	h.wg.Wait()
}

func (h *Handler) HandleCompilerRequest(msg *nats.Msg) {
	var req model.ExecutionRequest
	if err := json.Unmarshal(msg.Data, &req); err != nil {
		h.logger.Warn("Failed to parse execution request", zap.Error(err))
		h.reply(msg, model.Failure("Invalid request body: "+err.Error(), int(appErr.InvalidFormat)))
		return
	}

	ctx := context.Background()
	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}

	res, err := h.svc.Execute(ctx, req)
	if err != nil {
		e := appErr.GetError(err)
		h.logger.Info("Execution request rejected",
			zap.String("subject", msg.Subject),
			zap.Int("code", int(e.Code)),
			zap.Error(err))
		h.reply(msg, model.Failure(e.Error(), int(e.Code)))
		return
	}
	h.reply(msg, res)
}

func (h *Handler) reply(msg *nats.Msg, payload any) {
	if msg.Reply == "" {
		h.logger.Warn("Dropping response for request without reply subject", zap.String("subject", msg.Subject))
		return
	}
	resData, err := json.Marshal(payload)
	if err != nil {
		h.logger.Error("Failed to encode response", zap.Error(err))
		return
	}
	if err := h.pub.Publish(msg.Reply, resData); err != nil {
		h.logger.Error("Failed to publish response", zap.String("reply", msg.Reply), zap.Error(err))
	}
}
