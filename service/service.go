package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"xcoderunner/executor"
	"xcoderunner/internal"
	"xcoderunner/lang"
	"xcoderunner/metrics"
	"xcoderunner/model"
	appErr "xcoderunner/pkg/errors"
)

// Engine runs a validated snippet.
type Engine interface {
	Submit(ctx context.Context, language lang.Language, source string, inputs []string) (executor.Result, error)
}

// Validator screens source text before it reaches the engine.
type Validator interface {
	Validate(language lang.Language, code string) error
}

type Config struct {
	SecretKey   string
	MaxCodeSize int
	MaxInputs   int
}

// CompilerService is the request-level entry point shared by the HTTP and
// NATS transports.
type CompilerService struct {
	engine    Engine
	validator Validator
	cfg       Config
	logger    *zap.Logger
}

func NewCompilerService(engine Engine, validator Validator, cfg Config, logger *zap.Logger) *CompilerService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CompilerService{
		engine:    engine,
		validator: validator,
		cfg:       cfg,
		logger:    logger,
	}
}

// Execute authenticates and validates req, then runs it. A returned error is
// an *errors.Error whose code selects the transport status.
func (s *CompilerService) Execute(ctx context.Context, req model.ExecutionRequest) (model.ExecutionResponse, error) {
	if subtle.ConstantTimeCompare([]byte(req.Key), []byte(s.cfg.SecretKey)) != 1 {
		return model.ExecutionResponse{}, appErr.ForbiddenError("Invalid secret key")
	}
	if err := s.checkRequest(req); err != nil {
		return model.ExecutionResponse{}, err
	}

	language, err := lang.Parse(req.Language)
	if err != nil {
		return model.ExecutionResponse{}, err
	}

	if s.validator != nil {
		if err := s.validator.Validate(language, req.Code); err != nil {
			var se *internal.SanitizationError
			if !errors.As(err, &se) {
				return model.ExecutionResponse{}, appErr.InternalError(err)
			}
			metrics.ValidatorRejections.WithLabelValues(language.String()).Inc()
			s.logger.Info("Code rejected by validator",
				zap.String("language", language.String()),
				zap.String("reason", se.Message),
				zap.String("source", se.Details))
			return model.Success([]string{se.Message}), nil
		}
	}

	start := time.Now()
	result, err := s.engine.Submit(ctx, language, req.Code, req.Inputs)
	if err != nil {
		s.logger.Warn("Execution aborted",
			zap.String("job_id", result.JobID),
			zap.String("language", language.String()),
			zap.Error(err))
		return model.ExecutionResponse{}, err
	}

	s.logger.Info("Execution finished",
		zap.String("job_id", result.JobID),
		zap.String("language", language.String()),
		zap.String("stage", string(result.Stage)),
		zap.String("compile", string(result.Compile.Status)),
		zap.Int("inputs", len(req.Inputs)),
		zap.Duration("duration", time.Since(start)))
	return model.Success(result.Outputs), nil
}

func (s *CompilerService) checkRequest(req model.ExecutionRequest) error {
	if strings.TrimSpace(req.Code) == "" {
		return appErr.ValidationError("code", "must not be blank")
	}
	if strings.TrimSpace(req.Language) == "" {
		return appErr.ValidationError("language", "must not be blank")
	}
	if n := utf8.RuneCountInString(req.Code); s.cfg.MaxCodeSize > 0 && n > s.cfg.MaxCodeSize {
		return appErr.Newf(appErr.CodeTooLarge, "Code size must not exceed %d characters", s.cfg.MaxCodeSize)
	}
	if len(req.Inputs) == 0 {
		return appErr.ValidationError("inputs", "at least one input is required")
	}
	if s.cfg.MaxInputs > 0 && len(req.Inputs) > s.cfg.MaxInputs {
		return appErr.Newf(appErr.TooManyInputs, "At most %d inputs are allowed", s.cfg.MaxInputs)
	}
	return nil
}
