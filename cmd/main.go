package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/exec"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"xcoderunner/config"
	"xcoderunner/executor"
	"xcoderunner/internal"
	"xcoderunner/lang"
	applog "xcoderunner/logger"
	"xcoderunner/metrics"
	"xcoderunner/natshandler"
	"xcoderunner/pkg"
	"xcoderunner/routes"
	"xcoderunner/service"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := applog.New(applog.Config{
		Level:                  cfg.LogLevel,
		Format:                 cfg.LogFormat,
		Environment:            cfg.Environment,
		BetterStackUploadURL:   cfg.BetterStackUploadURL,
		BetterStackSourceToken: cfg.BetterStackSourceToken,
	})
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	execLog, err := executor.NewProcessLogger(cfg.ExecLogPath, cfg.LogLevel)
	if err != nil {
		logger.Fatal("Failed to initialize process logger", zap.Error(err))
	}

	langOpts, err := cfg.LanguageOptions()
	if err != nil {
		logger.Fatal("Invalid language options", zap.Error(err))
	}
	registry, err := lang.NewRegistry(langOpts)
	if err != nil {
		logger.Fatal("Failed to build language registry", zap.Error(err))
	}

	// Missing toolchains only disable their language
	for _, st := range registry.Preflight(exec.LookPath) {
		if !st.Available() {
			logger.Warn("Toolchain not found",
				zap.String("language", st.Language.String()),
				zap.String("tool", st.Tool))
		}
	}

	engine, err := executor.NewEngine(cfg.ExecutorConfig(),
		executor.WithProfiles(registry),
		executor.WithLogger(execLog),
		executor.WithObserver(metrics.Recorder{}),
	)
	if err != nil {
		logger.Fatal("Failed to create execution engine", zap.Error(err))
	}
	logger.Info("Execution engine ready",
		zap.Int64("max_processes", engine.Pool().Size()),
		zap.Int("max_inputs", engine.Config().MaxInputs))

	svc := service.NewCompilerService(engine, internal.NewValidator(), service.Config{
		SecretKey:   cfg.SecretKey,
		MaxCodeSize: cfg.MaxCodeSize,
		MaxInputs:   cfg.MaxInputs,
	}, logger.Named("service"))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var limiter *pkg.RateLimiter
	if cfg.Ratelimit > 0 {
		limiter = pkg.NewRateLimiter(cfg.Ratelimit, cfg.RatelimitBurst)
		limiter.StartCleanup(time.Minute, ctx.Done())
	}

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           routes.NewRouter(svc, limiter, logger.Named("http")),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logger.Info("HTTP server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	// Connect to NATS
	var (
		nc      *nats.Conn
		sub     *nats.Subscription
		handler *natshandler.Handler
	)
	if cfg.NatsURL != "" {
		nc, err = nats.Connect(cfg.NatsURL, nats.Name("xcoderunner"))
		if err != nil {
			logger.Fatal("Failed to connect to NATS",
				zap.String("url", cfg.NatsURL),
				zap.Error(err))
		}
		handler = natshandler.NewHandler(svc, nc, 0, logger.Named("nats"))
		sub, err = handler.Subscribe(nc, cfg.NatsSubject, cfg.NatsQueue)
		if err != nil {
			logger.Fatal("Failed to subscribe", zap.String("subject", cfg.NatsSubject), zap.Error(err))
		}
		logger.Info("Listening for execution requests", zap.String("subject", cfg.NatsSubject))
	}

	<-ctx.Done()
	logger.Info("Shutting down")

	if sub != nil {
		if err := sub.Drain(); err != nil {
			logger.Warn("Failed to drain subscription", zap.Error(err))
		}
		handler.Wait()
		nc.Close()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown failed", zap.Error(err))
	}
}
