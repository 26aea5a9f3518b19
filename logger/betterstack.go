package logger

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap/zapcore"
)

// logEntry represents a single log entry for Better Stack
type logEntry struct {
	Timestamp  string         `json:"timestamp"`
	Level      string         `json:"level"`
	Message    string         `json:"message"`
	TraceID    string         `json:"traceID"` // job id, to follow one request
	Layer      string         `json:"layer"`   // named logger that emitted the entry
	Attributes map[string]any `json:"attributes"`
}

type BetterStackOptions struct {
	SourceToken string
	Environment string
	UploadURL   string
	// FilePath is used in development; defaults to app.log.
	FilePath string
	Level    zapcore.LevelEnabler
	Client   *http.Client
}

// betterStackSink is shared by every core derived through With.
type betterStackSink struct {
	sourceToken string
	environment string
	uploadURL   string
	client      *http.Client
	fileWriter  io.Writer
	fileMu      sync.Mutex
	inflight    sync.WaitGroup
}

// BetterStackCore is a zapcore.Core that streams entries to a file in
// development or to Better Stack otherwise.
type BetterStackCore struct {
	zapcore.LevelEnabler
	sink   *betterStackSink
	fields []zapcore.Field
}

func NewBetterStackCore(opts BetterStackOptions) (*BetterStackCore, error) {
	if opts.Level == nil {
		opts.Level = zapcore.InfoLevel
	}
	sink := &betterStackSink{
		sourceToken: opts.SourceToken,
		environment: opts.Environment,
		uploadURL:   opts.UploadURL,
		client:      opts.Client,
	}

	if opts.Environment == "development" {
		path := opts.FilePath
		if path == "" {
			path = "app.log"
		}
		f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}
		sink.fileWriter = f
	} else if sink.client == nil {
		sink.client = &http.Client{Timeout: 10 * time.Second}
	}

	return &BetterStackCore{LevelEnabler: opts.Level, sink: sink}, nil
}

func (c *BetterStackCore) With(fields []zapcore.Field) zapcore.Core {
	merged := make([]zapcore.Field, 0, len(c.fields)+len(fields))
	merged = append(merged, c.fields...)
	merged = append(merged, fields...)
	return &BetterStackCore{LevelEnabler: c.LevelEnabler, sink: c.sink, fields: merged}
}

func (c *BetterStackCore) Check(ent zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(ent.Level) {
		return ce.AddCore(ent, c)
	}
	return ce
}

func (c *BetterStackCore) Write(ent zapcore.Entry, fields []zapcore.Field) error {
	enc := zapcore.NewMapObjectEncoder()
	for _, f := range c.fields {
		f.AddTo(enc)
	}
	for _, f := range fields {
		f.AddTo(enc)
	}

	entry := logEntry{
		Timestamp:  ent.Time.UTC().Format(time.RFC3339Nano),
		Level:      strings.ToUpper(ent.Level.String()),
		Message:    ent.Message,
		Layer:      ent.LoggerName,
		Attributes: enc.Fields,
	}
	if id, ok := enc.Fields["job_id"].(string); ok {
		entry.TraceID = id
	}

	body, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshal log entry: %w", err)
	}
	return c.sink.send(body)
}

// Sync waits for in-flight uploads.
func (c *BetterStackCore) Sync() error {
	c.sink.inflight.Wait()
	return nil
}

func (s *betterStackSink) send(body []byte) error {
	if s.fileWriter != nil {
		s.fileMu.Lock()
		defer s.fileMu.Unlock()
		_, err := s.fileWriter.Write(append(body, '\n'))
		return err
	}

	req, err := http.NewRequest(http.MethodPost, s.uploadURL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.sourceToken)

	s.inflight.Add(1)
	go func() {
		defer s.inflight.Done()
		resp, err := s.client.Do(req)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to send log to Better Stack: %v\n", err)
			return
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusAccepted {
			fmt.Fprintf(os.Stderr, "Unexpected response from Better Stack: %s\n", resp.Status)
		}
	}()
	return nil
}
