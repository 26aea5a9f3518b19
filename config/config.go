package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"xcoderunner/executor"
	"xcoderunner/lang"
)

type Config struct {
	Port        string `yaml:"port"`
	Environment string `yaml:"environment"`
	LogLevel    string `yaml:"log_level"`
	LogFormat   string `yaml:"log_format"`

	SecretKey string `yaml:"secret_key"`

	BaseDir          string `yaml:"base_dir"`
	ExecTimeoutMs    int    `yaml:"exec_timeout_ms"`
	CompileTimeoutMs int    `yaml:"compile_timeout_ms"`
	MaxCodeSize      int    `yaml:"max_code_size"`
	MaxInputs        int    `yaml:"max_inputs"`
	MaxProcesses     int    `yaml:"max_processes"`
	QueueTimeoutMs   int    `yaml:"queue_timeout_ms"`
	MaxOutputBytes   int64  `yaml:"max_output_bytes"`

	Ratelimit      float64 `yaml:"ratelimit"`
	RatelimitBurst int     `yaml:"ratelimit_burst"`

	NatsURL     string `yaml:"nats_url"`
	NatsSubject string `yaml:"nats_subject"`
	NatsQueue   string `yaml:"nats_queue"`

	ExecLogPath string `yaml:"exec_log_path"`

	BetterStackUploadURL   string `yaml:"betterstack_upload_url"`
	BetterStackSourceToken string `yaml:"betterstack_source_token"`

	PythonCmd    string            `yaml:"python_cmd"`
	NodeCmd      string            `yaml:"node_cmd"`
	CompileFlags map[string]string `yaml:"compile_flags"`
}

func DefaultConfig() Config {
	return Config{
		Port:             "8080",
		Environment:      "production",
		LogLevel:         "info",
		LogFormat:        "json",
		BaseDir:          "jobs",
		ExecTimeoutMs:    10000,
		CompileTimeoutMs: 10000,
		MaxCodeSize:      10000,
		MaxInputs:        20,
		MaxProcesses:     32,
		MaxOutputBytes:   1 << 20,
		Ratelimit:        10,
		RatelimitBurst:   20,
		NatsSubject:      "compiler.execute.request",
		NatsQueue:        "xcoderunner",
		CompileFlags:     map[string]string{},
	}
}

// LoadConfig layers defaults, the optional CONFIG_FILE yaml and the
// environment (including .env), in that order.
func LoadConfig() (Config, error) {
	err := godotenv.Load(".env")
	if err != nil {
		log.Printf("Warning: Error loading .env file: %v", err)
	}

	cfg := DefaultConfig()
	if path := getEnv("CONFIG_FILE", ""); path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}
	applyEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

var compileFlagEnv = map[string]string{
	"COMPILE_FLAGS_C":    "C",
	"COMPILE_FLAGS_CPP":  "C++",
	"COMPILE_FLAGS_JAVA": "Java",
	"COMPILE_FLAGS_GO":   "Go",
}

func applyEnv(cfg *Config) {
	cfg.Port = getEnv("PORT", cfg.Port)
	cfg.Environment = getEnv("ENVIRONMENT", cfg.Environment)
	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)
	cfg.LogFormat = getEnv("LOG_FORMAT", cfg.LogFormat)
	cfg.SecretKey = getEnv("SECRET_KEY", cfg.SecretKey)

	cfg.BaseDir = getEnv("BASE_DIR", cfg.BaseDir)
	cfg.ExecTimeoutMs = getEnvInt("EXEC_TIMEOUT_MS", cfg.ExecTimeoutMs)
	cfg.CompileTimeoutMs = getEnvInt("COMPILE_TIMEOUT_MS", cfg.CompileTimeoutMs)
	cfg.MaxCodeSize = getEnvInt("MAX_CODE_SIZE", cfg.MaxCodeSize)
	cfg.MaxInputs = getEnvInt("MAX_INPUTS", cfg.MaxInputs)
	cfg.MaxProcesses = getEnvInt("MAX_PROCESSES", cfg.MaxProcesses)
	cfg.QueueTimeoutMs = getEnvInt("QUEUE_TIMEOUT_MS", cfg.QueueTimeoutMs)
	cfg.MaxOutputBytes = int64(getEnvInt("MAX_OUTPUT_BYTES", int(cfg.MaxOutputBytes)))

	cfg.Ratelimit = getEnvFloat("RATELIMIT", cfg.Ratelimit)
	cfg.RatelimitBurst = getEnvInt("RATELIMITBURST", cfg.RatelimitBurst)

	cfg.NatsURL = getEnv("NATSURL", cfg.NatsURL)
	cfg.NatsSubject = getEnv("NATS_SUBJECT", cfg.NatsSubject)
	cfg.NatsQueue = getEnv("NATS_QUEUE", cfg.NatsQueue)

	cfg.ExecLogPath = getEnv("EXEC_LOG_PATH", cfg.ExecLogPath)

	cfg.BetterStackUploadURL = getEnv("BETTERSTACKUPLOADURL", cfg.BetterStackUploadURL)
	cfg.BetterStackSourceToken = getEnv("BETTERSTACKSOURCETOKEN", cfg.BetterStackSourceToken)

	cfg.PythonCmd = getEnv("PYTHON_CMD", cfg.PythonCmd)
	cfg.NodeCmd = getEnv("NODE_CMD", cfg.NodeCmd)
	if cfg.CompileFlags == nil {
		cfg.CompileFlags = map[string]string{}
	}
	for key, language := range compileFlagEnv {
		if value, exists := os.LookupEnv(key); exists {
			cfg.CompileFlags[language] = value
		}
	}
}

func (c Config) Validate() error {
	if c.SecretKey == "" {
		return fmt.Errorf("SECRET_KEY is required")
	}
	if c.MaxCodeSize <= 0 {
		return fmt.Errorf("MAX_CODE_SIZE must be positive")
	}
	if c.Ratelimit < 0 || c.RatelimitBurst < 0 {
		return fmt.Errorf("rate limit settings must not be negative")
	}
	if err := c.ExecutorConfig().Validate(); err != nil {
		return err
	}
	_, err := c.LanguageOptions()
	return err
}

// ExecutorConfig is the engine's view of the configuration.
func (c Config) ExecutorConfig() executor.Config {
	return executor.Config{
		BaseDir:        c.BaseDir,
		CompileTimeout: time.Duration(c.CompileTimeoutMs) * time.Millisecond,
		ExecTimeout:    time.Duration(c.ExecTimeoutMs) * time.Millisecond,
		MaxInputs:      c.MaxInputs,
		MaxProcesses:   int64(c.MaxProcesses),
		QueueTimeout:   time.Duration(c.QueueTimeoutMs) * time.Millisecond,
		MaxOutputBytes: c.MaxOutputBytes,
	}
}

// LanguageOptions converts the command overrides for lang.NewRegistry.
func (c Config) LanguageOptions() (lang.Options, error) {
	opts := lang.Options{
		PythonCmd:    c.PythonCmd,
		NodeCmd:      c.NodeCmd,
		CompileFlags: make(map[lang.Language]string, len(c.CompileFlags)),
	}
	for name, flags := range c.CompileFlags {
		l, err := lang.Parse(name)
		if err != nil {
			return lang.Options{}, fmt.Errorf("compile flags for unknown language %q", name)
		}
		opts.CompileFlags[l] = flags
	}
	return opts, nil
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value, exists := os.LookupEnv(key); exists {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}
