package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"xcoderunner/lang"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("SECRET_KEY", "s3cret")
	t.Setenv("CONFIG_FILE", "")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	ec := cfg.ExecutorConfig()
	if ec.BaseDir != "jobs" || ec.ExecTimeout != 10*time.Second || ec.CompileTimeout != 10*time.Second {
		t.Fatalf("unexpected executor defaults: %+v", ec)
	}
	if cfg.MaxCodeSize != 10000 || cfg.MaxInputs != 20 {
		t.Fatalf("unexpected request limits: %d %d", cfg.MaxCodeSize, cfg.MaxInputs)
	}
	if cfg.NatsSubject != "compiler.execute.request" {
		t.Fatalf("unexpected subject %q", cfg.NatsSubject)
	}
}

func TestLoadConfigRequiresSecret(t *testing.T) {
	t.Setenv("SECRET_KEY", "")
	if _, err := LoadConfig(); err == nil {
		t.Fatalf("expected missing secret key error")
	}
}

func TestLoadConfigFileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yamlDoc := `
secret_key: from-file
base_dir: /var/lib/xcode/jobs
exec_timeout_ms: 2500
max_processes: 4
compile_flags:
  C: "-O2"
`
	if err := os.WriteFile(path, []byte(yamlDoc), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("SECRET_KEY", "from-env")
	t.Setenv("MAX_PROCESSES", "6")
	t.Setenv("COMPILE_FLAGS_GO", "-trimpath")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.SecretKey != "from-env" {
		t.Fatalf("env should override file, got %q", cfg.SecretKey)
	}
	if cfg.BaseDir != "/var/lib/xcode/jobs" || cfg.ExecTimeoutMs != 2500 {
		t.Fatalf("file values not applied: %+v", cfg)
	}
	if cfg.MaxProcesses != 6 {
		t.Fatalf("max processes = %d", cfg.MaxProcesses)
	}

	opts, err := cfg.LanguageOptions()
	if err != nil {
		t.Fatalf("LanguageOptions: %v", err)
	}
	if opts.CompileFlags[lang.C] != "-O2" || opts.CompileFlags[lang.Go] != "-trimpath" {
		t.Fatalf("compile flags = %v", opts.CompileFlags)
	}
}

func TestValidateRejectsUnknownFlagLanguage(t *testing.T) {
	cfg := DefaultConfig()
	cfg.SecretKey = "k"
	cfg.CompileFlags["Rust"] = "-O"
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected error for unknown language")
	}
}

func TestValidateRejectsBadTimeout(t *testing.T) {
	cfg := DefaultConfig()
	cfg.SecretKey = "k"
	cfg.ExecTimeoutMs = 0
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected error for zero timeout")
	}
}

func TestGetEnvIntIgnoresGarbage(t *testing.T) {
	t.Setenv("SOME_INT", "not-a-number")
	if got := getEnvInt("SOME_INT", 7); got != 7 {
		t.Fatalf("got %d", got)
	}
}
