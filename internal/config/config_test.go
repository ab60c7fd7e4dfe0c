package config

import (
	"testing"
	"time"

	"github.com/riskibarqy/match-intake/internal/platform/logging"
)

func TestLoad_AppEnvValidation(t *testing.T) {
	t.Setenv("APP_ENV", "invalid")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for invalid APP_ENV")
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", "")
	t.Setenv("UPTRACE_ENABLED", "")
	t.Setenv("SUBMIT_ENABLED", "")
	t.Setenv("DRAFT_TTL", "")
	t.Setenv("APP_LOG_LEVEL", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.AppEnv != EnvDev {
		t.Fatalf("unexpected app env: %q", cfg.AppEnv)
	}
	if cfg.HTTPAddr != ":8080" {
		t.Fatalf("unexpected http addr: %q", cfg.HTTPAddr)
	}
	if cfg.DraftTTL != 24*time.Hour {
		t.Fatalf("unexpected draft ttl: %s", cfg.DraftTTL)
	}
	if cfg.SubmitEnabled {
		t.Fatalf("expected SubmitEnabled=false by default")
	}
	if !cfg.SubmitCircuit.Enabled || cfg.SubmitCircuit.FailureThreshold != 3 {
		t.Fatalf("unexpected submit circuit defaults: %+v", cfg.SubmitCircuit)
	}
	if cfg.LogLevel != logging.LevelInfo {
		t.Fatalf("unexpected log level: %s", cfg.LogLevel)
	}
}

func TestLoad_UptraceRequiresDSNWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "true")
	t.Setenv("UPTRACE_DSN", "")
	t.Setenv("OTEL_EXPORTER_OTLP_HEADERS", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when UPTRACE_ENABLED=true without UPTRACE_DSN")
	}
}

func TestLoad_UptraceDSNFromOTLPHeaders(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "true")
	t.Setenv("UPTRACE_DSN", "")
	t.Setenv("OTEL_EXPORTER_OTLP_HEADERS", `foo=bar, uptrace-dsn="https://token@api.uptrace.dev?grpc=4317"`)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.UptraceDSN != "https://token@api.uptrace.dev?grpc=4317" {
		t.Fatalf("unexpected uptrace dsn: %q", cfg.UptraceDSN)
	}
}

func TestLoad_SubmitConfigParsing(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")

	t.Run("enabled requires base url", func(t *testing.T) {
		t.Setenv("SUBMIT_ENABLED", "true")
		t.Setenv("SUBMIT_BASE_URL", "")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error when SUBMIT_ENABLED=true without SUBMIT_BASE_URL")
		}
	})

	t.Run("enabled with values", func(t *testing.T) {
		t.Setenv("SUBMIT_ENABLED", "true")
		t.Setenv("SUBMIT_BASE_URL", "https://intake.example.com/api/")
		t.Setenv("SUBMIT_TIMEOUT", "4s")
		t.Setenv("SUBMIT_MAX_RETRIES", "0")
		t.Setenv("SUBMIT_CIRCUIT_FAILURE_COUNT", "5")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if cfg.SubmitBaseURL != "https://intake.example.com/api" {
			t.Fatalf("expected trailing slash trimmed, got %q", cfg.SubmitBaseURL)
		}
		if cfg.SubmitTimeout != 4*time.Second {
			t.Fatalf("unexpected submit timeout: %s", cfg.SubmitTimeout)
		}
		if cfg.SubmitMaxRetries != 0 {
			t.Fatalf("unexpected submit retries: %d", cfg.SubmitMaxRetries)
		}
		if cfg.SubmitCircuit.FailureThreshold != 5 {
			t.Fatalf("unexpected circuit threshold: %d", cfg.SubmitCircuit.FailureThreshold)
		}
	})

	t.Run("negative retries", func(t *testing.T) {
		t.Setenv("SUBMIT_ENABLED", "false")
		t.Setenv("SUBMIT_MAX_RETRIES", "-1")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error for negative SUBMIT_MAX_RETRIES")
		}
	})
}

func TestLoad_DraftTTLMustBePositive(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")
	t.Setenv("DRAFT_TTL", "-1h")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error for negative DRAFT_TTL")
	}
}

func TestLoad_PyroscopeRequiresServerAddressWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")
	t.Setenv("PYROSCOPE_ENABLED", "true")
	t.Setenv("PYROSCOPE_SERVER_ADDRESS", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when PYROSCOPE_ENABLED=true without PYROSCOPE_SERVER_ADDRESS")
	}
}

func TestLoad_PyroscopeAppNameDefaultsToServiceName(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")
	t.Setenv("SERVICE_NAME", "match-intake-test")
	t.Setenv("PYROSCOPE_ENABLED", "true")
	t.Setenv("PYROSCOPE_SERVER_ADDRESS", "http://localhost:4040")
	t.Setenv("PYROSCOPE_APP_NAME", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.PyroscopeAppName != "match-intake-test" {
		t.Fatalf("unexpected pyroscope app name: %q", cfg.PyroscopeAppName)
	}
}

func TestLoad_CORSOriginsDefaultAndParsing(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")

	t.Run("default wildcard", func(t *testing.T) {
		t.Setenv("CORS_ALLOWED_ORIGINS", "")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if len(cfg.CORSAllowedOrigins) != 1 || cfg.CORSAllowedOrigins[0] != "*" {
			t.Fatalf("unexpected default CORS origins: %+v", cfg.CORSAllowedOrigins)
		}
	})

	t.Run("comma separated parsing", func(t *testing.T) {
		t.Setenv("CORS_ALLOWED_ORIGINS", " https://a.example.com, http://localhost:5173 ")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if len(cfg.CORSAllowedOrigins) != 2 {
			t.Fatalf("unexpected CORS origins length: %d", len(cfg.CORSAllowedOrigins))
		}
		if cfg.CORSAllowedOrigins[1] != "http://localhost:5173" {
			t.Fatalf("unexpected second CORS origin: %s", cfg.CORSAllowedOrigins[1])
		}
	})
}
