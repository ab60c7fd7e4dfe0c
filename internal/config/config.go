package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/riskibarqy/match-intake/internal/platform/logging"
	"github.com/riskibarqy/match-intake/internal/platform/resilience"
)

// Config stores runtime configuration for the service.
type Config struct {
	AppEnv                 string
	ServiceName            string
	ServiceVersion         string
	HTTPAddr               string
	CORSAllowedOrigins     []string
	ReadTimeout            time.Duration
	WriteTimeout           time.Duration
	DraftTTL               time.Duration
	SubmitEnabled          bool
	SubmitBaseURL          string
	SubmitTimeout          time.Duration
	SubmitMaxRetries       int
	SubmitCircuit          resilience.CircuitBreakerConfig
	UptraceEnabled         bool
	UptraceDSN             string
	PyroscopeEnabled       bool
	PyroscopeServerAddress string
	PyroscopeAppName       string
	PyroscopeUploadRate    time.Duration
	LogLevel               logging.Level
}

func Load() (Config, error) {
	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	readTimeout, err := time.ParseDuration(getEnv("HTTP_READ_TIMEOUT", "10s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse HTTP_READ_TIMEOUT: %w", err)
	}
	writeTimeout, err := time.ParseDuration(getEnv("HTTP_WRITE_TIMEOUT", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse HTTP_WRITE_TIMEOUT: %w", err)
	}

	draftTTL, err := time.ParseDuration(getEnv("DRAFT_TTL", "24h"))
	if err != nil {
		return Config{}, fmt.Errorf("parse DRAFT_TTL: %w", err)
	}
	if draftTTL <= 0 {
		return Config{}, fmt.Errorf("DRAFT_TTL must be > 0")
	}

	submitEnabled, err := strconv.ParseBool(getEnv("SUBMIT_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse SUBMIT_ENABLED: %w", err)
	}
	submitBaseURL := strings.TrimRight(strings.TrimSpace(getEnv("SUBMIT_BASE_URL", "")), "/")
	if submitEnabled && submitBaseURL == "" {
		return Config{}, fmt.Errorf("SUBMIT_BASE_URL is required when SUBMIT_ENABLED=true")
	}
	submitTimeout, err := time.ParseDuration(getEnv("SUBMIT_TIMEOUT", "10s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse SUBMIT_TIMEOUT: %w", err)
	}
	if submitTimeout <= 0 {
		return Config{}, fmt.Errorf("SUBMIT_TIMEOUT must be > 0")
	}
	submitMaxRetries, err := getEnvAsInt("SUBMIT_MAX_RETRIES", 2)
	if err != nil {
		return Config{}, fmt.Errorf("parse SUBMIT_MAX_RETRIES: %w", err)
	}
	if submitMaxRetries < 0 {
		return Config{}, fmt.Errorf("SUBMIT_MAX_RETRIES must be >= 0")
	}

	submitCircuitEnabled, err := strconv.ParseBool(getEnv("SUBMIT_CIRCUIT_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse SUBMIT_CIRCUIT_ENABLED: %w", err)
	}
	submitCircuitFailureCount, err := getEnvAsInt("SUBMIT_CIRCUIT_FAILURE_COUNT", 3)
	if err != nil {
		return Config{}, fmt.Errorf("parse SUBMIT_CIRCUIT_FAILURE_COUNT: %w", err)
	}
	if submitCircuitFailureCount < 1 {
		return Config{}, fmt.Errorf("SUBMIT_CIRCUIT_FAILURE_COUNT must be >= 1")
	}
	submitCircuitOpenTimeout, err := time.ParseDuration(getEnv("SUBMIT_CIRCUIT_OPEN_TIMEOUT", "30s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse SUBMIT_CIRCUIT_OPEN_TIMEOUT: %w", err)
	}
	if submitCircuitOpenTimeout <= 0 {
		return Config{}, fmt.Errorf("SUBMIT_CIRCUIT_OPEN_TIMEOUT must be > 0")
	}
	submitCircuitHalfOpenMaxReq, err := getEnvAsInt("SUBMIT_CIRCUIT_HALF_OPEN_MAX_REQ", 1)
	if err != nil {
		return Config{}, fmt.Errorf("parse SUBMIT_CIRCUIT_HALF_OPEN_MAX_REQ: %w", err)
	}
	if submitCircuitHalfOpenMaxReq < 1 {
		return Config{}, fmt.Errorf("SUBMIT_CIRCUIT_HALF_OPEN_MAX_REQ must be >= 1")
	}

	uptraceEnabled, err := strconv.ParseBool(getEnv("UPTRACE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse UPTRACE_ENABLED: %w", err)
	}
	uptraceDSN := strings.TrimSpace(getEnv("UPTRACE_DSN", ""))
	if uptraceDSN == "" {
		uptraceDSN = parseUptraceDSNFromOTLPHeaders(getEnv("OTEL_EXPORTER_OTLP_HEADERS", ""))
	}
	if uptraceEnabled && uptraceDSN == "" {
		return Config{}, fmt.Errorf("UPTRACE_DSN is required when UPTRACE_ENABLED=true")
	}

	pyroscopeEnabled, err := strconv.ParseBool(getEnv("PYROSCOPE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_ENABLED: %w", err)
	}
	pyroscopeServerAddress := strings.TrimSpace(getEnv("PYROSCOPE_SERVER_ADDRESS", ""))
	if pyroscopeEnabled && pyroscopeServerAddress == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_SERVER_ADDRESS is required when PYROSCOPE_ENABLED=true")
	}
	pyroscopeUploadRate, err := time.ParseDuration(getEnv("PYROSCOPE_UPLOAD_RATE", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_UPLOAD_RATE: %w", err)
	}
	if pyroscopeUploadRate <= 0 {
		return Config{}, fmt.Errorf("PYROSCOPE_UPLOAD_RATE must be > 0")
	}

	cfg := Config{
		AppEnv:             appEnv,
		ServiceName:        getEnv("SERVICE_NAME", "match-intake-api"),
		ServiceVersion:     getEnv("SERVICE_VERSION", "dev"),
		HTTPAddr:           getEnv("HTTP_ADDR", ":8080"),
		CORSAllowedOrigins: splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		ReadTimeout:        readTimeout,
		WriteTimeout:       writeTimeout,
		DraftTTL:           draftTTL,
		SubmitEnabled:      submitEnabled,
		SubmitBaseURL:      submitBaseURL,
		SubmitTimeout:      submitTimeout,
		SubmitMaxRetries:   submitMaxRetries,
		SubmitCircuit: resilience.CircuitBreakerConfig{
			Enabled:          submitCircuitEnabled,
			FailureThreshold: submitCircuitFailureCount,
			OpenTimeout:      submitCircuitOpenTimeout,
			HalfOpenMaxReq:   submitCircuitHalfOpenMaxReq,
		},
		UptraceEnabled:         uptraceEnabled,
		UptraceDSN:             uptraceDSN,
		PyroscopeEnabled:       pyroscopeEnabled,
		PyroscopeServerAddress: pyroscopeServerAddress,
		PyroscopeUploadRate:    pyroscopeUploadRate,
		LogLevel:               logging.ParseLevel(getEnv("APP_LOG_LEVEL", "info")),
	}
	cfg.PyroscopeAppName = strings.TrimSpace(getEnv("PYROSCOPE_APP_NAME", cfg.ServiceName))
	if cfg.PyroscopeEnabled && cfg.PyroscopeAppName == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_APP_NAME cannot be empty when PYROSCOPE_ENABLED=true")
	}
	if len(cfg.CORSAllowedOrigins) == 0 {
		return Config{}, fmt.Errorf("CORS_ALLOWED_ORIGINS cannot be empty")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if strings.TrimSpace(value) == "" {
		return fallback
	}

	return value
}

func getEnvAsInt(key string, fallback int) (int, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	out, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}

	return out, nil
}

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		item := strings.TrimSpace(part)
		if item == "" {
			continue
		}
		out = append(out, item)
	}

	return out
}

// parseUptraceDSNFromOTLPHeaders accepts the DSN via the standard OTLP
// headers variable, e.g. `uptrace-dsn=https://token@api.uptrace.dev`.
func parseUptraceDSNFromOTLPHeaders(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}

	for _, item := range strings.Split(raw, ",") {
		parts := strings.SplitN(strings.TrimSpace(item), "=", 2)
		if len(parts) != 2 {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(parts[0]), "uptrace-dsn") {
			return strings.Trim(strings.TrimSpace(parts[1]), "\"'")
		}
	}

	return ""
}

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

func parseAppEnv(v string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	switch value {
	case EnvDev, EnvStage, EnvProd:
		return value, nil
	default:
		return "", fmt.Errorf("invalid APP_ENV %q: valid values are %s, %s, %s", v, EnvDev, EnvStage, EnvProd)
	}
}
