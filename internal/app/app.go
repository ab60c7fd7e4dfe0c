package app

import (
	"fmt"
	"net/http"

	"github.com/riskibarqy/match-intake/internal/config"
	"github.com/riskibarqy/match-intake/internal/domain/application"
	"github.com/riskibarqy/match-intake/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/match-intake/internal/infrastructure/submission"
	"github.com/riskibarqy/match-intake/internal/interfaces/httpapi"
	idgen "github.com/riskibarqy/match-intake/internal/platform/id"
	"github.com/riskibarqy/match-intake/internal/platform/logging"
	"github.com/riskibarqy/match-intake/internal/usecase"
)

func NewHTTPServer(cfg config.Config, logger *logging.Logger) (*http.Server, error) {
	if logger == nil {
		logger = logging.Default()
	}

	submitter, err := newSubmitter(cfg, logger)
	if err != nil {
		return nil, err
	}

	intakeSvc := usecase.NewIntakeService(
		memory.NewApplicationRepository(),
		submitter,
		idgen.NewUUIDGenerator(),
		cfg.DraftTTL,
		logger,
	)

	handler := httpapi.NewHandler(intakeSvc, logger)
	router := httpapi.NewRouter(handler, logger, cfg.CORSAllowedOrigins)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	if server.Addr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	return server, nil
}

func newSubmitter(cfg config.Config, logger *logging.Logger) (application.Submitter, error) {
	if !cfg.SubmitEnabled {
		logger.Info("submission disabled", "reason", "SUBMIT_ENABLED=false")
		return submission.NewLogSubmitter(logger), nil
	}

	client, err := submission.NewClient(submission.ClientConfig{
		BaseURL:        cfg.SubmitBaseURL,
		Timeout:        cfg.SubmitTimeout,
		MaxRetries:     cfg.SubmitMaxRetries,
		CircuitBreaker: cfg.SubmitCircuit,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("build submission client: %w", err)
	}
	return client, nil
}
