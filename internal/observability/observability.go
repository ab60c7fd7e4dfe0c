package observability

import (
	"context"

	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/match-intake/internal/config"
	"github.com/riskibarqy/match-intake/internal/platform/logging"
)

// Stack holds the exporters started for one process.
type Stack struct {
	stopTracing   func(context.Context) error
	stopProfiling func() error
	logger        *logging.Logger
}

// Start brings up tracing and profiling as configured. Disabled parts are
// skipped; the returned Stack is always safe to shut down.
func Start(cfg config.Config, logger *logging.Logger) (*Stack, error) {
	if logger == nil {
		logger = logging.Default()
	}
	logger = logger.Named("observability")

	stopTracing, err := initUptrace(cfg, logger)
	if err != nil {
		return nil, crerr.Wrap(err, "init uptrace")
	}
	stopProfiling, err := initPyroscope(cfg, logger)
	if err != nil {
		_ = stopTracing(context.Background())
		return nil, crerr.Wrap(err, "init pyroscope")
	}

	return &Stack{
		stopTracing:   stopTracing,
		stopProfiling: stopProfiling,
		logger:        logger,
	}, nil
}

// Shutdown flushes pending spans and stops the profiler.
func (s *Stack) Shutdown(ctx context.Context) error {
	if s == nil {
		return nil
	}

	var errs error
	if err := s.stopTracing(ctx); err != nil {
		errs = crerr.CombineErrors(errs, crerr.Wrap(err, "shutdown uptrace"))
	}
	if err := s.stopProfiling(); err != nil {
		errs = crerr.CombineErrors(errs, crerr.Wrap(err, "stop pyroscope"))
	}
	if errs == nil {
		s.logger.Info("observability stopped")
	}
	return errs
}
