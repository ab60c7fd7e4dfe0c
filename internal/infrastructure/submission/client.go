package submission

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/match-intake/internal/domain/application"
	"github.com/riskibarqy/match-intake/internal/platform/logging"
	"github.com/riskibarqy/match-intake/internal/platform/resilience"
	"github.com/valyala/bytebufferpool"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const submitPath = "/submit-application"

var (
	// ErrRejected marks a non-retryable response from the backend, e.g. 400.
	ErrRejected = crerr.New("submission rejected")

	errTransient = crerr.New("submission transient failure")
)

type ClientConfig struct {
	BaseURL        string
	Timeout        time.Duration
	MaxRetries     int
	RetryBackoff   time.Duration
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Client posts finished applications to the analysis backend.
type Client struct {
	client     *http.Client
	baseURL    string
	maxRetries int
	backoff    time.Duration
	logger     *logging.Logger
	breaker    *resilience.CircuitBreaker
	sleep      func(ctx context.Context, d time.Duration) error
}

func NewClient(cfg ClientConfig, logger *logging.Logger) (*Client, error) {
	baseURL, err := validateHTTPBaseURL(cfg.BaseURL)
	if err != nil {
		return nil, crerr.Wrap(err, "invalid SUBMIT_BASE_URL")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	backoff := cfg.RetryBackoff
	if backoff <= 0 {
		backoff = 500 * time.Millisecond
	}
	maxRetries := cfg.MaxRetries
	if maxRetries < 0 {
		maxRetries = 0
	}
	if logger == nil {
		logger = logging.Default()
	}

	return &Client{
		client:     &http.Client{Timeout: timeout},
		baseURL:    baseURL,
		maxRetries: maxRetries,
		backoff:    backoff,
		logger:     logger.Named("submission"),
		breaker:    resilience.NewCircuitBreaker(cfg.CircuitBreaker),
		sleep:      sleepContext,
	}, nil
}

func (c *Client) Submit(ctx context.Context, payload application.SubmissionPayload) error {
	body, err := sonic.Marshal(payload)
	if err != nil {
		return crerr.Wrap(err, "marshal submission payload")
	}

	endpoint := c.baseURL + submitPath
	bodyText := truncateForLog(string(body), 4096)
	curlPreview := buildCurlPreview(endpoint, bodyText)

	span := trace.SpanFromContext(ctx)
	if span.IsRecording() {
		span.SetAttributes(
			attribute.String("submission.url", endpoint),
			attribute.String("submission.plan", payload.Plan),
			attribute.String("submission.formation", payload.Formation),
			attribute.Int("submission.players", len(payload.Players)),
			attribute.Int("submission.substitutes", len(payload.Substitutes)),
			attribute.Int("submission.body_bytes", len(body)),
		)
	}
	c.logger.InfoContext(ctx, "submission request", "url", endpoint, "body_bytes", len(body))
	c.logger.DebugContext(ctx, "submission request preview", "curl_preview", curlPreview)

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			if err := c.sleep(ctx, time.Duration(attempt)*c.backoff); err != nil {
				return crerr.Wrap(err, "wait before submission retry")
			}
		}

		lastErr = c.breaker.Execute(func() error {
			return c.post(ctx, endpoint, body)
		}, isCircuitFailure)
		if lastErr == nil {
			c.logger.InfoContext(ctx, "application submitted",
				"url", endpoint,
				"attempt", attempt+1,
				"home_team", payload.HomeTeam,
				"away_team", payload.AwayTeam,
			)
			return nil
		}
		if !crerr.Is(lastErr, errTransient) {
			break
		}
		c.logger.WarnContext(ctx, "submission attempt failed", "attempt", attempt+1, "error", lastErr)
	}

	if crerr.Is(lastErr, resilience.ErrCircuitOpen) {
		c.logger.WarnContext(ctx, "submission circuit breaker rejected request", "state", c.breaker.State())
		return crerr.Wrap(lastErr, "submission backend is temporarily unavailable")
	}
	return lastErr
}

func (c *Client) post(ctx context.Context, endpoint string, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return crerr.Wrap(err, "create submission request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return crerr.Wrap(ctx.Err(), "submit application")
		}
		return crerr.Mark(crerr.Wrapf(err, "submit application url=%s", endpoint), errTransient)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode/100 == 2 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	callErr := crerr.Newf("submit application status=%d url=%s body=%s", resp.StatusCode, endpoint, strings.TrimSpace(string(raw)))
	if isRetryableStatus(resp.StatusCode) {
		return crerr.Mark(callErr, errTransient)
	}
	return crerr.Mark(callErr, ErrRejected)
}

func isCircuitFailure(err error) bool {
	return crerr.Is(err, errTransient)
}

func isRetryableStatus(statusCode int) bool {
	return statusCode == http.StatusRequestTimeout ||
		statusCode == http.StatusTooManyRequests ||
		statusCode >= http.StatusInternalServerError
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func validateHTTPBaseURL(raw string) (string, error) {
	candidate := strings.TrimSpace(raw)
	if candidate == "" {
		return "", crerr.New("value is empty")
	}

	parsed, err := url.Parse(candidate)
	if err != nil {
		return "", crerr.Wrapf(err, "parse %q", candidate)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", crerr.Newf("%q uses unsupported scheme=%q; expected http or https", candidate, parsed.Scheme)
	}
	if strings.TrimSpace(parsed.Host) == "" {
		return "", crerr.Newf("%q has empty host", candidate)
	}

	return strings.TrimRight(candidate, "/"), nil
}

func buildCurlPreview(endpoint, body string) string {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	appendPart := func(part string) {
		if buf.Len() > 0 {
			_ = buf.WriteByte(' ')
		}
		_, _ = buf.WriteString(part)
	}

	appendPart("curl")
	appendPart("-X")
	appendPart("POST")
	appendPart(shellQuote(endpoint))
	appendPart("-H")
	appendPart(shellQuote("Content-Type: application/json"))
	appendPart("-d")
	appendPart(shellQuote(body))

	return buf.String()
}

func shellQuote(value string) string {
	return "'" + strings.ReplaceAll(value, "'", "'\"'\"'") + "'"
}

// truncateForLog cuts value to at most max bytes without splitting a rune.
func truncateForLog(value string, max int) string {
	if max <= 0 || len(value) <= max {
		return value
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(value[cut]) {
		cut--
	}
	return value[:cut] + "...(truncated)"
}

// LogSubmitter records submissions in the log instead of sending them. It is
// used when SUBMIT_ENABLED=false.
type LogSubmitter struct {
	logger *logging.Logger
}

func NewLogSubmitter(logger *logging.Logger) *LogSubmitter {
	if logger == nil {
		logger = logging.Default()
	}
	return &LogSubmitter{logger: logger.Named("submission")}
}

func (s *LogSubmitter) Submit(ctx context.Context, payload application.SubmissionPayload) error {
	body, err := sonic.Marshal(payload)
	if err != nil {
		return crerr.Wrap(err, "marshal submission payload")
	}
	s.logger.InfoContext(ctx, "submission disabled, payload logged",
		"plan", payload.Plan,
		"formation", payload.Formation,
		"players", len(payload.Players),
		"payload", truncateForLog(string(body), 4096),
	)
	return nil
}
