package slack

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/campaigndeck/campaigndeck-backend/internal/logger"
	"github.com/campaigndeck/campaigndeck-backend/internal/notify"
	"github.com/campaigndeck/campaigndeck-backend/internal/utils"
)

// Client posts campaign notifications to a Slack incoming webhook. Send
// reports whether a message actually went out; an unconfigured client is a
// no-op that reports not sent.
type Client interface {
	Send(ctx context.Context, n notify.Notification) (bool, error)
	Enabled() bool
}

type Config struct {
	WebhookURL string
	Timeout    time.Duration
	MaxRetries int
}

// ConfigFromEnv builds a Config around the resolved webhook URL. Only the
// retry tunables come from env; the URL itself is config-file material and
// must be passed in so a yaml-configured webhook is honored.
func ConfigFromEnv(log *logger.Logger, webhookURL string) Config {
	timeoutSec := utils.GetEnvAsInt("SLACK_TIMEOUT_SECONDS", 10, log)
	maxRetries := utils.GetEnvAsInt("SLACK_MAX_RETRIES", 2, log)
	return Config{
		WebhookURL: strings.TrimSpace(webhookURL),
		Timeout:    time.Duration(timeoutSec) * time.Second,
		MaxRetries: maxRetries,
	}
}

func New(log *logger.Logger, cfg Config) (Client, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	return &client{
		log:        log.With("client", "SlackClient"),
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}, nil
}

type client struct {
	log        *logger.Logger
	cfg        Config
	httpClient *http.Client
}

type webhookPayload struct {
	Text string `json:"text"`
}

func (c *client) Enabled() bool {
	return c != nil && strings.TrimSpace(c.cfg.WebhookURL) != ""
}

func (c *client) Send(ctx context.Context, n notify.Notification) (bool, error) {
	if !c.Enabled() {
		return false, nil
	}

	payload := webhookPayload{
		Text: fmt.Sprintf("📊 *Campaign Deck*\n*%s*\nStatus: %s\nBy: %s\nID: `%s`",
			n.ProjectName, n.Status, n.Actor, n.LedgerID),
	}

	backoff := time.Second
	var lastErr error
	for attempt := 0; attempt <= c.cfg.MaxRetries; attempt++ {
		if ctx.Err() != nil {
			return false, ctx.Err()
		}

		err := c.post(ctx, payload)
		if err == nil {
			return true, nil
		}
		lastErr = err

		if !retryable(err) || attempt == c.cfg.MaxRetries {
			break
		}

		c.log.Warn("Slack webhook retrying",
			"attempt", attempt+1,
			"max_retries", c.cfg.MaxRetries,
			"error", err.Error(),
		)
		time.Sleep(jitter(backoff))
		backoff *= 2
	}
	return false, lastErr
}

func (c *client) post(ctx context.Context, payload webhookPayload) error {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(payload); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.WebhookURL, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	raw, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body := strings.TrimSpace(string(raw))
		if len(body) > 512 {
			body = body[:512] + "..."
		}
		return &httpError{status: resp.StatusCode, body: body}
	}
	return nil
}

type httpError struct {
	status int
	body   string
}

func (e *httpError) Error() string {
	if e.body == "" {
		return fmt.Sprintf("slack webhook http %d", e.status)
	}
	return fmt.Sprintf("slack webhook http %d: %s", e.status, e.body)
}

func retryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	var he *httpError
	if errors.As(err, &he) {
		return he.status == http.StatusRequestTimeout ||
			he.status == http.StatusTooManyRequests ||
			(he.status >= 500 && he.status <= 599)
	}
	return false
}

func jitter(base time.Duration) time.Duration {
	if base <= 0 {
		return 0
	}
	delta := 0.2 * base.Seconds()
	v := base.Seconds() - delta + rand.Float64()*2*delta
	return time.Duration(v * float64(time.Second))
}
