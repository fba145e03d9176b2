package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/hashicorp/go-cleanhttp"
	"github.com/hashicorp/go-retryablehttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/stanionascu/lemmy/internal/domain"
)

const activityContentType = "application/activity+json"

// RequestSigner signs an outbound delivery on behalf of the sending
// actor. The signature scheme itself lives outside this engine.
type RequestSigner interface {
	Sign(req *http.Request, actorID string) error
}

type leveledSlog struct {
	inner *slog.Logger
}

// retries are expected, so the client's ERROR chatter is demoted
func (l leveledSlog) Error(msg string, keysAndValues ...any) {
	l.inner.Warn(msg, keysAndValues...)
}

func (l leveledSlog) Warn(msg string, keysAndValues ...any) {
	l.inner.Warn(msg, keysAndValues...)
}

func (l leveledSlog) Info(msg string, keysAndValues ...any) {
	l.inner.Info(msg, keysAndValues...)
}

func (l leveledSlog) Debug(msg string, keysAndValues ...any) {
	l.inner.Debug(msg, keysAndValues...)
}

// Deliverer posts activities to remote inboxes. Transient failures are
// retried with bounded exponential backoff inside the HTTP client;
// once retries are exhausted the delivery is abandoned, not queued.
type Deliverer struct {
	client    *http.Client
	signer    RequestSigner
	userAgent string
}

type DelivererOption func(*Deliverer)

// WithSigner attaches the external request signer.
func WithSigner(signer RequestSigner) DelivererOption {
	return func(d *Deliverer) {
		d.signer = signer
	}
}

// WithDeliveryClient replaces the underlying HTTP client, mainly for
// tests.
func WithDeliveryClient(hc *http.Client) DelivererOption {
	return func(d *Deliverer) {
		d.client = hc
	}
}

func NewDeliverer(userAgent string, options ...DelivererOption) *Deliverer {
	logger := leveledSlog{inner: slog.Default().With("module", "delivery")}
	retryClient := retryablehttp.NewClient()
	retryClient.HTTPClient.Transport = otelhttp.NewTransport(cleanhttp.DefaultPooledTransport())
	retryClient.RetryMax = 3
	retryClient.RetryWaitMin = 1 * time.Second
	retryClient.RetryWaitMax = 10 * time.Second
	retryClient.Logger = retryablehttp.LeveledLogger(logger)

	client := retryClient.StandardClient()
	client.Timeout = 30 * time.Second

	d := &Deliverer{
		client:    client,
		userAgent: userAgent,
	}
	for _, option := range options {
		option(d)
	}
	return d
}

func (d *Deliverer) Deliver(ctx context.Context, inbox string, activity domain.Activity) error {
	payload, err := json.Marshal(activity)
	if err != nil {
		return fmt.Errorf("failed to encode activity: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, inbox, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", activityContentType)
	req.Header.Set("Accept", activityContentType)
	req.Header.Set("User-Agent", d.userAgent)
	req.Header.Set("Date", time.Now().UTC().Format(http.TimeFormat))

	if d.signer != nil {
		if err := d.signer.Sign(req, activity.Actor); err != nil {
			return fmt.Errorf("failed to sign request: %w", err)
		}
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("delivery to %s failed: %w", inbox, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("delivery to %s rejected with status %d", inbox, resp.StatusCode)
	}

	return nil
}
