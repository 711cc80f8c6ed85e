package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/auralink/guardian-alert/internal/config"
)

// Client delivers alert texts through the messaging gateway's exec endpoint.
// Delivery is a single GET request; the gateway's own delivery guarantees
// toward the guardian chat are outside this client's responsibility.
type Client struct {
	// execURL is the gateway endpoint that relays messages.
	execURL string
	// httpClient performs the outbound request.
	httpClient *http.Client

	// callTimeout is the time budget for one delivery call.
	callTimeout time.Duration
}

// Option configures client behaviour.
type Option func(*Client)

// WithCallTimeout sets the time budget for delivery calls.
func WithCallTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.callTimeout = timeout
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.httpClient = httpClient
		}
	}
}

var (
	// ErrAborted marks a delivery cancelled mid-flight, typically because
	// the call's time budget expired. Callers surface it as "connection
	// interrupted" rather than a generic send failure.
	ErrAborted = errors.New("delivery aborted")
	// errURLRequired is returned when the gateway URL is missing.
	errURLRequired = errors.New("gateway URL must be provided")
)

// maxResponseBytes bounds how much of the gateway response is read.
const maxResponseBytes = 4096

// New creates a delivery client for the provided exec URL.
func New(execURL string, opts ...Option) (*Client, error) {
	if execURL == "" {
		return nil, errURLRequired
	}

	if _, err := url.ParseRequestURI(execURL); err != nil {
		return nil, fmt.Errorf("invalid gateway URL: %w", err)
	}

	client := &Client{
		execURL:     execURL,
		httpClient:  http.DefaultClient,
		callTimeout: config.DefaultDeliveryTimeout,
	}

	for _, opt := range opts {
		opt(client)
	}

	return client, nil
}

// execResponse is the gateway acknowledgement body.
type execResponse struct {
	// OK reports whether the gateway accepted the message.
	OK bool `json:"ok"`
}

// Send issues exactly one delivery attempt for text addressed to chatID.
// The dispatchID travels along as an idempotency token so the gateway can
// drop duplicates from retried dispatches. A cancellation mid-flight is
// reported as ErrAborted; every other failure is a plain delivery error.
func (c *Client) Send(ctx context.Context, chatID, text, dispatchID string) error {
	if chatID == "" {
		return errors.New("chat id must be provided")
	}

	callCtx, cancel := c.callContext(ctx)
	defer cancel()

	query := url.Values{}
	query.Set("chat_id", chatID)
	query.Set("text", text)

	if dispatchID != "" {
		query.Set("dispatch_id", dispatchID)
	}

	request, err := http.NewRequestWithContext(callCtx, http.MethodGet, c.execURL+"?"+query.Encode(), nil)
	if err != nil {
		return fmt.Errorf("build gateway request: %w", err)
	}

	response, err := c.httpClient.Do(request)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return fmt.Errorf("gateway call cancelled: %w", ErrAborted)
		}

		return fmt.Errorf("gateway call: %w", err)
	}

	defer func() {
		_ = response.Body.Close()
	}()

	body, err := io.ReadAll(io.LimitReader(response.Body, maxResponseBytes))
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return fmt.Errorf("gateway response cancelled: %w", ErrAborted)
		}

		return fmt.Errorf("read gateway response: %w", err)
	}

	if response.StatusCode < http.StatusOK || response.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("gateway returned %d: %s", response.StatusCode, string(body))
	}

	var ack execResponse
	if err = json.Unmarshal(body, &ack); err != nil {
		return fmt.Errorf("decode gateway response: %w", err)
	}

	if !ack.OK {
		return fmt.Errorf("gateway rejected message: %s", string(body))
	}

	return nil
}

// callContext returns a context with the client's call timeout if configured,
// otherwise a cancellable child context without a deadline.
func (c *Client) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.callTimeout <= 0 {
		return context.WithCancel(ctx)
	}

	return context.WithTimeout(ctx, c.callTimeout)
}
