package dispatcher

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/auralink/guardian-alert/internal/collector"
	"github.com/auralink/guardian-alert/internal/composer"
	domain "github.com/auralink/guardian-alert/internal/domain/emergency"
	"github.com/auralink/guardian-alert/internal/gateway"
	"github.com/auralink/guardian-alert/internal/logger"
	"github.com/auralink/guardian-alert/internal/repository/profile"
)

// ContactResolver resolves the registered guardian contact for a user.
type ContactResolver interface {
	GuardianChatID(ctx context.Context, uid string) (string, error)
}

// ContextCollector gathers the best-effort signals for one dispatch.
type ContextCollector interface {
	Collect(ctx context.Context) collector.Signals
}

// Deliverer transmits a rendered alert to the guardian contact.
type Deliverer interface {
	Send(ctx context.Context, chatID, text, dispatchID string) error
}

// Request describes one alert dispatch on behalf of a user.
type Request struct {
	// UID is the unique identifier of the user asking for help.
	UID string
	// DisplayName is the optional reporter name shown to the guardian.
	DisplayName string
	// FallbackNote is used when Note is absent after trimming.
	FallbackNote string
	// Note is the optional free-text note typed by the user.
	Note string
}

// noNamePlaceholder is the localized reporter name for users without one.
const noNamePlaceholder = "بدون اسم"

const (
	// defaultDeliveryAttempts is the bounded number of delivery tries.
	defaultDeliveryAttempts = 2
	// defaultRetryPause separates consecutive delivery attempts.
	defaultRetryPause = 2 * time.Second
)

// Service orchestrates one alert dispatch end to end: resolve the guardian
// contact, gather context under deadline, compose the payload and push it
// through the gateway, classifying every failure distinctly. It holds no
// per-dispatch state, so concurrent invocations are fully independent.
type Service struct {
	// contacts resolves guardian contacts from the profile store.
	contacts ContactResolver
	// signals gathers best-effort context, may be nil.
	signals ContextCollector
	// deliverer pushes composed alerts to the gateway.
	deliverer Deliverer

	// attempts is the delivery attempt budget per dispatch.
	attempts int
	// retryPause separates consecutive delivery attempts.
	retryPause time.Duration
	// now supplies the dispatch wall-clock time.
	now func() time.Time
	// newDispatchID mints the per-dispatch correlation/idempotency id.
	newDispatchID func() string
}

// Option configures dispatcher behaviour.
type Option func(*Service)

// WithRetryPolicy overrides the delivery attempt budget and pause.
func WithRetryPolicy(attempts int, pause time.Duration) Option {
	return func(s *Service) {
		if attempts > 0 {
			s.attempts = attempts
		}

		if pause >= 0 {
			s.retryPause = pause
		}
	}
}

// WithClock overrides the wall-clock source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithDispatchIDs overrides the dispatch id generator.
func WithDispatchIDs(generate func() string) Option {
	return func(s *Service) {
		if generate != nil {
			s.newDispatchID = generate
		}
	}
}

// NewService wires the collaborators into a dispatch orchestrator.
func NewService(contacts ContactResolver, signals ContextCollector, deliverer Deliverer, opts ...Option) *Service {
	s := &Service{
		contacts:      contacts,
		signals:       signals,
		deliverer:     deliverer,
		attempts:      defaultDeliveryAttempts,
		retryPause:    defaultRetryPause,
		now:           time.Now,
		newDispatchID: uuid.NewString,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Dispatch performs one end-to-end alert dispatch and returns its terminal
// result. No error escapes this boundary; every path maps to a Result.
// Context collection never fails the dispatch, only delivery and contact
// resolution can.
func (s *Service) Dispatch(ctx context.Context, req Request) domain.Result {
	dispatchID := s.newDispatchID()
	ctx = logger.WithKV(ctx, "dispatch_id", dispatchID)

	// Resolve the guardian contact first: nothing may be composed or sent
	// without a non-empty contact identifier.
	chatID, err := s.contacts.GuardianChatID(ctx, req.UID)
	if err != nil {
		if errors.Is(err, profile.ErrNoGuardian) {
			logger.InfoKV(ctx, "No guardian registered", "uid", req.UID)

			return s.finish(ctx, domain.Failed(domain.ReasonNoGuardianRegistered))
		}

		logger.ErrorKV(ctx, "Contact resolution failed", "uid", req.UID, "error", err)

		return s.finish(ctx, domain.Failed(domain.ReasonResolutionFailed))
	}

	// Gather best-effort context. Collectors settle within their own
	// deadlines and absorb their own failures.
	var signals collector.Signals
	if s.signals != nil {
		signals = s.signals.Collect(ctx)
	}

	observeSignals(signals)

	payload := composer.Compose(composer.Input{
		DisplayName:    displayName(req.DisplayName),
		Note:           req.Note,
		FallbackNote:   req.FallbackNote,
		Location:       signals.Location,
		Battery:        signals.Battery,
		IncludeBattery: true,
		Now:            s.now(),
	})

	logger.InfoKV(ctx, "Dispatching alert",
		"uid", req.UID,
		"has_location", payload.Location != nil,
		"has_battery", payload.Battery != nil,
	)

	if err = s.deliver(ctx, chatID, payload, dispatchID); err != nil {
		if errors.Is(err, gateway.ErrAborted) {
			logger.WarnKV(ctx, "Delivery aborted mid-flight", "error", err)

			return s.finish(ctx, domain.Failed(domain.ReasonDeliveryAborted))
		}

		logger.ErrorKV(ctx, "Delivery failed", "error", err)

		return s.finish(ctx, domain.Failed(domain.ReasonDeliveryFailed))
	}

	return s.finish(ctx, domain.Succeeded())
}

// deliver pushes the payload through the gateway under the bounded retry
// policy: only generic transport failures are retried, never an aborted
// call and never after the dispatch context is done. The dispatch id rides
// along as idempotency token so retries cannot duplicate the alert.
func (s *Service) deliver(ctx context.Context, chatID string, payload *domain.Payload, dispatchID string) error {
	var lastErr error

	for attempt := 1; attempt <= s.attempts; attempt++ {
		lastErr = s.deliverer.Send(ctx, chatID, payload.Text, dispatchID)
		if lastErr == nil {
			return nil
		}

		if errors.Is(lastErr, gateway.ErrAborted) {
			return lastErr
		}

		if attempt == s.attempts {
			break
		}

		logger.WarnKV(ctx, "Delivery attempt failed, retrying",
			"attempt", attempt,
			"error", lastErr,
		)

		select {
		case <-ctx.Done():
			return lastErr
		case <-time.After(s.retryPause):
		}
	}

	return lastErr
}

// finish records the outcome metric and returns the result unchanged.
func (s *Service) finish(ctx context.Context, result domain.Result) domain.Result {
	observeOutcome(result)

	if result.OK() {
		logger.Info(ctx, "Alert dispatched")
	}

	return result
}

// displayName applies the localized placeholder for blank names.
func displayName(name string) string {
	if strings.TrimSpace(name) == "" {
		return noNamePlaceholder
	}

	return name
}
