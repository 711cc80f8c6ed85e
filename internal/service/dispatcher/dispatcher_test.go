package dispatcher

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/auralink/guardian-alert/internal/collector"
	domain "github.com/auralink/guardian-alert/internal/domain/emergency"
	"github.com/auralink/guardian-alert/internal/gateway"
	"github.com/auralink/guardian-alert/internal/repository/profile"
)

var errTestStore = errors.New("test store error")

// memoryContacts is a minimal ContactResolver implementation for tests.
type memoryContacts struct {
	// chatIDs maps user ids to registered guardian contacts.
	chatIDs map[string]string
	// err is returned from every lookup when set.
	err error
}

// GuardianChatID resolves from the in-memory map.
func (m *memoryContacts) GuardianChatID(_ context.Context, uid string) (string, error) {
	if m.err != nil {
		return "", m.err
	}

	chatID, ok := m.chatIDs[uid]
	if !ok || chatID == "" {
		return "", profile.ErrNoGuardian
	}

	return chatID, nil
}

// staticSignals is a ContextCollector returning fixed signals.
type staticSignals struct {
	// signals is the settled context to return.
	signals collector.Signals
}

// Collect returns the configured signals.
func (s *staticSignals) Collect(context.Context) collector.Signals {
	return s.signals
}

// recordingDeliverer captures delivery attempts and replays scripted errors.
type recordingDeliverer struct {
	// errs is consumed one per attempt; nil entries mean success.
	errs []error
	// chatIDs, texts and dispatchIDs record the received arguments.
	chatIDs     []string
	texts       []string
	dispatchIDs []string
}

// Send records the attempt and returns the next scripted error.
func (d *recordingDeliverer) Send(_ context.Context, chatID, text, dispatchID string) error {
	d.chatIDs = append(d.chatIDs, chatID)
	d.texts = append(d.texts, text)
	d.dispatchIDs = append(d.dispatchIDs, dispatchID)

	if len(d.errs) == 0 {
		return nil
	}

	err := d.errs[0]
	d.errs = d.errs[1:]

	return err
}

// newTestService builds a dispatcher with deterministic clock and ids.
func newTestService(contacts ContactResolver, signals ContextCollector, deliverer Deliverer, opts ...Option) *Service {
	base := []Option{
		WithClock(func() time.Time {
			return time.Date(2025, 3, 14, 15, 9, 26, 0, time.UTC)
		}),
		WithDispatchIDs(func() string {
			return "dispatch-1"
		}),
		WithRetryPolicy(2, 0),
	}

	return NewService(contacts, signals, deliverer, append(base, opts...)...)
}

// TestDispatch_NoGuardian terminates before delivery when no contact is registered.
func TestDispatch_NoGuardian(t *testing.T) {
	t.Parallel()

	deliverer := new(recordingDeliverer)
	s := newTestService(&memoryContacts{}, nil, deliverer)

	result := s.Dispatch(context.Background(), Request{UID: "u2"})

	require.False(t, result.OK())
	require.Equal(t, domain.ReasonNoGuardianRegistered, result.Reason)
	require.Empty(t, deliverer.chatIDs)
}

// TestDispatch_ResolutionFailed classifies store errors separately from absent contacts.
func TestDispatch_ResolutionFailed(t *testing.T) {
	t.Parallel()

	deliverer := new(recordingDeliverer)
	s := newTestService(&memoryContacts{err: errTestStore}, nil, deliverer)

	result := s.Dispatch(context.Background(), Request{UID: "u1"})

	require.Equal(t, domain.ReasonResolutionFailed, result.Reason)
	require.Empty(t, deliverer.chatIDs)
}

// TestDispatch_FullContext delivers a payload carrying the collected signals.
func TestDispatch_FullContext(t *testing.T) {
	t.Parallel()

	deliverer := new(recordingDeliverer)
	s := newTestService(
		&memoryContacts{chatIDs: map[string]string{"u1": "c1"}},
		&staticSignals{signals: collector.Signals{
			Location: &domain.Location{Latitude: 24.7136, Longitude: 46.6753},
			Battery:  &domain.Battery{Level: 0.87, Charging: false},
		}},
		deliverer,
	)

	result := s.Dispatch(context.Background(), Request{UID: "u1", DisplayName: "Sara"})

	require.True(t, result.OK())
	require.Equal(t, []string{"c1"}, deliverer.chatIDs)
	require.Equal(t, []string{"dispatch-1"}, deliverer.dispatchIDs)
	require.Contains(t, deliverer.texts[0], "24.713600,46.675300")
	require.Contains(t, deliverer.texts[0], "87%")
	require.Contains(t, deliverer.texts[0], "<b>Sara</b>")
}

// TestDispatch_AbsentContext still delivers when collectors settled empty.
func TestDispatch_AbsentContext(t *testing.T) {
	t.Parallel()

	deliverer := new(recordingDeliverer)
	s := newTestService(
		&memoryContacts{chatIDs: map[string]string{"u3": "c3"}},
		&staticSignals{},
		deliverer,
	)

	result := s.Dispatch(context.Background(), Request{UID: "u3"})

	require.True(t, result.OK())
	require.Len(t, deliverer.texts, 1)
	require.Contains(t, deliverer.texts[0], "📍 <b>الموقع:</b> غير متاح")
	require.NotContains(t, deliverer.texts[0], "maps.google.com")
}

// TestDispatch_NamePlaceholder substitutes the localized placeholder for blank names.
func TestDispatch_NamePlaceholder(t *testing.T) {
	t.Parallel()

	deliverer := new(recordingDeliverer)
	s := newTestService(
		&memoryContacts{chatIDs: map[string]string{"u1": "c1"}},
		nil,
		deliverer,
	)

	result := s.Dispatch(context.Background(), Request{UID: "u1", DisplayName: "  "})

	require.True(t, result.OK())
	require.Contains(t, deliverer.texts[0], "بدون اسم")
}

// TestDispatch_DeliveryAborted surfaces mid-flight cancellation without retrying.
func TestDispatch_DeliveryAborted(t *testing.T) {
	t.Parallel()

	deliverer := &recordingDeliverer{errs: []error{gateway.ErrAborted}}
	s := newTestService(
		&memoryContacts{chatIDs: map[string]string{"u1": "c1"}},
		nil,
		deliverer,
	)

	result := s.Dispatch(context.Background(), Request{UID: "u1"})

	require.Equal(t, domain.ReasonDeliveryAborted, result.Reason)
	require.Len(t, deliverer.chatIDs, 1)
}

// TestDispatch_DeliveryFailed retries generic failures up to the attempt budget.
func TestDispatch_DeliveryFailed(t *testing.T) {
	t.Parallel()

	deliverer := &recordingDeliverer{errs: []error{errTestStore, errTestStore}}
	s := newTestService(
		&memoryContacts{chatIDs: map[string]string{"u1": "c1"}},
		nil,
		deliverer,
	)

	result := s.Dispatch(context.Background(), Request{UID: "u1"})

	require.Equal(t, domain.ReasonDeliveryFailed, result.Reason)
	require.Len(t, deliverer.chatIDs, 2)
}

// TestDispatch_RetrySucceeds recovers from a transient failure, reusing the
// same idempotency token on the second attempt.
func TestDispatch_RetrySucceeds(t *testing.T) {
	t.Parallel()

	deliverer := &recordingDeliverer{errs: []error{errTestStore, nil}}
	s := newTestService(
		&memoryContacts{chatIDs: map[string]string{"u1": "c1"}},
		nil,
		deliverer,
	)

	result := s.Dispatch(context.Background(), Request{UID: "u1"})

	require.True(t, result.OK())
	require.Len(t, deliverer.dispatchIDs, 2)
	require.Equal(t, deliverer.dispatchIDs[0], deliverer.dispatchIDs[1])
	require.Equal(t, deliverer.texts[0], deliverer.texts[1])
}

// TestDispatch_LocationTimeout proceeds to delivery once the location
// deadline expires, using the real collector with a hanging provider.
func TestDispatch_LocationTimeout(t *testing.T) {
	t.Parallel()

	deliverer := new(recordingDeliverer)
	s := newTestService(
		&memoryContacts{chatIDs: map[string]string{"u3": "c3"}},
		collector.New(hangingLocation{}, nil, collector.WithLocationDeadline(50*time.Millisecond)),
		deliverer,
	)

	start := time.Now()
	result := s.Dispatch(context.Background(), Request{UID: "u3"})

	require.True(t, result.OK())
	require.Less(t, time.Since(start), time.Second)
	require.Contains(t, deliverer.texts[0], "غير متاح")
}

// hangingLocation blocks until its context deadline expires.
type hangingLocation struct{}

// CurrentLocation waits for cancellation and reports the context error.
func (hangingLocation) CurrentLocation(ctx context.Context) (*domain.Location, error) {
	<-ctx.Done()

	return nil, ctx.Err()
}
