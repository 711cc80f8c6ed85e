package collector

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	domain "github.com/auralink/guardian-alert/internal/domain/emergency"
)

var errTestProvider = errors.New("test provider error")

// stubLocation is a LocationProvider returning a fixed result after an optional delay.
type stubLocation struct {
	// location is the fix to return.
	location *domain.Location
	// err is the error to return instead of a fix.
	err error
	// delay blocks the provider until the context expires when true.
	blockUntilCancel bool
}

// CurrentLocation returns the configured fix, error, or blocks until cancellation.
func (s *stubLocation) CurrentLocation(ctx context.Context) (*domain.Location, error) {
	if s.blockUntilCancel {
		<-ctx.Done()

		return nil, ctx.Err()
	}

	return s.location, s.err
}

// stubBattery is a BatteryProvider returning a fixed result.
type stubBattery struct {
	// battery is the snapshot to return.
	battery *domain.Battery
	// err is the error to return instead of a snapshot.
	err error
}

// BatteryState returns the configured snapshot or error.
func (s *stubBattery) BatteryState(context.Context) (*domain.Battery, error) {
	return s.battery, s.err
}

// TestCollect_BothAvailable gathers both signals concurrently.
func TestCollect_BothAvailable(t *testing.T) {
	t.Parallel()

	location := &domain.Location{Latitude: 24.7136, Longitude: 46.6753}
	battery := &domain.Battery{Level: 0.87, Charging: true}

	c := New(&stubLocation{location: location}, &stubBattery{battery: battery})

	signals := c.Collect(context.Background())
	require.Equal(t, location, signals.Location)
	require.Equal(t, battery, signals.Battery)
}

// TestCollect_LocationTimeout settles with an absent location once the deadline expires.
func TestCollect_LocationTimeout(t *testing.T) {
	t.Parallel()

	c := New(
		&stubLocation{blockUntilCancel: true},
		&stubBattery{battery: &domain.Battery{Level: 0.5}},
		WithLocationDeadline(50*time.Millisecond),
	)

	start := time.Now()
	signals := c.Collect(context.Background())

	require.Nil(t, signals.Location)
	require.NotNil(t, signals.Battery)
	require.Less(t, time.Since(start), time.Second)
}

// TestCollect_ErrorsAbsorbed converts provider errors into absent signals.
func TestCollect_ErrorsAbsorbed(t *testing.T) {
	t.Parallel()

	c := New(&stubLocation{err: errTestProvider}, &stubBattery{err: ErrNoBattery})

	signals := c.Collect(context.Background())
	require.Nil(t, signals.Location)
	require.Nil(t, signals.Battery)
}

// TestCollect_NilProviders treats missing providers as permanently absent signals.
func TestCollect_NilProviders(t *testing.T) {
	t.Parallel()

	c := New(nil, nil)

	signals := c.Collect(context.Background())
	require.Nil(t, signals.Location)
	require.Nil(t, signals.Battery)
}
