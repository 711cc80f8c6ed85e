package collector

import (
	"context"
	"sync"
	"time"

	domain "github.com/auralink/guardian-alert/internal/domain/emergency"
	"github.com/auralink/guardian-alert/internal/logger"
)

// LocationProvider acquires a high-accuracy device position fix.
type LocationProvider interface {
	CurrentLocation(ctx context.Context) (*domain.Location, error)
}

// BatteryProvider reads the device power state.
type BatteryProvider interface {
	BatteryState(ctx context.Context) (*domain.Battery, error)
}

// Signals holds the settled best-effort context of one dispatch.
// A nil field means the signal was unavailable within its deadline.
type Signals struct {
	// Location is the collected position fix, nil when unavailable.
	Location *domain.Location
	// Battery is the collected power snapshot, nil when unavailable.
	Battery *domain.Battery
}

const (
	// DefaultLocationDeadline bounds the wait for a location fix.
	DefaultLocationDeadline = 8 * time.Second

	// DefaultBatteryDeadline bounds the battery probe. Reading power state
	// is local and fast; the bound only guards against a hung provider.
	DefaultBatteryDeadline = 2 * time.Second
)

// Collector gathers best-effort signals from independent providers.
// Provider errors and timeouts never escape Collect: they are logged and
// converted to absent values, so the delivery path cannot be blocked or
// failed by a missing signal.
type Collector struct {
	// location provides position fixes, may be nil when unavailable.
	location LocationProvider
	// battery provides power snapshots, may be nil when unavailable.
	battery BatteryProvider

	// locationDeadline is the wait budget for a location fix.
	locationDeadline time.Duration
	// batteryDeadline is the wait budget for a battery probe.
	batteryDeadline time.Duration
}

// Option configures collector behaviour.
type Option func(*Collector)

// WithLocationDeadline overrides the location wait budget.
func WithLocationDeadline(d time.Duration) Option {
	return func(c *Collector) {
		if d > 0 {
			c.locationDeadline = d
		}
	}
}

// WithBatteryDeadline overrides the battery wait budget.
func WithBatteryDeadline(d time.Duration) Option {
	return func(c *Collector) {
		if d > 0 {
			c.batteryDeadline = d
		}
	}
}

// New creates a collector over the provided providers.
// Either provider may be nil; the matching signal is then always absent.
func New(location LocationProvider, battery BatteryProvider, opts ...Option) *Collector {
	c := &Collector{
		location:         location,
		battery:          battery,
		locationDeadline: DefaultLocationDeadline,
		batteryDeadline:  DefaultBatteryDeadline,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Collect runs both providers concurrently and returns once both have
// settled (value, error, or deadline expiry). Each goroutine writes only
// its own result slot, so no locking is needed.
func (c *Collector) Collect(ctx context.Context) Signals {
	var (
		signals Signals
		wg      sync.WaitGroup
	)

	if c.location != nil {
		wg.Add(1)

		go func() {
			defer wg.Done()

			signals.Location = c.collectLocation(ctx)
		}()
	}

	if c.battery != nil {
		wg.Add(1)

		go func() {
			defer wg.Done()

			signals.Battery = c.collectBattery(ctx)
		}()
	}

	wg.Wait()

	return signals
}

// collectLocation acquires a fix under the location deadline.
// Failures are logged and reported as absent, never as an error.
func (c *Collector) collectLocation(ctx context.Context) *domain.Location {
	fixCtx, cancel := context.WithTimeout(ctx, c.locationDeadline)
	defer cancel()

	location, err := c.location.CurrentLocation(fixCtx)
	if err != nil {
		logger.WarnKV(ctx, "Location unavailable", "error", err)

		return nil
	}

	return location
}

// collectBattery reads the power state under the battery deadline.
// Capability absence is the expected failure mode and yields absent.
func (c *Collector) collectBattery(ctx context.Context) *domain.Battery {
	probeCtx, cancel := context.WithTimeout(ctx, c.batteryDeadline)
	defer cancel()

	battery, err := c.battery.BatteryState(probeCtx)
	if err != nil {
		logger.WarnKV(ctx, "Battery state unavailable", "error", err)

		return nil
	}

	return battery
}
