package emergency

// Identity describes the user on whose behalf an alert is dispatched.
// It is supplied by the caller and never stored by this module.
type Identity struct {
	// UID is the opaque unique identifier of the user.
	UID string
	// DisplayName is the optional human-readable name shown to the guardian.
	DisplayName string
}

// Location is a device position fix in floating-point degrees.
// A fix is all-or-nothing: a *Location is either nil or fully populated.
type Location struct {
	// Latitude in degrees, positive north.
	Latitude float64
	// Longitude in degrees, positive east.
	Longitude float64
}

// Clone returns a copy of the location to avoid leaking internal references.
func (l *Location) Clone() *Location {
	if l == nil {
		return nil
	}

	cloned := *l

	return &cloned
}

// Battery is a device power snapshot. Like Location, it is all-or-nothing.
type Battery struct {
	// Level is the charge fraction in [0, 1].
	Level float64
	// Charging reports whether the device is currently plugged in.
	Charging bool
}

// Clone returns a copy of the battery snapshot.
func (b *Battery) Clone() *Battery {
	if b == nil {
		return nil
	}

	cloned := *b

	return &cloned
}

// Payload is the composed alert, immutable once built and consumed exactly
// once by the delivery client. Location and Battery keep the collected
// signals alongside the rendered text so callers can verify what was sent.
type Payload struct {
	// Text is the rendered message markup delivered to the gateway.
	Text string
	// Location is the collected position fix, nil when unavailable.
	Location *Location
	// Battery is the collected power snapshot, nil when unavailable.
	Battery *Battery
}
