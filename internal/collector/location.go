package collector

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"

	domain "github.com/auralink/guardian-alert/internal/domain/emergency"
)

// ErrNoLocationCommand indicates no location helper is configured.
var ErrNoLocationCommand = errors.New("no location command configured")

// CommandLocation acquires position fixes by running a platform helper
// (for example termux-location on Android or a CoreLocation CLI on macOS)
// and parsing its JSON output. The helper is expected to honor its own
// high-accuracy settings; this provider only bounds the wait.
type CommandLocation struct {
	// command is the helper invocation, name first, then arguments.
	command []string
}

// NewCommandLocation creates a provider around the given helper invocation.
func NewCommandLocation(command []string) *CommandLocation {
	return &CommandLocation{command: command}
}

// locationOutput covers the field spellings of common location helpers.
type locationOutput struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	Lat       *float64 `json:"lat"`
	Lng       *float64 `json:"lng"`
}

// CurrentLocation runs the helper and parses a fix from its output.
// The fix is all-or-nothing: both coordinates must be present.
func (p *CommandLocation) CurrentLocation(ctx context.Context) (*domain.Location, error) {
	if p == nil || len(p.command) == 0 {
		return nil, ErrNoLocationCommand
	}

	var stdout bytes.Buffer

	cmd := exec.CommandContext(ctx, p.command[0], p.command[1:]...)
	cmd.Stdout = &stdout

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("run location helper: %w", err)
	}

	var output locationOutput
	if err := json.Unmarshal(stdout.Bytes(), &output); err != nil {
		return nil, fmt.Errorf("decode location output: %w", err)
	}

	lat, lng := output.Latitude, output.Longitude
	if lat == nil || lng == nil {
		lat, lng = output.Lat, output.Lng
	}

	if lat == nil || lng == nil {
		return nil, errors.New("location output has no coordinates")
	}

	return &domain.Location{
		Latitude:  *lat,
		Longitude: *lng,
	}, nil
}
