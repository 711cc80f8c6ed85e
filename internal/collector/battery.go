package collector

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	domain "github.com/auralink/guardian-alert/internal/domain/emergency"
)

// ErrNoBattery indicates the host exposes no battery capability.
var ErrNoBattery = errors.New("no battery present")

// defaultPowerSupplyRoot is the Linux kernel power-supply class directory.
const defaultPowerSupplyRoot = "/sys/class/power_supply"

// SysfsBattery reads the device power state from the kernel's power-supply
// class files. Only Linux exposes this interface; on other systems the
// probe reports capability absence, which the collector treats as a
// missing signal rather than a failure.
type SysfsBattery struct {
	// root is the power-supply class directory, overridable for tests.
	root string
}

// NewSysfsBattery creates a battery provider over the standard sysfs root.
func NewSysfsBattery() *SysfsBattery {
	return &SysfsBattery{root: defaultPowerSupplyRoot}
}

// BatteryState returns the charge fraction and charging flag of the first
// battery supply found, or ErrNoBattery when none exists.
func (p *SysfsBattery) BatteryState(ctx context.Context) (*domain.Battery, error) {
	if !strings.Contains(strings.ToLower(runtime.GOOS), "linux") && p.root == defaultPowerSupplyRoot {
		return nil, fmt.Errorf("%s: %w", runtime.GOOS, ErrNoBattery)
	}

	entries, err := os.ReadDir(p.root)
	if err != nil {
		return nil, fmt.Errorf("read power supplies: %w", err)
	}

	for _, entry := range entries {
		if err = ctx.Err(); err != nil {
			return nil, err
		}

		supply := filepath.Join(p.root, entry.Name())

		kind, err := readSysfsValue(filepath.Join(supply, "type"))
		if err != nil || kind != "Battery" {
			continue
		}

		capacity, err := readSysfsValue(filepath.Join(supply, "capacity"))
		if err != nil {
			continue
		}

		percent, err := strconv.Atoi(capacity)
		if err != nil {
			continue
		}

		status, _ := readSysfsValue(filepath.Join(supply, "status"))

		return &domain.Battery{
			Level:    float64(percent) / 100,
			Charging: status == "Charging",
		}, nil
	}

	return nil, ErrNoBattery
}

// readSysfsValue returns the trimmed contents of a single sysfs file.
func readSysfsValue(path string) (string, error) {
	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(string(contents)), nil
}
