package composer

import (
	"fmt"
	"html"
	"math"
	"strings"
	"time"

	domain "github.com/auralink/guardian-alert/internal/domain/emergency"
)

// Localized fragments of the alert markup. The guardian receives the
// message in the product's Arabic UI language.
const (
	headerLine       = "🚨 <b>طوارئ – Auralink</b>"
	reporterLabel    = "👤 <b>المُبلغ:</b>"
	timeLabel        = "🕒 <b>الوقت:</b>"
	batteryLabel     = "🔋 <b>البطارية:</b>"
	locationLabel    = "📍 <b>الموقع:</b>"
	noteLabel        = "📝 <b>ملاحظة:</b>"
	footerLine       = "الرجاء الاستجابة فورًا."
	unavailableValue = "غير متاح"
	chargingSuffix   = " (قيد الشحن)"
	anonymousValue   = "مستخدم"

	// timeLayout renders the dispatch time in 24-hour local time.
	timeLayout = "2006-01-02 15:04:05"
)

// Input carries everything the composer needs. It is a plain value; the
// composer performs no I/O and touches no clock besides the Now field.
type Input struct {
	// DisplayName is the reporter's name, already defaulted by the caller.
	DisplayName string
	// Note is the explicit free-text note, may be blank.
	Note string
	// FallbackNote is used when Note is absent after trimming.
	FallbackNote string
	// Location is the collected fix, nil when unavailable.
	Location *domain.Location
	// Battery is the collected power snapshot, nil when unavailable.
	Battery *domain.Battery
	// IncludeBattery controls whether a battery line appears at all.
	IncludeBattery bool
	// Now is the dispatch wall-clock time.
	Now time.Time
}

// Compose builds the immutable alert payload from its inputs.
// Note precedence: a non-blank explicit note wins over the fallback note;
// a whitespace-only note counts as absent; with neither, the note line is
// omitted entirely.
func Compose(in Input) *domain.Payload {
	var b strings.Builder

	b.WriteString(headerLine)
	b.WriteString("\n")
	b.WriteString(reporterLabel + " " + reporterValue(in.DisplayName))
	b.WriteString("\n")
	b.WriteString(timeLabel + " " + in.Now.Format(timeLayout))

	if in.IncludeBattery {
		b.WriteString("\n")
		b.WriteString(batteryLabel + " " + batteryValue(in.Battery))
	}

	b.WriteString("\n")
	b.WriteString(locationLabel + " " + locationValue(in.Location))

	if note := resolveNote(in.Note, in.FallbackNote); note != "" {
		b.WriteString("\n")
		b.WriteString(noteLabel + " " + html.EscapeString(note))
	}

	b.WriteString("\n\n")
	b.WriteString(footerLine)

	return &domain.Payload{
		Text:     b.String(),
		Location: in.Location.Clone(),
		Battery:  in.Battery.Clone(),
	}
}

// resolveNote applies the note precedence rules.
func resolveNote(note, fallback string) string {
	if trimmed := strings.TrimSpace(note); trimmed != "" {
		return trimmed
	}

	return strings.TrimSpace(fallback)
}

// reporterValue renders the reporter, quoting and escaping a known name.
func reporterValue(name string) string {
	if name == "" {
		return anonymousValue
	}

	return fmt.Sprintf("\"<b>%s</b>\"", html.EscapeString(name))
}

// batteryValue renders the charge percentage with an optional charging mark.
func batteryValue(battery *domain.Battery) string {
	if battery == nil {
		return unavailableValue
	}

	value := fmt.Sprintf("%d%%", int(math.Round(battery.Level*100)))
	if battery.Charging {
		value += chargingSuffix
	}

	return value
}

// locationValue renders the fix as a maps link with 6-decimal coordinates.
func locationValue(location *domain.Location) string {
	if location == nil {
		return unavailableValue
	}

	coordinates := fmt.Sprintf("%.6f,%.6f", location.Latitude, location.Longitude)

	return fmt.Sprintf("<a href=\"https://maps.google.com/?q=%s\">%s</a>", coordinates, coordinates)
}
