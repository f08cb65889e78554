package dataprocessing

import (
	"regexp"
	"strings"
	"time"

	"macuschedule/pkg/contracts/domain"
)

// DisplayTimeLayout is the canonical 12-hour rendering of a time cell
const DisplayTimeLayout = "03:04 PM"

// clockTimeRe matches the HH:MM:SS text a spreadsheet time cell turns into
var clockTimeRe = regexp.MustCompile(`^\d{2}:\d{2}:\d{2}$`)

// timeLayouts are tried in order after the HH:MM:SS check
var timeLayouts = []string{
	"3:04 PM",
	"15:04",
	"3 PM",
	"3:04PM",
}

// NormalizeTime converts a raw time cell into its display text and order
// key. Missing and TBA values display as "TBA" and sort after every known
// time. Text that matches no known format is returned as-is and sorts
// before every known time.
func NormalizeTime(raw string) (string, TimeKey) {
	display := formatTime(raw)
	return display, timeKeyOf(display)
}

func formatTime(raw string) string {
	if isBlankSentinel(raw) {
		return domain.PlaceholderTBA
	}
	s := strings.TrimSpace(raw)

	if clockTimeRe.MatchString(s) {
		if t, err := time.Parse("15:04:05", s); err == nil {
			return t.Format(DisplayTimeLayout)
		}
	}

	// Go only matches upper-case AM/PM against the PM layout element
	upper := strings.ToUpper(s)
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, upper); err == nil {
			return t.Format(DisplayTimeLayout)
		}
	}
	return s
}

func timeKeyOf(display string) TimeKey {
	if display == domain.PlaceholderTBA {
		return TimeKey{Kind: TimeUnknown}
	}
	t, err := time.Parse(DisplayTimeLayout, display)
	if err != nil {
		return TimeKey{Kind: TimeUnparsed}
	}
	return TimeKey{Kind: TimeKnown, Minutes: t.Hour()*60 + t.Minute()}
}
