package dataprocessing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeTime(t *testing.T) {
	tests := []struct {
		name        string
		raw         string
		wantDisplay string
		wantKey     TimeKey
	}{
		{"clock time", "14:30:00", "02:30 PM", TimeKey{Kind: TimeKnown, Minutes: 870}},
		{"twelve hour", "9:00 AM", "09:00 AM", TimeKey{Kind: TimeKnown, Minutes: 540}},
		{"lower case meridiem", "2:30 pm", "02:30 PM", TimeKey{Kind: TimeKnown, Minutes: 870}},
		{"twenty-four hour", "18:45", "06:45 PM", TimeKey{Kind: TimeKnown, Minutes: 1125}},
		{"hour only", "7 PM", "07:00 PM", TimeKey{Kind: TimeKnown, Minutes: 1140}},
		{"no space", "7:15PM", "07:15 PM", TimeKey{Kind: TimeKnown, Minutes: 1155}},
		{"midnight", "00:00:00", "12:00 AM", TimeKey{Kind: TimeKnown, Minutes: 0}},
		{"empty", "", "TBA", TimeKey{Kind: TimeUnknown}},
		{"tba", " tba ", "TBA", TimeKey{Kind: TimeUnknown}},
		{"nan", "nan", "TBA", TimeKey{Kind: TimeUnknown}},
		{"free text", "Noon", "Noon", TimeKey{Kind: TimeUnparsed}},
		{"free text trimmed", " after lunch ", "after lunch", TimeKey{Kind: TimeUnparsed}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			display, key := NormalizeTime(tt.raw)
			assert.Equal(t, tt.wantDisplay, display)
			assert.Equal(t, tt.wantKey, key)
		})
	}
}

func TestTimeKey_Compare(t *testing.T) {
	unparsed := TimeKey{Kind: TimeUnparsed}
	morning := TimeKey{Kind: TimeKnown, Minutes: 540}
	evening := TimeKey{Kind: TimeKnown, Minutes: 1140}
	tba := TimeKey{Kind: TimeUnknown}

	assert.Equal(t, -1, unparsed.Compare(morning))
	assert.Equal(t, -1, morning.Compare(evening))
	assert.Equal(t, -1, evening.Compare(tba))
	assert.Equal(t, 1, tba.Compare(unparsed))
	assert.Equal(t, 0, tba.Compare(TimeKey{Kind: TimeUnknown}))
	assert.Equal(t, 0, unparsed.Compare(TimeKey{Kind: TimeUnparsed}))
}
