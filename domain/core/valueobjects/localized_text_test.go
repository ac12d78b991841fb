package valueobjects

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalizedText_RoundTrip(t *testing.T) {
	inputs := []LocalizedText{
		{"fr": "Forêt de Brocéliande"},
		{"fr": "Marché", "en": "Market", "es": "Mercado"},
		{"en": `quotes " and \ backslash`},
	}

	for _, in := range inputs {
		assert.Equal(t, in, DecodeLocalizedText(EncodeLocalizedText(in)))
	}
}

func TestLocalizedText_Malformed(t *testing.T) {
	for _, raw := range []string{"", "   ", "{", "[1,2,3]", `{"fr": 3}`, "null", "{}"} {
		assert.NotPanics(t, func() {
			assert.Nil(t, DecodeLocalizedText(raw), raw)
		})
	}
}

func TestLocalizedText_EncodeEmpty(t *testing.T) {
	assert.Equal(t, "", EncodeLocalizedText(nil))
	assert.Equal(t, "", EncodeLocalizedText(LocalizedText{}))
}

func TestLocalizedText_Resolve(t *testing.T) {
	text := LocalizedText{"en": "River", "es": " "}

	assert.Equal(t, "River", text.Resolve("EN", "Rivière"))
	assert.Equal(t, "Rivière", text.Resolve("es", "Rivière"))
	assert.Equal(t, "Rivière", LocalizedText(nil).Resolve("en", "Rivière"))
}

func TestLocalizedText_Clone(t *testing.T) {
	orig := LocalizedText{"fr": "a"}
	clone := orig.Clone()
	clone["fr"] = "b"

	assert.Equal(t, "a", orig["fr"])
	assert.Nil(t, LocalizedText(nil).Clone())
}

func TestPeriodKeys(t *testing.T) {
	ts := time.Date(2025, time.March, 1, 0, 30, 0, 0, time.FixedZone("CET", 3600))

	assert.Equal(t, "2025-02-28", DayKey(ts))
	assert.Equal(t, "2025-02", MonthKey(ts))
	assert.Equal(t, "2025-01", PreviousMonthKey(ts))
	assert.Equal(t, "2025-02-27", PreviousDayKey(ts))

	_, err := ParseDayKey("2025-13-01")
	assert.Error(t, err)
	parsed, err := ParseMonthKey("2025-02")
	require.NoError(t, err)
	assert.Equal(t, time.February, parsed.Month())

	jan1970 := time.Date(1970, time.January, 15, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 0, MonthOrdinal(jan1970))
	assert.Equal(t, 14, DayOrdinal(jan1970))
}

func TestSoundStatus(t *testing.T) {
	s, err := ParseSoundStatus("")
	require.NoError(t, err)
	assert.Equal(t, SoundStatusPrivate, s)

	_, err = ParseSoundStatus("deleted")
	assert.Error(t, err)

	assert.True(t, SoundStatusPrivate.CanTransition(SoundStatusPendingModeration))
	assert.True(t, SoundStatusPendingModeration.CanTransition(SoundStatusPublic))
	assert.True(t, SoundStatusPendingModeration.CanTransition(SoundStatusPrivate))
	assert.True(t, SoundStatusPublic.CanTransition(SoundStatusPrivate))
	assert.True(t, SoundStatusPublic.CanTransition(SoundStatusPublic))
	assert.False(t, SoundStatusPrivate.CanTransition(SoundStatusPublic))
	assert.False(t, SoundStatusPublic.CanTransition(SoundStatusPendingModeration))
	assert.False(t, SoundStatus("").IsValid())
}
