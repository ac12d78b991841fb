package mappers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ecnelisfly/domain/core/entities"
	"ecnelisfly/domain/core/valueobjects"
	"ecnelisfly/infrastructure/persistence/schema"
)

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }
func boolPtr(b bool) *bool    { return &b }

func TestSoundFromRecord_Defaults(t *testing.T) {
	s := SoundFromRecord(schema.Sound{ID: "s1", UserID: "u1", Title: "Rain"})

	assert.Equal(t, valueobjects.SoundStatusPrivate, s.Status)
	assert.NotNil(t, s.Hashtags)
	assert.Empty(t, s.Hashtags)
	assert.Nil(t, s.TitleI18n)
	assert.Nil(t, s.CreatedAt)
	assert.Nil(t, s.DateTime)
}

func TestSoundFromRecord_MalformedColumns(t *testing.T) {
	r := schema.Sound{
		ID:             "s1",
		Status:         "weird",
		TitleI18n:      "{broken",
		ShortStoryI18n: `{"en":"Story"}`,
		CreatedAt:      "not a date",
		UpdatedAt:      "2025-06-01T08:00:00Z",
	}

	var s *entities.Sound
	require.NotPanics(t, func() { s = SoundFromRecord(r) })

	assert.Equal(t, valueobjects.SoundStatusPrivate, s.Status)
	assert.Nil(t, s.TitleI18n)
	assert.Equal(t, "Story", s.ShortStoryI18n["en"])
	assert.Nil(t, s.CreatedAt)
	require.NotNil(t, s.UpdatedAt)
}

func TestSoundRoundTrip(t *testing.T) {
	in := &entities.Sound{
		ID:        "s1",
		UserID:    "u1",
		Title:     "Harbour bells",
		TitleI18n: valueobjects.LocalizedText{"en": "Harbour bells", "fr": "Cloches du port"},
		Status:    valueobjects.SoundStatusPublic,
		Latitude:  47.2,
		Longitude: -1.55,
		Hashtags:  []string{"sea", "bells"},
		Likes:     4,
	}

	out := SoundFromRecord(SoundToRecord(in))

	assert.Equal(t, in.Title, out.Title)
	assert.Equal(t, in.TitleI18n, out.TitleI18n)
	assert.Equal(t, in.Status, out.Status)
	assert.Equal(t, in.Hashtags, out.Hashtags)
	assert.Equal(t, in.Likes, out.Likes)
}

func TestSoundPatch_OnlyPresentKeys(t *testing.T) {
	tests := []struct {
		name string
		in   entities.SoundUpdate
		keys []string
	}{
		{"empty", entities.SoundUpdate{}, []string{}},
		{"title only", entities.SoundUpdate{Title: strPtr("New")}, []string{"title"}},
		{
			"title and city",
			entities.SoundUpdate{Title: strPtr("New"), City: strPtr("Nantes")},
			[]string{"title", "city"},
		},
		{
			"translations",
			entities.SoundUpdate{TitleI18n: &valueobjects.LocalizedText{"en": "x"}},
			[]string{"titleI18n"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := SoundPatch(tt.in)
			assert.ElementsMatch(t, tt.keys, p.Keys())
		})
	}
}

func TestSoundPatch_EmptyValuesStillPresent(t *testing.T) {
	empty := ""
	p := SoundPatch(entities.SoundUpdate{City: &empty, TitleI18n: &valueobjects.LocalizedText{}})

	assert.Equal(t, "", p["city"])
	v, ok := p["titleI18n"]
	assert.True(t, ok)
	assert.Nil(t, v)
}

func TestZoneFromRecord(t *testing.T) {
	square := valueobjects.NewPolygon(
		valueobjects.Position{0, 0}, valueobjects.Position{0, 2},
		valueobjects.Position{2, 2}, valueobjects.Position{2, 0},
	)
	r := schema.Zone{
		ID:       "z1",
		Name:     "Square",
		Slug:     "square",
		Polygon:  valueobjects.EncodePolygon(square),
		Center:   `{"lat":1,"lng":1}`,
		NameI18n: "nope",
	}

	z := ZoneFromRecord(r)

	assert.Equal(t, DefaultZoneZoom, z.DefaultZoom)
	require.NotNil(t, z.Polygon)
	assert.Equal(t, square, *z.Polygon)
	assert.Equal(t, &valueobjects.LatLng{Lat: 1, Lng: 1}, z.Center)
	assert.Nil(t, z.NameI18n)

	z = ZoneFromRecord(schema.Zone{ID: "z2", Polygon: "[[", Center: "?"})
	assert.Nil(t, z.Polygon)
	assert.Nil(t, z.Center)
}

func TestZonePatch_PolygonRecomputesCenter(t *testing.T) {
	open := valueobjects.Polygon{Coordinates: [][]valueobjects.Position{{{0, 0}, {0, 2}, {2, 2}, {2, 0}}}}

	p := ZonePatch(entities.ZoneUpdate{Polygon: &open, SortOrder: intPtr(3)})

	assert.ElementsMatch(t, []string{"polygon", "center", "sortOrder"}, p.Keys())
	center := valueobjects.DecodeLatLng(p["center"].(string))
	require.NotNil(t, center)
	assert.InDelta(t, 1.0, center.Lat, 1e-9)
	assert.InDelta(t, 1.0, center.Lng, 1e-9)
	poly := valueobjects.DecodePolygon(p["polygon"].(string))
	require.NotNil(t, poly)
	assert.Len(t, poly.OuterRing(), 5)
}

func TestZonePatch_NoPolygonNoCenter(t *testing.T) {
	p := ZonePatch(entities.ZoneUpdate{Name: strPtr("Renamed"), IsVisibleOnMap: boolPtr(false)})

	assert.ElementsMatch(t, []string{"name", "isVisibleOnMap"}, p.Keys())
	assert.Equal(t, false, p["isVisibleOnMap"])
}

func TestSnapshots(t *testing.T) {
	sound := &entities.Sound{ID: "s1", Title: "Waves", City: "Brest", Latitude: 48.39, Longitude: -4.49, Filename: "waves.mp3"}
	cand := &entities.FeaturedSoundCandidate{ID: "c1", SoundID: "s1", Teaser: "Listen", TeaserI18n: valueobjects.LocalizedText{"en": "Listen"}}

	daily := DailyFeaturedFromRecord(DailyFeaturedSnapshot("2025-06-01", cand, sound))
	assert.True(t, daily.Active)
	assert.Equal(t, "2025-06-01", daily.Date)
	assert.Equal(t, "c1", daily.CandidateID)
	assert.Equal(t, "Waves", daily.SoundTitle)
	assert.Equal(t, "waves.mp3", daily.SoundFilename)
	assert.Equal(t, "Listen", daily.TeaserI18n["en"])

	zone := &entities.Zone{ID: "z1", Name: "Port", Slug: "port", Center: &valueobjects.LatLng{Lat: 1, Lng: 2}}
	mz := MonthlyZoneFromRecord(MonthlyZoneSnapshot("2025-06", zone))
	assert.True(t, mz.Active)
	assert.Equal(t, "port", mz.ZoneSlug)
	assert.Equal(t, zone.Center, mz.ZoneCenter)

	journey := &entities.SoundJourney{ID: "j1", Name: "Coast", Color: "#0088ff"}
	mj := MonthlyJourneyFromRecord(MonthlyJourneySnapshot("2025-06", journey))
	assert.True(t, mj.Active)
	assert.Equal(t, "#0088ff", mj.JourneyColor)
}

func TestStepMapping(t *testing.T) {
	step := StepFromRecord(schema.SoundJourneyStep{ID: "st1", JourneyID: "j1", SoundID: "s1", StepOrder: 2, ThemeTextI18n: `{"fr":"Ecoute"}`})

	assert.Equal(t, 2, step.StepOrder)
	assert.Equal(t, "Ecoute", step.ThemeTextI18n["fr"])
	assert.Empty(t, StepPatch(entities.StepUpdate{}))
}
