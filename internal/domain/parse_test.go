package domain

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const feedHeader = "OBJECTID,Ohrozenie,Datum,Poznamka,DruhOhrozenia,OhrozenieDetail,Hodina,Y,X"

func feedWith(rows ...string) string {
	out := feedHeader
	for _, r := range rows {
		out += "\n" + r
	}
	return out
}

func TestParseSightingFeed(t *testing.T) {
	t.Run("comma-decimal coordinates are normalized", func(t *testing.T) {
		raw := feedWith(`1,vizuálny kontakt s medveďom,2024-05-01,,,,,"49,123","20,456"`)
		sightings := ParseSightingFeed(raw)

		require.Len(t, sightings, 1)
		assert.Equal(t, 49.123, sightings[0].Latitude)
		assert.Equal(t, 20.456, sightings[0].Longitude)
	})

	t.Run("quoted fields keep embedded commas intact", func(t *testing.T) {
		raw := feedWith(`2,"pobytové znaky, stopy v snehu",2023-11-12,,,,,"48,9","19,5"`)
		sightings := ParseSightingFeed(raw)

		require.Len(t, sightings, 1)
		assert.Equal(t, CategoryPresenceSigns, sightings[0].Category)
		assert.Equal(t, "2023-11-12", sightings[0].Date)
	})

	t.Run("zero coordinates are dropped", func(t *testing.T) {
		raw := feedWith(
			`3,útok na človeka,2024-01-01,,,,,0,0`,
			`4,vizuálny kontakt,2024-01-02,,,,,"49,1","20,1"`,
		)
		sightings := ParseSightingFeed(raw)

		require.Len(t, sightings, 1)
		assert.Equal(t, 49.1, sightings[0].Latitude)
	})

	t.Run("non-numeric coordinates are dropped", func(t *testing.T) {
		raw := feedWith(`5,vizuálny kontakt,2024-01-01,,,,,abc,def`)
		assert.Empty(t, ParseSightingFeed(raw))
	})

	t.Run("short rows are dropped, not fatal", func(t *testing.T) {
		raw := feedWith(
			`6,vizuálny kontakt`,
			`7,vizuálny kontakt,2024-03-03,,,,,"49,2","20,2"`,
		)
		assert.Len(t, ParseSightingFeed(raw), 1)
	})

	t.Run("empty feed yields empty slice", func(t *testing.T) {
		assert.Empty(t, ParseSightingFeed(""))
		assert.Empty(t, ParseSightingFeed(feedHeader))
	})

	t.Run("scenario: observation row passes end to end", func(t *testing.T) {
		raw := feedWith(`1,vizuálny kontakt,2024-05-01,,,,,"49,100","20,200"`)
		sightings := ParseSightingFeed(raw)

		require.Len(t, sightings, 1)
		s := sightings[0]
		assert.Equal(t, 49.100, s.Latitude)
		assert.Equal(t, 20.200, s.Longitude)
		assert.Equal(t, CategoryObservation, s.Category)

		year, ok := s.Year()
		require.True(t, ok)
		assert.Equal(t, "2024", year)
	})
}

func TestClassifyHazard(t *testing.T) {
	tests := []struct {
		name   string
		hazard string
		want   Category
	}{
		{"visual contact", "vizuálny kontakt s medveďom", CategoryObservation},
		{"presence signs", "nájdené pobytové znaky", CategoryPresenceSigns},
		{"attack", "útok na hospodárske zvieratá", CategoryConflict},
		{"no match defaults to observation", "iné hlásenie", CategoryObservation},
		{"empty defaults to observation", "", CategoryObservation},
		// Priority match: visual contact wins even when an attack phrase is
		// also present.
		{"visual contact beats attack", "vizuálny kontakt, následný útok", CategoryObservation},
		{"presence signs beat attack", "pobytové znaky po útoku", CategoryPresenceSigns},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyHazard(tt.hazard))
		})
	}
}

func TestParseActivityFeed(t *testing.T) {
	t.Run("valid feed", func(t *testing.T) {
		raw := []byte(`[{"latitude":49.1,"longitude":19.2,"date":"12. máj 2024","description":"Medveď pri obci","url":"https://example.sk/a/1","utok":false,"year":2024}]`)
		activities, err := ParseActivityFeed(raw)

		require.NoError(t, err)
		require.Len(t, activities, 1)
		assert.Equal(t, 49.1, activities[0].Latitude)
		assert.False(t, activities[0].IsConflict)
		assert.Equal(t, 2024, activities[0].Year)
	})

	t.Run("malformed feed", func(t *testing.T) {
		_, err := ParseActivityFeed([]byte("{not json"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "parse activity feed")
	})
}

func TestDistinctYears(t *testing.T) {
	SetClock(clockwork.NewFakeClockAt(time.Date(2025, time.June, 1, 12, 0, 0, 0, time.UTC)))
	defer SetClock(nil)

	sightings := []Sighting{
		{Date: "2023-04-05"},
		{Date: "2024-02-02"},
		{Date: "not-a-date"}, // contributes current year
	}
	activities := []Activity{
		{Year: 2022},
		{Year: 2024},
		{Year: 202}, // junk export value, excluded
	}

	years := DistinctYears(sightings, activities)
	assert.Equal(t, []string{"2025", "2024", "2023", "2022"}, years)
}
