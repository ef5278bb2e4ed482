package domain

import "time"

// Category classifies a sighting by the kind of evidence behind it.
type Category string

const (
	// CategoryObservation is a direct visual contact with a bear.
	CategoryObservation Category = "observation"
	// CategoryPresenceSigns is indirect evidence: tracks, droppings, scratches.
	CategoryPresenceSigns Category = "presence_signs"
	// CategoryConflict is an attack or other negative human-bear interaction.
	CategoryConflict Category = "conflict"
)

// Sighting is one parsed row of the delimited sighting feed.
type Sighting struct {
	Longitude float64   `json:"longitude"`
	Latitude  float64   `json:"latitude"`
	Date      string    `json:"date"`     // original feed value, format not guaranteed
	Category  Category  `json:"category"` // derived, see ParseSightingFeed
	FetchedAt time.Time `json:"fetched_at"`
}

// Year returns the four-digit year of the sighting date and whether the date
// parsed at all.
func (s Sighting) Year() (string, bool) {
	t, err := parseSightingDate(s.Date)
	if err != nil {
		return "", false
	}
	return t.Format("2006"), true
}

// Activity is one record of the secondary JSON activity feed. Coordinates
// arrive already dot-normalized and the year is an explicit field, so year
// filtering never depends on date parsing.
type Activity struct {
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	Date        string  `json:"date"` // display string
	Description string  `json:"description"`
	URL         string  `json:"url,omitempty"`
	IsConflict  bool    `json:"utok"` // feed uses the Slovak field name
	Year        int     `json:"year"`
}

// CitizenReportPoint is a static, unannotated public report location. No
// date, no category; rendered identically regardless of filters.
type CitizenReportPoint struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// dateLayouts are tried in order when parsing feed dates. The feed mostly
// ships ISO dates but older rows use dotted or slashed Slovak formats.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02T15:04:05Z07:00",
	"2.1.2006",
	"02.01.2006",
	"2/1/2006",
	"1/2/2006",
}

func parseSightingDate(s string) (time.Time, error) {
	var lastErr error
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}
