package domain

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// Slovak classification phrases used by the hazard-description column.
// Matched in priority order; first match wins.
const (
	phraseVisualContact = "vizuálny kontakt"
	phrasePresenceSigns = "pobytové znaky"
	phraseAttack        = "útok"
)

// feed column positions, see package doc.
const (
	colHazard = 1
	colDate   = 2
	colLat    = 7
	colLon    = 8
)

// ParseSightingFeed converts the raw delimited feed text into typed sightings.
// Rows with unparseable or zero coordinates are dropped silently. An empty or
// header-only feed yields an empty slice, never an error: feed trouble is
// non-fatal by design of the map page.
func ParseSightingFeed(raw string) []Sighting {
	lines := strings.Split(strings.TrimSpace(raw), "\n")
	if len(lines) < 2 {
		return nil
	}

	fetchedAt := clock.Now()
	sightings := make([]Sighting, 0, len(lines)-1)
	for _, line := range lines[1:] {
		fields := splitQuoted(line)

		hazard := fieldAt(fields, colHazard)
		date := fieldAt(fields, colDate)
		lat := parseCommaDecimal(fieldAt(fields, colLat))
		lon := parseCommaDecimal(fieldAt(fields, colLon))

		if !validCoordinate(lat) || !validCoordinate(lon) {
			continue
		}

		sightings = append(sightings, Sighting{
			Longitude: lon,
			Latitude:  lat,
			Date:      date,
			Category:  ClassifyHazard(hazard),
			FetchedAt: fetchedAt,
		})
	}
	return sightings
}

// ClassifyHazard derives the sighting category from the free-text hazard
// description. Priority match, not independent flags: visual contact beats
// presence signs beats attack; anything else defaults to Observation.
func ClassifyHazard(hazard string) Category {
	switch {
	case strings.Contains(hazard, phraseVisualContact):
		return CategoryObservation
	case strings.Contains(hazard, phrasePresenceSigns):
		return CategoryPresenceSigns
	case strings.Contains(hazard, phraseAttack):
		return CategoryConflict
	default:
		return CategoryObservation
	}
}

// ParseActivityFeed decodes the JSON activity feed.
func ParseActivityFeed(raw []byte) ([]Activity, error) {
	var activities []Activity
	if err := json.Unmarshal(raw, &activities); err != nil {
		return nil, fmt.Errorf("parse activity feed: %w", err)
	}
	return activities, nil
}

// DistinctYears returns the union of years present in the sightings and
// activities, sorted descending (most recent first). Sightings with
// unparseable dates contribute the current calendar year, mirroring the
// filter fallback. The junk "202" value shipped by some feed exports is
// excluded.
func DistinctYears(sightings []Sighting, activities []Activity) []string {
	seen := make(map[string]struct{})
	currentYear := clock.Now().Format("2006")

	for _, s := range sightings {
		year, ok := s.Year()
		if !ok {
			year = currentYear
		}
		seen[year] = struct{}{}
	}
	for _, a := range activities {
		seen[strconv.Itoa(a.Year)] = struct{}{}
	}
	delete(seen, "202")

	years := make([]string, 0, len(seen))
	for y := range seen {
		years = append(years, y)
	}
	sort.Slice(years, func(i, j int) bool {
		a, _ := strconv.Atoi(years[i])
		b, _ := strconv.Atoi(years[j])
		return a > b
	})
	return years
}

// splitQuoted splits a feed row on commas, honoring double-quoted fields so
// an embedded comma does not split. Quotes are not part of the output values.
// encoding/csv is deliberately not used here: the feed ships ragged rows and
// stray quotes that csv.Reader rejects wholesale, and a bad row must only
// drop itself.
func splitQuoted(line string) []string {
	var fields []string
	var current strings.Builder
	inQuotes := false

	for _, r := range line {
		switch {
		case r == '"':
			inQuotes = !inQuotes
		case r == ',' && !inQuotes:
			fields = append(fields, strings.TrimSpace(current.String()))
			current.Reset()
		default:
			current.WriteRune(r)
		}
	}
	fields = append(fields, strings.TrimSpace(current.String()))
	return fields
}

func fieldAt(fields []string, i int) string {
	if i >= len(fields) {
		return ""
	}
	return fields[i]
}

// parseCommaDecimal parses a coordinate that uses a comma as the decimal
// separator ("49,123" becomes 49.123). Returns NaN on failure so the caller can
// drop the row.
func parseCommaDecimal(s string) float64 {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

func validCoordinate(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v != 0
}
