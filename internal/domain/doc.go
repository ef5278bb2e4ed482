// Package domain models brown bear sighting data for the Slovak
// wildlife-conservation map.
//
// # Data Sources
//
// The primary sighting feed is a comma-delimited export of hazard reports
// published by the state forestry service. Columns by position:
//
//	0: object id
//	1: hazard description (free text, Slovak)
//	2: date
//	3: note
//	4: hazard type
//	5: hazard detail
//	6: hour of occurrence
//	7: Y, latitude, comma as decimal separator ("49,123")
//	8: X, longitude, comma as decimal separator ("20,456")
//
// Fields may contain embedded commas inside double quotes; the splitter in
// [ParseSightingFeed] honors quoting without carrying the quotes into values.
// Coordinates are normalized to dot-decimal before parsing. Rows whose
// coordinates come out NaN, zero, or otherwise non-finite are dropped
// silently; a partially garbled feed still produces a usable record set.
//
// The secondary activity feed is a JSON array of externally curated bear
// activity reports (see [Activity]); its coordinates arrive already
// normalized.
//
// # Category Classification
//
// The hazard-description field is free text, so categories are derived by
// substring match with first-match-wins priority:
//
//	"vizuálny kontakt"  ->  Observation (direct visual contact)
//	"pobytové znaky"    ->  PresenceSigns (tracks, droppings, scratches)
//	"útok"              ->  Conflict (attack or negative interaction)
//	no match            ->  Observation
//
// The priority order matters: a description mentioning both a visual contact
// and an attack classifies as Observation, matching the upstream convention.
//
// # Year Filtering
//
// Dates in the feed are not guaranteed ISO and are parsed defensively. A
// record whose date fails to parse is excluded from year filtering unless the
// selected year equals the current calendar year; the current year comes from
// an injectable clock (see [SetClock]) so the fallback is testable.
package domain
