package domain

import "strconv"

// FilterState is the control panel's selection state: the single source of
// truth the filter engine and renderer react to. Mutations are whole-value
// replacements owned by the session; this type itself is plain data.
type FilterState struct {
	SelectedYear       string `json:"selected_year"`
	ShowPresenceSigns  bool   `json:"show_presence_signs"`
	ShowObservations   bool   `json:"show_observations"`
	ShowConflicts      bool   `json:"show_conflicts"`
	ShowCitizenReports bool   `json:"show_citizen_reports"`
	ShowActivities     bool   `json:"show_activities"`
	SearchText         string `json:"search_text"`
}

// DefaultFilterState mirrors the map page defaults: all sighting categories
// and the activity layer on, citizen reports off, most recent year selected.
func DefaultFilterState(years []string) FilterState {
	state := FilterState{
		ShowPresenceSigns: true,
		ShowObservations:  true,
		ShowConflicts:     true,
		ShowActivities:    true,
	}
	if len(years) > 0 {
		state.SelectedYear = years[0]
	} else {
		state.SelectedYear = clock.Now().Format("2006")
	}
	return state
}

// CategoryEnabled reports whether the toggle for the given category is on.
func (f FilterState) CategoryEnabled(c Category) bool {
	switch c {
	case CategoryObservation:
		return f.ShowObservations
	case CategoryPresenceSigns:
		return f.ShowPresenceSigns
	case CategoryConflict:
		return f.ShowConflicts
	default:
		return false
	}
}

// FilterVisible computes the visible subsets for the current filter state.
// Pure with respect to its inputs apart from the injected clock: identical
// inputs produce identical, order-preserving outputs.
//
// A sighting passes the year filter when its parsed date's year equals the
// selected year. If the date fails to parse the record is excluded unless the
// selected year is the current calendar year. A sighting that passes the year
// filter still needs its category toggle enabled.
//
// Activities are filtered by their explicit year field only; the master
// activity toggle is applied at render time, not here.
func FilterVisible(sightings []Sighting, activities []Activity, state FilterState) ([]Sighting, []Activity) {
	currentYear := clock.Now().Format("2006")

	visibleSightings := make([]Sighting, 0, len(sightings))
	for _, s := range sightings {
		year, ok := s.Year()
		if !ok {
			if state.SelectedYear != currentYear {
				continue
			}
		} else if year != state.SelectedYear {
			continue
		}
		if !state.CategoryEnabled(s.Category) {
			continue
		}
		visibleSightings = append(visibleSightings, s)
	}

	visibleActivities := make([]Activity, 0, len(activities))
	for _, a := range activities {
		if strconv.Itoa(a.Year) != state.SelectedYear {
			continue
		}
		visibleActivities = append(visibleActivities, a)
	}

	return visibleSightings, visibleActivities
}
