package domain

import (
	"context"
	"errors"
)

// ErrNoResult is returned by a Geocoder when the query matched nothing.
var ErrNoResult = errors.New("geocode: no result")

// GeocodeResult is the single best match for a place-name query.
type GeocodeResult struct {
	Lat         float64
	Lon         float64
	DisplayName string
}

// Geocoder resolves a free-text place name to coordinates.
type Geocoder interface {
	// Search returns the best match for the query, or ErrNoResult.
	Search(ctx context.Context, query string) (GeocodeResult, error)
}
