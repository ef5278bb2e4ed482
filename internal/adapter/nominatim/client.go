// Package nominatim implements domain.Geocoder against the OpenStreetMap
// Nominatim search API.
package nominatim

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/lci-slovakia/sighting-map-service/internal/domain"
)

// countryQualifier is appended to every query so free-text place names
// resolve inside the country of interest.
const countryQualifier = "Slovakia"

// userAgent identifies the service per the Nominatim usage policy.
const userAgent = "sighting-map-service/1.0 (kontakt@lci-slovakia.sk)"

// Client implements domain.Geocoder using Nominatim.
type Client struct {
	httpClient *http.Client
	baseURL    string
	logger     *slog.Logger
}

// NewClient creates a Nominatim client with the given request timeout.
// baseURL defaults to the public Nominatim instance when empty.
func NewClient(baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	if baseURL == "" {
		baseURL = "https://nominatim.openstreetmap.org"
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
		logger:     logger,
	}
}

// Search resolves a free-text place name to coordinates. Only the first
// result is consumed (limit=1). Returns domain.ErrNoResult on no match.
func (c *Client) Search(ctx context.Context, query string) (domain.GeocodeResult, error) {
	params := url.Values{
		"format": {"json"},
		"q":      {fmt.Sprintf("%s, %s", query, countryQualifier)},
		"limit":  {"1"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/search?"+params.Encode(), nil)
	if err != nil {
		return domain.GeocodeResult{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.GeocodeResult{}, fmt.Errorf("geocode request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return domain.GeocodeResult{}, fmt.Errorf("nominatim API error: status %d: %s", resp.StatusCode, body)
	}

	var results []result
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return domain.GeocodeResult{}, fmt.Errorf("decode response: %w", err)
	}

	if len(results) == 0 {
		return domain.GeocodeResult{}, domain.ErrNoResult
	}

	r := results[0]
	lat, errLat := strconv.ParseFloat(r.Lat, 64)
	lon, errLon := strconv.ParseFloat(r.Lon, 64)
	if errLat != nil || errLon != nil {
		return domain.GeocodeResult{}, fmt.Errorf("nominatim result has malformed coordinates: lat=%q lon=%q", r.Lat, r.Lon)
	}

	return domain.GeocodeResult{
		Lat:         lat,
		Lon:         lon,
		DisplayName: r.DisplayName,
	}, nil
}

// Nominatim returns coordinates as JSON strings.
type result struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}
