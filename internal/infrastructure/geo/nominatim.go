// Package geo resolves free-text locations to coordinates with a static
// city table fast path and a rate-limited Nominatim fallback.
package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const (
	defaultNominatimURL = "https://nominatim.openstreetmap.org"

	lookupTimeout = 10 * time.Second
)

// LookupResult carries one geocoding answer.
type LookupResult struct {
	Lat   float64
	Lng   float64
	Found bool
}

// Geocoder performs an external location lookup.
type Geocoder interface {
	Geocode(ctx context.Context, location string) (LookupResult, error)
}

// Nominatim is an OpenStreetMap geocoding client. Calls are throttled by a
// token bucket so the stage can later fan out without redesigning the limit.
type Nominatim struct {
	baseURL   string
	userAgent string
	country   string
	client    *http.Client
	limiter   *rate.Limiter
}

var _ Geocoder = (*Nominatim)(nil)

// NewNominatim builds a client constrained to the given country. minInterval
// is the minimum spacing between lookups (Nominatim asks for 1s).
func NewNominatim(baseURL, userAgent, country string, minInterval time.Duration, client *http.Client) *Nominatim {
	if baseURL == "" {
		baseURL = defaultNominatimURL
	}
	if client == nil {
		client = &http.Client{Timeout: lookupTimeout}
	}
	if minInterval <= 0 {
		minInterval = time.Second
	}
	return &Nominatim{
		baseURL:   baseURL,
		userAgent: userAgent,
		country:   country,
		client:    client,
		limiter:   rate.NewLimiter(rate.Every(minInterval), 1),
	}
}

// Geocode performs a single search constrained to the configured country.
func (n *Nominatim) Geocode(ctx context.Context, location string) (LookupResult, error) {
	if err := n.limiter.Wait(ctx); err != nil {
		return LookupResult{}, err
	}

	lookupCtx, cancel := context.WithTimeout(ctx, lookupTimeout)
	defer cancel()

	query := location
	if n.country != "" {
		query = fmt.Sprintf("%s, %s", location, n.country)
	}

	params := url.Values{}
	params.Set("format", "json")
	params.Set("limit", "1")
	params.Set("q", query)

	endpoint := strings.TrimRight(n.baseURL, "/") + "/search?" + params.Encode()
	req, err := http.NewRequestWithContext(lookupCtx, http.MethodGet, endpoint, nil)
	if err != nil {
		return LookupResult{}, err
	}
	req.Header.Set("Accept", "application/json")
	if n.userAgent != "" {
		req.Header.Set("User-Agent", n.userAgent)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return LookupResult{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return LookupResult{}, fmt.Errorf("nominatim returned %s", resp.Status)
	}

	var results []struct {
		Lat string `json:"lat"`
		Lon string `json:"lon"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return LookupResult{}, err
	}
	if len(results) == 0 {
		return LookupResult{Found: false}, nil
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return LookupResult{}, err
	}
	lng, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return LookupResult{}, err
	}
	return LookupResult{Lat: lat, Lng: lng, Found: true}, nil
}
