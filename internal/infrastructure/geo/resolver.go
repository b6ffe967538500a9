package geo

import (
	"context"
	"log/slog"
	"strings"

	"github.com/indrayudh19/Job-Mapper/internal/domain"
	"github.com/indrayudh19/Job-Mapper/internal/ports"
)

// DefaultLat and DefaultLng are the India center coordinates used when a
// location is empty or cannot be resolved.
const (
	DefaultLat = 20.5937
	DefaultLng = 78.9629
)

type cityEntry struct {
	key string
	lat float64
	lng float64
}

// cityTable is the zero-network fast path for common Indian cities.
// Matching is by substring containment in declaration order.
var cityTable = []cityEntry{
	{"bangalore", 12.9716, 77.5946},
	{"bengaluru", 12.9716, 77.5946},
	{"mumbai", 19.0760, 72.8777},
	{"new delhi", 28.6139, 77.2090},
	{"delhi", 28.6139, 77.2090},
	{"hyderabad", 17.3850, 78.4867},
	{"chennai", 13.0827, 80.2707},
	{"pune", 18.5204, 73.8567},
	{"kolkata", 22.5726, 88.3639},
	{"gurgaon", 28.4595, 77.0266},
	{"gurugram", 28.4595, 77.0266},
	{"noida", 28.5355, 77.3910},
	{"ahmedabad", 23.0225, 72.5714},
	{"jaipur", 26.9124, 75.7873},
	{"remote", DefaultLat, DefaultLng},
	{"india", DefaultLat, DefaultLng},
}

// Resolver implements the coordinate resolution stage. Resolve never fails:
// cache misses fall through to the geocoder and unresolvable locations get
// the default center.
type Resolver struct {
	geocoder Geocoder
	logger   *slog.Logger
}

var _ ports.CoordinateResolver = (*Resolver)(nil)

// NewResolver wires the fallback geocoder; nil disables network lookups.
func NewResolver(geocoder Geocoder, log *slog.Logger) *Resolver {
	return &Resolver{geocoder: geocoder, logger: log}
}

// Resolve maps a location string to coordinates.
func (r *Resolver) Resolve(ctx context.Context, location string) (float64, float64) {
	if strings.TrimSpace(location) == "" {
		return DefaultLat, DefaultLng
	}

	normalized := strings.ToLower(strings.TrimSpace(location))
	for _, entry := range cityTable {
		if strings.Contains(normalized, entry.key) {
			return entry.lat, entry.lng
		}
	}

	if r.geocoder != nil {
		result, err := r.geocoder.Geocode(ctx, location)
		if err != nil {
			r.warn("geocode lookup failed", "location", location, "error", err)
		} else if result.Found {
			return result.Lat, result.Lng
		}
	}

	return DefaultLat, DefaultLng
}

// ResolveAll merges coordinates into every job, preserving input order and
// count. Unlike earlier stages this one never drops items.
func (r *Resolver) ResolveAll(ctx context.Context, jobs []domain.ExtractedJob) []domain.GeocodedJob {
	geocoded := make([]domain.GeocodedJob, 0, len(jobs))
	for _, job := range jobs {
		lat, lng := r.Resolve(ctx, job.Location)
		geocoded = append(geocoded, domain.GeocodedJob{
			ExtractedJob: job,
			Lat:          lat,
			Lng:          lng,
		})
	}
	return geocoded
}

func (r *Resolver) warn(msg string, args ...any) {
	if r.logger != nil {
		r.logger.Warn(msg, args...)
	}
}
