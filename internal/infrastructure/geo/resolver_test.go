package geo

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/indrayudh19/Job-Mapper/internal/domain"
)

type stubGeocoder struct {
	result LookupResult
	err    error
	calls  int
}

func (s *stubGeocoder) Geocode(context.Context, string) (LookupResult, error) {
	s.calls++
	return s.result, s.err
}

func TestResolveUsesCityTableWithoutGeocoder(t *testing.T) {
	t.Parallel()

	geocoder := &stubGeocoder{err: fmt.Errorf("must not be called")}
	resolver := NewResolver(geocoder, nil)

	lat, lng := resolver.Resolve(context.Background(), "Koramangala, Bangalore")
	assert.Equal(t, 12.9716, lat)
	assert.Equal(t, 77.5946, lng)
	assert.Zero(t, geocoder.calls)
}

func TestResolveEmptyLocationReturnsCenter(t *testing.T) {
	t.Parallel()

	resolver := NewResolver(&stubGeocoder{err: fmt.Errorf("must not be called")}, nil)

	lat, lng := resolver.Resolve(context.Background(), "   ")
	assert.Equal(t, DefaultLat, lat)
	assert.Equal(t, DefaultLng, lng)
}

func TestResolveFallsBackToGeocoder(t *testing.T) {
	t.Parallel()

	geocoder := &stubGeocoder{result: LookupResult{Lat: 9.93, Lng: 76.26, Found: true}}
	resolver := NewResolver(geocoder, nil)

	lat, lng := resolver.Resolve(context.Background(), "Kochi")
	assert.Equal(t, 9.93, lat)
	assert.Equal(t, 76.26, lng)
	assert.Equal(t, 1, geocoder.calls)
}

func TestResolveGeocoderFailureReturnsCenter(t *testing.T) {
	t.Parallel()

	cases := []*stubGeocoder{
		{err: fmt.Errorf("network down")},
		{result: LookupResult{Found: false}},
	}
	for _, geocoder := range cases {
		resolver := NewResolver(geocoder, nil)
		lat, lng := resolver.Resolve(context.Background(), "Nowhere Particular")
		assert.Equal(t, DefaultLat, lat)
		assert.Equal(t, DefaultLng, lng)
	}
}

func TestResolveNilGeocoderReturnsCenter(t *testing.T) {
	t.Parallel()

	resolver := NewResolver(nil, nil)
	lat, lng := resolver.Resolve(context.Background(), "Nowhere Particular")
	assert.Equal(t, DefaultLat, lat)
	assert.Equal(t, DefaultLng, lng)
}

func TestResolveAllPreservesOrderAndCount(t *testing.T) {
	t.Parallel()

	resolver := NewResolver(nil, nil)
	jobs := []domain.ExtractedJob{
		{JobTitle: "a", Location: "Mumbai"},
		{JobTitle: "b", Location: ""},
		{JobTitle: "c", Location: "Remote"},
	}

	geocoded := resolver.ResolveAll(context.Background(), jobs)
	require.Len(t, geocoded, len(jobs))

	assert.Equal(t, "a", geocoded[0].JobTitle)
	assert.Equal(t, 19.0760, geocoded[0].Lat)
	assert.Equal(t, "b", geocoded[1].JobTitle)
	assert.Equal(t, DefaultLat, geocoded[1].Lat)
	assert.Equal(t, "c", geocoded[2].JobTitle)
	assert.Equal(t, DefaultLat, geocoded[2].Lat)
}

func TestNominatimGeocode(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("q"); got != "Indiranagar, India" {
			t.Errorf("unexpected query: %s", got)
		}
		if got := r.Header.Get("User-Agent"); got != "job-mapper/1.0" {
			t.Errorf("unexpected user agent: %s", got)
		}
		_, _ = w.Write([]byte(`[{"lat":"12.97","lon":"77.64"}]`))
	}))
	defer server.Close()

	client := NewNominatim(server.URL, "job-mapper/1.0", "India", time.Millisecond, server.Client())
	result, err := client.Geocode(context.Background(), "Indiranagar")
	require.NoError(t, err)

	assert.True(t, result.Found)
	assert.Equal(t, 12.97, result.Lat)
	assert.Equal(t, 77.64, result.Lng)
}

func TestNominatimGeocodeNoResults(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	}))
	defer server.Close()

	client := NewNominatim(server.URL, "job-mapper/1.0", "India", time.Millisecond, server.Client())
	result, err := client.Geocode(context.Background(), "Atlantis")
	require.NoError(t, err)
	assert.False(t, result.Found)
}
