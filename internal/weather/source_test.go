package weather

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/thermasense/thermasense/internal/domain"
)

type fakeStore struct {
	readings  []domain.WeatherReading
	insertErr error
}

func (s *fakeStore) LatestReading() (*domain.WeatherReading, error) {
	if len(s.readings) == 0 {
		return nil, nil
	}
	latest := s.readings[0]
	for _, r := range s.readings[1:] {
		if r.CachedAt.After(latest.CachedAt) {
			latest = r
		}
	}
	return &latest, nil
}

func (s *fakeStore) InsertReading(r *domain.WeatherReading) error {
	if s.insertErr != nil {
		return s.insertErr
	}
	r.ID = int64(len(s.readings) + 1)
	s.readings = append(s.readings, *r)
	return nil
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

const providerBody = `{"main":{"temp":2.5,"humidity":80},"wind":{"speed":4.2},"weather":[{"description":"light snow"}]}`

func TestCurrentServesFreshCacheWithoutFetching(t *testing.T) {
	now := time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)
	store := &fakeStore{readings: []domain.WeatherReading{{
		ID: 1, Temperature: -1.0, Description: "Clear", CachedAt: now.Add(-time.Hour),
	}}}

	hits := 0
	provider := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits++
		w.Write([]byte(providerBody))
	}))
	defer provider.Close()

	src := NewSource(store, "key", "Moscow", fixedClock(now), zerolog.Nop())
	src.SetBaseURL(provider.URL)

	got := src.Current()
	if got.Temperature != -1.0 || got.Description != "Clear" {
		t.Errorf("expected cached reading, got %+v", got)
	}
	if hits != 0 {
		t.Errorf("provider was called %d times for a fresh cache", hits)
	}
	if len(store.readings) != 1 {
		t.Errorf("cache grew to %d entries on a hit", len(store.readings))
	}
}

func TestCurrentTreatsExactTTLAsFresh(t *testing.T) {
	now := time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)
	store := &fakeStore{readings: []domain.WeatherReading{{
		ID: 1, Temperature: -1.0, CachedAt: now.Add(-FreshnessTTL),
	}}}

	src := NewSource(store, "", "Moscow", fixedClock(now), zerolog.Nop())
	got := src.Current()
	if got.Temperature != -1.0 {
		t.Errorf("reading exactly at the TTL should still be served, got %+v", got)
	}
}

func TestCurrentRefreshesExpiredCache(t *testing.T) {
	now := time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)
	store := &fakeStore{readings: []domain.WeatherReading{{
		ID: 1, Temperature: -1.0, CachedAt: now.Add(-FreshnessTTL - time.Second),
	}}}

	provider := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(providerBody))
	}))
	defer provider.Close()

	src := NewSource(store, "key", "Moscow", fixedClock(now), zerolog.Nop())
	src.SetBaseURL(provider.URL)

	got := src.Current()
	if got.Temperature != 2.5 || got.Humidity != 80 || got.WindSpeed != 4.2 {
		t.Errorf("expected fetched reading, got %+v", got)
	}
	if got.Description != "light snow" {
		t.Errorf("description = %q, want %q", got.Description, "light snow")
	}
	if !got.CachedAt.Equal(now) {
		t.Errorf("fetched reading stamped %v, want %v", got.CachedAt, now)
	}
	if len(store.readings) != 2 {
		t.Errorf("cache has %d entries, want the history retained", len(store.readings))
	}
}

func TestCurrentFallsBackToDemoOnProviderFailure(t *testing.T) {
	now := time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)
	store := &fakeStore{readings: []domain.WeatherReading{{
		ID: 1, Temperature: -1.0, CachedAt: now.Add(-4 * time.Hour),
	}}}

	provider := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer provider.Close()

	src := NewSource(store, "key", "Moscow", fixedClock(now), zerolog.Nop())
	src.SetBaseURL(provider.URL)

	got := src.Current()
	if got.Temperature != -5.0 || got.Humidity != 75 || got.WindSpeed != 3.0 || got.Description != "Cloudy" {
		t.Errorf("expected demo reading, got %+v", got)
	}
	if len(store.readings) != 2 {
		t.Errorf("demo reading was not persisted: %d entries", len(store.readings))
	}
}

func TestCurrentFallsBackWithoutAPIKey(t *testing.T) {
	now := time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)
	store := &fakeStore{}

	src := NewSource(store, "", "Moscow", fixedClock(now), zerolog.Nop())
	got := src.Current()
	if got.Description != "Cloudy" {
		t.Errorf("expected demo reading with no API key, got %+v", got)
	}
	if !got.CachedAt.Equal(now) {
		t.Errorf("demo reading stamped %v, want %v", got.CachedAt, now)
	}
}

func TestCurrentSurvivesStoreFailure(t *testing.T) {
	now := time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)
	store := &fakeStore{insertErr: http.ErrServerClosed}

	src := NewSource(store, "", "Moscow", fixedClock(now), zerolog.Nop())
	got := src.Current()
	if got.Temperature != -5.0 {
		t.Errorf("fallback must not raise even when the store fails, got %+v", got)
	}
}
