// Package weather supplies the current outside conditions through an
// expiring cache. A reading older than three hours is refreshed from the
// provider; any failure there degrades to a fixed demo reading so the
// recommendation pipeline never stalls on the network.
package weather

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"

	"github.com/thermasense/thermasense/internal/domain"
	"github.com/thermasense/thermasense/internal/metrics"
)

const (
	// A cached reading is authoritative for this long.
	FreshnessTTL = 3 * time.Hour

	fetchTimeout = 10 * time.Second
)

// Demo reading used whenever the provider cannot be reached or is unset.
const (
	demoTemperature = -5.0
	demoHumidity    = 75.0
	demoWindSpeed   = 3.0
	demoDescription = "Cloudy"
)

// Store is the append-only weather cache. Latest returns nil when the cache
// is empty.
type Store interface {
	LatestReading() (*domain.WeatherReading, error)
	InsertReading(r *domain.WeatherReading) error
}

// Source resolves the current weather. The clock is injected so expiry is
// testable.
type Source struct {
	store  Store
	client *http.Client
	now    func() time.Time
	log    zerolog.Logger

	apiKey  string
	city    string
	baseURL string
}

func NewSource(store Store, apiKey, city string, now func() time.Time, log zerolog.Logger) *Source {
	if now == nil {
		now = time.Now
	}
	return &Source{
		store:  store,
		client: &http.Client{Timeout: fetchTimeout},
		now:    now,
		log:    log,
		apiKey: apiKey,
		city:   city,
	}
}

// SetBaseURL overrides the provider endpoint; used by tests.
func (s *Source) SetBaseURL(base string) { s.baseURL = base }

// Current returns the freshest weather reading. It never fails: an expired
// cache triggers a provider fetch, and any fetch problem yields the demo
// reading, persisted like a real one.
func (s *Source) Current() domain.WeatherReading {
	now := s.now()

	cached, err := s.store.LatestReading()
	if err != nil {
		s.log.Warn().Err(err).Msg("weather cache lookup failed")
	}
	if cached != nil && now.Sub(cached.CachedAt) <= FreshnessTTL {
		metrics.WeatherCacheHits.Inc()
		return *cached
	}

	fetched, err := s.fetch()
	if err != nil {
		s.log.Warn().Err(err).Msg("weather fetch failed, using demo reading")
		return s.fallback(now)
	}
	fetched.CachedAt = now
	if err := s.store.InsertReading(fetched); err != nil {
		s.log.Warn().Err(err).Msg("weather cache insert failed")
	}
	metrics.WeatherFetches.Inc()
	metrics.OutsideTemperature.Set(fetched.Temperature)
	return *fetched
}

type providerResponse struct {
	Main struct {
		Temp     float64 `json:"temp"`
		Humidity float64 `json:"humidity"`
	} `json:"main"`
	Wind struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
	Weather []struct {
		Description string `json:"description"`
	} `json:"weather"`
}

func (s *Source) fetch() (*domain.WeatherReading, error) {
	if s.apiKey == "" {
		return nil, fmt.Errorf("weather API key not configured")
	}

	base := s.baseURL
	if base == "" {
		base = "https://api.openweathermap.org/data/2.5/weather"
	}
	endpoint := fmt.Sprintf("%s?q=%s&appid=%s&units=metric",
		base, url.QueryEscape(s.city), url.QueryEscape(s.apiKey))

	resp, err := s.client.Get(endpoint)
	if err != nil {
		return nil, fmt.Errorf("weather provider request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("weather provider status %d", resp.StatusCode)
	}

	var payload providerResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("weather provider payload: %w", err)
	}

	reading := &domain.WeatherReading{
		Temperature: payload.Main.Temp,
		Humidity:    payload.Main.Humidity,
		WindSpeed:   payload.Wind.Speed,
	}
	if len(payload.Weather) > 0 {
		reading.Description = payload.Weather[0].Description
	}
	return reading, nil
}

// fallback persists and returns the demo reading. Insert errors are logged
// and swallowed; the caller still gets a usable reading.
func (s *Source) fallback(now time.Time) domain.WeatherReading {
	reading := domain.WeatherReading{
		Temperature: demoTemperature,
		Humidity:    demoHumidity,
		WindSpeed:   demoWindSpeed,
		Description: demoDescription,
		CachedAt:    now,
	}
	if err := s.store.InsertReading(&reading); err != nil {
		s.log.Warn().Err(err).Msg("demo weather insert failed")
	}
	metrics.WeatherFallbacks.Inc()
	metrics.OutsideTemperature.Set(reading.Temperature)
	return reading
}
