// Package metrics exposes the engine's prometheus instrumentation. Counters
// are registered via promauto at init; Serve starts a plain promhttp listener
// on a side port.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RecommendationsGenerated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "thermasense_recommendations_generated_total",
		Help: "Total number of heating-off recommendations emitted.",
	})
	RecommendationsApplied = promauto.NewCounter(prometheus.CounterOpts{
		Name: "thermasense_recommendations_applied_total",
		Help: "Total number of recommendations applied.",
	})
	RoomsSkipped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "thermasense_rooms_skipped_total",
		Help: "Rooms skipped during a generation pass (no occupancy or decision rule not met).",
	})
	WeatherCacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "thermasense_weather_cache_hits_total",
		Help: "Weather lookups served from an unexpired cache entry.",
	})
	WeatherFetches = promauto.NewCounter(prometheus.CounterOpts{
		Name: "thermasense_weather_fetches_total",
		Help: "Successful weather provider fetches.",
	})
	WeatherFallbacks = promauto.NewCounter(prometheus.CounterOpts{
		Name: "thermasense_weather_fallbacks_total",
		Help: "Weather lookups that fell back to the demo reading.",
	})
	OutsideTemperature = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "thermasense_outside_temperature_celsius",
		Help: "Latest outside temperature used by the engine.",
	})
)

// Serve blocks on a promhttp listener; run it in its own goroutine.
func Serve(addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	return http.ListenAndServe(addr, mux)
}
