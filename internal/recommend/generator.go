// Package recommend scans every room's occupancy against the weather and the
// thermal model and emits heating-off recommendations where the room will
// hold comfort until its next vacancy.
package recommend

import (
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/thermasense/thermasense/internal/domain"
	"github.com/thermasense/thermasense/internal/metrics"
	"github.com/thermasense/thermasense/internal/schedule"
	"github.com/thermasense/thermasense/internal/thermal"
)

// Minutes subtracted from time-to-vacancy before a shutdown is recommended.
const safetyBufferMinutes = 30.0

// ErrAlreadyApplied is returned by Apply for a recommendation that was
// applied before; the original timestamp is never overwritten.
var ErrAlreadyApplied = errors.New("recommendation already applied")

type RoomStore interface {
	ListRooms() ([]domain.Room, error)
}

type OccupancyStore interface {
	ActiveIntervals(roomID int64) ([]domain.OccupancyInterval, error)
}

type RecommendationStore interface {
	InsertRecommendation(rec *domain.Recommendation) error
	GetRecommendation(id int64) (*domain.Recommendation, error)
	MarkRecommendationApplied(id int64, at time.Time) (bool, error)
}

type WeatherSource interface {
	Current() domain.WeatherReading
}

type Generator struct {
	rooms     RoomStore
	occupancy OccupancyStore
	recs      RecommendationStore
	weather   WeatherSource
	unitPrice float64
	now       func() time.Time
	log       zerolog.Logger
}

func NewGenerator(rooms RoomStore, occupancy OccupancyStore, recs RecommendationStore, weather WeatherSource, unitPrice float64, now func() time.Time, log zerolog.Logger) *Generator {
	if now == nil {
		now = time.Now
	}
	return &Generator{
		rooms:     rooms,
		occupancy: occupancy,
		recs:      recs,
		weather:   weather,
		unitPrice: unitPrice,
		now:       now,
		log:       log,
	}
}

// Generate runs one pass over all rooms. Weather is pulled once; each room
// that can be switched off now and still stay comfortable until its vacancy
// gets a persisted high-priority recommendation. Repeated calls without a
// state change emit duplicates; callers dedupe or rate-limit.
func (g *Generator) Generate() ([]domain.Recommendation, error) {
	rooms, err := g.rooms.ListRooms()
	if err != nil {
		return nil, fmt.Errorf("list rooms: %w", err)
	}

	wx := g.weather.Current()
	now := g.now()

	var out []domain.Recommendation
	for _, room := range rooms {
		rec, ok := g.evaluate(room, wx, now)
		if !ok {
			metrics.RoomsSkipped.Inc()
			continue
		}
		if err := g.recs.InsertRecommendation(rec); err != nil {
			return out, fmt.Errorf("persist recommendation for room %d: %w", room.ID, err)
		}
		metrics.RecommendationsGenerated.Inc()
		g.log.Info().
			Int64("room_id", room.ID).
			Float64("savings_kwh", rec.EstimatedSavings).
			Msg("recommendation emitted")
		out = append(out, *rec)
	}
	return out, nil
}

// evaluate applies the decision rule to one room. Any defect in the room's
// data skips the room rather than failing the pass.
func (g *Generator) evaluate(room domain.Room, wx domain.WeatherReading, now time.Time) (*domain.Recommendation, bool) {
	if err := room.Validate(); err != nil {
		g.log.Warn().Err(err).Int64("room_id", room.ID).Msg("room skipped")
		return nil, false
	}

	intervals, err := g.occupancy.ActiveIntervals(room.ID)
	if err != nil {
		g.log.Warn().Err(err).Int64("room_id", room.ID).Msg("occupancy lookup failed")
		return nil, false
	}
	if schedule.Current(intervals, now) == nil {
		return nil, false
	}
	vacancy, ok := schedule.NextVacancy(intervals, now)
	if !ok {
		return nil, false
	}

	timeToVacancy := vacancy.Sub(now).Minutes()

	cooldown, err := thermal.CooldownMinutes(
		room.Area,
		room.HeatLossFactor(),
		room.CurrentTemperature(),
		room.ComfortTemperature,
		wx.Temperature,
	)
	if err != nil {
		g.log.Warn().Err(err).Int64("room_id", room.ID).Msg("cooldown computation failed")
		return nil, false
	}

	// An infinite cooldown never satisfies this, so warm weather never
	// triggers a shutdown.
	if cooldown >= timeToVacancy-safetyBufferMinutes {
		return nil, false
	}

	hoursSaved := (timeToVacancy - cooldown) / 60
	savings, err := thermal.EnergySavings(room.Area, hoursSaved, g.unitPrice)
	if err != nil {
		g.log.Warn().Err(err).Int64("room_id", room.ID).Msg("savings computation failed")
		return nil, false
	}

	return &domain.Recommendation{
		RoomID: room.ID,
		Message: fmt.Sprintf("Room %s will be free in %.0f min. Heat will last for %.0f more min.",
			room.Name, timeToVacancy, cooldown),
		RecommendedAction: "Turn off heating now",
		EstimatedSavings:  savings.EnergyKWh,
		Priority:          domain.PriorityHigh,
		CreatedAt:         now,
	}, true
}

// Apply marks a recommendation applied exactly once and returns it. The
// caller owns the side effects: forcing the room's heating off, logging the
// energy entry and recording the ledger transaction.
func (g *Generator) Apply(id int64) (*domain.Recommendation, error) {
	applied, err := g.recs.MarkRecommendationApplied(id, g.now())
	if err != nil {
		return nil, fmt.Errorf("apply recommendation %d: %w", id, err)
	}
	if !applied {
		return nil, ErrAlreadyApplied
	}
	rec, err := g.recs.GetRecommendation(id)
	if err != nil {
		return nil, fmt.Errorf("load recommendation %d: %w", id, err)
	}
	metrics.RecommendationsApplied.Inc()
	return rec, nil
}
