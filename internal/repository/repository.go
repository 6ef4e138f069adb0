package repository

import (
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/thermasense/thermasense/internal/domain"
)

type Repos struct {
	db *sqlx.DB
}

func New(db *sqlx.DB) *Repos { return &Repos{db: db} }

func (r *Repos) ListRooms() ([]domain.Room, error) {
	var out []domain.Room
	err := r.db.Select(&out, `SELECT id, name, area, wall_material, heat_loss_coefficient, heating_status, target_temperature, comfort_temperature FROM rooms ORDER BY id`)
	return out, err
}

func (r *Repos) GetRoom(id int64) (*domain.Room, error) {
	var room domain.Room
	err := r.db.Get(&room, `SELECT id, name, area, wall_material, heat_loss_coefficient, heating_status, target_temperature, comfort_temperature FROM rooms WHERE id = $1`, id)
	if err != nil {
		return nil, err
	}
	return &room, nil
}

func (r *Repos) SetHeating(roomID int64, on bool) error {
	_, err := r.db.Exec(`UPDATE rooms SET heating_status = $2 WHERE id = $1`, roomID, on)
	return err
}

func (r *Repos) ActiveIntervals(roomID int64) ([]domain.OccupancyInterval, error) {
	var out []domain.OccupancyInterval
	err := r.db.Select(&out, `SELECT id, room_id, start_time, end_time, purpose, is_active FROM occupancy_intervals WHERE room_id = $1 AND is_active = true ORDER BY end_time`, roomID)
	return out, err
}

func (r *Repos) InsertInterval(iv *domain.OccupancyInterval) error {
	if err := iv.Validate(); err != nil {
		return err
	}
	return r.db.QueryRow(`INSERT INTO occupancy_intervals(room_id, start_time, end_time, purpose, is_active) VALUES ($1,$2,$3,$4,$5) RETURNING id`,
		iv.RoomID, iv.Start, iv.End, iv.Purpose, iv.IsActive).Scan(&iv.ID)
}

// LatestReading returns nil when the cache is empty; the weather source
// treats that the same as an expired entry.
func (r *Repos) LatestReading() (*domain.WeatherReading, error) {
	var reading domain.WeatherReading
	err := r.db.Get(&reading, `SELECT id, temperature, humidity, wind_speed, description, cached_at FROM weather_cache ORDER BY cached_at DESC LIMIT 1`)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &reading, nil
}

func (r *Repos) InsertReading(w *domain.WeatherReading) error {
	return r.db.QueryRow(`INSERT INTO weather_cache(temperature, humidity, wind_speed, description, cached_at) VALUES ($1,$2,$3,$4,$5) RETURNING id`,
		w.Temperature, w.Humidity, w.WindSpeed, w.Description, w.CachedAt).Scan(&w.ID)
}

func (r *Repos) InsertRecommendation(rec *domain.Recommendation) error {
	return r.db.QueryRow(`INSERT INTO recommendations(room_id, message, recommended_action, estimated_savings, priority, is_applied, created_at) VALUES ($1,$2,$3,$4,$5,false,$6) RETURNING id`,
		rec.RoomID, rec.Message, rec.RecommendedAction, rec.EstimatedSavings, rec.Priority, rec.CreatedAt).Scan(&rec.ID)
}

func (r *Repos) GetRecommendation(id int64) (*domain.Recommendation, error) {
	var rec domain.Recommendation
	err := r.db.Get(&rec, `SELECT id, room_id, message, recommended_action, estimated_savings, priority, is_applied, applied_at, created_at FROM recommendations WHERE id = $1`, id)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *Repos) ListRecommendations(appliedOnly, unappliedOnly bool) ([]domain.Recommendation, error) {
	query := `SELECT id, room_id, message, recommended_action, estimated_savings, priority, is_applied, applied_at, created_at FROM recommendations`
	switch {
	case appliedOnly:
		query += ` WHERE is_applied = true`
	case unappliedOnly:
		query += ` WHERE is_applied = false`
	}
	query += ` ORDER BY priority DESC, created_at DESC`
	var out []domain.Recommendation
	err := r.db.Select(&out, query)
	return out, err
}

// MarkRecommendationApplied flips the applied flag exactly once. The guard in
// the WHERE clause keeps applied_at monotonic under concurrent callers; it
// returns false when the recommendation was already applied.
func (r *Repos) MarkRecommendationApplied(id int64, at time.Time) (bool, error) {
	res, err := r.db.Exec(`UPDATE recommendations SET is_applied = true, applied_at = $2 WHERE id = $1 AND is_applied = false`, id, at)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *Repos) InsertEnergyLog(e *domain.EnergyLogEntry) error {
	return r.db.QueryRow(`INSERT INTO energy_log(room_id, timestamp, temperature_inside, temperature_outside, heating_power_kw, co2_saved_kg) VALUES ($1,$2,$3,$4,$5,$6) RETURNING id`,
		e.RoomID, e.Timestamp, e.TemperatureInside, e.TemperatureOutside, e.HeatingPowerKW, e.CO2SavedKg).Scan(&e.ID)
}

func (r *Repos) ListEnergyLogs(roomID int64) ([]domain.EnergyLogEntry, error) {
	var out []domain.EnergyLogEntry
	err := r.db.Select(&out, `SELECT id, room_id, timestamp, temperature_inside, temperature_outside, heating_power_kw, co2_saved_kg FROM energy_log WHERE room_id = $1 ORDER BY timestamp DESC`, roomID)
	return out, err
}
