package domain

import (
	"fmt"
	"time"
)

// WallMaterial is a closed set; HeatLossMultiplier rejects anything else.
type WallMaterial string

const (
	WallBrick      WallMaterial = "brick"
	WallConcrete   WallMaterial = "concrete"
	WallWood       WallMaterial = "wood"
	WallPanel      WallMaterial = "panel"
	WallMonolithic WallMaterial = "monolithic"
)

var wallMultipliers = map[WallMaterial]float64{
	WallBrick:      1.5,
	WallConcrete:   1.2,
	WallWood:       0.8,
	WallPanel:      1.8,
	WallMonolithic: 1.3,
}

// HeatLossMultiplier returns the fixed multiplier for a wall material.
func (m WallMaterial) HeatLossMultiplier() (float64, error) {
	mult, ok := wallMultipliers[m]
	if !ok {
		return 0, fmt.Errorf("unknown wall material %q", m)
	}
	return mult, nil
}

type Room struct {
	ID                  int64        `db:"id" json:"id"`
	Name                string       `db:"name" json:"name"`
	Area                float64      `db:"area" json:"area"`
	WallMaterial        WallMaterial `db:"wall_material" json:"wall_material"`
	HeatLossCoefficient float64      `db:"heat_loss_coefficient" json:"heat_loss_coefficient"`
	HeatingStatus       bool         `db:"heating_status" json:"heating_status"`
	TargetTemperature   float64      `db:"target_temperature" json:"target_temperature"`
	ComfortTemperature  float64      `db:"comfort_temperature" json:"comfort_temperature"`
}

// Validate enforces the bounds a room must satisfy before it enters the
// thermal model: positive area, a known wall material, and a heat-loss
// coefficient in [0.1, 5.0].
func (r *Room) Validate() error {
	if r.Area <= 0 {
		return fmt.Errorf("room %q: area must be positive, got %v", r.Name, r.Area)
	}
	if _, err := r.WallMaterial.HeatLossMultiplier(); err != nil {
		return fmt.Errorf("room %q: %w", r.Name, err)
	}
	if r.HeatLossCoefficient < 0.1 || r.HeatLossCoefficient > 5.0 {
		return fmt.Errorf("room %q: heat loss coefficient %v outside [0.1, 5.0]", r.Name, r.HeatLossCoefficient)
	}
	return nil
}

// HeatLossFactor is the material multiplier scaled by the room's tunable
// coefficient. Call Validate first; unknown materials report factor 0.
func (r *Room) HeatLossFactor() float64 {
	mult, err := r.WallMaterial.HeatLossMultiplier()
	if err != nil {
		return 0
	}
	return mult * r.HeatLossCoefficient
}

// CurrentTemperature is the temperature the room is assumed to hold right
// now: the target while heated, the comfort floor otherwise.
func (r *Room) CurrentTemperature() float64 {
	if r.HeatingStatus {
		return r.TargetTemperature
	}
	return r.ComfortTemperature
}

// OccupancyInterval is a half-open booking [Start, End) on one room.
type OccupancyInterval struct {
	ID       int64     `db:"id" json:"id"`
	RoomID   int64     `db:"room_id" json:"room_id"`
	Start    time.Time `db:"start_time" json:"start_time"`
	End      time.Time `db:"end_time" json:"end_time"`
	Purpose  string    `db:"purpose" json:"purpose"`
	IsActive bool      `db:"is_active" json:"is_active"`
}

func (o *OccupancyInterval) Validate() error {
	if !o.End.After(o.Start) {
		return fmt.Errorf("occupancy interval: end %v not after start %v", o.End, o.Start)
	}
	return nil
}

func (o *OccupancyInterval) Contains(now time.Time) bool {
	return o.IsActive && !now.Before(o.Start) && now.Before(o.End)
}

type WeatherReading struct {
	ID          int64     `db:"id" json:"id"`
	Temperature float64   `db:"temperature" json:"temperature"`
	Humidity    float64   `db:"humidity" json:"humidity"`
	WindSpeed   float64   `db:"wind_speed" json:"wind_speed"`
	Description string    `db:"description" json:"description"`
	CachedAt    time.Time `db:"cached_at" json:"cached_at"`
}

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

type Recommendation struct {
	ID                int64      `db:"id" json:"id"`
	RoomID            int64      `db:"room_id" json:"room_id"`
	Message           string     `db:"message" json:"message"`
	RecommendedAction string     `db:"recommended_action" json:"recommended_action"`
	EstimatedSavings  float64    `db:"estimated_savings" json:"estimated_savings"`
	Priority          Priority   `db:"priority" json:"priority"`
	IsApplied         bool       `db:"is_applied" json:"is_applied"`
	AppliedAt         *time.Time `db:"applied_at" json:"applied_at,omitempty"`
	CreatedAt         time.Time  `db:"created_at" json:"created_at"`
}

// EnergyLogEntry is append-only; rows are never updated.
type EnergyLogEntry struct {
	ID                 int64     `db:"id" json:"id"`
	RoomID             int64     `db:"room_id" json:"room_id"`
	Timestamp          time.Time `db:"timestamp" json:"timestamp"`
	TemperatureInside  float64   `db:"temperature_inside" json:"temperature_inside"`
	TemperatureOutside float64   `db:"temperature_outside" json:"temperature_outside"`
	HeatingPowerKW     float64   `db:"heating_power_kw" json:"heating_power_kw"`
	CO2SavedKg         float64   `db:"co2_saved_kg" json:"co2_saved_kg"`
}
