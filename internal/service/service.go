package service

import (
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog"

	"github.com/thermasense/thermasense/internal/config"
	"github.com/thermasense/thermasense/internal/domain"
	"github.com/thermasense/thermasense/internal/ledger"
	"github.com/thermasense/thermasense/internal/recommend"
	"github.com/thermasense/thermasense/internal/repository"
	"github.com/thermasense/thermasense/internal/thermal"
	"github.com/thermasense/thermasense/internal/weather"
)

// HeatingController pushes the heating-off command to the (simulated) device
// fleet. Nil is fine; the command is best effort.
type HeatingController interface {
	PublishHeatingOff(roomID int64, at time.Time) error
}

type Services struct {
	Repos     *repository.Repos
	Weather   *weather.Source
	Generator *recommend.Generator
	Ledger    *ledger.Ledger
	Rooms     *RoomService

	log zerolog.Logger
}

func New(db *sqlx.DB, controller HeatingController, log zerolog.Logger) *Services {
	repos := repository.New(db)
	wx := weather.NewSource(repos, config.WeatherAPIKey(), config.WeatherCity(), time.Now, log)
	gen := recommend.NewGenerator(repos, repos, repos, wx, config.EnergyUnitPrice(), time.Now, log)

	s := &Services{
		Repos:     repos,
		Weather:   wx,
		Generator: gen,
		Ledger:    ledger.New(time.Now),
		log:       log,
	}
	s.Rooms = &RoomService{repos: repos, weather: wx, controller: controller, log: log}
	return s
}

// ApplyRecommendation marks the recommendation applied and carries out the
// side effects the engine only signals: force the room's heating off, append
// the energy-log entry and record the savings on the ledger.
func (s *Services) ApplyRecommendation(id int64) (*domain.Recommendation, error) {
	rec, err := s.Generator.Apply(id)
	if err != nil {
		return nil, err
	}

	if err := s.Rooms.ForceHeatingOff(rec.RoomID); err != nil {
		return nil, fmt.Errorf("force heating off for room %d: %w", rec.RoomID, err)
	}

	s.Ledger.Append(rec.RoomID, thermal.Savings{
		EnergyKWh: rec.EstimatedSavings,
		CO2Kg:     rec.EstimatedSavings * 0.4,
		Money:     rec.EstimatedSavings * config.EnergyUnitPrice(),
	})

	return rec, nil
}

type RoomService struct {
	repos      *repository.Repos
	weather    *weather.Source
	controller HeatingController
	log        zerolog.Logger
}

// ToggleHeating flips a room's heating flag and appends the energy-log entry
// that captures the state at the moment of the switch.
func (rs *RoomService) ToggleHeating(roomID int64) (*domain.Room, error) {
	room, err := rs.repos.GetRoom(roomID)
	if err != nil {
		return nil, err
	}
	room.HeatingStatus = !room.HeatingStatus
	if err := rs.repos.SetHeating(roomID, room.HeatingStatus); err != nil {
		return nil, err
	}
	rs.appendEnergyLog(room)
	return room, nil
}

// ForceHeatingOff is the side effect of applying a recommendation. The MQTT
// control command is best effort; a broker outage never blocks the apply.
func (rs *RoomService) ForceHeatingOff(roomID int64) error {
	room, err := rs.repos.GetRoom(roomID)
	if err != nil {
		return err
	}
	if err := rs.repos.SetHeating(roomID, false); err != nil {
		return err
	}
	room.HeatingStatus = false
	rs.appendEnergyLog(room)

	if rs.controller != nil {
		if err := rs.controller.PublishHeatingOff(roomID, time.Now()); err != nil {
			rs.log.Warn().Err(err).Int64("room_id", roomID).Msg("heating-off command publish failed")
		}
	}
	return nil
}

func (rs *RoomService) appendEnergyLog(room *domain.Room) {
	wx := rs.weather.Current()
	power := 0.0
	if room.HeatingStatus {
		power = room.Area * 0.1
	}
	entry := &domain.EnergyLogEntry{
		RoomID:             room.ID,
		Timestamp:          time.Now(),
		TemperatureInside:  room.CurrentTemperature(),
		TemperatureOutside: wx.Temperature,
		HeatingPowerKW:     power,
	}
	if err := rs.repos.InsertEnergyLog(entry); err != nil {
		rs.log.Warn().Err(err).Int64("room_id", room.ID).Msg("energy log insert failed")
	}
}
