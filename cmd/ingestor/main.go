package main

import (
	"encoding/json"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/rs/zerolog/log"

	"github.com/thermasense/thermasense/internal/config"
	"github.com/thermasense/thermasense/internal/database"
	"github.com/thermasense/thermasense/internal/domain"
	"github.com/thermasense/thermasense/internal/iot"
	"github.com/thermasense/thermasense/internal/repository"
)

func main() {
	if err := config.Load(); err != nil {
		log.Fatal().Err(err).Msg("config load failed")
	}

	db, err := database.Connect()
	if err != nil {
		log.Fatal().Err(err).Msg("db connect failed")
	}
	defer db.Close()

	repos := repository.New(db)

	opts := mqtt.NewClientOptions().AddBroker(config.MQTTBroker())
	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		log.Fatal().Err(token.Error()).Msg("mqtt connect")
	}
	defer client.Disconnect(250)

	handler := func(_ mqtt.Client, msg mqtt.Message) {
		var p iot.SensorPayload
		if err := json.Unmarshal(msg.Payload(), &p); err != nil {
			log.Error().Err(err).Str("topic", msg.Topic()).Msg("bad sensor payload")
			return
		}
		wx, err := repos.LatestReading()
		outside := 0.0
		if err == nil && wx != nil {
			outside = wx.Temperature
		}
		entry := &domain.EnergyLogEntry{
			RoomID:             p.RoomID,
			Timestamp:          p.Timestamp,
			TemperatureInside:  p.Temperature,
			TemperatureOutside: outside,
		}
		if err := repos.InsertEnergyLog(entry); err != nil {
			log.Error().Err(err).Int64("room_id", p.RoomID).Msg("ingest failed")
		}
	}

	if token := client.Subscribe("thermasense/+/sensors", 0, handler); token.Wait() && token.Error() != nil {
		log.Fatal().Err(token.Error()).Msg("subscribe failed")
	}

	log.Info().Msg("ingestor running; Ctrl+C to stop")
	for {
		time.Sleep(10 * time.Second)
	}
}
