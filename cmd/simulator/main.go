package main

import (
	"encoding/json"
	"math/rand"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/rs/zerolog/log"

	"github.com/thermasense/thermasense/internal/config"
	"github.com/thermasense/thermasense/internal/iot"
)

// Publishes fake room-sensor payloads; there is no real device fleet.
func main() {
	if err := config.Load(); err != nil {
		log.Fatal().Err(err).Msg("config load failed")
	}
	opts := mqtt.NewClientOptions().AddBroker(config.MQTTBroker())
	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		log.Fatal().Err(token.Error()).Msg("mqtt connect")
	}
	defer client.Disconnect(250)

	roomIDs := []int64{1, 2, 3}
	for i := 0; i < 100; i++ {
		for _, roomID := range roomIDs {
			p := iot.SensorPayload{
				RoomID:      roomID,
				Timestamp:   time.Now(),
				Temperature: 20 + rand.Float64()*7 - 2,
				Humidity:    30 + rand.Float64()*40,
				CO2PPM:      400 + rand.Intn(800),
				Motion:      rand.Intn(2) == 1,
				PeopleCount: rand.Intn(11),
			}
			payload, _ := json.Marshal(p)
			token := client.Publish(iot.SensorTopic(roomID), 0, false, payload)
			token.Wait()
		}
		time.Sleep(500 * time.Millisecond)
	}
	log.Info().Msg("simulation done")
}
