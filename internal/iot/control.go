// Package iot carries the simulated device plumbing: MQTT payload shapes
// shared by the simulator and ingestor, and a best-effort control publisher.
// There is no real device fleet behind the broker.
package iot

import (
	"encoding/json"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// SensorPayload is what the simulator publishes per room.
type SensorPayload struct {
	RoomID      int64     `json:"room_id"`
	Timestamp   time.Time `json:"timestamp"`
	Temperature float64   `json:"temperature"`
	Humidity    float64   `json:"humidity"`
	CO2PPM      int       `json:"co2_ppm"`
	Motion      bool      `json:"motion"`
	PeopleCount int       `json:"people_count"`
}

// ControlPayload is a command to a room thermostat.
type ControlPayload struct {
	RoomID    int64     `json:"room_id"`
	Command   string    `json:"command"`
	Timestamp time.Time `json:"timestamp"`
}

const (
	CommandHeatingOff = "heating_off"
	CommandHeatingOn  = "heating_on"
)

func SensorTopic(roomID int64) string  { return fmt.Sprintf("thermasense/%d/sensors", roomID) }
func ControlTopic(roomID int64) string { return fmt.Sprintf("thermasense/%d/control", roomID) }

// ControlPublisher pushes thermostat commands over MQTT.
type ControlPublisher struct {
	client mqtt.Client
}

func NewControlPublisher(broker string) (*ControlPublisher, error) {
	opts := mqtt.NewClientOptions().AddBroker(broker)
	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, token.Error()
	}
	return &ControlPublisher{client: client}, nil
}

func (p *ControlPublisher) PublishHeatingOff(roomID int64, at time.Time) error {
	payload, err := json.Marshal(ControlPayload{
		RoomID:    roomID,
		Command:   CommandHeatingOff,
		Timestamp: at,
	})
	if err != nil {
		return err
	}
	token := p.client.Publish(ControlTopic(roomID), 0, false, payload)
	token.Wait()
	return token.Error()
}

func (p *ControlPublisher) Close() { p.client.Disconnect(250) }
