// Package mqtt publishes board updates for displays that subscribe over MQTT
// instead of holding a websocket open.
package mqtt

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	pahomqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/saifurmasood2004-spec/blackburn-prayer-site/internal/model"
)

const publishTimeout = 5 * time.Second

var connectHandler pahomqtt.OnConnectHandler = func(client pahomqtt.Client) {
	log.Info().Msg("connected to MQTT broker")
}

var connectLostHandler pahomqtt.ConnectionLostHandler = func(client pahomqtt.Client, err error) {
	log.Warn().Err(err).Msg("MQTT connection lost")
}

// CreateMQTTClient connects to brokerURL. The client id gets a random suffix
// so several server instances can share a broker.
func CreateMQTTClient(brokerURL, clientName string) (pahomqtt.Client, error) {
	opts := pahomqtt.NewClientOptions()
	opts.AddBroker(brokerURL)
	opts.SetClientID(fmt.Sprintf("%s-%s", clientName, uuid.NewString()[:8]))
	opts.SetAutoReconnect(true)
	opts.SetConnectRetry(true)
	opts.OnConnect = connectHandler
	opts.OnConnectionLost = connectLostHandler

	client := pahomqtt.NewClient(opts)
	token := client.Connect()
	if !token.WaitTimeout(publishTimeout) {
		log.Warn().Str("broker", brokerURL).Msg("MQTT broker not reachable yet, will keep retrying")
		return client, nil
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("failed to connect to MQTT broker: %w", err)
	}
	return client, nil
}

// publisher is the part of the paho client the sink uses.
type publisher interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) pahomqtt.Token
}

// Sink implements board.Sink. It publishes the snapshot (retained) whenever
// the schedule is rebuilt, and an adhan event when a countdown target is
// reached. Per-second countdown ticks are not published.
type Sink struct {
	client publisher
	prefix string
}

func NewSink(client publisher, prefix string) *Sink {
	return &Sink{client: client, prefix: strings.TrimSuffix(prefix, "/")}
}

func (s *Sink) ScheduleTopic() string { return s.prefix + "/schedule" }
func (s *Sink) AdhanTopic() string    { return s.prefix + "/adhan" }

// AdhanEvent is published when a prayer time arrives.
type AdhanEvent struct {
	Locality string           `json:"locality"`
	Date     string           `json:"date"`
	Prayer   model.PrayerSlot `json:"prayer"`
	Label    string           `json:"label"`
	At       time.Time        `json:"at"`
}

func (s *Sink) Render(snap model.Snapshot) {
	if snap.Elapsed != nil {
		s.publish(s.AdhanTopic(), false, AdhanEvent{
			Locality: snap.Locality,
			Date:     snap.Date,
			Prayer:   snap.Elapsed.Slot,
			Label:    snap.Elapsed.Label,
			At:       snap.GeneratedAt,
		})
	}
	if snap.Rebuilt {
		s.publish(s.ScheduleTopic(), true, snap)
	}
}

// publish never blocks the caller; delivery failures are only logged.
func (s *Sink) publish(topic string, retained bool, v any) {
	payload, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Str("topic", topic).Msg("failed to encode MQTT payload")
		return
	}
	token := s.client.Publish(topic, 1, retained, payload)
	go func() {
		if !token.WaitTimeout(publishTimeout) {
			log.Warn().Str("topic", topic).Msg("MQTT publish timed out")
			return
		}
		if err := token.Error(); err != nil {
			log.Error().Err(err).Str("topic", topic).Msg("MQTT publish failed")
		}
	}()
}
