package port

import (
	"context"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/mirzahilmi/stacy/internal/common/config"
	"github.com/rs/zerolog/log"
)

type mqttPublisher interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token
	Disconnect(quiesce uint)
}

// MQTTSink forwards pushed events to a broker topic so other services can
// consume them without holding their own websocket.
type MQTTSink struct {
	client mqttPublisher
	topic  string
	qos    byte
}

func NewMQTTSink(cfg config.Mqtt) (*MQTTSink, error) {
	if cfg.BrokerUrl == "" {
		return nil, fmt.Errorf("mqtt: missing broker url")
	}

	opts := mqtt.NewClientOptions().
		AddBroker(cfg.BrokerUrl).
		SetClientID(cfg.ClientId).
		SetUsername(cfg.Username).
		SetPassword(cfg.Password).
		SetAutoReconnect(true).
		SetConnectTimeout(10 * time.Second)
	opts.SetOnConnectHandler(func(c mqtt.Client) {
		log.Debug().Str("broker", cfg.BrokerUrl).Msg("mqtt: connected")
	})
	opts.SetConnectionLostHandler(func(c mqtt.Client, err error) {
		log.Warn().Err(err).Msg("mqtt: connection lost")
	})

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		log.Error().Err(token.Error()).Msg("mqtt: failed to connect broker")
		return nil, token.Error()
	}
	return newMQTTSink(client, cfg.Topic, cfg.Qos), nil
}

func newMQTTSink(client mqttPublisher, topic string, qos byte) *MQTTSink {
	return &MQTTSink{client, topic, qos}
}

func (s *MQTTSink) Handle(ctx context.Context, event Event) error {
	token := s.client.Publish(s.topic, s.qos, false, event.Payload)
	select {
	case <-token.Done():
	case <-ctx.Done():
		return ctx.Err()
	}
	if err := token.Error(); err != nil {
		log.Error().
			Err(err).
			Str("topic", s.topic).
			Msg("mqtt: failed to publish event")
		return err
	}
	return nil
}

func (s *MQTTSink) Close() {
	s.client.Disconnect(250)
}
