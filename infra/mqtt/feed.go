package mqtt

import (
	"encoding/json"
	"fmt"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"

	"github.com/kilianp07/sitepower/core/model"
	"github.com/kilianp07/sitepower/infra/logger"
)

// Config defines the connection parameters for the Paho MQTT client.
type Config struct {
	Broker    string `json:"broker"`
	ClientID  string `json:"client_id"`
	Username  string `json:"username"`
	Password  string `json:"password"`
	Topic     string `json:"topic"`
	QoS       byte   `json:"qos"`
	TimeoutMS int    `json:"timeout_ms"`
}

// Validate checks the mandatory connection fields.
func (c Config) Validate() error {
	if c.Broker == "" {
		return fmt.Errorf("mqtt broker is required")
	}
	if c.Topic == "" {
		return fmt.Errorf("mqtt topic is required")
	}
	return nil
}

// Sample is the wire format published by the site telemetry: one condition
// snapshot plus the demand measured over the same interval.
type Sample struct {
	model.ConditionRecord
	DemandKW float64 `json:"demand_kw"`
}

// Handler consumes decoded samples in timestamp order.
type Handler func(Sample)

// Feed subscribes to the telemetry topic and forwards decoded samples to the
// handler. Malformed payloads are logged and dropped.
type Feed struct {
	cli     paho.Client
	topic   string
	qos     byte
	handler Handler
	log     logger.Logger
	timeout time.Duration
}

// NewFeed connects to the broker. Start must be called to begin consuming.
func NewFeed(cfg Config, handler Handler) (*Feed, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if handler == nil {
		return nil, fmt.Errorf("mqtt feed handler is required")
	}
	timeout := time.Duration(cfg.TimeoutMS) * time.Millisecond
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	opts := paho.NewClientOptions().
		AddBroker(cfg.Broker).
		SetClientID(cfg.ClientID).
		SetUsername(cfg.Username).
		SetPassword(cfg.Password).
		SetAutoReconnect(true)

	f := &Feed{
		topic:   cfg.Topic,
		qos:     cfg.QoS,
		handler: handler,
		log:     logger.New("condition-feed"),
		timeout: timeout,
	}
	f.cli = paho.NewClient(opts)
	tok := f.cli.Connect()
	if !tok.WaitTimeout(timeout) {
		return nil, fmt.Errorf("mqtt connect timeout after %s", timeout)
	}
	if err := tok.Error(); err != nil {
		return nil, fmt.Errorf("mqtt connect: %w", err)
	}
	return f, nil
}

// Start subscribes to the telemetry topic.
func (f *Feed) Start() error {
	tok := f.cli.Subscribe(f.topic, f.qos, func(_ paho.Client, msg paho.Message) {
		var s Sample
		if err := json.Unmarshal(msg.Payload(), &s); err != nil {
			f.log.Warnf("dropping malformed sample on %s: %v", msg.Topic(), err)
			return
		}
		f.handler(s)
	})
	if !tok.WaitTimeout(f.timeout) {
		return fmt.Errorf("mqtt subscribe timeout after %s", f.timeout)
	}
	if err := tok.Error(); err != nil {
		return fmt.Errorf("mqtt subscribe %s: %w", f.topic, err)
	}
	f.log.Infof("subscribed to %s", f.topic)
	return nil
}

// Close disconnects from the broker.
func (f *Feed) Close() {
	f.cli.Disconnect(250)
}
