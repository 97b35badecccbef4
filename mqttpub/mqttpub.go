// Package mqttpub publishes thermal frames as JSON messages over MQTT.
package mqttpub

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/flavioheleno/thermcam/amg88xx"
)

// Opts is the configuration for the MQTT publisher.
type Opts struct {
	Broker   string        // Broker URL, e.g. tcp://localhost:1883
	ClientID string        // Client identifier
	Topic    string        // Topic frames are published to
	QoS      byte          // Quality of service, 0 to 2
	Timeout  time.Duration // Per operation timeout (default: 2s)
}

// Message is the JSON payload of one frame.
type Message struct {
	Timestamp int64                   `json:"timestamp"` // Unix milliseconds
	Pixels    [amg88xx.Pixels]float64 `json:"pixels"`    // °C, sensor order
	Min       float64                 `json:"min"`
	Max       float64                 `json:"max"`
}

// NewMessage builds the payload for f, taken at ts.
func NewMessage(f *amg88xx.Frame, ts time.Time) Message {
	lo, hi := f.MinMax()
	return Message{
		Timestamp: ts.UnixMilli(),
		Pixels:    *f,
		Min:       lo,
		Max:       hi,
	}
}

var errTimeout = errors.New("mqttpub: timed out")

// Client publishes frames to a single topic.
type Client struct {
	c       mqtt.Client
	topic   string
	qos     byte
	timeout time.Duration
	now     func() time.Time
}

// New connects to the broker.
func New(opts *Opts) (*Client, error) {
	if opts == nil || opts.Broker == "" {
		return nil, errors.New("mqttpub: broker is required")
	}
	if opts.Topic == "" {
		return nil, errors.New("mqttpub: topic is required")
	}
	if opts.QoS > 2 {
		return nil, fmt.Errorf("mqttpub: invalid QoS %d", opts.QoS)
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 2 * time.Second
	}

	o := mqtt.NewClientOptions().AddBroker(opts.Broker).SetClientID(opts.ClientID)
	o.SetKeepAlive(2 * time.Second)
	o.SetPingTimeout(1 * time.Second)
	o.SetConnectTimeout(timeout)
	o.SetAutoReconnect(true)

	c := mqtt.NewClient(o)
	if err := wait(c.Connect(), timeout); err != nil {
		return nil, fmt.Errorf("mqttpub: failed to connect to %s: %w", opts.Broker, err)
	}
	return newClient(c, opts.Topic, opts.QoS, timeout), nil
}

func newClient(c mqtt.Client, topic string, qos byte, timeout time.Duration) *Client {
	return &Client{c: c, topic: topic, qos: qos, timeout: timeout, now: time.Now}
}

// Publish sends f to the topic and waits for the broker to accept it.
func (c *Client) Publish(f *amg88xx.Frame) error {
	payload, err := json.Marshal(NewMessage(f, c.now()))
	if err != nil {
		return err
	}
	if err := wait(c.c.Publish(c.topic, c.qos, false, payload), c.timeout); err != nil {
		return fmt.Errorf("mqttpub: failed to publish to %s: %w", c.topic, err)
	}
	return nil
}

// Close disconnects from the broker.
func (c *Client) Close() {
	c.c.Disconnect(250)
}

func wait(t mqtt.Token, timeout time.Duration) error {
	if !t.WaitTimeout(timeout) {
		return errTimeout
	}
	return t.Error()
}
