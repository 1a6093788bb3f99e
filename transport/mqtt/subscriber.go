// Package mqtt subscribes to an MQTT topic carrying JSON IMU messages and
// hands every decoded message to an Acceptor, typically a session.
package mqtt

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cwbudde/algo-vibration/imu"
)

// Acceptor receives decoded messages.
type Acceptor interface {
	Accept(msg imu.Message)
}

// Config holds broker connection settings.
type Config struct {
	Broker   string
	Topic    string
	QoS      byte
	ClientID string
	Username string
	Password string
}

// Subscriber delivers the messages of one topic to an Acceptor.
type Subscriber struct {
	cfg    Config
	sink   Acceptor
	logger *zap.Logger
	client paho.Client

	received     atomic.Uint64
	decodeErrors atomic.Uint64
}

// NewClientOptions builds the paho options for cfg. An empty ClientID is
// replaced by a random one.
func NewClientOptions(cfg Config, logger *zap.Logger) *paho.ClientOptions {
	if logger == nil {
		logger = zap.NewNop()
	}

	clientID := cfg.ClientID
	if clientID == "" {
		clientID = "imuvib_" + uuid.NewString()
	}

	opts := paho.NewClientOptions()
	opts.AddBroker(cfg.Broker)
	opts.SetClientID(clientID)
	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
	}
	if cfg.Password != "" {
		opts.SetPassword(cfg.Password)
	}

	opts.SetAutoReconnect(true)
	opts.SetConnectRetry(true)
	opts.SetConnectRetryInterval(5 * time.Second)
	opts.SetKeepAlive(30 * time.Second)
	opts.SetPingTimeout(10 * time.Second)

	opts.SetConnectionLostHandler(func(_ paho.Client, err error) {
		logger.Warn("mqtt connection lost", zap.Error(err))
	})
	opts.SetReconnectingHandler(func(_ paho.Client, _ *paho.ClientOptions) {
		logger.Info("mqtt reconnecting")
	})
	return opts
}

// New returns a subscriber that is not yet connected.
func New(cfg Config, sink Acceptor, logger *zap.Logger) *Subscriber {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Subscriber{
		cfg:    cfg,
		sink:   sink,
		logger: logger.With(zap.String("broker", cfg.Broker), zap.String("topic", cfg.Topic)),
	}

	opts := NewClientOptions(cfg, s.logger)
	// Resubscribe on every (re)connect; the session persists across drops.
	opts.SetOnConnectHandler(func(c paho.Client) {
		s.logger.Info("mqtt connected")
		if tok := c.Subscribe(cfg.Topic, cfg.QoS, s.Handle); tok.Wait() && tok.Error() != nil {
			s.logger.Error("mqtt subscribe failed", zap.Error(tok.Error()))
		}
	})
	s.client = paho.NewClient(opts)
	return s
}

// Start connects to the broker. It returns once the first connection
// attempt completes or ctx is done.
func (s *Subscriber) Start(ctx context.Context) error {
	tok := s.client.Connect()
	select {
	case <-tok.Done():
	case <-ctx.Done():
		return ctx.Err()
	}
	if err := tok.Error(); err != nil {
		return fmt.Errorf("mqtt: connect %s: %w", s.cfg.Broker, err)
	}
	return nil
}

// Stop unsubscribes and disconnects, waiting up to 250 ms for in-flight work.
func (s *Subscriber) Stop() {
	if s.client.IsConnected() {
		s.client.Unsubscribe(s.cfg.Topic).WaitTimeout(time.Second)
	}
	s.client.Disconnect(250)
	s.logger.Info("mqtt disconnected",
		zap.Uint64("received", s.received.Load()),
		zap.Uint64("decode_errors", s.decodeErrors.Load()))
}

// Handle decodes one MQTT message and forwards it. Malformed payloads are
// logged and counted, never forwarded.
func (s *Subscriber) Handle(_ paho.Client, msg paho.Message) {
	m, err := imu.Decode(msg.Payload())
	if err != nil {
		s.decodeErrors.Add(1)
		s.logger.Debug("dropping malformed message", zap.String("msg_topic", msg.Topic()), zap.Error(err))
		return
	}
	s.received.Add(1)
	s.sink.Accept(m)
}

// Received returns the number of forwarded messages.
func (s *Subscriber) Received() uint64 { return s.received.Load() }

// DecodeErrors returns the number of malformed payloads.
func (s *Subscriber) DecodeErrors() uint64 { return s.decodeErrors.Load() }
