// Package natsbridge exports bus events to a NATS server so other systems
// on the network (vision mixers, dashboards, automation) can react to OBS
// state without speaking the OBS websocket protocol themselves.
package natsbridge

import (
	"sync"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/smazurov/obsctl/internal/events"
	"github.com/smazurov/obsctl/internal/logging"
)

const eventBufferSize = 256

// Bridge forwards event bus traffic to NATS subjects under obsctl.events.
// It degrades gracefully: when NATS is unreachable the rest of the daemon
// keeps working and events are dropped.
type Bridge struct {
	url      string
	eventBus *events.Bus
	logger   logging.Logger

	mu     sync.Mutex
	conn   *nats.Conn
	unsubs []func()
	ch     chan any
	done   chan struct{}
	wg     sync.WaitGroup
}

// New creates a NATS bridge for an event bus.
func New(url string, eventBus *events.Bus, logger logging.Logger) *Bridge {
	if logger == nil {
		logger = logging.GetLogger("nats")
	}
	return &Bridge{
		url:      url,
		eventBus: eventBus,
		logger:   logger,
	}
}

// Start connects to NATS and begins forwarding events.
func (b *Bridge) Start() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	conn, err := nats.Connect(b.url,
		nats.Name("obsctl-bridge"),
		nats.ReconnectWait(2*time.Second),
		nats.MaxReconnects(-1),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				b.logger.Warn("NATS disconnected", "error", err)
			}
		}),
		nats.ReconnectHandler(func(_ *nats.Conn) {
			b.logger.Info("NATS reconnected")
		}),
	)
	if err != nil {
		b.logger.Warn("Failed to connect to NATS, events will not be exported", "error", err)
		return err
	}

	b.conn = conn
	b.ch = make(chan any, eventBufferSize)
	b.done = make(chan struct{})
	b.logger.Info("NATS bridge connected", "url", b.url)

	// One channel subscription per exported event type; the forward loop
	// serializes publishing.
	b.unsubs = append(b.unsubs,
		events.SubscribeToChannel[events.SceneSwitchedEvent](b.eventBus, b.ch),
		events.SubscribeToChannel[events.StreamStateChangedEvent](b.eventBus, b.ch),
		events.SubscribeToChannel[events.StudioModeChangedEvent](b.eventBus, b.ch),
		events.SubscribeToChannel[events.MediaStateChangedEvent](b.eventBus, b.ch),
		events.SubscribeToChannel[events.SourceVisibilityEvent](b.eventBus, b.ch),
		events.SubscribeToChannel[events.TallyChangedEvent](b.eventBus, b.ch),
		events.SubscribeToChannel[events.ConnectionStateEvent](b.eventBus, b.ch),
	)

	b.wg.Add(1)
	go b.forward(b.ch, b.done)

	return nil
}

// forward drains bus events and publishes them to NATS.
func (b *Bridge) forward(ch chan any, done chan struct{}) {
	defer b.wg.Done()

	for {
		select {
		case ev := <-ch:
			b.publish(ev)
		case <-done:
			return
		}
	}
}

func (b *Bridge) publish(ev any) {
	subject, data, err := encode(ev)
	if err != nil {
		b.logger.Warn("Failed to encode event", "error", err)
		return
	}

	b.mu.Lock()
	conn := b.conn
	b.mu.Unlock()
	if conn == nil {
		return
	}

	if err := conn.Publish(subject, data); err != nil {
		b.logger.Warn("Failed to publish event", "subject", subject, "error", err)
		return
	}
	b.logger.Debug("Published event", "subject", subject)
}

// IsConnected returns true if the bridge is connected to NATS.
func (b *Bridge) IsConnected() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.conn != nil && b.conn.IsConnected()
}

// Stop unsubscribes from the bus and closes the NATS connection.
func (b *Bridge) Stop() {
	b.mu.Lock()
	for _, unsub := range b.unsubs {
		unsub()
	}
	b.unsubs = nil

	if b.done != nil {
		close(b.done)
		b.done = nil
	}
	b.mu.Unlock()

	b.wg.Wait()

	b.mu.Lock()
	if b.conn != nil {
		b.conn.Close()
		b.conn = nil
	}
	b.mu.Unlock()

	b.logger.Info("NATS bridge stopped")
}
