// Package monitor tracks one OBS instance and republishes its state changes
// on the internal event bus. It listens for push events from OBS and backs
// them with periodic status polls, so subscribers converge on the real output
// state even when events are missed across reconnects.
package monitor

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/smazurov/obsctl/internal/events"
	"github.com/smazurov/obsctl/internal/logging"
	"github.com/smazurov/obsctl/internal/metrics"
	"github.com/smazurov/obsctl/pkg/obsws"
)

const (
	defaultPollInterval = 5 * time.Second
	pollTimeout         = 5 * time.Second
)

// Monitor bridges an OBS connection to the event bus and Prometheus metrics.
type Monitor struct {
	client *obsws.Client
	bus    *events.Bus
	logger logging.Logger

	pollInterval time.Duration

	mu            sync.Mutex
	lastStreaming bool
	lastRecording bool
	lastScene     string
	seeded        bool

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// Option configures a Monitor.
type Option func(*Monitor)

// WithPollInterval sets the status poll interval. Default is 5s.
func WithPollInterval(d time.Duration) Option {
	return func(m *Monitor) {
		if d > 0 {
			m.pollInterval = d
		}
	}
}

// New creates a monitor for an established OBS client.
func New(client *obsws.Client, bus *events.Bus, opts ...Option) *Monitor {
	ctx, cancel := context.WithCancel(context.Background())
	m := &Monitor{
		client:       client,
		bus:          bus,
		logger:       logging.GetLogger("monitor"),
		pollInterval: defaultPollInterval,
		ctx:          ctx,
		cancel:       cancel,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Start registers the event handler and begins status polling.
func (m *Monitor) Start() {
	m.client.OnEvent(m.handleEvent)

	m.wg.Add(1)
	go m.pollLoop()

	m.logger.Info("Monitor started", "poll_interval", m.pollInterval.String())
}

// Stop halts polling. Event handlers stay registered until the client closes.
func (m *Monitor) Stop() {
	m.cancel()
	m.wg.Wait()
	m.logger.Info("Monitor stopped")
}

// handleEvent translates OBS push events into bus events.
func (m *Monitor) handleEvent(_ *obsws.Client, ev obsws.Event) {
	metrics.CountEvent(ev.Type)
	now := timestamp()

	switch ev.Type {
	case "SwitchScenes":
		var payload struct {
			SceneName string `json:"scene-name"`
		}
		if err := ev.Unmarshal(&payload); err != nil {
			m.logger.Warn("Bad SwitchScenes payload", "error", err)
			return
		}
		m.setScene(payload.SceneName, now)

	case "StreamStarted":
		m.setOutputs(true, m.recordingState(), "", now)
	case "StreamStopped":
		m.setOutputs(false, m.recordingState(), "", now)
	case "RecordingStarted":
		m.setOutputs(m.streamingState(), true, "", now)
	case "RecordingStopped":
		m.setOutputs(m.streamingState(), false, "", now)

	case "StudioModeSwitched":
		var payload struct {
			NewState bool `json:"new-state"`
		}
		if err := ev.Unmarshal(&payload); err != nil {
			m.logger.Warn("Bad StudioModeSwitched payload", "error", err)
			return
		}
		m.bus.Publish(events.StudioModeChangedEvent{
			Enabled:   payload.NewState,
			Timestamp: now,
		})

	case "SceneItemVisibilityChanged":
		var payload struct {
			SceneName   string `json:"scene-name"`
			ItemName    string `json:"item-name"`
			ItemVisible bool   `json:"item-visible"`
		}
		if err := ev.Unmarshal(&payload); err != nil {
			m.logger.Warn("Bad SceneItemVisibilityChanged payload", "error", err)
			return
		}
		m.bus.Publish(events.SourceVisibilityEvent{
			Scene:     payload.SceneName,
			Source:    payload.ItemName,
			Visible:   payload.ItemVisible,
			Timestamp: now,
		})

	case "MediaPlaying", "MediaPaused", "MediaRestarted", "MediaStopped", "MediaStarted", "MediaEnded":
		var payload struct {
			SourceName string `json:"sourceName"`
		}
		if err := ev.Unmarshal(&payload); err != nil {
			m.logger.Warn("Bad media event payload", "update_type", ev.Type, "error", err)
			return
		}
		m.bus.Publish(events.MediaStateChangedEvent{
			Source:    payload.SourceName,
			State:     mediaState(ev.Type),
			Timestamp: now,
		})
	}
}

// pollLoop reconciles output state against OBS at a fixed interval. Polling
// catches transitions whose events were lost while the connection was down.
func (m *Monitor) pollLoop() {
	defer m.wg.Done()

	ticker := time.NewTicker(m.pollInterval)
	defer ticker.Stop()

	m.poll()

	for {
		select {
		case <-ticker.C:
			m.poll()
		case <-m.ctx.Done():
			return
		}
	}
}

func (m *Monitor) poll() {
	ctx, cancel := context.WithTimeout(m.ctx, pollTimeout)
	defer cancel()

	status, err := m.client.GetStreamingStatus(ctx)
	if err != nil {
		if m.ctx.Err() == nil {
			metrics.CountPollError()
			m.logger.Warn("Status poll failed", "error", err)
		}
		return
	}
	m.setOutputs(status.Streaming, status.Recording, status.StreamTimecode, timestamp())

	scene, err := m.client.GetCurrentScene(ctx)
	if err != nil {
		if m.ctx.Err() == nil {
			metrics.CountPollError()
			m.logger.Warn("Scene poll failed", "error", err)
		}
		return
	}
	m.setScene(scene.Name, timestamp())
}

// setOutputs records the output state and publishes when it changed.
func (m *Monitor) setOutputs(streaming, recording bool, timecode, now string) {
	m.mu.Lock()
	changed := !m.seeded || streaming != m.lastStreaming || recording != m.lastRecording
	m.lastStreaming = streaming
	m.lastRecording = recording
	m.seeded = true
	m.mu.Unlock()

	if !changed {
		return
	}

	metrics.SetStreaming(streaming)
	metrics.SetRecording(recording)
	m.logger.Info("Output state changed", "streaming", streaming, "recording", recording)
	m.bus.Publish(events.StreamStateChangedEvent{
		Streaming: streaming,
		Recording: recording,
		Timecode:  timecode,
		Timestamp: now,
	})
}

func (m *Monitor) setScene(scene, now string) {
	m.mu.Lock()
	changed := scene != m.lastScene
	m.lastScene = scene
	m.mu.Unlock()

	if !changed {
		return
	}

	metrics.SetScene(scene)
	m.logger.Info("Scene switched", "scene", scene)
	m.bus.Publish(events.SceneSwitchedEvent{
		Scene:     scene,
		Timestamp: now,
	})
}

func (m *Monitor) streamingState() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastStreaming
}

func (m *Monitor) recordingState() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastRecording
}

// mediaState derives the playback state from the update type,
// e.g. "MediaPlaying" -> "playing".
func mediaState(updateType string) string {
	return strings.ToLower(strings.TrimPrefix(updateType, "Media"))
}

func timestamp() string {
	return time.Now().UTC().Format(time.RFC3339)
}
