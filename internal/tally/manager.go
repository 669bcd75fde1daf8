package tally

import (
	"sync"
	"time"

	"github.com/smazurov/obsctl/internal/config"
	"github.com/smazurov/obsctl/internal/events"
	"github.com/smazurov/obsctl/internal/logging"
)

// Manager subscribes to OBS state events and drives the tally light.
//
// The light is solid while the configured scene is live on the program
// output, blinks while streaming is active on any other scene, and is off
// when not streaming.
type Manager struct {
	controller Controller
	eventBus   *events.Bus
	logger     logging.Logger

	mu        sync.Mutex
	cfg       config.TallyConfig
	streaming bool
	scene     string
	mode      Mode
	applied   bool

	unsubs []func()
}

// NewManager creates a tally manager that reacts to scene and output events.
func NewManager(controller Controller, eventBus *events.Bus, cfg config.TallyConfig, logger logging.Logger) *Manager {
	return &Manager{
		controller: controller,
		eventBus:   eventBus,
		logger:     logger,
		cfg:        cfg,
		mode:       ModeOff,
	}
}

// Start begins listening for state change events.
func (m *Manager) Start() {
	m.unsubs = append(m.unsubs,
		m.eventBus.Subscribe(func(e events.SceneSwitchedEvent) {
			m.mu.Lock()
			m.scene = e.Scene
			m.mu.Unlock()
			m.update()
		}),
		m.eventBus.Subscribe(func(e events.StreamStateChangedEvent) {
			m.mu.Lock()
			m.streaming = e.IsLive()
			m.mu.Unlock()
			m.update()
		}),
	)

	m.update()
	m.logger.Info("Tally manager started", "controller", m.controller.Name(), "scene", m.cfg.Scene)
}

// Stop unsubscribes from events and turns the light off.
func (m *Manager) Stop() {
	for _, unsub := range m.unsubs {
		unsub()
	}
	m.unsubs = nil

	if err := m.controller.Set(ModeOff); err != nil {
		m.logger.Warn("Failed to turn tally off", "error", err)
	}
	m.logger.Info("Tally manager stopped")
}

// ApplyConfig retargets the tally at runtime. Called by the config watcher
// when the tally file changes.
func (m *Manager) ApplyConfig(cfg config.TallyConfig) {
	m.mu.Lock()
	m.cfg = cfg
	m.mu.Unlock()

	if cfg.BlinkRateMs > 0 {
		m.controller.Configure(time.Duration(cfg.BlinkRateMs) * time.Millisecond)
	}

	m.logger.Info("Tally config reloaded", "scene", cfg.Scene)
	m.update()
}

// Mode returns the current light mode.
func (m *Manager) Mode() Mode {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.mode
}

// update recomputes the desired mode and drives the controller when it
// changed.
func (m *Manager) update() {
	m.mu.Lock()
	var mode Mode
	switch {
	case !m.streaming:
		mode = ModeOff
	case m.cfg.Scene == "" || m.scene == m.cfg.Scene:
		mode = ModeSolid
	default:
		mode = ModeBlink
	}
	changed := !m.applied || mode != m.mode
	m.mode = mode
	m.applied = true
	scene := m.scene
	m.mu.Unlock()

	if !changed {
		return
	}

	if err := m.controller.Set(mode); err != nil {
		m.logger.Warn("Failed to set tally light", "mode", string(mode), "error", err)
	}
	m.logger.Debug("Tally mode changed", "mode", string(mode), "scene", scene)

	m.eventBus.Publish(events.TallyChangedEvent{
		Mode:      string(mode),
		Scene:     scene,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}
