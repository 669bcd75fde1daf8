// Package metrics provides Prometheus metrics for the OBS connection.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	obsConnected = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "obsctl",
		Subsystem: "obs",
		Name:      "connected",
		Help:      "Whether the OBS websocket connection is established",
	})

	obsStreaming = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "obsctl",
		Subsystem: "obs",
		Name:      "streaming",
		Help:      "Whether the OBS stream output is active",
	})

	obsRecording = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "obsctl",
		Subsystem: "obs",
		Name:      "recording",
		Help:      "Whether the OBS recording output is active",
	})

	obsEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "obsctl",
		Subsystem: "obs",
		Name:      "events_total",
		Help:      "OBS events received, by update type",
	}, []string{"update_type"})

	obsPollErrors = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "obsctl",
		Subsystem: "obs",
		Name:      "poll_errors_total",
		Help:      "Failed status polls against OBS",
	})

	// Local cache so the monitor can answer state queries without
	// round-tripping to OBS.
	stateCache   ObsState
	stateCacheMu sync.RWMutex
)

// ObsState holds the last observed OBS output state.
type ObsState struct {
	Connected bool
	Streaming bool
	Recording bool
	Scene     string
}

// SetConnected records the connection state.
func SetConnected(connected bool) {
	obsConnected.Set(boolToGauge(connected))
	updateState(func(s *ObsState) { s.Connected = connected })
}

// SetStreaming records the stream output state.
func SetStreaming(streaming bool) {
	obsStreaming.Set(boolToGauge(streaming))
	updateState(func(s *ObsState) { s.Streaming = streaming })
}

// SetRecording records the recording output state.
func SetRecording(recording bool) {
	obsRecording.Set(boolToGauge(recording))
	updateState(func(s *ObsState) { s.Recording = recording })
}

// SetScene records the current program scene.
func SetScene(scene string) {
	updateState(func(s *ObsState) { s.Scene = scene })
}

// CountEvent increments the event counter for an update type.
func CountEvent(updateType string) {
	obsEvents.WithLabelValues(updateType).Inc()
}

// CountPollError increments the failed poll counter.
func CountPollError() {
	obsPollErrors.Inc()
}

// GetState returns a copy of the last observed OBS state.
func GetState() ObsState {
	stateCacheMu.RLock()
	defer stateCacheMu.RUnlock()
	return stateCache
}

func updateState(update func(*ObsState)) {
	stateCacheMu.Lock()
	defer stateCacheMu.Unlock()
	update(&stateCache)
}

func boolToGauge(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
