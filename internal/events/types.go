package events

// Event type constants for kelindar/event.
const (
	TypeConnectionState uint32 = iota + 1
	TypeSceneSwitched
	TypeStreamStateChanged
	TypeStudioModeChanged
	TypeMediaStateChanged
	TypeSourceVisibility
	TypeTallyChanged
)

// Event interface required by kelindar/event.
type Event interface {
	Type() uint32
}

// ConnectionStateEvent is published when the OBS connection comes up or drops.
type ConnectionStateEvent struct {
	Connected bool   `json:"connected" example:"true" doc:"Whether the OBS connection is established"`
	Addr      string `json:"addr" example:"localhost:4444" doc:"OBS websocket address"`
	Error     string `json:"error,omitempty" doc:"Connection error, set when connected is false"`
	Timestamp string `json:"timestamp" example:"2025-01-27T10:30:00Z" doc:"Event timestamp"`
}

// Type returns the event type identifier for ConnectionStateEvent.
func (e ConnectionStateEvent) Type() uint32 { return TypeConnectionState }

// SceneSwitchedEvent is published when the program scene changes.
type SceneSwitchedEvent struct {
	Scene     string `json:"scene" example:"Live" doc:"Name of the new program scene"`
	Timestamp string `json:"timestamp" example:"2025-01-27T10:30:00Z" doc:"Event timestamp"`
}

// Type returns the event type identifier for SceneSwitchedEvent.
func (e SceneSwitchedEvent) Type() uint32 { return TypeSceneSwitched }

// StreamStateChangedEvent reflects the streaming and recording outputs.
// Used for LED tally control and other reactive subsystems.
type StreamStateChangedEvent struct {
	Streaming bool   `json:"streaming" example:"true" doc:"Whether the stream output is active"`
	Recording bool   `json:"recording" example:"false" doc:"Whether the recording output is active"`
	Timecode  string `json:"timecode,omitempty" example:"00:02:11.349" doc:"Stream timecode when streaming"`
	Timestamp string `json:"timestamp" example:"2025-01-27T10:30:00Z" doc:"Event timestamp"`
}

// Type returns the event type identifier for StreamStateChangedEvent.
func (e StreamStateChangedEvent) Type() uint32 { return TypeStreamStateChanged }

// IsLive implements the OutputStateEvent interface for the tally manager.
func (e StreamStateChangedEvent) IsLive() bool {
	return e.Streaming
}

// StudioModeChangedEvent is published when studio mode is toggled.
type StudioModeChangedEvent struct {
	Enabled   bool   `json:"enabled" example:"true" doc:"Whether studio mode is active"`
	Timestamp string `json:"timestamp" example:"2025-01-27T10:30:00Z" doc:"Event timestamp"`
}

// Type returns the event type identifier for StudioModeChangedEvent.
func (e StudioModeChangedEvent) Type() uint32 { return TypeStudioModeChanged }

// MediaStateChangedEvent tracks media source playback transitions.
type MediaStateChangedEvent struct {
	Source    string `json:"source" example:"intro.mp4" doc:"Media source name"`
	State     string `json:"state" example:"playing" doc:"New playback state"`
	Timestamp string `json:"timestamp" example:"2025-01-27T10:30:00Z" doc:"Event timestamp"`
}

// Type returns the event type identifier for MediaStateChangedEvent.
func (e MediaStateChangedEvent) Type() uint32 { return TypeMediaStateChanged }

// SourceVisibilityEvent is published when a scene item is shown or hidden.
type SourceVisibilityEvent struct {
	Scene     string `json:"scene" example:"Live" doc:"Scene containing the source"`
	Source    string `json:"source" example:"Webcam" doc:"Source name"`
	Visible   bool   `json:"visible" example:"true" doc:"Whether the source is rendered"`
	Timestamp string `json:"timestamp" example:"2025-01-27T10:30:00Z" doc:"Event timestamp"`
}

// Type returns the event type identifier for SourceVisibilityEvent.
func (e SourceVisibilityEvent) Type() uint32 { return TypeSourceVisibility }

// TallyChangedEvent is published by the tally manager when the light changes.
type TallyChangedEvent struct {
	Mode      string `json:"mode" example:"solid" doc:"Tally mode: off, solid, blink"`
	Scene     string `json:"scene,omitempty" example:"Live" doc:"Program scene at the time of the change"`
	Timestamp string `json:"timestamp" example:"2025-01-27T10:30:00Z" doc:"Event timestamp"`
}

// Type returns the event type identifier for TallyChangedEvent.
func (e TallyChangedEvent) Type() uint32 { return TypeTallyChanged }
