package obsws

import "encoding/json"

// Event is the generic envelope for a server-pushed notification. Data holds
// the full message so handlers can decode event-specific fields.
type Event struct {
	Type string
	Data json.RawMessage
}

// Unmarshal decodes the event payload into v.
func (e Event) Unmarshal(v any) error {
	return json.Unmarshal(e.Data, v)
}

// StreamingStatus reports the output state of the OBS instance.
type StreamingStatus struct {
	Streaming      bool   `json:"streaming"`
	Recording      bool   `json:"recording"`
	StreamTimecode string `json:"stream-timecode,omitempty"`
	RecTimecode    string `json:"rec-timecode,omitempty"`
	PreviewOnly    bool   `json:"preview-only"`
}

// StreamSettings describes the configured streaming output.
type StreamSettings struct {
	Type     string               `json:"type"`
	Settings StreamServerSettings `json:"settings"`
}

// StreamServerSettings holds the ingest server parameters.
type StreamServerSettings struct {
	Server   string `json:"server,omitempty"`
	Key      string `json:"key,omitempty"`
	UseAuth  bool   `json:"use_auth,omitempty"`
	Username string `json:"username,omitempty"`
	Password string `json:"password,omitempty"`
}

// Scene is a scene with its source items.
type Scene struct {
	Name    string      `json:"name"`
	Sources []SceneItem `json:"sources"`
}

// SceneItem is one source within a scene. Render reports visibility.
type SceneItem struct {
	ID     int     `json:"id"`
	Name   string  `json:"name"`
	Type   string  `json:"type"`
	Render bool    `json:"render"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	CX     float64 `json:"cx"`
	CY     float64 `json:"cy"`
}

// StudioModeStatus reports whether studio mode is active.
type StudioModeStatus struct {
	Enabled bool `json:"studio-mode"`
}

// Media playback states reported by GetMediaState.
const (
	MediaStateNone      = "none"
	MediaStatePlaying   = "playing"
	MediaStateOpening   = "opening"
	MediaStateBuffering = "buffering"
	MediaStatePaused    = "paused"
	MediaStateStopped   = "stopped"
	MediaStateEnded     = "ended"
	MediaStateError     = "error"
)

// MediaState is the playback state of one media source.
type MediaState struct {
	State string `json:"mediaState"`
}
