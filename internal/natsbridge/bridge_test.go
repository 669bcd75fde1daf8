package natsbridge

import (
	"encoding/json"
	"testing"

	"github.com/smazurov/obsctl/internal/events"
)

func TestEncodeSubjects(t *testing.T) {
	tests := []struct {
		name    string
		event   any
		subject string
	}{
		{"scene", events.SceneSwitchedEvent{Scene: "Live"}, "obsctl.events.scene"},
		{"stream", events.StreamStateChangedEvent{Streaming: true}, "obsctl.events.stream"},
		{"studio", events.StudioModeChangedEvent{Enabled: true}, "obsctl.events.studio"},
		{"media", events.MediaStateChangedEvent{Source: "intro.mp4"}, "obsctl.events.media"},
		{"source", events.SourceVisibilityEvent{Source: "Webcam"}, "obsctl.events.source"},
		{"tally", events.TallyChangedEvent{Mode: "solid"}, "obsctl.events.tally"},
		{"connection", events.ConnectionStateEvent{Connected: true}, "obsctl.events.connection"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			subject, data, err := encode(tt.event)
			if err != nil {
				t.Fatalf("encode failed: %v", err)
			}
			if subject != tt.subject {
				t.Errorf("Expected subject %q, got %q", tt.subject, subject)
			}

			var decoded map[string]any
			if err := json.Unmarshal(data, &decoded); err != nil {
				t.Fatalf("Payload is not valid JSON: %v", err)
			}
			if len(decoded) == 0 {
				t.Error("Payload decoded to empty object")
			}
		})
	}
}

func TestEncodeUnknownType(t *testing.T) {
	if _, _, err := encode(struct{}{}); err == nil {
		t.Error("Expected error for unexported event type")
	}
}

func TestSceneEventPayload(t *testing.T) {
	_, data, err := encode(events.SceneSwitchedEvent{
		Scene:     "Live",
		Timestamp: "2025-01-27T10:30:00Z",
	})
	if err != nil {
		t.Fatal(err)
	}

	var decoded struct {
		Scene     string `json:"scene"`
		Timestamp string `json:"timestamp"`
	}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatal(err)
	}
	if decoded.Scene != "Live" {
		t.Errorf("Expected scene Live, got %q", decoded.Scene)
	}
	if decoded.Timestamp != "2025-01-27T10:30:00Z" {
		t.Errorf("Unexpected timestamp %q", decoded.Timestamp)
	}
}

func TestStartUnreachableServer(t *testing.T) {
	bus := events.New()
	bridge := New("nats://127.0.0.1:1", bus, nil)

	if err := bridge.Start(); err == nil {
		bridge.Stop()
		t.Fatal("Expected connection error for unreachable NATS server")
	}

	// The daemon keeps running without the bridge.
	if bridge.IsConnected() {
		t.Error("Bridge should not report connected")
	}
}
