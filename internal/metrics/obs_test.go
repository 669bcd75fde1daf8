package metrics

import "testing"

func TestStateCache(t *testing.T) {
	SetConnected(true)
	SetStreaming(true)
	SetRecording(false)
	SetScene("Live")

	state := GetState()
	if !state.Connected {
		t.Error("Expected connected state")
	}
	if !state.Streaming {
		t.Error("Expected streaming state")
	}
	if state.Recording {
		t.Error("Expected recording to be off")
	}
	if state.Scene != "Live" {
		t.Errorf("Expected scene Live, got %q", state.Scene)
	}

	SetStreaming(false)
	if GetState().Streaming {
		t.Error("Expected streaming to be cleared")
	}
	// Other fields keep their values
	if !GetState().Connected {
		t.Error("Connected state should be untouched by SetStreaming")
	}
}

func TestBoolToGauge(t *testing.T) {
	if boolToGauge(true) != 1 {
		t.Error("Expected 1 for true")
	}
	if boolToGauge(false) != 0 {
		t.Error("Expected 0 for false")
	}
}
