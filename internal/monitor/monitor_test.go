package monitor

import (
	"encoding/json"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/smazurov/obsctl/internal/events"
	"github.com/smazurov/obsctl/pkg/obsws"
)

// fakeConn is an in-memory obsws.MessageConn with a scripted server side.
type fakeConn struct {
	inbound  chan []byte
	outbound chan []byte
	closed   chan struct{}
	once     sync.Once
}

func newFakeConn() *fakeConn {
	return &fakeConn{
		inbound:  make(chan []byte, 16),
		outbound: make(chan []byte, 16),
		closed:   make(chan struct{}),
	}
}

func (c *fakeConn) ReadMessage() ([]byte, error) {
	select {
	case data := <-c.inbound:
		return data, nil
	case <-c.closed:
		return nil, errors.New("connection closed")
	}
}

func (c *fakeConn) WriteMessage(data []byte) error {
	select {
	case c.outbound <- data:
		return nil
	case <-c.closed:
		return errors.New("connection closed")
	}
}

func (c *fakeConn) Close() error {
	c.once.Do(func() { close(c.closed) })
	return nil
}

// serve answers requests with fn until the connection closes.
func (c *fakeConn) serve(t *testing.T, fn func(req map[string]any) map[string]any) {
	t.Helper()
	go func() {
		for {
			select {
			case data := <-c.outbound:
				var req map[string]any
				if err := json.Unmarshal(data, &req); err != nil {
					continue
				}
				reply, err := json.Marshal(fn(req))
				if err != nil {
					continue
				}
				select {
				case c.inbound <- reply:
				case <-c.closed:
					return
				}
			case <-c.closed:
				return
			}
		}
	}()
}

// idleResponder answers status polls with a fixed quiet state.
func idleResponder(req map[string]any) map[string]any {
	reply := map[string]any{
		"message-id": req["message-id"],
		"status":     "ok",
	}
	switch req["request-type"] {
	case "GetStreamingStatus":
		reply["streaming"] = false
		reply["recording"] = false
	case "GetCurrentScene":
		reply["name"] = "Standby"
	}
	return reply
}

// pushEvent injects an unsolicited event message.
func (c *fakeConn) pushEvent(t *testing.T, fields map[string]any) {
	t.Helper()
	data, err := json.Marshal(fields)
	if err != nil {
		t.Fatalf("marshal event: %v", err)
	}
	c.inbound <- data
}

func startMonitor(t *testing.T, conn *fakeConn, bus *events.Bus, opts ...Option) *Monitor {
	t.Helper()
	client := obsws.NewClient(conn)
	t.Cleanup(func() { client.Close() })

	if opts == nil {
		opts = []Option{WithPollInterval(time.Hour)}
	}
	m := New(client, bus, opts...)
	m.Start()
	t.Cleanup(m.Stop)
	return m
}

func TestSceneSwitchPublished(t *testing.T) {
	conn := newFakeConn()
	conn.serve(t, idleResponder)

	bus := events.New()
	scenes := make(chan events.SceneSwitchedEvent, 4)
	unsub := bus.Subscribe(func(e events.SceneSwitchedEvent) { scenes <- e })
	defer unsub()

	startMonitor(t, conn, bus)

	conn.pushEvent(t, map[string]any{
		"update-type": "SwitchScenes",
		"scene-name":  "Live",
	})

	deadline := time.After(2 * time.Second)
	for {
		select {
		case e := <-scenes:
			if e.Scene == "Live" {
				return
			}
			// Initial poll may report the standby scene first.
		case <-deadline:
			t.Fatal("timeout waiting for scene event")
		}
	}
}

func TestStreamEventsToggleOutputs(t *testing.T) {
	conn := newFakeConn()
	conn.serve(t, idleResponder)

	bus := events.New()
	states := make(chan events.StreamStateChangedEvent, 8)
	unsub := bus.Subscribe(func(e events.StreamStateChangedEvent) { states <- e })
	defer unsub()

	startMonitor(t, conn, bus)

	waitFor := func(want func(events.StreamStateChangedEvent) bool, desc string) {
		deadline := time.After(2 * time.Second)
		for {
			select {
			case e := <-states:
				if want(e) {
					return
				}
			case <-deadline:
				t.Fatalf("timeout waiting for %s", desc)
			}
		}
	}

	// The initial poll seeds the state before any push events arrive.
	waitFor(func(e events.StreamStateChangedEvent) bool {
		return !e.Streaming && !e.Recording
	}, "initial state")

	conn.pushEvent(t, map[string]any{"update-type": "StreamStarted"})
	waitFor(func(e events.StreamStateChangedEvent) bool {
		return e.Streaming && !e.Recording
	}, "stream started")

	conn.pushEvent(t, map[string]any{"update-type": "RecordingStarted"})
	waitFor(func(e events.StreamStateChangedEvent) bool {
		return e.Streaming && e.Recording
	}, "recording started")

	conn.pushEvent(t, map[string]any{"update-type": "StreamStopped"})
	waitFor(func(e events.StreamStateChangedEvent) bool {
		return !e.Streaming && e.Recording
	}, "stream stopped")
}

func TestStudioModeEvent(t *testing.T) {
	conn := newFakeConn()
	conn.serve(t, idleResponder)

	bus := events.New()
	studio := make(chan events.StudioModeChangedEvent, 1)
	unsub := bus.Subscribe(func(e events.StudioModeChangedEvent) { studio <- e })
	defer unsub()

	startMonitor(t, conn, bus)

	conn.pushEvent(t, map[string]any{
		"update-type": "StudioModeSwitched",
		"new-state":   true,
	})

	select {
	case e := <-studio:
		if !e.Enabled {
			t.Error("Expected studio mode enabled")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for studio mode event")
	}
}

func TestSourceVisibilityEvent(t *testing.T) {
	conn := newFakeConn()
	conn.serve(t, idleResponder)

	bus := events.New()
	visibility := make(chan events.SourceVisibilityEvent, 1)
	unsub := bus.Subscribe(func(e events.SourceVisibilityEvent) { visibility <- e })
	defer unsub()

	startMonitor(t, conn, bus)

	conn.pushEvent(t, map[string]any{
		"update-type":  "SceneItemVisibilityChanged",
		"scene-name":   "Live",
		"item-name":    "Webcam",
		"item-visible": false,
	})

	select {
	case e := <-visibility:
		if e.Scene != "Live" || e.Source != "Webcam" || e.Visible {
			t.Errorf("Unexpected visibility event: %+v", e)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for visibility event")
	}
}

func TestMediaEventsCarryState(t *testing.T) {
	conn := newFakeConn()
	conn.serve(t, idleResponder)

	bus := events.New()
	media := make(chan events.MediaStateChangedEvent, 4)
	unsub := bus.Subscribe(func(e events.MediaStateChangedEvent) { media <- e })
	defer unsub()

	startMonitor(t, conn, bus)

	tests := []struct {
		updateType string
		wantState  string
	}{
		{"MediaPlaying", "playing"},
		{"MediaPaused", "paused"},
		{"MediaStopped", "stopped"},
		{"MediaEnded", "ended"},
	}

	for _, tt := range tests {
		conn.pushEvent(t, map[string]any{
			"update-type": tt.updateType,
			"sourceName":  "intro.mp4",
		})

		select {
		case e := <-media:
			if e.State != tt.wantState {
				t.Errorf("%s: expected state %q, got %q", tt.updateType, tt.wantState, e.State)
			}
			if e.Source != "intro.mp4" {
				t.Errorf("%s: unexpected source %q", tt.updateType, e.Source)
			}
		case <-time.After(2 * time.Second):
			t.Fatalf("timeout waiting for %s", tt.updateType)
		}
	}
}

func TestPollingDetectsMissedTransition(t *testing.T) {
	conn := newFakeConn()
	var live atomic.Bool
	conn.serve(t, func(req map[string]any) map[string]any {
		reply := map[string]any{
			"message-id": req["message-id"],
			"status":     "ok",
		}
		switch req["request-type"] {
		case "GetStreamingStatus":
			reply["streaming"] = live.Load()
			reply["recording"] = false
		case "GetCurrentScene":
			reply["name"] = "Live"
		}
		return reply
	})

	bus := events.New()
	states := make(chan events.StreamStateChangedEvent, 8)
	unsub := bus.Subscribe(func(e events.StreamStateChangedEvent) { states <- e })
	defer unsub()

	startMonitor(t, conn, bus, WithPollInterval(20*time.Millisecond))

	// Stream goes live without any push event.
	live.Store(true)

	deadline := time.After(2 * time.Second)
	for {
		select {
		case e := <-states:
			if e.Streaming {
				return
			}
		case <-deadline:
			t.Fatal("poll never detected the live stream")
		}
	}
}

func TestMediaStateNames(t *testing.T) {
	tests := map[string]string{
		"MediaPlaying":   "playing",
		"MediaPaused":    "paused",
		"MediaRestarted": "restarted",
		"MediaStopped":   "stopped",
		"MediaStarted":   "started",
		"MediaEnded":     "ended",
	}
	for updateType, want := range tests {
		if got := mediaState(updateType); got != want {
			t.Errorf("mediaState(%q) = %q, want %q", updateType, got, want)
		}
	}
}
