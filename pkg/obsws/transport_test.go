package obsws

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

var testUpgrader = websocket.Upgrader{
	CheckOrigin: func(*http.Request) bool { return true },
}

// startTestServer runs a minimal OBS-like endpoint that answers every
// request with an ok status and reports the close code it receives.
func startTestServer(t *testing.T) (addr string, closeCode chan int) {
	t.Helper()
	closeCode = make(chan int, 1)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := testUpgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		conn.SetCloseHandler(func(code int, _ string) error {
			closeCode <- code
			return nil
		})
		for {
			_, data, err := conn.ReadMessage()
			if err != nil {
				return
			}
			var req map[string]any
			if err := json.Unmarshal(data, &req); err != nil {
				continue
			}
			reply, _ := json.Marshal(map[string]any{
				"message-id":   req["message-id"],
				"status":       "ok",
				"authRequired": false,
			})
			if err := conn.WriteMessage(websocket.TextMessage, reply); err != nil {
				return
			}
		}
	}))
	t.Cleanup(server.Close)

	return strings.TrimPrefix(server.URL, "http://"), closeCode
}

func TestConnectOverWebSocket(t *testing.T) {
	addr, _ := startTestServer(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	client, err := Connect(ctx, addr)
	if err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
	defer client.Close()

	if err := client.StartStreaming(ctx); err != nil {
		t.Fatalf("Call over real websocket failed: %v", err)
	}
}

func TestCloseSendsGoingAway(t *testing.T) {
	addr, closeCode := startTestServer(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	client, err := Connect(ctx, addr)
	if err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
	if err := client.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	select {
	case code := <-closeCode:
		if code != websocket.CloseGoingAway {
			t.Errorf("Expected close code %d (going away), got %d", websocket.CloseGoingAway, code)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Server never received a close frame")
	}
}

func TestDialAcceptsSchemePrefix(t *testing.T) {
	addr, _ := startTestServer(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// The CLI default is ws://localhost:4444, so both spellings must work.
	for _, dialAddr := range []string{addr, "ws://" + addr} {
		conn, err := Dial(ctx, dialAddr)
		if err != nil {
			t.Fatalf("Dial(%q) failed: %v", dialAddr, err)
		}
		_ = conn.Close()
	}
}

func TestDialRejectsUnknownScheme(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	if _, err := Dial(ctx, "http://127.0.0.1:4444"); err == nil {
		t.Fatal("Expected error for non-websocket scheme")
	}
}

func TestDialUnreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	if _, err := Dial(ctx, "127.0.0.1:1"); err == nil {
		t.Fatal("Expected dial error for unreachable address")
	}
}
