package obsws

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/websocket"
)

// MessageConn is a duplex stream of complete JSON text messages. The client
// treats the wire-level transport as an external collaborator behind this
// interface; the production implementation wraps a gorilla WebSocket
// connection.
type MessageConn interface {
	// ReadMessage blocks until the next complete inbound message arrives.
	ReadMessage() ([]byte, error)

	// WriteMessage writes one complete outbound message.
	WriteMessage(data []byte) error

	// Close performs the close handshake and releases the connection.
	// Safe to call more than once.
	Close() error
}

const closeWriteWait = time.Second

// wsConn adapts a gorilla websocket connection to MessageConn.
type wsConn struct {
	conn *websocket.Conn
}

// Dial opens a WebSocket connection to an OBS instance. The address is
// host:port, optionally carrying an explicit ws:// or wss:// scheme.
func Dial(ctx context.Context, addr string) (MessageConn, error) {
	endpoint := addr
	if !strings.Contains(endpoint, "://") {
		endpoint = "ws://" + endpoint
	}
	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("invalid address %q: %w", addr, err)
	}
	if u.Scheme != "ws" && u.Scheme != "wss" {
		return nil, fmt.Errorf("unsupported scheme %q in address %q", u.Scheme, addr)
	}

	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, u.String(), nil)
	if err != nil {
		return nil, err
	}
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
	return &wsConn{conn: conn}, nil
}

// ReadMessage returns the next text message, skipping any non-text frames.
func (w *wsConn) ReadMessage() ([]byte, error) {
	for {
		msgType, data, err := w.conn.ReadMessage()
		if err != nil {
			return nil, err
		}
		if msgType == websocket.TextMessage {
			return data, nil
		}
	}
}

func (w *wsConn) WriteMessage(data []byte) error {
	return w.conn.WriteMessage(websocket.TextMessage, data)
}

// Close sends a going-away close frame and tears down the connection.
func (w *wsConn) Close() error {
	msg := websocket.FormatCloseMessage(websocket.CloseGoingAway, "")
	_ = w.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(closeWriteWait))
	return w.conn.Close()
}
