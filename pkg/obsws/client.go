package obsws

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"slices"
	"strconv"
	"sync"
	"sync/atomic"
)

const statusOK = "ok"

// EventHandler is invoked for every unsolicited event message. Handlers run
// in registration order on a dedicated dispatch goroutine, seeing events in
// arrival order, and receive the client itself for follow-up calls. The read
// loop stays free while handlers run, so a handler may issue requests.
type EventHandler func(c *Client, ev Event)

// Client is a connection to one OBS Studio instance. Create it with Connect,
// or with NewClient when supplying a custom transport.
type Client struct {
	conn     MessageConn
	logger   *slog.Logger
	password string

	// nextID allocates request identifiers. Identifiers are unique for the
	// lifetime of the client and never reused, so an abandoned wait can
	// safely ignore its late response.
	nextID atomic.Int64

	// writeMu serializes writes; the transport does not support concurrent
	// writers.
	writeMu sync.Mutex

	mu       sync.Mutex
	pending  map[string]chan response
	handlers []EventHandler
	closed   bool

	// evQueue holds routed events awaiting dispatch. The read loop only
	// enqueues, so a handler blocked in a follow-up call never stalls
	// response routing.
	evMu     sync.Mutex
	evQueue  []Event
	evSignal chan struct{}

	done      chan struct{} // closed when the read loop exits
	closeOnce sync.Once
	closeErr  error
}

// response is the routed form of a correlated inbound message.
type response struct {
	status string
	errMsg string
	raw    []byte
}

// Option configures a Client.
type Option func(*Client)

// WithPassword sets the password used during the authentication handshake.
func WithPassword(password string) Option {
	return func(c *Client) { c.password = password }
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// Connect dials an OBS instance, performs the authentication handshake, and
// returns a ready client. The address is host:port, optionally with an
// explicit ws:// or wss:// scheme.
func Connect(ctx context.Context, addr string, opts ...Option) (*Client, error) {
	conn, err := Dial(ctx, addr)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", addr, err)
	}

	c := NewClient(conn, opts...)
	if err := c.login(ctx); err != nil {
		_ = c.Close()
		return nil, err
	}
	return c, nil
}

// NewClient wraps an established message connection and starts the read
// loop. The caller is responsible for authentication when the server
// requires it (Connect does both).
func NewClient(conn MessageConn, opts ...Option) *Client {
	c := &Client{
		conn:     conn,
		logger:   slog.Default(),
		pending:  make(map[string]chan response),
		evSignal: make(chan struct{}, 1),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}

	go c.readLoop()
	go c.dispatchLoop()
	return c
}

// OnEvent registers a handler for unsolicited event messages. Handlers stay
// registered for the lifetime of the client.
func (c *Client) OnEvent(handler EventHandler) {
	c.mu.Lock()
	c.handlers = append(c.handlers, handler)
	c.mu.Unlock()
}

// Call issues a request and blocks until the matching response arrives, the
// context is cancelled, or the connection closes. On an ok status the
// response payload is decoded into out (which may be nil). A non-ok status
// is returned as a *RequestError.
func (c *Client) Call(ctx context.Context, requestType string, args map[string]any, out any) error {
	id, ch, err := c.register()
	if err != nil {
		return err
	}

	payload := make(map[string]any, len(args)+2)
	for k, v := range args {
		payload[k] = v
	}
	payload["request-type"] = requestType
	payload["message-id"] = id

	data, err := json.Marshal(payload)
	if err != nil {
		c.unregister(id)
		return fmt.Errorf("encode %s request: %w", requestType, err)
	}

	c.writeMu.Lock()
	err = c.conn.WriteMessage(data)
	c.writeMu.Unlock()
	if err != nil {
		c.unregister(id)
		return fmt.Errorf("write %s request: %w", requestType, err)
	}

	select {
	case resp := <-ch:
		if resp.status != statusOK {
			return &RequestError{RequestType: requestType, Message: resp.errMsg, Raw: string(resp.raw)}
		}
		if out != nil {
			if err := json.Unmarshal(resp.raw, out); err != nil {
				return fmt.Errorf("decode %s response: %w", requestType, err)
			}
		}
		return nil

	case <-c.done:
		c.unregister(id)
		return ErrConnectionClosed

	case <-ctx.Done():
		c.unregister(id)
		return ctx.Err()
	}
}

// Close shuts down the connection exactly once and waits for the read loop
// to exit. Pending and subsequent calls fail with ErrConnectionClosed.
func (c *Client) Close() error {
	c.closeOnce.Do(func() {
		c.mu.Lock()
		c.closed = true
		c.mu.Unlock()

		c.closeErr = c.conn.Close()
		<-c.done
	})
	return c.closeErr
}

// register allocates the next identifier and a result channel for it.
// The channel is buffered so the read loop never blocks on delivery.
func (c *Client) register() (string, chan response, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return "", nil, ErrConnectionClosed
	}

	id := strconv.FormatInt(c.nextID.Add(1), 10)
	ch := make(chan response, 1)
	c.pending[id] = ch
	return id, ch, nil
}

func (c *Client) unregister(id string) {
	c.mu.Lock()
	delete(c.pending, id)
	c.mu.Unlock()
}

// readLoop consumes the inbound stream until it ends, routing each message
// to the matching pending wait or to the event handlers.
func (c *Client) readLoop() {
	defer func() {
		c.mu.Lock()
		c.closed = true
		c.mu.Unlock()
		close(c.done)
	}()

	for {
		data, err := c.conn.ReadMessage()
		if err != nil {
			c.logger.Debug("Read loop ended", "error", err)
			return
		}
		c.route(data)
	}
}

// route demultiplexes one inbound message. A message-id marks a response and
// fulfils exactly the wait registered under that identifier; its absence
// marks an event delivered to every handler.
func (c *Client) route(data []byte) {
	var head struct {
		MessageID  string `json:"message-id"`
		UpdateType string `json:"update-type"`
		Status     string `json:"status"`
		Error      string `json:"error"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		c.logger.Warn("Discarding malformed message", "error", err)
		return
	}

	if head.MessageID != "" {
		c.mu.Lock()
		ch, ok := c.pending[head.MessageID]
		if ok {
			delete(c.pending, head.MessageID)
		}
		c.mu.Unlock()

		if !ok {
			// The wait was abandoned (cancelled context). Identifiers are
			// never reused, so dropping is safe.
			c.logger.Debug("Dropping unmatched response", "message_id", head.MessageID)
			return
		}
		ch <- response{status: head.Status, errMsg: head.Error, raw: data}
		return
	}

	c.enqueue(Event{Type: head.UpdateType, Data: data})
}

// enqueue hands an event to the dispatch goroutine, keeping arrival order.
func (c *Client) enqueue(ev Event) {
	c.evMu.Lock()
	c.evQueue = append(c.evQueue, ev)
	c.evMu.Unlock()

	select {
	case c.evSignal <- struct{}{}:
	default:
	}
}

// dispatchLoop drains the event queue, invoking handlers in registration
// order. Events already routed when the stream ends are still delivered.
func (c *Client) dispatchLoop() {
	for {
		ev, ok := c.nextEvent()
		if !ok {
			return
		}

		c.mu.Lock()
		handlers := slices.Clone(c.handlers)
		c.mu.Unlock()

		for _, handler := range handlers {
			c.deliver(handler, ev)
		}
	}
}

func (c *Client) nextEvent() (Event, bool) {
	for {
		c.evMu.Lock()
		if len(c.evQueue) > 0 {
			ev := c.evQueue[0]
			c.evQueue = c.evQueue[1:]
			c.evMu.Unlock()
			return ev, true
		}
		c.evMu.Unlock()

		select {
		case <-c.evSignal:
		case <-c.done:
			c.evMu.Lock()
			empty := len(c.evQueue) == 0
			c.evMu.Unlock()
			if empty {
				return Event{}, false
			}
		}
	}
}

// deliver invokes one handler, isolating its failures so the remaining
// handlers still see the event.
func (c *Client) deliver(handler EventHandler, ev Event) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("Event handler panicked", "update_type", ev.Type, "panic", r)
		}
	}()
	handler(c, ev)
}
