package transport

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/koscakluka/parley-core/core/events"
	"go.opentelemetry.io/otel/codes"
)

// State is the session connection lifecycle state.
type State string

const (
	StateDisconnected State = "disconnected"
	StateConnecting   State = "connecting"
	StateOpen         State = "open"
	StateClosed       State = "closed"
)

// Connection owns one websocket session to the remote processing service.
//
// The lifecycle is Disconnected → Connecting → Open → Closed/Disconnected.
// Connect is idempotent while Connecting or Open. Sends while the connection
// is not Open are reported and dropped; nothing is queued or retried — a
// live, latency-sensitive stream prefers recency over completeness.
type Connection struct {
	address SessionAddress

	conn   *websocket.Conn
	connMu sync.Mutex

	state   State
	stateMu sync.Mutex

	dialer *websocket.Dialer
	header http.Header

	emitEvent    func(events.Event)
	onAudioFrame func(audio []byte)
}

type ConnectionOption func(*Connection)

// WithEventHandler registers the consumer of decoded inbound events.
func WithEventHandler(handler func(events.Event)) ConnectionOption {
	return func(c *Connection) {
		if handler != nil {
			c.emitEvent = handler
		}
	}
}

// WithAudioFrameHandler registers the sink for raw inbound binary frames.
// Playback is the caller's concern; the transport only routes.
func WithAudioFrameHandler(handler func(audio []byte)) ConnectionOption {
	return func(c *Connection) { c.onAudioFrame = handler }
}

// WithDialer overrides the websocket dialer, mainly for tests.
func WithDialer(dialer *websocket.Dialer) ConnectionOption {
	return func(c *Connection) {
		if dialer != nil {
			c.dialer = dialer
		}
	}
}

// WithHeader adds HTTP headers to the connection handshake.
func WithHeader(header http.Header) ConnectionOption {
	return func(c *Connection) { c.header = header }
}

// NewConnection creates an unconnected session connection for the given
// address. Call Connect to dial.
func NewConnection(address SessionAddress, opts ...ConnectionOption) *Connection {
	c := &Connection{
		address:   address,
		state:     StateDisconnected,
		dialer:    websocket.DefaultDialer,
		emitEvent: func(events.Event) {},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// State returns the current lifecycle state.
func (c *Connection) State() State {
	c.stateMu.Lock()
	defer c.stateMu.Unlock()
	return c.state
}

func (c *Connection) setState(state State) {
	c.stateMu.Lock()
	if c.state == state {
		c.stateMu.Unlock()
		return
	}
	c.state = state
	c.stateMu.Unlock()

	c.emitEvent(events.NewConnectionStateChanged(string(state)))
}

// Connect resolves the session address and dials it. Calling Connect while
// already Connecting or Open is a no-op, which prevents duplicate
// connections. A failed dial leaves the connection Disconnected; the core
// never reconnects on its own.
func (c *Connection) Connect(ctx context.Context) error {
	c.stateMu.Lock()
	if c.state == StateOpen || c.state == StateConnecting {
		c.stateMu.Unlock()
		return nil
	}
	c.state = StateConnecting
	c.stateMu.Unlock()
	c.emitEvent(events.NewConnectionStateChanged(string(StateConnecting)))

	ctx, span := tracer.Start(ctx, "transport.connect")
	defer span.End()

	address, err := c.address.Resolve()
	if err != nil {
		c.setState(StateDisconnected)
		recordedErr := fmt.Errorf("failed to resolve session address: %w", err)
		span.RecordError(recordedErr)
		span.SetStatus(codes.Error, recordedErr.Error())
		return recordedErr
	}

	conn, _, err := c.dialer.DialContext(ctx, address, c.header)
	if err != nil {
		c.setState(StateDisconnected)
		recordedErr := fmt.Errorf("failed to open session connection: %w", err)
		span.RecordError(recordedErr)
		span.SetStatus(codes.Error, recordedErr.Error())
		return recordedErr
	}

	c.connMu.Lock()
	c.conn = conn
	c.connMu.Unlock()
	c.setState(StateOpen)

	go c.readAndDispatch(conn)

	return nil
}

// Close tears the connection down. It is safe to call at any time, including
// from inside inbound handlers, and is terminal: a new session requires a
// fresh Connection.
func (c *Connection) Close() error {
	c.connMu.Lock()
	conn := c.conn
	c.conn = nil
	c.connMu.Unlock()

	c.setState(StateClosed)

	if conn == nil {
		return nil
	}

	deadline := time.Now().Add(time.Second)
	_ = conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), deadline)
	if err := conn.Close(); err != nil {
		return fmt.Errorf("failed to close session connection: %w", err)
	}
	return nil
}

// SendAudio writes one binary audio frame. Frames sent while the connection
// is not Open are dropped with a reported warning.
func (c *Connection) SendAudio(audio []byte) error {
	if c.State() != StateOpen {
		logger.Warn("dropping outbound audio frame: connection not open")
		framesDropped.Add(context.Background(), 1)
		return nil
	}

	c.connMu.Lock()
	defer c.connMu.Unlock()
	if c.conn == nil {
		framesDropped.Add(context.Background(), 1)
		return nil
	}

	if err := c.conn.WriteMessage(websocket.BinaryMessage, audio); err != nil {
		return fmt.Errorf("failed to write audio frame: %w", err)
	}
	framesSent.Add(context.Background(), 1)
	return nil
}

// SendControl writes one structured control payload. Like SendAudio, it is a
// reported no-op while the connection is not Open.
func (c *Connection) SendControl(msg ControlMessage) error {
	if c.State() != StateOpen {
		logger.Warn("dropping outbound control payload: connection not open",
			"type", msg.Type)
		return nil
	}

	c.connMu.Lock()
	defer c.connMu.Unlock()
	if c.conn == nil {
		return nil
	}

	if err := c.conn.WriteJSON(msg); err != nil {
		return fmt.Errorf("failed to write control payload: %w", err)
	}
	return nil
}

// SendText sends a plain chat message.
func (c *Connection) SendText(text string) error {
	return c.SendControl(ControlMessage{Text: text})
}

// SendStopRecording asks the remote service to finalize the current
// dictation.
func (c *Connection) SendStopRecording() error {
	return c.SendControl(ControlMessage{Type: ControlTypeStopRecording})
}

func (c *Connection) readAndDispatch(conn *websocket.Conn) {
	for {
		msgType, msg, err := conn.ReadMessage()
		if err != nil {
			c.connMu.Lock()
			stillCurrent := c.conn == conn
			if stillCurrent {
				c.conn = nil
			}
			c.connMu.Unlock()

			conn.Close()
			if stillCurrent {
				if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
					c.setState(StateDisconnected)
				} else {
					logger.Warn("session connection read failed", "error", err)
					c.setState(StateClosed)
				}
			}
			return
		}

		if msgType == websocket.BinaryMessage {
			if c.onAudioFrame != nil {
				c.onAudioFrame(msg)
			}
			continue
		}

		controlPayloads.Add(context.Background(), 1)
		c.emitEvent(DecodeControlPayload(msg))
	}
}
