package transport

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/koscakluka/parley-core/core/events"
)

type testServer struct {
	server *httptest.Server

	mu    sync.Mutex
	conns []*websocket.Conn
	paths []string

	binary chan []byte
	text   chan []byte
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	ts := &testServer{
		binary: make(chan []byte, 16),
		text:   make(chan []byte, 16),
	}
	upgrader := websocket.Upgrader{}
	ts.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("failed to upgrade test connection: %v", err)
			return
		}
		ts.mu.Lock()
		ts.conns = append(ts.conns, conn)
		ts.paths = append(ts.paths, r.URL.String())
		ts.mu.Unlock()

		go func() {
			for {
				msgType, msg, err := conn.ReadMessage()
				if err != nil {
					return
				}
				if msgType == websocket.BinaryMessage {
					ts.binary <- msg
				} else {
					ts.text <- msg
				}
			}
		}()
	}))
	t.Cleanup(ts.server.Close)
	return ts
}

func (ts *testServer) address() SessionAddress {
	return SessionAddress{
		Base:     "ws" + strings.TrimPrefix(ts.server.URL, "http"),
		Role:     "customer",
		UserID:   "u1",
		Language: "en",
	}
}

func (ts *testServer) connCount() int {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	return len(ts.conns)
}

func (ts *testServer) lastConn(t *testing.T) *websocket.Conn {
	t.Helper()
	ts.mu.Lock()
	defer ts.mu.Unlock()
	if len(ts.conns) == 0 {
		t.Fatalf("expected at least one server-side connection")
	}
	return ts.conns[len(ts.conns)-1]
}

func awaitState(t *testing.T, c *Connection, expected State) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if c.State() == expected {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("expected state %q, still %q", expected, c.State())
}

func TestConnectTransitionsToOpenAndResolvesAddress(t *testing.T) {
	ts := newTestServer(t)
	c := NewConnection(ts.address())
	defer c.Close()

	if err := c.Connect(context.Background()); err != nil {
		t.Fatalf("expected connect to succeed, got %v", err)
	}
	awaitState(t, c, StateOpen)

	ts.mu.Lock()
	path := ts.paths[0]
	ts.mu.Unlock()
	if path != "/ws/customer/u1?lang=en" {
		t.Fatalf("expected resolved path %q, got %q", "/ws/customer/u1?lang=en", path)
	}
}

func TestConnectWhileOpenIsANoOp(t *testing.T) {
	ts := newTestServer(t)
	c := NewConnection(ts.address())
	defer c.Close()

	if err := c.Connect(context.Background()); err != nil {
		t.Fatalf("expected first connect to succeed, got %v", err)
	}
	awaitState(t, c, StateOpen)

	if err := c.Connect(context.Background()); err != nil {
		t.Fatalf("expected repeated connect to be a no-op, got %v", err)
	}
	time.Sleep(50 * time.Millisecond)

	if got := ts.connCount(); got != 1 {
		t.Fatalf("expected a single server connection, got %d", got)
	}
}

func TestConnectFailureLeavesDisconnected(t *testing.T) {
	c := NewConnection(SessionAddress{Base: "ws://127.0.0.1:1", Role: "r", UserID: "u"})

	if err := c.Connect(context.Background()); err == nil {
		t.Fatalf("expected connect to an unreachable address to fail")
	}
	if c.State() != StateDisconnected {
		t.Fatalf("expected state disconnected after failed dial, got %q", c.State())
	}
}

func TestSendWhileDisconnectedIsReportedNoOp(t *testing.T) {
	c := NewConnection(SessionAddress{Base: "ws://127.0.0.1:1", Role: "r", UserID: "u"})

	if err := c.SendAudio([]byte{1, 2, 3}); err != nil {
		t.Fatalf("expected dropped audio send to return nil, got %v", err)
	}
	if err := c.SendText("hello"); err != nil {
		t.Fatalf("expected dropped text send to return nil, got %v", err)
	}
	if err := c.SendStopRecording(); err != nil {
		t.Fatalf("expected dropped control send to return nil, got %v", err)
	}
}

func TestSendAudioWritesBinaryFrame(t *testing.T) {
	ts := newTestServer(t)
	c := NewConnection(ts.address())
	defer c.Close()

	if err := c.Connect(context.Background()); err != nil {
		t.Fatalf("expected connect to succeed, got %v", err)
	}
	awaitState(t, c, StateOpen)

	if err := c.SendAudio([]byte{1, 2, 3, 4}); err != nil {
		t.Fatalf("expected audio send to succeed, got %v", err)
	}

	select {
	case frame := <-ts.binary:
		if len(frame) != 4 {
			t.Fatalf("expected 4-byte frame, got %d bytes", len(frame))
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("expected server to receive a binary frame")
	}
}

func TestSendTextWritesControlPayload(t *testing.T) {
	ts := newTestServer(t)
	c := NewConnection(ts.address())
	defer c.Close()

	if err := c.Connect(context.Background()); err != nil {
		t.Fatalf("expected connect to succeed, got %v", err)
	}
	awaitState(t, c, StateOpen)

	if err := c.SendText("hello there"); err != nil {
		t.Fatalf("expected text send to succeed, got %v", err)
	}

	select {
	case payload := <-ts.text:
		if strings.TrimSpace(string(payload)) != `{"text":"hello there"}` {
			t.Fatalf("unexpected control payload %s", payload)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("expected server to receive a control payload")
	}
}

func TestInboundFramesAreDispatchedByShape(t *testing.T) {
	ts := newTestServer(t)

	receivedEvents := make(chan events.Event, 16)
	receivedAudio := make(chan []byte, 16)
	c := NewConnection(ts.address(),
		WithEventHandler(func(event events.Event) { receivedEvents <- event }),
		WithAudioFrameHandler(func(audio []byte) { receivedAudio <- audio }),
	)
	defer c.Close()

	if err := c.Connect(context.Background()); err != nil {
		t.Fatalf("expected connect to succeed, got %v", err)
	}
	awaitState(t, c, StateOpen)

	server := ts.lastConn(t)
	if err := server.WriteMessage(websocket.BinaryMessage, []byte{9, 9}); err != nil {
		t.Fatalf("failed to write binary frame: %v", err)
	}
	if err := server.WriteMessage(websocket.TextMessage, []byte(`{"type":"preview","text":"hi"}`)); err != nil {
		t.Fatalf("failed to write control frame: %v", err)
	}

	select {
	case audio := <-receivedAudio:
		if len(audio) != 2 {
			t.Fatalf("expected 2-byte inbound frame, got %d bytes", len(audio))
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("expected binary frame to reach the audio handler")
	}

	deadline := time.After(2 * time.Second)
	for {
		select {
		case event := <-receivedEvents:
			if preview, ok := event.(events.DictationPreviewUpdated); ok {
				if preview.Text != "hi" {
					t.Fatalf("expected preview text %q, got %q", "hi", preview.Text)
				}
				return
			}
		case <-deadline:
			t.Fatalf("expected a preview event from the control frame")
		}
	}
}

func TestCloseIsTerminalAndReentrantSafe(t *testing.T) {
	ts := newTestServer(t)
	c := NewConnection(ts.address())

	if err := c.Connect(context.Background()); err != nil {
		t.Fatalf("expected connect to succeed, got %v", err)
	}
	awaitState(t, c, StateOpen)

	if err := c.Close(); err != nil {
		t.Fatalf("expected close to succeed, got %v", err)
	}
	if err := c.Close(); err != nil {
		t.Fatalf("expected repeated close to succeed, got %v", err)
	}
	if c.State() != StateClosed {
		t.Fatalf("expected state closed, got %q", c.State())
	}

	if err := c.SendAudio([]byte{1}); err != nil {
		t.Fatalf("expected send after close to be a no-op, got %v", err)
	}
}

func TestRemoteCloseMovesToDisconnected(t *testing.T) {
	ts := newTestServer(t)

	stateChanges := make(chan string, 16)
	c := NewConnection(ts.address(), WithEventHandler(func(event events.Event) {
		if change, ok := event.(events.ConnectionStateChanged); ok {
			stateChanges <- change.State
		}
	}))

	if err := c.Connect(context.Background()); err != nil {
		t.Fatalf("expected connect to succeed, got %v", err)
	}
	awaitState(t, c, StateOpen)

	server := ts.lastConn(t)
	deadline := time.Now().Add(time.Second)
	_ = server.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), deadline)
	server.Close()

	awaitState(t, c, StateDisconnected)
}
