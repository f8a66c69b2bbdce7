package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/koscakluka/parley-core/core/events"
	"github.com/koscakluka/parley-core/core/transport"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Status is the single line of session state a surface renders.
type Status string

const (
	StatusOnline       Status = "online"
	StatusDisconnected Status = "disconnected"
	StatusTranscribing Status = "transcribing"
	StatusComplete     Status = "complete"
)

const defaultCompleteWindow = 3 * time.Second

// loopQueueSize bounds the event queue; producers drop rather than block when
// the loop falls this far behind.
const loopQueueSize = 256

// Session is the client core of one duplex voice/text conversation. All
// state, the message timeline, the dictation buffer, the processing
// indicator, is owned by a single event loop; device callbacks, wire frames,
// timers, and public commands all enter through the same queue.
type Session struct {
	identity Identity
	address  transport.SessionAddress

	mu              sync.Mutex
	timeline        timeline
	dictation       DictationBuffer
	processing      bool
	completeVisible bool
	connState       transport.State
	isRecording     bool
	status          Status
	lastCommit      string
	lastEventID     string
	runOptions      RunOptions
	emitEvent       eventEmitter
	completeTimer   *time.Timer

	loop      chan events.Event
	done      chan struct{}
	closeOnce sync.Once

	wire     Wire
	capture  *audioCapture
	output   *audioOutput
	watchdog *idleWatchdog
	store    IdentityStore

	chunkSamples   int
	idleTimeout    time.Duration
	completeWindow time.Duration

	baseContext context.Context
}

func NewSession(baseURL string, identity Identity, opts ...SessionOption) (*Session, error) {
	s := &Session{
		connState:      transport.StateDisconnected,
		status:         StatusDisconnected,
		loop:           make(chan events.Event, loopQueueSize),
		done:           make(chan struct{}),
		emitEvent:      noopEventEmitter,
		chunkSamples:   defaultChunkSamples,
		idleTimeout:    defaultIdleTimeout,
		completeWindow: defaultCompleteWindow,
		baseContext:    context.Background(),
	}
	s.capture = newAudioCapture(nil, s.chunkSamples,
		func(chunk []byte) { s.post(newOutboundChunk(chunk)) },
		func(err error) { s.post(newCaptureFailed(err)) },
	)
	s.output = newAudioOutput(nil)

	for _, opt := range opts {
		opt(s)
	}

	// Options can arrive in any order; rebind the chunker so a capture client
	// configured before a chunk-size override still gets the override.
	if client := s.capture.base; client != nil {
		s.capture.Set(client, s.chunkSamples)
	}

	identity, err := ensureIdentity(identity, s.store)
	if err != nil {
		return nil, err
	}
	s.identity = identity

	s.address = transport.SessionAddress{
		Base:     baseURL,
		Role:     identity.Role,
		UserID:   identity.UserID,
		Language: identity.Language,
	}
	if s.wire == nil {
		conn := transport.NewConnection(s.address,
			transport.WithEventHandler(s.post),
			transport.WithAudioFrameHandler(s.handleInboundAudio),
		)
		s.wire = conn
	}

	s.watchdog = newIdleWatchdog(s.idleTimeout, func() { s.post(newIdleTimedOut()) })

	return s, nil
}

func (s *Session) Identity() Identity { return s.identity }

// Connect opens the wire. It does not start recording and can be called
// before or after Run.
func (s *Session) Connect(ctx context.Context) error {
	if err := s.wire.Connect(ctx); err != nil {
		return fmt.Errorf("failed to connect session: %w", err)
	}
	return nil
}

// Close ends the session. It is terminal: the timeline and dictation buffer
// are cleared and the loop stops. Safe to call more than once.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		s.watchdog.Stop()

		if err := s.capture.Close(); err != nil {
			recordedErr := fmt.Errorf("failed to close audio capture: %w", err)
			span := trace.SpanFromContext(s.baseContext)
			span.RecordError(recordedErr)
			span.SetStatus(codes.Error, recordedErr.Error())
		}

		if err := s.wire.Close(); err != nil {
			recordedErr := fmt.Errorf("failed to close wire: %w", err)
			span := trace.SpanFromContext(s.baseContext)
			span.RecordError(recordedErr)
			span.SetStatus(codes.Error, recordedErr.Error())
		}

		s.mu.Lock()
		if s.completeTimer != nil {
			s.completeTimer.Stop()
			s.completeTimer = nil
		}
		s.timeline.clear()
		s.dictation.Clear()
		s.isRecording = false
		s.mu.Unlock()

		close(s.done)
	})
}

// StartRecording begins streaming microphone chunks over the wire.
func (s *Session) StartRecording() error {
	if err := s.capture.Start(s.baseContext); err != nil {
		return err
	}

	s.mu.Lock()
	s.isRecording = true
	s.mu.Unlock()
	return nil
}

// StopRecording stops the microphone, tells the remote side, and folds any
// pending preview into the draft so spoken words survive the stop.
func (s *Session) StopRecording() error {
	if err := s.capture.Stop(); err != nil {
		return err
	}

	s.post(newStopRecordingCommand())
	return nil
}

// SendComposedText sends whatever the composer currently shows, draft plus
// pending preview, as one chat message and clears the composer.
func (s *Session) SendComposedText() {
	s.post(newSendComposedCommand())
}

// SetDraft overwrites the draft with a manual edit. The edit wins over any
// in-flight preview.
func (s *Session) SetDraft(text string) {
	s.post(newSetDraftCommand(text))
}

// Activity feeds the idle watchdog. Surfaces call this on any user
// interaction.
func (s *Session) Activity(signal ActivitySignal) {
	s.watchdog.Touch(signal)
}

func (s *Session) Timeline() []TimelineEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.timeline.snapshot()
}

func (s *Session) Draft() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dictation.Draft()
}

func (s *Session) Preview() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dictation.Preview()
}

func (s *Session) Composed() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dictation.Composed()
}

func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

func (s *Session) ConnectionState() transport.State {
	return s.wire.State()
}

func (s *Session) IsRecording() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isRecording
}

// post queues an event for the loop. Events posted after close are ignored;
// events that find the queue full are dropped and counted, producers never
// block.
func (s *Session) post(event events.Event) {
	select {
	case <-s.done:
		return
	default:
	}

	select {
	case s.loop <- event:
	default:
		eventsDropped.Add(context.Background(), 1)
		logger.Warn("session queue full, dropping event", "kind", string(event.Kind()))
	}
}

// handleInboundAudio forwards remote playback frames straight to the output
// device. Frames carry no session state, so they bypass the loop.
func (s *Session) handleInboundAudio(frame []byte) {
	s.output.SendAudio(frame)

	s.mu.Lock()
	callback := s.runOptions.onInboundAudio
	s.mu.Unlock()
	if callback != nil {
		callback(frame)
	}
}
