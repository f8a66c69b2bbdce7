package session

import (
	"context"
	"time"

	"github.com/koscakluka/parley-core/core/audio"
	"github.com/koscakluka/parley-core/core/events"
	"github.com/koscakluka/parley-core/core/transport"
)

type SessionOption func(*Session)

// AudioInput is a microphone backend delivering float32 samples at the rate
// its EncodingInfo reports.
type AudioInput interface {
	StartCapture(ctx context.Context, onSamples func(samples []float32)) error
	StopCapture() error
	Close()
	EncodingInfo() audio.EncodingInfo
}

func WithAudioInput(client AudioInput) SessionOption {
	return func(s *Session) { s.capture.Set(client, s.chunkSamples) }
}

// AudioOutput is a speaker backend accepting linear16 frames at the wire
// rate.
type AudioOutput interface {
	SendAudio(audio []byte) error
	ClearBuffer()
	EncodingInfo() audio.EncodingInfo
}

func WithAudioOutput(client AudioOutput) SessionOption {
	return func(s *Session) { s.output.Set(client) }
}

// Wire is the duplex channel to the remote service. It exists as an interface
// so tests can substitute the websocket connection.
type Wire interface {
	Connect(ctx context.Context) error
	Close() error
	State() transport.State
	SendAudio(frame []byte) error
	SendText(text string) error
	SendStopRecording() error
	SendControl(message transport.ControlMessage) error
}

func WithWire(wire Wire) SessionOption {
	return func(s *Session) { s.wire = wire }
}

func WithIdentityStore(store IdentityStore) SessionOption {
	return func(s *Session) { s.store = store }
}

// WithIdleTimeout overrides how long the session survives without user
// activity.
func WithIdleTimeout(timeout time.Duration) SessionOption {
	return func(s *Session) { s.idleTimeout = timeout }
}

// WithChunkSamples overrides how many device-rate samples make up one
// outbound chunk.
func WithChunkSamples(samples int) SessionOption {
	return func(s *Session) {
		if samples > 0 {
			s.chunkSamples = samples
		}
	}
}

// WithCompleteWindow overrides how long the completion indicator stays up
// after transcription finishes.
func WithCompleteWindow(window time.Duration) SessionOption {
	return func(s *Session) {
		if window > 0 {
			s.completeWindow = window
		}
	}
}

type RunOptions struct {
	onEvent                  func(event events.Event)
	onTimelineUpdated        func(entries []TimelineEntry)
	onComposerUpdated        func(draft, preview string)
	onStatusChanged          func(status Status)
	onConnectionStateChanged func(state string)
	onIdleTimeout            func()
	onCaptureError           func(err error)
	onInboundAudio           func(audio []byte)
}

type RunOption func(*RunOptions)

// WithEventCallback registers a tap for every event the session loop
// processes, before session state is updated from it.
func WithEventCallback(callback func(event events.Event)) RunOption {
	return func(o *RunOptions) { o.onEvent = callback }
}

// WithTimelineCallback registers a callback invoked with a fresh snapshot
// whenever the timeline changes.
func WithTimelineCallback(callback func(entries []TimelineEntry)) RunOption {
	return func(o *RunOptions) { o.onTimelineUpdated = callback }
}

// WithComposerCallback registers a callback for changes to the composed text,
// receiving the committed draft and the trailing preview separately.
func WithComposerCallback(callback func(draft, preview string)) RunOption {
	return func(o *RunOptions) { o.onComposerUpdated = callback }
}

func WithStatusCallback(callback func(status Status)) RunOption {
	return func(o *RunOptions) { o.onStatusChanged = callback }
}

func WithConnectionStateCallback(callback func(state string)) RunOption {
	return func(o *RunOptions) { o.onConnectionStateChanged = callback }
}

// WithIdleTimeoutCallback registers a callback invoked once when the idle
// watchdog ends the session.
func WithIdleTimeoutCallback(callback func()) RunOption {
	return func(o *RunOptions) { o.onIdleTimeout = callback }
}

func WithCaptureErrorCallback(callback func(err error)) RunOption {
	return func(o *RunOptions) { o.onCaptureError = callback }
}

// WithInboundAudioCallback registers a callback for raw inbound audio frames.
//
// The provided slice is passed through as-is (no defensive copy). The
// callback runs inline on the receive path and should not block.
func WithInboundAudioCallback(callback func(audio []byte)) RunOption {
	return func(o *RunOptions) { o.onInboundAudio = callback }
}
