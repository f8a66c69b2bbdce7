package session

import "github.com/koscakluka/parley-core/core/events"

// Loop-internal events. These never leave the session package; they exist so
// capture, timers, and public commands enter state through the same queue as
// wire traffic.
const (
	kindOutboundChunk         events.Kind = "session.outbound_chunk"
	kindCaptureFailed         events.Kind = "session.capture_failed"
	kindCompleteWindowElapsed events.Kind = "session.complete_window_elapsed"
	kindIdleTimedOut          events.Kind = "session.idle_timed_out"
	kindStopRecording         events.Kind = "session.stop_recording"
	kindSendComposed          events.Kind = "session.send_composed"
	kindSetDraft              events.Kind = "session.set_draft"
)

type outboundChunk struct {
	events.Base
	payload []byte
}

func newOutboundChunk(payload []byte) outboundChunk {
	return outboundChunk{Base: events.NewBase(kindOutboundChunk), payload: payload}
}

type captureFailed struct {
	events.Base
	err error
}

func newCaptureFailed(err error) captureFailed {
	return captureFailed{Base: events.NewBase(kindCaptureFailed), err: err}
}

type completeWindowElapsed struct{ events.Base }

func newCompleteWindowElapsed() completeWindowElapsed {
	return completeWindowElapsed{Base: events.NewBase(kindCompleteWindowElapsed)}
}

type idleTimedOut struct{ events.Base }

func newIdleTimedOut() idleTimedOut {
	return idleTimedOut{Base: events.NewBase(kindIdleTimedOut)}
}

type stopRecordingCommand struct{ events.Base }

func newStopRecordingCommand() stopRecordingCommand {
	return stopRecordingCommand{Base: events.NewBase(kindStopRecording)}
}

type sendComposedCommand struct{ events.Base }

func newSendComposedCommand() sendComposedCommand {
	return sendComposedCommand{Base: events.NewBase(kindSendComposed)}
}

type setDraftCommand struct {
	events.Base
	text string
}

func newSetDraftCommand(text string) setDraftCommand {
	return setDraftCommand{Base: events.NewBase(kindSetDraft), text: text}
}
