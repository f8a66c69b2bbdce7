package session

import (
	"context"
	"time"

	"github.com/koscakluka/parley-core/core/events"
	"github.com/koscakluka/parley-core/core/transport"
	"go.opentelemetry.io/otel/codes"
)

// Run drives the session loop until ctx is cancelled or the session closes.
//
// Contract: call Run at most once per session instance. Repeated or
// concurrent calls are unsupported and may race while callbacks are being
// reconfigured.
func (s *Session) Run(ctx context.Context, opts ...RunOption) error {
	select {
	case <-s.done:
		logger.Warn("session already closed, skipping run")
		return nil
	default:
	}

	runOptions := RunOptions{}
	for _, opt := range opts {
		opt(&runOptions)
	}

	s.mu.Lock()
	s.runOptions = runOptions
	s.emitEvent = newCallbackEventEmitter(runOptions)
	s.mu.Unlock()

	s.baseContext = ctx
	s.watchdog.Start()

	for {
		select {
		case <-ctx.Done():
			s.Close()
			return ctx.Err()
		case <-s.done:
			return nil
		case event := <-s.loop:
			s.handle(event)
		}
	}
}

func (s *Session) handle(event events.Event) {
	s.mu.Lock()
	// An event is processed at most once; the same event object handed to the
	// loop twice in a row must not change state twice.
	if id := event.ID(); id != "" && id == s.lastEventID {
		s.mu.Unlock()
		return
	}
	s.lastEventID = event.ID()
	emit := s.emitEvent
	s.mu.Unlock()
	emit(event)

	switch typedEvent := event.(type) {
	case events.DictationPreviewUpdated:
		s.applyPreview(typedEvent.Text)
	case events.DictationCommitted:
		s.applyCommit(typedEvent.Text)
	case events.MessageReceived:
		s.applyMessage(typedEvent)
	case events.AudioArtifactReceived:
		s.applyArtifact(typedEvent)
	case events.SystemNotice:
		s.applyNotice(typedEvent.Text)
	case events.ProcessingStatusChanged:
		s.applyProcessing(typedEvent.Processing)
	case events.RecordingStopRequested:
		s.finishRecording(true)
	case events.ConnectionStateChanged:
		s.applyConnectionState(typedEvent.State)
	case events.Unknown:
		logger.Debug("ignoring unknown control payload", "type", typedEvent.Type)

	case outboundChunk:
		_ = s.wire.SendAudio(typedEvent.payload)
	case captureFailed:
		s.applyCaptureFailure(typedEvent.err)
	case completeWindowElapsed:
		s.applyCompleteElapsed()
	case idleTimedOut:
		s.applyIdleTimeout()
	case stopRecordingCommand:
		s.finishRecording(false)
	case sendComposedCommand:
		s.applySendComposed()
	case setDraftCommand:
		s.applySetDraft(typedEvent.text)
	}
}

func (s *Session) applyPreview(text string) {
	s.mu.Lock()
	s.dictation.ApplyPreview(text)
	s.mu.Unlock()

	s.notifyComposer()
}

func (s *Session) applyCommit(text string) {
	s.mu.Lock()
	// The remote side occasionally re-delivers the last commit; folding it in
	// twice would duplicate words in the draft.
	if text != "" && text == s.lastCommit {
		s.mu.Unlock()
		return
	}
	s.dictation.Commit(text)
	s.lastCommit = text
	s.mu.Unlock()

	s.notifyComposer()
}

func (s *Session) applyMessage(message events.MessageReceived) {
	text := message.Text
	if text == "" {
		text = message.OriginalText
	}
	language := message.Language
	if language == "" {
		language = message.SourceLanguage
	}

	s.mu.Lock()
	appended := s.timeline.appendMessage(message.Sender, text, message.Translated, language)
	s.mu.Unlock()

	if appended {
		s.notifyTimeline()
	}
}

func (s *Session) applyArtifact(artifact events.AudioArtifactReceived) {
	s.mu.Lock()
	attached := s.timeline.attachArtifact(artifact.Sender, artifact.Payload)
	s.mu.Unlock()

	if !attached {
		artifactsDropped.Add(context.Background(), 1)
		logger.Warn("dropping voice artifact with no matching entry", "sender", artifact.Sender)
		return
	}
	s.notifyTimeline()
}

func (s *Session) applyNotice(text string) {
	s.mu.Lock()
	s.timeline.appendNotice(text)
	s.mu.Unlock()

	s.notifyTimeline()
}

func (s *Session) applyProcessing(processing bool) {
	s.mu.Lock()
	if processing {
		s.processing = true
		s.completeVisible = false
		if s.completeTimer != nil {
			s.completeTimer.Stop()
			s.completeTimer = nil
		}
	} else if s.processing {
		s.processing = false
		s.completeVisible = true
		s.completeTimer = time.AfterFunc(s.completeWindow, func() {
			s.post(newCompleteWindowElapsed())
		})
	}
	s.mu.Unlock()

	s.notifyStatus()
}

func (s *Session) applyCompleteElapsed() {
	s.mu.Lock()
	s.completeVisible = false
	s.completeTimer = nil
	s.mu.Unlock()

	s.notifyStatus()
}

func (s *Session) applyConnectionState(state string) {
	s.mu.Lock()
	s.connState = transport.State(state)
	s.mu.Unlock()

	s.notifyStatus()
}

func (s *Session) applyIdleTimeout() {
	s.mu.Lock()
	callback := s.runOptions.onIdleTimeout
	s.mu.Unlock()

	// A timed-out session forgets who it was; the next one joins fresh.
	if s.store != nil {
		if err := s.store.Clear(); err != nil {
			logger.Warn("failed to clear stored identity", "error", err)
		}
	}

	if callback != nil {
		callback()
	}
	s.Close()
}

func (s *Session) applyCaptureFailure(err error) {
	s.mu.Lock()
	callback := s.runOptions.onCaptureError
	s.mu.Unlock()

	if callback != nil {
		callback(err)
	}
}

// finishRecording handles both the local stop command and a remote stop
// request. Only a local stop is echoed to the remote side.
func (s *Session) finishRecording(remote bool) {
	_ = s.capture.Stop()
	if !remote {
		_ = s.wire.SendStopRecording()
	}

	s.mu.Lock()
	s.isRecording = false
	s.dictation.FlushPreview()
	s.mu.Unlock()

	s.notifyComposer()
}

func (s *Session) applySendComposed() {
	_, span := tracer.Start(s.baseContext, "send composed message")
	defer span.End()

	s.mu.Lock()
	text := s.dictation.TakeComposed()
	s.lastCommit = ""
	if text == "" {
		s.mu.Unlock()
		return
	}
	s.timeline.appendMessage(s.identity.UserID, text, "", s.identity.Language)
	s.mu.Unlock()

	if err := s.wire.SendText(text); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}

	s.notifyComposer()
	s.notifyTimeline()
}

func (s *Session) applySetDraft(text string) {
	s.mu.Lock()
	s.dictation.SetDraft(text)
	s.mu.Unlock()

	s.notifyComposer()
}

func (s *Session) notifyComposer() {
	s.mu.Lock()
	callback := s.runOptions.onComposerUpdated
	draft, preview := s.dictation.Draft(), s.dictation.Preview()
	s.mu.Unlock()

	if callback != nil {
		callback(draft, preview)
	}
}

func (s *Session) notifyTimeline() {
	s.mu.Lock()
	callback := s.runOptions.onTimelineUpdated
	var entries []TimelineEntry
	if callback != nil {
		entries = s.timeline.snapshot()
	}
	s.mu.Unlock()

	if callback != nil {
		callback(entries)
	}
}

// notifyStatus recomputes the status line and fires the callback only when
// it actually changed.
func (s *Session) notifyStatus() {
	s.mu.Lock()
	status := s.computeStatusLocked()
	changed := status != s.status
	s.status = status
	callback := s.runOptions.onStatusChanged
	s.mu.Unlock()

	if changed && callback != nil {
		callback(status)
	}
}

func (s *Session) computeStatusLocked() Status {
	if s.connState != transport.StateOpen {
		return StatusDisconnected
	}
	if s.processing {
		return StatusTranscribing
	}
	if s.completeVisible {
		return StatusComplete
	}
	return StatusOnline
}
