package events

const (
	// KindProcessingStatusChanged identifies remote processing transitions.
	KindProcessingStatusChanged Kind = "status.processing_changed"
	// KindRecordingStopRequested identifies remote stop-capture requests.
	KindRecordingStopRequested Kind = "recording.stop_requested"
	// KindConnectionStateChanged identifies transport lifecycle moves.
	KindConnectionStateChanged Kind = "connection.state_changed"
)

// ProcessingStatusChanged marks the remote service starting or finishing
// work on an utterance.
type ProcessingStatusChanged struct {
	Base
	Processing bool
}

// NewProcessingStatusChanged creates a processing status event.
func NewProcessingStatusChanged(processing bool) ProcessingStatusChanged {
	return ProcessingStatusChanged{Base: NewBase(KindProcessingStatusChanged), Processing: processing}
}

// RecordingStopRequested marks a remote request to stop capturing.
type RecordingStopRequested struct{ Base }

// NewRecordingStopRequested creates a stop-recording request event.
func NewRecordingStopRequested() RecordingStopRequested {
	return RecordingStopRequested{Base: NewBase(KindRecordingStopRequested)}
}

// ConnectionStateChanged marks a transport lifecycle transition.
type ConnectionStateChanged struct {
	Base
	State string
}

// NewConnectionStateChanged creates a connection state event.
func NewConnectionStateChanged(state string) ConnectionStateChanged {
	return ConnectionStateChanged{Base: NewBase(KindConnectionStateChanged), State: state}
}
