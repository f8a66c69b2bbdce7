package transport

import (
	"encoding/json"

	"github.com/koscakluka/parley-core/core/events"
)

// Control payload type tags shared by both directions of the channel.
const (
	ControlTypePreview       = "preview"
	ControlTypeCommit        = "commit"
	ControlTypeStatus        = "status"
	ControlTypeStopRecording = "stop_recording"
	ControlTypeAudio         = "audio"
)

const (
	StatusProcessing = "processing"
	StatusIdle       = "idle"
)

// ControlMessage is the outbound structured payload. A plain chat send is a
// ControlMessage with only Text set.
type ControlMessage struct {
	Type   string `json:"type,omitempty"`
	Text   string `json:"text,omitempty"`
	Status string `json:"status,omitempty"`
}

// controlEnvelope is the superset of fields the remote service is known to
// emit on the control channel. Several backend paths spell the same semantic
// value differently (original vs text, src_lang vs lang); decoding preserves
// both spellings and leaves normalization to the reconciler.
type controlEnvelope struct {
	Type       string `json:"type"`
	Text       string `json:"text"`
	Status     string `json:"status"`
	Sender     string `json:"sender"`
	Payload    string `json:"payload"`
	Original   string `json:"original"`
	Translated string `json:"translated"`
	Language   string `json:"lang"`
	SrcLang    string `json:"src_lang"`
	System     string `json:"system"`
}

// DecodeControlPayload turns one inbound structured frame into a typed
// event. It never fails: payloads that do not parse become a system notice
// carrying the raw text (the timeline must always show something), and
// recognized-shape payloads with an unknown type tag become an Unknown event
// so new remote variants are ignored rather than rejected.
func DecodeControlPayload(raw []byte) events.Event {
	var envelope controlEnvelope
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return events.NewSystemNotice(string(raw))
	}

	switch envelope.Type {
	case ControlTypePreview:
		return events.NewDictationPreviewUpdated(envelope.Text)
	case ControlTypeCommit:
		return events.NewDictationCommitted(envelope.Text)
	case ControlTypeStatus:
		return events.NewProcessingStatusChanged(envelope.Status == StatusProcessing)
	case ControlTypeStopRecording:
		return events.NewRecordingStopRequested()
	case ControlTypeAudio:
		return events.NewAudioArtifactReceived(envelope.Sender, envelope.Payload)
	case "":
	default:
		return events.NewUnknown(envelope.Type, raw)
	}

	if envelope.System != "" {
		return events.NewSystemNotice(envelope.System)
	}

	if envelope.Sender != "" && (envelope.Text != "" || envelope.Original != "") {
		message := events.NewMessageReceived(envelope.Sender, envelope.Text, envelope.Translated, envelope.Language)
		message.OriginalText = envelope.Original
		message.SourceLanguage = envelope.SrcLang
		return message
	}

	return events.NewSystemNotice(string(raw))
}
