package events

const (
	// KindMessageReceived identifies text-bearing conversation messages.
	KindMessageReceived Kind = "message.received"
	// KindAudioArtifactReceived identifies late-arriving audio artifacts.
	KindAudioArtifactReceived Kind = "message.audio_artifact"
	// KindSystemNotice identifies out-of-band system text.
	KindSystemNotice Kind = "message.system_notice"
	// KindUnknown identifies structurally valid payloads with an
	// unrecognized type tag.
	KindUnknown Kind = "unknown"
)

// MessageReceived carries one conversation message. Text and Language hold
// the canonical fields; OriginalText and SourceLanguage preserve the
// alternate spellings some backend paths emit so the reconciler can
// normalize them.
type MessageReceived struct {
	Base
	Sender         string
	Text           string
	OriginalText   string
	Translated     string
	Language       string
	SourceLanguage string
}

// NewMessageReceived creates a message event with canonical fields set.
func NewMessageReceived(sender, text, translated, language string) MessageReceived {
	return MessageReceived{
		Base:       NewBase(KindMessageReceived),
		Sender:     sender,
		Text:       text,
		Translated: translated,
		Language:   language,
	}
}

// AudioArtifactReceived carries an opaque encoded audio payload for a prior
// message from Sender. It carries no text of its own.
type AudioArtifactReceived struct {
	Base
	Sender  string
	Payload string
}

// NewAudioArtifactReceived creates an audio artifact event.
func NewAudioArtifactReceived(sender, payload string) AudioArtifactReceived {
	return AudioArtifactReceived{Base: NewBase(KindAudioArtifactReceived), Sender: sender, Payload: payload}
}

// SystemNotice carries out-of-band text. Unparseable inbound payloads are
// rendered as a notice so the timeline always shows something.
type SystemNotice struct {
	Base
	Text string
}

// NewSystemNotice creates a system notice event.
func NewSystemNotice(text string) SystemNotice {
	return SystemNotice{Base: NewBase(KindSystemNotice), Text: text}
}

// Unknown carries a payload whose type tag is not recognized. The remote
// side is free to add variants; these are ignored, never rejected.
type Unknown struct {
	Base
	Type string
	Raw  []byte
}

// NewUnknown creates an unknown payload event.
func NewUnknown(payloadType string, raw []byte) Unknown {
	return Unknown{Base: NewBase(KindUnknown), Type: payloadType, Raw: raw}
}
