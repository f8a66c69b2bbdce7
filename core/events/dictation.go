package events

const (
	// KindDictationPreviewUpdated identifies ghost-text hypothesis updates.
	KindDictationPreviewUpdated Kind = "dictation.preview_updated"
	// KindDictationCommitted identifies finalized dictation fragments.
	KindDictationCommitted Kind = "dictation.committed"
)

// DictationPreviewUpdated carries the current whole-utterance hypothesis.
// Each update supersedes the previous one entirely.
type DictationPreviewUpdated struct {
	Base
	Text string
}

// NewDictationPreviewUpdated creates a preview update event.
func NewDictationPreviewUpdated(text string) DictationPreviewUpdated {
	return DictationPreviewUpdated{Base: NewBase(KindDictationPreviewUpdated), Text: text}
}

// DictationCommitted carries a finalized fragment to append to the draft.
type DictationCommitted struct {
	Base
	Text string
}

// NewDictationCommitted creates a committed dictation event.
func NewDictationCommitted(text string) DictationCommitted {
	return DictationCommitted{Base: NewBase(KindDictationCommitted), Text: text}
}
