package session

import "strings"

// DictationBuffer holds the text the user is composing: a committed part the
// user can edit freely and a volatile preview part that trails the committed
// text while transcription is still in flight.
//
// Previews replace each other wholesale. Commits fold into the committed text
// exactly once. A manual edit always wins: it overwrites the committed text
// and discards whatever preview was showing.
type DictationBuffer struct {
	committed string
	preview   string
}

// ApplyPreview replaces the current preview. An empty preview clears it.
func (b *DictationBuffer) ApplyPreview(text string) {
	b.preview = text
}

// Commit folds a finalized segment into the committed text and clears the
// preview that anticipated it.
func (b *DictationBuffer) Commit(text string) {
	b.committed = joinSegments(b.committed, text)
	b.preview = ""
}

// FlushPreview promotes a still-pending preview into the committed text. Used
// when recording stops before the final segment arrives, so spoken words are
// not lost.
func (b *DictationBuffer) FlushPreview() {
	if b.preview == "" {
		return
	}
	b.committed = joinSegments(b.committed, b.preview)
	b.preview = ""
}

// SetDraft overwrites the committed text with a manual edit and discards the
// preview.
func (b *DictationBuffer) SetDraft(text string) {
	b.committed = text
	b.preview = ""
}

func (b *DictationBuffer) Draft() string   { return b.committed }
func (b *DictationBuffer) Preview() string { return b.preview }

// Composed renders the text as the user sees it, committed text followed by
// the ghost preview.
func (b *DictationBuffer) Composed() string {
	return joinSegments(b.committed, b.preview)
}

// TakeComposed returns the full composed text and resets the buffer. A
// pending preview is included so nothing the user saw is dropped on send.
func (b *DictationBuffer) TakeComposed() string {
	composed := b.Composed()
	b.committed = ""
	b.preview = ""
	return composed
}

func (b *DictationBuffer) Clear() {
	b.committed = ""
	b.preview = ""
}

// joinSegments appends a segment with exactly one separating space, however
// the previous text ended.
func joinSegments(previous, segment string) string {
	if segment == "" {
		return previous
	}

	previous = strings.TrimRight(previous, " ")
	if previous == "" {
		return segment
	}
	return previous + " " + segment
}
