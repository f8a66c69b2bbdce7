package session

import (
	"time"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

// TimelineEntry is one rendered row of the conversation: a chat message, its
// optional translation, and the voice artifact that produced it once the
// remote service delivers one.
type TimelineEntry struct {
	ID         uuid.UUID
	Sender     string
	Text       string
	Translated string
	Language   string
	System     bool

	// AudioArtifact is the base64 payload of the voice clip behind this
	// entry, empty until one arrives.
	AudioArtifact string

	ReceivedAt time.Time
}

// timeline is the ordered message history. Messages and their voice artifacts
// arrive on separate frames in no guaranteed order, so artifacts are attached
// after the fact by scanning backwards for the sender's most recent entry.
type timeline struct {
	entries          []TimelineEntry
	droppedArtifacts int
}

// appendMessage adds a chat message. The remote service occasionally
// re-delivers the last message (reconnects, duplicate fan-out), so an entry
// identical to the sender's most recent one is dropped.
func (t *timeline) appendMessage(sender, text, translated, language string) bool {
	for i := len(t.entries) - 1; i >= 0; i-- {
		if t.entries[i].System || t.entries[i].Sender != sender {
			continue
		}
		if t.entries[i].Text == text && t.entries[i].Translated == translated {
			return false
		}
		break
	}

	t.entries = append(t.entries, TimelineEntry{
		ID:         uuid.New(),
		Sender:     sender,
		Text:       text,
		Translated: translated,
		Language:   language,
		ReceivedAt: time.Now(),
	})
	return true
}

func (t *timeline) appendNotice(text string) {
	t.entries = append(t.entries, TimelineEntry{
		ID:         uuid.New(),
		Text:       text,
		System:     true,
		ReceivedAt: time.Now(),
	})
}

// attachArtifact pairs a voice artifact with the sender's most recent
// non-system entry. An artifact with no matching entry is dropped and
// counted; it would otherwise dangle forever.
func (t *timeline) attachArtifact(sender, payload string) bool {
	for i := len(t.entries) - 1; i >= 0; i-- {
		if t.entries[i].System || t.entries[i].Sender != sender {
			continue
		}
		t.entries[i].AudioArtifact = payload
		return true
	}

	t.droppedArtifacts++
	return false
}

func (t *timeline) clear() {
	t.entries = nil
}

// snapshot returns a deep copy so callers can render without holding the
// session lock.
func (t *timeline) snapshot() []TimelineEntry {
	if len(t.entries) == 0 {
		return nil
	}

	entries := make([]TimelineEntry, 0, len(t.entries))
	if err := copier.Copy(&entries, &t.entries); err != nil {
		entries = append(entries[:0], t.entries...)
	}
	return entries
}
