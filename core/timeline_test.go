package session

import "testing"

func TestAppendMessageKeepsOrder(t *testing.T) {
	timeline := timeline{}

	timeline.appendMessage("u1", "first", "", "en")
	timeline.appendMessage("u2", "second", "segundo", "es")

	entries := timeline.snapshot()
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Text != "first" || entries[1].Text != "second" {
		t.Fatalf("expected insertion order preserved, got %q then %q", entries[0].Text, entries[1].Text)
	}
	if entries[1].Translated != "segundo" {
		t.Fatalf("expected translation kept, got %q", entries[1].Translated)
	}
}

func TestAppendMessageDropsRedeliveredDuplicate(t *testing.T) {
	timeline := timeline{}

	if !timeline.appendMessage("u1", "hello", "", "en") {
		t.Fatalf("expected first append to succeed")
	}
	if timeline.appendMessage("u1", "hello", "", "en") {
		t.Fatalf("expected redelivered duplicate to be dropped")
	}
	if timeline.appendMessage("u2", "hello", "", "en") {
		// different sender, same text: a real message
	} else {
		t.Fatalf("expected same text from another sender to append")
	}

	if len(timeline.snapshot()) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(timeline.snapshot()))
	}
}

func TestAppendMessageAllowsRepeatAfterIntervening(t *testing.T) {
	timeline := timeline{}

	timeline.appendMessage("u1", "yes", "", "")
	timeline.appendMessage("u1", "no", "", "")
	if !timeline.appendMessage("u1", "yes", "", "") {
		t.Fatalf("expected repeat after an intervening message to append")
	}
}

func TestAttachArtifactPicksMostRecentSenderEntry(t *testing.T) {
	timeline := timeline{}

	timeline.appendMessage("u1", "older", "", "")
	timeline.appendMessage("u2", "other party", "", "")
	timeline.appendMessage("u1", "newer", "", "")

	if !timeline.attachArtifact("u1", "cGF5bG9hZA==") {
		t.Fatalf("expected artifact to attach")
	}

	entries := timeline.snapshot()
	if entries[0].AudioArtifact != "" {
		t.Fatalf("expected older entry untouched, got %q", entries[0].AudioArtifact)
	}
	if entries[2].AudioArtifact != "cGF5bG9hZA==" {
		t.Fatalf("expected artifact on newest entry, got %q", entries[2].AudioArtifact)
	}
}

func TestAttachArtifactSkipsSystemNotices(t *testing.T) {
	timeline := timeline{}

	timeline.appendMessage("u1", "spoken", "", "")
	timeline.appendNotice("u1 joined")

	if !timeline.attachArtifact("u1", "payload") {
		t.Fatalf("expected artifact to attach past the notice")
	}

	entries := timeline.snapshot()
	if entries[0].AudioArtifact != "payload" {
		t.Fatalf("expected artifact on the message, got %q", entries[0].AudioArtifact)
	}
	if entries[1].AudioArtifact != "" {
		t.Fatalf("expected notice untouched, got %q", entries[1].AudioArtifact)
	}
}

func TestAttachArtifactWithoutMatchIsDroppedAndCounted(t *testing.T) {
	timeline := timeline{}

	timeline.appendMessage("u1", "hello", "", "")

	if timeline.attachArtifact("u2", "payload") {
		t.Fatalf("expected artifact from unknown sender to be dropped")
	}
	if timeline.droppedArtifacts != 1 {
		t.Fatalf("expected 1 dropped artifact, got %d", timeline.droppedArtifacts)
	}
}

func TestSnapshotIsDetachedFromTimeline(t *testing.T) {
	timeline := timeline{}
	timeline.appendMessage("u1", "hello", "", "")

	entries := timeline.snapshot()
	entries[0].Text = "mutated"

	if timeline.snapshot()[0].Text != "hello" {
		t.Fatalf("expected snapshot mutation to not affect the timeline")
	}
}

func TestClearEmptiesTimeline(t *testing.T) {
	timeline := timeline{}
	timeline.appendMessage("u1", "hello", "", "")
	timeline.clear()

	if len(timeline.snapshot()) != 0 {
		t.Fatalf("expected empty timeline after clear")
	}
}
