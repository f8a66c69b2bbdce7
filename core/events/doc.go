// Package events defines the typed session event contract.
//
// Event kinds are grouped by receiver-facing namespaces:
//
//   - dictation.*
//   - message.*
//   - status.*
//   - recording.*
//   - connection.*
//
// Semantics used across the package:
//
//   - Preview: mutable whole-utterance hypothesis, replaced wholesale on
//     every update, never appended to.
//   - Committed: finalized dictation fragment to be flushed into the draft.
//   - Artifact: opaque encoded audio payload arriving asynchronously from
//     the text it belongs to.
//   - Notice: out-of-band system text that renders in the timeline without a
//     sender.
//
// dictation events
//
//   - DictationPreviewUpdated (dictation.preview_updated): ghost-text
//     hypothesis replaced with a new snapshot.
//   - DictationCommitted (dictation.committed): finalized fragment for the
//     draft buffer.
//
// message events
//
//   - MessageReceived (message.received): a text-bearing conversation
//     message, possibly carrying a translation and language tag.
//   - AudioArtifactReceived (message.audio_artifact): synthesized audio for
//     a prior message from the same sender.
//   - SystemNotice (message.system_notice): out-of-band text, including the
//     rendering of payloads that failed to parse.
//
// status events
//
//   - ProcessingStatusChanged (status.processing_changed): the remote
//     service started or finished processing an utterance.
//
// recording events
//
//   - RecordingStopRequested (recording.stop_requested): the remote side
//     asked the client to stop capturing.
//
// connection events
//
//   - ConnectionStateChanged (connection.state_changed): the transport moved
//     between lifecycle states.
//
// Unknown (unknown) carries any structurally valid payload whose type tag is
// not recognized; consumers must ignore it rather than reject it.
package events
