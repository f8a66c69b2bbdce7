package session

import (
	"reflect"

	"github.com/koscakluka/parley-core/core/audio"
)

// audioOutput is the playback facade for inbound voice artifacts.
//
// The facade is lightweight and nil-safe: with no client configured every
// method is a no-op, because playback is a non-fatal side effect of the
// timeline. Forwarding is best effort and client errors are swallowed.
type audioOutput struct {
	// base stores the configured output client.
	base AudioOutput
}

func newAudioOutput(client AudioOutput) *audioOutput {
	audioOutput := audioOutput{}
	audioOutput.Set(client)
	return &audioOutput
}

// Set replaces the configured output client. Nil and typed-nil clients are
// treated as unconfigured.
func (a *audioOutput) Set(client AudioOutput) {
	if a == nil {
		return
	}

	a.base = nil
	if isNilAudioOutput(client) {
		return
	}
	a.base = client
}

func (a *audioOutput) isConfigured() bool {
	return a != nil && a.base != nil
}

func (a *audioOutput) SendAudio(audio []byte) {
	if a.isConfigured() {
		_ = a.base.SendAudio(audio)
	}
}

func (a *audioOutput) Clear() {
	if a.isConfigured() {
		a.base.ClearBuffer()
	}
}

func (a *audioOutput) EncodingInfo() audio.EncodingInfo {
	if !a.isConfigured() {
		return audio.GetDefaultEncodingInfo()
	}
	return a.base.EncodingInfo()
}

// isNilAudioOutput detects nil and typed-nil interface values so Set does not
// store unusable interface wrappers as configured clients.
func isNilAudioOutput(client AudioOutput) bool {
	if client == nil {
		return true
	}

	v := reflect.ValueOf(client)
	switch v.Kind() {
	case reflect.Chan, reflect.Func, reflect.Interface, reflect.Map, reflect.Pointer, reflect.Slice:
		return v.IsNil()
	default:
		return false
	}
}
