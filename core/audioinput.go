package session

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/koscakluka/parley-core/core/audio"
)

// defaultChunkSamples is how many device-rate samples are gathered before a
// chunk is resampled, encoded, and handed off.
const defaultChunkSamples = 4096

// audioCapture is the microphone facade. It normalizes optional client wiring
// the same way the output side does: every method is safe to call with no
// client configured.
type audioCapture struct {
	// base stores the configured capture client.
	base AudioInput

	// connected reports whether a concrete capture client is configured.
	connected atomic.Bool
	// isCapturing reports whether the client is currently delivering samples.
	isCapturing atomic.Bool

	// onChunk receives encoded wire-ready chunks.
	onChunk func(chunk []byte)
	// onError receives capture failures that happen after start.
	onError func(err error)

	chunker *captureChunker
}

func newAudioCapture(client AudioInput, chunkSamples int, onChunk func(chunk []byte), onError func(err error)) *audioCapture {
	if onChunk == nil {
		onChunk = func(chunk []byte) {}
	}
	if onError == nil {
		onError = func(err error) {}
	}

	capture := audioCapture{onChunk: onChunk, onError: onError}
	capture.Set(client, chunkSamples)
	return &capture
}

func (a *audioCapture) Set(client AudioInput, chunkSamples int) {
	if a == nil {
		return
	}

	a.base = client
	a.connected.Store(false)
	a.isCapturing.Store(false)
	a.chunker = nil

	if client == nil {
		return
	}

	a.connected.Store(true)
	a.chunker = newCaptureChunker(client.EncodingInfo().SampleRate, chunkSamples, a.onChunk, a.onError)
}

func (a *audioCapture) IsConfigured() bool { return a != nil && a.connected.Load() }
func (a *audioCapture) IsCapturing() bool  { return a != nil && a.isCapturing.Load() }

func (a *audioCapture) Start(ctx context.Context) error {
	if !a.IsConfigured() {
		return nil
	}

	if !a.isCapturing.CompareAndSwap(false, true) {
		return nil
	}

	if err := a.base.StartCapture(ctx, a.chunker.push); err != nil {
		a.isCapturing.Store(false)
		return fmt.Errorf("failed to start audio capture: %w", err)
	}
	return nil
}

func (a *audioCapture) Stop() error {
	if !a.IsConfigured() {
		return nil
	}

	if !a.isCapturing.CompareAndSwap(true, false) {
		return nil
	}

	a.chunker.reset()
	if err := a.base.StopCapture(); err != nil {
		return fmt.Errorf("failed to stop audio capture: %w", err)
	}
	return nil
}

func (a *audioCapture) Close() error {
	if a == nil || !a.IsConfigured() {
		return nil
	}

	_ = a.Stop()
	a.base.Close()
	a.connected.Store(false)
	return nil
}

func (a *audioCapture) EncodingInfo() audio.EncodingInfo {
	if a == nil || a.base == nil {
		return audio.GetDefaultEncodingInfo()
	}
	return a.base.EncodingInfo()
}

// captureChunker gathers device-rate samples into fixed windows and turns
// each full window into one wire chunk. Capture callbacks deliver whatever
// buffer size the backend favors, so window boundaries rarely line up with
// callback boundaries.
type captureChunker struct {
	deviceRate   int
	chunkSamples int
	onChunk      func(chunk []byte)
	onError      func(err error)

	pending []float32
}

func newCaptureChunker(deviceRate, chunkSamples int, onChunk func(chunk []byte), onError func(err error)) *captureChunker {
	if chunkSamples <= 0 {
		chunkSamples = defaultChunkSamples
	}
	return &captureChunker{
		deviceRate:   deviceRate,
		chunkSamples: chunkSamples,
		onChunk:      onChunk,
		onError:      onError,
	}
}

func (c *captureChunker) push(samples []float32) {
	c.pending = append(c.pending, samples...)

	for len(c.pending) >= c.chunkSamples {
		window := c.pending[:c.chunkSamples]
		chunk, err := audio.DownsampleToPCM16(window, c.deviceRate, audio.DefaultSampleRate)
		c.pending = c.pending[c.chunkSamples:]
		if err != nil {
			logger.Warn("dropping capture window", "error", err)
			if c.onError != nil {
				c.onError(fmt.Errorf("failed to encode capture window: %w", err))
			}
			continue
		}

		chunksEncoded.Add(context.Background(), 1)
		c.onChunk(chunk)
	}
}

// reset discards a partial window, used when capture stops so stale samples
// do not leak into the next recording.
func (c *captureChunker) reset() {
	c.pending = nil
}
