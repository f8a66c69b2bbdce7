package portaudio

import (
	"context"
	"fmt"

	"github.com/gordonklaus/portaudio"
	"github.com/koscakluka/parley-core/core/audio"
)

const captureSampleRate = 48000

// Client is an alternative microphone backend. It is capture-only; pair it
// with the miniaudio client when playback is needed.
type Client struct {
	bufferSize int
	stream     *portaudio.Stream

	in []float32
}

func NewClient(bufferSize int) (*Client, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("failed to initialize portaudio: %w", err)
	}

	in := make([]float32, bufferSize)
	stream, err := portaudio.OpenDefaultStream(1, 0, captureSampleRate, bufferSize, in)
	if err != nil {
		_ = portaudio.Terminate()
		return nil, fmt.Errorf("failed to open portaudio stream: %w", err)
	}

	return &Client{
		bufferSize: bufferSize,
		stream:     stream,
		in:         in,
	}, nil
}

func (c *Client) StartCapture(ctx context.Context, onSamples func(samples []float32)) error {
	if err := c.stream.Start(); err != nil {
		return fmt.Errorf("failed to start portaudio stream: %w", err)
	}

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			default:
				if err := c.stream.Read(); err != nil {
					return
				}

				samples := make([]float32, len(c.in))
				copy(samples, c.in)
				onSamples(samples)
			}
		}
	}()
	return nil
}

func (c *Client) StopCapture() error {
	if err := c.stream.Stop(); err != nil {
		return fmt.Errorf("failed to stop portaudio stream: %w", err)
	}
	return nil
}

func (c *Client) Close() {
	c.stream.Close()
	_ = portaudio.Terminate()
}

func (c *Client) EncodingInfo() audio.EncodingInfo {
	return audio.EncodingInfo{
		SampleRate: captureSampleRate,
		Format:     audio.EncodingFloat32,
	}
}
