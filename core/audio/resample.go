package audio

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Downsample reduces a buffer of float samples from inRate to outRate by
// averaging round(inRate/outRate)-sized windows of input samples. The window
// average acts as a crude box-filter low pass, which is enough to keep
// transcription-grade audio free of the worst aliasing.
//
// When the rates match the input buffer is returned unchanged. Upsampling is
// not supported and returns an error.
//
// The function is stateless and deterministic: identical input always
// produces bit-identical output.
func Downsample(buf []float32, inRate, outRate int) ([]float32, error) {
	if inRate <= 0 || outRate <= 0 {
		return nil, fmt.Errorf("invalid sample rate: in=%d out=%d", inRate, outRate)
	}
	if outRate > inRate {
		return nil, fmt.Errorf("cannot downsample from %d Hz to higher rate %d Hz", inRate, outRate)
	}
	if outRate == inRate {
		return buf, nil
	}

	ratio := float64(inRate) / float64(outRate)
	result := make([]float32, int(math.Round(float64(len(buf))/ratio)))

	offset := 0
	for i := range result {
		nextOffset := int(math.Round(float64(i+1) * ratio))

		accum := 0.0
		count := 0
		for j := offset; j < nextOffset && j < len(buf); j++ {
			accum += float64(buf[j])
			count++
		}
		if count > 0 {
			result[i] = float32(accum / float64(count))
		}
		offset = nextOffset
	}

	return result, nil
}

// EncodePCM16 converts float samples in [-1.0, 1.0] to 16-bit signed
// little-endian PCM. Samples are clamped to the valid range and scaled by
// 32767; the conversion truncates rather than rounds, matching hardware PCM
// semantics (so -1.0 encodes to -32767, not -32768).
func EncodePCM16(buf []float32) []byte {
	out := make([]byte, len(buf)*2)
	for i, sample := range buf {
		if sample > 1.0 {
			sample = 1.0
		} else if sample < -1.0 {
			sample = -1.0
		}
		binary.LittleEndian.PutUint16(out[i*2:], uint16(int16(sample*32767)))
	}
	return out
}

// DownsampleToPCM16 runs both conversion stages: rate reduction followed by
// 16-bit encoding. This is the whole outbound audio path between the capture
// device and the transport.
func DownsampleToPCM16(buf []float32, inRate, outRate int) ([]byte, error) {
	downsampled, err := Downsample(buf, inRate, outRate)
	if err != nil {
		return nil, err
	}
	return EncodePCM16(downsampled), nil
}
