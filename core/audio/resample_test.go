package audio

import (
	"bytes"
	"encoding/binary"
	"math"
	"testing"
)

func TestDownsampleIsIdentityWhenRatesMatch(t *testing.T) {
	buf := []float32{0.1, -0.2, 0.3, -0.4}

	got, err := Downsample(buf, 16000, 16000)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(got) != len(buf) {
		t.Fatalf("expected length %d, got %d", len(buf), len(got))
	}
	for i := range buf {
		if got[i] != buf[i] {
			t.Fatalf("expected sample %d to be %f, got %f", i, buf[i], got[i])
		}
	}
}

func TestDownsampleRejectsUpsampling(t *testing.T) {
	if _, err := Downsample([]float32{0}, 16000, 48000); err == nil {
		t.Fatalf("expected error when output rate exceeds input rate")
	}
}

func TestDownsampleAveragesWindows(t *testing.T) {
	buf := []float32{0.5, 0.5, 0.25, 0.25}

	got, err := Downsample(buf, 4, 2)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 samples, got %d", len(got))
	}
	if got[0] != 0.5 || got[1] != 0.25 {
		t.Fatalf("expected window averages [0.5 0.25], got %v", got)
	}
}

func TestDownsampleIsDeterministic(t *testing.T) {
	buf := make([]float32, 4800)
	for i := range buf {
		buf[i] = float32(math.Sin(float64(i) / 7))
	}

	first, err := Downsample(buf, 48000, 16000)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	second, err := Downsample(buf, 48000, 16000)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if !bytes.Equal(EncodePCM16(first), EncodePCM16(second)) {
		t.Fatalf("expected repeated downsampling to be bit-identical")
	}
}

func TestEncodePCM16Boundaries(t *testing.T) {
	encoded := EncodePCM16([]float32{1.0, -1.0, 0.0, 2.0, -2.0})

	samples := make([]int16, len(encoded)/2)
	for i := range samples {
		samples[i] = int16(binary.LittleEndian.Uint16(encoded[i*2:]))
	}

	expected := []int16{32767, -32767, 0, 32767, -32767}
	for i, want := range expected {
		if samples[i] != want {
			t.Fatalf("expected sample %d to encode to %d, got %d", i, want, samples[i])
		}
	}
}

func TestEncodePCM16Truncates(t *testing.T) {
	encoded := EncodePCM16([]float32{0.99999})

	got := int16(binary.LittleEndian.Uint16(encoded))
	if got != 32766 {
		t.Fatalf("expected truncation to 32766, got %d", got)
	}
}

func TestDownsampleToPCM16ComposesStages(t *testing.T) {
	buf := []float32{1.0, 1.0, -1.0, -1.0}

	encoded, err := DownsampleToPCM16(buf, 4, 2)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(encoded) != 4 {
		t.Fatalf("expected 2 encoded samples (4 bytes), got %d bytes", len(encoded))
	}

	first := int16(binary.LittleEndian.Uint16(encoded))
	second := int16(binary.LittleEndian.Uint16(encoded[2:]))
	if first != 32767 || second != -32767 {
		t.Fatalf("expected [32767 -32767], got [%d %d]", first, second)
	}
}
