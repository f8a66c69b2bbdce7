package audio

const (
	// DefaultSampleRate is the canonical wire sample rate. All outbound
	// audio is reduced to this rate before transmission.
	DefaultSampleRate = 16000
	DefaultFormat     = "linear16"
)

func GetDefaultEncodingInfo() EncodingInfo {
	return EncodingInfo{SampleRate: DefaultSampleRate, Format: encodingFormat(DefaultFormat)}
}

type EncodingInfo struct {
	SampleRate int
	Format     encodingFormat
}

func (e EncodingInfo) IsZero() bool {
	return e.SampleRate == 0 || e.Format.Name() == ""
}

func (e EncodingInfo) SilenceValue() byte {
	return 0
}

type encodingFormat string

func (e encodingFormat) Name() string {
	return string(e)
}

func (e encodingFormat) ByteSize() int {
	switch e {
	case EncodingLinear16:
		return 2
	case EncodingFloat32:
		return 4
	}
	return -1
}

const (
	// EncodingLinear16 is 16-bit signed little-endian PCM, the only format
	// that goes over the wire.
	EncodingLinear16 encodingFormat = "linear16"
	// EncodingFloat32 is 32-bit float PCM as delivered by capture devices
	// before the downsample/encode stage.
	EncodingFloat32 encodingFormat = "float32"
)
