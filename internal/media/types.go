// Package media defines the frame types that flow out of the decoder and
// wraps github.com/zergon321/reisen to produce them from a media file.
package media

// VideoFrame is one decoded, RGB24, row-major frame with its presentation
// timestamp in the decoder's time base (seconds).
type VideoFrame struct {
	Width, Height int
	Data          []byte // len == Width*Height*3
	PTS           float64
}

// AudioFrame is interleaved signed 16-bit stereo PCM at 48kHz, resampled by
// the decoder from whatever the source container carries.
type AudioFrame struct {
	Samples    []int16 // interleaved stereo
	SampleRate int
	Channels   int
	PTS        float64
}

const (
	// SampleRate is the fixed output sample rate all AudioFrames are
	// resampled to.
	SampleRate = 48000
	// Channels is the fixed output channel count.
	Channels = 2
)
