package media

import (
	"fmt"
	"image"
	"os"
	"sync"
	"sync/atomic"

	"github.com/lzray-universe/asciiplay/internal/queue"
	"github.com/pkg/errors"
	"github.com/zergon321/reisen"
)

const (
	videoQueueCapacity = 8
	audioQueueCapacity = 32
)

// Options configures Decoder.Open.
type Options struct {
	URL         string
	EnableAudio bool
}

// Decoder opens a media file via reisen (an ffmpeg binding) and runs a
// background decode loop that demuxes packets, decodes video into RGB24 and
// audio into resampled 48kHz/stereo/s16, and pushes both onto bounded
// queues. It owns pixel-format conversion; callers never see reisen types.
type Decoder struct {
	media       *reisen.Media
	videoStream *reisen.VideoStream
	audioStream *reisen.AudioStream

	videoQueue *queue.Bounded[VideoFrame]
	audioQueue *queue.Bounded[AudioFrame]

	frameRateNum, frameRateDen int
	audioEnabled               bool
	videoFrameCount            uint64
	audioSampleCount           uint64

	wg      sync.WaitGroup
	running int32
	errOnce sync.Once
	err     error
	errMu   sync.Mutex
}

// New constructs an unopened Decoder.
func New() *Decoder {
	return &Decoder{
		videoQueue: queue.NewBounded[VideoFrame](videoQueueCapacity),
		audioQueue: queue.NewBounded[AudioFrame](audioQueueCapacity),
	}
}

// Open opens the container and its first video (and, if requested and
// present, audio) stream. Returns ErrInputOpen / ErrNoVideoStream wrapped
// with the underlying cause on failure.
func (d *Decoder) Open(opts Options) error {
	m, err := reisen.NewMedia(opts.URL)
	if err != nil {
		return errors.Wrap(ErrInputOpen, err.Error())
	}
	d.media = m

	for _, s := range m.Streams() {
		if s.Type() == reisen.StreamVideo {
			d.frameRateNum, d.frameRateDen = s.FrameRate()
		}
	}

	if err := m.OpenDecode(); err != nil {
		return errors.Wrap(ErrInputOpen, err.Error())
	}

	videoStreams := m.VideoStreams()
	if len(videoStreams) == 0 {
		return ErrNoVideoStream
	}
	d.videoStream = videoStreams[0]
	if err := d.videoStream.Open(); err != nil {
		return errors.Wrap(ErrNoVideoStream, err.Error())
	}

	if opts.EnableAudio {
		audioStreams := m.AudioStreams()
		if len(audioStreams) > 0 {
			d.audioStream = audioStreams[0]
			if err := d.audioStream.Open(); err != nil {
				// Audio failing to open is a downgrade, not fatal: warn
				// and carry on with audio disabled (§7's AudioInit policy).
				fmt.Fprintf(os.Stderr, "audio disabled: %v\n", err)
				d.audioStream = nil
			} else {
				d.audioEnabled = true
			}
		}
	}

	return nil
}

// AudioAvailable reports whether an audio stream was successfully opened.
func (d *Decoder) AudioAvailable() bool { return d.audioEnabled }

// FrameRate returns the source video stream's frame rate as a fraction.
func (d *Decoder) FrameRate() (num, den int) { return d.frameRateNum, d.frameRateDen }

// Start launches the background decode loop.
func (d *Decoder) Start() {
	atomic.StoreInt32(&d.running, 1)
	d.wg.Add(1)
	go d.decodeLoop()
}

// Stop requests the decode loop to exit and closes both output queues so
// blocked consumers unblock. It joins the decode goroutine.
func (d *Decoder) Stop() {
	atomic.StoreInt32(&d.running, 0)
	d.videoQueue.Close()
	d.audioQueue.Close()
	d.wg.Wait()
	if d.videoStream != nil {
		d.videoStream.Close()
	}
	if d.audioStream != nil {
		d.audioStream.Close()
	}
	if d.media != nil {
		d.media.CloseDecode()
	}
}

// PopVideoFrame blocks for the next decoded video frame. ok is false at EOF.
func (d *Decoder) PopVideoFrame() (VideoFrame, bool) { return d.videoQueue.Pop() }

// PopAudioFrame blocks for the next decoded audio frame. ok is false at EOF.
func (d *Decoder) PopAudioFrame() (AudioFrame, bool) { return d.audioQueue.Pop() }

// Err returns the first unexpected decode error encountered, if any.
func (d *Decoder) Err() error {
	d.errMu.Lock()
	defer d.errMu.Unlock()
	return d.err
}

func (d *Decoder) setErr(err error) {
	d.errOnce.Do(func() {
		d.errMu.Lock()
		d.err = err
		d.errMu.Unlock()
	})
}

func (d *Decoder) decodeLoop() {
	defer d.wg.Done()
	defer d.videoQueue.Close()
	defer d.audioQueue.Close()

	for atomic.LoadInt32(&d.running) == 1 {
		packet, gotPacket, err := d.media.ReadPacket()
		if err != nil {
			d.setErr(errors.Wrap(err, "media: read packet"))
			continue
		}
		if !gotPacket {
			return
		}

		switch packet.Type() {
		case reisen.StreamVideo:
			d.handleVideoPacket(packet)
		case reisen.StreamAudio:
			if d.audioEnabled {
				d.handleAudioPacket(packet)
			}
		}
	}
}

func (d *Decoder) handleVideoPacket(packet reisen.Packet) {
	s, ok := d.media.Streams()[packet.StreamIndex()].(*reisen.VideoStream)
	if !ok {
		return
	}
	frame, gotFrame, err := s.ReadVideoFrame()
	if err != nil || !gotFrame || frame == nil {
		return
	}
	pts := d.nextVideoPTS()
	vf := convertRGBA(frame.Image(), pts)
	d.videoQueue.Push(vf)
}

func (d *Decoder) handleAudioPacket(packet reisen.Packet) {
	s, ok := d.media.Streams()[packet.StreamIndex()].(*reisen.AudioStream)
	if !ok {
		return
	}
	frame, gotFrame, err := s.ReadAudioFrame()
	if err != nil || !gotFrame || frame == nil {
		return
	}
	af := d.convertAudioFrame(frame.Data())
	d.audioQueue.Push(af)
}

// convertRGBA drops the alpha channel from a decoded *image.RGBA into a
// tightly-packed RGB24 row-major buffer.
func convertRGBA(img *image.RGBA, pts float64) VideoFrame {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	out := make([]byte, w*h*3)
	for y := 0; y < h; y++ {
		srcRow := img.Pix[(y)*img.Stride : (y)*img.Stride+w*4]
		dstRow := out[y*w*3 : (y+1)*w*3]
		for x := 0; x < w; x++ {
			dstRow[x*3] = srcRow[x*4]
			dstRow[x*3+1] = srcRow[x*4+1]
			dstRow[x*3+2] = srcRow[x*4+2]
		}
	}
	return VideoFrame{Width: w, Height: h, Data: out, PTS: pts}
}

// nextVideoPTS derives presentation time from a monotonically advancing
// frame counter and the source frame rate, since reisen reports packets
// without exposing a ready-made per-frame timestamp accessor.
func (d *Decoder) nextVideoPTS() float64 {
	idx := atomic.AddUint64(&d.videoFrameCount, 1) - 1
	if d.frameRateNum <= 0 {
		return float64(idx)
	}
	return float64(idx) * float64(d.frameRateDen) / float64(d.frameRateNum)
}

// convertAudioFrame decodes reisen's little-endian float64 stereo samples
// (already resampled to 48kHz/stereo by the decoder) into interleaved s16,
// stamping pts from the running sample count.
func (d *Decoder) convertAudioFrame(raw []byte) AudioFrame {
	const bytesPerSample = 8
	n := len(raw) / bytesPerSample
	samples := make([]int16, n)
	for i := 0; i < n; i++ {
		bits := leUint64(raw[i*bytesPerSample:])
		f := float64frombits(bits)
		samples[i] = floatToS16(f)
	}
	frames := n / Channels
	startSample := atomic.AddUint64(&d.audioSampleCount, uint64(frames)) - uint64(frames)
	pts := float64(startSample) / float64(SampleRate)
	return AudioFrame{Samples: samples, SampleRate: SampleRate, Channels: Channels, PTS: pts}
}

func leUint64(b []byte) uint64 {
	return uint64(b[0]) | uint64(b[1])<<8 | uint64(b[2])<<16 | uint64(b[3])<<24 |
		uint64(b[4])<<32 | uint64(b[5])<<40 | uint64(b[6])<<48 | uint64(b[7])<<56
}
