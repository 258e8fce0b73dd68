package piano

import (
	"context"
	"io"
	"log"
	"sync/atomic"

	"github.com/hajimehoshi/oto"
)

const (
	sampleRate      = 48000
	channelNum      = 2
	bitDepthInBytes = 2
	samplesPerCycle = 1024
)
const bytesPerSample = bitDepthInBytes * channelNum
const bufferSizeInBytes = samplesPerCycle * bytesPerSample // should be >= 4096
const microsPerSample = 1e6 / float64(sampleRate)

const speakerGain = 0.25

// Rate the timer idles at before the first note is published.
const idleHalfPeriodMicros = 10000

// ----- Speaker ----- //

// Speaker is the hosted transducer and timer in one. It implements
// Board by owning the speaker pin and delegating every other pin to
// the inner input board, and it implements Timer by clocking the
// interrupt off the sample stream: each Read advances a microsecond
// accumulator per sample and runs the fire callback every half-period,
// so pin toggles land sample-accurately in the PCM output with no
// wall-clock jitter.
type Speaker struct {
	ctx    context.Context
	inputs Board
	pin    int
	fire   func()

	half  int64 // atomic; interval between fires in µs
	level int32 // atomic; current speaker pin logic level
	acc   float64
}

var _ io.Reader = (*Speaker)(nil)
var _ Board = (*Speaker)(nil)
var _ Timer = (*Speaker)(nil)

// NewSpeaker ...
func NewSpeaker(inputs Board, pin int) *Speaker {
	return &Speaker{
		ctx:    context.Background(),
		inputs: inputs,
		pin:    pin,
		fire:   func() {},
		half:   idleHalfPeriodMicros,
	}
}

// SetInterrupt installs the generator's fire callback. It runs
// synchronously inside Read, and the write is unsynchronized: install
// it during wiring, before Start or the first Read.
func (s *Speaker) SetInterrupt(fire func()) {
	s.fire = fire
}

// Reprogram implements Timer.
func (s *Speaker) Reprogram(halfPeriodMicros int64) {
	if halfPeriodMicros < 1 {
		halfPeriodMicros = 1
	}
	atomic.StoreInt64(&s.half, halfPeriodMicros)
}

// ----- Board ----- //

// ReadDigital ...
func (s *Speaker) ReadDigital(pin int) bool {
	if pin == s.pin {
		return atomic.LoadInt32(&s.level) != 0
	}
	return s.inputs.ReadDigital(pin)
}

// ReadAnalog ...
func (s *Speaker) ReadAnalog(pin int) int {
	return s.inputs.ReadAnalog(pin)
}

// WriteDigital ...
func (s *Speaker) WriteDigital(pin int, high bool) {
	if pin != s.pin {
		s.inputs.WriteDigital(pin, high)
		return
	}
	var v int32
	if high {
		v = 1
	}
	atomic.StoreInt32(&s.level, v)
}

// Toggle ...
func (s *Speaker) Toggle(pin int) {
	if pin != s.pin {
		s.inputs.Toggle(pin)
		return
	}
	atomic.StoreInt32(&s.level, 1-atomic.LoadInt32(&s.level))
}

// ----- PCM rendering ----- //

func (s *Speaker) Read(buf []byte) (int, error) {
	select {
	case <-s.ctx.Done():
		log.Println("Read() interrupted.")
		return 0, io.EOF
	default:
		bufSamples := len(buf) / bytesPerSample
		for i := 0; i < bufSamples; i++ {
			s.acc += microsPerSample
			for half := float64(atomic.LoadInt64(&s.half)); s.acc >= half; half = float64(atomic.LoadInt64(&s.half)) {
				s.fire()
				s.acc -= half
			}
			value := 0.0
			if atomic.LoadInt32(&s.level) != 0 {
				value = speakerGain
			}
			writeSample(buf, i, value)
		}
		return bufSamples * bytesPerSample, nil
	}
}

func writeSample(buf []byte, i int, value float64) {
	const max = 32767
	b := int16(value * max)
	for ch := 0; ch < channelNum; ch++ {
		buf[bytesPerSample*i+2*ch] = byte(b)
		buf[bytesPerSample*i+2*ch+1] = byte(b >> 8)
	}
}

// Start streams to the default audio device until the context is
// cancelled.
func (s *Speaker) Start(ctx context.Context) error {
	otoContext, err := oto.NewContext(sampleRate, channelNum, bitDepthInBytes, bufferSizeInBytes)
	if err != nil {
		return err
	}
	defer func() {
		if err := otoContext.Close(); err != nil {
			log.Printf("error while closing oto context: %v", err)
		}
	}()
	p := otoContext.NewPlayer()
	defer func() {
		if err := p.Close(); err != nil {
			log.Printf("error: %v", err)
		}
	}()
	s.ctx = ctx

	// block until cancel() called
	if _, err := io.CopyBuffer(p, s, make([]byte, bufferSizeInBytes)); err != nil {
		return err
	}
	log.Println("Start() ended.")
	return nil
}
