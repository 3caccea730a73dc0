// ABOUTME: Streaming audio processor composing resampler and FIFO queue
// ABOUTME: Push side takes VAD frames, pull side drains fixed-size blocks
package voicebuffer

import (
	"fmt"
	"sync"

	"github.com/Resonate-Protocol/voicebridge-go/pkg/audio/resample"
)

// Kind tags a pushed frame. The VAD pipeline emits both live audio frames
// and complete speech segments; the processor treats them identically, but
// the tag is kept explicit so a speech-boundary behavior (e.g. flush) has
// a seam to hang off later.
type Kind string

const (
	// KindAudio is a live streaming frame.
	KindAudio Kind = "audio"
	// KindSpeech is a complete utterance segment.
	KindSpeech Kind = "speech"
)

// State is the processor lifecycle state.
type State int

const (
	// StateActive accepts pushes and serves pulls.
	StateActive State = iota
	// StateDraining rejects pushes; pulls keep serving buffered audio.
	StateDraining
	// StateClosed serves only silence.
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateActive:
		return "active"
	case StateDraining:
		return "draining"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Config holds the processor's fixed rates. Rates are frozen at
// construction; the output rate should come from the host audio output,
// passed in explicitly rather than read from any ambient default.
type Config struct {
	InputRate  int // Hz, rate of pushed frames (e.g. 16000)
	OutputRate int // Hz, rate of pulled blocks (e.g. 48000)
}

// Stats tracks processor counters.
type Stats struct {
	FramesIn   int64 // frames accepted by Push
	SamplesIn  int64 // input-rate samples accepted
	SamplesOut int64 // real (non-padding) samples served by Pull
	Underruns  int64 // pulls that needed silence padding while active
	Buffered   int   // output-rate samples currently queued
	State      State
}

// Processor buffers resampled VAD audio between a push-side producer and a
// pull-side consumer. Pushes resample immediately and append to a FIFO;
// pulls drain exactly the requested block and pad with silence on
// underrun. Neither side ever blocks on the other.
//
// Safe for one pushing goroutine and one pulling goroutine; the queue is
// mutex-guarded, and both critical sections are short and allocation-free.
type Processor struct {
	resampler *resample.Resampler

	mu    sync.Mutex
	queue queue
	state State
	stats Stats
}

// New creates a processor for the given rates.
func New(cfg Config) (*Processor, error) {
	r, err := resample.New(cfg.InputRate, cfg.OutputRate)
	if err != nil {
		return nil, fmt.Errorf("voicebuffer: %w", err)
	}

	return &Processor{resampler: r}, nil
}

// InputRate returns the configured push-side rate.
func (p *Processor) InputRate() int { return p.resampler.InputRate() }

// OutputRate returns the configured pull-side rate.
func (p *Processor) OutputRate() int { return p.resampler.OutputRate() }

// Push resamples one frame and appends it to the buffer. Empty frames are
// dropped silently, as are pushes after Close. Both frame kinds are
// buffered identically.
func (p *Processor) Push(kind Kind, samples []float32) {
	if len(samples) == 0 {
		return
	}

	// Resampling is stateless, so it can run outside the lock.
	chunk := p.resampler.Resample(samples)

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.state != StateActive {
		return
	}

	p.queue.push(chunk)
	p.stats.FramesIn++
	p.stats.SamplesIn += int64(len(samples))
}

// Pull fills dst with buffered audio, padding with silence if the buffer
// runs dry. It always fills all of dst and never blocks; underrun is a
// normal, silent condition. Returns the number of real samples written.
func (p *Processor) Pull(dst []float32) int {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.state == StateClosed {
		for i := range dst {
			dst[i] = 0
		}
		return 0
	}

	n := p.queue.pull(dst)
	p.stats.SamplesOut += int64(n)

	if n < len(dst) && p.state == StateActive && len(dst) > 0 {
		p.stats.Underruns++
	}

	if p.state == StateDraining && p.queue.len() == 0 {
		p.state = StateClosed
	}

	return n
}

// Close stops accepting pushes and lets pulls drain what remains. Once the
// buffer empties the processor transitions to Closed and serves silence.
// Safe to call more than once.
func (p *Processor) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.state != StateActive {
		return
	}

	if p.queue.len() == 0 {
		p.state = StateClosed
		return
	}
	p.state = StateDraining
}

// State returns the current lifecycle state.
func (p *Processor) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Stats returns a snapshot of the processor counters.
func (p *Processor) Stats() Stats {
	p.mu.Lock()
	defer p.mu.Unlock()

	s := p.stats
	s.Buffered = p.queue.len()
	s.State = p.state
	return s
}
