// ABOUTME: Block reader bridging the processor pull contract to io.Reader
// ABOUTME: Drains fixed-size blocks, converts to PCM16, fans out channels
package player

import (
	"github.com/Resonate-Protocol/voicebridge-go/pkg/voicebuffer"
)

// BlockReader drains a processor in fixed-size blocks and serves the
// result as a 16-bit little-endian PCM byte stream. This is the pull
// loop: the audio backend reads at the hardware's cadence, and every
// read is satisfied in full — underruns come back as silence from the
// processor, so the stream never stalls and never ends.
type BlockReader struct {
	proc      *voicebuffer.Processor
	blockSize int
	channels  int
	tap       func([]float32)

	block []float32
	buf   []byte
	off   int
}

// NewBlockReader creates a reader pulling blockSize samples per block.
// Mono blocks are duplicated across channels. tap, if non-nil, observes
// each pulled block (used for the level meter) and must not retain it.
func NewBlockReader(proc *voicebuffer.Processor, blockSize, channels int, tap func([]float32)) *BlockReader {
	return &BlockReader{
		proc:      proc,
		blockSize: blockSize,
		channels:  channels,
		tap:       tap,
		block:     make([]float32, blockSize),
		buf:       make([]byte, blockSize*channels*2),
		off:       blockSize * channels * 2, // start with no pending bytes
	}
}

// Read fills p with PCM16 audio. It never returns io.EOF: a processor
// with nothing buffered produces silence, keeping the output stream
// alive for the life of the endpoint.
func (r *BlockReader) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}

	n := 0
	for n < len(p) {
		if r.off >= len(r.buf) {
			r.proc.Pull(r.block)
			if r.tap != nil {
				r.tap(r.block)
			}
			r.encodeBlock()
			r.off = 0
		}

		c := copy(p[n:], r.buf[r.off:])
		r.off += c
		n += c
	}

	return n, nil
}

// encodeBlock converts the pulled block to little-endian int16 bytes,
// duplicating the mono signal across output channels.
func (r *BlockReader) encodeBlock() {
	for i, s := range r.block {
		if s > 1.0 {
			s = 1.0
		} else if s < -1.0 {
			s = -1.0
		}
		v := int16(s * 32767.0)

		base := i * r.channels * 2
		for ch := 0; ch < r.channels; ch++ {
			r.buf[base+ch*2] = byte(v)
			r.buf[base+ch*2+1] = byte(uint16(v) >> 8)
		}
	}
}
