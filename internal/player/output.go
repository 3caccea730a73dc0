// ABOUTME: Oto-based audio output for the playback endpoint
// ABOUTME: Feeds the hardware from a persistent processor-backed reader
package player

import (
	"fmt"
	"log"

	"github.com/Resonate-Protocol/voicebridge-go/pkg/voicebuffer"
	"github.com/ebitengine/oto/v3"
)

// Output owns the oto context and the persistent player that pulls from
// the processor. oto only allows one context per process, so Output is
// created once for the endpoint's lifetime.
type Output struct {
	otoCtx *oto.Context
	player *oto.Player
	reader *BlockReader

	sampleRate int
	channels   int
}

// NewOutput creates an audio output draining proc in blockSize blocks.
func NewOutput(proc *voicebuffer.Processor, blockSize, channels int, tap func([]float32)) *Output {
	return &Output{
		reader:     NewBlockReader(proc, blockSize, channels, tap),
		sampleRate: proc.OutputRate(),
		channels:   channels,
	}
}

// Start initializes the audio device and begins playback. The player
// reads continuously; silence flows whenever the buffer is dry.
func (o *Output) Start() error {
	op := &oto.NewContextOptions{
		SampleRate:   o.sampleRate,
		ChannelCount: o.channels,
		Format:       oto.FormatSignedInt16LE,
	}

	ctx, readyChan, err := oto.NewContext(op)
	if err != nil {
		return fmt.Errorf("failed to create oto context: %w", err)
	}

	<-readyChan

	o.otoCtx = ctx
	o.player = ctx.NewPlayer(o.reader)
	o.player.Play()

	log.Printf("Audio output started: %dHz, %d channels", o.sampleRate, o.channels)

	return nil
}

// Close stops playback and releases the device.
func (o *Output) Close() error {
	if o.player != nil {
		o.player.Close()
		o.player = nil
	}
	if o.otoCtx != nil {
		o.otoCtx.Suspend()
	}
	return nil
}
