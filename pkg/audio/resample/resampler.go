// ABOUTME: Linear interpolation resampler for converting audio sample rates
// ABOUTME: Stateless per call, used to bring VAD frames up to playback rate
package resample

import (
	"fmt"
	"math"
)

// Resampler converts frames between two fixed sample rates using linear
// interpolation. It carries no state between calls other than the rates,
// so a single instance may be shared by any number of callers.
type Resampler struct {
	inputRate  int
	outputRate int
	ratio      float64 // outputRate / inputRate
}

// New creates a resampler. Both rates must be positive.
func New(inputRate, outputRate int) (*Resampler, error) {
	if inputRate <= 0 {
		return nil, fmt.Errorf("invalid input sample rate: %d", inputRate)
	}
	if outputRate <= 0 {
		return nil, fmt.Errorf("invalid output sample rate: %d", outputRate)
	}

	return &Resampler{
		inputRate:  inputRate,
		outputRate: outputRate,
		ratio:      float64(outputRate) / float64(inputRate),
	}, nil
}

// InputRate returns the configured input sample rate.
func (r *Resampler) InputRate() int { return r.inputRate }

// OutputRate returns the configured output sample rate.
func (r *Resampler) OutputRate() int { return r.outputRate }

// Ratio returns outputRate / inputRate.
func (r *Resampler) Ratio() float64 { return r.ratio }

// Resample converts one input frame to the output rate. The result has
// length ceil(len(input) * ratio). Empty input yields empty output.
//
// Equal rates take an identity path that copies the input verbatim,
// avoiding float round-off on the common no-op case.
func (r *Resampler) Resample(input []float32) []float32 {
	if len(input) == 0 {
		return []float32{}
	}

	if r.ratio == 1.0 {
		out := make([]float32, len(input))
		copy(out, input)
		return out
	}

	outputLen := int(math.Ceil(float64(len(input)) * r.ratio))
	output := make([]float32, outputLen)

	last := len(input) - 1
	for i := 0; i < outputLen; i++ {
		inputPos := float64(i) / r.ratio
		idx := int(inputPos)
		frac := float32(inputPos - float64(idx))

		var sample1, sample2 float32
		if idx <= last {
			sample1 = input[idx]
		}
		if idx+1 <= last {
			sample2 = input[idx+1]
		} else {
			// Flat extrapolation past the final input sample. Falling back
			// to zero here would ramp every chunk tail down artificially.
			sample2 = sample1
		}

		output[i] = sample1 + frac*(sample2-sample1)
	}

	return output
}

// OutputLen reports the length Resample will produce for an input of n
// samples.
func (r *Resampler) OutputLen(n int) int {
	if n <= 0 {
		return 0
	}
	if r.ratio == 1.0 {
		return n
	}
	return int(math.Ceil(float64(n) * r.ratio))
}
