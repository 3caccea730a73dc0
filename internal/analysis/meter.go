// ABOUTME: FFT band level meter over pulled audio blocks
// ABOUTME: Feeds the TUI with per-band magnitudes via gonum FFT
package analysis

import (
	"math"
	"math/cmplx"
	"sync"

	"gonum.org/v1/gonum/dsp/fourier"
)

// Meter computes frequency band levels from fixed-size audio blocks.
// Process is called from the audio pull path, so all buffers are
// pre-allocated; Levels is read by the UI at its own cadence.
type Meter struct {
	blockSize int
	bands     int

	fft       *fourier.FFT
	window    []float64
	input     []float64
	coeffs    []complex128
	magnitude []float64

	mu     sync.Mutex
	levels []float64
}

// NewMeter creates a meter for blocks of blockSize samples, collapsing
// the spectrum into the given number of bands. blockSize must be a power
// of two and at least 2 (the Hann window is undefined for a single
// sample). Callers validate user-supplied sizes before reaching here.
func NewMeter(blockSize, bands int) *Meter {
	if blockSize < 2 || blockSize&(blockSize-1) != 0 {
		panic("analysis: block size must be a power of two and at least 2")
	}
	if bands <= 0 {
		bands = 1
	}

	// Hann window.
	window := make([]float64, blockSize)
	for i := range window {
		window[i] = 0.5 * (1 - math.Cos(2*math.Pi*float64(i)/float64(blockSize-1)))
	}

	outputSize := blockSize/2 + 1

	return &Meter{
		blockSize: blockSize,
		bands:     bands,
		fft:       fourier.NewFFT(blockSize),
		window:    window,
		input:     make([]float64, blockSize),
		coeffs:    make([]complex128, outputSize),
		magnitude: make([]float64, outputSize),
		levels:    make([]float64, bands),
	}
}

// Process analyzes one block and updates the current band levels. Blocks
// shorter than the configured size are zero-padded; longer blocks are
// truncated.
func (m *Meter) Process(block []float32) {
	for i := 0; i < m.blockSize; i++ {
		if i < len(block) {
			m.input[i] = float64(block[i]) * m.window[i]
		} else {
			m.input[i] = 0
		}
	}

	m.fft.Coefficients(m.coeffs, m.input)

	for i, c := range m.coeffs {
		m.magnitude[i] = cmplx.Abs(c) / float64(m.blockSize)
	}

	// Collapse bins into bands, skipping the DC bin.
	bins := len(m.magnitude) - 1
	perBand := bins / m.bands
	if perBand == 0 {
		perBand = 1
	}

	m.mu.Lock()
	for b := 0; b < m.bands; b++ {
		start := 1 + b*perBand
		end := start + perBand
		if b == m.bands-1 || end > len(m.magnitude) {
			end = len(m.magnitude)
		}

		var peak float64
		for i := start; i < end && i < len(m.magnitude); i++ {
			if m.magnitude[i] > peak {
				peak = m.magnitude[i]
			}
		}
		m.levels[b] = peak
	}
	m.mu.Unlock()
}

// Levels returns a copy of the current band levels.
func (m *Meter) Levels() []float64 {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]float64, len(m.levels))
	copy(out, m.levels)
	return out
}
