// ABOUTME: Audio type definitions and PCM conversion helpers
// ABOUTME: Defines mono float32 frames and int16 PCM conversions
package audio

import "encoding/binary"

// Common sample rates in the voice pipeline.
const (
	// CaptureRate is the rate VAD pipelines typically emit speech at.
	CaptureRate = 16000
	// PlaybackRate is the rate most audio hardware wants.
	PlaybackRate = 48000
)

// Int16ToFloat32 converts int16 PCM samples to normalized float32.
func Int16ToFloat32(pcm []int16) []float32 {
	out := make([]float32, len(pcm))
	for i, s := range pcm {
		out[i] = float32(s) / 32768.0
	}
	return out
}

// Float32ToInt16 converts normalized float32 samples to int16 PCM,
// clamping out-of-range values.
func Float32ToInt16(samples []float32) []int16 {
	out := make([]int16, len(samples))
	for i, s := range samples {
		if s > 1.0 {
			s = 1.0
		} else if s < -1.0 {
			s = -1.0
		}
		out[i] = int16(s * 32767.0)
	}
	return out
}

// BytesToFloat32 converts little-endian 16-bit PCM bytes to normalized
// float32 samples. A trailing odd byte is ignored.
func BytesToFloat32(data []byte) []float32 {
	n := len(data) / 2
	out := make([]float32, n)
	for i := 0; i < n; i++ {
		s := int16(binary.LittleEndian.Uint16(data[i*2:]))
		out[i] = float32(s) / 32768.0
	}
	return out
}

// Float32ToBytes converts normalized float32 samples to little-endian
// 16-bit PCM bytes, clamping out-of-range values.
func Float32ToBytes(samples []float32) []byte {
	out := make([]byte, len(samples)*2)
	for i, s := range samples {
		if s > 1.0 {
			s = 1.0
		} else if s < -1.0 {
			s = -1.0
		}
		binary.LittleEndian.PutUint16(out[i*2:], uint16(int16(s*32767.0)))
	}
	return out
}

// StereoToMono downmixes interleaved stereo samples by averaging channel
// pairs. An unpaired trailing sample is dropped.
func StereoToMono(samples []float32) []float32 {
	n := len(samples) / 2
	out := make([]float32, n)
	for i := 0; i < n; i++ {
		out[i] = (samples[i*2] + samples[i*2+1]) / 2
	}
	return out
}
