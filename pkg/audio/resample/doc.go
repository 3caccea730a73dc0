// ABOUTME: Audio resampling package using linear interpolation
// ABOUTME: Converts VAD capture rate audio to the playback rate
// Package resample provides audio sample rate conversion.
//
// Uses linear interpolation, which is cheap enough for real-time voice
// use and accurate enough for speech. Each call is independent: no
// fractional position is carried across chunks, matching the upstream
// VAD pipeline which resamples every pushed frame in isolation.
//
// Example:
//
//	r, err := resample.New(16000, 48000)
//	out := r.Resample(frame)
package resample
