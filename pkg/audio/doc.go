// ABOUTME: Audio types package documentation
// ABOUTME: Describes frame representation and conversions
// Package audio defines the sample representation shared by the voicebridge
// pipeline: mono float32 frames normalized to [-1.0, 1.0], plus conversions
// to and from 16-bit PCM for wire and output formats.
package audio
