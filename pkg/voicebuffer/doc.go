// ABOUTME: Voicebuffer package documentation
// ABOUTME: Describes the push/pull buffering model
// Package voicebuffer implements the streaming buffer between a VAD audio
// producer and a real-time audio output.
//
// The producer pushes frames at the capture rate; each frame is resampled
// to the output rate immediately and appended to an ordered FIFO. The
// consumer pulls fixed-size blocks at the output's cadence; blocks are
// assembled from as many queued chunks as needed, splitting chunks across
// block boundaries, and padded with silence when the buffer runs dry.
//
// The output stream is exactly the in-order concatenation of every pushed
// frame after resampling: no gaps, no duplication, no reordering.
package voicebuffer
