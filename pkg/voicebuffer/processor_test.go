// ABOUTME: Tests for the streaming processor
// ABOUTME: Covers push/pull semantics, lifecycle, underrun, and isolation
package voicebuffer

import (
	"math"
	"testing"
)

func newTestProcessor(t *testing.T, inputRate, outputRate int) *Processor {
	t.Helper()
	p, err := New(Config{InputRate: inputRate, OutputRate: outputRate})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return p
}

func TestNewRejectsBadRates(t *testing.T) {
	if _, err := New(Config{InputRate: 0, OutputRate: 48000}); err == nil {
		t.Error("expected error for zero input rate")
	}
	if _, err := New(Config{InputRate: 16000, OutputRate: -1}); err == nil {
		t.Error("expected error for negative output rate")
	}
}

func TestPushPullIdentityRate(t *testing.T) {
	// Two frames of length 5 and 3 at ratio 1, pulled as 4 then 4: the
	// result is the 8-sample concatenation of both frames, reassembled
	// across the chunk boundary.
	p := newTestProcessor(t, 48000, 48000)

	p.Push(KindAudio, []float32{1, 2, 3, 4, 5})
	p.Push(KindAudio, []float32{6, 7, 8})

	var got []float32
	for i := 0; i < 2; i++ {
		dst := make([]float32, 4)
		n := p.Pull(dst)
		if n != 4 {
			t.Fatalf("pull %d: expected 4 real samples, got %d", i, n)
		}
		got = append(got, dst...)
	}

	want := []float32{1, 2, 3, 4, 5, 6, 7, 8}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("sample %d: expected %v, got %v", i, want[i], got[i])
		}
	}
}

func TestPullNoPushes(t *testing.T) {
	// Silence from an untouched processor: ten pulls of 128 samples all
	// come back zero-filled.
	p := newTestProcessor(t, 16000, 48000)

	for i := 0; i < 10; i++ {
		dst := make([]float32, 128)
		for j := range dst {
			dst[j] = -1
		}

		n := p.Pull(dst)
		if n != 0 {
			t.Fatalf("pull %d: expected 0 real samples, got %d", i, n)
		}
		for j, s := range dst {
			if s != 0 {
				t.Fatalf("pull %d sample %d: expected silence, got %v", i, j, s)
			}
		}
	}
}

func TestPushResamples(t *testing.T) {
	p := newTestProcessor(t, 16000, 48000)

	p.Push(KindSpeech, []float32{0.0, 1.0})

	dst := make([]float32, 6)
	n := p.Pull(dst)
	if n != 6 {
		t.Fatalf("expected 6 real samples, got %d", n)
	}

	want := []float32{0.0, 1.0 / 3.0, 2.0 / 3.0, 1.0, 1.0, 1.0}
	for i := range want {
		if diff := math.Abs(float64(dst[i] - want[i])); diff > 1e-6 {
			t.Errorf("sample %d: expected %v, got %v", i, want[i], dst[i])
		}
	}
}

func TestPushEmptyFrameIsNoOp(t *testing.T) {
	p := newTestProcessor(t, 16000, 48000)

	p.Push(KindAudio, nil)
	p.Push(KindSpeech, []float32{})

	stats := p.Stats()
	if stats.FramesIn != 0 {
		t.Errorf("expected 0 frames in, got %d", stats.FramesIn)
	}
	if stats.Buffered != 0 {
		t.Errorf("expected 0 buffered, got %d", stats.Buffered)
	}
}

func TestKindsBufferIdentically(t *testing.T) {
	a := newTestProcessor(t, 16000, 48000)
	b := newTestProcessor(t, 16000, 48000)

	frame := []float32{0.1, -0.2, 0.3}
	a.Push(KindAudio, frame)
	b.Push(KindSpeech, frame)

	dstA := make([]float32, 9)
	dstB := make([]float32, 9)
	a.Pull(dstA)
	b.Pull(dstB)

	for i := range dstA {
		if dstA[i] != dstB[i] {
			t.Errorf("sample %d differs by kind: %v vs %v", i, dstA[i], dstB[i])
		}
	}
}

func TestUnderrunCounting(t *testing.T) {
	p := newTestProcessor(t, 48000, 48000)

	p.Push(KindAudio, []float32{1, 2})

	dst := make([]float32, 4)
	n := p.Pull(dst)
	if n != 2 {
		t.Fatalf("expected 2 real samples, got %d", n)
	}
	if dst[2] != 0 || dst[3] != 0 {
		t.Errorf("expected silence tail, got %v", dst[2:])
	}

	stats := p.Stats()
	if stats.Underruns != 1 {
		t.Errorf("expected 1 underrun, got %d", stats.Underruns)
	}
}

func TestInstancesAreIsolated(t *testing.T) {
	a := newTestProcessor(t, 16000, 48000)
	b := newTestProcessor(t, 24000, 48000)

	a.Push(KindAudio, []float32{0.5, 0.5, 0.5})

	dst := make([]float32, 16)
	if n := b.Pull(dst); n != 0 {
		t.Errorf("instance b served %d samples pushed to a", n)
	}
	if a.Stats().Buffered == 0 {
		t.Error("instance a lost its buffered samples")
	}
}

func TestCloseDrainsThenSilences(t *testing.T) {
	p := newTestProcessor(t, 48000, 48000)

	p.Push(KindAudio, []float32{1, 2, 3, 4})
	p.Close()

	if got := p.State(); got != StateDraining {
		t.Fatalf("expected draining, got %v", got)
	}

	// Pushes are rejected while draining.
	p.Push(KindAudio, []float32{9, 9, 9, 9})

	dst := make([]float32, 4)
	n := p.Pull(dst)
	if n != 4 {
		t.Fatalf("expected 4 real samples while draining, got %d", n)
	}
	want := []float32{1, 2, 3, 4}
	for i := range want {
		if dst[i] != want[i] {
			t.Errorf("sample %d: expected %v, got %v", i, want[i], dst[i])
		}
	}

	if got := p.State(); got != StateClosed {
		t.Fatalf("expected closed after drain, got %v", got)
	}

	// Closed processor serves silence and reports no real samples.
	if n := p.Pull(dst); n != 0 {
		t.Errorf("expected 0 real samples when closed, got %d", n)
	}
	for i, s := range dst {
		if s != 0 {
			t.Errorf("sample %d: expected silence, got %v", i, s)
		}
	}
}

func TestCloseEmptyGoesStraightToClosed(t *testing.T) {
	p := newTestProcessor(t, 16000, 48000)

	p.Close()
	if got := p.State(); got != StateClosed {
		t.Fatalf("expected closed, got %v", got)
	}

	// Idempotent.
	p.Close()
	if got := p.State(); got != StateClosed {
		t.Fatalf("expected closed after second close, got %v", got)
	}
}

func TestStatsTracking(t *testing.T) {
	p := newTestProcessor(t, 16000, 48000)

	p.Push(KindAudio, make([]float32, 160))
	p.Push(KindSpeech, make([]float32, 320))

	stats := p.Stats()
	if stats.FramesIn != 2 {
		t.Errorf("expected 2 frames in, got %d", stats.FramesIn)
	}
	if stats.SamplesIn != 480 {
		t.Errorf("expected 480 samples in, got %d", stats.SamplesIn)
	}
	if stats.Buffered != 1440 {
		t.Errorf("expected 1440 buffered, got %d", stats.Buffered)
	}
	if stats.State != StateActive {
		t.Errorf("expected active state, got %v", stats.State)
	}

	dst := make([]float32, 1000)
	p.Pull(dst)

	stats = p.Stats()
	if stats.SamplesOut != 1000 {
		t.Errorf("expected 1000 samples out, got %d", stats.SamplesOut)
	}
	if stats.Buffered != 440 {
		t.Errorf("expected 440 buffered, got %d", stats.Buffered)
	}
}

func TestConcurrentPushPull(t *testing.T) {
	p := newTestProcessor(t, 16000, 48000)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 500; i++ {
			p.Push(KindAudio, make([]float32, 160))
		}
	}()

	dst := make([]float32, 128)
	for i := 0; i < 2000; i++ {
		p.Pull(dst)
	}
	<-done

	// Drain whatever remains and verify accounting balances.
	for p.Stats().Buffered > 0 {
		p.Pull(dst)
	}

	stats := p.Stats()
	wantOut := int64(500 * 480) // 160 in at 16k -> 480 out at 48k
	if stats.SamplesOut != wantOut {
		t.Errorf("expected %d samples out, got %d", wantOut, stats.SamplesOut)
	}
}
