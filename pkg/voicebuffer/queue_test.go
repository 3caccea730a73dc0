// ABOUTME: Tests for the FIFO chunk queue
// ABOUTME: Covers concatenation order, partial pulls, and silence padding
package voicebuffer

import "testing"

func TestQueuePullExactChunk(t *testing.T) {
	var q queue
	q.push([]float32{0.1, 0.2, 0.3})

	dst := make([]float32, 3)
	n := q.pull(dst)

	if n != 3 {
		t.Fatalf("expected 3 samples, got %d", n)
	}
	want := []float32{0.1, 0.2, 0.3}
	for i := range want {
		if dst[i] != want[i] {
			t.Errorf("sample %d: expected %v, got %v", i, want[i], dst[i])
		}
	}
	if q.len() != 0 {
		t.Errorf("expected empty queue, %d samples left", q.len())
	}
}

func TestQueuePartialChunkSplit(t *testing.T) {
	var q queue
	q.push([]float32{1, 2, 3, 4, 5})

	dst := make([]float32, 2)

	n := q.pull(dst)
	if n != 2 || dst[0] != 1 || dst[1] != 2 {
		t.Fatalf("first pull: n=%d dst=%v", n, dst)
	}

	n = q.pull(dst)
	if n != 2 || dst[0] != 3 || dst[1] != 4 {
		t.Fatalf("second pull: n=%d dst=%v", n, dst)
	}

	n = q.pull(dst)
	if n != 1 || dst[0] != 5 || dst[1] != 0 {
		t.Fatalf("third pull: n=%d dst=%v", n, dst)
	}
}

func TestQueueConcatenationLaw(t *testing.T) {
	// Pushing C1..Cn then pulling in arbitrary block sizes yields exactly
	// C1 ++ C2 ++ ... ++ Cn regardless of how pulls partition the total.
	chunks := [][]float32{
		{0.1, 0.2, 0.3},
		{},
		{0.4},
		{0.5, 0.6, 0.7, 0.8, 0.9},
		{1.0},
	}

	var want []float32
	for _, c := range chunks {
		want = append(want, c...)
	}

	partitions := [][]int{
		{10},
		{3, 7},
		{1, 1, 1, 1, 1, 1, 1, 1, 1, 1},
		{2, 5, 3},
		{4, 6},
	}

	for _, parts := range partitions {
		var q queue
		for _, c := range chunks {
			q.push(c)
		}

		var got []float32
		for _, size := range parts {
			dst := make([]float32, size)
			q.pull(dst)
			got = append(got, dst...)
		}

		if len(got) != len(want) {
			t.Fatalf("partition %v: expected %d samples, got %d", parts, len(want), len(got))
		}
		for i := range want {
			if got[i] != want[i] {
				t.Errorf("partition %v sample %d: expected %v, got %v", parts, i, want[i], got[i])
			}
		}
	}
}

func TestQueueUnderrunPadding(t *testing.T) {
	var q queue
	q.push([]float32{0.5, 0.5})

	dst := make([]float32, 8)
	// Dirty the destination to verify padding actually writes zeros.
	for i := range dst {
		dst[i] = -1
	}

	n := q.pull(dst)
	if n != 2 {
		t.Fatalf("expected 2 real samples, got %d", n)
	}
	for i := 2; i < 8; i++ {
		if dst[i] != 0 {
			t.Errorf("sample %d: expected silence, got %v", i, dst[i])
		}
	}
}

func TestQueueEmptyPull(t *testing.T) {
	var q queue

	dst := make([]float32, 4)
	for i := range dst {
		dst[i] = -1
	}

	n := q.pull(dst)
	if n != 0 {
		t.Fatalf("expected 0 samples, got %d", n)
	}
	for i, s := range dst {
		if s != 0 {
			t.Errorf("sample %d: expected silence, got %v", i, s)
		}
	}
}

func TestQueueZeroLengthPull(t *testing.T) {
	var q queue
	q.push([]float32{1, 2})

	n := q.pull(nil)
	if n != 0 {
		t.Errorf("expected 0 samples for empty dst, got %d", n)
	}
	if q.len() != 2 {
		t.Errorf("zero-length pull must not consume, %d left", q.len())
	}
}

func TestQueueReset(t *testing.T) {
	var q queue
	q.push([]float32{1, 2, 3})
	q.push([]float32{4})

	q.reset()

	if q.len() != 0 {
		t.Errorf("expected empty queue after reset, got %d", q.len())
	}

	dst := make([]float32, 2)
	if n := q.pull(dst); n != 0 {
		t.Errorf("expected 0 samples after reset, got %d", n)
	}
}

func TestQueueBufferedTracking(t *testing.T) {
	var q queue

	q.push([]float32{1, 2, 3, 4, 5})
	q.push([]float32{6, 7})
	if q.len() != 7 {
		t.Fatalf("expected 7 buffered, got %d", q.len())
	}

	dst := make([]float32, 3)
	q.pull(dst)
	if q.len() != 4 {
		t.Errorf("expected 4 buffered after pull, got %d", q.len())
	}
}
