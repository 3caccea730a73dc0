// ABOUTME: FIFO chunk queue with partial-chunk draining
// ABOUTME: Serves fixed-size pulls and pads with silence on underrun
package voicebuffer

// queue is an ordered sequence of resampled chunks. The head chunk is
// consumed through an index offset so partial pulls never re-copy the
// remainder of a chunk.
//
// Not safe for concurrent use; Processor serializes access.
type queue struct {
	chunks   [][]float32
	offset   int // consumed prefix of chunks[0]
	buffered int // total unconsumed samples across all chunks
}

// push appends a chunk to the tail. Zero-length chunks are accepted and
// skipped naturally by pull.
func (q *queue) push(chunk []float32) {
	q.chunks = append(q.chunks, chunk)
	q.buffered += len(chunk)
}

// pull fills dst with buffered samples in order, splitting the head chunk
// if only part of it is needed. If the queue runs out before dst is full,
// the remainder is zero-filled. Returns the number of real (non-padding)
// samples written.
func (q *queue) pull(dst []float32) int {
	written := 0

	for written < len(dst) && len(q.chunks) > 0 {
		head := q.chunks[0][q.offset:]
		if len(head) == 0 {
			q.chunks = q.chunks[1:]
			q.offset = 0
			continue
		}

		toWrite := len(head)
		if remaining := len(dst) - written; toWrite > remaining {
			toWrite = remaining
		}

		copy(dst[written:written+toWrite], head[:toWrite])
		written += toWrite
		q.buffered -= toWrite

		if toWrite == len(head) {
			q.chunks = q.chunks[1:]
			q.offset = 0
		} else {
			q.offset += toWrite
		}
	}

	// Underrun is a normal condition: pad with silence, never block.
	for i := written; i < len(dst); i++ {
		dst[i] = 0
	}

	return written
}

// len reports the number of unconsumed samples.
func (q *queue) len() int {
	return q.buffered
}

// reset discards all buffered samples.
func (q *queue) reset() {
	q.chunks = nil
	q.offset = 0
	q.buffered = 0
}
