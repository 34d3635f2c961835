package transport

import (
	"context"
	"sync"
)

// ChunkStream is a channel-backed Stream. Producers push frames with Send
// and finish with CloseSend (optionally recording a terminal error);
// consumers drive it through the Stream interface. It adapts any in-process
// frame source to the pull model the decoders expect.
type ChunkStream struct {
	frames  chan []byte
	current []byte

	mu     sync.Mutex
	err    error
	closed chan struct{}
	once   sync.Once
}

var _ Stream = (*ChunkStream)(nil)

// NewChunkStream returns a ChunkStream buffering up to size frames.
func NewChunkStream(size int) *ChunkStream {
	return &ChunkStream{
		frames: make(chan []byte, size),
		closed: make(chan struct{}),
	}
}

// Send queues one frame. It blocks until the consumer has room, the stream
// is closed, or ctx is done.
func (s *ChunkStream) Send(ctx context.Context, frame []byte) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-s.closed:
		return context.Canceled
	case s.frames <- frame:
		return nil
	}
}

// CloseSend marks the producer side finished. A non-nil err is surfaced to
// the consumer through Err after the remaining frames are drained.
func (s *ChunkStream) CloseSend(err error) {
	s.once.Do(func() {
		s.mu.Lock()
		s.err = err
		s.mu.Unlock()
		close(s.frames)
	})
}

func (s *ChunkStream) Next() bool {
	select {
	case <-s.closed:
		return false
	case frame, ok := <-s.frames:
		if !ok {
			return false
		}
		s.current = frame
		return true
	}
}

func (s *ChunkStream) Current() []byte {
	return s.current
}

func (s *ChunkStream) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Close stops the consumer side. Producers blocked in Send are released.
func (s *ChunkStream) Close() error {
	s.mu.Lock()
	select {
	case <-s.closed:
	default:
		close(s.closed)
	}
	s.mu.Unlock()
	return nil
}

// Replay returns a Stream that yields the given frames in order and then
// ends cleanly. Handy for tests, examples, and replaying captured dumps.
func Replay(frames ...[]byte) Stream {
	return &replayStream{frames: frames}
}

// ReplayWithErr behaves like Replay but terminates with err after the last
// frame, simulating a transport failure mid-stream.
func ReplayWithErr(err error, frames ...[]byte) Stream {
	return &replayStream{frames: frames, err: err}
}

type replayStream struct {
	frames  [][]byte
	idx     int
	current []byte
	err     error
	closed  bool
}

func (r *replayStream) Next() bool {
	if r.closed || r.idx >= len(r.frames) {
		return false
	}
	r.current = r.frames[r.idx]
	r.idx++
	return true
}

func (r *replayStream) Current() []byte {
	return r.current
}

func (r *replayStream) Err() error {
	return r.err
}

func (r *replayStream) Close() error {
	r.closed = true
	return nil
}
