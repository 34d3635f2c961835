// Package transport defines the boundary between provider adapters and the
// network layer that actually talks to a backend. Adapters hand a built wire
// payload to an Invoker and pull framed byte chunks back through a Stream;
// authentication, retries and connection management all live behind this
// interface.
package transport

import "context"

// Invoker sends a request payload to a streaming backend and returns the
// framed response stream. The model id is passed alongside the body because
// backends route on it outside the payload (URL path, header). A nil Stream
// with a nil error is not a valid result; adapters treat a missing stream as
// a hard failure.
type Invoker interface {
	InvokeStreaming(ctx context.Context, modelID string, payload []byte) (Stream, error)
}

// InvokerFunc adapts a function to the Invoker interface.
type InvokerFunc func(ctx context.Context, modelID string, payload []byte) (Stream, error)

func (f InvokerFunc) InvokeStreaming(ctx context.Context, modelID string, payload []byte) (Stream, error) {
	return f(ctx, modelID, payload)
}

// Stream is a pull-based sequence of raw response frames. The usage pattern
// mirrors bufio.Scanner: call Next until it returns false, read the frame
// with Current, then check Err for the reason iteration stopped. Close must
// be safe to call at any point, including mid-iteration.
type Stream interface {
	// Next blocks until a frame is available or the stream ends.
	Next() bool
	// Current returns the frame made available by the last call to Next.
	Current() []byte
	// Err returns the error that terminated iteration, or nil on clean EOF.
	Err() error
	// Close releases resources tied to the stream.
	Close() error
}
