package provider

import (
	"context"

	"github.com/google/uuid"
	"github.com/stratollm/strato/messages"
)

// Provider defines the interface for streaming text-generation backends
// (e.g. Bedrock, OpenAI). Implementations handle the specifics of talking to
// a particular service while exposing a uniform "create a message, get a
// stream of events" contract to the rest of the application.
type Provider interface {
	CreateMessage(context.Context, CompletionParams) (<-chan StreamEvent, error)
}

// CompletionParams encapsulates all parameters needed for one message
// creation request.
type CompletionParams struct {
	// RunID uniquely identifies this request for tracking and debugging
	RunID uuid.UUID

	// Instructions provide the system prompt for the model
	Instructions string

	// Messages contains the ordered conversation history
	Messages []messages.Message

	// Prevents unkeyed literals
	_ struct{}
}

// Result is the drained form of an event stream: the concatenated text and
// the last usage snapshot seen.
type Result struct {
	Text         string
	InputTokens  int
	OutputTokens int
	_            struct{}
}

// Collect drains an event channel into a Result. It returns the first error
// event encountered (the channel is still drained so the producer can
// finish), or ctx.Err() when the caller gives up first.
func Collect(ctx context.Context, events <-chan StreamEvent) (Result, error) {
	var res Result
	var failure error
	for {
		select {
		case <-ctx.Done():
			return res, ctx.Err()
		case event, ok := <-events:
			if !ok {
				return res, failure
			}
			switch e := event.(type) {
			case Delta:
				res.Text += e.Text
			case Usage:
				res.InputTokens = e.InputTokens
				res.OutputTokens = e.OutputTokens
			case Error:
				if failure == nil {
					failure = e
				}
			}
		}
	}
}
