// Package provider implements an abstraction layer for streaming
// text-generation backends (Bedrock, OpenAI-compatible services, etc.) so
// callers depend on a single "create a message, get a stream of events"
// contract regardless of which service answers it.
//
// Design decisions:
//   - Streaming first: responses arrive as a channel of events, closed by the
//     producer when the stream ends
//   - Sealed events: the StreamEvent interface is implemented only by Delta,
//     Usage and Error, so consumers can switch exhaustively
//   - Token accounting: Usage events are cumulative snapshots exactly as the
//     backend reports them, never client-side sums
//   - Error handling: failures travel the same channel as a terminal Error
//     event carrying the run id and timestamp
//
// Example usage:
//
//	events, err := prov.CreateMessage(ctx, provider.CompletionParams{
//	    RunID:        uuidx.New(),
//	    Instructions: "You are a helpful assistant",
//	    Messages:     []messages.Message{messages.User("hello")},
//	})
//	if err != nil {
//	    return err
//	}
//
//	for event := range events {
//	    switch e := event.(type) {
//	    case provider.Delta:
//	        fmt.Print(e.Text)
//	    case provider.Usage:
//	        // track e.InputTokens / e.OutputTokens
//	    case provider.Error:
//	        return e
//	    }
//	}
//
// New backends are added by implementing the Provider interface; the event
// taxonomy and channel semantics stay the same across all of them.
package provider
