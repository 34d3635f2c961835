// Package bedrock adapts the uniform provider contract to an AWS
// Bedrock-style streaming backend, including the Nova model family's
// request extensions.
//
// The adapter splits into four pieces, consumed in dependency order:
//
//  1. Model resolution: Resolve maps a requested id to a catalog entry
//     (falling back to the default model), ApplyRoutingPrefix rewrites ids
//     for cross-region inference, and IsNovaFamily / ShouldUseBedrock are
//     the pure predicates the dispatcher selects on.
//  2. Content formatting: structured message content is flattened into a
//     display string because this backend only accepts plain text content.
//  3. Request building: buildRequest assembles the invoke payload, pinning
//     temperature to 0, bounding max_tokens by the capability record, and
//     attaching the Nova extension block (response optimization always,
//     cache control only when the model supports prompt caching).
//  4. Stream decoding: a per-call state machine consumes the framed
//     response (message_start, content_block_delta, message_delta,
//     message_stop), tracks cumulative token usage, and emits the
//     normalized Delta/Usage/Error events in frame order.
//
// Network concerns — authentication, retries, timeouts — live behind the
// transport.Invoker this adapter is constructed with.
package bedrock
