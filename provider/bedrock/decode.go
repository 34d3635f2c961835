package bedrock

import (
	"errors"
	"time"

	"github.com/go-openapi/strfmt"
	"github.com/google/uuid"
	"github.com/stratollm/strato/provider"
	"github.com/tidwall/gjson"
)

var (
	// ErrNoResponseStream is returned when the transport produced no stream
	// at all for an invoke call.
	ErrNoResponseStream = errors.New("bedrock: backend returned no response stream")

	// ErrNoContentGenerated is returned when a stream completed without a
	// single text delta. An empty successful stream is a backend failure,
	// not a legitimate empty answer.
	ErrNoContentGenerated = errors.New("bedrock: no content generated by the model")
)

// decoderState is the per-stream accumulator. One instance lives for one
// stream consumption and is discarded afterwards; nothing persists across
// calls.
type decoderState struct {
	hasContent   bool
	inputTokens  int
	outputTokens int
}

// decodeFrame interprets one raw frame against the current state and
// returns the event to emit, if any. Unrecognized tags, frames missing the
// payload field for their tag, and malformed JSON are skipped without error;
// a bad frame must not abort the stream.
//
// Token counts are cumulative snapshots from the backend, overwritten in
// place rather than summed, so within one stream they only move forward.
func decodeFrame(frame []byte, st *decoderState, runID uuid.UUID) (provider.StreamEvent, bool) {
	if !gjson.ValidBytes(frame) {
		return nil, false
	}

	switch gjson.GetBytes(frame, "type").String() {
	case "message_start":
		usage := gjson.GetBytes(frame, "message.usage")
		if !usage.Exists() {
			return nil, false
		}
		st.inputTokens = int(usage.Get("input_tokens").Int())
		st.outputTokens = int(usage.Get("output_tokens").Int())
		return usageSnapshot(st, runID), true

	case "content_block_delta":
		text := gjson.GetBytes(frame, "delta.text")
		if !text.Exists() {
			return nil, false
		}
		st.hasContent = true
		return provider.Delta{
			RunID:     runID,
			Text:      text.String(),
			Timestamp: now(),
		}, true

	case "message_delta":
		outputTokens := gjson.GetBytes(frame, "usage.output_tokens")
		if !outputTokens.Exists() {
			return nil, false
		}
		st.outputTokens = int(outputTokens.Int())
		return usageSnapshot(st, runID), true

	case "message_stop":
		return usageSnapshot(st, runID), true
	}

	return nil, false
}

func usageSnapshot(st *decoderState, runID uuid.UUID) provider.Usage {
	return provider.Usage{
		RunID:        runID,
		InputTokens:  st.inputTokens,
		OutputTokens: st.outputTokens,
		Timestamp:    now(),
	}
}

func now() strfmt.DateTime {
	return strfmt.DateTime(time.Now())
}
