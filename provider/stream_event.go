package provider

import (
	"errors"
	"fmt"

	"github.com/go-openapi/strfmt"
	"github.com/google/uuid"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

var (
	deltaJSON = []byte(`{"type":"delta"}`)
	usageJSON = []byte(`{"type":"usage"}`)
	errorJSON = []byte(`{"type":"error"}`)
)

// StreamEvent is the sealed set of events a provider emits while decoding a
// backend response stream: incremental text (Delta), token accounting
// snapshots (Usage), and terminal failures (Error).
type StreamEvent interface {
	streamEvent()
}

// Delta carries one increment of generated text, verbatim as the backend
// produced it. Deltas are never buffered or coalesced across frames.
type Delta struct {
	RunID     uuid.UUID       `json:"run_id"`
	Text      string          `json:"text"`
	Timestamp strfmt.DateTime `json:"timestamp,omitempty"`
}

func (Delta) streamEvent() {}

// Usage is a snapshot of the token counts the backend has reported so far.
// Counts are cumulative totals, not increments; within one stream they are
// monotonically non-decreasing.
type Usage struct {
	RunID        uuid.UUID       `json:"run_id"`
	InputTokens  int             `json:"input_tokens"`
	OutputTokens int             `json:"output_tokens"`
	Timestamp    strfmt.DateTime `json:"timestamp,omitempty"`
}

func (Usage) streamEvent() {}

// Error is the terminal failure event. It is always the last meaningful
// event on a stream; any Delta preceding it that describes the failure is
// synthetic and must not be treated as model output.
type Error struct {
	RunID     uuid.UUID       `json:"run_id"`
	Err       error           `json:"error"`
	Timestamp strfmt.DateTime `json:"timestamp,omitempty"`
}

func (Error) streamEvent() {}

func (e Error) Error() string {
	return fmt.Sprintf("run_id: %s, timestamp: %s, error: %v", e.RunID, e.Timestamp, e.Err)
}

// Unwrap exposes the underlying failure for errors.Is/errors.As.
func (e Error) Unwrap() error {
	return e.Err
}

// MarshalJSON implements custom JSON marshaling for Delta
func (d Delta) MarshalJSON() ([]byte, error) {
	result := deltaJSON

	var err error
	result, err = sjson.SetBytes(result, "run_id", d.RunID.String())
	if err != nil {
		return nil, err
	}

	result, err = sjson.SetBytes(result, "text", d.Text)
	if err != nil {
		return nil, err
	}

	if !d.Timestamp.IsZero() {
		result, err = sjson.SetBytes(result, "timestamp", d.Timestamp.String())
		if err != nil {
			return nil, err
		}
	}

	return result, nil
}

// UnmarshalJSON implements custom JSON unmarshaling for Delta
func (d *Delta) UnmarshalJSON(data []byte) error {
	if !gjson.ValidBytes(data) {
		return fmt.Errorf("invalid json: %s", data)
	}

	msgType := gjson.GetBytes(data, "type")
	if !msgType.Exists() || msgType.String() != "delta" {
		return fmt.Errorf("missing or invalid type, expected 'delta'")
	}

	runID := gjson.GetBytes(data, "run_id")
	if !runID.Exists() {
		return fmt.Errorf("missing required field 'run_id'")
	}
	if err := d.RunID.UnmarshalText([]byte(runID.String())); err != nil {
		return fmt.Errorf("invalid run_id: %w", err)
	}

	text := gjson.GetBytes(data, "text")
	if !text.Exists() {
		return fmt.Errorf("missing required field 'text'")
	}
	d.Text = text.String()

	if timestamp := gjson.GetBytes(data, "timestamp"); timestamp.Exists() {
		if err := d.Timestamp.UnmarshalText([]byte(timestamp.String())); err != nil {
			return fmt.Errorf("invalid timestamp: %w", err)
		}
	}

	return nil
}

// MarshalJSON implements custom JSON marshaling for Usage
func (u Usage) MarshalJSON() ([]byte, error) {
	result := usageJSON

	var err error
	result, err = sjson.SetBytes(result, "run_id", u.RunID.String())
	if err != nil {
		return nil, err
	}

	result, err = sjson.SetBytes(result, "input_tokens", u.InputTokens)
	if err != nil {
		return nil, err
	}

	result, err = sjson.SetBytes(result, "output_tokens", u.OutputTokens)
	if err != nil {
		return nil, err
	}

	if !u.Timestamp.IsZero() {
		result, err = sjson.SetBytes(result, "timestamp", u.Timestamp.String())
		if err != nil {
			return nil, err
		}
	}

	return result, nil
}

// UnmarshalJSON implements custom JSON unmarshaling for Usage
func (u *Usage) UnmarshalJSON(data []byte) error {
	if !gjson.ValidBytes(data) {
		return fmt.Errorf("invalid json: %s", data)
	}

	msgType := gjson.GetBytes(data, "type")
	if !msgType.Exists() || msgType.String() != "usage" {
		return fmt.Errorf("missing or invalid type, expected 'usage'")
	}

	runID := gjson.GetBytes(data, "run_id")
	if !runID.Exists() {
		return fmt.Errorf("missing required field 'run_id'")
	}
	if err := u.RunID.UnmarshalText([]byte(runID.String())); err != nil {
		return fmt.Errorf("invalid run_id: %w", err)
	}

	inputTokens := gjson.GetBytes(data, "input_tokens")
	if !inputTokens.Exists() {
		return fmt.Errorf("missing required field 'input_tokens'")
	}
	u.InputTokens = int(inputTokens.Int())

	outputTokens := gjson.GetBytes(data, "output_tokens")
	if !outputTokens.Exists() {
		return fmt.Errorf("missing required field 'output_tokens'")
	}
	u.OutputTokens = int(outputTokens.Int())

	if timestamp := gjson.GetBytes(data, "timestamp"); timestamp.Exists() {
		if err := u.Timestamp.UnmarshalText([]byte(timestamp.String())); err != nil {
			return fmt.Errorf("invalid timestamp: %w", err)
		}
	}

	return nil
}

// MarshalJSON implements custom JSON marshaling for Error
func (e Error) MarshalJSON() ([]byte, error) {
	result := errorJSON

	var err error
	result, err = sjson.SetBytes(result, "run_id", e.RunID.String())
	if err != nil {
		return nil, err
	}

	if e.Err != nil {
		result, err = sjson.SetBytes(result, "error", e.Err.Error())
		if err != nil {
			return nil, err
		}
	}

	if !e.Timestamp.IsZero() {
		result, err = sjson.SetBytes(result, "timestamp", e.Timestamp.String())
		if err != nil {
			return nil, err
		}
	}

	return result, nil
}

// UnmarshalJSON implements custom JSON unmarshaling for Error
func (e *Error) UnmarshalJSON(data []byte) error {
	if !gjson.ValidBytes(data) {
		return fmt.Errorf("invalid json: %s", data)
	}

	msgType := gjson.GetBytes(data, "type")
	if !msgType.Exists() || msgType.String() != "error" {
		return fmt.Errorf("missing or invalid type, expected 'error'")
	}

	runID := gjson.GetBytes(data, "run_id")
	if !runID.Exists() {
		return fmt.Errorf("missing required field 'run_id'")
	}
	if err := e.RunID.UnmarshalText([]byte(runID.String())); err != nil {
		return fmt.Errorf("invalid run_id: %w", err)
	}

	errMsg := gjson.GetBytes(data, "error")
	if !errMsg.Exists() {
		return errors.New("missing required field 'error'")
	}
	e.Err = errors.New(errMsg.String())

	if timestamp := gjson.GetBytes(data, "timestamp"); timestamp.Exists() {
		if err := e.Timestamp.UnmarshalText([]byte(timestamp.String())); err != nil {
			return fmt.Errorf("invalid timestamp: %w", err)
		}
	}

	return nil
}
