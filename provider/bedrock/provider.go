package bedrock

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/fogfish/opts"
	"github.com/stratollm/strato/pkg/slogx"
	"github.com/stratollm/strato/provider"
	"github.com/stratollm/strato/transport"
)

// Options is the read-only configuration this adapter consumes. Credentials
// are plumbed through untouched for the code that constructs the transport;
// this adapter never reads them itself.
type Options struct {
	// ModelID is the requested model identifier; unset or unknown ids
	// resolve to the default catalog entry.
	ModelID string

	// AccessKey, SecretKey and SessionToken authenticate the transport.
	AccessKey    string
	SecretKey    string
	SessionToken string

	// Region hints where inference runs and drives cross-region routing
	// prefixes.
	Region string

	// CrossRegionInference enables geographic model-id prefixing.
	CrossRegionInference bool

	// UseBedrock forces selection of this adapter regardless of model
	// family.
	UseBedrock bool

	// Invoker performs the actual streaming call.
	Invoker transport.Invoker
}

// Option configures the adapter.
type Option = opts.Option[Options]

var (
	// WithModel sets the requested model id.
	WithModel = opts.ForName[Options, string]("ModelID")
	// WithAccessKey sets the access key credential.
	WithAccessKey = opts.ForName[Options, string]("AccessKey")
	// WithSecretKey sets the secret key credential.
	WithSecretKey = opts.ForName[Options, string]("SecretKey")
	// WithSessionToken sets the session token credential.
	WithSessionToken = opts.ForName[Options, string]("SessionToken")
	// WithRegion sets the region hint.
	WithRegion = opts.ForName[Options, string]("Region")
	// WithCrossRegionInference enables cross-region routing prefixes.
	WithCrossRegionInference = opts.ForName[Options, bool]("CrossRegionInference")
	// WithUseBedrock forces selection of this adapter.
	WithUseBedrock = opts.ForName[Options, bool]("UseBedrock")
	// WithInvoker sets the transport collaborator.
	WithInvoker = opts.ForName[Options, transport.Invoker]("Invoker")
)

// Provider is the Bedrock adapter. It resolves the model once at
// construction; each CreateMessage call builds a fresh request and owns an
// independent decoder, so concurrent calls need no coordination.
type Provider struct {
	cfg     ModelConfig
	options Options
	invoker transport.Invoker
}

var _ provider.Provider = (*Provider)(nil)

// New constructs the adapter from the given options. An invoker is
// required; everything else has usable defaults.
func New(options ...Option) (*Provider, error) {
	var o Options
	if err := opts.Apply(&o, options); err != nil {
		return nil, err
	}
	if o.Invoker == nil {
		return nil, errors.New("bedrock: an invoker is required")
	}
	return &Provider{
		cfg:     Resolve(o.ModelID),
		options: o,
		invoker: o.Invoker,
	}, nil
}

// GetModel returns the resolved model id and capability record.
func (p *Provider) GetModel() ModelConfig {
	return p.cfg
}

// CreateMessage sends the conversation to the backend and returns the
// normalized event stream. The channel is closed when the stream ends, on
// either success or failure; terminal failures arrive as a provider.Error
// event.
func (p *Provider) CreateMessage(ctx context.Context, params provider.CompletionParams) (<-chan provider.StreamEvent, error) {
	modelID, payload, err := buildRequest(
		params.Instructions,
		params.Messages,
		p.cfg,
		p.options.CrossRegionInference,
		p.options.Region,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	slog.Debug("invoking model",
		slog.String("model", modelID),
		slogx.Stringer("run_id", params.RunID),
	)

	events := make(chan provider.StreamEvent, 10)
	go func() {
		defer close(events)
		p.run(ctx, modelID, payload, &params, events)
	}()
	return events, nil
}

func (p *Provider) run(ctx context.Context, modelID string, payload []byte, params *provider.CompletionParams, events chan<- provider.StreamEvent) {
	strm, err := p.invoker.InvokeStreaming(ctx, modelID, payload)
	if err != nil {
		send(ctx, events, provider.Error{RunID: params.RunID, Err: err, Timestamp: now()})
		return
	}
	if strm == nil {
		send(ctx, events, provider.Error{RunID: params.RunID, Err: ErrNoResponseStream, Timestamp: now()})
		return
	}

	// Close on every exit path, including consumer abandonment
	defer func() {
		if cerr := strm.Close(); cerr != nil {
			slog.Warn("failed to close response stream", slogx.Error(cerr))
		}
	}()

	var st decoderState
	for strm.Next() {
		if ctx.Err() != nil {
			return
		}
		event, ok := decodeFrame(strm.Current(), &st, params.RunID)
		if !ok {
			continue
		}
		if !send(ctx, events, event) {
			return
		}
	}

	if err := strm.Err(); err != nil {
		// Surface what we can before the terminal error: a synthetic delta
		// describing the failure and a zeroed usage snapshot. Consumers must
		// not treat that delta as model output; the Error event that follows
		// is the real signal.
		send(ctx, events, provider.Delta{
			RunID:     params.RunID,
			Text:      fmt.Sprintf("Error: %s", err),
			Timestamp: now(),
		})
		send(ctx, events, provider.Usage{RunID: params.RunID, Timestamp: now()})
		send(ctx, events, provider.Error{RunID: params.RunID, Err: err, Timestamp: now()})
		return
	}

	if ctx.Err() != nil {
		return
	}

	if !st.hasContent {
		send(ctx, events, provider.Error{RunID: params.RunID, Err: ErrNoContentGenerated, Timestamp: now()})
	}
}

// send delivers an event unless the caller has stopped consuming. It
// reports false when the context is done so the producer can stop pulling
// frames.
func send(ctx context.Context, events chan<- provider.StreamEvent, event provider.StreamEvent) bool {
	select {
	case events <- event:
		return true
	case <-ctx.Done():
		return false
	}
}
