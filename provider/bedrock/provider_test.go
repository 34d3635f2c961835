package bedrock

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stratollm/strato/messages"
	"github.com/stratollm/strato/pkg/uuidx"
	"github.com/stratollm/strato/provider"
	"github.com/stratollm/strato/transport"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func replayInvoker(strm transport.Stream) transport.Invoker {
	return transport.InvokerFunc(func(_ context.Context, _ string, _ []byte) (transport.Stream, error) {
		return strm, nil
	})
}

func happyFrames() [][]byte {
	return [][]byte{
		[]byte(`{"type":"message_start","message":{"usage":{"input_tokens":10,"output_tokens":0}}}`),
		[]byte(`{"type":"content_block_delta","delta":{"text":"Hel"}}`),
		[]byte(`{"type":"content_block_delta","delta":{"text":"lo"}}`),
		[]byte(`{"type":"message_delta","usage":{"output_tokens":2}}`),
		[]byte(`{"type":"message_stop"}`),
	}
}

func completionParams() provider.CompletionParams {
	return provider.CompletionParams{
		RunID:        uuidx.New(),
		Instructions: "You are terse.",
		Messages:     []messages.Message{messages.User("say hello")},
	}
}

func drain(t *testing.T, events <-chan provider.StreamEvent) []provider.StreamEvent {
	t.Helper()
	var got []provider.StreamEvent
	timeout := time.After(2 * time.Second)
	for {
		select {
		case event, ok := <-events:
			if !ok {
				return got
			}
			got = append(got, event)
		case <-timeout:
			t.Fatal("timed out draining events")
		}
	}
}

func TestNew(t *testing.T) {
	p, err := New(WithInvoker(replayInvoker(transport.Replay())))
	require.NoError(t, err)
	assert.Equal(t, DefaultModelID, p.GetModel().ID)
}

func TestNew_RequiresInvoker(t *testing.T) {
	_, err := New(WithModel("amazon.nova-pro-v1:0"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invoker")
}

func TestNew_ResolvesModel(t *testing.T) {
	p, err := New(
		WithModel("amazon.nova-micro-v1:0"),
		WithInvoker(replayInvoker(transport.Replay())),
	)
	require.NoError(t, err)
	assert.Equal(t, "amazon.nova-micro-v1:0", p.GetModel().ID)
	assert.False(t, p.GetModel().Info.SupportsPromptCache)

	p, err = New(
		WithModel("no-such-model"),
		WithInvoker(replayInvoker(transport.Replay())),
	)
	require.NoError(t, err)
	assert.Equal(t, DefaultModelID, p.GetModel().ID)
}

func TestCreateMessage_EventSequence(t *testing.T) {
	defer goleak.VerifyNone(t)

	p, err := New(WithInvoker(replayInvoker(transport.Replay(happyFrames()...))))
	require.NoError(t, err)

	params := completionParams()
	events, err := p.CreateMessage(context.Background(), params)
	require.NoError(t, err)

	got := drain(t, events)
	require.Len(t, got, 5)

	// exactly: Usage(10,0), Delta("Hel"), Delta("lo"), Usage(10,2), Usage(10,2)
	first := got[0].(provider.Usage)
	assert.Equal(t, 10, first.InputTokens)
	assert.Equal(t, 0, first.OutputTokens)

	assert.Equal(t, "Hel", got[1].(provider.Delta).Text)
	assert.Equal(t, "lo", got[2].(provider.Delta).Text)

	fourth := got[3].(provider.Usage)
	assert.Equal(t, 10, fourth.InputTokens)
	assert.Equal(t, 2, fourth.OutputTokens)

	last := got[4].(provider.Usage)
	assert.Equal(t, 10, last.InputTokens)
	assert.Equal(t, 2, last.OutputTokens)

	for _, event := range got {
		switch e := event.(type) {
		case provider.Usage:
			assert.Equal(t, params.RunID, e.RunID)
		case provider.Delta:
			assert.Equal(t, params.RunID, e.RunID)
		}
	}
}

func TestCreateMessage_EmptyStreamIsAFailure(t *testing.T) {
	defer goleak.VerifyNone(t)

	frames := [][]byte{
		[]byte(`{"type":"message_start","message":{"usage":{"input_tokens":10,"output_tokens":0}}}`),
		[]byte(`{"type":"message_stop"}`),
	}
	p, err := New(WithInvoker(replayInvoker(transport.Replay(frames...))))
	require.NoError(t, err)

	events, err := p.CreateMessage(context.Background(), completionParams())
	require.NoError(t, err)

	got := drain(t, events)
	require.Len(t, got, 3)

	// usage from message_start and message_stop still came through first
	assert.Equal(t, 10, got[0].(provider.Usage).InputTokens)
	assert.IsType(t, provider.Usage{}, got[1])

	failure := got[2].(provider.Error)
	assert.ErrorIs(t, failure, ErrNoContentGenerated)
}

func TestCreateMessage_UnrecognizedFramesDoNotAbort(t *testing.T) {
	frames := [][]byte{
		[]byte(`{"type":"ping"}`),
		[]byte(`garbage`),
		[]byte(`{"type":"content_block_delta","delta":{"text":"ok"}}`),
		[]byte(`{"type":"message_stop"}`),
	}
	p, err := New(WithInvoker(replayInvoker(transport.Replay(frames...))))
	require.NoError(t, err)

	events, err := p.CreateMessage(context.Background(), completionParams())
	require.NoError(t, err)

	got := drain(t, events)
	require.Len(t, got, 2)
	assert.Equal(t, "ok", got[0].(provider.Delta).Text)
	assert.IsType(t, provider.Usage{}, got[1])
}

func TestCreateMessage_TransportFailureMidStream(t *testing.T) {
	defer goleak.VerifyNone(t)

	sentinel := errors.New("connection reset by peer")
	frames := [][]byte{
		[]byte(`{"type":"message_start","message":{"usage":{"input_tokens":10,"output_tokens":0}}}`),
		[]byte(`{"type":"content_block_delta","delta":{"text":"par"}}`),
	}
	p, err := New(WithInvoker(replayInvoker(transport.ReplayWithErr(sentinel, frames...))))
	require.NoError(t, err)

	events, err := p.CreateMessage(context.Background(), completionParams())
	require.NoError(t, err)

	got := drain(t, events)
	require.Len(t, got, 5)

	// real events first
	assert.Equal(t, 10, got[0].(provider.Usage).InputTokens)
	assert.Equal(t, "par", got[1].(provider.Delta).Text)

	// then the failure policy: synthetic delta, zeroed usage, terminal error
	synthetic := got[2].(provider.Delta)
	assert.Contains(t, synthetic.Text, "connection reset by peer")

	zeroed := got[3].(provider.Usage)
	assert.Zero(t, zeroed.InputTokens)
	assert.Zero(t, zeroed.OutputTokens)

	failure := got[4].(provider.Error)
	assert.ErrorIs(t, failure, sentinel)
}

func TestCreateMessage_InvokerError(t *testing.T) {
	sentinel := errors.New("credentials rejected")
	inv := transport.InvokerFunc(func(_ context.Context, _ string, _ []byte) (transport.Stream, error) {
		return nil, sentinel
	})
	p, err := New(WithInvoker(inv))
	require.NoError(t, err)

	events, err := p.CreateMessage(context.Background(), completionParams())
	require.NoError(t, err)

	got := drain(t, events)
	require.Len(t, got, 1)
	assert.ErrorIs(t, got[0].(provider.Error), sentinel)
}

func TestCreateMessage_NilStreamIsNoResponseStream(t *testing.T) {
	inv := transport.InvokerFunc(func(_ context.Context, _ string, _ []byte) (transport.Stream, error) {
		return nil, nil
	})
	p, err := New(WithInvoker(inv))
	require.NoError(t, err)

	events, err := p.CreateMessage(context.Background(), completionParams())
	require.NoError(t, err)

	got := drain(t, events)
	require.Len(t, got, 1)
	assert.ErrorIs(t, got[0].(provider.Error), ErrNoResponseStream)
}

func TestCreateMessage_AbandonedConsumerStopsProducer(t *testing.T) {
	defer goleak.VerifyNone(t)

	// unbuffered frame source that never ends on its own
	strm := transport.NewChunkStream(0)
	feedCtx, stopFeeding := context.WithCancel(context.Background())
	defer stopFeeding()
	go func() {
		for {
			if err := strm.Send(feedCtx, []byte(`{"type":"content_block_delta","delta":{"text":"x"}}`)); err != nil {
				return
			}
		}
	}()

	p, err := New(WithInvoker(replayInvoker(strm)))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	events, err := p.CreateMessage(ctx, completionParams())
	require.NoError(t, err)

	// consume a little, then walk away
	<-events
	cancel()

	// the producer must close the channel once it notices
	timeout := time.After(2 * time.Second)
	for {
		select {
		case _, ok := <-events:
			if !ok {
				return
			}
		case <-timeout:
			t.Fatal("producer did not shut down after consumer abandonment")
		}
	}
}

func TestCreateMessage_RoutedModelIDReachesInvoker(t *testing.T) {
	var gotModelID string
	inv := transport.InvokerFunc(func(_ context.Context, modelID string, _ []byte) (transport.Stream, error) {
		gotModelID = modelID
		return transport.Replay(happyFrames()...), nil
	})

	p, err := New(
		WithModel("amazon.nova-pro-v1:0"),
		WithRegion("us-west-2"),
		WithCrossRegionInference(true),
		WithInvoker(inv),
	)
	require.NoError(t, err)

	events, err := p.CreateMessage(context.Background(), completionParams())
	require.NoError(t, err)
	drain(t, events)

	assert.Equal(t, "us.amazon.nova-pro-v1:0", gotModelID)
}

func TestModelHandles(t *testing.T) {
	inv := replayInvoker(transport.Replay())

	m := NovaLite(WithInvoker(inv))
	assert.Equal(t, "amazon.nova-lite-v1:0", m.Name())

	// handles are shared per name
	assert.Same(t, m, Model("amazon.nova-lite-v1:0"))

	// provider is constructed lazily, once
	p := m.Provider()
	require.NotNil(t, p)
	assert.Same(t, p, m.Provider())
}
