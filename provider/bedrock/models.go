package bedrock

import (
	"sync"

	"github.com/stratollm/strato/api"
	"github.com/stratollm/strato/internal/registry"
	"github.com/stratollm/strato/pkg/stdx"
	"github.com/stratollm/strato/provider"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// DefaultModelID is used when the requested model id is unset or not in the
// catalog.
const DefaultModelID = "amazon.nova-pro-v1:0"

// ModelInfo is the static capability record for one catalog entry. The
// catalog is read-only; this core never mutates it.
type ModelInfo struct {
	// MaxTokens is the model's output token ceiling. Zero means the model
	// declares none and the request builder falls back to a fixed bound.
	MaxTokens int
	// SupportsPromptCache reports whether the model accepts cache-control
	// fields in its request extension.
	SupportsPromptCache bool
}

// ModelConfig pairs a concrete backend model id with its capability record.
type ModelConfig struct {
	ID   string
	Info ModelInfo
}

// catalog keeps registration order so Models() lists entries
// deterministically.
var catalog = func() *orderedmap.OrderedMap[string, ModelInfo] {
	m := orderedmap.New[string, ModelInfo]()
	m.Set("amazon.nova-pro-v1:0", ModelInfo{MaxTokens: 5120, SupportsPromptCache: true})
	m.Set("amazon.nova-lite-v1:0", ModelInfo{MaxTokens: 5120, SupportsPromptCache: true})
	m.Set("amazon.nova-micro-v1:0", ModelInfo{MaxTokens: 5120, SupportsPromptCache: false})
	m.Set("anthropic.claude-3-5-sonnet-20241022-v2:0", ModelInfo{MaxTokens: 8192, SupportsPromptCache: true})
	m.Set("anthropic.claude-3-haiku-20240307-v1:0", ModelInfo{MaxTokens: 4096, SupportsPromptCache: false})
	m.Set("meta.llama3-1-70b-instruct-v1:0", ModelInfo{SupportsPromptCache: false})
	return m
}()

// Resolve maps a requested model id to its catalog entry. An unset or
// unknown id resolves to the default model.
func Resolve(requestedID string) ModelConfig {
	if info, ok := catalog.Get(requestedID); ok {
		return ModelConfig{ID: requestedID, Info: info}
	}
	info, _ := catalog.Get(DefaultModelID)
	return ModelConfig{ID: DefaultModelID, Info: info}
}

// Models returns the full capability catalog in registration order.
func Models() []ModelConfig {
	result := make([]ModelConfig, 0, catalog.Len())
	for pair := catalog.Oldest(); pair != nil; pair = pair.Next() {
		result = append(result, ModelConfig{ID: pair.Key, Info: pair.Value})
	}
	return result
}

var modelRegistry = registry.New[api.Model]()

// NovaPro returns a handle to the Nova Pro model.
func NovaPro(options ...Option) api.Model {
	return Model("amazon.nova-pro-v1:0", options...)
}

// NovaLite returns a handle to the Nova Lite model.
func NovaLite(options ...Option) api.Model {
	return Model("amazon.nova-lite-v1:0", options...)
}

// NovaMicro returns a handle to the Nova Micro model.
func NovaMicro(options ...Option) api.Model {
	return Model("amazon.nova-micro-v1:0", options...)
}

// Model returns a shared handle for the named model. The provider behind the
// handle is constructed lazily on first use with the given options.
func Model(name string, options ...Option) api.Model {
	m, _ := modelRegistry.GetOrAdd(name, func() api.Model {
		return &model{
			name:    name,
			options: options,
		}
	})
	return m
}

var _ api.Model = (*model)(nil)

type model struct {
	name    string
	options []Option

	prov     provider.Provider
	provOnce sync.Once
}

func (m *model) Name() string {
	return m.name
}

func (m *model) Provider() provider.Provider {
	m.provOnce.Do(func() {
		// the handle's name wins over any WithModel in the options
		m.prov = stdx.Must1(New(append(append([]Option{}, m.options...), WithModel(m.name))...))
	})
	return m.prov
}
