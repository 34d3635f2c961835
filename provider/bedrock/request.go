package bedrock

import (
	"fmt"

	json "github.com/goccy/go-json"
	"github.com/stratollm/strato/messages"
)

const (
	// protocol version tag the backend expects on every invoke payload
	anthropicVersion = "bedrock-2023-05-31"

	// output bound applied when the model declares no maximum of its own
	fallbackMaxTokens = 8192
)

type wireMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type cacheControl struct {
	Type string `json:"type"`
}

type performanceConfig struct {
	Latency string `json:"latency"`
}

// invokeRequest is the JSON body handed to the transport. It is built fresh
// per call and never retained.
type invokeRequest struct {
	AnthropicVersion  string             `json:"anthropic_version"`
	Messages          []wireMessage      `json:"messages"`
	System            string             `json:"system"`
	MaxTokens         int                `json:"max_tokens"`
	Temperature       float64            `json:"temperature"`
	CacheControl      *cacheControl      `json:"cache_control,omitempty"`
	PerformanceConfig *performanceConfig `json:"performance_config,omitempty"`
}

// buildRequest assembles the wire payload for one message creation call and
// returns the routed model id alongside the marshaled body. Temperature is
// pinned to 0 for deterministic decoding; it is not configurable here.
func buildRequest(system string, msgs []messages.Message, cfg ModelConfig, crossRegion bool, region string) (string, []byte, error) {
	modelID := ApplyRoutingPrefix(cfg.ID, region, crossRegion)

	wireMsgs := make([]wireMessage, len(msgs))
	for i, msg := range msgs {
		content := msg.Content.Content
		if !msg.Content.IsText() {
			content = flattenParts(msg.Content.Parts)
		}
		wireMsgs[i] = wireMessage{
			Role:    string(msg.Role),
			Content: content,
		}
	}

	maxTokens := cfg.Info.MaxTokens
	if maxTokens <= 0 {
		maxTokens = fallbackMaxTokens
	}

	req := invokeRequest{
		AnthropicVersion: anthropicVersion,
		Messages:         wireMsgs,
		System:           system,
		MaxTokens:        maxTokens,
		Temperature:      0,
	}

	if IsNovaFamily(cfg.ID) {
		// cache_control must be entirely absent when the model has no prompt
		// cache, not present-but-disabled
		if cfg.Info.SupportsPromptCache {
			req.CacheControl = &cacheControl{Type: "ephemeral"}
		}
		req.PerformanceConfig = &performanceConfig{Latency: "optimized"}
	}

	payload, err := json.Marshal(req)
	if err != nil {
		return "", nil, fmt.Errorf("failed to marshal invoke request: %w", err)
	}
	return modelID, payload, nil
}
