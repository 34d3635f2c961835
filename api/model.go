// Package api holds the small set of types shared between the provider
// adapters and the code that dispatches requests to them.
package api

import "github.com/stratollm/strato/provider"

// Model is a handle to a concrete backend model: its identifier plus the
// provider that knows how to talk to it. Handles are cheap and safe to pass
// around; the underlying provider is constructed lazily.
type Model interface {
	Name() string
	Provider() provider.Provider
}
