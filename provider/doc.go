// Package provider defines the small interfaces external backends implement
// and the middleware that wraps them.
//
// Interaction patterns:
//   - RequestResponse[I, O]: one input, one output (HTTP API call, subprocess)
//   - Sink[I]: one input, no output (webhook)
//
// Middleware[I, O] wraps a RequestResponse. Use Chain to compose:
//
//	wrapped := provider.Chain(
//	    provider.WithLogging[In, Out](log),
//	    provider.WithMetrics[In, Out](metrics),
//	    provider.WithTracing[In, Out]("transcription"),
//	)(raw)
//
// Registry maps backend names from config to factories:
//
//	reg := provider.NewRegistry[Config, Provider]()
//	reg.RegisterFactory("openai", newOpenAI)
//	p, err := reg.Create(cfg.Provider, cfg)
package provider
