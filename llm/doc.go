// Package llm provides a config-driven chat-completion client.
//
// HTTP+JSON backends plug in as a [Dialect] that maps the universal
// [CompletionRequest] and [CompletionResponse] to their wire format, much
// like database/sql drivers. The [Adapter] composes a dialect with the
// httpclient/rest client. SDK-backed backends (llm/gemini) implement
// [Provider] directly and register a factory on the [Registry].
//
//	import _ "github.com/kbukum/meetingnotes/llm/openai"
//
//	reg := llm.NewRegistry()
//	gemini.Register(reg)
//	p, err := reg.Create(cfg.Provider, cfg)
//	text, err := llm.Complete(ctx, p, systemPrompt, transcript)
package llm
