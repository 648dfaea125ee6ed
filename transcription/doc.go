// Package transcription defines the speech-to-text provider interface and
// the registry that selects a backend by config.
//
// # Backends
//
//   - transcription/openai: OpenAI audio transcriptions (whisper-1) via go-openai
//   - transcription/whisper: self-hosted faster-whisper HTTP sidecar
//
// # Usage
//
//	reg := transcription.NewRegistry()
//	openai.Register(reg)
//	whisper.Register(reg)
//	p, err := reg.Create(cfg.Provider, cfg)
//	resp, err := p.Execute(ctx, transcription.Request{AudioPath: "audio.mp3"})
package transcription
