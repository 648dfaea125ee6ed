// Package transcription defines the provider interface and common types
// for speech-to-text backends.
package transcription

import (
	"github.com/kbukum/meetingnotes/provider"
)

// Provider is the interface transcription backends implement. It is a plain
// RequestResponse so the provider middleware applies unchanged.
type Provider interface {
	provider.RequestResponse[Request, Response]
}
