package httpclient

import "net/http"

// AuthConfig sets credentials on outgoing requests. A nil *AuthConfig sends none.
type AuthConfig struct {
	// Header is the header the credential is written to.
	Header string
	// Value is the full header value.
	Value string
}

// BearerAuth sends "Authorization: Bearer <token>", as OpenAI-compatible APIs expect.
func BearerAuth(token string) *AuthConfig {
	return &AuthConfig{Header: "Authorization", Value: "Bearer " + token}
}

// HeaderAuth sends key in the named header, e.g. a gateway key in front of a
// self-hosted whisper or ollama instance.
func HeaderAuth(name, key string) *AuthConfig {
	if name == "" {
		name = "X-API-Key"
	}
	return &AuthConfig{Header: name, Value: key}
}

func (a *AuthConfig) apply(req *http.Request) {
	if a == nil || a.Header == "" {
		return
	}
	req.Header.Set(a.Header, a.Value)
}
