package httpclient

// Request describes an outbound HTTP request.
type Request struct {
	// Method is the HTTP method.
	Method string
	// Path is appended to the client's BaseURL. Can be a full URL if BaseURL is empty.
	Path string
	// Body is nil, a *MultipartBody, or any value that will be JSON-encoded.
	Body any
}

// Response is the result of an HTTP request.
type Response struct {
	// StatusCode is the HTTP status code.
	StatusCode int
	// Headers are the response headers.
	Headers map[string]string
	// Body is the raw response body.
	Body []byte
}
