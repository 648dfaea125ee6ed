// Package httpclient provides a configurable HTTP client with
// authentication, TLS, multipart uploads and status-code classification.
//
// The Client sends JSON or multipart bodies and classifies failures. The rest
// subpackage adds typed JSON helpers on top, and rest.Reason labels failures
// for logs.
//
// # Basic Usage
//
//	client, err := httpclient.New(httpclient.Config{
//	    Name:    "whisper",
//	    BaseURL: "http://localhost:9000",
//	    Timeout: 10 * time.Minute,
//	})
//
//	resp, err := client.Do(ctx, httpclient.Request{
//	    Method: http.MethodPost,
//	    Path:   "/transcribe",
//	    Body: &httpclient.MultipartBody{
//	        Files: []httpclient.FileField{{FieldName: "audio", FileName: "audio.mp3", Path: path}},
//	    },
//	})
//
// Non-2xx responses return the response together with an *Error; use
// ToAppError to lift it into the application error taxonomy.
package httpclient
