// Package rest provides a JSON-focused REST client built on httpclient.
//
// It inherits auth, TLS and error classification from httpclient and adds
// typed helpers for common REST operations:
//
//	client, _ := rest.New(httpclient.Config{
//	    Name:    "discord",
//	    Timeout: 10 * time.Second,
//	})
//
//	_, err := rest.Post[struct{}](ctx, client, webhookURL, map[string]string{"content": "hi"})
package rest
