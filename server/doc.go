// Package server provides the HTTP server: Gin behind an h2c handler, the
// standard middleware stack and the /health and /info endpoints.
//
//	srv := server.New(cfg.Server, log)
//	srv.ApplyMiddleware(metrics)
//	srv.RegisterDefaultEndpoints(cfg.Name, checkers...)
//	handler.Register(srv.Engine())
//	srv.Start(ctx)
//	defer srv.Stop(ctx)
//
// # Middleware
//
//   - Recovery: panics become a 500 with an INTERNAL_ERROR body
//   - RequestID: X-Request-Id generation and context propagation
//   - Tracing: one server span per request, parent of stage and provider spans
//   - RequestLogger: method, path, status and duration per request
//   - Metrics: request count, duration and in-flight gauge
//   - BodySizeLimit: caps upload size when server.max_body_size is set
package server
