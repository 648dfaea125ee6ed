package rest

import "github.com/kbukum/meetingnotes/httpclient"

// Reason labels a request failure for logs: "auth", "not_found",
// "rate_limited", "timeout", "unreachable", "server_error" or "other".
// Webhook callers use it to tell a revoked URL from a transient outage.
func Reason(err error) string {
	switch {
	case err == nil:
		return ""
	case httpclient.IsAuth(err):
		return "auth"
	case httpclient.IsNotFound(err):
		return "not_found"
	case httpclient.IsRateLimit(err):
		return "rate_limited"
	case httpclient.IsTimeout(err):
		return "timeout"
	case httpclient.IsConnection(err):
		return "unreachable"
	case httpclient.IsServerError(err):
		return "server_error"
	default:
		return "other"
	}
}
