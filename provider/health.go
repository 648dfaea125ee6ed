package provider

import (
	"context"

	"github.com/kbukum/meetingnotes/observability"
)

// HealthCheck adapts a Provider's IsAvailable into an observability health
// check. An unavailable provider reports as degraded unless critical is set.
func HealthCheck(p Provider, critical bool) observability.HealthChecker {
	return healthCheck{p: p, critical: critical}
}

type healthCheck struct {
	p        Provider
	critical bool
}

func (h healthCheck) CheckHealth(ctx context.Context) observability.Health {
	if h.p.IsAvailable(ctx) {
		return observability.Health{Name: h.p.Name(), Status: observability.HealthStatusUp}
	}
	status := observability.HealthStatusDegraded
	if h.critical {
		status = observability.HealthStatusDown
	}
	return observability.Health{Name: h.p.Name(), Status: status, Message: "provider unavailable"}
}
