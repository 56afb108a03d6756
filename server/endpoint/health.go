// Package endpoint provides the probe handlers the server mounts by default.
package endpoint

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/appkit/component"
)

// Aggregate status values reported by /health.
const (
	StatusOK        = "OK"
	StatusDegraded  = "DEGRADED"
	StatusUnhealthy = "UNHEALTHY"
)

// HealthChecker returns the health of the components behind a service.
type HealthChecker func(ctx context.Context) []component.Health

// FromHandles builds a HealthChecker over the handles returned by list,
// asking each one that implements component.HealthChecker. skip is left out
// so a server does not report on itself.
func FromHandles(list func() []*component.Handle, skip component.Component) HealthChecker {
	return func(ctx context.Context) []component.Health {
		var out []component.Health
		for _, h := range list() {
			c := h.Component()
			if c == skip {
				continue
			}
			hc, ok := c.(component.HealthChecker)
			if !ok {
				continue
			}
			ch := hc.Health(ctx)
			if ch.Name == "" {
				ch.Name = h.Key().String()
			}
			out = append(out, ch)
		}
		return out
	}
}

// Aggregate folds component statuses into one value. Any unhealthy
// component wins over a degraded one.
func Aggregate(components []component.Health) string {
	status := StatusOK
	for _, ch := range components {
		switch ch.Status {
		case component.StatusUnhealthy:
			return StatusUnhealthy
		case component.StatusDegraded:
			status = StatusDegraded
		}
	}
	return status
}

// Health reports OK together with the health of every component checker
// returns. Unhealthy components turn the response into a 503.
func Health(serviceName string, checker HealthChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		var components []component.Health
		if checker != nil {
			components = checker(c.Request.Context())
		}
		status := Aggregate(components)

		httpStatus := http.StatusOK
		if status == StatusUnhealthy {
			httpStatus = http.StatusServiceUnavailable
		}
		c.JSON(httpStatus, gin.H{
			"status":     status,
			"service":    serviceName,
			"timestamp":  time.Now().UTC().Format(time.RFC3339),
			"components": components,
		})
	}
}
