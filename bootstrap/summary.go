package bootstrap

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/kbukum/appkit/component"
)

// ComponentInfo is one line of the startup summary.
type ComponentInfo struct {
	Key     component.Key
	Name    string
	Type    string
	Details string
	Port    int
	Health  *component.Health
}

// Summary renders the startup summary from the published Store.
type Summary struct {
	serviceName     string
	strategy        string
	startupDuration time.Duration
}

// NewSummary creates a summary for serviceName.
func NewSummary(serviceName string) *Summary {
	return &Summary{serviceName: serviceName}
}

// SetStartupDuration records the total startup time.
func (s *Summary) SetStartupDuration(d time.Duration) {
	s.startupDuration = d
}

// SetStrategy records the strategy the run used.
func (s *Summary) SetStrategy(strategy string) {
	s.strategy = strategy
}

// Collect describes every component in store, in construction order.
func (s *Summary) Collect(ctx context.Context, store *component.Store) []ComponentInfo {
	handles := store.Handles()
	infos := make([]ComponentInfo, 0, len(handles))
	for _, h := range handles {
		info := ComponentInfo{Key: h.Key(), Name: h.Key().String()}
		if d, ok := h.Component().(component.Describable); ok {
			desc := d.Describe()
			if desc.Name != "" {
				info.Name = desc.Name
				if h.Key().Label != component.DefaultLabel {
					info.Name += "[" + h.Key().Label + "]"
				}
			}
			info.Type = desc.Type
			info.Details = desc.Details
			info.Port = desc.Port
		}
		if hc, ok := h.Component().(component.HealthChecker); ok {
			health := hc.Health(ctx)
			info.Health = &health
		}
		infos = append(infos, info)
	}
	return infos
}

// Display writes the summary to w.
func (s *Summary) Display(ctx context.Context, w io.Writer, store *component.Store) {
	infos := s.Collect(ctx, store)

	fmt.Fprintf(w, "\n")
	fmt.Fprintf(w, "🚀 %s started in %.2fs", s.serviceName, s.startupDuration.Seconds())
	if s.strategy != "" {
		fmt.Fprintf(w, " (strategy: %s)", s.strategy)
	}
	fmt.Fprintf(w, "\n\n")

	fmt.Fprintf(w, "📦 Components\n")
	if len(infos) == 0 {
		fmt.Fprintf(w, "   └── No components initialized\n")
	}
	healthy, checked := 0, 0
	for i, c := range infos {
		prefix := treePrefix(i, len(infos))
		icon := "✅"
		if c.Health != nil {
			checked++
			icon = healthStatusIcon(c.Health.Status)
			if c.Health.Status == component.StatusHealthy {
				healthy++
			}
		}
		line := c.Name
		if c.Type != "" {
			line += " <" + c.Type + ">"
		}
		details := c.Details
		if c.Port > 0 {
			details = strings.TrimSpace(fmt.Sprintf("%s (:%d)", details, c.Port))
		}
		if details != "" {
			line += ": " + details
		}
		fmt.Fprintf(w, "   %s %s %s\n", prefix, icon, line)
	}

	var routes []component.Route
	for _, h := range store.Handles() {
		if rp, ok := h.Component().(component.RouteProvider); ok {
			routes = append(routes, rp.Routes()...)
		}
	}
	if len(routes) > 0 {
		fmt.Fprintf(w, "\n🌐 Routes (%d)\n", len(routes))
		for i, r := range routes {
			fmt.Fprintf(w, "   %s %-7s %s → %s\n", treePrefix(i, len(routes)), r.Method, r.Path, r.Handler)
		}
	}

	if checked > 0 {
		fmt.Fprintf(w, "\n")
		if healthy == checked {
			fmt.Fprintf(w, "✅ All components healthy (%d/%d)\n", healthy, checked)
		} else {
			fmt.Fprintf(w, "⚠️  Some components have issues (%d/%d healthy)\n", healthy, checked)
		}
	}
	fmt.Fprintf(w, "\n")
}

func treePrefix(i, n int) string {
	if i == n-1 {
		return "└──"
	}
	return "├──"
}

func healthStatusIcon(status component.HealthStatus) string {
	switch status {
	case component.StatusHealthy:
		return "✅"
	case component.StatusDegraded:
		return "⚠️"
	case component.StatusUnhealthy:
		return "❌"
	default:
		return "❓"
	}
}
