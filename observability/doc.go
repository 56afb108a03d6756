// Package observability wires OpenTelemetry into an application.
//
// The Component reads the optional `tracing` section, builds a tracer and
// a meter provider at Init and installs them as the otel globals, so spans
// started through StartSpan and the orchestrator's own lifecycle spans are
// exported. With an endpoint set both providers export over OTLP HTTP:
//
//	tracing:
//	  service_name: orders
//	  endpoint: localhost:4318
//	  insecure: true
//	  sample_rate: 0.25
//
// Shutdown flushes and stops both providers.
package observability
