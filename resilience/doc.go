// Package resilience retries operations with exponential backoff. The
// database component uses it to connect while a server is still starting:
//
//	err := resilience.RetryFunc(ctx, resilience.RetryConfig{
//		MaxAttempts:    5,
//		InitialBackoff: time.Second,
//		RetryIf:        IsRetryableError,
//	}, connect)
package resilience
