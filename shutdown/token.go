// Package shutdown provides the cooperative stop handshake used by
// components that own a background goroutine.
//
// The owner calls Request and then Wait. The goroutine selects on
// Requested, releases its resources and calls Acknowledge:
//
//	go func() {
//		<-tok.Requested()
//		srv.Shutdown(context.Background())
//		tok.Acknowledge()
//	}()
//
//	tok.Request()
//	return tok.Wait(ctx)
package shutdown

import (
	"context"
	"sync"
)

// Token is a trigger/done pair. Both transitions happen at most once and
// repeated calls are no-ops.
type Token struct {
	requestOnce sync.Once
	doneOnce    sync.Once
	requested   chan struct{}
	done        chan struct{}
}

// New returns an untriggered token.
func New() *Token {
	return &Token{
		requested: make(chan struct{}),
		done:      make(chan struct{}),
	}
}

// Request asks the owning goroutine to stop.
func (t *Token) Request() {
	t.requestOnce.Do(func() { close(t.requested) })
}

// Requested is closed once Request has been called.
func (t *Token) Requested() <-chan struct{} { return t.requested }

// Acknowledge reports that the goroutine finished stopping.
func (t *Token) Acknowledge() {
	t.doneOnce.Do(func() { close(t.done) })
}

// Done is closed once Acknowledge has been called.
func (t *Token) Done() <-chan struct{} { return t.done }

// Wait blocks until Acknowledge or until ctx ends.
func (t *Token) Wait(ctx context.Context) error {
	select {
	case <-t.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// IsRequested reports whether Request has been called.
func (t *Token) IsRequested() bool {
	select {
	case <-t.requested:
		return true
	default:
		return false
	}
}

// IsDone reports whether Acknowledge has been called.
func (t *Token) IsDone() bool {
	select {
	case <-t.done:
		return true
	default:
		return false
	}
}

// RequestAndWait triggers the stop and waits for the acknowledgement.
func (t *Token) RequestAndWait(ctx context.Context) error {
	t.Request()
	return t.Wait(ctx)
}
