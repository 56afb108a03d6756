package shutdown

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestTokenHandshake(t *testing.T) {
	tok := New()
	stopped := make(chan struct{})

	go func() {
		<-tok.Requested()
		close(stopped)
		tok.Acknowledge()
	}()

	if tok.IsRequested() || tok.IsDone() {
		t.Fatal("expected fresh token to be idle")
	}
	if err := tok.RequestAndWait(context.Background()); err != nil {
		t.Fatalf("RequestAndWait failed: %v", err)
	}

	select {
	case <-stopped:
	default:
		t.Error("expected goroutine to observe the request before done")
	}
	if !tok.IsRequested() || !tok.IsDone() {
		t.Error("expected both transitions to be recorded")
	}
}

func TestTokenIdempotent(t *testing.T) {
	tok := New()
	tok.Request()
	tok.Request()
	tok.Acknowledge()
	tok.Acknowledge()

	if err := tok.Wait(context.Background()); err != nil {
		t.Errorf("expected nil after acknowledge, got %v", err)
	}
}

func TestTokenWaitHonoursContext(t *testing.T) {
	tok := New()
	tok.Request()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := tok.Wait(ctx)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected deadline exceeded, got %v", err)
	}
}
