package redis

import (
	"context"
	"crypto/tls"
	"testing"

	"github.com/alicebob/miniredis/v2"

	"github.com/kbukum/appkit/config"
	"github.com/kbukum/appkit/errors"
	"github.com/kbukum/appkit/logger"
	"github.com/kbukum/appkit/testutil"
)

func newComponent(t *testing.T, section map[string]interface{}, opts ...Option) (*Component, *config.Config) {
	t.Helper()
	cfg := config.FromMap(map[string]interface{}{Section: section})
	c, err := NewComponent(cfg, append([]Option{WithLogger(logger.Nop())}, opts...)...)
	if err != nil {
		t.Fatalf("NewComponent() failed: %v", err)
	}
	return c, cfg
}

func TestComponentLifecycle(t *testing.T) {
	mini := miniredis.RunT(t)
	ctx := context.Background()

	c, cfg := newComponent(t, map[string]interface{}{"addr": mini.Addr(), "pool_size": 4})
	if err := c.Init(ctx, cfg, ""); err != nil {
		t.Fatalf("Init() failed: %v", err)
	}

	if err := c.Client().Set(ctx, "greeting", "hello", 0); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if got, _ := mini.Get("greeting"); got != "hello" {
		t.Errorf("expected hello in server, got %q", got)
	}
	if n, _ := c.Client().Exists(ctx, "greeting"); n != 1 {
		t.Errorf("expected key to exist, got %d", n)
	}

	if h := c.Health(ctx); h.Status != "healthy" {
		t.Errorf("expected healthy, got %s (%s)", h.Status, h.Message)
	}
	if d := c.Describe(); d.Details != mini.Addr()+" db=0 pool=4" {
		t.Errorf("unexpected description %q", d.Details)
	}

	if err := c.Shutdown(ctx); err != nil {
		t.Fatalf("Shutdown() failed: %v", err)
	}
	if !c.Client().Closed() {
		t.Error("expected client closed")
	}
	if err := c.Shutdown(ctx); err != nil {
		t.Errorf("second Shutdown() should be a no-op, got %v", err)
	}
	if h := c.Health(ctx); h.Status != "unhealthy" {
		t.Errorf("expected unhealthy after shutdown, got %s", h.Status)
	}
}

func TestInitUnreachable(t *testing.T) {
	mini := miniredis.RunT(t)
	addr := mini.Addr()
	mini.Close()

	c, cfg := newComponent(t, map[string]interface{}{"addr": addr, "max_retries": -1, "dial_timeout": "100ms"})
	err := c.Init(context.Background(), cfg, "")
	if !errors.IsCode(err, errors.ErrCodeUnavailable) {
		t.Fatalf("expected SERVICE_UNAVAILABLE, got %v", err)
	}
	if !c.Client().Closed() {
		t.Error("expected client closed after failed Init")
	}
}

func TestNewComponentErrors(t *testing.T) {
	tests := []struct {
		name string
		cfg  map[string]interface{}
		code errors.ErrorCode
	}{
		{"missing section", map[string]interface{}{}, errors.ErrCodeConfigSectionMissing},
		{"missing addr", map[string]interface{}{Section: map[string]interface{}{"db": 1}}, errors.ErrCodeInvalidConfig},
		{"bad addr", map[string]interface{}{Section: map[string]interface{}{"addr": "nohost"}}, errors.ErrCodeInvalidConfig},
		{"bad timeout", map[string]interface{}{Section: map[string]interface{}{"addr": "localhost:6379", "read_timeout": "later"}}, errors.ErrCodeInvalidConfig},
		{"tls key without cert", map[string]interface{}{Section: map[string]interface{}{
			"addr": "localhost:6379", "tls": map[string]interface{}{"enabled": true, "key_file": "client.key"},
		}}, errors.ErrCodeInvalidConfig},
		{"tls missing ca", map[string]interface{}{Section: map[string]interface{}{
			"addr": "localhost:6379", "tls": map[string]interface{}{"ca_file": "/nonexistent/ca.pem"},
		}}, errors.ErrCodeInvalidConfig},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewComponent(config.FromMap(tc.cfg), WithLogger(logger.Nop()))
			if !errors.IsCode(err, tc.code) {
				t.Errorf("expected %s, got %v", tc.code, err)
			}
		})
	}
}

func TestWithSection(t *testing.T) {
	mini := miniredis.RunT(t)
	cfg := config.FromMap(map[string]interface{}{
		"cache": map[string]interface{}{"addr": mini.Addr(), "db": 2},
	})
	c, err := NewComponent(cfg, WithSection("cache"), WithLogger(logger.Nop()))
	if err != nil {
		t.Fatalf("NewComponent() failed: %v", err)
	}
	if c.Client().Config().DB != 2 {
		t.Errorf("expected db 2 from cache section, got %d", c.Client().Config().DB)
	}
	_ = c.Shutdown(context.Background())
}

func TestInitOverTLS(t *testing.T) {
	certs := testutil.GenerateCerts(t)
	pair, err := tls.LoadX509KeyPair(certs.CertFile, certs.KeyFile)
	if err != nil {
		t.Fatal(err)
	}
	mini, err := miniredis.RunTLS(&tls.Config{Certificates: []tls.Certificate{pair}, MinVersion: tls.VersionTLS12})
	if err != nil {
		t.Fatalf("miniredis.RunTLS: %v", err)
	}
	t.Cleanup(mini.Close)

	c, cfg := newComponent(t, map[string]interface{}{
		"addr": mini.Addr(),
		"tls":  map[string]interface{}{"ca_file": certs.CAFile, "server_name": "localhost"},
	})
	if err := c.Init(context.Background(), cfg, ""); err != nil {
		t.Fatalf("Init over TLS: %v", err)
	}
	defer c.Shutdown(context.Background())

	if err := c.Client().Set(context.Background(), "k", "v", 0); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if got, _ := mini.Get("k"); got != "v" {
		t.Errorf("expected v, got %q", got)
	}
}
