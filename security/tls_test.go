package security

import (
	"crypto/tls"
	"os"
	"path/filepath"
	"testing"

	"github.com/kbukum/appkit/testutil"
)

func TestIsEnabled(t *testing.T) {
	tests := []struct {
		name string
		cfg  *TLSConfig
		want bool
	}{
		{"nil", nil, false},
		{"zero", &TLSConfig{}, false},
		{"enabled", &TLSConfig{Enabled: true}, true},
		{"skip verify", &TLSConfig{SkipVerify: true}, true},
		{"ca file", &TLSConfig{CAFile: "ca.pem"}, true},
		{"server name", &TLSConfig{ServerName: "cache"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cfg.IsEnabled(); got != tt.want {
				t.Errorf("IsEnabled() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBuildDisabled(t *testing.T) {
	var nilCfg *TLSConfig
	for _, c := range []*TLSConfig{nilCfg, {}} {
		got, err := c.Build()
		if err != nil || got != nil {
			t.Errorf("Build() = (%v, %v), want (nil, nil)", got, err)
		}
	}
}

func TestBuild(t *testing.T) {
	certs := testutil.GenerateCerts(t)

	got, err := (&TLSConfig{
		CAFile:     certs.CAFile,
		CertFile:   certs.CertFile,
		KeyFile:    certs.KeyFile,
		ServerName: "localhost",
	}).Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if got.RootCAs == nil {
		t.Error("expected RootCAs from ca_file")
	}
	if len(got.Certificates) != 1 {
		t.Errorf("expected one client certificate, got %d", len(got.Certificates))
	}
	if got.ServerName != "localhost" || got.MinVersion != tls.VersionTLS12 {
		t.Errorf("unexpected config %q/%x", got.ServerName, got.MinVersion)
	}
	if got.InsecureSkipVerify {
		t.Error("verification should stay on")
	}
}

func TestBuildErrors(t *testing.T) {
	certs := testutil.GenerateCerts(t)
	garbage := filepath.Join(t.TempDir(), "garbage.pem")
	if err := os.WriteFile(garbage, []byte("not a certificate"), 0o600); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		cfg  TLSConfig
	}{
		{"missing ca", TLSConfig{CAFile: "/nonexistent/ca.pem"}},
		{"garbage ca", TLSConfig{CAFile: garbage}},
		{"cert without key", TLSConfig{CertFile: certs.CertFile}},
		{"key without cert", TLSConfig{Enabled: true, KeyFile: certs.KeyFile}},
		{"mismatched pair", TLSConfig{CertFile: certs.CertFile, KeyFile: certs.CAFile}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tt.cfg.Build(); err == nil {
				t.Error("expected error")
			}
		})
	}
}
