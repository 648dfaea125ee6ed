package httpclient

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"os"
)

// TLSConfig configures the client transport. It is mainly for self-hosted
// backends such as a whisper sidecar behind a private CA.
type TLSConfig struct {
	// CAFile is a PEM bundle added to the system roots.
	CAFile string `yaml:"ca_file" mapstructure:"ca_file"`
	// InsecureSkipVerify disables certificate verification. Development only.
	InsecureSkipVerify bool `yaml:"insecure_skip_verify" mapstructure:"insecure_skip_verify"`
	// ServerName overrides the SNI server name.
	ServerName string `yaml:"server_name" mapstructure:"server_name"`
}

// Validate checks that referenced files exist.
func (t *TLSConfig) Validate() error {
	if t.CAFile != "" {
		if _, err := os.Stat(t.CAFile); err != nil {
			return fmt.Errorf("httpclient: tls.ca_file: %w", err)
		}
	}
	return nil
}

// Build returns a *tls.Config, or nil when nothing is configured.
func (t *TLSConfig) Build() (*tls.Config, error) {
	if t == nil || (t.CAFile == "" && !t.InsecureSkipVerify && t.ServerName == "") {
		return nil, nil
	}
	cfg := &tls.Config{
		MinVersion:         tls.VersionTLS12,
		InsecureSkipVerify: t.InsecureSkipVerify, //nolint:gosec // opt-in for development
		ServerName:         t.ServerName,
	}
	if t.CAFile != "" {
		pem, err := os.ReadFile(t.CAFile)
		if err != nil {
			return nil, fmt.Errorf("httpclient: read ca file: %w", err)
		}
		pool, err := x509.SystemCertPool()
		if err != nil || pool == nil {
			pool = x509.NewCertPool()
		}
		if !pool.AppendCertsFromPEM(pem) {
			return nil, fmt.Errorf("httpclient: no certificates found in %s", t.CAFile)
		}
		cfg.RootCAs = pool
	}
	return cfg, nil
}
