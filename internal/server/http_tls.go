package server

import (
	"crypto/tls"
	"fmt"
	"net/http"
)

// configureTLS sets up server-side TLS from certificate files when
// enabled
func (s *Server) configureTLS(httpServer *http.Server) error {
	addr := httpServer.Addr

	if !s.TLSConfig.Enabled {
		fmt.Printf("Starting server on http://%s\n", addr)
		fmt.Println("TLS: Disabled (HTTP only)")
		return nil
	}

	fmt.Printf("Starting server with HTTPS on https://%s\n", addr)

	if s.TLSConfig.CertFile == "" || s.TLSConfig.KeyFile == "" {
		return fmt.Errorf("TLS certificate and key files are required when TLS is enabled")
	}

	// Fail fast on unreadable or mismatched certificates; the files
	// themselves are passed to ListenAndServeTLS.
	if _, err := tls.LoadX509KeyPair(s.TLSConfig.CertFile, s.TLSConfig.KeyFile); err != nil {
		return fmt.Errorf("failed to load server cert/key: %w", err)
	}

	httpServer.TLSConfig = &tls.Config{
		MinVersion: minTLSVersion(s.TLSConfig.MinVersion),
	}

	return nil
}

// minTLSVersion maps the configured version string to a tls constant
func minTLSVersion(version string) uint16 {
	switch version {
	case "1.3":
		return tls.VersionTLS13
	default:
		return tls.VersionTLS12
	}
}
