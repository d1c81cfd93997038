package http

import (
	"crypto/tls"
	"net"
	"net/http"
	"time"

	"github.com/quic-go/quic-go"
	"github.com/quic-go/quic-go/http3"
	"golang.org/x/net/http2"
)

// TransportConfig configures the round tripper beneath Client.
type TransportConfig struct {
	// EnableHTTP2 negotiates HTTP/2 via ALPN on TLS connections.
	EnableHTTP2 bool

	// EnableHTTP3 tries HTTP/3 over QUIC first for https URLs and falls back
	// to the TCP transport on failure. Experimental.
	EnableHTTP3 bool

	DialTimeout           time.Duration
	MaxIdleConns          int
	MaxIdleConnsPerHost   int
	IdleConnTimeout       time.Duration
	TLSHandshakeTimeout   time.Duration
	ResponseHeaderTimeout time.Duration
	TLSConfig             *tls.Config
}

// DefaultTransportConfig returns default transport configuration
func DefaultTransportConfig() TransportConfig {
	return TransportConfig{
		EnableHTTP2:           true,
		DialTimeout:           DefaultDialTimeout,
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   10,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: 30 * time.Second,
	}
}

// NewTransport builds a round tripper for config.
func NewTransport(config TransportConfig) http.RoundTripper {
	transport := &http.Transport{
		DialContext: (&net.Dialer{
			Timeout:   config.DialTimeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:          config.MaxIdleConns,
		MaxIdleConnsPerHost:   config.MaxIdleConnsPerHost,
		IdleConnTimeout:       config.IdleConnTimeout,
		TLSHandshakeTimeout:   config.TLSHandshakeTimeout,
		ResponseHeaderTimeout: config.ResponseHeaderTimeout,
		TLSClientConfig:       config.TLSConfig,
	}

	if config.EnableHTTP2 {
		// Falls back to HTTP/1.1 if configuration fails.
		_ = http2.ConfigureTransport(transport)
	}

	if config.EnableHTTP3 {
		return newHTTP3Transport(transport, config.TLSConfig)
	}

	return transport
}

// http3Transport tries QUIC first and falls back to the TCP transport.
type http3Transport struct {
	fallback http.RoundTripper
	quic     *http3.Transport
}

func newHTTP3Transport(fallback http.RoundTripper, tlsConfig *tls.Config) *http3Transport {
	if tlsConfig == nil {
		tlsConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	} else {
		tlsConfig = tlsConfig.Clone()
	}

	return &http3Transport{
		fallback: fallback,
		quic: &http3.Transport{
			TLSClientConfig: tlsConfig,
			QUICConfig:      &quic.Config{Allow0RTT: true},
		},
	}
}

// RoundTrip implements http.RoundTripper.
func (t *http3Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.URL.Scheme == "https" {
		if resp, err := t.quic.RoundTrip(req); err == nil {
			return resp, nil
		}
	}
	return t.fallback.RoundTrip(req)
}

// Close releases QUIC connections.
func (t *http3Transport) Close() error {
	return t.quic.Close()
}

// ProtocolVersion returns the HTTP protocol version from response
func ProtocolVersion(resp *http.Response) string {
	switch resp.ProtoMajor {
	case 3:
		return "HTTP/3"
	case 2:
		return "HTTP/2"
	}
	return "HTTP/1.1"
}
