package httpsig

import (
	"net/http"
	"slices"
	"strings"
	"time"
)

// TransportConfig configures client-side request signing.
type TransportConfig struct {
	// Signer signs outgoing requests. It must be built with the net_http
	// adapter. Required.
	Signer *Signer

	// KeyID is the key store entry used to sign. Required.
	KeyID string

	// Algorithm is the algorithm name, e.g. HMACSHA256. Required.
	Algorithm string

	// Headers lists the header names to sign. Defaults to DefaultHeaders.
	Headers []string

	// DigestAlgorithm, when set, adds a Digest header for the request body
	// and appends "digest" to the signed headers.
	DigestAlgorithm DigestAlgorithm
}

// Transport is an http.RoundTripper that signs outgoing requests and sets
// the Signature header.
//
// Use NewTransport to create a Transport with a configured *http.Transport
// for proxy, TLS, and timeout settings.
type Transport struct {
	base   http.RoundTripper
	config TransportConfig
	now    func() time.Time
}

// NewTransport creates a signing Transport that delegates to base after
// signing each request. When base is nil, a clone of http.DefaultTransport
// is used, giving an independent connection pool with default proxy, TLS,
// and timeout settings.
//
// Configure base for custom proxy (HTTP/SOCKS), TLS, timeouts, and
// connection pool settings:
//
//	base := &http.Transport{
//	    Proxy:           http.ProxyFromEnvironment,
//	    TLSClientConfig: &tls.Config{MinVersion: tls.VersionTLS13},
//	    IdleConnTimeout: 90 * time.Second,
//	}
//	transport, err := httpsig.NewTransport(base, httpsig.TransportConfig{
//	    Signer:    signer,
//	    KeyID:     "app_1.v1",
//	    Algorithm: httpsig.RSASHA256,
//	})
//
// It returns ErrNoSigner if TransportConfig.Signer is nil.
func NewTransport(base *http.Transport, cfg TransportConfig) (*Transport, error) {
	if cfg.Signer == nil {
		return nil, ErrNoSigner
	}

	var rt http.RoundTripper
	if base != nil {
		rt = base
	} else {
		rt = http.DefaultTransport.(*http.Transport).Clone()
	}

	headers := cfg.Headers
	if len(headers) == 0 {
		headers = DefaultHeaders
	}

	lowered := make([]string, len(headers))
	for i, h := range headers {
		lowered[i] = strings.ToLower(h)
	}

	headers = lowered
	if cfg.DigestAlgorithm != "" && !slices.Contains(headers, DigestHeader) {
		headers = append(headers, DigestHeader)
	}

	cfg.Headers = headers

	return &Transport{
		base:   rt,
		config: cfg,
		now:    time.Now,
	}, nil
}

// RoundTrip signs the request and then delegates to the base transport.
// The caller's request is cloned before it is signed.
// When GetBody is available, the clone receives its own body copy so
// that digest computation does not consume the caller's body.
//
// A Date header is added when the request has none.
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	clone := req.Clone(req.Context())

	if clone.Body != nil && req.GetBody != nil {
		body, err := req.GetBody()
		if err != nil {
			closeBody(req)
			return nil, err
		}

		clone.Body = body
		closeBody(req)
	}

	if clone.Header.Get("Date") == "" {
		clone.Header.Set("Date", t.now().UTC().Format(http.TimeFormat))
	}

	if t.config.DigestAlgorithm != "" {
		if err := SetDigest(clone, t.config.DigestAlgorithm); err != nil {
			closeBody(clone)
			closeBody(req)
			return nil, err
		}
	}

	sig, err := t.config.Signer.Sign(clone.Context(), clone, t.config.KeyID, t.config.Algorithm, t.config.Headers...)
	if err != nil {
		closeBody(clone)
		closeBody(req)
		return nil, err
	}

	clone.Header.Set("Signature", sig)

	return t.base.RoundTrip(clone)
}

// closeBody closes the request body, if any. A RoundTripper must close it
// even when the request is never sent.
func closeBody(r *http.Request) {
	if r.Body != nil {
		_ = r.Body.Close()
	}
}
