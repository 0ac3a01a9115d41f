package httpsig

import (
	"bufio"
	"bytes"
	"fmt"
	"maps"
	"net/http"
	"strings"
)

// Built-in adapter names.
const (
	AdapterNetHTTP   = "net_http"
	AdapterPlaintext = "plaintext"
)

// Adapter converts a library specific request object into a Request.
type Adapter interface {
	Adapt(req any) (*Request, error)
}

// AdapterFunc is an ordinary function used as an Adapter.
type AdapterFunc func(req any) (*Request, error)

// Adapt calls f(req).
func (f AdapterFunc) Adapt(req any) (*Request, error) { return f(req) }

// Adapters maps adapter names to adapters.
type Adapters map[string]Adapter

// DefaultAdapters returns a new table holding the net_http and plaintext
// adapters.
func DefaultAdapters() Adapters {
	return Adapters{
		AdapterNetHTTP:   NetHTTPAdapter(),
		AdapterPlaintext: PlaintextAdapter(),
	}
}

// Lookup returns the adapter registered under name, or an
// UnsupportedAdapter error.
func (t Adapters) Lookup(name string) (Adapter, error) {
	a, ok := t[name]
	if !ok || a == nil {
		return nil, newError(KindUnsupportedAdapter, name)
	}

	return a, nil
}

// NetHTTPAdapter adapts *http.Request values, both outgoing client
// requests and incoming server requests.
//
// The request target is the raw request URI when the request was read by
// a server, otherwise URL.RequestURI(). The host header is taken from
// Request.Host (or URL.Host) because net/http keeps it out of the header
// map.
func NetHTTPAdapter() Adapter {
	return AdapterFunc(func(req any) (*Request, error) {
		r, ok := req.(*http.Request)
		if !ok || r == nil {
			return nil, fmt.Errorf("httpsig: net_http adapter: unexpected request type %T", req)
		}

		return FromHTTPRequest(r)
	})
}

// FromHTTPRequest builds a Request from an *http.Request.
//
// An empty method means GET, as it does for the net/http client. The host
// line is Request.Host (or URL.Host) because that is what goes on the
// wire; a Host entry in the header map is used only when both are empty.
func FromHTTPRequest(r *http.Request) (*Request, error) {
	method := r.Method
	if method == "" {
		method = http.MethodGet
	}

	headers := maps.Clone(map[string][]string(r.Header))
	if headers == nil {
		headers = make(map[string][]string, 1)
	}

	if host := requestHost(r); host != "" {
		for name := range headers {
			if strings.EqualFold(name, "host") {
				delete(headers, name)
			}
		}

		headers["host"] = []string{host}
	}

	return NewRequest(method, requestURI(r), headers)
}

// requestHost returns the host the request is addressed to.
func requestHost(r *http.Request) string {
	if r.Host != "" {
		return r.Host
	}

	if r.URL != nil {
		return r.URL.Host
	}

	return ""
}

// requestURI returns the path and query of the request as sent on the
// wire.
func requestURI(r *http.Request) string {
	if strings.HasPrefix(r.RequestURI, "/") {
		return r.RequestURI
	}

	if r.URL == nil {
		return "/"
	}

	return r.URL.RequestURI()
}

// PlaintextAdapter adapts raw HTTP/1.x requests given as a string or
// []byte. Only the request line and headers are read.
func PlaintextAdapter() Adapter {
	return AdapterFunc(func(req any) (*Request, error) {
		var raw []byte

		switch v := req.(type) {
		case string:
			raw = []byte(v)
		case []byte:
			raw = v
		default:
			return nil, fmt.Errorf("httpsig: plaintext adapter: unexpected request type %T", req)
		}

		r, err := http.ReadRequest(bufio.NewReader(bytes.NewReader(raw)))
		if err != nil {
			return nil, fmt.Errorf("httpsig: plaintext adapter: %w", err)
		}

		return FromHTTPRequest(r)
	})
}
