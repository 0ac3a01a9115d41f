package httpsig

import (
	"fmt"
	"maps"
	"slices"
	"strings"
)

// RequestTarget is the pseudo-header name that covers the request method
// and target in the signing string.
const RequestTarget = "(request-target)"

// methods are the HTTP/1.1 request methods accepted by NewRequest.
var methods = []string{"get", "head", "post", "put", "delete", "connect", "options", "trace", "patch"}

// Request is the framework-neutral view of an HTTP request that signing
// and verification operate on. It is immutable once built.
type Request struct {
	method  string
	target  string
	headers map[string][]string
}

// NewRequest builds a Request.
//
// method is case-insensitive and must be one of the HTTP/1.1 methods.
// target is the path and query exactly as sent on the wire, e.g.
// "/foo?bar=baz". headers maps header names to their values in the order
// they appear in the request; names are matched case-insensitively.
func NewRequest(method, target string, headers map[string][]string) (*Request, error) {
	m := strings.ToLower(method)
	if !slices.Contains(methods, m) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidMethod, method)
	}

	normalized := make(map[string][]string, len(headers))
	for _, name := range slices.Sorted(maps.Keys(headers)) {
		key := strings.ToLower(name)
		normalized[key] = append(normalized[key], headers[name]...)
	}

	return &Request{method: m, target: target, headers: normalized}, nil
}

// Method returns the lowercased request method.
func (r *Request) Method() string { return r.method }

// Target returns the request path and query.
func (r *Request) Target() string { return r.target }

// Header returns the values of the named header in request order. The
// returned slice must not be modified.
func (r *Request) Header(name string) []string {
	return r.headers[strings.ToLower(name)]
}

// HasHeader reports whether the request carries at least one value for
// the named header.
func (r *Request) HasHeader(name string) bool {
	return len(r.Header(name)) > 0
}

// HeaderNames returns the lowercased header names in sorted order.
func (r *Request) HeaderNames() []string {
	return slices.Sorted(maps.Keys(r.headers))
}

// Equal reports whether r and other describe the same request.
func (r *Request) Equal(other *Request) bool {
	if r == nil || other == nil {
		return r == other
	}

	return r.method == other.method &&
		r.target == other.target &&
		maps.EqualFunc(r.headers, other.headers, slices.Equal[[]string])
}

// requestTargetValue renders the value of the (request-target)
// pseudo-header: lowercased method, a space, then the target.
func requestTargetValue(r *Request) string {
	return r.method + " " + r.target
}
