// Package httpsigtest provides fixtures and helpers for testing code that
// signs or verifies requests with package httpsig.
//
// Wrap puts a signer in front of the handler under test, and Sign marks
// the requests that should be signed on their way in:
//
//	signer, _ := httpsig.NewSigner(httpsig.Config{
//	    Adapter:  httpsig.AdapterNetHTTP,
//	    KeyStore: httpsigtest.SigningKeys(),
//	})
//	handler := httpsigtest.Wrap(signer, app)
//
//	req := httptest.NewRequest(http.MethodPost, "/v1/foo", nil)
//	handler.ServeHTTP(rec, httpsigtest.Sign(req, httpsigtest.SignOptions{KeyID: httpsigtest.KeyHMAC}))
package httpsigtest

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/vitalvas/reqsign/httpsig"
	"github.com/vitalvas/reqsign/keystore"
)

// Key ids under which the fixture keys are stored.
const (
	KeyRSA  = "test_rsa"
	KeyDSA  = "test_dsa"
	KeyHMAC = "test_hmac"
)

// SampleRequest is a raw request for the plaintext adapter. Its Date
// header is the one the fixture signatures were made over.
const SampleRequest = "POST /foo?param=value&pet=dog HTTP/1.1\r\n" +
	"Host: example.com\r\n" +
	"Date: Thu, 05 Jan 2014 21:31:40 GMT\r\n" +
	"Content-Type: application/json\r\n" +
	"Digest: SHA-256=X48E9qOokqqrvdts8nOJRJN3OWDUoyWxBf7kbu9DBPE=\r\n" +
	"Content-Length: 18\r\n" +
	"\r\n" +
	`{"hello": "world"}`

// SigningKeys returns a key store holding the fixture private keys and the
// HMAC secret.
func SigningKeys() *keystore.Static {
	return keystore.NewStatic(map[string]string{
		KeyRSA:  RSAPrivateKey,
		KeyDSA:  DSAPrivateKey,
		KeyHMAC: HMACSecret,
	})
}

// VerificationKeys returns a key store holding the fixture public keys and
// the HMAC secret.
func VerificationKeys() *keystore.Static {
	return keystore.NewStatic(map[string]string{
		KeyRSA:  RSAPublicKey,
		KeyDSA:  DSAPublicKey,
		KeyHMAC: HMACSecret,
	})
}

// SignOptions selects how Wrap signs a request.
type SignOptions struct {
	// KeyID is the signing key. Required.
	KeyID string

	// Algorithm defaults to hmac-sha256.
	Algorithm string

	// Headers defaults to "(request-target) host date".
	Headers []string
}

type signOptionsKey struct{}

// Sign returns a shallow copy of r marked to be signed by Wrap with opts.
func Sign(r *http.Request, opts SignOptions) *http.Request {
	if opts.Algorithm == "" {
		opts.Algorithm = httpsig.HMACSHA256
	}

	if len(opts.Headers) == 0 {
		opts.Headers = []string{httpsig.RequestTarget, "host", "date"}
	}

	return r.WithContext(context.WithValue(r.Context(), signOptionsKey{}, opts))
}

// Wrap returns a handler that signs requests marked by Sign before passing
// them to next. Marked requests get a Date header when missing and an
// X-Request-Id so failures can be traced in handler logs. A request that
// cannot be signed is answered with 500 and never reaches next.
//
// Unmarked requests pass through untouched.
func Wrap(signer *httpsig.Signer, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		opts, ok := r.Context().Value(signOptionsKey{}).(SignOptions)
		if !ok {
			next.ServeHTTP(w, r)
			return
		}

		if r.Header.Get("Date") == "" {
			r.Header.Set("Date", time.Now().UTC().Format(http.TimeFormat))
		}

		if r.Header.Get("X-Request-Id") == "" {
			r.Header.Set("X-Request-Id", uuid.NewString())
		}

		sig, err := signer.Sign(r.Context(), r, opts.KeyID, opts.Algorithm, opts.Headers...)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		r.Header.Set("Signature", sig)

		next.ServeHTTP(w, r)
	})
}
